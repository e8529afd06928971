package service

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/esglex/esglex/phrase"
)

// DetectPhrasesRequest defines inputs for stage 3. Zero fields fall back to
// the configured values.
type DetectPhrasesRequest struct {
	MinCount  int
	Threshold float64
}

// DetectPhrasesResponse reports the learned merge rules.
type DetectPhrasesResponse struct {
	Skipped  bool
	Bigrams  int
	Trigrams int
	URL      string
}

// DetectPhrases makes two passes over the dumped corpus: the first learns
// bigram merge rules, the second learns trigram rules over bigram-transformed
// sentences. Both frozen models are stored in a single artifact; a present
// artifact skips the stage.
func (s *Service) DetectPhrases(ctx context.Context, req DetectPhrasesRequest) (*DetectPhrasesResponse, error) {
	cfg := s.config.Phrases
	if req.MinCount > 0 {
		cfg.MinCount = req.MinCount
	}
	if req.Threshold > 0 {
		cfg.Threshold = req.Threshold
	}
	response := &DetectPhrasesResponse{URL: s.phrasesURL()}
	if exists, err := s.fs.Exists(ctx, response.URL); err != nil {
		return nil, err
	} else if exists {
		s.logger.Info("phrase artifact present, skipping", "url", response.URL)
		response.Skipped = true
		return response, nil
	}

	options := phrase.Options{
		MinCount:  cfg.MinCount,
		Threshold: cfg.Threshold,
		Delimiter: cfg.Delimiter,
	}
	detector := phrase.NewDetector(options)
	if err := s.eachSentence(ctx, func(sentence []string) {
		detector.Add(sentence)
	}); err != nil {
		return nil, err
	}
	bigram := detector.Model()
	response.Bigrams = len(bigram.Scores)

	trigramDetector := phrase.NewDetector(options)
	if err := s.eachSentence(ctx, func(sentence []string) {
		trigramDetector.Add(bigram.Transform(sentence))
	}); err != nil {
		return nil, err
	}
	trigram := trigramDetector.Model()
	response.Trigrams = len(trigram.Scores)

	if err := phrase.SavePair(ctx, s.fs, response.URL, bigram, trigram); err != nil {
		return nil, fmt.Errorf("phrases: save %v: %w", response.URL, err)
	}
	s.logger.Info("phrase models trained",
		"bigrams", response.Bigrams, "trigrams", response.Trigrams, "url", response.URL)
	return response, nil
}

// eachSentence streams the dumped corpus line by line.
func (s *Service) eachSentence(ctx context.Context, fn func(sentence []string)) error {
	reader, err := s.fs.OpenURL(ctx, s.corpusURL())
	if err != nil {
		return fmt.Errorf("open corpus %v: %w", s.corpusURL(), err)
	}
	defer func() { _ = reader.Close() }()
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		fn(strings.Fields(line))
	}
	return scanner.Err()
}
