package service

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/esglex/esglex/embedding"
	"github.com/esglex/esglex/phrase"
)

// TrainRequest defines inputs for stage 4. Zero fields fall back to the
// configured values.
type TrainRequest struct {
	Dim    int
	Epochs int
}

// TrainResponse reports the trained vocabulary.
type TrainResponse struct {
	Skipped bool
	Words   int
	URL     string
}

// Train applies the phrase models (with the configured forced compounds
// injected) to the dumped corpus, trains word2vec embeddings over the
// transformed text and stores the vocabulary that survives the inclusion
// rule. A present model artifact skips the stage.
func (s *Service) Train(ctx context.Context, req TrainRequest) (*TrainResponse, error) {
	cfg := s.config.Embedding
	if req.Dim > 0 {
		cfg.Dim = req.Dim
	}
	if req.Epochs > 0 {
		cfg.Epochs = req.Epochs
	}
	response := &TrainResponse{URL: s.modelURL()}
	if exists, err := s.fs.Exists(ctx, response.URL); err != nil {
		return nil, err
	} else if exists {
		s.logger.Info("model artifact present, skipping", "url", response.URL)
		response.Skipped = true
		return response, nil
	}

	bigram, trigram, err := phrase.LoadPair(ctx, s.fs, s.phrasesURL())
	if err != nil {
		return nil, fmt.Errorf("train: load phrase models: %w", err)
	}
	bigram.Inject(s.config.Expand.ForcedBigrams...)
	trigram.Inject(s.config.Expand.ForcedTrigrams...)

	sentences, err := s.transformCorpus(ctx, bigram, trigram)
	if err != nil {
		return nil, err
	}
	s.logger.Info("corpus transformed", "sentences", sentences, "url", s.transformedURL())

	// word2vec re-reads the corpus once per epoch, so training streams from
	// the materialized file rather than an in-memory copy.
	corpusReader, closeCorpus, err := s.openSeekable(ctx, s.transformedURL())
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	defer closeCorpus()

	dump := new(bytes.Buffer)
	err = embedding.Train(corpusReader, dump, embedding.TrainOptions{
		Dim:      cfg.Dim,
		Window:   cfg.Window,
		MinCount: cfg.MinCount,
		Epochs:   cfg.Epochs,
		Workers:  cfg.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	model, err := embedding.FromWordVectors(dump, cfg.Dim)
	if err != nil {
		return nil, fmt.Errorf("train: load vectors: %w", err)
	}
	if err := embedding.Save(ctx, s.fs, response.URL, model); err != nil {
		return nil, fmt.Errorf("train: save %v: %w", response.URL, err)
	}
	response.Words = model.Len()
	s.logger.Info("embedding model trained", "words", response.Words, "dim", cfg.Dim, "url", response.URL)
	return response, nil
}

// transformCorpus streams the phrase-merged corpus to its artifact and
// returns the sentence count.
func (s *Service) transformCorpus(ctx context.Context, bigram, trigram *phrase.Model) (int, error) {
	sentences := 0
	err := s.uploadStream(ctx, s.transformedURL(), func(writer *bufio.Writer) error {
		// bufio write errors surface on the final Flush.
		return s.eachSentence(ctx, func(sentence []string) {
			merged := trigram.Transform(bigram.Transform(sentence))
			_, _ = writer.WriteString(strings.Join(merged, " "))
			_ = writer.WriteByte('\n')
			sentences++
		})
	})
	if err != nil {
		return 0, fmt.Errorf("train: transform corpus: %w", err)
	}
	return sentences, nil
}
