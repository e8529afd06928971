// Package tokenizer turns raw document text into normalized per-sentence
// token lists: lemmatized, lower-cased, with named entities replaced by
// type placeholders.
package tokenizer

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	prose "github.com/jdkato/prose/v2"
)

// Config controls document cleaning and entity replacement.
type Config struct {
	// MinChars is the minimal content length after whitespace
	// normalization; shorter documents yield zero sentences.
	MinChars int
	// KeepTerms lists lemmas that keep their surface form even when the
	// tagger marks them as part of a named entity (e.g. "scope_1").
	KeepTerms []string
}

// Processed holds the tokenizer output for one document.
type Processed struct {
	DocID     string
	Sentences [][]string
}

// Sentencizer segments documents into sentences and normalizes tokens.
// It is safe for concurrent use.
type Sentencizer struct {
	lemmatizer *golem.Lemmatizer
	minChars   int
	keep       map[string]struct{}
}

var (
	whitespace    = regexp.MustCompile(`\s+`)
	underscoreRun = regexp.MustCompile(`_+`)
)

// New creates a Sentencizer with the english lemmatizer dictionary.
func New(cfg Config) (*Sentencizer, error) {
	lemmatizer, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("tokenizer: lemmatizer: %w", err)
	}
	if cfg.MinChars <= 0 {
		cfg.MinChars = 10
	}
	keep := make(map[string]struct{}, len(cfg.KeepTerms))
	for _, term := range cfg.KeepTerms {
		keep[strings.ToLower(strings.TrimSpace(term))] = struct{}{}
	}
	return &Sentencizer{lemmatizer: lemmatizer, minChars: cfg.MinChars, keep: keep}, nil
}

// Clean collapses whitespace and rejects content below the minimum length.
// An empty return means the document produces zero sentences.
func (s *Sentencizer) Clean(text string) string {
	text = strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
	if len(text) < s.minChars {
		return ""
	}
	return text
}

// Process returns zero or more sentences for one document, each a non-empty
// ordered token list.
func (s *Sentencizer) Process(text string) ([][]string, error) {
	cleaned := s.Clean(text)
	if cleaned == "" {
		return nil, nil
	}
	doc, err := prose.NewDocument(cleaned,
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("tokenizer: segment: %w", err)
	}
	var sentences [][]string
	for _, sentence := range doc.Sentences() {
		tokens, err := s.tokenizeSentence(sentence.Text)
		if err != nil {
			return nil, err
		}
		if len(tokens) > 0 {
			sentences = append(sentences, tokens)
		}
	}
	return sentences, nil
}

// ProcessBatch processes documents in order. A failing document is recovered
// as zero sentences with a warning, never an error; a panic inside the
// tokenizer recovers the whole batch as empty so one poisoned batch cannot
// kill a long run.
func (s *Sentencizer) ProcessBatch(texts []string) (results [][][]string) {
	results = make([][][]string, len(texts))
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("tokenizer: batch recovered as empty", "panic", r, "documents", len(texts))
			for i := range results {
				results[i] = nil
			}
		}
	}()
	for i, text := range texts {
		sentences, err := s.Process(text)
		if err != nil {
			slog.Warn("tokenizer: document recovered as empty", "error", err)
			continue
		}
		results[i] = sentences
	}
	return results
}

func (s *Sentencizer) tokenizeSentence(text string) ([]string, error) {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("tokenizer: tokenize: %w", err)
	}
	var words []string
	for _, token := range doc.Tokens() {
		surface := strings.TrimSpace(token.Text)
		if surface == "" || !hasLetterOrDigit(surface) {
			continue
		}
		lemma := s.normalize(surface)
		if entity := entityType(token.Label); entity != "" {
			if _, kept := s.keep[lemma]; !kept {
				words = append(words, "[NER:"+entity+"]")
				continue
			}
		}
		if lemma != "" {
			words = append(words, lemma)
		}
	}
	return words, nil
}

// normalize lemmatizes and lower-cases a surface form, then applies the
// compound cleanups the corpus convention expects.
func (s *Sentencizer) normalize(surface string) string {
	lemma := strings.ToLower(strings.TrimSpace(s.lemmatizer.Lemma(surface)))
	lemma = strings.ReplaceAll(lemma, "_-_", "-")
	lemma = underscoreRun.ReplaceAllString(lemma, "_")
	return lemma
}

// entityType maps an IOB label such as "B-PERSON" to its type, or "".
func entityType(label string) string {
	if label == "" || label == "O" {
		return ""
	}
	if idx := strings.IndexByte(label, '-'); idx >= 0 {
		return label[idx+1:]
	}
	return label
}

func hasLetterOrDigit(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
