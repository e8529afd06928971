package embedding

import (
	"fmt"
	"io"
	"math"
	"sort"

	wegoembedding "github.com/ynqa/wego/pkg/embedding"
)

// Model maps a vocabulary to unit-normalized vectors and answers
// similarity queries between one token and the whole vocabulary.
type Model struct {
	dim     int
	words   []string
	vectors [][]float32
	index   map[string]int
}

// NewModel creates an empty model of the given dimensionality.
func NewModel(dim int) *Model {
	return &Model{dim: dim, index: map[string]int{}}
}

// IncludeToken is the vocabulary inclusion rule: tokens shorter than two
// characters and stop-words carry no dictionary value and are excluded.
func IncludeToken(word string) bool {
	if len(word) < 2 {
		return false
	}
	_, stop := stopWords[word]
	return !stop
}

// Add registers a vector for word, normalizing it so that similarity
// reduces to a dot product. Duplicate or dimension-mismatched words are
// rejected.
func (m *Model) Add(word string, vec []float32) error {
	if len(vec) != m.dim {
		return fmt.Errorf("embedding: %q has dim %d, model dim %d", word, len(vec), m.dim)
	}
	if _, dup := m.index[word]; dup {
		return fmt.Errorf("embedding: duplicate word %q", word)
	}
	normalized := make([]float32, len(vec))
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		norm = 1
	}
	for i, v := range vec {
		normalized[i] = float32(float64(v) / norm)
	}
	m.index[word] = len(m.words)
	m.words = append(m.words, word)
	m.vectors = append(m.vectors, normalized)
	return nil
}

// Dim returns the vector dimensionality.
func (m *Model) Dim() int { return m.dim }

// Len returns the vocabulary size.
func (m *Model) Len() int { return len(m.words) }

// Words returns the vocabulary in insertion order. The caller must not
// mutate the returned slice.
func (m *Model) Words() []string { return m.words }

// Has reports whether word is in the vocabulary.
func (m *Model) Has(word string) bool {
	_, ok := m.index[word]
	return ok
}

// Word returns the vocabulary entry at index i.
func (m *Model) Word(i int) string { return m.words[i] }

// Similarities returns the cosine similarity of word against every
// vocabulary token, indexed like Words. The second result is false when
// word is out of vocabulary.
func (m *Model) Similarities(word string) ([]float32, bool) {
	at, ok := m.index[word]
	if !ok {
		return nil, false
	}
	query := m.vectors[at]
	sims := make([]float32, len(m.vectors))
	for i, vec := range m.vectors {
		var dot float32
		for j := range vec {
			dot += query[j] * vec[j]
		}
		sims[i] = dot
	}
	return sims, true
}

// Neighbor is a vocabulary token scored against a query term.
type Neighbor struct {
	Word  string
	Score float32
}

// Nearest returns up to n vocabulary tokens closest to word, the query term
// itself excluded, sorted by descending similarity. The second result is
// false when word is out of vocabulary.
func (m *Model) Nearest(word string, n int) ([]Neighbor, bool) {
	sims, ok := m.Similarities(word)
	if !ok {
		return nil, false
	}
	self := m.index[word]
	indices := make([]int, 0, len(sims))
	for i := range sims {
		if i != self {
			indices = append(indices, i)
		}
	}
	sort.Slice(indices, func(a, b int) bool {
		if sims[indices[a]] != sims[indices[b]] {
			return sims[indices[a]] > sims[indices[b]]
		}
		return m.words[indices[a]] < m.words[indices[b]]
	})
	if n > 0 && n < len(indices) {
		indices = indices[:n]
	}
	neighbors := make([]Neighbor, 0, len(indices))
	for _, i := range indices {
		neighbors = append(neighbors, Neighbor{Word: m.words[i], Score: sims[i]})
	}
	return neighbors, true
}

// FromWordVectors parses a wego word-vector dump, applying the inclusion
// rule so the persisted vocabulary never carries stop-words or
// single-character tokens.
func FromWordVectors(r io.Reader, dim int) (*Model, error) {
	embeddings, err := wegoembedding.Load(r)
	if err != nil {
		return nil, fmt.Errorf("embedding: load vectors: %w", err)
	}
	model := NewModel(dim)
	for _, emb := range embeddings {
		if !IncludeToken(emb.Word) {
			continue
		}
		vec := make([]float32, len(emb.Vector))
		for i, v := range emb.Vector {
			vec[i] = float32(v)
		}
		if err := model.Add(emb.Word, vec); err != nil {
			return nil, err
		}
	}
	return model, nil
}
