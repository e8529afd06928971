package phrase

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

func repeatSentences(sentence []string, n int) [][]string {
	out := make([][]string, n)
	for i := range out {
		out[i] = sentence
	}
	return out
}

func TestDetector_LearnsFrequentPair(t *testing.T) {
	detector := NewDetector(Options{MinCount: 5, Threshold: 0.1})
	for _, sentence := range repeatSentences([]string{"climate", "change", "accelerates"}, 10) {
		detector.Add(sentence)
	}
	// Noise so vocabulary size is not degenerate.
	detector.Add([]string{"unrelated", "words", "here"})

	model := detector.Model()
	_, ok := model.Scores["climate_change"]
	assert.True(t, ok, "expected climate_change to be scored, got %v", model.Scores)

	merged := model.Transform([]string{"climate", "change", "accelerates"})
	assert.Equal(t, []string{"climate_change", "accelerates"}, merged)
}

func TestDetector_MinCountBlocksRarePair(t *testing.T) {
	detector := NewDetector(Options{MinCount: 5, Threshold: 1})
	for _, sentence := range repeatSentences([]string{"rare", "pair"}, 4) {
		detector.Add(sentence)
	}
	model := detector.Model()
	assert.Empty(t, model.Scores)
	assert.Equal(t, []string{"rare", "pair"}, model.Transform([]string{"rare", "pair"}))
}

func TestDetector_ConnectorWordsInsideCompound(t *testing.T) {
	detector := NewDetector(Options{MinCount: 2, Threshold: 0.1})
	for _, sentence := range repeatSentences([]string{"bank", "of", "america", "reported"}, 10) {
		detector.Add(sentence)
	}
	detector.Add([]string{"filler", "tokens", "only"})

	model := detector.Model()
	_, ok := model.Scores["bank_of_america"]
	require.True(t, ok, "scores: %v", model.Scores)
	assert.Equal(t,
		[]string{"bank_of_america", "reported"},
		model.Transform([]string{"bank", "of", "america", "reported"}))

	// Connectors never start a compound.
	out := model.Transform([]string{"of", "bank", "of", "america"})
	assert.Equal(t, []string{"of", "bank_of_america"}, out)
}

func TestModel_InjectForcesMerge(t *testing.T) {
	model := NewDetector(Options{MinCount: 5, Threshold: 1}).Model()
	model.Inject("scope_1", "supply_chain_sustainability")

	assert.True(t, math.IsInf(model.Scores["scope_1"], 1))
	assert.Equal(t, []string{"scope_1", "emission"},
		model.Transform([]string{"scope", "1", "emission"}))
}

func TestModel_MergedCompoundDoesNotChain(t *testing.T) {
	model := NewDetector(Options{MinCount: 5, Threshold: 1}).Model()
	model.Inject("climate_change")
	// "climate_change" must not immediately pair with "policy" even if such
	// a compound was injected for a later pass.
	out := model.Transform([]string{"climate", "change", "policy"})
	assert.Equal(t, []string{"climate_change", "policy"}, out)
}

func TestTrigramPass(t *testing.T) {
	// Vary the tail word so only "supply chain" and the trigram candidate
	// are frequent; a fixed tail would merge "sustainability_<tail>" too.
	tails := []string{
		"matters", "grows", "improves", "lags", "helps", "evolves",
		"advances", "stalls", "spreads", "wins", "fails", "endures",
	}
	var sentences [][]string
	for _, tail := range tails {
		sentences = append(sentences, []string{"supply", "chain", "sustainability", tail})
	}

	bigramDetector := NewDetector(Options{MinCount: 3, Threshold: 0.1})
	for _, sentence := range sentences {
		bigramDetector.Add(sentence)
	}
	bigram := bigramDetector.Model()
	require.Contains(t, bigram.Scores, "supply_chain")
	assert.NotContains(t, bigram.Scores, "sustainability_matters")

	trigramDetector := NewDetector(Options{MinCount: 3, Threshold: 0.1})
	for _, sentence := range sentences {
		trigramDetector.Add(bigram.Transform(sentence))
	}
	trigram := trigramDetector.Model()
	require.Contains(t, trigram.Scores, "supply_chain_sustainability")

	out := trigram.Transform(bigram.Transform([]string{"supply", "chain", "sustainability", "matters"}))
	assert.Equal(t, []string{"supply_chain_sustainability", "matters"}, out)
}

func TestCodec_RoundTrip(t *testing.T) {
	detector := NewDetector(Options{MinCount: 2, Threshold: 0.1})
	for _, sentence := range repeatSentences([]string{"green", "bond", "issued"}, 8) {
		detector.Add(sentence)
	}
	detector.Add([]string{"noise", "for", "vocab"})
	bigram := detector.Model()
	bigram.Inject("scope_1")
	trigram := NewDetector(Options{MinCount: 2, Threshold: 0.1}).Model()
	trigram.Inject("supply_chain_sustainability")

	gotBigram, gotTrigram, err := DecodePair(EncodePair(bigram, trigram))
	require.NoError(t, err)

	assert.Equal(t, bigram.Scores, gotBigram.Scores)
	assert.Equal(t, trigram.Scores, gotTrigram.Scores)
	assert.True(t, math.IsInf(gotBigram.Scores["scope_1"], 1))

	// Connector behavior survives the round trip.
	assert.Equal(t,
		[]string{"green_bond", "issued"},
		gotBigram.Transform([]string{"green", "bond", "issued"}))
}

func TestSaveLoadPair(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	location := filepath.Join(t.TempDir(), "phrases.bin")

	bigram := NewDetector(Options{}).Model()
	bigram.Inject("scope_2")
	trigram := NewDetector(Options{}).Model()

	require.NoError(t, SavePair(ctx, fs, location, bigram, trigram))
	gotBigram, _, err := LoadPair(ctx, fs, location)
	require.NoError(t, err)
	assert.Contains(t, gotBigram.Scores, "scope_2")
}

func TestTransform_PreservesPlainSentence(t *testing.T) {
	model := NewDetector(Options{}).Model()
	sentence := strings.Fields("the quick brown fox jumps over the lazy dog")
	assert.Equal(t, sentence, model.Transform(sentence))
}
