package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/esglex/esglex/chunkstore"
	"github.com/esglex/esglex/embedding"
	"github.com/esglex/esglex/phrase"
	"github.com/esglex/esglex/tokenizer"
)

func newTestService(t *testing.T, mutate func(cfg *Config)) *Service {
	t.Helper()
	cfg := &Config{DataDir: t.TempDir()}
	cfg.Init()
	if mutate != nil {
		mutate(cfg)
	}
	srv, err := New(cfg)
	require.NoError(t, err)
	return srv
}

func uploadString(t *testing.T, fs afs.Service, location, content string) {
	t.Helper()
	require.NoError(t, fs.Upload(context.Background(), location, file.DefaultFileOsMode, strings.NewReader(content)))
}

func testCorpusCSV(t *testing.T, dir string) string {
	t.Helper()
	location := filepath.Join(dir, "corpus.csv")
	uploadString(t, afs.New(), location, `id,content
1,"The climate crisis accelerates every year. Carbon emission reduction matters."
2,"Recycling programs reduce landfill waste across the supply chain."
3,short
`)
	return location
}

func TestService_Tokenize(t *testing.T) {
	ctx := context.Background()
	srv := newTestService(t, func(cfg *Config) {
		cfg.Corpus.Path = testCorpusCSV(t, t.TempDir())
		cfg.Tokenize.ChunkSize = 2
		cfg.Tokenize.Workers = 2
		cfg.Tokenize.BatchSize = 1
	})

	response, err := srv.Tokenize(ctx, TokenizeRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, response.Documents)
	assert.Equal(t, 2, response.Chunks)
	assert.Equal(t, 0, response.Skipped)

	// A second run finds both artifacts and reprocesses nothing.
	response, err = srv.Tokenize(ctx, TokenizeRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, response.Chunks)
	assert.Equal(t, 2, response.Skipped)
}

func TestService_Tokenize_PresentChunkIsNotRewritten(t *testing.T) {
	ctx := context.Background()
	srv := newTestService(t, func(cfg *Config) {
		cfg.Corpus.Path = testCorpusCSV(t, t.TempDir())
		cfg.Tokenize.ChunkSize = 2
	})

	sentinel := []tokenizer.Processed{{DocID: "sentinel", Sentences: [][]string{{"untouched"}}}}
	store := chunkstore.New(srv.fs, srv.chunksURL())
	require.NoError(t, store.Write(ctx, 0, sentinel))

	response, err := srv.Tokenize(ctx, TokenizeRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, response.Skipped)
	assert.Equal(t, 1, response.Chunks)

	docs, err := store.Read(ctx, 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "sentinel", docs[0].DocID)
}

func TestService_Dump_IsByteDeterministic(t *testing.T) {
	ctx := context.Background()
	srv := newTestService(t, nil)

	store := chunkstore.New(srv.fs, srv.chunksURL())
	require.NoError(t, store.Write(ctx, 0, []tokenizer.Processed{
		{DocID: "1", Sentences: [][]string{{"climate", "change"}, {"carbon", "emission"}}},
		{DocID: "2", Sentences: [][]string{{}}},
	}))
	require.NoError(t, store.Write(ctx, 1, []tokenizer.Processed{
		{DocID: "3", Sentences: [][]string{{"recycling", "program"}}},
	}))

	response, err := srv.Dump(ctx, DumpRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, response.Chunks)
	assert.Equal(t, 3, response.Sentences)

	first, err := srv.fs.DownloadWithURL(ctx, srv.corpusURL())
	require.NoError(t, err)
	assert.Equal(t, "climate change\ncarbon emission\nrecycling program\n", string(first))

	_, err = srv.Dump(ctx, DumpRequest{})
	require.NoError(t, err)
	second, err := srv.fs.DownloadWithURL(ctx, srv.corpusURL())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestService_Dump_NoChunks(t *testing.T) {
	srv := newTestService(t, nil)
	_, err := srv.Dump(context.Background(), DumpRequest{})
	assert.Error(t, err)
}

func TestService_DetectPhrases(t *testing.T) {
	ctx := context.Background()
	srv := newTestService(t, func(cfg *Config) {
		cfg.Phrases.MinCount = 3
		cfg.Phrases.Threshold = 0.1
	})

	corpus := new(strings.Builder)
	for i := 0; i < 12; i++ {
		fmt.Fprintf(corpus, "climate change drives policy shift %d\n", i)
		corpus.WriteString("weather stays variable\n")
	}
	uploadString(t, srv.fs, srv.corpusURL(), corpus.String())

	response, err := srv.DetectPhrases(ctx, DetectPhrasesRequest{})
	require.NoError(t, err)
	assert.False(t, response.Skipped)
	assert.Contains(t, mapsKeys(t, srv, response.URL), "climate_change")

	// A present artifact skips the stage.
	response, err = srv.DetectPhrases(ctx, DetectPhrasesRequest{})
	require.NoError(t, err)
	assert.True(t, response.Skipped)
}

// mapsKeys loads the stored bigram model and returns its compound keys.
func mapsKeys(t *testing.T, srv *Service, URL string) []string {
	t.Helper()
	bigram, _, err := phrase.LoadPair(context.Background(), srv.fs, URL)
	require.NoError(t, err)
	keys := make([]string, 0, len(bigram.Scores))
	for key := range bigram.Scores {
		keys = append(keys, key)
	}
	return keys
}

func TestService_TransformCorpus_StreamsToArtifact(t *testing.T) {
	ctx := context.Background()
	srv := newTestService(t, nil)
	uploadString(t, srv.fs, srv.corpusURL(), "supply chain risk\nrecycling helps\n")

	options := phrase.Options{MinCount: 1, Threshold: 0.1}
	bigram := phrase.NewDetector(options).Model()
	bigram.Inject("supply_chain")
	trigram := phrase.NewDetector(options).Model()

	sentences, err := srv.transformCorpus(ctx, bigram, trigram)
	require.NoError(t, err)
	assert.Equal(t, 2, sentences)

	data, err := srv.fs.DownloadWithURL(ctx, srv.transformedURL())
	require.NoError(t, err)
	assert.Equal(t, "supply_chain risk\nrecycling helps\n", string(data))

	// Training re-reads the artifact across epochs, so it must seek.
	reader, closeReader, err := srv.openSeekable(ctx, srv.transformedURL())
	require.NoError(t, err)
	defer closeReader()
	first, err := io.ReadAll(reader)
	require.NoError(t, err)
	_, err = reader.Seek(0, io.SeekStart)
	require.NoError(t, err)
	second, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestService_Train_SkipsWhenModelPresent(t *testing.T) {
	ctx := context.Background()
	srv := newTestService(t, nil)
	uploadString(t, srv.fs, srv.modelURL(), "placeholder")

	response, err := srv.Train(ctx, TrainRequest{})
	require.NoError(t, err)
	assert.True(t, response.Skipped)
	assert.Zero(t, response.Words)
}

func TestService_Expand(t *testing.T) {
	ctx := context.Background()
	srv := newTestService(t, func(cfg *Config) {
		cfg.Expand.TopN = 2
	})

	model := embedding.NewModel(2)
	require.NoError(t, model.Add("carbon_footprint", []float32{1, 0}))
	require.NoError(t, model.Add("recycling", []float32{0, 1}))
	require.NoError(t, model.Add("emission", []float32{0.9, 0.3}))
	require.NoError(t, model.Add("landfill", []float32{0.35, 0.8}))
	require.NoError(t, embedding.Save(ctx, srv.fs, srv.modelURL(), model))

	seedsURL := filepath.Join(t.TempDir(), "seeds.yaml")
	uploadString(t, srv.fs, seedsURL, "Climate:\n  - carbon_footprint\nWaste:\n  - recycling\n")
	srv.config.Expand.Seeds = seedsURL

	response, err := srv.Expand(ctx, ExpandRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, response.Categories)

	climate, err := srv.fs.DownloadWithURL(ctx, filepath.Join(srv.outputURL(), "Climate.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(climate), "emission")

	waste, err := srv.fs.DownloadWithURL(ctx, filepath.Join(srv.outputURL(), "Waste.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(waste), "landfill")
	assert.NotContains(t, string(waste), "emission")

	csvData, err := srv.fs.DownloadWithURL(ctx, filepath.Join(srv.outputURL(), "dictionary.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(csvData), "word,category")
}

func TestService_Expand_MissingSeeds(t *testing.T) {
	srv := newTestService(t, nil)
	_, err := srv.Expand(context.Background(), ExpandRequest{})
	assert.Error(t, err)
}
