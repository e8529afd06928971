package phrase

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/bintly"
)

// EncodePair serializes the bigram and trigram models into one artifact.
func EncodePair(bigram, trigram *Model) []byte {
	writers := bintly.NewWriters()
	stream := writers.Get()
	defer writers.Put(stream)
	encodeModel(stream, bigram)
	encodeModel(stream, trigram)
	return stream.Bytes()
}

// DecodePair restores the bigram and trigram models.
func DecodePair(data []byte) (*Model, *Model, error) {
	readers := bintly.NewReaders()
	stream := readers.Get()
	defer readers.Put(stream)
	if err := stream.FromBytes(data); err != nil {
		return nil, nil, err
	}
	bigram := decodeModel(stream)
	trigram := decodeModel(stream)
	return bigram, trigram, nil
}

// SavePair uploads the serialized model pair to URL.
func SavePair(ctx context.Context, fs afs.Service, URL string, bigram, trigram *Model) error {
	if err := fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(EncodePair(bigram, trigram))); err != nil {
		return fmt.Errorf("phrase: upload %v: %w", URL, err)
	}
	return nil
}

// LoadPair downloads and restores the model pair from URL.
func LoadPair(ctx context.Context, fs afs.Service, URL string) (*Model, *Model, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, nil, fmt.Errorf("phrase: download %v: %w", URL, err)
	}
	bigram, trigram, err := DecodePair(data)
	if err != nil {
		return nil, nil, fmt.Errorf("phrase: decode %v: %w", URL, err)
	}
	return bigram, trigram, nil
}

func encodeModel(stream *bintly.Writer, model *Model) {
	stream.String(model.Delimiter)
	stream.Float64(model.Threshold)

	connectors := make([]string, 0, len(model.connectors))
	for word := range model.connectors {
		connectors = append(connectors, word)
	}
	sort.Strings(connectors)
	stream.Strings(connectors)

	keys := make([]string, 0, len(model.Scores))
	for key := range model.Scores {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	stream.Int(len(keys))
	for _, key := range keys {
		stream.String(key)
		stream.Float64(model.Scores[key])
	}
}

func decodeModel(stream *bintly.Reader) *Model {
	model := &Model{Scores: map[string]float64{}, connectors: map[string]struct{}{}}
	stream.String(&model.Delimiter)
	stream.Float64(&model.Threshold)

	var connectors []string
	stream.Strings(&connectors)
	for _, word := range connectors {
		model.connectors[word] = struct{}{}
	}

	var count int
	stream.Int(&count)
	for i := 0; i < count; i++ {
		var key string
		var score float64
		stream.String(&key)
		stream.Float64(&score)
		model.Scores[key] = score
	}
	return model
}
