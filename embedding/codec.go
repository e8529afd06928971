package embedding

import (
	"bytes"
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/bintly"
)

// Encode serializes the model vocabulary and vectors.
func Encode(model *Model) []byte {
	writers := bintly.NewWriters()
	stream := writers.Get()
	defer writers.Put(stream)

	stream.Int(model.dim)
	stream.Int(len(model.words))
	for i, word := range model.words {
		stream.String(word)
		stream.Float32s(model.vectors[i])
	}
	return stream.Bytes()
}

// Decode restores a model serialized with Encode.
func Decode(data []byte) (*Model, error) {
	readers := bintly.NewReaders()
	stream := readers.Get()
	defer readers.Put(stream)
	if err := stream.FromBytes(data); err != nil {
		return nil, err
	}

	var dim, count int
	stream.Int(&dim)
	stream.Int(&count)
	model := NewModel(dim)
	model.words = make([]string, count)
	model.vectors = make([][]float32, count)
	for i := 0; i < count; i++ {
		stream.String(&model.words[i])
		stream.Float32s(&model.vectors[i])
		model.index[model.words[i]] = i
	}
	return model, nil
}

// Save uploads the serialized model to URL.
func Save(ctx context.Context, fs afs.Service, URL string, model *Model) error {
	if err := fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(Encode(model))); err != nil {
		return fmt.Errorf("embedding: upload %v: %w", URL, err)
	}
	return nil
}

// Load downloads and restores a model previously written by Save; the
// artifact is re-loadable for inference without retraining.
func Load(ctx context.Context, fs afs.Service, URL string) (*Model, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("embedding: download %v: %w", URL, err)
	}
	model, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("embedding: decode %v: %w", URL, err)
	}
	return model, nil
}
