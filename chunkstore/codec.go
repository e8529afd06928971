package chunkstore

import (
	"encoding/binary"
	"fmt"

	"github.com/minio/highwayhash"
	"github.com/viant/bintly"

	"github.com/esglex/esglex/tokenizer"
)

var checksumKey = []byte("0123456789ABCDEF0123456789ABCDEF")

func encodeChunk(docs []tokenizer.Processed) ([]byte, error) {
	writers := bintly.NewWriters()
	stream := writers.Get()
	defer writers.Put(stream)

	stream.Int(len(docs))
	for i := range docs {
		stream.String(docs[i].DocID)
		stream.Int(len(docs[i].Sentences))
		for _, sentence := range docs[i].Sentences {
			stream.Strings(sentence)
		}
	}
	return stream.Bytes(), nil
}

func decodeChunk(payload []byte) ([]tokenizer.Processed, error) {
	readers := bintly.NewReaders()
	stream := readers.Get()
	defer readers.Put(stream)
	if err := stream.FromBytes(payload); err != nil {
		return nil, err
	}

	var count int
	stream.Int(&count)
	docs := make([]tokenizer.Processed, count)
	for i := 0; i < count; i++ {
		stream.String(&docs[i].DocID)
		var sentences int
		stream.Int(&sentences)
		if sentences > 0 {
			docs[i].Sentences = make([][]string, sentences)
			for j := 0; j < sentences; j++ {
				stream.Strings(&docs[i].Sentences[j])
			}
		}
	}
	return docs, nil
}

// seal prefixes the payload with its highwayhash-64 checksum.
func seal(payload []byte) ([]byte, error) {
	sum, err := checksum(payload)
	if err != nil {
		return nil, err
	}
	data := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint64(data, sum)
	copy(data[8:], payload)
	return data, nil
}

func unseal(data []byte) ([]byte, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("artifact too short: %d bytes", len(data))
	}
	want := binary.BigEndian.Uint64(data)
	payload := data[8:]
	got, err := checksum(payload)
	if err != nil {
		return nil, err
	}
	if got != want {
		return nil, fmt.Errorf("checksum mismatch: got %x, want %x", got, want)
	}
	return payload, nil
}

func checksum(data []byte) (uint64, error) {
	h, err := highwayhash.New64(checksumKey)
	if err != nil {
		return 0, err
	}
	if _, err = h.Write(data); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
