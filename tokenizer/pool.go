package tokenizer

import (
	"context"
	"log/slog"
	"sync"

	"github.com/esglex/esglex/corpus"
)

// batch is a contiguous run of documents owned by one worker task.
type batch struct {
	offset int
	docs   []corpus.Document
}

// ProcessAll fans documents out to a bounded worker pool in fixed-size
// batches. Workers share no mutable state: each writes into a disjoint
// region of the result slice, so output order matches input order
// regardless of completion order.
func (s *Sentencizer) ProcessAll(ctx context.Context, docs []corpus.Document, workers, batchSize int) []Processed {
	if batchSize <= 0 {
		batchSize = 500
	}
	if workers <= 0 {
		workers = 1
	}
	if pending := (len(docs) + batchSize - 1) / batchSize; workers > pending {
		workers = pending
	}
	results := make([]Processed, len(docs))
	if len(docs) == 0 {
		return results
	}

	batches := make(chan batch)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range batches {
				s.processBatchInto(b, results)
			}
		}()
	}

	for offset := 0; offset < len(docs); offset += batchSize {
		end := offset + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		select {
		case batches <- batch{offset: offset, docs: docs[offset:end]}:
		case <-ctx.Done():
			slog.Warn("tokenizer: fan-out interrupted", "error", ctx.Err())
			offset = len(docs)
		}
	}
	close(batches)
	wg.Wait()
	return results
}

func (s *Sentencizer) processBatchInto(b batch, results []Processed) {
	texts := make([]string, len(b.docs))
	for i, doc := range b.docs {
		texts[i] = doc.Content
	}
	sentences := s.ProcessBatch(texts)
	for i, doc := range b.docs {
		results[b.offset+i] = Processed{DocID: doc.ID, Sentences: sentences[i]}
	}
}
