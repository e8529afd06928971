// Package embedding trains and serves word vectors for the dictionary
// expansion step. Training delegates to wego's word2vec; this package owns
// only the vocabulary inclusion rule and the similarity queries.
package embedding

import (
	"fmt"
	"io"

	"github.com/ynqa/wego/pkg/model/modelutil/vector"
	"github.com/ynqa/wego/pkg/model/word2vec"
)

// TrainOptions holds the word2vec hyperparameters.
type TrainOptions struct {
	Dim      int
	Window   int
	MinCount int
	Epochs   int
	Workers  int
}

func (o *TrainOptions) init() {
	if o.Dim <= 0 {
		o.Dim = 300
	}
	if o.Window <= 0 {
		o.Window = 5
	}
	if o.MinCount <= 0 {
		o.MinCount = 5
	}
	if o.Epochs <= 0 {
		o.Epochs = 20
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
}

// Train fits word2vec over a whitespace-separated token corpus and writes
// the word-vector dump to out in wego's text format.
func Train(corpus io.ReadSeeker, out io.Writer, options TrainOptions) error {
	options.init()
	model, err := word2vec.New(
		word2vec.Dim(options.Dim),
		word2vec.Window(options.Window),
		word2vec.MinCount(options.MinCount),
		word2vec.Iter(options.Epochs),
		word2vec.Goroutines(options.Workers),
		word2vec.Model(word2vec.Cbow),
		word2vec.Optimizer(word2vec.NegativeSampling),
		word2vec.NegativeSampleSize(5),
		word2vec.Verbose(),
	)
	if err != nil {
		return fmt.Errorf("embedding: configure word2vec: %w", err)
	}
	if err := model.Train(corpus); err != nil {
		return fmt.Errorf("embedding: train: %w", err)
	}
	if err := model.Save(out, vector.Agg); err != nil {
		return fmt.Errorf("embedding: save vectors: %w", err)
	}
	return nil
}
