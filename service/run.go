package service

import "context"

// RunResponse aggregates per-stage responses of a full pipeline run.
type RunResponse struct {
	Tokenize *TokenizeResponse
	Dump     *DumpResponse
	Phrases  *DetectPhrasesResponse
	Train    *TrainResponse
	Expand   *ExpandResponse
}

// Run executes all five stages in order, honoring each stage's artifact
// skip rules.
func (s *Service) Run(ctx context.Context) (*RunResponse, error) {
	response := &RunResponse{}
	var err error
	if response.Tokenize, err = s.Tokenize(ctx, TokenizeRequest{}); err != nil {
		return nil, err
	}
	if response.Dump, err = s.Dump(ctx, DumpRequest{}); err != nil {
		return nil, err
	}
	if response.Phrases, err = s.DetectPhrases(ctx, DetectPhrasesRequest{}); err != nil {
		return nil, err
	}
	if response.Train, err = s.Train(ctx, TrainRequest{}); err != nil {
		return nil, err
	}
	if response.Expand, err = s.Expand(ctx, ExpandRequest{}); err != nil {
		return nil, err
	}
	return response, nil
}
