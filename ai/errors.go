package ai

import "errors"

var (
	// ErrProvider indicates the embeddings provider call failed or returned
	// malformed data. It aborts the single-record operation only.
	ErrProvider = errors.New("embedding provider error")

	// ErrEmptyVector indicates the provider returned no usable vector.
	ErrEmptyVector = errors.New("provider returned an empty vector")
)
