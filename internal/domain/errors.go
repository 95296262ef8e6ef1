package domain

import "errors"

var (
	// ErrEmbeddingProviderError signals an embedding provider failure.
	// Callers use it to tell "could not search" apart from "no match".
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrMalformedCorpus signals corpus data that cannot be served.
	ErrMalformedCorpus = errors.New("malformed corpus")
	// ErrMalformedMaskList signals an unusable masking reference list.
	ErrMalformedMaskList = errors.New("malformed mask list")
	// ErrSessionNotFound signals an unknown or expired disclosure session.
	ErrSessionNotFound = errors.New("session not found")
)
