package util

import "errors"

var (
	ErrNoExtractableText = errors.New("no extractable text found in PDF")
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrProcessingFailed  = errors.New("document processing failed")
	ErrArtifactExists    = errors.New("artifact already exists")
)
