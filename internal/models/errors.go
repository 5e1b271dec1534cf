package models

import (
	"errors"
	"fmt"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// UnsupportedProviderError reports a provider name that resolved to neither
// "google" nor "openai".
type UnsupportedProviderError struct {
	Kind   string
	Value  string
	EnvVar string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("%s provider %q not supported: use 'google' or 'openai' (check %s)", e.Kind, e.Value, e.EnvVar)
}

// LoadError wraps any failure to open or read the source document.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// EmptyIngestionError means the document produced no chunks to embed.
type EmptyIngestionError struct {
	Path string
}

func (e *EmptyIngestionError) Error() string {
	return fmt.Sprintf("no chunks produced from %s: document is empty or could not be split", e.Path)
}
