package domain

import "context"

// Loader turns a source file into ordered content blocks.
type Loader interface {
	// Load reads the document at path. Block order matches the source.
	Load(ctx context.Context, path string) (*Document, error)

	// Supports reports whether the loader handles files with the given extension.
	Supports(ext string) bool
}
