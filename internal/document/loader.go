// Package document loads race programs into ordered paragraph and table blocks.
package document

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/spherical-ai/racecard/internal/domain"
)

// Registry dispatches to the first loader supporting a file's extension and stamps
// the content checksum on the result.
type Registry struct {
	loaders     []domain.Loader
	maxFileSize int64
}

// Option configures a Registry.
type Option func(*Registry)

// WithMaxFileSize rejects files larger than n bytes. Zero disables the limit.
func WithMaxFileSize(n int64) Option {
	return func(r *Registry) { r.maxFileSize = n }
}

// WithLoader registers an additional loader ahead of the defaults.
func WithLoader(l domain.Loader) Option {
	return func(r *Registry) { r.loaders = append([]domain.Loader{l}, r.loaders...) }
}

// NewRegistry creates a Registry with the docx, markdown and PDF loaders.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		loaders: []domain.Loader{NewDocxLoader(), NewMarkdownLoader(), NewPDFLoader()},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Supports implements domain.Loader.
func (r *Registry) Supports(ext string) bool {
	return r.loaderFor(ext) != nil
}

// Load implements domain.Loader.
func (r *Registry) Load(ctx context.Context, path string) (*domain.Document, error) {
	ext := filepath.Ext(path)
	l := r.loaderFor(ext)
	if l == nil {
		return nil, domain.ValidationError(fmt.Sprintf("unsupported file type %q", ext), nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, domain.IOError("stat document", err)
	}
	if r.maxFileSize > 0 && info.Size() > r.maxFileSize {
		return nil, domain.ValidationError(
			fmt.Sprintf("file is %d bytes, limit is %d", info.Size(), r.maxFileSize), nil)
	}

	sum, err := Checksum(path)
	if err != nil {
		return nil, domain.IOError("checksum document", err)
	}

	doc, err := l.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	doc.Checksum = sum
	return doc, nil
}

func (r *Registry) loaderFor(ext string) domain.Loader {
	for _, l := range r.loaders {
		if l.Supports(ext) {
			return l
		}
	}
	return nil
}

// Checksum returns the hex xxhash64 of the file contents.
func Checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

// Discover lists the supported files under root in lexical order. Hidden files and
// Word lock files ("~$name.docx") are skipped. A file root is returned as is.
func (r *Registry) Discover(root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, domain.IOError("stat input", err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (!recursive || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			return nil
		}
		if r.Supports(filepath.Ext(name)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, domain.IOError("scan input directory", err)
	}
	sort.Strings(files)
	return files, nil
}
