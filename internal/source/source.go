package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned for file extensions no reader handles.
var ErrUnsupported = errors.New("unsupported file extension")

// Source yields the text of a document page by page. Pages are numbered
// from 1. A page may fail on its own without invalidating the others.
type Source interface {
	Name() string
	NumPages() int
	PageText(page int) (string, error)
	Close() error
}

// PageError reports a single page that could not be read.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// Options tune how sources are opened.
type Options struct {
	// PDFFallback enables the pdfcpu content-stream reader when the primary
	// PDF reader cannot open a file.
	PDFFallback bool
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".html": true,
	".htm":  true,
	".txt":  true,
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Open reads the file at path and returns a Source named after its base name.
func Open(path string, opts Options) (Source, error) {
	if !IsSupportedExtension(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return OpenBytes(filepath.Base(path), data, opts)
}

// OpenBytes picks a reader for name's extension and opens data with it.
func OpenBytes(name string, data []byte, opts Options) (Source, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".pdf":
		return openPDF(name, data, opts.PDFFallback)
	case ".docx":
		return openDOCX(name, data)
	case ".html", ".htm":
		return openHTML(name, data)
	case ".txt":
		return NewText(name, string(data)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}
}

// pages is a Source over text already split into pages.
type pages struct {
	name  string
	texts []string
}

func (p *pages) Name() string  { return p.name }
func (p *pages) NumPages() int { return len(p.texts) }
func (p *pages) Close() error  { return nil }

func (p *pages) PageText(page int) (string, error) {
	if page < 1 || page > len(p.texts) {
		return "", &PageError{Page: page, Err: errors.New("out of range")}
	}
	return p.texts[page-1], nil
}
