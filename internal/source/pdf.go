package source

import (
	"bytes"
	"errors"
	"fmt"

	pdflib "github.com/ledongthuc/pdf"
)

// PDF reads pages through ledongthuc/pdf. The whole file is kept in memory
// because the reader needs random access.
type PDF struct {
	name   string
	reader *pdflib.Reader
}

func openPDF(name string, data []byte, fallback bool) (s Source, err error) {
	s, err = newPDF(name, data)
	if err != nil && fallback {
		fb, fbErr := newStreamPDF(name, data)
		if fbErr == nil {
			return fb, nil
		}
		err = errors.Join(err, fbErr)
	}
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return s, nil
}

func newPDF(name string, data []byte) (s *PDF, err error) {
	// The reader panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("pdf reader: %v", r)
		}
	}()
	r, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return &PDF{name: name, reader: r}, nil
}

func (p *PDF) Name() string  { return p.name }
func (p *PDF) NumPages() int { return p.reader.NumPage() }
func (p *PDF) Close() error  { return nil }

// PageText extracts the plain text of a page. Panics inside the reader are
// reported as a PageError.
func (p *PDF) PageText(n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", &PageError{Page: n, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	page := p.reader.Page(n)
	if page.V.IsNull() {
		return "", &PageError{Page: n, Err: errors.New("missing page object")}
	}
	text, err = page.GetPlainText(nil)
	if err != nil {
		return "", &PageError{Page: n, Err: err}
	}
	return text, nil
}
