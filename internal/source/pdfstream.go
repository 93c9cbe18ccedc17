package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/text/encoding/charmap"
)

// streamPDF reads text straight from page content streams via pdfcpu. It
// copes with files the primary reader rejects, at the cost of ignoring font
// encodings other than WinAnsi.
type streamPDF struct {
	name string
	ctx  *model.Context
}

func newStreamPDF(name string, data []byte) (s *streamPDF, err error) {
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("pdfcpu: %v", r)
		}
	}()
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}
	return &streamPDF{name: name, ctx: ctx}, nil
}

func (p *streamPDF) Name() string  { return p.name }
func (p *streamPDF) NumPages() int { return p.ctx.PageCount }
func (p *streamPDF) Close() error  { return nil }

func (p *streamPDF) PageText(n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", &PageError{Page: n, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	r, err := pdfcpu.ExtractPageContent(p.ctx, n)
	if err != nil {
		return "", &PageError{Page: n, Err: err}
	}
	if r == nil {
		return "", &PageError{Page: n, Err: errors.New("empty content stream")}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", &PageError{Page: n, Err: err}
	}
	return textFromStream(data), nil
}

// pdfStringRe matches PDF string literals in parentheses: (text here)
var pdfStringRe = regexp.MustCompile(`\((?:[^()\\]|\\.)*\)`)

// textFromStream walks content-stream operators and rebuilds text lines.
// Show-text operators append to the current line; line-moving operators
// start a new one.
func textFromStream(data []byte) string {
	var sb strings.Builder
	newline := func() {
		s := sb.String()
		if s != "" && !strings.HasSuffix(s, "\n") {
			sb.WriteByte('\n')
		}
	}

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		fields := bytes.Fields(line)
		op := string(fields[len(fields)-1])

		switch op {
		case "Tj", "TJ":
			writeStrings(&sb, line)
		case "'", `"`:
			newline()
			writeStrings(&sb, line)
		case "T*", "ET":
			newline()
		case "Td", "TD":
			// Only vertical moves end a line.
			if len(fields) >= 3 {
				if ty, err := strconv.ParseFloat(string(fields[len(fields)-2]), 64); err == nil && ty != 0 {
					newline()
				}
			}
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func writeStrings(sb *strings.Builder, line []byte) {
	for _, m := range pdfStringRe.FindAll(line, -1) {
		sb.WriteString(decodePDFString(m[1 : len(m)-1]))
	}
}

// decodePDFString handles PDF escape sequences and maps the resulting
// WinAnsi bytes to UTF-8.
func decodePDFString(raw []byte) string {
	var out []byte
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			out = append(out, raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case '\\', '(', ')':
			out = append(out, raw[i])
		default:
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for k := 0; k < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; k++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				out = append(out, byte(val))
			} else {
				out = append(out, raw[i])
			}
		}
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(out)
	if err != nil {
		return string(out)
	}
	return string(decoded)
}
