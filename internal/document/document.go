// Package document extracts plain text from resume files.
package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

const DefaultMaxBytes = 10 << 20

var (
	ErrUnsupported = errors.New("unsupported document format")
	ErrTooLarge    = errors.New("document is too large")
)

// Kind is a supported document format.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
	KindDOC  Kind = "doc"
	KindHTML Kind = "html"
	KindText Kind = "text"
)

type Extractor struct {
	maxBytes int
	logger   *zap.Logger
}

func NewExtractor(maxBytes int, logger *zap.Logger) *Extractor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{maxBytes: maxBytes, logger: logger}
}

// Extract returns the text of data. The format is taken from the file
// extension when known, otherwise from the content.
func (e *Extractor) Extract(ctx context.Context, data []byte, filename string) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) > e.maxBytes {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(data), e.maxBytes)
	}

	kind, mime := Detect(data, filename)
	e.logger.Debug("document detected",
		zap.String("file", filename),
		zap.String("kind", string(kind)),
		zap.String("mime", mime),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decode %s: %v", kind, r)
		}
	}()

	switch kind {
	case KindPDF:
		text, err = pdfText(data)
	case KindDOCX:
		text, err = docxText(data)
	case KindDOC:
		text = docText(data)
	case KindHTML:
		text, err = htmlText(data)
	case KindText:
		text = string(bytes.ToValidUTF8(data, []byte(" ")))
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, mime)
	}
	if err != nil {
		return "", err
	}
	return tidy(text), nil
}

var extensions = map[string]Kind{
	".pdf":      KindPDF,
	".docx":     KindDOCX,
	".doc":      KindDOC,
	".html":     KindHTML,
	".htm":      KindHTML,
	".txt":      KindText,
	".text":     KindText,
	".md":       KindText,
	".markdown": KindText,
}

// Detect picks the document kind and reports the sniffed MIME type.
func Detect(data []byte, filename string) (Kind, string) {
	detected := mimetype.Detect(data)
	mime := detected.String()

	if kind, ok := extensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return kind, mime
	}

	switch {
	case detected.Is("application/pdf"):
		return KindPDF, mime
	case detected.Is("application/vnd.openxmlformats-officedocument.wordprocessingml.document"):
		return KindDOCX, mime
	case detected.Is("application/msword"):
		return KindDOC, mime
	case detected.Is("text/html"):
		return KindHTML, mime
	}
	for m := detected; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return KindText, mime
		}
	}
	return "", mime
}

var (
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
	spacesRe     = regexp.MustCompile(`[ \t\f\v\r]+`)
)

func tidy(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spacesRe.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(blankLinesRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

// Supported reports whether filename has an extension Extract knows.
func Supported(filename string) bool {
	_, ok := extensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}
