package extract

import (
	"bytes"
	"context"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DeclaredType is the caller-declared document format.
type DeclaredType string

// Recognized declared types.
const (
	TypeText  DeclaredType = "text"
	TypePDF   DeclaredType = "pdf"
	TypeExcel DeclaredType = "excel"
)

// Valid reports whether the declared type is recognized.
func (t DeclaredType) Valid() bool {
	switch t {
	case TypeText, TypePDF, TypeExcel:
		return true
	}
	return false
}

// Document is the normalized output of extraction: plain text plus the
// section headings detected in it.
type Document struct {
	Filename     string
	DeclaredType DeclaredType
	Text         string
	Sections     []string
}

// Config bounds the extractor.
type Config struct {
	// MaxBytes is the largest accepted payload. Default: 10MB.
	MaxBytes int64
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() *Config {
	return &Config{MaxBytes: 10 << 20}
}

// Extractor normalizes declared-type input into plain text.
type Extractor struct {
	config *Config
	logger *slog.Logger
}

// New creates an extractor.
func New(config *Config) *Extractor {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxBytes <= 0 {
		config.MaxBytes = DefaultConfig().MaxBytes
	}
	return &Extractor{
		config: config,
		logger: slog.Default().With("component", "extract"),
	}
}

var (
	pdfMagic = []byte("%PDF")
	zipMagic = []byte("PK\x03\x04") // xlsx containers are zip archives

	allCapsHeadingRe  = regexp.MustCompile(`^[A-Z][A-Z0-9 ,&/-]{2,}$`)
	numberedHeadingRe = regexp.MustCompile(`^\d+(\.\d+)*[.)]?\s+[A-Z].*$`)
)

// Extract normalizes one document. It fails with an ExtractionError for
// unknown declared types, oversized payloads, and binary pdf/excel
// content; a pdf/excel declaration over already-extracted text is
// accepted as text.
func (e *Extractor) Extract(ctx context.Context, content []byte, filename string, declaredType DeclaredType) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewExtractionError(filename, declaredType, "extraction cancelled", err)
	}

	if !declaredType.Valid() {
		return nil, NewExtractionError(filename, declaredType, "unsupported document type", nil)
	}
	if int64(len(content)) > e.config.MaxBytes {
		return nil, NewExtractionError(filename, declaredType, "document exceeds size limit", nil)
	}

	switch declaredType {
	case TypePDF:
		if bytes.HasPrefix(content, pdfMagic) {
			return nil, NewExtractionError(filename, declaredType,
				"binary PDF payloads are not supported, provide extracted text", nil)
		}
	case TypeExcel:
		if bytes.HasPrefix(content, zipMagic) {
			return nil, NewExtractionError(filename, declaredType,
				"binary spreadsheet payloads are not supported, provide extracted text", nil)
		}
	}

	if !utf8.Valid(content) {
		return nil, NewExtractionError(filename, declaredType, "document is not valid UTF-8 text", nil)
	}

	text := normalize(string(content))
	sections := detectSections(text)

	e.logger.Debug("document extracted",
		"filename", filename,
		"declared_type", string(declaredType),
		"bytes", len(content),
		"sections", len(sections),
	)

	return &Document{
		Filename:     filename,
		DeclaredType: declaredType,
		Text:         text,
		Sections:     sections,
	}, nil
}

// normalize standardizes line endings, strips a BOM, and trims trailing
// whitespace per line so the parser sees uniform text.
func normalize(text string) string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// detectSections collects heading lines: ALL-CAPS titles and numbered
// headings. The labels are diagnostic context for upload summaries; the
// parser re-detects structure on its own pass.
func detectSections(text string) []string {
	var sections []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if allCapsHeadingRe.MatchString(line) || numberedHeadingRe.MatchString(line) {
			// Numbered headings only count when the body is short enough to
			// be a title rather than a clause.
			if numberedHeadingRe.MatchString(line) && len(strings.Fields(line)) > 8 {
				continue
			}
			sections = append(sections, line)
		}
	}
	return sections
}
