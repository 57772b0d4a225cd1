// Package extract reads text out of uploaded transcript files.
// PDF extraction uses ledongthuc/pdf; plain-text files pass through.
package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	apperrors "github.com/ready4uni/advisor-go/internal/errors"
)

// MaxFileSize is the largest upload the extractor will touch.
const MaxFileSize = 50 * 1024 * 1024

// minFileSize guards against truncated or empty uploads.
const minFileSize = 100

// TextExtractor pulls plain text from an uploaded file.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// FileExtractor reads PDFs and plain-text files from local disk.
// Uploads are confined to BaseDir; paths escaping it are rejected.
type FileExtractor struct {
	BaseDir string
}

// NewFileExtractor creates an extractor rooted at baseDir.
// An empty baseDir disables the containment check.
func NewFileExtractor(baseDir string) *FileExtractor {
	return &FileExtractor{BaseDir: baseDir}
}

// Extract returns the text content of the file at path.
func (e *FileExtractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	resolved, err := e.resolve(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("%w: file not found: %s", apperrors.ErrInvalidInput, path)
	}
	if info.Size() < minFileSize {
		return "", fmt.Errorf("%w: file too small, might be corrupted", apperrors.ErrInvalidInput)
	}
	if info.Size() > MaxFileSize {
		return "", fmt.Errorf("%w: file too large (max 50MB)", apperrors.ErrInvalidInput)
	}

	switch strings.ToLower(filepath.Ext(resolved)) {
	case ".pdf":
		return extractPDF(resolved)
	case ".txt", ".md":
		data, err := os.ReadFile(resolved)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		return CleanText(string(data)), nil
	default:
		return "", fmt.Errorf("%w: unsupported file type %q", apperrors.ErrInvalidInput, filepath.Ext(resolved))
	}
}

// resolve joins relative paths onto BaseDir and rejects escapes.
func (e *FileExtractor) resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: file path is required", apperrors.ErrInvalidInput)
	}

	resolved := path
	if e.BaseDir != "" {
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(e.BaseDir, resolved)
		}
		abs, err := filepath.Abs(resolved)
		if err != nil {
			return "", fmt.Errorf("resolve path: %w", err)
		}
		base, err := filepath.Abs(e.BaseDir)
		if err != nil {
			return "", fmt.Errorf("resolve base dir: %w", err)
		}
		if abs != base && !strings.HasPrefix(abs, base+string(filepath.Separator)) {
			return "", fmt.Errorf("%w: path escapes upload directory", apperrors.ErrInvalidInput)
		}
		resolved = abs
	}
	return resolved, nil
}

func extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	if reader.NumPage() == 0 {
		return "", fmt.Errorf("%w: pdf has no pages", apperrors.ErrInvalidInput)
	}

	var sb strings.Builder
	r, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	if _, err := io.Copy(&sb, r); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	text := CleanText(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: no extractable text, pdf might be scanned images", apperrors.ErrInvalidInput)
	}
	return text, nil
}

var (
	multiNewline = regexp.MustCompile(`\n{3,}`)
	multiSpace   = regexp.MustCompile(` {2,}`)
	lonePageNum  = regexp.MustCompile(`(?m)^\d+$`)
)

// CleanText normalizes whitespace and strips lone page numbers.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = multiNewline.ReplaceAllString(text, "\n\n")
	text = multiSpace.ReplaceAllString(text, " ")
	text = lonePageNum.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
