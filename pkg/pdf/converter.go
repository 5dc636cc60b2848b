package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"
)

// Converter turns a rendered HTML document into the file at outputPath.
type Converter interface {
	Convert(ctx context.Context, html []byte, outputPath string) error
	// Ext is the file extension of the produced document, without the dot.
	Ext() string
}

// WKHTMLToPDF converts through the wkhtmltopdf executable at Path. The HTML
// is piped on stdin.
type WKHTMLToPDF struct {
	Path string
}

var _ Converter = (*WKHTMLToPDF)(nil)

func NewWKHTMLToPDF(path string) *WKHTMLToPDF {
	return &WKHTMLToPDF{Path: path}
}

func (w *WKHTMLToPDF) Ext() string { return "pdf" }

// Args returns the command line used for outputPath: an A5 landscape page
// with 0.3in margins at 300 dpi.
func (w *WKHTMLToPDF) Args(outputPath string) []string {
	return []string{
		"--page-size", "A5",
		"--orientation", "Landscape",
		"--margin-top", "0.3in",
		"--margin-right", "0.3in",
		"--margin-bottom", "0.3in",
		"--margin-left", "0.3in",
		"--encoding", "UTF-8",
		"--disable-smart-shrinking",
		"--dpi", "300",
		"--print-media-type",
		"--no-outline",
		"--quiet",
		"-", // read HTML from stdin
		outputPath,
	}
}

func (w *WKHTMLToPDF) Convert(ctx context.Context, html []byte, outputPath string) error {
	cmd := exec.CommandContext(ctx, w.Path, w.Args(outputPath)...)
	cmd.Stdin = bytes.NewReader(html)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w (%s): %w", ErrConverterNotFound, w.Path, err)
		}
		return fmt.Errorf("wkhtmltopdf conversion failed: %w, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return fmt.Errorf("wkhtmltopdf produced no output: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("wkhtmltopdf produced an empty file: %s", outputPath)
	}
	return nil
}

// HTMLFile writes the HTML unchanged. It is selected explicitly with the
// html report format.
type HTMLFile struct{}

var _ Converter = HTMLFile{}

func (HTMLFile) Ext() string { return "html" }

func (HTMLFile) Convert(_ context.Context, html []byte, outputPath string) error {
	if err := os.WriteFile(outputPath, html, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Unavailable stands in for a converter that could not be located. Every
// conversion fails with Err, which wraps ErrConverterNotFound.
type Unavailable struct {
	Err error
}

var _ Converter = Unavailable{}

func (Unavailable) Ext() string { return "pdf" }

func (u Unavailable) Convert(context.Context, []byte, string) error {
	return u.Err
}

// Describe names the converter for status reporting. The error is non-nil
// when c cannot produce documents.
func Describe(c Converter) (string, error) {
	switch v := c.(type) {
	case *WKHTMLToPDF:
		return "wkhtmltopdf", nil
	case HTMLFile:
		return "html", nil
	case Unavailable:
		return "unavailable", v.Err
	case nil:
		return "none", ErrConverterNotFound
	default:
		return fmt.Sprintf("%T", c), nil
	}
}
