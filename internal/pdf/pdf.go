// Package pdf composes and writes the exported documents. Pages are A4
// portrait with zero margin and a dark backdrop matching the preview.
package pdf

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/moorelegal/dossier/internal/document"
	"github.com/moorelegal/dossier/internal/errors"
)

// A4 portrait in millimetres.
const (
	pageWidth  = 210.0
	pageHeight = 297.0
	contentPad = 14.0
)

// Exporter produces a PDF file for a draft. The ops layer depends on this
// interface so export failures can be simulated in tests.
type Exporter interface {
	Export(ctx context.Context, d document.Draft, dir string) (string, error)
}

// Composer renders drafts with go-pdf/fpdf.
type Composer struct {
	// CabinetName is printed in each document header.
	CabinetName string
	// Scale is the raster density multiplier applied to embedded images.
	Scale float64
	// JPEGQuality is the re-encode quality for embedded images, 1-100.
	JPEGQuality int
}

// NewComposer returns a Composer with the standard rendering settings.
func NewComposer(cabinetName string) *Composer {
	return &Composer{
		CabinetName: cabinetName,
		Scale:       2,
		JPEGQuality: 98,
	}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// SanitizeFilename collapses whitespace runs to single underscores and
// strips path separators and control characters.
func SanitizeFilename(name string) string {
	name = whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "_")
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	name = strings.ReplaceAll(name, "..", "-")

	var b strings.Builder
	for _, r := range name {
		if r >= 32 && r != 127 {
			b.WriteRune(r)
		}
	}
	name = b.String()

	if name == "" {
		return "document"
	}
	return name
}

// EnsurePDFExt appends ".pdf" unless the name already carries it.
func EnsurePDFExt(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".pdf") {
		return name
	}
	return name + ".pdf"
}

// Filename returns the sanitized output filename for a draft.
func Filename(d document.Draft) string {
	return EnsurePDFExt(SanitizeFilename(document.ExportBaseName(d)))
}

// Export composes the PDF for d and writes it into dir, creating dir if
// needed. Returns the final file path.
func (c *Composer) Export(ctx context.Context, d document.Draft, dir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.NewExportFailed(err)
	}

	doc := c.newPage()
	tr := doc.UnicodeTranslatorFromDescriptor("")

	switch x := d.(type) {
	case *document.OrdonnanceDraft:
		c.composeOrdonnance(doc, tr, x)
	case *document.ContratDraft:
		c.composeContrat(doc, tr, x)
	case *document.PlainteDraft:
		c.composePlainte(doc, tr, x)
	case *document.FactureDraft:
		c.composeFacture(doc, tr, x)
	default:
		return "", errors.NewExportFailed(fmt.Errorf("unknown draft type %T", d))
	}

	if doc.Err() {
		return "", errors.NewExportFailed(doc.Error())
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return "", errors.NewExportFailed(err)
	}

	path := filepath.Join(dir, Filename(d))
	if err := WriteFileAtomic(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

// newPage builds a zero-margin A4 portrait document with the dark
// backdrop pre-painted on every page.
func (c *Composer) newPage() *fpdf.Fpdf {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(true, 0)
	doc.SetHeaderFunc(func() {
		doc.SetFillColor(5, 5, 5)
		doc.Rect(0, 0, pageWidth, pageHeight, "F")
	})
	doc.AddPage()
	return doc
}

// WriteFileAtomic writes data through a temp file and renames it into
// place, so a failed write never clobbers an earlier file. The archive
// op shares this path with PDF export.
func WriteFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.NewExportFailed(fmt.Errorf("create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewExportFailed(fmt.Errorf("generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"

	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return errors.NewExportFailed(fmt.Errorf("create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return errors.NewExportFailed(err)
	}
	if err := file.Sync(); err != nil {
		return errors.NewExportFailed(err)
	}

	// Close before rename (required on Windows; fine elsewhere).
	if err := file.Close(); err != nil {
		return errors.NewExportFailed(fmt.Errorf("close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlink destination.
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewExportFailed(fmt.Errorf("export path is a symlink"))
	}

	if err := os.Rename(tempPath, path); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(path); statErr == nil {
				return errors.NewExportFailed(fmt.Errorf("export destination already exists"))
			}
		}
		return errors.NewExportFailed(fmt.Errorf("finalize export: %w", err))
	}

	success = true
	return nil
}
