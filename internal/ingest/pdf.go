package ingest

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/ledongthuc/pdf"

	"github.com/maxoun/tg-bot-msc/internal/domain"
)

// ExtractText returns the plain text of a PDF file. A blank page yields
// an empty string, not an error.
func ExtractText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w", path, err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", fmt.Errorf("failed to read text of %s: %w", path, err)
	}
	return buf.String(), nil
}

// PDFDocuments ingests every *.pdf under dir, in file-name order so the
// corpus layout is deterministic. Source is the bare file name. A file
// that fails to parse is skipped and logged rather than aborting the
// whole corpus build. A missing directory yields no documents.
func PDFDocuments(dir string) ([]domain.Document, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var docs []domain.Document
	for _, path := range paths {
		text, err := ExtractText(path)
		if err != nil {
			log.Printf("ingest: %v", domain.NewIngestionFailure(filepath.Base(path), err))
			continue
		}
		docs = append(docs, domain.Document{Content: text, Source: filepath.Base(path)})
	}
	return docs, nil
}

// WriteBlankPDF writes a minimal single blank page PDF of the given page
// size in points. It is a one-call scoped helper for fixtures and tests;
// the document it produces carries no text.
func WriteBlankPDF(path string, width, height float64) error {
	var buf bytes.Buffer
	offsets := make([]int, 0, 3)

	buf.WriteString("%PDF-1.4\n")

	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	writeObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	writeObj("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	writeObj(fmt.Sprintf("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g %g] /Resources << >> /Contents 4 0 R >>\nendobj\n", width, height))
	// An explicit empty content stream keeps text extractors happy.
	writeObj("4 0 obj\n<< /Length 0 >>\nstream\n\nendstream\nendobj\n")

	xrefOffset := buf.Len()
	buf.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)+1))
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		buf.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
	}
	buf.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xrefOffset))

	return os.WriteFile(path, buf.Bytes(), 0o644)
}
