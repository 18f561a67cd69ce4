// Package ingest loads the corpus: scraped program records from
// programs.json and curriculum PDFs from a directory. Individual
// documents that fail to load are skipped and logged; only a missing
// corpus as a whole is fatal.
package ingest

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/maxoun/tg-bot-msc/internal/domain"
)

// Program is one scraped master's-program record, the schema written by
// the scraper and read back at pipeline startup.
type Program struct {
	Slug         string `json:"slug"`
	URL          string `json:"url"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PDFURL       string `json:"pdf_url,omitempty"`
	PDFPath      string `json:"pdf_path,omitempty"`
	ManagerEmail string `json:"manager_email,omitempty"`
	ManagerPhone string `json:"manager_phone,omitempty"`
}

// LoadPrograms reads a programs.json file.
func LoadPrograms(path string) ([]Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var programs []Program
	if err := json.Unmarshal(data, &programs); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return programs, nil
}

// SavePrograms writes programs to path, creating parent directories.
func SavePrograms(programs []Program, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(programs, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	log.Printf("ingest: saved %d programs to %s", len(programs), path)
	return nil
}

// ProgramDocuments converts program records to corpus documents. Content
// is title and description separated by blank lines, source is the page
// URL, matching what the retrieval layer reports back to users.
func ProgramDocuments(programs []Program) []domain.Document {
	docs := make([]domain.Document, 0, len(programs))
	for _, p := range programs {
		var content string
		if p.Title != "" {
			content += p.Title + "\n\n"
		}
		if p.Description != "" {
			content += p.Description + "\n\n"
		}
		docs = append(docs, domain.Document{Content: content, Source: p.URL})
	}
	return docs
}

// LoadCorpus assembles the full document set: program records from
// jsonPath plus every PDF under pdfDir. A missing or unparsable PDF is
// skipped with a logged INGESTION_FAILURE; a missing programs.json is
// fatal since without it there is no corpus at all.
func LoadCorpus(jsonPath, pdfDir string) ([]domain.Document, error) {
	programs, err := LoadPrograms(jsonPath)
	if err != nil {
		return nil, err
	}

	docs := ProgramDocuments(programs)
	log.Printf("ingest: loaded %d program records", len(programs))

	pdfDocs, err := PDFDocuments(pdfDir)
	if err != nil {
		return nil, err
	}
	docs = append(docs, pdfDocs...)

	log.Printf("ingest: loaded total %d documents", len(docs))
	return docs, nil
}
