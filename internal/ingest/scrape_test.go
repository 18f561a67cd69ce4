package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const programPageHTML = `<!DOCTYPE html>
<html><body>
<h1>Искусственный интеллект</h1>
<h2 id="about">О программе</h2>
<p>Магистратура по машинному обучению.</p>
<p>Готовит инженеров и исследователей.</p>
<h2 id="study-plan">Учебный план</h2>
<div><a href="/files/plan.pdf">скачать учебный план</a></div>
<h2>Контакты</h2>
<a href="mailto:admission@example.org">admission@example.org</a>
<a href="tel:+78120000000">+7 (812) 000-00-00</a>
</body></html>`

func newScrapeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/program/master/ai", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(programPageHTML))
	})
	mux.HandleFunc("/files/plan.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	})
	return httptest.NewServer(mux)
}

func TestParseProgramPage(t *testing.T) {
	srv := newScrapeServer(t)
	defer srv.Close()

	pdfDir := filepath.Join(t.TempDir(), "pdfs")
	s := NewScraper(srv.URL, pdfDir)

	prog, err := s.ParseProgramPage(context.Background(), srv.URL+"/program/master/ai")
	require.NoError(t, err)

	assert.Equal(t, "ai", prog.Slug)
	assert.Equal(t, "Искусственный интеллект", prog.Title)
	assert.Equal(t, "Магистратура по машинному обучению. Готовит инженеров и исследователей.", prog.Description)
	assert.Equal(t, srv.URL+"/files/plan.pdf", prog.PDFURL)
	assert.Equal(t, "admission@example.org", prog.ManagerEmail)
	assert.Equal(t, "+7 (812) 000-00-00", prog.ManagerPhone)

	require.NotEmpty(t, prog.PDFPath)
	data, err := os.ReadFile(prog.PDFPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "%PDF")
	assert.Equal(t, "plan.pdf", filepath.Base(prog.PDFPath))
}

func TestParseProgramPage_NoPDFDir(t *testing.T) {
	srv := newScrapeServer(t)
	defer srv.Close()

	s := NewScraper(srv.URL, "")
	prog, err := s.ParseProgramPage(context.Background(), srv.URL+"/program/master/ai")
	require.NoError(t, err)
	assert.Empty(t, prog.PDFPath)
	assert.NotEmpty(t, prog.PDFURL)
}

func TestScrapeAll_SkipsFailedPages(t *testing.T) {
	srv := newScrapeServer(t)
	defer srv.Close()

	s := NewScraper(srv.URL, "")
	programs, err := s.ScrapeAll(context.Background(), []string{
		srv.URL + "/program/master/ai",
		srv.URL + "/program/master/missing",
	})
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, "ai", programs[0].Slug)
}

func TestAbsoluteURL(t *testing.T) {
	s := NewScraper("https://abit.itmo.ru/", "")

	assert.Equal(t, "https://abit.itmo.ru/files/plan.pdf", s.absoluteURL("/files/plan.pdf"))
	assert.Equal(t, "https://abit.itmo.ru/files/plan.pdf", s.absoluteURL("files/plan.pdf"))
	assert.Equal(t, "https://other.host/x.pdf", s.absoluteURL("https://other.host/x.pdf"))
	assert.Equal(t, "", s.absoluteURL(""))
}
