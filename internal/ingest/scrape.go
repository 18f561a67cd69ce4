package ingest

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/maxoun/tg-bot-msc/internal/domain"
)

// DefaultBaseURL is the admissions site the bot indexes.
const DefaultBaseURL = "https://abit.itmo.ru"

// DefaultProgramURLs lists the program pages the bot indexes on startup.
var DefaultProgramURLs = []string{
	"https://abit.itmo.ru/program/master/ai_product",
	"https://abit.itmo.ru/program/master/ai",
}

// Scraper fetches master's-program pages and turns them into Program
// records. Fetches are rate limited to stay polite; when pdfDir is set,
// the study-plan PDF linked from each page is downloaded there.
type Scraper struct {
	baseURL string
	pdfDir  string
	client  *http.Client
	limiter *rate.Limiter
}

// NewScraper creates a Scraper rooted at baseURL. pdfDir may be empty to
// skip PDF downloads.
func NewScraper(baseURL, pdfDir string) *Scraper {
	return &Scraper{
		baseURL: strings.TrimRight(baseURL, "/"),
		pdfDir:  pdfDir,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}
}

// ScrapeAll fetches every URL concurrently and returns the records that
// parsed successfully, in URL order. A page that fails is skipped and
// logged; only a cancelled context aborts the whole run.
func (s *Scraper) ScrapeAll(ctx context.Context, urls []string) ([]Program, error) {
	results := make([]*Program, len(urls))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			prog, err := s.ParseProgramPage(ctx, url)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Printf("ingest: %v", domain.NewIngestionFailure(url, err))
				return nil
			}
			mu.Lock()
			results[i] = prog
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	programs := make([]Program, 0, len(urls))
	for _, p := range results {
		if p != nil {
			programs = append(programs, *p)
		}
	}
	return programs, nil
}

// ParseProgramPage fetches one program page and extracts its title,
// description, study-plan PDF link and contact details. When the scraper
// has a PDF directory, the linked study plan is downloaded as well.
func (s *Scraper) ParseProgramPage(ctx context.Context, url string) (*Program, error) {
	doc, err := s.fetchDocument(ctx, url)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(strings.TrimRight(url, "/"), "/")
	prog := &Program{
		Slug:  parts[len(parts)-1],
		URL:   url,
		Title: strings.TrimSpace(doc.Find("h1").First().Text()),
	}

	prog.Description = parseDescription(doc)
	prog.PDFURL = s.absoluteURL(parsePDFLink(doc))

	if mail := doc.Find(`a[href^="mailto:"]`).First(); mail.Length() > 0 {
		prog.ManagerEmail = strings.TrimSpace(mail.Text())
	}
	if tel := doc.Find(`a[href^="tel:"]`).First(); tel.Length() > 0 {
		prog.ManagerPhone = strings.TrimSpace(tel.Text())
	}

	if prog.PDFURL != "" && s.pdfDir != "" {
		path, err := s.downloadPDF(ctx, prog.PDFURL)
		if err != nil {
			// The page itself is still usable without its study plan.
			log.Printf("ingest: %v", domain.NewIngestionFailure(prog.PDFURL, err))
		} else {
			prog.PDFPath = path
		}
	}

	return prog, nil
}

func (s *Scraper) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := s.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return goquery.NewDocumentFromReader(body)
}

func (s *Scraper) get(ctx context.Context, url string) (io.ReadCloser, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}
	return resp.Body, nil
}

func (s *Scraper) downloadPDF(ctx context.Context, pdfURL string) (string, error) {
	if err := os.MkdirAll(s.pdfDir, 0o755); err != nil {
		return "", err
	}

	body, err := s.get(ctx, pdfURL)
	if err != nil {
		return "", err
	}
	defer body.Close()

	parts := strings.Split(strings.TrimRight(pdfURL, "/"), "/")
	dest := filepath.Join(s.pdfDir, parts[len(parts)-1])

	f, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return "", err
	}
	return dest, nil
}

// absoluteURL resolves href against the scraper's base URL.
func (s *Scraper) absoluteURL(href string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return s.baseURL + href
}

// parseDescription collects the paragraph text between the "about"
// heading and the next heading.
func parseDescription(doc *goquery.Document) string {
	about := findHeading(doc, "about", "о программе")
	if about == nil {
		return ""
	}

	var parts []string
	about.NextAll().EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		name := goquery.NodeName(sel)
		if strings.HasPrefix(name, "h") && len(name) == 2 {
			return false
		}
		if name == "p" || name == "span" {
			if text := strings.Join(strings.Fields(sel.Text()), " "); text != "" {
				parts = append(parts, text)
			}
		}
		return true
	})
	return strings.TrimSpace(strings.Join(parts, " "))
}

// parsePDFLink finds the first .pdf href after the study-plan heading.
func parsePDFLink(doc *goquery.Document) string {
	study := findHeading(doc, "study-plan", "учебный план")
	if study == nil {
		return ""
	}

	var href string
	study.NextAll().EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		candidates := sel.Find("a[href]")
		if goquery.NodeName(sel) == "a" {
			candidates = candidates.AddSelection(sel)
		}
		candidates.EachWithBreak(func(_ int, a *goquery.Selection) bool {
			h, _ := a.Attr("href")
			if strings.HasSuffix(strings.ToLower(h), ".pdf") {
				href = h
				return false
			}
			return true
		})
		return href == ""
	})
	return href
}

// findHeading locates an h2 by id, falling back to a case-insensitive
// text match.
func findHeading(doc *goquery.Document, id, text string) *goquery.Selection {
	if byID := doc.Find("h2#" + id).First(); byID.Length() > 0 {
		return byID
	}

	var found *goquery.Selection
	doc.Find("h2").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(sel.Text()), text) {
			found = sel
			return false
		}
		return true
	})
	return found
}
