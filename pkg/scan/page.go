package scan

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/k3a/html2text"
)

// MaxPageBytes bounds the size of a fetched page.
const MaxPageBytes = 10 << 20

var (
	reRT = regexp.MustCompile(`(?si)<rt\b[^>]*>.*?</rt>`)
	reRP = regexp.MustCompile(`(?si)<rp\b[^>]*>.*?</rp>`)
)

// SanitizeRuby removes ruby text (<rt>) and ruby parentheses (<rp>) so that
// furigana is not extracted next to its base text ("漢字かんじ").
func SanitizeRuby(content []byte) []byte {
	cleaned := reRT.ReplaceAll(content, nil)
	return reRP.ReplaceAll(cleaned, nil)
}

// Page is the readable text of an HTML document.
type Page struct {
	Title string
	Text  string
}

// ExtractPage pulls the article text out of an HTML document. Ruby
// annotations are dropped first. When readability finds no article the whole
// document is converted to plain text instead.
func ExtractPage(body []byte, pageURL *url.URL) (Page, error) {
	body = SanitizeRuby(body)
	if pageURL == nil {
		pageURL = &url.URL{}
	}

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return Page{Title: article.Title, Text: article.TextContent}, nil
	}

	text := strings.TrimSpace(html2text.HTML2Text(string(body)))
	if text == "" {
		if err != nil {
			return Page{}, fmt.Errorf("extract article: %w", err)
		}
		return Page{}, fmt.Errorf("extract article: no text")
	}
	return Page{Text: text}, nil
}

// FetchPage downloads rawURL with browser-like headers, refusing bodies over
// MaxPageBytes.
func FetchPage(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	// Some sites block unknown agents outright.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ja,en-US;q=0.9,en;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}
	if resp.ContentLength > MaxPageBytes {
		return nil, fmt.Errorf("fetch %s: content length %d exceeds %d bytes", rawURL, resp.ContentLength, MaxPageBytes)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxPageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}
	if len(body) > MaxPageBytes {
		return nil, fmt.Errorf("fetch %s: body exceeds %d bytes", rawURL, MaxPageBytes)
	}
	return body, nil
}
