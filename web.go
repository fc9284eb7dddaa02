package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

const markdownExt = ".md"

var webClient = &http.Client{Timeout: 30 * time.Second}

// crawler converts pages of one site to markdown files under dir.
type crawler struct {
	client    *http.Client
	converter *md.Converter
	host      string
	dir       string
	maxDepth  int
	visited   map[string]bool
	written   int
}

// fetchSite fetches startURL and, up to maxDepth link hops, the same-host
// pages it links to. Each page is stored as markdown under dir, mirroring
// the URL path. It returns the number of pages written; failing to fetch the
// start page is an error, failures further down are warnings.
func fetchSite(ctx context.Context, startURL string, maxDepth int, dir string) (int, error) {
	u, err := url.Parse(startURL)
	if err != nil {
		return 0, fmt.Errorf("invalid start URL %s: %w", startURL, err)
	}
	c := &crawler{
		client:    webClient,
		converter: md.NewConverter("", true, nil),
		host:      u.Host,
		dir:       dir,
		maxDepth:  maxDepth,
		visited:   make(map[string]bool),
	}
	if err := c.visit(ctx, u, 0); err != nil {
		return 0, err
	}
	return c.written, nil
}

func (c *crawler) visit(ctx context.Context, u *url.URL, depth int) error {
	page := *u
	page.Fragment = ""
	clean := page.String()
	if depth > c.maxDepth || c.visited[clean] {
		return nil
	}
	c.visited[clean] = true

	body, err := c.fetch(ctx, clean)
	if err != nil {
		return err
	}

	markdown, err := c.converter.ConvertString(string(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to convert HTML to Markdown for %s: %v\n", clean, err)
	} else if err := c.save(&page, markdown); err != nil {
		return err
	}

	if depth == c.maxDepth {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to parse HTML for link extraction from %s: %v\n", clean, err)
		return nil
	}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		link, _ := s.Attr("href")
		lower := strings.ToLower(link)
		if link == "" || strings.HasPrefix(link, "#") || strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "javascript:") {
			return
		}
		next, err := page.Parse(link)
		if err != nil || (next.Scheme != "http" && next.Scheme != "https") || next.Host != c.host {
			return
		}
		if err := c.visit(ctx, next, depth+1); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	})
	return nil
}

func (c *crawler) fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %s: %w", target, err)
	}
	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %s: %w", target, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("failed to fetch URL %s: status code %d", target, res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); !strings.Contains(strings.ToLower(ct), "text/html") {
		return nil, fmt.Errorf("skipping %s: content type %q is not HTML", target, ct)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", target, err)
	}
	return body, nil
}

func (c *crawler) save(u *url.URL, markdown string) error {
	p := filepath.Join(c.dir, filepath.FromSlash(pageFile(u)))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(p, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", u, err)
	}
	c.written++
	return nil
}

// pageFile maps a URL path to a relative markdown file name: "/" becomes
// "index.md", "/docs/" becomes "docs/index.md" and "/docs/intro.html"
// becomes "docs/intro.md". Characters outside [A-Za-z0-9._-] are replaced.
func pageFile(u *url.URL) string {
	p := path.Clean("/" + u.Path)
	if p == "/" || strings.HasSuffix(u.Path, "/") {
		p = path.Join(p, "index")
	}
	switch path.Ext(p) {
	case ".html", ".htm":
		p = strings.TrimSuffix(p, path.Ext(p))
	}
	segments := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i, s := range segments {
		segments[i] = strings.Map(func(r rune) rune {
			if r == '.' || r == '-' || r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
				return r
			}
			return '_'
		}, s)
		if segments[i] == "" || segments[i] == "." || segments[i] == ".." {
			segments[i] = "_"
		}
	}
	return strings.Join(segments, "/") + markdownExt
}
