// Package content serves the storefront's static pages (about, shipping,
// returns) from local markdown files with YAML front matter. Rendered HTML is
// sanitized before it reaches a template.
package content

import (
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned for unknown or invalid slugs.
var ErrNotFound = errors.New("content: page not found")

// Page is a rendered static page.
type Page struct {
	Slug      string
	Title     string
	Summary   string
	Body      template.HTML
	UpdatedAt time.Time
}

type frontMatter struct {
	Title   string `yaml:"title"`
	Summary string `yaml:"summary"`
	Updated string `yaml:"updated"`
}

// Store reads pages from a directory of <slug>.md files.
type Store struct {
	dir    string
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewStore constructs a store over dir.
func NewStore(dir string) *Store {
	return &Store{
		dir:    dir,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
	}
}

// Page loads, renders, and sanitizes the page for slug.
func (s *Store) Page(slug string) (Page, error) {
	slug = sanitizeSlug(slug)
	if slug == "" {
		return Page{}, ErrNotFound
	}
	raw, err := os.ReadFile(filepath.Join(s.dir, slug+".md"))
	if err != nil {
		return Page{}, ErrNotFound
	}

	fmRaw, body := splitFrontMatter(string(raw))
	var fm frontMatter
	if fmRaw != "" {
		if err := yaml.Unmarshal([]byte(fmRaw), &fm); err != nil {
			return Page{}, fmt.Errorf("content: parse front matter for %s: %w", slug, err)
		}
	}

	var rendered strings.Builder
	if err := s.md.Convert([]byte(body), &rendered); err != nil {
		return Page{}, fmt.Errorf("content: render %s: %w", slug, err)
	}

	page := Page{
		Slug:    slug,
		Title:   fm.Title,
		Summary: fm.Summary,
		Body:    template.HTML(s.policy.Sanitize(rendered.String())),
	}
	if page.Title == "" {
		page.Title = prettifySlug(slug)
	}
	if fm.Updated != "" {
		if ts, err := time.Parse("2006-01-02", strings.TrimSpace(fm.Updated)); err == nil {
			page.UpdatedAt = ts
		}
	}
	return page, nil
}

// splitFrontMatter separates a leading "---" YAML block from the body.
func splitFrontMatter(input string) (string, string) {
	lines := strings.Split(input, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.Join(lines[1:i], "\n"), strings.Join(lines[i+1:], "\n")
		}
	}
	return "", input
}

// sanitizeSlug keeps slugs to lowercase letters, digits, and hyphens so a
// request can never traverse out of the content directory.
func sanitizeSlug(slug string) string {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, r := range slug {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' {
			continue
		}
		return ""
	}
	return slug
}

func prettifySlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
