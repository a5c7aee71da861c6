package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Document is the raw-text input to the pipeline. Offsets in the resulting
// report refer to Text exactly as stored here.
type Document struct {
	ID        string
	SourceURL string
	Text      string
}

// LoadDocument resolves a source argument into document text. URLs are
// fetched; local .html files and HTML responses are reduced to visible text;
// anything else is read verbatim.
func (p *Pipeline) LoadDocument(ctx context.Context, source string) (Document, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		result, err := p.fetcher.Fetch(ctx, source)
		if err != nil {
			return Document{}, err
		}
		text := result.Body
		if isHTML(result.ContentType, text) {
			text, err = htmlToText(text)
			if err != nil {
				return Document{}, fmt.Errorf("extract text: %w", err)
			}
		}
		return Document{ID: result.FinalURL, SourceURL: result.FinalURL, Text: text}, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return Document{}, fmt.Errorf("read document: %w", err)
	}
	text := string(data)

	ext := strings.ToLower(filepath.Ext(source))
	if ext == ".html" || ext == ".htm" || (ext == "" && isHTML("", text)) {
		text, err = htmlToText(text)
		if err != nil {
			return Document{}, fmt.Errorf("extract text: %w", err)
		}
	}
	return Document{ID: filepath.Base(source), Text: text}, nil
}

func isHTML(contentType, body string) bool {
	if strings.Contains(contentType, "text/html") || strings.Contains(contentType, "application/xhtml") {
		return true
	}
	head := strings.ToLower(strings.TrimSpace(body))
	if len(head) > 256 {
		head = head[:256]
	}
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

// blockElements end a line of visible text when converting HTML.
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "section": true, "article": true, "table": true,
}

// htmlToText reduces an HTML document to its visible text. Block boundaries
// become newlines so citation proximity in the output tracks the rendered
// layout rather than the markup.
func htmlToText(src string) (string, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" || n.Data == "noscript" {
				return
			}
		case html.TextNode:
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] {
			b.WriteByte('\n')
		}
	}
	walk(doc)

	return tidyText(b.String()), nil
}

// tidyText collapses runs of blank lines and trims trailing space per line.
func tidyText(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	blanks := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			blanks++
			if blanks > 1 {
				continue
			}
			out = append(out, "")
			continue
		}
		blanks = 0
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
