package parser

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// placeholderURL resolves relative links when HTML arrives without a source URL.
const placeholderURL = "http://localhost/"

var ErrNoContent = errors.New("no readable content found")

// Document is the readable text of one HTML page.
type Document struct {
	URL   string
	Title string
	Text  string
}

type Parser struct{}

// ExtractText isolates the main article with go-readability and flattens its
// headings, paragraphs, list items and tables into newline-separated text.
// When readability finds nothing, the whole body is used instead.
func (p *Parser) ExtractText(rawURL, html string) (*Document, error) {
	if rawURL == "" {
		rawURL = placeholderURL
	}
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}

	title := ""
	source := html
	rp := readability.NewParser()
	article, err := rp.Parse(strings.NewReader(html), parsedURL)
	if err == nil && strings.TrimSpace(article.Content) != "" {
		title = normalizeText(article.Title)
		source = article.Content
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	blocks := collectBlocks(doc.Selection)
	if len(blocks) == 0 {
		if text := normalizeText(doc.Find("body").Text()); text != "" {
			blocks = append(blocks, text)
		}
	}
	if len(blocks) == 0 {
		return nil, ErrNoContent
	}

	if title == "" {
		title = normalizeText(doc.Find("title").First().Text())
	}

	return &Document{
		URL:   rawURL,
		Title: title,
		Text:  strings.Join(blocks, "\n"),
	}, nil
}

func collectBlocks(s *goquery.Selection) []string {
	var blocks []string
	s.Find("h1,h2,h3,h4,p,li,table").Each(func(i int, sel *goquery.Selection) {
		switch goquery.NodeName(sel) {
		case "table":
			blocks = append(blocks, tableRows(sel)...)
		case "li":
			// Paragraphs nested in list items are visited on their own.
			if sel.Find("p").Length() > 0 {
				return
			}
			fallthrough
		default:
			if text := normalizeText(sel.Text()); text != "" {
				blocks = append(blocks, text)
			}
		}
	})
	return blocks
}

// normalizeText trims each line and joins the non-empty ones with a single space.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}

// tableRows renders each row as "cell | cell | cell".
func tableRows(s *goquery.Selection) []string {
	var rows []string
	s.Find("tr").Each(func(i int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th,td").Each(func(j int, cell *goquery.Selection) {
			if text := normalizeText(cell.Text()); text != "" {
				cells = append(cells, text)
			}
		})
		if len(cells) > 0 {
			rows = append(rows, strings.Join(cells, " | "))
		}
	})
	return rows
}
