package harvest

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Page is a fetched and parsed HTML document. FinalURL is the URL after any
// redirects; contact links must be resolved against it rather than the URL
// the fetch started from.
type Page struct {
	FinalURL string
	Doc      *goquery.Document
	Text     string
}

func newPage(finalURL string, doc *goquery.Document) *Page {
	return &Page{FinalURL: finalURL, Doc: doc, Text: visibleText(doc)}
}

// visibleText returns the document's rendered text with whitespace collapsed
// to single spaces. Script, style and noscript subtrees are skipped so the
// free-text extractors do not pick up markup internals.
func visibleText(doc *goquery.Document) string {
	var b strings.Builder
	for _, root := range doc.Nodes {
		collectText(root, &b)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript":
			return
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteString(" ")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
