// Package htmltext converts fetched HTML into the inputs the extraction
// engine expects: visible text with original casing preserved, and candidate
// links worth following on municipal sites.
package htmltext

import (
	"strings"

	"golang.org/x/net/html"
)

// Parse parses an HTML document.
func Parse(content string) (*html.Node, error) {
	return html.Parse(strings.NewReader(content))
}

// VisibleText extracts text nodes from HTML, skipping script, style, and
// other non-content tags. Case is preserved; the engine lower-cases its own
// copy for matching.
func VisibleText(doc *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return strings.TrimSpace(buf.String())
}

// anchor is one <a href> with its visible text.
type anchor struct {
	href string
	text string
}

// anchors collects every usable link in document order, skipping javascript,
// mailto, tel, and fragment links.
func anchors(doc *html.Node) []anchor {
	var out []anchor

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			href := attr(n, "href")
			if href != "" && !skipHref(href) {
				out = append(out, anchor{href: href, text: VisibleText(n)})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func skipHref(href string) bool {
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "#")
}
