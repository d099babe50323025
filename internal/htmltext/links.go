package htmltext

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// PlanningKeywords flag links likely to lead to housing and land-use pages.
var PlanningKeywords = []string{
	"planning board",
	"planning department",
	"zoning board",
	"land use",
	"master plan",
	"housing element",
	"redevelopment",
	"affordable housing",
}

// HousingKeywords flag document links worth downloading. Mirrors the
// engine's keyword gate so discovery and extraction agree on relevance.
var HousingKeywords = []string{
	"affordable housing", "fair share", "coah",
	"council on affordable housing", "low income housing",
	"moderate income housing", "inclusionary zoning", "housing element",
	"housing plan", "mount laurel", "settlement agreement",
	"builders remedy", "housing obligation", "affordable units",
	"deed restricted", "affordable rental", "senior housing",
	"age restricted housing", "workforce housing",
}

// DocumentExtensions are the file types that usually hold the detailed plans.
var DocumentExtensions = []string{".pdf", ".doc", ".docx"}

// Link is a discovered candidate page or document.
type Link struct {
	URL  string
	Text string
	Type string
}

// RelevantLinks finds same-host links whose text or href matches a planning
// keyword. Duplicates collapse to the first occurrence.
func RelevantLinks(doc *html.Node, baseURL string) []Link {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	var links []Link
	seen := make(map[string]struct{})

	for _, a := range anchors(doc) {
		full := resolve(base, a.href)
		if full == nil || full.Host != base.Host {
			continue
		}
		u := full.String()
		if _, dup := seen[u]; dup {
			continue
		}

		linkType := matchPlanningKeyword(strings.ToLower(a.text), strings.ToLower(a.href))
		if linkType == "" {
			continue
		}

		seen[u] = struct{}{}
		links = append(links, Link{URL: u, Text: a.text, Type: linkType})
	}

	return links
}

// DocumentLinks finds links to PDFs and similar documents whose text or href
// suggests affordable housing content.
func DocumentLinks(doc *html.Node, baseURL string) []Link {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	var docs []Link
	seen := make(map[string]struct{})

	for _, a := range anchors(doc) {
		hrefLower := strings.ToLower(a.href)

		isDocument := false
		for _, ext := range DocumentExtensions {
			if strings.Contains(hrefLower, ext) {
				isDocument = true
				break
			}
		}
		if !isDocument {
			continue
		}

		textLower := strings.ToLower(a.text)
		relevant := false
		for _, kw := range HousingKeywords {
			if strings.Contains(textLower, kw) || strings.Contains(hrefLower, kw) {
				relevant = true
				break
			}
		}
		if !relevant {
			continue
		}

		full := resolve(base, a.href)
		if full == nil {
			continue
		}
		u := full.String()
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		docs = append(docs, Link{URL: u, Text: a.text, Type: "document"})
	}

	return docs
}

// matchPlanningKeyword returns the first planning keyword present in the
// link text, or in the href with spaces collapsed or hyphenated.
func matchPlanningKeyword(textLower, hrefLower string) string {
	for _, kw := range PlanningKeywords {
		if strings.Contains(textLower, kw) {
			return kw
		}
	}
	for _, kw := range PlanningKeywords {
		squashed := strings.ReplaceAll(kw, " ", "")
		dashed := strings.ReplaceAll(kw, " ", "-")
		if strings.Contains(hrefLower, squashed) || strings.Contains(hrefLower, dashed) {
			return kw
		}
	}
	return ""
}

func resolve(base *url.URL, href string) *url.URL {
	ref, err := url.Parse(href)
	if err != nil {
		return nil
	}
	return base.ResolveReference(ref)
}
