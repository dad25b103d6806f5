package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const blockSelector = "p, div, br, li, tr, h1, h2, h3, h4, h5, h6, blockquote"

// plainText renders an HTML fragment as a single line of text.
func plainText(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return ""
	}
	if !strings.ContainsAny(fragment, "<&") {
		return collapseSpace(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapseSpace(fragment)
	}
	doc.Find("script, style").Remove()
	doc.Find(blockSelector).AfterNodes(&html.Node{Type: html.TextNode, Data: " "})
	return collapseSpace(doc.Text())
}
