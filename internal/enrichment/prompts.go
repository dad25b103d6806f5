package enrichment

import (
	"fmt"
	"strings"
)

const (
	paperAbstractLen    = 1500
	newsDescriptionLen  = 500
	productDescLen      = 500
	insightItemsPerList = 3
)

func (c *Client) paperPrompt(in PaperInput) string {
	var b strings.Builder
	b.WriteString("Analyze this AI research paper and reply with a JSON object with exactly these keys:\n")
	fmt.Fprintf(&b, "\"titleLocalized\": the title translated into %s,\n", c.language)
	b.WriteString("\"tag\": one short topic tag such as LLM, Vision, Agents or Robotics,\n")
	b.WriteString("\"impactScore\": an integer from 1 to 10 estimating industry impact,\n")
	fmt.Fprintf(&b, "\"corePrinciple\": the core idea in one or two sentences, in %s,\n", c.language)
	fmt.Fprintf(&b, "\"bottomLogic\": the underlying reasoning that makes it work, in %s,\n", c.language)
	fmt.Fprintf(&b, "\"productImagination\": a product this research could enable, in %s.\n\n", c.language)
	fmt.Fprintf(&b, "Title: %s\n", in.Title)
	if len(in.Categories) > 0 {
		fmt.Fprintf(&b, "Categories: %s\n", strings.Join(in.Categories, ", "))
	}
	fmt.Fprintf(&b, "Abstract: %s\n", Truncate(in.Summary, paperAbstractLen))
	return b.String()
}

func (c *Client) newsPrompt(in NewsInput) string {
	var b strings.Builder
	b.WriteString("Analyze this AI industry news item and reply with a JSON object with exactly these keys:\n")
	fmt.Fprintf(&b, "\"headlineLocalized\": the headline translated into %s,\n", c.language)
	b.WriteString("\"tag\": one short topic tag,\n")
	b.WriteString("\"urgency\": one of \"critical\", \"high\" or \"medium\",\n")
	fmt.Fprintf(&b, "\"summary\": a two sentence summary in %s,\n", c.language)
	fmt.Fprintf(&b, "\"businessInsight\": what this means for businesses, in %s,\n", c.language)
	fmt.Fprintf(&b, "\"caseStudy\": a concrete example of who is affected and how, in %s.\n\n", c.language)
	fmt.Fprintf(&b, "Headline: %s\n", in.Headline)
	if in.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n", in.Source)
	}
	fmt.Fprintf(&b, "Description: %s\n", Truncate(in.Description, newsDescriptionLen))
	return b.String()
}

func (c *Client) productPrompt(in ProductInput) string {
	var b strings.Builder
	b.WriteString("Assess this AI product launch and reply with a JSON object with exactly these keys:\n")
	b.WriteString("\"tag\": one short category tag,\n")
	b.WriteString("\"verdict\": one of \"real-need\", \"pseudo-need\" or \"watch\",\n")
	fmt.Fprintf(&b, "\"painPointAnalysis\": which pain point it addresses and how real it is, in %s,\n", c.language)
	fmt.Fprintf(&b, "\"businessModel\": how it could make money, in %s.\n\n", c.language)
	fmt.Fprintf(&b, "Name: %s\n", in.Name)
	fmt.Fprintf(&b, "Tagline: %s\n", in.Tagline)
	if in.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", Truncate(in.Description, productDescLen))
	}
	return b.String()
}

func (c *Client) insightPrompt(in InsightInput) string {
	var b strings.Builder
	b.WriteString("You are given today's AI papers, news and products. Write one cross-source insight that connects them.\n")
	b.WriteString("Reply with a JSON object with exactly these keys:\n")
	b.WriteString("\"headline\": a punchy English headline,\n")
	fmt.Fprintf(&b, "\"subheadline\": one sentence in %s,\n", c.language)
	fmt.Fprintf(&b, "\"content\": two or three paragraphs in %s,\n", c.language)
	b.WriteString("\"source\": a short attribution line,\n")
	b.WriteString("\"urgency\": a short label for how soon readers should act.\n\n")
	writeList(&b, "Papers", in.Papers)
	writeList(&b, "News", in.News)
	writeList(&b, "Products", in.Products)
	return b.String()
}

func writeList(b *strings.Builder, label string, items []string) {
	fmt.Fprintf(b, "%s:\n", label)
	if len(items) > insightItemsPerList {
		items = items[:insightItemsPerList]
	}
	if len(items) == 0 {
		b.WriteString("- (none)\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}
