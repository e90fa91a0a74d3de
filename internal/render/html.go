package render

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLText extracts readable text from an HTML document as markdown:
// headings, paragraphs, list items and preformatted blocks in document order.
func HTMLText(src string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, head").Remove()

	var blocks []string
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, pre").Each(func(_ int, sel *goquery.Selection) {
		name := goquery.NodeName(sel)
		if name == "pre" {
			blocks = append(blocks, "```\n"+strings.TrimRight(sel.Text(), "\n")+"\n```")
			return
		}
		text := normalizeWhitespace(sel.Text())
		if text == "" {
			return
		}
		switch name {
		case "h1":
			blocks = append(blocks, "# "+text)
		case "h2", "h3", "h4", "h5", "h6":
			blocks = append(blocks, "## "+text)
		case "li":
			blocks = append(blocks, "- "+text)
		default:
			blocks = append(blocks, text)
		}
	})

	if len(blocks) == 0 {
		return normalizeWhitespace(doc.Text()), nil
	}
	return strings.Join(blocks, "\n\n"), nil
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
