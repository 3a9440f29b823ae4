package content

import (
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
)

const excerptLength = 160

var droppedElements = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"iframe":   true,
	"object":   true,
	"embed":    true,
	"noscript": true,
}

var urlAttributes = map[string]bool{
	"href":       true,
	"src":        true,
	"srcset":     true,
	"action":     true,
	"formaction": true,
	"poster":     true,
	"data":       true,
	"cite":       true,
	"background": true,
}

var allowedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
	"tel":    true,
}

// cleanPostHTML parses admin-authored post content and renders it back without
// executable elements, event handler attributes or URLs with unsafe schemes.
func cleanPostHTML(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", nil
	}

	doc, err := html.Parse(strings.NewReader(trimmed))
	if err != nil {
		return "", eris.Wrap(err, "parsing post content")
	}

	root := &html.Node{Type: html.ElementNode, Data: "div"}
	appendCleanChildren(root, doc)

	var builder strings.Builder
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if err := html.Render(&builder, child); err != nil {
			return "", eris.Wrap(err, "rendering post content")
		}
	}

	return builder.String(), nil
}

func appendCleanChildren(dst, src *html.Node) {
	for child := src.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.TextNode:
			dst.AppendChild(&html.Node{Type: html.TextNode, Data: child.Data})
		case html.ElementNode:
			name := strings.ToLower(child.Data)
			if droppedElements[name] {
				continue
			}
			if name == "html" || name == "body" {
				appendCleanChildren(dst, child)
				continue
			}

			replacement := &html.Node{Type: html.ElementNode, Data: child.Data, Attr: cleanAttributes(child.Attr)}
			appendCleanChildren(replacement, child)
			dst.AppendChild(replacement)
		case html.CommentNode, html.DoctypeNode:
			continue
		default:
			appendCleanChildren(dst, child)
		}
	}
}

func cleanAttributes(attrs []html.Attribute) []html.Attribute {
	if len(attrs) == 0 {
		return nil
	}

	cleaned := make([]html.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		key := strings.ToLower(attr.Key)
		if strings.HasPrefix(key, "on") {
			continue
		}
		if urlAttributes[key] && !safeURL(attr.Val) {
			continue
		}
		cleaned = append(cleaned, attr)
	}

	return cleaned
}

// safeURL accepts relative URLs, the allowed schemes and inline images.
// Browsers ignore tabs, newlines and control characters inside a URL, so they
// are removed before the scheme is read.
func safeURL(value string) bool {
	normalised := strings.ToLower(strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f {
			return -1
		}
		return r
	}, value))

	colon := strings.IndexByte(normalised, ':')
	if colon < 0 || strings.ContainsAny(normalised[:colon], "/?#") {
		return true
	}

	scheme := normalised[:colon]
	if scheme == "data" {
		return strings.HasPrefix(normalised, "data:image/")
	}
	return allowedSchemes[scheme]
}

// plainText extracts the visible text of an HTML fragment with whitespace collapsed.
func plainText(content string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return strings.Join(strings.Fields(content), " ")
	}

	var builder strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && droppedElements[strings.ToLower(node.Data)] {
			return
		}
		if node.Type == html.TextNode {
			builder.WriteString(node.Data)
			builder.WriteByte(' ')
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(builder.String()), " ")
}

// Excerpt derives a short plain-text summary from HTML content, cut at a word
// boundary.
func Excerpt(content string) string {
	text := plainText(content)
	if utf8.RuneCountInString(text) <= excerptLength {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:excerptLength])
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}

	return strings.TrimRight(cut, " ,.;:") + "…"
}
