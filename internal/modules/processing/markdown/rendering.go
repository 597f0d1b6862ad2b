// Package markdown renders post bodies to HTML for editor previews.
package markdown

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in the source is escaped; goldmark is not run with WithUnsafe.
var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
	),
)

var (
	mermaidCodeRegex     = regexp.MustCompile(`(?is)<pre><code class="language-mermaid">([\s\S]*?)</code></pre>`)
	imageTagRegex        = regexp.MustCompile(`(?is)<img\s+[^>]*>`)
	imageAttrRegex       = regexp.MustCompile(`([a-zA-Z:_-]+)\s*=\s*"([^"]*)"`)
	figureParagraphRegex = regexp.MustCompile(`(?is)<p>\s*(<figure>[\s\S]*?</figure>)\s*</p>`)
)

// Render converts markdown text to an HTML fragment.
func Render(markdownText string) string {
	text := strings.TrimSpace(markdownText)
	if text == "" {
		return ""
	}

	var out bytes.Buffer
	if err := markdownEngine.Convert([]byte(text), &out); err != nil {
		return template.HTMLEscapeString(text)
	}

	html := out.String()
	html = mermaidCodeRegex.ReplaceAllString(html, `<pre class="mermaid">$1</pre>`)
	html = rewriteImages(html)
	return html
}

// rewriteImages wraps images that carry alt text in a figure with a caption.
func rewriteImages(html string) string {
	processed := imageTagRegex.ReplaceAllStringFunc(html, func(tag string) string {
		attrs := parseImageAttrs(tag)
		src := strings.TrimSpace(attrs["src"])
		if src == "" {
			return tag
		}
		alt := strings.TrimSpace(attrs["alt"])
		if alt == "" {
			return `<img src="` + src + `" loading="lazy" />`
		}
		return figure(`<img src="`+src+`" alt="`+alt+`" loading="lazy" />`, alt)
	})
	return figureParagraphRegex.ReplaceAllString(processed, "$1")
}

// parseImageAttrs reads attributes from an already escaped img tag.
func parseImageAttrs(tag string) map[string]string {
	attrs := make(map[string]string)
	for _, item := range imageAttrRegex.FindAllStringSubmatch(tag, -1) {
		key := strings.ToLower(strings.TrimSpace(item[1]))
		if key != "" {
			attrs[key] = item[2]
		}
	}
	return attrs
}

// figure wraps media in a figure element. caption must already be escaped.
func figure(media, caption string) string {
	if caption == "" {
		return "<figure>" + media + "</figure>"
	}
	return "<figure>" + media + "<figcaption>" + caption + "</figcaption></figure>"
}
