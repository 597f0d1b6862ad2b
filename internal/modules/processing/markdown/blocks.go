package markdown

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/handywriterz/core/internal/models"
)

// RenderBlocks renders an ordered block list to HTML, one element per block in order.
func RenderBlocks(blocks []models.ContentBlock) string {
	var b strings.Builder
	for _, block := range blocks {
		b.WriteString(renderBlock(block))
		b.WriteString("\n")
	}
	return b.String()
}

func renderBlock(block models.ContentBlock) string {
	esc := template.HTMLEscapeString
	switch block.Type {
	case models.BlockHeading:
		level := block.Level
		if level < 1 || level > 4 {
			level = 2
		}
		return fmt.Sprintf("<h%d>%s</h%d>", level, esc(block.Content), level)
	case models.BlockImage:
		src := safeURL(block.URL)
		if src == "" {
			return ""
		}
		caption := esc(block.Caption)
		return figure(`<img src="`+src+`" alt="`+caption+`" loading="lazy" />`, caption)
	case models.BlockVideo:
		src := safeURL(block.URL)
		if src == "" {
			return ""
		}
		return figure(`<video src="`+src+`" controls preload="metadata"></video>`, esc(block.Caption))
	case models.BlockCode:
		class := ""
		if lang := strings.TrimSpace(block.Language); lang != "" {
			class = ` class="language-` + esc(lang) + `"`
		}
		return "<pre><code" + class + ">" + esc(block.Content) + "</code></pre>"
	case models.BlockQuote:
		out := "<blockquote>" + Render(block.Content)
		if block.Caption != "" {
			out += "<cite>" + esc(block.Caption) + "</cite>"
		}
		return out + "</blockquote>"
	case models.BlockList:
		var b strings.Builder
		b.WriteString("<ul>")
		for _, line := range strings.Split(block.Content, "\n") {
			line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*"))
			if line == "" {
				continue
			}
			b.WriteString("<li>" + esc(line) + "</li>")
		}
		b.WriteString("</ul>")
		return b.String()
	case models.BlockDivider:
		return "<hr />"
	default:
		return Render(block.Content)
	}
}

// safeURL returns the escaped URL when it is relative or uses http(s), and "" otherwise.
func safeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || raw == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https":
		return template.HTMLEscapeString(raw)
	default:
		return ""
	}
}
