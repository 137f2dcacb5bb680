package cli

import (
	"html"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

const renderWidth = 80

var (
	reBreak     = regexp.MustCompile(`(?i)<br\s*/?>`)
	reHeading   = regexp.MustCompile(`(?is)<h([1-6])[^>]*>(.*?)</h[1-6]>`)
	reListItem  = regexp.MustCompile(`(?is)<li[^>]*>(.*?)</li>`)
	reBold      = regexp.MustCompile(`(?is)<(?:strong|b)(?:\s[^>]*)?>(.*?)</(?:strong|b)>`)
	reItalic    = regexp.MustCompile(`(?is)<(?:em|i)(?:\s[^>]*)?>(.*?)</(?:em|i)>`)
	reCodeBlock = regexp.MustCompile(`(?is)<pre[^>]*>(?:<code[^>]*>)?(.*?)(?:</code>)?</pre>`)
	reCode      = regexp.MustCompile(`(?is)<code[^>]*>(.*?)</code>`)
	reLink      = regexp.MustCompile(`(?is)<a\s[^>]*href="([^"]*)"[^>]*>(.*?)</a>`)
	reBlockEnd  = regexp.MustCompile(`(?i)</(?:p|div|ul|ol|blockquote|h[1-6])>`)
	reTag       = regexp.MustCompile(`(?s)<[^>]+>`)
	reBlankRuns = regexp.MustCompile(`\n{3,}`)
)

// htmlToMarkdown turns the editor's HTML into Markdown good enough for
// reading. Unknown tags are dropped and entities decoded.
func htmlToMarkdown(s string) string {
	s = reCodeBlock.ReplaceAllString(s, "\n```\n$1\n```\n")
	s = reBreak.ReplaceAllString(s, "\n")
	s = reHeading.ReplaceAllStringFunc(s, func(m string) string {
		sub := reHeading.FindStringSubmatch(m)
		return "\n" + strings.Repeat("#", int(sub[1][0]-'0')) + " " + sub[2] + "\n"
	})
	s = reListItem.ReplaceAllString(s, "\n- $1")
	s = reBold.ReplaceAllString(s, "**$1**")
	s = reItalic.ReplaceAllString(s, "_${1}_")
	s = reCode.ReplaceAllString(s, "`$1`")
	s = reLink.ReplaceAllString(s, "[$2]($1)")
	s = reBlockEnd.ReplaceAllString(s, "\n\n")
	s = reTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = reBlankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// renderContent renders note content for the terminal. On any renderer
// failure the Markdown text is returned as is.
func renderContent(content string, dark bool) string {
	md := htmlToMarkdown(content)
	if md == "" {
		return ""
	}

	style := styles.LightStyle
	if dark {
		style = styles.DarkStyle
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(renderWidth),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
