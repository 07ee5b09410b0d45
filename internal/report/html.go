package report

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"
)

const DefaultWidth = 700

// WrapHTML places body inside a centered fixed-width container.
func WrapHTML(body string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	return fmt.Sprintf(`<html>
<head><meta charset="utf-8"></head>
<body>
    <div style="max-width: %dpx; margin: 0 auto; font-family: Arial, sans-serif; font-size: 16px; line-height: 1.6;">
    %s
    </div>
</body>
</html>
`, width, body)
}

var bodyTemplate = template.Must(template.New("report").Parse(`<h1>Scientific article digest</h1>
<p><em>{{.Window}}</em></p>
{{- if .Empty}}
<p>{{.EmptyMessage}}</p>
{{- else}}
{{- if .Digest}}
<h2>Themes</h2>
{{.Digest}}
{{- end}}
<h2>Articles ({{len .Items}})</h2>
<ol>
{{- range .Items}}
<li>
<a href="{{.URL}}">{{.Title}}</a><br>
<small>{{.Source}} ({{.Date}})</small>
{{- if .Summary}}
{{.Summary}}
{{- end}}
</li>
{{- end}}
</ol>
{{- end}}
`))

type htmlItem struct {
	Title   string
	URL     string
	Source  string
	Date    string
	Summary template.HTML
}

type htmlView struct {
	Window       string
	Empty        bool
	EmptyMessage string
	Digest       template.HTML
	Items        []htmlItem
}

// HTML renders the report as a complete document.
func (r *Report) HTML(width int) (string, error) {
	view := htmlView{
		Window:       r.Window.String(),
		Empty:        r.Empty(),
		EmptyMessage: r.noArticlesMessage(),
	}
	if r.Digest.OK() {
		view.Digest = markdownToHTML(r.Digest.Text)
	}
	for _, e := range r.Entries {
		item := htmlItem{
			Title:  e.Article.Title,
			URL:    e.Article.URL,
			Source: e.Article.Source,
			Date:   e.Article.Date(),
		}
		if e.Summary.OK() {
			item.Summary = markdownToHTML(e.Summary.Text)
		}
		view.Items = append(view.Items, item)
	}

	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return WrapHTML(buf.String(), width), nil
}

var (
	// Matches [text](url) and the digest's [[n]](url) citations.
	linkPattern = regexp.MustCompile(`\[((?:\[[^\]]*\]|[^\[\]])*)\]\((https?://[^\s)]+)\)`)
	boldPattern = regexp.MustCompile(`\*\*([^*]+)\*\*`)
)

// markdownToHTML escapes model output and converts the little markdown it
// tends to produce: links, bold and paragraphs.
func markdownToHTML(text string) template.HTML {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	var b strings.Builder
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		escaped := html.EscapeString(para)
		escaped = linkPattern.ReplaceAllString(escaped, `<a href="$2">$1</a>`)
		escaped = boldPattern.ReplaceAllString(escaped, `<strong>$1</strong>`)
		escaped = strings.ReplaceAll(escaped, "\n", "<br>\n")
		b.WriteString("<p>")
		b.WriteString(escaped)
		b.WriteString("</p>\n")
	}
	return template.HTML(b.String())
}
