package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/bekirdag/jobdesk/internal/job"
)

type markdownTheme string

const (
	markdownThemeAuto  markdownTheme = "auto"
	markdownThemeDark  markdownTheme = "dark"
	markdownThemeLight markdownTheme = "light"
)

func markdownThemeFromString(value string) markdownTheme {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dark":
		return markdownThemeDark
	case "light":
		return markdownThemeLight
	default:
		return markdownThemeAuto
	}
}

func (t markdownTheme) String() string {
	switch t {
	case markdownThemeDark, markdownThemeLight:
		return string(t)
	default:
		return "auto"
	}
}

func (t markdownTheme) Label() string {
	switch t {
	case markdownThemeDark:
		return "Dark"
	case markdownThemeLight:
		return "Light"
	default:
		return "Auto"
	}
}

func (t markdownTheme) Next() markdownTheme {
	switch t {
	case markdownThemeAuto:
		return markdownThemeDark
	case markdownThemeDark:
		return markdownThemeLight
	default:
		return markdownThemeAuto
	}
}

// markdownRenderer lazily builds a glamour renderer and rebuilds it when
// the wrap width or theme changes.
type markdownRenderer struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	theme    markdownTheme
	wordWrap int
}

func newMarkdownRenderer(theme markdownTheme) *markdownRenderer {
	if theme == "" {
		theme = markdownThemeAuto
	}
	return &markdownRenderer{theme: theme, wordWrap: 60}
}

// Render returns terminal output for content, or content itself when the
// renderer cannot be built.
func (r *markdownRenderer) Render(content string) string {
	renderer := r.ensure()
	if renderer == nil {
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}

func (r *markdownRenderer) ensure() *glamour.TermRenderer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.renderer != nil {
		return r.renderer
	}
	options := []glamour.TermRendererOption{
		glamour.WithWordWrap(max(r.wordWrap, 0)),
	}
	switch r.theme {
	case markdownThemeLight:
		options = append(options, glamour.WithStandardStyle("light"))
	case markdownThemeDark:
		options = append(options, glamour.WithStandardStyle("dark"))
	default:
		options = append(options, glamour.WithAutoStyle())
	}
	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return nil
	}
	r.renderer = renderer
	return renderer
}

func (r *markdownRenderer) SetWordWrap(width int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width < 0 {
		width = 0
	}
	if r.wordWrap != width {
		r.wordWrap = width
		r.renderer = nil
	}
}

func (r *markdownRenderer) SetTheme(theme markdownTheme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if theme == "" {
		theme = markdownThemeAuto
	}
	if r.theme != theme {
		r.theme = theme
		r.renderer = nil
	}
}

func (r *markdownRenderer) Theme() markdownTheme {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.theme
}

// jobMarkdown lays a job out as a markdown document. Free-text details are
// passed through untouched so operators can format them.
func jobMarkdown(j job.Job) string {
	p := job.PresentationFor(j.Status)
	created := j.CreateAt
	if t, ok := j.CreatedTime(); ok {
		created = t.Local().Format("Jan 2, 2006 15:04")
	} else if created == "" {
		created = "unknown"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(j.SKU))
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Status | %s %s |\n", p.Glyph, p.Label)
	fmt.Fprintf(&b, "| Assigned to | %s |\n", escapeMarkdown(orDash(j.AssignedUser)))
	fmt.Fprintf(&b, "| Created | %s |\n", created)
	fmt.Fprintf(&b, "| ID | `%s` |\n\n", j.ID)
	b.WriteString("## Details\n\n")
	if strings.TrimSpace(j.Details) == "" {
		b.WriteString("_No details provided._\n")
	} else {
		b.WriteString(j.Details)
		b.WriteString("\n")
	}
	return b.String()
}

func escapeMarkdown(s string) string {
	return strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`").Replace(s)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
