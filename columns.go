package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bekirdag/jobdesk/internal/activity"
	"github.com/bekirdag/jobdesk/internal/job"
)

type column interface {
	SetSize(width, height int)
	Update(msg tea.Msg) (column, tea.Cmd)
	View(styles styles, focused bool) string
	Title() string
	FocusValue() string
}

type jobTableColumn struct {
	title    string
	table    table.Model
	width    int
	height   int
	jobs     []job.Job
	notice   string
	isError  bool
	onSelect func(job.Job) tea.Cmd

	tableStyles table.Styles
	// selectedRole is the color role of the job under the cursor.
	selectedRole string
}

func newJobTableColumn(title string) *jobTableColumn {
	model := table.New(
		table.WithColumns(jobTableColumns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	tStyles := table.DefaultStyles()
	tStyles.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(palette.textMuted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(palette.border).
		BorderBottom(true).
		Padding(0, 1)
	tStyles.Cell = lipgloss.NewStyle().
		Padding(0, 1)
	tStyles.Selected = lipgloss.NewStyle().
		Foreground(palette.text).
		Background(palette.selection)
	model.SetStyles(tStyles)

	return &jobTableColumn{
		title:       title,
		table:       model,
		tableStyles: tStyles,
	}
}

func jobTableColumns(width int) []table.Column {
	// Every cell carries two columns of padding.
	fixed := 12 + 14 + 14 + 12 + 2*5
	details := width - fixed - 2
	if details < 12 {
		details = 12
	}
	return []table.Column{
		{Title: "SKU", Width: 12},
		{Title: "Status", Width: 14},
		{Title: "Assigned", Width: 14},
		{Title: "Created", Width: 12},
		{Title: "Details", Width: details},
	}
}

func (c *jobTableColumn) SetOnSelect(fn func(job.Job) tea.Cmd) {
	c.onSelect = fn
}

// SetJobs replaces the rows, keeping the cursor on the same job id when it
// is still present.
func (c *jobTableColumn) SetJobs(jobs []job.Job) {
	selectedID := ""
	if j, ok := c.SelectedJob(); ok {
		selectedID = j.ID
	}
	c.jobs = jobs
	rows := make([]table.Row, len(jobs))
	for i, j := range jobs {
		p := job.PresentationFor(j.Status)
		created := "—"
		if t, ok := j.CreatedTime(); ok {
			created = formatRelativeTime(t)
		}
		rows[i] = table.Row{
			j.SKU,
			p.Glyph + " " + p.Label,
			j.AssignedUser,
			created,
			firstLine(j.Details),
		}
	}
	c.table.SetRows(rows)

	cursor := 0
	for i, j := range jobs {
		if j.ID == selectedID {
			cursor = i
			break
		}
	}
	if len(rows) > 0 {
		c.table.SetCursor(cursor)
	}
	c.syncSelectedStyle()
}

// syncSelectedStyle paints the cursor row in the color role of its status.
func (c *jobTableColumn) syncSelectedStyle() {
	role := ""
	if j, ok := c.SelectedJob(); ok {
		role = job.PresentationFor(j.Status).Color
	}
	if role == c.selectedRole {
		return
	}
	c.selectedRole = role
	st := c.tableStyles
	st.Selected = st.Selected.Foreground(roleColor(role))
	c.table.SetStyles(st)
}

// SetNotice replaces the table with a message. An empty notice shows the
// table again.
func (c *jobTableColumn) SetNotice(notice string, isError bool) {
	c.notice = notice
	c.isError = isError
}

func (c *jobTableColumn) SetSize(width, height int) {
	if width < 40 {
		width = 40
	}
	if height < 6 {
		height = 6
	}
	c.width = width
	c.height = height
	c.table.SetColumns(jobTableColumns(width - 2))
	c.table.SetHeight(height - 3)
	c.table.SetWidth(width - 2)
}

func (c *jobTableColumn) SelectedJob() (job.Job, bool) {
	if len(c.jobs) == 0 {
		return job.Job{}, false
	}
	idx := c.table.Cursor()
	if idx < 0 || idx >= len(c.jobs) {
		return job.Job{}, false
	}
	return c.jobs[idx], true
}

func (c *jobTableColumn) Update(msg tea.Msg) (column, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
		if j, ok := c.SelectedJob(); ok && c.onSelect != nil && c.notice == "" {
			return c, c.onSelect(j)
		}
		return c, nil
	}
	var cmd tea.Cmd
	c.table, cmd = c.table.Update(msg)
	c.syncSelectedStyle()
	return c, cmd
}

func (c *jobTableColumn) View(s styles, focused bool) string {
	content := c.table.View()
	if c.notice != "" {
		if c.isError {
			content = s.errorText.Render(c.notice)
		} else {
			content = s.notice.Render(c.notice)
		}
	}
	body := lipgloss.JoinVertical(lipgloss.Left, s.columnTitle.Render(c.title), content)
	return panelFor(s, focused).Width(c.width - 2).Height(c.height - 2).Render(body)
}

func (c *jobTableColumn) Title() string {
	return c.title
}

func (c *jobTableColumn) FocusValue() string {
	if j, ok := c.SelectedJob(); ok {
		return j.SKU
	}
	return ""
}

type activityEntry struct {
	activity activity.Activity
}

func (e activityEntry) Title() string {
	p := activity.PresentationFor(e.activity.Type)
	glyph := lipgloss.NewStyle().Foreground(roleColor(p.Color)).Render(p.Glyph)
	return glyph + " " + e.activity.Description
}

func (e activityEntry) Description() string {
	return formatRelativeTime(e.activity.Timestamp)
}

func (e activityEntry) FilterValue() string {
	return e.activity.Description
}

type activityColumn struct {
	title    string
	model    list.Model
	width    int
	height   int
	notice   string
	isError  bool
	onSelect func(activity.Activity) tea.Cmd
}

func newActivityColumn(title string, s styles) *activityColumn {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = s.listSel
	delegate.Styles.SelectedDesc = s.listSel.Foreground(palette.textMuted)
	delegate.Styles.NormalTitle = s.listItem
	delegate.Styles.NormalDesc = s.listItem.Foreground(palette.textMuted)

	model := list.New([]list.Item{}, delegate, 36, 20)
	model.SetShowTitle(false)
	model.SetShowStatusBar(false)
	model.SetFilteringEnabled(false)
	model.SetShowHelp(false)
	model.SetShowPagination(false)
	model.DisableQuitKeybindings()

	return &activityColumn{
		title: title,
		model: model,
	}
}

func (c *activityColumn) SetOnSelect(fn func(activity.Activity) tea.Cmd) {
	c.onSelect = fn
}

func (c *activityColumn) SetActivities(activities []activity.Activity) {
	items := make([]list.Item, len(activities))
	for i, a := range activities {
		items[i] = activityEntry{activity: a}
	}
	c.model.SetItems(items)
	if len(items) > 0 {
		c.model.Select(0)
	}
}

func (c *activityColumn) SetNotice(notice string, isError bool) {
	c.notice = notice
	c.isError = isError
}

func (c *activityColumn) SetSize(width, height int) {
	if height < 3 {
		height = 3
	}
	c.width = width
	c.height = height
	c.model.SetSize(width-2, height-3)
}

func (c *activityColumn) Update(msg tea.Msg) (column, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
		if entry, ok := c.model.SelectedItem().(activityEntry); ok && c.onSelect != nil {
			return c, c.onSelect(entry.activity)
		}
		return c, nil
	}
	var cmd tea.Cmd
	c.model, cmd = c.model.Update(msg)
	return c, cmd
}

func (c *activityColumn) View(s styles, focused bool) string {
	content := c.model.View()
	switch {
	case c.notice != "" && c.isError:
		content = s.errorText.Render(c.notice)
	case c.notice != "":
		content = s.notice.Render(c.notice)
	case len(c.model.Items()) == 0:
		content = s.notice.Render("No recent activity.")
	}
	body := lipgloss.JoinVertical(lipgloss.Left, s.columnTitle.Render(c.title), content)
	return panelFor(s, focused).Width(c.width - 2).Height(c.height - 2).Render(body)
}

func (c *activityColumn) Title() string {
	return c.title
}

func (c *activityColumn) FocusValue() string {
	if entry, ok := c.model.SelectedItem().(activityEntry); ok {
		return entry.activity.Description
	}
	return ""
}

// jobDetailColumn shows the job bound to the detail panel.
type jobDetailColumn struct {
	title    string
	width    int
	height   int
	view     viewport.Model
	renderer *markdownRenderer
	current  *job.Job
}

func newJobDetailColumn(renderer *markdownRenderer) *jobDetailColumn {
	return &jobDetailColumn{
		title:    "Job Details",
		view:     viewport.New(40, 20),
		renderer: renderer,
	}
}

func (c *jobDetailColumn) SetJob(j *job.Job) {
	if j == nil {
		c.current = nil
		c.view.SetContent("")
		return
	}
	bound := *j
	c.current = &bound
	c.Refresh()
}

// Refresh re-renders the bound job, e.g. after a theme or size change.
func (c *jobDetailColumn) Refresh() {
	if c.current == nil {
		return
	}
	c.view.SetContent(c.renderer.Render(jobMarkdown(*c.current)))
}

func (c *jobDetailColumn) SetSize(width, height int) {
	if height < 5 {
		height = 5
	}
	c.width = width
	c.height = height
	c.view.Width = width - 2
	c.view.Height = height - 5
	c.renderer.SetWordWrap(width - 6)
	c.Refresh()
}

func (c *jobDetailColumn) Update(msg tea.Msg) (column, tea.Cmd) {
	var cmd tea.Cmd
	c.view, cmd = c.view.Update(msg)
	return c, cmd
}

func (c *jobDetailColumn) View(s styles, focused bool) string {
	hints := s.modalHint.Render("1 pending • 2 in progress • 3 completed\nx delete • y copy id • esc close")
	body := lipgloss.JoinVertical(lipgloss.Left, s.columnTitle.Render(c.title), c.view.View(), hints)
	return panelFor(s, focused).Width(c.width - 2).Height(c.height - 2).Render(body)
}

func (c *jobDetailColumn) Title() string {
	return c.title
}

func (c *jobDetailColumn) FocusValue() string {
	if c.current != nil {
		return c.current.SKU
	}
	return ""
}

func panelFor(s styles, focused bool) lipgloss.Style {
	if focused {
		return s.panelFocused
	}
	return s.panel
}

func formatRelativeTime(ts time.Time) string {
	if ts.IsZero() {
		return "N/A"
	}
	delta := time.Since(ts)
	switch {
	case delta < 0:
		return ts.Local().Format("2006-01-02")
	case delta < time.Minute:
		return "just now"
	case delta < time.Hour:
		return fmt.Sprintf("%dm ago", int(delta.Minutes()))
	case delta < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(delta.Hours()))
	case delta < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(delta.Hours()/24))
	}
	return ts.Local().Format("2006-01-02")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
