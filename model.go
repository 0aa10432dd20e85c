package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bekirdag/jobdesk/internal/activity"
	"github.com/bekirdag/jobdesk/internal/config"
	"github.com/bekirdag/jobdesk/internal/dashboard"
	"github.com/bekirdag/jobdesk/internal/job"
	"github.com/bekirdag/jobdesk/internal/jobapi"
	"github.com/bekirdag/jobdesk/internal/jobfilter"
)

type inputMode int

const (
	inputNone inputMode = iota
	inputDateFrom
	inputDateTo
)

type jobsLoadedMsg struct {
	jobs []job.Job
	err  error
}

// activitiesLoadedMsg carries the raw job set; synthesis happens inside
// Update so the random source is only touched from the event loop.
type activitiesLoadedMsg struct {
	jobs []job.Job
	err  error
}

type jobDeletedMsg struct {
	id  string
	err error
}

type jobStatusUpdatedMsg struct {
	id  string
	job job.Job
	err error
}

type sidebarClearMsg struct {
	token uint64
}

type jobOpenedMsg struct {
	job job.Job
}

type themeSavedMsg struct {
	theme markdownTheme
	err   error
}

type keyMap struct {
	quit          key.Binding
	nextFocus     key.Binding
	prevFocus     key.Binding
	open          key.Binding
	closeDetail   key.Binding
	reload        key.Binding
	cycleFilter   key.Binding
	dateRange     key.Binding
	clearFilters  key.Binding
	setPending    key.Binding
	setInProgress key.Binding
	setCompleted  key.Binding
	deleteJob     key.Binding
	copyID        key.Binding
	toggleTheme   key.Binding
	toggleHelp    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		nextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next panel"),
		),
		prevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev panel"),
		),
		open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open job"),
		),
		closeDetail: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close details"),
		),
		reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		cycleFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "status filter"),
		),
		dateRange: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "date range"),
		),
		clearFilters: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear filters"),
		),
		setPending: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "mark pending"),
		),
		setInProgress: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "mark in progress"),
		),
		setCompleted: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "mark completed"),
		),
		deleteJob: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete job"),
		),
		copyID: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy id"),
		),
		toggleTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "markdown theme"),
		),
		toggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.open,
		k.cycleFilter,
		k.dateRange,
		k.clearFilters,
		k.reload,
		k.toggleHelp,
		k.quit,
	}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.nextFocus, k.prevFocus, k.open, k.closeDetail},
		{k.cycleFilter, k.dateRange, k.clearFilters, k.reload},
		{k.setPending, k.setInProgress, k.setCompleted},
		{k.deleteJob, k.copyID},
		{k.toggleTheme, k.toggleHelp, k.quit},
	}
}

type modelOptions struct {
	repo        jobapi.Repository
	synthesizer *activity.Synthesizer
	theme       markdownTheme
	apiURL      string
	// configPath receives theme changes. Empty disables persistence.
	configPath string
	logger     *slog.Logger
	location   *time.Location
	clipboard  func(string) error
	telemetry  *telemetryLogger
}

type model struct {
	ctx        context.Context
	repo       jobapi.Repository
	logger     *slog.Logger
	apiURL     string
	configPath string
	location   *time.Location
	copyText   func(string) error
	telemetry  *telemetryLogger

	width  int
	height int

	styles  styles
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	pending int

	state *dashboard.State
	panel dashboard.Panel

	markdown    *markdownRenderer
	jobsCol     *jobTableColumn
	activityCol *activityColumn
	detailCol   *jobDetailColumn
	columns     []column
	focus       int

	inputActive bool
	inputMode   inputMode
	inputPrompt string
	inputField  textinput.Model
	pendingFrom *time.Time

	confirm      *dashboard.ConfirmPrompt
	errorMessage string

	toastMessage string
	toastExpires time.Time
}

func newModel(ctx context.Context, opts modelOptions) *model {
	if opts.logger == nil {
		opts.logger = slog.Default()
	}
	if opts.location == nil {
		opts.location = time.Local
	}
	if opts.clipboard == nil {
		opts.clipboard = clipboard.WriteAll
	}
	s := newStyles()
	m := &model{
		ctx:        ctx,
		repo:       opts.repo,
		logger:     opts.logger,
		apiURL:     opts.apiURL,
		configPath: opts.configPath,
		location:   opts.location,
		copyText:   opts.clipboard,
		telemetry:  opts.telemetry,
		styles:     s,
		keys:       newKeyMap(),
		help:       help.New(),
		state:      dashboard.New(opts.synthesizer),
		markdown:   newMarkdownRenderer(opts.theme),
	}
	m.help.ShortSeparator = " │ "

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = lipgloss.NewStyle().Foreground(palette.primary)

	m.inputField = textinput.New()
	m.inputField.CharLimit = len(jobfilter.DateLayout)
	m.inputField.Placeholder = "YYYY-MM-DD"

	m.jobsCol = newJobTableColumn("Jobs")
	m.jobsCol.SetOnSelect(func(j job.Job) tea.Cmd {
		return func() tea.Msg { return jobOpenedMsg{job: j} }
	})
	m.activityCol = newActivityColumn("Recent Activity", s)
	m.activityCol.SetOnSelect(func(a activity.Activity) tea.Cmd {
		if a.JobID == "" {
			return nil
		}
		return func() tea.Msg {
			return jobOpenedMsg{job: job.Job{ID: a.JobID}}
		}
	})
	m.detailCol = newJobDetailColumn(m.markdown)
	m.syncColumns()
	return m
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.reload())
}

// reload starts both list fetches. They complete independently and in any
// order.
func (m *model) reload() tea.Cmd {
	m.state.BeginJobsLoad()
	m.state.BeginActivitiesLoad()
	m.refreshJobs()
	m.refreshActivities()
	m.beginRequest()
	m.beginRequest()
	return tea.Batch(m.loadJobsCmd(), m.loadActivitiesCmd())
}

func (m *model) loadJobsCmd() tea.Cmd {
	ctx, repo := m.ctx, m.repo
	return func() tea.Msg {
		jobs, err := repo.List(ctx)
		return jobsLoadedMsg{jobs: jobs, err: err}
	}
}

func (m *model) loadActivitiesCmd() tea.Cmd {
	ctx, repo := m.ctx, m.repo
	return func() tea.Msg {
		jobs, err := repo.List(ctx)
		return activitiesLoadedMsg{jobs: jobs, err: err}
	}
}

func (m *model) deleteJobCmd(cmd dashboard.DeleteCommand) tea.Cmd {
	ctx, repo := m.ctx, m.repo
	return func() tea.Msg {
		return jobDeletedMsg{id: cmd.ID, err: repo.Remove(ctx, cmd.ID)}
	}
}

func (m *model) setStatusCmd(cmd dashboard.StatusCommand) tea.Cmd {
	ctx, repo := m.ctx, m.repo
	return func() tea.Msg {
		updated, err := repo.SetStatus(ctx, cmd.ID, cmd.Status)
		return jobStatusUpdatedMsg{id: cmd.ID, job: updated, err: err}
	}
}

func saveThemeCmd(path string, theme markdownTheme) tea.Cmd {
	return func() tea.Msg {
		return themeSavedMsg{theme: theme, err: config.SaveTheme(path, theme.String())}
	}
}

func sidebarClearCmd(token uint64) tea.Cmd {
	return tea.Tick(dashboard.SidebarClearDelay, func(time.Time) tea.Msg {
		return sidebarClearMsg{token: token}
	})
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if tick, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(tick)
		return m, cmd
	}

	var cmds []tea.Cmd
	switch message := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = message.Width, message.Height
	case tea.KeyMsg:
		if cmd := m.handleKey(message); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case tea.MouseMsg:
		if cmd := m.updateFocusedColumn(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case jobsLoadedMsg:
		m.handleJobsLoaded(message)
	case activitiesLoadedMsg:
		m.handleActivitiesLoaded(message)
	case jobOpenedMsg:
		m.openJob(message.job)
	case jobDeletedMsg:
		if cmd := m.handleJobDeleted(message); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case jobStatusUpdatedMsg:
		if cmd := m.handleJobStatusUpdated(message); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case sidebarClearMsg:
		m.handleSidebarClear(message)
	case themeSavedMsg:
		if message.err != nil {
			m.logger.Warn("save markdown theme", "theme", message.theme.String(), "error", message.err)
			m.setToast("Could not save theme preference", 4*time.Second)
		}
	}

	m.applyLayout()
	return m, tea.Batch(cmds...)
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	// Modal layers swallow every other key.
	if m.errorMessage != "" {
		switch msg.String() {
		case "enter", "esc", " ":
			m.errorMessage = ""
		}
		return nil
	}
	if m.confirm != nil {
		return m.handleConfirmKey(msg)
	}
	if m.inputActive {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(msg, m.keys.nextFocus):
		m.focus = (m.focus + 1) % len(m.columns)
		return nil
	case key.Matches(msg, m.keys.prevFocus):
		m.focus = (m.focus - 1 + len(m.columns)) % len(m.columns)
		return nil
	case key.Matches(msg, m.keys.reload):
		m.logger.Info("reloading jobs")
		return m.reload()
	case key.Matches(msg, m.keys.cycleFilter):
		m.state.SetStatusFilter(m.state.Criteria.Status.Next())
		m.refreshJobs()
		m.emitFilters()
		return nil
	case key.Matches(msg, m.keys.dateRange):
		m.openDateInput(inputDateFrom, m.state.Criteria.Start)
		return nil
	case key.Matches(msg, m.keys.clearFilters):
		m.state.ClearFilters()
		m.refreshJobs()
		m.emitFilters()
		m.setToast("Filters cleared", 3*time.Second)
		return nil
	case key.Matches(msg, m.keys.toggleTheme):
		return m.cycleMarkdownTheme()
	}

	if m.state.SidebarOpen {
		if handled, cmd := m.handleDetailKey(msg); handled {
			return cmd
		}
	}
	return m.updateFocusedColumn(msg)
}

func (m *model) handleDetailKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.closeDetail):
		return true, m.applyEvents(m.panel.Close())
	case key.Matches(msg, m.keys.setPending):
		return true, m.requestStatus(job.StatusPending)
	case key.Matches(msg, m.keys.setInProgress):
		return true, m.requestStatus(job.StatusInProgress)
	case key.Matches(msg, m.keys.setCompleted):
		return true, m.requestStatus(job.StatusCompleted)
	case key.Matches(msg, m.keys.deleteJob):
		if prompt, ok := m.panel.RequestDelete(); ok {
			m.confirm = &prompt
		}
		return true, nil
	case key.Matches(msg, m.keys.copyID):
		m.copySelectedID()
		return true, nil
	}
	return false, nil
}

func (m *model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	var confirmed bool
	switch strings.ToLower(msg.String()) {
	case "y", "enter":
		confirmed = true
	case "n", "esc":
		confirmed = false
	default:
		return nil
	}
	m.confirm = nil
	cmd, ok := m.panel.ConfirmDelete(confirmed)
	if !ok {
		return nil
	}
	m.beginRequest()
	m.logger.Info("deleting job", "id", cmd.ID)
	return m.deleteJobCmd(cmd)
}

func (m *model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.closeInput()
		return nil
	case "enter":
		if !m.handleInputSubmit(strings.TrimSpace(m.inputField.Value())) {
			m.closeInput()
		}
		return nil
	}
	var cmd tea.Cmd
	m.inputField, cmd = m.inputField.Update(msg)
	return cmd
}

// handleInputSubmit applies one step of the date range prompt and reports
// whether the prompt stays open.
func (m *model) handleInputSubmit(value string) bool {
	date, err := jobfilter.ParseDate(value, m.location)
	if err != nil {
		m.setToast(err.Error(), 4*time.Second)
		return true
	}
	switch m.inputMode {
	case inputDateFrom:
		m.pendingFrom = date
		m.openDateInput(inputDateTo, m.state.Criteria.End)
		return true
	case inputDateTo:
		if m.pendingFrom != nil && date != nil && date.Before(*m.pendingFrom) {
			m.setToast("End date is before start date", 4*time.Second)
			return true
		}
		m.state.SetDateRange(m.pendingFrom, date)
		m.pendingFrom = nil
		m.refreshJobs()
		m.emitFilters()
	}
	return false
}

func (m *model) openDateInput(mode inputMode, current *time.Time) {
	m.inputActive = true
	m.inputMode = mode
	if mode == inputDateFrom {
		m.inputPrompt = "Created on or after (blank for no start)"
	} else {
		m.inputPrompt = "Created on or before (blank for no end)"
	}
	value := ""
	if current != nil {
		value = current.Format(jobfilter.DateLayout)
	}
	m.inputField.SetValue(value)
	m.inputField.CursorEnd()
	m.inputField.Focus()
}

func (m *model) closeInput() {
	m.inputActive = false
	m.inputMode = inputNone
	m.inputPrompt = ""
	m.pendingFrom = nil
	m.inputField.Blur()
	m.inputField.SetValue("")
}

func (m *model) updateFocusedColumn(msg tea.Msg) tea.Cmd {
	if m.focus < 0 || m.focus >= len(m.columns) {
		return nil
	}
	var cmd tea.Cmd
	m.columns[m.focus], cmd = m.columns[m.focus].Update(msg)
	return cmd
}

func (m *model) handleJobsLoaded(msg jobsLoadedMsg) {
	m.endRequest()
	if msg.err != nil {
		m.logger.Warn("load jobs", "error", msg.err)
		m.state.JobsFailed(msg.err)
	} else {
		m.logger.Debug("jobs loaded", "count", len(msg.jobs))
		m.state.JobsLoaded(msg.jobs)
	}
	m.refreshJobs()
}

func (m *model) handleActivitiesLoaded(msg activitiesLoadedMsg) {
	m.endRequest()
	if msg.err != nil {
		m.logger.Warn("load activities", "error", msg.err)
		m.state.ActivitiesFailed(msg.err)
	} else {
		m.state.ActivitiesLoaded(m.state.Synthesizer().Synthesize(msg.jobs))
	}
	m.refreshActivities()
}

func (m *model) handleJobDeleted(msg jobDeletedMsg) tea.Cmd {
	m.endRequest()
	return m.applyEvents(m.panel.DeleteResult(msg.id, msg.err))
}

func (m *model) handleJobStatusUpdated(msg jobStatusUpdatedMsg) tea.Cmd {
	m.endRequest()
	return m.applyEvents(m.panel.StatusResult(msg.id, msg.job, msg.err))
}

func (m *model) handleSidebarClear(msg sidebarClearMsg) {
	if m.state.ClearSelection(msg.token) {
		m.panel.Bind(nil)
		m.detailCol.SetJob(nil)
	}
}

// applyEvents reconciles the dashboard with what the detail panel reported.
func (m *model) applyEvents(events []dashboard.Event) tea.Cmd {
	var cmds []tea.Cmd
	for _, ev := range events {
		switch e := ev.(type) {
		case dashboard.JobDeletedEvent:
			m.logger.Info("job deleted", "id", e.ID)
			sku := ""
			if deleted, ok := m.state.JobByID(e.ID); ok {
				sku = deleted.SKU
			}
			m.telemetry.Emit(telemetryEvent{Event: eventJobDeleted, JobID: e.ID, SKU: sku})
			token := m.state.JobDeleted(e.ID)
			cmds = append(cmds, sidebarClearCmd(token))
			m.syncColumns()
			m.refreshJobs()
			m.setToast("Job deleted", 3*time.Second)
		case dashboard.JobStatusUpdatedEvent:
			m.logger.Info("job status updated", "id", e.Job.ID, "status", e.Job.Status)
			m.telemetry.Emit(telemetryEvent{
				Event: eventJobStatusChanged,
				JobID: e.Job.ID,
				SKU:   e.Job.SKU,
				Extra: map[string]string{"status": e.Job.Status.String()},
			})
			m.state.JobStatusUpdated(e.Job)
			if bound, ok := m.panel.Job(); ok {
				m.detailCol.SetJob(&bound)
			}
			m.refreshJobs()
			m.refreshActivities()
			m.setToast("Status set to "+job.PresentationFor(e.Job.Status).Label, 3*time.Second)
		case dashboard.CloseEvent:
			if m.state.SidebarOpen {
				cmds = append(cmds, sidebarClearCmd(m.state.CloseSidebar()))
				m.syncColumns()
			}
		case dashboard.ErrorEvent:
			m.logger.Warn("job mutation failed", "error", e.Err)
			m.errorMessage = e.Message()
		}
	}
	return tea.Batch(cmds...)
}

// openJob binds the full-set copy of j to the detail panel. Activity rows
// only carry an id, so the lookup also resolves those.
func (m *model) openJob(j job.Job) {
	full, ok := m.state.JobByID(j.ID)
	if !ok {
		m.setToast("Job no longer exists", 3*time.Second)
		return
	}
	m.state.OpenSidebar(full)
	m.telemetry.Emit(telemetryEvent{Event: eventJobOpened, JobID: full.ID, SKU: full.SKU})
	m.panel.Bind(&full)
	m.detailCol.SetJob(&full)
	m.syncColumns()
	m.focus = len(m.columns) - 1
}

func (m *model) emitFilters() {
	m.telemetry.Emit(telemetryEvent{
		Event: eventFiltersChanged,
		Extra: map[string]string{"criteria": m.state.Criteria.String()},
	})
}

func (m *model) requestStatus(status job.Status) tea.Cmd {
	cmd, ok := m.panel.RequestStatus(status)
	if !ok {
		return nil
	}
	m.beginRequest()
	m.logger.Info("updating job status", "id", cmd.ID, "status", cmd.Status)
	return m.setStatusCmd(cmd)
}

func (m *model) copySelectedID() {
	id, ok := m.panel.CopyID()
	if !ok {
		return
	}
	if err := m.copyText(id); err != nil {
		m.logger.Warn("copy job id", "error", err)
		m.setToast("Clipboard unavailable", 4*time.Second)
		return
	}
	m.setToast("Job ID copied", 3*time.Second)
}

func (m *model) cycleMarkdownTheme() tea.Cmd {
	theme := m.markdown.Theme().Next()
	m.markdown.SetTheme(theme)
	m.detailCol.Refresh()
	m.setToast("Markdown theme: "+theme.Label(), 3*time.Second)
	if m.configPath == "" {
		return nil
	}
	return saveThemeCmd(m.configPath, theme)
}

// syncColumns shows the detail column only while the sidebar is open.
func (m *model) syncColumns() {
	m.columns = []column{m.jobsCol, m.activityCol}
	if m.state.SidebarOpen {
		m.columns = append(m.columns, m.detailCol)
	}
	if m.focus >= len(m.columns) {
		m.focus = 0
	}
	m.applyLayout()
}

func (m *model) refreshJobs() {
	list := m.state.JobsList
	filtered := m.state.FilteredJobs()
	switch {
	case list.Phase == dashboard.PhaseErrored:
		m.jobsCol.SetNotice(list.Error+". Press r to retry.", true)
	case list.Loading() && len(m.state.Jobs) == 0:
		m.jobsCol.SetNotice("Loading jobs…", false)
	case list.Phase == dashboard.PhaseLoaded && len(filtered) == 0:
		if len(m.state.Jobs) == 0 {
			m.jobsCol.SetNotice("No jobs yet.", false)
		} else {
			m.jobsCol.SetNotice("No jobs match the current filters.", false)
		}
	default:
		m.jobsCol.SetNotice("", false)
	}
	counts := m.state.Counts()
	m.jobsCol.title = fmt.Sprintf("Jobs (%d of %d)", counts.Filtered, counts.Total)
	m.jobsCol.SetJobs(filtered)
}

func (m *model) refreshActivities() {
	list := m.state.ActivitiesList
	switch {
	case list.Phase == dashboard.PhaseErrored:
		m.activityCol.SetNotice(list.Error+".", true)
	case list.Loading():
		m.activityCol.SetNotice("Loading activity…", false)
	default:
		m.activityCol.SetNotice("", false)
	}
	m.activityCol.SetActivities(m.state.Activities)
}

func (m *model) beginRequest() {
	m.pending++
}

func (m *model) endRequest() {
	if m.pending > 0 {
		m.pending--
	}
}

func (m *model) applyLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	helpWidth := m.width - 4
	if helpWidth < 0 {
		helpWidth = 0
	}
	m.help.Width = helpWidth

	topChrome := 2
	bottomChrome := 1 + lipgloss.Height(m.help.View(m.keys))
	bodyHeight := m.height - topChrome - bottomChrome
	if bodyHeight < 8 {
		bodyHeight = 8
	}

	activityWidth := min(44, max(m.width/4, 28))
	detailWidth := 0
	if m.state.SidebarOpen {
		detailWidth = min(64, max(m.width/3, 36))
	}
	jobsWidth := m.width - activityWidth - detailWidth
	if jobsWidth < 40 {
		jobsWidth = 40
	}

	m.jobsCol.SetSize(jobsWidth, bodyHeight)
	m.activityCol.SetSize(activityWidth, bodyHeight)
	if detailWidth > 0 {
		m.detailCol.SetSize(detailWidth, bodyHeight)
	}
}

func (m *model) setToast(msg string, duration time.Duration) {
	trimmed := strings.TrimSpace(msg)
	if trimmed == "" {
		m.toastMessage = ""
		m.toastExpires = time.Time{}
		return
	}
	if duration <= 0 {
		duration = 5 * time.Second
	}
	m.toastMessage = trimmed
	m.toastExpires = time.Now().Add(duration)
}

func (m *model) View() string {
	var builder strings.Builder

	builder.WriteString(m.renderTopBar())
	builder.WriteRune('\n')
	builder.WriteString(m.renderFilterBar())
	builder.WriteRune('\n')

	colViews := make([]string, 0, len(m.columns))
	for i, col := range m.columns {
		colViews = append(colViews, col.View(m.styles, i == m.focus))
	}
	builder.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, colViews...))
	builder.WriteRune('\n')

	if helpView := m.help.View(m.keys); helpView != "" {
		builder.WriteString(helpView)
		builder.WriteRune('\n')
	}
	builder.WriteString(m.renderStatus())

	screen := m.styles.app.Render(builder.String())
	if overlay := m.renderOverlay(); overlay != "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay)
	}
	return screen
}

func (m *model) renderTopBar() string {
	counts := m.state.Counts()
	summary := m.styles.topCounts.Render(fmt.Sprintf(
		"%d jobs • %d pending • %d in progress • %d completed",
		counts.Total, counts.Pending, counts.InProgress, counts.Completed,
	))
	title := "jobdesk • Warehouse Jobs"
	if m.apiURL != "" {
		title += " • " + m.apiURL
	}
	return m.styles.topBar.Width(m.width).Render(title + "  " + summary)
}

func (m *model) renderFilterBar() string {
	var parts []string
	for _, opt := range jobfilter.Options() {
		label := opt.Label
		if opt.Value != jobfilter.All {
			label = job.PresentationFor(job.Status(opt.Value)).Glyph + " " + label
		}
		if opt.Value == m.state.Criteria.Status {
			parts = append(parts, m.styles.filterActive.Render(label))
		} else {
			parts = append(parts, m.styles.filterIdle.Render(label))
		}
	}
	parts = append(parts, m.styles.filterIdle.Render("Dates: "+formatDateRange(m.state.Criteria)))
	return m.styles.filterBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
}

func formatDateRange(c jobfilter.Criteria) string {
	if c.Start == nil && c.End == nil {
		return "any"
	}
	from, to := "…", "…"
	if c.Start != nil {
		from = c.Start.Format(jobfilter.DateLayout)
	}
	if c.End != nil {
		to = c.End.Format(jobfilter.DateLayout)
	}
	return from + " → " + to
}

func (m *model) renderStatus() string {
	var segments []string
	if m.focus >= 0 && m.focus < len(m.columns) {
		col := m.columns[m.focus]
		value := strings.TrimSpace(col.FocusValue())
		if value == "" {
			value = "—"
		}
		segments = append(segments, m.styles.statusSeg.Render(fmt.Sprintf("%s: %s", col.Title(), value)))
	}
	if m.pending > 0 {
		segments = append(segments, m.styles.statusSeg.Render(m.spinner.View()+" Working…"))
	}
	segments = append(segments, m.styles.statusSeg.Render("Theme: "+m.markdown.Theme().Label()))
	if m.toastMessage != "" {
		if time.Now().After(m.toastExpires) {
			m.toastMessage = ""
		} else {
			segments = append(segments, m.styles.statusSeg.Render(m.toastMessage))
		}
	}
	return m.styles.statusBar.Width(m.width).Render(strings.Join(segments, "│"))
}

func (m *model) renderOverlay() string {
	width := min(64, max(m.width-4, 24))
	switch {
	case m.errorMessage != "":
		body := m.styles.modalTitle.Render("Error") + "\n\n" + m.errorMessage + "\n\n" +
			m.styles.modalHint.Render("enter dismiss")
		return m.styles.errorModal.Width(width).Render(body)
	case m.confirm != nil:
		body := m.styles.modalTitle.Render("Delete job") + "\n\n" + m.confirm.Text + "\n\n" +
			m.styles.modalHint.Render("y confirm • n cancel")
		return m.styles.modal.Width(width).Render(body)
	case m.inputActive:
		body := m.styles.modalTitle.Render(m.inputPrompt) + "\n" + m.inputField.View() + "\n" +
			m.styles.modalHint.Render("enter confirm • esc cancel")
		return m.styles.modal.Width(width).Render(body)
	}
	return ""
}
