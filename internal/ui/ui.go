package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/singarr/internal/models"
)

const (
	maxJobs     = 100
	maxLogLines = 500
	maxActivity = 6
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	JobsView ViewState = iota
	LogView
)

// JobClient is the part of the server API the monitor uses.
type JobClient interface {
	List(ctx context.Context, filter models.JobFilter) ([]models.Job, error)
	Enqueue(ctx context.Context, payload models.Payload) (models.Job, error)
}

// EventSource yields server events until the connection closes.
type EventSource interface {
	Next() (models.Event, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	client   JobClient
	events   EventSource
	width    int
	height   int
	jobList  list.Model
	jobs     []models.Job
	logs     map[int64][]string
	activity []string
	selected int64
	logView  viewport.Model
	notice   string
	closed   error
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a monitor over client and the event stream.
func NewModel(ctx context.Context, client JobClient, events EventSource) *Model {
	jobList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	jobList.Title = "Jobs"
	jobList.SetShowHelp(false)

	return &Model{
		ctx:     ctx,
		view:    JobsView,
		client:  client,
		events:  events,
		jobList: jobList,
		logs:    map[int64][]string{},
		logView: viewport.New(0, 0),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init fetches recent jobs and starts reading events.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchJobs(), m.waitForEvent())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.jobList.SetSize(msg.Width-4, max(msg.Height-maxActivity-8, 4))
		m.logView.Width = msg.Width - 4
		m.logView.Height = max(msg.Height-6, 4)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case JobsView:
			return m.handleJobsKeys(msg)
		case LogView:
			return m.handleLogKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateView(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgJobsFetched:
		res := msg.data.(jobsResult)
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		m.err = nil
		m.jobs = res.jobs
		return m, m.refreshList()

	case MsgEvent:
		cmd := m.applyEvent(msg.data.(models.Event))
		return m, tea.Batch(cmd, m.waitForEvent())

	case MsgStreamClosed:
		err, _ := msg.data.(error)
		if err == nil {
			err = fmt.Errorf("event stream closed")
		}
		m.closed = err
		return m, nil

	case MsgEnqueued:
		res := msg.data.(enqueueResult)
		if res.err != nil {
			m.notice = styles.err.Render(fmt.Sprintf("Enqueue failed: %v", res.err))
			return m, nil
		}
		m.notice = styles.ok.Render(fmt.Sprintf("Enqueued #%d %s", res.job.ID, res.job.Payload.Type()))
		m.upsertJob(res.job)
		return m, m.refreshList()
	}
	return m, nil
}

// applyEvent folds one server event into the model.
func (m *Model) applyEvent(event models.Event) tea.Cmd {
	switch e := event.(type) {
	case models.JobStart:
		m.upsertJob(e.Job)
		return m.refreshList()
	case models.JobEnd:
		m.upsertJob(e.Job)
		return m.refreshList()
	case models.JobLog:
		lines := append(m.logs[e.JobID], e.Log)
		if len(lines) > maxLogLines {
			lines = lines[len(lines)-maxLogLines:]
		}
		m.logs[e.JobID] = lines
		if m.view == LogView && m.selected == e.JobID {
			m.logView.SetContent(strings.Join(lines, "\n"))
			m.logView.GotoBottom()
		}
		return m.refreshList()
	default:
		if line := describeEvent(event); line != "" {
			m.activity = append(m.activity, line)
			if len(m.activity) > maxActivity {
				m.activity = m.activity[len(m.activity)-maxActivity:]
			}
		}
		return nil
	}
}

// upsertJob replaces the job with the same id or prepends it.
func (m *Model) upsertJob(job models.Job) {
	for i := range m.jobs {
		if m.jobs[i].ID == job.ID {
			m.jobs[i] = job
			return
		}
	}
	m.jobs = append([]models.Job{job}, m.jobs...)
	if len(m.jobs) > maxJobs {
		m.jobs = m.jobs[:maxJobs]
	}
}

func (m *Model) refreshList() tea.Cmd {
	items := make([]list.Item, len(m.jobs))
	for i, job := range m.jobs {
		item := jobItem{job: job}
		if lines := m.logs[job.ID]; len(lines) > 0 {
			item.last = lines[len(lines)-1]
		}
		items[i] = item
	}
	return m.jobList.SetItems(items)
}

func describeEvent(event models.Event) string {
	switch e := event.(type) {
	case models.ArtistCreated:
		return "+ artist " + e.Artist.Name
	case models.ArtistDeleted:
		return "- artist " + e.Artist.Name
	case models.AlbumCreated:
		return "+ album " + e.Album.Title
	case models.AlbumDeleted:
		return "- album " + e.Album.Title
	case models.TrackCreated:
		return "+ track " + e.Track.Title
	case models.TrackDeleted:
		return "- track " + e.Track.Title
	case models.LyricsCreated:
		return styles.ok.Render("+ lyrics ") + e.Lyrics.FilePath
	case models.LyricsDeleted:
		return styles.err.Render("- lyrics ") + e.Lyrics.FilePath
	}
	return ""
}

func (m *Model) handleJobsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.jobList.FilterState() == list.Filtering {
		return m.updateView(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.jobList.SelectedItem().(jobItem); ok {
			m.selected = item.job.ID
			m.view = LogView
			m.logView.SetContent(strings.Join(m.logs[item.job.ID], "\n"))
			m.logView.GotoBottom()
		}
		return m, nil
	case key.Matches(msg, m.keys.sync):
		return m, m.enqueue(models.SyncLibrary{})
	case key.Matches(msg, m.keys.scan):
		return m, m.enqueue(models.ScanLibrary{})
	case key.Matches(msg, m.keys.search):
		return m, m.enqueue(models.SearchLibrary{})
	case key.Matches(msg, m.keys.refresh):
		return m, m.fetchJobs()
	}

	return m.updateView(msg)
}

func (m *Model) handleLogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = JobsView
		return m, nil
	}
	return m.updateView(msg)
}

func (m *Model) updateView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case JobsView:
		m.jobList, cmd = m.jobList.Update(msg)
	case LogView:
		m.logView, cmd = m.logView.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchJobs() tea.Cmd {
	return func() tea.Msg {
		jobs, err := m.client.List(m.ctx, models.JobFilter{Limit: maxJobs})
		return jobsFetchedMsg(jobs, err)
	}
}

func (m *Model) enqueue(payload models.Payload) tea.Cmd {
	return func() tea.Msg {
		job, err := m.client.Enqueue(m.ctx, payload)
		return enqueuedMsg(job, err)
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		event, err := m.events.Next()
		if err != nil {
			return streamClosedMsg(err)
		}
		return eventMsg(event)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LogView:
		return m.renderLog()
	default:
		return m.renderJobs()
	}
}

func (m *Model) renderJobs() string {
	var b strings.Builder
	if m.err != nil {
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n")
	}
	if m.closed != nil {
		b.WriteString(styles.warn.Render(fmt.Sprintf("Disconnected: %v", m.closed)) + "\n\n")
	}

	b.WriteString(m.jobList.View())
	b.WriteString("\n\n")
	b.WriteString(styles.title.Render("Activity"))
	b.WriteString("\n")
	if len(m.activity) == 0 {
		b.WriteString(styles.help.Render("No library changes yet"))
	} else {
		b.WriteString(strings.Join(m.activity, "\n"))
	}

	if m.notice != "" {
		b.WriteString("\n\n" + m.notice)
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.sync, m.keys.scan, m.keys.search, m.keys.refresh, m.keys.quit}
	b.WriteString("\n\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderLog() string {
	title := fmt.Sprintf("Job #%d", m.selected)
	for _, job := range m.jobs {
		if job.ID == m.selected {
			title = fmt.Sprintf("%s %s", title, styles.status(job.Status))
			break
		}
	}

	body := m.logView.View()
	if len(m.logs[m.selected]) == 0 {
		body = styles.help.Render("No log lines received for this job")
	}

	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s", styles.title.Render(title), body, m.help.ShortHelpView(helpKeys))
}
