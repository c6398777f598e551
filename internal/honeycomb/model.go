package honeycomb

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type viewState int

const (
	viewHoneycomb viewState = iota
	viewEmails
)

const (
	cellWidth       = 24
	cellOuterWidth  = cellWidth + 2
	defaultPollRate = 30 * time.Second
)

// Model 蜂巢终端界面。
//
// 按固定间隔轮询活跃空间，只有新列表与当前列表按值比较不同时才替换；
// 拉取失败时保留上一次的列表。
type Model struct {
	fetcher  Fetcher
	interval time.Duration
	initial  string

	spaces   []Space
	revision int // 列表被替换的次数
	selected int
	loaded   bool

	view       viewState
	openSpace  string
	emails     []Email
	emailsErr  error
	emailsBusy bool
	scroll     int

	width, height int
	err           error
	lastPoll      time.Time
}

// NewModel 创建蜂巢模型，interval 不大于零时使用 30 秒
func NewModel(fetcher Fetcher, interval time.Duration, initial string) Model {
	if interval <= 0 {
		interval = defaultPollRate
	}
	return Model{
		fetcher:  fetcher,
		interval: interval,
		initial:  initial,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(fetchSpacesCmd(m.fetcher), pollTickCmd(m.interval))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case pollTickMsg:
		m.lastPoll = msg.Time
		return m, tea.Batch(fetchSpacesCmd(m.fetcher), pollTickCmd(m.interval))

	case spacesMsg:
		m.applySpaces(msg)

	case emailsMsg:
		if msg.address != m.openSpace {
			return m, nil
		}
		m.emailsBusy = false
		m.emailsErr = msg.err
		if msg.err == nil {
			m.emails = msg.emails
			if m.scroll >= len(m.emails) {
				m.scroll = 0
			}
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) applySpaces(msg spacesMsg) {
	if msg.err != nil {
		m.err = msg.err
		if !m.loaded {
			m.replaceSpaces(m.seed())
			m.loaded = true
		}
		return
	}
	m.err = nil
	m.loaded = true

	spaces := msg.spaces
	if len(spaces) == 0 {
		spaces = m.seed()
	}
	if sameSpaces(m.spaces, spaces) {
		return
	}
	m.replaceSpaces(spaces)
}

func (m *Model) replaceSpaces(spaces []Space) {
	var current string
	if m.selected < len(m.spaces) {
		current = m.spaces[m.selected].Email
	}

	m.spaces = spaces
	m.revision++

	m.selected = 0
	for i, s := range spaces {
		if s.Email == current {
			m.selected = i
			break
		}
	}
}

func (m Model) seed() []Space {
	return []Space{{Email: m.initial, Active: true, IsInitial: true}}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || key == "q" {
		return m, tea.Quit
	}

	if m.view == viewEmails {
		switch key {
		case "esc", "backspace":
			m.view = viewHoneycomb
			m.openSpace = ""
			m.emails = nil
		case "up", "k":
			if m.scroll > 0 {
				m.scroll--
			}
		case "down", "j":
			if m.scroll < len(m.emails)-1 {
				m.scroll++
			}
		case "r":
			m.emailsBusy = true
			return m, fetchEmailsCmd(m.fetcher, m.openSpace)
		}
		return m, nil
	}

	perRow := m.cellsPerRow()
	switch key {
	case "left", "h":
		m.move(-1)
	case "right", "l":
		m.move(1)
	case "up", "k":
		m.move(-perRow)
	case "down", "j":
		m.move(perRow)
	case "r":
		return m, fetchSpacesCmd(m.fetcher)
	case "enter":
		if m.selected < len(m.spaces) && m.spaces[m.selected].Active {
			m.view = viewEmails
			m.openSpace = m.spaces[m.selected].Email
			m.emails = nil
			m.emailsErr = nil
			m.emailsBusy = true
			m.scroll = 0
			return m, fetchEmailsCmd(m.fetcher, m.openSpace)
		}
	}
	return m, nil
}

func (m *Model) move(delta int) {
	next := m.selected + delta
	if next >= 0 && next < len(m.spaces) {
		m.selected = next
	}
}

func (m Model) cellsPerRow() int {
	n := (m.width - cellOuterWidth/2) / cellOuterWidth
	if n < 1 {
		return 1
	}
	return n
}

func (m Model) View() string {
	var b strings.Builder
	if m.view == viewEmails {
		b.WriteString(m.renderEmails())
	} else {
		b.WriteString(m.renderHoneycomb())
	}
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderHoneycomb() string {
	title := TitleStyle.Render("honeypoty")
	if !m.loaded {
		return title + "\n\nLoading spaces..."
	}

	perRow := m.cellsPerRow()
	rows := make([]string, 0, len(m.spaces)/perRow+1)
	for start := 0; start < len(m.spaces); start += perRow {
		end := min(start+perRow, len(m.spaces))
		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cells = append(cells, m.renderCell(i))
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
		// 奇数行右移半格，形成蜂巢错位
		if (start/perRow)%2 == 1 {
			row = lipgloss.NewStyle().PaddingLeft(cellOuterWidth / 2).Render(row)
		}
		rows = append(rows, row)
	}
	return title + "\n\n" + lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCell(i int) string {
	s := m.spaces[i]
	label := truncate(s.Email, cellWidth-2)

	style := inactiveCellStyle
	switch {
	case i == m.selected:
		style = selectedCellStyle
	case s.IsInitial:
		style = initialCellStyle
	case s.Active:
		style = activeCellStyle
	}
	return style.Render(label)
}

func (m Model) renderEmails() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(m.openSpace))
	b.WriteString("\n")

	switch {
	case m.emailsBusy && len(m.emails) == 0:
		b.WriteString(EmptyNoticeStyle.Render("Loading emails..."))
		return b.String()
	case m.emailsErr != nil && len(m.emails) == 0:
		b.WriteString(EmptyNoticeStyle.Render("Could not load emails: " + m.emailsErr.Error()))
		return b.String()
	case len(m.emails) == 0:
		b.WriteString(EmptyNoticeStyle.Render("No emails received yet."))
		return b.String()
	}

	for _, e := range m.emails[m.scroll:] {
		header := fmt.Sprintf("%s %s\n%s %s\n%s %s",
			HeaderKeyStyle.Render("From:"), e.SenderEmail,
			HeaderKeyStyle.Render("Subject:"), e.Subject,
			HeaderKeyStyle.Render("Received:"), SecondaryStyle.Render(e.ReceivedAt.Local().Format("2006-01-02 15:04:05")),
		)
		b.WriteString(EmailBlockStyle.Render(header + "\n\n" + strings.TrimSpace(e.Body)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderStatusBar() string {
	if m.err != nil {
		return StatusBarErrorStyle.Render("Error: " + m.err.Error())
	}

	active := 0
	for _, s := range m.spaces {
		if s.Active {
			active++
		}
	}

	help := "arrows: move | enter: open | r: refresh | q: quit"
	if m.view == viewEmails {
		help = "up/down: scroll | r: refresh | esc: back | q: quit"
	}
	return StatusBarNormalStyle.Render(fmt.Sprintf("%d active | poll every %s | %s", active, m.interval, help))
}

// sameSpaces 按值比较两份空间列表
func sameSpaces(a, b []Space) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Email != b[i].Email ||
			a[i].Active != b[i].Active ||
			a[i].IsInitial != b[i].IsInitial ||
			!a[i].CreatedAt.Equal(b[i].CreatedAt) ||
			!a[i].LastActivity.Equal(b[i].LastActivity) {
			return false
		}
	}
	return true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
