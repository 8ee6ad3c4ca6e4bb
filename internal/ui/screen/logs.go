package screen

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/logger"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/component"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/router"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/style"
)

// LogLevel represents different log levels
type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
	LogLevelAll   LogLevel = "ALL"
)

// LogSource is the in-memory log buffer.
type LogSource interface {
	GetRecentLogs(limit int) []logger.LogEntry
}

const (
	logsRefreshInterval = 2 * time.Second
	logsLimit           = 500
)

// RefreshLogsMsg is sent to trigger a refresh
type RefreshLogsMsg struct {
	Timestamp time.Time
}

// LogsScreen shows the most recent buffered log entries as an overlay.
type LogsScreen struct {
	width  int
	height int
	keyMap ui.KeyMap
	source LogSource

	helpBar *component.HelpBar
	table   *component.Table

	logs          []logger.LogEntry
	filteredLogs  []logger.LogEntry
	currentFilter LogLevel
	tailMode      bool // Follow new logs
	lastUpdate    time.Time

	styles      style.LogStyles
	titleStyle  lipgloss.Style
	headerStyle lipgloss.Style
	statusStyle lipgloss.Style
}

// NewLogsScreen creates a new logs screen
func NewLogsScreen(source LogSource) *LogsScreen {
	palette := style.DefaultPalette()

	s := &LogsScreen{
		keyMap:        ui.DefaultKeyMap(),
		source:        source,
		currentFilter: LogLevelAll,
		tailMode:      true,
		styles:        style.NewLogStyles(palette),

		titleStyle: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true).
			Margin(1, 0),

		headerStyle: lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true).
			Padding(0, 2),

		statusStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 2),
	}

	s.table = component.NewTable().
		AddColumn("Time", 10, lipgloss.Left).
		AddColumn("Level", 7, lipgloss.Center).
		AddColumn("Logger", 14, lipgloss.Left).
		AddColumn("Message", 0, lipgloss.Left).
		SetShowBorder(true).
		SetSelectable(true).
		SetEmptyText("No log entries match the current filter.")

	s.helpBar = component.NewHelpBar().
		SetKeyBindings(s.keyMap.ContextualHelp(ui.RouteLogs, false))

	return s
}

// Init loads the buffer and starts the refresh ticker
func (s *LogsScreen) Init() tea.Cmd {
	s.reload(time.Now())
	return s.tick()
}

func (s *LogsScreen) tick() tea.Cmd {
	return tea.Tick(logsRefreshInterval, func(t time.Time) tea.Msg {
		return RefreshLogsMsg{Timestamp: t}
	})
}

// Update handles screen updates
func (s *LogsScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshLogsMsg:
		s.reload(msg.Timestamp)
		return s, s.tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keyMap.Up):
			s.table.MoveUp()
			s.tailMode = false
		case key.Matches(msg, s.keyMap.Down):
			s.table.MoveDown()
		case key.Matches(msg, s.keyMap.Refresh):
			s.reload(time.Now())
		case msg.String() == "t":
			s.tailMode = !s.tailMode
			if s.tailMode {
				s.scrollToBottom()
			}
		case msg.String() == "1":
			s.setFilter(LogLevelError)
		case msg.String() == "2":
			s.setFilter(LogLevelWarn)
		case msg.String() == "3":
			s.setFilter(LogLevelInfo)
		case msg.String() == "4":
			s.setFilter(LogLevelAll)
		}
	}
	return s, nil
}

// View renders the logs screen
func (s *LogsScreen) View() string {
	var content strings.Builder

	title := "📜 Application Logs"
	if s.tailMode {
		title += " (Tail mode)"
	}
	content.WriteString(s.titleStyle.Render(title))
	content.WriteString("\n")
	content.WriteString(s.renderStatusBar())
	content.WriteString("\n\n")
	content.WriteString(s.table.View())
	content.WriteString("\n")
	content.WriteString(s.statusStyle.Render("1-4: Error/Warn/Info/All • T: Tail mode • F5: Refresh • Esc: Close"))
	content.WriteString("\n")
	content.WriteString(s.helpBar.SetWidth(s.width).View())

	return content.String()
}

// SetSize sets the screen dimensions
func (s *LogsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.helpBar.SetWidth(width)
	s.table.SetSize(width-4, height-12)
}

func (s *LogsScreen) renderStatusBar() string {
	parts := []string{
		fmt.Sprintf("Total: %d", len(s.logs)),
		fmt.Sprintf("Shown: %d", len(s.filteredLogs)),
	}
	if s.currentFilter != LogLevelAll {
		parts = append(parts, fmt.Sprintf("Filter: %s", s.currentFilter))
	}
	if !s.lastUpdate.IsZero() {
		parts = append(parts, fmt.Sprintf("Updated: %s", s.lastUpdate.Format("15:04:05")))
	}
	return s.headerStyle.Render(strings.Join(parts, " • "))
}

func (s *LogsScreen) reload(at time.Time) {
	s.lastUpdate = at
	if s.source == nil {
		return
	}
	s.logs = s.source.GetRecentLogs(logsLimit)
	s.applyFilters()
	if s.tailMode {
		s.scrollToBottom()
	}
}

func (s *LogsScreen) setFilter(level LogLevel) {
	s.currentFilter = level
	s.applyFilters()
}

func (s *LogsScreen) applyFilters() {
	filtered := make([]logger.LogEntry, 0, len(s.logs))
	for _, entry := range s.logs {
		if s.currentFilter != LogLevelAll && normalizeLevel(entry.Level) != s.currentFilter {
			continue
		}
		filtered = append(filtered, entry)
	}
	s.filteredLogs = filtered
	s.updateTableDisplay()
}

func (s *LogsScreen) updateTableDisplay() {
	rows := make([][]string, 0, len(s.filteredLogs))
	for _, entry := range s.filteredLogs {
		rows = append(rows, []string{
			entry.Timestamp.Format("15:04:05"),
			string(normalizeLevel(entry.Level)),
			entry.Logger,
			entry.Message,
		})
	}
	s.table.SetRows(rows)

	for i, entry := range s.filteredLogs {
		s.table.SetRowStyle(i, s.levelStyle(normalizeLevel(entry.Level)))
	}
}

func (s *LogsScreen) levelStyle(level LogLevel) lipgloss.Style {
	switch level {
	case LogLevelDebug:
		return s.styles.Debug
	case LogLevelWarn:
		return s.styles.Warning
	case LogLevelError:
		return s.styles.Error
	default:
		return s.styles.Info
	}
}

func (s *LogsScreen) scrollToBottom() {
	if len(s.filteredLogs) > 0 {
		s.table.SetSelectedRow(len(s.filteredLogs) - 1)
	}
}

// normalizeLevel maps zap level names onto the filter levels.
func normalizeLevel(level string) LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return LogLevelDebug
	case "WARN", "WARNING":
		return LogLevelWarn
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}
