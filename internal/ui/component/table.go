package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/style"
)

// TableColumn описывает колонку. Width 0 подгоняет ширину под содержимое.
type TableColumn struct {
	Header string
	Width  int
	Align  lipgloss.Position
}

type tableRow struct {
	cells []string
	style lipgloss.Style
	// cellStyles overrides the foreground of individual cells, keyed by column.
	cellStyles map[int]lipgloss.Style
}

// Table renders balances, transactions, stakes and log lines.
type Table struct {
	columns  []TableColumn
	rows     []tableRow
	selected int

	headerStyle   lipgloss.Style
	rowStyle      lipgloss.Style
	selectedStyle lipgloss.Style
	stripeColor   lipgloss.Color
	borderStyle   lipgloss.Style
	emptyStyle    lipgloss.Style

	showBorder bool
	selectable bool
	zebra      bool
	emptyText  string
}

// NewTable creates a bordered, selectable table.
func NewTable() *Table {
	palette := style.DefaultPalette()

	return &Table{
		headerStyle: lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true).
			Padding(0, 1),
		rowStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 1),
		selectedStyle: lipgloss.NewStyle().
			Foreground(palette.Background).
			Background(palette.Primary).
			Padding(0, 1),
		stripeColor: palette.BackgroundAlt,
		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted),
		emptyStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Italic(true),

		showBorder: true,
		selectable: true,
	}
}

// AddColumn appends a column.
func (t *Table) AddColumn(header string, width int, align lipgloss.Position) *Table {
	t.columns = append(t.columns, TableColumn{Header: header, Width: width, Align: align})
	return t
}

// SetRows replaces all rows and drops per-row styling.
func (t *Table) SetRows(rows [][]string) *Table {
	t.rows = make([]tableRow, len(rows))
	for i, cells := range rows {
		t.rows[i] = tableRow{cells: cells, style: t.rowStyle}
	}
	if t.selected >= len(t.rows) {
		t.selected = max(len(t.rows)-1, 0)
	}
	return t
}

// SetRowStyle overrides the style of one row.
func (t *Table) SetRowStyle(index int, s lipgloss.Style) *Table {
	if index >= 0 && index < len(t.rows) {
		t.rows[index].style = s
	}
	return t
}

// SetCellStyle colors a single cell on top of its row style.
func (t *Table) SetCellStyle(index, column int, s lipgloss.Style) *Table {
	if index < 0 || index >= len(t.rows) {
		return t
	}
	if t.rows[index].cellStyles == nil {
		t.rows[index].cellStyles = make(map[int]lipgloss.Style)
	}
	t.rows[index].cellStyles[column] = s
	return t
}

// SetSelectedRow moves the cursor to index when it is in range.
func (t *Table) SetSelectedRow(index int) *Table {
	if index >= 0 && index < len(t.rows) {
		t.selected = index
	}
	return t
}

// GetSelectedRow returns the cursor position.
func (t *Table) GetSelectedRow() int {
	return t.selected
}

// MoveUp moves the cursor one row up.
func (t *Table) MoveUp() *Table {
	if t.selectable && t.selected > 0 {
		t.selected--
	}
	return t
}

// MoveDown moves the cursor one row down.
func (t *Table) MoveDown() *Table {
	if t.selectable && t.selected < len(t.rows)-1 {
		t.selected++
	}
	return t
}

func (t *Table) SetSelectable(selectable bool) *Table {
	t.selectable = selectable
	return t
}

func (t *Table) SetShowBorder(show bool) *Table {
	t.showBorder = show
	return t
}

// SetZebra stripes every second row.
func (t *Table) SetZebra(zebra bool) *Table {
	t.zebra = zebra
	return t
}

// SetEmptyText sets the message shown instead of an empty table.
func (t *Table) SetEmptyText(text string) *Table {
	t.emptyText = text
	return t
}

// Clear removes all rows and resets the cursor.
func (t *Table) Clear() *Table {
	t.rows = nil
	t.selected = 0
	return t
}

// View renders the table. Without empty text an empty table still shows headers.
func (t *Table) View() string {
	if len(t.columns) == 0 {
		return ""
	}
	if len(t.rows) == 0 && t.emptyText != "" {
		return t.emptyStyle.Render(t.emptyText)
	}

	widths := t.columnWidths()
	lines := make([]string, 0, len(t.rows)+2)

	header := make([]string, len(t.columns))
	rule := make([]string, len(t.columns))
	for i, col := range t.columns {
		header[i] = renderCell(col.Header, widths[i], col.Align, t.headerStyle)
		rule[i] = strings.Repeat("─", lipgloss.Width(header[i]))
	}
	lines = append(lines, strings.Join(header, "│"), strings.Join(rule, "┼"))

	for i, row := range t.rows {
		rowStyle := t.rowStyleAt(i)
		cells := make([]string, len(t.columns))
		for c, col := range t.columns {
			text := ""
			if c < len(row.cells) {
				text = row.cells[c]
			}
			cellStyle := rowStyle
			if override, ok := row.cellStyles[c]; ok {
				cellStyle = rowStyle.Foreground(override.GetForeground())
			}
			cells[c] = renderCell(text, widths[c], col.Align, cellStyle)
		}
		lines = append(lines, strings.Join(cells, "│"))
	}

	out := strings.Join(lines, "\n")
	if t.showBorder {
		out = t.borderStyle.Render(out)
	}
	return out
}

func (t *Table) rowStyleAt(i int) lipgloss.Style {
	if t.selectable && i == t.selected {
		return t.selectedStyle
	}
	s := t.rows[i].style
	if t.zebra && i%2 == 1 {
		s = s.Background(t.stripeColor)
	}
	return s
}

// columnWidths resolves auto-width columns to their widest cell.
func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.columns))
	for i, col := range t.columns {
		if col.Width > 0 {
			widths[i] = col.Width
			continue
		}
		w := lipgloss.Width(col.Header)
		for _, row := range t.rows {
			if i < len(row.cells) {
				w = max(w, lipgloss.Width(row.cells[i]))
			}
		}
		widths[i] = w
	}
	return widths
}

// renderCell truncates by rune so multi-byte symbols never split.
func renderCell(text string, width int, align lipgloss.Position, s lipgloss.Style) string {
	if runes := []rune(text); len(runes) > width {
		if width > 3 {
			text = string(runes[:width-3]) + "..."
		} else {
			text = string(runes[:width])
		}
	}
	return s.Width(width + s.GetHorizontalPadding()).Align(align).Render(text)
}
