package component

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/style"
	"github.com/stretchr/testify/assert"
)

func TestTableRendersRows(t *testing.T) {
	table := NewTable().
		AddColumn("Signature", 12, lipgloss.Left).
		AddColumn("Slot", 6, lipgloss.Right)
	table.SetRows([][]string{{"5xKf", "100"}, {"9aBc", "101"}})

	view := table.View()
	assert.Contains(t, view, "Signature")
	assert.Contains(t, view, "5xKf")
	assert.Contains(t, view, "101")
}

func TestTableEmptyText(t *testing.T) {
	table := NewTable().AddColumn("Mint", 10, lipgloss.Left)
	assert.Contains(t, table.View(), "Mint")

	table.SetEmptyText("Nothing here")
	assert.Contains(t, table.View(), "Nothing here")
}

func TestTableTruncatesByRune(t *testing.T) {
	table := NewTable().AddColumn("Name", 6, lipgloss.Left)
	table.SetRows([][]string{{"ΔΔΔΔΔΔΔΔ"}})

	view := table.View()
	assert.Contains(t, view, "ΔΔΔ...")
	assert.NotContains(t, view, "ΔΔΔΔ")
}

func TestTableAutoWidthFitsWidestCell(t *testing.T) {
	hash := "4sGjMW1sUnHzSxGspuhpqLDx6wiyjNtZAMdL4VZHirAn"
	table := NewTable().
		AddColumn("Slot", 6, lipgloss.Right).
		AddColumn("Block hash", 0, lipgloss.Left).
		SetShowBorder(false)
	table.SetRows([][]string{{"1", "short"}, {"2", hash}})

	lines := strings.Split(table.View(), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[3], hash)
}

func TestTableCellStyle(t *testing.T) {
	table := NewTable().
		AddColumn("A", 4, lipgloss.Left).
		AddColumn("B", 4, lipgloss.Left).
		SetShowBorder(false)
	table.SetRows([][]string{{"x", "y"}})
	table.SetCellStyle(0, 1, lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")))
	table.SetCellStyle(5, 0, lipgloss.NewStyle())

	lines := strings.Split(table.View(), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[2], "y")
}

func TestTableZebraStripesOddRows(t *testing.T) {
	table := NewTable().AddColumn("A", 4, lipgloss.Left).SetSelectable(false)
	table.SetRows([][]string{{"a"}, {"b"}, {"c"}})

	stripe := style.DefaultPalette().BackgroundAlt
	assert.NotEqual(t, stripe, table.rowStyleAt(1).GetBackground())

	table.SetZebra(true)
	assert.NotEqual(t, stripe, table.rowStyleAt(0).GetBackground())
	assert.Equal(t, stripe, table.rowStyleAt(1).GetBackground())
	assert.NotEqual(t, stripe, table.rowStyleAt(2).GetBackground())
}

func TestTableSelection(t *testing.T) {
	table := NewTable().AddColumn("A", 4, lipgloss.Left)
	table.SetRows([][]string{{"a"}, {"b"}, {"c"}})

	table.MoveDown().MoveDown().MoveDown()
	assert.Equal(t, 2, table.GetSelectedRow())

	table.MoveUp()
	assert.Equal(t, 1, table.GetSelectedRow())

	// shrinking the rows keeps the cursor in range
	table.SetRows([][]string{{"a"}})
	assert.Equal(t, 0, table.GetSelectedRow())

	table.Clear()
	assert.Equal(t, 0, table.GetSelectedRow())
}
