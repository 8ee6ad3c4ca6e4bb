package screen

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/portfolio"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/component"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/style"
)

const deltaColumn = 3

func newHistoryTable() *component.Table {
	return component.NewTable().
		AddColumn("Signature", 18, lipgloss.Left).
		AddColumn("Slot", 11, lipgloss.Right).
		AddColumn("Time", 16, lipgloss.Left).
		AddColumn("Δ SOL", 14, lipgloss.Right).
		AddColumn("Block hash", 0, lipgloss.Left).
		SetSelectable(false).
		SetZebra(true)
}

// fillHistoryTable renders records with the balance change of address.
func fillHistoryTable(t *component.Table, records []portfolio.TransactionRecord, address solana.PublicKey) {
	rows := make([][]string, 0, len(records))
	views := make([]portfolio.DeltaView, 0, len(records))
	for _, rec := range records {
		delta := rec.DeltaFor(address)
		views = append(views, delta)

		sig := component.ShortAddress(rec.Signature)
		if rec.Failed {
			sig += " ✗"
		}
		rows = append(rows, []string{
			sig,
			strconv.FormatUint(rec.Slot, 10),
			portfolio.FormatBlockTime(rec.BlockTime),
			delta.Text,
			rec.BlockHash,
		})
	}
	t.SetRows(rows)
	for i, delta := range views {
		t.SetCellStyle(i, deltaColumn, style.SignStyle(delta.Class))
	}
}
