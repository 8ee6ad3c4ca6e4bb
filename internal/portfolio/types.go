// internal/portfolio/types.go
package portfolio

import (
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// HistoryLimit – число последних транзакций, которые показываются для адреса.
const HistoryLimit = 5

// User-facing messages.
const (
	MsgBalancesFailed = "Error fetching token balances. Please try again later."
	MsgHistoryFailed  = "Error fetching transactions. Please try again later."
	MsgInvalidAddress = "Invalid wallet address."
)

// TokenBalance – строка таблицы балансов.
type TokenBalance struct {
	Name   string
	Mint   string
	Amount string // ровно 4 знака после точки
	Value  decimal.Decimal
	Native bool
}

// TransactionRecord – транзакция в том виде, в каком её вернул узел.
type TransactionRecord struct {
	Signature    string
	Slot         uint64
	BlockTime    *time.Time
	BlockHash    string
	AccountKeys  []solana.PublicKey
	PreBalances  []uint64
	PostBalances []uint64
	Failed       bool
}

// SignClass определяет цвет изменения баланса.
type SignClass int

const (
	SignNone SignClass = iota
	SignPositive
	SignNegative
	SignZero
)

// String returns the string representation of the sign class
func (c SignClass) String() string {
	switch c {
	case SignPositive:
		return "positive"
	case SignNegative:
		return "negative"
	case SignZero:
		return "zero"
	default:
		return "none"
	}
}

// DeltaView – отображаемое изменение баланса адреса в транзакции.
type DeltaView struct {
	Text  string
	Class SignClass
}
