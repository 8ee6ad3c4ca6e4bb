// internal/portfolio/format.go
package portfolio

import (
	"math/big"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

const (
	displayPlaces = 4
	notAvailable  = "N/A"
)

// FormatAmount renders an amount with exactly four fractional digits.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(displayPlaces)
}

// LamportsToSOL converts lamports into SOL.
func LamportsToSOL(lamports uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -9)
}

// FromBaseUnits converts a raw integer amount string using the mint decimals.
func FromBaseUnits(amount string, decimals uint8) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Shift(-int32(decimals)), nil
}

// IndexOf returns the position of address in keys or -1.
func IndexOf(keys []solana.PublicKey, address solana.PublicKey) int {
	for i, key := range keys {
		if key.Equals(address) {
			return i
		}
	}
	return -1
}

// Delta returns post - pre lamports for address. ok is false when the address
// is absent or its index has no balance entry.
func (r TransactionRecord) Delta(address solana.PublicKey) (lamports int64, ok bool) {
	idx := IndexOf(r.AccountKeys, address)
	if idx < 0 || idx >= len(r.PreBalances) || idx >= len(r.PostBalances) {
		return 0, false
	}
	pre, post := r.PreBalances[idx], r.PostBalances[idx]
	if post >= pre {
		return int64(post - pre), true
	}
	return -int64(pre - post), true
}

// DeltaFor formats the balance change of address in SOL.
func (r TransactionRecord) DeltaFor(address solana.PublicKey) DeltaView {
	lamports, ok := r.Delta(address)
	if !ok {
		return DeltaView{Text: notAvailable, Class: SignNone}
	}
	return FormatDelta(lamports)
}

// FormatDelta renders a lamport delta as "+x.xxxx" or "-x.xxxx" SOL.
// Zero is shown with a plus sign.
func FormatDelta(lamports int64) DeltaView {
	var b strings.Builder
	class := SignZero
	switch {
	case lamports > 0:
		class = SignPositive
		b.WriteByte('+')
	case lamports < 0:
		class = SignNegative
		b.WriteByte('-')
	default:
		b.WriteByte('+')
	}

	abs := decimal.NewFromInt(lamports).Abs().Shift(-9)
	b.WriteString(FormatAmount(abs))
	return DeltaView{Text: b.String(), Class: class}
}
