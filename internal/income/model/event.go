package model

import (
	"math/big"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// CoinDecimals is the number of base-unit decimals of the chain's native coin.
const CoinDecimals = 18

// BalanceChangeEvent is one explorer-reported change of the tracked address balance.
type BalanceChangeEvent struct {
	BlockNumber int64
	Timestamp   time.Time
	// Delta is the signed change in base units (wei).
	Delta *big.Int
}

// Date returns the UTC calendar day the event belongs to.
func (e BalanceChangeEvent) Date() Date {
	return DateOf(e.Timestamp)
}

// Positive reports whether the event credited the address.
func (e BalanceChangeEvent) Positive() bool {
	return e.Delta != nil && e.Delta.Sign() > 0
}

// Coins returns the delta scaled to whole coin units.
func (e BalanceChangeEvent) Coins() decimal.Decimal {
	if e.Delta == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(e.Delta, -CoinDecimals)
}

// Cursor is the explorer's continuation token. Params are replayed verbatim on the next
// request; BlockNumber is the embedded marker, non-positive once history is exhausted.
type Cursor struct {
	BlockNumber int64
	Params      url.Values
}

// Exhausted reports whether the cursor marks the end of history.
func (c *Cursor) Exhausted() bool {
	return c == nil || c.BlockNumber <= 0
}

// Page is one page of balance change events, newest first.
type Page struct {
	Events []BalanceChangeEvent
	// Next is nil when there is no further page.
	Next *Cursor
}
