package model

import "strings"

// BlockInfo describes what the explorer knows about a block. Either half may be unknown
// when its sub-request failed.
type BlockInfo struct {
	Number           int64
	Miner            string
	MinerKnown       bool
	Receivers        map[string]struct{}
	WithdrawalsKnown bool
}

// HasReceiver reports whether address received a withdrawal in the block.
func (b BlockInfo) HasReceiver(address string) bool {
	_, ok := b.Receivers[NormalizeAddress(address)]
	return ok
}

// MinedBy reports whether the block's miner is address.
func (b BlockInfo) MinedBy(address string) bool {
	return b.MinerKnown && b.Miner != "" && b.Miner == NormalizeAddress(address)
}

// NormalizeAddress lower-cases a hex address for comparison.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// Classification is the outcome of classifying one positive delta.
type Classification struct {
	IsWithdrawal  bool
	IsMinerReward bool
}

// Qualifies reports whether the delta counts as income.
func (c Classification) Qualifies() bool {
	return c.IsWithdrawal || c.IsMinerReward
}
