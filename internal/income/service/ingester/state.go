package ingester

import (
	"fmt"
	"strings"
)

// State is the phase of an ingestion run.
type State int

const (
	// Searching skips events newer than the window.
	Searching State = iota
	// Collecting aggregates events inside the window.
	Collecting
	// Done is terminal; no further page is fetched.
	Done
)

func (s State) String() string {
	switch s {
	case Searching:
		return "searching"
	case Collecting:
		return "collecting"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// StopReason explains why an ingestion run ended.
type StopReason string

const (
	StopExhausted       StopReason = "exhausted"
	StopWindowClosed    StopReason = "window_closed"
	StopTerminalFailure StopReason = "terminal_failure"
	StopCanceled        StopReason = "canceled"
)

// MinerPolicy decides when a non-withdrawal credit counts as a block reward.
type MinerPolicy int

const (
	// MinerOptimistic treats any non-withdrawal credit in a block with known metadata as
	// a miner reward, whoever proposed the block.
	MinerOptimistic MinerPolicy = iota
	// MinerStrict requires the block's miner to be the tracked address.
	MinerStrict
)

func (p MinerPolicy) String() string {
	if p == MinerStrict {
		return "strict"
	}
	return "optimistic"
}

// ParseMinerPolicy parses "optimistic" or "strict".
func ParseMinerPolicy(s string) (MinerPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "optimistic":
		return MinerOptimistic, nil
	case "strict":
		return MinerStrict, nil
	default:
		return MinerOptimistic, fmt.Errorf("unknown miner policy %q", s)
	}
}
