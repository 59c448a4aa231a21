// Package validate checks run inputs before any ingestion starts.
package validate

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"
)

const minYear = 2000

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrInvalidYear    = errors.New("invalid year")
	ErrUnreachable    = errors.New("service unreachable")
)

// Pinger is a remote service that can be probed for reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Address checks for a 0x-prefixed 20-byte hex address.
func Address(address string) error {
	if !addressPattern.MatchString(address) {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return nil
}

// Year checks that year lies between 2000 and the current year of now.
func Year(year int, now time.Time) error {
	if year < minYear || year > now.UTC().Year() {
		return fmt.Errorf("%w: %d not in %d..%d", ErrInvalidYear, year, minYear, now.UTC().Year())
	}
	return nil
}

// Reachable probes every named service and reports the first that fails.
func Reachable(ctx context.Context, services map[string]Pinger) error {
	for _, name := range sortedNames(services) {
		if err := services[name].Ping(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %s: %w", ErrUnreachable, name, err)
		}
	}
	return nil
}

func sortedNames(services map[string]Pinger) []string {
	names := make([]string, 0, len(services))
	for name := range services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
