package services

import (
	"fmt"
	"strings"
	"time"

	"lotflow/internal/core/domain/model/kernel"
)

const (
	lotNumberMarker   = "40"
	lotSequenceDigits = 4
)

// LotNumberAllocator derives human readable lot numbers of the form
//
//	"40" + YY + WW + stationCode + "40" + sequence
//
// where YY and WW are the ISO year and week of the production date, stationCode is
// kernel.Station.Code and sequence is a 1-based counter per prefix, zero padded to four
// digits. Sequences above 9999 are rendered without padding and never wrap.
//
// The allocator is pure. Uniqueness depends on where the sequence comes from: a
// snapshot count (NextFromSnapshot) is only unique when no other writer allocates
// against the same prefix concurrently, which is why production code draws sequences
// from ports.LotSequenceRepository.
//
// Example:
//
//	alloc := services.NewLotNumberAllocator()
//	prefix := alloc.Prefix("BH12", time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC))
//	// prefix == "40241601240"
//	lot := alloc.Format(prefix, 1)
//	// lot == "402416012400001"
type LotNumberAllocator struct{}

func NewLotNumberAllocator() LotNumberAllocator {
	return LotNumberAllocator{}
}

// Prefix returns the lot number prefix for station on date.
func (LotNumberAllocator) Prefix(station kernel.Station, date time.Time) string {
	year, week := date.ISOWeek()
	return fmt.Sprintf("%s%02d%02d%s%s", lotNumberMarker, year%100, week, station.Code(), lotNumberMarker)
}

// Format appends the sequence to prefix.
func (LotNumberAllocator) Format(prefix string, sequence int) string {
	return fmt.Sprintf("%s%0*d", prefix, lotSequenceDigits, sequence)
}

// NextFromSnapshot allocates the next lot number by counting the identifiers in
// existing that share the prefix of station and date.
func (a LotNumberAllocator) NextFromSnapshot(station kernel.Station, date time.Time, existing []string) string {
	prefix := a.Prefix(station, date)

	count := 0
	for _, lot := range existing {
		if strings.HasPrefix(lot, prefix) {
			count++
		}
	}
	return a.Format(prefix, count+1)
}
