package kernel

import (
	"fmt"
	"strings"
	"unicode"

	"lotflow/internal/pkg/errs"
)

// Station identifies a physical manufacturing location or machine, e.g. "BH12" or "MAZAK".
// Identifiers are normalized to upper case without surrounding whitespace.
type Station string

// Well-known stations of the routing topology.
const (
	StationMazak       Station = "MAZAK"
	StationNabewerking Station = "NABEWERKING"
	StationFinalQC     Station = "BM01"
	StationFinished    Station = "GEREED"
	StationRejected    Station = "AFKEUR"
)

// DefaultStationCode is used in lot numbers for stations without digits.
const DefaultStationCode = "000"

const stationCodeLength = 3

// NewStation normalizes and validates a station identifier.
func NewStation(raw string) (Station, error) {
	s := Station(strings.ToUpper(strings.TrimSpace(raw)))
	if err := s.Validate(); err != nil {
		return "", err
	}
	return s, nil
}

// Validate rejects empty identifiers and identifiers containing whitespace.
func (s Station) Validate() error {
	if s == "" {
		return errs.NewValueIsRequiredError("station")
	}
	if strings.ContainsFunc(string(s), unicode.IsSpace) {
		return errs.NewValueIsInvalidErrorWithCause("station", fmt.Errorf("%q contains whitespace", string(s)))
	}
	return nil
}

func (s Station) String() string {
	return string(s)
}

// Code derives the three digit station code embedded in lot numbers.
// The digits of the identifier are kept (the last three when there are more),
// shorter runs are left-padded with zeros, and an identifier without digits
// falls back to DefaultStationCode. The fallback is silent.
func (s Station) Code() string {
	var digits strings.Builder
	for _, r := range string(s) {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	code := digits.String()
	switch {
	case code == "":
		return DefaultStationCode
	case len(code) > stationCodeLength:
		return code[len(code)-stationCodeLength:]
	default:
		return strings.Repeat("0", stationCodeLength-len(code)) + code
	}
}
