package rules

import (
	"math"
	"net/netip"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// typedMatchers resolves the pattern of a typed rule to its parser.
// Typed rules exist for values a regex handles poorly: address
// normalization, calendar validity, numeric ranges.
var typedMatchers = map[string]func(string) bool{
	"ipv4":      matchIPv4,
	"ipv6":      matchIPv6,
	"uuid":      matchUUID,
	"date":      matchDate,
	"timestamp": matchTimestamp,
	"integer":   matchInteger,
	"decimal":   matchDecimal,
	"boolean":   matchBoolean,
}

// TypedPatterns returns the names of all supported typed patterns.
func TypedPatterns() []string {
	names := make([]string, 0, len(typedMatchers))
	for name := range typedMatchers {
		names = append(names, name)
	}
	return names
}

func matchIPv4(value string) bool {
	addr, err := netip.ParseAddr(value)
	return err == nil && addr.Is4()
}

func matchIPv6(value string) bool {
	addr, err := netip.ParseAddr(value)
	return err == nil && addr.Is6() && !addr.Is4In6()
}

func matchUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

func matchDate(value string) bool {
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}

func matchTimestamp(value string) bool {
	_, err := time.Parse(time.RFC3339, value)
	return err == nil
}

func matchInteger(value string) bool {
	_, err := strconv.ParseInt(value, 10, 64)
	return err == nil
}

func matchDecimal(value string) bool {
	f, err := strconv.ParseFloat(value, 64)
	return err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
}

func matchBoolean(value string) bool {
	_, err := strconv.ParseBool(value)
	return err == nil
}
