// Package formatting provides parsing helpers for human-readable sizes and for
// JSON content returned by language-model agents.
package formatting

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// sizeUnits are base-1024 multipliers keyed by upper-cased unit. The
// short forms ("K", "M") and the IEC forms ("KIB", "MIB") are accepted.
var sizeUnits = map[string]float64{
	"":  1,
	"B": 1,
}

func init() {
	for i, prefix := range []string{"K", "M", "G", "T", "P"} {
		mult := math.Pow(1024, float64(i+1))
		sizeUnits[prefix] = mult
		sizeUnits[prefix+"B"] = mult
		sizeUnits[prefix+"IB"] = mult
	}
}

// ParseBytes parses a size such as "50MB", "1.5 GiB" or "4096" into a byte
// count. Units are case-insensitive and a bare number counts bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})
	number, unit := s, ""
	if split >= 0 {
		number, unit = s[:split], strings.TrimSpace(s[split:])
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q", s)
	}

	mult, ok := sizeUnits[strings.ToUpper(unit)]
	if !ok {
		return 0, fmt.Errorf("unknown byte size unit %q", unit)
	}

	n := value * mult
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("byte size %q overflows int64", s)
	}
	return int64(n), nil
}
