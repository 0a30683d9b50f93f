package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

func ToPointer[T any](value T) *T {
	return &value
}

// FormatPercentage renders a signed percentage for user-facing summaries.
func FormatPercentage(value float64) string {
	return fmt.Sprintf("%+.2f%%", value)
}

// TruncateShares cuts a share count down to the minimum tradable unit of
// 0.01 share. Sell amounts are never rounded up past what the user asked for.
func TruncateShares(shares float64) float64 {
	return math.Trunc(shares*100) / 100
}

// ParseSellAmount parses either an absolute share count ("300") or a
// percentage of the current holding ("25%"). Percentages are resolved against
// heldShares and truncated to the minimum tradable unit.
func ParseSellAmount(raw string, heldShares float64) (float64, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return 0, fmt.Errorf("sell amount is empty")
	}

	if strings.HasSuffix(text, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(text, "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid percentage %q: %w", raw, err)
		}
		if pct <= 0 || pct > 100 {
			return 0, fmt.Errorf("percentage must be in (0, 100], got %v", pct)
		}
		return TruncateShares(heldShares * pct / 100), nil
	}

	shares, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid share amount %q: %w", raw, err)
	}
	if shares <= 0 {
		return 0, fmt.Errorf("share amount must be positive, got %v", shares)
	}
	return TruncateShares(shares), nil
}
