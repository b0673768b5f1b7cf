package cli

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// FormatMoney renders an amount as dollars with thousands separators, e.g. -$1,234.50.
// The sign follows the value rounded to cents, so -0.004 renders as $0.00.
func FormatMoney(amount float64) string {
	rounded := math.Round(amount*100) / 100
	sign := ""
	if rounded < 0 {
		sign = "-"
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", math.Abs(rounded))
}

// FormatSignedMoney colors an amount by direction.
func FormatSignedMoney(amount float64) string {
	if amount < 0 {
		return NegativeStyle.Render(FormatMoney(amount))
	}
	return PositiveStyle.Render(FormatMoney(amount))
}

// FormatPercent renders a percentage with no decimals.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.0f%%", pct)
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}
