package calibration

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// sixteenthLabels are the enumerated fraction choices offered by the
// calibration dialog, in sixteenths of an inch.
var sixteenthLabels = []string{
	"0", "1/16", "1/8", "3/16", "1/4", "5/16", "3/8", "7/16",
	"1/2", "9/16", "5/8", "11/16", "3/4", "13/16", "7/8", "15/16",
}

// SixteenthOptions returns the fraction labels for the input dialog.
// Index i corresponds to i/16 inch.
func SixteenthOptions() []string {
	out := make([]string, len(sixteenthLabels))
	copy(out, sixteenthLabels)
	return out
}

// ToArchitecturalString formats a length in inches as feet-inches-fraction,
// e.g. 18.0 -> `1' - 6"`, 7.5 -> `7 1/2"`. The fractional part rounds to
// the nearest sixteenth, carrying into whole inches (and from there into
// feet) when it rounds up to 16/16. The feet segment is omitted when zero,
// the fraction when zero, and `0"` appears only for a zero total.
func ToArchitecturalString(totalInches float64) string {
	sixteenths := int(math.Round(totalInches * 16))
	if sixteenths <= 0 {
		return `0"`
	}

	feet := sixteenths / (12 * 16)
	sixteenths -= feet * 12 * 16
	whole := sixteenths / 16
	frac := sixteenths % 16

	var sb strings.Builder
	if feet > 0 {
		fmt.Fprintf(&sb, "%d'", feet)
	}

	var inchPart string
	switch {
	case whole > 0 && frac > 0:
		inchPart = fmt.Sprintf(`%d %s"`, whole, fractionLabel(frac))
	case whole > 0:
		inchPart = fmt.Sprintf(`%d"`, whole)
	case frac > 0:
		inchPart = fractionLabel(frac) + `"`
	}

	if feet > 0 && inchPart != "" {
		sb.WriteString(" - ")
	}
	sb.WriteString(inchPart)
	return sb.String()
}

// fractionLabel reduces n/16 to canonical form: even sixteenths become
// eighths, quarters, or halves; odd sixteenths stay as n/16.
func fractionLabel(n int) string {
	den := 16
	for n%2 == 0 && den > 1 {
		n /= 2
		den /= 2
	}
	return fmt.Sprintf("%d/%d", n, den)
}

// ParseFeetInches combines the dialog's feet, whole-inch, and sixteenth
// inputs into total inches. Empty feet/inch fields count as zero;
// sixteenthIdx indexes SixteenthOptions. The total must be positive.
func ParseFeetInches(feetStr, inchStr string, sixteenthIdx int) (float64, error) {
	feet, err := parseField(feetStr)
	if err != nil {
		return 0, fmt.Errorf("feet: %w", err)
	}
	inches, err := parseField(inchStr)
	if err != nil {
		return 0, fmt.Errorf("inches: %w", err)
	}
	if sixteenthIdx < 0 || sixteenthIdx >= len(sixteenthLabels) {
		return 0, fmt.Errorf("fraction index %d out of range", sixteenthIdx)
	}
	total := feet*12 + inches + float64(sixteenthIdx)/16
	if total <= 0 {
		return 0, ErrInvalidLength
	}
	return total, nil
}

// ParseDecimalInches parses a decimal total-inches entry. The value must
// be a positive finite number.
func ParseDecimalInches(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) || v <= 0 {
		return 0, ErrInvalidLength
	}
	return v, nil
}

func parseField(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative value: %q", s)
	}
	return v, nil
}
