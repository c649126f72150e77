package nationalid

import (
	"fmt"
	"strings"
)

// Validate checks a Chilean RUT (with or without dots/hyphen) against
// its modulo-11 check digit. On success it returns the canonical
// "body-DV" form; on failure it returns the reason.
func Validate(raw string) (bool, string) {
	if strings.TrimSpace(raw) == "" {
		return false, "empty id"
	}

	clean := Strip(raw)
	if len(clean) < 2 {
		return false, "id too short"
	}

	body := clean[:len(clean)-1]
	dv := clean[len(clean)-1:]

	for _, c := range body {
		if c < '0' || c > '9' {
			return false, "non-numeric body"
		}
	}

	expected := checkDigit(body)
	if dv != expected {
		return false, fmt.Sprintf("bad check digit (expected %s, got %s)", expected, dv)
	}

	return true, body + "-" + dv
}

// Strip removes separators and uppercases the id without validating it.
// Used as the best-effort fallback so malformed ids still reach the
// ledger as auditable anomalies.
func Strip(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

// Hyphenate renders a bare id in the canonical "body-DV" form. Ids of
// one character or less are returned unchanged.
func Hyphenate(bare string) string {
	if len(bare) < 2 {
		return bare
	}
	return bare[:len(bare)-1] + "-" + bare[len(bare)-1:]
}

// checkDigit computes the modulo-11 verifier over the numeric body,
// multiplying digits right-to-left by the 2..7 cycle.
func checkDigit(body string) string {
	sum := 0
	mult := 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * mult
		mult++
		if mult > 7 {
			mult = 2
		}
	}

	switch r := 11 - sum%11; r {
	case 11:
		return "0"
	case 10:
		return "K"
	default:
		return fmt.Sprintf("%d", r)
	}
}
