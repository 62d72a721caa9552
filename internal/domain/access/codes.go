package access

import (
	"errors"
	"strings"
)

var ErrCodeTooShort = errors.New("access code too short")

const CodeLength = 8

// NormalizeCode: mayúsculas, solo A-Z0-9, máximo 8.
func NormalizeCode(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(raw) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == CodeLength {
				break
			}
		}
	}
	return b.String()
}

// FormatCode agrupa como ABCD-EFGH (parcial: "ABC", "ABCD-E").
func FormatCode(raw string) string {
	c := NormalizeCode(raw)
	if len(c) <= 4 {
		return c
	}
	return c[:4] + "-" + c[4:]
}

// ValidateCode devuelve el código formateado o ErrCodeTooShort.
func ValidateCode(raw string) (string, error) {
	if len(NormalizeCode(raw)) < CodeLength {
		return "", ErrCodeTooShort
	}
	return FormatCode(raw), nil
}
