package notify

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidPhone = errors.New("invalid US phone number")

// NormalizePhone returns raw in E.164 form. It accepts 10-digit numbers,
// 11-digit numbers starting with 1 and numbers already prefixed with +1.
func NormalizePhone(raw string) (string, error) {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(cleaned, "+1") && len(cleaned) == 12 && digits(cleaned[2:]):
		return cleaned, nil
	case len(cleaned) == 11 && cleaned[0] == '1' && digits(cleaned):
		return "+" + cleaned, nil
	case len(cleaned) == 10 && digits(cleaned):
		return "+1" + cleaned, nil
	default:
		return "", fmt.Errorf("%q: %w", raw, ErrInvalidPhone)
	}
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
