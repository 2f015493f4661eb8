package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/mailpasswd/internal/timex"
)

// expiresInDays are the lifetimes offered for new passwords. "noexpiry" and
// the empty string mean no expiry.
var expiresInDays = map[string]int{
	"week":      7,
	"month":     30,
	"sixmonths": 180,
	"year":      365,
}

func parseExpiresIn(value string, now time.Time) (*time.Time, error) {
	switch value {
	case "", "noexpiry":
		return nil, nil
	}
	days, ok := expiresInDays[value]
	if !ok {
		return nil, fmt.Errorf("unknown expires_in %q", value)
	}
	t := timex.Days(now, days)
	return &t, nil
}

// parseExpiresAt accepts RFC 3339 timestamps; an empty value clears the
// expiry.
func parseExpiresAt(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("expires_at must be an RFC 3339 timestamp: %w", err)
	}
	return &t, nil
}
