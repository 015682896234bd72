package catalog

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var relativeDateRe = regexp.MustCompile(`^(\d+)\s+(minute|hour|day|week|month)s?\s+ago$`)

// ParsePostedDate turns the posting-date text a scraper extracted into a
// calendar date. Sites serve anything from ISO timestamps to phrases like
// "2 days ago", so both shapes are handled. Unparseable text yields nil:
// a missing date is preferable to dropping the whole posting.
func ParsePostedDate(text string, now time.Time) *time.Time {
	raw := strings.TrimSpace(text)
	text = strings.ToLower(raw)
	if text == "" {
		return nil
	}

	today := now.Truncate(24 * time.Hour)

	switch text {
	case "today", "just now", "just posted", "recently":
		return &today
	case "yesterday":
		d := today.AddDate(0, 0, -1)
		return &d
	}

	if m := relativeDateRe.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		var d time.Time
		switch m[2] {
		case "minute", "hour":
			d = today
		case "day":
			d = today.AddDate(0, 0, -n)
		case "week":
			d = today.AddDate(0, 0, -7*n)
		case "month":
			d = today.AddDate(0, -n, 0)
		}
		return &d
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			d := t.Truncate(24 * time.Hour)
			return &d
		}
	}

	return nil
}

// ageInDays derives jobAgeDays from a posting date. Future dates clamp to
// zero rather than going negative.
func ageInDays(posted *time.Time, now time.Time) *int {
	if posted == nil {
		return nil
	}
	days := int(now.Sub(*posted).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return &days
}
