// Package datefilter turns --since/--until arguments into a closed range of
// local calendar dates and selects ledger entries by first-seen date.
package datefilter

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/xbm/internal/client/models"
	"github.com/dmitrijs2005/xbm/internal/common"
)

var daysAgo = regexp.MustCompile(`^(\d{1,5})-days?-ago$`)

// Range is an inclusive date interval. A zero Since means no lower bound.
type Range struct {
	Since models.Date
	Until models.Date
}

// Contains reports whether d lies within r, bounds included.
func (r Range) Contains(d models.Date) bool {
	return !d.Before(r.Since) && !d.After(r.Until)
}

// ParseDate accepts today, yesterday, N-days-ago or YYYY-MM-DD, relative to
// today.
func ParseDate(value string, today models.Date) (models.Date, error) {
	v := strings.ToLower(strings.TrimSpace(value))

	switch v {
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDays(-1), nil
	}

	if m := daysAgo.FindStringSubmatch(v); m != nil {
		n, _ := strconv.Atoi(m[1])
		return today.AddDays(-n), nil
	}

	d, err := models.ParseDate(v)
	if err != nil {
		return models.Date{}, fmt.Errorf("%w: %q, use today, yesterday, N-days-ago or YYYY-MM-DD", common.ErrInvalidDate, value)
	}
	return d, nil
}

// Resolve builds the range for the given arguments. An empty since leaves the
// range open below; an empty until means today.
func Resolve(since, until string, today models.Date) (Range, error) {
	r := Range{Until: today}

	if strings.TrimSpace(since) != "" {
		d, err := ParseDate(since, today)
		if err != nil {
			return Range{}, err
		}
		r.Since = d
	}

	if strings.TrimSpace(until) != "" {
		d, err := ParseDate(until, today)
		if err != nil {
			return Range{}, err
		}
		r.Until = d
	}

	if r.Since.After(r.Until) {
		return Range{}, fmt.Errorf("%w: --since (%s) is after --until (%s)", common.ErrInvalidDateRange, r.Since, r.Until)
	}
	return r, nil
}

// Filter returns the entries first seen within r, newest first and by id
// descending within a day.
func Filter(l *models.Ledger, r Range) []models.BookmarkEntry {
	out := make([]models.BookmarkEntry, 0)
	for _, e := range l.Entries {
		if r.Contains(e.FirstSeen) {
			out = append(out, e)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if c := out[i].FirstSeen.Compare(out[j].FirstSeen); c != 0 {
			return c > 0
		}
		return idLess(out[j].ID, out[i].ID)
	})
	return out
}

// idLess orders numeric ids by value, then falls back to string order.
func idLess(a, b string) bool {
	if len(a) != len(b) && isDigits(a) && isDigits(b) {
		return len(a) < len(b)
	}
	return a < b
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
