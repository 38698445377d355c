package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDateRegex   = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	slashDateRegex = regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})$`)
	relativeRegex  = regexp.MustCompile(`^(\d+)\s*(d|day|days|w|week|weeks)$`)
)

// ParseDueDate parses a project due date relative to now.
// Supported formats:
// - yyyy-mm-dd or yyyy/mm/dd (e.g., "2025-07-01")
// - X days (e.g., "3 days", "3d")
// - X weeks (e.g., "2 weeks", "2w")
// Due dates fall at the end of the day in now's location.
func ParseDueDate(input string, now time.Time) (*time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return nil, nil
	}

	if due, err := parseDate(input, now.Location()); err == nil {
		return due, nil
	} else if !errNotADate(err) {
		return nil, err
	}

	if due, err := parseRelative(input, now); err == nil {
		return due, nil
	} else if !errNotADate(err) {
		return nil, err
	}

	return nil, fmt.Errorf("invalid due date %q. Use: yyyy-mm-dd, X days, or X weeks", input)
}

type notADate struct{}

func (notADate) Error() string { return "not a date" }

func errNotADate(err error) bool {
	_, ok := err.(notADate)
	return ok
}

func parseDate(input string, loc *time.Location) (*time.Time, error) {
	matches := isoDateRegex.FindStringSubmatch(input)
	if matches == nil {
		matches = slashDateRegex.FindStringSubmatch(input)
	}
	if matches == nil {
		return nil, notADate{}
	}

	year, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	day, _ := strconv.Atoi(matches[3])
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be between 1 and 12")
	}

	due := endOfDay(time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc))
	// time.Date normalizes overflow, e.g. Feb 30 becomes Mar 2
	if due.Day() != day || due.Month() != time.Month(month) {
		return nil, fmt.Errorf("%s is not a calendar date", input)
	}
	return &due, nil
}

func parseRelative(input string, now time.Time) (*time.Time, error) {
	matches := relativeRegex.FindStringSubmatch(input)
	if matches == nil {
		return nil, notADate{}
	}
	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", matches[1])
	}

	days := amount
	if strings.HasPrefix(matches[2], "w") {
		days = amount * 7
	}
	if days < 1 || days > 365 {
		return nil, fmt.Errorf("due date must be between 1 day and 1 year away")
	}
	due := endOfDay(now.AddDate(0, 0, days))
	return &due, nil
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// FormatDueDate formats a due date for display relative to now
func FormatDueDate(due *time.Time, now time.Time) string {
	if due == nil {
		return ""
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, now.Location())
	daysDiff := int(dueDay.Sub(today).Hours() / 24)
	dateStr := due.Format(time.DateOnly)

	switch {
	case daysDiff < 0:
		return fmt.Sprintf("overdue (%s)", dateStr)
	case daysDiff == 0:
		return fmt.Sprintf("due today (%s)", dateStr)
	case daysDiff == 1:
		return fmt.Sprintf("due tomorrow (%s)", dateStr)
	case daysDiff <= 7:
		return fmt.Sprintf("due %s (in %d days)", dateStr, daysDiff)
	default:
		return fmt.Sprintf("due %s", dateStr)
	}
}
