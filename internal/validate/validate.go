package validate

import (
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const DateLayout = "2006-01-02"

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reColor = regexp.MustCompile(`^#?[A-Za-z0-9]{1,31}$`)
)

// Email trims and lower-cases s and checks its shape.
func Email(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Password enforces a length window; bcrypt ignores bytes past 72.
func Password(s string) bool {
	if !utf8.ValidString(s) || strings.TrimSpace(s) == "" {
		return false
	}
	l := len(s)
	return l >= 6 && l <= 72
}

// Currency is a short display symbol or code; empty means "$".
func Currency(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "$", true
	}
	return s, utf8.RuneCountInString(s) <= 8
}

// Name validates a displayable category name.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > 50 {
		return "", false
	}
	return s, true
}

// Color accepts nil or a short token such as "#ff8800" or "teal".
func Color(s *string) (*string, bool) {
	if s == nil {
		return nil, true
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil, true
	}
	return &v, reColor.MatchString(v)
}

// Date checks for a calendar date in YYYY-MM-DD form.
func Date(s string) (string, bool) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", false
	}
	return t.Format(DateLayout), true
}

// OptionalDate is Date for query parameters that may be absent.
func OptionalDate(s string) (string, bool) {
	if strings.TrimSpace(s) == "" {
		return "", true
	}
	return Date(s)
}

func Amount(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e13
}

func Comment(s *string) (*string, bool) {
	if s == nil {
		return nil, true
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil, true
	}
	return &v, utf8.RuneCountInString(v) <= 255
}
