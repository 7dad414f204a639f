package validate

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"standards-backend/internal/domain"
)

// Rule is one declarative shape check applied to a field value.
type Rule func(string) bool

var (
	namePattern     = regexp.MustCompile(`^[A-Za-zÀ-ÖØ-öø-ÿ]+(?:[ '.-][A-Za-zÀ-ÖØ-öø-ÿ]+)*$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+(?:[._-][a-zA-Z0-9]+)*$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9][0-9 ]{5,19}$`)
	dniPattern      = regexp.MustCompile(`^[0-9]{8}[A-Za-z]$`)
	postalPattern   = regexp.MustCompile(`^[0-9]{5}$`)
	datePattern     = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)
)

// PersonName accepts extended-Latin letters with internal separators
// (spaces, apostrophes, hyphens), up to 60 runes.
func PersonName(s string) bool {
	return utf8.RuneCountInString(s) <= 60 && namePattern.MatchString(s)
}

// Email accepts a standard local@domain shape.
func Email(s string) bool {
	return len(s) <= 254 && emailPattern.MatchString(s)
}

// Username accepts 5-20 chars of letters/digits with single internal
// separators; doubled, leading or trailing separators are rejected.
func Username(s string) bool {
	n := len(s)
	return n >= 5 && n <= 20 && usernamePattern.MatchString(s)
}

func Phone(s string) bool { return phonePattern.MatchString(s) }

func DNI(s string) bool { return dniPattern.MatchString(s) }

func PostalCode(s string) bool { return postalPattern.MatchString(s) }

// DateISO accepts a YYYY-MM-DD date string.
func DateISO(s string) bool { return datePattern.MatchString(s) }

// ShortText accepts any non-control text up to max runes.
func ShortText(max int) Rule {
	return func(s string) bool {
		if utf8.RuneCountInString(s) > max {
			return false
		}
		return !strings.ContainsFunc(s, func(r rune) bool { return r < 0x20 && r != '\n' && r != '\t' })
	}
}

// Errors accumulates validation error entries so independent field problems
// are reported together in a single response.
type Errors struct {
	list []domain.ErrorEntry
}

func NewErrors() *Errors { return &Errors{} }

func (e *Errors) Add(entries ...domain.ErrorEntry) { e.list = append(e.list, entries...) }

func (e *Errors) Addf(format string, args ...any) {
	e.list = append(e.list, domain.BadRequest(fmt.Sprintf(format, args...)))
}

// Require validates a mandatory create-time field: absence is one error
// entry, shape failure another.
func (e *Errors) Require(field, value string, rules ...Rule) {
	if strings.TrimSpace(value) == "" {
		e.Add(domain.Required(field))
		return
	}
	e.apply(field, value, rules)
}

// RequireOpt validates a required field under partial-update semantics:
// absent (nil) fields are skipped, an explicit empty string is an error.
func (e *Errors) RequireOpt(field string, value *string, rules ...Rule) {
	if value == nil {
		return
	}
	e.Require(field, *value, rules...)
}

// Optional validates a field that may be absent or empty.
func (e *Errors) Optional(field string, value *string, rules ...Rule) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return
	}
	e.apply(field, *value, rules)
}

func (e *Errors) apply(field, value string, rules []Rule) {
	for _, rule := range rules {
		if !rule(value) {
			e.Add(domain.Invalid(field, value))
			return
		}
	}
}

// Password enforces the minimum password length without echoing the value.
func (e *Errors) Password(field string, value *string, required bool) {
	if value == nil {
		if required {
			e.Add(domain.Required(field))
		}
		return
	}
	if *value == "" && required {
		e.Add(domain.Required(field))
		return
	}
	if *value != "" && len(*value) < 8 {
		e.Addf("%s must be at least 8 characters long", field)
	}
}

// RequireInt validates a mandatory integer field with a lower bound.
func (e *Errors) RequireInt(field string, value *int, min int) {
	if value == nil {
		e.Add(domain.Required(field))
		return
	}
	e.IntMin(field, value, min)
}

// IntMin validates a present integer field against a lower bound.
func (e *Errors) IntMin(field string, value *int, min int) {
	if value == nil {
		return
	}
	if *value < min {
		e.Addf("%s must be an integer greater than or equal to %d", field, min)
	}
}

// IntRange validates a present integer field against an inclusive range.
func (e *Errors) IntRange(field string, value *int, lo, hi int) {
	if value == nil {
		return
	}
	if *value < lo || *value > hi {
		e.Addf("%s must be between %d and %d", field, lo, hi)
	}
}

// FloatMin validates a present numeric field: it must be finite and at
// least min.
func (e *Errors) FloatMin(field string, value *float64, min float64) {
	if value == nil {
		return
	}
	if math.IsNaN(*value) || math.IsInf(*value, 0) {
		e.Addf("%s must be a finite number", field)
		return
	}
	if *value < min {
		e.Addf("%s must be a number greater than or equal to %g", field, min)
	}
}

// OneOf validates a present field against its allowed value set.
func (e *Errors) OneOf(field string, value *string, allowed []string) {
	if value == nil || *value == "" {
		return
	}
	if !domain.ValidState(*value, allowed) {
		e.Addf("%s must be one of: %s", field, strings.Join(allowed, ", "))
	}
}

func (e *Errors) OK() bool { return len(e.list) == 0 }

func (e *Errors) Entries() []domain.ErrorEntry { return e.list }
