// Package sequence mints the human-readable numbers carried by orders and
// incidences (PED-000001, INCID-000001). The legacy scheme derived the next
// number from the last-created document, which could mint duplicates under
// concurrent creates; numbers are now drawn from an atomic counter row so
// two concurrent creates can never observe the same value.
package sequence

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// Counters hands out monotonically increasing values per counter name.
// Concurrent callers never receive the same value for the same name.
type Counters interface {
	Next(ctx context.Context, name string) (int64, error)
}

// SQLCounters backs Counters with a counters table, using MySQL's
// LAST_INSERT_ID(expr) idiom so increment-and-read is a single statement.
type SQLCounters struct {
	DB *sql.DB
}

func (c SQLCounters) Next(ctx context.Context, name string) (int64, error) {
	res, err := c.DB.ExecContext(ctx, `
        INSERT INTO counters (name, value) VALUES (?, LAST_INSERT_ID(1))
        ON DUPLICATE KEY UPDATE value = LAST_INSERT_ID(value + 1)
    `, name)
	if err != nil {
		return 0, fmt.Errorf("counter %s: %w", name, err)
	}
	v, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("counter %s: %w", name, err)
	}
	return v, nil
}

// Generator formats counter values into document numbers.
type Generator struct {
	Counters Counters
}

// Next returns the next number for prefix, e.g. "PED-000042".
func (g Generator) Next(ctx context.Context, prefix string) (string, error) {
	n, err := g.Counters.Next(ctx, prefix)
	if err != nil {
		return "", err
	}
	return Format(prefix, n), nil
}

// Format renders a counter value as <PREFIX>-<6-digit zero-padded value>.
func Format(prefix string, n int64) string {
	return fmt.Sprintf("%s-%06d", prefix, n)
}

// Suffix extracts the numeric counter value from an existing document
// number. Used to seed counters from legacy data at bootstrap.
func Suffix(number, prefix string) (int64, error) {
	rest, ok := strings.CutPrefix(number, prefix+"-")
	if !ok {
		return 0, fmt.Errorf("number %q does not carry prefix %s", number, prefix)
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("number %q: %w", number, err)
	}
	return n, nil
}
