package repositories

import (
	"strings"
)

// Filters collects list-endpoint filter conditions. String filters match as
// case-insensitive substrings, identifier filters as exact equality.
type Filters struct {
	conds []string
	args  []any
}

// Like adds a case-insensitive substring match. Empty values are ignored.
func (f *Filters) Like(col, val string) {
	val = strings.TrimSpace(val)
	if val == "" {
		return
	}
	f.conds = append(f.conds, "LOWER("+col+") LIKE ?")
	f.args = append(f.args, "%"+strings.ToLower(escapeLike(val))+"%")
}

// Eq adds an exact-equality match. Empty string values are ignored.
func (f *Filters) Eq(col string, val any) {
	if s, ok := val.(string); ok && strings.TrimSpace(s) == "" {
		return
	}
	f.conds = append(f.conds, col+" = ?")
	f.args = append(f.args, val)
}

// Where renders the accumulated conditions, with a leading space, or ""
// when no filters were provided.
func (f *Filters) Where() (string, []any) {
	if len(f.conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(f.conds, " AND "), f.args
}

func (f *Filters) Empty() bool { return len(f.conds) == 0 }

// escapeLike neutralizes LIKE metacharacters in user-supplied filter text.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
