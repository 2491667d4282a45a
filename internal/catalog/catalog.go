package catalog

import (
	"fmt"
	"sort"
)

// Catalog is a read-only projection of the status table keyed by status code.
// It is built once per request/session scope; a fresh load is required to
// observe configuration changes.
type Catalog struct {
	byCode map[int]StatusEntry
	codes  []int
}

// New builds a Catalog from entries, enforcing the load-time invariants:
// at most one entry per non-zero code, and at least one display name per
// entry.
func New(entries []StatusEntry) (*Catalog, error) {
	byCode := make(map[int]StatusEntry, len(entries))
	codes := make([]int, 0, len(entries))

	for _, e := range entries {
		if e.AdminName == "" && e.ClientName == "" {
			return nil, fmt.Errorf("status %d has no display name for either role", e.StatusCode)
		}
		if _, dup := byCode[e.StatusCode]; dup && e.StatusCode != ReservedStatusCode {
			return nil, fmt.Errorf("duplicate status code %d", e.StatusCode)
		}
		if _, seen := byCode[e.StatusCode]; !seen {
			codes = append(codes, e.StatusCode)
		}
		byCode[e.StatusCode] = e
	}

	sort.Ints(codes)

	return &Catalog{byCode: byCode, codes: codes}, nil
}

// Lookup returns the entry for code. The second return is false for unknown
// codes; callers treat that as terminal for the event, not retryable.
func (c *Catalog) Lookup(code int) (StatusEntry, bool) {
	e, ok := c.byCode[code]
	return e, ok
}

// ByRole returns the entries visible to role, ordered by status code. The
// reserved code 0 and entries with no tab for the role are excluded, matching
// the role-specific tab groupings of the UI.
func (c *Catalog) ByRole(role Role) []StatusEntry {
	out := make([]StatusEntry, 0, len(c.codes))
	for _, code := range c.codes {
		if code == ReservedStatusCode {
			continue
		}
		e := c.byCode[code]
		if e.Tab(role) == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Len reports the number of entries, reserved code included.
func (c *Catalog) Len() int {
	return len(c.byCode)
}
