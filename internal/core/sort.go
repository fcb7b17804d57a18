package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jmylchreest/toastui/internal/model"
)

// SortField represents a field to sort by.
type SortField string

const (
	SortByID      SortField = "id"
	SortByAge     SortField = "age"
	SortByVariant SortField = "variant"
	SortByMessage SortField = "message"
)

// SortOrder represents ascending or descending order.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortOptions specifies sorting criteria.
type SortOptions struct {
	Field SortField
	Order SortOrder
}

// DefaultSortOptions returns stack order (oldest first).
func DefaultSortOptions() SortOptions {
	return SortOptions{
		Field: SortByID,
		Order: SortAsc,
	}
}

// Sort sorts toasts in place. Ties keep stack order.
func Sort(toasts []model.Notification, opts SortOptions) {
	if len(toasts) == 0 {
		return
	}

	sort.SliceStable(toasts, func(i, j int) bool {
		a, b := toasts[i], toasts[j]
		var less, equal bool

		switch opts.Field {
		case SortByAge:
			// Older toasts have the larger age.
			less, equal = a.CreatedAt.After(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
		case SortByVariant:
			less, equal = a.Variant.Severity() < b.Variant.Severity(), a.Variant == b.Variant
		case SortByMessage:
			am, bm := strings.ToLower(a.Message), strings.ToLower(b.Message)
			less, equal = am < bm, am == bm
		default:
			less, equal = a.ID < b.ID, a.ID == b.ID
		}

		if opts.Order == SortDesc && !equal {
			return !less
		}
		return less
	})
}

// ParseSortField parses a sort field string.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "id", "i", "":
		return SortByID, nil
	case "age", "time", "a":
		return SortByAge, nil
	case "variant", "severity", "v":
		return SortByVariant, nil
	case "message", "msg", "m":
		return SortByMessage, nil
	default:
		return "", fmt.Errorf("invalid sort field: %s (use id, age, variant or message)", s)
	}
}

// ParseSortOrder parses a sort order string.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending", "a", "":
		return SortAsc, nil
	case "desc", "descending", "d":
		return SortDesc, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (use asc or desc)", s)
	}
}
