package core

import (
	"strings"

	"github.com/jmylchreest/toastui/internal/model"
)

// LookupByID finds a toast by id.
// Returns nil if not found.
func LookupByID(toasts []model.Notification, id model.ID) *model.Notification {
	for i := range toasts {
		if toasts[i].ID == id {
			return &toasts[i]
		}
	}
	return nil
}

// LookupByIndex finds a toast by its 1-based position.
// Returns nil if index is out of bounds.
func LookupByIndex(toasts []model.Notification, index int) *model.Notification {
	idx := index - 1
	if idx < 0 || idx >= len(toasts) {
		return nil
	}
	return &toasts[idx]
}

// Search finds toasts whose message contains term, ignoring case.
func Search(toasts []model.Notification, term string) []model.Notification {
	if term == "" {
		return toasts
	}

	term = strings.ToLower(term)
	var result []model.Notification
	for _, n := range toasts {
		if strings.Contains(strings.ToLower(n.Message), term) {
			result = append(result, n)
		}
	}
	return result
}

// CountByVariant counts toasts per variant.
func CountByVariant(toasts []model.Notification) map[model.Variant]int {
	counts := make(map[model.Variant]int)
	for _, n := range toasts {
		counts[n.Variant]++
	}
	return counts
}

// VariantsBySeverity returns every variant, most severe first.
func VariantsBySeverity() []model.Variant {
	vs := model.Variants()
	for i := 1; i < len(vs); i++ {
		for j := i; j > 0 && vs[j].Severity() > vs[j-1].Severity(); j-- {
			vs[j], vs[j-1] = vs[j-1], vs[j]
		}
	}
	return vs
}

// MostSevere returns the most severe variant among toasts, or
// VariantDefault when there are none.
func MostSevere(toasts []model.Notification) model.Variant {
	worst := model.VariantDefault
	for _, n := range toasts {
		if n.Variant.Severity() > worst.Severity() {
			worst = n.Variant
		}
	}
	return worst
}
