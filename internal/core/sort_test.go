package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/model"
)

func TestSort_Empty(t *testing.T) {
	var toasts []model.Notification
	Sort(toasts, DefaultSortOptions())
	assert.Len(t, toasts, 0)
}

func TestSort(t *testing.T) {
	tests := []struct {
		name string
		opts SortOptions
		want []model.ID
	}{
		{"default", DefaultSortOptions(), []model.ID{1, 2, 3, 4}},
		{"id desc", SortOptions{Field: SortByID, Order: SortDesc}, []model.ID{4, 3, 2, 1}},
		{"age asc", SortOptions{Field: SortByAge, Order: SortAsc}, []model.ID{4, 3, 2, 1}},
		{"age desc", SortOptions{Field: SortByAge, Order: SortDesc}, []model.ID{1, 2, 3, 4}},
		{"variant desc", SortOptions{Field: SortByVariant, Order: SortDesc}, []model.ID{3, 2, 1, 4}},
		{"variant asc", SortOptions{Field: SortByVariant, Order: SortAsc}, []model.ID{4, 1, 2, 3}},
		{"message asc", SortOptions{Field: SortByMessage, Order: SortAsc}, []model.ID{3, 2, 4, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toasts := testToasts()
			// Shuffle so the result does not depend on the input order.
			toasts[0], toasts[3] = toasts[3], toasts[0]
			Sort(toasts, tt.opts)
			assert.Equal(t, tt.want, ids(toasts))
		})
	}
}

func TestSort_StableOnTies(t *testing.T) {
	toasts := []model.Notification{
		{ID: 1, Variant: model.VariantDanger},
		{ID: 2, Variant: model.VariantInfo},
		{ID: 3, Variant: model.VariantDanger},
	}

	Sort(toasts, SortOptions{Field: SortByVariant, Order: SortDesc})
	assert.Equal(t, []model.ID{1, 3, 2}, ids(toasts))
}

func TestParseSortField(t *testing.T) {
	tests := []struct {
		input    string
		expected SortField
	}{
		{"", SortByID},
		{"id", SortByID},
		{"age", SortByAge},
		{"time", SortByAge},
		{"severity", SortByVariant},
		{"V", SortByVariant},
		{"msg", SortByMessage},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSortField(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := ParseSortField("colour")
	assert.Error(t, err)
}

func TestParseSortOrder(t *testing.T) {
	got, err := ParseSortOrder("descending")
	require.NoError(t, err)
	assert.Equal(t, SortDesc, got)

	got, err = ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortAsc, got)

	_, err = ParseSortOrder("sideways")
	assert.Error(t, err)
}
