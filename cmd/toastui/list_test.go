package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/core"
	"github.com/jmylchreest/toastui/internal/model"
)

func setListOpts(t *testing.T, mutate func()) {
	t.Helper()
	saved := listOpts
	t.Cleanup(func() { listOpts = saved })

	listOpts.variant = ""
	listOpts.since = "0"
	listOpts.filter = ""
	listOpts.search = ""
	listOpts.sort = "id:asc"
	listOpts.active = false
	mutate()
}

func TestParseSort(t *testing.T) {
	got, err := parseSort("variant:desc")
	require.NoError(t, err)
	assert.Equal(t, core.SortOptions{Field: core.SortByVariant, Order: core.SortDesc}, got)

	got, err = parseSort("age")
	require.NoError(t, err)
	assert.Equal(t, core.SortOptions{Field: core.SortByAge, Order: core.SortAsc}, got)

	_, err = parseSort("colour:asc")
	assert.Error(t, err)
	_, err = parseSort("id:up")
	assert.Error(t, err)
}

func TestParseListQuery_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func()
	}{
		{"variant", func() { listOpts.variant = "loud" }},
		{"since", func() { listOpts.since = "later" }},
		{"filter", func() { listOpts.filter = "colour=red" }},
		{"sort", func() { listOpts.sort = "colour" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setListOpts(t, tt.mutate)
			_, err := parseListQuery()
			assert.Error(t, err)
		})
	}
}

func TestListQuery_Apply(t *testing.T) {
	now := time.Now()
	toasts := []model.Notification{
		{ID: 1, Message: "Saved", Variant: model.VariantSuccess, CreatedAt: now},
		{ID: 2, Message: "Disk almost full", Variant: model.VariantWarning, CreatedAt: now},
		{ID: 3, Message: "Disk failed", Variant: model.VariantDanger, CreatedAt: now},
		{ID: 4, Message: "Update ready", Variant: model.VariantInfo, CreatedAt: now, State: model.StateExiting},
	}

	setListOpts(t, func() {
		listOpts.filter = "variant>=success"
		listOpts.search = "disk"
		listOpts.sort = "variant:desc"
	})
	q, err := parseListQuery()
	require.NoError(t, err)

	got := q.apply(append([]model.Notification(nil), toasts...), 0)
	require.Len(t, got, 2)
	assert.Equal(t, model.ID(3), got[0].ID)
	assert.Equal(t, model.ID(2), got[1].ID)

	setListOpts(t, func() { listOpts.active = true })
	q, err = parseListQuery()
	require.NoError(t, err)

	got = q.apply(append([]model.Notification(nil), toasts...), 2)
	require.Len(t, got, 2)
	assert.Equal(t, model.ID(1), got[0].ID)
	assert.Equal(t, model.ID(2), got[1].ID)
}
