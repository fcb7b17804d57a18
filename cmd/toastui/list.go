package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/adapter/output"
	"github.com/jmylchreest/toastui/internal/core"
	"github.com/jmylchreest/toastui/internal/dbus"
	"github.com/jmylchreest/toastui/internal/model"
)

var listOpts struct {
	format   string
	template string
	maxLen   int
	variant  string
	since    string
	filter   string
	search   string
	sort     string
	limit    int
	active   bool
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the toasts on the running host",
	Long: `List the toasts currently on the running host, oldest first.

Filter expressions combine conditions with commas (all must match).
Fields: id, message, variant, state, age.
Operators: = != ~ (contains) ~= (regex) > < >= <=

Examples:
  # Human-readable list
  toastui list

  # Machine-readable
  toastui list --format json
  toastui list --format yaml

  # Warnings and worse from the last minute, most severe first
  toastui list --filter "variant>=warning" --since 1m --sort variant:desc

  # Pick one with a launcher and dismiss it
  toastui list --format dmenu | fuzzel -d | cut -d' ' -f1 | xargs toastui dismiss`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listOpts.format, "format", "f", string(output.FormatPlain),
		"Output format (plain, json, yaml, dmenu, ids)")
	listCmd.Flags().StringVar(&listOpts.template, "template", "",
		"Custom Go template for plain output")
	listCmd.Flags().IntVar(&listOpts.maxLen, "max-len", 80,
		"Truncate messages to this many characters (0 = unlimited)")
	listCmd.Flags().StringVar(&listOpts.variant, "variant", "",
		"Only list toasts of this variant")
	listCmd.Flags().StringVar(&listOpts.since, "since", "0",
		"Only list toasts shown within this duration (e.g. 30s, 5m)")
	listCmd.Flags().StringVar(&listOpts.filter, "filter", "",
		"Filter expression (e.g. \"variant>=warning,message~disk\")")
	listCmd.Flags().StringVarP(&listOpts.search, "search", "s", "",
		"Only list toasts whose message contains this text")
	listCmd.Flags().StringVar(&listOpts.sort, "sort", "id:asc",
		"Sort field and order (id, age, variant, message):(asc, desc)")
	listCmd.Flags().IntVarP(&listOpts.limit, "limit", "n", 0,
		"Maximum number of toasts to list (0 = unlimited)")
	listCmd.Flags().BoolVar(&listOpts.active, "active", false,
		"Skip toasts that are already exiting")
}

// listQuery is the parsed form of the list flags.
type listQuery struct {
	filter core.FilterOptions
	expr   *core.FilterExpr
	search string
	sort   core.SortOptions
}

func parseListQuery() (listQuery, error) {
	var q listQuery

	if listOpts.variant != "" {
		v := model.Variant(listOpts.variant)
		if !v.Valid() {
			return q, fmt.Errorf("invalid variant %q, must be one of: %v", listOpts.variant, model.Variants())
		}
		q.filter.Variant = v
	}

	since, err := core.ParseDuration(listOpts.since)
	if err != nil {
		return q, fmt.Errorf("invalid --since: %w", err)
	}
	q.filter.Since = since
	q.filter.Active = listOpts.active

	q.expr, err = core.ParseFilter(listOpts.filter)
	if err != nil {
		return q, fmt.Errorf("invalid --filter: %w", err)
	}
	q.search = listOpts.search

	q.sort, err = parseSort(listOpts.sort)
	if err != nil {
		return q, err
	}
	return q, nil
}

// apply filters, searches, sorts and finally limits toasts.
func (q listQuery) apply(toasts []model.Notification, limit int) []model.Notification {
	toasts = core.Filter(toasts, q.filter)
	toasts = core.FilterWithExpr(toasts, q.expr)
	toasts = core.Search(toasts, q.search)
	core.Sort(toasts, q.sort)
	if limit > 0 && len(toasts) > limit {
		toasts = toasts[:limit]
	}
	return toasts
}

// parseSort parses "field[:order]".
func parseSort(s string) (core.SortOptions, error) {
	field, order, _ := strings.Cut(s, ":")
	f, err := core.ParseSortField(field)
	if err != nil {
		return core.SortOptions{}, err
	}
	o, err := core.ParseSortOrder(order)
	if err != nil {
		return core.SortOptions{}, err
	}
	return core.SortOptions{Field: f, Order: o}, nil
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(listOpts.format)
	if err != nil {
		return err
	}
	q, err := parseListQuery()
	if err != nil {
		return err
	}

	opts := output.DefaultFormatterOptions()
	opts.Template = listOpts.template
	opts.MaxLen = listOpts.maxLen

	return withClient(func(ctx context.Context, c *dbus.Client) error {
		toasts, err := c.List(ctx)
		if err != nil {
			return err
		}
		return output.NewFormatter(format, opts).Format(cmd.OutOrStdout(), q.apply(toasts, listOpts.limit))
	})
}
