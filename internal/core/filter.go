// Package core provides filtering, sorting, and lookup logic over toast snapshots.
package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jmylchreest/toastui/internal/model"
)

// FilterOp represents a comparison operator.
type FilterOp string

const (
	FilterOpEqual     FilterOp = "="  // Exact match
	FilterOpNotEqual  FilterOp = "!=" // Not equal
	FilterOpContains  FilterOp = "~"  // Contains substring
	FilterOpRegex     FilterOp = "~=" // Regex match
	FilterOpGreater   FilterOp = ">"  // Greater than
	FilterOpLess      FilterOp = "<"  // Less than
	FilterOpGreaterEq FilterOp = ">=" // Greater than or equal
	FilterOpLessEq    FilterOp = "<=" // Less than or equal
)

// FilterCondition represents a single filter condition.
type FilterCondition struct {
	Field    string   // Field name: id, message, variant, state, age
	Operator FilterOp // Comparison operator
	Value    string   // Value to compare against

	regex    *regexp.Regexp
	idVal    model.ID
	severity int
	state    model.State
	age      time.Duration
}

// FilterExpr represents a compound filter expression.
// Multiple conditions are ANDed together.
type FilterExpr struct {
	Conditions []FilterCondition

	now func() time.Time
}

// FilterOptions specifies criteria for filtering toasts.
type FilterOptions struct {
	Since   time.Duration // Keep toasts younger than this (0=all)
	Variant model.Variant // Exact variant ("" = any)
	Active  bool          // Drop toasts that are already exiting
	Limit   int           // Maximum results (0=unlimited)
}

// Filter filters toasts based on the provided options.
func Filter(toasts []model.Notification, opts FilterOptions) []model.Notification {
	return filterAt(toasts, opts, time.Now())
}

func filterAt(toasts []model.Notification, opts FilterOptions, now time.Time) []model.Notification {
	result := make([]model.Notification, 0, len(toasts))

	for _, n := range toasts {
		if opts.Since > 0 && n.CreatedAt.Before(now.Add(-opts.Since)) {
			continue
		}
		if opts.Variant != "" && n.Variant != opts.Variant {
			continue
		}
		if opts.Active && !n.Active() {
			continue
		}
		result = append(result, n)
	}

	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result
}

// ParseDuration parses a duration string with extended formats.
// Supports Go durations plus 7d and 1w; "0" means no limit.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if s == "0" || s == "" {
		return 0, nil
	}

	if daysStr, found := strings.CutSuffix(s, "d"); found {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	if weeksStr, found := strings.CutSuffix(s, "w"); found {
		weeks, err := strconv.Atoi(weeksStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(weeks) * 7 * 24 * time.Hour, nil
	}

	return time.ParseDuration(s)
}

// ParseState parses a lifecycle state name.
func ParseState(s string) (model.State, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return model.StateActive, nil
	case "exiting":
		return model.StateExiting, nil
	default:
		return 0, fmt.Errorf("invalid state: %s (use active or exiting)", s)
	}
}

// ParseFilter parses a filter expression string into a FilterExpr.
// Format: "field=value,field2~value2,field3>value3"
// Multiple conditions are comma-separated and ANDed together.
//
// Supported fields: id, message, variant, state, age
// Supported operators: = (equal), != (not equal), ~ (contains), ~= (regex), >, <, >=, <=
//
// Examples:
//   - "variant=danger" - danger toasts only
//   - "variant>=warning" - warning or danger
//   - "message~disk" - message contains "disk"
//   - "age>10s" - shown more than ten seconds ago
//   - "id>3,state=active" - newer than toast 3 and not exiting
func ParseFilter(expr string) (*FilterExpr, error) {
	filter := &FilterExpr{
		Conditions: make([]FilterCondition, 0),
		now:        time.Now,
	}
	if expr == "" {
		return filter, nil
	}

	for part := range strings.SplitSeq(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		cond, err := parseCondition(part)
		if err != nil {
			return nil, err
		}
		filter.Conditions = append(filter.Conditions, cond)
	}

	return filter, nil
}

// parseCondition parses a single condition like "variant=danger" or "message~disk".
func parseCondition(s string) (FilterCondition, error) {
	// Longest operators first so "!=" is not read as "=".
	operators := []FilterOp{
		FilterOpNotEqual,
		FilterOpGreaterEq,
		FilterOpLessEq,
		FilterOpRegex,
		FilterOpEqual,
		FilterOpContains,
		FilterOpGreater,
		FilterOpLess,
	}

	for _, op := range operators {
		idx := strings.Index(s, string(op))
		if idx > 0 {
			cond := FilterCondition{
				Field:    strings.ToLower(strings.TrimSpace(s[:idx])),
				Operator: op,
				Value:    strings.TrimSpace(s[idx+len(op):]),
			}
			if err := cond.init(); err != nil {
				return FilterCondition{}, err
			}
			return cond, nil
		}
	}

	return FilterCondition{}, fmt.Errorf("invalid filter condition: %s (missing operator)", s)
}

// init pre-parses and validates the condition value.
func (c *FilterCondition) init() error {
	switch c.Field {
	case "id":
		id, err := model.ParseID(c.Value)
		if err != nil {
			return fmt.Errorf("invalid id value: %s", c.Value)
		}
		c.idVal = id
	case "message", "msg", "text":
		c.Field = "message"
	case "variant", "v":
		c.Field = "variant"
		if c.Operator != FilterOpContains && c.Operator != FilterOpRegex {
			v := model.Variant(strings.ToLower(c.Value))
			if !v.Valid() {
				return fmt.Errorf("invalid variant: %s", c.Value)
			}
			c.Value = string(v)
			c.severity = v.Severity()
		}
	case "state":
		st, err := ParseState(c.Value)
		if err != nil {
			return err
		}
		c.state = st
	case "age":
		d, err := ParseDuration(c.Value)
		if err != nil {
			return fmt.Errorf("invalid age value: %w", err)
		}
		c.age = d
	default:
		return fmt.Errorf("unknown filter field: %s", c.Field)
	}

	if c.Operator == FilterOpRegex {
		re, err := regexp.Compile(c.Value)
		if err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
		c.regex = re
	}

	return nil
}

// Match tests if a toast matches the filter expression.
// All conditions must match (AND logic).
func (f *FilterExpr) Match(n model.Notification) bool {
	now := time.Now
	if f.now != nil {
		now = f.now
	}
	for _, cond := range f.Conditions {
		if !cond.match(n, now()) {
			return false
		}
	}
	return true
}

// Match tests if a toast matches this single condition.
func (c *FilterCondition) Match(n model.Notification) bool {
	return c.match(n, time.Now())
}

func (c *FilterCondition) match(n model.Notification, now time.Time) bool {
	switch c.Field {
	case "id":
		return compare(c.Operator, uint64(n.ID), uint64(c.idVal))
	case "message":
		return c.matchString(n.Message)
	case "variant":
		if c.Operator == FilterOpContains || c.Operator == FilterOpRegex {
			return c.matchString(string(n.Variant))
		}
		return compare(c.Operator, n.Variant.Severity(), c.severity)
	case "state":
		return c.matchState(n.State)
	case "age":
		return compare(c.Operator, now.Sub(n.CreatedAt), c.age)
	default:
		return false
	}
}

// matchString matches a string field.
func (c *FilterCondition) matchString(fieldValue string) bool {
	switch c.Operator {
	case FilterOpEqual:
		return fieldValue == c.Value
	case FilterOpNotEqual:
		return fieldValue != c.Value
	case FilterOpContains:
		return strings.Contains(strings.ToLower(fieldValue), strings.ToLower(c.Value))
	case FilterOpRegex:
		return c.regex != nil && c.regex.MatchString(fieldValue)
	default:
		return false
	}
}

// matchState matches the lifecycle state.
func (c *FilterCondition) matchState(st model.State) bool {
	switch c.Operator {
	case FilterOpEqual:
		return st == c.state
	case FilterOpNotEqual:
		return st != c.state
	default:
		return false
	}
}

type ordered interface {
	~int | ~uint64 | ~int64
}

// compare applies an ordering operator. Substring operators never match.
func compare[T ordered](op FilterOp, a, b T) bool {
	switch op {
	case FilterOpEqual:
		return a == b
	case FilterOpNotEqual:
		return a != b
	case FilterOpGreater:
		return a > b
	case FilterOpLess:
		return a < b
	case FilterOpGreaterEq:
		return a >= b
	case FilterOpLessEq:
		return a <= b
	default:
		return false
	}
}

// FilterWithExpr filters toasts using a filter expression.
func FilterWithExpr(toasts []model.Notification, expr *FilterExpr) []model.Notification {
	if expr == nil || len(expr.Conditions) == 0 {
		return toasts
	}

	result := make([]model.Notification, 0, len(toasts))
	for _, n := range toasts {
		if expr.Match(n) {
			result = append(result, n)
		}
	}
	return result
}
