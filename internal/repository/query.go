package repository

import (
	"fmt"
	"strings"
)

// args collects positional parameters and hands out their $n placeholders.
type args struct {
	values []any
}

func (a *args) add(v any) string {
	a.values = append(a.values, v)
	return fmt.Sprintf("$%d", len(a.values))
}

// filter builds a WHERE clause; each expression takes its placeholder through %s.
type filter struct {
	args
	conditions []string
}

func (f *filter) where(expr string, v any) {
	f.conditions = append(f.conditions, fmt.Sprintf(expr, f.add(v)))
}

func (f *filter) raw(expr string) {
	f.conditions = append(f.conditions, expr)
}

func (f *filter) clause() string {
	if len(f.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conditions, " AND ")
}

// updateSet builds the SET list of a partial UPDATE.
type updateSet struct {
	args
	sets []string
}

func (u *updateSet) set(column string, v any) {
	u.sets = append(u.sets, column+" = "+u.add(v))
}

func (u *updateSet) clause() string {
	return strings.Join(u.sets, ", ")
}

func pagination(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
