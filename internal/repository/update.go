package repository

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoAssignments is returned by BuildUpdate when there is nothing to SET.
var ErrNoAssignments = errors.New("repository: update has no assignments")

// Assignment is one "column = value" pair of an UPDATE.
type Assignment struct {
	Column string
	Value  any
}

// Placeholder renders the bind parameter for the n-th argument (1-based).
type Placeholder func(n int) string

// DollarPlaceholder renders Postgres-style $1, $2, ...
func DollarPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

// QuestionPlaceholder renders SQLite-style ? for every position.
func QuestionPlaceholder(int) string { return "?" }

// TaskChanges is a partial edit of a task. Nil fields are left untouched.
type TaskChanges struct {
	Title       *string
	Description *string
}

// Empty reports whether no field is set.
func (c TaskChanges) Empty() bool {
	return c.Title == nil && c.Description == nil
}

// Assignments lists the present fields in a fixed column order.
func (c TaskChanges) Assignments() []Assignment {
	set := make([]Assignment, 0, 2)
	if c.Title != nil {
		set = append(set, Assignment{Column: "task_title", Value: *c.Title})
	}
	if c.Description != nil {
		set = append(set, Assignment{Column: "task_description", Value: *c.Description})
	}
	return set
}

// BuildUpdate renders
//
//	UPDATE <table> SET c1 = p1, c2 = p2 WHERE <key> = pN
//
// numbering placeholders from the positions in set, so the key always binds
// to the last argument regardless of which columns are present. Table and
// column names are trusted identifiers; only values are bound.
func BuildUpdate(table string, set []Assignment, keyColumn string, key any, ph Placeholder) (string, []any, error) {
	if len(set) == 0 {
		return "", nil, ErrNoAssignments
	}

	clauses := make([]string, 0, len(set))
	args := make([]any, 0, len(set)+1)
	for i, a := range set {
		clauses = append(clauses, fmt.Sprintf("%s = %s", a.Column, ph(i+1)))
		args = append(args, a.Value)
	}
	args = append(args, key)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		table, strings.Join(clauses, ", "), keyColumn, ph(len(args)))
	return query, args, nil
}
