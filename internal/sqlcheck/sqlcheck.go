// Package sqlcheck parses rendered SQL with the PostgreSQL parser so a broken
// migration is caught before it reaches disk.
package sqlcheck

import (
	"fmt"
	"strings"

	pgquery "github.com/pganalyze/pg_query_go/v6"
)

// StatementError points at the statement the parser rejected.
type StatementError struct {
	Name  string
	Index int
	SQL   string
	Err   error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("%s: statement %d: %v", e.Name, e.Index+1, e.Err)
}

func (e *StatementError) Unwrap() error { return e.Err }

// Postgres checks that content is non-empty, valid PostgreSQL.
func Postgres(name string, content []byte) error {
	stmts, err := pgquery.SplitWithParser(string(content), true)
	if err != nil {
		return fmt.Errorf("%s: split: %w", name, err)
	}
	if len(stmts) == 0 {
		return fmt.Errorf("%s: no statements", name)
	}
	for i, sql := range stmts {
		res, err := pgquery.Parse(sql)
		if err != nil {
			return &StatementError{Name: name, Index: i, SQL: strings.TrimSpace(sql), Err: err}
		}
		if len(res.GetStmts()) == 0 {
			return &StatementError{Name: name, Index: i, SQL: strings.TrimSpace(sql), Err: fmt.Errorf("empty statement")}
		}
	}
	return nil
}

// CreatedTables lists the tables created by content in statement order.
func CreatedTables(content []byte) ([]string, error) {
	res, err := pgquery.Parse(string(content))
	if err != nil {
		return nil, err
	}
	var tables []string
	for _, raw := range res.GetStmts() {
		cs := raw.GetStmt().GetCreateStmt()
		if cs == nil {
			continue
		}
		rel := cs.GetRelation()
		name := rel.GetRelname()
		if s := rel.GetSchemaname(); s != "" {
			name = s + "." + name
		}
		tables = append(tables, name)
	}
	return tables, nil
}
