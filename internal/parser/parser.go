// Package parser turns a single CREATE TABLE statement into a models.Table.
//
// Parsing is deliberately shallow: clauses are split at parenthesis depth
// zero and each clause is classified by keyword, without a SQL grammar.
// Malformed statements fail with an error matching ErrMalformedSchema;
// everything else that cannot be applied is reported as a models.Diagnostic.
package parser

import (
	"github.com/sirupsen/logrus"
	"github.com/vitebski/laravel-crud-generator/pkg/models"
)

// Result is a parsed table plus the non-fatal findings collected on the way
type Result struct {
	Table       *models.Table
	Diagnostics []models.Diagnostic
}

// HasWarnings reports whether any diagnostic other than a skipped clause was
// collected
func (r *Result) HasWarnings() bool {
	for _, d := range r.Diagnostics {
		if d.Kind != models.SkippedClause {
			return true
		}
	}
	return false
}

// SchemaParser parses CREATE TABLE statements
type SchemaParser struct {
	Logger *logrus.Logger
}

// NewSchemaParser creates a new schema parser
func NewSchemaParser(logger *logrus.Logger) *SchemaParser {
	return &SchemaParser{Logger: logger}
}

// Parse parses one CREATE TABLE statement
func (sp *SchemaParser) Parse(ddl string) (*Result, error) {
	name, clauses, err := splitStatement(ddl)
	if err != nil {
		return nil, err
	}

	var (
		columns     []models.Column
		diagnostics []models.Diagnostic
		deferred    []string
	)

	for _, clause := range clauses {
		if isTableConstraint(clause) {
			// Constraints may precede the columns they name
			deferred = append(deferred, clause)
			continue
		}

		column, diag, ok := parseColumnClause(clause)
		if !ok {
			diagnostics = append(diagnostics, skipped(clause, "clause has fewer than two tokens"))
			continue
		}
		if diag != nil {
			diagnostics = append(diagnostics, *diag)
		}
		columns = append(columns, column)
	}

	if len(columns) == 0 {
		return nil, malformed("no column definitions", ddl)
	}

	for _, clause := range deferred {
		if isForeignKeyConstraint(clause) {
			var diags []models.Diagnostic
			columns, diags = resolveForeignKey(clause, columns)
			diagnostics = append(diagnostics, diags...)
			continue
		}

		var (
			diag    *models.Diagnostic
			applied bool
		)
		if columns, diag, applied = applyPrimaryKey(clause, columns); applied {
			if diag != nil {
				diagnostics = append(diagnostics, *diag)
			}
			continue
		}
		diagnostics = append(diagnostics, skipped(clause, "table-level constraint ignored"))
	}

	result := &Result{
		Table:       models.NewTable(name, columns),
		Diagnostics: diagnostics,
	}
	sp.logDiagnostics(name, result.Diagnostics)
	sp.Logger.Debugf("Parsed table %s with %d columns", name, len(columns))

	return result, nil
}

func (sp *SchemaParser) logDiagnostics(table string, diagnostics []models.Diagnostic) {
	for _, d := range diagnostics {
		entry := sp.Logger.WithFields(logrus.Fields{
			"table":  table,
			"kind":   d.Kind,
			"clause": d.Clause,
		})
		if d.Kind == models.SkippedClause {
			entry.Debug(d.Message)
		} else {
			entry.Warn(d.Message)
		}
	}
}

func skipped(clause, message string) models.Diagnostic {
	return models.Diagnostic{Kind: models.SkippedClause, Clause: clause, Message: message}
}
