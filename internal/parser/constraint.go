package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vitebski/laravel-crud-generator/pkg/models"
)

var (
	foreignKeyRegex = regexp.MustCompile(`(?is)\bforeign\s+key\b[^(]*\(([^)]*)\)\s*references\s+([^\s(]+)\s*\(([^)]*)\)`)
	primaryKeyRegex = regexp.MustCompile(`(?is)\bprimary\s+key\b[^(]*\(([^)]*)\)`)
	foreignKeyWord  = regexp.MustCompile(`(?i)\bforeign\s+key\b`)
)

// isForeignKeyConstraint reports whether a table-level clause declares a
// foreign key, with or without a leading CONSTRAINT name.
func isForeignKeyConstraint(clause string) bool {
	return foreignKeyWord.MatchString(clause)
}

// resolveForeignKey applies a table-level FOREIGN KEY clause to the parsed
// columns. Matching columns are replaced, never mutated in place. Local
// columns that do not exist are reported back as diagnostics.
func resolveForeignKey(clause string, columns []models.Column) ([]models.Column, []models.Diagnostic) {
	m := foreignKeyRegex.FindStringSubmatch(clause)
	if m == nil {
		return columns, []models.Diagnostic{{
			Kind:    models.UnresolvedForeignKey,
			Clause:  clause,
			Message: "foreign key constraint has no REFERENCES table(column) target",
		}}
	}

	locals := splitIdentList(m[1])
	targetTable := cleanIdent(m[2])
	targets := splitIdentList(m[3])
	if len(locals) == 0 || len(targets) == 0 {
		return columns, []models.Diagnostic{{
			Kind:    models.UnresolvedForeignKey,
			Clause:  clause,
			Message: "foreign key constraint has an empty column list",
		}}
	}
	if len(locals) != len(targets) {
		locals, targets = locals[:1], targets[:1]
	}

	var diags []models.Diagnostic
	for i, local := range locals {
		idx := indexOfColumn(columns, local)
		if idx == -1 {
			diags = append(diags, models.Diagnostic{
				Kind:    models.UnresolvedForeignKey,
				Clause:  clause,
				Message: fmt.Sprintf("foreign key column %q is not defined in the table", local),
			})
			continue
		}
		columns[idx] = columns[idx].WithReference(targetTable, targets[i])
	}
	return columns, diags
}

// applyPrimaryKey marks the column named by a single-column table-level
// PRIMARY KEY clause. It returns false when the clause is not a primary key
// declaration. A composite key leaves every column writable and is reported
// as a skipped clause.
func applyPrimaryKey(clause string, columns []models.Column) ([]models.Column, *models.Diagnostic, bool) {
	m := primaryKeyRegex.FindStringSubmatch(clause)
	if m == nil {
		return columns, nil, false
	}

	names := splitIdentList(m[1])
	if len(names) != 1 {
		diag := skipped(clause, "composite primary key ignored")
		return columns, &diag, true
	}
	if idx := indexOfColumn(columns, names[0]); idx != -1 {
		columns[idx] = columns[idx].WithPrimaryKey()
	}
	return columns, nil, true
}

func splitIdentList(list string) []string {
	var idents []string
	for _, part := range strings.Split(list, ",") {
		// MySQL prefix lengths such as `name`(20)
		if i := strings.IndexByte(part, '('); i != -1 {
			part = part[:i]
		}
		if ident := cleanIdent(part); ident != "" {
			idents = append(idents, ident)
		}
	}
	return idents
}

func indexOfColumn(columns []models.Column, name string) int {
	for i, c := range columns {
		if strings.EqualFold(c.Name, name) {
			return i
		}
	}
	return -1
}
