package parser

import (
	"regexp"
	"strings"

	"github.com/vitebski/laravel-crud-generator/pkg/models"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	referencesRegex = regexp.MustCompile(`(?i)\breferences\s+([^\s(]+)\s*\(\s*([^)]+?)\s*\)`)
	referencesWord  = regexp.MustCompile(`(?i)\breferences\b`)

	// KEY/INDEX/FULLTEXT clauses name columns inside the parentheses, while a
	// column called key or index is followed by a type whose parameters are
	// numbers or quoted values.
	indexClauseRegex = regexp.MustCompile("(?i)^(?:(?:fulltext|spatial)(?:\\s+(?:key|index))?|key|index)\\s*(?:[^\\s(]+\\s*)?\\(\\s*[`\"a-z_]")
	checkClauseRegex = regexp.MustCompile(`(?i)^check\s*\(`)
)

// tableConstraintPrefixes are the leading keywords of clauses that declare
// table-level constraints rather than columns.
var tableConstraintPrefixes = []string{
	"constraint",
	"primary key",
	"foreign key",
	"unique",
}

// isTableConstraint reports whether the clause starts with a table-level
// constraint keyword.
func isTableConstraint(clause string) bool {
	if indexClauseRegex.MatchString(clause) || checkClauseRegex.MatchString(clause) {
		return true
	}

	lower := strings.ToLower(clause)
	for _, prefix := range tableConstraintPrefixes {
		if !strings.HasPrefix(lower, prefix) {
			continue
		}
		rest := lower[len(prefix):]
		if rest == "" || !isIdentChar(rest[0]) {
			return true
		}
	}
	return false
}

// parseColumnClause parses one column definition. ok is false when the
// clause has fewer than two tokens.
func parseColumnClause(clause string) (col models.Column, diag *models.Diagnostic, ok bool) {
	parts := whitespaceRegex.Split(strings.TrimSpace(clause), 2)
	if len(parts) < 2 {
		return models.Column{}, nil, false
	}

	name := strings.TrimSpace(stripQuotes(parts[0]))
	remainder := strings.TrimSpace(parts[1])

	dbType := strings.ToLower(whitespaceRegex.Split(remainder, 2)[0])
	if i := strings.IndexByte(dbType, '('); i != -1 {
		dbType = dbType[:i]
	}

	lower := strings.ToLower(clause)
	col = models.Column{
		Name:       name,
		DBType:     dbType,
		Type:       MapType(dbType),
		PrimaryKey: strings.Contains(lower, "primary key"),
		Nullable:   !strings.Contains(lower, "not null"),
	}

	if m := referencesRegex.FindStringSubmatch(clause); m != nil {
		col = col.WithReference(cleanIdent(m[1]), cleanIdent(firstIdent(m[2])))
	} else if referencesWord.MatchString(clause) {
		diag = &models.Diagnostic{
			Kind:    models.UnresolvedReference,
			Clause:  clause,
			Message: "REFERENCES on column " + name + " names no target column",
		}
	}

	return col, diag, true
}

// cleanIdent strips quoting and a schema prefix from an identifier
func cleanIdent(s string) string {
	s = strings.TrimSpace(stripQuotes(s))
	if i := strings.LastIndexByte(s, '.'); i != -1 {
		s = s[i+1:]
	}
	return s
}

func firstIdent(list string) string {
	return strings.TrimSpace(strings.Split(list, ",")[0])
}

func isIdentChar(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
