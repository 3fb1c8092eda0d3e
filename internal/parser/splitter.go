package parser

import (
	"regexp"
	"strings"
)

var (
	createTableRegex = regexp.MustCompile(`(?i)\bcreate\s+(?:temporary\s+|temp\s+)?table\s+`)
	ifNotExistsRegex = regexp.MustCompile(`(?i)^if\s+not\s+exists\s+`)
)

// splitStatement extracts the table name and the top-level clauses of the
// parenthesized column list.
func splitStatement(ddl string) (string, []string, error) {
	loc := createTableRegex.FindStringIndex(ddl)
	if loc == nil {
		return "", nil, malformed("missing CREATE TABLE statement", ddl)
	}

	rest := ddl[loc[1]:]
	open := strings.IndexByte(rest, '(')
	if open == -1 {
		return "", nil, malformed("missing '(' after table name", rest)
	}

	name := cleanTableName(rest[:open])
	if name == "" {
		return "", nil, malformed("missing table name", rest)
	}

	end := strings.LastIndexByte(rest, ')')
	if end < open {
		return "", nil, malformed("missing closing ')' for column list", rest[open:])
	}

	clauses := splitTopLevel(rest[open+1 : end])
	if len(clauses) == 0 {
		return "", nil, malformed("empty column list", rest[open:])
	}

	return name, clauses, nil
}

// splitTopLevel splits on commas at parenthesis depth zero and drops empty
// clauses.
func splitTopLevel(body string) []string {
	var clauses []string
	depth := 0
	start := 0

	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				clauses = appendClause(clauses, body[start:i])
				start = i + 1
			}
		}
	}
	return appendClause(clauses, body[start:])
}

func appendClause(clauses []string, clause string) []string {
	clause = strings.TrimSpace(clause)
	if clause == "" {
		return clauses
	}
	return append(clauses, clause)
}

// cleanTableName strips IF NOT EXISTS, quoting and any schema prefix
func cleanTableName(raw string) string {
	name := strings.TrimSpace(raw)
	name = ifNotExistsRegex.ReplaceAllString(name, "")
	name = stripQuotes(strings.TrimSpace(name))
	if i := strings.LastIndexByte(name, '.'); i != -1 {
		name = name[i+1:]
	}
	return strings.TrimSpace(name)
}

func stripQuotes(s string) string {
	return strings.NewReplacer(`"`, "", "`", "", "[", "", "]", "").Replace(s)
}
