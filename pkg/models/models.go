package models

import (
	"strings"

	"github.com/vitebski/laravel-crud-generator/internal/inflection"
)

// GenType is the closed set of generation types a column maps to
type GenType int

const (
	TypeString GenType = iota
	TypeInteger
	TypeFloat
	TypeBoolean
	TypeDate
	TypeDateTime
	TypeTime
	TypeJSON
)

var genTypeNames = [...]string{
	TypeString:   "string",
	TypeInteger:  "integer",
	TypeFloat:    "float",
	TypeBoolean:  "boolean",
	TypeDate:     "date",
	TypeDateTime: "datetime",
	TypeTime:     "time",
	TypeJSON:     "json",
}

// String returns the lower-case name of the generation type
func (t GenType) String() string {
	if int(t) < 0 || int(t) >= len(genTypeNames) {
		return "string"
	}
	return genTypeNames[t]
}

// Timestamp column names managed by the framework rather than user input
const (
	CreatedAt = "created_at"
	UpdatedAt = "updated_at"
	DeletedAt = "deleted_at"
)

// IsTimestampName reports whether name is one of the managed timestamp columns
func IsTimestampName(name string) bool {
	return name == CreatedAt || name == UpdatedAt || name == DeletedAt
}

// Column represents a parsed column definition
type Column struct {
	Name             string
	DBType           string
	Type             GenType
	PrimaryKey       bool
	Nullable         bool
	ReferencedTable  string
	ReferencedColumn string
}

// IsForeignKey reports whether the column references another table
func (c Column) IsForeignKey() bool {
	return c.ReferencedTable != "" && c.ReferencedColumn != ""
}

// IsTimestamp reports whether the column is a managed timestamp
func (c Column) IsTimestamp() bool {
	return IsTimestampName(c.Name)
}

// WithReference returns a copy of the column pointing at table(column)
func (c Column) WithReference(table, column string) Column {
	c.ReferencedTable = table
	c.ReferencedColumn = column
	return c
}

// WithPrimaryKey returns a copy of the column marked as primary key
func (c Column) WithPrimaryKey() Column {
	c.PrimaryKey = true
	c.Nullable = false
	return c
}

// Table represents a parsed CREATE TABLE statement. Columns are only handed
// out as copies so a Table never changes after construction.
type Table struct {
	name    string
	columns []Column
}

// NewTable creates a table from its name and ordered columns
func NewTable(name string, columns []Column) *Table {
	cols := make([]Column, len(columns))
	copy(cols, columns)
	return &Table{name: name, columns: cols}
}

// Name returns the raw table identifier
func (t *Table) Name() string {
	return t.name
}

// Columns returns a copy of the ordered columns
func (t *Table) Columns() []Column {
	cols := make([]Column, len(t.columns))
	copy(cols, t.columns)
	return cols
}

// Column looks up a column by name, case-insensitively
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.columns {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Column{}, false
}

// HasColumn reports whether the table has a column with the given name
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// HasExplicitPrimaryKey reports whether any column is marked primary
func (t *Table) HasExplicitPrimaryKey() bool {
	for _, c := range t.columns {
		if c.PrimaryKey {
			return true
		}
	}
	return false
}

// PrimaryKey returns the first primary key column, or an implicit integer id
func (t *Table) PrimaryKey() Column {
	for _, c := range t.columns {
		if c.PrimaryKey {
			return c
		}
	}
	return Column{Name: "id", DBType: "integer", Type: TypeInteger, PrimaryKey: true}
}

// ForeignKeys returns the columns that reference another table
func (t *Table) ForeignKeys() []Column {
	var fks []Column
	for _, c := range t.columns {
		if c.IsForeignKey() {
			fks = append(fks, c)
		}
	}
	return fks
}

// WritableColumns returns every column except the primary key and timestamps
func (t *Table) WritableColumns() []Column {
	pk := t.PrimaryKey()
	var cols []Column
	for _, c := range t.columns {
		if c.PrimaryKey || c.Name == pk.Name || c.IsTimestamp() {
			continue
		}
		cols = append(cols, c)
	}
	return cols
}

// ModelName returns the singular PascalCase model name
func (t *Table) ModelName() string {
	return inflection.PascalCase(inflection.Singularize(t.name))
}

// ControllerName returns the controller class name
func (t *Table) ControllerName() string {
	return t.ModelName() + "Controller"
}

// ServiceName returns the service class name
func (t *Table) ServiceName() string {
	return t.ModelName() + "Service"
}

// RouteSlug returns the resource path segment
func (t *Table) RouteSlug() string {
	return inflection.SnakeCase(t.name)
}

// RelationKind distinguishes the generated relationship accessors
type RelationKind int

const (
	BelongsTo RelationKind = iota
	HasMany
)

// String returns the Eloquent method name for the relation kind
func (k RelationKind) String() string {
	if k == HasMany {
		return "hasMany"
	}
	return "belongsTo"
}

// Relationship is derived at generation time and never stored on a Table
type Relationship struct {
	Kind         RelationKind
	Accessor     string
	RelatedModel string
	ForeignKey   string
	OwnerKey     string
	Speculative  bool
}

// DiagnosticKind classifies non-fatal parse findings
type DiagnosticKind string

const (
	UnresolvedForeignKey DiagnosticKind = "unresolved_foreign_key"
	UnresolvedReference  DiagnosticKind = "unresolved_reference"
	SkippedClause        DiagnosticKind = "skipped_clause"
)

// Diagnostic is a non-fatal finding reported alongside a parsed table
type Diagnostic struct {
	Kind    DiagnosticKind
	Clause  string
	Message string
}

// ArtifactKind identifies a generated file
type ArtifactKind string

const (
	ModelArtifact      ArtifactKind = "model"
	ControllerArtifact ArtifactKind = "controller"
	ServiceArtifact    ArtifactKind = "service"
	RoutesArtifact     ArtifactKind = "routes"
	MigrationArtifact  ArtifactKind = "migration"
	SeederArtifact     ArtifactKind = "seeder"
)

// Artifact is one generated text blob and where it belongs
type Artifact struct {
	Kind     ArtifactKind
	Dir      string
	FileName string
	Content  string
}

// GenerationResult represents the outcome of a batch run
type GenerationResult struct {
	SuccessfulTables []string
	FailedInputs     []string
	FilesWritten     []string
}
