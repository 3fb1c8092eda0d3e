// Package codegen renders a parsed table into Laravel source files.
//
// Every artifact is a pure function of the table and the Options: the same
// input always produces byte-identical output, in any order.
package codegen

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/vitebski/laravel-crud-generator/internal/inflection"
	"github.com/vitebski/laravel-crud-generator/pkg/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("codegen").
	Funcs(template.FuncMap{
		"relationClass": relationClass,
		"php":           phpLiteral,
	}).
	ParseFS(templateFS, "templates/*.tmpl"))

// Options controls optional output
type Options struct {
	// GuessHasMany emits the speculative has-many accessor.
	GuessHasMany bool
	// HasManyTarget names the table the speculative relation points at.
	// Empty means the table itself.
	HasManyTarget string
	// Migration adds a create-table migration artifact.
	Migration bool
	// SeedRows adds a seeder with that many sample rows when positive.
	SeedRows int
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{GuessHasMany: true}
}

// RowSource produces sample rows for the seeder artifact
type RowSource interface {
	Rows(table *models.Table, n int) []map[string]any
}

// Generator renders artifacts for parsed tables
type Generator struct {
	Options Options
	Rows    RowSource
	Logger  *logrus.Logger
}

// NewGenerator creates a new generator. rows may be nil when no seeder is
// requested.
func NewGenerator(opts Options, rows RowSource, logger *logrus.Logger) *Generator {
	return &Generator{
		Options: opts,
		Rows:    rows,
		Logger:  logger,
	}
}

type artifactSpec struct {
	kind     models.ArtifactKind
	template string
	dir      string
	fileName func(d *templateData) string
}

// migrationPrefix orders migration files by generation sequence, since
// Laravel runs migrations sorted by file name
const migrationPrefix = "0000_00_00_%06d_"


var coreArtifacts = []artifactSpec{
	{models.ModelArtifact, "model.php.tmpl", "Models", func(d *templateData) string { return d.Model + ".php" }},
	{models.ControllerArtifact, "controller.php.tmpl", "Http/Controllers", func(d *templateData) string { return d.Controller + ".php" }},
	{models.ServiceArtifact, "service.php.tmpl", "Services", func(d *templateData) string { return d.Service + ".php" }},
	{models.RoutesArtifact, "routes.php.tmpl", "routes", func(d *templateData) string { return d.Slug + "_routes.php" }},
}

var migrationArtifact = artifactSpec{
	models.MigrationArtifact, "migration.php.tmpl", "database/migrations",
	func(d *templateData) string {
		return fmt.Sprintf(migrationPrefix, d.Sequence) + "create_" + d.Slug + "_table.php"
	},
}

var seederArtifact = artifactSpec{
	models.SeederArtifact, "seeder.php.tmpl", "database/seeders",
	func(d *templateData) string { return d.Model + "Seeder.php" },
}

// Generate renders every configured artifact for the table. inverse holds
// has-many relations verified against other tables of the same batch.
func (g *Generator) Generate(table *models.Table, inverse ...models.Relationship) ([]models.Artifact, error) {
	return g.GenerateAt(table, 0, inverse...)
}

// GenerateAt is Generate for the table at position seq of a dependency
// ordered batch. seq prefixes the migration file name so referenced tables
// are migrated first.
func (g *Generator) GenerateAt(table *models.Table, seq int, inverse ...models.Relationship) ([]models.Artifact, error) {
	data := g.buildData(table, inverse)
	data.Sequence = seq

	specs := append([]artifactSpec(nil), coreArtifacts...)
	if g.Options.Migration {
		specs = append(specs, migrationArtifact)
	}
	if len(data.SeedRows) > 0 {
		specs = append(specs, seederArtifact)
	}

	artifacts := make([]models.Artifact, 0, len(specs))
	for _, spec := range specs {
		var buf bytes.Buffer
		if err := templates.ExecuteTemplate(&buf, spec.template, data); err != nil {
			return nil, &GenerationError{Artifact: string(spec.kind), Table: table.Name(), Cause: err}
		}
		artifacts = append(artifacts, models.Artifact{
			Kind:     spec.kind,
			Dir:      spec.dir,
			FileName: spec.fileName(data),
			Content:  buf.String(),
		})
	}

	g.Logger.Debugf("Generated %d artifacts for table %s", len(artifacts), table.Name())
	return artifacts, nil
}

type columnRule struct {
	Column string
	Value  string
}

type templateData struct {
	Table      string
	Model      string
	Controller string
	Service    string
	Variable   string
	ServiceVar string
	Slug       string
	Label      string
	Collection string
	Sequence   int

	PrimaryKey       models.Column
	CustomPrimaryKey bool
	Incrementing     bool
	IDType           string
	Timestamps       bool
	SoftDeletes      bool

	Fillable    []string
	Casts       []columnRule
	StoreRules  []columnRule
	UpdateRules []columnRule

	Relations     []models.Relationship
	RelationNames []string
	HasBelongsTo  bool
	HasHasMany    bool

	Blueprint   []string
	SeedColumns []string
	SeedRows    []map[string]any
}

func (g *Generator) buildData(table *models.Table, inverse []models.Relationship) *templateData {
	model := table.ModelName()
	pk := table.PrimaryKey()

	data := &templateData{
		Table:            table.Name(),
		Model:            model,
		Controller:       table.ControllerName(),
		Service:          table.ServiceName(),
		Variable:         lcfirst(model),
		ServiceVar:       lcfirst(table.ServiceName()),
		Slug:             table.RouteSlug(),
		Label:            inflection.Humanize(inflection.Singularize(table.Name())),
		Collection:       strings.ToLower(inflection.Humanize(inflection.Pluralize(inflection.Singularize(table.Name())))),
		PrimaryKey:       pk,
		CustomPrimaryKey: pk.Name != "id",
		Incrementing:     pk.Type == models.TypeInteger,
		IDType:           "int",
		Timestamps:       table.HasColumn(models.CreatedAt) && table.HasColumn(models.UpdatedAt),
		SoftDeletes:      table.HasColumn(models.DeletedAt),
	}

	if !data.Incrementing {
		data.IDType = "string"
	}

	for _, c := range table.WritableColumns() {
		data.Fillable = append(data.Fillable, c.Name)
		data.StoreRules = append(data.StoreRules, columnRule{c.Name, CreateRule(c)})
		data.UpdateRules = append(data.UpdateRules, columnRule{c.Name, UpdateRule(c)})
	}

	for _, c := range table.Columns() {
		if cast, ok := CastFor(c); ok {
			data.Casts = append(data.Casts, columnRule{c.Name, cast})
		}
	}

	data.Relations = Relationships(table, g.Options, inverse...)
	for _, rel := range data.Relations {
		data.RelationNames = append(data.RelationNames, rel.Accessor)
		switch rel.Kind {
		case models.BelongsTo:
			data.HasBelongsTo = true
		case models.HasMany:
			data.HasHasMany = true
		}
	}

	if g.Options.Migration {
		data.Blueprint = blueprint(table)
	}

	if g.Options.SeedRows > 0 && g.Rows != nil {
		data.SeedColumns = data.Fillable
		data.SeedRows = g.Rows.Rows(table, g.Options.SeedRows)
	}

	return data
}

func relationClass(kind models.RelationKind) string {
	if kind == models.HasMany {
		return "HasMany"
	}
	return "BelongsTo"
}

func lcfirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
