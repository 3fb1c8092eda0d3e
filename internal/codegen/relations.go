package codegen

import (
	"strings"

	"github.com/vitebski/laravel-crud-generator/internal/inflection"
	"github.com/vitebski/laravel-crud-generator/pkg/models"
)

// Relationships derives the relation accessors for a table: one belongs-to
// per foreign key column, the verified inverse relations passed in, and the
// speculative has-many guess when enabled.
func Relationships(table *models.Table, opts Options, inverse ...models.Relationship) []models.Relationship {
	var relations []models.Relationship
	used := make(map[string]bool)

	for _, fk := range table.ForeignKeys() {
		accessor := inflection.CamelCase(inflection.Singularize(fk.ReferencedTable))
		if used[accessor] || accessor == "" {
			accessor = inflection.CamelCase(strings.TrimSuffix(fk.Name, "_id"))
		}
		used[accessor] = true
		relations = append(relations, models.Relationship{
			Kind:         models.BelongsTo,
			Accessor:     accessor,
			RelatedModel: inflection.PascalCase(inflection.Singularize(fk.ReferencedTable)),
			ForeignKey:   fk.Name,
			OwnerKey:     fk.ReferencedColumn,
		})
	}

	for _, rel := range inverse {
		if used[rel.Accessor] {
			continue
		}
		used[rel.Accessor] = true
		relations = append(relations, rel)
	}

	if opts.GuessHasMany {
		guess := SpeculativeHasMany(table, opts.HasManyTarget)
		if !used[guess.Accessor] && !hasForeignKey(relations, guess) {
			relations = append(relations, guess)
		}
	}

	return relations
}

// SpeculativeHasMany guesses the reverse relation of a table purely from
// naming: the related table is expected to hold singular(table)_id. Nothing
// checks that such a column exists. An empty target makes the relation
// self-referential.
func SpeculativeHasMany(table *models.Table, target string) models.Relationship {
	if target == "" {
		target = table.Name()
	}
	singularTarget := inflection.Singularize(target)
	return models.Relationship{
		Kind:         models.HasMany,
		Accessor:     inflection.CamelCase(inflection.Pluralize(singularTarget)),
		RelatedModel: inflection.PascalCase(singularTarget),
		ForeignKey:   inflection.SnakeCase(inflection.Singularize(table.Name())) + "_id",
		OwnerKey:     table.PrimaryKey().Name,
		Speculative:  true,
	}
}

func hasForeignKey(relations []models.Relationship, rel models.Relationship) bool {
	for _, r := range relations {
		if r.Kind == rel.Kind && r.RelatedModel == rel.RelatedModel && r.ForeignKey == rel.ForeignKey {
			return true
		}
	}
	return false
}
