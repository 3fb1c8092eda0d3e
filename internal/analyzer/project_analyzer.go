// Package analyzer relates the tables of one generation batch to each other.
package analyzer

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vitebski/laravel-crud-generator/internal/inflection"
	"github.com/vitebski/laravel-crud-generator/pkg/models"
	"github.com/yourbasic/graph"
)

// ProjectAnalyzer analyzes a batch of parsed tables, detects dependencies, and
// sorts tables for generation
type ProjectAnalyzer struct {
	Tables             []string
	TableMap           map[string]*models.Table
	ForeignKeys        map[string][]models.Column
	ManyToManyTables   map[string]bool
	MissingReferences  map[string][]string
	DependencyGraph    *graph.Mutable
	TableIndexMap      map[string]int
	IndexTableMap      map[int]string
	DirectCircularDeps [][]string
	Logger             *logrus.Logger
}

// NewProjectAnalyzer creates a new project analyzer
func NewProjectAnalyzer(logger *logrus.Logger) *ProjectAnalyzer {
	return &ProjectAnalyzer{
		TableMap:          make(map[string]*models.Table),
		ForeignKeys:       make(map[string][]models.Column),
		ManyToManyTables:  make(map[string]bool),
		MissingReferences: make(map[string][]string),
		TableIndexMap:     make(map[string]int),
		IndexTableMap:     make(map[int]string),
		Logger:            logger,
	}
}

func key(name string) string {
	return strings.ToLower(name)
}

// Analyze builds the dependency graph for the given tables. Tables are
// identified case-insensitively; a later table with the same name replaces an
// earlier one.
func (pa *ProjectAnalyzer) Analyze(tables []*models.Table) {
	for _, table := range tables {
		k := key(table.Name())
		if _, exists := pa.TableMap[k]; !exists {
			pa.Tables = append(pa.Tables, table.Name())
		} else {
			pa.Logger.Warningf("Table %s appears more than once, using the last definition", table.Name())
		}
		pa.TableMap[k] = table
	}

	for i, name := range pa.Tables {
		pa.TableIndexMap[key(name)] = i
		pa.IndexTableMap[i] = name
	}

	pa.DependencyGraph = graph.New(len(pa.Tables))

	for _, name := range pa.Tables {
		table := pa.TableMap[key(name)]
		for _, fk := range table.ForeignKeys() {
			pa.ForeignKeys[name] = append(pa.ForeignKeys[name], fk)

			destIdx, ok := pa.TableIndexMap[key(fk.ReferencedTable)]
			if !ok {
				pa.MissingReferences[name] = appendUnique(pa.MissingReferences[name], fk.ReferencedTable)
				pa.Logger.Debugf("Table %s references %s, which is not part of this batch", name, fk.ReferencedTable)
				continue
			}

			srcIdx := pa.TableIndexMap[key(name)]
			if srcIdx == destIdx {
				continue
			}

			// Use weight=1 for mandatory (NOT NULL) foreign keys
			// Use weight=2 for optional (nullable) foreign keys
			weight := int64(2)
			if !fk.Nullable {
				weight = int64(1)
			}
			pa.DependencyGraph.AddCost(srcIdx, destIdx, weight)
		}
	}

	pa.detectManyToManyTables()
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if strings.EqualFold(v, value) {
			return list
		}
	}
	return append(list, value)
}

// detectManyToManyTables detects tables that represent many-to-many relationships
func (pa *ProjectAnalyzer) detectManyToManyTables() {
	for _, name := range pa.Tables {
		fks, hasFKs := pa.ForeignKeys[name]
		if !hasFKs {
			continue
		}

		table := pa.TableMap[key(name)]
		columns := table.Columns()

		pkColumns := 0
		for _, col := range columns {
			if col.PrimaryKey {
				pkColumns++
			}
		}

		// A pivot table:
		// 1. Has at least 2 foreign keys
		// 2. Number of foreign keys is close to total columns
		// 3. Is keyed by its foreign keys, by one surrogate id, or not at all
		if len(fks) >= 2 && float64(len(fks))/float64(len(columns)) >= 0.5 &&
			(pkColumns >= len(fks)-1 || !table.HasExplicitPrimaryKey()) {
			referencedTables := make(map[string]bool)
			for _, fk := range fks {
				referencedTables[key(fk.ReferencedTable)] = true
			}

			if len(referencedTables) >= 2 {
				pa.ManyToManyTables[name] = true
			}
		}
	}
}

// GetCircularTables returns tables involved in circular dependencies.
// Self-references are not circular dependencies.
func (pa *ProjectAnalyzer) GetCircularTables() map[string]bool {
	circularTables := make(map[string]bool)
	pa.DirectCircularDeps = [][]string{}

	if pa.DependencyGraph == nil {
		return circularTables
	}

	for _, component := range graph.StrongComponents(pa.DependencyGraph) {
		if len(component) < 2 {
			continue
		}
		names := make([]string, 0, len(component))
		for _, idx := range component {
			names = append(names, pa.IndexTableMap[idx])
			circularTables[pa.IndexTableMap[idx]] = true
		}
		sort.Strings(names)
		pa.DirectCircularDeps = append(pa.DirectCircularDeps, names)
	}

	sort.Slice(pa.DirectCircularDeps, func(i, j int) bool {
		return pa.DirectCircularDeps[i][0] < pa.DirectCircularDeps[j][0]
	})

	return circularTables
}

// GetGenerationOrder orders tables so that every table comes after the tables
// it references. Circular tables follow in name order, then pivot tables.
func (pa *ProjectAnalyzer) GetGenerationOrder() ([]string, map[string]bool) {
	circularTables := pa.GetCircularTables()

	var nonCircularTables []string
	for _, table := range pa.Tables {
		if !circularTables[table] {
			nonCircularTables = append(nonCircularTables, table)
		}
	}

	var orderedTables []string
	addedTables := make(map[string]bool)

	// First, add tables without foreign keys
	for _, table := range nonCircularTables {
		if _, hasFKs := pa.ForeignKeys[table]; !hasFKs {
			orderedTables = append(orderedTables, table)
			addedTables[key(table)] = true
		}
	}

	var dependentTables []string
	for _, table := range nonCircularTables {
		if !addedTables[key(table)] {
			dependentTables = append(dependentTables, table)
		}
	}

	for len(dependentTables) > 0 {
		found := false
		for i, table := range dependentTables {
			if pa.unresolved(table, addedTables, circularTables) == 0 {
				orderedTables = append(orderedTables, table)
				addedTables[key(table)] = true
				dependentTables = append(dependentTables[:i], dependentTables[i+1:]...)
				found = true
				break
			}
		}

		if !found {
			// Add the table with the fewest unresolved dependencies
			sort.SliceStable(dependentTables, func(i, j int) bool {
				return pa.unresolved(dependentTables[i], addedTables, circularTables) <
					pa.unresolved(dependentTables[j], addedTables, circularTables)
			})
			orderedTables = append(orderedTables, dependentTables[0])
			addedTables[key(dependentTables[0])] = true
			dependentTables = dependentTables[1:]
		}
	}

	var circularTablesList []string
	for table := range circularTables {
		if !addedTables[key(table)] {
			circularTablesList = append(circularTablesList, table)
		}
	}
	sort.Strings(circularTablesList)
	orderedTables = append(orderedTables, circularTablesList...)

	// Move many-to-many tables to the end
	var finalOrderedTables []string
	var manyToManyTablesList []string
	for _, table := range orderedTables {
		if pa.ManyToManyTables[table] {
			manyToManyTablesList = append(manyToManyTablesList, table)
		} else {
			finalOrderedTables = append(finalOrderedTables, table)
		}
	}
	finalOrderedTables = append(finalOrderedTables, manyToManyTablesList...)

	return finalOrderedTables, circularTables
}

// unresolved counts references to batch tables not yet ordered, ignoring
// self-references, circular tables and tables outside the batch
func (pa *ProjectAnalyzer) unresolved(table string, added, circular map[string]bool) int {
	count := 0
	for _, fk := range pa.ForeignKeys[table] {
		ref := key(fk.ReferencedTable)
		if ref == key(table) || added[ref] {
			continue
		}
		idx, inBatch := pa.TableIndexMap[ref]
		if !inBatch || circular[pa.IndexTableMap[idx]] {
			continue
		}
		count++
	}
	return count
}

// Table returns the analyzed table with the given name
func (pa *ProjectAnalyzer) Table(name string) (*models.Table, bool) {
	table, ok := pa.TableMap[key(name)]
	return table, ok
}

// InverseRelations returns one has-many relation for every foreign key in the
// batch that references the named table. Unlike the speculative guess, each
// one is backed by a parsed column.
func (pa *ProjectAnalyzer) InverseRelations(name string) []models.Relationship {
	var relations []models.Relationship
	used := make(map[string]bool)

	for _, childName := range pa.Tables {
		child := pa.TableMap[key(childName)]
		for _, fk := range pa.ForeignKeys[childName] {
			if !strings.EqualFold(fk.ReferencedTable, name) {
				continue
			}

			plural := inflection.Pluralize(inflection.Singularize(child.Name()))
			accessor := inflection.CamelCase(plural)
			if used[accessor] {
				accessor = inflection.CamelCase(strings.TrimSuffix(fk.Name, "_id") + "_" + plural)
			}
			used[accessor] = true

			relations = append(relations, models.Relationship{
				Kind:         models.HasMany,
				Accessor:     accessor,
				RelatedModel: child.ModelName(),
				ForeignKey:   fk.Name,
				OwnerKey:     fk.ReferencedColumn,
			})
		}
	}

	return relations
}
