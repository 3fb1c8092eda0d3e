// Package pipeline runs parse, analyze, generate and write over a batch of
// CREATE TABLE statements.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vitebski/laravel-crud-generator/internal/analyzer"
	"github.com/vitebski/laravel-crud-generator/internal/codegen"
	"github.com/vitebski/laravel-crud-generator/internal/parser"
	"github.com/vitebski/laravel-crud-generator/internal/writer"
	"github.com/vitebski/laravel-crud-generator/pkg/models"
)

// Input is one CREATE TABLE statement and where it came from
type Input struct {
	Source string
	DDL    string
}

// Parsed pairs an input with its parse result
type Parsed struct {
	Input  Input
	Result *parser.Result
}

// Pipeline generates Laravel artifacts for a batch of inputs
type Pipeline struct {
	Parser       *parser.SchemaParser
	Generator    *codegen.Generator
	Writer       *writer.ArtifactWriter
	FailedInputs map[string]error
	Logger       *logrus.Logger
}

// NewPipeline creates a new pipeline
func NewPipeline(
	schemaParser *parser.SchemaParser,
	generator *codegen.Generator,
	artifactWriter *writer.ArtifactWriter,
	logger *logrus.Logger,
) *Pipeline {
	return &Pipeline{
		Parser:       schemaParser,
		Generator:    generator,
		Writer:       artifactWriter,
		FailedInputs: make(map[string]error),
		Logger:       logger,
	}
}

// Parse parses every input independently. Inputs that fail are recorded in
// FailedInputs and left out of the returned slice.
func (p *Pipeline) Parse(inputs []Input) []Parsed {
	var parsed []Parsed
	for _, input := range inputs {
		result, err := p.Parser.Parse(input.DDL)
		if err != nil {
			p.Logger.Errorf("Failed to parse %s: %v", input.Source, err)
			p.FailedInputs[input.Source] = err
			continue
		}
		parsed = append(parsed, Parsed{Input: input, Result: result})
	}
	return parsed
}

// Analyze relates the parsed tables to each other
func (p *Pipeline) Analyze(parsed []Parsed) *analyzer.ProjectAnalyzer {
	tables := make([]*models.Table, len(parsed))
	for i, pr := range parsed {
		tables[i] = pr.Result.Table
	}

	projectAnalyzer := analyzer.NewProjectAnalyzer(p.Logger)
	projectAnalyzer.Analyze(tables)
	return projectAnalyzer
}

// Run parses, analyzes, generates and writes every input. A failing input
// does not stop the rest of the batch.
func (p *Pipeline) Run(ctx context.Context, inputs []Input) models.GenerationResult {
	parsed := p.Parse(inputs)
	projectAnalyzer := p.Analyze(parsed)

	sources := make(map[string]string, len(parsed))
	for _, pr := range parsed {
		sources[strings.ToLower(pr.Result.Table.Name())] = pr.Input.Source
	}

	orderedTables, circularTables := projectAnalyzer.GetGenerationOrder()
	for _, dep := range projectAnalyzer.DirectCircularDeps {
		p.Logger.Warningf("Circular dependency between tables: %s", strings.Join(dep, ", "))
	}

	var result models.GenerationResult
	for i, name := range orderedTables {
		if err := ctx.Err(); err != nil {
			p.Logger.Errorf("Generation cancelled: %v", err)
			p.FailedInputs[sources[strings.ToLower(name)]] = err
			continue
		}

		table, _ := projectAnalyzer.Table(name)
		if circularTables[name] {
			p.Logger.Infof("Generating table: %s (circular dependency)", name)
		} else {
			p.Logger.Infof("Generating table: %s", name)
		}

		files, err := p.generateTable(ctx, table, i+1, projectAnalyzer.InverseRelations(name))
		if err != nil {
			p.Logger.Errorf("Failed to generate table %s: %v", name, err)
			p.FailedInputs[sources[strings.ToLower(name)]] = err
			continue
		}

		result.SuccessfulTables = append(result.SuccessfulTables, name)
		result.FilesWritten = append(result.FilesWritten, files...)
	}

	// Report failures in input order
	for _, input := range inputs {
		if _, failed := p.FailedInputs[input.Source]; failed {
			result.FailedInputs = append(result.FailedInputs, input.Source)
		}
	}

	return result
}

func (p *Pipeline) generateTable(ctx context.Context, table *models.Table, seq int, inverse []models.Relationship) ([]string, error) {
	artifacts, err := p.Generator.GenerateAt(table, seq, inverse...)
	if err != nil {
		return nil, err
	}

	files, err := p.Writer.Write(ctx, artifacts)
	if err != nil {
		return nil, fmt.Errorf("writing %s artifacts: %w", table.Name(), err)
	}
	return files, nil
}
