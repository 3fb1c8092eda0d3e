package codegen

import (
	"fmt"

	"github.com/vitebski/laravel-crud-generator/pkg/models"
)

var blueprintTypes = map[string]string{
	"int":         "integer",
	"integer":     "integer",
	"int4":        "integer",
	"serial":      "integer",
	"mediumint":   "mediumInteger",
	"smallint":    "smallInteger",
	"int2":        "smallInteger",
	"smallserial": "smallInteger",
	"tinyint":     "tinyInteger",
	"bigint":      "bigInteger",
	"int8":        "bigInteger",
	"bigserial":   "bigInteger",
	"decimal":     "decimal",
	"numeric":     "decimal",
	"money":       "decimal",
	"real":        "float",
	"float":       "float",
	"float4":      "float",
	"double":      "double",
	"float8":      "double",
	"boolean":     "boolean",
	"bool":        "boolean",
	"date":        "date",
	"timestamp":   "timestamp",
	"datetime":    "dateTime",
	"timestamptz": "timestampTz",
	"time":        "time",
	"timetz":      "timeTz",
	"json":        "json",
	"jsonb":       "jsonb",
	"uuid":        "uuid",
	"text":        "text",
	"char":        "char",
	"inet":        "ipAddress",
	"cidr":        "ipAddress",
}

// blueprint renders the Schema::create body, one statement per line
func blueprint(table *models.Table) []string {
	var lines []string
	pk := table.PrimaryKey()

	switch {
	case !table.HasExplicitPrimaryKey() || pk.Name == "id" && pk.Type == models.TypeInteger:
		lines = append(lines, "$table->id();")
	case pk.DBType == "uuid":
		lines = append(lines, fmt.Sprintf("$table->uuid('%s')->primary();", pk.Name))
	default:
		lines = append(lines, fmt.Sprintf("$table->%s('%s')->primary();", blueprintType(pk.DBType), pk.Name))
	}

	for _, c := range table.Columns() {
		if c.Name == pk.Name || c.IsTimestamp() {
			continue
		}
		lines = append(lines, blueprintColumn(c))
	}

	if table.HasColumn(models.CreatedAt) || table.HasColumn(models.UpdatedAt) {
		lines = append(lines, "$table->timestamps();")
	}
	if table.HasColumn(models.DeletedAt) {
		lines = append(lines, "$table->softDeletes();")
	}
	return lines
}

func blueprintColumn(c models.Column) string {
	var line string
	if c.IsForeignKey() && c.ReferencedColumn == "id" && c.Type == models.TypeInteger {
		line = fmt.Sprintf("$table->foreignId('%s')", c.Name)
		if c.Nullable {
			line += "->nullable()"
		}
		return line + fmt.Sprintf("->constrained('%s');", c.ReferencedTable)
	}

	line = fmt.Sprintf("$table->%s('%s')", blueprintType(c.DBType), c.Name)
	if c.Nullable {
		line += "->nullable()"
	}
	if c.IsForeignKey() {
		line += fmt.Sprintf(";\n            $table->foreign('%s')->references('%s')->on('%s')",
			c.Name, c.ReferencedColumn, c.ReferencedTable)
	}
	return line + ";"
}

func blueprintType(dbType string) string {
	if t, ok := blueprintTypes[dbType]; ok {
		return t
	}
	return "string"
}
