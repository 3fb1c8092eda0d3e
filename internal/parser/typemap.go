package parser

import (
	"strings"

	"github.com/vitebski/laravel-crud-generator/pkg/models"
)

var dbTypeMap = map[string]models.GenType{
	"int":         models.TypeInteger,
	"int2":        models.TypeInteger,
	"int4":        models.TypeInteger,
	"int8":        models.TypeInteger,
	"integer":     models.TypeInteger,
	"smallint":    models.TypeInteger,
	"mediumint":   models.TypeInteger,
	"tinyint":     models.TypeInteger,
	"bigint":      models.TypeInteger,
	"serial":      models.TypeInteger,
	"smallserial": models.TypeInteger,
	"bigserial":   models.TypeInteger,
	"decimal":     models.TypeFloat,
	"numeric":     models.TypeFloat,
	"real":        models.TypeFloat,
	"double":      models.TypeFloat,
	"float":       models.TypeFloat,
	"float4":      models.TypeFloat,
	"float8":      models.TypeFloat,
	"money":       models.TypeFloat,
	"boolean":     models.TypeBoolean,
	"bool":        models.TypeBoolean,
	"date":        models.TypeDate,
	"timestamp":   models.TypeDateTime,
	"timestamptz": models.TypeDateTime,
	"datetime":    models.TypeDateTime,
	"time":        models.TypeTime,
	"timetz":      models.TypeTime,
	"json":        models.TypeJSON,
	"jsonb":       models.TypeJSON,
}

// MapType maps a raw database type name to its generation type. Unknown
// types map to string.
func MapType(dbType string) models.GenType {
	if t, ok := dbTypeMap[strings.ToLower(strings.TrimSpace(dbType))]; ok {
		return t
	}
	return models.TypeString
}
