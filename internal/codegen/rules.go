package codegen

import "github.com/vitebski/laravel-crud-generator/pkg/models"

// typeRule is everything the templates need to know about a generation type.
// Model casts and controller validation both read from it, so they cannot
// disagree about a column.
type typeRule struct {
	Cast string // Eloquent cast, empty for none
	Rule string // validation rule appended after required/nullable
}

var typeRules = map[models.GenType]typeRule{
	models.TypeInteger:  {Cast: "integer", Rule: "integer"},
	models.TypeFloat:    {Cast: "float", Rule: "numeric"},
	models.TypeBoolean:  {Cast: "boolean", Rule: "boolean"},
	models.TypeDate:     {Cast: "datetime", Rule: "date"},
	models.TypeDateTime: {Cast: "datetime", Rule: "date"},
	models.TypeTime:     {Rule: "date_format:H:i:s"},
	models.TypeJSON:     {Cast: "array", Rule: "array"},
	models.TypeString:   {Rule: "string"},
}

func ruleFor(t models.GenType) typeRule {
	if r, ok := typeRules[t]; ok {
		return r
	}
	return typeRules[models.TypeString]
}

// CastFor returns the Eloquent cast for a column and whether it has one
func CastFor(c models.Column) (string, bool) {
	cast := ruleFor(c.Type).Cast
	return cast, cast != ""
}

// CreateRule returns the store validation rule for a column
func CreateRule(c models.Column) string {
	if c.Nullable {
		return "nullable|" + ruleFor(c.Type).Rule
	}
	return "required|" + ruleFor(c.Type).Rule
}

// UpdateRule returns the update validation rule for a column. Updates are
// partial, so every field is optional.
func UpdateRule(c models.Column) string {
	return "nullable|" + ruleFor(c.Type).Rule
}
