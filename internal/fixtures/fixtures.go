// Package fixtures produces sample rows for generated seeders.
package fixtures

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jaswdr/faker"
	"github.com/sirupsen/logrus"
	"github.com/vitebski/laravel-crud-generator/pkg/models"
)

// referenceTime anchors generated dates so a seed always yields the same rows
var referenceTime = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// RowGenerator generates fake column values based on column names and types
type RowGenerator struct {
	Faker faker.Faker
	Rand  *rand.Rand
	// ParentRows is how many rows every referenced table is seeded with.
	// Foreign key values stay within [1, ParentRows].
	ParentRows int
	Logger     *logrus.Logger
}

// NewRowGenerator creates a row generator. The same seed always produces the
// same rows.
func NewRowGenerator(seed int64, parentRows int, logger *logrus.Logger) *RowGenerator {
	if parentRows < 1 {
		parentRows = 1
	}
	return &RowGenerator{
		Faker:      faker.NewWithSeed(rand.NewSource(seed)),
		Rand:       rand.New(rand.NewSource(seed)),
		ParentRows: parentRows,
		Logger:     logger,
	}
}

// Rows returns n rows keyed by the table's writable columns
func (rg *RowGenerator) Rows(table *models.Table, n int) []map[string]any {
	columns := table.WritableColumns()
	rows := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		row := make(map[string]any, len(columns))
		for _, column := range columns {
			row[column.Name] = rg.Value(column)
		}
		rows = append(rows, row)
	}
	rg.Logger.Debugf("Generated %d sample rows for table %s", len(rows), table.Name())
	return rows
}

// Value generates data for a column based on its name and generation type
func (rg *RowGenerator) Value(column models.Column) any {
	if column.IsForeignKey() {
		// Seeded parents are assumed to start at 1
		return rg.Rand.Intn(rg.ParentRows) + 1
	}

	if column.Type == models.TypeString {
		if v, ok := rg.byName(strings.ToLower(column.Name)); ok {
			return v
		}
	}

	switch column.Type {
	case models.TypeInteger:
		return rg.Rand.Intn(1000) + 1
	case models.TypeFloat:
		return float64(rg.Rand.Intn(100000)) / 100
	case models.TypeBoolean:
		return rg.Rand.Intn(2) == 1
	case models.TypeDate:
		return rg.pastTime().Format("2006-01-02")
	case models.TypeDateTime:
		return rg.pastTime()
	case models.TypeTime:
		return fmt.Sprintf("%02d:%02d:%02d", rg.Rand.Intn(24), rg.Rand.Intn(60), rg.Rand.Intn(60))
	case models.TypeJSON:
		return rg.jsonValue(column)
	case models.TypeString:
		return rg.stringValue(column)
	default:
		rg.Logger.Warningf("No specific generator for type %s, using default string", column.Type)
		return rg.Faker.Lorem().Word()
	}
}

// byName handles special column names
func (rg *RowGenerator) byName(name string) (any, bool) {
	switch {
	case strings.Contains(name, "email"):
		return rg.Faker.Internet().Email(), true
	case strings.Contains(name, "name") && !strings.Contains(name, "file"):
		switch {
		case strings.Contains(name, "first"):
			return rg.Faker.Person().FirstName(), true
		case strings.Contains(name, "last"):
			return rg.Faker.Person().LastName(), true
		case strings.Contains(name, "user"):
			return rg.Faker.Internet().User(), true
		case strings.Contains(name, "company"), strings.Contains(name, "business"):
			return rg.Faker.Company().Name(), true
		default:
			return rg.Faker.Person().Name(), true
		}
	case strings.Contains(name, "phone"):
		return rg.Faker.Phone().Number(), true
	case strings.Contains(name, "address"):
		return rg.Faker.Address().Address(), true
	case strings.Contains(name, "city"):
		return rg.Faker.Address().City(), true
	case strings.Contains(name, "state"):
		return rg.Faker.Address().State(), true
	case strings.Contains(name, "country"):
		return rg.Faker.Address().Country(), true
	case strings.Contains(name, "zip"), strings.Contains(name, "postal"):
		return rg.Faker.Address().PostCode(), true
	case strings.Contains(name, "description"), strings.Contains(name, "summary"):
		return rg.Faker.Lorem().Paragraph(3), true
	case strings.Contains(name, "title"):
		return rg.Faker.Lorem().Sentence(4), true
	case strings.Contains(name, "url"), strings.Contains(name, "website"):
		return rg.Faker.Internet().URL(), true
	case name == "ip" || strings.HasPrefix(name, "ip_") || strings.HasSuffix(name, "_ip"):
		return rg.Faker.Internet().Ipv4(), true
	case strings.Contains(name, "password"):
		return rg.Faker.Internet().Password(), true
	case strings.Contains(name, "token"):
		return rg.Faker.RandomStringWithLength(32), true
	case strings.Contains(name, "color"):
		return rg.Faker.Color().Hex(), true
	case strings.Contains(name, "uuid"):
		return rg.Faker.UUID().V4(), true
	}
	return nil, false
}

func (rg *RowGenerator) stringValue(column models.Column) string {
	switch column.DBType {
	case "text", "mediumtext", "longtext":
		return rg.Faker.Lorem().Paragraph(2)
	case "char":
		return rg.Faker.RandomStringWithLength(2)
	default:
		return rg.Faker.Lorem().Sentence(3)
	}
}

// jsonValue picks a structure from the column name, falling back to a
// generic key/value object
func (rg *RowGenerator) jsonValue(column models.Column) map[string]any {
	name := strings.ToLower(column.Name)
	switch {
	case strings.Contains(name, "address"):
		return map[string]any{
			"street":  rg.Faker.Address().StreetAddress(),
			"city":    rg.Faker.Address().City(),
			"zipCode": rg.Faker.Address().PostCode(),
			"country": rg.Faker.Address().Country(),
		}
	case strings.Contains(name, "contact"), strings.Contains(name, "profile"):
		return map[string]any{
			"firstName": rg.Faker.Person().FirstName(),
			"lastName":  rg.Faker.Person().LastName(),
			"email":     rg.Faker.Internet().Email(),
		}
	default:
		return map[string]any{
			"key":     rg.Faker.Lorem().Word(),
			"value":   rg.Faker.Lorem().Word(),
			"version": fmt.Sprintf("%d.%d.%d", rg.Rand.Intn(10), rg.Rand.Intn(10), rg.Rand.Intn(10)),
		}
	}
}

// pastTime returns a moment within five years before referenceTime
func (rg *RowGenerator) pastTime() time.Time {
	offset := time.Duration(rg.Rand.Int63n(int64(5 * 365 * 24 * time.Hour)))
	return referenceTime.Add(-offset).Truncate(time.Second)
}
