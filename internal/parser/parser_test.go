package parser

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitebski/laravel-crud-generator/pkg/models"
)

func newTestParser() *SchemaParser {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel) // Suppress log output during tests
	return NewSchemaParser(logger)
}

func columnNames(cols []models.Column) []string {
	var names []string
	for _, c := range cols {
		names = append(names, c.Name)
	}
	return names
}

func TestParseUsersTable(t *testing.T) {
	ddl := `CREATE TABLE users (id SERIAL PRIMARY KEY, name VARCHAR(255) NOT NULL, email VARCHAR(255), created_at TIMESTAMP, updated_at TIMESTAMP);`

	result, err := newTestParser().Parse(ddl)
	require.NoError(t, err)

	table := result.Table
	assert.Equal(t, "users", table.Name())
	assert.Equal(t, "User", table.ModelName())
	assert.Equal(t, "UserController", table.ControllerName())
	assert.Equal(t, "UserService", table.ServiceName())
	assert.Equal(t, "users", table.RouteSlug())
	assert.Equal(t, []string{"id", "name", "email", "created_at", "updated_at"}, columnNames(table.Columns()))
	assert.Equal(t, []string{"name", "email"}, columnNames(table.WritableColumns()))

	id, ok := table.Column("id")
	require.True(t, ok)
	assert.True(t, id.PrimaryKey)
	assert.Equal(t, "serial", id.DBType)
	assert.Equal(t, models.TypeInteger, id.Type)

	name, _ := table.Column("name")
	assert.False(t, name.Nullable)
	assert.Equal(t, "varchar", name.DBType)
	assert.Equal(t, models.TypeString, name.Type)

	email, _ := table.Column("email")
	assert.True(t, email.Nullable)

	createdAt, _ := table.Column("created_at")
	assert.Equal(t, models.TypeDateTime, createdAt.Type)
	assert.Empty(t, result.Diagnostics)
}

func TestParseIntegerNotNull(t *testing.T) {
	result, err := newTestParser().Parse(`CREATE TABLE people (id INT PRIMARY KEY, age INTEGER NOT NULL)`)
	require.NoError(t, err)

	age, ok := result.Table.Column("age")
	require.True(t, ok)
	assert.Equal(t, models.TypeInteger, age.Type)
	assert.False(t, age.Nullable)
	assert.False(t, age.PrimaryKey)
}

func TestParseDoesNotSplitTypeParameters(t *testing.T) {
	ddl := `CREATE TABLE products (
		id BIGSERIAL PRIMARY KEY,
		price NUMERIC(10,2) NOT NULL,
		weight DECIMAL(8, 3),
		sku CHAR(12)
	)`

	result, err := newTestParser().Parse(ddl)
	require.NoError(t, err)
	require.Len(t, result.Table.Columns(), 4)

	price, _ := result.Table.Column("price")
	assert.Equal(t, "numeric", price.DBType)
	assert.Equal(t, models.TypeFloat, price.Type)

	weight, _ := result.Table.Column("weight")
	assert.Equal(t, "decimal", weight.DBType)
}

func TestParseTableLevelForeignKey(t *testing.T) {
	ddl := `CREATE TABLE books (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		author_id INTEGER NOT NULL,
		FOREIGN KEY (author_id) REFERENCES authors(id)
	)`

	result, err := newTestParser().Parse(ddl)
	require.NoError(t, err)
	require.Len(t, result.Table.Columns(), 3)

	author, ok := result.Table.Column("author_id")
	require.True(t, ok)
	assert.True(t, author.IsForeignKey())
	assert.Equal(t, "authors", author.ReferencedTable)
	assert.Equal(t, "id", author.ReferencedColumn)
	assert.Empty(t, result.Diagnostics)
}

func TestParseInlineReferences(t *testing.T) {
	ddl := `CREATE TABLE "public"."comments" (
		"id" BIGINT PRIMARY KEY,
		"post_id" BIGINT NOT NULL REFERENCES "posts" ("id") ON DELETE CASCADE,
		body TEXT
	)`

	result, err := newTestParser().Parse(ddl)
	require.NoError(t, err)
	assert.Equal(t, "comments", result.Table.Name())

	post, ok := result.Table.Column("post_id")
	require.True(t, ok)
	assert.Equal(t, "posts", post.ReferencedTable)
	assert.Equal(t, "id", post.ReferencedColumn)
	assert.False(t, post.Nullable)
}

func TestParseSkipsConstraintClauses(t *testing.T) {
	ddl := `CREATE TABLE accounts (
		id INT PRIMARY KEY,
		email VARCHAR(255),
		unique_code VARCHAR(8),
		CONSTRAINT uq_email UNIQUE (email),
		CHECK (id > 0)
	)`

	result, err := newTestParser().Parse(ddl)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "email", "unique_code"}, columnNames(result.Table.Columns()))
	assert.False(t, result.HasWarnings())

	var skippedCount int
	for _, d := range result.Diagnostics {
		if d.Kind == models.SkippedClause {
			skippedCount++
		}
	}
	assert.Equal(t, 2, skippedCount)
}

func TestParseColumnsNamedLikeKeywords(t *testing.T) {
	ddl := `CREATE TABLE cache (
		key VARCHAR(255) NOT NULL,
		value TEXT NOT NULL,
		expiration INTEGER NOT NULL,
		index INT,
		check BOOLEAN,
		KEY idx_expiration (expiration),
		INDEX (value(20)),
		FULLTEXT KEY ft_value (value),
		CHECK (expiration > 0)
	)`

	result, err := newTestParser().Parse(ddl)
	require.NoError(t, err)
	assert.Equal(t, []string{"key", "value", "expiration", "index", "check"}, columnNames(result.Table.Columns()))

	key, ok := result.Table.Column("key")
	require.True(t, ok)
	assert.Equal(t, "varchar", key.DBType)
	assert.False(t, key.Nullable)

	require.Len(t, result.Diagnostics, 4)
	for _, d := range result.Diagnostics {
		assert.Equal(t, models.SkippedClause, d.Kind)
	}
}

func TestParseCompositePrimaryKeyKeepsColumnsWritable(t *testing.T) {
	ddl := `CREATE TABLE post_tag (
		post_id INTEGER NOT NULL REFERENCES posts(id),
		tag_id INTEGER NOT NULL REFERENCES tags(id),
		PRIMARY KEY (post_id, tag_id)
	)`

	result, err := newTestParser().Parse(ddl)
	require.NoError(t, err)

	table := result.Table
	assert.False(t, table.HasExplicitPrimaryKey())
	assert.Equal(t, "id", table.PrimaryKey().Name)
	assert.Equal(t, []string{"post_id", "tag_id"}, columnNames(table.WritableColumns()))
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, models.SkippedClause, result.Diagnostics[0].Kind)
}

func TestParseSingleColumnTablePrimaryKey(t *testing.T) {
	result, err := newTestParser().Parse(`CREATE TABLE settings (name VARCHAR(64) NOT NULL, value TEXT, PRIMARY KEY (name))`)
	require.NoError(t, err)

	table := result.Table
	assert.True(t, table.HasExplicitPrimaryKey())
	assert.Equal(t, "name", table.PrimaryKey().Name)
	assert.Equal(t, []string{"value"}, columnNames(table.WritableColumns()))
	assert.Empty(t, result.Diagnostics)
}

func TestParseUnresolvedForeignKeyIsReported(t *testing.T) {
	ddl := `CREATE TABLE orders (id INT PRIMARY KEY, total NUMERIC(10,2), FOREIGN KEY (customer_id) REFERENCES customers(id))`

	result, err := newTestParser().Parse(ddl)
	require.NoError(t, err)
	require.Len(t, result.Table.Columns(), 2)
	assert.Empty(t, result.Table.ForeignKeys())
	require.True(t, result.HasWarnings())
	assert.Equal(t, models.UnresolvedForeignKey, result.Diagnostics[0].Kind)
}

func TestParseMySQLShowCreateTable(t *testing.T) {
	ddl := "CREATE TABLE `order_items` (\n" +
		"  `id` int unsigned NOT NULL AUTO_INCREMENT,\n" +
		"  `order_id` int unsigned NOT NULL,\n" +
		"  `quantity` smallint NOT NULL DEFAULT '1',\n" +
		"  `meta` json DEFAULT NULL,\n" +
		"  PRIMARY KEY (`id`),\n" +
		"  KEY `order_items_order_id_index` (`order_id`),\n" +
		"  CONSTRAINT `order_items_order_id_foreign` FOREIGN KEY (`order_id`) REFERENCES `orders` (`id`) ON DELETE CASCADE\n" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"

	result, err := newTestParser().Parse(ddl)
	require.NoError(t, err)

	table := result.Table
	assert.Equal(t, "order_items", table.Name())
	assert.Equal(t, "OrderItem", table.ModelName())
	assert.Equal(t, []string{"id", "order_id", "quantity", "meta"}, columnNames(table.Columns()))
	assert.True(t, table.HasExplicitPrimaryKey())
	assert.Equal(t, "id", table.PrimaryKey().Name)

	order, _ := table.Column("order_id")
	assert.Equal(t, "orders", order.ReferencedTable)

	meta, _ := table.Column("meta")
	assert.Equal(t, models.TypeJSON, meta.Type)
	assert.True(t, meta.Nullable)
}

func TestParseCompositeForeignKey(t *testing.T) {
	ddl := `CREATE TABLE enrollments (
		student_id INT, course_id INT, term TEXT,
		FOREIGN KEY (student_id, term) REFERENCES registrations(student_id, term)
	)`

	result, err := newTestParser().Parse(ddl)
	require.NoError(t, err)

	student, _ := result.Table.Column("student_id")
	term, _ := result.Table.Column("term")
	assert.Equal(t, "registrations", student.ReferencedTable)
	assert.Equal(t, "student_id", student.ReferencedColumn)
	assert.Equal(t, "term", term.ReferencedColumn)
}

func TestParseImplicitPrimaryKey(t *testing.T) {
	result, err := newTestParser().Parse(`create table if not exists tags (label text not null)`)
	require.NoError(t, err)

	table := result.Table
	assert.Equal(t, "tags", table.Name())
	assert.False(t, table.HasExplicitPrimaryKey())
	pk := table.PrimaryKey()
	assert.Equal(t, "id", pk.Name)
	assert.Equal(t, models.TypeInteger, pk.Type)
	assert.Len(t, table.Columns(), 1)
}

func TestParseReferenceWithoutColumn(t *testing.T) {
	result, err := newTestParser().Parse(`CREATE TABLE posts (id INT PRIMARY KEY, user_id INT REFERENCES users)`)
	require.NoError(t, err)

	user, _ := result.Table.Column("user_id")
	assert.False(t, user.IsForeignKey())
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, models.UnresolvedReference, result.Diagnostics[0].Kind)
}

func TestParseSkipsShortClauses(t *testing.T) {
	result, err := newTestParser().Parse(`CREATE TABLE t (id INT PRIMARY KEY, orphan, , note TEXT)`)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "note"}, columnNames(result.Table.Columns()))
}

func TestParseMalformedSchema(t *testing.T) {
	tests := []struct {
		name string
		ddl  string
	}{
		{"missing keyword", `DROP TABLE users`},
		{"missing open paren", `CREATE TABLE users`},
		{"missing close paren", `CREATE TABLE users (id INT`},
		{"empty column list", `CREATE TABLE users ( )`},
		{"missing table name", `CREATE TABLE (id INT)`},
		{"only constraints", `CREATE TABLE users (PRIMARY KEY (id))`},
		{"empty input", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newTestParser().Parse(tt.ddl)
			assert.Nil(t, result)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedSchema))

			var schemaErr *SchemaError
			assert.True(t, errors.As(err, &schemaErr))
		})
	}
}

func TestColumnCountMatchesColumnClauses(t *testing.T) {
	tests := []struct {
		ddl     string
		columns int
	}{
		{`CREATE TABLE a (x INT)`, 1},
		{`CREATE TABLE a (x INT, y NUMERIC(5,2), z TEXT, PRIMARY KEY (x))`, 3},
		{`CREATE TABLE a (x INT, UNIQUE (x), FOREIGN KEY (x) REFERENCES b(id), y BOOL)`, 2},
	}

	for _, tt := range tests {
		result, err := newTestParser().Parse(tt.ddl)
		require.NoError(t, err)
		assert.Len(t, result.Table.Columns(), tt.columns, tt.ddl)
	}
}

func TestForeignKeyInvariant(t *testing.T) {
	ddl := `CREATE TABLE t (
		id INT PRIMARY KEY,
		a_id INT REFERENCES a(id),
		b_id INT,
		c_id INT REFERENCES c,
		FOREIGN KEY (b_id) REFERENCES b(id)
	)`

	result, err := newTestParser().Parse(ddl)
	require.NoError(t, err)
	for _, c := range result.Table.Columns() {
		both := c.ReferencedTable != "" && c.ReferencedColumn != ""
		assert.Equal(t, both, c.IsForeignKey(), c.Name)
	}
}

func TestMapType(t *testing.T) {
	tests := []struct {
		dbType   string
		expected models.GenType
	}{
		{"serial", models.TypeInteger},
		{"BIGINT", models.TypeInteger},
		{"numeric", models.TypeFloat},
		{"double", models.TypeFloat},
		{"bool", models.TypeBoolean},
		{"date", models.TypeDate},
		{"timestamptz", models.TypeDateTime},
		{"datetime", models.TypeDateTime},
		{"time", models.TypeTime},
		{"jsonb", models.TypeJSON},
		{"varchar", models.TypeString},
		{"uuid", models.TypeString},
		{"", models.TypeString},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapType(tt.dbType))
		})
	}
}
