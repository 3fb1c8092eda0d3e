package analyzer

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/vitebski/laravel-crud-generator/pkg/models"
	"github.com/yourbasic/graph"
)

func newTestAnalyzer() *ProjectAnalyzer {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel) // Suppress log output during tests
	return NewProjectAnalyzer(logger)
}

func idColumn() models.Column {
	return models.Column{Name: "id", DBType: "serial", Type: models.TypeInteger, PrimaryKey: true}
}

func fkColumn(name, table string) models.Column {
	return models.Column{Name: name, DBType: "integer", Type: models.TypeInteger, ReferencedTable: table, ReferencedColumn: "id"}
}

func blogTables() []*models.Table {
	return []*models.Table{
		models.NewTable("user_posts", []models.Column{idColumn(), fkColumn("user_id", "users"), fkColumn("post_id", "posts")}),
		models.NewTable("comments", []models.Column{idColumn(), fkColumn("post_id", "posts"), {Name: "body", DBType: "text"}}),
		models.NewTable("posts", []models.Column{idColumn(), fkColumn("user_id", "users"), {Name: "title", DBType: "varchar"}}),
		models.NewTable("users", []models.Column{idColumn(), {Name: "name", DBType: "varchar"}}),
	}
}

func indexOf(list []string, value string) int {
	for i, v := range list {
		if v == value {
			return i
		}
	}
	return -1
}

func TestNewProjectAnalyzer(t *testing.T) {
	analyzer := newTestAnalyzer()

	if analyzer == nil {
		t.Fatal("Expected analyzer to be created, got nil")
	}
	if analyzer.Logger == nil {
		t.Error("Expected analyzer.Logger to be set")
	}
	if analyzer.ForeignKeys == nil {
		t.Error("Expected analyzer.ForeignKeys to be initialized")
	}
	if analyzer.ManyToManyTables == nil {
		t.Error("Expected analyzer.ManyToManyTables to be initialized")
	}
	if analyzer.TableMap == nil {
		t.Error("Expected analyzer.TableMap to be initialized")
	}
	if analyzer.MissingReferences == nil {
		t.Error("Expected analyzer.MissingReferences to be initialized")
	}
}

func TestAnalyzeBuildsDependencyGraph(t *testing.T) {
	analyzer := newTestAnalyzer()
	analyzer.Analyze(blogTables())

	if len(analyzer.Tables) != 4 {
		t.Fatalf("Expected 4 tables, got %d", len(analyzer.Tables))
	}

	posts := analyzer.TableIndexMap["posts"]
	users := analyzer.TableIndexMap["users"]
	if !analyzer.DependencyGraph.Edge(posts, users) {
		t.Error("Expected an edge from posts to users")
	}
	if analyzer.DependencyGraph.Edge(users, posts) {
		t.Error("Expected no edge from users to posts")
	}
	if len(analyzer.ForeignKeys["user_posts"]) != 2 {
		t.Errorf("Expected 2 foreign keys on user_posts, got %d", len(analyzer.ForeignKeys["user_posts"]))
	}
}

func TestDetectManyToManyTables(t *testing.T) {
	analyzer := newTestAnalyzer()
	analyzer.Analyze(blogTables())

	if !analyzer.ManyToManyTables["user_posts"] {
		t.Error("Expected user_posts to be detected as a many-to-many table")
	}
	if analyzer.ManyToManyTables["comments"] {
		t.Error("Expected comments not to be detected as a many-to-many table")
	}
}

func TestDetectManyToManyWithoutPrimaryKey(t *testing.T) {
	analyzer := newTestAnalyzer()
	analyzer.Analyze([]*models.Table{
		models.NewTable("role_user", []models.Column{fkColumn("role_id", "roles"), fkColumn("user_id", "users")}),
	})

	if !analyzer.ManyToManyTables["role_user"] {
		t.Error("Expected role_user to be detected as a many-to-many table")
	}
}

func TestGetCircularTables(t *testing.T) {
	analyzer := newTestAnalyzer()

	analyzer.Tables = []string{"employees", "departments"}
	analyzer.TableIndexMap = map[string]int{
		"employees":   0,
		"departments": 1,
	}
	analyzer.IndexTableMap = map[int]string{
		0: "employees",
		1: "departments",
	}

	// Create a dependency graph with a circular dependency
	analyzer.DependencyGraph = graph.New(2)
	analyzer.DependencyGraph.AddCost(0, 1, 1)
	analyzer.DependencyGraph.AddCost(1, 0, 1)

	circularTables := analyzer.GetCircularTables()

	if !circularTables["employees"] {
		t.Error("Expected employees to be detected as a circular table")
	}
	if !circularTables["departments"] {
		t.Error("Expected departments to be detected as a circular table")
	}
	if len(analyzer.DirectCircularDeps) != 1 {
		t.Fatalf("Expected 1 circular dependency, got %d", len(analyzer.DirectCircularDeps))
	}
	if analyzer.DirectCircularDeps[0][0] != "departments" || analyzer.DirectCircularDeps[0][1] != "employees" {
		t.Errorf("Expected [departments employees], got %v", analyzer.DirectCircularDeps[0])
	}
}

func TestSelfReferenceIsNotCircular(t *testing.T) {
	analyzer := newTestAnalyzer()
	analyzer.Analyze([]*models.Table{
		models.NewTable("categories", []models.Column{idColumn(), fkColumn("parent_id", "categories")}),
	})

	order, circular := analyzer.GetGenerationOrder()
	if len(circular) != 0 {
		t.Errorf("Expected no circular tables, got %v", circular)
	}
	if len(order) != 1 || order[0] != "categories" {
		t.Errorf("Expected [categories], got %v", order)
	}
}

func TestGetGenerationOrder(t *testing.T) {
	analyzer := newTestAnalyzer()
	analyzer.Analyze(blogTables())

	orderedTables, circularTables := analyzer.GetGenerationOrder()

	if len(orderedTables) != 4 {
		t.Fatalf("Expected 4 tables in the ordered list, got %d", len(orderedTables))
	}

	usersIndex := indexOf(orderedTables, "users")
	postsIndex := indexOf(orderedTables, "posts")
	commentsIndex := indexOf(orderedTables, "comments")
	userPostsIndex := indexOf(orderedTables, "user_posts")

	if usersIndex > postsIndex {
		t.Error("Expected users to come before posts in the ordered list")
	}
	if postsIndex > commentsIndex {
		t.Error("Expected posts to come before comments in the ordered list")
	}
	if userPostsIndex != len(orderedTables)-1 {
		t.Error("Expected user_posts to be the last table in the ordered list")
	}
	if len(circularTables) != 0 {
		t.Errorf("Expected 0 circular tables, got %d", len(circularTables))
	}
}

func TestGetGenerationOrderWithCycle(t *testing.T) {
	analyzer := newTestAnalyzer()
	analyzer.Analyze([]*models.Table{
		models.NewTable("employees", []models.Column{idColumn(), fkColumn("department_id", "departments")}),
		models.NewTable("departments", []models.Column{idColumn(), fkColumn("manager_id", "employees")}),
		models.NewTable("offices", []models.Column{idColumn()}),
	})

	orderedTables, circularTables := analyzer.GetGenerationOrder()

	expected := []string{"offices", "departments", "employees"}
	if len(orderedTables) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, orderedTables)
	}
	for i := range expected {
		if orderedTables[i] != expected[i] {
			t.Errorf("Expected %v, got %v", expected, orderedTables)
			break
		}
	}
	if len(circularTables) != 2 {
		t.Errorf("Expected 2 circular tables, got %d", len(circularTables))
	}
}

func TestMissingReferences(t *testing.T) {
	analyzer := newTestAnalyzer()
	analyzer.Analyze([]*models.Table{
		models.NewTable("posts", []models.Column{idColumn(), fkColumn("author_id", "authors"), fkColumn("editor_id", "authors")}),
	})

	missing := analyzer.MissingReferences["posts"]
	if len(missing) != 1 || missing[0] != "authors" {
		t.Errorf("Expected [authors], got %v", missing)
	}

	order, _ := analyzer.GetGenerationOrder()
	if len(order) != 1 {
		t.Errorf("Expected posts to be ordered despite the missing reference, got %v", order)
	}
}

func TestInverseRelations(t *testing.T) {
	analyzer := newTestAnalyzer()
	analyzer.Analyze(blogTables())

	relations := analyzer.InverseRelations("users")
	if len(relations) != 2 {
		t.Fatalf("Expected 2 inverse relations for users, got %d", len(relations))
	}

	byAccessor := make(map[string]models.Relationship)
	for _, rel := range relations {
		byAccessor[rel.Accessor] = rel
	}

	posts, ok := byAccessor["posts"]
	if !ok {
		t.Fatalf("Expected a posts accessor, got %v", relations)
	}
	if posts.Kind != models.HasMany || posts.RelatedModel != "Post" || posts.ForeignKey != "user_id" || posts.OwnerKey != "id" {
		t.Errorf("Unexpected posts relation: %+v", posts)
	}
	if posts.Speculative {
		t.Error("Expected inverse relations not to be speculative")
	}
	if _, ok := byAccessor["userPosts"]; !ok {
		t.Errorf("Expected a userPosts accessor, got %v", relations)
	}
}

func TestInverseRelationsDisambiguatesAccessors(t *testing.T) {
	analyzer := newTestAnalyzer()
	analyzer.Analyze([]*models.Table{
		models.NewTable("users", []models.Column{idColumn()}),
		models.NewTable("messages", []models.Column{idColumn(), fkColumn("sender_id", "users"), fkColumn("recipient_id", "users")}),
	})

	relations := analyzer.InverseRelations("users")
	if len(relations) != 2 {
		t.Fatalf("Expected 2 inverse relations, got %d", len(relations))
	}
	if relations[0].Accessor != "messages" {
		t.Errorf("Expected messages, got %s", relations[0].Accessor)
	}
	if relations[1].Accessor != "recipientMessages" {
		t.Errorf("Expected recipientMessages, got %s", relations[1].Accessor)
	}
}
