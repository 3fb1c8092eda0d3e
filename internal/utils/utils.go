package utils

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/vitebski/laravel-crud-generator/internal/analyzer"
	"github.com/vitebski/laravel-crud-generator/internal/parser"
	"github.com/vitebski/laravel-crud-generator/pkg/models"
)

// SetupLogging configures the logging system
func SetupLogging(logLevel string) *logrus.Logger {
	logger := logrus.New()

	// Get log level from parameter or environment variable
	levelStr := logLevel
	if levelStr == "" {
		levelStr = os.Getenv("CRUDGEN_LOG_LEVEL")
		if levelStr == "" {
			levelStr = "info"
		}
	}

	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}

	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetOutput(os.Stderr)

	logger.Debugf("Logging configured with level: %s", level)
	return logger
}

// LoadEnvironmentVariables loads environment variables from .env file.
// Variables already set in the environment win over the file.
func LoadEnvironmentVariables(envFile string, logger *logrus.Logger) bool {
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		sampleEnvFile := envFile + ".sample"
		if _, err := os.Stat(sampleEnvFile); err == nil {
			logger.Infof("No %s file found, but %s exists. Consider copying %s to %s and updating it.",
				envFile, sampleEnvFile, sampleEnvFile, envFile)
		} else {
			logger.Debugf("No %s file found, using existing environment variables", envFile)
		}
		return false
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warningf("Error loading %s file: %v", envFile, err)
		return false
	}
	logger.Infof("Loaded environment variables from %s", envFile)

	if logger.IsLevelEnabled(logrus.DebugLevel) {
		for _, env := range os.Environ() {
			if !strings.HasPrefix(env, "MYSQL_") && !strings.HasPrefix(env, "CRUDGEN_") {
				continue
			}
			parts := strings.SplitN(env, "=", 2)
			if len(parts) != 2 {
				continue
			}
			// Mask password
			if parts[0] == "MYSQL_PASSWORD" {
				logger.Debugf("%s=********", parts[0])
			} else {
				logger.Debugf("%s=%s", parts[0], parts[1])
			}
		}
	}

	return true
}

// ValidateConnectionParams validates database connection parameters
func ValidateConnectionParams(host, user, password, database, port string, logger *logrus.Logger) bool {
	if host == "" {
		logger.Error("Database host is required")
		return false
	}

	if user == "" {
		logger.Error("Database user is required")
		return false
	}

	if password == "" { // Empty password is allowed
		logger.Warning("Database password is empty")
	}

	if database == "" {
		logger.Error("Database name is required")
		return false
	}

	if _, err := strconv.Atoi(port); err != nil {
		logger.Errorf("Invalid port number: %s", port)
		return false
	}

	return true
}

// PrintSummary prints a summary of the generation run
func PrintSummary(w io.Writer, result models.GenerationResult, dryRun bool) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 50))
	fmt.Fprintln(w, "CRUD GENERATION SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintf(w, "Successfully generated tables: %d\n", len(result.SuccessfulTables))
	fmt.Fprintf(w, "Failed inputs: %d\n", len(result.FailedInputs))
	if dryRun {
		fmt.Fprintf(w, "Files that would be written: %d\n", len(result.FilesWritten))
	} else {
		fmt.Fprintf(w, "Files written: %d\n", len(result.FilesWritten))
	}

	if len(result.FilesWritten) > 0 {
		fmt.Fprintln(w, "\nFiles:")
		for _, file := range result.FilesWritten {
			fmt.Fprintf(w, "  - %s\n", file)
		}
	}

	if len(result.FailedInputs) > 0 {
		fmt.Fprintln(w, "\nFailed inputs:")
		for _, input := range result.FailedInputs {
			fmt.Fprintf(w, "  - %s\n", input)
		}
	}

	fmt.Fprintln(w, strings.Repeat("=", 50))
}

// PrintTableReport prints the parsed columns and diagnostics of one table
func PrintTableReport(w io.Writer, source string, result *parser.Result) {
	table := result.Table
	pk := table.PrimaryKey()

	fmt.Fprintln(w, "\n"+strings.Repeat("-", 80))
	fmt.Fprintf(w, "TABLE %s (from %s)\n", table.Name(), source)
	fmt.Fprintf(w, "   Model: %s   Controller: %s   Service: %s   Route: /%s\n",
		table.ModelName(), table.ControllerName(), table.ServiceName(), table.RouteSlug())
	if table.HasExplicitPrimaryKey() {
		fmt.Fprintf(w, "   Primary key: %s\n", pk.Name)
	} else {
		fmt.Fprintf(w, "   Primary key: %s (implicit)\n", pk.Name)
	}

	fmt.Fprintf(w, "\n   %-24s %-14s %-9s %-5s %-8s %s\n", "COLUMN", "DB TYPE", "TYPE", "PK", "NULL", "REFERENCES")
	for _, c := range table.Columns() {
		ref := ""
		if c.IsForeignKey() {
			ref = c.ReferencedTable + "(" + c.ReferencedColumn + ")"
		}
		fmt.Fprintf(w, "   %-24s %-14s %-9s %-5s %-8s %s\n",
			c.Name, c.DBType, c.Type, yesNo(c.PrimaryKey), yesNo(c.Nullable), ref)
	}

	if len(result.Diagnostics) > 0 {
		fmt.Fprintln(w, "\n   Diagnostics:")
		for _, d := range result.Diagnostics {
			fmt.Fprintf(w, "     [%s] %s: %s\n", d.Kind, d.Message, d.Clause)
		}
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// PrintProjectAnalysis prints how the tables of a batch relate to each other
func PrintProjectAnalysis(w io.Writer, projectAnalyzer *analyzer.ProjectAnalyzer) {
	tables := projectAnalyzer.Tables
	foreignKeys := projectAnalyzer.ForeignKeys
	manyToManyTables := projectAnalyzer.ManyToManyTables

	orderedTables, circularTables := projectAnalyzer.GetGenerationOrder()

	fmt.Fprintln(w, "\n"+strings.Repeat("=", 80))
	fmt.Fprintln(w, "SCHEMA ANALYSIS REPORT")
	fmt.Fprintln(w, strings.Repeat("=", 80))

	fmt.Fprintln(w, "\n1. BASIC STATISTICS")
	fmt.Fprintf(w, "   Total tables: %d\n", len(tables))
	fmt.Fprintf(w, "   Tables with foreign keys: %d\n", len(foreignKeys))
	fmt.Fprintf(w, "   Many-to-many relationship tables: %d\n", len(manyToManyTables))
	fmt.Fprintf(w, "   Tables in circular dependencies: %d\n", len(circularTables))

	if len(circularTables) > 0 {
		fmt.Fprintln(w, "\n2. CIRCULAR DEPENDENCIES")
		for _, dep := range projectAnalyzer.DirectCircularDeps {
			fmt.Fprintf(w, "     %s\n", strings.Join(dep, " <-> "))
		}
	}

	if len(manyToManyTables) > 0 {
		var manyToManyTablesList []string
		for table := range manyToManyTables {
			manyToManyTablesList = append(manyToManyTablesList, table)
		}
		sort.Strings(manyToManyTablesList)
		fmt.Fprintln(w, "\n3. MANY-TO-MANY RELATIONSHIP TABLES")
		fmt.Fprintf(w, "   Tables: %s\n", strings.Join(manyToManyTablesList, ", "))
	}

	if len(projectAnalyzer.MissingReferences) > 0 {
		fmt.Fprintln(w, "\n4. REFERENCES OUTSIDE THIS BATCH")
		for _, table := range tables {
			if missing, ok := projectAnalyzer.MissingReferences[table]; ok {
				fmt.Fprintf(w, "   %s -> %s\n", table, strings.Join(missing, ", "))
			}
		}
	}

	fmt.Fprintln(w, "\n5. GENERATION ORDER")
	for i, table := range orderedTables {
		category := "Standalone"
		if manyToManyTables[table] {
			category = "Many-to-Many"
		} else if circularTables[table] {
			category = "Circular"
		} else if _, hasFKs := foreignKeys[table]; hasFKs {
			category = "Dependent"
		}
		fmt.Fprintf(w, "   %3d. %s (%s)\n", i+1, table, category)
	}

	fmt.Fprintln(w, "\n"+strings.Repeat("=", 80))
}
