package codegen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var phpStringEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// phpLiteral renders a Go value as a PHP literal for the seeder template
func phpLiteral(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return "'" + phpStringEscaper.Replace(val) + "'"
	case time.Time:
		return "'" + val.Format("2006-01-02 15:04:05") + "'"
	case []string:
		items := make([]string, len(val))
		for i, s := range val {
			items[i] = phpLiteral(s)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		items := make([]string, len(keys))
		for i, k := range keys {
			items[i] = phpLiteral(k) + " => " + phpLiteral(val[k])
		}
		return "[" + strings.Join(items, ", ") + "]"
	default:
		return phpLiteral(fmt.Sprint(val))
	}
}
