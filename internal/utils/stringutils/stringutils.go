package stringutils

import "fmt"

// INClause builds the placeholder list and argument slice for a SQL IN
// clause, e.g. ["$1", "$2"] for two items.
func INClause[T any](list []T) (placeholders []string, args []any) {
	placeholders = make([]string, len(list))
	args = make([]any, len(list))
	for i, item := range list {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = item
	}

	return placeholders, args
}
