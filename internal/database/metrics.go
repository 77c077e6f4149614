package database

import "strings"

// statementLabels extracts the SQL verb and the primary table from a query so
// latency can be bucketed without unbounded label cardinality. Anything it
// cannot parse falls into the "other"/"unknown" buckets.
func statementLabels(sql string) (operation, table string) {
	operation, table = "other", "unknown"

	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return operation, table
	}

	verb := strings.ToUpper(fields[0])
	switch verb {
	case "SELECT", "DELETE":
		operation = verb
		// Only a FROM outside parentheses names the statement's table;
		// count subqueries in the select list must not win.
		depth := 0
		for i, f := range fields {
			if depth == 0 && strings.EqualFold(f, "FROM") && i+1 < len(fields) {
				table = cleanTableName(fields[i+1])
				break
			}
			depth += strings.Count(f, "(") - strings.Count(f, ")")
		}
	case "INSERT":
		operation = verb
		for i, f := range fields {
			if strings.EqualFold(f, "INTO") && i+1 < len(fields) {
				table = cleanTableName(fields[i+1])
				break
			}
		}
	case "UPDATE":
		operation = verb
		if len(fields) > 1 {
			table = cleanTableName(fields[1])
		}
	}

	return operation, table
}

func cleanTableName(token string) string {
	token = strings.Trim(token, `"`)
	if i := strings.IndexAny(token, "(,;"); i >= 0 {
		token = token[:i]
	}
	token = strings.Trim(token, `"`)
	if token == "" {
		return "unknown"
	}
	return token
}
