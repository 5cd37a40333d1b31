package engine

import "strings"

// UnknownGroup is the bucket for rows with a missing or empty group key.
const UnknownGroup = "Unknown"

// Group is one bucket of output rows sharing an organization name.
type Group struct {
	Name string
	Rows [][]string
}

// GroupRows buckets rows by the value at keyIdx. Bucket order is
// first-seen order; row order within a bucket is input order. A negative
// or out-of-range keyIdx places every row in the Unknown bucket.
func GroupRows(rows [][]string, keyIdx int) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, row := range rows {
		name := UnknownGroup
		if keyIdx >= 0 && keyIdx < len(row) {
			if v := strings.TrimSpace(row[keyIdx]); v != "" {
				name = v
			}
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Name: name})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}
	return groups
}
