package models

// StringList is a JSON-serialized list of entity ids. Stored as a JSON column
// so it round-trips identically on Postgres and the SQLite fallback.
type StringList []string

// Contains reports whether id is present in the list.
func (l StringList) Contains(id string) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Without returns a copy of the list with id removed.
func (l StringList) Without(id string) StringList {
	out := make(StringList, 0, len(l))
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Union returns a deduplicated copy of the list with ids appended.
func (l StringList) Union(ids ...string) StringList {
	seen := make(map[string]bool, len(l)+len(ids))
	out := make(StringList, 0, len(l)+len(ids))
	for _, v := range append(append(StringList{}, l...), ids...) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// Diff returns the ids present in other but not in l.
func Diff(l, other StringList) StringList {
	out := StringList{}
	for _, v := range other {
		if !l.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}

// JSONMap holds free-form keyed details on history records.
type JSONMap map[string]any
