package model

import "sort"

// DuplicateFieldKeys returns every key used by more than one field, sorted.
func DuplicateFieldKeys(fields []Field) []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}
	return duplicates(keys)
}

// DuplicateOptionValues returns every value used by more than one option, sorted.
func DuplicateOptionValues(options []Option) []string {
	values := make([]string, len(options))
	for i, o := range options {
		values[i] = o.Value
	}
	return duplicates(values)
}

func duplicates(items []string) []string {
	counts := make(map[string]int, len(items))
	for _, s := range items {
		counts[s]++
	}
	var out []string
	for s, n := range counts {
		if n > 1 {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
