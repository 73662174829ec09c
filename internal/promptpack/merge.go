package promptpack

import "github.com/kiosk404/echosql/internal/domain/entity"

// MergeStrings merges scalar string lists according to strategy. For
// override/replace, hi wins outright; for append, hi is appended after lo;
// for unique, hi is appended after lo with duplicates of lo dropped.
func MergeStrings(lo, hi []string, strategy entity.ListMergeStrategy) []string {
	switch strategy {
	case entity.MergeAppend:
		out := make([]string, 0, len(lo)+len(hi))
		out = append(out, lo...)
		out = append(out, hi...)
		return out
	case entity.MergeUnique:
		seen := make(map[string]bool, len(lo))
		out := make([]string, 0, len(lo)+len(hi))
		for _, v := range lo {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
		for _, v := range hi {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
		return out
	case entity.MergeOverride, entity.MergeReplace, "":
		if len(hi) > 0 {
			return hi
		}
		return lo
	default:
		if len(hi) > 0 {
			return hi
		}
		return lo
	}
}

// MergeByID merges two lists of id-keyed maps: entries in hi override
// entries in lo that share the same value under idKey, in lo's position;
// lo's entries keep lo's original order, and hi entries whose id is not
// in lo are appended after.
func MergeByID(lo, hi []map[string]interface{}, idKey string) []map[string]interface{} {
	index := make(map[interface{}]int, len(lo))
	out := make([]map[string]interface{}, len(lo))
	copy(out, lo)
	for i, item := range lo {
		index[item[idKey]] = i
	}
	for _, item := range hi {
		id := item[idKey]
		if i, ok := index[id]; ok {
			out[i] = item
			continue
		}
		index[id] = len(out)
		out = append(out, item)
	}
	return out
}
