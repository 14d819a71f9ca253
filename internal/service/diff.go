package service

import (
	"encoding/json"
	"sort"

	"github.com/PT-GSA/ai-cms-backend/internal/domain"
)

// ComputeDiff compares two field snapshots by key and classifies each
// changed key as added, modified or deleted. Keys equal in both snapshots
// are omitted. Pure function; either input may be nil or empty.
//
// Equality is structural and insensitive to object key order, so a nested
// object whose keys merely moved around does not report as modified.
func ComputeDiff(oldFields, newFields map[string]interface{}) []domain.FieldDiff {
	keys := make(map[string]struct{}, len(oldFields)+len(newFields))
	for k := range oldFields {
		keys[k] = struct{}{}
	}
	for k := range newFields {
		keys[k] = struct{}{}
	}

	ordered := make([]string, 0, len(keys))
	for k := range keys {
		ordered = append(ordered, k)
	}
	sort.Strings(ordered)

	diffs := make([]domain.FieldDiff, 0)
	for _, key := range ordered {
		oldVal, inOld := oldFields[key]
		newVal, inNew := newFields[key]

		switch {
		case !inOld:
			diffs = append(diffs, domain.FieldDiff{
				Field:    key,
				OldValue: nil,
				NewValue: newVal,
				Change:   domain.DiffAdded,
			})
		case !inNew:
			diffs = append(diffs, domain.FieldDiff{
				Field:    key,
				OldValue: oldVal,
				NewValue: nil,
				Change:   domain.DiffDeleted,
			})
		case !jsonEqual(oldVal, newVal):
			diffs = append(diffs, domain.FieldDiff{
				Field:    key,
				OldValue: oldVal,
				NewValue: newVal,
				Change:   domain.DiffModified,
			})
		}
	}

	return diffs
}

// jsonEqual reports structural equality of two JSON values. Numbers are
// compared by value regardless of their Go representation (int vs float64
// depending on whether the value round-tripped through encoding/json).
func jsonEqual(a, b interface{}) bool {
	switch av := a.(type) {
	case map[string]interface{}:
		bv, ok := b.(map[string]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, present := bv[k]
			if !present || !jsonEqual(v, bvv) {
				return false
			}
		}
		return true

	case []interface{}:
		bv, ok := b.([]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !jsonEqual(av[i], bv[i]) {
				return false
			}
		}
		return true

	case nil:
		return b == nil
	}

	if af, aok := asFloat(a); aok {
		bf, bok := asFloat(b)
		return bok && af == bf
	}

	return a == b
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
