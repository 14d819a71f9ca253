package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PT-GSA/ai-cms-backend/internal/domain"
)

func TestComputeDiff_IdenticalSnapshots(t *testing.T) {
	fields := map[string]interface{}{
		"title": "Hello",
		"views": float64(10),
		"tags":  []interface{}{"a", "b"},
	}

	diffs := ComputeDiff(fields, fields)

	assert.Empty(t, diffs)
}

func TestComputeDiff_Classification(t *testing.T) {
	oldFields := map[string]interface{}{
		"kept":    "same",
		"changed": "before",
		"removed": "gone",
	}
	newFields := map[string]interface{}{
		"kept":    "same",
		"changed": "after",
		"added":   "new",
	}

	diffs := ComputeDiff(oldFields, newFields)

	assert.Len(t, diffs, 3)

	// Results are ordered by field name
	assert.Equal(t, "added", diffs[0].Field)
	assert.Equal(t, domain.DiffAdded, diffs[0].Change)
	assert.Nil(t, diffs[0].OldValue)
	assert.Equal(t, "new", diffs[0].NewValue)

	assert.Equal(t, "changed", diffs[1].Field)
	assert.Equal(t, domain.DiffModified, diffs[1].Change)
	assert.Equal(t, "before", diffs[1].OldValue)
	assert.Equal(t, "after", diffs[1].NewValue)

	assert.Equal(t, "removed", diffs[2].Field)
	assert.Equal(t, domain.DiffDeleted, diffs[2].Change)
	assert.Equal(t, "gone", diffs[2].OldValue)
	assert.Nil(t, diffs[2].NewValue)
}

func TestComputeDiff_NilInputs(t *testing.T) {
	assert.Empty(t, ComputeDiff(nil, nil))

	diffs := ComputeDiff(nil, map[string]interface{}{"a": 1})
	assert.Len(t, diffs, 1)
	assert.Equal(t, domain.DiffAdded, diffs[0].Change)

	diffs = ComputeDiff(map[string]interface{}{"a": 1}, nil)
	assert.Len(t, diffs, 1)
	assert.Equal(t, domain.DiffDeleted, diffs[0].Change)
}

func TestComputeDiff_NestedKeyOrderInsensitive(t *testing.T) {
	oldFields := map[string]interface{}{
		"meta": map[string]interface{}{"author": "kim", "year": float64(2024)},
	}
	newFields := map[string]interface{}{
		"meta": map[string]interface{}{"year": float64(2024), "author": "kim"},
	}

	assert.Empty(t, ComputeDiff(oldFields, newFields))
}

func TestComputeDiff_NestedValueChange(t *testing.T) {
	oldFields := map[string]interface{}{
		"meta": map[string]interface{}{"author": "kim"},
	}
	newFields := map[string]interface{}{
		"meta": map[string]interface{}{"author": "lee"},
	}

	diffs := ComputeDiff(oldFields, newFields)

	assert.Len(t, diffs, 1)
	assert.Equal(t, "meta", diffs[0].Field)
	assert.Equal(t, domain.DiffModified, diffs[0].Change)
}

func TestComputeDiff_NumericRepresentation(t *testing.T) {
	// A snapshot that round-tripped through JSON carries float64 where the
	// live entry still holds int. Equal values must not report as modified.
	oldFields := map[string]interface{}{"count": float64(5)}
	newFields := map[string]interface{}{"count": 5}

	assert.Empty(t, ComputeDiff(oldFields, newFields))

	newFields["count"] = 6
	diffs := ComputeDiff(oldFields, newFields)
	assert.Len(t, diffs, 1)
	assert.Equal(t, domain.DiffModified, diffs[0].Change)
}

func TestComputeDiff_ArrayOrderSensitive(t *testing.T) {
	oldFields := map[string]interface{}{"tags": []interface{}{"a", "b"}}
	newFields := map[string]interface{}{"tags": []interface{}{"b", "a"}}

	diffs := ComputeDiff(oldFields, newFields)

	assert.Len(t, diffs, 1)
	assert.Equal(t, domain.DiffModified, diffs[0].Change)
}

func TestComputeDiff_NullVersusAbsent(t *testing.T) {
	// An explicit null is still a present key; removing it is a delete,
	// not a no-op.
	oldFields := map[string]interface{}{"subtitle": nil}
	newFields := map[string]interface{}{}

	diffs := ComputeDiff(oldFields, newFields)

	assert.Len(t, diffs, 1)
	assert.Equal(t, "subtitle", diffs[0].Field)
	assert.Equal(t, domain.DiffDeleted, diffs[0].Change)
}
