package promptpack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kiosk404/echosql/internal/domain/entity"
)

func TestMergeStrings_Override(t *testing.T) {
	require.Equal(t, []string{"c", "d"}, MergeStrings([]string{"a", "b"}, []string{"c", "d"}, entity.MergeOverride))
	require.Equal(t, []string{"a", "b"}, MergeStrings([]string{"a", "b"}, nil, entity.MergeOverride))
}

func TestMergeStrings_Replace(t *testing.T) {
	require.Equal(t, []string{"c"}, MergeStrings([]string{"a", "b"}, []string{"c"}, entity.MergeReplace))
}

func TestMergeStrings_DefaultStrategyIsOverride(t *testing.T) {
	require.Equal(t, []string{"c"}, MergeStrings([]string{"a"}, []string{"c"}, ""))
}

func TestMergeStrings_Append(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, MergeStrings([]string{"a", "b"}, []string{"c"}, entity.MergeAppend))
}

func TestMergeStrings_AppendAllowsDuplicates(t *testing.T) {
	require.Equal(t, []string{"a", "a"}, MergeStrings([]string{"a"}, []string{"a"}, entity.MergeAppend))
}

func TestMergeStrings_Unique(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, MergeStrings([]string{"a", "b"}, []string{"b", "c"}, entity.MergeUnique))
}

func TestMergeStrings_UnknownStrategyFallsBackToOverride(t *testing.T) {
	require.Equal(t, []string{"c"}, MergeStrings([]string{"a"}, []string{"c"}, entity.ListMergeStrategy("bogus")))
}

func TestMergeByID_OverridesSharedIDsKeepsOrderAppendsNew(t *testing.T) {
	lo := []map[string]interface{}{
		{"id": "a", "v": 1},
		{"id": "b", "v": 2},
	}
	hi := []map[string]interface{}{
		{"id": "b", "v": 20},
		{"id": "c", "v": 3},
	}

	out := MergeByID(lo, hi, "id")

	require.Len(t, out, 3)
	require.Equal(t, 1, out[0]["v"])
	require.Equal(t, 20, out[1]["v"]) // overridden in place, lo's position kept
	require.Equal(t, 3, out[2]["v"])  // new entry appended after
}

func TestMergeByID_EmptyHiReturnsLoUnchanged(t *testing.T) {
	lo := []map[string]interface{}{{"id": "a", "v": 1}}
	out := MergeByID(lo, nil, "id")
	require.Equal(t, lo, out)
}
