package rules

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakesift/lakesift/internal/common"
)

func TestNewSet_CustomRules(t *testing.T) {
	custom := []Definition{
		{
			Name:            "employee_id",
			Kind:            KindRegex,
			Description:     "Internal employee identifier",
			Pattern:         `^E[0-9]{6}$`,
			MatchExamples:   []string{"E123456"},
			NoMatchExamples: []string{"X123456", "E12345"},
		},
	}

	set, err := NewSet(custom)
	require.NoError(t, err)
	assert.Equal(t, len(Builtins())+1, set.Len())

	rule, err := set.Get("employee_id")
	require.NoError(t, err)
	assert.True(t, rule.Match("E654321"))
	assert.False(t, rule.Match("E65432"))
}

func TestNewSet_DuplicateName(t *testing.T) {
	tests := []struct {
		name   string
		custom []Definition
	}{
		{
			name:   "custom shadows built-in",
			custom: []Definition{{Name: "email", Pattern: `.*`}},
		},
		{
			name: "custom duplicates custom",
			custom: []Definition{
				{Name: "employee_id", Pattern: `^E[0-9]{6}$`},
				{Name: "employee_id", Pattern: `^E[0-9]{7}$`},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := NewSet(tt.custom)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "duplicate rule name")
			assert.Nil(t, set)
		})
	}
}

func TestNewSet_InvalidCustomRule(t *testing.T) {
	_, err := NewSet([]Definition{{Name: "bad", Pattern: `[`}})
	require.Error(t, err)

	var defErr *DefinitionError
	require.True(t, errors.As(err, &defErr))
	assert.Equal(t, "bad", defErr.Rule)
}

func TestSet_Get_Unknown(t *testing.T) {
	set, err := NewSet(nil)
	require.NoError(t, err)

	_, err = set.Get("no_such_rule")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestSet_All_Sorted(t *testing.T) {
	set, err := NewSet([]Definition{
		{Name: "zz_last", Pattern: `z`},
		{Name: "aa_first", Pattern: `a`},
	})
	require.NoError(t, err)

	all := set.All()
	names := make([]string, len(all))
	for i, r := range all {
		names[i] = r.Name
	}
	assert.True(t, sort.StringsAreSorted(names), "All() must be sorted by name, got %v", names)
	assert.Equal(t, "aa_first", names[0])
}
