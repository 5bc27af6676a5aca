package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopoSort(t *testing.T) {
	tests := []struct {
		name        string
		names       []string
		constraints map[string]Constraint
		want        []string
		wantErr     bool
	}{
		{
			name:  "no constraints keeps order",
			names: []string{"a", "b", "c"},
			want:  []string{"a", "b", "c"},
		},
		{
			name:        "before",
			names:       []string{"a", "b", "c"},
			constraints: map[string]Constraint{"c": {Before: []string{"a"}}},
			want:        []string{"b", "c", "a"},
		},
		{
			name:        "after",
			names:       []string{"a", "b", "c"},
			constraints: map[string]Constraint{"a": {After: []string{"c"}}},
			want:        []string{"b", "c", "a"},
		},
		{
			name:        "unknown names ignored",
			names:       []string{"a", "b"},
			constraints: map[string]Constraint{"a": {After: []string{"missing"}}, "ghost": {Before: []string{"a"}}},
			want:        []string{"a", "b"},
		},
		{
			name:  "cycle",
			names: []string{"a", "b"},
			constraints: map[string]Constraint{
				"a": {After: []string{"b"}},
				"b": {After: []string{"a"}},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TopoSort(tt.names, tt.constraints)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "cycle")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrdered(t *testing.T) {
	tv := NewTemplateVariables()
	ar := NewAttributeRewriter(nil)

	got, err := Ordered([]Processor{tv, ar}, map[string]Constraint{
		TemplateVariablesName: {After: []string{AttributeRewriterName}},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, AttributeRewriterName, got[0].Name())
	assert.Equal(t, TemplateVariablesName, got[1].Name())

	_, err = Ordered([]Processor{tv, NewTemplateVariables()}, map[string]Constraint{"x": {}})
	assert.Error(t, err)
}
