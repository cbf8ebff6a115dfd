package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVars_MarshalKeepsInsertionOrder(t *testing.T) {
	v := domain.NewVars("j", 1, "i", 0, "arr", []int{3, 1})

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"j":1,"i":0,"arr":[3,1]}`, string(data))
	assert.Equal(t, `{"j":1,"i":0,"arr":[3,1]}`, string(data))
}

func TestVars_UnmarshalRoundTrip(t *testing.T) {
	v := domain.NewVars("low", 0, "high", 5, "label", "pivot", "arr", []int{1, 2}, "nodes", []string{"A"}, "ptr", nil)

	data, err := json.Marshal(v)
	require.NoError(t, err)

	var decoded domain.Vars
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, v, decoded)
}

func TestVars_EmptySlicesSurviveRoundTrip(t *testing.T) {
	var queue []string
	v := domain.NewVars("queue", []string{}, "visited", queue, "arr", []int{}, "nodes", []string{"A"})
	got, _ := v.Get("queue")
	assert.Equal(t, []any{}, got)

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"queue":[],"visited":[],"arr":[],"nodes":["A"]}`, string(data))

	var decoded domain.Vars
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, v, decoded)
}

func TestVars_Merge(t *testing.T) {
	base := domain.NewVars("i", 0, "j", 1)
	overlay := domain.NewVars("j", 2, "swaps", 1)

	merged := base.Merge(overlay)

	assert.Equal(t, []string{"i", "j", "swaps"}, merged.Names())
	j, ok := merged.Get("j")
	require.True(t, ok)
	assert.Equal(t, 2, j)

	// Inputs stay untouched.
	j, _ = base.Get("j")
	assert.Equal(t, 1, j)
	assert.Len(t, overlay, 2)
}

func TestVars_CloneIsDeep(t *testing.T) {
	arr := []int{1, 2, 3}
	v := domain.NewVars("arr", arr)
	c := v.Clone()

	arr[0] = 99
	got, _ := c.Get("arr")
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestNewVars_PanicsOnBadArguments(t *testing.T) {
	assert.Panics(t, func() { domain.NewVars("a") })
	assert.Panics(t, func() { domain.NewVars(1, 2) })
}

func TestVars_String(t *testing.T) {
	v := domain.NewVars("i", 1, "node", nil, "arr", []int{1, 2})
	assert.Equal(t, "i=1 node=null arr=[1 2]", v.String())
}
