package schema

import (
	"errors"
	"testing"

	"github.com/datahen/farmindex/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestRecord_AddGetInsertionOrder(t *testing.T) {
	r := NewRecord()
	require.NoError(t, r.Add("name", NewString("alice")))
	require.NoError(t, r.Add("age", NewI32(30)))

	require.Equal(t, []string{"name", "age"}, r.Names())
	require.Equal(t, 2, r.Len())

	v, ok := r.Get("age")
	require.True(t, ok)
	require.True(t, v.Equal(NewI32(30)))
}

func TestRecord_AddDuplicateFails(t *testing.T) {
	r := NewRecord()
	require.NoError(t, r.Add("name", NewString("alice")))
	err := r.Add("name", NewString("bob"))
	require.Error(t, err)
	var asErr *utils.Error
	require.True(t, errors.As(err, &asErr))
	require.Equal(t, utils.KindDuplicateField, asErr.Kind)
}

func TestRecord_SetRequiresExistingKey(t *testing.T) {
	r := NewRecord()
	require.NoError(t, r.Add("name", NewString("alice")))
	require.NoError(t, r.Set("name", NewString("bob")))

	v, _ := r.Get("name")
	require.True(t, v.Equal(NewString("bob")))

	err := r.Set("missing", NewString("x"))
	require.Error(t, err)
}

func TestRecord_SetByIndexAndGetByIndex(t *testing.T) {
	r := NewRecord()
	require.NoError(t, r.Add("a", NewI8(1)))
	require.NoError(t, r.Add("b", NewI8(2)))

	r.SetByIndex(1, NewI8(9))
	require.True(t, r.GetByIndex(1).Equal(NewI8(9)))
}

func TestRecord_Range(t *testing.T) {
	r := NewRecord()
	require.NoError(t, r.Add("a", NewI8(1)))
	require.NoError(t, r.Add("b", NewI8(2)))
	require.NoError(t, r.Add("c", NewI8(3)))

	var seen []string
	r.Range(func(name string, v Value) bool {
		seen = append(seen, name)
		return name != "b"
	})
	require.Equal(t, []string{"a", "b"}, seen)
}
