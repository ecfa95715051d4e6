package schema

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/datahen/farmindex/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestField_RoundTrip(t *testing.T) {
	ft := mustFieldType(t, KindString, 64)
	f, err := NewField("email", ft)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.WriteTo(&buf))
	require.Equal(t, FieldBytes, buf.Len())

	got, err := ReadField(&buf)
	require.NoError(t, err)
	require.Equal(t, "email", got.Name())
	require.Equal(t, KindString, got.Type().Kind())
	require.Equal(t, uint32(64), got.Type().StrCap())
}

func TestField_NameTooLong(t *testing.T) {
	_, err := NewField(strings.Repeat("a", 51), mustFieldType(t, KindBool, 0))
	require.Error(t, err)
	var asErr *utils.Error
	require.True(t, errors.As(err, &asErr))
	require.Equal(t, utils.KindInvalidValue, asErr.Kind)
}

func TestField_NameExactCapacity(t *testing.T) {
	f, err := NewField(strings.Repeat("a", MaxFieldNameBytes), mustFieldType(t, KindBool, 0))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.WriteTo(&buf))
	got, err := ReadField(&buf)
	require.NoError(t, err)
	require.Equal(t, f.Name(), got.Name())
}

func TestFieldBytes_Is59(t *testing.T) {
	require.Equal(t, 59, FieldBytes)
}
