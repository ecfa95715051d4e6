package indexfile

import (
	"bytes"
	"errors"
	"testing"

	"github.com/datahen/farmindex/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestHeaderBytes_Is58(t *testing.T) {
	require.Equal(t, 58, HeaderBytes)
}

func TestHeader_WriteReadRoundTrip(t *testing.T) {
	h := &Header{
		Version:      Version,
		Indexed:      true,
		IndexedCount: 42,
		InputKind:    InputKindCSV,
		HashPresent:  true,
	}
	for i := range h.Fingerprint {
		h.Fingerprint[i] = byte(i)
	}

	var buf bytes.Buffer
	require.NoError(t, h.WriteTo(&buf))
	require.Equal(t, HeaderBytes, buf.Len())

	got, err := ReadHeader(&buf)
	require.NoError(t, err)
	require.Equal(t, *h, *got)
}

func TestHeader_WriteReadRoundTrip_NoFingerprint(t *testing.T) {
	h := &Header{Version: Version, InputKind: InputKindJSON}

	var buf bytes.Buffer
	require.NoError(t, h.WriteTo(&buf))

	got, err := ReadHeader(&buf)
	require.NoError(t, err)
	require.False(t, got.HashPresent)
	require.Equal(t, [FingerprintSize]byte{}, got.Fingerprint)
}

func TestReadHeader_BadMagic(t *testing.T) {
	buf := make([]byte, HeaderBytes)
	copy(buf, "notanindex!")

	_, err := ReadHeader(bytes.NewReader(buf))
	require.Error(t, err)
	var asErr *utils.Error
	require.True(t, errors.As(err, &asErr))
	require.Equal(t, utils.KindInvalidFormat, asErr.Kind)
}

func TestReadHeader_BadVersion(t *testing.T) {
	h := &Header{Version: Version + 1}
	var buf bytes.Buffer
	require.NoError(t, h.WriteTo(&buf))

	_, err := ReadHeader(&buf)
	require.Error(t, err)
	var asErr *utils.Error
	require.True(t, errors.As(err, &asErr))
	require.Equal(t, utils.KindInvalidFormat, asErr.Kind)
}

func TestReadHeader_UnknownInputKind(t *testing.T) {
	h := &Header{Version: Version, InputKind: InputKind(99)}
	var buf bytes.Buffer
	require.NoError(t, h.WriteTo(&buf))

	_, err := ReadHeader(&buf)
	require.Error(t, err)
}

func TestReadHeader_ShortRead(t *testing.T) {
	_, err := ReadHeader(bytes.NewReader(make([]byte, HeaderBytes-1)))
	require.Error(t, err)
}

func TestInputKind_String(t *testing.T) {
	require.Equal(t, "csv", InputKindCSV.String())
	require.Equal(t, "json", InputKindJSON.String())
	require.Equal(t, "unknown", InputKindUnknown.String())
}
