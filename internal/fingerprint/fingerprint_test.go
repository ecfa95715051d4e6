package fingerprint

import (
	"bytes"
	"crypto/sha256"
	"strings"
	"testing"

	"github.com/datahen/farmindex/internal/indexfile"
	"github.com/stretchr/testify/require"
)

func TestCompute_MatchesStdlibSHA256(t *testing.T) {
	data := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog", 500))

	got, err := Compute(bytes.NewReader(data))
	require.NoError(t, err)

	want := sha256.Sum256(data)
	require.Equal(t, want, got)
}

func TestCompute_EmptyInput(t *testing.T) {
	got, err := Compute(bytes.NewReader(nil))
	require.NoError(t, err)
	require.Equal(t, sha256.Sum256(nil), got)
}

func TestCompute_SpansMultipleChunks(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, ChunkSize*3+17)
	got, err := Compute(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, sha256.Sum256(data), got)
}

func TestMatches(t *testing.T) {
	fp := sha256.Sum256([]byte("hello"))

	h := &indexfile.Header{HashPresent: true, Fingerprint: fp}
	require.True(t, Matches(h, fp))

	other := sha256.Sum256([]byte("world"))
	require.False(t, Matches(h, other))

	h.HashPresent = false
	require.False(t, Matches(h, fp))
}
