package farmindex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	cases := map[Status]string{
		StatusNew:            "new",
		StatusIndexing:       "indexing",
		StatusIncomplete:     "incomplete",
		StatusCorrupted:      "corrupted",
		StatusIndexed:        "indexed",
		StatusWrongInputFile: "wrong_input_file",
	}
	for status, want := range cases {
		require.Equal(t, want, status.String())
	}
}

func TestClassifyBuildError_WrapsActionableStatuses(t *testing.T) {
	cause := errors.New("fingerprint differs")
	err := ClassifyBuildError(StatusWrongInputFile, cause)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, StatusWrongInputFile, statusErr.Status)
	require.ErrorIs(t, err, cause)
}

func TestClassifyBuildError_PassesThroughOtherStatuses(t *testing.T) {
	cause := errors.New("transient io error")
	err := ClassifyBuildError(StatusIndexing, cause)
	require.Equal(t, cause, err)
}

func TestClassifyBuildError_NilErrorStaysNil(t *testing.T) {
	require.NoError(t, ClassifyBuildError(StatusCorrupted, nil))
}
