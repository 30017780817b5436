package libs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	require.Equal(t, filepath.Join(GetHome(), "walkeys"), ExpandPath("~/walkeys"))
	require.Equal(t, "/tmp/walkeys", ExpandPath("/tmp/walkeys"))
}

func TestReadCredentialOrEnv(t *testing.T) {
	t.Setenv("LIBS_TEST_SECRET", "s3cret")
	s, err := ReadCredentialOrEnv("unused: ", "LIBS_TEST_SECRET")
	require.NoError(t, err)
	require.Equal(t, []byte("s3cret"), s)

	ClearCredential(s)
	require.Equal(t, make([]byte, 6), s)
}
