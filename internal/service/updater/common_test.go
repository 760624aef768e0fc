package updater

import (
	"crypto/sha512"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseVersionFromOutput covers the version command output parser.
func TestParseVersionFromOutput(t *testing.T) {
	t.Parallel()

	version, err := parseVersionFromOutput("version: 1.2.3, commit: abc123, built at: 2026-01-01\n")
	require.NoError(t, err)
	require.Equal(t, "1.2.3", version)

	_, err = parseVersionFromOutput("something else entirely")
	require.ErrorIs(t, err, errInvalidVersionOutput)

	_, err = parseVersionFromOutput("version: ")
	require.ErrorIs(t, err, errInvalidVersionOutput)
}

// TestGetFileChecksum verifies the checksum matches a direct SHA512 sum.
func TestGetFileChecksum(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "artifact.bin")
	contents := []byte("artifact-contents")
	require.NoError(t, os.WriteFile(path, contents, 0o600))

	checksum, err := GetFileChecksum(path)
	require.NoError(t, err)

	expected := sha512.Sum512(contents)
	require.Equal(t, expected[:], checksum)
}

// TestAllowedUserRoles ensures both roles carry the shared tooling.
func TestAllowedUserRoles(t *testing.T) {
	t.Parallel()

	roles := AllowedUserRoles()
	require.Len(t, roles, 2)

	for role, files := range roles {
		require.Contains(t, files, checkerExecutable(), "role %s", role)
		require.Contains(t, files, updaterExecutable(), "role %s", role)
	}

	executables := ExecutablesByUserRoles()
	require.Equal(t, monitorExecutable(), executables["station"])
	require.Equal(t, checkerExecutable(), executables["console"])
}
