package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	tok, err := Issue("s3cret", "alice", RoleLibrarian, time.Hour)
	require.NoError(t, err)

	claims, err := ParseAuth("Bearer "+tok, "s3cret")
	require.NoError(t, err)
	require.Equal(t, "alice", claims["sub"])
	require.Equal(t, RoleLibrarian, claims["role"])

	_, err = ParseAuth(tok, "other")
	require.Error(t, err)
}

func TestParseAuth_Rejects(t *testing.T) {
	expired, err := Issue("s3cret", "alice", RoleLibrarian, -time.Minute)
	require.NoError(t, err)
	_, err = ParseAuth(expired, "s3cret")
	require.Error(t, err)

	_, err = ParseAuth("Bearer ", "s3cret")
	require.Error(t, err)

	_, err = Issue("", "alice", RoleLibrarian, time.Hour)
	require.Error(t, err)
}
