package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueParseRoundTrip(t *testing.T) {
	token, exp, err := Issue("admin-1", "admin", "latecomer", "secret", time.Hour)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := Parse(token, "secret", "latecomer")
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseRejectsWrongKeyAndIssuer(t *testing.T) {
	token, _, err := Issue("admin-1", "admin", "latecomer", "secret", time.Hour)
	require.NoError(t, err)

	_, err = Parse(token, "other-secret", "latecomer")
	assert.Error(t, err)

	_, err = Parse(token, "secret", "someone-else")
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	token, _, err := Issue("admin-1", "admin", "latecomer", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = Parse(token, "secret", "latecomer")
	assert.Error(t, err)
}
