package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := Generate("s3cret", "kasir-01", RoleKasir, "pos-beras", 5)
	require.NoError(t, err)

	userID, role, err := Parse("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "kasir-01", userID)
	assert.Equal(t, RoleKasir, role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := Generate("s3cret", "u1", RoleAdmin, "pos-beras", 5)
	require.NoError(t, err)

	_, _, err = Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := Generate("s3cret", "u1", RoleAdmin, "pos-beras", -1)
	require.NoError(t, err)

	_, _, err = Parse("s3cret", tok)
	assert.Error(t, err)
}

func TestGenerate_Invalidos(t *testing.T) {
	_, err := Generate("", "u1", RoleAdmin, "x", 5)
	assert.Error(t, err)

	_, err = Generate("s", "u1", "gerente", "x", 5)
	assert.Error(t, err)
}
