package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	sub := Subject{UserID: "u1", CompanyID: "c1", Role: "bodeguero", Email: "b@magacin.rs"}

	tok, err := Generate("secret", sub, "magacin-test", 5)
	require.NoError(t, err)

	got, err := Parse("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, sub, got)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := Generate("secret", Subject{UserID: "u1", CompanyID: "c1"}, "magacin-test", 5)
	require.NoError(t, err)

	_, err = Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := Generate("secret", Subject{UserID: "u1", CompanyID: "c1"}, "magacin-test", -1)
	require.NoError(t, err)

	_, err = Parse("secret", tok)
	assert.Error(t, err)
}

func TestGenerate_SinSecret(t *testing.T) {
	_, err := Generate("", Subject{UserID: "u1"}, "x", 5)
	assert.Error(t, err)
}
