package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateYParse(t *testing.T) {
	tok, err := Generate("s3cr3t", "u-1", "finanzas", "erp-ledger", 5)
	require.NoError(t, err)

	userID, role, err := Parse("s3cr3t", "erp-ledger", tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "finanzas", role)
}

func TestParse_Rechazos(t *testing.T) {
	tok, err := Generate("s3cr3t", "u-1", "admin", "erp-ledger", 5)
	require.NoError(t, err)

	_, _, err = Parse("otro", "erp-ledger", tok)
	assert.Error(t, err, "firma incorrecta")

	_, _, err = Parse("s3cr3t", "otro-emisor", tok)
	assert.Error(t, err)

	expired, err := Generate("s3cr3t", "u-1", "admin", "erp-ledger", -1)
	require.NoError(t, err)
	_, _, err = Parse("s3cr3t", "erp-ledger", expired)
	assert.Error(t, err)

	_, err = Generate("", "u", "admin", "", 1)
	assert.Error(t, err)
}
