package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Karthick1242004/cmms-sub009/config"
)

func TestJWTRoundTrip(t *testing.T) {
	config.JWTKey = []byte("test-secret")
	config.JWTExpiration = time.Hour

	token, err := GenerateJWT("64f000000000000000000001", "Dana Ops", RoleTechnician, "Maintenance")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "64f000000000000000000001", claims.UserID)
	assert.Equal(t, "Dana Ops", claims.Name)
	assert.Equal(t, RoleTechnician, claims.Role)
	assert.Equal(t, "Maintenance", claims.Department)
}

func TestValidateJWTRejectsExpired(t *testing.T) {
	config.JWTKey = []byte("test-secret")
	config.JWTExpiration = -time.Minute

	token, err := GenerateJWT("64f000000000000000000001", "Dana Ops", RoleTechnician, "Maintenance")
	require.NoError(t, err)

	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestValidateJWTRejectsWrongKey(t *testing.T) {
	config.JWTKey = []byte("test-secret")
	config.JWTExpiration = time.Hour

	token, err := GenerateJWT("64f000000000000000000001", "Dana Ops", RoleTechnician, "Maintenance")
	require.NoError(t, err)

	config.JWTKey = []byte("another-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	config.JWTKey = []byte("test-secret")
	_, err := ValidateJWT("not.a.token")
	assert.Error(t, err)
}
