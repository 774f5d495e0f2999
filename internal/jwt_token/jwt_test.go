package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
)

func newTestService() *JWTService {
	return NewJWTService("test-signing-key", "carelink", "carelink-api")
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService()
	profileID := id.NewProfileID()

	token, err := svc.GenerateAccessToken(profileID, "acct-1", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, profileID.String(), claims.ProfileID)
	assert.Equal(t, "acct-1", claims.AccountID)
	assert.Equal(t, "carelink", claims.Issuer)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateAccessToken(id.NewProfileID(), "acct-1", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	assert.Equal(t, "token has expired", dErrors.MessageOf(err))
}

func TestValidateRejectsWrongKey(t *testing.T) {
	token, err := newTestService().GenerateAccessToken(id.NewProfileID(), "acct-1", time.Hour)
	require.NoError(t, err)

	other := NewJWTService("a-different-key", "carelink", "carelink-api")
	_, err = other.ValidateToken(token)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := newTestService().ValidateToken("not.a.token")
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}

func TestExtractProfileID(t *testing.T) {
	svc := newTestService()
	profileID := id.NewProfileID()

	token, err := svc.GenerateAccessToken(profileID, "acct-1", time.Hour)
	require.NoError(t, err)

	got, err := svc.ExtractProfileID(token)
	require.NoError(t, err)
	assert.Equal(t, profileID, got)
}
