package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"justeat/models"
)

func TestGenerateAndVerify(t *testing.T) {
	m := NewManager("secret", time.Hour)

	issued, err := m.GenerateToken(42, models.RoleOwner)
	require.NoError(t, err)
	require.NotEmpty(t, issued.TokenID)

	claims, err := m.VerifyToken(issued.Token)
	require.NoError(t, err)
	require.Equal(t, uint(42), claims.UserID)
	require.Equal(t, models.RoleOwner, claims.Role)
	require.Equal(t, issued.TokenID, claims.ID)
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	issued, err := NewManager("secret", time.Hour).GenerateToken(1, models.RoleCustomer)
	require.NoError(t, err)

	_, err = NewManager("other", time.Hour).VerifyToken(issued.Token)
	require.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := NewManager("secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }
	issued, err := m.GenerateToken(1, models.RoleCustomer)
	require.NoError(t, err)

	_, err = NewManager("secret", time.Minute).VerifyToken(issued.Token)
	require.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewManager("secret", time.Hour).VerifyToken("not-a-token")
	require.Error(t, err)
}
