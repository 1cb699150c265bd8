package jwt

import (
	"testing"
	"time"

	"github.com/presensia/attendance-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePunchTokenBindsClaims(t *testing.T) {
	svc := NewJWTService("test-secret", "1h", "2m")

	token, expiresAt, err := svc.MintPunchToken("emp-1", "co-1", "in", "2026-08-10")
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	assert.NoError(t, svc.ValidatePunchToken(token, "emp-1", "in", "2026-08-10"))
	assert.Error(t, svc.ValidatePunchToken(token, "emp-2", "in", "2026-08-10"))
	assert.Error(t, svc.ValidatePunchToken(token, "emp-1", "out", "2026-08-10"))
	assert.Error(t, svc.ValidatePunchToken(token, "emp-1", "in", "2026-08-11"))
}

func TestValidatePunchTokenExpired(t *testing.T) {
	// A negative TTL mints a token whose exp is already past the 30s
	// skew allowance.
	svc := NewJWTService("test-secret", "1h", "-5m")

	token, _, err := svc.MintPunchToken("emp-1", "co-1", "in", "2026-08-10")
	require.NoError(t, err)

	assert.Error(t, svc.ValidatePunchToken(token, "emp-1", "in", "2026-08-10"))
}

func TestValidatePunchTokenRejectsAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", "1h", "2m")
	empID := "emp-1"

	token, _, err := svc.GenerateAccessToken("user-1", &empID, "co-1", user.RoleEmployee)
	require.NoError(t, err)

	assert.Error(t, svc.ValidatePunchToken(token, "emp-1", "in", "2026-08-10"))
}
