package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/utils"
)

func TestLogin(t *testing.T) {
	h := newHarness(t, nil)
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, "billing-api")
	auth := NewAuthService(h.repos.Staff, jwtManager, zap.NewNop())
	ctx := context.Background()

	t.Run("valid PIN issues a token", func(t *testing.T) {
		out, err := auth.Login(ctx, &LoginInput{StaffID: "STAFF-001", PIN: "1001"})
		require.NoError(t, err)
		assert.Equal(t, "Vikram Singh", out.Staff.Name)

		claims, err := jwtManager.ValidateAccessToken(out.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "STAFF-001", claims.StaffID)
	})

	t.Run("wrong PIN", func(t *testing.T) {
		_, err := auth.Login(ctx, &LoginInput{StaffID: "STAFF-001", PIN: "9999"})
		assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
	})

	t.Run("unknown staff", func(t *testing.T) {
		_, err := auth.Login(ctx, &LoginInput{StaffID: "STAFF-404", PIN: "1001"})
		assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
	})

	t.Run("missing PIN", func(t *testing.T) {
		_, err := auth.Login(ctx, &LoginInput{StaffID: "STAFF-001"})
		assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
	})
}
