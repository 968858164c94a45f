package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/model/auth"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

func TestClaims(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	user := &model.User{ID: types.NewUserID(), Email: "admin@kyclytics.com", Name: "Admin", Role: types.RoleAdmin}

	claims := auth.NewClaims(user, now.Add(time.Hour))
	gt.Bool(t, claims.IsAdmin()).True()
	gt.Bool(t, claims.IsExpired(now)).False()
	gt.Bool(t, claims.IsExpired(now.Add(time.Hour))).True()

	officer := auth.NewClaims(&model.User{ID: types.NewUserID()}, now)
	gt.Value(t, officer.Role).Equal(types.RoleComplianceOfficer)
	gt.Bool(t, officer.IsAdmin()).False()
}

func TestClaimsContext(t *testing.T) {
	_, ok := auth.ClaimsFromContext(context.Background())
	gt.Bool(t, ok).False()

	claims := &auth.Claims{Email: "officer@example.com"}
	ctx := auth.ContextWithClaims(context.Background(), claims)
	got, ok := auth.ClaimsFromContext(ctx)
	gt.Bool(t, ok).True()
	gt.Value(t, got.Email).Equal("officer@example.com")
}
