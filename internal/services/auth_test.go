package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yarnwise/yarnwise-backend/internal/apperrors"
	"github.com/yarnwise/yarnwise-backend/internal/logger"
	"github.com/yarnwise/yarnwise-backend/internal/requestdata"
)

const testSecret = "test-secret"

func newAuthServiceForTest(t *testing.T) AuthService {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	return NewAuthService(nil, log, nil, nil, nil, testSecret, time.Hour, 24*time.Hour)
}

func signTestToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestSetContextFromToken_RoundTrip(t *testing.T) {
	svc := newAuthServiceForTest(t)
	userID := uuid.New()
	now := time.Now()

	token := signTestToken(t, jwt.MapClaims{
		"sub":   userID.String(),
		"email": "knitter@example.com",
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}, testSecret)

	ctx, err := svc.SetContextFromToken(context.Background(), token)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		t.Fatalf("expected request data on context")
	}
	if rd.UserID != userID {
		t.Fatalf("expected user %s, got %s", userID, rd.UserID)
	}
	if rd.Email != "knitter@example.com" {
		t.Fatalf("unexpected email %q", rd.Email)
	}
}

func TestSetContextFromToken_Rejections(t *testing.T) {
	svc := newAuthServiceForTest(t)
	now := time.Now()
	userID := uuid.New()

	cases := map[string]string{
		"empty": "",
		"wrong secret": signTestToken(t, jwt.MapClaims{
			"sub": userID.String(),
			"exp": now.Add(time.Hour).Unix(),
		}, "other-secret"),
		"expired": signTestToken(t, jwt.MapClaims{
			"sub": userID.String(),
			"exp": now.Add(-time.Hour).Unix(),
		}, testSecret),
		"non-uuid subject": signTestToken(t, jwt.MapClaims{
			"sub": "not-a-uuid",
			"exp": now.Add(time.Hour).Unix(),
		}, testSecret),
	}
	for name, token := range cases {
		if _, err := svc.SetContextFromToken(context.Background(), token); !errors.Is(err, apperrors.ErrUnauthenticated) {
			t.Fatalf("%s: expected ErrUnauthenticated, got %v", name, err)
		}
	}
}

func TestLogoutWithoutSessionIsUnauthenticated(t *testing.T) {
	svc := newAuthServiceForTest(t)
	if err := svc.LogoutUser(context.Background()); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
