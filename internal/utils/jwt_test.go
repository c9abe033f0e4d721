package utils

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("test-secret", 42, time.Hour)
	if err != nil {
		t.Fatalf("签发失败: %v", err)
	}

	claims, err := ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("用户 ID 错误: %d", claims.UserID)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret-a", 1, time.Hour)
	if err != nil {
		t.Fatalf("签发失败: %v", err)
	}
	if _, err := ParseToken("secret-b", token); err == nil {
		t.Fatal("错误密钥应该解析失败")
	}
}

func TestTokenExpired(t *testing.T) {
	token, err := GenerateToken("test-secret", 1, -time.Minute)
	if err != nil {
		t.Fatalf("签发失败: %v", err)
	}
	if _, err := ParseToken("test-secret", token); err == nil {
		t.Fatal("过期令牌应该解析失败")
	}
}

func TestTokenGarbage(t *testing.T) {
	if _, err := ParseToken("test-secret", "not.a.token"); err == nil {
		t.Fatal("非法令牌应该解析失败")
	}
}
