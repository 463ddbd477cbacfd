//go:build e2e
// +build e2e

package e2e

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/developeraldawla/project-n8n/app/auth"
	"github.com/developeraldawla/project-n8n/config"
)

const (
	defaultToolhubAPIKey    = "toolhub-e2e-api-key"
	defaultToolhubJWTSecret = "toolhub-e2e-jwt-secret"
)

func toolhubAPIKey() string {
	if value := strings.TrimSpace(os.Getenv("TOOLHUB_API_KEY")); value != "" {
		return value
	}
	return defaultToolhubAPIKey
}

func toolhubJWTSecret() string {
	if value := strings.TrimSpace(os.Getenv("TOOLHUB_JWT_SECRET")); value != "" {
		return value
	}
	return defaultToolhubJWTSecret
}

// signToken mints a bearer token the running service accepts. The service
// must be started with the same JWT_SECRET and JWT_ISSUER.
func signToken(t *testing.T, userID, role string) string {
	t.Helper()
	verifier := auth.NewVerifier(config.AuthConfig{
		JWTSecret: toolhubJWTSecret(),
		JWTIssuer: strings.TrimSpace(os.Getenv("TOOLHUB_JWT_ISSUER")),
	})
	token, err := verifier.Sign(userID, role, 15*time.Minute)
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return token
}
