package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workin/internal/domain"
	"workin/internal/service"
)

func protectedRouter(t *testing.T, repo *mockUserRepo, tokens *service.TokenService, roles ...string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{AuthRequired(zap.NewNop(), false, tokens, repo)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(zap.NewNop(), false, roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "role": user.Role})
	})
	r.GET("/protected", handlers...)
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequiredAllowsValidToken(t *testing.T) {
	repo := newMockUserRepo()
	repo.put(domain.User{ID: "u1", Email: "ana@x.com", Role: domain.RoleUser, Verified: true})
	tokens := service.NewTokenService("secret")
	token, err := tokens.Issue(service.Claims{UserID: "u1", Email: "ana@x.com", Role: domain.RoleUser, TokenType: service.TokenTypeSession}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	rec := doGet(protectedRouter(t, repo, tokens), token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	rec := doGet(protectedRouter(t, newMockUserRepo(), service.NewTokenService("secret")), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRequiredRejectsExpiredToken(t *testing.T) {
	repo := newMockUserRepo()
	repo.put(domain.User{ID: "u1", Email: "ana@x.com"})
	tokens := service.NewTokenService("secret")
	token, err := tokens.Issue(service.Claims{UserID: "u1", TokenType: service.TokenTypeSession}, -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	rec := doGet(protectedRouter(t, repo, tokens), token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

// Los tokens de acción viajan por correo a direcciones no autenticadas; aunque
// lleven un UserID firmado y vigente, nunca valen como sesión.
func TestAuthRequiredRejectsActionTokens(t *testing.T) {
	repo := newMockUserRepo()
	repo.put(domain.User{ID: "u1", Email: "ana@x.com", Role: domain.RoleUser, Verified: true})
	tokens := service.NewTokenService("secret")

	for _, typ := range []string{service.TokenTypeVerify, service.TokenTypeReset, service.TokenTypeEmailChange} {
		token, err := tokens.Issue(service.Claims{UserID: "u1", Email: "ana@x.com", TokenType: typ}, time.Hour)
		if err != nil {
			t.Fatalf("issue %s: %v", typ, err)
		}
		rec := doGet(protectedRouter(t, repo, tokens), token)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s token: expected 401, got %d (%s)", typ, rec.Code, rec.Body.String())
		}
	}
}

func TestAuthRequiredRejectsDeletedUser(t *testing.T) {
	repo := newMockUserRepo()
	repo.put(domain.User{ID: "u1", Email: "ana@x.com"})
	tokens := service.NewTokenService("secret")
	token, err := tokens.Issue(service.Claims{UserID: "u1", TokenType: service.TokenTypeSession}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	repo.remove("u1")

	rec := doGet(protectedRouter(t, repo, tokens), token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for vanished user, got %d", rec.Code)
	}
}

// El middleware adjunta el registro fresco del store, no los claims: un cambio
// de rol posterior a la emisión del token se refleja de inmediato.
func TestAuthRequiredAttachesFreshUser(t *testing.T) {
	repo := newMockUserRepo()
	repo.put(domain.User{ID: "u1", Email: "ana@x.com", Role: domain.RoleUser, Verified: true})
	tokens := service.NewTokenService("secret")
	token, err := tokens.Issue(service.Claims{UserID: "u1", Role: domain.RoleUser, TokenType: service.TokenTypeSession}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	repo.put(domain.User{ID: "u1", Email: "ana@x.com", Role: domain.RoleAdmin, Verified: true})

	rec := doGet(protectedRouter(t, repo, tokens, domain.RoleAdmin), token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with escalated role, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestRequireRoleForbidsWrongRole(t *testing.T) {
	repo := newMockUserRepo()
	repo.put(domain.User{ID: "u1", Email: "ana@x.com", Role: domain.RoleUser, Verified: true})
	tokens := service.NewTokenService("secret")
	token, err := tokens.Issue(service.Claims{UserID: "u1", Role: domain.RoleUser, TokenType: service.TokenTypeSession}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	rec := doGet(protectedRouter(t, repo, tokens, domain.RoleAdmin), token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
