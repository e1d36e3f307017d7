package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lingerie-shop/internal/authz"
	"github.com/lingerie-shop/internal/cache"
	"github.com/lingerie-shop/internal/config"
	"github.com/lingerie-shop/internal/constants"
	"github.com/lingerie-shop/internal/models"
	"github.com/lingerie-shop/internal/repository"
	"github.com/lingerie-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

type routerTestEnv struct {
	users *repository.GormUserRepository
	auth  *service.UserAuthService
	authz *authz.Service
}

func setupRouterTestEnv(t *testing.T) *routerTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	cache.UseClient(nil, "")
	authzService, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap roles failed: %v", err)
	}
	users := repository.NewUserRepository(db)
	cfg := &config.Config{UserJWT: config.JWTConfig{SecretKey: testSecret, ExpireHours: 1}}
	return &routerTestEnv{
		users: users,
		auth:  service.NewUserAuthService(cfg, users),
		authz: authzService,
	}
}

const testSecret = "router-test-secret-0123456789abcdef"

func (e *routerTestEnv) createUser(t *testing.T, email, role string) (*models.User, string) {
	t.Helper()
	user := &models.User{Email: email, PasswordHash: "x", Role: role, Status: constants.UserStatusActive}
	if err := e.users.Create(user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	token, _, err := e.auth.GenerateUserJWT(user, 1)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	return user, token
}

func decodeStatusCode(t *testing.T, body []byte) int {
	t.Helper()
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode
}

func TestUserJWTAuthMiddlewareMissingSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(UserJWTAuthMiddleware("", nil))
	r.GET("/cart", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status want 401 got %d", w.Code)
	}
	if code := decodeStatusCode(t, w.Body.Bytes()); code != 401 {
		t.Fatalf("status_code want 401 got %d", code)
	}
}

func TestUserJWTAuthMiddlewareSetsIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	env := setupRouterTestEnv(t)
	user, token := env.createUser(t, "anna@example.com", constants.UserRoleCustomer)

	r := gin.New()
	r.Use(UserJWTAuthMiddleware(testSecret, env.users))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetUint(userIDContextKey),
			"email":   c.GetString(userEmailContextKey),
			"role":    c.GetString(userRoleContextKey),
		})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		UserID uint   `json:"user_id"`
		Email  string `json:"email"`
		Role   string `json:"role"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.UserID != user.ID || resp.Email != "anna@example.com" || resp.Role != constants.UserRoleCustomer {
		t.Fatalf("unexpected identity: %+v", resp)
	}
}

func TestUserJWTAuthMiddlewareRejectsRevokedToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	env := setupRouterTestEnv(t)
	user, token := env.createUser(t, "revoked@example.com", constants.UserRoleCustomer)
	user.TokenVersion++
	if err := env.users.Update(user); err != nil {
		t.Fatalf("update user failed: %v", err)
	}

	r := gin.New()
	r.Use(UserJWTAuthMiddleware(testSecret, env.users))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status want 401 got %d", w.Code)
	}
}

func TestAdminRBACMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	env := setupRouterTestEnv(t)
	_, customerToken := env.createUser(t, "customer@example.com", constants.UserRoleCustomer)
	merch, merchToken := env.createUser(t, "merch@example.com", constants.UserRoleAdmin)
	if err := env.authz.SetUserRoles(merch.ID, []string{authz.RoleMerchandiser}); err != nil {
		t.Fatalf("set roles failed: %v", err)
	}

	r := gin.New()
	admin := r.Group("/api/v1/admin")
	admin.Use(UserJWTAuthMiddleware(testSecret, env.users))
	admin.Use(AdminRBACMiddleware(env.authz))
	admin.GET("/products", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	admin.PATCH("/orders/:id/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{name: "customer rejected", method: http.MethodGet, path: "/api/v1/admin/products", token: customerToken, want: http.StatusForbidden},
		{name: "merchandiser products", method: http.MethodGet, path: "/api/v1/admin/products", token: merchToken, want: http.StatusOK},
		{name: "merchandiser orders denied", method: http.MethodPatch, path: "/api/v1/admin/orders/7/status", token: merchToken, want: http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tc.method, tc.path, nil)
			req.Header.Set("Authorization", "Bearer "+tc.token)
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("status want %d got %d body=%s", tc.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestBuildAdminPermissionCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	noop := func(c *gin.Context) {}
	r.GET("/api/v1/admin/products", noop)
	r.POST("/api/v1/admin/products", noop)
	r.GET("/api/v1/admin/authz/roles", noop)
	r.GET("/api/v1/cart", noop)

	items := buildAdminPermissionCatalog(r)
	if len(items) != 3 {
		t.Fatalf("catalog size want 3 got %d", len(items))
	}
	if items[0].Module != "authz" || items[0].Object != "/admin/authz/roles" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].Permission != "GET:/admin/products" || items[2].Permission != "POST:/admin/products" {
		t.Fatalf("unexpected product items: %+v %+v", items[1], items[2])
	}
}
