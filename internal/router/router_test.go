package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shoppingmall/internal/authz"
	"github.com/shoppingmall/internal/config"

	"github.com/gin-gonic/gin"
)

func TestBuildAdminPermissionCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	noop := func(c *gin.Context) {}

	engine := gin.New()
	api := engine.Group("/api/v1")
	api.GET("/malls", noop)
	api.GET("/admin/orders", noop)
	api.PATCH("/admin/orders/:id", noop)
	api.PUT("/admin/variants/:id", noop)
	api.PUT("/admin/users/:id/roles", noop)

	items := buildAdminPermissionCatalog(engine, nil)
	if len(items) != 4 {
		t.Fatalf("catalog size want 4 got %d: %+v", len(items), items)
	}
	modules := map[string]string{}
	for _, item := range items {
		modules[item.Permission] = item.Module
	}
	if modules["PATCH:/admin/orders/:id"] != "orders" {
		t.Fatalf("orders module mismatch: %+v", modules)
	}
	if modules["PUT:/admin/variants/:id"] != "products" {
		t.Fatalf("variants should belong to products module: %+v", modules)
	}
	if modules["PUT:/admin/users/:id/roles"] != "authz" {
		t.Fatalf("user roles should belong to authz module: %+v", modules)
	}
	if _, ok := modules["GET:/malls"]; ok {
		t.Fatalf("public routes must not appear in admin catalog")
	}
}

func TestSuperRoleCoversEveryAdminRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupRouterTestDB(t)
	authzService, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	if err := authzService.SetUserRoles(1, []string{authz.RoleSuper}); err != nil {
		t.Fatalf("set super role failed: %v", err)
	}

	noop := func(c *gin.Context) {}
	engine := gin.New()
	admin := engine.Group("/api/v1/admin")
	admin.POST("/categories", noop)
	admin.DELETE("/categories/:name", noop)
	admin.GET("/products", noop)
	admin.PUT("/products/:id", noop)
	admin.POST("/products/:id/images", noop)
	admin.DELETE("/products/:id/images/:order_number", noop)
	admin.GET("/orders", noop)
	admin.PATCH("/orders/:id", noop)
	admin.GET("/authz/roles", noop)
	admin.GET("/authz/roles/:role/policies", noop)
	admin.GET("/authz/permissions", noop)
	admin.GET("/login-logs", noop)

	roleSets := map[string][]string{}
	for _, item := range buildAdminPermissionCatalog(engine, authzService) {
		allowed, err := authzService.EnforceUser(1, item.Object, item.Method)
		if err != nil {
			t.Fatalf("enforce %s failed: %v", item.Permission, err)
		}
		if !allowed {
			t.Fatalf("super role should be allowed on %s", item.Permission)
		}
		roleSets[item.Permission] = item.Roles
	}

	want := map[string]string{
		"PATCH:/admin/orders/:id":      strings.Join([]string{authz.RoleFulfillment, authz.RoleSuper}, ","),
		"PUT:/admin/products/:id":      strings.Join([]string{authz.RoleCatalog, authz.RoleSuper}, ","),
		"GET:/admin/authz/permissions": authz.RoleSuper,
	}
	for permission, roles := range want {
		if got := strings.Join(roleSets[permission], ","); got != roles {
			t.Fatalf("roles on %s want %s got %s", permission, roles, got)
		}
	}
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	setupRouterTestDB(t)

	engine := gin.New()
	engine.GET("/health", healthHandler)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"status":"ok"`) || !strings.Contains(body, `"database":"ok"`) {
		t.Fatalf("unexpected health body: %s", body)
	}
}

func TestLocalStaticPaths(t *testing.T) {
	if got := localURLPrefix(config.StorageConfig{}); got != "/uploads" {
		t.Fatalf("default prefix want /uploads got %s", got)
	}
	if got := localURLPrefix(config.StorageConfig{LocalURLPrefix: "static/"}); got != "/static" {
		t.Fatalf("prefix want /static got %s", got)
	}
	if got := localDir(config.StorageConfig{LocalDir: " /data/uploads "}); got != "/data/uploads" {
		t.Fatalf("dir want /data/uploads got %s", got)
	}
}
