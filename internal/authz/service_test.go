package authz

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceUserWithCatalogRole(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	if err := svc.SetUserRoles(1, []string{"catalog"}); err != nil {
		t.Fatalf("set user roles failed: %v", err)
	}

	allow, err := svc.EnforceUser(1, "/api/v1/admin/products/42", "put")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("catalog role should edit products")
	}

	allow, err = svc.EnforceUser(1, "/api/v1/admin/orders/42", "PATCH")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("catalog role should not touch orders")
	}

	allow, err = svc.EnforceUser(2, "/api/v1/admin/products/42", "PUT")
	if err != nil {
		t.Fatalf("enforce other user failed: %v", err)
	}
	if allow {
		t.Fatalf("user without role should be denied")
	}
}

func TestUnknownRolesAreRejected(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	if err := svc.SetUserRoles(1, []string{RoleCatalog, "merchandiser"}); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("unknown role want ErrUnknownRole got %v", err)
	}
	roles, err := svc.GetUserRoles(1)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 0 {
		t.Fatalf("rejected assignment should not keep partial roles, got=%v", roles)
	}
	if err := svc.GrantUserRole(1, "merchandiser"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("grant unknown role want ErrUnknownRole got %v", err)
	}
	if _, err := svc.GetRolePolicies("merchandiser"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("policies of unknown role want ErrUnknownRole got %v", err)
	}
	if _, err := NormalizeRole("__anchor__"); err == nil {
		t.Fatalf("anchor role must not be addressable")
	}
}

func TestGetRolePolicies(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}

	fulfillment, err := svc.GetRolePolicies("fulfillment")
	if err != nil {
		t.Fatalf("get fulfillment policies failed: %v", err)
	}
	if fulfillment.Role != RoleFulfillment || len(fulfillment.Inherits) != 0 {
		t.Fatalf("unexpected fulfillment role: %+v", fulfillment)
	}
	if len(fulfillment.Policies) != 2 || fulfillment.Policies[0].Object != "/admin/orders" || fulfillment.Policies[0].Action != "GET" {
		t.Fatalf("unexpected fulfillment policies: %+v", fulfillment.Policies)
	}

	super, err := svc.GetRolePolicies(RoleSuper)
	if err != nil {
		t.Fatalf("get super policies failed: %v", err)
	}
	if strings.Join(super.Inherits, ",") != RoleCatalog+","+RoleFulfillment {
		t.Fatalf("super inherits want catalog and fulfillment got %v", super.Inherits)
	}
	if len(super.Policies) != 1 || super.Policies[0].Object != "/admin/*" {
		t.Fatalf("unexpected super policies: %+v", super.Policies)
	}
}

func TestSetUserRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}

	if err := svc.SetUserRoles(2, []string{"catalog"}); err != nil {
		t.Fatalf("set first role failed: %v", err)
	}
	roles, err := svc.GetUserRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != RoleCatalog {
		t.Fatalf("roles want [%s], got=%v", RoleCatalog, roles)
	}

	if err := svc.SetUserRoles(2, []string{"fulfillment"}); err != nil {
		t.Fatalf("set second role failed: %v", err)
	}
	allow, err := svc.EnforceUser(2, "/admin/categories", "POST")
	if err != nil {
		t.Fatalf("enforce old role failed: %v", err)
	}
	if allow {
		t.Fatalf("expected old role permission removed")
	}
	allow, err = svc.EnforceUser(2, "/admin/orders/7", "PATCH")
	if err != nil {
		t.Fatalf("enforce new role failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected new role permission granted")
	}

	if err := svc.RemoveUser(2); err != nil {
		t.Fatalf("remove user failed: %v", err)
	}
	roles, err = svc.GetUserRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 0 {
		t.Fatalf("roles should be empty after remove, got=%v", roles)
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/admin/orders/:id", want: "/admin/orders/:id"},
		{in: "/admin/orders/:id", want: "/admin/orders/:id"},
		{in: "admin/orders", want: "/admin/orders"},
		{in: "/api/v1", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	// 重复执行保持幂等
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	wantRoles := map[string]bool{
		RoleSuper:       true,
		RoleCatalog:     true,
		RoleFulfillment: true,
	}
	for _, role := range roles {
		delete(wantRoles, role)
	}
	if len(wantRoles) != 0 {
		t.Fatalf("builtin roles missing: %v", wantRoles)
	}

	if err := svc.GrantUserRole(3, RoleSuper); err != nil {
		t.Fatalf("grant super role failed: %v", err)
	}
	allow, err := svc.EnforceUser(3, "/api/v1/admin/users/9/roles", "PUT")
	if err != nil {
		t.Fatalf("enforce super failed: %v", err)
	}
	if !allow {
		t.Fatalf("super role should access every admin route")
	}

	if err := svc.GrantUserRole(4, RoleFulfillment); err != nil {
		t.Fatalf("grant fulfillment role failed: %v", err)
	}
	allow, err = svc.EnforceUser(4, "/admin/products", "POST")
	if err != nil {
		t.Fatalf("enforce fulfillment failed: %v", err)
	}
	if allow {
		t.Fatalf("fulfillment role should not manage products")
	}
}
