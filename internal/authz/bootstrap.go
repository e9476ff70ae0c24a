package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// 预置角色名称
const (
	RoleSuper       = "role:super"
	RoleCatalog     = "role:catalog"
	RoleFulfillment = "role:fulfillment"
)

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: RoleCatalog,
			Policies: []Policy{
				{Object: "/admin/categories", Action: "*"},
				{Object: "/admin/categories/:name", Action: "*"},
				{Object: "/admin/products", Action: "*"},
				{Object: "/admin/products/:id", Action: "*"},
				{Object: "/admin/products/:id/variants", Action: "*"},
				{Object: "/admin/products/:id/images", Action: "*"},
				{Object: "/admin/products/:id/images/:order_number", Action: "*"},
				{Object: "/admin/variants/:id", Action: "*"},
				{Object: "/admin/ads", Action: "*"},
				{Object: "/admin/ads/:id", Action: "*"},
			},
		},
		{
			Role: RoleFulfillment,
			Policies: []Policy{
				{Object: "/admin/orders", Action: "GET"},
				{Object: "/admin/orders/:id", Action: "*"},
			},
		},
		{
			Role:     RoleSuper,
			Inherits: []string{RoleCatalog, RoleFulfillment},
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色、继承关系与默认策略，可重复执行
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}
		if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, roleAnchor); err != nil {
			return fmt.Errorf("create builtin role %s failed: %w", role, err)
		}
		for _, parent := range seed.Inherits {
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parent); err != nil {
				return fmt.Errorf("link role %s -> %s failed: %w", role, parent, err)
			}
		}
		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required for %s", role)
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy for %s failed: %w", role, err)
			}
		}
	}
	return nil
}
