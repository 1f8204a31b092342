package rbac

import (
	"testing"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/stretchr/testify/assert"
)

type mockRepo struct{}

func (m *mockRepo) GetUsuarioRoles(empresaID string) ([]UsuarioRolRow, error) {
	return []UsuarioRolRow{
		{
			UsuarioID: "usuario-1",
			RolID:     "rol-gestor",
		},
	}, nil
}

func (m *mockRepo) GetRolPermisos(empresaID string) ([]RolPermisoRow, error) {
	return []RolPermisoRow{
		{
			RolID:    "rol-gestor",
			Resource: "planillas",
			Action:   "approve",
		},
	}, nil
}

func newTestEnforcer(t *testing.T) *casbin.Enforcer {
	modelText := `[request_definition]
r = sub, dom, obj, act

[policy_definition]
p = sub, dom, obj, act

[role_definition]
g = _, _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub, r.dom) && r.dom == p.dom && r.obj == p.obj && r.act == p.act
`

	m, err := model.NewModelFromString(modelText)
	assert.NoError(t, err)

	e, err := casbin.NewEnforcer(m)
	assert.NoError(t, err)

	return e
}

func TestRBACService_Enforce(t *testing.T) {
	repo := &mockRepo{}
	enforcer := newTestEnforcer(t)

	service := NewService(repo, enforcer)

	err := service.LoadEmpresaPolicy("empresa-1")
	assert.NoError(t, err)

	// Should allow
	allowed, err := service.Enforce(EnforceRequest{
		UsuarioID: "usuario-1",
		EmpresaID: "empresa-1",
		Resource:  "planillas",
		Action:    "approve",
	})

	assert.NoError(t, err)
	assert.True(t, allowed)

	// Should deny
	denied, err := service.Enforce(EnforceRequest{
		UsuarioID: "usuario-1",
		EmpresaID: "empresa-1",
		Resource:  "planillas",
		Action:    "process",
	})

	assert.NoError(t, err)
	assert.False(t, denied)
}
