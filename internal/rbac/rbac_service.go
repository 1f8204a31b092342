package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadEmpresaPolicy(empresaID string) error
	Enforce(req EnforceRequest) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer) Service {
	return &service{
		repo:     repo,
		enforcer: enforcer,
	}
}

func (s *service) LoadEmpresaPolicy(empresaID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadEmpresaPolicyUnlocked(empresaID)
}

func (s *service) loadEmpresaPolicyUnlocked(empresaID string) error {
	s.enforcer.ClearPolicy()

	usuarioRoles, err := s.repo.GetUsuarioRoles(empresaID)
	if err != nil {
		return err
	}
	zap.L().Debug("rbac load policy",
		zap.String("empresa_id", empresaID),
		zap.Int("usuario_roles", len(usuarioRoles)),
	)

	for _, ur := range usuarioRoles {
		if _, err := s.enforcer.AddGroupingPolicy(ur.UsuarioID, ur.RolID, empresaID); err != nil {
			return err
		}
	}

	rolPermisos, err := s.repo.GetRolPermisos(empresaID)
	if err != nil {
		return err
	}

	for _, rp := range rolPermisos {
		if _, err := s.enforcer.AddPolicy(rp.RolID, empresaID, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	return nil
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadEmpresaPolicyUnlocked(req.EmpresaID); err != nil {
		return false, err
	}

	return s.enforcer.Enforce(req.UsuarioID, req.EmpresaID, req.Resource, req.Action)
}
