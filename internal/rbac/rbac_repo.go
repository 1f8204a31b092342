package rbac

import "gorm.io/gorm"

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetUsuarioRoles(empresaID string) ([]UsuarioRolRow, error)
	GetRolPermisos(empresaID string) ([]RolPermisoRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type UsuarioRolRow struct {
	UsuarioID string
	RolID     string
}

type RolPermisoRow struct {
	RolID    string
	Resource string
	Action   string
}

func (r *repository) GetUsuarioRoles(empresaID string) ([]UsuarioRolRow, error) {
	var result []UsuarioRolRow

	err := r.db.
		Table("usuario_roles").
		Select("usuario_roles.usuario_id, usuario_roles.rol_id").
		Joins("JOIN roles ON roles.id = usuario_roles.rol_id").
		Where("roles.empresa_id = ?", empresaID).
		Scan(&result).Error

	return result, err
}

func (r *repository) GetRolPermisos(empresaID string) ([]RolPermisoRow, error) {
	var result []RolPermisoRow

	err := r.db.
		Table("rol_permisos").
		Select("rol_permisos.rol_id, permisos.resource, permisos.action").
		Joins("JOIN roles ON roles.id = rol_permisos.rol_id").
		Joins("JOIN permisos ON permisos.id = rol_permisos.permiso_id").
		Where("roles.empresa_id = ?", empresaID).
		Scan(&result).Error

	return result, err
}
