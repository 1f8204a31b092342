package tenant

import "gorm.io/gorm"

func Scope(empresaID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("empresa_id = ?", empresaID)
	}
}
