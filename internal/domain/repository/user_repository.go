package repository

import "github.com/sigfarma/sigfarma-api/internal/domain/entity"

// UserRepository puerto de persistencia de usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	// GetByEmail busca sin distinguir mayúsculas (LOWER(email)).
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	List(limit, offset int) ([]*entity.User, error)
}

// SettingRepository puerto del almacén clave/valor de configuración.
type SettingRepository interface {
	Get(key string) (*entity.Setting, error)
	Upsert(s *entity.Setting) error
	List() ([]*entity.Setting, error)
}

// AuditRepository puerto del historial de cambios (solo inserción).
type AuditRepository interface {
	Insert(e *entity.AuditEntry) error
	ListRecent(limit, offset int) ([]*entity.AuditEntry, error)
}
