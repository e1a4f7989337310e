package usecase

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sigfarma/sigfarma-api/internal/application/audit"
	"github.com/sigfarma/sigfarma-api/internal/application/dto"
	"github.com/sigfarma/sigfarma-api/internal/domain"
	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	"github.com/sigfarma/sigfarma-api/internal/domain/repository"
)

// SettingUseCase almacén clave/valor de configuración. Escriben solo los
// administradores; la lectura es general.
type SettingUseCase struct {
	repo     repository.SettingRepository
	recorder *audit.Recorder
}

// NewSettingUseCase construye el caso de uso.
func NewSettingUseCase(repo repository.SettingRepository, recorder *audit.Recorder) *SettingUseCase {
	return &SettingUseCase{repo: repo, recorder: recorder}
}

// Get obtiene una configuración por clave.
func (uc *SettingUseCase) Get(key string) (*dto.SettingResponse, error) {
	s, err := uc.repo.Get(key)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	return toSettingResponse(s), nil
}

// List lista todas las configuraciones.
func (uc *SettingUseCase) List() ([]dto.SettingResponse, error) {
	settings, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.SettingResponse, 0, len(settings))
	for _, s := range settings {
		out = append(out, *toSettingResponse(s))
	}
	return out, nil
}

// Upsert crea o actualiza una configuración. Valida el valor contra el tipo
// declarado antes de persistir.
func (uc *SettingUseCase) Upsert(actorID, key string, in dto.UpsertSettingRequest) (*dto.SettingResponse, error) {
	dataType := in.DataType
	if dataType == "" {
		dataType = entity.SettingTypeString
	}
	switch dataType {
	case entity.SettingTypeNumber:
		if _, err := decimal.NewFromString(in.Value); err != nil {
			return nil, domain.ErrInvalidInput
		}
	case entity.SettingTypeBoolean:
		if _, err := strconv.ParseBool(in.Value); err != nil {
			return nil, domain.ErrInvalidInput
		}
	case entity.SettingTypeString:
	default:
		return nil, domain.ErrInvalidInput
	}

	s := &entity.Setting{
		Key:         key,
		Value:       in.Value,
		Description: in.Description,
		DataType:    dataType,
		UpdatedAt:   time.Now(),
	}
	if err := uc.repo.Upsert(s); err != nil {
		return nil, err
	}
	uc.recorder.Record(actorID, "configuracion.actualizar", map[string]string{"clave": key, "valor": in.Value})
	return toSettingResponse(s), nil
}

// DecimalOr lee una configuración numérica con valor por defecto. La usan
// los pedidos automáticos para el factor de reposición y la cantidad mínima.
func (uc *SettingUseCase) DecimalOr(key string, def decimal.Decimal) decimal.Decimal {
	s, err := uc.repo.Get(key)
	if err != nil || s == nil {
		return def
	}
	v, err := decimal.NewFromString(s.Value)
	if err != nil {
		return def
	}
	return v
}

func toSettingResponse(s *entity.Setting) *dto.SettingResponse {
	return &dto.SettingResponse{
		Key:         s.Key,
		Value:       s.Value,
		Description: s.Description,
		DataType:    s.DataType,
		UpdatedAt:   s.UpdatedAt,
	}
}
