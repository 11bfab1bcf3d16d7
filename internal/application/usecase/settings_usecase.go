package usecase

import (
	"encoding/json"
	"fmt"

	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
)

// SettingsUseCase casos de uso para los grupos de configuración.
type SettingsUseCase struct {
	repo repository.SettingsRepository
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(repo repository.SettingsRepository) *SettingsUseCase {
	return &SettingsUseCase{repo: repo}
}

// Get devuelve el documento del grupo, o nil si no existe.
func (uc *SettingsUseCase) Get(group string) (json.RawMessage, error) {
	return uc.repo.Get(group)
}

// Save valida que el valor sea un documento JSON y lo guarda.
func (uc *SettingsUseCase) Save(group string, value json.RawMessage) error {
	if !json.Valid(value) {
		return fmt.Errorf("%w: el valor del grupo %s no es JSON válido", domain.ErrInvalidInput, group)
	}
	return uc.repo.Save(group, value)
}

// EnsureDefaults siembra el grupo `general` con los valores por defecto si
// todavía no existe. Se llama una vez en el arranque.
func (uc *SettingsUseCase) EnsureDefaults() error {
	current, err := uc.repo.Get(entity.SettingsGroupGeneral)
	if err != nil {
		return err
	}
	if current != nil {
		return nil
	}
	b, err := json.Marshal(entity.DefaultGeneralSettings())
	if err != nil {
		return err
	}
	return uc.repo.Save(entity.SettingsGroupGeneral, b)
}

// General devuelve el grupo `general` tipado, con defaults si falta algo.
func (uc *SettingsUseCase) General() (entity.GeneralSettings, error) {
	settings := entity.DefaultGeneralSettings()
	raw, err := uc.repo.Get(entity.SettingsGroupGeneral)
	if err != nil {
		return settings, err
	}
	if raw == nil {
		return settings, nil
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		return entity.DefaultGeneralSettings(), nil
	}
	return settings, nil
}
