// Package analytics contiene el caso de uso de agregación del dashboard.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockmaster-api/internal/application/dto"
	"github.com/jhoicas/stockmaster-api/internal/application/usecase"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/localstore"
	"github.com/jhoicas/stockmaster-api/pkg/format"
)

const recentWindow = 7 * 24 * time.Hour // movimientos "recientes": última semana

// DashboardUseCase calcula los totales del dashboard sobre una vista
// consistente del almacén.
type DashboardUseCase struct {
	tx       *localstore.TxRunner
	settings *usecase.SettingsUseCase
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(tx *localstore.TxRunner, settings *usecase.SettingsUseCase) *DashboardUseCase {
	return &DashboardUseCase{tx: tx, settings: settings}
}

// GetSummary arma el resumen: conteos, valor total del stock y movimientos
// de la última semana. El valor formateado usa la moneda configurada.
func (uc *DashboardUseCase) GetSummary() (*dto.DashboardSummaryDTO, error) {
	out := &dto.DashboardSummaryDTO{TotalStockValue: decimal.Zero}
	cutoff := time.Now().Add(-recentWindow)

	err := uc.tx.View(func(tx localstore.Repos) error {
		products, err := tx.Products.GetAll()
		if err != nil {
			return err
		}
		movements, err := tx.Movements.GetAll("")
		if err != nil {
			return err
		}
		categories, err := tx.Categories.GetAll()
		if err != nil {
			return err
		}

		out.TotalProducts = len(products)
		out.CategoryCount = len(categories)
		for _, p := range products {
			out.TotalStockValue = out.TotalStockValue.Add(p.StockValue())
			if p.Quantity == 0 {
				out.OutOfStockCount++
			}
			if p.LowStock() {
				out.LowStockCount++
			}
		}
		for _, m := range movements {
			if m.Date.After(cutoff) {
				out.RecentMovements++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	settings, err := uc.settings.General()
	if err != nil {
		return nil, err
	}
	out.TotalStockValueText = format.Currency(out.TotalStockValue, settings.Currency)
	return out, nil
}
