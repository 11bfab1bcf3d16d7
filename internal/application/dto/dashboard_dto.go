package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO totales del dashboard. Los campos *Text llevan el
// valor ya formateado en pt-BR para mostrar directo en la UI.
type DashboardSummaryDTO struct {
	TotalProducts       int             `json:"total_products"`
	TotalStockValue     decimal.Decimal `json:"total_stock_value"`
	TotalStockValueText string          `json:"total_stock_value_text"`
	LowStockCount       int             `json:"low_stock_count"`
	OutOfStockCount     int             `json:"out_of_stock_count"`
	RecentMovements     int             `json:"recent_movements"`
	CategoryCount       int             `json:"category_count"`
}
