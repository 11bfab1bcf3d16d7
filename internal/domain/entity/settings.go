package entity

// SettingsGroupGeneral único grupo de configuración en uso.
const SettingsGroupGeneral = "general"

// GeneralSettings configuración general de la aplicación del usuario.
type GeneralSettings struct {
	CompanyName       string `json:"companyName"`
	LowStockThreshold int    `json:"lowStockThreshold"`
	Currency          string `json:"currency"`
}

// DefaultGeneralSettings valores iniciales del grupo `general`.
func DefaultGeneralSettings() GeneralSettings {
	return GeneralSettings{
		CompanyName:       "StockMaster",
		LowStockThreshold: DefaultMinStock,
		Currency:          "BRL",
	}
}
