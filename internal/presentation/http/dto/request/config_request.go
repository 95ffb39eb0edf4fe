package request

// GlobalConfigRequest replaces the global configuration
type GlobalConfigRequest struct {
	Currency         string `json:"currency" binding:"required"`
	CurrencyPosition string `json:"currency_position" binding:"required"`
	Theme            string `json:"theme" binding:"required"`
	Language         string `json:"language" binding:"required"`
	Timezone         string `json:"timezone" binding:"required"`
}
