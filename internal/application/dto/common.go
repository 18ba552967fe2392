package dto

import "github.com/shopspring/decimal"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// InsufficientMaterialResponse cuerpo de error 409 con el faltante en gramos.
type InsufficientMaterialResponse struct {
	Code           string          `json:"code"`
	Message        string          `json:"message"`
	RequiredGrams  decimal.Decimal `json:"required_grams"`
	AvailableGrams decimal.Decimal `json:"available_grams"`
	ShortageGrams  decimal.Decimal `json:"shortage_grams"`
}
