package models

// ErrorResponse - стандартная структура для ответа об ошибке в формате JSON.
// Клиент ожидает именно поле "error".
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse - ответ без полезной нагрузки.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
