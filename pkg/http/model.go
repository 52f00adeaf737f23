package http

// APIResponse represents standard API response.
type APIResponse struct {
	Status  int         `json:"status" example:"422"`
	Message string      `json:"message" example:"Unprocessable Entity"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_VALIDATION"`
	Field   string                 `json:"field,omitempty" example:"periods"`
	Message string                 `json:"message,omitempty" example:"periods must be greater than or equal to 1"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
