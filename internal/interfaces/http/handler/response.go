package handler

// MessageResponse is the body of a successful invoice submission
type MessageResponse struct {
	Message string `json:"message" example:"Invoice created and sent successfully!"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error" example:"Failed to create and send invoice."`
}

// HealthResponse is the body of the health check
type HealthResponse struct {
	Status string `json:"status" example:"healthy"`
}
