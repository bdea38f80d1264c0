package model

// ErrorResponse is the JSON body of every non-2xx reply.
type ErrorResponse struct {
	Error         string `json:"error"`
	CorrelationID string `json:"correlationId,omitempty"`
}
