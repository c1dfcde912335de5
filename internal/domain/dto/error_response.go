package dto

import "time"

// ErrorResponse is the standard error body returned by every endpoint.
type ErrorResponse struct {
	Message      string    `json:"message" example:"failed to fetch gainers"`
	ErrorDetails string    `json:"error,omitempty" example:"upstream unavailable"`
	Timestamp    time.Time `json:"timestamp"`
}

// Error implements the error interface.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an ErrorResponse, copying err's text when err is non-nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message, Timestamp: time.Now()}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
