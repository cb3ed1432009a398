package dto

import "time"

// ErrorResponse is the JSON error envelope returned by the read API.
//
// Example:
//
//	{"message": "no data found", "error": "", "timestamp": "2024-01-01T00:00:00Z"}
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid fetch_date format, expected YYYY-MM-DD"`
	ErrorDetails string    `json:"error,omitempty" example:"parsing time \"2024/01/01\""`
	Timestamp    time.Time `json:"timestamp"`
}

// Error implements the error interface so the envelope can travel through c.Error().
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an envelope, copying err's text into ErrorDetails when set.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message, Timestamp: time.Now().UTC()}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
