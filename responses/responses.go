// Package responses defines the JSON shapes every handler answers with.
package responses

// ErrorBody is the normalized error payload. Handlers translate every
// failure into this shape; a raw error trace never reaches the client.
type ErrorBody struct {
	Message   string      `json:"message"`
	ErrorCode string      `json:"errorCode"`
	Details   interface{} `json:"details"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// NewError builds the standard error envelope. code defaults to
// "SERVER_ERROR" when empty, matching the shared fallback handler behavior.
func NewError(message, code string, details interface{}) ErrorResponse {
	if code == "" {
		code = "SERVER_ERROR"
	}
	return ErrorResponse{Error: ErrorBody{
		Message:   message,
		ErrorCode: code,
		Details:   details,
	}}
}
