package smclient

import (
	"encoding/json"
	"fmt"
)

// Error codes the API returns in the "error" field.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodePendingApproval    = "pending_approval"
	ErrorCodeRateLimited        = "rate_limited"
	ErrorCodeConflict           = "conflict"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeForbidden          = "forbidden"
	ErrorCodeUnauthorized       = "unauthorized"
	ErrorCodeMaintenanceMode    = "maintenance_mode"
	ErrorCodeServerError        = "server_error"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is makes errors.Is work against a code-only template, so callers can write
// errors.Is(err, &APIError{Code: ErrorCodeRateLimited}).
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.StatusCode == 0 || t.StatusCode == e.StatusCode)
}

func parseAPIError(statusCode int, body []byte) error {
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = ErrorCodeServerError
		apiErr.Description = fmt.Sprintf("unexpected response (status %d)", statusCode)
	}
	return apiErr
}
