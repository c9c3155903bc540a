// Copyright (c) 2024, amarnathcjd

package botgram

import (
	"fmt"

	"github.com/pkg/errors"
)

// APIError is a non-ok Bot API response, expanded into its native parts.
type APIError struct {
	Method      string
	Code        int
	Description string
	// Seconds to wait before retrying, for 429 responses.
	RetryAfter int
	// Set when the group was migrated to a supergroup.
	MigrateToChatID int64
}

func (e *APIError) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("telegram: %s (method: %s)", e.Description, e.Method)
	}
	return fmt.Sprintf("telegram: [%d] %s (method: %s)", e.Code, e.Description, e.Method)
}

func envelopeError(method string, env *Response) *APIError {
	apiErr := &APIError{
		Method:      method,
		Code:        env.ErrorCode,
		Description: env.Description,
	}
	if apiErr.Description == "" {
		apiErr.Description = "no error description"
	}
	if env.Parameters != nil {
		apiErr.RetryAfter = env.Parameters.RetryAfter
		apiErr.MigrateToChatID = env.Parameters.MigrateToChatID
	}
	return apiErr
}

// AsAPIError unwraps err into an *APIError, if it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// FloodWait returns the retry-after seconds of a 429 error, or 0.
func FloodWait(err error) int {
	if apiErr, ok := AsAPIError(err); ok && apiErr.Code == 429 {
		return apiErr.RetryAfter
	}
	return 0
}
