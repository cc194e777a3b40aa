package domain

import "strings"

// APIError is the decoded error payload of the booking API's envelope:
// {status:"error", error:{...}}. It represents an expected validation or
// business failure and is rendered inline next to the form or list that
// triggered it. Transport failures are ordinary errors, not APIErrors.
type APIError struct {
	Message string         `json:"error-message,omitempty"`
	List    []string       `json:"error-list,omitempty"`
	Code    string         `json:"error-code,omitempty"`
	Data    map[string]any `json:"error-data,omitempty"`
}

func (e *APIError) Error() string {
	switch {
	case e == nil:
		return "unknown error"
	case len(e.List) > 0:
		return strings.Join(e.List, "; ")
	case e.Message != "":
		return e.Message
	case e.Code != "":
		return "error code: " + e.Code
	}
	return "unknown error"
}
