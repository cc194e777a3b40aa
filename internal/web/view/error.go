package view

import (
	"errors"

	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/domain"
)

// ErrorView is the inline error fragment rendered next to the form or list
// that triggered the failure. The display precedence follows the API's error
// payload: a field list first, then a message, then a bare code, and a
// generic line when nothing structured is available (which is also how
// transport errors render).
type ErrorView struct {
	List    []string
	Message string
	Code    string
	Generic bool
}

// Errorify converts any error from an upstream call into its inline
// representation. A nil error yields nil so templates can simply
// {{with .Error}}.
func Errorify(err error) *ErrorView {
	if err == nil {
		return nil
	}

	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr == nil {
		return &ErrorView{Generic: true}
	}

	switch {
	case len(apiErr.List) > 0:
		return &ErrorView{List: apiErr.List}
	case apiErr.Message != "":
		return &ErrorView{Message: apiErr.Message}
	case apiErr.Code != "":
		return &ErrorView{Code: apiErr.Code}
	}
	return &ErrorView{Generic: true}
}
