package api

import (
	"encoding/json"
	"fmt"

	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/domain"
)

// envelope is the booking API's uniform two-shape wire contract. Every JSON
// endpoint answers either {status:"success", result:…} or
// {status:"error", error:{…}}; callers branch on the discriminator.
type envelope struct {
	Status string           `json:"status"`
	Result json.RawMessage  `json:"result"`
	Error  *domain.APIError `json:"error"`
}

// decodeEnvelope parses a response body and splits it along the error
// taxonomy: a success envelope yields the raw result, an error envelope
// yields a *domain.APIError, and anything else is a transport error.
func decodeEnvelope(body []byte) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("malformed response: %w", err)
	}

	switch env.Status {
	case "success":
		return env.Result, nil
	case "error":
		if env.Error == nil {
			env.Error = &domain.APIError{}
		}
		return nil, env.Error
	}
	return nil, fmt.Errorf("unexpected response status %q", env.Status)
}
