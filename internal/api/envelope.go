package api

import "github.com/danielgtaylor/huma/v2"

// Envelope is the consistent JSON response structure. Successful
// responses carry data; failures carry the error payload instead.
type Envelope struct {
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
	Success bool   `json:"success"`
}

// EnvelopeTransformer wraps every response body in an Envelope.
// Registered as a huma transformer so handlers return plain DTOs.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	if apiErr, ok := v.(*APIError); ok {
		return &Envelope{
			Success: false,
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Details: apiErr.Details,
		}, nil
	}

	// Leave already-enveloped values alone.
	if env, ok := v.(*Envelope); ok {
		return env, nil
	}

	success := len(status) > 0 && (status[0] == '2' || status[0] == '3')
	return &Envelope{Success: success, Data: v}, nil
}
