package model

import (
	"encoding/json"
	"fmt"
)

// Response is the gateway's standard response envelope. Every endpoint wraps
// its payload in this shape, including error responses.
type Response struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

// HasData returns true if the envelope carries a non-null data payload.
func (r *Response) HasData() bool {
	return len(r.Data) > 0 && string(r.Data) != "null"
}

// DecodeData unmarshals the data payload into dest.
func (r *Response) DecodeData(dest any) error {
	if !r.HasData() {
		return fmt.Errorf("response has no data")
	}
	return json.Unmarshal(r.Data, dest)
}

// BalanceResult is the payload of a balance query.
type BalanceResult struct {
	Balance float64 `json:"balance"`
}

// TopUpResult is the payload of a successful top-up.
type TopUpResult struct {
	Document   string  `json:"document"`
	NewBalance float64 `json:"newBalance"`
}
