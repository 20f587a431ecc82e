// Package request defines the structured query request and response types
// exchanged with the embedding caller, and the handler that dispatches a
// request through the query schema to an executor.
package request

import (
	"github.com/goccy/go-json"
)

// Query is one structured request from the embedding caller.
type Query struct {
	Action string          `json:"action"`
	Model  string          `json:"model,omitempty"`
	Args   json.RawMessage `json:"args,omitempty"`
}

// RawArgs are the arguments of a raw query action.
type RawArgs struct {
	Query      string        `json:"query"`
	Parameters []interface{} `json:"parameters,omitempty"`
}

// ResponseError is one error entry of a response.
type ResponseError struct {
	Error string `json:"error"`
}

// Response is the structured result returned to the embedding caller.
type Response struct {
	Data   interface{}     `json:"data,omitempty"`
	Errors []ResponseError `json:"errors,omitempty"`
}

// Marshal encodes a value with the JSON codec used across the API surface.
func Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes a value with the JSON codec used across the API surface.
func Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
