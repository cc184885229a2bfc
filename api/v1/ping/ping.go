// Package ping provides the API model for the ping endpoint.
package ping

// Response is a struct that represents the response for the ping endpoint.
type Response struct {
	// Message is the response message.
	Message string `json:"message"`
} // @name PingResponse
