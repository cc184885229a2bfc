package v1

// PingResponse is the response for the ping endpoint.
type PingResponse struct {
	// Message is the response message.
	Message string `json:"message"`
} // @name PingResponse
