package client

// Option configures a Client at construction time.
type Option interface {
	Apply(client *Client)
}

// OptionFunc adapts a function to the Option interface.
type OptionFunc func(*Client)

// Apply applies the option to the Client.
func (f OptionFunc) Apply(c *Client) {
	f(c)
}

// ListSettings carries the pagination parameters shared by list endpoints.
type ListSettings struct {
	limit         *int
	continueToken *string
}

// ListOption configures a ListSettings value.
type ListOption interface {
	Apply(settings *ListSettings)
}

// ListOptionFunc adapts a function to the ListOption interface.
type ListOptionFunc func(*ListSettings)

// Apply applies the option to the ListSettings.
func (f ListOptionFunc) Apply(settings *ListSettings) {
	f(settings)
}

// WithLimit caps the page size of a list request.
func WithLimit(limit int) ListOption {
	return ListOptionFunc(func(settings *ListSettings) {
		settings.limit = &limit
	})
}

// WithContinueToken resumes a list request from a previous page's continue token.
func WithContinueToken(token string) ListOption {
	return ListOptionFunc(func(settings *ListSettings) {
		settings.continueToken = &token
	})
}
