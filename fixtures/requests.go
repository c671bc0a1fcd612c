package fixtures

// TestRequest is a configurable test request.
type TestRequest struct {
	ID   string
	Data string
}

// TestRequestBuilder provides a fluent API for constructing test requests.
type TestRequestBuilder struct {
	id   string
	data string
}

// NewTestRequest creates a new TestRequestBuilder with sensible defaults.
func NewTestRequest() *TestRequestBuilder {
	return &TestRequestBuilder{
		id:   "request-1",
		data: "",
	}
}

// WithID sets the request ID.
func (b *TestRequestBuilder) WithID(id string) *TestRequestBuilder {
	b.id = id
	return b
}

// WithData sets custom data on the request.
func (b *TestRequestBuilder) WithData(data string) *TestRequestBuilder {
	b.data = data
	return b
}

// Build constructs the TestRequest.
func (b *TestRequestBuilder) Build() TestRequest {
	return TestRequest{
		ID:   b.id,
		Data: b.data,
	}
}

// Increment asks a handler to increment a Counter by one.
type Increment struct{}

// Unrouted is a request no fixture handler is registered for.
type Unrouted struct{}
