package limiter

// MockLimiter is a test double for the Limiter interface with a fixed
// allow/deny answer and call recording
type MockLimiter struct {
	AllowResult bool // Returned from every Allow() call

	// Recorded interactions
	AllowCalls  []string // IPs passed to Allow()
	CloseCalled bool

	CloseError error
}

// NewMockLimiter creates a mock that always answers allowResult
func NewMockLimiter(allowResult bool) *MockLimiter {
	return &MockLimiter{
		AllowResult: allowResult,
		AllowCalls:  []string{},
	}
}

// Allow implements Limiter
func (m *MockLimiter) Allow(ip string) bool {
	m.AllowCalls = append(m.AllowCalls, ip)
	return m.AllowResult
}

// Close implements Limiter
func (m *MockLimiter) Close() error {
	m.CloseCalled = true
	return m.CloseError
}
