package script

import "context"

// Mock is a mock runner for testing.
type Mock struct {
	Result  any
	Err     error
	Handler func(src string, env Env) (any, error)
	Calls   []string
}

// NewMock creates a new mock runner with a fixed result.
func NewMock(result any) *Mock {
	return &Mock{Result: result}
}

// NewMockHandler creates a mock runner with a custom handler.
func NewMockHandler(handler func(src string, env Env) (any, error)) *Mock {
	return &Mock{Handler: handler}
}

// Run records the call and returns the mock result or calls the handler.
func (m *Mock) Run(ctx context.Context, src string, env Env) (any, error) {
	m.Calls = append(m.Calls, src)
	if m.Handler != nil {
		return m.Handler(src, env)
	}
	return m.Result, m.Err
}
