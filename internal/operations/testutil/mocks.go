package testutil

import (
	"context"
	"sync"
	"time"

	"covercli/internal/config"
	"covercli/internal/operations"
)

// MockStep is a configurable mock implementation of the step interface
type MockStep struct {
	IDValue     string
	NameValue   string
	ParamsValue operations.Params

	// Configurable functions
	ExecuteFunc  func(ctx context.Context, params operations.Params) (*operations.Result, error)
	ValidateFunc func(params operations.Params) error

	// Call tracking
	mu            sync.Mutex
	ExecuteCalls  int
	ExecuteArgs   []ExecuteCall
	ValidateCalls int
}

// ExecuteCall tracks arguments passed to Execute
type ExecuteCall struct {
	Ctx    context.Context
	Params operations.Params
	Time   time.Time
}

// ID returns the step ID
func (m *MockStep) ID() string {
	return m.IDValue
}

// Name returns the step name
func (m *MockStep) Name() string {
	return m.NameValue
}

// DefaultParams returns ParamsValue regardless of paths
func (m *MockStep) DefaultParams(paths *config.Paths) operations.Params {
	return m.ParamsValue
}

// Validate runs the mock validate function
func (m *MockStep) Validate(params operations.Params) error {
	m.mu.Lock()
	m.ValidateCalls++
	m.mu.Unlock()

	if m.ValidateFunc != nil {
		return m.ValidateFunc(params)
	}
	return nil
}

// Execute runs the mock execute function
func (m *MockStep) Execute(ctx context.Context, params operations.Params) (*operations.Result, error) {
	m.mu.Lock()
	m.ExecuteCalls++
	m.ExecuteArgs = append(m.ExecuteArgs, ExecuteCall{
		Ctx:    ctx,
		Params: params,
		Time:   time.Now(),
	})
	m.mu.Unlock()

	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, params)
	}
	return &operations.Result{OutputPath: params.Output}, nil
}

// GetExecuteCalls returns the number of Execute calls
func (m *MockStep) GetExecuteCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ExecuteCalls
}

// GetValidateCalls returns the number of Validate calls
func (m *MockStep) GetValidateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ValidateCalls
}

// LastParams returns the params of the most recent Execute call
func (m *MockStep) LastParams() operations.Params {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.ExecuteArgs) == 0 {
		return operations.Params{}
	}
	return m.ExecuteArgs[len(m.ExecuteArgs)-1].Params
}
