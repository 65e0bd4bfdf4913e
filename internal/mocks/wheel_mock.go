package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockWheelBuilder mocks the WheelBuilder interface
type MockWheelBuilder struct {
	mock.Mock
}

// Build mocks building the python project in srcDir
func (m *MockWheelBuilder) Build(ctx context.Context, srcDir, outDir string) error {
	args := m.Called(ctx, srcDir, outDir)
	return args.Error(0)
}
