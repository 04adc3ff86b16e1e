// Package mocks provides test doubles for the menu.
package mocks

import (
	"context"

	dataset "github.com/sells-group/dharti-cli/internal/dataset"
	mock "github.com/stretchr/testify/mock"
)

// MockSyncer is a mock type for the Syncer interface.
type MockSyncer struct {
	mock.Mock
}

// Sync provides a mock function with given fields: ctx, ds
func (_m *MockSyncer) Sync(ctx context.Context, ds dataset.Dataset) (*dataset.SyncResult, error) {
	ret := _m.Called(ctx, ds)

	if len(ret) == 0 {
		panic("no return value specified for Sync")
	}

	var r0 *dataset.SyncResult
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, dataset.Dataset) (*dataset.SyncResult, error)); ok {
		return rf(ctx, ds)
	}
	if rf, ok := ret.Get(0).(func(context.Context, dataset.Dataset) *dataset.SyncResult); ok {
		r0 = rf(ctx, ds)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*dataset.SyncResult)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, dataset.Dataset) error); ok {
		r1 = rf(ctx, ds)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockSyncer creates a new instance of MockSyncer. It also registers a
// testing interface on the mock and a cleanup function to assert the mocks
// expectations.
func NewMockSyncer(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSyncer {
	mock := &MockSyncer{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
