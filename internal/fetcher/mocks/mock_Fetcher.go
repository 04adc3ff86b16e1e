// Package mocks provides test doubles for the fetcher.
package mocks

import (
	"context"

	fetcher "github.com/sells-group/dharti-cli/internal/fetcher"
	mock "github.com/stretchr/testify/mock"
)

// MockFetcher is a mock type for the Fetcher interface.
type MockFetcher struct {
	mock.Mock
}

// FetchRecords provides a mock function with given fields: ctx, req
func (_m *MockFetcher) FetchRecords(ctx context.Context, req fetcher.Request) (*fetcher.Result, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for FetchRecords")
	}

	var r0 *fetcher.Result
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, fetcher.Request) (*fetcher.Result, error)); ok {
		return rf(ctx, req)
	}
	if rf, ok := ret.Get(0).(func(context.Context, fetcher.Request) *fetcher.Result); ok {
		r0 = rf(ctx, req)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*fetcher.Result)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, fetcher.Request) error); ok {
		r1 = rf(ctx, req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockFetcher creates a new instance of MockFetcher. It also registers a
// testing interface on the mock and a cleanup function to assert the mocks
// expectations.
func NewMockFetcher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockFetcher {
	mock := &MockFetcher{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
