package mocks

import (
	"context"

	"github.com/PhotoSearch/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockRemoteClient struct {
	mock.Mock
}

func (m *MockRemoteClient) Search(ctx context.Context, text string, perPage, page int) (*domain.RawResponse, error) {
	args := m.Called(ctx, text, perPage, page)
	return rawResponse(args.Get(0)), args.Error(1)
}

func (m *MockRemoteClient) Recent(ctx context.Context, perPage, page int) (*domain.RawResponse, error) {
	args := m.Called(ctx, perPage, page)
	return rawResponse(args.Get(0)), args.Error(1)
}

// Handle nil responses
func rawResponse(v interface{}) *domain.RawResponse {
	if v == nil {
		return nil
	}
	return v.(*domain.RawResponse)
}

type MockResponseMapper struct {
	mock.Mock
}

func (m *MockResponseMapper) Normalize(raw *domain.RawResponse) (*domain.Page, error) {
	args := m.Called(raw)

	var page *domain.Page
	if args.Get(0) != nil {
		page = args.Get(0).(*domain.Page)
	}
	return page, args.Error(1)
}

type MockEventProducer struct {
	mock.Mock
}

func (m *MockEventProducer) Publish(ctx context.Context, event *domain.StateEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventProducer) Close() error {
	args := m.Called()
	return args.Error(0)
}
