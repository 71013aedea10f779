package mocks

import (
	"context"

	"github.com/PhotoSearch/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockPhotoRepository struct {
	mock.Mock
}

func (m *MockPhotoRepository) SearchByText(ctx context.Context, text string, perPage, page int) domain.Result {
	args := m.Called(ctx, text, perPage, page)
	return args.Get(0).(domain.Result)
}

func (m *MockPhotoRepository) RecentItems(ctx context.Context, perPage, page int) domain.Result {
	args := m.Called(ctx, perPage, page)
	return args.Get(0).(domain.Result)
}

type MockPageArchive struct {
	mock.Mock
}

func (m *MockPageArchive) Save(ctx context.Context, query string, page *domain.Page) error {
	args := m.Called(ctx, query, page)
	return args.Error(0)
}
