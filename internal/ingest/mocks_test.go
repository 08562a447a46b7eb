package ingest_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jdholdren/postboard/internal/postboard"
)

// MockStore is a mock implementation of the ingest Store and UserStore interfaces.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) UsersByUsernames(ctx context.Context, usernames []string) ([]postboard.User, error) {
	args := m.Called(ctx, usernames)
	usrs, _ := args.Get(0).([]postboard.User)
	return usrs, args.Error(1)
}

func (m *MockStore) InsertPosts(ctx context.Context, posts []postboard.ValidatedPost) error {
	args := m.Called(ctx, posts)
	return args.Error(0)
}

func (m *MockStore) UserByUsername(ctx context.Context, username string) (postboard.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(postboard.User), args.Error(1)
}

func (m *MockStore) CreateUser(ctx context.Context, id, username string) (postboard.User, error) {
	args := m.Called(ctx, id, username)
	return args.Get(0).(postboard.User), args.Error(1)
}
