package ingest_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jdholdren/postboard/internal/ingest"
	"github.com/jdholdren/postboard/internal/postboard"
)

func TestSeedUsers(t *testing.T) {
	store := &MockStore{}
	store.On("UserByUsername", mock.Anything, "alice").Return(postboard.User{ID: "a-usr", Username: "alice"}, nil)
	store.On("UserByUsername", mock.Anything, "bob").Return(postboard.User{}, postboard.ErrNotFound)
	store.On("CreateUser", mock.Anything, "", "bob").Return(postboard.User{ID: "b-usr", Username: "bob"}, nil)
	store.On("UserByUsername", mock.Anything, "carol").Return(postboard.User{}, postboard.ErrNotFound)
	store.On("CreateUser", mock.Anything, "", "carol").Return(postboard.User{}, postboard.ErrUsernameTaken)
	store.On("UserByUsername", mock.Anything, "dave").Return(postboard.User{}, errors.New("timeout"))

	got := ingest.SeedUsers(context.Background(), store, []postboard.RawPost{
		{Title: "1", Author: "alice"},
		{Title: "2", Author: "bob"},
		{Title: "3", Author: "alice"},
		{Title: "4", Author: "carol"},
		{Title: "5", Author: "dave"},
		{Title: "6", Author: ""},
	})

	assert.Equal(t, ingest.SeedReport{Authors: 4, Created: 1, Existing: 2, Failed: 1}, got)
	store.AssertExpectations(t)
}
