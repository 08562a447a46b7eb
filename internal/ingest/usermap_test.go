package ingest_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jdholdren/postboard/internal/ingest"
	"github.com/jdholdren/postboard/internal/postboard"
)

func TestBuildUserMapEmptySkipsLookup(t *testing.T) {
	store := &MockStore{}

	got, err := ingest.BuildUserMap(context.Background(), store, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = ingest.BuildUserMap(context.Background(), store, []string{"", ""})
	require.NoError(t, err)
	assert.Empty(t, got)

	store.AssertNotCalled(t, "UsersByUsernames", mock.Anything, mock.Anything)
}

func TestBuildUserMapDedupes(t *testing.T) {
	store := &MockStore{}
	store.On("UsersByUsernames", mock.Anything, []string{"a", "b"}).
		Return([]postboard.User{{ID: "1-usr", Username: "a"}}, nil).
		Once()

	got, err := ingest.BuildUserMap(context.Background(), store, []string{"a", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1-usr"}, got)
	store.AssertNumberOfCalls(t, "UsersByUsernames", 1)
	store.AssertExpectations(t)
}

func TestBuildUserMapLookupFailure(t *testing.T) {
	boom := errors.New("connection refused")
	store := &MockStore{}
	store.On("UsersByUsernames", mock.Anything, []string{"a"}).Return(nil, boom)

	_, err := ingest.BuildUserMap(context.Background(), store, []string{"a"})
	assert.ErrorIs(t, err, boom)
}
