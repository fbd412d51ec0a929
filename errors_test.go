package fsxa

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFSXAErrorFormatting(t *testing.T) {
	err := newError("Client.FetchElements", KindNetwork, ErrFetchFailed, nil)
	assert.Contains(t, err.Error(), "Client.FetchElements")
	assert.Contains(t, err.Error(), KindNetwork)
	assert.Contains(t, err.Error(), "fetch failed")

	withContext := newError("Client.FetchElement", KindNotFound, ErrNotFound,
		map[string]any{"id": "abc123"})
	assert.Contains(t, withContext.Error(), "abc123")
}

func TestFSXAErrorUnwrapsSentinels(t *testing.T) {
	err := newError("Client.FetchElements", KindNetwork,
		fmt.Errorf("%w: connection refused", ErrFetchFailed), nil)

	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFSXAErrorMatchesByKind(t *testing.T) {
	err := newError("Client.FetchElement", KindNotFound, ErrNotFound, nil)

	assert.ErrorIs(t, err, &FSXAError{Kind: KindNotFound})
	assert.ErrorIs(t, err, &FSXAError{Kind: KindNotFound, Op: "Client.FetchElement"})
	assert.NotErrorIs(t, err, &FSXAError{Kind: KindNetwork})
	assert.NotErrorIs(t, err, &FSXAError{Kind: KindNotFound, Op: "Client.MapBatch"})
}

func TestFSXAErrorAs(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", newError("Client.MapBatch", KindMapping, errors.New("boom"), nil))

	var fsxaErr *FSXAError
	assert.ErrorAs(t, wrapped, &fsxaErr)
	assert.Equal(t, "Client.MapBatch", fsxaErr.Op)
	assert.Equal(t, KindMapping, fsxaErr.Kind)
}
