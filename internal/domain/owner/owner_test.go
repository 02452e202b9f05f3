package owner

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifedoc/lifedoc/internal/platform/apperr"
)

type failingChecker struct{}

func (failingChecker) Exists(context.Context, uuid.UUID) (bool, error) {
	return false, errors.New("connection reset")
}

func TestEnsure(t *testing.T) {
	known := uuid.New()
	set := Set{known: true}

	assert.NoError(t, Ensure(context.Background(), set, known))

	err := Ensure(context.Background(), set, uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "User not found", err.Error())

	err = Ensure(context.Background(), failingChecker{}, known)
	assert.True(t, apperr.Is(err, apperr.KindStore))
}

func TestParseAndEnsure(t *testing.T) {
	known := uuid.New()
	set := Set{known: true}

	id, err := ParseAndEnsure(context.Background(), set, known.String())
	require.NoError(t, err)
	assert.Equal(t, known, id)

	_, err = ParseAndEnsure(context.Background(), set, "not-a-uuid")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestStored_CheckOwner(t *testing.T) {
	current := uuid.New()
	str := func(s string) *string { return &s }

	assert.NoError(t, Stored{}.CheckOwner(current))
	assert.NoError(t, Stored{OwnerID: str(current.String())}.CheckOwner(current))

	for _, raw := range []string{uuid.NewString(), "not-a-uuid", ""} {
		err := Stored{OwnerID: str(raw)}.CheckOwner(current)
		require.Error(t, err, raw)
		assert.True(t, apperr.Is(err, apperr.KindInvalidInput), raw)
	}
}
