package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/LotusGo/pkg/errors"
)

func TestKV_SetGet(t *testing.T) {
	kv := NewKV()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", []byte("v1")))

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)
}

func TestKV_Get_NotFound(t *testing.T) {
	kv := NewKV()

	_, err := kv.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestKV_Get_ReturnsCopy(t *testing.T) {
	kv := NewKV()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", []byte("abc")))

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	got[0] = 'z'

	again, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestKV_Delete(t *testing.T) {
	kv := NewKV()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", []byte("v")))
	require.NoError(t, kv.Delete(ctx, "k"))

	_, err := kv.Get(ctx, "k")
	assert.Error(t, err)

	require.NoError(t, kv.Delete(ctx, "k"))
}
