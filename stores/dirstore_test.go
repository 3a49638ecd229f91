package stores

import (
	"context"
	"testing"

	"gotest.tools/v3/assert"
)

func TestDirStoreReadMissing(t *testing.T) {
	store := NewDirStore(t.TempDir())
	_, err := store.ReadObject(context.Background(), "v1/imts/nosuch.state")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestDirStoreWriteRead(t *testing.T) {
	ctx := context.Background()
	store := NewDirStore(t.TempDir())

	name := "v1/imts/aaaa.state"
	assert.NilError(t, store.WriteObject(ctx, name, []byte("one")))

	data, err := store.ReadObject(ctx, name)
	assert.NilError(t, err)
	assert.DeepEqual(t, []byte("one"), data)

	// Replacement is whole-object.
	assert.NilError(t, store.WriteObject(ctx, name, []byte("two")))
	data, err = store.ReadObject(ctx, name)
	assert.NilError(t, err)
	assert.DeepEqual(t, []byte("two"), data)
}

func TestDirStoreHonoursContext(t *testing.T) {
	store := NewDirStore(t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.ReadObject(ctx, "v1/imts/aaaa.state")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.WriteObject(ctx, "v1/imts/aaaa.state", nil), context.Canceled)
}
