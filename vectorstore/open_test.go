package vectorstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/airobotics/ragservice"
)

func unitEmbed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0, 0, 0, 1}, nil
}

// buildSnapshot writes a one-document snapshot under dir and returns the
// store so tests can grow it afterwards.
func buildSnapshot(t *testing.T, dir string) *Store {
	t.Helper()
	store, err := Init(dir, unitEmbed)
	assert.NilError(t, err)
	_, err = store.Add(context.Background(), []ragservice.Chunk{
		{Text: "The RX-10 carries up to 10 kg.", Kind: ragservice.KindText, Source: "guide.pdf", Page: 1},
	})
	assert.NilError(t, err)
	assert.NilError(t, store.Save())
	return store
}

func setRuntimeRoot(t *testing.T) string {
	t.Helper()
	old := runtimeRoot
	runtimeRoot = t.TempDir()
	t.Cleanup(func() { runtimeRoot = old })
	return runtimeRoot
}

func TestOpenImageRuntimeCopiesSnapshot(t *testing.T) {
	src := filepath.Join(t.TempDir(), "data", "chroma")
	buildSnapshot(t, src)
	root := setRuntimeRoot(t)

	opened, err := open(src, true, unitEmbed)
	assert.NilError(t, err)
	assert.Equal(t, opened.Count(), 1)

	// the store runs off the copy, not the baked-in path
	assert.Equal(t, opened.path, filepath.Join(root, src))
	_, err = os.Stat(filepath.Join(root, src, snapshotFile))
	assert.NilError(t, err)
}

func TestOpenImageRuntimeKeepsExistingCopy(t *testing.T) {
	src := filepath.Join(t.TempDir(), "data", "chroma")
	baked := buildSnapshot(t, src)
	setRuntimeRoot(t)

	first, err := open(src, true, unitEmbed)
	assert.NilError(t, err)
	assert.Equal(t, first.Count(), 1)

	// growing the baked-in snapshot must not disturb the runtime copy
	_, err = baked.Add(context.Background(), []ragservice.Chunk{
		{Text: "The RX-20 carries up to 25 kg.", Kind: ragservice.KindText, Source: "guide.pdf", Page: 2},
	})
	assert.NilError(t, err)
	assert.NilError(t, baked.Save())

	again, err := open(src, true, unitEmbed)
	assert.NilError(t, err)
	assert.Equal(t, again.Count(), 1)
}

func TestOpenWithoutImageRuntime(t *testing.T) {
	src := filepath.Join(t.TempDir(), "data", "chroma")
	buildSnapshot(t, src)
	root := setRuntimeRoot(t)

	opened, err := open(src, false, unitEmbed)
	assert.NilError(t, err)
	assert.Equal(t, opened.Count(), 1)
	assert.Equal(t, opened.path, src)

	_, err = os.Stat(filepath.Join(root, src, snapshotFile))
	assert.Assert(t, os.IsNotExist(err))
}

func TestOpenImageRuntimeMissingSnapshot(t *testing.T) {
	setRuntimeRoot(t)
	_, err := open(filepath.Join(t.TempDir(), "nope"), true, unitEmbed)
	assert.ErrorContains(t, err, "open baked-in snapshot")
}
