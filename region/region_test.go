package region

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagforge/tagforge/format"
	"github.com/tagforge/tagforge/tag"
)

func smallCompound(n int32) tag.Tag {
	c := tag.NewCompound()
	c.Set("n", tag.IntTag(n))

	return tag.CompoundTag(c)
}

// TestSaveLoad_S5 exercises spec.md §8 scenario S5.
func TestSaveLoad_S5(t *testing.T) {
	a := New()
	a.SetChunk(0, 0, smallCompound(1))
	a.SetChunk(5, 9, smallCompound(2))

	ts00 := a.Timestamp(0, 0)
	ts59 := a.Timestamp(5, 9)

	data, err := a.Save()
	require.NoError(t, err)

	reloaded, err := Load(data)
	require.NoError(t, err)

	tree, ok := reloaded.GetChunk(0, 0)
	require.True(t, ok)
	assert.True(t, tree.Equal(smallCompound(1)))

	tree, ok = reloaded.GetChunk(5, 9)
	require.True(t, ok)
	assert.True(t, tree.Equal(smallCompound(2)))

	assert.Equal(t, ts00, reloaded.Timestamp(0, 0))
	assert.Equal(t, ts59, reloaded.Timestamp(5, 9))

	assert.Equal(t, 2, reloaded.ChunkCount())

	for z := int32(0); z < GridSize; z++ {
		for x := int32(0); x < GridSize; x++ {
			if (x == 0 && z == 0) || (x == 5 && z == 9) {
				continue
			}
			_, ok := reloaded.GetChunk(x, z)
			assert.False(t, ok, "slot (%d,%d) should be empty", x, z)
		}
	}
}

// TestLazyLoad_S6 exercises spec.md §8 scenario S6.
func TestLazyLoad_S6(t *testing.T) {
	a := New()
	for i := int32(0); i < 40; i++ {
		big := make([]int32, 8192)
		for j := range big {
			big[j] = i * int32(j)
		}
		c := tag.NewCompound()
		c.Set("payload", tag.IntArrayTag(big))
		a.SetChunk(i%GridSize, i/GridSize, tag.CompoundTag(c))
	}

	data, err := a.Save()
	require.NoError(t, err)
	require.Greater(t, len(data), 1<<20)

	lazy, err := LoadLazy(NewBytesSource(data), false)
	require.NoError(t, err)

	first, ok := lazy.GetChunk(0, 0)
	require.True(t, ok)
	second, ok := lazy.GetChunk(0, 0)
	require.True(t, ok)
	assert.True(t, first.Equal(second))

	lazy.ClearCache()

	third, ok := lazy.GetChunk(0, 0)
	require.True(t, ok)
	assert.True(t, first.Equal(third))
}

// TestCoordinateWrap exercises spec.md §8 property 8.
func TestCoordinateWrap(t *testing.T) {
	a := New()
	a.SetChunk(3, 4, smallCompound(42))

	for k := int32(-3); k <= 3; k++ {
		for m := int32(-3); m <= 3; m++ {
			tree, ok := a.GetChunk(3+32*k, 4+32*m)
			require.True(t, ok)
			assert.True(t, tree.Equal(smallCompound(42)))
		}
	}
}

// TestParallelGetChunk exercises spec.md §8 property 9.
func TestParallelGetChunk(t *testing.T) {
	a := New()
	for i := int32(0); i < 16; i++ {
		a.SetChunk(i, 0, smallCompound(i))
	}

	data, err := a.Save()
	require.NoError(t, err)

	lazy, err := LoadLazy(NewBytesSource(data), false)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]tag.Tag, 16)
	for i := int32(0); i < 16; i++ {
		wg.Add(1)
		go func(i int32) {
			defer wg.Done()
			tree, ok := lazy.GetChunk(i, 0)
			require.True(t, ok)
			results[i] = tree
		}(i)
	}
	wg.Wait()

	for i := int32(0); i < 16; i++ {
		assert.True(t, results[i].Equal(smallCompound(i)))
	}
}

func TestSave_PaddingIsZero(t *testing.T) {
	a := New()
	a.SetChunk(1, 1, smallCompound(7))

	data, err := a.Save()
	require.NoError(t, err)

	reloaded, err := Load(data)
	require.NoError(t, err)

	loc := reloaded.locations[slotIndex(1, 1)]
	payloadLen := reloaded.payloadLens[slotIndex(1, 1)]

	blobOff := int(loc.sectorOffset) * SectorSize
	blobEnd := blobOff + int(loc.sectorCount)*SectorSize
	payloadEnd := blobOff + ChunkHeaderSize + int(payloadLen) - 1

	for i := payloadEnd; i < blobEnd; i++ {
		assert.Equal(t, byte(0), data[i], "padding byte at offset %d must be zero", i)
	}
}

func TestSave_SectorCountMatchesFormula(t *testing.T) {
	a := New()
	a.SetChunk(2, 2, smallCompound(1))

	_, err := a.Save()
	require.NoError(t, err)

	loc := a.locations[slotIndex(2, 2)]
	want := sectorsForPayload(int(a.payloadLens[slotIndex(2, 2)]))
	assert.Equal(t, want, int(loc.sectorCount))
}

func TestRemoveChunk(t *testing.T) {
	a := New()
	a.SetChunk(0, 0, smallCompound(1))
	assert.True(t, a.RemoveChunk(0, 0))
	assert.False(t, a.RemoveChunk(0, 0))

	_, ok := a.GetChunk(0, 0)
	assert.False(t, ok)
	assert.Equal(t, 0, a.ChunkCount())
}

func TestRegionBounds(t *testing.T) {
	a := New()
	a.SetChunk(1, 2, smallCompound(1))
	a.SetChunk(10, 20, smallCompound(2))

	minX, minZ, maxX, maxZ, ok := a.RegionBounds()
	require.True(t, ok)
	assert.Equal(t, int32(1), minX)
	assert.Equal(t, int32(2), minZ)
	assert.Equal(t, int32(10), maxX)
	assert.Equal(t, int32(20), maxZ)
}

func TestStats(t *testing.T) {
	a := New()
	a.SetChunk(0, 0, smallCompound(1))
	a.SetChunk(1, 0, smallCompound(2))

	_, err := a.Save()
	require.NoError(t, err)

	s := a.Stats()
	assert.Equal(t, 2, s.PopulatedSlots)
	assert.GreaterOrEqual(t, s.TotalSectors, firstDataSector+2)
	assert.GreaterOrEqual(t, s.PaddingBytes, 0)
}

func TestDuplicateChunks(t *testing.T) {
	a := New()
	a.SetChunk(0, 0, smallCompound(1))
	a.SetChunk(1, 0, smallCompound(1))
	a.SetChunk(2, 0, smallCompound(2))

	dups, err := a.DuplicateChunks()
	require.NoError(t, err)
	require.Len(t, dups, 1)
	assert.True(t, dups[0].Confirmed)
}

func TestLoadManySaveMany(t *testing.T) {
	dir := t.TempDir()

	var paths []string
	var archives []*Archive
	for i := range 3 {
		a := New()
		a.SetChunk(int32(i), 0, smallCompound(int32(i)))
		archives = append(archives, a)
		paths = append(paths, filepath.Join(dir, "r"+string(rune('a'+i))+".tfa"))
	}

	results := SaveMany(context.Background(), paths, archives, WithMaxConcurrency(2))
	for _, r := range results {
		require.NoError(t, r.Err)
	}

	loaded := LoadMany(context.Background(), paths)
	require.Len(t, loaded, 3)
	for i, r := range loaded {
		require.NoError(t, r.Err)
		assert.Equal(t, paths[i], r.Path)
		tree, ok := r.Value.GetChunk(int32(i), 0)
		require.True(t, ok)
		assert.True(t, tree.Equal(smallCompound(int32(i))))
	}
}

func TestProcessDirectory(t *testing.T) {
	dir := t.TempDir()

	a := New()
	a.SetChunk(0, 0, smallCompound(9))
	data, err := a.Save()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "world.tfa"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hi"), 0o644))

	results, err := ProcessDirectory(context.Background(), dir, "*.tfa")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
}

func TestBundleRoundTrip(t *testing.T) {
	a1 := New()
	a1.SetChunk(0, 0, smallCompound(1))
	a2 := New()
	a2.SetChunk(1, 1, smallCompound(2))

	codec, err := CodecForFormat(format.CompressionLZ4)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteBundle(&buf, []*Archive{a1, a2}, codec))

	readCodec, err := CodecForFormat(format.CompressionLZ4)
	require.NoError(t, err)

	restored, err := ReadBundle(&buf, readCodec)
	require.NoError(t, err)
	require.Len(t, restored, 2)

	tree, ok := restored[0].GetChunk(0, 0)
	require.True(t, ok)
	assert.True(t, tree.Equal(smallCompound(1)))

	tree, ok = restored[1].GetChunk(1, 1)
	require.True(t, ok)
	assert.True(t, tree.Equal(smallCompound(2)))
}

func TestCodecForFormat_Invalid(t *testing.T) {
	codec, err := CodecForFormat(0)
	assert.Error(t, err)
	assert.Nil(t, codec)
}

func TestLoad_Empty(t *testing.T) {
	a := New()
	data, err := a.Save()
	require.NoError(t, err)

	reloaded, err := Load(data)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.ChunkCount())
}

func TestExtract_WholeChunk(t *testing.T) {
	a := New()
	a.SetChunk(5, 9, smallCompound(42))

	got, err := a.Extract("5,9")
	require.NoError(t, err)
	assert.True(t, got.Equal(smallCompound(42)))
}

func TestExtract_SubPath(t *testing.T) {
	a := New()
	a.SetChunk(-3, 4, smallCompound(7))

	got, err := a.Extract("-3,4.n")
	require.NoError(t, err)
	assert.Equal(t, tag.IntTag(7), got)
}

func TestExtract_ChunkNotPresent(t *testing.T) {
	a := New()
	_, err := a.Extract("1,1")
	require.Error(t, err)
}

func TestExtract_InvalidPathSyntax(t *testing.T) {
	a := New()
	a.SetChunk(0, 0, smallCompound(1))

	_, err := a.Extract("not-a-coord")
	require.Error(t, err)
}

func TestExtract_SubPathNotFound(t *testing.T) {
	a := New()
	a.SetChunk(0, 0, smallCompound(1))

	_, err := a.Extract("0,0.missing")
	require.Error(t, err)
}

func TestArchiveToJSON_FromJSON_RoundTrip(t *testing.T) {
	a := New()
	a.SetChunk(0, 0, smallCompound(1))
	a.SetChunk(5, 9, smallCompound(2))

	data, err := a.ToJSON()
	require.NoError(t, err)

	back, err := ArchiveFromJSON(data)
	require.NoError(t, err)

	assert.Equal(t, a.ChunkCount(), back.ChunkCount())

	// JSON ingest re-infers nested values, so "n" comes back as the
	// narrowest variant that holds it (Byte).
	want1 := tag.NewCompound()
	want1.Set("n", tag.ByteTag(1))
	want2 := tag.NewCompound()
	want2.Set("n", tag.ByteTag(2))

	tree, ok := back.GetChunk(0, 0)
	require.True(t, ok)
	assert.True(t, tree.Equal(tag.CompoundTag(want1)))

	tree, ok = back.GetChunk(5, 9)
	require.True(t, ok)
	assert.True(t, tree.Equal(tag.CompoundTag(want2)))
}

func TestArchiveToJSON_Empty(t *testing.T) {
	a := New()
	data, err := a.ToJSON()
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}
