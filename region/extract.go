package region

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tagforge/tagforge/errs"
	"github.com/tagforge/tagforge/path"
	"github.com/tagforge/tagforge/tag"
)

// Extract pulls one chunk, or a subtree within it, out of the archive by a
// single path string (spec.md §6 RegionArchive::extract(path)): "x,z"
// addresses the whole chunk tree at that coordinate, and "x,z.rest" walks
// "rest" into the chunk tree using the Path Editor's dot-segment syntax
// (path.Get).
func (a *Archive) Extract(p string) (tag.Tag, error) {
	coordPart, subPath, hasSubPath := strings.Cut(p, ".")

	x, z, err := parseCoordPair(coordPart)
	if err != nil {
		return tag.Tag{}, fmt.Errorf("tagforge: extract %q: %w", p, err)
	}

	chunk, ok := a.GetChunk(x, z)
	if !ok {
		return tag.Tag{}, fmt.Errorf("%w: chunk (%d,%d) is not present", errs.ErrChunkNotPresent, x, z)
	}
	if !hasSubPath {
		return chunk, nil
	}

	v, ok := path.Get(chunk, subPath)
	if !ok {
		return tag.Tag{}, fmt.Errorf("%w: %q not found in chunk (%d,%d)", errs.ErrInvalidPath, subPath, x, z)
	}

	return v, nil
}

func parseCoordPair(s string) (x, z int32, err error) {
	xs, zs, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("%w: expected \"x,z\", got %q", errs.ErrInvalidPath, s)
	}

	xi, err := strconv.ParseInt(strings.TrimSpace(xs), 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid x coordinate %q", errs.ErrInvalidPath, xs)
	}
	zi, err := strconv.ParseInt(strings.TrimSpace(zs), 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid z coordinate %q", errs.ErrInvalidPath, zs)
	}

	return int32(xi), int32(zi), nil
}
