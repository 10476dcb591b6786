// Package tagforge provides a tagged binary tree serialization format: a
// 12-variant value model (byte/short/int/long/float/double/string, byte/int/
// long arrays, list, compound), a big-endian wire codec, a sector-addressed
// multi-chunk region archive, a dot-path editor, and two text views
// (Stringified Text Form and a JSON erasure).
//
// # Core Features
//
//   - Tagged binary tree values with a compound/list/array type system
//   - A big-endian wire codec (tbf) and its gzip-wrapped file form
//   - A 1024-slot sector-addressed region archive (region) for bundling many
//     trees into one file, with lazy loading, bulk I/O, bundling, and
//     duplicate-chunk detection
//   - A dot-separated path editor (path) with get/set and type inference
//   - A human-editable text form (stf) and a JSON view (jsonview)
//
// # Basic Usage
//
// Building and serializing a tree:
//
//	root := tag.NewCompound()
//	root.Set("name", tag.StringTag("villager"))
//	root.Set("health", tag.IntTag(20))
//
//	doc := tbf.Document{Name: "entity", Root: tag.CompoundTag(root)}
//	data, err := tbf.Write(doc)
//
// Reading it back:
//
//	got, _, err := tbf.Read(data)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around tag, tbf,
// path, region, stf, and jsonview. For advanced usage and fine-grained
// control, use those packages directly.
package tagforge

import (
	"context"

	"github.com/tagforge/tagforge/format"
	"github.com/tagforge/tagforge/jsonview"
	"github.com/tagforge/tagforge/path"
	"github.com/tagforge/tagforge/region"
	"github.com/tagforge/tagforge/stf"
	"github.com/tagforge/tagforge/tag"
	"github.com/tagforge/tagforge/tbf"
)

// Read decodes a wire-format TBF document from data.
func Read(data []byte) (tbf.Document, int, error) {
	return tbf.Read(data)
}

// Write encodes doc into its wire-format TBF representation.
func Write(doc tbf.Document) ([]byte, error) {
	return tbf.Write(doc)
}

// ReadGzip decodes a gzip-compressed TBF document, the conventional on-disk
// file form.
func ReadGzip(data []byte) (tbf.Document, error) {
	return tbf.ReadGzip(data)
}

// WriteGzip encodes doc and gzip-compresses the result.
func WriteGzip(doc tbf.Document) ([]byte, error) {
	return tbf.WriteGzip(doc)
}

// Get reads the value at a dot-separated path within root.
func Get(root tag.Tag, path_ string) (tag.Tag, bool) {
	return path.Get(root, path_)
}

// Set returns root with the value at path_ created or replaced, inferring
// a Tag variant from value when it is not already a tag.Tag. It does not
// copy root: Compounds along the path are modified in place and shared
// with the result, while a List along the path is replaced by a new List.
// Every parent along path_ must already exist.
func Set(root tag.Tag, path_ string, value any) (tag.Tag, error) {
	return path.Set(root, path_, value)
}

// Validate walks t and reports structural diagnostics (unknown variants,
// mismatched list element types, out-of-range numerics).
func Validate(t tag.Tag) []tag.Diagnostic {
	return tag.Validate(t)
}

// Inspect renders a depth-bounded structural outline of t, useful for
// debugging large trees without dumping every value.
func Inspect(t tag.Tag, maxDepth int) string {
	return tag.Inspect(t, maxDepth)
}

// NewArchive creates an empty region archive (spec.md §4.D), a 1024-slot
// sector-addressed container for chunk trees keyed by (x, z) coordinates.
func NewArchive() *region.Archive {
	return region.New()
}

// LoadArchive reads a region archive eagerly from an in-memory byte slice.
func LoadArchive(data []byte) (*region.Archive, error) {
	return region.Load(data)
}

// LoadArchiveFile opens a region archive from disk, loading every present
// chunk eagerly.
func LoadArchiveFile(path_ string) (*region.Archive, error) {
	return region.LoadFile(path_)
}

// LoadArchiveFileLazy opens a region archive from disk without decoding any
// chunk payloads; chunks are decompressed and parsed on first access.
func LoadArchiveFileLazy(path_ string) (*region.Archive, error) {
	return region.LoadLazyFile(path_)
}

// ExtractFromArchive pulls one chunk, or a subtree within it, out of an
// archive by a single path string (spec.md §6 RegionArchive::extract(path)).
func ExtractFromArchive(a *region.Archive, p string) (tag.Tag, error) {
	return a.Extract(p)
}

// LoadManyArchives loads archives from paths concurrently.
func LoadManyArchives(ctx context.Context, paths []string, opts ...region.BulkOption) []region.FileResult[*region.Archive] {
	return region.LoadMany(ctx, paths, opts...)
}

// SaveManyArchives saves archives to paths concurrently.
func SaveManyArchives(ctx context.Context, paths []string, archives []*region.Archive, opts ...region.BulkOption) []region.FileResult[struct{}] {
	return region.SaveMany(ctx, paths, archives, opts...)
}

// ProcessDirectory loads every file matching pattern under dir concurrently.
func ProcessDirectory(ctx context.Context, dir, pattern string, opts ...region.BulkOption) ([]region.FileResult[*region.Archive], error) {
	return region.ProcessDirectory(ctx, dir, pattern, opts...)
}

// ArchiveToJSON renders every chunk in an archive as a JSON view
// (spec.md §6 RegionArchive::to_json).
func ArchiveToJSON(a *region.Archive) ([]byte, error) {
	return a.ToJSON()
}

// ArchiveFromJSON is the inverse of ArchiveToJSON (spec.md §6
// RegionArchive::from_json).
func ArchiveFromJSON(data []byte) (*region.Archive, error) {
	return region.ArchiveFromJSON(data)
}

// Emit renders t as Stringified Text Form (spec.md §4.E).
func Emit(t tag.Tag, opts ...stf.EmitOption) string {
	return stf.Emit(t, opts...)
}

// ParseSTF parses Stringified Text Form back into a Tag.
func ParseSTF(src string) (tag.Tag, error) {
	return stf.Parse(src)
}

// ToJSON renders doc as a `{name, type, value}` JSON view.
func ToJSON(doc tbf.Document) ([]byte, error) {
	return jsonview.ToJSON(doc)
}

// FromJSON parses a JSON view back into a Document.
func FromJSON(data []byte) (tbf.Document, error) {
	return jsonview.FromJSON(data)
}

// Variant re-exports format.Variant for convenience so callers building
// lists don't need a separate import for the common case.
type Variant = format.Variant
