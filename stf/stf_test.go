package stf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagforge/tagforge/errs"
	"github.com/tagforge/tagforge/format"
	"github.com/tagforge/tagforge/tag"
)

// TestParse_S3 exercises spec.md §8 scenario S3.
func TestParse_S3(t *testing.T) {
	got, err := Parse(`{a:1b,b:[I;1,2,3],c:"x y"}`)
	require.NoError(t, err)

	c, ok := got.AsCompound()
	require.True(t, ok)

	a, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, tag.ByteTag(1), a)

	b, ok := c.Get("b")
	require.True(t, ok)
	assert.True(t, b.Equal(tag.IntArrayTag([]int32{1, 2, 3})))

	cc, ok := c.Get("c")
	require.True(t, ok)
	assert.Equal(t, tag.StringTag("x y"), cc)

	assert.Equal(t, `{a:1b,b:[I;1,2,3],c:"x y"}`, Emit(got))
}

func sampleTree() tag.Tag {
	c := tag.NewCompound()
	c.Set("byte", tag.ByteTag(-5))
	c.Set("short", tag.ShortTag(1000))
	c.Set("int", tag.IntTag(42))
	c.Set("long", tag.LongTag(9223372036854775807))
	c.Set("float", tag.FloatTag(1.5))
	c.Set("double", tag.DoubleTag(3.25))
	c.Set("str", tag.StringTag(`has "quotes" and \backslash\`))
	c.Set("bytes", tag.ByteArrayTag([]byte{0, 1, 255, 128}))
	c.Set("ints", tag.IntArrayTag([]int32{-1, 0, 1}))
	c.Set("longs", tag.LongArrayTag([]int64{-1, 0, 1}))
	c.Set("list", tag.MustListTag(format.Int, []tag.Tag{tag.IntTag(1), tag.IntTag(2)}))
	c.Set("empty_list", tag.MustListTag(format.Byte, nil))

	inner := tag.NewCompound()
	inner.Set("nested", tag.StringTag("value"))
	c.Set("compound", tag.CompoundTag(inner))

	return tag.CompoundTag(c)
}

func TestRoundTrip_Compact(t *testing.T) {
	tree := sampleTree()
	out := Emit(tree)

	back, err := Parse(out)
	require.NoError(t, err)
	assert.True(t, tree.Equal(back), "round trip mismatch:\n%s", out)
}

func TestRoundTrip_Pretty(t *testing.T) {
	tree := sampleTree()
	out := Emit(tree, WithPretty(true))

	back, err := Parse(out)
	require.NoError(t, err)
	assert.True(t, tree.Equal(back), "pretty round trip mismatch:\n%s", out)
}

func TestEmit_SingleQuoteAcceptedOnParse(t *testing.T) {
	got, err := Parse(`{msg:'hello'}`)
	require.NoError(t, err)

	c, _ := got.AsCompound()
	v, ok := c.Get("msg")
	require.True(t, ok)
	assert.Equal(t, tag.StringTag("hello"), v)
}

func TestEmit_QuotedKeyWhenNotBare(t *testing.T) {
	c := tag.NewCompound()
	c.Set("has space", tag.IntTag(1))
	tree := tag.CompoundTag(c)

	out := Emit(tree)
	assert.Equal(t, `{"has space":1}`, out)

	back, err := Parse(out)
	require.NoError(t, err)
	assert.True(t, tree.Equal(back))
}

func TestEmit_PrettyCollapsesShortChildren(t *testing.T) {
	tree := tag.MustListTag(format.Int, []tag.Tag{tag.IntTag(1), tag.IntTag(2), tag.IntTag(3)})
	out := Emit(tree, WithPretty(true))
	assert.Equal(t, "[1, 2, 3]", out)
}

func TestEmit_PrettyExpandsLongChildren(t *testing.T) {
	long := tag.StringTag("this string is deliberately long enough to force a break")
	tree := tag.MustListTag(format.String, []tag.Tag{long, long})

	out := Emit(tree, WithPretty(true))
	assert.Contains(t, out, "\n")

	back, err := Parse(out)
	require.NoError(t, err)
	assert.True(t, tree.Equal(back))
}

func TestParse_UnterminatedString(t *testing.T) {
	_, err := Parse(`{a:"unterminated`)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrUnterminated)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestParse_ListTypeMismatch(t *testing.T) {
	_, err := Parse(`[1,2b]`)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrListTypeMismatch)
}

func TestParse_UnexpectedToken(t *testing.T) {
	_, err := Parse(`{a:1`)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrUnexpectedToken)
}

func TestParse_TrailingGarbage(t *testing.T) {
	_, err := Parse(`1 2`)
	require.Error(t, err)
}

func TestParse_EmptyCompoundAndList(t *testing.T) {
	got, err := Parse(`{}`)
	require.NoError(t, err)
	c, ok := got.AsCompound()
	require.True(t, ok)
	assert.Equal(t, 0, c.Len())

	got, err = Parse(`[]`)
	require.NoError(t, err)
	elem, ok := got.ListElem()
	require.True(t, ok)
	assert.Equal(t, format.Byte, elem)
}

func TestParse_DoubleWithoutSuffix(t *testing.T) {
	got, err := Parse(`1.5`)
	require.NoError(t, err)
	v, ok := got.AsDouble()
	require.True(t, ok)
	assert.InDelta(t, 1.5, v, 0.0001)
}

func TestEmit_Deterministic(t *testing.T) {
	tree := sampleTree()
	assert.Equal(t, Emit(tree), Emit(tree))
}
