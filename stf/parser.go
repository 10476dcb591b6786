package stf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tagforge/tagforge/errs"
	"github.com/tagforge/tagforge/format"
	"github.com/tagforge/tagforge/tag"
)

// Parse parses STF text into a Tag (spec.md §4.E). Parse is the mirror of
// Emit: Parse(Emit(t)) == t for every well-formed Tag, and Parse accepts
// both the compact and pretty-printed forms since whitespace between
// tokens is insignificant.
func Parse(src string) (tag.Tag, error) {
	p := &parser{src: []byte(src)}
	p.skipWS()

	v, err := p.parseValue()
	if err != nil {
		return tag.Tag{}, err
	}

	p.skipWS()
	if p.pos != len(p.src) {
		return tag.Tag{}, p.errorAt(p.pos, "unexpected trailing input", errs.ErrUnexpectedToken)
	}

	return v, nil
}

type parser struct {
	src []byte
	pos int
}

func (p *parser) errorAt(pos int, msg string, cause error) error {
	return &ParseError{Position: pos, Message: msg, cause: cause}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}

	return p.src[p.pos]
}

func (p *parser) skipWS() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) parseValue() (tag.Tag, error) {
	p.skipWS()
	if p.pos >= len(p.src) {
		return tag.Tag{}, p.errorAt(p.pos, "unexpected end of input", errs.ErrUnexpectedToken)
	}

	switch p.src[p.pos] {
	case '{':
		return p.parseCompound()
	case '[':
		return p.parseList()
	case '"', '\'':
		s, err := p.parseQuotedString()
		if err != nil {
			return tag.Tag{}, err
		}

		return tag.StringTag(s), nil
	default:
		return p.parseLiteral()
	}
}

func (p *parser) parseCompound() (tag.Tag, error) {
	p.pos++ // consume '{'
	c := tag.NewCompound()

	p.skipWS()
	if p.peek() == '}' {
		p.pos++

		return tag.CompoundTag(c), nil
	}

	for {
		p.skipWS()

		key, err := p.parseKey()
		if err != nil {
			return tag.Tag{}, err
		}

		p.skipWS()
		if p.peek() != ':' {
			return tag.Tag{}, p.errorAt(p.pos, "expected ':' after compound key", errs.ErrUnexpectedToken)
		}
		p.pos++

		v, err := p.parseValue()
		if err != nil {
			return tag.Tag{}, err
		}
		c.Set(key, v)

		p.skipWS()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++

			return tag.CompoundTag(c), nil
		default:
			return tag.Tag{}, p.errorAt(p.pos, "expected ',' or '}' in compound", errs.ErrUnexpectedToken)
		}
	}
}

func (p *parser) parseKey() (string, error) {
	if p.peek() == '"' || p.peek() == '\'' {
		return p.parseQuotedString()
	}

	start := p.pos
	for p.pos < len(p.src) && isKeyChar(p.src[p.pos], p.pos == start) {
		p.pos++
	}

	if p.pos == start {
		return "", p.errorAt(p.pos, "expected compound key", errs.ErrUnexpectedToken)
	}

	return string(p.src[start:p.pos]), nil
}

func isKeyChar(b byte, first bool) bool {
	switch {
	case b == '_', b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z':
		return true
	case !first && (b >= '0' && b <= '9' || b == '-' || b == '.' || b == '+'):
		return true
	default:
		return false
	}
}

func (p *parser) parseList() (tag.Tag, error) {
	p.pos++ // consume '['
	p.skipWS()

	if kind, ok := p.peekTypedArrayPrefix(); ok {
		return p.parseTypedArray(kind)
	}

	if p.peek() == ']' {
		p.pos++

		return tag.MustListTag(format.Byte, nil), nil
	}

	var (
		items []tag.Tag
		elem  format.Variant
	)

	for {
		v, err := p.parseValue()
		if err != nil {
			return tag.Tag{}, err
		}

		if len(items) == 0 {
			elem = v.Variant()
		} else if v.Variant() != elem {
			return tag.Tag{}, p.errorAt(p.pos, fmt.Sprintf("list element has variant %s, want %s", v.Variant(), elem), errs.ErrListTypeMismatch)
		}
		items = append(items, v)

		p.skipWS()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++

			return tag.ListTag(elem, items)
		default:
			return tag.Tag{}, p.errorAt(p.pos, "expected ',' or ']' in list", errs.ErrUnexpectedToken)
		}
	}
}

func (p *parser) peekTypedArrayPrefix() (byte, bool) {
	if p.pos+1 >= len(p.src) {
		return 0, false
	}

	c := p.src[p.pos]
	if (c == 'B' || c == 'I' || c == 'L') && p.src[p.pos+1] == ';' {
		return c, true
	}

	return 0, false
}

func (p *parser) parseTypedArray(kind byte) (tag.Tag, error) {
	p.pos += 2 // consume kind + ';'
	p.skipWS()

	if p.peek() == ']' {
		p.pos++

		switch kind {
		case 'B':
			return tag.ByteArrayTag(nil), nil
		case 'I':
			return tag.IntArrayTag(nil), nil
		default:
			return tag.LongArrayTag(nil), nil
		}
	}

	switch kind {
	case 'B':
		return p.parseByteArrayBody()
	case 'I':
		return p.parseIntArrayBody()
	default:
		return p.parseLongArrayBody()
	}
}

func (p *parser) parseByteArrayBody() (tag.Tag, error) {
	var vals []byte
	for {
		p.skipWS()

		t, err := p.parseLiteral()
		if err != nil {
			return tag.Tag{}, err
		}
		v, ok := t.AsByte()
		if !ok {
			return tag.Tag{}, p.errorAt(p.pos, "expected byte literal in byte array", errs.ErrUnexpectedToken)
		}
		vals = append(vals, byte(v)) //nolint:gosec

		p.skipWS()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++

			return tag.ByteArrayTag(vals), nil
		default:
			return tag.Tag{}, p.errorAt(p.pos, "expected ',' or ']' in byte array", errs.ErrUnexpectedToken)
		}
	}
}

func (p *parser) parseIntArrayBody() (tag.Tag, error) {
	var vals []int32
	for {
		p.skipWS()

		t, err := p.parseLiteral()
		if err != nil {
			return tag.Tag{}, err
		}
		v, ok := t.AsInt()
		if !ok {
			return tag.Tag{}, p.errorAt(p.pos, "expected int literal in int array", errs.ErrUnexpectedToken)
		}
		vals = append(vals, v)

		p.skipWS()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++

			return tag.IntArrayTag(vals), nil
		default:
			return tag.Tag{}, p.errorAt(p.pos, "expected ',' or ']' in int array", errs.ErrUnexpectedToken)
		}
	}
}

func (p *parser) parseLongArrayBody() (tag.Tag, error) {
	var vals []int64
	for {
		p.skipWS()

		t, err := p.parseLiteral()
		if err != nil {
			return tag.Tag{}, err
		}
		v, ok := t.AsLong()
		if !ok {
			return tag.Tag{}, p.errorAt(p.pos, "expected long literal in long array", errs.ErrUnexpectedToken)
		}
		vals = append(vals, v)

		p.skipWS()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++

			return tag.LongArrayTag(vals), nil
		default:
			return tag.Tag{}, p.errorAt(p.pos, "expected ',' or ']' in long array", errs.ErrUnexpectedToken)
		}
	}
}

// parseLiteral reads a numeric literal with an optional trailing type
// suffix (b/s/L/f/d), or a bare 'd'-less double containing '.'/'e'/'E'
// (spec.md §4.E).
func (p *parser) parseLiteral() (tag.Tag, error) {
	start := p.pos

	if p.peek() == '+' || p.peek() == '-' {
		p.pos++
	}
	for p.pos < len(p.src) && isLiteralBodyChar(p.src[p.pos]) {
		p.pos++
	}

	if p.pos == start {
		return tag.Tag{}, p.errorAt(p.pos, "expected literal", errs.ErrUnexpectedToken)
	}

	raw := string(p.src[start:p.pos])

	var suffix byte
	if p.pos < len(p.src) {
		switch p.src[p.pos] {
		case 'b', 's', 'L', 'f', 'd':
			suffix = p.src[p.pos]
			p.pos++
		}
	}

	return classifyLiteral(raw, suffix, start, p)
}

func isLiteralBodyChar(b byte) bool {
	switch {
	case b >= '0' && b <= '9':
		return true
	case b == '.', b == 'e', b == 'E', b == '+', b == '-':
		return true
	default:
		return false
	}
}

func classifyLiteral(raw string, suffix byte, start int, p *parser) (tag.Tag, error) {
	switch suffix {
	case 'b':
		n, err := strconv.ParseInt(raw, 10, 8)
		if err != nil {
			return tag.Tag{}, p.errorAt(start, "invalid byte literal", errs.ErrUnexpectedToken)
		}

		return tag.ByteTag(int8(n)), nil
	case 's':
		n, err := strconv.ParseInt(raw, 10, 16)
		if err != nil {
			return tag.Tag{}, p.errorAt(start, "invalid short literal", errs.ErrUnexpectedToken)
		}

		return tag.ShortTag(int16(n)), nil
	case 'L':
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return tag.Tag{}, p.errorAt(start, "invalid long literal", errs.ErrUnexpectedToken)
		}

		return tag.LongTag(n), nil
	case 'f':
		f, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return tag.Tag{}, p.errorAt(start, "invalid float literal", errs.ErrUnexpectedToken)
		}

		return tag.FloatTag(float32(f)), nil
	case 'd':
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return tag.Tag{}, p.errorAt(start, "invalid double literal", errs.ErrUnexpectedToken)
		}

		return tag.DoubleTag(f), nil
	default:
		if strings.ContainsAny(raw, ".eE") {
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return tag.Tag{}, p.errorAt(start, "invalid double literal", errs.ErrUnexpectedToken)
			}

			return tag.DoubleTag(f), nil
		}

		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return tag.Tag{}, p.errorAt(start, "invalid int literal", errs.ErrUnexpectedToken)
		}

		return tag.IntTag(int32(n)), nil
	}
}

func (p *parser) parseQuotedString() (string, error) {
	quote := p.src[p.pos]
	start := p.pos
	p.pos++

	var b strings.Builder
	for {
		if p.pos >= len(p.src) {
			return "", p.errorAt(start, "unterminated string literal", errs.ErrUnterminated)
		}

		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++

			return b.String(), nil
		case c == '\\':
			p.pos++
			if p.pos >= len(p.src) {
				return "", p.errorAt(start, "unterminated escape sequence", errs.ErrUnterminated)
			}

			switch p.src[p.pos] {
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			case '\'':
				b.WriteByte('\'')
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				return "", p.errorAt(p.pos, "unknown escape sequence", errs.ErrUnexpectedToken)
			}
			p.pos++
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
}
