package htmldoc

import (
	"unicode/utf8"
)

// ByteSource is the size-bounded, encoding-normalizing input adapter
// (§2, §4.1). It accepts raw bytes, rejects nil with a typed error,
// rejects inputs over MaxDocumentSize, and decodes as UTF-8 falling
// back to latin-1 on invalid sequences.
type ByteSource struct {
	bytes []byte
}

// NewByteSource validates html against cfg and wraps it.
func NewByteSource(html []byte, cfg *ParserConfig) (*ByteSource, error) {
	if html == nil {
		return nil, ErrNilInput
	}
	if len(html) > cfg.MaxDocumentSize {
		return nil, &DocumentTooLargeError{Size: len(html), Max: cfg.MaxDocumentSize}
	}
	return &ByteSource{bytes: decode(html)}, nil
}

func (b *ByteSource) Bytes() []byte { return b.bytes }
func (b *ByteSource) Len() int      { return len(b.bytes) }

// decode returns html unchanged if it is valid UTF-8; otherwise
// reinterprets it as Latin-1 (ISO-8859-1), where every byte maps
// directly to the Unicode code point of the same value.
func decode(html []byte) []byte {
	if utf8.Valid(html) {
		return html
	}
	out := make([]rune, len(html))
	for i, b := range html {
		out[i] = rune(b)
	}
	return []byte(string(out))
}
