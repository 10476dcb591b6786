package tbf

import "github.com/tagforge/tagforge/compress"

// ReadGzip decompresses a gzip-wrapped TBF stream (the ".dat"-equivalent
// file format, spec.md §4.B, §6) and parses the resulting raw bytes. No
// additional header surrounds the gzip stream.
func ReadGzip(data []byte) (Document, error) {
	raw, err := compress.NewGzipCodec().Decompress(data)
	if err != nil {
		return Document{}, err
	}

	doc, _, err := Read(raw)

	return doc, err
}

// WriteGzip serializes doc and gzip-compresses the result.
func WriteGzip(doc Document) ([]byte, error) {
	raw, err := Write(doc)
	if err != nil {
		return nil, err
	}

	return compress.NewGzipCodec().Compress(raw)
}
