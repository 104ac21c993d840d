package filecache

import (
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/snappy"
)

// CompressionCodec represents a value compression algorithm.
type CompressionCodec string

const (
	CompressionNone   CompressionCodec = "none"
	CompressionGzip   CompressionCodec = "gzip"
	CompressionSnappy CompressionCodec = "snappy"
)

var (
	ErrValueTooLarge      = errors.New("filecache: value exceeds max size")
	ErrUnsupportedCodec   = errors.New("filecache: unsupported compression codec")
	ErrCorruptCompression = errors.New("filecache: corrupt compressed payload")
)

// The first byte of a compressed payload names its codec, so a reader never
// needs to know how the writer was configured.
const (
	gzipTag   byte = 'g'
	snappyTag byte = 's'
)

func compressValue(codec CompressionCodec, value []byte) ([]byte, error) {
	var buf bytes.Buffer
	switch codec {
	case CompressionGzip:
		_ = buf.WriteByte(gzipTag)
		zw, err := gzip.NewWriterLevel(&buf, gzip.BestSpeed)
		if err != nil {
			return nil, err
		}
		if _, err := zw.Write(value); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
	case CompressionSnappy:
		_ = buf.WriteByte(snappyTag)
		buf.Write(snappy.Encode(nil, value))
	default:
		return nil, ErrUnsupportedCodec
	}
	return buf.Bytes(), nil
}

func decompressValue(in []byte) ([]byte, error) {
	if len(in) < 1 {
		return nil, ErrCorruptCompression
	}
	payload := in[1:]
	switch in[0] {
	case gzipTag:
		gr, err := gzip.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, ErrCorruptCompression
		}
		defer gr.Close()
		out, err := io.ReadAll(gr)
		if err != nil {
			return nil, ErrCorruptCompression
		}
		return out, nil
	case snappyTag:
		out, err := snappy.Decode(nil, payload)
		if err != nil {
			return nil, ErrCorruptCompression
		}
		return out, nil
	default:
		return nil, ErrUnsupportedCodec
	}
}
