package filecache

import (
	"bytes"
	"crypto/cipher"
	"errors"
	"fmt"
)

// File layout: magic, one flag byte, payload. The payload is msgpack,
// optionally compressed and then optionally sealed.
var fileRecordMagic = []byte("FCE1")

const fileHeaderLen = 5

const (
	flagCompressed byte = 1 << iota
	flagEncrypted
)

var errForeignRecord = errors.New("not a filecache record")

// shaper turns values into file bytes and back according to a Cache's
// compression, size and encryption settings.
type shaper struct {
	codec CompressionCodec
	max   int
	aead  cipher.AEAD
}

func (s shaper) encode(value any) ([]byte, error) {
	body, err := marshalValue(value)
	if err != nil {
		return nil, err
	}
	if s.max > 0 && len(body) > s.max {
		return nil, ErrValueTooLarge
	}

	var flags byte
	if s.codec != CompressionNone {
		body, err = compressValue(s.codec, body)
		if err != nil {
			return nil, err
		}
		if s.max > 0 && len(body) > s.max {
			return nil, ErrValueTooLarge
		}
		flags |= flagCompressed
	}
	if s.aead != nil {
		body, err = seal(s.aead, body)
		if err != nil {
			return nil, err
		}
		flags |= flagEncrypted
	}

	out := make([]byte, 0, fileHeaderLen+len(body))
	out = append(out, fileRecordMagic...)
	out = append(out, flags)
	return append(out, body...), nil
}

// decode returns the msgpack payload held in data.
func (s shaper) decode(data []byte) ([]byte, error) {
	if len(data) < fileHeaderLen || !bytes.Equal(data[:len(fileRecordMagic)], fileRecordMagic) {
		return nil, errForeignRecord
	}
	flags := data[len(fileRecordMagic)]
	if flags&^(flagCompressed|flagEncrypted) != 0 {
		return nil, fmt.Errorf("unknown record flags %#x", flags)
	}
	body := data[fileHeaderLen:]

	var err error
	if flags&flagEncrypted != 0 {
		if body, err = unseal(s.aead, body); err != nil {
			return nil, err
		}
	}
	if flags&flagCompressed != 0 {
		if body, err = decompressValue(body); err != nil {
			return nil, err
		}
	}
	return body, nil
}
