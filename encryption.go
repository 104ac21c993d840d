package filecache

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
)

var (
	ErrEncryptionKey = errors.New("filecache: encryption key must be 16, 24, or 32 bytes")
	ErrDecryptFailed = errors.New("filecache: decrypt failed")
)

// newAEAD returns nil, nil for an empty key: encryption is off.
func newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) == 0 {
		return nil, nil
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrEncryptionKey
	}
	return cipher.NewGCM(block)
}

// seal lays out nonce length, nonce, then ciphertext.
func seal(aead cipher.AEAD, plain []byte) ([]byte, error) {
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	ct := aead.Seal(nil, nonce, plain, nil)
	buf := make([]byte, 0, 1+len(nonce)+len(ct))
	buf = append(buf, byte(len(nonce)))
	buf = append(buf, nonce...)
	buf = append(buf, ct...)
	return buf, nil
}

func unseal(aead cipher.AEAD, in []byte) ([]byte, error) {
	if aead == nil || len(in) < 1 {
		return nil, ErrDecryptFailed
	}
	nonceLen := int(in[0])
	if nonceLen != aead.NonceSize() || len(in) < 1+nonceLen {
		return nil, ErrDecryptFailed
	}
	nonce := in[1 : 1+nonceLen]
	plain, err := aead.Open(nil, nonce, in[1+nonceLen:], nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plain, nil
}
