package main

import (
	"bytes"
	"compress/zlib"
	"crypto/aes"
	"crypto/cipher"
	crand "crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/axbits/lsbsteg/internal/logging"
)

// deriveKey turns an operator-supplied passphrase into a 32-byte AES-256
// key.
func deriveKey(passphrase string) []byte {
	sum := sha256.Sum256([]byte(passphrase))
	return sum[:]
}

// compress zlib-compresses data before it reaches the core embed call.
func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	n, err := zw.Write(data)
	if err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	logging.Default().Debug().Int("in", n).Int("out", buf.Len()).Msg("compressed payload")
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var out bytes.Buffer
	if _, err := io.Copy(&out, zr); err != nil {
		return nil, err
	}
	logging.Default().Debug().Int("in", len(data)).Int("out", out.Len()).Msg("decompressed payload")
	return out.Bytes(), nil
}

// encrypt seals data with AES-256-GCM under a key derived from passphrase,
// prepending a fresh 96-bit nonce.
func encrypt(data []byte, passphrase string) ([]byte, error) {
	block, err := aes.NewCipher(deriveKey(passphrase))
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := crand.Read(nonce); err != nil {
		return nil, err
	}

	sealed := gcm.Seal(nonce, nonce, data, nil)
	logging.Default().Debug().Int("in", len(data)).Int("out", len(sealed)).Msg("encrypted payload")
	return sealed, nil
}

func decrypt(data []byte, passphrase string) ([]byte, error) {
	block, err := aes.NewCipher(deriveKey(passphrase))
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(data) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext shorter than nonce size")
	}

	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, err
	}
	logging.Default().Debug().Int("in", len(data)).Int("out", len(plain)).Msg("decrypted payload")
	return plain, nil
}
