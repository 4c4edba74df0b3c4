package internal

import (
	"crypto/sha1"
	"encoding/hex"
	"io"
	"os"
)

// hashChunkSize bounds the read buffer so memory use does not grow with file size.
const hashChunkSize = 64 * 1024

// HashFile computes the SHA-1 content fingerprint of a file.
// Open and read failures come back as *UnreadableFileError; the hash is never
// defaulted, so unreadable files cannot end up grouped together.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &UnreadableFileError{Path: path, Err: err}
	}
	defer f.Close()

	sum, err := HashReader(f)
	if err != nil {
		return "", &UnreadableFileError{Path: path, Err: err}
	}
	return sum, nil
}

// HashReader computes the SHA-1 hex digest of everything r yields.
func HashReader(r io.Reader) (string, error) {
	h := sha1.New()
	buf := make([]byte, hashChunkSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
