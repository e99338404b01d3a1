package objectid

import (
	"encoding/hex"
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/blake2b"
)

// FromPayload returns the lowercase hex BLAKE2b-256 digest of payload.
func FromPayload(payload []byte) string {
	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func Validate(id string) error {
	if id == "" {
		return errors.New("object id is required")
	}
	if strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return errors.New("object id must not contain whitespace")
	}
	if strings.ContainsAny(id, `/\`) {
		return errors.New("object id must not contain path separators")
	}
	return nil
}
