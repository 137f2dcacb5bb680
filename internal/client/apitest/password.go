package apitest

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

type passwordHash struct {
	salt []byte
	key  []byte
}

func derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, 1, 8*1024, 1, 32)
}

func hashPassword(password string) passwordHash {
	salt := make([]byte, 16)
	_, _ = rand.Read(salt)
	return passwordHash{salt: salt, key: derive(password, salt)}
}

func (h passwordHash) matches(password string) bool {
	return subtle.ConstantTimeCompare(derive(password, h.salt), h.key) == 1
}
