// Package resettoken выпускает одноразовые токены сброса пароля.
//
// В хранилище попадает только sha256 хэш токена и срок его действия,
// открытый токен возвращается один раз и уходит пользователю письмом.
package resettoken

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

const tokenBytes = 20

// Token открытое значение токена вместе с данными для хранения.
type Token struct {
	Plain  string
	Hash   string
	Expiry time.Time
}

// New генерирует токен, действующий ttl от момента now.
func New(now time.Time, ttl time.Duration) (Token, error) {
	const op = "resettoken.New"
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return Token{}, fmt.Errorf("%s: %w", op, err)
	}
	plain := hex.EncodeToString(buf)
	return Token{
		Plain:  plain,
		Hash:   Hash(plain),
		Expiry: now.Add(ttl),
	}, nil
}

// Hash возвращает hex sha256 от открытого токена.
func Hash(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
