// Package jwt реализует выпуск и проверку сессионных JWT токенов.
//
// Токен не хранится на сервере: подлинность проверяется подписью HS256,
// срок действия задаётся полем exp. Claims фиксируют снимок пользователя на момент выпуска.
package jwt

import (
	"time"

	"github.com/magabrotheeeer/lms-server/internal/models"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken выпускает токен со снимком id, email, роли и подписки пользователя.
	GenerateToken(user *models.User) (string, error)
	// ParseToken проверяет подпись и срок действия и возвращает claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
