package paymentprovider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SubscriptionSignature вычисляет hex HMAC-SHA256 от "paymentID|subscriptionID".
func SubscriptionSignature(secret, paymentID, subscriptionID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(paymentID + "|" + subscriptionID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySubscriptionSignature сравнивает подпись за постоянное время.
// subscriptionID должен браться из хранилища, а не из запроса клиента.
func VerifySubscriptionSignature(secret, paymentID, subscriptionID, signature string) bool {
	expected := SubscriptionSignature(secret, paymentID, subscriptionID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
