package models

import "time"

// Payment неизменяемая квитанция об успешно проверенной оплате подписки.
type Payment struct {
	ID                    string    `json:"id"`
	UserID                string    `json:"userId"`
	GatewayPaymentID      string    `json:"razorpay_payment_id"`
	GatewaySignature      string    `json:"razorpay_signature"`
	GatewaySubscriptionID string    `json:"razorpay_subscription_id"`
	CreatedAt             time.Time `json:"createdAt"`
}
