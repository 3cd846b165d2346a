package paymentprovider

// CreateSubscriptionRequest тело запроса создания подписки по плану.
type CreateSubscriptionRequest struct {
	PlanID         string `json:"plan_id"`
	CustomerNotify int    `json:"customer_notify"`
	TotalCount     int    `json:"total_count"`
}

// Subscription подписка в платёжном шлюзе. Поля, которые сервис не использует, опущены.
type Subscription struct {
	ID                  string `json:"id"`
	Entity              string `json:"entity"`
	PlanID              string `json:"plan_id"`
	Status              string `json:"status"`
	CustomerID          string `json:"customer_id,omitempty"`
	TotalCount          int    `json:"total_count"`
	PaidCount           int    `json:"paid_count"`
	ShortURL            string `json:"short_url,omitempty"`
	CreatedAt           int64  `json:"created_at"`
	CurrentEnd          int64  `json:"current_end,omitempty"`
	ChargeAt            int64  `json:"charge_at,omitempty"`
	EndedAt             int64  `json:"ended_at,omitempty"`
	HasScheduledChanges bool   `json:"has_scheduled_changes"`
}

// SubscriptionList ответ на запрос списка подписок.
type SubscriptionList struct {
	Entity string         `json:"entity"`
	Count  int            `json:"count"`
	Items  []Subscription `json:"items"`
}

// apiError формат ошибки шлюза.
type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}
