package models

// WebhookNotification уведомление Mercado Pago о событии платежа.
// Action и Data.ID обязательны только для уведомлений типа subscription.
type WebhookNotification struct {
	Type   string      `json:"type"`
	Action string      `json:"action"`
	Data   WebhookData `json:"data"`
}

// WebhookData ссылка на объект провайдера.
type WebhookData struct {
	ID string `json:"id"`
}
