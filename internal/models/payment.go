package models

type ContactRequest struct {
	FirstName string `validate:"required"`
	Email     string `validate:"required"`
	Message   string `validate:"required"`
}

type CreateOrderRequest struct {
	Amount   float64
	CustomID string
	Currency string
}

type CreateSubscriptionRequest struct {
	Amount   float64
	CustomID string
}
