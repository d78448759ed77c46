package transport

// OrderStatusRequest is the body of PATCH /api/v1/orders/{id}/status.
type OrderStatusRequest struct {
	Status string `json:"status"`
}

// MessageRequest is the body of POST /api/v1/conversations/{id}/messages.
type MessageRequest struct {
	Content string `json:"content"`
}
