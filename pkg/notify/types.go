package notify

// DeliveryRequest is the payload posted to the gateway's /send endpoint
type DeliveryRequest struct {
	Channel   string `json:"channel"`
	Recipient string `json:"recipient"`
	Template  string `json:"template"`
	Code      string `json:"code"`
}

// DeliveryResponse represents the gateway's answer to a delivery request
type DeliveryResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// TemplateCaptcha is the gateway template used for verification codes
const TemplateCaptcha = "captcha"
