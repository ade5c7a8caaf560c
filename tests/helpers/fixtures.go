package helpers

import (
	"encoding/json"
)

// TestUser represents a test user fixture
type TestUser struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Default test fixtures
var (
	DefaultTestUser = TestUser{
		Email:    "test@example.com",
		Password: "test-password-123",
	}
)

// WebsiteAnswers is a full scripted conversation for the website
// questionnaire, in the order the questions are asked.
var WebsiteAnswers = []string{
	"Kaif",
	"CartNest",
	"A sneaker selling site for young collectors",
	"E-commerce",
	"Shopify",
	"Shop/Store, Product Pages, Cart/Checkout",
	"Payment Gateway (Razorpay/Stripe)",
	"No, need design from scratch",
	"Yes, I have a domain",
	"35,000 INR",
	"6 weeks",
}

// ToJSON converts a fixture to JSON string
func ToJSON(fixture interface{}) string {
	data, _ := json.Marshal(fixture)
	return string(data)
}

// CreateTestLoginRequest creates a login request payload
func CreateTestLoginRequest(email, password string) map[string]interface{} {
	return map[string]interface{}{
		"email":    email,
		"password": password,
	}
}

// CreateTestConversationRequest creates a conversation creation payload
func CreateTestConversationRequest(service, mode string) map[string]interface{} {
	req := map[string]interface{}{
		"service": service,
	}
	if mode != "" {
		req["mode"] = mode
	}
	return req
}

// CreateTestMessageRequest creates a message payload
func CreateTestMessageRequest(content string) map[string]interface{} {
	return map[string]interface{}{
		"content": content,
	}
}
