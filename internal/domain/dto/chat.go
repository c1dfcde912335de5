package dto

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	DeveloperMessage string `json:"developer_message" binding:"required"`
	UserMessage      string `json:"user_message" binding:"required"`
	Model            string `json:"model" example:"gpt-4.1-mini"`
	APIKey           string `json:"api_key"`
}
