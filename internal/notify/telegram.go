package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

// TelegramClient sends messages through the Telegram Bot API.
type TelegramClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *log.Logger
}

// sendMessageRequest is the payload for Telegram's sendMessage method.
type sendMessageRequest struct {
	ChatID          string `json:"chat_id"`
	Text            string `json:"text"`
	ParseMode       string `json:"parse_mode,omitempty"`
	MessageThreadID int64  `json:"message_thread_id,omitempty"`
}

// sendMessageResponse is the envelope Telegram wraps every reply in.
type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

func NewTelegramClient(token string, logger *log.Logger) *TelegramClient {
	return &TelegramClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: defaultAPIBase,
		token:   token,
		logger:  logger,
	}
}

// SendMessage posts one message. A threadID of zero targets the chat
// directly; a non-zero threadID targets that topic within a group.
func (c *TelegramClient) SendMessage(ctx context.Context, chatID, text, parseMode string, threadID int64) error {
	payload, err := json.Marshal(sendMessageRequest{
		ChatID:          chatID,
		Text:            text,
		ParseMode:       parseMode,
		MessageThreadID: threadID,
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var tgResp sendMessageResponse
	if err := json.Unmarshal(respBody, &tgResp); err != nil {
		return fmt.Errorf("telegram api error: status=%d body=%s", resp.StatusCode, string(respBody))
	}
	if !tgResp.OK {
		return fmt.Errorf("telegram api error %d: %s", tgResp.ErrorCode, tgResp.Description)
	}

	return nil
}
