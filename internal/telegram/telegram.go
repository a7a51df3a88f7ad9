// Package telegram is a minimal Telegram Bot API client: long-polling for
// updates plus sendMessage with reply keyboards. It covers exactly what the
// analytics bot needs and nothing more.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

// Update is one incoming event from getUpdates.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is an incoming or outgoing chat message.
type Message struct {
	MessageID int64  `json:"message_id"`
	Text      string `json:"text"`
	Chat      Chat   `json:"chat"`
	From      *User  `json:"from"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// KeyboardButton is one button of a reply keyboard.
type KeyboardButton struct {
	Text string `json:"text"`
}

// ReplyKeyboard is a custom reply keyboard shown under the input field.
type ReplyKeyboard struct {
	Keyboard        [][]KeyboardButton `json:"keyboard"`
	ResizeKeyboard  bool               `json:"resize_keyboard"`
	OneTimeKeyboard bool               `json:"one_time_keyboard"`
}

type sendMessageRequest struct {
	ChatID      int64          `json:"chat_id"`
	Text        string         `json:"text"`
	ParseMode   string         `json:"parse_mode,omitempty"`
	ReplyMarkup *ReplyKeyboard `json:"reply_markup,omitempty"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

// Client talks to the Telegram Bot API for one bot token.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	pollTimeout int // seconds, getUpdates long-poll window
}

// Option configures a Client.
type Option func(*Client)

// WithAPIBase overrides the API host (used by tests).
func WithAPIBase(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

// WithPollTimeout sets the getUpdates long-poll window in seconds.
func WithPollTimeout(seconds int) Option {
	return func(c *Client) {
		if seconds > 0 {
			c.pollTimeout = seconds
		}
	}
}

func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL:     defaultAPIBase,
		token:       token,
		pollTimeout: 30,
	}
	for _, opt := range opts {
		opt(c)
	}
	// The HTTP timeout must outlast the long-poll window.
	c.httpClient = &http.Client{Timeout: time.Duration(c.pollTimeout+10) * time.Second}
	return c
}

// GetUpdates long-polls for new updates after offset. Returns when updates
// arrive or the poll window expires with none.
func (c *Client) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	params := url.Values{}
	params.Set("offset", strconv.FormatInt(offset, 10))
	params.Set("timeout", strconv.Itoa(c.pollTimeout))

	reqURL := fmt.Sprintf("%s/bot%s/getUpdates?%s", c.baseURL, c.token, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build getUpdates request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("getUpdates: %w", err)
	}
	defer resp.Body.Close()

	result, err := decodeResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("getUpdates: %w", err)
	}

	var updates []Update
	if err := json.Unmarshal(result, &updates); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}
	return updates, nil
}

// SendMessage sends an HTML-formatted message, optionally with a reply
// keyboard.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, keyboard *ReplyKeyboard) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   "HTML",
		ReplyMarkup: keyboard,
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	reqURL := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sendMessage: %w", err)
	}
	defer resp.Body.Close()

	if _, err := decodeResponse(resp); err != nil {
		return fmt.Errorf("sendMessage: %w", err)
	}
	return nil
}

func decodeResponse(resp *http.Response) (json.RawMessage, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var api apiResponse
	if err := json.Unmarshal(body, &api); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if !api.OK {
		return nil, fmt.Errorf("api error (status %d): %s", resp.StatusCode, api.Description)
	}
	return api.Result, nil
}
