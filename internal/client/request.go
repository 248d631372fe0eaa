package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

const chatEndpoint = "/v1/chat"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// endpointURL derives the chat endpoint from the configured server URL.
// Purely string based, matching the server's route layout.
func endpointURL(base string) string {
	if strings.HasSuffix(base, chatEndpoint) {
		return base
	}
	if strings.HasSuffix(base, "/") {
		return base + "v1/chat"
	}
	return base + chatEndpoint
}

// requestBody marshals the outbound payload. HTML escaping is disabled so
// the wire bytes match what the server's other clients send.
func requestBody(message string, stream bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(chatRequest{
		Messages: []chatMessage{{Role: "user", Content: message}},
		Stream:   stream,
	})
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (c *Client) newRequest(ctx context.Context, message string, stream bool) (*http.Request, error) {
	body, err := requestBody(message, stream)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL(c.baseURL), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if stream {
		req.Header.Set("Accept", "text/event-stream")
	} else {
		req.Header.Set("Accept", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	if c.sessionID != "" {
		req.Header.Set("X-Session-ID", c.sessionID)
	}

	return req, nil
}
