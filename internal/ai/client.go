// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package ai suggests session descriptions via an OpenAI-compatible
// chat-completions API.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const httpTimeout = 60 * time.Second

// ChatMessage is a single message in a chat completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// NewClient creates a suggestion client. baseURL defaults to the OpenAI API.
func NewClient(apiKey, model, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: httpTimeout},
	}
}

// suggestPrompt frames the request. The domain speaks Spanish, so the
// suggestion does too.
const suggestPrompt = "Eres el asistente de una agenda de sesiones internas " +
	"(formaciones, reuniones, demos, workshops y conferencias). Escribe una " +
	"descripción breve en español, de dos o tres frases, para la sesión " +
	"indicada. Responde solo con la descripción, sin comillas ni encabezados."

// SuggestDescription asks the model for a session description given the
// session title, category and city.
func (c *Client) SuggestDescription(ctx context.Context, title, category, city string) (string, error) {
	user := fmt.Sprintf("Título: %s\nCategoría: %s\nCiudad: %s", title, category, city)

	body := map[string]any{
		"model": c.model,
		"messages": []ChatMessage{
			{Role: "system", Content: suggestPrompt},
			{Role: "user", Content: user},
		},
		"max_tokens":  300,
		"temperature": 0.7,
	}

	respBody, err := c.doJSONRequest(ctx, c.baseURL+"/chat/completions", body)
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("openai decode: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

// doJSONRequest performs a JSON HTTP request with Bearer token auth.
func (c *Client) doJSONRequest(ctx context.Context, url string, body any) ([]byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
