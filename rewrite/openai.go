package rewrite

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jcarrus/typr/log"
)

const defaultChatURL = "https://api.openai.com/v1/chat/completions"

type OpenAI struct {
	apiKey string
	apiURL string
	client *http.Client
}

func NewOpenAI(apiKey string) *OpenAI {
	return &OpenAI{
		apiKey: apiKey,
		apiURL: defaultChatURL,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// Rewrite asks the model for a cleaned-up transcript. Every failure
// path logs and returns the transcript unchanged.
func (o *OpenAI) Rewrite(ctx context.Context, transcript, instruction string) (string, error) {
	system := defaultInstruction
	if strings.TrimSpace(instruction) != "" {
		system = instruction
	}

	payload, err := json.Marshal(chatRequest{
		Model: "gpt-4o-mini",
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: transcript},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return transcript, nil
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.apiURL, bytes.NewReader(payload))
	if err != nil {
		return transcript, nil
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		log.Warnf("rewrite request: %v", err)
		return transcript, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warnf("rewrite read: %v", err)
		return transcript, nil
	}
	if resp.StatusCode != 200 {
		log.Warnf("rewrite API error %d: %s", resp.StatusCode, string(body))
		return transcript, nil
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		log.Warnf("rewrite parse: %v", err)
		return transcript, nil
	}
	if len(parsed.Choices) == 0 {
		return transcript, nil
	}

	out := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if out == "" {
		return transcript, nil
	}
	return out, nil
}
