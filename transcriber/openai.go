package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

const defaultTranscriptionURL = "https://api.openai.com/v1/audio/transcriptions"

type OpenAI struct {
	apiKey string
	apiURL string
	client *http.Client
}

func NewOpenAI(apiKey string) *OpenAI {
	return &OpenAI{
		apiKey: apiKey,
		apiURL: defaultTranscriptionURL,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Transcribe(ctx context.Context, audio Audio, prompt string) (string, error) {
	data, err := os.ReadFile(audio.Path)
	if err != nil {
		return "", fmt.Errorf("%w: reading artifact: %v", ErrFailed, err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio."+audio.Format)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}

	writer.WriteField("model", "whisper-1")
	writer.WriteField("response_format", "json")
	if prompt != "" {
		writer.WriteField("prompt", prompt)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, "POST", o.apiURL, &body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("%w: openai API error %d: %s", ErrFailed, resp.StatusCode, string(respBody))
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: response parse error: %v", ErrFailed, err)
	}
	return validate(parsed.Text)
}
