package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APISender delivers email through a Brevo-style transactional HTTP API.
type APISender struct {
	url    string
	apiKey string
	from   apiParty
	client *http.Client
}

type apiParty struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type apiPayload struct {
	Sender      apiParty   `json:"sender"`
	To          []apiParty `json:"to"`
	Subject     string     `json:"subject"`
	HTMLContent string     `json:"htmlContent"`
}

func NewAPISender(cfg Config) (*APISender, error) {
	if cfg.APIURL == "" || cfg.APIKey == "" {
		return nil, errors.New("mail: api provider requires EMAIL_API_URL and EMAIL_API_KEY")
	}
	if cfg.FromAddress == "" {
		return nil, errors.New("mail: api provider requires EMAIL_FROM")
	}

	return &APISender{
		url:    cfg.APIURL,
		apiKey: cfg.APIKey,
		from:   apiParty{Name: cfg.FromName, Email: cfg.FromAddress},
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (s *APISender) SendEmail(ctx context.Context, to, subject, html string) error {
	payload := apiPayload{
		Sender:      s.from,
		To:          []apiParty{{Email: to}},
		Subject:     subject,
		HTMLContent: html,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("mail: encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("mail: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("mail: sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("mail: api responded %d: %s", resp.StatusCode, detail)
	}
	return nil
}
