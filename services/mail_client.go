// services/mail_client.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"recycling-rewards-backend/models"
	"recycling-rewards-backend/utils"
)

// MailClient delivers notifications through the external mail service.
type MailClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

type mailRequest struct {
	To       string `json:"to"`
	Username string `json:"username"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}

func NewMailClient(baseURL, token string) *MailClient {
	return &MailClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Token:   token,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Notify sends one email; any non-2xx answer is an error.
func (c *MailClient) Notify(ctx context.Context, u models.User, subject, body string) error {
	payload, err := json.Marshal(mailRequest{To: u.Email, Username: u.Username, Subject: subject, Body: body})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/mail/send", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("mail service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		utils.LogWarn("[MAIL] /mail/send returned %d: %s", resp.StatusCode, string(msg))
		return fmt.Errorf("mail service returned %d", resp.StatusCode)
	}
	return nil
}
