package providers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const (
	providerResend    = "resend"
	resendAPIURL      = "https://api.resend.com"
	pathResendEmails  = "/emails"
	pathResendAPIKeys = "/api-keys"
)

var errAPIKeyRequired = errors.New("API key is required")

type ResendProvider struct {
	BaseProvider
	APIURL string
	client *http.Client
}

type ResendConfig struct {
	APIKey string
	APIURL string
}

func NewResendProvider(config ResendConfig) *ResendProvider {
	apiURL := config.APIURL
	if apiURL == "" {
		apiURL = resendAPIURL
	}

	return &ResendProvider{
		BaseProvider: BaseProvider{
			APIKey:       config.APIKey,
			ProviderName: providerResend,
		},
		APIURL: apiURL,
		client: &http.Client{},
	}
}

func (p *ResendProvider) Send(emailData *EmailData) (*EmailResult, error) {
	if p.APIKey == "" {
		return failure(p.ProviderName, errAPIKeyRequired), errAPIKeyRequired
	}

	payload := map[string]interface{}{
		"from":    emailData.From,
		"to":      emailData.To,
		"subject": emailData.Subject,
		"html":    emailData.HTML,
	}

	if emailData.Text != "" {
		payload["text"] = emailData.Text
	}

	if emailData.ReplyTo != "" {
		payload["reply_to"] = emailData.ReplyTo
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return failure(p.ProviderName, err), err
	}

	req, err := http.NewRequest(http.MethodPost, p.APIURL+pathResendEmails, bytes.NewBuffer(jsonData))
	if err != nil {
		return failure(p.ProviderName, err), err
	}

	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return failure(p.ProviderName, err), err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := fmt.Errorf("resend API returned status %d: %s", resp.StatusCode, string(body))
		return failure(p.ProviderName, apiErr), apiErr
	}

	var result struct {
		ID string `json:"id"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return failure(p.ProviderName, err), err
	}

	return &EmailResult{
		Success:   true,
		MessageID: result.ID,
		Provider:  p.ProviderName,
	}, nil
}

func (p *ResendProvider) Verify() (bool, error) {
	if p.APIKey == "" {
		return false, errAPIKeyRequired
	}

	req, err := http.NewRequest(http.MethodGet, p.APIURL+pathResendAPIKeys, nil)
	if err != nil {
		return false, err
	}

	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	return resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices, nil
}

func failure(provider string, err error) *EmailResult {
	return &EmailResult{
		Success:  false,
		Error:    err.Error(),
		Provider: provider,
	}
}
