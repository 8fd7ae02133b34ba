package mailer

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"viewtuber/pkg/mailer/providers"
	"viewtuber/pkg/mailer/templates"
)

var (
	ErrAtLeastOneProviderRequired = errors.New("at least one email provider is required")
	ErrProviderCannotBeNil        = errors.New("email provider cannot be nil")
	ErrEmailDataRequired          = errors.New("email data is required")
	ErrRecipientRequired          = errors.New("at least one recipient is required")
	ErrSubjectRequired            = errors.New("email subject is required")
	ErrBodyRequired               = errors.New("email body is required")
	ErrInvalidDefaultFromEmail    = errors.New("default from address is invalid")
	ErrAllProvidersFailed         = errors.New("all email providers failed")
)

const providerLabelValidation = "validation"

// EmailService fans a message out to the configured providers in order,
// returning the first success.
type EmailService struct {
	providers   []providers.EmailProvider
	defaultFrom string
	mu          sync.RWMutex
}

type EmailServiceConfig struct {
	Providers   []providers.EmailProvider
	DefaultFrom string
}

func NewEmailService(config EmailServiceConfig) (*EmailService, error) {
	if len(config.Providers) == 0 {
		return nil, ErrAtLeastOneProviderRequired
	}

	providerList := make([]providers.EmailProvider, len(config.Providers))
	copy(providerList, config.Providers)

	for _, provider := range providerList {
		if provider == nil {
			return nil, ErrProviderCannotBeNil
		}
	}

	if config.DefaultFrom != "" {
		if err := validateAddress(config.DefaultFrom); err != nil {
			return nil, ErrInvalidDefaultFromEmail
		}
	}

	return &EmailService{
		providers:   providerList,
		defaultFrom: config.DefaultFrom,
	}, nil
}

func (s *EmailService) Send(emailData *providers.EmailData) (*providers.EmailResult, error) {
	if emailData == nil {
		return validationFailure(ErrEmailDataRequired), ErrEmailDataRequired
	}

	s.mu.RLock()
	defaultFrom := s.defaultFrom
	providerList := make([]providers.EmailProvider, len(s.providers))
	copy(providerList, s.providers)
	s.mu.RUnlock()

	data := cloneEmailData(emailData)
	if data.From == "" && defaultFrom != "" {
		data.From = defaultFrom
	}

	if err := validateEmailData(data); err != nil {
		return validationFailure(err), err
	}

	var lastErr error
	for _, provider := range providerList {
		result, err := provider.Send(data)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	err := fmt.Errorf("%w: %v", ErrAllProvidersFailed, lastErr)
	return &providers.EmailResult{
		Success: false,
		Error:   err.Error(),
	}, err
}

// SendWithTemplate renders the typed template and sends the result. Subject
// and recipients come from emailData.
func SendWithTemplate[T any](service *EmailService, template *templates.TypedTemplate[T], context T, emailData *providers.EmailData) (*providers.EmailResult, error) {
	if emailData == nil {
		emailData = &providers.EmailData{}
	}

	html, text, err := template.Render(context)
	if err != nil {
		return validationFailure(err), err
	}

	data := cloneEmailData(emailData)
	data.HTML = html
	data.Text = text

	return service.Send(data)
}

func validateEmailData(data *providers.EmailData) error {
	if len(data.To) == 0 {
		return ErrRecipientRequired
	}
	for _, recipient := range data.To {
		if err := validateAddress(recipient); err != nil {
			return fmt.Errorf("invalid recipient %q: %w", recipient, err)
		}
	}
	if data.From != "" {
		if err := validateAddress(data.From); err != nil {
			return fmt.Errorf("invalid from address %q: %w", data.From, err)
		}
	}
	if strings.TrimSpace(data.Subject) == "" {
		return ErrSubjectRequired
	}
	if data.HTML == "" && data.Text == "" {
		return ErrBodyRequired
	}
	return nil
}

func validateAddress(address string) error {
	_, err := mail.ParseAddress(address)
	return err
}

func cloneEmailData(data *providers.EmailData) *providers.EmailData {
	clone := *data
	clone.To = make([]string, len(data.To))
	copy(clone.To, data.To)
	return &clone
}

func validationFailure(err error) *providers.EmailResult {
	return &providers.EmailResult{
		Success:  false,
		Error:    err.Error(),
		Provider: providerLabelValidation,
	}
}
