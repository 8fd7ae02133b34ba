package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"viewtuber/internal/config"
	"viewtuber/internal/domain/user"
	apperrors "viewtuber/pkg/errors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// Publishing on the owner's behalf needs upload scope granted at login;
// offline access keeps a refresh token for later publishes.
var googleScopes = []string{
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
	"https://www.googleapis.com/auth/youtube.upload",
	"https://www.googleapis.com/auth/youtube.readonly",
}

type UserStore interface {
	UpsertByEmail(ctx context.Context, input user.UpsertUserInput) (*user.User, error)
}

// GoogleService runs the OAuth login flow: redirect out, exchange the code,
// load the profile, and upsert the user with the fresh credential.
type GoogleService struct {
	config *oauth2.Config
	users  UserStore
}

func NewGoogleService(cfg *config.GoogleConfig, baseURL string, users UserStore) *GoogleService {
	return &GoogleService{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  baseURL + "/auth/google/callback",
			Scopes:       googleScopes,
			Endpoint:     google.Endpoint,
		},
		users: users,
	}
}

func (s *GoogleService) LoginURL(state string) string {
	return s.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

type googleProfile struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// HandleCallback exchanges the authorization code and upserts the account.
func (s *GoogleService) HandleCallback(ctx context.Context, code string) (*user.User, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, apperrors.ExternalProvider("failed to exchange authorization code", err)
	}

	profile, err := s.fetchProfile(ctx, token)
	if err != nil {
		return nil, apperrors.ExternalProvider("failed to fetch account profile", err)
	}
	if profile.Email == "" {
		return nil, apperrors.Unauthorized("account has no email address")
	}

	return s.users.UpsertByEmail(ctx, user.UpsertUserInput{
		Email:        profile.Email,
		Name:         profile.Name,
		Image:        profile.Picture,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenExpiry:  token.Expiry,
	})
}

func (s *GoogleService) fetchProfile(ctx context.Context, token *oauth2.Token) (*googleProfile, error) {
	resp, err := s.config.Client(ctx, token).Get(userinfoEndpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("userinfo returned status %d: %s", resp.StatusCode, string(body))
	}

	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}

	return &profile, nil
}
