package credential

import (
	"context"
	"time"

	"viewtuber/internal/config"
	"viewtuber/internal/domain/user"
	apperrors "viewtuber/pkg/errors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	errNoCredential   = "user has no platform credential"
	errNoRefreshToken = "stored credential cannot be refreshed"
	errFailedRefresh  = "failed to refresh platform credential"
	errFailedPersist  = "failed to persist refreshed credential"

	// Tokens within this window of expiry are treated as already expired so a
	// long-running publish never starts with a token about to lapse.
	expirySkew = 2 * time.Minute
)

type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

type TokenStore interface {
	UpdateTokens(ctx context.Context, input user.UpdateTokensInput) error
}

// Cache hands out a usable access token for a user, refreshing through the
// OAuth provider only when the stored one is expired or about to expire.
type Cache struct {
	refresher Refresher
	store     TokenStore
	now       func() time.Time
}

func NewCache(refresher Refresher, store TokenStore) *Cache {
	return &Cache{
		refresher: refresher,
		store:     store,
		now:       time.Now,
	}
}

// Fresh returns an access token valid for at least the skew window. A rotated
// credential is persisted before it is handed out.
func (c *Cache) Fresh(ctx context.Context, u *user.User) (string, error) {
	if !u.HasCredential() {
		return "", apperrors.State(errNoCredential)
	}

	if u.TokenExpiry != nil && u.TokenExpiry.After(c.now().Add(expirySkew)) {
		return *u.AccessToken, nil
	}

	if u.RefreshToken == nil || *u.RefreshToken == "" {
		return "", apperrors.State(errNoRefreshToken)
	}

	token, err := c.refresher.Refresh(ctx, *u.RefreshToken)
	if err != nil {
		return "", apperrors.ExternalProvider(errFailedRefresh, err)
	}

	refreshToken := token.RefreshToken
	if refreshToken == "" {
		refreshToken = *u.RefreshToken
	}

	err = c.store.UpdateTokens(ctx, user.UpdateTokensInput{
		UserID:       u.ID,
		AccessToken:  token.AccessToken,
		RefreshToken: refreshToken,
		TokenExpiry:  token.Expiry,
	})
	if err != nil {
		return "", apperrors.InternalServer(errFailedPersist, err)
	}

	u.AccessToken = &token.AccessToken
	u.RefreshToken = &refreshToken
	u.TokenExpiry = &token.Expiry

	return token.AccessToken, nil
}

// GoogleRefresher exchanges refresh tokens against Google's OAuth endpoint.
type GoogleRefresher struct {
	config *oauth2.Config
}

func NewGoogleRefresher(cfg *config.GoogleConfig) *GoogleRefresher {
	return &GoogleRefresher{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
		},
	}
}

func (r *GoogleRefresher) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	source := r.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	return source.Token()
}
