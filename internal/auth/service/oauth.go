package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/metrically/metrically-backend/internal/auth/domain"
	"github.com/metrically/metrically-backend/internal/auth/repository"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// stateTTL bounds how long a minted consent-screen state stays valid.
const stateTTL = 10 * time.Minute

// GoogleOAuth handles the Google sign-in code exchange.
type GoogleOAuth struct {
	conf        *oauth2.Config
	stateSecret []byte
	userRepo    *repository.UserRepository
}

func NewGoogleOAuth(clientID, clientSecret, redirectURL, stateSecret string, userRepo *repository.UserRepository) *GoogleOAuth {
	return &GoogleOAuth{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		stateSecret: []byte(stateSecret),
		userRepo:    userRepo,
	}
}

// Configured reports whether Google sign-in is set up for this deploy.
func (g *GoogleOAuth) Configured() bool {
	return g.conf.ClientID != "" && g.conf.ClientSecret != ""
}

// AuthURL returns the consent-screen URL for the given CSRF state.
func (g *GoogleOAuth) AuthURL(state string) string {
	return g.conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// NewState mints a signed, short-lived CSRF state for the consent
// redirect. The callback must present it back through VerifyState.
func (g *GoogleOAuth) NewState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("mint state: %w", err)
	}

	claims := jwt.RegisteredClaims{
		ID:        hex.EncodeToString(b),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(stateTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(g.stateSecret)
}

// VerifyState checks that the state came back signed by us and unexpired.
func (g *GoogleOAuth) VerifyState(state string) error {
	parsed, err := jwt.ParseWithClaims(state, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return g.stateSecret, nil
	})
	if err != nil || !parsed.Valid {
		return fmt.Errorf("invalid state")
	}
	return nil
}

// Exchange trades an authorization code for the Google account's email
// and name, then ensures a local account for it.
func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (*domain.User, error) {
	tok, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth exchange: %w", err)
	}

	client := g.conf.Client(ctx, tok)
	resp, err := client.Get(googleUserinfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo failed with status %d", resp.StatusCode)
	}

	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("userinfo returned no email")
	}

	return g.userRepo.EnsureOAuthUser(ctx, info.Email, info.Name)
}
