package oauth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/templui/portfolio/internal/model"
)

const googleAPIBase = "https://www.googleapis.com"

type googleProfile struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type GoogleProvider struct {
	config  *oauth2.Config
	apiBase string
}

func NewGoogleProvider(c Credentials) *GoogleProvider {
	endpoint := google.Endpoint
	if c.Endpoint != nil {
		endpoint = *c.Endpoint
	}
	apiBase := googleAPIBase
	if c.APIBase != "" {
		apiBase = c.APIBase
	}

	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoint,
		},
		apiBase: apiBase,
	}
}

func (p *GoogleProvider) ID() model.AuthProvider { return model.ProviderGoogle }

func (p *GoogleProvider) DisplayName() string { return "Google" }

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *GoogleProvider) Profile(ctx context.Context, code string) (model.FederatedProfile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return model.FederatedProfile{}, fmt.Errorf("google: exchanging code: %w", err)
	}

	var gp googleProfile
	err = getJSON(ctx, p.config.Client(ctx, token), p.apiBase+"/oauth2/v2/userinfo", &gp)
	if err != nil {
		return model.FederatedProfile{}, fmt.Errorf("google: %w", err)
	}
	if gp.Email == "" {
		return model.FederatedProfile{}, fmt.Errorf("google: %w", ErrNoEmail)
	}
	if !gp.VerifiedEmail {
		return model.FederatedProfile{}, fmt.Errorf("google: %s: %w", gp.Email, ErrUnverifiedEmail)
	}

	return model.FederatedProfile{
		Provider: model.ProviderGoogle,
		Name:     gp.Name,
		Email:    gp.Email,
		Image:    gp.Picture,
	}, nil
}
