package oauth

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/templui/portfolio/internal/model"
)

const githubAPIBase = "https://api.github.com"

type githubProfile struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

type GitHubProvider struct {
	config  *oauth2.Config
	apiBase string
}

func NewGitHubProvider(c Credentials) *GitHubProvider {
	endpoint := github.Endpoint
	if c.Endpoint != nil {
		endpoint = *c.Endpoint
	}
	apiBase := githubAPIBase
	if c.APIBase != "" {
		apiBase = c.APIBase
	}

	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     endpoint,
		},
		apiBase: apiBase,
	}
}

func (p *GitHubProvider) ID() model.AuthProvider { return model.ProviderGitHub }

func (p *GitHubProvider) DisplayName() string { return "GitHub" }

func (p *GitHubProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *GitHubProvider) Profile(ctx context.Context, code string) (model.FederatedProfile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return model.FederatedProfile{}, fmt.Errorf("github: exchanging code: %w", err)
	}
	client := p.config.Client(ctx, token)

	var gp githubProfile
	err = getJSON(ctx, client, p.apiBase+"/user", &gp)
	if err != nil {
		return model.FederatedProfile{}, fmt.Errorf("github: %w", err)
	}

	// Private addresses are only listed on /user/emails.
	if gp.Email == "" {
		gp.Email, err = p.primaryEmail(ctx, client)
		if err != nil {
			return model.FederatedProfile{}, fmt.Errorf("github: %w", err)
		}
	}
	if gp.Email == "" {
		return model.FederatedProfile{}, fmt.Errorf("github: %w", ErrNoEmail)
	}

	name := gp.Name
	if name == "" {
		name = gp.Login
	}

	return model.FederatedProfile{
		Provider: model.ProviderGitHub,
		Name:     name,
		Email:    gp.Email,
		Image:    gp.AvatarURL,
	}, nil
}

func (p *GitHubProvider) primaryEmail(ctx context.Context, client *http.Client) (string, error) {
	var emails []githubEmail
	err := getJSON(ctx, client, p.apiBase+"/user/emails", &emails)
	if err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	return "", nil
}
