// Package oauth runs the authorization code flow against the federated
// identity providers and normalizes their profiles.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/templui/portfolio/internal/model"
)

var ErrNoEmail = errors.New("provider returned no email")

// ErrUnverifiedEmail is returned when the provider has not verified the
// address it reports. It matches ErrNoEmail.
var ErrUnverifiedEmail = fmt.Errorf("%w: address is not verified", ErrNoEmail)

type Provider interface {
	ID() model.AuthProvider
	DisplayName() string
	AuthCodeURL(state string) string
	// Profile exchanges the authorization code and fetches the user's profile.
	Profile(ctx context.Context, code string) (model.FederatedProfile, error)
}

// Credentials configure one provider. Endpoint and APIBase default to the
// provider's public endpoints and are overridden in tests.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Endpoint     *oauth2.Endpoint
	APIBase      string
}

type Registry struct {
	providers map[model.AuthProvider]Provider
	order     []model.AuthProvider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[model.AuthProvider]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.ID()] = p
		r.order = append(r.order, p.ID())
	}
	return r
}

func (r *Registry) Get(id string) (Provider, bool) {
	p, ok := r.providers[model.AuthProvider(id)]
	return p, ok
}

// List returns providers in registration order.
func (r *Registry) List() []Provider {
	out := make([]Provider, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.providers[id])
	}
	return out
}

func getJSON(ctx context.Context, client *http.Client, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", url, err)
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}

	err = json.NewDecoder(resp.Body).Decode(dst)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", url, err)
	}
	return nil
}
