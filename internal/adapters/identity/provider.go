// Package identity resolves the caller's identity from the HotelFlow API.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	domainauth "github.com/JotaC95/HotelApp/internal/domain/auth"
	apperrors "github.com/JotaC95/HotelApp/internal/errors"
)

const (
	DefaultPath         = "/accounts/me/"
	DefaultUsernameExpr = "username"
	DefaultGroupsExpr   = "groups"
)

// JSONGetter is the subset of the API client the provider needs.
type JSONGetter interface {
	GetJSON(ctx context.Context, path string, query url.Values, out any) error
}

// Options configures a Provider. Expressions are JMESPath evaluated against
// the decoded identity payload.
type Options struct {
	Client       JSONGetter
	Path         string
	UsernameExpr string
	GroupsExpr   string
}

// Provider implements ports.IdentityProvider over the identity endpoint.
type Provider struct {
	client   JSONGetter
	path     string
	username string
	groups   string
}

// NewProvider validates the field expressions and returns a Provider.
func NewProvider(opts Options) (*Provider, error) {
	if opts.Client == nil {
		return nil, errors.New("identity provider requires a client")
	}
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		path = DefaultPath
	}
	userExpr := fallback(opts.UsernameExpr, DefaultUsernameExpr)
	groupsExpr := fallback(opts.GroupsExpr, DefaultGroupsExpr)

	if _, err := jmespath.Compile(userExpr); err != nil {
		return nil, fmt.Errorf("invalid username expression %q: %w", userExpr, err)
	}
	if _, err := jmespath.Compile(groupsExpr); err != nil {
		return nil, fmt.Errorf("invalid groups expression %q: %w", groupsExpr, err)
	}
	return &Provider{client: opts.Client, path: path, username: userExpr, groups: groupsExpr}, nil
}

// Identity fetches the identity payload. Transport errors are returned
// unchanged so callers can tell a 401 from a network failure; a payload
// that cannot be read is an identity_unavailable error.
func (p *Provider) Identity(ctx context.Context) (domainauth.Identity, error) {
	var payload any
	if err := p.client.GetJSON(ctx, p.path, nil, &payload); err != nil {
		return domainauth.Identity{}, err
	}
	if _, ok := payload.(map[string]any); !ok {
		return domainauth.Identity{}, &apperrors.AppError{
			Code:    apperrors.ErrCodeIdentityUnavailable,
			Message: "identity payload is not an object",
		}
	}

	var id domainauth.Identity
	if v, err := jmespath.Search(p.username, payload); err == nil {
		if s, ok := v.(string); ok {
			id.Username = strings.TrimSpace(s)
		}
	}
	if v, err := jmespath.Search(p.groups, payload); err == nil {
		id.Groups = toStrings(v)
	}
	return id, nil
}

// toStrings accepts a list of group names or of objects with a "name" field,
// the two shapes the API has served.
func toStrings(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		switch g := item.(type) {
		case string:
			out = append(out, g)
		case map[string]any:
			if name, ok := g["name"].(string); ok {
				out = append(out, name)
			}
		}
	}
	return out
}

func fallback(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}
