package rackspace

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// AccountBase selects the identity endpoint an account authenticates against
type AccountBase string

const (
	AccountBaseUS AccountBase = "US"
	AccountBaseUK AccountBase = "UK"
)

var identityURLs = map[AccountBase]string{
	AccountBaseUS: "https://identity.api.rackspacecloud.com/v2.0",
	AccountBaseUK: "https://lon.identity.api.rackspacecloud.com/v2.0",
}

// ParseAccountBase accepts "US" or "UK" in any case
func ParseAccountBase(s string) (AccountBase, error) {
	base := AccountBase(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := identityURLs[base]; !ok {
		return "", &ConfigurationError{Field: "account_base", Reason: "must be US or UK, got " + strconv.Quote(s)}
	}
	return base, nil
}

// IdentityURL returns the identity base URL for the account base
func (b AccountBase) IdentityURL() string {
	return identityURLs[b]
}

// Credentials identify the Rackspace account being monitored
type Credentials struct {
	Username string
	APIKey   string
}

// AuthSession is the result of a successful authentication. It is read-only
// and lives for exactly one collection run.
type AuthSession struct {
	Token         string
	DefaultRegion string
	// Endpoints maps catalog service name -> region -> public URL
	Endpoints map[string]map[string]string
}

// Endpoint returns the public URL of service in region
func (s *AuthSession) Endpoint(service, region string) (string, bool) {
	url, ok := s.Endpoints[service][region]
	return url, ok
}

type authRequest struct {
	Auth struct {
		Credentials apiKeyCredentials `json:"RAX-KSKEY:apiKeyCredentials"`
	} `json:"auth"`
}

type apiKeyCredentials struct {
	Username string `json:"username"`
	APIKey   string `json:"apiKey"`
}

type authResponse struct {
	Access struct {
		Token struct {
			ID string `json:"id"`
		} `json:"token"`
		User struct {
			DefaultRegion string `json:"RAX-AUTH:defaultRegion"`
		} `json:"user"`
		ServiceCatalog []catalogEntry `json:"serviceCatalog"`
	} `json:"access"`
}

type catalogEntry struct {
	Name      string            `json:"name"`
	Endpoints []catalogEndpoint `json:"endpoints"`
}

type catalogEndpoint struct {
	// nil when the endpoint is global and inherits the default region
	Region    *string `json:"region"`
	PublicURL string  `json:"publicURL"`
}

// Authenticator exchanges an API key for a token and the service catalog
type Authenticator struct {
	client      *Client
	identityURL string
}

// NewAuthenticator creates an Authenticator posting to identityURL/tokens
func NewAuthenticator(client *Client, identityURL string) *Authenticator {
	return &Authenticator{
		client:      client,
		identityURL: strings.TrimRight(identityURL, "/"),
	}
}

// Authenticate performs the identity call and builds the AuthSession
func (a *Authenticator) Authenticate(ctx context.Context, creds Credentials) (*AuthSession, error) {
	var req authRequest
	req.Auth.Credentials = apiKeyCredentials{Username: creds.Username, APIKey: creds.APIKey}

	var resp authResponse
	if _, err := a.client.Post(ctx, a.identityURL+"/tokens", req, nil, &resp); err != nil {
		return nil, &AuthenticationError{URL: a.identityURL, Err: err}
	}

	session, err := newSession(&resp)
	if err != nil {
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			return nil, err
		}
		return nil, &AuthenticationError{URL: a.identityURL, Err: err}
	}
	return session, nil
}

// newSession turns the identity payload into an AuthSession. The token and
// default region are resolved before the catalog loop because region-less
// endpoints inherit the default region.
func newSession(resp *authResponse) (*AuthSession, error) {
	token := resp.Access.Token.ID
	if token == "" {
		return nil, errors.New("identity response has no token id")
	}
	defaultRegion := resp.Access.User.DefaultRegion

	endpoints := make(map[string]map[string]string, len(resp.Access.ServiceCatalog))
	for _, service := range resp.Access.ServiceCatalog {
		regions := make(map[string]string, len(service.Endpoints))
		for _, ep := range service.Endpoints {
			region := defaultRegion
			if ep.Region != nil {
				region = *ep.Region
			} else if defaultRegion == "" {
				return nil, &ConfigurationError{
					Field:  "defaultRegion",
					Reason: "endpoint of service " + strconv.Quote(service.Name) + " has no region",
					Err:    ErrNoDefaultRegion,
				}
			}
			regions[region] = ep.PublicURL
		}
		endpoints[service.Name] = regions
	}

	return &AuthSession{
		Token:         token,
		DefaultRegion: defaultRegion,
		Endpoints:     endpoints,
	}, nil
}
