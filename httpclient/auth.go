package httpclient

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthType identifies the authentication method.
type AuthType string

const (
	// AuthNone disables authentication.
	AuthNone AuthType = ""
	// AuthBearer uses Bearer token authentication.
	AuthBearer AuthType = "bearer"
	// AuthBasic uses HTTP Basic authentication.
	AuthBasic AuthType = "basic"
	// AuthAPIKey uses API key authentication (header or query parameter).
	AuthAPIKey AuthType = "api_key"
	// AuthJWT signs a short-lived HS256 token per request.
	AuthJWT AuthType = "jwt"
	// AuthCustom uses a custom authentication function.
	AuthCustom AuthType = "custom"
)

const defaultJWTTTL = 5 * time.Minute

// AuthConfig configures request authentication.
type AuthConfig struct {
	// Type is the authentication method.
	Type AuthType `yaml:"type" mapstructure:"type"`
	// Token is the bearer token (AuthBearer).
	Token string `yaml:"token" mapstructure:"token"`
	// Username is the basic auth username (AuthBasic).
	Username string `yaml:"username" mapstructure:"username"`
	// Password is the basic auth password (AuthBasic).
	Password string `yaml:"password" mapstructure:"password"`
	// Key is the API key value (AuthAPIKey).
	Key string `yaml:"key" mapstructure:"key"`
	// In places the API key in the "header" (default) or "query".
	In string `yaml:"in" mapstructure:"in"`
	// Name is the header or query parameter name (AuthAPIKey). Defaults to "X-API-Key".
	Name string `yaml:"name" mapstructure:"name"`
	// Secret is the HMAC signing key (AuthJWT).
	Secret string `yaml:"secret" mapstructure:"secret"`
	// Issuer, Subject and Audience fill the registered claims (AuthJWT).
	Issuer   string `yaml:"issuer" mapstructure:"issuer"`
	Subject  string `yaml:"subject" mapstructure:"subject"`
	Audience string `yaml:"audience" mapstructure:"audience"`
	// TTL is the token lifetime (AuthJWT). Defaults to 5m.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
	// Apply is a custom function to modify the request (AuthCustom).
	Apply func(*http.Request) `yaml:"-" mapstructure:"-"`

	now func() time.Time
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// BasicAuth creates a basic auth config.
func BasicAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthBasic, Username: username, Password: password}
}

// APIKeyAuth creates an API key auth config sent via header.
func APIKeyAuth(key string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "header", Name: "X-API-Key"}
}

// APIKeyAuthQuery creates an API key auth config sent via query parameter.
func APIKeyAuthQuery(key, paramName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "query", Name: paramName}
}

// JWTAuth creates an auth config that signs an HS256 bearer token for every
// request.
func JWTAuth(secret, issuer, subject string, ttl time.Duration) *AuthConfig {
	return &AuthConfig{Type: AuthJWT, Secret: secret, Issuer: issuer, Subject: subject, TTL: ttl}
}

// CustomAuth creates a custom auth config with a request modifier function.
func CustomAuth(fn func(*http.Request)) *AuthConfig {
	return &AuthConfig{Type: AuthCustom, Apply: fn}
}

// Validate checks that the fields required by Type are set.
func (a *AuthConfig) Validate() error {
	switch a.Type {
	case AuthNone:
	case AuthBearer:
		if a.Token == "" {
			return fmt.Errorf("httpclient: auth.token is required for bearer auth")
		}
	case AuthBasic:
		if a.Username == "" {
			return fmt.Errorf("httpclient: auth.username is required for basic auth")
		}
	case AuthAPIKey:
		if a.Key == "" {
			return fmt.Errorf("httpclient: auth.key is required for api_key auth")
		}
		if a.In != "" && a.In != "header" && a.In != "query" {
			return fmt.Errorf("httpclient: auth.in must be header or query (got: %s)", a.In)
		}
	case AuthJWT:
		if a.Secret == "" {
			return fmt.Errorf("httpclient: auth.secret is required for jwt auth")
		}
	case AuthCustom:
		if a.Apply == nil {
			return fmt.Errorf("httpclient: custom auth requires an Apply function")
		}
	default:
		return fmt.Errorf("httpclient: unknown auth type %q", a.Type)
	}
	return nil
}

// apply applies authentication to an HTTP request.
func (a *AuthConfig) apply(req *http.Request) error {
	if a == nil {
		return nil
	}
	switch a.Type {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthBasic:
		req.SetBasicAuth(a.Username, a.Password)
	case AuthAPIKey:
		name := a.Name
		if name == "" {
			name = "X-API-Key"
		}
		if a.In == "query" {
			q := req.URL.Query()
			q.Set(name, a.Key)
			req.URL.RawQuery = q.Encode()
		} else {
			req.Header.Set(name, a.Key)
		}
	case AuthJWT:
		token, err := a.signJWT()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	case AuthCustom:
		if a.Apply != nil {
			a.Apply(req)
		}
	}
	return nil
}

func (a *AuthConfig) signJWT() (string, error) {
	now := time.Now
	if a.now != nil {
		now = a.now
	}
	ttl := a.TTL
	if ttl <= 0 {
		ttl = defaultJWTTTL
	}
	issued := now()
	claims := jwt.RegisteredClaims{
		Issuer:    a.Issuer,
		Subject:   a.Subject,
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
	}
	if a.Audience != "" {
		claims.Audience = jwt.ClaimStrings{a.Audience}
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.Secret))
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}
