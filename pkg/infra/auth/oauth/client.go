package oauth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const grantTypeClientCredentials = "client_credentials"

//go:generate mockery --name=TokenClient --dir=. --output=./mocks --filename=token_client_mock.go --case=underscore --with-expecter
type TokenClient interface {
	GetToken(ctx context.Context, creds Credentials) (Token, error)
}

// Credentials for the client credentials grant used by model sidecars that
// sit behind an identity provider.
type Credentials struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	UseBasicAuth bool
	Scopes       []string
	Audience     string
}

type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

type tokenClient struct {
	http *http.Client
}

func NewTokenClient(opts ...TokenClientOption) TokenClient {
	tc := &tokenClient{http: &http.Client{Timeout: defaultTimeout}}
	for _, opt := range opts {
		opt(tc)
	}
	return tc
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (c *tokenClient) GetToken(ctx context.Context, creds Credentials) (Token, error) {
	tokenURL := strings.TrimSpace(creds.TokenURL)
	if tokenURL == "" {
		return Token{}, fmt.Errorf("token url is required")
	}
	if strings.TrimSpace(creds.ClientID) == "" {
		return Token{}, fmt.Errorf("client id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(buildForm(creds).Encode()))
	if err != nil {
		return Token{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if creds.UseBasicAuth {
		cred := creds.ClientID + ":" + creds.ClientSecret
		req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(cred)))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Token{}, err
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return Token{}, fmt.Errorf("failed to read token response body: %w", readErr)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= 300 {
		trunc := string(body)
		if len(trunc) > 2048 {
			trunc = trunc[:2048] + "...(truncated)"
		}
		return Token{}, fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, trunc)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return Token{}, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return Token{}, fmt.Errorf("empty access_token in response")
	}

	token := Token{AccessToken: tr.AccessToken}
	if tr.ExpiresIn > 0 {
		token.ExpiresAt = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return token, nil
}

func buildForm(creds Credentials) url.Values {
	v := url.Values{}
	v.Set("grant_type", grantTypeClientCredentials)
	if len(creds.Scopes) > 0 {
		v.Set("scope", strings.Join(creds.Scopes, " "))
	}
	if strings.TrimSpace(creds.Audience) != "" {
		v.Set("audience", creds.Audience)
	}
	if !creds.UseBasicAuth {
		v.Set("client_id", creds.ClientID)
		if creds.ClientSecret != "" {
			v.Set("client_secret", creds.ClientSecret)
		}
	}
	return v
}
