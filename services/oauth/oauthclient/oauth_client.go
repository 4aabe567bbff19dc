package oauthclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MarcGrol/bogrelay/lib/myhttpclient"
)

type ClientCredentials struct {
	ClientID     string
	ClientSecret string
}

// AccessToken is opaque to this service: expiry is not tracked because every checkout fetches a fresh one.
type AccessToken struct {
	TokenType   string
	AccessToken string
	ExpiresIn   int
}

// AuthError is returned for every failed credential exchange. Body holds the raw token-endpoint response.
type AuthError struct {
	Reason     string
	StatusCode int
	Body       []byte
}

func (e *AuthError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("authorization failed: %s", e.Reason)
	}
	return fmt.Sprintf("authorization failed: %s (http-status %d)", e.Reason, e.StatusCode)
}

//go:generate mockgen -source=oauth_client.go -package oauthclient -destination oauth_client_mock.go TokenClient
type TokenClient interface {
	AcquireToken(c context.Context, creds ClientCredentials) (AccessToken, error)
}

type tokenClient struct {
	tokenURL string
	sender   myhttpclient.HTTPSender
}

func NewTokenClient(tokenURL string, sender myhttpclient.HTTPSender) TokenClient {
	return &tokenClient{
		tokenURL: tokenURL,
		sender:   sender,
	}
}

type getTokenResponse struct {
	TokenType   string      `json:"token_type"`
	ExpiresIn   interface{} `json:"expires_in"`
	AccessToken string      `json:"access_token"`
}

func (tc tokenClient) AcquireToken(c context.Context, creds ClientCredentials) (AccessToken, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return AccessToken{}, &AuthError{Reason: "missing client-id or client-secret"}
	}

	requestBody := url.Values{
		"grant_type": {"client_credentials"},
	}.Encode()

	headers := http.Header{}
	headers.Set("Content-Type", "application/x-www-form-urlencoded")
	headers.Set("Authorization", basicAuth(creds))

	httpRespCode, respBody, err := tc.sender.Send(c, http.MethodPost, tc.tokenURL, headers, []byte(requestBody))
	if err != nil {
		return AccessToken{}, &AuthError{Reason: err.Error()}
	}

	if httpRespCode < 200 || httpRespCode > 299 {
		return AccessToken{}, &AuthError{Reason: "unexpected status", StatusCode: httpRespCode, Body: respBody}
	}

	resp := getTokenResponse{}
	err = json.Unmarshal(respBody, &resp)
	if err != nil {
		return AccessToken{}, &AuthError{Reason: fmt.Sprintf("error parsing response: %s", err), StatusCode: httpRespCode, Body: respBody}
	}

	if resp.AccessToken == "" {
		return AccessToken{}, &AuthError{Reason: "response holds no access_token", StatusCode: httpRespCode, Body: respBody}
	}

	return AccessToken{
		TokenType:   resp.TokenType,
		AccessToken: resp.AccessToken,
		ExpiresIn:   expiresIn(resp.ExpiresIn),
	}, nil
}

func basicAuth(creds ClientCredentials) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(creds.ClientID+":"+creds.ClientSecret))
}

// Some token endpoints send expires_in as a string
func expiresIn(value interface{}) int {
	switch v := value.(type) {
	case float64:
		return int(v)
	case string:
		i, _ := strconv.Atoi(v)
		return i
	default:
		return 0
	}
}
