package oauthclient

import "context"

type fakeTokenClient struct{}

// NewFakeTokenClient hands out tokens without contacting the processor; for local development only.
func NewFakeTokenClient() TokenClient {
	return &fakeTokenClient{}
}

func (tc *fakeTokenClient) AcquireToken(c context.Context, creds ClientCredentials) (AccessToken, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return AccessToken{}, &AuthError{Reason: "missing client credentials"}
	}
	return AccessToken{
		TokenType:   "Bearer",
		AccessToken: "fake-" + creds.ClientID,
		ExpiresIn:   3600,
	}, nil
}
