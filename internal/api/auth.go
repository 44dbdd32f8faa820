package api

import (
	"context"
	"net/http"

	"github.com/me/walletctl/pkg/model"
)

// Login authenticates with email and password and returns the bearer
// credential and profile issued by the gateway.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (string, *model.User, error) {
	env, err := c.call(ctx, http.MethodPost, endpointLogin, creds,
		http.StatusOK, "email or password is incorrect")
	if err != nil {
		return "", nil, err
	}

	var auth model.AuthData
	if err := env.DecodeData(&auth); err != nil || auth.AccessToken == "" {
		return "", nil, &model.APIError{StatusCode: env.StatusCode, Message: "login response is missing the access token"}
	}

	return auth.AccessToken, &auth.User, nil
}

// Register creates a wallet account and returns the new profile. The caller
// still has to log in afterwards; registration issues no credential.
func (c *Client) Register(ctx context.Context, reg model.Registration) (*model.User, error) {
	env, err := c.call(ctx, http.MethodPost, endpointRegister, reg,
		http.StatusCreated, "could not process the registration")
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := env.DecodeData(&user); err != nil {
		return nil, &model.APIError{StatusCode: env.StatusCode, Message: "registration response is missing the profile"}
	}

	return &user, nil
}
