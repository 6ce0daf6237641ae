package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"github.com/brickbid/brickbid-go/models"
)

// ObtainToken exchanges a username and password for a credential pair.
func (c *Client) ObtainToken(ctx context.Context, username, password string) (models.Credential, error) {
	resp, err := c.execute(ctx, "ObtainToken", http.MethodPost, "/token/", func(req *resty.Request) *resty.Request {
		return req.SetBody(map[string]string{
			"username": username,
			"password": password,
		})
	})
	if err != nil {
		return models.Credential{}, err
	}
	return decodeCredential(resp.Body())
}

// RefreshToken exchanges a refresh token for a fresh credential. The
// platform may reissue the refresh token or echo the old one; when it sends
// none, the one just used is kept.
func (c *Client) RefreshToken(ctx context.Context, refresh string) (models.Credential, error) {
	resp, err := c.execute(ctx, "RefreshToken", http.MethodPost, "/token/refresh/", func(req *resty.Request) *resty.Request {
		return req.SetBody(map[string]string{"refresh": refresh})
	})
	if err != nil {
		return models.Credential{}, err
	}

	cred, err := decodeCredential(resp.Body())
	if err != nil {
		return models.Credential{}, err
	}
	if cred.Refresh == "" {
		cred.Refresh = refresh
	}
	return cred, nil
}

// Register creates a platform account. The caller logs in separately via
// ObtainToken.
func (c *Client) Register(ctx context.Context, username, password string) error {
	_, err := c.execute(ctx, "Register", http.MethodPost, "/register", func(req *resty.Request) *resty.Request {
		return req.SetBody(map[string]string{
			"username": username,
			"password": password,
		})
	})
	return err
}

func decodeCredential(body []byte) (models.Credential, error) {
	var cred models.Credential
	if err := json.Unmarshal(body, &cred); err != nil {
		return models.Credential{}, fmt.Errorf("api: decode credential response: %w", err)
	}
	if cred.Access == "" {
		return models.Credential{}, fmt.Errorf("api: credential response missing access token")
	}
	return cred, nil
}
