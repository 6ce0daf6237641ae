// Package token reads the payload of an access token issued by the
// platform API.
//
// Decoding is a pure, local operation: the token is split, the middle
// segment is base64url-decoded and the claims are read out. The signature
// is NOT verified, so the result carries no integrity guarantee and must
// only be used for display and request addressing, never for authorization
// decisions.
package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/brickbid/brickbid-go/models"
)

// ErrMalformed reports an access token whose payload cannot be decoded.
var ErrMalformed = errors.New("token: malformed access token")

// Decode extracts the Identity embedded in an access token payload.
// The user_id claim is mandatory; username and exp are carried when present.
func Decode(access string) (models.Identity, error) {
	parts := strings.Split(access, ".")
	if len(parts) != 3 {
		return models.Identity{}, ErrMalformed
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !gjson.ValidBytes(payload) {
		return models.Identity{}, fmt.Errorf("%w: payload is not JSON", ErrMalformed)
	}

	claims := gjson.ParseBytes(payload)
	userID := claims.Get("user_id")
	if !userID.Exists() {
		return models.Identity{}, fmt.Errorf("%w: missing user_id claim", ErrMalformed)
	}

	return models.Identity{
		UserID:    userID.Int(),
		Username:  claims.Get("username").String(),
		ExpiresAt: claims.Get("exp").Int(),
	}, nil
}
