package token

import (
	"encoding/base64"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	body, err := json.Marshal(claims)
	require.NoError(t, err)
	payload := base64.RawURLEncoding.EncodeToString(body)

	return header + "." + payload + ".signature"
}

func TestDecode(t *testing.T) {
	access := makeToken(t, map[string]interface{}{
		"token_type": "access",
		"user_id":    42,
		"username":   "alice",
		"exp":        1757000000,
	})

	id, err := Decode(access)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id.UserID)
	assert.Equal(t, "alice", id.Username)
	assert.Equal(t, int64(1757000000), id.ExpiresAt)
}

func TestDecodeMinimalClaims(t *testing.T) {
	access := makeToken(t, map[string]interface{}{"user_id": 7})

	id, err := Decode(access)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id.UserID)
	assert.Empty(t, id.Username)
	assert.Zero(t, id.ExpiresAt)
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name   string
		access string
	}{
		{"empty", ""},
		{"two segments", "aGVhZGVy.cGF5bG9hZA"},
		{"four segments", "a.b.c.d"},
		{"invalid base64 payload", "header.!!!.signature"},
		{"payload not json", "header." + base64.RawURLEncoding.EncodeToString([]byte("plain text")) + ".sig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.access)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecodeMissingUserID(t *testing.T) {
	access := makeToken(t, map[string]interface{}{"username": "bob"})

	_, err := Decode(access)
	assert.ErrorIs(t, err, ErrMalformed)
}
