package oidc_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/identity/oidc"
	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clientID = "fm-client"

// fakeIssuer serves the discovery document, the signing keys, and a
// token endpoint which issues an ID token for the "good" code.
type fakeIssuer struct {
	*httptest.Server
	key      *rsa.PrivateKey
	verified bool
}

func newFakeIssuer(t *testing.T) *fakeIssuer {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	fi := &fakeIssuer{key: key, verified: true}
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"issuer":                                fi.URL,
			"authorization_endpoint":                fi.URL + "/auth",
			"token_endpoint":                        fi.URL + "/token",
			"jwks_uri":                              fi.URL + "/keys",
			"id_token_signing_alg_values_supported": []string{"RS256"},
		})
	})
	mux.HandleFunc("/keys", func(w http.ResponseWriter, r *http.Request) {
		pub := key.PublicKey
		writeJSON(w, map[string]any{"keys": []map[string]string{{
			"kty": "RSA", "alg": "RS256", "use": "sig", "kid": "k1",
			"n": base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e": base64.RawURLEncoding.EncodeToString(
				big.NewInt(int64(pub.E)).Bytes(),
			),
		}}})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != "good" {
			w.WriteHeader(http.StatusBadRequest)
			writeJSON(w, map[string]string{"error": "invalid_grant"})
			return
		}
		now := time.Now()
		tok := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
			"iss":            fi.URL,
			"aud":            clientID,
			"sub":            "1234567890",
			"email":          "Jane.Doe@Example.com",
			"email_verified": fi.verified,
			"name":           "Jane Doe",
			"picture":        "https://example.com/jane.png",
			"iat":            now.Unix(),
			"exp":            now.Add(time.Hour).Unix(),
		})
		tok.Header["kid"] = "k1"
		raw, err := tok.SignedString(key)
		assert.NoError(t, err)
		writeJSON(w, map[string]any{
			"access_token": "at", "token_type": "Bearer",
			"expires_in": 3600, "id_token": raw,
		})
	})
	fi.Server = httptest.NewServer(mux)
	t.Cleanup(fi.Close)
	return fi
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestExchange(t *testing.T) {
	fi := newFakeIssuer(t)
	ctx := context.Background()
	p, err := oidc.New(ctx, oidc.Options{
		Issuer:       fi.URL,
		ClientID:     clientID,
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:5000/auth/google/callback",
	})
	require.NoError(t, err)

	u, err := url.Parse(p.AuthCodeURL("st4te"))
	require.NoError(t, err)
	assert.Equal(t, "/auth", u.Path)
	assert.Equal(t, "st4te", u.Query().Get("state"))
	assert.Contains(t, u.Query().Get("scope"), "email")

	id, err := p.Exchange(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, "1234567890", id.Subject)
	assert.Equal(t, "jane.doe@example.com", id.Email)
	assert.Equal(t, "Jane Doe", id.Name)

	_, err = p.Exchange(ctx, "bad")
	assert.Error(t, err)

	fi.verified = false
	_, err = p.Exchange(ctx, "good")
	assert.ErrorContains(t, err, "verified email")
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := oidc.New(context.Background(), oidc.Options{ClientID: "x"})
	assert.Error(t, err)
}
