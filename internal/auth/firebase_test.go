package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProject = "storefront-test"

type certServer struct {
	server *httptest.Server
	key    *rsa.PrivateKey
	hits   atomic.Int32
}

func newCertServer(t *testing.T) *certServer {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "securetoken.test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})

	cs := &certServer{key: key}
	cs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.hits.Add(1)
		w.Header().Set("Cache-Control", "public, max-age=600, must-revalidate")
		_ = json.NewEncoder(w).Encode(map[string]string{"kid-1": string(certPEM)})
	}))
	t.Cleanup(cs.server.Close)
	return cs
}

func (cs *certServer) sign(t *testing.T, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(cs.key)
	require.NoError(t, err)
	return signed
}

func firebaseClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":   firebaseIssuerPrefix + testProject,
		"aud":   testProject,
		"sub":   "firebase-uid",
		"email": "shopper@example.com",
		"name":  "Shopper",
		"iat":   now.Add(-time.Minute).Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
}

func TestFirebaseVerifierAcceptsValidToken(t *testing.T) {
	cs := newCertServer(t)
	verifier := NewFirebaseVerifier(testProject, time.Second, WithCertsURL(cs.server.URL))

	identity, err := verifier.Verify(context.Background(), cs.sign(t, "kid-1", firebaseClaims()))
	require.NoError(t, err)
	assert.Equal(t, Identity{Subject: "firebase-uid", Email: "shopper@example.com", Name: "Shopper"}, identity)

	_, err = verifier.Verify(context.Background(), cs.sign(t, "kid-1", firebaseClaims()))
	require.NoError(t, err)
	assert.Equal(t, int32(1), cs.hits.Load(), "keys should be cached between verifications")
}

func TestFirebaseVerifierRejections(t *testing.T) {
	cs := newCertServer(t)
	verifier := NewFirebaseVerifier(testProject, time.Second, WithCertsURL(cs.server.URL))

	wrongAudience := firebaseClaims()
	wrongAudience["aud"] = "someone-else"

	wrongIssuer := firebaseClaims()
	wrongIssuer["iss"] = "https://securetoken.google.com/someone-else"

	expired := firebaseClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"wrong audience", cs.sign(t, "kid-1", wrongAudience), ErrInvalidToken},
		{"wrong issuer", cs.sign(t, "kid-1", wrongIssuer), ErrInvalidToken},
		{"unknown kid", cs.sign(t, "kid-9", firebaseClaims()), ErrInvalidToken},
		{"missing kid", cs.sign(t, "", firebaseClaims()), ErrInvalidToken},
		{"expired", cs.sign(t, "kid-1", expired), ErrExpiredToken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := verifier.Verify(context.Background(), tc.token)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestFirebaseVerifierRejectsHMACTokens(t *testing.T) {
	cs := newCertServer(t)
	verifier := NewFirebaseVerifier(testProject, time.Second, WithCertsURL(cs.server.URL))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, firebaseClaims())
	token.Header["kid"] = "kid-1"
	signed, err := token.SignedString([]byte("guessable"))
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestFirebaseVerifierKeysUnavailable(t *testing.T) {
	cs := newCertServer(t)
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	verifier := NewFirebaseVerifier(testProject, time.Second, WithCertsURL(down.URL))

	_, err := verifier.Verify(context.Background(), cs.sign(t, "kid-1", firebaseClaims()))
	assert.ErrorIs(t, err, ErrKeysUnavailable)
}

func TestMaxAge(t *testing.T) {
	assert.Equal(t, 600*time.Second, maxAge("public, max-age=600, must-revalidate"))
	assert.Equal(t, defaultKeysMaxAge, maxAge("no-cache"))
	assert.Equal(t, defaultKeysMaxAge, maxAge("max-age=abc"))
}
