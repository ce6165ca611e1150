package auth

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

const (
	googleCertsURL       = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"
	firebaseIssuerPrefix = "https://securetoken.google.com/"
	defaultKeysMaxAge    = time.Hour
)

// FirebaseVerifier validates Firebase ID tokens: RS256 signatures checked
// against Google's published certificates, audience pinned to the project.
type FirebaseVerifier struct {
	projectID string
	certsURL  string
	client    *http.Client
	now       func() time.Time

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	expiresAt time.Time

	refresh singleflight.Group
}

type FirebaseOption func(*FirebaseVerifier)

// WithCertsURL points the verifier at a different certificate endpoint.
func WithCertsURL(url string) FirebaseOption {
	return func(v *FirebaseVerifier) {
		v.certsURL = url
	}
}

func NewFirebaseVerifier(projectID string, timeout time.Duration, opts ...FirebaseOption) *FirebaseVerifier {
	v := &FirebaseVerifier{
		projectID: projectID,
		certsURL:  googleCertsURL,
		client:    &http.Client{Timeout: timeout},
		now:       time.Now,
		keys:      map[string]*rsa.PublicKey{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *FirebaseVerifier) Verify(ctx context.Context, raw string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, ErrInvalidToken
		}
		return v.key(ctx, kid)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.projectID),
		jwt.WithIssuer(firebaseIssuerPrefix+v.projectID),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return Identity{}, classify(err)
	}
	if !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	return claims.identity()
}

func (v *FirebaseVerifier) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if key, ok := v.cachedKey(kid); ok {
		return key, nil
	}

	_, err, _ := v.refresh.Do("keys", func() (interface{}, error) {
		return nil, v.fetchKeys(ctx)
	})
	if err != nil {
		log.Println("[AUTH] [ERROR] signing key refresh failed:", err)
		return nil, fmt.Errorf("%w: %v", ErrKeysUnavailable, err)
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	key, ok := v.keys[kid]
	if !ok {
		return nil, ErrInvalidToken
	}
	return key, nil
}

func (v *FirebaseVerifier) cachedKey(kid string) (*rsa.PublicKey, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if !v.now().Before(v.expiresAt) {
		return nil, false
	}
	key, ok := v.keys[kid]
	return key, ok
}

func (v *FirebaseVerifier) fetchKeys(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.certsURL, nil)
	if err != nil {
		return err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("certificate endpoint returned %d", resp.StatusCode)
	}

	var certs map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&certs); err != nil {
		return fmt.Errorf("decode certificates: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(certs))
	for kid, pem := range certs {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
		if err != nil {
			return fmt.Errorf("parse certificate %s: %w", kid, err)
		}
		keys[kid] = key
	}

	v.mu.Lock()
	v.keys = keys
	v.expiresAt = v.now().Add(maxAge(resp.Header.Get("Cache-Control")))
	v.mu.Unlock()

	log.Printf("[AUTH] [INFO] loaded %d signing keys", len(keys))
	return nil
}

func maxAge(cacheControl string) time.Duration {
	for _, directive := range strings.Split(cacheControl, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(directive), "=")
		if !ok || !strings.EqualFold(name, "max-age") {
			continue
		}
		seconds, err := strconv.Atoi(value)
		if err != nil || seconds <= 0 {
			break
		}
		return time.Duration(seconds) * time.Second
	}
	return defaultKeysMaxAge
}
