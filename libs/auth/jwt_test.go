package auth

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testLedger = "6f1c2a7e-3b1d-4a54-9c57-5a8e2f0f7d11"

func TestHS256RoundTrip(t *testing.T) {
	claims := Claims{
		Sub:      "user-1",
		LedgerID: testLedger,
		Role:     "owner",
		Iat:      time.Now().Unix(),
		Exp:      time.Now().Add(1 * time.Hour).Unix(),
	}
	secret := "test-secret"

	token, err := SignHS256(claims, secret)
	if err != nil {
		t.Fatalf("SignHS256 failed: %v", err)
	}
	parsed, err := ParseAndVerifyHS256(token, secret)
	if err != nil {
		t.Fatalf("ParseAndVerifyHS256 failed: %v", err)
	}
	if parsed.Sub != claims.Sub || parsed.LedgerID != claims.LedgerID || parsed.Role != claims.Role {
		t.Fatalf("claims mismatch: got %+v", parsed)
	}
	if _, err := ParseAndVerifyHS256(token, "wrong-secret"); err == nil {
		t.Fatal("expected verification error with wrong secret")
	}
	if _, err := ParseAndVerifyHS256(token, ""); err == nil {
		t.Fatal("empty secret must never verify")
	}
}

func TestHS256Expired(t *testing.T) {
	token, err := SignHS256(Claims{Sub: "user-1", Exp: time.Now().Add(-time.Minute).Unix()}, "s")
	if err != nil {
		t.Fatalf("SignHS256 failed: %v", err)
	}
	if _, err := ParseAndVerifyHS256(token, "s"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRS256ViaJWKS(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa.GenerateKey failed: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"keys": []map[string]string{{
			"kty": "RSA",
			"kid": "kid-1",
			"n":   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
		}}})
	}))
	defer srv.Close()

	claims := Claims{Sub: "user-2", LedgerID: testLedger, Role: "admin", Exp: time.Now().Add(time.Hour).Unix()}
	token, err := signRS256(claims, key, "kid-1")
	if err != nil {
		t.Fatalf("rs256 Sign failed: %v", err)
	}

	v := &Verifier{JWKS: NewJWKSClient(srv.URL, time.Minute)}
	parsed, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if parsed.LedgerID != testLedger || parsed.Role != "admin" {
		t.Fatalf("claims mismatch: got %+v", parsed)
	}

	unknown, err := signRS256(claims, key, "kid-9")
	if err != nil {
		t.Fatalf("rs256 Sign failed: %v", err)
	}
	if _, err := v.Verify(context.Background(), unknown); err == nil {
		t.Fatal("expected unknown kid to be rejected")
	}
}

func TestRequire(t *testing.T) {
	v := &Verifier{Secret: "s"}
	var seen *Claims
	h := Require(v, "owner", "admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
	}))

	call := func(token string) int {
		req := httptest.NewRequest(http.MethodPut, "/", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := call(""); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", code)
	}
	if code := call("a.b.c"); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", code)
	}
	staff, _ := SignHS256(Claims{Sub: "u", LedgerID: testLedger, Role: "staff"}, "s")
	if code := call(staff); code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff role, got %d", code)
	}
	owner, _ := SignHS256(Claims{Sub: "u", LedgerID: testLedger, Role: "owner"}, "s")
	if code := call(owner); code != http.StatusOK {
		t.Fatalf("expected 200 for owner, got %d", code)
	}
	if seen == nil || seen.LedgerID != testLedger {
		t.Fatalf("claims not on context: %+v", seen)
	}
}

func signRS256(claims Claims, key *rsa.PrivateKey, kid string) (string, error) {
	unsigned, err := encodeUnsigned(map[string]string{"alg": "RS256", "typ": "JWT", "kid": kid}, claims)
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256([]byte(unsigned))
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, hash[:])
	if err != nil {
		return "", err
	}
	return unsigned + "." + base64.RawURLEncoding.EncodeToString(sig), nil
}
