package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	jwtgo "github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func setupKeys(t *testing.T) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}

	SetKeys(key)
}

func signClaims(t *testing.T, claims jwtgo.StandardClaims) string {
	t.Helper()

	signedToken, err := jwtgo.NewWithClaims(jwtgo.SigningMethodRS256, claims).SignedString(privateKey)
	if err != nil {
		t.Fatal(err)
	}

	return signedToken
}

func TestSignAndValidateUserID(t *testing.T) {
	setupKeys(t)

	sign, err := Sign(18)
	assert.NoError(t, err)

	id, err := ValidUserID(sign)
	assert.NoError(t, err)
	assert.Equal(t, int64(18), id)
}

func TestLoadKeys(t *testing.T) {
	a := assert.New(t)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	a.NoError(err)

	pubBytes, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	a.NoError(err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.key")
	pubPath := filepath.Join(dir, "public.pem")
	a.NoError(os.WriteFile(privPath, pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}), 0600))
	a.NoError(os.WriteFile(pubPath, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes}), 0644))

	a.Equal(key.D, loadPrivateKey(privPath).D)
	a.Equal(key.N, loadPublicKey(pubPath).N)
}

func TestValidUserID_InvalidAudience(t *testing.T) {
	setupKeys(t)

	signedToken := signClaims(t, jwtgo.StandardClaims{
		Audience: "different-audience",
		Id:       uuid.New().String(),
		IssuedAt: time.Now().Unix(),
		Issuer:   Issuer,
		Subject:  "15",
	})

	id, err := ValidUserID(signedToken)
	assert.EqualError(t, err, "invalid audience")
	assert.Equal(t, int64(0), id)
}

func TestValidUserID_InvalidIssuer(t *testing.T) {
	setupKeys(t)

	signedToken := signClaims(t, jwtgo.StandardClaims{
		Audience: Audience,
		Id:       uuid.New().String(),
		IssuedAt: time.Now().Unix(),
		Issuer:   "invalid-issuer",
		Subject:  "15",
	})

	id, err := ValidUserID(signedToken)
	assert.EqualError(t, err, "invalid issuer")
	assert.Equal(t, int64(0), id)
}

func TestValidUserID_Expired(t *testing.T) {
	setupKeys(t)

	signedToken := signClaims(t, jwtgo.StandardClaims{
		Audience:  Audience,
		Id:        uuid.New().String(),
		IssuedAt:  time.Now().Unix(),
		Issuer:    Issuer,
		ExpiresAt: time.Now().Add(time.Hour * -1).Unix(),
		Subject:   "15",
	})

	id, err := ValidUserID(signedToken)
	if assert.Error(t, err) {
		assert.Regexp(t, "^token is expired", err.Error())
	}
	assert.Equal(t, int64(0), id)
}

func TestValidUserID_WrongKey(t *testing.T) {
	setupKeys(t)
	sign, err := Sign(18)
	assert.NoError(t, err)

	setupKeys(t)
	id, err := ValidUserID(sign)
	assert.Error(t, err)
	assert.Equal(t, int64(0), id)
}
