package jwt

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"holdem-server/internal/config"
	"os"
	"strconv"
	"time"

	jwtgo "github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Issuer issues the JWT
const Issuer = "holdem-server"

// Audience is the intended JWT audience
const Audience = "holdem-server.players"

// Lifetime is how long a signed token is valid for
const Lifetime = time.Hour * 24 * 7

var publicKey *rsa.PublicKey
var privateKey *rsa.PrivateKey

// LoadKeys will load the public and private keys
// this method should only be called once.
func LoadKeys() {
	cfg := config.Instance().JWT
	privateKey = loadPrivateKey(cfg.PrivateKey)
	publicKey = loadPublicKey(cfg.PublicKey)
}

// SetKeys uses the key pair instead of the configured key files
func SetKeys(key *rsa.PrivateKey) {
	privateKey = key
	publicKey = &key.PublicKey
}

// Sign will sign a JWT for the user ID
func Sign(userID int64) (string, error) {
	if privateKey == nil {
		panic("LoadKeys() not called")
	}

	now := time.Now()
	token := jwtgo.NewWithClaims(jwtgo.SigningMethodRS256, jwtgo.StandardClaims{
		Audience:  Audience,
		ExpiresAt: now.Add(Lifetime).Unix(),
		Id:        uuid.New().String(),
		IssuedAt:  now.Unix(),
		Issuer:    Issuer,
		Subject:   strconv.FormatInt(userID, 10),
	})

	return token.SignedString(privateKey)
}

// ValidUserID will validate a signed JWT
func ValidUserID(signedString string) (int64, error) {
	if publicKey == nil {
		panic("LoadKeys() not called")
	}

	token, err := jwtgo.ParseWithClaims(signedString, &jwtgo.StandardClaims{}, func(token *jwtgo.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtgo.SigningMethodRSA); !ok {
			return nil, errors.New("expected RS256 signing method")
		}

		return publicKey, nil
	})

	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(*jwtgo.StandardClaims)
	if !ok {
		return 0, fmt.Errorf("expected jwt.StandardClaims, got %T", token.Claims)
	}

	if !claims.VerifyAudience(Audience, true) {
		return 0, errors.New("invalid audience")
	}

	if !claims.VerifyIssuer(Issuer, true) {
		return 0, errors.New("invalid issuer")
	}

	return strconv.ParseInt(claims.Subject, 10, 64)
}

func loadPublicKey(path string) *rsa.PublicKey {
	b, err := os.ReadFile(path)
	if err != nil {
		logrus.WithError(err).Fatal("could not read file")
	}

	pem, err := jwtgo.ParseRSAPublicKeyFromPEM(b)
	if err != nil {
		logrus.WithError(err).Fatal("could not parse RSA public key")
	}

	return pem
}

func loadPrivateKey(path string) *rsa.PrivateKey {
	b, err := os.ReadFile(path)
	if err != nil {
		logrus.WithError(err).Fatal("could not read file")
	}

	pem, err := jwtgo.ParseRSAPrivateKeyFromPEM(b)
	if err != nil {
		logrus.WithError(err).Fatal("could not parse RSA private key")
	}

	return pem
}
