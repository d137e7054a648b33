package auth

import (
	"crypto/ed25519"
	"os"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// KeyPair holds the process-wide Ed25519 signing material. It is loaded once
// at startup and shared read-only between the signer and every validator.
type KeyPair struct {
	Private ed25519.PrivateKey
	Public  ed25519.PublicKey
}

// LoadKeyPair reads both PEM files and parses them into an Ed25519 pair.
func LoadKeyPair(privateFile, publicFile string) (*KeyPair, error) {
	privPEM, err := os.ReadFile(privateFile)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to read private key file")
	}

	pubPEM, err := os.ReadFile(publicFile)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to read public key file")
	}

	return ParseKeyPair(privPEM, pubPEM)
}

// ParseKeyPair parses PEM encoded Ed25519 keys.
func ParseKeyPair(privPEM, pubPEM []byte) (*KeyPair, error) {
	priv, err := jwt.ParseEdPrivateKeyFromPEM(privPEM)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to parse Ed25519 private key")
	}

	pub, err := jwt.ParseEdPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to parse Ed25519 public key")
	}

	private, ok := priv.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("private key is not an Ed25519 key", errors.CategoryInternal)
	}

	public, ok := pub.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("public key is not an Ed25519 key", errors.CategoryInternal)
	}

	return &KeyPair{Private: private, Public: public}, nil
}
