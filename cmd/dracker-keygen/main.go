// Command dracker-keygen writes a fresh Ed25519 PEM key pair for the token
// signer.
//
//	dracker-keygen [private.pem [public.pem]]
package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

func main() {
	privFile := "private.pem"
	pubFile := "public.pem"
	if len(os.Args) > 1 {
		privFile = os.Args[1]
	}
	if len(os.Args) > 2 {
		pubFile = os.Args[2]
	}

	if err := generate(privFile, pubFile); err != nil {
		fmt.Fprintf(os.Stderr, "dracker-keygen: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s and %s\n", privFile, pubFile)
}

func generate(privFile, pubFile string) error {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return err
	}

	pubDER, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return err
	}

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	if err := os.WriteFile(privFile, privPEM, 0o600); err != nil {
		return err
	}
	return os.WriteFile(pubFile, pubPEM, 0o644)
}
