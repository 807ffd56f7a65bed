package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/ssh"
)

const keyDerivationMessage = "polyprompt-credential-key-v1"

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// sshCipher seals data with AES-256-GCM under a key derived from an SSH
// private key. The same SSH key always yields the same AES key, so the file
// can be reopened on any machine holding that key.
type sshCipher struct {
	aesKey []byte
}

func newSSHCipher(keyPath, passphrase string) (*sshCipher, error) {
	if keyPath == "" {
		return nil, fmt.Errorf("ssh_key credentials require ssh_key_path")
	}

	signer, err := loadSigner(keyPath, passphrase)
	if err != nil {
		return nil, err
	}

	key, err := DeriveAESKeyFromSSH(signer)
	if err != nil {
		return nil, fmt.Errorf("failed to derive encryption key: %w", err)
	}
	return &sshCipher{aesKey: key}, nil
}

// Seal output format: [nonce][ciphertext + tag]
func (s *sshCipher) Seal(plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(s.aesKey)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *sshCipher) Open(ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM(s.aesKey)
	if err != nil {
		return nil, err
	}

	n := gcm.NonceSize()
	if len(ciphertext) < n {
		return nil, ErrCiphertextTooShort
	}

	plaintext, err := gcm.Open(nil, ciphertext[:n], ciphertext[n:], nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// DeriveAESKeyFromSSH derives a 32-byte AES-256 key from an SSH key signature.
// Only deterministic signature schemes (ed25519, RSA PKCS#1 v1.5) give a
// stable key.
func DeriveAESKeyFromSSH(signer ssh.Signer) ([]byte, error) {
	signature, err := signer.Sign(rand.Reader, []byte(keyDerivationMessage))
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}

	hash := sha256.Sum256(signature.Blob)
	return hash[:], nil
}
