// ==================================
// File: internal/wallet/wallet.go
// ==================================
package wallet

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// ErrPublicKeyMismatch is returned when the configured public key does not
// belong to the private key.
var ErrPublicKeyMismatch = errors.New("wallet public key does not match private key")

// Wallet представляет кошелёк Solana. Ключи только читаются после загрузки.
type Wallet struct {
	PrivateKey solana.PrivateKey
	PublicKey  solana.PublicKey
}

// NewWallet создаёт новый кошелёк из base58-encoded приватного ключа.
func NewWallet(privateKeyBase58 string) (*Wallet, error) {
	privateKeyBytes, err := base58.Decode(privateKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}
	if len(privateKeyBytes) != 64 {
		return nil, fmt.Errorf("invalid private key length: expected 64 bytes, got %d", len(privateKeyBytes))
	}
	privateKey := solana.PrivateKey(privateKeyBytes)
	return &Wallet{
		PrivateKey: privateKey,
		PublicKey:  privateKey.PublicKey(),
	}, nil
}

// Load создаёт кошелёк и, если задан publicKeyBase58, сверяет его с приватным ключом.
func Load(privateKeyBase58, publicKeyBase58 string) (*Wallet, error) {
	w, err := NewWallet(privateKeyBase58)
	if err != nil {
		return nil, err
	}
	if publicKeyBase58 == "" {
		return w, nil
	}
	pub, err := solana.PublicKeyFromBase58(publicKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("failed to decode public key: %w", err)
	}
	if !pub.Equals(w.PublicKey) {
		return nil, ErrPublicKeyMismatch
	}
	return w, nil
}

// SignTransaction подписывает транзакцию с помощью приватного ключа кошелька.
func (w *Wallet) SignTransaction(tx *solana.Transaction) error {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.PublicKey) {
			return &w.PrivateKey
		}
		return nil
	})
	return err
}

// String возвращает строковое представление кошелька (его публичный ключ).
func (w *Wallet) String() string {
	return w.PublicKey.String()
}
