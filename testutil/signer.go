package testutil

import (
	"crypto/ecdsa"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet couples a throwaway secp256k1 key with its derived address for
// exercising signature flows in tests.
type Wallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewWallet generates a fresh key pair.
func NewWallet(t *testing.T) *Wallet {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	return &Wallet{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}
}

// Address reports the wallet's account address.
func (w *Wallet) Address() common.Address {
	return w.address
}

// SignDigest signs a 32-byte digest and returns the signature split into its
// components, with v in the Ethereum 27/28 encoding.
func (w *Wallet) SignDigest(t *testing.T, digest []byte) (v byte, r, s [32]byte) {
	t.Helper()
	sig, err := crypto.Sign(digest, w.key)
	if err != nil {
		t.Fatalf("signing digest: %v", err)
	}
	copy(r[:], sig[:32])
	copy(s[:], sig[32:64])
	return sig[64] + 27, r, s
}
