package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrInvalidKey is returned for keys that are not 32-byte secp256k1 scalars.
var ErrInvalidKey = errors.New("invalid private key")

// Signer signs EVM transactions for the deploying account (the token owner).
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewSigner creates a signer for an ECDSA key.
func NewSigner(key *ecdsa.PrivateKey) *Signer {
	return &Signer{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}
}

// NewSignerFromHex parses a hex private key (0x prefix optional).
func NewSignerFromHex(hexKey string) (*Signer, error) {
	key, err := parseKey(hexKey)
	if err != nil {
		return nil, err
	}
	return NewSigner(key), nil
}

// NewSignerFromKeystore loads the key stored under ref.
func NewSignerFromKeystore(ks *Keystore, ref string) (*Signer, error) {
	hexKey, err := ks.Retrieve(ref)
	if err != nil {
		return nil, fmt.Errorf("retrieving key: %w", err)
	}
	return NewSignerFromHex(hexKey)
}

// SignTx signs an EVM transaction for chainID.
func (s *Signer) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}
	return signed, nil
}

// Address returns the signing account's address.
func (s *Signer) Address() common.Address {
	return s.address
}

func parseKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(stripHexPrefix(hexKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return key, nil
}

func stripHexPrefix(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
