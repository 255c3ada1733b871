package vault

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/holiman/uint256"
)

// Signature carries the recovery indicator and the two scalars of a
// secp256k1 signature as produced by eth_signTypedData. V is accepted in
// both the raw (0/1) and Ethereum (27/28) encodings.
type Signature struct {
	V byte
	R [32]byte
	S [32]byte
}

// permitTypes is the EIP-712 type set for the all-or-nothing permit message.
var permitTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"Permit": {
		{Name: "holder", Type: "address"},
		{Name: "spender", Type: "address"},
		{Name: "nonce", Type: "uint256"},
		{Name: "expiry", Type: "uint256"},
		{Name: "allowed", Type: "bool"},
	},
}

// PermitDigest builds the EIP-712 digest a holder signs to authorize (or
// revoke) unlimited spending by spender. Wallets produce the identical
// digest through eth_signTypedData_v4 against this vault's domain.
func (v *Vault) PermitDigest(holder, spender common.Address, nonce, expiry uint64, allowed bool) ([]byte, error) {
	typed := apitypes.TypedData{
		Types:       permitTypes,
		PrimaryType: "Permit",
		Domain: apitypes.TypedDataDomain{
			Name:              v.name,
			Version:           APIVersion,
			ChainId:           (*math.HexOrDecimal256)(new(big.Int).Set(v.chainID)),
			VerifyingContract: v.address.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"holder":  holder.Hex(),
			"spender": spender.Hex(),
			"nonce":   new(big.Int).SetUint64(nonce),
			"expiry":  new(big.Int).SetUint64(expiry),
			"allowed": allowed,
		},
	}
	digest, _, err := apitypes.TypedDataAndHash(typed)
	if err != nil {
		return nil, fmt.Errorf("hashing permit message: %w", err)
	}
	return digest, nil
}

// Permit applies a signature-authorized allowance change without any call
// from the holder. allowed=true grants spender the unlimited allowance over
// holder's shares, false revokes it. Nonces advance strictly one at a time
// per holder, so a captured payload cannot be replayed. An expiry of zero
// means the authorization never lapses.
func (v *Vault) Permit(holder, spender common.Address, nonce, expiry uint64, allowed bool, sig Signature) error {
	if holder == zeroAddress {
		return ErrInvalidSignature
	}
	if nonce != v.nonces[holder] {
		return ErrNonceMismatch
	}
	if expiry != 0 && uint64(v.now().Unix()) > expiry {
		return ErrPermitExpired
	}
	digest, err := v.PermitDigest(holder, spender, nonce, expiry, allowed)
	if err != nil {
		return err
	}
	signer, err := recoverPermitSigner(digest, sig)
	if err != nil {
		return err
	}
	if signer != holder {
		return ErrInvalidSignature
	}
	v.nonces[holder] = nonce + 1
	amount := new(uint256.Int)
	if allowed {
		amount = MaxUint256()
	}
	v.allowances.set(holder, spender, amount)
	v.recorder.RecordApproval(ApprovalEvent{Owner: holder, Spender: spender, Amount: amount})
	return nil
}

// recoverPermitSigner checks the scalar ranges and recovers the address that
// signed digest.
func recoverPermitSigner(digest []byte, sig Signature) (common.Address, error) {
	recovery := sig.V
	if recovery >= 27 {
		recovery -= 27
	}
	r := new(big.Int).SetBytes(sig.R[:])
	s := new(big.Int).SetBytes(sig.S[:])
	if !crypto.ValidateSignatureValues(recovery, r, s, true) {
		return common.Address{}, ErrInvalidSignature
	}
	raw := make([]byte, crypto.SignatureLength)
	copy(raw[:32], sig.R[:])
	copy(raw[32:64], sig.S[:])
	raw[64] = recovery
	pub, err := crypto.SigToPub(digest, raw)
	if err != nil {
		return common.Address{}, ErrInvalidSignature
	}
	return crypto.PubkeyToAddress(*pub), nil
}
