package eip712

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/sovafoundation/fountfi-open/vault/types"
)

// SignatureLen is the expected length of an r||s||v signature.
const SignatureLen = 65

// Recoverer recovers signer addresses via secp256k1 public-key recovery.
// It implements types.SignerRecoverer.
type Recoverer struct{}

var _ types.SignerRecoverer = Recoverer{}

// Recover returns the address whose key produced signature over digest.
// The signature is the 65-byte r||s||v layout; v may be 0/1 or 27/28.
func (Recoverer) Recover(digest [32]byte, signature []byte) (types.Address, error) {
	if len(signature) != SignatureLen {
		return types.Address{}, fmt.Errorf("signature must be %d bytes, got %d", SignatureLen, len(signature))
	}
	v := signature[64]
	if v < 27 {
		v += 27
	}
	if v != 27 && v != 28 {
		return types.Address{}, fmt.Errorf("invalid recovery id %d", signature[64])
	}

	// RecoverCompact wants the header byte first.
	compact := make([]byte, SignatureLen)
	compact[0] = v
	copy(compact[1:], signature[:64])

	pub, _, err := secpecdsa.RecoverCompact(compact, digest[:])
	if err != nil {
		return types.Address{}, fmt.Errorf("recover signer: %w", err)
	}
	return PubKeyAddress(pub), nil
}

// PubKeyAddress derives the 20-byte address of a public key: the trailing 20
// bytes of the keccak-256 hash of the uncompressed point.
func PubKeyAddress(pub *secp256k1.PublicKey) types.Address {
	raw := pub.SerializeUncompressed()
	h := keccak256(raw[1:])
	var a types.Address
	copy(a[:], h[12:])
	return a
}

// Sign produces an r||s||v signature over digest. Used by tests and the
// sign-request CLI; verification only ever goes through Recover.
func Sign(key *secp256k1.PrivateKey, digest [32]byte) []byte {
	compact := secpecdsa.SignCompact(key, digest[:], false)
	sig := make([]byte, SignatureLen)
	copy(sig[:64], compact[1:])
	sig[64] = compact[0]
	return sig
}

// SignRequest signs a withdrawal request under the given domain.
func SignRequest(key *secp256k1.PrivateKey, d Domain, req types.WithdrawalRequest) []byte {
	return Sign(key, RequestDigest(d, req))
}
