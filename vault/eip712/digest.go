// Package eip712 implements structured-data digests for signed withdrawal
// requests, and signer recovery over secp256k1. The digest layout follows the
// EIP-712 convention: keccak256("\x19\x01" || domainSeparator || structHash).
package eip712

import (
	"encoding/binary"

	"cosmossdk.io/math"
	"golang.org/x/crypto/sha3"

	"github.com/sovafoundation/fountfi-open/vault/types"
)

const (
	domainType  = "EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"
	requestType = "WithdrawalRequest(address owner,address to,uint256 shares,uint256 minAssets,uint96 nonce,uint96 expirationTime)"
)

// Domain is the fixed signing domain of a vault instance. Requests signed under
// a different name, version, chain or verifying contract never validate.
type Domain struct {
	Name              string
	Version           string
	ChainID           uint64
	VerifyingContract types.Address
}

// DomainFromParams derives the signing domain from vault params and the vault's
// own account identity.
func DomainFromParams(p types.Params, vaultAddr types.Address) Domain {
	return Domain{
		Name:              p.DomainName,
		Version:           p.DomainVersion,
		ChainID:           p.ChainID,
		VerifyingContract: vaultAddr,
	}
}

// Separator returns the domain separator hash.
func (d Domain) Separator() [32]byte {
	dt := keccak256([]byte(domainType))
	name := keccak256([]byte(d.Name))
	version := keccak256([]byte(d.Version))
	return keccak256(
		dt[:],
		name[:],
		version[:],
		encodeUint64(d.ChainID),
		encodeAddress(d.VerifyingContract),
	)
}

// RequestDigest computes the signable digest of a withdrawal request under the
// given domain.
func RequestDigest(d Domain, req types.WithdrawalRequest) [32]byte {
	rt := keccak256([]byte(requestType))
	structHash := keccak256(
		rt[:],
		encodeAddress(req.Owner),
		encodeAddress(req.To),
		encodeUint256(req.Shares),
		encodeUint256(req.MinAssets),
		encodeUint64(req.Nonce),
		encodeUint64(req.ExpirationTime),
	)
	sep := d.Separator()
	return keccak256([]byte{0x19, 0x01}, sep[:], structHash[:])
}

func keccak256(chunks ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, c := range chunks {
		h.Write(c)
	}
	var out [32]byte
	h.Sum(out[:0])
	return out
}

// encodeUint256 pads a non-negative integer to a 32-byte big-endian word.
func encodeUint256(v math.Int) []byte {
	out := make([]byte, 32)
	v.BigInt().FillBytes(out)
	return out
}

func encodeUint64(v uint64) []byte {
	out := make([]byte, 32)
	binary.BigEndian.PutUint64(out[24:], v)
	return out
}

func encodeAddress(a types.Address) []byte {
	out := make([]byte, 32)
	copy(out[12:], a[:])
	return out
}
