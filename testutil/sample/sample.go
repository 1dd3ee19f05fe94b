package sample

import (
	"crypto/rand"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/sovafoundation/fountfi-open/vault/eip712"
	"github.com/sovafoundation/fountfi-open/vault/types"
)

// Address returns a random account or token reference.
func Address() types.Address {
	var a types.Address
	if _, err := rand.Read(a[:]); err != nil {
		panic(err)
	}
	return a
}

// KeyPair returns a fresh secp256k1 key and the address it signs for.
func KeyPair() (*secp256k1.PrivateKey, types.Address) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		panic(err)
	}
	return key, eip712.PubKeyAddress(key.PubKey())
}
