package cmd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cosmossdk.io/math"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/sovafoundation/fountfi-open/vault/eip712"
	"github.com/sovafoundation/fountfi-open/vault/types"
)

type signedRequestOutput struct {
	Owner          string `json:"owner"`
	To             string `json:"to"`
	Shares         string `json:"shares"`
	MinAssets      string `json:"min_assets"`
	Nonce          uint64 `json:"nonce"`
	ExpirationTime uint64 `json:"expiration_time"`
	Signature      string `json:"signature"`
}

// SignRequestCommand returns the Cobra command building and signing a
// withdrawal request. The owner is derived from the signing key; amounts are
// entered as human decimals ("1.5" shares, "100.25" base units).
func SignRequestCommand() *cobra.Command {
	var (
		keyHex        string
		to            string
		shares        string
		minAssets     string
		baseDecimals  uint8
		nonce         uint64
		expiresIn     time.Duration
		vaultAddr     string
		domainName    string
		domainVersion string
		chainID       uint64
	)

	cmd := &cobra.Command{
		Use:   "sign-request",
		Short: "Build and sign a withdrawal request",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, owner, err := parsePrivateKey(keyHex)
			if err != nil {
				return err
			}
			toAddr, err := types.AddressFromHex(to)
			if err != nil {
				return errors.Wrap(err, "--to")
			}
			vault, err := types.AddressFromHex(vaultAddr)
			if err != nil {
				return errors.Wrap(err, "--vault")
			}
			shareAmount, err := parseFixed(shares, types.SharePrecision)
			if err != nil {
				return errors.Wrap(err, "--shares")
			}
			minOut, err := parseFixed(minAssets, baseDecimals)
			if err != nil {
				return errors.Wrap(err, "--min-assets")
			}

			req := types.NewWithdrawalRequest(
				owner, toAddr, shareAmount, minOut, nonce, time.Now().Add(expiresIn))
			if err := req.ValidateBasic(); err != nil {
				return err
			}
			domain := eip712.Domain{
				Name:              domainName,
				Version:           domainVersion,
				ChainID:           chainID,
				VerifyingContract: vault,
			}
			sig := eip712.SignRequest(key, domain, req)

			out, err := json.MarshalIndent(signedRequestOutput{
				Owner:          req.Owner.String(),
				To:             req.To.String(),
				Shares:         req.Shares.String(),
				MinAssets:      req.MinAssets.String(),
				Nonce:          req.Nonce,
				ExpirationTime: req.ExpirationTime,
				Signature:      "0x" + hex.EncodeToString(sig),
			}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&keyHex, "key", "", "hex-encoded secp256k1 private key of the share owner")
	cmd.Flags().StringVar(&to, "to", "", "payout recipient address")
	cmd.Flags().StringVar(&shares, "shares", "", "share amount to redeem, e.g. 1.5")
	cmd.Flags().StringVar(&minAssets, "min-assets", "0", "minimum acceptable payout in base units, e.g. 100.25")
	cmd.Flags().Uint8Var(&baseDecimals, "base-decimals", 8, "decimal precision of the base unit")
	cmd.Flags().Uint64Var(&nonce, "nonce", 0, "request nonce, single-use per owner")
	cmd.Flags().DurationVar(&expiresIn, "expires-in", time.Hour, "validity window from now")
	cmd.Flags().StringVar(&vaultAddr, "vault", "", "vault address (the signing domain's verifying contract)")
	cmd.Flags().StringVar(&domainName, "domain-name", "FountFi", "signing domain name")
	cmd.Flags().StringVar(&domainVersion, "domain-version", "1", "signing domain version")
	cmd.Flags().Uint64Var(&chainID, "chain-id", 1, "signing domain chain id")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("shares")
	_ = cmd.MarkFlagRequired("vault")

	return cmd
}

func parsePrivateKey(keyHex string) (*secp256k1.PrivateKey, types.Address, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(keyHex, "0x"))
	if err != nil {
		return nil, types.Address{}, errors.Wrap(err, "--key")
	}
	if len(raw) != 32 {
		return nil, types.Address{}, errors.Errorf("--key: expected 32 bytes, got %d", len(raw))
	}
	key := secp256k1.PrivKeyFromBytes(raw)
	return key, eip712.PubKeyAddress(key.PubKey()), nil
}

// parseFixed converts a human decimal like "1.5" into an integer with the
// given number of decimals.
func parseFixed(s string, decimals uint8) (math.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return math.Int{}, err
	}
	if d.IsNegative() {
		return math.Int{}, errors.New("amount cannot be negative")
	}
	scaled := d.Shift(int32(decimals))
	if !scaled.IsInteger() {
		return math.Int{}, errors.Errorf("amount %s has more than %d decimals", s, decimals)
	}
	return math.NewIntFromBigInt(scaled.BigInt()), nil
}
