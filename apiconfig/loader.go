package apiconfig

import (
	"strings"

	"cosmossdk.io/math"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/sovafoundation/fountfi-open/vault/types"
)

const envPrefix = "FOUNTFI_"

// Load reads the configuration in layers: built-in defaults, then the YAML
// file at configPath (optional, skipped when empty), then FOUNTFI_* env vars
// with "__" as the section separator (FOUNTFI_API__PORT=9090 sets api.port).
func Load(configPath string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return Config{}, errors.Wrap(err, "loading config defaults")
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return Config{}, errors.Wrapf(err, "loading config file %s", configPath)
		}
	}
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil)
	if err != nil {
		return Config{}, errors.Wrap(err, "loading config env vars")
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return Config{}, errors.Wrap(err, "unmarshalling config")
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	if c.Api.Port <= 0 || c.Api.Port > 65535 {
		return errors.Errorf("invalid api port %d", c.Api.Port)
	}
	if _, err := c.VaultAddress(); err != nil {
		return err
	}
	if _, err := c.Params(); err != nil {
		return err
	}
	if _, err := c.CollateralKinds(); err != nil {
		return err
	}
	if _, err := c.RoleGrants(); err != nil {
		return err
	}
	return nil
}

// VaultAddress returns the address the vault's custody account lives at.
func (c Config) VaultAddress() (types.Address, error) {
	addr, err := types.AddressFromHex(c.Vault.Address)
	if err != nil {
		return types.Address{}, errors.Wrap(err, "vault.address")
	}
	if addr.IsZero() {
		return types.Address{}, errors.New("vault.address cannot be the zero address")
	}
	return addr, nil
}

// Params converts the vault section into core parameters.
func (c Config) Params() (types.Params, error) {
	base, err := types.AddressFromHex(c.Vault.BaseAsset)
	if err != nil {
		return types.Params{}, errors.Wrap(err, "vault.base_asset")
	}
	p := types.Params{
		BaseAsset:                 base,
		BaseDecimals:              c.Vault.BaseDecimals,
		DomainName:                c.Vault.DomainName,
		DomainVersion:             c.Vault.DomainVersion,
		ChainID:                   c.Vault.ChainId,
		ManagedWithdrawOnly:       c.Vault.ManagedWithdrawOnly,
		FreezeHooksAfterExecution: c.Vault.FreezeHooksAfterExecution,
	}
	if err := p.Validate(); err != nil {
		return types.Params{}, errors.Wrap(err, "vault params")
	}
	return p, nil
}

// CollateralKinds converts the declared collateral entries, parsing each
// human-readable rate into its fixed-point form.
func (c Config) CollateralKinds() ([]types.CollateralKind, error) {
	out := make([]types.CollateralKind, 0, len(c.Vault.Collateral))
	for _, entry := range c.Vault.Collateral {
		token, err := types.AddressFromHex(entry.Token)
		if err != nil {
			return nil, errors.Wrapf(err, "collateral token %q", entry.Token)
		}
		rate, err := ParseRate(entry.Rate)
		if err != nil {
			return nil, errors.Wrapf(err, "collateral %s rate", entry.Token)
		}
		out = append(out, types.CollateralKind{
			Token:    token,
			Decimals: entry.Decimals,
			Rate:     rate,
			Allowed:  true,
		})
	}
	return out, nil
}

// ParseRate converts a decimal string like "0.9997" into an 18-decimal
// fixed-point integer. Rates with more than 18 fractional digits are rejected
// rather than silently truncated.
func ParseRate(s string) (math.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return math.Int{}, errors.Wrapf(err, "parsing rate %q", s)
	}
	if !d.IsPositive() {
		return math.Int{}, errors.Errorf("rate %q must be positive", s)
	}
	scaled := d.Shift(int32(types.RateScale))
	if !scaled.IsInteger() {
		return math.Int{}, errors.Errorf("rate %q has more than %d decimals", s, types.RateScale)
	}
	return math.NewIntFromBigInt(scaled.BigInt()), nil
}

// RoleGrants converts the roles section into registry membership.
func (c Config) RoleGrants() (map[types.Role][]types.Address, error) {
	grants := make(map[types.Role][]types.Address, 3)
	for role, members := range map[types.Role][]string{
		types.RoleProtocolAdmin: c.Roles.ProtocolAdmins,
		types.RoleManager:       c.Roles.Managers,
		types.RoleStrategyAdmin: c.Roles.StrategyAdmins,
	} {
		for _, member := range members {
			addr, err := types.AddressFromHex(member)
			if err != nil {
				return nil, errors.Wrapf(err, "role %s member %q", role, member)
			}
			grants[role] = append(grants[role], addr)
		}
	}
	return grants, nil
}
