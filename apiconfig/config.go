package apiconfig

type Config struct {
	Api    ApiConfig    `koanf:"api"`
	Vault  VaultConfig  `koanf:"vault"`
	Roles  RolesConfig  `koanf:"roles"`
	Sqlite SqliteConfig `koanf:"sqlite"`
}

type ApiConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// VaultConfig carries the vault identity and conversion parameters.
type VaultConfig struct {
	Address                   string             `koanf:"address"`
	BaseAsset                 string             `koanf:"base_asset"`
	BaseDecimals              uint8              `koanf:"base_decimals"`
	DomainName                string             `koanf:"domain_name"`
	DomainVersion             string             `koanf:"domain_version"`
	ChainId                   uint64             `koanf:"chain_id"`
	ManagedWithdrawOnly       bool               `koanf:"managed_withdraw_only"`
	FreezeHooksAfterExecution bool               `koanf:"freeze_hooks_after_execution"`
	Collateral                []CollateralConfig `koanf:"collateral"`
}

// CollateralConfig declares one collateral kind to allow at startup.
// Rate is a human-readable decimal, e.g. "1.0" or "0.9997".
type CollateralConfig struct {
	Token    string `koanf:"token"`
	Decimals uint8  `koanf:"decimals"`
	Rate     string `koanf:"rate"`
}

type RolesConfig struct {
	ProtocolAdmins []string `koanf:"protocol_admins"`
	Managers       []string `koanf:"managers"`
	StrategyAdmins []string `koanf:"strategy_admins"`
}

type SqliteConfig struct {
	Path string `koanf:"path"`
}

func DefaultConfig() Config {
	return Config{
		Api: ApiConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Vault: VaultConfig{
			BaseDecimals:  8,
			DomainName:    "FountFi",
			DomainVersion: "1",
			ChainId:       1,
		},
		Sqlite: SqliteConfig{
			Path: "fountfi.db",
		},
	}
}
