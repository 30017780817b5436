package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	tmcfg "github.com/tendermint/tendermint/config"
)

const (
	EnvPrefix         = "FACTORY"
	DefaultConfigDir  = "config"
	DefaultConfigFile = "config.toml"
	DefaultChainID    = "localnet"
	DefaultCacheSize  = 10000
)

type Config struct {
	tmcfg.BaseConfig `mapstructure:",squash"`

	// CacheSize is the number of nodes cached by each ledger tree.
	CacheSize int `mapstructure:"cache_size"`

	chainId string
}

func DefaultConfig(chainId ...string) *Config {
	_chainId := DefaultChainID
	if len(chainId) > 0 {
		_chainId = chainId[0]
	}
	return &Config{
		BaseConfig: tmcfg.DefaultBaseConfig(),
		CacheSize:  DefaultCacheSize,
		chainId:    _chainId,
	}
}

// LoadConfig reads $home/config/config.toml and the environment variables prefixed with FACTORY_.
// A missing config file is not an error; the defaults are used.
func LoadConfig(home string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(ConfigFilePath(home))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault("chain_id", def.chainId)
	v.SetDefault("cache_size", def.CacheSize)
	v.SetDefault("db_dir", def.DBPath)
	v.SetDefault("db_backend", def.DBBackend)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("genesis_file", def.Genesis)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.SetChainId(v.GetString("chain_id"))
	cfg.SetRoot(home)
	return cfg, nil
}

// WriteConfigFile saves the values of `cfg` to $home/config/config.toml.
func WriteConfigFile(cfg *Config) error {
	path := ConfigFilePath(cfg.RootDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	v := viper.New()
	v.Set("chain_id", cfg.chainId)
	v.Set("cache_size", cfg.CacheSize)
	v.Set("db_dir", cfg.DBPath)
	v.Set("db_backend", cfg.DBBackend)
	v.Set("log_level", cfg.LogLevel)
	v.Set("genesis_file", cfg.Genesis)
	return v.WriteConfigAs(path)
}

func ConfigFilePath(home string) string {
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile)
}

func (c *Config) SetRoot(root string) *Config {
	c.BaseConfig.RootDir = root
	return c
}

func (c *Config) SetChainId(chainId string) {
	c.chainId = chainId
}

func (c *Config) ChainId() string {
	return c.chainId
}

// ChainID overrides BaseConfig.ChainID() of tendermint.
func (c *Config) ChainID() string {
	return c.chainId
}
