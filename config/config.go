package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	ZeroG    ZeroGConfig    `yaml:"zerog"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Auth     AuthConfig     `yaml:"auth"`
	Store    StoreConfig    `yaml:"store"`
	Users    []User         `yaml:"users"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ZeroGConfig holds the 0G compute network settings: the chain RPC,
// the broker gateway, and the inference provider to acknowledge.
type ZeroGConfig struct {
	RPCURL            string  `yaml:"rpc_url"`
	BrokerURL         string  `yaml:"broker_url"`
	ProviderAddress   string  `yaml:"provider_address"`
	PrivateKey        string  `yaml:"private_key"`
	ServicePrivateKey string  `yaml:"service_private_key"`
	Model             string  `yaml:"model"`
	Temperature       float64 `yaml:"temperature"`
	MinBalance        float64 `yaml:"min_balance"`
	TopUpAmount       float64 `yaml:"top_up_amount"`
}

type AnalysisConfig struct {
	MaxSections         int `yaml:"max_sections"`
	SectionDelaySeconds int `yaml:"section_delay_seconds"`
	ChunkSize           int `yaml:"chunk_size"`
	MaxUploadMB         int `yaml:"max_upload_mb"`
	MinDocumentChars    int `yaml:"min_document_chars"`
}

type ArchiveConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Bucket     string `yaml:"bucket"`
	UseSSL     bool   `yaml:"use_ssl"`
	ExpireDays int    `yaml:"expire_days"`
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

type StoreConfig struct {
	MaxReports int `yaml:"max_reports"`
}

type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Wallet   string `yaml:"wallet"`
}

var GlobalConfig *Config

// Load reads the yaml config, applies defaults, then applies environment
// overrides. A missing config file is not an error: the service can be
// configured entirely through the environment.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)

	GlobalConfig = &cfg
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.ZeroG.RPCURL == "" {
		cfg.ZeroG.RPCURL = "https://evmrpc-testnet.0g.ai"
	}
	if cfg.ZeroG.BrokerURL == "" {
		cfg.ZeroG.BrokerURL = "https://compute-broker-testnet.0g.ai"
	}
	if cfg.ZeroG.ProviderAddress == "" {
		cfg.ZeroG.ProviderAddress = "0xf07240Efa67755B5311bc75784a061eDB47165Dd"
	}
	if cfg.ZeroG.Model == "" {
		cfg.ZeroG.Model = "phala/gpt-oss-120b"
	}
	if cfg.ZeroG.Temperature == 0 {
		cfg.ZeroG.Temperature = 0.3
	}
	if cfg.ZeroG.MinBalance == 0 {
		cfg.ZeroG.MinBalance = 0.1
	}
	if cfg.ZeroG.TopUpAmount == 0 {
		cfg.ZeroG.TopUpAmount = 1
	}
	if cfg.Analysis.MaxSections == 0 {
		cfg.Analysis.MaxSections = 10
	}
	if cfg.Analysis.SectionDelaySeconds == 0 {
		cfg.Analysis.SectionDelaySeconds = 1
	}
	if cfg.Analysis.ChunkSize == 0 {
		cfg.Analysis.ChunkSize = 1000
	}
	if cfg.Analysis.MaxUploadMB == 0 {
		cfg.Analysis.MaxUploadMB = 10
	}
	if cfg.Analysis.MinDocumentChars == 0 {
		cfg.Analysis.MinDocumentChars = 100
	}
	if cfg.Archive.ExpireDays == 0 {
		cfg.Archive.ExpireDays = 7
	}
	if cfg.Auth.TokenExpireHours == 0 {
		cfg.Auth.TokenExpireHours = 24
	}
	if cfg.Store.MaxReports == 0 {
		cfg.Store.MaxReports = 100
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("RPC_URL"); v != "" {
		cfg.ZeroG.RPCURL = v
	}
	if v := os.Getenv("BROKER_URL"); v != "" {
		cfg.ZeroG.BrokerURL = v
	}
	if v := os.Getenv("PROVIDER_ADDRESS"); v != "" {
		cfg.ZeroG.ProviderAddress = v
	}
	if v := os.Getenv("PRIVATE_KEY"); v != "" {
		cfg.ZeroG.PrivateKey = v
	}
	if v := os.Getenv("SERVICE_PRIVATE_KEY"); v != "" {
		cfg.ZeroG.ServicePrivateKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}

// OperatorKey returns the private key used for operator-funded analysis.
// SERVICE_PRIVATE_KEY takes precedence; PRIVATE_KEY is the fallback.
func (c *Config) OperatorKey() string {
	if c.ZeroG.ServicePrivateKey != "" {
		return c.ZeroG.ServicePrivateKey
	}
	return c.ZeroG.PrivateKey
}

// FindUser finds a user by username
func (c *Config) FindUser(username string) *User {
	for i := range c.Users {
		if c.Users[i].Username == username {
			return &c.Users[i]
		}
	}
	return nil
}
