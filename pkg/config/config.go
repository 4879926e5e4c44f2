package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// WalletConfig 钱包配置。
// 私钥可以直接给 PrivateKey，也可以给助记词 + 派生路径由程序推导。
type WalletConfig struct {
	PrivateKey     string
	Mnemonic       string
	DerivationPath string
	FunderAddress  string // 资金地址（Polymarket 代理钱包），为空时用 EOA 地址
	SignatureType  int    // 0=EOA, 1=Magic, 2=GnosisSafe
}

// ServerConfig 网关 HTTP 服务配置
type ServerConfig struct {
	ListenAddr   string
	SharedSecret string // 客户端请求的共享密钥，为空时不启用认证
}

// ClobConfig CLOB venue 配置
type ClobConfig struct {
	Host    string
	ChainID int
}

// StoreConfig 本地存储配置
type StoreConfig struct {
	Path          string // badger 数据目录
	EncryptionKey string // 32 字节（hex 或 base64），为空时不加密
	OrderTTLHours int    // 订单记录保留时长
}

// Config 网关配置
type Config struct {
	Wallet   WalletConfig
	Server   ServerConfig
	Clob     ClobConfig
	Store    StoreConfig
	LogLevel string
	LogFile  string
}

// ConfigFile 配置文件结构（YAML 解析）
type ConfigFile struct {
	Wallet struct {
		PrivateKey     string `yaml:"private_key"`
		Mnemonic       string `yaml:"mnemonic"`
		DerivationPath string `yaml:"derivation_path"`
		FunderAddress  string `yaml:"funder_address"`
		SignatureType  int    `yaml:"signature_type"`
	} `yaml:"wallet"`
	Server struct {
		ListenAddr   string `yaml:"listen_addr"`
		SharedSecret string `yaml:"shared_secret"`
	} `yaml:"server"`
	Clob struct {
		Host    string `yaml:"host"`
		ChainID int    `yaml:"chain_id"`
	} `yaml:"clob"`
	Store struct {
		Path          string `yaml:"path"`
		EncryptionKey string `yaml:"encryption_key"`
		OrderTTLHours int    `yaml:"order_ttl_hours"`
	} `yaml:"store"`
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// Load 加载配置。
// 优先级：环境变量 > 配置文件 > 默认值。filePath 为空时跳过文件。
func Load(filePath string) (*Config, error) {
	var file ConfigFile
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败 %s: %w", filePath, err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("解析配置文件失败 %s: %w", filePath, err)
		}
	}

	cfg := &Config{
		Wallet: WalletConfig{
			PrivateKey:     getEnv("WALLET_PRIVATE_KEY", file.Wallet.PrivateKey),
			Mnemonic:       getEnv("WALLET_MNEMONIC", file.Wallet.Mnemonic),
			DerivationPath: firstNonEmpty(getEnv("WALLET_DERIVATION_PATH", file.Wallet.DerivationPath), "m/44'/60'/0'/0/0"),
			FunderAddress:  getEnv("WALLET_FUNDER_ADDRESS", file.Wallet.FunderAddress),
			SignatureType:  parseIntEnv("WALLET_SIGNATURE_TYPE", file.Wallet.SignatureType),
		},
		Server: ServerConfig{
			ListenAddr:   firstNonEmpty(getEnv("GATEWAY_LISTEN_ADDR", file.Server.ListenAddr), ":8080"),
			SharedSecret: getEnv("GATEWAY_SHARED_SECRET", file.Server.SharedSecret),
		},
		Clob: ClobConfig{
			Host:    firstNonEmpty(getEnv("CLOB_HOST", file.Clob.Host), "https://clob.polymarket.com"),
			ChainID: firstPositive(parseIntEnv("CLOB_CHAIN_ID", file.Clob.ChainID), 137),
		},
		Store: StoreConfig{
			Path:          firstNonEmpty(getEnv("STORE_PATH", file.Store.Path), "data/secrets"),
			EncryptionKey: getEnv("STORE_ENCRYPTION_KEY", file.Store.EncryptionKey),
			OrderTTLHours: firstPositive(parseIntEnv("ORDER_TTL_HOURS", file.Store.OrderTTLHours), 24),
		},
		LogLevel: firstNonEmpty(getEnv("LOG_LEVEL", file.LogLevel), "info"),
		LogFile:  firstNonEmpty(getEnv("LOG_FILE", file.LogFile), "logs/gateway.log"),
	}

	if cfg.Wallet.PrivateKey == "" && cfg.Wallet.Mnemonic == "" {
		return nil, fmt.Errorf("钱包未配置: 需要 WALLET_PRIVATE_KEY 或 WALLET_MNEMONIC")
	}

	return cfg, nil
}

// getEnv 获取环境变量，不存在时返回默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseIntEnv 解析整数环境变量
func parseIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
