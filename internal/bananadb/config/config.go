package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Address 是 HTTP 服務綁定位址
	// 可以透過環境變數 BANANADB_ADDRESS 設定
	// 預設：0.0.0.0:8000
	Address string `yaml:"address"`

	// DataDir 是 BananaDB 資料目錄
	// 用於存放 SQLite 資料庫與上傳的圖片
	// 可以透過環境變數 BANANADB_DATA_DIR 設定
	// 預設：~/.local/share/bananadb
	DataDir string `yaml:"data_dir"`

	// GeminiAPIKey 是 Gemini API 金鑰
	// 透過環境變數 GEMINI_API_KEY 設定
	// 未設定時 AI 分析會退回固定的佔位結果
	GeminiAPIKey string `yaml:"gemini_api_key"`

	// GeminiModel 是使用的 Gemini 模型名稱
	// 可以透過環境變數 GEMINI_MODEL 設定
	// 預設：gemini-2.0-flash
	GeminiModel string `yaml:"gemini_model"`

	// TemplateDir 是前端頁面目錄
	// 預設：./templates
	TemplateDir string `yaml:"template_dir"`
}

func New() (*Config, error) {
	// 載入 .env（不存在時忽略）
	_ = godotenv.Load()

	cfg := &Config{}

	// 1. 先讀取 YAML 設定檔（如果指定了 BANANADB_CONFIG）
	if path := os.Getenv("BANANADB_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	// 2. 環境變數覆寫設定檔
	cfg.Address = getAddress(cfg.Address)
	cfg.DataDir = getDataDir(cfg.DataDir)
	cfg.GeminiAPIKey = getEnvOr("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.GeminiModel = getGeminiModel(cfg.GeminiModel)
	if cfg.TemplateDir == "" {
		cfg.TemplateDir = "templates"
	}
	return cfg, nil
}

// DBPath SQLite 資料庫檔案位置
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "bananadb.db")
}

// UploadsDir 圖片檔案目錄
func (c *Config) UploadsDir() string {
	return filepath.Join(c.DataDir, "uploads")
}

// getAddress 取得綁定位址，優先使用環境變數 BANANADB_ADDRESS
func getAddress(fromFile string) string {
	if addr := os.Getenv("BANANADB_ADDRESS"); addr != "" {
		return addr
	}
	if fromFile != "" {
		return fromFile
	}
	return "0.0.0.0:8000"
}

// getDataDir 取得資料目錄，優先使用環境變數 BANANADB_DATA_DIR
func getDataDir(fromFile string) string {
	// 1. 優先使用環境變數 BANANADB_DATA_DIR
	if dir := os.Getenv("BANANADB_DATA_DIR"); dir != "" {
		return dir
	}

	// 2. 其次使用設定檔中的 data_dir
	if fromFile != "" {
		return fromFile
	}

	// 3. 使用使用者家目錄下的 .local/share/bananadb
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "bananadb")
	}

	// 4. 無法取得家目錄時，使用目前目錄下的 data
	return filepath.Join(".", "data")
}

// getGeminiModel 取得模型名稱，優先使用環境變數 GEMINI_MODEL
func getGeminiModel(fromFile string) string {
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		return model
	}
	if fromFile != "" {
		return fromFile
	}
	return "gemini-2.0-flash"
}

func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
