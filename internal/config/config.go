package config

import (
	"log"

	"github.com/spf13/viper"
)

// Configはアプリ全体の設定
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	Shop     ShopConfig
}

type ServerConfig struct {
	Port string
	Env  string // dev/production
	// セッション/refresh cookie にSecureを付けるか
	CookieSecure bool
}

type DatabaseConfig struct {
	URL      string // DATABASE_URL があれば最優先
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

type JWTConfig struct {
	Secret       string
	AccessExpiry int // minutes
}

type SMTPConfig struct {
	Host     string // 空ならコンソールへフォールバック
	Port     string
	Username string
	Password string
	From     string
}

type ShopConfig struct {
	// /contact の送信先
	ContactInbox string
	UploadDir    string
	UploadPath   string // 返すURLのプレフィックス
}

// Loadは環境変数（と.env）から設定を読む
func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GO_ENV", "development")
	viper.SetDefault("COOKIE_SECURE", true)
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", "5432")
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "myshop")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("JWT_SECRET", "dev_secret_change_me")
	viper.SetDefault("JWT_ACCESS_EXPIRY", 15)
	viper.SetDefault("MAIL_PORT", "587")
	viper.SetDefault("MAIL_DEFAULT_SENDER", "no-reply@myshop.local")
	viper.SetDefault("CONTACT_INBOX", "support@myshop.local")
	viper.SetDefault("UPLOAD_DIR", "static/uploads")
	viper.SetDefault("UPLOAD_PATH", "/static/uploads")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:         viper.GetString("PORT"),
			Env:          viper.GetString("GO_ENV"),
			CookieSecure: viper.GetBool("COOKIE_SECURE"),
		},
		Database: DatabaseConfig{
			URL:      viper.GetString("DATABASE_URL"),
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetString("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			Database: viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			AccessExpiry: viper.GetInt("JWT_ACCESS_EXPIRY"),
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("MAIL_SERVER"),
			Port:     viper.GetString("MAIL_PORT"),
			Username: viper.GetString("MAIL_USERNAME"),
			Password: viper.GetString("MAIL_PASSWORD"),
			From:     viper.GetString("MAIL_DEFAULT_SENDER"),
		},
		Shop: ShopConfig{
			ContactInbox: viper.GetString("CONTACT_INBOX"),
			UploadDir:    viper.GetString("UPLOAD_DIR"),
			UploadPath:   viper.GetString("UPLOAD_PATH"),
		},
	}
}
