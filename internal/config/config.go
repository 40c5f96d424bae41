package config

import (
	"errors"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/spf13/viper"
)

var (
	// appConfig holds a *Config; readers take lock-free snapshots.
	appConfig atomic.Value
	configMu  sync.Mutex // write-side mutex
	configDir = "config"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Upload   UploadConfig   `mapstructure:"upload"`
	App      AppConfig      `mapstructure:"app"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
	// BaseURL is embedded in account-action links sent by mail.
	BaseURL string `mapstructure:"base_url"`
}

type DatabaseConfig struct {
	Type     string `mapstructure:"type"`     // sqlite, mysql, postgres
	Filename string `mapstructure:"filename"` // for sqlite
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSL      bool   `mapstructure:"ssl"`
}

type JWTConfig struct {
	Secret          string `mapstructure:"secret"`
	ExpirationHours int    `mapstructure:"expiration_hours"`
	// ActionTokenExpirationHours bounds confirm / reset-password /
	// change-email tokens.
	ActionTokenExpirationHours int `mapstructure:"action_token_expiration_hours"`
}

type UploadConfig struct {
	Path            string `mapstructure:"path"`
	URLPrefix       string `mapstructure:"url_prefix"`
	AvatarPath      string `mapstructure:"avatar_path"`
	AvatarURLPrefix string `mapstructure:"avatar_url_prefix"`
	PhotoSizeSmall  int    `mapstructure:"photo_size_small"`
	PhotoSizeMedium int    `mapstructure:"photo_size_medium"`
}

type AppConfig struct {
	// AdminEmail: registering with this email yields the Administrator role.
	AdminEmail          string `mapstructure:"admin_email"`
	PhotoPerPage        int    `mapstructure:"photo_per_page"`
	UserPerPage         int    `mapstructure:"user_per_page"`
	CommentPerPage      int    `mapstructure:"comment_per_page"`
	NotificationPerPage int    `mapstructure:"notification_per_page"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	SSL      bool   `mapstructure:"ssl"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// Get returns a snapshot of the current configuration.
func Get() Config {
	val := appConfig.Load()
	if val == nil {
		return Config{}
	}
	c, ok := val.(*Config)
	if !ok {
		return Config{}
	}
	return *c
}

func GetConfigDir() string {
	return configDir
}

func InitConfig(customConfigDir string) {
	v := initViper(customConfigDir)
	loadAndStore(v)
	enforceJWTSecretSafety()
	log.Println("configuration loaded")
}

func initViper(customConfigDir string) *viper.Viper {
	v := viper.New()

	customConfigDir = strings.TrimSpace(customConfigDir)
	if customConfigDir == "" {
		customConfigDir = "config"
	}
	configDir = customConfigDir

	v.AddConfigPath(configDir)
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.filename", "database/album.db")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "root")
	v.SetDefault("database.name", "album")
	v.SetDefault("database.ssl", false)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.action_token_expiration_hours", 1)
	v.SetDefault("upload.path", "uploads/photos")
	v.SetDefault("upload.url_prefix", "/uploads/")
	v.SetDefault("upload.avatar_path", "uploads/avatars")
	v.SetDefault("upload.avatar_url_prefix", "/avatars/")
	v.SetDefault("upload.photo_size_small", 400)
	v.SetDefault("upload.photo_size_medium", 800)
	v.SetDefault("app.admin_email", "")
	v.SetDefault("app.photo_per_page", 12)
	v.SetDefault("app.user_per_page", 12)
	v.SetDefault("app.comment_per_page", 12)
	v.SetDefault("app.notification_per_page", 12)
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.ssl", false)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "album")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			log.Println("no config file found, using environment variables and defaults")
		} else {
			log.Fatalf("failed to read config file: %v", err)
		}
	}

	// Environment overrides: server.port maps to ALBUM_SERVER_PORT.
	v.SetEnvPrefix("ALBUM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return v
}

// loadAndStore parses the viper state and atomically replaces the snapshot.
func loadAndStore(v *viper.Viper) {
	configMu.Lock()
	defer configMu.Unlock()

	var tempConfig Config
	if err := v.Unmarshal(&tempConfig); err != nil {
		log.Printf("failed to parse configuration: %v", err)
		return
	}

	if tempConfig.Server.Mode != "release" && tempConfig.JWT.Secret == "" {
		log.Println("warning: jwt.secret unset, using insecure development key")
		tempConfig.JWT.Secret = "album_dev_secret"
	}

	appConfig.Store(&tempConfig)
}

func enforceJWTSecretSafety() {
	curr := Get()
	if curr.Server.Mode == "release" {
		if curr.JWT.Secret == "" || curr.JWT.Secret == "album_dev_secret" {
			log.Fatal("release mode requires a secure jwt.secret (set ALBUM_JWT_SECRET or jwt.secret)")
		}
	}
}

// SetForTesting replaces the active configuration. Tests only.
func SetForTesting(cfg Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig.Store(&cfg)
}
