package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App           App           `mapstructure:",squash"`
	Server        Server        `mapstructure:",squash"`
	Database      Database      `mapstructure:",squash"`
	Meta          Meta          `mapstructure:",squash"`
	Google        Google        `mapstructure:",squash"`
	TikTok        TikTok        `mapstructure:",squash"`
	Auth          Auth          `mapstructure:",squash"`
	PlatformSync  PlatformSync  `mapstructure:",squash"`
	PauseDetector PauseDetector `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Meta struct {
	BaseURL     string `mapstructure:"meta_base_url"`
	Version     string `mapstructure:"meta_version"`
	URL         string `mapstructure:"-"`
	AccessToken string `mapstructure:"meta_access_token"`
	AccountID   string `mapstructure:"meta_account_id"`
}

type Google struct {
	URL            string `mapstructure:"google_ads_url"`
	DeveloperToken string `mapstructure:"google_ads_developer_token"`
	AccessToken    string `mapstructure:"google_ads_access_token"`
	CustomerID     string `mapstructure:"google_ads_customer_id"`
}

type TikTok struct {
	URL          string `mapstructure:"tiktok_ads_url"`
	AccessToken  string `mapstructure:"tiktok_ads_access_token"`
	AdvertiserID string `mapstructure:"tiktok_ads_advertiser_id"`
}

type Auth struct {
	Secret          string        `mapstructure:"auth_secret"`
	TokenExpiration time.Duration `mapstructure:"auth_token_expiration"`
}

// PlatformSync configura o agendador de sincronização por plataforma
type PlatformSync struct {
	CronSchedule        string        `mapstructure:"platform_sync_cron"`
	Enabled             bool          `mapstructure:"platform_sync_enabled"`
	FetchTimeout        time.Duration `mapstructure:"platform_sync_fetch_timeout"`
	RequestDelaySeconds int           `mapstructure:"platform_sync_request_delay_seconds"`
	MetaEnabled         bool          `mapstructure:"platform_sync_meta_enabled"`
	GoogleEnabled       bool          `mapstructure:"platform_sync_google_enabled"`
	TikTokEnabled       bool          `mapstructure:"platform_sync_tiktok_enabled"`
}

// PauseDetector configura o detector automático de entidades pausadas
type PauseDetector struct {
	CronSchedule string `mapstructure:"pause_detector_cron"`
	Enabled      bool   `mapstructure:"pause_detector_enabled"`
}

func SetDefaults() {
	viper.SetDefault("LOG_LEVEL", "debug")

	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/ad_performance")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v22.0")
	viper.SetDefault("META_ACCESS_TOKEN", "your_access_token") // ONLY LOCAL
	viper.SetDefault("META_ACCOUNT_ID", "")

	viper.SetDefault("GOOGLE_ADS_URL", "https://googleads.googleapis.com/v17")
	viper.SetDefault("GOOGLE_ADS_DEVELOPER_TOKEN", "")
	viper.SetDefault("GOOGLE_ADS_ACCESS_TOKEN", "")
	viper.SetDefault("GOOGLE_ADS_CUSTOMER_ID", "")

	viper.SetDefault("TIKTOK_ADS_URL", "https://business-api.tiktok.com/open_api/v1.3")
	viper.SetDefault("TIKTOK_ADS_ACCESS_TOKEN", "")
	viper.SetDefault("TIKTOK_ADS_ADVERTISER_ID", "")

	viper.SetDefault("AUTH_SECRET", "your_auth_secret")
	viper.SetDefault("AUTH_TOKEN_EXPIRATION", "24h")

	// Sincronização diária às 3h, janela rolante de 14 dias
	viper.SetDefault("PLATFORM_SYNC_CRON", "0 3 * * *")
	viper.SetDefault("PLATFORM_SYNC_ENABLED", false)
	viper.SetDefault("PLATFORM_SYNC_FETCH_TIMEOUT", "2m")
	viper.SetDefault("PLATFORM_SYNC_REQUEST_DELAY_SECONDS", 2)
	viper.SetDefault("PLATFORM_SYNC_META_ENABLED", true)
	viper.SetDefault("PLATFORM_SYNC_GOOGLE_ENABLED", false)
	viper.SetDefault("PLATFORM_SYNC_TIKTOK_ENABLED", false)

	viper.SetDefault("PAUSE_DETECTOR_CRON", "30 */6 * * *")
	viper.SetDefault("PAUSE_DETECTOR_ENABLED", false)
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Meta.URL = fmt.Sprintf("%s/%s", config.Meta.BaseURL, config.Meta.Version)

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// loadEnvFile carrega o arquivo .env usando godotenv, procurando em diretórios conhecidos
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado de:", location)
			return
		}
	}

	logrus.Info("Nenhum arquivo .env encontrado, usando variáveis de ambiente")
}
