package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App         App         `mapstructure:",squash"`
	Server      Server      `mapstructure:",squash"`
	Database    Database    `mapstructure:",squash"`
	Cors        Cors        `mapstructure:",squash"`
	Report      Report      `mapstructure:",squash"`
	Meta        Meta        `mapstructure:",squash"`
	AdSpendSync AdSpendSync `mapstructure:",squash"`
	SecretKey   string      `mapstructure:"secret_key"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Env      string `mapstructure:"app_env"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN             string        `mapstructure:"-"`
	Driver          string        `mapstructure:"database_driver"`
	Password        string        `mapstructure:"database_password"`
	URL             string        `mapstructure:"database_url"`
	User            string        `mapstructure:"database_user"`
	MaxOpenConns    int           `mapstructure:"database_max_open_conns"`
	MaxIdleConns    int           `mapstructure:"database_max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"database_conn_max_lifetime"`
}

type Cors struct {
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// Report agrupa os parâmetros usados na montagem dos relatórios
type Report struct {
	AttributionLookbackDays int            `mapstructure:"report_attribution_lookback_days"`
	MXNToEURRate            float64        `mapstructure:"report_mxn_to_eur_rate"`
	FetchTimeout            time.Duration  `mapstructure:"report_fetch_timeout"`
	Timezone                string         `mapstructure:"report_timezone"`
	HistoryDays             int            `mapstructure:"report_history_days"`
	MaxWindowDays           int            `mapstructure:"report_max_window_days"`
	Location                *time.Location `mapstructure:"-"`
}

type Meta struct {
	BaseURL           string        `mapstructure:"meta_base_url"`
	URL               string        `mapstructure:"meta_url"`
	Version           string        `mapstructure:"meta_version"`
	AccessToken       string        `mapstructure:"meta_access_token"`
	AdAccountIDs      []string      `mapstructure:"meta_ad_account_ids"`
	RequestsPerSecond float64       `mapstructure:"meta_requests_per_second"`
	Timeout           time.Duration `mapstructure:"meta_timeout"`
}

type AdSpendSync struct {
	CronSchedule string `mapstructure:"meta_ad_spend_sync_cron"`
	LookbackDays int    `mapstructure:"meta_ad_spend_sync_lookback_days"`
	Enabled      bool   `mapstructure:"meta_ad_spend_sync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/retail_dashboard?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 20)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")

	viper.SetDefault("SECRET_KEY", "your_secret_key")

	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("REPORT_ATTRIBUTION_LOOKBACK_DAYS", 30)
	viper.SetDefault("REPORT_MXN_TO_EUR_RATE", 0.05)
	viper.SetDefault("REPORT_FETCH_TIMEOUT", "10s")
	viper.SetDefault("REPORT_TIMEZONE", "Europe/Madrid")
	viper.SetDefault("REPORT_HISTORY_DAYS", 365) // janela usada na média histórica
	viper.SetDefault("REPORT_MAX_WINDOW_DAYS", 731)

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_URL", "")
	viper.SetDefault("META_VERSION", "v22.0")
	viper.SetDefault("META_ACCESS_TOKEN", "your_access_token") // ONLY LOCAL
	viper.SetDefault("META_AD_ACCOUNT_IDS", "")
	viper.SetDefault("META_REQUESTS_PER_SECOND", 2)
	viper.SetDefault("META_TIMEOUT", "30s")

	viper.SetDefault("META_AD_SPEND_SYNC_CRON", "0 3 * * *") // Todos os dias às 3h da manhã
	viper.SetDefault("META_AD_SPEND_SYNC_LOOKBACK_DAYS", 7)
	viper.SetDefault("META_AD_SPEND_SYNC_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
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

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) normalize() error {
	if c.Meta.URL == "" {
		c.Meta.URL = fmt.Sprintf("%s/%s", strings.TrimRight(c.Meta.BaseURL, "/"), c.Meta.Version)
	}
	c.Meta.AdAccountIDs = compact(c.Meta.AdAccountIDs)
	c.Cors.AllowedOrigins = compact(c.Cors.AllowedOrigins)

	if c.Report.AttributionLookbackDays < 1 || c.Report.AttributionLookbackDays > 365 {
		return fmt.Errorf("REPORT_ATTRIBUTION_LOOKBACK_DAYS inválido: %d", c.Report.AttributionLookbackDays)
	}

	if c.Report.MaxWindowDays < 1 {
		return fmt.Errorf("REPORT_MAX_WINDOW_DAYS inválido: %d", c.Report.MaxWindowDays)
	}

	if c.Report.MXNToEURRate <= 0 {
		return fmt.Errorf("REPORT_MXN_TO_EUR_RATE deve ser positivo: %v", c.Report.MXNToEURRate)
	}

	location, err := time.LoadLocation(c.Report.Timezone)
	if err != nil {
		return fmt.Errorf("REPORT_TIMEZONE inválido: %w", err)
	}
	c.Report.Location = location

	c.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		c.Database.Driver,
		c.Database.User,
		c.Database.Password,
		c.Database.URL,
	)

	return nil
}

func compact(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value != "" {
			result = append(result, value)
		}
	}
	return result
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	// Obter diretório atual
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
