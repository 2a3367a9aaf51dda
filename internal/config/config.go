package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App                App                `mapstructure:",squash"`
	Server             Server             `mapstructure:",squash"`
	Database           Database           `mapstructure:",squash"`
	Redis              Redis              `mapstructure:",squash"`
	Upload             Upload             `mapstructure:",squash"`
	ReportSnapshotSync ReportSnapshotSync `mapstructure:",squash"`
	SecretKey          string             `mapstructure:"secret_key"`
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

type Redis struct {
	Addr            string `mapstructure:"redis_addr"`
	Password        string `mapstructure:"redis_password"`
	DB              int    `mapstructure:"redis_db"`
	Enabled         bool   `mapstructure:"redis_enabled"`
	ReportTTLSecond int    `mapstructure:"redis_report_ttl_seconds"`
}

type Upload struct {
	Dir string `mapstructure:"upload_dir"`
}

type ReportSnapshotSync struct {
	CronSchedule string `mapstructure:"report_snapshot_sync_cron"`
	LookbackDays int    `mapstructure:"report_snapshot_sync_lookback_days"`
	Enabled      bool   `mapstructure:"report_snapshot_sync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/grafica?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_REPORT_TTL_SECONDS", 300)

	viper.SetDefault("UPLOAD_DIR", "uploads")

	viper.SetDefault("SECRET_KEY", "your_secret_key")

	// Defaults do agendador de snapshots de relatório
	viper.SetDefault("REPORT_SNAPSHOT_SYNC_CRON", "0 3 * * *") // Todos os dias às 3h da manhã
	viper.SetDefault("REPORT_SNAPSHOT_SYNC_LOOKBACK_DAYS", 7)
	viper.SetDefault("REPORT_SNAPSHOT_SYNC_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile()

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

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// loadEnvFile carrega o arquivo .env procurando em localizações conhecidas
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
