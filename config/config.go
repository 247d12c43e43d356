package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Поддерживаемые драйверы базы данных
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config представляет конфигурацию приложения
type Config struct {
	Server struct {
		Port      int
		AdminPort int
	}
	DB struct {
		Driver         string
		Host           string
		Port           int
		User           string
		Password       string
		Name           string
		SSLMode        string
		Path           string // путь к файлу sqlite
		MigrationsPath string
	}
	Log struct {
		Dir string // пустая строка означает вывод в stdout/stderr
		SQL bool
	}
	RateLimit struct {
		Requests int
		Window   time.Duration
	}
}

// NewConfig создает новый экземпляр конфигурации.
// Порядок приоритета: переменные окружения, файл из CONFIG_FILE, значения по умолчанию.
func NewConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("ошибка чтения файла конфигурации %s: %w", path, err)
		}
	}

	cfg := &Config{}

	// Настройки серверов
	cfg.Server.Port = v.GetInt("server.port")
	cfg.Server.AdminPort = v.GetInt("admin.port")

	// Настройки базы данных
	cfg.DB.Driver = strings.ToLower(v.GetString("db.driver"))
	cfg.DB.Host = v.GetString("db.host")
	cfg.DB.Port = v.GetInt("db.port")
	cfg.DB.User = v.GetString("db.user")
	cfg.DB.Password = v.GetString("db.password")
	cfg.DB.Name = v.GetString("db.name")
	cfg.DB.SSLMode = v.GetString("db.sslmode")
	cfg.DB.Path = v.GetString("db.path")
	cfg.DB.MigrationsPath = v.GetString("migrations.path")

	// Настройки логирования
	cfg.Log.Dir = v.GetString("log.dir")
	cfg.Log.SQL = v.GetBool("log.sql")

	// Ограничение частоты запросов
	cfg.RateLimit.Requests = v.GetInt("rate_limit.requests")
	cfg.RateLimit.Window = v.GetDuration("rate_limit.window")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults задает значения по умолчанию
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("admin.port", 9090)

	v.SetDefault("db.driver", DriverPostgres)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "payments_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.path", "payments.db")
	v.SetDefault("migrations.path", "file://migrations")

	v.SetDefault("log.dir", "")
	v.SetDefault("log.sql", false)

	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", time.Minute)
}

func (c *Config) validate() error {
	if !validPort(c.Server.Port) {
		return fmt.Errorf("неверный формат порта сервера: %d", c.Server.Port)
	}
	if !validPort(c.Server.AdminPort) {
		return fmt.Errorf("неверный формат порта администрирования: %d", c.Server.AdminPort)
	}
	if c.Server.Port == c.Server.AdminPort {
		return fmt.Errorf("порт сервера и порт администрирования совпадают: %d", c.Server.Port)
	}

	switch c.DB.Driver {
	case DriverPostgres:
		if !validPort(c.DB.Port) {
			return fmt.Errorf("неверный формат порта базы данных: %d", c.DB.Port)
		}
	case DriverSQLite:
		if c.DB.Path == "" {
			return fmt.Errorf("не задан путь к файлу sqlite")
		}
	default:
		return fmt.Errorf("неизвестный драйвер базы данных: %q", c.DB.Driver)
	}

	if c.RateLimit.Requests <= 0 {
		return fmt.Errorf("лимит запросов должен быть больше 0: %d", c.RateLimit.Requests)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("окно лимита запросов должно быть больше 0: %v", c.RateLimit.Window)
	}

	return nil
}

// PostgresDSN возвращает строку подключения для драйвера gorm
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

// PostgresURL возвращает URL подключения для миграций
func (c *Config) PostgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DB.User, c.DB.Password),
		Host:     c.DB.Host + ":" + strconv.Itoa(c.DB.Port),
		Path:     "/" + c.DB.Name,
		RawQuery: url.Values{"sslmode": {c.DB.SSLMode}}.Encode(),
	}
	return u.String()
}

func validPort(port int) bool {
	return port > 0 && port <= 65535
}
