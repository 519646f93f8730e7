package core

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kat-co/vala"
	"github.com/spf13/viper"
)

type (
	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		DisableTLS    bool

		// AutoCreateSchema creates the database and runs migrations at startup.
		AutoCreateSchema bool
	}

	ServerConfig struct {
		Host            string
		Addr            string
		JWTAlgorithm    string
		JWTExpiration   time.Duration
		CookieName      string
		CookieSecure    bool
		CookieSameSite  string // lax | strict | none
		CORSOrigins     []string
		ShutdownTimeout time.Duration
	}

	Config struct {
		Env              string
		Debug            bool
		TestMode         bool
		AppName          string
		Build            string
		SecretKey        string
		FrontendBaseURL  string
		DefaultFromEmail string
		SendgridAPIKey   string
		RollbarToken     string
		Server           ServerConfig
		Database         DatabaseConfig
	}
)

// LoadConfig builds the application configuration from defaults, an optional
// `config/.env.<env>` file and environment variables. It is called once at
// process start; the resulting struct is passed explicitly to every component
// that needs it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Universidad Digital")
	v.SetDefault("secretKey", "")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("jwtAlgorithm", "HS256")
	v.SetDefault("jwtExpiration", 60*time.Minute)
	v.SetDefault("cookieName", "access_token")
	v.SetDefault("cookieSecure", false)
	v.SetDefault("cookieSameSite", "lax")
	v.SetDefault("corsOrigins", []string{})
	v.SetDefault("shutdownTimeout", 5*time.Second)
	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbName", "universidad")
	v.SetDefault("dbUser", "postgres")
	v.SetDefault("dbPassword", "")
	v.SetDefault("dbAdminUser", "")
	v.SetDefault("dbAdminPassword", "")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", "5432")
	v.SetDefault("dbDisableTLS", true)
	v.SetDefault("dbAutoCreateSchema", true)

	env := os.Getenv("ENV") // DEV (default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, fmt.Errorf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:              env,
		Debug:            v.GetBool("debug"),
		TestMode:         env == "TEST",
		AppName:          v.GetString("appName"),
		Build:            v.GetString("build"),
		SecretKey:        v.GetString("secretKey"),
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		DefaultFromEmail: v.GetString("defaultFromEmail"),
		SendgridAPIKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            v.GetString("serverHost"),
			Addr:            v.GetString("serverAddr"),
			JWTAlgorithm:    v.GetString("jwtAlgorithm"),
			JWTExpiration:   v.GetDuration("jwtExpiration"),
			CookieName:      v.GetString("cookieName"),
			CookieSecure:    v.GetBool("cookieSecure"),
			CookieSameSite:  strings.ToLower(v.GetString("cookieSameSite")),
			CORSOrigins:     v.GetStringSlice("corsOrigins"),
			ShutdownTimeout: v.GetDuration("shutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:           v.GetString("dbEngine"),
			Name:             v.GetString("dbName"),
			User:             v.GetString("dbUser"),
			Password:         v.GetString("dbPassword"),
			AdminUser:        v.GetString("dbAdminUser"),
			AdminPassword:    v.GetString("dbAdminPassword"),
			Host:             v.GetString("dbHost"),
			Port:             v.GetString("dbPort"),
			DisableTLS:       v.GetBool("dbDisableTLS"),
			AutoCreateSchema: v.GetBool("dbAutoCreateSchema"),
		},
	}

	if conf.IsProduction() {
		conf.Server.CookieSecure = v.GetBool("cookieSecure")
		if err := conf.checkProduction(); err != nil {
			return nil, err
		}
	}
	return conf, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "PROD") || strings.EqualFold(c.Env, "PRODUCTION")
}

// checkProduction enforces the settings that must not be left at their
// development defaults when running in production.
func (c *Config) checkProduction() error {
	return vala.BeginValidation().Validate(
		vala.StringNotEmpty(c.SecretKey, "secretKey"),
		stringSliceNotEmpty(c.Server.CORSOrigins, "corsOrigins"),
		boolIsTrue(c.Server.CookieSecure, "cookieSecure"),
	).Check()
}

func stringSliceNotEmpty(val []string, name string) vala.Checker {
	return func() (bool, string) {
		return len(val) > 0, name + " must not be empty in production"
	}
}

func boolIsTrue(val bool, name string) vala.Checker {
	return func() (bool, string) {
		return val, name + " must be true in production"
	}
}

func (db DatabaseConfig) Address() string {
	return db.Host + ":" + db.Port
}

// URL builds the database connection string. asAdmin switches to the admin
// credentials when configured (database/role creation).
func (db DatabaseConfig) URL(dbName string, asAdmin bool) string {
	usr := url.UserPassword(db.User, db.Password)
	if asAdmin && db.AdminUser != "" {
		usr = url.UserPassword(db.AdminUser, db.AdminPassword)
	}

	sslMode := "require"
	if db.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   db.Engine,
		User:     usr,
		Host:     db.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return u.String()
}
