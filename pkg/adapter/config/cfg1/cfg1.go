// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cfg1 makes it possible to load configuration settings with
// version 1.x.y since all minor and patch versions (which are known)
// with the same major version, can be loaded with one implementation.
//
// The Config struct realizes the appuc.Builder interface (so the use
// cases may be instantiated and reloaded based on its settings) and
// the migrationuc.Settings interface (so the database may be
// initialized).
package cfg1

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/momeni/car-rental/pkg/adapter/auth/jwt"
	"github.com/momeni/car-rental/pkg/adapter/config/settings"
	"github.com/momeni/car-rental/pkg/adapter/config/vers"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres/migration"
	"github.com/momeni/car-rental/pkg/adapter/hash"
	"github.com/momeni/car-rental/pkg/adapter/mq/rabbitmq"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin"
	"github.com/momeni/car-rental/pkg/core/log"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/passwd"
	"github.com/momeni/car-rental/pkg/core/repo"
	"github.com/momeni/car-rental/pkg/core/usecase/carsuc"
	"github.com/momeni/car-rental/pkg/core/usecase/migrationuc"
	"github.com/momeni/car-rental/pkg/core/usecase/rentalsuc"
	"github.com/momeni/car-rental/pkg/core/usecase/usersuc"
	"gopkg.in/yaml.v3"
)

// These constants define the major, minor, and patch version of the
// configuration settings which are supported by the Config struct.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Version is the semantic version of Config struct.
var Version = model.SemVer{Major, Minor, Patch}

// Environment variables which override the configuration file.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvJWTSecret   = "CRWEB_JWT_SECRET"
)

// Config contains all settings which are required by different parts
// of the project following the v1.x.y format, such as adapters or
// use cases. It is preferred to implement Config with primitive fields
// or other structs which are defined locally, not models or structs
// which are defined in lower layers, so the configuration can be
// versioned and kept intact while other layers can change freely.
type Config struct {
	Database Database // PostgreSQL database connection settings
	Gin      Gin      // Gin-Gonic instantiation settings
	Auth     Auth     // Passwords and tokens settings
	Events   Events   // Optional rental events publication settings
	Admin    Admin    // Initial admin of a production database
	Usecases Usecases // Configuration settings for supported use cases

	// Vers contains the configuration file and database schema version
	// strings corresponding to this Config instance and its Database
	// target.
	Vers vers.Config `yaml:",inline"`
}

// Database contains the database related configuration settings.
// Either the URL or the Host, Port, Name, and PassDir fields must be
// given. The DATABASE_URL environment variable overrides both.
type Database struct {
	Host    string // domain name or IP address of the DBMS server
	Port    int    // port number of the DBMS server
	Name    string // database name, like crweb
	PassDir string `yaml:"pass-dir"` // path of the .pgpass file dir
	URL     string `yaml:"url,omitempty"`
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `c` settings.
func (c *Config) ConnectionPool(
	ctx context.Context, r repo.Role,
) (migrationuc.Pool, error) {
	p, err := c.Database.ConnectionPool(ctx, r)
	if err != nil {
		return nil, fmt.Errorf(
			"connecting to %q database: %w", c.Database.Name, err,
		)
	}
	return p, nil
}

// SchemaInitializer creates a repo.SchemaInitializer instance which
// wraps the given transaction argument and can be used to initialize
// the database with development or production suitable data. All table
// creation and data insertion operations will be performed in the
// given transaction and will be persisted only if that transaction
// could commit successfully.
func (c *Config) SchemaInitializer(tx repo.Tx) (
	repo.SchemaInitializer, error,
) {
	if sv := c.SchemaVersion(); sv != postgres.Version {
		return nil, fmt.Errorf(
			"unsupported database schema version: %s", sv,
		)
	}
	return migration.New(tx), nil
}

// SchemaVersion returns the semantic version of the database schema
// which its connection information are kept by this Config struct.
func (c *Config) SchemaVersion() model.SemVer {
	return c.Vers.Versions.Database
}

// ProdAdmin returns the initial admin account of a production database.
// Its password is read from the c.Admin.PassFile file.
func (c *Config) ProdAdmin() (name, email, password string, err error) {
	return c.Admin.Credentials()
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `d` settings.
// If d.URL is empty, the .pgpass file in the d.PassDir folder is
// consulted which should conform with the pgpass format:
//
//	host:port:dbname:role:password
func (d Database) ConnectionPool(
	ctx context.Context, r repo.Role,
) (*postgres.Pool, error) {
	u := d.URL
	if u == "" {
		path := filepath.Join(d.PassDir, ".pgpass")
		var err error
		u, err = d.ConnectionURL(r, path)
		if err != nil {
			return nil, fmt.Errorf("using %q pass-file: %w", path, err)
		}
	}
	p, err := postgres.NewPool(ctx, u)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ConnectionURL returns the database connection URL embedding the host,
// port, role name, database name, and password value. These items are
// directly taken from the `d` settings, but the role name which is
// specified by the `r` argument and the password value which is read
// from the given `path` file. Returned URL has the postgresql scheme.
// The `path` file may contain empty or `#`-commented lines in addition
// to the password specifying lines.
func (d Database) ConnectionURL(
	r repo.Role, path string,
) (string, error) {
	passLines, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	prfx := fmt.Sprintf("%s:%d:%s:%s:", d.Host, d.Port, d.Name, r)
	var pass string
	for _, line := range strings.Split(string(passLines), "\n") {
		if line == "" || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, prfx) {
			pass = line[len(prfx):]
			break
		}
	}
	if pass == "" {
		return "", fmt.Errorf("no matching password line")
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(string(r), pass),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	return u.String(), nil
}

// ValidateAndNormalize validates the database settings and returns an
// error if they were not acceptable.
func (d *Database) ValidateAndNormalize() error {
	if u := os.Getenv(EnvDatabaseURL); u != "" {
		d.URL = u
	}
	if d.URL != "" {
		if _, err := url.Parse(d.URL); err != nil {
			return fmt.Errorf("parsing database url: %w", err)
		}
		return nil
	}
	switch {
	case d.Host == "":
		return fmt.Errorf("database host is empty")
	case d.Port <= 0 || d.Port > 65535:
		return fmt.Errorf("database port (%d) is invalid", d.Port)
	case d.Name == "":
		return fmt.Errorf("database name is empty")
	}
	return nil
}

// Gin contains the gin-gonic related configuration settings.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized.
type Gin struct {
	Logger   *bool // Whether to log the requests
	Recovery *bool // Whether to recover from the handlers panics

	// CORSOrigins lists the origins of the single-page front end.
	// An empty list disables CORS and "*" allows all origins.
	CORSOrigins []string `yaml:"cors-origins,omitempty"`
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings. Requests and panics are logged by the default
// slog logger.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 3)
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger(slog.Default()))
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery(slog.Default()))
	}
	if len(g.CORSOrigins) > 0 {
		middlewares = append(middlewares, gin.CORS(g.CORSOrigins))
	}
	return gin.New(middlewares...)
}

// Auth contains the authentication related settings.
type Auth struct {
	// JWTSecret signs the tokens. The CRWEB_JWT_SECRET environment
	// variable overrides it.
	JWTSecret string `yaml:"jwt-secret"`

	// TokenTTL is the lifetime of tokens, 24h by default.
	TokenTTL *settings.Duration `yaml:"token-ttl"`

	// PasswordHash is one of scram-sha-256 (default), scram-sha-1,
	// or bcrypt. Stored hashes of other methods remain verifiable.
	PasswordHash string `yaml:"password-hash,omitempty"`

	hasher *hash.Dispatcher `yaml:"-"`
	tokens *jwt.Tokens      `yaml:"-"`
}

// ValidateAndNormalize validates the auth settings and instantiates
// the password hasher and token issuer.
func (a *Auth) ValidateAndNormalize() error {
	if s := os.Getenv(EnvJWTSecret); s != "" {
		a.JWTSecret = s
	}
	settings.Default(&a.TokenTTL, settings.Duration(24*time.Hour))
	h, err := hash.New(a.PasswordHash)
	if err != nil {
		return err
	}
	t, err := jwt.New(a.JWTSecret, a.TokenTTL.Std())
	if err != nil {
		return err
	}
	a.hasher, a.tokens = h, t
	return nil
}

// Tokens returns the token issuer and parser. ValidateAndNormalize
// must be called beforehand.
func (c *Config) Tokens() *jwt.Tokens {
	return c.Auth.tokens
}

// Hasher returns the password hasher. ValidateAndNormalize must be
// called beforehand.
func (c *Config) Hasher() passwd.Hasher {
	return c.Auth.hasher
}

// Events contains the rental events publication settings.
// Events are only logged if AMQPURL is empty.
type Events struct {
	AMQPURL  string `yaml:"amqp-url,omitempty"`
	Exchange string `yaml:"exchange,omitempty"`

	// ConnectAttempts is the number of broker connection attempts.
	ConnectAttempts *int `yaml:"connect-attempts,omitempty"`
}

// Publisher is a rentalsuc.Notifier which must be closed eventually.
type Publisher interface {
	rentalsuc.Notifier
	Close() error
}

// NewPublisher connects to the configured message broker. It returns
// a nil Publisher if no broker is configured.
func (e Events) NewPublisher(ctx context.Context) (Publisher, error) {
	if e.AMQPURL == "" {
		return nil, nil
	}
	attempts := 10
	if e.ConnectAttempts != nil {
		attempts = *e.ConnectAttempts
	}
	p, err := rabbitmq.New(ctx, e.AMQPURL, e.Exchange, attempts)
	if err != nil {
		return nil, fmt.Errorf("connecting to message broker: %w", err)
	}
	return p, nil
}

// Admin describes the initial admin account of a production database.
type Admin struct {
	Name     string
	Email    string
	PassFile string `yaml:"pass-file"` // file containing the password
}

// Credentials returns the admin name, email, and password (the first
// line of the a.PassFile file).
func (a Admin) Credentials() (name, email, password string, err error) {
	if a.Email == "" || a.PassFile == "" {
		return "", "", "", fmt.Errorf("admin email and pass-file are required")
	}
	b, err := os.ReadFile(a.PassFile)
	if err != nil {
		return "", "", "", fmt.Errorf("reading admin pass-file: %w", err)
	}
	password, _, _ = strings.Cut(string(b), "\n")
	password = strings.TrimSpace(password)
	if password == "" {
		return "", "", "", fmt.Errorf("admin pass-file is empty")
	}
	name = a.Name
	if name == "" {
		name = "Admin"
	}
	return name, a.Email, password, nil
}

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Rentals Rentals
	Cars    Cars
	Users   Users
}

// Rentals contains the configuration settings for the rentals use
// cases. A nil value asks the use cases layer to select a default.
type Rentals struct {
	// PriceTolerance is the maximum accepted distance between the
	// client and server computed total prices of a booking.
	PriceTolerance *float64 `yaml:"price-tolerance"`
	// MinPriceTolerance and MaxPriceTolerance are the inclusive
	// boundaries of the PriceTolerance setting, if non-nil.
	MinPriceTolerance *float64 `yaml:"price-tolerance-minimum"`
	MaxPriceTolerance *float64 `yaml:"price-tolerance-maximum"`

	// MaxRentalDays limits the length of each rental.
	MaxRentalDays *int `yaml:"max-rental-days"`
}

// NewUseCase instantiates a new rentals use case based on the settings
// in the `r` struct. A nil `n` keeps the default logging notifier.
func (r Rentals) NewUseCase(
	p repo.Pool, c repo.Cars, rr repo.Rentals, n rentalsuc.Notifier,
) (*rentalsuc.UseCase, error) {
	opts := make([]rentalsuc.Option, 0, 3)
	if r.PriceTolerance != nil {
		opts = append(opts, rentalsuc.WithPriceTolerance(*r.PriceTolerance))
	}
	if r.MaxRentalDays != nil {
		opts = append(opts, rentalsuc.WithMaxRentalDays(*r.MaxRentalDays))
	}
	if n != nil {
		opts = append(opts, rentalsuc.WithNotifier(n))
	}
	return rentalsuc.New(p, c, rr, opts...)
}

// Cars contains the configuration settings for the cars use cases.
type Cars struct {
	// PopularLimit is the default number of popular cars.
	PopularLimit *int `yaml:"popular-limit"`
}

// NewUseCase instantiates a new cars use case based on the settings
// in the `c` struct.
func (c Cars) NewUseCase(
	p repo.Pool, r repo.Cars,
) (*carsuc.UseCase, error) {
	opts := make([]carsuc.Option, 0, 1)
	if c.PopularLimit != nil {
		opts = append(opts, carsuc.WithPopularLimit(*c.PopularLimit))
	}
	return carsuc.New(p, r, opts...)
}

// Users contains the configuration settings for the users use cases.
type Users struct {
	MinPasswordLength *int `yaml:"min-password-length"`
}

// NewUseCase instantiates a new users use case based on the settings
// in the `u` struct.
func (u Users) NewUseCase(
	p repo.Pool, r repo.Users, h passwd.Hasher, t usersuc.TokenIssuer,
) (*usersuc.UseCase, error) {
	opts := make([]usersuc.Option, 0, 1)
	if u.MinPasswordLength != nil {
		opts = append(opts, usersuc.WithMinPasswordLength(*u.MinPasswordLength))
	}
	return usersuc.New(p, r, h, t, opts...)
}

// NewCarsUseCase realizes the appuc.Builder interface.
func (c *Config) NewCarsUseCase(
	p repo.Pool, r repo.Cars,
) (*carsuc.UseCase, error) {
	return c.Usecases.Cars.NewUseCase(p, r)
}

// NewRentalsUseCase realizes the appuc.Builder interface.
func (c *Config) NewRentalsUseCase(
	p repo.Pool, cars repo.Cars, r repo.Rentals, n rentalsuc.Notifier,
) (*rentalsuc.UseCase, error) {
	return c.Usecases.Rentals.NewUseCase(p, cars, r, n)
}

// NewUsersUseCase realizes the appuc.Builder interface.
func (c *Config) NewUsersUseCase(
	p repo.Pool, u repo.Users,
) (*usersuc.UseCase, error) {
	return c.Usecases.Users.NewUseCase(p, u, c.Auth.hasher, c.Auth.tokens)
}

// ImmutableSettings reports the settings which are fixed for each
// execution and are visible to the web clients.
func (c *Config) ImmutableSettings() *model.ImmutableSettings {
	return &model.ImmutableSettings{
		// The nil-dereference is not possible after a successful
		// ValidateAndNormalize call.
		Logger:   *c.Gin.Logger,
		TokenTTL: c.Auth.TokenTTL.Std(),
	}
}

// Load unmarshals the data byte slice and loads a Config instance
// assuming that it contains the Config settings. Extra items in the
// data will be ignored and missing items will take their default
// values. Thereafter, the environment variables overrides are applied
// and the loaded Config will be validated and normalized.
func Load(data []byte) (*Config, error) {
	n := &yaml.Node{}
	if err := yaml.Unmarshal(data, n); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if l := len(n.Content); l != 1 {
		return nil, fmt.Errorf(
			"found %d children nodes, instead of 1 mapping child", l,
		)
	}
	c := &Config{}
	if err := n.Decode(c); err != nil {
		return nil, fmt.Errorf("decoding yaml node: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	if err := c.Vers.Validate(Major, Minor); err != nil {
		return fmt.Errorf(
			"expecting version v%d.%d: %w", Major, Minor, err,
		)
	}
	settings.Default(&c.Gin.Logger, true)
	settings.Default(&c.Gin.Recovery, true)
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating database settings: %w", err)
	}
	if err := c.Auth.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating auth settings: %w", err)
	}
	r := &c.Usecases.Rentals
	if err := settings.VerifyRange(
		&r.PriceTolerance, r.MinPriceTolerance, r.MaxPriceTolerance,
	); err != nil {
		return fmt.Errorf("verifying rentals price tolerance: %w", err)
	}
	if a := c.Events.ConnectAttempts; a != nil && *a < 1 {
		return fmt.Errorf("events connect-attempts (%d) is not positive", *a)
	}
	if c.Events.AMQPURL == "" && c.Events.Exchange != "" {
		log.Warn(
			context.Background(),
			"events exchange is ignored without an amqp-url",
			slog.String("exchange", c.Events.Exchange),
		)
	}
	return nil
}

// Version returns the semantic version of this Config struct contents
// which its major version is equal to 1.
func (c *Config) Version() model.SemVer {
	return c.Vers.Versions.Config
}
