// Package config loads the server's HCL configuration file.
package config

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/hashicorp-forge/quill/pkg/storage"
)

// Config is the top-level configuration.
type Config struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string `hcl:"listen_addr,optional"`

	// BaseURL is the externally visible base URL, used to build public
	// asset URLs and the editor connection descriptor.
	BaseURL string `hcl:"base_url,optional"`

	// TokenSecret signs action tokens. At least 16 bytes.
	TokenSecret string `hcl:"token_secret"`

	// TokenTTL bounds token lifetime ("1h", "30m"). Empty means tokens
	// live as long as the session that holds them.
	TokenTTL string `hcl:"token_ttl,optional"`

	Editor   *Editor   `hcl:"editor,block"`
	Storage  *Storage  `hcl:"storage,block"`
	Database *Database `hcl:"database,block"`
}

// Editor holds the editor-facing settings the host would normally manage
// through its settings form.
type Editor struct {
	// AutoloadElements lists web component tag names the editor loads on
	// startup.
	AutoloadElements []string `hcl:"autoload_elements,optional"`

	// OffsetLeft nudges the editor context menu for theme compatibility,
	// in pixels.
	OffsetLeft int `hcl:"offset_left,optional"`

	// AppKeys maps built-in app keys (youtube, vimeo, ...) to API keys.
	AppKeys map[string]string `hcl:"app_keys,optional"`
}

// Storage configures the asset backends.
type Storage struct {
	// PublicDir is the root of the public file backend, served under
	// /files/.
	PublicDir string `hcl:"public_dir,optional"`

	// PrivateDir is the root of the private file backend.
	PrivateDir string `hcl:"private_dir,optional"`

	// S3 optionally adds an S3-compatible backend.
	S3 *storage.S3Config `hcl:"s3,block"`
}

// Database selects and configures the database.
type Database struct {
	// Driver is "sqlite" or "postgres".
	Driver string `hcl:"driver,optional"`

	// Path is the SQLite database file.
	Path string `hcl:"path,optional"`

	// PostgreSQL settings.
	Host     string `hcl:"host,optional"`
	Port     int    `hcl:"port,optional"`
	User     string `hcl:"user,optional"`
	Password string `hcl:"password,optional"`
	DBName   string `hcl:"dbname,optional"`
}

// NewConfig parses the config file at path and applies defaults.
func NewConfig(path string) (*Config, error) {
	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// SetDefaults fills in defaults for optional fields.
func (c *Config) SetDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = "127.0.0.1:8000"
	}
	if c.BaseURL == "" {
		c.BaseURL = "http://" + c.ListenAddr
	}
	if c.Editor == nil {
		c.Editor = &Editor{}
	}
	if c.Storage == nil {
		c.Storage = &Storage{}
	}
	if c.Storage.PublicDir == "" {
		c.Storage.PublicDir = "./data/files/public"
	}
	if c.Storage.PrivateDir == "" {
		c.Storage.PrivateDir = "./data/files/private"
	}
	if c.Database == nil {
		c.Database = &Database{}
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = "./data/quill.db"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.TokenSecret, validation.Required, validation.Length(16, 0)),
	); err != nil {
		return err
	}
	if err := validation.ValidateStruct(c.Database,
		validation.Field(&c.Database.Driver, validation.Required,
			validation.In("sqlite", "postgres")),
	); err != nil {
		return err
	}
	if c.TokenTTL != "" {
		if _, err := time.ParseDuration(c.TokenTTL); err != nil {
			return fmt.Errorf("invalid token_ttl: %w", err)
		}
	}
	if c.Storage.S3 != nil {
		if err := c.Storage.S3.Validate(); err != nil {
			return fmt.Errorf("invalid s3 block: %w", err)
		}
	}
	return nil
}

// TokenLifetime returns the parsed token TTL, zero when unset.
func (c *Config) TokenLifetime() time.Duration {
	if c.TokenTTL == "" {
		return 0
	}
	d, err := time.ParseDuration(c.TokenTTL)
	if err != nil {
		return 0
	}
	return d
}
