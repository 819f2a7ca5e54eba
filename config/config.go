package config

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/iedon/eyebrow-go/document"
)

// Config encapsulates runtime and build-time options.
type Config struct {
	Listen            string   `json:"listen"`
	TLSListen         string   `json:"tlsListen"`
	EnableTLS         bool     `json:"enableTLS"`
	TLSCert           string   `json:"tlsCert"`
	TLSKey            string   `json:"tlsKey"`
	ContentDir        string   `json:"contentDir"`
	TemplateDir       string   `json:"templateDir"`
	PartialsDir       string   `json:"partialsDir"`
	ThemeDir          string   `json:"themeDir"`
	GzipDir           string   `json:"gzipDir"`
	GzipCORSDir       string   `json:"gzipCorsDir"`
	CORSDir           string   `json:"corsDir"`
	OutputDir         string   `json:"outputDir"`
	TemplateExt       string   `json:"templateExt"`
	DocumentExt       string   `json:"documentExt"`
	IndexDoc          string   `json:"indexDoc"`
	Regions           []string `json:"regions"`
	HeadingOffset     *int     `json:"headingOffset"`
	Sanitize          bool     `json:"sanitize"`
	Minify            bool     `json:"minify"`
	Compress          bool     `json:"compress"`
	CanonicalRedirect bool     `json:"canonicalRedirect"`
	LogLevel          string   `json:"logLevel"`
	Debug             bool     `json:"debug"`
}

// Load reads configuration from disk and applies sane defaults.
func Load(path string) (*Config, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(bytes, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	_ = cfg.applyDefaults()
	return cfg
}

// Finalize applies defaults and validates. Call it again after overriding fields.
func (c *Config) Finalize() error {
	if err := c.applyDefaults(); err != nil {
		return err
	}
	return c.validate()
}

func (c *Config) applyDefaults() error {
	c.Listen = strings.TrimSpace(c.Listen)
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	c.TLSListen = strings.TrimSpace(c.TLSListen)
	if c.TLSListen == "" {
		c.TLSListen = ":8443"
	}
	if c.ContentDir == "" {
		c.ContentDir = "./content"
	}
	if c.TemplateDir == "" {
		c.TemplateDir = "./templates"
	}
	if c.PartialsDir == "" {
		c.PartialsDir = filepath.Join(c.TemplateDir, "partials")
	}
	if c.OutputDir == "" {
		c.OutputDir = "./dist"
	}
	if c.TemplateExt == "" {
		c.TemplateExt = ".mustache"
	}
	c.IndexDoc = strings.TrimSpace(c.IndexDoc)
	if c.IndexDoc == "" {
		c.IndexDoc = "index"
	}
	if len(c.Regions) == 0 {
		c.Regions = []string{"content"}
	}
	for i, region := range c.Regions {
		c.Regions[i] = strings.TrimSpace(region)
	}
	if c.HeadingOffset == nil {
		offset := 1
		c.HeadingOffset = &offset
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return nil
}

func (c *Config) validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Listen, validation.Required, validation.By(hostPort)),
		validation.Field(&c.TLSListen, validation.Required, validation.By(hostPort)),
		validation.Field(&c.TLSCert, validation.When(c.EnableTLS, validation.Required)),
		validation.Field(&c.TLSKey, validation.When(c.EnableTLS, validation.Required)),
		validation.Field(&c.ContentDir, validation.Required),
		validation.Field(&c.TemplateDir, validation.Required),
		validation.Field(&c.Regions, validation.Required, validation.Each(
			validation.Required,
			validation.By(notReservedRegion),
		)),
		validation.Field(&c.HeadingOffset, validation.Min(0), validation.Max(5)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if strings.ContainsAny(c.IndexDoc, `/\`) {
		return fmt.Errorf("invalid config: indexDoc must be a file name")
	}
	return nil
}

// Offset returns the configured heading offset.
func (c *Config) Offset() int {
	if c.HeadingOffset == nil {
		return 0
	}
	return *c.HeadingOffset
}

// TLSPort reports the numeric port of TLSListen, or 0 when it has none.
func (c *Config) TLSPort() int {
	_, port, err := net.SplitHostPort(c.TLSListen)
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return 0
	}
	return n
}

func hostPort(value any) error {
	addr, _ := value.(string)
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("must be host:port")
	}
	return nil
}

func notReservedRegion(value any) error {
	name, _ := value.(string)
	if document.IsReservedRegionName(name) {
		return fmt.Errorf("region name '%s' is reserved", name)
	}
	return nil
}
