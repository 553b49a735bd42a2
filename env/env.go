// Package env loads the process configuration. Values are gathered with
// viper (defaults, an optional dotenv file, then the environment) and parsed
// once through the same object schema pipeline used for requests, so a bad
// configuration fails with the usual field errors.
package env

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	v "github.com/Gobd/reqvalidation"
	"github.com/Gobd/reqvalidation/is"
	"github.com/Gobd/reqvalidation/transform"
	"github.com/spf13/viper"
)

// Mode is the deployment mode read from NODE_ENV.
type Mode string

const (
	Development Mode = "development"
	Production  Mode = "production"
)

func (m Mode) ValueRules() []v.Rule {
	return []v.Rule{v.In(Development, Production)}
}

// Configuration keys.
const (
	KeyNodeEnv     = "NODE_ENV"
	KeyPort        = "PORT"
	KeyDatabaseURL = "DATABASE_URL"
	KeyLogLevel    = "LOG_LEVEL"
	KeyLogFormat   = "LOG_FORMAT"
)

// Keys lists every configuration key in declaration order.
var Keys = []string{KeyNodeEnv, KeyPort, KeyDatabaseURL, KeyLogLevel, KeyLogFormat}

var defaults = map[string]any{
	KeyNodeEnv:   string(Production),
	KeyPort:      3333,
	KeyLogLevel:  "info",
	KeyLogFormat: "json",
}

// Env is the validated configuration. It is not modified after Load.
type Env struct {
	NodeEnv     Mode   `json:"NODE_ENV"`
	Port        int    `json:"PORT"`
	DatabaseURL string `json:"DATABASE_URL"`
	LogLevel    string `json:"LOG_LEVEL"`
	LogFormat   string `json:"LOG_FORMAT"`
}

func (e *Env) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&e.NodeEnv, v.Optional, v.Default(defaults[KeyNodeEnv]), v.Describe("deployment mode")),
		v.Field(&e.Port, v.Optional, v.Min(1), v.Max(65535), v.Default(defaults[KeyPort]), v.Describe("HTTP listen port")),
		v.Field(&e.DatabaseURL, is.URL, v.Describe("database connection URL")),
		v.Field(&e.LogLevel, v.Optional, v.In("debug", "info", "warn", "error"), v.Default(defaults[KeyLogLevel])),
		v.Field(&e.LogFormat, v.Optional, v.In("json", "console"), v.Default(defaults[KeyLogFormat])),
	}
}

func (e *Env) Normalize() {
	transform.StructTrimSpace(e)
}

var schema = v.NewObjectMust[Env]()

// Load reads envFile (a dotenv file, skipped when empty or missing) and the
// process environment, which wins over the file.
func Load(envFile string) (*Env, error) {
	vp := viper.New()
	for k, d := range defaults {
		vp.SetDefault(k, d)
	}

	if envFile != "" {
		vp.SetConfigFile(envFile)
		vp.SetConfigType("env")
		if err := vp.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	vp.AutomaticEnv()
	settings := make(map[string]any, len(Keys))
	for _, k := range Keys {
		if err := vp.BindEnv(k); err != nil {
			return nil, err
		}
		if val := vp.Get(k); val != nil {
			settings[k] = val
		}
	}
	return Parse(settings)
}

// Parse validates settings, keyed by configuration key (case-insensitive).
// Missing keys take their default. Two settings naming the same key in
// different case are rejected.
func Parse(settings map[string]any) (*Env, error) {
	raw := make(map[string]any, len(settings)+len(defaults))
	for k, d := range defaults {
		raw[k] = d
	}
	seen := make(map[string]string, len(settings))
	for k, val := range settings {
		key := strings.ToUpper(k)
		if prev, ok := seen[key]; ok {
			a, b := prev, k
			if b < a {
				a, b = b, a
			}
			return nil, fmt.Errorf("invalid environment: %q and %q name the same key", a, b)
		}
		seen[key] = k
		raw[key] = val
	}

	e, err := schema.Decode(context.Background(), raw)
	if err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	return &e, nil
}

// Addr is the listen address for Port.
func (e *Env) Addr() string {
	return fmt.Sprintf(":%d", e.Port)
}

func (e *Env) IsProduction() bool {
	return e.NodeEnv == Production
}

// Docs describes every configuration key.
func Docs() ([]v.FieldDoc, error) {
	return schema.Fields()
}
