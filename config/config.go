// Package config loads the fake's configuration from a config uri.
package config

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/ti/mongofake/log"
	"github.com/ti/objectbind"
)

const defaultConfigURI = "configs/config.yaml"

// Fake the configuration of a fake client.
//
//	log:
//	  level: debug
//	database: testdb
//	metrics: true
type Fake struct {
	Log      Log    `json:"log" yaml:"log"`
	Database string `json:"database" yaml:"database"`
	Metrics  bool   `json:"metrics" yaml:"metrics"`
}

// Log the log section.
type Log struct {
	Level string `json:"level" yaml:"level"`
}

// Validate checks the config values.
func (f *Fake) Validate() error {
	if _, err := log.ParseLevel(f.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// Load reads a Fake config from configURI and applies its log level.
func Load(ctx context.Context, configURI string) (*Fake, error) {
	cfg := &Fake{}
	if err := Init(ctx, configURI, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init initialize config from uri address. For exp: configURI ./conf/config.yaml
// etcd://127.0.0.1:6379/config consul://127.0.0.1:6379/config if configURI is
// empty the configURI comes from the CONFIG_PATH env, then configs/config.yaml.
// A Log.Level field in the config stays bound to the log level.
func Init(ctx context.Context, configURI string, configPtr any) error {
	if configURI == "" {
		configURI = os.Getenv("CONFIG_PATH")
		if configURI == "" {
			configURI = defaultConfigURI
		}
	}
	var cc context.CancelFunc
	if _, ok := ctx.Deadline(); !ok {
		ctx, cc = context.WithTimeout(ctx, 5*time.Second)
	}
	if cc != nil {
		defer cc()
	}
	var err error
	binder, err = objectbind.Bind(ctx, configPtr, configURI)
	if err != nil {
		return fmt.Errorf("error for start config for %s is %w", configURI, err)
	}
	if hasLogLevel(configPtr) {
		binder.BindField("Log.Level", func(value, _ any) {
			if level, ok := value.(string); ok && level != "" {
				if errLevel := log.SetLevel(level); errLevel != nil {
					log.Action("config").Warn("ignore log level: %s", errLevel)
				}
			}
		})
	}
	return nil
}

func hasLogLevel(configPtr any) bool {
	v := reflect.Indirect(reflect.ValueOf(configPtr))
	if v.Kind() != reflect.Struct {
		return false
	}
	logField := v.FieldByName("Log")
	if !logField.IsValid() || logField.Kind() != reflect.Struct {
		return false
	}
	return logField.FieldByName("Level").IsValid()
}

var binder *objectbind.Binder

// Binder get the binder for add the hook for some config field.
func Binder() *objectbind.Binder {
	if binder == nil {
		panic("the config may not init")
	}
	return binder
}
