// Copyright (C) 2026 kpfile
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/spf13/viper"
)

// Backend identifiers accepted in configuration.
const (
	BackendPostgres = "postgres"
	BackendFlatFile = "flatfile"
)

// Config aggregates configuration for the application.
type Config struct {
	Backend   string         `mapstructure:"backend"`
	SaveHomes bool           `mapstructure:"save_homes"`
	Database  DatabaseConfig `mapstructure:"database"`
	FlatFile  FlatFileConfig `mapstructure:"flatfile"`
	Launcher  LauncherConfig `mapstructure:"launcher"`
}

// DatabaseConfig holds the relational backend's connection parameters.
// URL wins when set; otherwise the parts are assembled, and when neither
// is present the backend falls back to its GAMEDB_* environment variables.
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// FlatFileConfig holds the flat-file backend's settings.
type FlatFileConfig struct {
	Dir string `mapstructure:"dir"`
}

// LauncherConfig holds the game server bootstrap settings.
type LauncherConfig struct {
	ServerBinary string `mapstructure:"server_binary"`
	DownloadURL  string `mapstructure:"download_url"`
}

// ConnString returns the connection string implied by the configuration,
// or "" when nothing was configured.
func (d DatabaseConfig) ConnString() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Host == "" || d.DBName == "" {
		return ""
	}

	port := d.Port
	if port == "" {
		port = "5432"
	}
	u := &url.URL{
		Scheme: "postgresql",
		Host:   d.Host + ":" + port,
		Path:   d.DBName,
	}
	if d.User != "" {
		if d.Password != "" {
			u.User = url.UserPassword(d.User, d.Password)
		} else {
			u.User = url.User(d.User)
		}
	}
	if d.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", d.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Load reads configuration from config.yaml in the working directory and
// from environment variables. Environment variables use the prefix
// "SERVERMOD" and the dot character in keys is replaced by an underscore;
// for example "database.host" becomes "SERVERMOD_DATABASE_HOST".
func Load() (*Config, error) {
	cfg := &Config{
		Backend:   BackendFlatFile,
		SaveHomes: true,
		FlatFile:  FlatFileConfig{Dir: "./data"},
		Launcher: LauncherConfig{
			ServerBinary: "minecraft_server.jar",
			DownloadURL:  "http://minecraft.net/download/minecraft_server.jar",
		},
	}

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.SetEnvPrefix("SERVERMOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, cfg)
	_ = v.ReadInConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case BackendPostgres, BackendFlatFile:
	default:
		return nil, fmt.Errorf("unknown backend %q (want %q or %q)", cfg.Backend, BackendPostgres, BackendFlatFile)
	}
	return cfg, nil
}

// bindEnvs registers all keys within cfg so that viper will look up
// corresponding environment variables when unmarshalling.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.ValueOf(cfg)
	typ := reflect.TypeOf(cfg)
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := append(parts, tag)
		if f.Type.Kind() == reflect.Struct {
			bindEnvs(v, val.Field(i).Interface(), key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "."))
	}
}
