package config

import (
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var AppFs = afero.NewOsFs()

// Config holds the installer settings that do not come from flags.
type Config struct {
	BasePath       string
	HTTPTimeout    time.Duration
	PHPBinary      string
	ComposerBinary string
	NPMBinary      string
	GitBinary      string
	// DBConnection is DB_CONNECTION from the project .env, if any.
	DBConnection string
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetFs(AppFs)

	v.SetEnvPrefix("APPINSTALL")
	v.AutomaticEnv()

	v.SetDefault("base_path", ".")
	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("php_binary", "php")
	v.SetDefault("composer_binary", "composer")
	v.SetDefault("npm_binary", "npm")
	v.SetDefault("git_binary", "git")
	return v
}

// Load reads cfgFile, or .appinstall.yaml from the working directory, the
// home directory or ~/.config/appinstall. A missing file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := newViper()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}

		v.SetConfigName(".appinstall")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "appinstall"))

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, err
			}
		}
	}

	cfg := &Config{
		BasePath:       v.GetString("base_path"),
		HTTPTimeout:    v.GetDuration("http_timeout"),
		PHPBinary:      v.GetString("php_binary"),
		ComposerBinary: v.GetString("composer_binary"),
		NPMBinary:      v.GetString("npm_binary"),
		GitBinary:      v.GetString("git_binary"),
	}
	cfg.DBConnection = ProjectConnection(cfg.BasePath)

	return cfg, nil
}

// ProjectConnection reads DB_CONNECTION from the .env under basePath
// without exporting it to the process environment.
func ProjectConnection(basePath string) string {
	f, err := AppFs.Open(filepath.Join(basePath, ".env"))
	if err != nil {
		return ""
	}
	defer f.Close()

	values, err := godotenv.Parse(f)
	if err != nil {
		return ""
	}
	return values["DB_CONNECTION"]
}
