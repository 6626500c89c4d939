package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Title    string
	URL      string
	Width    int
	Height   int
	DevTools bool
	Resource ResourceConfig
	Log      LogConfig
	IPC      IPCConfig
}

// ResourceConfig controls where scheme requests are resolved.
type ResourceConfig struct {
	// Root 资源根目录，空则使用进程工作目录
	Root string
	// Profile: "auto" (按平台选择) | "fs" | "bundle" | "restricted"
	Profile string
}

type LogConfig struct {
	Level string
	Dir   string
	JSON  bool
}

type IPCConfig struct {
	// History 保留最近多少条前端消息
	History int
}

const envPrefix = "WEBSHELL"

// Load reads configuration from the JSON file at path (or $WEBSHELL_CONFIG, or
// config.json in the data dir) and applies WEBSHELL_* env overrides. A missing
// file is only an error when the path was given explicitly.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("title", "webshell")
	v.SetDefault("url", "index.html")
	v.SetDefault("width", 900)
	v.SetDefault("height", 650)
	v.SetDefault("devtools", true)
	v.SetDefault("resource.root", "")
	v.SetDefault("resource.profile", "auto")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.json", false)
	v.SetDefault("ipc.history", 500)

	v.SetConfigType("json")

	explicit := path != ""
	if !explicit {
		path = os.Getenv(envPrefix + "_CONFIG")
		explicit = path != ""
	}
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(DataDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Defaults()
	return c, nil
}

// Defaults 填充默认值
func (c *Config) Defaults() {
	if strings.TrimSpace(c.Title) == "" {
		c.Title = "webshell"
	}
	if strings.TrimSpace(c.URL) == "" {
		c.URL = "index.html"
	}
	if c.Width <= 0 {
		c.Width = 900
	}
	if c.Height <= 0 {
		c.Height = 650
	}
	if c.Resource.Profile == "" {
		c.Resource.Profile = "auto"
	}
	c.Resource.Profile = strings.ToLower(c.Resource.Profile)
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Dir == "" {
		c.Log.Dir = DataDir()
	}
	if c.IPC.History <= 0 {
		c.IPC.History = 500
	}
}

// DataDir returns the per-user data directory for webshell. It does not
// create it.
func DataDir() string {
	var base string
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, "Library", "Application Support")
	case "windows":
		base = os.Getenv("LOCALAPPDATA")
		if base == "" {
			home, _ := os.UserHomeDir()
			base = filepath.Join(home, "AppData", "Local")
		}
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			base = xdg
		} else {
			home, _ := os.UserHomeDir()
			base = filepath.Join(home, ".local", "share")
		}
	}
	return filepath.Join(base, "webshell")
}
