package cfg

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type ViperLoader struct {
	configPath            string
	viper                 *viper.Viper
	mu                    sync.RWMutex
	config                *Config
	configChangeCallbacks []func(*Config)
}

// NewViperLoader đọc mode.yaml từ configPath (mặc định cfg/yaml).
func NewViperLoader(configPath string) (*ViperLoader, error) {
	if configPath == "" {
		configPath = "cfg/yaml"
	}
	return &ViperLoader{
		configPath:            configPath,
		viper:                 viper.New(),
		configChangeCallbacks: make([]func(*Config), 0),
	}, nil
}

func (yl *ViperLoader) Load() (*Config, error) {
	if err := yl.loadConfig(); err != nil {
		return nil, err
	}

	if yl.IsWatchChange() {
		yl.viper.OnConfigChange(func(e fsnotify.Event) {
			fmt.Printf("[INFO][CONFIG] Config file changed: %s\n", e.Name)
			if errReload := yl.reloadConfig(); errReload != nil {
				fmt.Printf("[ERROR][CONFIG] Failed to reload config: %v\n", errReload)
			}
		})
		yl.viper.WatchConfig()
	}

	yl.mu.RLock()
	defer yl.mu.RUnlock()
	return yl.config, nil
}

// IsWatchChange reports whether a config file was found and watching is enabled.
func (yl *ViperLoader) IsWatchChange() bool {
	yl.mu.RLock()
	defer yl.mu.RUnlock()
	return yl.config != nil && yl.config.App.WatchConfig && yl.viper.ConfigFileUsed() != ""
}

func (yl *ViperLoader) RegisterConfigChangeCallback(callback func(*Config)) {
	yl.mu.Lock()
	yl.configChangeCallbacks = append(yl.configChangeCallbacks, callback)
	yl.mu.Unlock()
}

func (yl *ViperLoader) loadConfig() error {
	v := yl.viper
	setDefaults(v)

	v.AddConfigPath(yl.configPath)
	v.SetConfigName("mode")
	v.SetConfigType("yaml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("githubapi.accesstoken", "GITHUB_TOKEN"); err != nil {
		return fmt.Errorf("[ERROR][CONFIG] failed to bind GITHUB_TOKEN: %w", err)
	}

	// Không có file cấu hình thì dùng mặc định + biến môi trường
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("[ERROR][CONFIG] failed to read config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("[ERROR][CONFIG] failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("[ERROR][CONFIG] %w", err)
	}

	yl.mu.Lock()
	yl.config = config
	yl.mu.Unlock()

	return nil
}

func (yl *ViperLoader) reloadConfig() error {
	config := &Config{}
	if err := yl.viper.Unmarshal(config); err != nil {
		return fmt.Errorf("[ERROR][CONFIG] failed to unmarshal config during reload: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("[ERROR][CONFIG] reloaded config rejected: %w", err)
	}

	yl.mu.Lock()
	yl.config = config
	callbacks := make([]func(*Config), len(yl.configChangeCallbacks))
	copy(callbacks, yl.configChangeCallbacks)
	yl.mu.Unlock()

	for _, callback := range callbacks {
		callback(config)
	}

	fmt.Println("[INFO][CONFIG] Configuration reloaded successfully")
	return nil
}

func setDefaults(v *viper.Viper) {
	d := Defaults()

	v.SetDefault("app.name", d.App.Name)
	v.SetDefault("app.version", d.App.Version)
	v.SetDefault("app.watchconfig", false)

	v.SetDefault("githubapi.accesstoken", "")
	v.SetDefault("githubapi.apiurl", d.GithubApi.ApiUrl)
	v.SetDefault("githubapi.timeout", d.GithubApi.Timeout)
	v.SetDefault("githubapi.requestspersecond", 0)
	v.SetDefault("githubapi.throttledelay", 100)

	v.SetDefault("crawl.query", d.Crawl.Query)
	v.SetDefault("crawl.language", d.Crawl.Language)
	v.SetDefault("crawl.extension", d.Crawl.Extension)
	v.SetDefault("crawl.maxrepos", d.Crawl.MaxRepos)
	v.SetDefault("crawl.perpage", d.Crawl.PerPage)
	v.SetDefault("crawl.searchdelay", d.Crawl.SearchDelay)

	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.statefile", d.Storage.StateFile)
	v.SetDefault("storage.datasetfile", d.Storage.DatasetFile)
	v.SetDefault("storage.key", d.Storage.Key)

	v.SetDefault("mysql.host", d.Mysql.Host)
	v.SetDefault("mysql.port", d.Mysql.Port)
	v.SetDefault("mysql.username", "")
	v.SetDefault("mysql.password", "")
	v.SetDefault("mysql.database", d.Mysql.Database)
	v.SetDefault("mysql.maxidleconnection", d.Mysql.MaxIdleConnection)
	v.SetDefault("mysql.maxopenconnection", d.Mysql.MaxOpenConnection)
	v.SetDefault("mysql.maxlifetimeconnection", d.Mysql.MaxLifeTimeConnection)

	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", d.Redis.Prefix)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topicfile", d.Kafka.TopicFile)
	v.SetDefault("kafka.groupid", d.Kafka.GroupID)

	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.level", d.Log.Level)
}
