package cfg

const (
	DefaultApiUrl      = "https://api.github.com/"
	DefaultQuery       = "java"
	DefaultLanguage    = "Java"
	DefaultExtension   = ".java"
	DefaultMaxRepos    = 2000
	DefaultPerPage     = 100 // tối đa GitHub cho phép
	DefaultSearchDelay = 1000
	DefaultStateFile   = "state.json"
	DefaultDatasetFile = "java_code_dataset.json"
)

type Loader interface {
	Load() (*Config, error)
}

// Defaults returns a Config with every defaulted field filled in. The access
// token is left empty because it has no sensible default.
func Defaults() *Config {
	return &Config{
		App: App{
			Name:    "github-code-crawler",
			Version: "0.1.0",
		},
		GithubApi: GithubApi{
			ApiUrl:  DefaultApiUrl,
			Timeout: 30,
		},
		Crawl: Crawl{
			Query:       DefaultQuery,
			Language:    DefaultLanguage,
			Extension:   DefaultExtension,
			MaxRepos:    DefaultMaxRepos,
			PerPage:     DefaultPerPage,
			SearchDelay: DefaultSearchDelay,
		},
		Storage: Storage{
			Backend:     "file",
			StateFile:   DefaultStateFile,
			DatasetFile: DefaultDatasetFile,
			Key:         "default",
		},
		Mysql: Mysql{
			Host:                  "127.0.0.1",
			Port:                  "3306",
			Database:              "github_crawler",
			MaxIdleConnection:     10,
			MaxOpenConnection:     100,
			MaxLifeTimeConnection: 3600,
		},
		Redis: Redis{
			Addr:   "127.0.0.1:6379",
			Prefix: "crawl:state",
		},
		Kafka: Kafka{
			TopicFile: "source-files",
			GroupID:   "source-file-consumer-group",
		},
		Log: Log{
			Format: "console",
			Level:  "info",
		},
	}
}
