package cfg

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMissingAccessToken = errors.New("github access token is required")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

type (
	App struct {
		Name        string
		Version     string
		WatchConfig bool
	}

	Mysql struct {
		Host                  string
		Port                  string
		Username              string
		Password              string
		Database              string
		MaxIdleConnection     int
		MaxOpenConnection     int
		MaxLifeTimeConnection int
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
		Prefix   string
	}

	Kafka struct {
		Enabled   bool
		Brokers   []string
		TopicFile string `validate:"required_if=Enabled true"`
		GroupID   string
	}

	GithubApi struct {
		AccessToken       string `validate:"required"`
		ApiUrl            string `validate:"required,url"`
		Timeout           int    `validate:"gt=0"` // giây
		RequestsPerSecond int    `validate:"gte=0"`
		ThrottleDelay     int    `validate:"gte=0"` // ms, chờ khi rate limiter chưa cho phép
	}

	Crawl struct {
		Query       string `validate:"required"`
		Language    string `validate:"required"`
		Extension   string `validate:"required,startswith=."`
		MaxRepos    int    `validate:"gte=0"`
		PerPage     int    `validate:"gt=0,lte=100"`
		SearchDelay int    `validate:"gte=0"` // ms giữa các trang search
	}

	Storage struct {
		Backend     string `validate:"oneof=file mysql redis"`
		StateFile   string `validate:"required"`
		DatasetFile string `validate:"required"`
		Key         string
	}

	Log struct {
		Format string `validate:"omitempty,oneof=console text json"`
		Level  string
	}
)

type Config struct {
	App       App
	GithubApi GithubApi
	Crawl     Crawl
	Storage   Storage
	Mysql     Mysql
	Redis     Redis
	Kafka     Kafka
	Log       Log
}

// SearchDelayDuration is the fixed pause between two search page requests.
func (c *Config) SearchDelayDuration() time.Duration {
	return time.Duration(c.Crawl.SearchDelay) * time.Millisecond
}

func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.GithubApi.Timeout) * time.Second
}

// Validate kiểm tra các trường bắt buộc và giới hạn của cấu hình.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.StructNamespace() == "Config.GithubApi.AccessToken" {
				return ErrMissingAccessToken
			}
		}
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fieldErrs.Error())
	}
	return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
}
