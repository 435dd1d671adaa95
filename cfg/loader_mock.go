package cfg

type MockLoader struct {
	config *Config
}

func NewMockLoader() (*MockLoader, error) {
	config := Defaults()
	config.GithubApi.AccessToken = "mock-token"
	config.Crawl.SearchDelay = 0
	return &MockLoader{config: config}, nil
}

// With lets a test adjust the mocked config before it is loaded.
func (ml *MockLoader) With(mutate func(*Config)) *MockLoader {
	mutate(ml.config)
	return ml
}

func (ml *MockLoader) Load() (*Config, error) {
	copied := *ml.config
	copied.Kafka.Brokers = append([]string(nil), ml.config.Kafka.Brokers...)
	return &copied, nil
}
