package sgv

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v2"
)

const DefaultConfigPath = "./sg-vaccines.yaml"
const ApiHostEnvName = "API_HOST_SG"

const DefaultPollInterval = 60
const DefaultDumpDir = "./dump"

var HostPattern = regexp.MustCompile(`(?i)https?://([^/]+)`)

type Config struct {
	Debug            bool     `yaml:"debug"`
	ApiUrl           string   `yaml:"api_url"`
	Timeout          int      `yaml:"timeout"`
	CacheTTL         int64    `yaml:"cache_ttl"`
	PollInterval     int64    `yaml:"poll_interval"`
	DumpOutput       bool     `yaml:"dump_output"`
	DumpOutputS3     bool     `yaml:"dump_output_s3"`
	DumpDir          string   `yaml:"dump_dir"`
	FromEmailAddress string   `yaml:"from_email_address"`
	SmtpUsername     string   `yaml:"smtp_user"`
	SmtpPassword     string   `yaml:"smtp_pass"`
	SmtpHost         string   `yaml:"smtp_host"`
	SmtpPort         int      `yaml:"smtp_port"`
	NotifyEmailAddrs []string `yaml:"notify_email_addrs"`
}

func DefaultConfig() *Config {
	config := &Config{
		ApiUrl:       RouteBase,
		Timeout:      EndpointDefaultTimeout,
		CacheTTL:     FetchCacheDefaultTTL,
		PollInterval: DefaultPollInterval,
		DumpDir:      DefaultDumpDir,
	}

	return config
}

// NewConfigDefaultPath loads ./sg-vaccines.yaml, falling back to defaults
// when the file does not exist.
func NewConfigDefaultPath() (*Config, error) {
	if _, err := os.Stat(DefaultConfigPath); err != nil {
		Log.Debugf("No config file at %s, using defaults", DefaultConfigPath)
		return applyEnvOverrides(DefaultConfig())
	}

	return NewConfig(DefaultConfigPath)
}

func NewConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	// Open config file
	file, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// Init new YAML decode
	d := yaml.NewDecoder(file)

	// Start YAML decoding from file
	if err := d.Decode(&config); err != nil {
		return nil, err
	}

	return applyEnvOverrides(config)
}

func applyEnvOverrides(config *Config) (*Config, error) {
	if config.Debug {
		Log.SetLevel("debug")
	}

	//replace host portion of the api url, usually for testing
	hostOverride := os.Getenv(ApiHostEnvName)
	if len(hostOverride) > 0 {
		newApiUrl, err := ReplaceHost(config.ApiUrl, hostOverride)
		if err != nil {
			return nil, err
		}
		config.ApiUrl = newApiUrl
	}

	Log.Debugf("API base URL: %s", config.ApiUrl)

	return config, nil
}

func ReplaceHost(originalUrl string, host string) (string, error) {
	matches := HostPattern.FindStringSubmatch(originalUrl)
	if len(matches) < 2 {
		return "", fmt.Errorf("Could not parse host from url: %s", originalUrl)
	}

	originalHost := matches[1]
	newUrl := strings.Replace(originalUrl, originalHost, host, 1)

	return newUrl, nil
}
