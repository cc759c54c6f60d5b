package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"

	"udemy-affiliate/internal/httpx"
	"udemy-affiliate/internal/sftpclient"
)

type Config struct {
	// Udemy affiliate API
	UdemyBaseURL      string        `envconfig:"UDEMY_BASE_URL" default:"https://www.udemy.com/api-2.0/"`
	UdemyClientID     string        `envconfig:"UDEMY_CLIENT_ID" required:"true"`
	UdemyClientSecret string        `envconfig:"UDEMY_CLIENT_SECRET" required:"true"`
	UdemyTimeout      time.Duration `envconfig:"UDEMY_TIMEOUT" default:"5s"`
	UdemyMaxAttempts  int           `envconfig:"UDEMY_MAX_ATTEMPTS" default:"3"`
	UdemyRPS          float64       `envconfig:"UDEMY_REQUESTS_PER_SECOND" default:"5"`
	UdemyPageSize     int           `envconfig:"UDEMY_PAGE_SIZE" default:"100"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Env      string `envconfig:"ENV" default:"production"`

	// SFTP drop for exports; upload is skipped when SFTP_HOST is empty.
	SFTPHost                  string `envconfig:"SFTP_HOST"`
	SFTPPort                  int    `envconfig:"SFTP_PORT" default:"22"`
	SFTPUser                  string `envconfig:"SFTP_USER"`
	SFTPPass                  string `envconfig:"SFTP_PASS"`
	SFTPDir                   string `envconfig:"SFTP_DIR" default:"/inbound"`
	SFTPKnownHosts            string `envconfig:"SFTP_KNOWN_HOSTS"`
	SFTPInsecureIgnoreHostKey bool   `envconfig:"SFTP_INSECURE_IGNORE_HOSTKEY" default:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Retry is the transport retry policy with the configured attempt count.
func (c *Config) Retry() httpx.RetryConfig {
	r := httpx.DefaultRetryConfig()
	if c.UdemyMaxAttempts > 0 {
		r.MaxAttempts = c.UdemyMaxAttempts
	}
	return r
}

func (c *Config) SFTPEnabled() bool { return c.SFTPHost != "" }

func (c *Config) SFTP() sftpclient.Config {
	return sftpclient.Config{
		Host:                  c.SFTPHost,
		Port:                  c.SFTPPort,
		User:                  c.SFTPUser,
		Pass:                  c.SFTPPass,
		RemoteDir:             c.SFTPDir,
		KnownHostsFile:        c.SFTPKnownHosts,
		InsecureIgnoreHostKey: c.SFTPInsecureIgnoreHostKey,
	}
}
