package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"ucas-search/internal/providers/ucas"
)

type Config struct {
	// UCAS search
	SearchURL    string
	AcademicYear string
	PageSize     int
	PageDelay    time.Duration
	UserAgent    string

	// Output
	OutDir string
	Debug  bool

	// SFTP (optional upload of result files)
	SFTPHost                  string
	SFTPPort                  int
	SFTPUser                  string
	SFTPPass                  string
	SFTPDir                   string
	SFTPKnownHosts            string
	SFTPInsecureIgnoreHostKey bool
}

func Defaults() Config {
	return Config{
		SearchURL:    ucas.DefaultBaseURL,
		AcademicYear: ucas.DefaultAcademicYear,
		PageSize:     ucas.DefaultPageSize,
		PageDelay:    ucas.DefaultPageDelay,
		UserAgent:    ucas.DefaultUserAgent,
		OutDir:       ".",
		SFTPPort:     22,
		SFTPDir:      "/",
	}
}

// Load reads the configuration from the environment. Nothing is required;
// unset variables keep their defaults.
func Load() Config {
	return fromEnv(Defaults())
}

// LoadFile applies a YAML file over the defaults, then the environment over
// that. An empty path behaves like Load.
func LoadFile(path string) (Config, error) {
	base := Defaults()
	if path == "" {
		return fromEnv(base), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := fc.apply(&base); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}

	return fromEnv(base), nil
}

func fromEnv(base Config) Config {
	return Config{
		// UCAS search
		SearchURL:    getenv("UCAS_SEARCH_URL", base.SearchURL),
		AcademicYear: getenv("UCAS_ACADEMIC_YEAR", base.AcademicYear),
		PageSize:     getenvInt("UCAS_PAGE_SIZE", base.PageSize),
		PageDelay:    getenvDuration("UCAS_PAGE_DELAY", base.PageDelay),
		UserAgent:    getenv("UCAS_USER_AGENT", base.UserAgent),

		// Output
		OutDir: getenv("UCAS_OUT_DIR", base.OutDir),
		Debug:  getenvBool("UCAS_DEBUG", base.Debug),

		// SFTP
		SFTPHost:                  getenv("SFTP_HOST", base.SFTPHost),
		SFTPPort:                  getenvInt("SFTP_PORT", base.SFTPPort),
		SFTPUser:                  getenv("SFTP_USER", base.SFTPUser),
		SFTPPass:                  getenv("SFTP_PASS", base.SFTPPass),
		SFTPDir:                   getenv("SFTP_DIR", base.SFTPDir),
		SFTPKnownHosts:            getenv("SFTP_KNOWN_HOSTS", base.SFTPKnownHosts),
		SFTPInsecureIgnoreHostKey: getenvBool("SFTP_INSECURE_IGNORE_HOSTKEY", base.SFTPInsecureIgnoreHostKey),
	}
}

type fileConfig struct {
	SearchURL    *string `yaml:"search_url"`
	AcademicYear *string `yaml:"academic_year"`
	PageSize     *int    `yaml:"page_size"`
	PageDelay    *string `yaml:"page_delay"`
	UserAgent    *string `yaml:"user_agent"`
	OutDir       *string `yaml:"out_dir"`
	Debug        *bool   `yaml:"debug"`

	SFTP struct {
		Host                  *string `yaml:"host"`
		Port                  *int    `yaml:"port"`
		User                  *string `yaml:"user"`
		Pass                  *string `yaml:"pass"`
		Dir                   *string `yaml:"dir"`
		KnownHosts            *string `yaml:"known_hosts"`
		InsecureIgnoreHostKey *bool   `yaml:"insecure_ignore_host_key"`
	} `yaml:"sftp"`
}

func (fc fileConfig) apply(cfg *Config) error {
	setStr(&cfg.SearchURL, fc.SearchURL)
	setStr(&cfg.AcademicYear, fc.AcademicYear)
	setInt(&cfg.PageSize, fc.PageSize)
	setStr(&cfg.UserAgent, fc.UserAgent)
	setStr(&cfg.OutDir, fc.OutDir)
	if fc.Debug != nil {
		cfg.Debug = *fc.Debug
	}
	if fc.PageDelay != nil {
		d, err := time.ParseDuration(*fc.PageDelay)
		if err != nil {
			return fmt.Errorf("page_delay: %w", err)
		}
		cfg.PageDelay = d
	}

	setStr(&cfg.SFTPHost, fc.SFTP.Host)
	setInt(&cfg.SFTPPort, fc.SFTP.Port)
	setStr(&cfg.SFTPUser, fc.SFTP.User)
	setStr(&cfg.SFTPPass, fc.SFTP.Pass)
	setStr(&cfg.SFTPDir, fc.SFTP.Dir)
	setStr(&cfg.SFTPKnownHosts, fc.SFTP.KnownHosts)
	if fc.SFTP.InsecureIgnoreHostKey != nil {
		cfg.SFTPInsecureIgnoreHostKey = *fc.SFTP.InsecureIgnoreHostKey
	}
	return nil
}

func setStr(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
