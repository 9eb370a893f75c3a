package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sauna_automation/internal/heater"

	"github.com/spf13/viper"
)

var (
	errNoCalendarURL   = errors.New("calendar.url (ICAL_URL) is required")
	errNoHeaterURL     = errors.New("heater.url (HUUM_URL) is required")
	errNegativeWindow  = errors.New("automation windows must not be negative")
	errLeadAfterWindow = errors.New("automation.min_lead_min must not exceed automation.early_start_min")
	errRetryAttempts   = errors.New("heater.retry.attempts must be at least 1")
	errShortTimeout    = errors.New("timeouts must be at least 1s")
)

// Config is the whole process configuration.
type Config struct {
	Port       string
	LogLevel   string
	Calendar   Calendar
	Heater     Heater
	Automation Automation
	State      State
	History    History
}

// Calendar configures the reservation feed.
type Calendar struct {
	URL            string
	Timeout        time.Duration
	ConnectTimeout time.Duration
}

// Heater configures the heater control service.
type Heater struct {
	URL            string
	Username       string
	Password       string
	Timeout        time.Duration
	ConnectTimeout time.Duration
	RetryAttempts  int
	RetryBaseDelay time.Duration
}

// Automation holds the decision engine's tuning.
type Automation struct {
	TargetTemperature int
	EarlyStart        time.Duration // how far ahead of a reservation the heater may start
	MinLead           time.Duration // reservations starting sooner than this are not started for
	GapKeepOn         time.Duration // shorter gaps between reservations keep the heater on
	Grace             time.Duration // a reservation ended less than this ago is still relevant
	Interval          time.Duration // 0 disables the in-process scheduler
}

// State locates the automation marker file.
type State struct {
	File string
}

// History configures the in-memory run history.
type History struct {
	DSN       string
	Retention time.Duration
}

// envNames maps configuration keys to the environment variables that override them.
var envNames = map[string]string{
	"port":                          "PORT",
	"log.level":                     "LOG_LEVEL",
	"calendar.url":                  "ICAL_URL",
	"calendar.timeout":              "ICAL_TIMEOUT",
	"calendar.connect_timeout":      "ICAL_CONNECT_TIMEOUT",
	"heater.url":                    "HUUM_URL",
	"heater.username":               "HUUM_USERNAME",
	"heater.password":               "HUUM_PASSWORD",
	"heater.timeout":                "HTTP_TIMEOUT",
	"heater.connect_timeout":        "HTTP_CONNECT_TIMEOUT",
	"heater.retry.attempts":         "HEATER_RETRY_ATTEMPTS",
	"heater.retry.base_delay":       "HEATER_RETRY_BASE_DELAY",
	"automation.target_temperature": "TARGET_TEMPERATURE",
	"automation.early_start_min":    "EARLY_START_MIN",
	"automation.min_lead_min":       "MIN_LEAD_MIN",
	"automation.gap_keep_on_min":    "GAP_KEEP_ON_MIN",
	"automation.grace_min":          "GRACE_MIN",
	"automation.interval":           "CHECK_INTERVAL",
	"state.file":                    "STATE_FILE",
	"history.dsn":                   "HISTORY_DSN",
	"history.retention":             "HISTORY_RETENTION",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("calendar.url", "")
	v.SetDefault("calendar.timeout", 15*time.Second)
	v.SetDefault("calendar.connect_timeout", 5*time.Second)
	v.SetDefault("heater.url", "https://sauna.huum.eu/action/home/")
	v.SetDefault("heater.username", "")
	v.SetDefault("heater.password", "")
	v.SetDefault("heater.timeout", 15*time.Second)
	v.SetDefault("heater.connect_timeout", 5*time.Second)
	v.SetDefault("heater.retry.attempts", 2)
	v.SetDefault("heater.retry.base_delay", 1500*time.Millisecond)
	v.SetDefault("automation.target_temperature", 92)
	v.SetDefault("automation.early_start_min", 65)
	v.SetDefault("automation.min_lead_min", 1)
	v.SetDefault("automation.gap_keep_on_min", 65)
	v.SetDefault("automation.grace_min", 5)
	v.SetDefault("automation.interval", time.Duration(0))
	v.SetDefault("state.file", "tila.json")
	v.SetDefault("history.dsn", ":memory:")
	v.SetDefault("history.retention", 7*24*time.Hour)
}

// Load reads defaults, the optional config file and the environment, in
// increasing order of precedence. An empty path searches configs/config.yml
// and ./config.yml; a missing file there is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envNames {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %q: %w", path, err)
		}
	} else {
		v.AddConfigPath("configs")
		v.AddConfigPath(".")
		v.SetConfigName("config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) Config {
	return Config{
		Port:     v.GetString("port"),
		LogLevel: v.GetString("log.level"),
		Calendar: Calendar{
			URL:            strings.TrimSpace(v.GetString("calendar.url")),
			Timeout:        duration(v, "calendar.timeout"),
			ConnectTimeout: duration(v, "calendar.connect_timeout"),
		},
		Heater: Heater{
			URL:            strings.TrimSpace(v.GetString("heater.url")),
			Username:       v.GetString("heater.username"),
			Password:       v.GetString("heater.password"),
			Timeout:        duration(v, "heater.timeout"),
			ConnectTimeout: duration(v, "heater.connect_timeout"),
			RetryAttempts:  v.GetInt("heater.retry.attempts"),
			RetryBaseDelay: duration(v, "heater.retry.base_delay"),
		},
		Automation: Automation{
			TargetTemperature: v.GetInt("automation.target_temperature"),
			EarlyStart:        minutes(v.GetInt("automation.early_start_min")),
			MinLead:           minutes(v.GetInt("automation.min_lead_min")),
			GapKeepOn:         minutes(v.GetInt("automation.gap_keep_on_min")),
			Grace:             minutes(v.GetInt("automation.grace_min")),
			Interval:          duration(v, "automation.interval"),
		},
		State:   State{File: v.GetString("state.file")},
		History: History{DSN: v.GetString("history.dsn"), Retention: duration(v, "history.retention")},
	}
}

// duration reads a duration key. Bare integers are seconds, so HTTP_TIMEOUT=15
// means 15s rather than 15ns.
func duration(v *viper.Viper, key string) time.Duration {
	if n, err := strconv.ParseInt(strings.TrimSpace(v.GetString(key)), 10, 64); err == nil {
		return time.Duration(n) * time.Second
	}
	return v.GetDuration(key)
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}

// Validate reports the first configuration error. The automation target is
// checked here so a bad TARGET_TEMPERATURE stops start-up instead of failing
// every run.
func (c Config) Validate() error {
	if c.Calendar.URL == "" {
		return errNoCalendarURL
	}
	if c.Heater.URL == "" {
		return errNoHeaterURL
	}
	if err := heater.ValidateTemperature(c.Automation.TargetTemperature); err != nil {
		return fmt.Errorf("automation.target_temperature: %w", err)
	}
	a := c.Automation
	if a.EarlyStart < 0 || a.MinLead < 0 || a.GapKeepOn < 0 || a.Grace < 0 || a.Interval < 0 {
		return errNegativeWindow
	}
	if a.MinLead > a.EarlyStart {
		return errLeadAfterWindow
	}
	if c.Heater.RetryAttempts < 1 {
		return errRetryAttempts
	}
	for _, d := range []time.Duration{c.Calendar.Timeout, c.Calendar.ConnectTimeout, c.Heater.Timeout, c.Heater.ConnectTimeout} {
		if d < minTimeout {
			return errShortTimeout
		}
	}
	return nil
}

// minTimeout is the shortest request or connect timeout Validate accepts.
const minTimeout = time.Second
