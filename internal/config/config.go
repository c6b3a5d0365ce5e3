package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/GregMSThompson/budget-report/pkg/logger"
)

const (
	BackendFirestore = "firestore"
	BackendSQLite    = "sqlite"
	BackendMemory    = "memory"

	defaultFlagGroups = "fatih=bonus,mastercard,amex"
)

type Config struct {
	ProjectID            string
	Region               string
	LogLevel             string
	Port                 string
	Environment          string
	ClientOrigin         string
	PublicBaseURL        string
	TimeZone             string
	KMSKeyName           string
	TokenEncKey          string
	TokenKeySecret       string
	SessionBackend       string
	SQLitePath           string
	SessionTTL           time.Duration
	SessionPurgeInterval time.Duration
	YNABBaseURL          string
	YNABTimeout          time.Duration
	FlagGroups           map[string][]string
	RateLimit            float64
	RateBurst            int
}

func New() *Config {
	return &Config{
		ProjectID:            os.Getenv("PROJECTID"),
		Region:               os.Getenv("REGION"),
		LogLevel:             os.Getenv("LOGLEVEL"),
		Port:                 getString("PORT", "8080"),
		Environment:          getString("ENVIRONMENT", "development"),
		ClientOrigin:         getString("CLIENTORIGIN", "http://localhost:5173"),
		PublicBaseURL:        strings.TrimRight(getString("PUBLICBASEURL", "http://localhost:5173"), "/"),
		TimeZone:             getString("TIMEZONE", "Local"),
		KMSKeyName:           os.Getenv("KMSKEYNAME"),
		TokenEncKey:          os.Getenv("TOKENENCKEY"),
		TokenKeySecret:       os.Getenv("TOKENKEYSECRET"),
		SessionBackend:       strings.ToLower(getString("SESSIONBACKEND", BackendMemory)),
		SQLitePath:           getString("SQLITEPATH", "sessions.db"),
		SessionTTL:           getDuration("SESSIONTTL", 720*time.Hour),
		SessionPurgeInterval: getDuration("SESSIONPURGEINTERVAL", time.Hour),
		YNABBaseURL:          os.Getenv("YNABBASEURL"),
		YNABTimeout:          getDuration("YNABTIMEOUT", 10*time.Second),
		FlagGroups:           ParseFlagGroups(getString("FLAGGROUPS", defaultFlagGroups)),
		RateLimit:            getFloat("RATELIMIT", 10),
		RateBurst:            getInt("RATEBURST", 20),
	}
}

func (c *Config) Production() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Location resolves TimeZone; "Local" and "" mean the process zone.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" || c.TimeZone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.TimeZone)
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	var problems []error

	switch c.SessionBackend {
	case BackendFirestore:
		if c.ProjectID == "" {
			problems = append(problems, errors.New("PROJECTID is required for the firestore session backend"))
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			problems = append(problems, errors.New("SQLITEPATH is required for the sqlite session backend"))
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Errorf("unknown SESSIONBACKEND %q", c.SessionBackend))
	}

	if c.KMSKeyName == "" && c.TokenEncKey == "" && c.TokenKeySecret == "" {
		problems = append(problems, errors.New("one of KMSKEYNAME, TOKENENCKEY or TOKENKEYSECRET is required"))
	}
	if c.TokenKeySecret != "" && c.ProjectID == "" {
		problems = append(problems, errors.New("PROJECTID is required to read TOKENKEYSECRET"))
	}
	if c.SessionTTL <= 0 {
		problems = append(problems, errors.New("SESSIONTTL must be positive"))
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		problems = append(problems, errors.New("RATELIMIT and RATEBURST must be positive"))
	}
	if _, ok := logger.ParseLevel(c.LogLevel); !ok {
		problems = append(problems, fmt.Errorf("unknown LOGLEVEL %q", c.LogLevel))
	}
	if _, err := c.Location(); err != nil {
		problems = append(problems, fmt.Errorf("TIMEZONE: %w", err))
	}
	return errors.Join(problems...)
}

// ParseFlagGroups reads "key=name,name;key2=name" into a map of lower-cased
// flag names. Malformed entries are skipped.
func ParseFlagGroups(raw string) map[string][]string {
	groups := make(map[string][]string)
	for _, entry := range strings.Split(raw, ";") {
		key, names, ok := strings.Cut(entry, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		var members []string
		for _, name := range strings.Split(names, ",") {
			if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
				members = append(members, name)
			}
		}
		if len(members) > 0 {
			groups[key] = members
		}
	}
	return groups
}

// ---- Helpers ----
func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}
