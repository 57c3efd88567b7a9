package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = "dayrecap"
	envPrefix  = "DAYRECAP"
)

// Config is the immutable runtime configuration, loaded once at process
// start with precedence defaults → config file → environment.
type Config struct {
	APIHost string
	APIPort int

	OutputDir          string
	MinDurationSeconds float64
	TopAppsCount       int
	TopURLsCount       int

	ConversationLogDir string
	SessionLogDir      string
	QueryDumpDir       string
	CLIHistoryPath     string

	WorkDirs          []string
	AssistantBrainDir string

	SlackWebhookURL string
	GeminiAPIKey    string
	GeminiModel     string

	Calendar CalendarConfig

	HolidaysPath  string
	ArchivePath   string
	SelectionPath string
	NotifyEnabled bool
	LogLevel      string
}

// CalendarConfig controls the calendar fetch.
type CalendarConfig struct {
	Names              []string
	ExcludeRecurring   bool
	RecurringWhitelist []string
}

// Load reads configuration from defaults, an optional
// ~/.config/dayrecap/config.toml, and the environment.
func Load() (Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}

	return load(viper.New(), homeDir)
}

func load(v *viper.Viper, homeDir string) (Config, error) {
	confDir := filepath.Join(homeDir, ".config", configDir)

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(confDir)

	setDefaults(v, homeDir, confDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		APIHost:            v.GetString("api.host"),
		APIPort:            v.GetInt("api.port"),
		OutputDir:          v.GetString("output.dir"),
		MinDurationSeconds: v.GetFloat64("activity.min_duration_seconds"),
		TopAppsCount:       v.GetInt("activity.top_apps"),
		TopURLsCount:       v.GetInt("activity.top_urls"),
		ConversationLogDir: v.GetString("sources.conversation_log_dir"),
		SessionLogDir:      v.GetString("sources.session_log_dir"),
		QueryDumpDir:       v.GetString("sources.query_dump_dir"),
		CLIHistoryPath:     v.GetString("sources.cli_history_path"),
		WorkDirs:           v.GetStringSlice("sources.work_dirs"),
		AssistantBrainDir:  v.GetString("sources.assistant_brain_dir"),
		SlackWebhookURL:    v.GetString("slack.webhook_url"),
		GeminiAPIKey:       v.GetString("gemini.api_key"),
		GeminiModel:        v.GetString("gemini.model"),
		Calendar: CalendarConfig{
			Names:              splitNames(v.GetString("calendar.names")),
			ExcludeRecurring:   v.GetBool("calendar.exclude_recurring"),
			RecurringWhitelist: v.GetStringSlice("calendar.recurring_whitelist"),
		},
		HolidaysPath:  v.GetString("holidays.path"),
		ArchivePath:   v.GetString("archive.path"),
		SelectionPath: v.GetString("calendar.selection_path"),
		NotifyEnabled: v.GetBool("notify.enabled"),
		LogLevel:      v.GetString("log.level"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, homeDir, confDir string) {
	v.SetDefault("api.host", "127.0.0.1")
	v.SetDefault("api.port", 5600)

	v.SetDefault("output.dir", filepath.Join(homeDir, "daily-summaries"))
	v.SetDefault("activity.min_duration_seconds", 10.0)
	v.SetDefault("activity.top_apps", 15)
	v.SetDefault("activity.top_urls", 10)

	v.SetDefault("sources.conversation_log_dir", filepath.Join(homeDir, "Library", "Application Support", "Claude", "projects"))
	v.SetDefault("sources.session_log_dir", filepath.Join(homeDir, "Library", "Application Support", "Claude", "local-agent-mode-sessions"))
	v.SetDefault("sources.query_dump_dir", filepath.Join(homeDir, ".firebender", "message-dumps"))
	v.SetDefault("sources.cli_history_path", filepath.Join(homeDir, ".claude", "history.jsonl"))
	v.SetDefault("sources.work_dirs", []string{filepath.Join(homeDir, "daily-summary-env")})
	v.SetDefault("sources.assistant_brain_dir", filepath.Join(homeDir, ".gemini", "antigravity", "brain"))

	v.SetDefault("slack.webhook_url", "")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")

	v.SetDefault("calendar.names", "")
	v.SetDefault("calendar.exclude_recurring", true)
	v.SetDefault("calendar.recurring_whitelist", []string{})
	v.SetDefault("calendar.selection_path", filepath.Join(confDir, "calendars.toml"))

	v.SetDefault("holidays.path", "")
	v.SetDefault("archive.path", filepath.Join(confDir, "reports.db"))
	v.SetDefault("notify.enabled", false)
	v.SetDefault("log.level", "info")
}

// bindLegacyEnv keeps the environment names used before the viper layout
// working: SLACK_WEBHOOK_URL, GEMINI_API_KEY and GCAL_WORK_CALENDARS.
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("slack.webhook_url", "DAYRECAP_SLACK_WEBHOOK_URL", "SLACK_WEBHOOK_URL")
	_ = v.BindEnv("gemini.api_key", "DAYRECAP_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("calendar.names", "DAYRECAP_CALENDAR_NAMES", "GCAL_WORK_CALENDARS")
}

func splitNames(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			names = append(names, trimmed)
		}
	}

	return names
}
