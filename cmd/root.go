package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/talent-matcher/internal/matching"
	"github.com/spigell/talent-matcher/internal/search"
)

const (
	app       = "talent-matcher"
	envPrefix = "TALENT_MATCHER"
)

type Config struct {
	Snapshot    string            `mapstructure:"snapshot"`
	Backend     *BackendConfig    `mapstructure:"backend"`
	Journal     string            `mapstructure:"journal"`
	ExcludeFile string            `mapstructure:"exclude-file"`
	Vocabulary  *VocabularyConfig `mapstructure:"vocabulary"`
	Matching    *MatchingConfig   `mapstructure:"matching"`
	Search      *SearchConfig     `mapstructure:"search"`
	AI          *AIConfig         `mapstructure:"ai"`
	Server      *ServerConfig     `mapstructure:"server"`
}

type BackendConfig struct {
	URL        string `mapstructure:"url"`
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	UserAgent  string `mapstructure:"user-agent"`
	PageSize   int    `mapstructure:"page-size"`
}

// VocabularyConfig replaces the built-in track and synonym tables when set.
type VocabularyConfig struct {
	DefaultTrack string              `mapstructure:"default-track"`
	Tracks       map[string][]string `mapstructure:"tracks"`
	Synonyms     map[string][]string `mapstructure:"synonyms"`
}

type MatchingConfig struct {
	Weights          *matching.Weights `mapstructure:"weights"`
	MinOverlapLength int               `mapstructure:"min-overlap-length"`
	ReadyThreshold   int               `mapstructure:"ready-threshold"`
}

type SearchConfig struct {
	Weights *search.Weights `mapstructure:"weights"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Language string        `mapstructure:"language"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read-timeout"`
	WriteTimeout    time.Duration `mapstructure:"write-timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "talent-matcher ranks SAP talents against open jobs and tracks them through the hiring pipeline",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is talent-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("snapshot", "", "a YAML or JSON file with talents and jobs, used when no backend url is configured")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("snapshot", rootCmd.PersistentFlags().Lookup("snapshot"))

	viper.SetDefault("journal", "applications.json")
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.language", "English")
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.read-timeout", "15s")
	viper.SetDefault("server.write-timeout", "60s")
	viper.SetDefault("server.shutdown-timeout", "10s")
}

func initConfig() {
	// A missing .env is fine, variables may come from the real environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	bindEnv("backend.url", envPrefix+"_BACKEND_URL")
	bindEnv("backend.api-key-file", "BACKEND_API_KEY_FILE")
	bindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	err := viper.ReadInConfig()
	if err == nil {
		return
	}

	// Without an explicit --config every setting may come from flags and the environment.
	var notFound viper.ConfigFileNotFoundError
	if cfgFile == "" && errors.As(err, &notFound) {
		return
	}

	// We can't proceed if the config file parsed with error.
	log.Fatal(err)
}

func bindEnv(key, env string) {
	if err := viper.BindEnv(key, env); err != nil {
		log.Fatalf("binding %s environment variable: %v", env, err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Matching == nil {
		config.Matching = &MatchingConfig{}
	}
	if config.Search == nil {
		config.Search = &SearchConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}

	return config, nil
}
