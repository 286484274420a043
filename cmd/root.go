package cmd

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/cv-screener/internal/ai/gemini"
	"github.com/spigell/cv-screener/internal/filtering"
	"github.com/spigell/cv-screener/internal/screening"
	"github.com/spigell/cv-screener/internal/source"
)

const (
	app = "cv-screener"
)

type Config struct {
	Job         *JobConfig       `mapstructure:"job"`
	Screening   screening.Config `mapstructure:"screening"`
	Concurrency int              `mapstructure:"concurrency"`
	Shortlist   filtering.Config `mapstructure:"shortlist"`
	Document    *DocumentConfig  `mapstructure:"document"`
	AI          *AIConfig        `mapstructure:"ai"`
	S3          *S3Config        `mapstructure:"s3"`
	Headhunter  *HHConfig        `mapstructure:"headhunter"`
	MetricsFile string           `mapstructure:"metrics-file"`
}

type JobConfig struct {
	Title              string   `mapstructure:"title"`
	Description        string   `mapstructure:"description"`
	DescriptionFile    string   `mapstructure:"description-file"`
	MinYearsExperience *float64 `mapstructure:"min-years-experience"`
	EducationLevel     string   `mapstructure:"education-level"`
}

type DocumentConfig struct {
	MaxBytes int `mapstructure:"max-bytes"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	gemini.Config `mapstructure:",squash"`
	APIKeyFile    string `mapstructure:"api-key-file"`
}

type S3Config struct {
	source.S3Config     `mapstructure:",squash"`
	SecretAccessKeyFile string `mapstructure:"secret-access-key-file"`
}

type HHConfig struct {
	TokenFile string `mapstructure:"token-file"`
	UserAgent string `mapstructure:"user-agent"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cv-screener ranks resumes against a job description",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range map[string]string{
		"ai.gemini.api-key-file":    "GEMINI_API_KEY_FILE",
		"s3.secret-access-key-file": "S3_SECRET_ACCESS_KEY_FILE",
		"s3.access-key-id":          "S3_ACCESS_KEY_ID",
		"headhunter.token-file":     "HH_TOKEN_FILE",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cv-screener.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// A missing .env is fine, a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	// Config needed only for screen command. If there is no config, we can skip initialization
	if screenCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// An explicit config must parse. The default one is optional.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
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

	return config, nil
}
