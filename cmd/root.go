package cmd

import (
	"log"

	"github.com/dogfinder/dogmatch/internal/prefs"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "dogmatch"
)

type Config struct {
	Search      *SearchConfig         `mapstructure:"search"`
	Preferences *prefs.RawPreferences `mapstructure:"preferences"`
	Match       *MatchConfig          `mapstructure:"match"`
	Explain     *ExplainConfig        `mapstructure:"explain"`
	Petfinder   *PetfinderConfig      `mapstructure:"petfinder"`
	AI          *AIConfig             `mapstructure:"ai"`
}

type SearchConfig struct {
	Locations []string `mapstructure:"locations"`
	Distance  int      `mapstructure:"distance"`
	Ages      []string `mapstructure:"ages"`
	Sizes     []string `mapstructure:"sizes"`
	Limit     string   `mapstructure:"limit"`
}

type MatchConfig struct {
	FreshnessHours int     `mapstructure:"freshness-hours"`
	MaxDistance    float64 `mapstructure:"max-distance"`
	Top            int     `mapstructure:"top"`
	Workers        int     `mapstructure:"workers"`
}

type ExplainConfig struct {
	LengthCap int `mapstructure:"length-cap"`
}

type PetfinderConfig struct {
	APIKey     string `mapstructure:"api-key"`
	SecretFile string `mapstructure:"secret-file"`
}

type AIConfig struct {
	Enabled  bool            `mapstructure:"enabled"`
	Provider string          `mapstructure:"provider"`
	Gemini   *ProviderConfig `mapstructure:"gemini"`
	OpenAI   *ProviderConfig `mapstructure:"openai"`
}

type ProviderConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "dogmatch is a cli for finding adoptable dogs that match your preferences",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("petfinder.api-key", "PETFINDER_API_KEY"); err != nil {
		log.Fatalf("binding PETFINDER_API_KEY environment variable: %v", err)
	}
	if err := viper.BindEnv("petfinder.secret-file", "PETFINDER_SECRET_FILE"); err != nil {
		log.Fatalf("binding PETFINDER_SECRET_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is dogmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging and reports")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
