package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dogfinder/dogmatch/internal/ai"
	"github.com/dogfinder/dogmatch/internal/ai/gemini"
	"github.com/dogfinder/dogmatch/internal/ai/openai"
	"github.com/dogfinder/dogmatch/internal/breed"
	"github.com/dogfinder/dogmatch/internal/explain"
	"github.com/dogfinder/dogmatch/internal/facts"
	"github.com/dogfinder/dogmatch/internal/logger"
	"github.com/dogfinder/dogmatch/internal/match"
	"github.com/dogfinder/dogmatch/internal/petfinder"
	"github.com/dogfinder/dogmatch/internal/prefs"
	"github.com/dogfinder/dogmatch/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	PromptShowReport      = "Show the ranked report"
	PromptReportByShelter = "Report by shelter"
	PromptDogsToFile      = "Dump ranked dogs to file"
	PromptExit            = "Exit"

	defaultTop = 10
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowReport, PromptReportByShelter, PromptDogsToFile, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the dogmatch main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "print the report and exit without the action menu")
	runCmd.Flags().StringP("input-file", "i", "", "read dogs from a JSON dump instead of the live API")
	runCmd.Flags().IntP("top", "t", 0, "how many ranked dogs to report (overrides match.top)")

	viper.BindPFlag("input-file", runCmd.Flags().Lookup("input-file"))
	viper.BindPFlag("match.top", runCmd.Flags().Lookup("top"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the dogmatch", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	dict := breed.DefaultDictionary()
	resolver, err := breed.NewResolver(dict)
	if err != nil {
		logger.Fatal("building the breed resolver", zap.Error(err))
	}
	priors := breed.DefaultPriors(dict)

	raw := prefs.RawPreferences{}
	if config.Preferences != nil {
		raw = *config.Preferences
	}
	effective, err := prefs.Normalize(raw, resolver)
	if err != nil {
		logger.Fatal("normalizing preferences", zap.Error(err))
	}

	dogs, offline, err := getDogs(ctx, config, logger)
	if err != nil {
		logger.Fatal("getting available dogs", zap.Error(err))
	}

	logger.Info("getting dogs", zap.Int("count", dogs.Len()))

	if dogs.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no dogs found"))
		return
	}

	matchCfg, steps := prepareFilters(config, offline)

	deps := match.Deps{
		Logger:   logger,
		Resolver: resolver,
		Prefs:    effective,
	}

	filtered, err := match.Run(ctx, matchCfg, deps, steps, dogs)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}
	dogs = filtered

	if dogs.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no dogs left after filters"))
		return
	}

	workers := 0
	if config.Match != nil {
		workers = config.Match.Workers
	}
	analyses := match.ScoreAll(ctx, dogs, effective, priors, resolver, workers)
	top := match.Top(analyses, topCount(config))

	explainer := prepareExplainer(ctx, config.AI, logger)
	annotate(ctx, top, dogs, effective, priors, explainer, lengthCap(config), logger)

	logger.Info("ranking done",
		zap.Int("scored", len(analyses)),
		zap.Int("reported", len(top)),
	)

	if cmd.Flag("auto-approve").Value.String() == "true" {
		if err := printReport(top, viper.GetBool("json")); err != nil {
			logger.Fatal("rendering report", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, top, dogs, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, top []*match.Analysis, dogs *petfinder.Dogs, logger *zap.Logger) error {
	switch action {
	case PromptShowReport:
		return printReport(top, viper.GetBool("json"))
	case PromptReportByShelter:
		pretty, _ := json.MarshalIndent(topDogs(top, dogs).ReportByShelter(), "", "  ")
		logger.Info(string(pretty), zap.Int("dogs count", len(top)))
		return nil
	case PromptDogsToFile:
		filename, err := topDogs(top, dogs).DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// annotate attaches a verified explanation to each ranked analysis. Provider
// failures fall back to the locally generated sentence; the verifier runs on
// both paths.
func annotate(ctx context.Context, top []*match.Analysis, dogs *petfinder.Dogs, p *prefs.EffectivePreferences, priors *breed.Priors, explainer ai.Explainer, limit int, logger *zap.Logger) {
	for _, analysis := range top {
		dog := dogs.FindByID(analysis.DogID)
		if dog == nil {
			continue
		}

		pack := facts.Build(p, dog)

		text := ""
		if explainer != nil {
			candidate, err := explainer.Explain(ctx, pack, dog)
			if err != nil {
				logger.Warn("falling back to the local explanation",
					zap.String("dog_id", dog.ID),
					zap.Error(err),
				)
			} else {
				text = candidate.Text
			}
		}
		if text == "" {
			text = explain.Fallback(pack, dog, priors)
		}

		result := explain.Verify(text, pack, dog, priors, explain.Options{LengthCap: limit})
		if !result.OK {
			logger.Debug("explanation repaired",
				zap.String("dog_id", dog.ID),
				zap.Strings("repairs", result.Errors),
			)
		}

		analysis.Explanation = result.Fixed
	}
}

func printReport(top []*match.Analysis, asJSON bool) error {
	var out []byte
	var err error
	if asJSON {
		out, err = json.MarshalIndent(top, "", "  ")
	} else {
		out, err = yaml.Marshal(top)
	}
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	fmt.Fprintln(os.Stdout, string(out))
	return nil
}

func topDogs(top []*match.Analysis, dogs *petfinder.Dogs) *petfinder.Dogs {
	result := &petfinder.Dogs{}
	for _, analysis := range top {
		if dog := dogs.FindByID(analysis.DogID); dog != nil {
			result.Items = append(result.Items, dog)
		}
	}
	return result
}

// getDogs returns the dog listings, either from the live API or an offline
// JSON dump. The second return reports offline mode so the freshness filter
// can be skipped for archived dumps.
func getDogs(ctx context.Context, config *Config, logger *zap.Logger) (*petfinder.Dogs, bool, error) {
	if inputFile := viper.GetString("input-file"); inputFile != "" {
		dogs, err := petfinder.LoadDogsFromFile(inputFile)
		if err != nil {
			return nil, false, fmt.Errorf("load dogs from %s: %w", inputFile, err)
		}
		logger.Info("loaded dogs from file", zap.String("filename", inputFile))
		return dogs, true, nil
	}

	if config.Search == nil || len(config.Search.Locations) == 0 {
		return nil, false, errors.New("at least one search location is required")
	}

	apiKey, secret, err := resolveProviderCredentials(config)
	if err != nil {
		return nil, false, err
	}

	client := petfinder.New(ctx, logger, apiKey, secret)

	params := &petfinder.SearchParams{
		Distance: config.Search.Distance,
		Ages:     config.Search.Ages,
		Sizes:    config.Search.Sizes,
		Limit:    config.Search.Limit,
	}

	dogs, err := client.SearchMany(config.Search.Locations, params)
	if err != nil {
		return nil, false, fmt.Errorf("search: %w", err)
	}

	client.AttachOrganizations(dogs)

	return dogs, false, nil
}

func resolveProviderCredentials(config *Config) (apiKey, secret string, err error) {
	pf := config.Petfinder
	if pf == nil {
		pf = &PetfinderConfig{}
	}

	apiKey = strings.TrimSpace(pf.APIKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(viper.GetString("petfinder.api-key"))
	}
	if apiKey == "" {
		return "", "", errors.New("petfinder api key is not configured (set petfinder.api-key or PETFINDER_API_KEY)")
	}

	secretFile := strings.TrimSpace(pf.SecretFile)
	if secretFile == "" {
		secretFile = strings.TrimSpace(viper.GetString("petfinder.secret-file"))
	}

	secret, err = secrets.Load(secrets.Source{
		Name: "petfinder api secret",
		File: secretFile,
		Env:  "PETFINDER_SECRET",
	})
	if err != nil {
		return "", "", fmt.Errorf("%w (set petfinder.secret-file, PETFINDER_SECRET_FILE or PETFINDER_SECRET)", err)
	}

	return apiKey, secret, nil
}

func prepareFilters(config *Config, offline bool) (*match.Config, []match.Filter) {
	cfg := &match.Config{}
	if config.Match != nil {
		cfg.FreshnessHours = config.Match.FreshnessHours
		cfg.MaxDistance = config.Match.MaxDistance
	}

	steps := match.DefaultFilters()
	if offline {
		match.DisableByName(steps, "freshness", "offline input file")
	}

	return cfg, steps
}

func topCount(config *Config) int {
	if config.Match != nil && config.Match.Top > 0 {
		return config.Match.Top
	}
	return defaultTop
}

func lengthCap(config *Config) int {
	if config.Explain != nil && config.Explain.LengthCap > 0 {
		return config.Explain.LengthCap
	}
	return explain.DefaultLengthCap
}

func prepareExplainer(ctx context.Context, cfg *AIConfig, log *zap.Logger) ai.Explainer {
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	explainer, err := newExplainer(ctx, cfg, log)
	if err != nil {
		log.Warn("disabling ai explanations", zap.Error(err))
		return nil
	}

	return explainer
}

func newExplainer(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Explainer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))

	switch provider {
	case "", "gemini":
		if cfg.Gemini == nil {
			return nil, errors.New("gemini configuration is required when ai explanations are enabled")
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name: "gemini api key",
			File: cfg.Gemini.APIKeyFile,
			Env:  "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
		}

		generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
		if err != nil {
			return nil, err
		}

		providerLogger := logger.WithCommonFields(log, "gemini", generator.Model())

		return gemini.NewExplainer(generator, providerLogger, cfg.Gemini.MaxRetries, cfg.Gemini.MaxLogLength), nil

	case "openai":
		if cfg.OpenAI == nil {
			return nil, errors.New("openai configuration is required when ai explanations are enabled")
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name: "openai api key",
			File: cfg.OpenAI.APIKeyFile,
			Env:  "OPENAI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.openai.api-key-file or OPENAI_API_KEY)", err)
		}

		generator, err := openai.NewGenerator(apiKey, cfg.OpenAI.Model)
		if err != nil {
			return nil, err
		}

		providerLogger := logger.WithCommonFields(log, "openai", generator.Model())

		return openai.NewExplainer(generator, providerLogger, cfg.OpenAI.MaxRetries, cfg.OpenAI.MaxLogLength), nil

	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}
