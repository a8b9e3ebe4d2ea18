package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/dogfinder/dogmatch/internal/breed"
	"github.com/dogfinder/dogmatch/internal/explain"
	"github.com/dogfinder/dogmatch/internal/facts"
	"github.com/dogfinder/dogmatch/internal/logger"
	"github.com/dogfinder/dogmatch/internal/petfinder"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [text]",
	Short: "Verify and repair explanation text against a fact pack",
	Long: "Runs the explanation verifier on arbitrary text without searching or scoring. " +
		"The fact pack is a JSON file with prefs, dog_traits and banned lists; " +
		"the repaired text is printed to stdout.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		verify(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringP("facts", "f", "", "a JSON file with the fact pack (required)")
	verifyCmd.Flags().String("dog", "", "a JSON file with the dog listing (optional)")
	verifyCmd.Flags().Int("length-cap", 0, "maximum explanation length in characters")

	if err := verifyCmd.MarkFlagRequired("facts"); err != nil {
		log.Fatalf("marking facts flag required: %v", err)
	}
}

func verify(cmd *cobra.Command, text string) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	factsFile := cmd.Flag("facts").Value.String()
	pack, err := loadPack(factsFile)
	if err != nil {
		logger.Fatal("loading the fact pack", zap.Error(err))
	}

	var dog *petfinder.Dog
	if dogFile := cmd.Flag("dog").Value.String(); dogFile != "" {
		dog, err = loadDog(dogFile)
		if err != nil {
			logger.Fatal("loading the dog listing", zap.Error(err))
		}
	}

	dict := breed.DefaultDictionary()
	priors := breed.DefaultPriors(dict)

	limit, err := cmd.Flags().GetInt("length-cap")
	if err != nil {
		logger.Fatal("reading the length-cap flag", zap.Error(err))
	}

	result := explain.Verify(text, pack, dog, priors, explain.Options{LengthCap: limit})

	if !result.OK {
		logger.Info("text repaired", zap.Strings("repairs", result.Errors))
	}

	fmt.Fprintln(os.Stdout, result.Fixed)
}

func loadPack(path string) (*facts.Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fact pack file %q: %w", path, err)
	}

	var pack facts.Pack
	if err := json.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("parsing fact pack file %q: %w", path, err)
	}

	if len(pack.Banned) == 0 {
		pack.Banned = facts.BannedClaims
	}

	return &pack, nil
}

func loadDog(path string) (*petfinder.Dog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dog file %q: %w", path, err)
	}

	var dog petfinder.Dog
	if err := json.Unmarshal(data, &dog); err != nil {
		return nil, fmt.Errorf("parsing dog file %q: %w", path, err)
	}

	return &dog, nil
}
