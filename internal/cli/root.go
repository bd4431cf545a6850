package cli

import (
	"crypto/rand"
	"io"
	"strings"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/taurusgroup/sigmaproofs/pkg/math/sample"
	"github.com/taurusgroup/sigmaproofs/pkg/sigma"
)

// Config holds the settings shared by all commands.
type Config struct {
	LogLevel string `mapstructure:"log-level"`
	// Seed makes every run reproducible when set.
	Seed    string `mapstructure:"seed"`
	Workers int    `mapstructure:"workers"`
}

var (
	configFile   string
	globalConfig = &Config{}
)

var rootCmd = &cobra.Command{
	Use:   "sigma",
	Short: "Run interactive Sigma protocol proofs locally",
	Long: `sigma builds composed Sigma protocols from expressions such as

  AND(OR(DL, DL), PEDERSEN, THRESHOLD[2](DL, EQLOGS, DL))

and runs complete proofs over secp256k1, playing both the prover and the
verifier. Settings may come from flags, SIGMA_* environment variables or a
configuration file.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (yaml, toml or json)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("seed", "", "derive all randomness from this seed")
	flags.Int("workers", 0, "concurrent verifications, 0 for one per proof")
	_ = viper.BindPFlags(flags)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(proveCmd)
	rootCmd.AddCommand(multisigCmd)
}

func loadConfig(*cobra.Command, []string) error {
	viper.SetEnvPrefix("SIGMA")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errors.WrapPrefix(err, "reading config", 0)
		}
	}
	if err := viper.Unmarshal(globalConfig); err != nil {
		return errors.WrapPrefix(err, "decoding config", 0)
	}
	level, err := logrus.ParseLevel(globalConfig.LogLevel)
	if err != nil {
		return errors.WrapPrefix(err, "log-level", 0)
	}
	sigma.Logger.SetLevel(level)
	return nil
}

func getConfig() *Config {
	return globalConfig
}

// source returns the randomness used by a command.
func (c *Config) source() io.Reader {
	if c.Seed == "" {
		return rand.Reader
	}
	return sample.NewStream([]byte(c.Seed))
}
