package main

import (
	"fmt"
	"io"
	"strings"

	"dario.cat/mergo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"automapper/options"
	"automapper/primitive"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "automap",
		Short: "Convention based object mapper",
		Long: `automap maps values between structurally similar Go types.

Settings come from flags, AUTOMAP_* environment variables (AUTOMAP_LOG_LEVEL,
AUTOMAP_CONVERSIONS, AUTOMAP_NORMALIZE) or a config file given with --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.String("log-level", "warn", "Log level: debug, info, warn, error")
	flags.StringSlice("conversions", []string{"default"}, "Enabled conversion categories, e.g. default,text-number,datetime")
	flags.Bool("normalize", false, "Match member names ignoring case and separators")
	flags.String("config", "", "Config file (yaml, json or toml)")

	cmd.AddCommand(newDemoCommand(), newCheckCommand())

	return cmd
}

type settings struct {
	Verbose     bool
	LogLevel    string
	Conversions []string
	Normalize   bool
}

// loadSettings merges flags, environment and config file, in that order of
// precedence.
func loadSettings(cmd *cobra.Command) (settings, error) {
	v := viper.New()
	v.SetEnvPrefix("AUTOMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return settings{}, fmt.Errorf("bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return settings{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	s := settings{
		Verbose:     v.GetBool("verbose"),
		LogLevel:    v.GetString("log-level"),
		Conversions: v.GetStringSlice("conversions"),
		Normalize:   v.GetBool("normalize"),
	}

	// blank values from the environment or the config file fall back to defaults
	if err := mergo.Merge(&s, defaultSettings()); err != nil {
		return settings{}, fmt.Errorf("apply defaults: %w", err)
	}

	return s, nil
}

func defaultSettings() settings {
	return settings{
		LogLevel:    "warn",
		Conversions: []string{"default"},
	}
}

func (s settings) logger(w io.Writer) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if s.LogLevel != "" {
		var err error
		if level, err = zapcore.ParseLevel(s.LogLevel); err != nil {
			return nil, err
		}
	}

	if s.Verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		level,
	)

	return zap.New(core), nil
}

// mapperOptions turns the settings into mapper options.
func (s settings) mapperOptions(w io.Writer) ([]options.Option, error) {
	categories, err := primitive.ParseCategories(s.Conversions...)
	if err != nil {
		return nil, err
	}

	logger, err := s.logger(w)
	if err != nil {
		return nil, err
	}

	opts := []options.Option{
		options.WithConversions(categories),
		options.WithLogger(logger),
		options.WithMissHandler(func(m options.Miss) {
			logger.Info("conversion miss", zap.String("pair", m.Pair), zap.String("member", m.Member), zap.String("reason", m.Reason))
		}),
	}

	if s.Normalize {
		opts = append(opts, options.WithNameNormalization())
	}

	return opts, nil
}
