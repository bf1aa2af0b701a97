package cmd

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cmmoran/argen/pkg/generator"
)

const levelTrace = slog.Level(-8)

var (
	configFiles    []string
	level, version string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "argen",
	Short: "reflection code generator for AGEA modules",
	Long: "argen scans module headers annotated with AGEA_ar_* markers and generates " +
		"the reflection registration, Lua bindings and global type tables of the module.",
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&level, "level", "l", "info", "log level (trace, debug, info, warn, error, debug+1, etc)")
	rootCmd.PersistentFlags().StringSliceVar(&configFiles, "config", []string{}, "config file(s) - multiple config files are merged with last specified file having highest priority")
}

func parseLevel(s string) (slog.Level, error) {
	if strings.EqualFold(s, "trace") {
		return levelTrace, nil
	}
	var ll slog.Level
	if err := (&ll).UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level: %s", s)
	}
	return ll, nil
}

func setLogger(ll slog.Level) *slog.Logger {
	l := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       ll,
		ReplaceAttr: nil,
	}))
	slog.SetDefault(l)
	return l
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	ll, err := parseLevel(level)
	if err != nil {
		panic(err.Error())
	}
	l := setLogger(ll)

	if len(configFiles) > 0 {
		// Use config file from the flag.
		viper.SetConfigFile(configFiles[0])
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("argen")
	}

	viper.SetEnvPrefix("ARGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		l.With("config", viper.ConfigFileUsed()).Debug("using config file(s)")
	} else {
		l.With("error", err, "config", viper.ConfigFileUsed()).Debug("unable to use config file(s)")
	}
	if len(configFiles) > 1 {
		for _, file := range configFiles[1:] {
			if configBytes, err := os.ReadFile(file); err == nil {
				if err = viper.MergeConfig(bytes.NewReader(configBytes)); err != nil {
					l.With("error", err, "file", file).Warn("failed to merge config file")
				} else {
					l.With("file", file).Debug("merged config file")
				}
			}
		}
	}
	if len(version) > 0 {
		viper.Set("version", version)
	}

	// common.log.level from a config file applies when --level was not given.
	if llstr := viper.GetString("common.log.level"); llstr != "" && !rootCmd.PersistentFlags().Changed("level") {
		ll, err := parseLevel(llstr)
		if err != nil {
			panic(err.Error())
		}
		setLogger(ll)
	}
}

// optionFlags registers the generator flags shared by generate, check and
// watch. Keys follow the mapstructure tags of generator.Options.
func optionFlags(fs *pflag.FlagSet) {
	fs.String("package-name", "", "module being generated, e.g. root")
	fs.String("namespace", "", "enclosing C++ namespace of the module, e.g. agea")
	fs.StringP("source", "s", ".", "root directory the config list entries are relative to")
	fs.StringP("output", "o", ".", "root directory of the generated tree")
	fs.StringP("config-list", "c", "", "file listing the module headers, one per line")
	fs.StringSliceP("exclude", "x", []string{}, "glob pattern removing headers from the config list (repeatable)")
	fs.String("manifest", "", "manifest of generated files (default <output>/packages/<module>/argen.manifest.yaml)")
}

var optionKeys = map[string]string{
	"package_name": "package-name",
	"namespace":    "namespace",
	"source":       "source",
	"output":       "output",
	"config_list":  "config-list",
	"exclude":      "exclude",
	"manifest":     "manifest",
}

// loadOptions binds the flags of c to viper and decodes the merged flag,
// env and config file values into generator options.
func loadOptions(c *cobra.Command) (*generator.Options, error) {
	for key, flag := range optionKeys {
		if err := viper.BindPFlag(key, c.Flags().Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	opts := generator.NewOptions()
	if err := viper.Unmarshal(opts); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	return opts, nil
}
