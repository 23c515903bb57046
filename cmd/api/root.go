package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lmi-dashboard/lmi-dashboard/internal/appconf"
)

var (
	// Version of this software - filled in by ldflags.
	Version string
	// BuildTime of this software - filled in by ldflags.
	BuildTime string
)

const envPrefix = "LMI"

func setupVersionBuild() {
	if Version == "" {
		Version = "v0.0.0"
	}
	if BuildTime == "" {
		BuildTime = "not recorded"
	}
}

// options holds the flag targets shared by every subcommand.
type options struct {
	config     appconf.Config
	env        string
	configFile string
}

// appConfig returns the configuration after flags, environment and config
// file have been applied.
func (o *options) appConfig() appconf.Config {
	cfg := o.config
	cfg.Env = appconf.EnvFlagToEnvironment(o.env)
	cfg.DataURL = strings.TrimSpace(cfg.DataURL)
	cfg.MountPage = strings.TrimSpace(cfg.MountPage)
	keys := make([]string, 0, len(cfg.ApiKeys))
	for _, key := range cfg.ApiKeys {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	cfg.ApiKeys = keys
	return cfg
}

// NewRootCommand creates the top level command with the serve and summary
// subcommands.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	setupVersionBuild()
	opts := &options{config: appconf.Default()}

	rc := &cobra.Command{
		Use:   "lmi",
		Short: "lmi - labor market job posting dashboard",
		Long: `Loads a job posting CSV, ranks employers and regions by posting
count and serves the chart data to dashboard renderers.

Version: ` + Version + `
Build Time: ` + BuildTime + "\n",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			return setAllConfig(v, cmd.Flags(), envPrefix)
		},
	}

	flags := rc.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "YAML configuration file.")
	flags.StringVar(&opts.env, "env", "development", "Environment (development|test|production).")
	flags.StringVar(&opts.config.DataURL, "data-url", "", "Dataset location: http(s) URL, s3://bucket/key or file path.")
	flags.StringVar(&opts.config.MountPage, "mount-page", "", "Host page (URL or file) whose #lmi-dashboard-root data-csv-url is used when data-url is empty.")
	flags.DurationVar(&opts.config.LoadTimeout, "load-timeout", opts.config.LoadTimeout, "Timeout for one dataset load.")
	flags.IntVar(&opts.config.TopN, "top-n", opts.config.TopN, "Entries kept in each ranking.")
	flags.IntVar(&opts.config.LabelMax, "label-max", opts.config.LabelMax, "Default width for truncated chart labels.")
	flags.StringVar(&opts.config.Locale, "locale", opts.config.Locale, "Locale used for number formatting.")
	flags.StringVar(&opts.config.LogLevel, "log-level", opts.config.LogLevel, "Log level (debug|info|warn|error).")
	flags.StringVar(&opts.config.S3Region, "s3-region", opts.config.S3Region, "AWS region for s3:// datasets.")

	rc.AddCommand(
		newServeCommand(opts, stdout),
		newSummaryCommand(opts, stdout, stderr),
	)
	rc.SetIn(stdin)
	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}

// setAllConfig takes a FlagSet to be the definition of all configuration
// options, as well as their defaults. It then reads from the command line, the
// environment, and a config file (if specified), and applies the configuration
// in that priority order. Since each flag in the set contains a pointer to
// where its value should be stored, setAllConfig can directly modify the value
// of each config variable.
//
// setAllConfig looks for environment variables which are capitalized versions
// of the flag names with dashes replaced by underscores, and prefixed with
// envPrefix plus an underscore.
func setAllConfig(v *viper.Viper, flags *pflag.FlagSet, envPrefix string) error {
	if err := v.BindPFlags(flags); err != nil {
		return err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if c := v.GetString("config"); c != "" {
		v.SetConfigFile(c)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading configuration file '%s': %w", c, err)
		}
	}

	var flagErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if flagErr != nil || f.Changed {
			// Flags set on the command line win, and setting a slice flag
			// again would append to it.
			return
		}

		var value string
		if f.Value.Type() == "stringSlice" {
			// A list in the config file is not readable with GetString.
			value = strings.Join(v.GetStringSlice(f.Name), ",")
		} else {
			value = v.GetString(f.Name)
		}

		if err := f.Value.Set(value); err != nil {
			flagErr = fmt.Errorf("invalid value %q for %s: %w", value, f.Name, err)
		}
	})
	return flagErr
}
