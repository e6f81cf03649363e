package main

import (
	"fmt"
	"io"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/rosu-bridge/bridge"
)

// app is the state shared by every command.
type app struct {
	v       *viper.Viper
	cfgFile string
	log     *zap.Logger
	out     io.Writer
	bridge  *bridge.Bridge
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: zap.NewNop()}

	root := &cobra.Command{
		Use:           "rosu",
		Short:         "osu! performance calculator and collection editor",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.out = cmd.OutOrStdout()
			if err := a.initConfig(); err != nil {
				return err
			}
			log, err := a.newLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.log = log
			a.bridge = bridge.New(bridge.WithLogger(log))
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			_ = a.log.Sync()
			if a.bridge != nil {
				return a.bridge.Close()
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.rosu.yaml)")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	flags.String("log-format", "console", "log format: console or json")
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", flags.Lookup("log-format"))

	root.AddCommand(
		newCalcCmd(a),
		newReplayCmd(a),
		newGradualCmd(a),
		newCollectionCmd(a),
	)
	return root
}

// initConfig reads the config file and ROSU_ environment variables.
func (a *app) initConfig() error {
	a.v.SetDefault("collection.version", 0)
	a.v.SetEnvPrefix("ROSU")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return fmt.Errorf("home directory: %w", err)
		}
		a.v.AddConfigPath(home)
		a.v.SetConfigName(".rosu")
		a.v.SetConfigType("yaml")
	}

	if err := a.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && a.cfgFile == "" {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func (a *app) newLogger(w io.Writer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(a.v.GetString("log.level"))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var enc zapcore.Encoder
	switch format := a.v.GetString("log.format"); format {
	case "json":
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case "console", "":
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return zap.New(core), nil
}
