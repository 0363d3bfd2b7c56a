package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"jqdata/config"
	"jqdata/internal/model"
	"jqdata/internal/repo"
	"jqdata/pkg/jqdata"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
	logger     *zap.Logger
}

// New builds the root command.
func New(version string) *cobra.Command {
	a := &app{v: config.New(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "jqdata",
		Short:         "Query the JQData financial data service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (yaml, toml or json)")
	pf.String("base-url", jqdata.DefaultBaseURL, "service endpoint")
	pf.String("mobile", "", "account mobile number")
	pf.String("password", "", "account password")
	pf.String("token", "", "use this token instead of logging in")
	pf.Bool("fresh-token", false, "request a new token instead of the current one")
	pf.Duration("timeout", 0, "per-request timeout")
	pf.String("db", "", "sqlite database path")
	pf.String("log-level", "", "debug, info, warn or error")
	pf.String("log-format", "", "console or json")
	for key, flag := range map[string]string{
		"base_url":    "base-url",
		"mobile":      "mobile",
		"password":    "password",
		"token":       "token",
		"fresh_token": "fresh-token",
		"timeout":     "timeout",
		"db_path":     "db",
		"log.level":   "log-level",
		"log.format":  "log-format",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		newVersionCmd(version),
		newMethodsCmd(),
		newLoginCmd(a),
		newSecuritiesCmd(a),
		newQueryCmd(a),
		newCountCmd(a),
		newTicksCmd(a),
		newHistoryCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg, a.logger = cfg, logger
	return nil
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zc.Level = level
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}

var errNoAuth = errors.New("no credential or token configured: set --mobile and --password, --token, or run login first")

func (a *app) clientOptions() []jqdata.Option {
	opts := []jqdata.Option{
		jqdata.WithBaseURL(a.cfg.BaseURL),
		jqdata.WithTimeout(a.cfg.Timeout),
		jqdata.WithLogger(a.logger.Named("jqdata")),
	}
	if a.cfg.FreshToken {
		opts = append(opts, jqdata.WithFreshToken())
	}
	return opts
}

// newClient logs in with the configured credential, falling back to a
// configured token and then to the token stored by login for --mobile.
func (a *app) newClient(ctx context.Context) (*jqdata.Client, error) {
	switch {
	case a.cfg.HasCredential():
		return jqdata.NewWithCredential(ctx, a.cfg.Mobile, a.cfg.Password, a.clientOptions()...)
	case a.cfg.Token != "":
		return jqdata.NewWithToken(a.cfg.Token, a.clientOptions()...), nil
	case a.cfg.Mobile != "":
		tok, err := a.storedToken()
		if err != nil {
			return nil, err
		}
		if tok != nil {
			a.logger.Debug("using stored token", zap.Time("issued_at", tok.IssuedAt))
			return jqdata.NewWithToken(tok.Token, a.clientOptions()...), nil
		}
	}
	return nil, errNoAuth
}

func (a *app) storedToken() (*model.StoredToken, error) {
	r, err := repo.NewSQLiteRepo(a.cfg.DBPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.LoadToken(a.cfg.Mobile)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
