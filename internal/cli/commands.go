package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"jqdata/internal/model"
	"jqdata/internal/repo"
	"jqdata/pkg/jqdata"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", version)
		},
	}
}

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List the methods accepted by query",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), jqdata.Methods())
		},
	}
}

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Exchange the credential for a token and store it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.HasCredential() {
				return errNoAuth
			}
			c, err := a.newClient(cmd.Context())
			if err != nil {
				return err
			}
			tok := c.Token()

			r, err := repo.NewSQLiteRepo(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer r.Close()
			if err := r.SaveToken(model.StoredToken{Mobile: a.cfg.Mobile, Token: tok.Value, IssuedAt: tok.IssuedAt}); err != nil {
				return err
			}
			a.logger.Info("token stored", zap.String("db", a.cfg.DBPath))
			fmt.Fprintln(cmd.OutOrStdout(), tok.Value)
			return nil
		},
	}
}

func newSecuritiesCmd(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "securities [kind]",
		Short: "List all securities of a kind (default stock)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := jqdata.Stock
			if len(args) == 1 {
				kind = jqdata.SecurityKind(args[0])
			}
			if !kind.Valid() {
				return fmt.Errorf("unknown security kind %q", kind)
			}
			c, err := a.newClient(cmd.Context())
			if err != nil {
				return err
			}
			rows, err := jqdata.Execute(cmd.Context(), c, jqdata.GetAllSecurities{Code: kind, Date: date})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "listing date, defaults to today")
	return cmd
}

func newQueryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "query <method> [key=value...]",
		Short: "Run any catalog method with the given fields",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}
			if _, ok := jqdata.Lookup(args[0]); !ok {
				return fmt.Errorf("%w: %s", jqdata.ErrUnknownMethod, args[0])
			}
			c, err := a.newClient(cmd.Context())
			if err != nil {
				return err
			}
			out, err := c.ExecuteMethod(cmd.Context(), args[0], params)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

// parseParams turns key=value pairs into envelope fields. Integers and
// booleans keep their type.
func parseParams(args []string) (map[string]any, error) {
	params := make(map[string]any, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid field %q, want key=value", arg)
		}
		if n, err := strconv.Atoi(v); err == nil {
			params[k] = n
		} else if v == "true" || v == "false" {
			params[k] = v == "true"
		} else {
			params[k] = v
		}
	}
	return params, nil
}

func newCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Show the remaining query quota for today",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.newClient(cmd.Context())
			if err != nil {
				return err
			}
			n, err := jqdata.Execute(cmd.Context(), c, jqdata.GetQueryCount{})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func newTicksCmd(a *app) *cobra.Command {
	var parallel int
	cmd := &cobra.Command{
		Use:   "ticks <code>...",
		Short: "Fetch the current tick of each code concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.newClient(cmd.Context())
			if err != nil {
				return err
			}

			var (
				mu  sync.Mutex
				out = make(map[string][]jqdata.Tick, len(args))
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(parallel, 1))
			for _, code := range args {
				g.Go(func() error {
					ticks, err := jqdata.Execute(ctx, c, jqdata.GetCurrentTick{Code: code})
					if err != nil {
						return fmt.Errorf("%s: %w", code, err)
					}
					mu.Lock()
					out[code] = ticks
					mu.Unlock()
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), sortedTicks(out))
		},
	}
	cmd.Flags().IntVar(&parallel, "parallel", 4, "maximum concurrent requests")
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent gateway executions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("limit must be positive, got %d", limit)
			}
			r, err := repo.NewSQLiteRepo(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer r.Close()
			execs, err := r.RecentExecutions(limit)
			if err != nil {
				return err
			}
			if execs == nil {
				execs = []model.Execution{}
			}
			return printJSON(cmd.OutOrStdout(), execs)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of executions to show")
	return cmd
}

type codeTicks struct {
	Code  string        `json:"code"`
	Ticks []jqdata.Tick `json:"ticks"`
}

func sortedTicks(m map[string][]jqdata.Tick) []codeTicks {
	out := make([]codeTicks, 0, len(m))
	for code, ticks := range m {
		out = append(out, codeTicks{Code: code, Ticks: ticks})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
