// Package main provides surveyctl, the operator CLI over the survey record store.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"child-survey/internal/analytics"
	"child-survey/internal/app"
	"child-survey/internal/config"
	"child-survey/internal/domain"
	"child-survey/internal/service"
)

var errSkippedRows = errors.New("store contains unreadable rows")

type globalFlags struct {
	storePath       string
	analyticsConfig string
	verbose         bool
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "surveyctl",
		Short: "Inspect and load the child survey record store",
		Long: `surveyctl works directly on the configured record store (STORE_BACKEND,
STORE_PATH, DATABASE_URL, ANALYTICS_CONFIG are read from the environment or .env).

Examples:
  surveyctl analyze                 # Print the aggregate snapshot
  surveyctl analyze --json --details
  surveyctl verify                  # Exit 1 if any stored row is unreadable
  surveyctl thresholds              # Print the active band tables
  surveyctl import surveys.json     # Append a JSON array of submissions
`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flags.storePath, "store", "", "CSV store path (overrides STORE_PATH)")
	cmd.PersistentFlags().StringVar(&flags.analyticsConfig, "analytics-config", "", "Analytics YAML (overrides ANALYTICS_CONFIG)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log to stderr")

	cmd.AddCommand(analyzeCmd(&flags))
	cmd.AddCommand(verifyCmd(&flags))
	cmd.AddCommand(thresholdsCmd(&flags))
	cmd.AddCommand(importCmd(&flags))
	return cmd
}

// withApp abre el almacenamiento con la configuracion de entorno y los flags globales.
func withApp(cmd *cobra.Command, flags *globalFlags, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flags.storePath != "" {
		cfg.StoreBackend = config.StoreBackendCSV
		cfg.StorePath = flags.storePath
	}
	if flags.analyticsConfig != "" {
		cfg.AnalyticsConfig = flags.analyticsConfig
	}

	logger := zap.NewNop()
	if flags.verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func analyzeCmd(flags *globalFlags) *cobra.Command {
	var (
		details    bool
		outputJSON bool
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Scan the store and print the analysis snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app.App) error {
				snap, err := a.Analysis.Complete(ctx, analytics.Options{IncludeDetails: details})
				if err != nil {
					return err
				}
				if outputJSON {
					return writeJSON(cmd.OutOrStdout(), snap)
				}
				printSnapshot(cmd.OutOrStdout(), snap)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&details, "details", false, "Include per-record background details")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output the snapshot as JSON")
	return cmd
}

func verifyCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Report stored rows that fail schema validation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app.App) error {
				report, err := a.Analysis.Verify(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "valid rows:   %d\n", report.Valid)
				fmt.Fprintf(out, "skipped rows: %d\n", report.Skipped)
				for _, p := range report.Problems {
					fmt.Fprintf(out, "  %s\n", p.Error())
				}
				if report.Skipped > len(report.Problems) {
					fmt.Fprintf(out, "  ... %d more\n", report.Skipped-len(report.Problems))
				}
				if report.Skipped > 0 {
					return errSkippedRows
				}
				return nil
			})
		},
	}
}

func thresholdsCmd(flags *globalFlags) *cobra.Command {
	var outputJSON bool
	cmd := &cobra.Command{
		Use:   "thresholds",
		Short: "Print the active income and sentiment band tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app.App) error {
				tables := a.Analysis.Thresholds()
				if outputJSON {
					return writeJSON(cmd.OutOrStdout(), tables)
				}
				names := make([]string, 0, len(tables))
				for name := range tables {
					names = append(names, name)
				}
				sort.Strings(names)

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				for _, name := range names {
					table := tables[name]
					fmt.Fprintf(tw, "%s\n", name)
					for _, band := range table.Bands {
						if bound, ok := table.UpperBounds[band]; ok {
							fmt.Fprintf(tw, "  %s\tup to %g\n", band, bound)
						} else {
							fmt.Fprintf(tw, "  %s\tabove\n", band)
						}
					}
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output as JSON")
	return cmd
}

func importCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Append a JSON array of submissions through the normal validation path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var items []json.RawMessage
			if err := json.Unmarshal(raw, &items); err != nil {
				return fmt.Errorf("%s: expected a JSON array: %w", args[0], err)
			}

			return withApp(cmd, flags, func(ctx context.Context, a *app.App) error {
				return importSurveys(ctx, cmd.OutOrStdout(), a.Surveys, items)
			})
		},
	}
}

// importSurveys agrega cada elemento en orden. Los invalidos se reportan y se saltan; el
// primer error de almacenamiento corta la carga.
func importSurveys(ctx context.Context, out io.Writer, surveys *service.SurveyService, items []json.RawMessage) error {
	var stored, rejected int
	for i, item := range items {
		in, err := service.DecodeSurveyInput(item)
		if err == nil {
			var rec domain.SurveyRecord
			rec, err = surveys.Submit(ctx, in)
			if err == nil {
				stored++
				fmt.Fprintf(out, "item %d: stored as id %d\n", i+1, rec.ID)
				continue
			}
		}
		var verr *domain.ValidationError
		if errors.As(err, &verr) || errors.Is(err, service.ErrMalformedInput) {
			rejected++
			fmt.Fprintf(out, "item %d: rejected: %v\n", i+1, err)
			continue
		}
		return fmt.Errorf("item %d: %w", i+1, err)
	}
	fmt.Fprintf(out, "imported %d, rejected %d\n", stored, rejected)
	if rejected > 0 {
		return fmt.Errorf("%d submissions rejected", rejected)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSnapshot(w io.Writer, snap domain.AnalysisSnapshot) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "total surveys\t%d\n", snap.TotalSurveys)
	if snap.SkippedRows > 0 {
		fmt.Fprintf(tw, "skipped rows\t%d\n", snap.SkippedRows)
	}

	b := snap.Behavioral
	fmt.Fprintf(tw, "\nbehavioral impact\taverage %.2f\n", b.AverageScore)
	fmt.Fprintf(tw, "  highly positive\t%d\n  positive\t%d\n  neutral\t%d\n  negative\t%d\n  highly negative\t%d\n",
		b.HighlyPositiveCount, b.PositiveCount, b.NeutralCount, b.NegativeCount, b.HighlyNegativeCount)

	bg := snap.Background
	fmt.Fprintf(tw, "\nbackground\taverage %.2f\n", bg.AverageScore)
	fmt.Fprintf(tw, "  positive\t%d\n  neutral\t%d\n  negative\t%d\n", bg.PositiveCount, bg.NeutralCount, bg.NegativeCount)
	for _, d := range bg.Details {
		fmt.Fprintf(tw, "    %s\t%d (%s)\n", d.Background, d.Score, d.Category)
	}

	rm := snap.RoleModel
	fmt.Fprintf(tw, "\nrole models\t%d influential\n", rm.InfluentialCount)
	fmt.Fprintf(tw, "  impact\t+%d / %d / -%d\n", rm.PositiveImpact, rm.NeutralImpact, rm.NegativeImpact)
	for _, tc := range rm.TopTraits {
		fmt.Fprintf(tw, "  %s\t%d\n", tc.Trait, tc.Count)
	}
	if len(rm.ProfessionFrequency) > 0 {
		profs := make([]string, 0, len(rm.ProfessionFrequency))
		for p := range rm.ProfessionFrequency {
			profs = append(profs, p)
		}
		sort.Strings(profs)
		fmt.Fprintf(tw, "  professions\t\n")
		for _, p := range profs {
			fmt.Fprintf(tw, "    %s\t%d\n", p, rm.ProfessionFrequency[p])
		}
	}

	inc := snap.Income
	fmt.Fprintf(tw, "\nfamily income\taverage %.2f\n", inc.AverageIncome)
	fmt.Fprintf(tw, "  below poverty line\t%d\n  low income\t%d\n  below average\t%d\n  average\t%d\n  above average\t%d\n",
		inc.BelowPovertyLine, inc.LowIncome, inc.BelowAverage, inc.Average, inc.AboveAverage)
	_ = tw.Flush()
}
