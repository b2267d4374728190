package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/debtsim/debtsim/internal/calculation"
	"github.com/debtsim/debtsim/internal/compare"
	"github.com/debtsim/debtsim/internal/config"
	"github.com/debtsim/debtsim/internal/optimize"
	"github.com/debtsim/debtsim/internal/output"
	"github.com/debtsim/debtsim/internal/whatif"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "debtsim",
	Short: "Debt payoff scenario simulator",
	Long:  "Simulates multi-debt payoff schedules under snowball, avalanche, and custom strategies, with what-if events",
}

func newEngine(cmd *cobra.Command) *calculation.Engine {
	engine := calculation.NewEngine()
	if capitalize, _ := cmd.Flags().GetBool("capitalize-interest"); capitalize {
		engine.InterestPolicy = calculation.Capitalizing
	}
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		engine.SetLogger(simpleCLILogger{})
	}
	return engine
}

func loadPlan(path string) (*config.PlanConfig, error) {
	parser := config.NewInputParser()
	return parser.LoadFromFile(path)
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [plan-file]",
	Short: "Simulate a payoff plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		input, err := plan.SimulationInput()
		if err != nil {
			return err
		}

		// Extra events from the command line, e.g.
		// --event "extra_payment:month=3,debt=visa,amount=500"
		specs, _ := cmd.Flags().GetStringArray("event")
		if len(specs) > 0 {
			registry := whatif.NewRegistry()
			events, err := registry.ParseEventSpecs(specs)
			if err != nil {
				return err
			}
			input.Events = append(input.Events, events...)
		}

		scenario, err := newEngine(cmd).Simulate(input)
		if err != nil {
			return err
		}
		scenario.ScenarioID = uuid.NewString()

		formatName, _ := cmd.Flags().GetString("format")
		formatter := output.GetFormatterByName(formatName)
		if formatter == nil {
			return fmt.Errorf("unknown format %q, available: %v", formatName, output.FormatterNames())
		}
		data, err := formatter.Format(scenario)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare [plan-file]",
	Short: "Compare snowball and avalanche and recommend a strategy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}

		rec, err := compare.RecommendStrategy(newEngine(cmd), plan.Debts, plan.Plan.MonthlyBudget, plan.Plan.StartDate)
		if err != nil {
			return err
		}
		fmt.Print(output.RenderRecommendation(rec))
		return nil
	},
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize [plan-file]",
	Short: "Find the smallest budget that meets a payoff target",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		input, err := plan.SimulationInput()
		if err != nil {
			return err
		}

		targetMonths, _ := cmd.Flags().GetInt("target-months")
		maxBudgetStr, _ := cmd.Flags().GetString("max-budget")
		maxBudget, err := decimal.NewFromString(maxBudgetStr)
		if err != nil {
			return fmt.Errorf("invalid max-budget value: %w", err)
		}

		req := optimize.Request{
			Debts:            plan.Debts,
			Strategy:         input.Strategy,
			StartDate:        plan.Plan.StartDate,
			Goal:             optimize.GoalMaxBudget,
			MaxMonthlyBudget: maxBudget,
		}
		if targetMonths > 0 {
			req.Goal = optimize.GoalTargetMonths
			req.TargetMonths = targetMonths
		}

		solver := optimize.NewDefaultSolver(newEngine(cmd))
		res, err := solver.Optimize(context.Background(), req)
		if err != nil {
			return err
		}
		fmt.Print(output.RenderOptimization(res))
		return nil
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the what-if event types usable with --event",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range whatif.NewRegistry().List() {
			fmt.Println(name)
		}
	},
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "debtsim %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Version)
			}
		},
	}
}

func main() {
	simulateCmd.Flags().String("format", "console", "output format: console, console-verbose, json")
	simulateCmd.Flags().StringArray("event", nil, "extra what-if event spec, repeatable (name:key=value,...)")

	optimizeCmd.Flags().Int("target-months", 0, "payoff horizon to hit (0 uses the full max budget)")
	optimizeCmd.Flags().String("max-budget", "0", "largest affordable monthly budget")
	_ = optimizeCmd.MarkFlagRequired("max-budget")

	for _, c := range []*cobra.Command{simulateCmd, compareCmd, optimizeCmd} {
		c.Flags().Bool("debug", false, "log engine diagnostics")
		c.Flags().Bool("capitalize-interest", false, "capitalize unpaid interest onto balances")
	}

	rootCmd.AddCommand(simulateCmd, compareCmd, optimizeCmd, eventsCmd, versionCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
