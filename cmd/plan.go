package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/floodlab/riskdispatch/config"
	"github.com/floodlab/riskdispatch/core/allocation"
	"github.com/floodlab/riskdispatch/core/model"
	"github.com/floodlab/riskdispatch/core/plan"
	"github.com/floodlab/riskdispatch/infra/registry"
	"github.com/floodlab/riskdispatch/pkg/export"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute a dispatch plan for one forecast",
	RunE:  runPlan,
}

var (
	planPf         float64
	planLeadDays   int
	planUnits      int
	planMode       string
	planMaxPerZone int
	planZonesPath  string
	planFormat     string
	planOut        string
)

func init() {
	planCmd.Flags().Float64Var(&planPf, "forecast-pf", 0, "global flood probability in [0,1]")
	planCmd.Flags().IntVar(&planLeadDays, "lead-days", 1, "forecast lead time in days")
	planCmd.Flags().IntVar(&planUnits, "units", 0, "total response unit budget")
	planCmd.Flags().StringVar(&planMode, "mode", "crisp", "allocation mode: crisp, fuzzy or proportional")
	planCmd.Flags().IntVar(&planMaxPerZone, "max-per-zone", 0, "per-zone unit cap, 0 for unbounded")
	planCmd.Flags().StringVar(&planZonesPath, "zones", "", "zone registry file, overrides the configured path")
	planCmd.Flags().StringVar(&planFormat, "format", "json", "output format: json or csv")
	planCmd.Flags().StringVar(&planOut, "out", "", "output file, stdout when empty")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadOrDefaultConfig()
	if err != nil {
		return err
	}

	zonesPath := cfg.Registry.Path
	format := cfg.Registry.Format
	if planZonesPath != "" {
		zonesPath = planZonesPath
		format = ""
	}
	reg, err := registry.Load(zonesPath, format)
	if err != nil {
		return fmt.Errorf("zone registry: %w", err)
	}

	mode, err := allocation.ParseMode(planMode)
	if err != nil {
		return err
	}
	req := allocation.Request{TotalUnits: planUnits, Mode: mode, MaxUnitsPerZone: planMaxPerZone}
	forecast := model.ForecastInput{GlobalPf: planPf, LeadTimeDays: planLeadDays, ForecastDate: time.Now().UTC()}

	engine, err := plan.NewEngine(cfg.Engine.Plan())
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	p, err := engine.ComputePlan(forecast, reg.Zones(), req)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if planOut != "" {
		f, err := os.Create(planOut)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "close %s: %v\n", planOut, cerr)
			}
		}()
		w = f
	}
	switch planFormat {
	case "json":
		return export.WriteJSON(w, p)
	case "csv":
		return export.WriteCSV(w, p)
	default:
		return fmt.Errorf("unknown output format %q", planFormat)
	}
}

// loadOrDefaultConfig reads the configuration file, falling back to the
// default tuning when the file does not exist and the run can proceed
// without it.
func loadOrDefaultConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		def := &config.Config{}
		def.SetDefaults()
		return def, nil
	}
	return nil, fmt.Errorf("load config: %w", err)
}
