package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/tui"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List phases and the task templates new projects get",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		phases, err := a.engine.ListPhases(ctx)
		if err != nil {
			return err
		}
		templates, err := a.engine.ListTemplates(ctx)
		if err != nil {
			return err
		}
		names, err := phaseNames(ctx, a)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, tui.RenderLabel("Phases"))
		for _, p := range phases {
			fmt.Fprintf(out, "  %d. %s (%s)\n", p.ID, p.Name, p.Key)
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%-4s %-24s %-18s %10s %s\n", "ID", "TEMPLATE", "PHASE", "ESTIMATE", "TIMER")
		fmt.Fprintln(out, strings.Repeat("-", 66))
		for _, t := range templates {
			timer := ""
			if t.TimerTarget {
				timer = "yes"
			}
			fmt.Fprintf(out, "%-4d %-24s %-18s %10s %s\n",
				t.ID, truncate(t.Name, 24), truncate(names.name(t.PhaseID), 18),
				tui.FormatMinutes(float64(t.EstimateMinutes)), timer)
		}
		return nil
	}),
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load master data from a catalog file",
	Long: `Load phases, templates, checklist items and transition rules. Rows are
matched by id, so seeding again updates them in place. Existing projects keep
their task snapshots.

Without --catalog, STUDIO_CATALOG_PATH or the built-in catalog is used.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("catalog")
		if path == "" {
			path = a.cfg.CatalogPath
		}
		counts, err := a.seed(ctx, path)
		if err != nil {
			return err
		}

		source := path
		if source == "" {
			source = "built-in catalog"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded from %s: %d phases, %d templates, %d check items, %d requirements, %d rules\n",
			source, counts.Phases, counts.Templates, counts.CheckItems, counts.Requirements, counts.Rules)
		return nil
	}),
}

func init() {
	seedCmd.Flags().StringP("catalog", "c", "", "Path to a YAML catalog")
}
