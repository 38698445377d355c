package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/engine"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/parser"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/tui"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"p"},
	Short:   "Create and inspect projects",
}

var projectNewCmd = &cobra.Command{
	Use:   "new <theme>",
	Short: "Create a project with one task per template",
	Long: `Create a project. It starts in the first phase and gets one task per
active template.

Examples:
  studio project new "Redstone computer tour"
  studio project new "Iron farm" --due 2025-07-01 --memo "1.21 mechanics"
  studio project new "Villager trading hall" --due "2 weeks"`,
	Args: cobra.MinimumNArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		memo, _ := cmd.Flags().GetString("memo")
		dueInput, _ := cmd.Flags().GetString("due")

		due, err := parser.ParseDueDate(dueInput, time.Now())
		if err != nil {
			return err
		}

		project, err := a.engine.CreateProject(ctx, engine.NewProject{
			Theme: strings.Join(args, " "),
			Memo:  memo,
			Due:   due,
		})
		if err != nil {
			return err
		}
		tasks, err := a.engine.ListTasks(ctx, project.ID, "")
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Created project #%d: %s\n", project.ID, project.Theme)
		printTaskTable(out, tasks)
		return nil
	}),
}

var projectListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List projects, newest first",
	Args:    cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		projects, err := a.engine.ListProjects(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(projects) == 0 {
			fmt.Fprintln(out, "No projects yet. Use 'studio project new \"theme\"' to create one.")
			return nil
		}
		phases, err := phaseNames(ctx, a)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "%-4s %-36s %-18s %s\n", "ID", "THEME", "PHASE", "PROGRESS")
		fmt.Fprintln(out, strings.Repeat("-", 80))
		for _, p := range projects {
			fmt.Fprintf(out, "%-4d %-36s %-18s %s\n",
				p.ID, truncate(p.Theme, 36), truncate(phases.name(p.Status), 18), tui.RenderProgress(p.ProgressRate, 12))
		}
		return nil
	}),
}

var projectShowCmd = &cobra.Command{
	Use:   "show <project-id>",
	Short: "Show a project with its tasks",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := parser.ParseID(args[0])
		if err != nil {
			return err
		}
		project, err := a.engine.GetProject(ctx, id)
		if err != nil {
			return err
		}
		tasks, err := a.engine.ListTasks(ctx, id, "")
		if err != nil {
			return err
		}
		phases, err := phaseNames(ctx, a)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printProject(out, project, phases)
		fmt.Fprintln(out)
		printTaskTable(out, tasks)
		return nil
	}),
}

var projectProgressCmd = &cobra.Command{
	Use:   "progress <project-id>",
	Short: "Recompute a project's progress rate",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := parser.ParseID(args[0])
		if err != nil {
			return err
		}
		rate, err := a.engine.RecomputeProgress(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Project #%d progress: %s\n", id, tui.RenderProgress(rate, 24))
		return nil
	}),
}

var projectAdvanceCmd = &cobra.Command{
	Use:   "advance <project-id>",
	Short: "Apply the first matching phase transition rule",
	Long: `Evaluate the project's transition rules once. Completing a task already
does this; use advance to step through several phases whose rules are met.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := parser.ParseID(args[0])
		if err != nil {
			return err
		}
		res, err := a.engine.EvaluateProjectTransition(ctx, id)
		if err != nil {
			return err
		}
		phases, err := phaseNames(ctx, a)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !res.Transitioned {
			fmt.Fprintf(out, "Project #%d stays in %s: no rule matched\n", id, phases.name(res.NewStatus))
			return nil
		}
		fmt.Fprintf(out, "Project #%d moved from %s to %s (rule #%d)\n",
			id, phases.name(res.PreviousStatus), phases.name(res.NewStatus), res.RuleID)
		return nil
	}),
}

// phaseIndex maps project statuses to phase names
type phaseIndex map[uint]string

func (p phaseIndex) name(status uint) string {
	if n, ok := p[status]; ok {
		return n
	}
	return fmt.Sprintf("status %d", status)
}

func phaseNames(ctx context.Context, a *app) (phaseIndex, error) {
	phases, err := a.engine.ListPhases(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(phaseIndex, len(phases))
	for _, ph := range phases {
		idx[ph.ID] = ph.Name
	}
	return idx, nil
}

func printProject(out io.Writer, p *models.Project, phases phaseIndex) {
	fmt.Fprintf(out, "Project #%d\n", p.ID)
	fmt.Fprintln(out, tui.RenderField("Theme", p.Theme))
	fmt.Fprintln(out, tui.RenderField("Phase", phases.name(p.Status)))
	if p.Memo != "" {
		fmt.Fprintln(out, tui.RenderField("Memo", p.Memo))
	}
	if p.Due != nil {
		fmt.Fprintln(out, tui.RenderField("Due", parser.FormatDueDate(p.Due, time.Now())))
	}
	fmt.Fprintln(out, tui.RenderLabel("Progress")+tui.RenderProgress(p.ProgressRate, 24))
}

func printTaskTable(out io.Writer, tasks []models.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks.")
		return
	}
	fmt.Fprintf(out, "%-5s %-16s %-26s %10s %10s\n", "ID", "STATUS", "TASK", "ACTUAL", "ESTIMATE")
	fmt.Fprintln(out, strings.Repeat("-", 72))
	for _, t := range tasks {
		// status is padded before styling so escapes don't break the columns
		status := fmt.Sprintf("%-16s", tui.StatusIcon(t.Status)+" "+string(t.Status))
		fmt.Fprintf(out, "%-5d %s %-26s %10s %10s\n",
			t.ID,
			tui.StyleStatus(t.Status, status),
			truncate(t.Name, 26),
			tui.FormatMinutes(t.ActualMinutes),
			tui.FormatMinutes(float64(t.EstimateMinutes)))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	projectNewCmd.Flags().StringP("memo", "m", "", "Free-form memo")
	projectNewCmd.Flags().StringP("due", "d", "", "Due date (yyyy-mm-dd, X days, X weeks)")

	projectCmd.AddCommand(projectNewCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectProgressCmd)
	projectCmd.AddCommand(projectAdvanceCmd)
}
