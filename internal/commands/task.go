package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/parser"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/tui"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/workflow"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"t"},
	Short:   "Inspect tasks and change their status",
}

var taskListCmd = &cobra.Command{
	Use:     "ls <project-id>",
	Aliases: []string{"list"},
	Short:   "List a project's tasks",
	Args:    cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := parser.ParseID(args[0])
		if err != nil {
			return err
		}
		var status models.TaskStatus
		if s, _ := cmd.Flags().GetString("status"); s != "" {
			if status, err = parser.ParseStatus(s); err != nil {
				return err
			}
		}

		tasks, err := a.engine.ListTasks(ctx, id, status)
		if err != nil {
			return err
		}
		printTaskTable(cmd.OutOrStdout(), tasks)
		return nil
	}),
}

var taskShowCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show a task with its checklist and timer",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := parser.ParseID(args[0])
		if err != nil {
			return err
		}
		task, err := a.engine.GetTask(ctx, id)
		if err != nil {
			return err
		}
		entries, err := a.engine.GetChecklist(ctx, id)
		if err != nil {
			return err
		}
		timer, err := a.engine.TimerStatus(ctx, id)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printTask(out, task)
		if timer.Running {
			fmt.Fprintln(out, tui.RenderField("Timer", "running for "+tui.FormatMinutes(timer.ElapsedMinutes)))
		}
		fmt.Fprintln(out, tui.RenderLabel("Checklist"))
		fmt.Fprintln(out, tui.RenderChecklist(entries))
		return nil
	}),
}

var taskStatusCmd = &cobra.Command{
	Use:   "status <task-id> <status>",
	Short: "Change a task's status",
	Long: `Change a task's status. Statuses: todo, wip, done (or not_started,
in_progress, completed). A task completes only once every item on its
checklist is checked.

Examples:
  studio task status 4 wip
  studio task status 4 done`,
	Args: cobra.ExactArgs(2),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := parser.ParseID(args[0])
		if err != nil {
			return err
		}
		status, err := parser.ParseStatus(args[1])
		if err != nil {
			return err
		}

		before, err := a.engine.GetTask(ctx, id)
		if err != nil {
			return err
		}
		project, err := a.engine.GetProject(ctx, before.ProjectID)
		if err != nil {
			return err
		}

		task, err := a.engine.TransitionTaskStatus(ctx, id, status)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if before.Status == task.Status {
			fmt.Fprintf(out, "Task #%d is already %s\n", task.ID, tui.RenderStatus(task.Status))
			return nil
		}
		fmt.Fprintf(out, "Task #%d %s: %s -> %s\n", task.ID, task.Name, tui.RenderStatus(before.Status), tui.RenderStatus(task.Status))
		return printProjectChange(ctx, a, out, project)
	}),
}

// printProjectChange reports the progress and phase of a project after one
// of its tasks changed, compared with before
func printProjectChange(ctx context.Context, a *app, out io.Writer, before *models.Project) error {
	after, err := a.engine.GetProject(ctx, before.ID)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, tui.RenderLabel("Project progress")+tui.RenderProgress(after.ProgressRate, 24))
	if after.Status != before.Status {
		phases, err := phaseNames(ctx, a)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Project #%d advanced: %s -> %s\n", after.ID, phases.name(before.Status), phases.name(after.Status))
	}
	return nil
}

func printTask(out io.Writer, t *models.Task) {
	fmt.Fprintf(out, "Task #%d (project #%d)\n", t.ID, t.ProjectID)
	fmt.Fprintln(out, tui.RenderField("Name", t.Name))
	fmt.Fprintln(out, tui.RenderLabel("Status")+tui.RenderStatus(t.Status))
	fmt.Fprintln(out, tui.RenderField("Actual", tui.FormatMinutes(t.ActualMinutes)))
	if t.EstimateMinutes > 0 {
		fmt.Fprintln(out, tui.RenderField("Estimate", tui.FormatMinutes(float64(t.EstimateMinutes))))
	}
	if t.CompletedAt != nil {
		fmt.Fprintln(out, tui.RenderField("Completed", t.CompletedAt.Local().Format("2006-01-02 15:04")))
	}
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Show and tick a task's checklist",
}

var checkListCmd = &cobra.Command{
	Use:     "ls <task-id>",
	Aliases: []string{"list"},
	Short:   "Show a task's checklist",
	Args:    cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := parser.ParseID(args[0])
		if err != nil {
			return err
		}
		entries, err := a.engine.GetChecklist(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tui.RenderChecklist(entries))
		return nil
	}),
}

var checkSetCmd = &cobra.Command{
	Use:   "set <task-id> <item>...",
	Short: "Check or uncheck checklist items",
	Long: `Check or uncheck items on a task's checklist. Items not named keep
their state.

Examples:
  studio check set 4 1 2      # check items 1 and 2
  studio check set 4 1,2,!3   # check 1 and 2, uncheck 3`,
	Args: cobra.MinimumNArgs(2),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := parser.ParseID(args[0])
		if err != nil {
			return err
		}
		updates, err := parser.ParseChecklistUpdates(args[1:])
		if err != nil {
			return err
		}
		entries, err := a.engine.UpdateChecklist(ctx, id, updates)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, tui.RenderChecklist(entries))
		if missing := countUnchecked(entries); missing == 0 {
			fmt.Fprintf(out, "All items checked, task #%d can be completed.\n", id)
		}
		return nil
	}),
}

func countUnchecked(entries []workflow.ChecklistEntry) int {
	n := 0
	for _, e := range entries {
		if !e.Checked {
			n++
		}
	}
	return n
}

func init() {
	taskListCmd.Flags().StringP("status", "s", "", "Filter by status: todo, wip, done")

	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskStatusCmd)

	checkCmd.AddCommand(checkListCmd)
	checkCmd.AddCommand(checkSetCmd)
}
