package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/apperr"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/engine"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/parser"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start <task-id>",
	Short: "Start the timer on a task",
	Long: `Start the timer on a task. Opens the live timer by default, use --no-ui
for a plain start. A task that has not started moves to in progress.

Examples:
  studio start 4          # start with the live timer
  studio start 4 --no-ui  # start and return`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := parser.ParseID(args[0])
		if err != nil {
			return err
		}
		task, err := a.engine.GetTask(ctx, id)
		if err != nil {
			return err
		}
		project, err := a.engine.GetProject(ctx, task.ProjectID)
		if err != nil {
			return err
		}

		session, err := a.engine.StartTimer(ctx, id)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		noUI, _ := cmd.Flags().GetBool("no-ui")
		if noUI {
			fmt.Fprintf(out, "Started timer for task #%d: %s\n", task.ID, task.Name)
			fmt.Fprintln(out, tui.RenderField("Started at", session.StartedAt.Local().Format(time.TimeOnly)))
			return printProjectChange(ctx, a, out, project)
		}

		view, err := timerView(ctx, a, id)
		if err != nil {
			return err
		}
		view.Session = *session
		// The live view outlasts the per-command timeout.
		return tui.RunTimerTUI(cmd.Context(), a.engine, view, a.engine.Now, out)
	}),
}

// timerView gathers what the live timer shows about a task
func timerView(ctx context.Context, a *app, taskID uint) (tui.TimerView, error) {
	task, err := a.engine.GetTask(ctx, taskID)
	if err != nil {
		return tui.TimerView{}, err
	}
	project, err := a.engine.GetProject(ctx, task.ProjectID)
	if err != nil {
		return tui.TimerView{}, err
	}
	entries, err := a.engine.GetChecklist(ctx, taskID)
	if err != nil {
		return tui.TimerView{}, err
	}
	phases, err := phaseNames(ctx, a)
	if err != nil {
		return tui.TimerView{}, err
	}
	return tui.TimerView{
		Task:      *task,
		Project:   *project,
		PhaseName: phases.name(project.Status),
		Checklist: entries,
	}, nil
}

var stopCmd = &cobra.Command{
	Use:   "stop [task-id]",
	Short: "Stop a running timer",
	Long: `Stop the timer on a task. Without a task id the only running timer is
stopped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := runningTaskID(ctx, a, args)
		if err != nil {
			return err
		}
		res, err := a.engine.StopTimer(ctx, id)
		if err != nil {
			return err
		}
		tui.PrintStopResult(cmd.OutOrStdout(), res)
		return nil
	}),
}

// runningTaskID returns the task named in args, or the task of the single
// running timer
func runningTaskID(ctx context.Context, a *app, args []string) (uint, error) {
	if len(args) == 1 {
		return parser.ParseID(args[0])
	}
	states, err := a.engine.RunningTimers(ctx)
	if err != nil {
		return 0, err
	}
	switch len(states) {
	case 0:
		return 0, apperr.New(apperr.CodeNoRunningTimer, "no timer is running")
	case 1:
		return states[0].TaskID, nil
	default:
		return 0, apperr.Newf(apperr.CodeInvalidArgument, "%d timers are running, name the task to stop", len(states))
	}
}

var statusCmd = &cobra.Command{
	Use:   "status [task-id]",
	Short: "Show running timers",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		var states []engine.TimerState
		if len(args) == 1 {
			id, err := parser.ParseID(args[0])
			if err != nil {
				return err
			}
			state, err := a.engine.TimerStatus(ctx, id)
			if err != nil {
				return err
			}
			if !state.Running {
				fmt.Fprintf(out, "No timer running for task #%d\n", id)
				return nil
			}
			states = append(states, *state)
		} else {
			var err error
			if states, err = a.engine.RunningTimers(ctx); err != nil {
				return err
			}
			if len(states) == 0 {
				fmt.Fprintln(out, "No timers running")
				return nil
			}
		}

		for _, s := range states {
			name := ""
			task, err := a.engine.GetTask(ctx, s.TaskID)
			switch {
			case err == nil:
				name = task.Name
			case !errors.Is(err, apperr.ErrNotFound):
				return err
			}
			fmt.Fprintf(out, "Recording task #%d: %s\n", s.TaskID, name)
			fmt.Fprintln(out, tui.RenderField("Started at", s.StartedAt.Local().Format(time.DateTime)))
			fmt.Fprintln(out, tui.RenderField("Elapsed", tui.FormatMinutes(s.ElapsedMinutes)))
		}
		return nil
	}),
}

var logCmd = &cobra.Command{
	Use:   "log <task-id>",
	Short: "Show a task's timer sessions",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := parser.ParseID(args[0])
		if err != nil {
			return err
		}
		sessions, err := a.engine.ListSessions(ctx, id)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintf(out, "No sessions recorded for task #%d\n", id)
			return nil
		}
		var total float64
		fmt.Fprintf(out, "%-5s %-19s %-19s %10s\n", "ID", "STARTED", "ENDED", "MINUTES")
		for _, s := range sessions {
			ended, minutes := "running", "-"
			if s.EndedAt != nil {
				ended = s.EndedAt.Local().Format(time.DateTime)
			}
			if s.DurationMinutes != nil {
				minutes = tui.FormatMinutes(*s.DurationMinutes)
				total += *s.DurationMinutes
			}
			fmt.Fprintf(out, "%-5d %-19s %-19s %10s\n", s.ID, s.StartedAt.Local().Format(time.DateTime), ended, minutes)
		}
		fmt.Fprintln(out, tui.RenderField("Total", tui.FormatMinutes(total)))
		return nil
	}),
}

func init() {
	startCmd.Flags().Bool("no-ui", false, "Start the timer without the live view")
}
