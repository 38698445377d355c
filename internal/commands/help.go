package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/tui"
)

var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Show help for studio or one of its commands",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			if target, _, err := cmd.Root().Find(args); err == nil && target != cmd.Root() {
				_ = target.Help()
				return
			}
		}
		showCustomHelp(cmd)
	},
}

func showCustomHelp(cmd *cobra.Command) {
	logo := lipgloss.NewStyle().
		Foreground(lipgloss.Color(tui.ColorAccentMain)).
		Bold(true).
		Render(`
 ███████╗████████╗██╗   ██╗██████╗ ██╗ ██████╗
 ██╔════╝╚══██╔══╝██║   ██║██╔══██╗██║██╔═══██╗
 ███████╗   ██║   ██║   ██║██║  ██║██║██║   ██║
 ╚════██║   ██║   ██║   ██║██║  ██║██║██║   ██║
 ███████║   ██║   ╚██████╔╝██████╔╝██║╚██████╔╝
 ╚══════╝   ╚═╝    ╚═════╝ ╚═════╝ ╚═╝ ╚═════╝`)

	fmt.Fprintln(cmd.OutOrStdout(), logo)
	fmt.Fprint(cmd.OutOrStdout(), `
studio - video production workflow and time tracker

PROJECTS:

  project new <theme>        Create a project with one task per template
    -m, --memo               Free-form memo
    -d, --due                Due date (yyyy-mm-dd, X days, X weeks)
  project ls                 List projects with phase and progress
  project show <id>          Show a project and its tasks
  project progress <id>      Recompute the progress rate
  project advance <id>       Apply the first matching phase rule

TASKS:

  task ls <project-id>       List a project's tasks
    -s, --status             Filter: todo|wip|done
  task show <id>             Task details, checklist and timer
  task status <id> <status>  Change status: todo|wip|done
                             done requires a fully checked checklist

  check ls <task-id>         Show a task's checklist
  check set <task-id> <items>
                             Check items, e.g. "1,2" or "!3" to uncheck

TIME:

  start <task-id>            Start the timer (live view)
    --no-ui                  Start without the live view
  stop [task-id]             Stop a timer
  status [task-id]           Show running timers
  log <task-id>              Show a task's timer sessions

MASTER DATA:

  templates                  List phases and task templates
  seed                       Load master data
    -c, --catalog            YAML catalog file

SETTINGS (environment or .env):

  STUDIO_DB_PATH             Database file (default ~/.studio/studio.db)
  STUDIO_TRANSITION_POLICY   strict|relaxed
  STUDIO_PROGRESS_POLICY     weighted|binary
  STUDIO_CATALOG_PATH        Catalog used when the database is empty
  STUDIO_LOG_LEVEL           debug|info|warn|error
  STUDIO_ENV                 local|dev|prod (dev and prod log JSON)
  STUDIO_OPERATION_TIMEOUT   Per command database timeout (default 5s)

`)
}
