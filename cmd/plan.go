package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/tasksage/internal/briefing"
	"github.com/josephgoksu/tasksage/internal/schedule"
	"github.com/josephgoksu/tasksage/internal/task"
	"github.com/josephgoksu/tasksage/internal/ui"
)

var (
	nowFlag      string
	fixedEpsFlag bool
	briefFlag    bool
	thresholdArg float64
)

var groupCmd = &cobra.Command{
	Use:   "group <file>",
	Short: "Cluster related tasks into named groups",
	Long: `Cluster tasks by meaning. Each group gets a name from its dominant type and
most frequent title word, the highest member priority and the summed duration.
At least two tasks are required.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		start := time.Now()
		tasks, err := loadTasks(cmd, args[0])
		if err != nil {
			return err
		}
		defer func() { trackRun(cmd, len(tasks), start, err) }()

		engine, err := buildEngine(cmd.Context())
		if err != nil {
			return err
		}
		group := engine.GroupTasks
		if fixedEpsFlag {
			group = engine.GroupTasksFixed
		}
		groups, err := group(cmd.Context(), tasks)
		if err != nil {
			return err
		}
		return printOut(cmd.OutOrStdout(), groups, func() string {
			return ui.RenderGroups(groups, tableWidth(cmd, 4))
		})
	},
}

var inferCmd = &cobra.Command{
	Use:   "infer <file> <task-id>",
	Short: "Suggest preparation steps for one task",
	Long: `Suggest the prerequisite, preparation and buffer tasks that should come
before the given task. The file may hold several tasks; only the one with
the given id is expanded.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		start := time.Now()
		tasks, err := loadTasks(cmd, args[0])
		if err != nil {
			return err
		}
		defer func() { trackRun(cmd, len(tasks), start, err) }()

		target, err := findTask(tasks, args[1])
		if err != nil {
			return err
		}
		now, err := parseNowFlag(nowFlag)
		if err != nil {
			return err
		}
		engine, err := buildEngine(cmd.Context())
		if err != nil {
			return err
		}
		deps, err := engine.InferDependencies(cmd.Context(), target, now)
		if err != nil {
			return err
		}
		return printOut(cmd.OutOrStdout(), deps, func() string {
			return ui.RenderDependencies(deps, tableWidth(cmd, 5))
		})
	},
}

var prioritizeCmd = &cobra.Command{
	Use:     "prioritize <file>",
	Aliases: []string{"prio"},
	Short:   "Rank tasks by computed priority",
	Long: `Score every task from its priority, status, due date and how well it batches
with similar tasks, then list them highest first with the reasons.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		start := time.Now()
		tasks, err := loadTasks(cmd, args[0])
		if err != nil {
			return err
		}
		defer func() { trackRun(cmd, len(tasks), start, err) }()

		now, err := parseNowFlag(nowFlag)
		if err != nil {
			return err
		}
		engine, err := buildEngine(cmd.Context())
		if err != nil {
			return err
		}
		assessments, err := engine.PrioritizeTasks(cmd.Context(), tasks, now)
		if err != nil {
			return err
		}
		return printOut(cmd.OutOrStdout(), assessments, func() string {
			return ui.RenderAssessments(assessments, titlesOf(tasks), tableWidth(cmd, 6))
		})
	},
}

// scheduleOutput is the --json shape of `schedule --brief`.
type scheduleOutput struct {
	Schedule []schedule.Item    `json:"schedule"`
	Briefing *briefing.Briefing `json:"briefing,omitempty"`
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule <file>",
	Short: "Lay tasks out as pomodoro blocks",
	Long: `Prioritize the tasks and schedule them as 25-minute pomodoros starting at
--now (default: the current time). Each block is tagged with its difficulty
and the energy level expected for that time of day.

With --brief, a short summary and tips are printed below the schedule. If
llm.provider is configured the summary is written by that model.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		start := time.Now()
		tasks, err := loadTasks(cmd, args[0])
		if err != nil {
			return err
		}
		defer func() { trackRun(cmd, len(tasks), start, err) }()

		now, err := parseNowFlag(nowFlag)
		if err != nil {
			return err
		}
		entries, items, err := planDay(cmd, tasks, now)
		if err != nil {
			return err
		}

		out := scheduleOutput{Schedule: items}
		if briefFlag {
			b := buildBriefer(cmd.Context()).Brief(cmd.Context(), entries)
			out.Briefing = &b
		}
		if jsonOutput {
			if out.Briefing == nil {
				return printJSON(cmd.OutOrStdout(), items)
			}
			return printJSON(cmd.OutOrStdout(), out)
		}
		return printOut(cmd.OutOrStdout(), out, func() string {
			s := ui.RenderSchedule(entries, tableWidth(cmd, 7))
			if out.Briefing != nil {
				s += "\n" + ui.RenderBriefing(*out.Briefing)
			}
			return s
		})
	},
}

// planDay prioritizes and schedules tasks, returning entries joined with titles.
func planDay(cmd *cobra.Command, tasks []task.Task, now time.Time) ([]briefing.Entry, []schedule.Item, error) {
	engine, err := buildEngine(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	assessments, err := engine.PrioritizeTasks(cmd.Context(), tasks, now)
	if err != nil {
		return nil, nil, err
	}
	items := schedule.Build(schedule.Rank(assessments, tasks), now)
	return briefing.Entries(items, tasks, assessments), items, nil
}

var similarCmd = &cobra.Command{
	Use:   "similar <file> <task-id>",
	Short: "Find tasks similar to one task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		start := time.Now()
		tasks, err := loadTasks(cmd, args[0])
		if err != nil {
			return err
		}
		defer func() { trackRun(cmd, len(tasks), start, err) }()

		target, err := findTask(tasks, args[1])
		if err != nil {
			return err
		}
		engine, err := buildEngine(cmd.Context())
		if err != nil {
			return err
		}
		matches, err := engine.FindSimilar(cmd.Context(), target, tasks, thresholdArg)
		if err != nil {
			return err
		}
		return printOut(cmd.OutOrStdout(), matches, func() string {
			return ui.RenderMatches(matches, titlesOf(tasks), tableWidth(cmd, 3))
		})
	},
}

func init() {
	groupCmd.Flags().BoolVar(&fixedEpsFlag, "fixed-eps", false, "use the fixed clustering radius instead of the adaptive one")

	for _, c := range []*cobra.Command{inferCmd, prioritizeCmd, scheduleCmd} {
		c.Flags().StringVar(&nowFlag, "now", "", `reference time, RFC 3339 or "YYYY-MM-DD HH:MM" (default: current time)`)
	}
	scheduleCmd.Flags().BoolVar(&briefFlag, "brief", false, "print a short briefing below the schedule")
	similarCmd.Flags().Float64Var(&thresholdArg, "threshold", 0, "minimum similarity (default: engine.similarity_threshold)")

	rootCmd.AddCommand(groupCmd, inferCmd, prioritizeCmd, scheduleCmd, similarCmd)
}
