package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/weekwise/weekwise/export"
	"github.com/weekwise/weekwise/imports"
	"github.com/weekwise/weekwise/search"
	"github.com/weekwise/weekwise/store"
	"github.com/weekwise/weekwise/types"
)

func (cli *CLI) addCommands() {
	cli.rootCmd.AddCommand(
		cli.newAddCommand(),
		cli.newListCommand(),
		cli.newCompleteCommand(),
		cli.newDeleteCommand(),
		cli.newSearchCommand(),
		cli.newStatsCommand(),
		cli.newExportCommand(),
		cli.newImportCommand(),
		cli.newQuizCommand(),
	)
}

// storeError turns the surfaced state error into a command error.
func storeError(st *store.Store) error {
	state := st.GetState()
	if len(state.FormErrors) > 0 {
		var parts []string
		for field, msg := range state.FormErrors {
			parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
		}
		return fmt.Errorf("validation failed: %s", strings.Join(parts, "; "))
	}
	if state.Err != "" {
		return fmt.Errorf("%s", state.Err)
	}
	return fmt.Errorf("operation failed")
}

func (cli *CLI) newAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := cli.openStore()
			if err != nil {
				return err
			}

			due, _ := cmd.Flags().GetString("due")
			duration, _ := cmd.Flags().GetFloat64("duration")
			tag, _ := cmd.Flags().GetString("tag")
			description, _ := cmd.Flags().GetString("description")

			task := types.Task{
				Title:       args[0],
				DueDate:     due,
				Duration:    duration,
				Tag:         tag,
				Description: description,
			}
			if !st.AddTask(task) {
				return storeError(st)
			}

			added := st.Tasks()
			fmt.Printf("Added %q (%s)\n", args[0], added[len(added)-1].ID)
			return nil
		},
	}
	cmd.Flags().String("due", "", "due date, YYYY-MM-DD or YYYY-MM-DDTHH:MM")
	cmd.Flags().Float64("duration", 1, "duration in hours")
	cmd.Flags().String("tag", "", "priority or category tag")
	cmd.Flags().String("description", "", "optional description")
	return cmd
}

func (cli *CLI) newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, optionally filtered and sorted",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := cli.openStore()
			if err != nil {
				return err
			}

			tag, _ := cmd.Flags().GetString("tag")
			status, _ := cmd.Flags().GetString("status")
			sortBy, _ := cmd.Flags().GetString("sort")

			tasks := search.FilterTasks(st.Tasks(), search.Filters{
				Tag:    tag,
				Status: status,
			}, time.Now())
			tasks = search.SortTasks(tasks, sortBy)

			if len(tasks) == 0 {
				fmt.Println("No tasks.")
				return nil
			}
			for _, t := range tasks {
				printTask(t, time.Now())
			}
			return nil
		},
	}
	cmd.Flags().String("tag", "", "only tasks with this tag")
	cmd.Flags().String("status", "", "only tasks in this bucket: overdue, due-soon, upcoming, future")
	cmd.Flags().String("sort", search.SortPriority, "sort criterion, e.g. priority, due-asc, title-asc")
	return cmd
}

func printTask(t types.Task, now time.Time) {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	status := search.StatusOf(t, now)
	if status != "" {
		status = " [" + status + "]"
	}
	fmt.Printf("[%s] %s  %s  %.1fh  %s%s  (%s)\n", mark, t.Title, t.DueDate, t.Duration, t.Tag, status, t.ID)
}

func (cli *CLI) newCompleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := cli.openStore()
			if err != nil {
				return err
			}
			completed := true
			if !st.UpdateTask(args[0], store.TaskPatch{Completed: &completed}) {
				return storeError(st)
			}
			fmt.Println("Completed.")
			return nil
		},
	}
}

func (cli *CLI) newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := cli.openStore()
			if err != nil {
				return err
			}
			if !st.DeleteTask(args[0]) {
				return storeError(st)
			}
			fmt.Println("Deleted.")
			return nil
		},
	}
}

func (cli *CLI) newSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <pattern>",
		Short: "Search tasks with a regular expression or a named pattern",
		Long: `Search treats the query as a regular expression over title,
description, and tag, scoring matches by field weight. With --pattern-type
a named pattern from the fixed library is run instead: ` + strings.Join(search.PatternTypes(), ", ") + `.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := cli.openStore()
			if err != nil {
				return err
			}

			patternType, _ := cmd.Flags().GetString("pattern-type")
			caseSensitive, _ := cmd.Flags().GetBool("case-sensitive")
			maxResults, _ := cmd.Flags().GetInt("max")

			var results []search.Result
			if patternType != "" {
				results = search.SearchByPattern(patternType, st.Tasks())
			} else {
				if len(args) == 0 {
					return fmt.Errorf("a query or --pattern-type is required")
				}
				engine := search.NewEngine(cli.logger)
				engine.Initialize(st.Tasks())
				results = engine.SearchTasks(args[0], st.Tasks(), search.Options{
					CaseSensitive: caseSensitive || st.Settings().CaseSensitiveSearch,
					MaxResults:    maxResults,
				})
			}

			if len(results) == 0 {
				fmt.Println("No matches.")
				return nil
			}
			for _, r := range results {
				fmt.Printf("%3d  %s  (%s)\n", r.Score, r.Task.Title, r.Task.ID)
				for field, marked := range r.Highlights {
					fmt.Printf("     %s: %s\n", field, marked)
				}
			}
			return nil
		},
	}
	cmd.Flags().String("pattern-type", "", "named pattern instead of a regex query")
	cmd.Flags().Bool("case-sensitive", false, "match case exactly")
	cmd.Flags().Int("max", search.DefaultMaxResults, "maximum number of results")
	return cmd
}

func (cli *CLI) newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show collection statistics and weekly goal status",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := cli.openStore()
			if err != nil {
				return err
			}
			stats := st.CalculateStats()
			capStatus := st.Cap()

			fmt.Printf("Tasks:                %d\n", stats.TotalTasks)
			fmt.Printf("Total duration:       %.1fh\n", stats.TotalDuration)
			fmt.Printf("Top tag:              %s\n", stats.TopTag)
			fmt.Printf("Created this week:    %d\n", stats.TasksThisWeek)
			fmt.Printf("Overdue:              %d\n", stats.OverdueTasks)
			fmt.Printf("Completed:            %d\n", stats.CompletedTasks)
			fmt.Printf("Completed this week:  %.1fh\n", stats.CompletedDurationThisWeek)
			fmt.Printf("Weekly goal:          %.1fh (%d%%, %s)\n", capStatus.Goal, capStatus.Percentage, capStatus.Status)
			return nil
		},
	}
}

func (cli *CLI) newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks and settings as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := cli.openStore()
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			outPath, _ := cmd.Flags().GetString("output")

			data, err := export.Marshal(export.Snapshot(st.Tasks(), st.Settings()), format)
			if err != nil {
				return err
			}
			if outPath == "" {
				fmt.Print(string(data))
				return nil
			}
			if err := os.WriteFile(outPath, data, 0644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			fmt.Printf("Exported %d tasks to %s\n", len(st.Tasks()), outPath)
			return nil
		},
	}
	cmd.Flags().String("format", export.FormatJSON, "export encoding: json or yaml")
	cmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	return cmd
}

func (cli *CLI) newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a previously exported JSON document, replacing all tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := cli.openStore()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read import file: %w", err)
			}

			result := imports.Parse(data)
			if !result.Success {
				return fmt.Errorf("import failed: %s", strings.Join(result.Errors, "; "))
			}
			for _, msg := range result.Errors {
				cli.logger.Warn("dropped import record", "reason", msg)
			}

			if !st.ReplaceTasks(result.Tasks) {
				return storeError(st)
			}
			if result.Settings != nil {
				if !st.SaveSettings(*result.Settings) {
					return storeError(st)
				}
			}

			fmt.Printf("Imported %d tasks", result.Imported)
			if result.Dropped > 0 {
				fmt.Printf(", dropped %d invalid records", result.Dropped)
			}
			fmt.Println()
			return nil
		},
	}
}

func (cli *CLI) newQuizCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Run a picture-naming quiz session",
		RunE: func(cmd *cobra.Command, args []string) error {
			datasetPath, _ := cmd.Flags().GetString("dataset")
			if datasetPath == "" {
				return fmt.Errorf("--dataset is required")
			}
			return cli.runQuiz(cmd, datasetPath)
		},
	}
	cmd.Flags().String("dataset", "", "path to the question dataset (JSON array)")
	return cmd
}

// runQuiz drives an interactive session loop on stdin.
func (cli *CLI) runQuiz(cmd *cobra.Command, datasetPath string) error {
	questions, err := quizDataset(datasetPath)
	if err != nil {
		return err
	}
	return playQuiz(cmd, questions, cli)
}

var stdinReader = bufio.NewReader(os.Stdin)

func readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := stdinReader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
