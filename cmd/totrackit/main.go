package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := buildRoot().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GlobalFlags holds persistent flags shared by all commands.
type GlobalFlags struct {
	ConfigPath string
}

// APIFlags holds server connection flags for client commands.
type APIFlags struct {
	URL     string
	Timeout time.Duration
}

// CreateFlags holds flags for the create command.
type CreateFlags struct {
	ID         string
	Deadline   int64
	DeadlineIn time.Duration
	Tags       []string
	Context    string
	API        APIFlags
}

// CompleteFlags holds flags for the complete command.
type CompleteFlags struct {
	ID     string
	Status string
	API    APIFlags
}

// GetFlags holds flags for the get command.
type GetFlags struct {
	ID  string
	API APIFlags
}

// ListFlags holds flags for the list command.
type ListFlags struct {
	Name           string
	ID             string
	Status         string
	DeadlineStatus string
	Tags           string
	SortBy         string
	Limit          int
	Offset         int
	API            APIFlags
}

// ServeFlags holds flags for the serve command.
type ServeFlags struct {
	ConfigPath string
	Listen     string
	StoreDSN   string
}

func buildRoot() *cobra.Command {
	globalFlags := &GlobalFlags{}
	root := createRootCommand(globalFlags)
	root.AddCommand(
		createServeCommand(globalFlags),
		createCreateCommand(),
		createGetCommand(),
		createCompleteCommand(),
		createListCommand(),
	)
	return root
}

func createRootCommand(flags *GlobalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "totrackit",
		Short: "Track externally reported async processes",
		Long: `Totrackit tracks the lifecycle of processes that report their own
start and completion, and answers deadline and duration queries about them.

Examples:
  totrackit serve --config=totrackit.toml
  totrackit create batch-job --id=run-42 --deadline-in=1h
  totrackit complete batch-job --id=run-42
  totrackit list --status=ACTIVE --sort-by=deadline:asc`,
	}
	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "path to TOML config file (optional)")
	return root
}

func addAPIFlags(cmd *cobra.Command, f *APIFlags) {
	cmd.Flags().StringVar(&f.URL, "api-url", "", "server URL (default http://localhost:8080)")
	cmd.Flags().DurationVar(&f.Timeout, "api-timeout", 10*time.Second, "request timeout")
}

func createCreateCommand() *cobra.Command {
	flags := &CreateFlags{}
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Register a new process run",
		Long: `Register a new run of a named process. The (name, id) pair may have
at most one active run at a time.

Examples:
  totrackit create batch-job --id=run-42 --deadline-in=1h
  totrackit create report --id=daily --tag env:prod --context='{"trigger":"cron"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(args[0], flags)
		},
	}
	cmd.Flags().StringVar(&flags.ID, "id", "", "process id (required)")
	cmd.Flags().Int64Var(&flags.Deadline, "deadline", 0, "deadline as unix epoch seconds")
	cmd.Flags().DurationVar(&flags.DeadlineIn, "deadline-in", 0, "deadline relative to now (e.g. 1h30m)")
	cmd.Flags().StringArrayVar(&flags.Tags, "tag", nil, "tag as key:value (repeatable)")
	cmd.Flags().StringVar(&flags.Context, "context", "", "context as a JSON object")
	addAPIFlags(cmd, &flags.API)
	if err := cmd.MarkFlagRequired("id"); err != nil {
		panic(err)
	}
	return cmd
}

func createGetCommand() *cobra.Command {
	flags := &GetFlags{}
	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Show the most recent run with the pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(args[0], flags)
		},
	}
	cmd.Flags().StringVar(&flags.ID, "id", "", "process id (required)")
	addAPIFlags(cmd, &flags.API)
	if err := cmd.MarkFlagRequired("id"); err != nil {
		panic(err)
	}
	return cmd
}

func createCompleteCommand() *cobra.Command {
	flags := &CompleteFlags{}
	cmd := &cobra.Command{
		Use:   "complete <name>",
		Short: "Mark an active run as finished",
		Long: `Mark an active run as finished. The default terminal status is
COMPLETED; pass --status=FAILED to record a failure.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComplete(args[0], flags)
		},
	}
	cmd.Flags().StringVar(&flags.ID, "id", "", "process id (required)")
	cmd.Flags().StringVar(&flags.Status, "status", "", "terminal status: COMPLETED or FAILED")
	addAPIFlags(cmd, &flags.API)
	if err := cmd.MarkFlagRequired("id"); err != nil {
		panic(err)
	}
	return cmd
}

func createListCommand() *cobra.Command {
	flags := &ListFlags{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List processes with filters, sorting, and paging",
		Long: `List tracked processes. Filters combine with AND.

Examples:
  totrackit list --status=ACTIVE
  totrackit list --name=batch-job --deadline-status=MISSED
  totrackit list --tags=env:prod --sort-by=duration:desc --limit=50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(flags)
		},
	}
	cmd.Flags().StringVar(&flags.Name, "name", "", "filter by process name")
	cmd.Flags().StringVar(&flags.ID, "id", "", "filter by process id")
	cmd.Flags().StringVar(&flags.Status, "status", "", "filter by status (ACTIVE, COMPLETED, FAILED)")
	cmd.Flags().StringVar(&flags.DeadlineStatus, "deadline-status", "", "filter by derived deadline status")
	cmd.Flags().StringVar(&flags.Tags, "tags", "", "filter by tag as key:value")
	cmd.Flags().StringVar(&flags.SortBy, "sort-by", "", "sort as field:direction (e.g. deadline:asc)")
	cmd.Flags().IntVar(&flags.Limit, "limit", 20, "page size (1-100)")
	cmd.Flags().IntVar(&flags.Offset, "offset", 0, "page offset")
	addAPIFlags(cmd, &flags.API)
	return cmd
}
