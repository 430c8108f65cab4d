// Command addtask inserts one task directly into the hosted task table.
//
//	SUPABASE_URL=https://xyz.supabase.co SUPABASE_API_KEY=... \
//	  addtask --user-id 123456 --title "new feature" --description "Add f6"
//
// A task that already exists (HTTP 409) is reported as a warning, not a failure.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sakif/taskboard/internal/apperror"
	"github.com/sakif/taskboard/internal/taskclient"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Error("failed to load .env", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := execute(ctx, logger, os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// execute runs the command with args and logs any failure, including flag
// errors cobra reports before RunE.
func execute(ctx context.Context, logger *slog.Logger, args []string) error {
	cmd := newRootCmd(logger)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Error("addtask failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	var (
		task    taskclient.NewTask
		baseURL string
		apiKey  string
	)

	cmd := &cobra.Command{
		Use:           "addtask",
		Short:         "Insert a pending task into the hosted task table",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := taskclient.New(baseURL, apiKey, nil)
			if err != nil {
				return err
			}

			err = client.AddTask(cmd.Context(), task)
			switch {
			case err == nil:
				logger.Info("task added successfully",
					slog.Int64("userID", task.UserID),
					slog.String("title", task.Title),
				)
				return nil
			case errors.Is(err, apperror.ErrConflict):
				logger.Warn("task already exists", slog.Int64("userID", task.UserID), slog.String("title", task.Title))
				return nil
			default:
				return fmt.Errorf("adding task: %w", err)
			}
		},
	}

	flags := cmd.Flags()
	flags.Int64Var(&task.UserID, "user-id", 0, "owner of the task")
	flags.StringVar(&task.Title, "title", "", "task title")
	flags.StringVar(&task.Description, "description", "", "task description")
	flags.StringVar(&baseURL, "url", os.Getenv("SUPABASE_URL"), "REST base URL (default $SUPABASE_URL)")
	flags.StringVar(&apiKey, "api-key", os.Getenv("SUPABASE_API_KEY"), "API key (default $SUPABASE_API_KEY)")
	_ = cmd.MarkFlagRequired("user-id")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}
