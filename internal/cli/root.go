package cli

import (
	"errors"

	"github.com/futig/resume-assistant/internal/entity"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	env        string
	backendURL string
	mock       bool
	verbose    bool
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "resume-cli",
		Short: "Upload a resume, ask about it and check its fit for a role",
		Long: `resume-cli runs the resume workflow against the resume backend from a terminal:
the resume is uploaded first, then every question is asked in order and finally
the fit score for the role is requested.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.env, "env", "local", "environment whose .env.<env> file is loaded")
	rootCmd.PersistentFlags().StringVar(&opts.backendURL, "backend-url", "", "backend base URL (overrides BACKEND_URL)")
	rootCmd.PersistentFlags().BoolVar(&opts.mock, "mock", false, "use the built-in mock backend")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr")

	rootCmd.AddCommand(newRunCommand(opts))

	return rootCmd
}

// ErrorMessage is what the CLI prints for err: the alert text for workflow errors
func ErrorMessage(err error) string {
	var alert *entity.AlertError
	if errors.As(err, &alert) {
		return alert.Message
	}
	return err.Error()
}
