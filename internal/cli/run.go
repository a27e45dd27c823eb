package cli

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/futig/resume-assistant/internal/builder"
	"github.com/futig/resume-assistant/internal/config"
	"github.com/futig/resume-assistant/internal/entity"
	"github.com/spf13/cobra"
)

// the CLI drives a single session
const sessionID = "cli"

// Workflow is the part of the resume workflow a run needs
type Workflow interface {
	SetRole(ctx context.Context, sessionID, role string) (*entity.Workflow, error)
	UploadResume(ctx context.Context, sessionID string, file *entity.ResumeFile, role string) (*entity.Workflow, error)
	AskQuestion(ctx context.Context, sessionID, query string) (*entity.Workflow, error)
	CheckFit(ctx context.Context, sessionID, jobDescription string) (*entity.Workflow, error)
}

type runOptions struct {
	role      string
	file      string
	questions []string
	fit       bool
}

func newRunCommand(global *globalOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Upload a resume, then ask questions and check fit",
		Example: `  resume-cli run --role "Data Scientist" --file cv.pdf --ask "What is my most recent role?" --fit
  resume-cli --backend-url https://api.example.com run --role Engineer --file cv.pdf --fit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(global.env)
			if err != nil {
				return err
			}
			if global.backendURL != "" {
				cfg.BackendCfg.Url = global.backendURL
			}
			if global.mock {
				cfg.EnableMocks = true
			}

			level := "warn"
			if global.verbose {
				level = "debug"
			}
			logger, err := builder.SetupLogger(level, cfg.LogFile, os.Stderr)
			if err != nil {
				return fmt.Errorf("setup logger: %w", err)
			}
			defer logger.Sync()

			uc := builder.BuildWorkflow(cfg, builder.NewCLIStorage(), logger)
			return runWorkflow(cmd.Context(), cmd.OutOrStdout(), uc, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.role, "role", "r", "", "job role the resume is scored against")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "resume PDF to upload")
	cmd.Flags().StringArrayVarP(&opts.questions, "ask", "a", nil, "question about the resume, may be repeated")
	cmd.Flags().BoolVar(&opts.fit, "fit", false, "check role fit and print suggestions")

	return cmd
}

// runWorkflow uploads, asks every question in order and checks fit. It stops at the first failure.
func runWorkflow(ctx context.Context, out io.Writer, uc Workflow, opts *runOptions) error {
	if _, err := uc.SetRole(ctx, sessionID, opts.role); err != nil {
		return err
	}

	file, err := readResume(opts.file)
	if err != nil {
		return err
	}

	w, err := uc.UploadResume(ctx, sessionID, file, opts.role)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Uploaded: %s\n", w.SelectedFile)

	for _, q := range opts.questions {
		w, err := uc.AskQuestion(ctx, sessionID, q)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nQ: %s\nAnswer: %s\n", q, w.LastAnswer)
	}

	if opts.fit {
		w, err := uc.CheckFit(ctx, sessionID, opts.role)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nFit Score: %s\nSuggestions to Improve Resume:\n%s\n", w.FitScore, strings.TrimRight(w.Suggestions, "\n"))
	}

	return nil
}

// readResume returns nil when no path is given
func readResume(path string) (*entity.ResumeFile, error) {
	if path == "" {
		return nil, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &entity.ResumeFile{
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Content:     content,
	}, nil
}
