package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/copy-reviewer/internal/llm"
	"github.com/jonathan/copy-reviewer/internal/metrics"
	"github.com/jonathan/copy-reviewer/internal/observability"
	"github.com/jonathan/copy-reviewer/internal/pipeline"
	"github.com/jonathan/copy-reviewer/internal/reviewing"
	"github.com/jonathan/copy-reviewer/internal/rewriting"
	"github.com/jonathan/copy-reviewer/internal/session"
	"github.com/jonathan/copy-reviewer/internal/types"
)

// copyFlags are shared by the one-shot commands
type copyFlags struct {
	subject  string
	body     string
	bodyFile string
	model    string
	jsonOut  bool
}

func (f *copyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.subject, "subject", "s", "", "Subject line (required)")
	cmd.Flags().StringVarP(&f.body, "body", "b", "", "Email body")
	cmd.Flags().StringVarP(&f.bodyFile, "body-file", "f", "", "Read the email body from a file ('-' for stdin)")
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "Model override; a namespaced id such as openai/gpt-4o routes through OpenRouter")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "Print the raw JSON result")
	cmd.MarkFlagsMutuallyExclusive("body", "body-file")
	if err := cmd.MarkFlagRequired("subject"); err != nil {
		panic(fmt.Sprintf("failed to mark subject flag as required: %v", err))
	}
}

// resolve returns the trimmed-checked subject and body
func (f *copyFlags) resolve(stdin io.Reader) (string, string, error) {
	body := f.body
	switch f.bodyFile {
	case "":
	case "-":
		content, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read body from stdin: %w", err)
		}
		body = string(content)
	default:
		content, err := os.ReadFile(f.bodyFile)
		if err != nil {
			return "", "", fmt.Errorf("failed to read body file: %w", err)
		}
		body = string(content)
	}

	if strings.TrimSpace(f.subject) == "" {
		return "", "", errors.New("subject line is required and must be a non-empty string")
	}
	if strings.TrimSpace(body) == "" {
		return "", "", errors.New("email body is required: pass --body or --body-file")
	}
	return f.subject, body, nil
}

// output prints v as indented JSON or through print
func output(w io.Writer, jsonOut bool, v any, print func(*observability.Printer)) error {
	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	print(observability.NewPrinter(w))
	return nil
}

// oneShot loads config and builds the client and session for a single command
func oneShot(cmd *cobra.Command, root *rootOptions) (llm.Client, *session.Session, error) {
	cfg, err := root.loadSettings()
	if err != nil {
		return nil, nil, err
	}
	client, err := newClient(cmd.Context(), cfg, metrics.Default())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, session.NewStore(cfg.SessionLogDir).New(), nil
}

func newReviewCmd(root *rootOptions) *cobra.Command {
	flags := &copyFlags{}
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Score a cold email",
		Long:  "Reviews a subject line and body section by section and prints an overall 0-100 score.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			subject, body, err := flags.resolve(cmd.InOrStdin())
			if err != nil {
				return err
			}
			client, sess, err := oneShot(cmd, root)
			if err != nil {
				return err
			}
			defer client.Close() //nolint:errcheck

			review, err := reviewing.Review(cmd.Context(), client, reviewing.Input{
				SubjectLine: subject,
				Body:        body,
				Model:       flags.model,
			}, sess)
			if err != nil {
				return fmt.Errorf("review failed: %w", err)
			}
			return output(cmd.OutOrStdout(), flags.jsonOut, review, func(p *observability.Printer) {
				p.PrintReview(review)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newImproveCmd(root *rootOptions) *cobra.Command {
	flags := &copyFlags{}
	var reviewFile string
	cmd := &cobra.Command{
		Use:   "improve",
		Short: "Rewrite a cold email using an existing review",
		Long:  "Rewrites the copy guided by a review previously produced with 'review --json'.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			subject, body, err := flags.resolve(cmd.InOrStdin())
			if err != nil {
				return err
			}
			content, err := os.ReadFile(reviewFile)
			if err != nil {
				return fmt.Errorf("failed to read review file: %w", err)
			}
			var review types.ReviewResult
			if err := json.Unmarshal(content, &review); err != nil {
				return fmt.Errorf("failed to unmarshal review JSON: %w", err)
			}

			client, sess, err := oneShot(cmd, root)
			if err != nil {
				return err
			}
			defer client.Close() //nolint:errcheck

			improved, err := rewriting.Improve(cmd.Context(), client, rewriting.Input{
				SubjectLine: subject,
				Body:        body,
				Review:      &review,
				Model:       flags.model,
			}, sess)
			if err != nil {
				return fmt.Errorf("improvement failed: %w", err)
			}
			return output(cmd.OutOrStdout(), flags.jsonOut, improved, func(p *observability.Printer) {
				p.PrintImproved(improved)
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&reviewFile, "review", "r", "", "Path to a review JSON file (required)")
	if err := cmd.MarkFlagRequired("review"); err != nil {
		panic(fmt.Sprintf("failed to mark review flag as required: %v", err))
	}
	return cmd
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	flags := &copyFlags{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Review and rewrite a cold email in one run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			subject, body, err := flags.resolve(cmd.InOrStdin())
			if err != nil {
				return err
			}
			client, sess, err := oneShot(cmd, root)
			if err != nil {
				return err
			}
			defer client.Close() //nolint:errcheck

			result, err := pipeline.Run(cmd.Context(), client, pipeline.Options{
				SubjectLine: subject,
				Body:        body,
				Model:       flags.model,
				Session:     sess,
				OnProgress: func(e pipeline.ProgressEvent) {
					fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", e.Step, e.Message)
				},
			})
			if err != nil {
				var perr *pipeline.Error
				if errors.As(err, &perr) {
					return fmt.Errorf("%s: %s", perr.Error(), perr.Detail())
				}
				return err
			}
			if dir := sess.Dir(); dir != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Session log: %s\n", dir)
			}
			return output(cmd.OutOrStdout(), flags.jsonOut, result, func(p *observability.Printer) {
				p.PrintCombined(result)
			})
		},
	}
	flags.register(cmd)
	return cmd
}
