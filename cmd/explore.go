package cmd

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/omnidive/omnidive/internal/chart"
	"github.com/omnidive/omnidive/internal/content"
	"github.com/omnidive/omnidive/internal/explorer"
	"github.com/omnidive/omnidive/internal/progress"
)

var (
	exploreJSON      bool
	exploreSaveImage string
	exploreNoHistory bool
)

var exploreCmd = &cobra.Command{
	Use:   "explore <topic>",
	Short: "Explore a topic in the terminal",
	Long:  `Generates the overview and illustration for a topic once and prints it, with the stats drawn as a bar chart.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger, closeLog, err := createLogger(cfg)
		if err != nil {
			return err
		}
		defer closeLog()

		cg, ig, err := createGenerators(cfg, logger)
		if err != nil {
			return err
		}

		opts := explorer.Options{SessionID: "cli", Logger: logger}
		if !exploreNoHistory {
			database, store, err := openHistory(cfg)
			if err != nil {
				logger.Warn("search history disabled", zap.Error(err))
			} else {
				defer database.Close()
				opts.Recorder = store
			}
		}

		topic := strings.Join(args, " ")
		reporter := progress.NewReporter(os.Stderr)
		reporter.Start(2, fmt.Sprintf("Exploring %q", topic))
		shell := explorer.NewShell(
			trackedContent{gen: cg, reporter: reporter},
			trackedImage{gen: ig, reporter: reporter},
			opts,
		)

		res := shell.Submit(cmd.Context(), topic)
		reporter.Finish()

		switch res.Outcome {
		case explorer.OutcomeIgnored:
			return errors.New("topic must not be blank")
		case explorer.OutcomeFailed:
			return fmt.Errorf("exploring %q: %w", topic, res.Err)
		}

		snap := shell.Snapshot()
		if exploreSaveImage != "" {
			if err := saveImage(snap.Image, exploreSaveImage); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if exploreJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}
		printTopic(out, snap)
		return nil
	},
}

func init() {
	exploreCmd.Flags().BoolVar(&exploreJSON, "json", false, "print the result as JSON")
	exploreCmd.Flags().StringVar(&exploreSaveImage, "save-image", "", "write inline image data to this file")
	exploreCmd.Flags().BoolVar(&exploreNoHistory, "no-history", false, "do not record the search")
	rootCmd.AddCommand(exploreCmd)
}

// trackedContent steps the reporter when content generation finishes.
type trackedContent struct {
	gen      explorer.ContentGenerator
	reporter progress.Reporter
}

func (t trackedContent) Generate(ctx context.Context, topic string) (*content.TopicContent, error) {
	tc, err := t.gen.Generate(ctx, topic)
	if err != nil {
		t.reporter.Step("content failed")
	} else {
		t.reporter.Step("content ready")
	}
	return tc, err
}

// trackedImage steps the reporter when the image reference is ready.
type trackedImage struct {
	gen      explorer.ImageGenerator
	reporter progress.Reporter
}

func (t trackedImage) Generate(ctx context.Context, topic string) string {
	ref := t.gen.Generate(ctx, topic)
	t.reporter.Step("image ready")
	return ref
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3b82f6"))
	headingStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748b"))
)

func printTopic(w io.Writer, snap explorer.Snapshot) {
	tc := snap.Content

	fmt.Fprintln(w, titleStyle.Render(tc.Title))
	fmt.Fprintln(w, mutedStyle.Render("Image: "+shortRef(snap.Image)))
	fmt.Fprintln(w)
	fmt.Fprintln(w, tc.Summary)

	fmt.Fprintln(w, headingStyle.Render("Key Facts"))
	for i, f := range tc.Facts {
		fmt.Fprintf(w, "%d. %s\n", i+1, f)
	}

	fmt.Fprintln(w, headingStyle.Render("Topic Analytics"))
	fmt.Fprintln(w, chart.Terminal(chart.Build(tc.Stats), 40))

	fmt.Fprintln(w, headingStyle.Render("Common Questions"))
	for _, qa := range tc.QAndA {
		fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render("Q: "+qa.Question))
		fmt.Fprintln(w, "A: "+qa.Answer)
	}
}

// shortRef keeps inline image data from flooding the terminal.
func shortRef(ref string) string {
	if i := strings.Index(ref, ";base64,"); i > 0 && strings.HasPrefix(ref, "data:") {
		return fmt.Sprintf("%s (%d bytes inline, use --save-image)", ref[len("data:"):i], base64.StdEncoding.DecodedLen(len(ref)-i-len(";base64,")))
	}
	return ref
}

// saveImage writes the decoded payload of an inline image reference.
func saveImage(ref, path string) error {
	const marker = ";base64,"
	i := strings.Index(ref, marker)
	if !strings.HasPrefix(ref, "data:") || i < 0 {
		return fmt.Errorf("image is not inline data (%s); nothing to save", ref)
	}
	data, err := base64.StdEncoding.DecodeString(ref[i+len(marker):])
	if err != nil {
		return fmt.Errorf("decoding image data: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing image to %s: %w", path, err)
	}
	return nil
}
