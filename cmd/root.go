package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shireesh.com/bootgen/internal/config"
	"shireesh.com/bootgen/internal/generator"
	"shireesh.com/bootgen/internal/logs"
	"shireesh.com/bootgen/internal/settings"
	"shireesh.com/bootgen/internal/templates"
)

const appName = "bootgen"

// run carries what the persistent pre-run resolved for the command.
type run struct {
	settings    settings.Settings
	store       templates.Store
	closeStore  func() error
	answersFile string
	saveAnswers string
}

func newRootCmd() *cobra.Command {
	r := &run{}
	root := &cobra.Command{
		Use:   appName,
		Short: "Scaffold a Spring Boot multi-module service",
		Long: heredoc.Doc(`
			Scaffold a Spring Boot service as three Maven modules:
			<baseName>-rest, <baseName>-model and <baseName>-it, plus the
			parent pom.xml and .gitignore.

			Answers come from interactive prompts, an answers file
			(--answers), BOOTGEN_* environment variables or, on a re-run,
			the .bootgen.yaml left in the output directory.
		`),
		Example: heredoc.Doc(`
			# ask everything interactively
			bootgen

			# generate from an answers file without prompting
			bootgen generate --answers answers.yaml -y -o ./orders

			# preview which files a re-run would change
			bootgen generate -y --dry-run --diff
		`),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: r.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			_ = logs.Sync()
			if r.closeStore != nil {
				return r.closeStore()
			}
			return nil
		},
		RunE: r.generate,
	}

	pf := root.PersistentFlags()
	settings.RegisterFlags(pf)
	pf.StringVar(&r.answersFile, "answers", "", "answers file (yaml or json) with packageName, baseName, ...")

	root.Flags().StringVar(&r.saveAnswers, "save-answers", "", "write the final answers to this file")

	root.AddCommand(newGenerateCmd(r), newPlanCmd(r), newPackCmd(), newExportCmd())
	return root
}

func newGenerateCmd(r *run) *cobra.Command {
	c := &cobra.Command{
		Use:   "generate",
		Short: "Generate the project (default command)",
		Args:  cobra.NoArgs,
		RunE:  r.generate,
	}
	c.Flags().StringVar(&r.saveAnswers, "save-answers", "", "write the final answers to this file")
	return c
}

func (r *run) setup(cmd *cobra.Command, _ []string) error {
	s, err := settings.Load(cmd.Flags(), r.answersFile)
	if err != nil {
		return err
	}
	if err := logs.Init(appName, s.Log); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	r.settings = s

	if s.Templates == "" {
		r.store = templates.Embedded()
		return nil
	}
	a, err := templates.OpenArchive(s.Templates)
	if err != nil {
		return err
	}
	r.store, r.closeStore = a, a.Close
	logs.Info("using template pack", zap.String("path", s.Templates))
	return nil
}

func (r *run) config(in io.Reader, out io.Writer) (config.Config, error) {
	answers := r.settings.Answers
	if !r.settings.NonInteractive {
		var err error
		if answers, err = askAnswers(in, out, answers); err != nil {
			return config.Config{}, err
		}
	}
	return config.New(answers)
}

func (r *run) generate(cmd *cobra.Command, _ []string) error {
	cfg, err := r.config(cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if r.saveAnswers != "" {
		if err := settings.SaveAnswers(r.saveAnswers, cfg.Answers()); err != nil {
			return err
		}
	}

	s := r.settings
	rep, err := generator.Generate(cfg, s.Output, generator.Options{
		Store:  r.store,
		DryRun: s.DryRun,
		Diff:   s.Diff,
		Logger: logs.L(),
	})
	printReport(cmd.OutOrStdout(), rep, err == nil)
	return err
}

// Execute runs the command line and exits 1 on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}
