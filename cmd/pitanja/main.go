package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gubarz/pitanja/internal/config"
	"github.com/gubarz/pitanja/internal/convert"
	"github.com/gubarz/pitanja/internal/encoding"
	"github.com/gubarz/pitanja/internal/parser"
	"github.com/gubarz/pitanja/internal/ui"
	"github.com/gubarz/pitanja/internal/watch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "pitanja [files...]",
	Short: "Convert Pitanja quiz files",
	Long: `Converts Pitanja quiz files into JSON, YAML or TOML documents.

Each file must start with "@PITANJA_FILE <name>" followed by question
blocks ("@PITANJE zaokruzi|da-ne|dopuni" ... "---===---"). Directories
are searched for files with a configured extension.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Validate Pitanja files without converting them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Convert files again whenever they change",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatch,
}

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Browse a parsed file in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(checkCmd, watchCmd, previewCmd, bankCmd)

	rootCmd.PersistentFlags().StringP("format", "f", "", "Output format: json, yaml, toml")
	rootCmd.PersistentFlags().StringP("out", "o", "", "Write documents into this directory instead of stdout")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent output")
	rootCmd.PersistentFlags().IntP("jobs", "j", 0, "Files parsed in parallel (default: number of CPUs)")
	rootCmd.PersistentFlags().Bool("fail-fast", false, "Stop at the first file that fails to parse")

	viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	viper.BindPFlag("out", rootCmd.PersistentFlags().Lookup("out"))
	viper.BindPFlag("pretty", rootCmd.PersistentFlags().Lookup("pretty"))
	viper.BindPFlag("fail_fast", rootCmd.PersistentFlags().Lookup("fail-fast"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}
}

// newConverter builds a converter from config and flags
func newConverter(cmd *cobra.Command) (*convert.Converter, error) {
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		config.SetFormat(f)
	}
	if o, _ := cmd.Flags().GetString("out"); o != "" {
		config.SetOutDir(o)
	}

	format, err := encoding.ParseFormat(config.GetFormat())
	if err != nil {
		return nil, err
	}

	jobs := config.GetJobs()
	if j, _ := cmd.Flags().GetInt("jobs"); j > 0 {
		jobs = j
	}

	return convert.NewConverter(convert.Options{
		Format:   format,
		Pretty:   config.GetPretty(),
		OutDir:   config.GetOutDir(),
		Jobs:     jobs,
		FailFast: config.GetFailFast(),
	}), nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	conv, err := newConverter(cmd)
	if err != nil {
		return err
	}

	paths, err := convert.Collect(args, config.GetExtensions())
	if err != nil {
		return err
	}

	results, err := conv.Convert(cmd.Context(), paths)
	for _, r := range results {
		if r.Output != "" {
			fmt.Fprintf(os.Stderr, "%s -> %s\n", r.Path, r.Output)
		}
	}
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	conv, err := newConverter(cmd)
	if err != nil {
		return err
	}

	paths, err := convert.Collect(args, config.GetExtensions())
	if err != nil {
		return err
	}

	ui.RefreshStyles()
	results, _ := conv.Parse(cmd.Context(), paths)

	report := ui.NewReporter(os.Stdout)
	for _, r := range results {
		if r.Skipped() {
			continue
		}
		report.Result(r.Path, r.Doc, r.Err)
	}
	report.Summary()

	if n := report.Failed(); n > 0 {
		cmd.SilenceUsage = true
		return fmt.Errorf("%d file(s) failed", n)
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	conv, err := newConverter(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths, err := convert.Collect(args, config.GetExtensions())
	if err != nil {
		return err
	}

	ui.RefreshStyles()
	report := ui.NewReporter(os.Stderr)
	reconvert := func(path string) {
		results, err := conv.Convert(ctx, []string{path})
		if len(results) == 0 {
			return
		}
		r := results[0]
		if r.Skipped() {
			return
		}
		if r.Err == nil && err != nil {
			r.Err = err
		}
		report.Result(r.Path, r.Doc, r.Err)
	}

	for _, p := range paths {
		reconvert(p)
	}

	w, err := watch.NewWatcher(config.GetExtensions())
	if err != nil {
		return err
	}
	defer w.Stop()

	onError := func(err error) {
		fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
	}
	if err := w.Watch(args, reconvert, onError); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Watching %d path(s), press Ctrl+C to stop\n", len(args))
	<-ctx.Done()
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	doc, err := parser.ParseFile(args[0])
	if err != nil {
		return err
	}
	return ui.RunPreview(doc)
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
