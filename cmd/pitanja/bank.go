package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gubarz/pitanja/internal/bank"
	"github.com/gubarz/pitanja/internal/config"
	"github.com/gubarz/pitanja/internal/convert"
	"github.com/gubarz/pitanja/internal/encoding"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Manage the SQLite question bank",
}

var bankImportCmd = &cobra.Command{
	Use:   "import [files...]",
	Short: "Parse files and store them in the question bank",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBankImport,
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	Args:  cobra.NoArgs,
	RunE:  runBankList,
}

var bankShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print a stored document in the configured format",
	Args:  cobra.ExactArgs(1),
	RunE:  runBankShow,
}

func init() {
	bankCmd.AddCommand(bankImportCmd, bankListCmd, bankShowCmd)
	bankCmd.PersistentFlags().String("db", "", "Question bank database file")
	viper.BindPFlag("bank", bankCmd.PersistentFlags().Lookup("db"))
}

func openBank(cmd *cobra.Command) (*bank.Store, error) {
	path := config.GetBank()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create bank dir: %w", err)
	}
	return bank.Open(cmd.Context(), bank.DSN(path))
}

func runBankImport(cmd *cobra.Command, args []string) error {
	conv, err := newConverter(cmd)
	if err != nil {
		return err
	}
	paths, err := convert.Collect(args, config.GetExtensions())
	if err != nil {
		return err
	}

	results, err := conv.Parse(cmd.Context(), paths)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("parse error: %w", r.Err)
		}
	}

	store, err := openBank(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, r := range results {
		if err := store.Import(cmd.Context(), r.Doc, r.Path); err != nil {
			return fmt.Errorf("import %s: %w", r.Path, err)
		}
		fmt.Fprintf(os.Stderr, "%s -> %s (%d questions)\n", r.Path, r.Doc.Filename, len(r.Doc.Questions))
	}
	return nil
}

func runBankList(cmd *cobra.Command, args []string) error {
	store, err := openBank(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	infos, err := store.List(cmd.Context())
	if err != nil {
		return err
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("NAME", "QUESTIONS", "SOURCE", "IMPORTED")
	for _, info := range infos {
		t.Row(info.Filename, strconv.Itoa(info.Questions), info.Source, info.ImportedAt.Format("2006-01-02 15:04"))
	}
	fmt.Println(t)
	return nil
}

func runBankShow(cmd *cobra.Command, args []string) error {
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		config.SetFormat(f)
	}
	format, err := encoding.ParseFormat(config.GetFormat())
	if err != nil {
		return err
	}

	store, err := openBank(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	doc, err := store.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return encoding.Encode(os.Stdout, doc, format, encoding.Options{Pretty: config.GetPretty()})
}
