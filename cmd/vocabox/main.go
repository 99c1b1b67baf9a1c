// Package main provides the CLI entrypoint for vocabox.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/vocabox/internal/config"
	"github.com/verte-zerg/vocabox/internal/corpus"
	"github.com/verte-zerg/vocabox/internal/leitner"
	"github.com/verte-zerg/vocabox/internal/model"
	"github.com/verte-zerg/vocabox/internal/quiz"
	"github.com/verte-zerg/vocabox/internal/stats"
	"github.com/verte-zerg/vocabox/internal/statsui"
	"github.com/verte-zerg/vocabox/internal/store"
	"github.com/verte-zerg/vocabox/internal/tui"
)

const (
	defaultFilter    = "all"
	defaultMode      = "flash"
	defaultDirection = "lt2tl"
	dotEnvPath       = ".env"
)

var (
	practiceChapter   int
	practiceFilter    string
	practiceMode      string
	practiceDirection string
	corpusPath        string

	storageDriver string
	storagePath   string

	statsPlain bool
	statsDays  int

	resetYes bool

	importSheet      string
	importSkipHeader bool
	importOut        string
	importReplace    bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "vocabox",
		Short:         "Leitner vocabulary trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return config.LoadDotEnv(dotEnvPath)
		},
		RunE: runPracticeCmd,
	}

	rootCmd.Flags().IntVar(&practiceChapter, "chapter", 0, "chapter to practice (default: first chapter)")
	rootCmd.Flags().StringVar(&practiceFilter, "filter", defaultFilter, "items to include: all, due, new")
	rootCmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "answer mode: flash, mcq, type")
	rootCmd.Flags().StringVar(&practiceDirection, "direction", defaultDirection, "prompt direction: lt2tl, tl2lt")
	rootCmd.PersistentFlags().StringVar(&corpusPath, "corpus", "", "vocabulary file (default: $XDG_CONFIG_HOME/vocabox/vocab.json)")
	rootCmd.PersistentFlags().StringVar(&storageDriver, "storage", "", "state backend: sqlite, file, s3, memory (default: sqlite)")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage-path", "", "database or state file path for sqlite/file backends")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newChaptersCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newImportCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "chapter", &practiceChapter, fileCfg.Practice.Chapter)
	applyStringConfig(cmd, "filter", &practiceFilter, fileCfg.Practice.Filter)
	applyStringConfig(cmd, "mode", &practiceMode, fileCfg.Practice.Mode)
	applyStringConfig(cmd, "direction", &practiceDirection, fileCfg.Practice.Direction)
	applyStringConfig(cmd, "corpus", &corpusPath, fileCfg.Practice.Corpus)

	cfg := model.Config{
		Chapter:    practiceChapter,
		Filter:     practiceFilter,
		Mode:       practiceMode,
		Direction:  practiceDirection,
		CorpusPath: resolveCorpusPath(corpusPath),
	}
	opts, err := validateConfig(cfg)
	if err != nil {
		return err
	}

	items, err := corpus.Load(cfg.CorpusPath)
	if err != nil {
		return corpusLoadError(cfg.CorpusPath, err)
	}
	opts.Chapter, err = resolveChapter(items, cfg.Chapter)
	if err != nil {
		return err
	}

	ctx := context.Background()
	rs, closeStore, err := openReviewStore(ctx, cmd, fileCfg)
	if err != nil {
		return err
	}
	defer closeStore()

	opts.Today = func() leitner.Date { return leitner.Today(rs.Location()) }
	state := rs.Load(ctx)
	m := tui.NewModel(opts, corpus.InChapter(items, opts.Chapter), items, state, leitner.NewGrader(rs), leitner.NewSession(), quiz.New())
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newChaptersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chapters",
		Short: "List chapters with new and due counts",
		Args:  cobra.NoArgs,
		RunE:  runChaptersCmd,
	}
}

func runChaptersCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, items, err := loadCorpusForCmd(cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()
	rs, closeStore, err := openReviewStore(ctx, cmd, fileCfg)
	if err != nil {
		return err
	}
	defer closeStore()

	today := leitner.Today(rs.Location())
	for _, sum := range stats.Summarize(items, rs.Load(ctx), today) {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Chapter %d: %d words (%d new, %d due)\n", sum.Chapter, sum.Total, sum.New, sum.Due); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show review progress",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print text output instead of the interactive view")
	cmd.Flags().IntVar(&statsDays, "days", stats.DefaultForecastDays, "forecast horizon in days")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsDays < 0 {
		return fmt.Errorf("--days must be >= 0")
	}
	fileCfg, items, err := loadCorpusForCmd(cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()
	rs, closeStore, err := openReviewStore(ctx, cmd, fileCfg)
	if err != nil {
		return err
	}
	defer closeStore()

	load := func() stats.Report {
		return stats.BuildReport(ctx, rs, items, leitner.Today(rs.Location()), statsDays)
	}
	if statsPlain || !isTerminal(cmd.OutOrStdout()) {
		return renderPlainStats(cmd.OutOrStdout(), load())
	}
	program := tea.NewProgram(statsui.NewModel(load), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func renderPlainStats(w io.Writer, report stats.Report) error {
	if err := stats.RenderSummary(w, report.Summaries); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderForecast(w, report.Forecast, report.Today); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear all review progress",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "do not ask for confirmation")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), "Clear all progress? [y/N] ")
		if err != nil {
			return err
		}
		if !ok {
			logErrln("Aborted.")
			return nil
		}
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	ctx := context.Background()
	rs, closeStore, err := openReviewStore(ctx, cmd, fileCfg)
	if err != nil {
		return err
	}
	defer closeStore()
	if err := rs.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), "Progress cleared."); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.xlsx|file.csv>",
		Short: "Import vocabulary from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().StringVar(&importSheet, "sheet", "", "xlsx sheet name (default: first sheet)")
	cmd.Flags().BoolVar(&importSkipHeader, "skip-header", true, "skip the first row")
	cmd.Flags().StringVar(&importOut, "out", "", "output vocabulary file (default: --corpus)")
	cmd.Flags().BoolVar(&importReplace, "replace", false, "replace the existing vocabulary instead of merging")
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "corpus", &corpusPath, fileCfg.Practice.Corpus)
	out := importOut
	if out == "" {
		out = resolveCorpusPath(corpusPath)
	}

	var existing []model.VocabItem
	if !importReplace {
		existing, err = corpus.Load(out)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load existing vocabulary: %w", err)
		}
	}

	res, err := corpus.Import(corpus.ImportConfig{
		Path:       args[0],
		Sheet:      importSheet,
		SkipHeader: importSkipHeader,
		FirstID:    corpus.NextID(existing),
	})
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", args[0], err)
	}
	for _, msg := range res.Errors {
		logErrf("skipped %s\n", msg)
	}
	if len(res.Items) == 0 {
		return fmt.Errorf("no rows imported from %s", args[0])
	}
	merged := corpus.Merge(existing, res.Items)
	if err := corpus.Write(out, merged); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d words into %s (%d total)\n", len(res.Items), out, len(merged)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func loadCorpusForCmd(cmd *cobra.Command) (config.FileConfig, []model.VocabItem, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "corpus", &corpusPath, fileCfg.Practice.Corpus)
	path := resolveCorpusPath(corpusPath)
	items, err := corpus.Load(path)
	if err != nil {
		return config.FileConfig{}, nil, corpusLoadError(path, err)
	}
	return fileCfg, items, nil
}

// openReviewStore opens the configured gateway and wraps it in a review
// store whose swallowed errors are logged to stderr.
func openReviewStore(ctx context.Context, cmd *cobra.Command, fileCfg config.FileConfig) (*leitner.Store, func(), error) {
	storageCfg := resolveStorage(cmd, fileCfg.Storage)
	gw, err := store.Open(ctx, storageCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s storage: %w", storageCfg.Driver, err)
	}
	closeFn := func() {
		if cerr := gw.Close(); cerr != nil {
			logErrf("failed to close storage: %v\n", cerr)
		}
	}
	rs := leitner.NewStore(gw, leitner.WithErrorHook(func(op string, err error) {
		logErrf("failed to %s review state: %v\n", op, err)
	}))
	return rs, closeFn, nil
}

func resolveStorage(cmd *cobra.Command, fc config.StorageConfig) model.StorageConfig {
	config.ApplyStorageEnv(&fc)
	driver := storageDriver
	applyStringConfig(cmd, "storage", &driver, fc.Driver)
	path := storagePath
	applyStringConfig(cmd, "storage-path", &path, fc.Path)

	cfg := model.StorageConfig{
		Driver: strings.ToLower(strings.TrimSpace(driver)),
		Path:   path,
	}
	if cfg.Driver == "" {
		cfg.Driver = string(store.DriverSQLite)
	}
	if fc.Key != nil {
		cfg.Key = *fc.Key
	}
	if fc.S3Bucket != nil {
		cfg.S3Bucket = *fc.S3Bucket
	}
	if fc.S3Region != nil {
		cfg.S3Region = *fc.S3Region
	}
	if fc.S3Endpoint != nil {
		cfg.S3Endpoint = *fc.S3Endpoint
	}
	if fc.S3PathStyle != nil {
		cfg.S3PathStyle = *fc.S3PathStyle
	}
	if cfg.Path == "" {
		switch store.Driver(cfg.Driver) {
		case store.DriverSQLite:
			cfg.Path = config.DefaultDBPath()
		case store.DriverFile:
			cfg.Path = config.DefaultStateFilePath()
		}
	}
	return cfg
}

func resolveCorpusPath(path string) string {
	if strings.TrimSpace(path) == "" {
		return config.DefaultCorpusPath()
	}
	return path
}

// resolveChapter returns chapter if the corpus has it, or the first chapter
// when chapter is 0.
func resolveChapter(items []model.VocabItem, chapter int) (int, error) {
	chapters := corpus.Chapters(items)
	if len(chapters) == 0 {
		return 0, fmt.Errorf("vocabulary has no chapters")
	}
	if chapter == 0 {
		return chapters[0], nil
	}
	for _, ch := range chapters {
		if ch == chapter {
			return ch, nil
		}
	}
	names := make([]string, len(chapters))
	for i, ch := range chapters {
		names[i] = fmt.Sprintf("%d", ch)
	}
	return 0, fmt.Errorf("chapter %d not found (available: %s)", chapter, strings.Join(names, ", "))
}

func validateConfig(cfg model.Config) (tui.Options, error) {
	var opts tui.Options
	if cfg.Chapter < 0 {
		return opts, fmt.Errorf("--chapter must be >= 0")
	}
	filter, err := leitner.ParseFilter(cfg.Filter)
	if err != nil {
		return opts, fmt.Errorf("--filter: %w", err)
	}
	mode, err := quiz.ParseMode(cfg.Mode)
	if err != nil {
		return opts, fmt.Errorf("--mode: %w", err)
	}
	dir, err := quiz.ParseDirection(cfg.Direction)
	if err != nil {
		return opts, fmt.Errorf("--direction: %w", err)
	}
	opts.Chapter = cfg.Chapter
	opts.Filter = filter
	opts.Mode = mode
	opts.Direction = dir
	return opts, nil
}

func corpusLoadError(path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load vocabulary: %v", err),
		fmt.Sprintf("expected vocabulary at: %s", path),
		"Import one: vocabox import words.xlsx",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# vocabox configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# chapter = 1             # Chapter to practice (default: first chapter)
# filter = %q          # Items to include: all, due, new
# mode = %q          # Answer mode: flash, mcq, type
# direction = %q     # Prompt direction: lt2tl, tl2lt
# corpus = %q

[storage]
# driver = "sqlite"       # sqlite, file, s3, memory
# path = %q
# key = %q
# s3-bucket = "my-bucket"
# s3-region = "us-east-1"
# s3-endpoint = "http://localhost:9000"
# s3-path-style = true
`,
		defaultFilter,
		defaultMode,
		defaultDirection,
		config.DefaultCorpusPath(),
		config.DefaultDBPath(),
		store.DefaultKey,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
