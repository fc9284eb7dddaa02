package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Sarakael78/DoctorCodebase/internal/classify"
	"github.com/Sarakael78/DoctorCodebase/internal/engine"
	"github.com/Sarakael78/DoctorCodebase/internal/output"
	"github.com/Sarakael78/DoctorCodebase/internal/publish"
	"github.com/Sarakael78/DoctorCodebase/internal/rules"
	"github.com/Sarakael78/DoctorCodebase/internal/tokens"
	"github.com/Sarakael78/DoctorCodebase/internal/types"
)

// version is the application version, set via ldflags.
var version = "dev"

var cfgFile string

// settings is the merged view of defaults, config file, environment and flags.
type settings struct {
	Rules         string
	Formats       []string
	All           bool
	OutputDir     string
	Name          string
	MaxSize       int64
	MaxDepth      int
	SkipHidden    bool
	Gitignore     bool
	Tokens        bool
	Tokenizer     string
	Model         string
	TokenizerFile string
	Clipboard     bool
	Interactive   bool
	TraverseLinks bool
	LinkDepth     int
	Publish       string
	S3Endpoint    string
	S3Region      string
	S3AccessKey   string
	S3SecretKey   string
	S3Insecure    bool
	Verbose       bool
}

func loadSettings() settings {
	return settings{
		Rules:         viper.GetString("rules"),
		Formats:       viper.GetStringSlice("format"),
		All:           viper.GetBool("all"),
		OutputDir:     viper.GetString("output_dir"),
		Name:          viper.GetString("name"),
		MaxSize:       viper.GetInt64("max_size"),
		MaxDepth:      viper.GetInt("max_depth"),
		SkipHidden:    viper.GetBool("skip_hidden"),
		Gitignore:     viper.GetBool("gitignore"),
		Tokens:        viper.GetBool("tokens"),
		Tokenizer:     viper.GetString("tokenizer"),
		Model:         viper.GetString("model"),
		TokenizerFile: viper.GetString("tokenizer_file"),
		Clipboard:     viper.GetBool("clipboard"),
		Interactive:   viper.GetBool("interactive"),
		TraverseLinks: viper.GetBool("traverse_links"),
		LinkDepth:     viper.GetInt("link_depth"),
		Publish:       viper.GetString("publish"),
		S3Endpoint:    viper.GetString("s3_endpoint"),
		S3Region:      viper.GetString("s3_region"),
		S3AccessKey:   viper.GetString("s3_access_key"),
		S3SecretKey:   viper.GetString("s3_secret_key"),
		S3Insecure:    viper.GetBool("s3_insecure"),
		Verbose:       viper.GetBool("verbose"),
	}
}

var rootCmd = &cobra.Command{
	Use:   "doctorcodebase [PATH | GIT URL | WEB URL]",
	Short: "Snapshot a codebase into one report with structure, contents and statistics.",
	Long: `doctorcodebase walks a project tree, collects the contents of source and
configuration files and writes a consolidated report (text, JSON, CSV or PDF)
together with statistics such as line, function, class and TODO counts.

The input can be a local directory, a Git repository URL or a web page.`,
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), loadSettings(), args)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/doctorcodebase/config.toml)")

	// Rules and filtering
	rootCmd.Flags().String("rules", "", "Rule document (rules.yml); searched in ~/.config/doctorcodebase and . when empty")
	viper.BindPFlag("rules", rootCmd.Flags().Lookup("rules"))
	rootCmd.Flags().Int64P("max-size", "s", classify.DefaultMaxFileBytes, "Maximum file size in bytes to read (0 for no limit)")
	viper.BindPFlag("max_size", rootCmd.Flags().Lookup("max-size"))
	rootCmd.Flags().Int("max-depth", 0, "Maximum directory depth to traverse (0 for no limit)")
	viper.BindPFlag("max_depth", rootCmd.Flags().Lookup("max-depth"))
	rootCmd.Flags().Bool("skip-hidden", false, "Skip hidden files and directories")
	viper.BindPFlag("skip_hidden", rootCmd.Flags().Lookup("skip-hidden"))
	rootCmd.Flags().Bool("gitignore", false, "Respect the root .gitignore")
	viper.BindPFlag("gitignore", rootCmd.Flags().Lookup("gitignore"))

	// Output
	rootCmd.Flags().StringSliceP("format", "f", []string{"text"}, "Output formats: text, json, csv, pdf (repeatable or comma-separated)")
	viper.BindPFlag("format", rootCmd.Flags().Lookup("format"))
	rootCmd.Flags().Bool("all", false, "Write every output format")
	viper.BindPFlag("all", rootCmd.Flags().Lookup("all"))
	rootCmd.Flags().StringP("output-dir", "o", "", "Output directory (default <root>/output, or ./output for remote inputs)")
	viper.BindPFlag("output_dir", rootCmd.Flags().Lookup("output-dir"))
	rootCmd.Flags().String("name", "", "Project name used in output file names")
	viper.BindPFlag("name", rootCmd.Flags().Lookup("name"))
	rootCmd.Flags().BoolP("clipboard", "c", false, "Copy the text report to the clipboard")
	viper.BindPFlag("clipboard", rootCmd.Flags().Lookup("clipboard"))

	// Token counting
	rootCmd.Flags().Bool("tokens", false, "Count tokens per file")
	viper.BindPFlag("tokens", rootCmd.Flags().Lookup("tokens"))
	rootCmd.Flags().String("tokenizer", tokens.KindTiktoken, "Tokenizer to use: tiktoken or huggingface")
	viper.BindPFlag("tokenizer", rootCmd.Flags().Lookup("tokenizer"))
	rootCmd.Flags().String("model", "", "Model name for the tokenizer (e.g., gpt-4o, gpt2)")
	viper.BindPFlag("model", rootCmd.Flags().Lookup("model"))
	rootCmd.Flags().String("tokenizer-file", "", "Path to a local tokenizer.json")
	viper.BindPFlag("tokenizer_file", rootCmd.Flags().Lookup("tokenizer-file"))

	// Inputs
	rootCmd.Flags().Bool("interactive", false, "Pick the directory to snapshot with a fuzzy finder")
	viper.BindPFlag("interactive", rootCmd.Flags().Lookup("interactive"))
	rootCmd.Flags().Bool("traverse-links", false, "Follow same-site links when the input is a web URL")
	viper.BindPFlag("traverse_links", rootCmd.Flags().Lookup("traverse-links"))
	rootCmd.Flags().Int("link-depth", 1, "Maximum depth of followed links")
	viper.BindPFlag("link_depth", rootCmd.Flags().Lookup("link-depth"))

	// Publishing
	rootCmd.Flags().String("publish", "", "Upload written reports to s3://bucket/prefix")
	viper.BindPFlag("publish", rootCmd.Flags().Lookup("publish"))
	rootCmd.Flags().String("s3-endpoint", "", "S3-compatible endpoint (host:port)")
	viper.BindPFlag("s3_endpoint", rootCmd.Flags().Lookup("s3-endpoint"))
	rootCmd.Flags().String("s3-region", "", "S3 region (default us-east-1)")
	viper.BindPFlag("s3_region", rootCmd.Flags().Lookup("s3-region"))
	rootCmd.Flags().String("s3-access-key", "", "S3 access key")
	viper.BindPFlag("s3_access_key", rootCmd.Flags().Lookup("s3-access-key"))
	rootCmd.Flags().String("s3-secret-key", "", "S3 secret key (prefer DOCTORCODEBASE_S3_SECRET_KEY)")
	viper.BindPFlag("s3_secret_key", rootCmd.Flags().Lookup("s3-secret-key"))
	rootCmd.Flags().Bool("s3-insecure", false, "Use plain HTTP for the S3 endpoint")
	viper.BindPFlag("s3_insecure", rootCmd.Flags().Lookup("s3-insecure"))

	rootCmd.Flags().BoolP("verbose", "v", false, "Log walk and classification details to stderr")
	viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))

	viper.SetDefault("max_size", classify.DefaultMaxFileBytes)
	viper.SetDefault("format", []string{"text"})
	viper.SetDefault("tokenizer", tokens.KindTiktoken)
	viper.SetDefault("link_depth", 1)
}

// initConfig loads .env, then the config file and DOCTORCODEBASE_* variables.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "doctorcodebase"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.SetEnvPrefix("DOCTORCODEBASE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
		}
	}
}

func newLogger(verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func run(ctx context.Context, s settings, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := newLogger(s.Verbose)

	rs, rulesPath, err := rules.Resolve(s.Rules)
	if err != nil {
		return err
	}
	if rulesPath != "" {
		fmt.Printf("Using rules from %s\n", rulesPath)
	}

	input := "."
	if len(args) > 0 {
		input = args[0]
	}
	if s.Interactive {
		picked, err := pickRoot(".", rs, s.SkipHidden)
		if err != nil {
			return fmt.Errorf("interactive mode: %w", err)
		}
		if picked == "" {
			return nil
		}
		input = picked
	}

	src, err := acquire(ctx, input, s, rs)
	if err != nil {
		return err
	}
	defer src.cleanup()

	formats := output.AllFormats
	if !s.All {
		if formats, err = output.ParseFormats(s.Formats); err != nil {
			return err
		}
	}

	opts := engine.Options{
		Formats:      formats,
		OutputDir:    s.OutputDir,
		ProjectName:  s.Name,
		MaxFileBytes: s.MaxSize,
		MaxDepth:     s.MaxDepth,
		SkipHidden:   s.SkipHidden,
		UseGitignore: s.Gitignore,
		Logger:       log,
	}
	if s.MaxSize == 0 {
		opts.MaxFileBytes = -1
	}
	if opts.ProjectName == "" {
		opts.ProjectName = src.name
	}
	if opts.OutputDir == "" && src.remote {
		opts.OutputDir = engine.DefaultOutputDir
	}
	if s.Tokens {
		counter, err := tokens.New(s.Tokenizer, s.Model, s.TokenizerFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing tokenizer: %v\n", err)
			fmt.Fprintln(os.Stderr, "Token counting disabled due to error.")
		} else {
			fmt.Printf("Counting tokens with %s\n", counter.Name())
			opts.Tokens = counter
		}
	}

	fmt.Printf("Processing %s\n", src.root)
	res, report, err := engine.Run(src.root, src.rules, opts)
	if err != nil {
		return err
	}
	printReport(res, report)

	if s.Clipboard {
		copyTextReport(report.Written)
	}
	if s.Publish != "" && len(report.Written) > 0 {
		if err := publishReports(ctx, s, report.Written); err != nil {
			fmt.Fprintf(os.Stderr, "Error publishing reports: %v\n", err)
		}
	}

	if n := len(report.Failed); n > 0 {
		return fmt.Errorf("%d output artifact(s) could not be written", n)
	}
	return nil
}

func printReport(res *types.RunResult, report engine.Report) {
	for _, w := range report.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w.Error())
	}
	for _, p := range report.Written {
		fmt.Printf("Output saved to %s\n", p)
	}
	for _, err := range report.Failed {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	st := res.Statistics
	fmt.Println("\n--- Summary ---")
	fmt.Printf("Files: %d (%s)\n", st.TotalFiles, humanize.Bytes(uint64(st.TotalBytes)))
	fmt.Printf("Lines: %s\n", humanize.Comma(int64(st.TotalLines)))
	fmt.Printf("Functions: %d, classes: %d, TODOs: %d\n", st.TotalFunctions, st.TotalClasses, st.TotalTodos)
	if st.TokensCounted {
		fmt.Printf("Tokens: %s\n", humanize.Comma(int64(st.TotalTokens)))
	}
	if st.SkippedFiles > 0 {
		fmt.Printf("Skipped files: %d\n", st.SkippedFiles)
	}
	if len(report.Failed) > 0 {
		fmt.Printf("Failed outputs: %d\n", len(report.Failed))
	}
}

func copyTextReport(written []string) {
	for _, p := range written {
		if filepath.Ext(p) != "."+output.FormatText.Ext() {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s for clipboard: %v\n", p, err)
			return
		}
		if err := clipboard.WriteAll(string(data)); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing to clipboard: %v\n", err)
			return
		}
		fmt.Println("Text report copied to clipboard.")
		return
	}
	fmt.Fprintln(os.Stderr, "Warning: no text report was written, nothing copied to clipboard.")
}

func publishReports(ctx context.Context, s settings, files []string) error {
	target, err := publish.ParseTarget(s.Publish)
	if err != nil {
		return err
	}
	p, err := publish.New(publish.Config{
		Endpoint:  s.S3Endpoint,
		Region:    s.S3Region,
		AccessKey: s.S3AccessKey,
		SecretKey: s.S3SecretKey,
		Bucket:    target.Bucket,
		Prefix:    target.Prefix,
		UseSSL:    !s.S3Insecure,
	})
	if err != nil {
		return err
	}
	keys, err := p.Upload(ctx, files)
	for _, k := range keys {
		fmt.Printf("Published s3://%s/%s\n", target.Bucket, k)
	}
	return err
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
