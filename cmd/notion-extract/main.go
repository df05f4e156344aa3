// Package main is the entry point for the notion-extract CLI tool.
//
// notion-extract exports every page of a Notion database to Markdown files
// with YAML front matter plus a JSON metadata index, for static site builds.
// The token and database ID come from flags, NOTION_* environment variables
// or a .env file, in that order of precedence.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/maruel/notion-extract/internal/extract"
	"github.com/maruel/notion-extract/internal/notion"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/peterbourgon/ff/v3"
)

// envPrefix maps flag -database-id to NOTION_DATABASE_ID.
const envPrefix = "NOTION"

func main() {
	if err := mainImpl(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "notion-extract: %v\n", err)
		}
		os.Exit(1)
	}
}

func mainImpl() error {
	fs := flag.NewFlagSet("notion-extract", flag.ExitOnError)
	version := fs.Bool("version", false, "Print version and exit")
	token := fs.String("token", "", "Notion integration token (or NOTION_TOKEN)")
	databaseID := fs.String("database-id", "", "Notion database ID (or NOTION_DATABASE_ID)")
	contentDir := fs.String("content-dir", filepath.Join("src", "content", "pages"), "Directory receiving one <slug>.md per page; wiped on every run")
	metadataPath := fs.String("metadata", filepath.Join("src", "content", "_metadata.json"), "Path of the JSON metadata index")
	envFile := fs.String("env-file", ".env", "Optional .env file read for NOTION_* variables")
	logLevel := fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	dryRun := fs.Bool("dry-run", false, "List pages and their slugs without writing anything")
	schema := fs.Bool("schema", false, "Print the JSON Schema of the metadata index and exit")
	efs, err := parseFlags(fs, os.Args[1:])
	if err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unknown arguments: %v", fs.Args())
	}

	if *version {
		printVersion()
		return nil
	}
	if *schema {
		data, err := extract.MetadataSchema()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()
	ll := &slog.LevelVar{}
	ll.Set(slog.LevelInfo)
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000", // Like time.TimeOnly plus milliseconds.
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Drop zero values.
			switch t := a.Value.Any().(type) {
			case string:
				if t == "" {
					return slog.Attr{}
				}
			case time.Duration:
				if t == 0 {
					return slog.Attr{}
				}
			case nil:
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	// Values from the .env file fill flags set neither on the command line
	// nor through the environment.
	env, err := loadDotEnv(*envFile)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", *envFile, err)
	}
	if err := applyDotEnv(efs, env, setFlags(fs, efs)); err != nil {
		return err
	}

	switch *logLevel {
	case "debug":
		ll.Set(slog.LevelDebug)
	case "info":
	case "warn":
		ll.Set(slog.LevelWarn)
	case "error":
		ll.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level: %q", *logLevel)
	}

	cfg := &notion.Config{Token: *token, DatabaseID: *databaseID}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w (use -token/-database-id or NOTION_TOKEN/NOTION_DATABASE_ID)", err)
	}

	client := notion.NewClient(cfg)
	writer := extract.NewWriter(*contentDir, *metadataPath)
	progress := &extract.SlogProgress{Ctx: ctx, Logger: logger}
	extractor := extract.NewExtractor(client, cfg.DatabaseID, writer, progress)

	if *dryRun {
		out, err := extractor.DryRunJSON(ctx)
		if err != nil {
			return fmt.Errorf("dry run failed: %w", err)
		}
		fmt.Println(out)
		return nil
	}

	stats, err := extractor.Run(ctx)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	slog.InfoContext(ctx, fmt.Sprintf("Extracted %d pages successfully!", stats.Pages), "content", *contentDir, "metadata", *metadataPath)
	return nil
}

// envFlags are the only flags that NOTION_* variables and the .env file can
// set.
var envFlags = []string{"token", "database-id"}

// envFlagSet returns a flag set holding the envFlags of fs. Values are shared
// with fs.
func envFlagSet(fs *flag.FlagSet) *flag.FlagSet {
	efs := flag.NewFlagSet(fs.Name()+"-env", flag.ContinueOnError)
	for _, name := range envFlags {
		f := fs.Lookup(name)
		efs.Var(f.Value, f.Name, f.Usage)
	}
	return efs
}

// parseFlags parses args into fs. Only envFlags also read NOTION_*
// variables, and the command line wins over them. It returns the flag set
// holding envFlags.
func parseFlags(fs *flag.FlagSet, args []string) (*flag.FlagSet, error) {
	efs := envFlagSet(fs)
	if err := ff.Parse(efs, nil, ff.WithEnvVarPrefix(envPrefix)); err != nil {
		return nil, err
	}
	if err := ff.Parse(fs, args); err != nil {
		return nil, err
	}
	return efs, nil
}

// setFlags returns the names of the flags set in any of the flag sets.
func setFlags(sets ...*flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	for _, fs := range sets {
		fs.Visit(func(f *flag.Flag) {
			set[f.Name] = true
		})
	}
	return set
}

// applyDotEnv sets every flag of fs not in set from its NOTION_* key in env.
func applyDotEnv(fs *flag.FlagSet, env map[string]string, set map[string]bool) error {
	var errs []error
	fs.VisitAll(func(f *flag.Flag) {
		if set[f.Name] {
			return
		}
		if v, ok := env[envKey(f.Name)]; ok && v != "" {
			if err := fs.Set(f.Name, v); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", envKey(f.Name), err))
			}
		}
	})
	return errors.Join(errs...)
}

func envKey(flagName string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

// loadDotEnv parses a .env file. A missing file yields an empty map.
func loadDotEnv(path string) (map[string]string, error) {
	env := make(map[string]string)
	if path == "" {
		return env, nil
	}
	envContent, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the -env-file flag
	if err != nil {
		if os.IsNotExist(err) {
			return env, nil
		}
		return nil, err
	}

	for line := range strings.SplitSeq(string(envContent), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])

		switch {
		case strings.HasPrefix(val, "'"):
			end := strings.IndexByte(val[1:], '\'')
			if end < 0 {
				return nil, fmt.Errorf("unbalanced single quotes in .env: %s", key)
			}
			val = val[1 : 1+end]
		case strings.HasPrefix(val, "\""):
			quoted, err := strconv.QuotedPrefix(val)
			if err != nil {
				return nil, fmt.Errorf("failed to unquote %s: %w", key, err)
			}
			if val, err = strconv.Unquote(quoted); err != nil {
				return nil, fmt.Errorf("failed to unquote %s: %w", key, err)
			}
		default:
			// Unquoted values end at a comment.
			if i := strings.IndexByte(val, '#'); i >= 0 {
				val = strings.TrimSpace(val[:i])
			}
		}

		env[key] = val
	}
	return env, nil
}

func printVersion() {
	version, goVersion, revision, dirty := getBuildInfo()
	fmt.Printf("notion-extract %s\n", version)
	fmt.Printf("  Go version: %s\n", goVersion)
	fmt.Printf("  Revision:   %s\n", revision)
	if dirty {
		fmt.Printf("  Modified:   true\n")
	}
}

func getBuildInfo() (version, goVersion, revision string, dirty bool) {
	version = "unknown"
	goVersion = "unknown"
	revision = "unknown"
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	version = info.Main.Version
	if version == "" || version == "(devel)" {
		version = "dev"
	}
	goVersion = info.GoVersion
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	return
}
