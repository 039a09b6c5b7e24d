package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	cli "github.com/jawher/mow.cli"
	"github.com/joho/godotenv"
)

func main() {
	app := cli.App("fscatalog", "Catalog filesystem trees using fsscan and tree/du/df")
	app.Version("version", appversion)
	app.Spec = "[CONFIG] [--scan...] [--dry-run] [--verbose]"

	var (
		configArg = app.StringArg("CONFIG", "", "Path to catalog TOML config (default: catalog.toml next to the binary)")
		scans     = app.StringsOpt("scan", nil, "Run only the named scan(s); repeatable")
		dryRun    = app.BoolOpt("dry-run", false, "Print plan without executing")
		verbose   = app.BoolOpt("v verbose", false, "Verbose output; passes -v to fsscan")
	)

	app.Action = func() {
		code := run(runOptions{
			configPath: *configArg,
			scans:      *scans,
			dryRun:     *dryRun,
			verbose:    *verbose,
			stdout:     os.Stdout,
			stderr:     os.Stderr,
			live:       true,
		})
		if code != 0 {
			cli.Exit(code)
		}
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println(err.Error())
	}
}

// runOptions carries everything run needs, so tests can inject a fake
// runner and plain writers.
type runOptions struct {
	configPath string
	scans      []string
	dryRun     bool
	verbose    bool
	stdout     io.Writer
	stderr     io.Writer
	runner     cmdRunner
	live       bool
}

func run(opts runOptions) int {
	configPath := opts.configPath
	if configPath == "" {
		configPath = defaultConfigPath()
	}
	if !fileExists(configPath) {
		fmt.Fprintf(opts.stderr, "error: config file not found: %s\n", configPath)
		return 1
	}

	// A .env next to the config can supply variables for interpolation.
	if envFile := filepath.Join(filepath.Dir(configPath), ".env"); fileExists(envFile) {
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(opts.stderr, "warning: %s: %v\n", envFile, err)
		}
	}

	cfg, err := loadConfig(configPath, os.LookupEnv)
	if err != nil {
		fmt.Fprintf(opts.stderr, "error: %v\n", err)
		return 1
	}

	planned, err := planScans(cfg, opts.scans)
	if err != nil {
		fmt.Fprintf(opts.stderr, "error: %v\n", err)
		return 1
	}

	if len(planned) == 0 {
		fmt.Fprintln(opts.stdout, "No scans to run.")
		return 0
	}

	if opts.dryRun {
		printPlan(opts.stdout, cfg, planned)
		return 0
	}

	if err := cfg.checkRequired(); err != nil {
		fmt.Fprintf(opts.stderr, "error: %v\n", err)
		return 1
	}
	for _, key := range []string{"trees_path", "csvs_path", "state_path"} {
		if err := os.MkdirAll(cfg.Global[key], 0o755); err != nil {
			fmt.Fprintf(opts.stderr, "error: %v\n", err)
			return 1
		}
	}

	p := newProgress(opts.stdout, opts.live)
	runner := opts.runner
	if runner == nil {
		runner = &execRunner{
			verbose: opts.verbose,
			echo:    opts.stdout,
			stdout:  opts.stdout,
			stderr:  opts.stderr,
		}
	}
	return runBatch(runner, p, opts.stdout, opts.stderr, cfg, planned, opts.verbose)
}

func printPlan(out io.Writer, cfg *Config, planned []string) {
	fmt.Fprint(out, "Dry run - would execute the following scans:\n\n")
	for _, key := range []string{"scanner", "tree", "trees_path", "csvs_path", "state_path"} {
		value := cfg.Global[key]
		if value == "" {
			value = "(not set)"
		}
		fmt.Fprintf(out, "  %-11s %s\n", key+":", value)
	}
	fmt.Fprintln(out)
	for _, name := range planned {
		scan := cfg.Scans[name]
		mode := scan.Mode
		if mode == "" {
			mode = "used"
		}
		disk := scan.Disk
		if disk == "" {
			disk = "(not set)"
		}
		fmt.Fprintf(out, "  [%s] mode=%s disk=%s\n", name, mode, disk)
		fmt.Fprintf(out, "    desc: %s\n", scan.Desc)
		if scan.Compress != "" {
			fmt.Fprintf(out, "    compress: %s\n", scan.Compress)
		}
	}
}

// defaultConfigPath is catalog.toml next to the executable, falling back
// to the working directory when the executable path is unavailable.
func defaultConfigPath() string {
	exe, err := os.Executable()
	if err != nil {
		return "catalog.toml"
	}
	return filepath.Join(filepath.Dir(exe), "catalog.toml")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
