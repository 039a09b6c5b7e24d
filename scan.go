package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// runScan executes one scan: tree generation, then the indexer. ok=false
// covers failures handled in place (skip, tool exit); err covers
// anything unexpected, which the batch driver reports with the scan name.
func runScan(r cmdRunner, p *progress, stderr io.Writer, name string, scan ScanDef, global map[string]string, verbose bool) (bool, error) {
	if _, err := os.Stat(scan.Disk); err != nil {
		fmt.Fprintf(stderr, "warning: %s does not exist, skipping\n", scan.Disk)
		return false, nil
	}
	if _, valid := parseMode(scan.Mode); !valid {
		fmt.Fprintf(stderr, "error: unknown mode '%s' for scan '%s'\n", scan.Mode, name)
		return false, nil
	}

	p.printf("\n# cataloging %s: %s\n", name, scan.Disk)

	ok := true
	total := startTimer()

	p.working("# %s: tree ...", name)
	treeTimer := startTimer()
	err := generateTree(r, name, scan, global, verbose)
	treeTimer.stop()
	if err != nil {
		var cmdErr *cmdError
		if errors.As(err, &cmdErr) {
			fmt.Fprintf(stderr, "warning: %s\n", cmdErr)
			return false, nil
		}
		return false, err
	}
	p.printf("# tree: %s\n", treeTimer)

	args := []string{global["scanner"], scan.Disk, "-s", stateFileName(global, scan.Desc), "-o", csvFileName(global, scan.Desc)}
	if verbose {
		args = append(args, "-v")
	}

	p.working("# %s: scan ...", name)
	scanTimer := startTimer()
	_, err = r.run(args, false)
	scanTimer.stop()
	if err != nil {
		var cmdErr *cmdError
		if !errors.As(err, &cmdErr) {
			return false, err
		}
		fmt.Fprintf(stderr, "warning: fsscan failed (code %d)\n", cmdErr.code)
		ok = false
	}
	p.printf("# scan: %s\n", scanTimer)

	total.stop()
	p.printf("# %s TOTAL: %s\n", name, total)
	return ok, nil
}

// runBatch executes the planned scans in order. Failures stay local to
// their scan; only the aggregate list decides the exit status.
func runBatch(r cmdRunner, p *progress, stdout, stderr io.Writer, cfg *Config, planned []string, verbose bool) int {
	var failed []string
	for _, name := range planned {
		if !runScanGuarded(r, p, stderr, name, cfg.Scans[name], cfg.Global, verbose) {
			failed = append(failed, name)
		}
	}
	p.stop()

	if len(failed) > 0 {
		fmt.Fprintf(stdout, "\n%d scan(s) failed: %s\n", len(failed), strings.Join(failed, ", "))
		return 1
	}
	fmt.Fprintln(stdout, "\nAll scans completed successfully.")
	return 0
}

// runScanGuarded keeps a panic escaping one scan from taking down the
// rest of the batch.
func runScanGuarded(r cmdRunner, p *progress, stderr io.Writer, name string, scan ScanDef, global map[string]string, verbose bool) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			fmt.Fprintf(stderr, "\nerror: scan '%s': %v\n", name, rec)
			ok = false
		}
	}()

	ok, err := runScan(r, p, stderr, name, scan, global, verbose)
	if err != nil {
		fmt.Fprintf(stderr, "\nerror: scan '%s' failed: %v\n", name, err)
		return false
	}
	return ok
}
