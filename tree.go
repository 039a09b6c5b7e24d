package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// excludedDir is skipped both by the snapshot tool and by subdirectory
// enumeration; Synology DSM drops one of these in every shared folder.
const excludedDir = "@eaDir"

// unknownModeError flags a scan whose mode escaped earlier validation.
type unknownModeError struct {
	scan string
	mode string
}

func (e *unknownModeError) Error() string {
	return fmt.Sprintf("unknown mode '%s' for scan '%s'", e.mode, e.scan)
}

func treeFileName(global map[string]string, desc string) string {
	return filepath.Join(global["trees_path"], desc+".tree")
}

func stateFileName(global map[string]string, desc string) string {
	return filepath.Join(global["state_path"], desc+".state")
}

func csvFileName(global map[string]string, desc string) string {
	return filepath.Join(global["csvs_path"], desc+".csv")
}

// generateTree snapshots one scan's directory tree and writes the tree
// artifact for it: header, blank line, captured tree output, then one
// summary fragment per mode rule, each preceded by a blank line.
//
// Mode controls the appended summaries:
//   - used: du -sm on disk
//   - df:   df -PH on disk
//   - subs: df -PH on disk + one du -sm over its subdirectories
func generateTree(r cmdRunner, name string, scan ScanDef, global map[string]string, verbose bool) error {
	treeBin := global["tree"]
	if treeBin == "" {
		treeBin = "tree"
	}
	stateFile := stateFileName(global, scan.Desc)

	args := []string{treeBin, "-s", stateFile, "-I", excludedDir, "-N", scan.Disk}
	if verbose {
		args = append(args, "-v")
	}
	treeOut, err := r.run(args, true)
	if err != nil {
		return err
	}

	mode, valid := parseMode(scan.Mode)
	if !valid {
		// The runner validates mode before calling us; this is a re-check.
		return &unknownModeError{scan: name, mode: scan.Mode}
	}

	var fragments []string
	switch mode {
	case ModeUsed:
		out, err := r.run([]string{"du", "-sm", scan.Disk}, true)
		if err != nil {
			return err
		}
		fragments = append(fragments, out)
	case ModeDF, ModeSubs:
		out, err := r.run([]string{"df", "-PH", scan.Disk}, true)
		if err != nil {
			return err
		}
		fragments = append(fragments, out)
		if mode == ModeSubs {
			subdirs, err := listSubdirs(scan.Disk)
			if err != nil {
				return err
			}
			if len(subdirs) > 0 {
				out, err := r.run(append([]string{"du", "-sm"}, subdirs...), true)
				if err != nil {
					return err
				}
				fragments = append(fragments, out)
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteString(scan.Header)
	buf.WriteString("\n\n")
	buf.WriteString(treeOut)
	for _, fragment := range fragments {
		buf.WriteByte('\n')
		buf.WriteString(fragment)
	}
	return writeArtifact(treeFileName(global, scan.Desc), scan.Compress, buf.Bytes())
}

// listSubdirs returns the immediate subdirectories of disk, sorted by
// name, excluding the system directory name.
func listSubdirs(disk string) ([]string, error) {
	entries, err := os.ReadDir(disk)
	if err != nil {
		return nil, err
	}
	var subdirs []string
	for _, entry := range entries {
		if entry.IsDir() && entry.Name() != excludedDir {
			subdirs = append(subdirs, filepath.Join(disk, entry.Name()))
		}
	}
	return subdirs, nil
}
