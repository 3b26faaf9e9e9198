package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var supportedExts = map[string]bool{
	".txt":  true,
	".html": true,
	".zip":  true,
}

// ExpandPaths resolves the batch's file list: plain files are kept as is,
// directories are walked for supported export files (sorted for a stable
// batch order). A missing path is an error; the caller decides whether that
// aborts the run.
func ExpandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		var found []string
		err = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil // skip unreadable entries
			}
			if info.IsDir() {
				return nil
			}
			if supportedExts[strings.ToLower(filepath.Ext(path))] {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	return paths, nil
}
