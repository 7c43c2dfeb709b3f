package publish

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Report summarizes one publish run.
type Report struct {
	FilesCopied  int
	RootsSkipped []string
}

// Run copies the markdown content tree into the output directory. For
// each named root under srcDir it recursively copies every file ending
// in ".md" (case-sensitive) to the same relative path under outDir,
// creating directories as needed. Non-markdown files are ignored and
// roots that do not exist are skipped without error, so the content
// folder list can be a superset of what a checkout actually contains.
func Run(srcDir string, roots []string, outDir string) (Report, error) {
	var report Report

	for _, root := range roots {
		srcRoot := filepath.Join(srcDir, root)
		if _, err := os.Stat(srcRoot); err != nil {
			report.RootsSkipped = append(report.RootsSkipped, root)
			slog.Debug("content root missing, skipping", "root", root)
			continue
		}

		err := filepath.WalkDir(srcRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
				return nil
			}

			rel, err := filepath.Rel(srcRoot, path)
			if err != nil {
				return err
			}
			dst := filepath.Join(outDir, root, rel)
			if err := copyFile(path, dst); err != nil {
				return err
			}
			report.FilesCopied++
			return nil
		})
		if err != nil {
			return report, fmt.Errorf("publishing %s: %w", root, err)
		}
	}

	return report, nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
