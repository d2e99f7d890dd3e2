package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"cbot/internal/diag"
	"cbot/internal/natives"
	"cbot/internal/source"
)

// ScriptExt is the extension of script files.
const ScriptExt = ".cbot"

// ListScripts returns path itself for a file, or every script under a
// directory in sorted order. Hidden directories such as .cbot (the save
// store) are skipped.
func ListScripts(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case d.IsDir() && p != path && strings.HasPrefix(d.Name(), "."):
			return filepath.SkipDir
		case !d.IsDir() && filepath.Ext(p) == ScriptExt:
			files = append(files, p)
		}
		return nil
	})
	slices.Sort(files)
	return files, err
}

type checkJob struct {
	path string
	file *source.File
	err  error
}

// CheckFiles compiles paths on up to jobs goroutines. Results keep the
// order of paths; a file that cannot be read gets an IO diagnostic.
func CheckFiles(ctx context.Context, paths []string, reg *natives.Registry, maxDiagnostics, jobs int) (*source.FileSet, []CheckResult, error) {
	fileSet := source.NewFileSet()
	// FileSet не потокобезопасен, поэтому все файлы читаются до запуска воркеров
	work := make([]checkJob, len(paths))
	for i, path := range paths {
		work[i].path = path
		id, err := fileSet.Load(path)
		if err != nil {
			work[i].err = err
			continue
		}
		work[i].file = fileSet.Get(id)
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]CheckResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(min(jobs, len(paths)), 1))
	for i, job := range work {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if job.err != nil {
				results[i] = loadFailure(job.path, job.err, maxDiagnostics)
				return nil
			}
			results[i] = *checkFile(job.file, job.path, reg, maxDiagnostics)
			return nil
		})
	}
	err := g.Wait()
	return fileSet, results, err
}

func loadFailure(path string, err error, maxDiagnostics int) CheckResult {
	bag := diag.NewBag(max(maxDiagnostics, 1))
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.IOLoadFileError,
		Message:  "failed to load file: " + err.Error(),
	})
	return CheckResult{Path: path, Bag: bag}
}
