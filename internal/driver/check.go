package driver

import (
	"fmt"

	"cbot/internal/compiler"
	"cbot/internal/diag"
	"cbot/internal/ir"
	"cbot/internal/lexer"
	"cbot/internal/natives"
	"cbot/internal/observ"
	"cbot/internal/source"
)

// CheckResult is the outcome of compiling one script.
type CheckResult struct {
	Path   string
	FileID source.FileID
	Unit   *ir.Unit
	Bag    *diag.Bag
	Timing *observ.Report
}

// OK reports whether the script compiled.
func (r *CheckResult) OK() bool { return r.Unit != nil && !r.Bag.HasErrors() }

// Check loads and compiles a single script against reg.
func Check(path string, reg *natives.Registry, maxDiagnostics int) (*source.FileSet, *CheckResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return fs, checkFile(fs.Get(fileID), path, reg, maxDiagnostics), nil
}

// checkFile runs the lexer for diagnostics, then the compiler.
func checkFile(file *source.File, path string, reg *natives.Registry, maxDiagnostics int) *CheckResult {
	timer := observ.NewTimer()
	bag := diag.NewBag(max(maxDiagnostics, 1))
	res := &CheckResult{Path: path, FileID: file.ID, Bag: bag}

	idx := timer.Begin("tokenize")
	tokens := lexer.All(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	timer.End(idx, fmt.Sprintf("tokens=%d", len(tokens)))

	idx = timer.Begin("compile")
	unit, d := compiler.Compile(file, compiler.Env{Registry: reg})
	if d != nil {
		timer.End(idx, d.Code.ID())
		// при лексических ошибках компилятор упирается в ту же первую
		if !bag.HasErrors() {
			bag.Add(*d)
		}
	} else {
		timer.End(idx, "")
		res.Unit = unit
	}

	report := timer.Report()
	res.Timing = &report
	return res
}
