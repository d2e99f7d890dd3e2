package driver

import (
	"cbot/internal/diag"
	"cbot/internal/lexer"
	"cbot/internal/source"
	"cbot/internal/token"
)

// TokenizeResult is the token stream of one script with lexer errors.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize loads path and lexes it to EOF.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	res := &TokenizeResult{FileSet: source.NewFileSet(), Bag: diag.NewBag(maxDiagnostics)}
	id, err := res.FileSet.Load(path)
	if err != nil {
		return nil, err
	}
	res.File = res.FileSet.Get(id)
	res.Tokens = lexer.All(res.File, lexer.Options{Reporter: diag.BagReporter{Bag: res.Bag}})
	return res, nil
}
