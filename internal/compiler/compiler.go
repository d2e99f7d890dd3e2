package compiler

import (
	"slices"
	"sort"

	"cbot/internal/diag"
	"cbot/internal/ir"
	"cbot/internal/lexer"
	"cbot/internal/natives"
	"cbot/internal/source"
	"cbot/internal/token"
	"cbot/internal/types"
)

// MainName is the implicit entry point collecting top-level statements.
const MainName = "main"

// Env supplies what a compilation depends on besides the source.
type Env struct {
	Registry *natives.Registry
}

// abort carries the first error out of the recursive descent.
type abort struct {
	d *diag.Diagnostic
}

type compiler struct {
	file *source.File
	toks []token.Token
	pos  int
	last token.Token

	reg     *natives.Registry
	unit    *ir.Unit
	classes *types.Table
	funcs   map[string][]*ir.Func
	user    map[string]*ir.Class
	used    map[string]bool

	// body state
	fn     *ir.Func
	cls    *ir.Class
	scopes []map[string]types.Type
	jumps  []jumpTarget
}

type jumpTarget struct {
	label  string
	isLoop bool
}

// Compile parses and type-checks file. On failure the returned diagnostic
// describes the first error and the unit is nil.
func Compile(file *source.File, env Env) (unit *ir.Unit, d *diag.Diagnostic) {
	if env.Registry == nil {
		env.Registry = natives.NewRegistry()
	}
	bag := diag.NewBag(1)
	toks := make([]token.Token, 0, len(file.Content)/4+1)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	for {
		t := lx.Next()
		toks = append(toks, t)
		if t.Kind == token.EOF {
			break
		}
	}
	if bag.HasErrors() {
		first := bag.Items()[0]
		return nil, &first
	}

	c := &compiler{
		file:    file,
		toks:    toks,
		reg:     env.Registry,
		unit:    &ir.Unit{File: file},
		classes: env.Registry.Classes(),
		funcs:   make(map[string][]*ir.Func),
		user:    make(map[string]*ir.Class),
		used:    make(map[string]bool),
	}
	defer func() {
		if r := recover(); r != nil {
			a, ok := r.(abort)
			if !ok {
				panic(r)
			}
			unit, d = nil, a.d
		}
	}()
	c.run()
	return c.unit, nil
}

func (c *compiler) run() {
	items := c.collect()
	for _, it := range items {
		if it.fn != nil {
			c.compileBody(it.fn, it.cls, it.body)
		}
	}
	if main := c.mainFunc(items); main != nil {
		c.compileMain(main, items)
	}
	for _, it := range items {
		if it.fn != nil && it.fn.Extern {
			c.unit.Exports = append(c.unit.Exports, it.fn.Name)
		}
		if it.isMain && !slices.Contains(c.unit.Exports, MainName) {
			c.unit.Exports = append(c.unit.Exports, MainName)
		}
	}
	c.unit.Types = c.classes
	for name := range c.used {
		c.unit.Natives = append(c.unit.Natives, name)
	}
	sort.Strings(c.unit.Natives)
}

func (c *compiler) fail(code diag.Code, sp source.Span, msg string) {
	panic(abort{d: diag.New(code, sp, msg)})
}

func (c *compiler) failAt(code diag.Code, msg string) {
	c.fail(code, c.peek().Span, msg)
}
