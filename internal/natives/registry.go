package natives

import (
	"fmt"
	"sync"

	"cbot/internal/diag"
	"cbot/internal/types"
	"cbot/internal/value"
)

// Registry is shared by every program of a host. Registration happens at
// startup; compilation and execution only read it.
type Registry struct {
	mu      sync.RWMutex
	nextID  uint32
	funcs   map[string]*Entry
	methods map[string][]*Entry
	byID    map[uint32]*Entry
	classes *types.Table
	consts  map[string]*value.Variable
}

func NewRegistry() *Registry {
	return &Registry{
		funcs:   make(map[string]*Entry),
		methods: make(map[string][]*Entry),
		byID:    make(map[uint32]*Entry),
		classes: types.NewTable(),
		consts:  make(map[string]*value.Variable),
	}
}

// Register adds or replaces a native function.
func (r *Registry) Register(name string, exec ExecFunc, check CheckFunc) *Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.newEntry(name, "", exec, check)
	if old, ok := r.funcs[name]; ok {
		delete(r.byID, old.ID)
	}
	r.funcs[name] = e
	return e
}

// RegisterMethod adds or replaces a native method of class.
func (r *Registry) RegisterMethod(class, name string, exec ExecFunc, check CheckFunc) *Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.newEntry(class+"."+name, class, exec, check)
	chain := r.methods[class]
	for i, old := range chain {
		if old.Name == e.Name {
			delete(r.byID, old.ID)
			chain = append(chain[:i], chain[i+1:]...)
			break
		}
	}
	r.methods[class] = append(chain, e)
	return e
}

// RegisterClass declares a host class. parent may be empty.
func (r *Registry) RegisterClass(name, parent string, fields []types.Field, intrinsic bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := &types.Class{Name: name, Fields: fields, Intrinsic: intrinsic, Native: true}
	if parent != "" {
		p := r.classes.Get(parent)
		if p == nil {
			return fmt.Errorf("class %s: unknown parent %s", name, parent)
		}
		c.Parent = p
	}
	r.classes.Add(c)
	return nil
}

// RegisterConst declares a named constant visible to scripts.
func (r *Registry) RegisterConst(name string, v *value.Variable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.consts[name] = v
}

func (r *Registry) newEntry(name, class string, exec ExecFunc, check CheckFunc) *Entry {
	r.nextID++
	e := &Entry{ID: r.nextID, Name: name, Class: class, Exec: exec, Check: check}
	r.byID[e.ID] = e
	return e
}

// Classes returns a copy of the host class table.
func (r *Registry) Classes() *types.Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.classes.Clone()
}

// Const returns the constant registered as name.
func (r *Registry) Const(name string) (*value.Variable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.consts[name]
	return v, ok
}

// Func returns the entry registered under the qualified name.
func (r *Registry) Func(name string) *Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookupName(name)
}

func (r *Registry) lookupName(name string) *Entry {
	if e, ok := r.funcs[name]; ok {
		return e
	}
	for _, chain := range r.methods {
		for i := len(chain) - 1; i >= 0; i-- {
			if chain[i].Name == name {
				return chain[i]
			}
		}
	}
	return nil
}

// CompileCall resolves a native function call at compile time.
func (r *Registry) CompileCall(name string, args []types.Type) (*Entry, types.Type, diag.Code) {
	r.mu.RLock()
	e := r.funcs[name]
	r.mu.RUnlock()
	if e == nil {
		return nil, types.Void, diag.SemUnknownFunc
	}
	return check(e, args)
}

// CompileMethod resolves a native method of class (or an ancestor) at
// compile time. classes is the table the class belongs to.
func (r *Registry) CompileMethod(classes *types.Table, class, name string, args []types.Type) (*Entry, types.Type, diag.Code) {
	r.mu.RLock()
	var e *Entry
	for k := classes.Get(class); k != nil && e == nil; k = k.Parent {
		chain := r.methods[k.Name]
		for i := len(chain) - 1; i >= 0; i-- {
			if chain[i].Name == k.Name+"."+name {
				e = chain[i]
				break
			}
		}
	}
	r.mu.RUnlock()
	if e == nil {
		return nil, types.Void, diag.SemUndefMethod
	}
	return check(e, args)
}

func check(e *Entry, args []types.Type) (*Entry, types.Type, diag.Code) {
	if e.Check == nil {
		return e, types.Void, diag.OK
	}
	t, code := e.Check(args)
	if code != diag.OK {
		return nil, types.Void, code
	}
	return e, t, diag.OK
}

// Resolve finds an entry by id, falling back to the qualified name when the
// id is stale.
func (r *Registry) Resolve(id uint32, name string) *Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.byID[id]; ok && e.Name == name {
		return e
	}
	return r.lookupName(name)
}

// DoCall executes a native. It is called again on every Run while the call
// stays pending.
func (r *Registry) DoCall(id uint32, name string, c *Call) (bool, diag.Code) {
	e := r.Resolve(id, name)
	if e == nil {
		return true, diag.RunUndefCall
	}
	c.Name = e.Name
	return e.Exec(c)
}

// Release runs the entry's cleanup hook, if any.
func (r *Registry) Release(id uint32, name string, c *Call) {
	if e := r.Resolve(id, name); e != nil && e.Release != nil {
		e.Release(c)
	}
}
