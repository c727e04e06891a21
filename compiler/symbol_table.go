package compiler

import (
	"fmt"
	"sort"
	"strings"
)

type SymbolCategory int

const (
	CategoryVariable SymbolCategory = iota
	CategoryMission
	CategoryArmy
)

var symbolCategoryNames = [...]string{
	CategoryVariable: "variable",
	CategoryMission:  "mission",
	CategoryArmy:     "army",
}

func (category SymbolCategory) String() string {
	if category < 0 || int(category) >= len(symbolCategoryNames) {
		return fmt.Sprintf("SymbolCategory(%d)", category)
	}
	return symbolCategoryNames[category]
}

// Symbol is one named entity. The mission fields are only meaningful for
// CategoryMission, ScopeIndex only for CategoryArmy, where it holds the
// army's member scope in the arena.
type Symbol struct {
	Name     string
	Type     *Type
	Category SymbolCategory

	Params     []string
	ParamTypes []*Type
	Severity   string
	ReturnType *Type
	Builtin    bool

	ScopeIndex int
}

// NoParent marks the global scope's parent index.
const NoParent = -1

type Scope struct {
	symbols map[string]*Symbol
	parent  int
}

// SymbolTable keeps every scope ever created in one arena so army member
// scopes survive between the collect pass and the verify pass. The stack
// holds arena indices; the global scope sits at index 0 and is never popped.
type SymbolTable struct {
	scopes []*Scope
	stack  []int
}

// The ten ambient missions every program can call. Their parameter types
// stay nil so per-argument checks never fire for them.
var builtinMissions = []struct {
	name    string
	returns *Type
	params  []string
}{
	{"reportar", TypeNull, []string{"mensaje"}},
	{"recibir", TypeString, nil},
	{"clasificarNumero", TypeInteger, []string{"texto"}},
	{"clasificarMensaje", TypeString, []string{"valor"}},
	{"azar", TypeInteger, nil},
	{"aRangoSuperior", TypeInteger, []string{"num"}},
	{"aRangoInferior", TypeInteger, []string{"num"}},
	{"acampar", TypeNull, []string{"ms"}},
	{"calibre", TypeInteger, []string{"texto"}},
	{"truncar", TypeInteger, []string{"num"}},
}

// NewSymbolTable builds a table holding only the global scope, pre-seeded
// with the builtin missions.
func NewSymbolTable() *SymbolTable {
	table := &SymbolTable{
		scopes: []*Scope{{symbols: map[string]*Symbol{}, parent: NoParent}},
		stack:  []int{0},
	}
	for _, builtin := range builtinMissions {
		table.Declare(&Symbol{
			Name:       builtin.name,
			Type:       NewNamedType(BaseMission, builtin.name),
			Category:   CategoryMission,
			Params:     builtin.params,
			ParamTypes: make([]*Type, len(builtin.params)),
			ReturnType: builtin.returns,
			Builtin:    true,
		})
	}
	return table
}

// EnterScope appends a child of the current scope to the arena and makes it
// current, returning its index.
func (table *SymbolTable) EnterScope() int {
	scope := &Scope{symbols: map[string]*Symbol{}, parent: table.Current()}
	table.scopes = append(table.scopes, scope)
	index := len(table.scopes) - 1
	table.stack = append(table.stack, index)
	return index
}

// EnterAt re-enters a scope created earlier. The scope keeps the parent it
// was created with.
func (table *SymbolTable) EnterAt(index int) {
	table.stack = append(table.stack, index)
}

func (table *SymbolTable) ExitScope() {
	if len(table.stack) <= 1 {
		panic("symbol table: cannot exit the global scope")
	}
	table.stack = table.stack[:len(table.stack)-1]
}

// Current returns the arena index of the innermost active scope.
func (table *SymbolTable) Current() int {
	return table.stack[len(table.stack)-1]
}

// Declare binds sym in the current scope. It reports false and leaves the
// table untouched when the name is already bound there; a binding in an
// outer scope is shadowed silently.
func (table *SymbolTable) Declare(sym *Symbol) bool {
	scope := table.scopes[table.Current()]
	if _, ok := scope.symbols[sym.Name]; ok {
		return false
	}
	scope.symbols[sym.Name] = sym
	return true
}

// Lookup resolves name through the parent chain of the current scope.
func (table *SymbolTable) Lookup(name string) *Symbol {
	for index := table.Current(); index != NoParent; index = table.scopes[index].parent {
		if sym, ok := table.scopes[index].symbols[name]; ok {
			return sym
		}
	}
	return nil
}

// LookupLocal resolves name in the current scope only.
func (table *SymbolTable) LookupLocal(name string) *Symbol {
	return table.LookupLocalAt(table.Current(), name)
}

// LookupLocalAt resolves name in one stored scope, ignoring parents.
func (table *SymbolTable) LookupLocalAt(index int, name string) *Symbol {
	return table.scopes[index].symbols[name]
}

// String renders the whole arena, scopes in creation order and symbols
// sorted by name.
func (table *SymbolTable) String() string {
	var sb strings.Builder
	for index, scope := range table.scopes {
		fmt.Fprintf(&sb, "scope %d (parent %d):\n", index, scope.parent)
		names := make([]string, 0, len(scope.symbols))
		for name := range scope.symbols {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sym := scope.symbols[name]
			fmt.Fprintf(&sb, "  %s %s: %s\n", sym.Category, sym.Name, sym.Type)
		}
	}
	return sb.String()
}
