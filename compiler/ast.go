package compiler

import (
	"fmt"
	"strings"
)

// In this file we define the ast of the C-rvicio Militar language. Every node
// is its own struct; Stmt and Expr are closed by unexported marker methods so
// the visitors in this package can switch over a known set of variants.

// Position is a 1-based source location. The zero value means the node
// carries no recorded position.
type Position struct {
	Line   int
	Column int
}

func (p Position) Pos() Position { return p }

func (p Position) known() bool { return p.Line > 0 }

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() Position
	String() string
}

// Stmt is the closed set of statement and declaration nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is the closed set of expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Program is the root of the tree. Armies, missions, globals and bare
// statements can appear at the top level in any order.
type Program struct {
	Position
	Decls []Stmt
}

// ArmyDecl is a named namespace: ejercito Name { ... }.
type ArmyDecl struct {
	Position
	Name string
	Body []Stmt
}

// GlobalDecl declares a module-level variable: global var name = init.
// Init is nil when the declaration has no initializer.
type GlobalDecl struct {
	Position
	Name string
	Init Expr
}

// VarDecl declares a variable in the enclosing scope: var name = init.
type VarDecl struct {
	Position
	Name string
	Init Expr
}

// MissionDecl is a function: mision name(params) severidad = ... { ... }.
// Execute is always present; Review and Confirm may be nil. Severity is
// "estricto", "advertencia" or empty when the clause is absent.
type MissionDecl struct {
	Position
	Name     string
	Params   []string
	Severity string
	Review   *Section
	Execute  *Section
	Confirm  *Section
}

// Section is one of the three mission sections. Review and confirm sections
// hold condition expressions; the execute section holds statements.
type Section struct {
	Position
	Keyword string
	Conds   []Expr
	Stmts   []Stmt
}

// AssignStmt covers plain and compound assignment. Op is the operator lexeme
// (= += -= *= /= %=) and the node position is the operator token's.
type AssignStmt struct {
	Position
	Target *Reference
	Op     string
	Value  Expr
}

// WithdrawStmt is retirada, with Value nil for a bare return.
type WithdrawStmt struct {
	Position
	Value Expr
}

// AttackLoop is the while loop: atacar mientras (cond) body.
type AttackLoop struct {
	Position
	Cond Expr
	Body *Block
}

// StrategyStmt is the conditional chain: estrategia si (c) cmd ... por
// defecto cmd. Default is nil when there is no por defecto arm.
type StrategyStmt struct {
	Position
	Branches []*StrategyBranch
	Default  *Block
}

// StrategyBranch is one si (cond) cmd arm.
type StrategyBranch struct {
	Position
	Cond Expr
	Body *Block
}

// AbortStmt is abortar (break out of the enclosing loop).
type AbortStmt struct {
	Position
}

// AdvanceStmt is avanzar (continue with the next iteration).
type AdvanceStmt struct {
	Position
}

// CallStmt is a call in statement position. Only unqualified calls can
// appear there; qualified ones are rejected by the parser.
type CallStmt struct {
	Position
	Call *CallExpr
}

// Block is a statement list. Single-statement commands are normalized into
// one-statement blocks. Blocks do not open scopes.
type Block struct {
	Position
	Stmts []Stmt
}

// BinaryExpr applies Op (a source lexeme) to two operands. Position is the
// operator token's.
type BinaryExpr struct {
	Position
	Op    string
	Left  Expr
	Right Expr
}

// UnaryExpr is a single prefix - or !.
type UnaryExpr struct {
	Position
	Op      string
	Operand Expr
}

// MemberExpr reads a member of an army value: object.member.
type MemberExpr struct {
	Position
	Object Expr
	Member string
}

// IndexExpr is string indexing: object[index].
type IndexExpr struct {
	Position
	Object Expr
	Index  Expr
}

// CallExpr is an unqualified call: callee(args).
type CallExpr struct {
	Position
	Callee string
	Args   []Expr
}

// MethodCallExpr is a call through a member access: object.callee(args).
// The army providing the callee is resolved from the object's type.
type MethodCallExpr struct {
	Position
	Object Expr
	Callee string
	Args   []Expr
}

// Reference is a dotted name used as an assignment target or read. Names
// always has at least one element.
type Reference struct {
	Position
	Names []string
}

// Identifier is a plain name read.
type Identifier struct {
	Position
	Name string
}

type IntegerLit struct {
	Position
	Value int64
	Text  string
}

type FloatLit struct {
	Position
	Value float64
	Text  string
}

type StringLit struct {
	Position
	Value string
}

type BooleanLit struct {
	Position
	Value bool
}

type NullLit struct {
	Position
}

func (*ArmyDecl) stmtNode()     {}
func (*GlobalDecl) stmtNode()   {}
func (*VarDecl) stmtNode()      {}
func (*MissionDecl) stmtNode()  {}
func (*AssignStmt) stmtNode()   {}
func (*WithdrawStmt) stmtNode() {}
func (*AttackLoop) stmtNode()   {}
func (*StrategyStmt) stmtNode() {}
func (*AbortStmt) stmtNode()    {}
func (*AdvanceStmt) stmtNode()  {}
func (*CallStmt) stmtNode()     {}
func (*Block) stmtNode()        {}

func (*BinaryExpr) exprNode()     {}
func (*UnaryExpr) exprNode()      {}
func (*MemberExpr) exprNode()     {}
func (*IndexExpr) exprNode()      {}
func (*CallExpr) exprNode()       {}
func (*MethodCallExpr) exprNode() {}
func (*Reference) exprNode()      {}
func (*Identifier) exprNode()     {}
func (*IntegerLit) exprNode()     {}
func (*FloatLit) exprNode()       {}
func (*StringLit) exprNode()      {}
func (*BooleanLit) exprNode()     {}
func (*NullLit) exprNode()        {}

// String renders nodes in a compact source-like form. Expressions are fully
// parenthesized so tests can assert associativity and precedence directly.

func (n *Program) String() string {
	parts := make([]string, 0, len(n.Decls))
	for _, d := range n.Decls {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, "\n")
}

func (n *ArmyDecl) String() string {
	return fmt.Sprintf("ejercito %s { %d decls }", n.Name, len(n.Body))
}

func (n *GlobalDecl) String() string {
	if n.Init == nil {
		return fmt.Sprintf("global var %s", n.Name)
	}
	return fmt.Sprintf("global var %s = %s", n.Name, n.Init)
}

func (n *VarDecl) String() string {
	if n.Init == nil {
		return fmt.Sprintf("var %s", n.Name)
	}
	return fmt.Sprintf("var %s = %s", n.Name, n.Init)
}

func (n *MissionDecl) String() string {
	head := fmt.Sprintf("mision %s(%s)", n.Name, strings.Join(n.Params, ", "))
	if n.Severity != "" {
		head += " severidad = " + n.Severity
	}
	return head
}

func (n *Section) String() string {
	if n.Keyword == "ejecutar" {
		return fmt.Sprintf("%s: %d statements", n.Keyword, len(n.Stmts))
	}
	return fmt.Sprintf("%s: %d conditions", n.Keyword, len(n.Conds))
}

func (n *AssignStmt) String() string {
	return fmt.Sprintf("%s %s %s", n.Target, n.Op, n.Value)
}

func (n *WithdrawStmt) String() string {
	if n.Value == nil {
		return "retirada"
	}
	return fmt.Sprintf("retirada con %s", n.Value)
}

func (n *AttackLoop) String() string {
	return fmt.Sprintf("atacar mientras (%s) %s", n.Cond, n.Body)
}

func (n *StrategyStmt) String() string {
	parts := make([]string, 0, len(n.Branches)+1)
	for _, b := range n.Branches {
		parts = append(parts, b.String())
	}
	if n.Default != nil {
		parts = append(parts, "por defecto "+n.Default.String())
	}
	return "estrategia " + strings.Join(parts, " ")
}

func (n *StrategyBranch) String() string {
	return fmt.Sprintf("si (%s) %s", n.Cond, n.Body)
}

func (n *AbortStmt) String() string { return "abortar" }

func (n *AdvanceStmt) String() string { return "avanzar" }

func (n *CallStmt) String() string { return n.Call.String() }

func (n *Block) String() string {
	return fmt.Sprintf("{ %d statements }", len(n.Stmts))
}

func (n *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left, n.Op, n.Right)
}

func (n *UnaryExpr) String() string {
	return fmt.Sprintf("(%s%s)", n.Op, n.Operand)
}

func (n *MemberExpr) String() string {
	return fmt.Sprintf("%s.%s", n.Object, n.Member)
}

func (n *IndexExpr) String() string {
	return fmt.Sprintf("%s[%s]", n.Object, n.Index)
}

func (n *CallExpr) String() string {
	return fmt.Sprintf("%s(%s)", n.Callee, joinExprs(n.Args))
}

func (n *MethodCallExpr) String() string {
	return fmt.Sprintf("%s.%s(%s)", n.Object, n.Callee, joinExprs(n.Args))
}

func (n *Reference) String() string {
	return strings.Join(n.Names, ".")
}

func (n *Identifier) String() string { return n.Name }

func (n *IntegerLit) String() string { return n.Text }

func (n *FloatLit) String() string { return n.Text }

func (n *StringLit) String() string { return fmt.Sprintf("%q", n.Value) }

func (n *BooleanLit) String() string {
	if n.Value {
		return "afirmativo"
	}
	return "negativo"
}

func (n *NullLit) String() string { return "nulo" }

func joinExprs(exprs []Expr) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}
