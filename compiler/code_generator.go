package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// runtimePreamble is the fixed prelude of every generated program. It defines
// the ambient missions as plain module-level functions so generated calls like
// reportar(...) resolve without qualification.
var runtimePreamble = []string{
	"#!/usr/bin/env python3",
	"# -*- coding: utf-8 -*-",
	`"""`,
	"Generated by the crvicio compiler.",
	`"""`,
	"",
	"import sys",
	"import random",
	"import math",
	"import time",
	"",
	"# ===== runtime: ambient missions =====",
	"",
	"def reportar(mensaje):",
	"    print(mensaje)",
	"",
	"def recibir(prompt=''):",
	"    if prompt:",
	"        return input(prompt)",
	"    return input()",
	"",
	"def clasificarNumero(texto):",
	"    try:",
	"        return int(texto)",
	"    except (ValueError, TypeError):",
	"        return 0",
	"",
	"def clasificarMensaje(valor):",
	"    return str(valor)",
	"",
	"def azar():",
	"    return random.randint(0, 2147483647)",
	"",
	"def aRangoSuperior(num):",
	"    return math.ceil(num)",
	"",
	"def aRangoInferior(num):",
	"    return math.floor(num)",
	"",
	"def acampar(ms):",
	"    time.sleep(ms / 1000.0)",
	"",
	"def calibre(texto):",
	"    return len(texto)",
	"",
	"def truncar(num):",
	"    return math.trunc(num)",
	"",
	"# ===== program =====",
	"",
}

// CodeGenerator translates a verified Program into Python 3 source. Armies
// become classes, missions become functions, and top-level statements run at
// module level in source order, so the emitted file is directly executable.
type CodeGenerator struct {
	lines       []string
	depth       int
	withRuntime bool
}

func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{withRuntime: true}
}

// WithoutRuntime drops the preamble from the output, for callers that splice
// the program into an environment already providing the ambient missions.
func (generator *CodeGenerator) WithoutRuntime() *CodeGenerator {
	generator.withRuntime = false
	return generator
}

func (generator *CodeGenerator) Generate(program *Program) (string, error) {
	generator.lines = nil
	generator.depth = 0
	if generator.withRuntime {
		generator.lines = append(generator.lines, runtimePreamble...)
	}
	for _, decl := range program.Decls {
		var err error
		switch node := decl.(type) {
		case *ArmyDecl:
			err = generator.emitArmy(node)
		case *MissionDecl:
			err = generator.emitMission(node)
		default:
			err = generator.emitStmt(decl)
		}
		if err != nil {
			return "", err
		}
	}
	if len(generator.lines) == 0 {
		return "", nil
	}
	return strings.Join(generator.lines, "\n") + "\n", nil
}

// emit appends one line at the current indentation. Blank lines stay blank.
func (generator *CodeGenerator) emit(line string) {
	if line == "" {
		generator.lines = append(generator.lines, "")
		return
	}
	generator.lines = append(generator.lines, strings.Repeat("    ", generator.depth)+line)
}

func (generator *CodeGenerator) emitf(format string, a ...interface{}) {
	generator.emit(fmt.Sprintf(format, a...))
}

func (generator *CodeGenerator) indent() { generator.depth++ }

func (generator *CodeGenerator) dedent() {
	if generator.depth > 0 {
		generator.depth--
	}
}

func (generator *CodeGenerator) emitArmy(decl *ArmyDecl) error {
	generator.emitf("class %s:", decl.Name)
	generator.indent()
	if len(decl.Body) == 0 {
		generator.emit("pass")
	}
	for _, member := range decl.Body {
		var err error
		switch node := member.(type) {
		case *MissionDecl:
			err = generator.emitMission(node)
		default:
			err = generator.emitStmt(member)
		}
		if err != nil {
			return err
		}
	}
	generator.dedent()
	generator.emit("")
	return nil
}

// emitMission compiles a mission into a Python def. Missions declared inside
// an army take no self parameter, so qualified calls Army.mision(args) keep
// the source arity.
func (generator *CodeGenerator) emitMission(decl *MissionDecl) error {
	generator.emitf("def %s(%s):", decl.Name, strings.Join(decl.Params, ", "))
	generator.indent()
	if decl.Review != nil {
		generator.emit("# revisar: preconditions")
		for _, cond := range decl.Review.Conds {
			if err := generator.emitCondition(decl, cond, "precondition"); err != nil {
				return err
			}
		}
		generator.emit("")
	}
	if decl.Execute == nil || len(decl.Execute.Stmts) == 0 {
		generator.emit("pass")
	} else {
		for _, stmt := range decl.Execute.Stmts {
			if err := generator.emitStmt(stmt); err != nil {
				return err
			}
		}
	}
	if decl.Confirm != nil {
		generator.emit("")
		generator.emit("# confirmar: postconditions")
		for _, cond := range decl.Confirm.Conds {
			if err := generator.emitCondition(decl, cond, "postcondition"); err != nil {
				return err
			}
		}
	}
	generator.dedent()
	generator.emit("")
	return nil
}

// emitCondition compiles one revisar or confirmar condition. Severity
// estricto aborts the program through assert, any other severity reports a
// warning on stderr and continues.
func (generator *CodeGenerator) emitCondition(decl *MissionDecl, cond Expr, kind string) error {
	code, err := generator.genExpr(cond)
	if err != nil {
		return err
	}
	if decl.Severity == "estricto" {
		generator.emitf("assert %s, '%s failed in %s'", code, kind, decl.Name)
		return nil
	}
	generator.emitf("if not (%s):", code)
	generator.indent()
	generator.emitf("print('warning: %s failed in %s', file=sys.stderr)", kind, decl.Name)
	generator.dedent()
	return nil
}

func (generator *CodeGenerator) emitStmt(stmt Stmt) error {
	switch node := stmt.(type) {
	case *GlobalDecl:
		return generator.emitVarInit(node.Name, node.Init)
	case *VarDecl:
		return generator.emitVarInit(node.Name, node.Init)
	case *AssignStmt:
		value, err := generator.genExpr(node.Value)
		if err != nil {
			return err
		}
		if !isAssignOpText(node.Op) {
			return fmt.Errorf("code generator: unsupported assignment operator %q", node.Op)
		}
		generator.emitf("%s %s %s", strings.Join(node.Target.Names, "."), node.Op, value)
	case *CallStmt:
		code, err := generator.genExpr(node.Call)
		if err != nil {
			return err
		}
		generator.emit(code)
	case *WithdrawStmt:
		if node.Value == nil {
			generator.emit("return")
			return nil
		}
		value, err := generator.genExpr(node.Value)
		if err != nil {
			return err
		}
		generator.emitf("return %s", value)
	case *AttackLoop:
		cond, err := generator.genExpr(node.Cond)
		if err != nil {
			return err
		}
		generator.emitf("while %s:", cond)
		generator.indent()
		err = generator.emitBlock(node.Body)
		generator.dedent()
		return err
	case *StrategyStmt:
		return generator.emitStrategy(node)
	case *AbortStmt:
		generator.emit("break")
	case *AdvanceStmt:
		generator.emit("continue")
	default:
		return fmt.Errorf("code generator: unsupported statement node %T", stmt)
	}
	return nil
}

func (generator *CodeGenerator) emitVarInit(name string, init Expr) error {
	if init == nil {
		generator.emitf("%s = None", name)
		return nil
	}
	value, err := generator.genExpr(init)
	if err != nil {
		return err
	}
	generator.emitf("%s = %s", name, value)
	return nil
}

func (generator *CodeGenerator) emitBlock(block *Block) error {
	if block == nil || len(block.Stmts) == 0 {
		generator.emit("pass")
		return nil
	}
	for _, stmt := range block.Stmts {
		if err := generator.emitStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (generator *CodeGenerator) emitStrategy(node *StrategyStmt) error {
	// A strategy with no si branch reduces to its sino block.
	if len(node.Branches) == 0 {
		if node.Default != nil {
			return generator.emitBlock(node.Default)
		}
		return nil
	}
	for i, branch := range node.Branches {
		cond, err := generator.genExpr(branch.Cond)
		if err != nil {
			return err
		}
		if i == 0 {
			generator.emitf("if %s:", cond)
		} else {
			generator.emitf("elif %s:", cond)
		}
		generator.indent()
		err = generator.emitBlock(branch.Body)
		generator.dedent()
		if err != nil {
			return err
		}
	}
	if node.Default != nil {
		generator.emit("else:")
		generator.indent()
		err := generator.emitBlock(node.Default)
		generator.dedent()
		return err
	}
	return nil
}

// genExpr renders an expression as Python source. Every binary and unary
// application is parenthesized, so source precedence survives verbatim.
func (generator *CodeGenerator) genExpr(e Expr) (string, error) {
	switch node := e.(type) {
	case *IntegerLit:
		return strconv.FormatInt(node.Value, 10), nil
	case *FloatLit:
		return formatPythonFloat(node.Value), nil
	case *StringLit:
		return quotePython(node.Value), nil
	case *BooleanLit:
		if node.Value {
			return "True", nil
		}
		return "False", nil
	case *NullLit:
		return "None", nil
	case *Identifier:
		return node.Name, nil
	case *Reference:
		return strings.Join(node.Names, "."), nil
	case *BinaryExpr:
		left, err := generator.genExpr(node.Left)
		if err != nil {
			return "", err
		}
		right, err := generator.genExpr(node.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", left, pythonBinaryOp(node.Op), right), nil
	case *UnaryExpr:
		operand, err := generator.genExpr(node.Operand)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s)", pythonUnaryOp(node.Op), operand), nil
	case *CallExpr:
		args, err := generator.genArgs(node.Args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s)", node.Callee, args), nil
	case *MethodCallExpr:
		object, err := generator.genExpr(node.Object)
		if err != nil {
			return "", err
		}
		args, err := generator.genArgs(node.Args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s.%s(%s)", object, node.Callee, args), nil
	case *MemberExpr:
		object, err := generator.genExpr(node.Object)
		if err != nil {
			return "", err
		}
		return object + "." + node.Member, nil
	case *IndexExpr:
		object, err := generator.genExpr(node.Object)
		if err != nil {
			return "", err
		}
		index, err := generator.genExpr(node.Index)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s[%s]", object, index), nil
	}
	return "", fmt.Errorf("code generator: unsupported expression node %T", e)
}

func (generator *CodeGenerator) genArgs(args []Expr) (string, error) {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		code, err := generator.genExpr(arg)
		if err != nil {
			return "", err
		}
		parts = append(parts, code)
	}
	return strings.Join(parts, ", "), nil
}

// isAssignOpText accepts the operators Python shares with the source
// language, so assignments pass through unchanged.
func isAssignOpText(op string) bool {
	switch op {
	case "=", "+=", "-=", "*=", "/=", "%=":
		return true
	}
	return false
}

func pythonBinaryOp(op string) string {
	switch op {
	case "&&":
		return "and"
	case "||":
		return "or"
	}
	return op
}

func pythonUnaryOp(op string) string {
	if op == "!" {
		return "not"
	}
	return op
}

// formatPythonFloat keeps the literal a Python float. FormatFloat renders
// whole values like 2.0 as "2", which Python would read back as an int.
func formatPythonFloat(value float64) string {
	s := strconv.FormatFloat(value, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func quotePython(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}
