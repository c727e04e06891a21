package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mustParse(t *testing.T, src string) *Program {
	tokens, err := NewTokenizer().Tokenize(src)
	assert.Nil(t, err)
	program, err := new(Parser).Parse(tokens)
	assert.Nil(t, err)
	return program
}

func parseExprText(t *testing.T, src string) string {
	program := mustParse(t, "var x = "+src)
	decl := program.Decls[0].(*VarDecl)
	return decl.Init.String()
}

func TestParser_Precedence(t *testing.T) {
	testData := []struct {
		src      string
		expected string
	}{
		{src: "1 + 2 * 3", expected: "(1 + (2 * 3))"},
		{src: "(1 + 2) * 3", expected: "((1 + 2) * 3)"},
		{src: "10 - 3 - 2", expected: "((10 - 3) - 2)"},
		{src: "20 % 3 * 2", expected: "((20 % 3) * 2)"},
		{src: "a || b && c", expected: "(a || (b && c))"},
		{src: "1 + 2 <= 3 == afirmativo", expected: "(((1 + 2) <= 3) == afirmativo)"},
		{src: "-a * b", expected: "((-a) * b)"},
		{src: "!listo || negativo", expected: "((!listo) || negativo)"},
		{src: "a.b + 1", expected: "(a.b + 1)"},
		{src: "nombre[i + 1]", expected: "nombre[(i + 1)]"},
		{src: "suma(1, 2) * 2", expected: "(suma(1, 2) * 2)"},
		{src: "tropa.avanza(1, x)", expected: "tropa.avanza(1, x)"},
		{src: `"hola" + "mundo"`, expected: `("hola" + "mundo")`},
	}
	for _, data := range testData {
		assert.Equal(t, data.expected, parseExprText(t, data.src))
	}
}

func TestParser_NodePositionsMatchTokens(t *testing.T) {
	program := mustParse(t, "var x = 1 + 2")
	decl := program.Decls[0].(*VarDecl)
	assert.Equal(t, Position{Line: 1, Column: 5}, decl.Position)
	sum := decl.Init.(*BinaryExpr)
	assert.Equal(t, Position{Line: 1, Column: 11}, sum.Position)
	assert.Equal(t, Position{Line: 1, Column: 9}, sum.Left.Pos())
	assert.Equal(t, Position{Line: 1, Column: 13}, sum.Right.Pos())
}

func TestParser_MissionDecl(t *testing.T) {
	src := `mision dividir(a, b) severidad = estricto {
	revisar:
		b != 0
		a >= 0
	ejecutar:
		var q = a / b
		retirada con q
	confirmar:
		q >= 0
}`
	program := mustParse(t, src)
	decl := program.Decls[0].(*MissionDecl)
	assert.Equal(t, "dividir", decl.Name)
	assert.Equal(t, []string{"a", "b"}, decl.Params)
	assert.Equal(t, "estricto", decl.Severity)
	assert.Equal(t, 2, len(decl.Review.Conds))
	assert.Equal(t, 2, len(decl.Execute.Stmts))
	assert.Equal(t, 1, len(decl.Confirm.Conds))
	withdraw := decl.Execute.Stmts[1].(*WithdrawStmt)
	assert.Equal(t, "q", withdraw.Value.(*Identifier).Name)
}

func TestParser_MissionMinimal(t *testing.T) {
	program := mustParse(t, "mision nada() {\n\tejecutar:\n\t\tretirada\n}")
	decl := program.Decls[0].(*MissionDecl)
	assert.Equal(t, 0, len(decl.Params))
	assert.Equal(t, "", decl.Severity)
	assert.Nil(t, decl.Review)
	assert.Nil(t, decl.Confirm)
	assert.Equal(t, 1, len(decl.Execute.Stmts))
	assert.Nil(t, decl.Execute.Stmts[0].(*WithdrawStmt).Value)
}

func TestParser_MissionWithoutExecute(t *testing.T) {
	tokens, err := NewTokenizer().Tokenize("mision rota() {\n}")
	assert.Nil(t, err)
	_, err = new(Parser).Parse(tokens)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "no ejecutar section")
}

func TestParser_Strategy(t *testing.T) {
	src := `estrategia si (x > 0) reportar("pos") si (x < 0) reportar("neg") por defecto reportar("cero")`
	program := mustParse(t, src)
	stmt := program.Decls[0].(*StrategyStmt)
	assert.Equal(t, 2, len(stmt.Branches))
	assert.NotNil(t, stmt.Default)
	// Single-statement arms come back as one-statement blocks.
	assert.Equal(t, 1, len(stmt.Branches[0].Body.Stmts))
	assert.Equal(t, 1, len(stmt.Default.Stmts))

	program = mustParse(t, "estrategia si (x > 0) {\n\tx = 0\n\treportar(x)\n}")
	stmt = program.Decls[0].(*StrategyStmt)
	assert.Equal(t, 1, len(stmt.Branches))
	assert.Nil(t, stmt.Default)
	assert.Equal(t, 2, len(stmt.Branches[0].Body.Stmts))
}

func TestParser_AttackLoop(t *testing.T) {
	src := `atacar mientras (n > 0) {
	estrategia si (n == 5) abortar por defecto avanzar
	n -= 1
}`
	program := mustParse(t, src)
	loop := program.Decls[0].(*AttackLoop)
	assert.Equal(t, "(n > 0)", loop.Cond.String())
	assert.Equal(t, 2, len(loop.Body.Stmts))
	strategy := loop.Body.Stmts[0].(*StrategyStmt)
	_, isAbort := strategy.Branches[0].Body.Stmts[0].(*AbortStmt)
	assert.True(t, isAbort)
	_, isAdvance := strategy.Default.Stmts[0].(*AdvanceStmt)
	assert.True(t, isAdvance)
}

func TestParser_Assignments(t *testing.T) {
	testData := []struct {
		src           string
		expectedNames []string
		expectedOp    string
	}{
		{src: "x = 1", expectedNames: []string{"x"}, expectedOp: "="},
		{src: "x += 2", expectedNames: []string{"x"}, expectedOp: "+="},
		{src: "total %= 7", expectedNames: []string{"total"}, expectedOp: "%="},
		{src: "tropa.fuerza = 3", expectedNames: []string{"tropa", "fuerza"}, expectedOp: "="},
	}
	for _, data := range testData {
		program := mustParse(t, data.src)
		stmt := program.Decls[0].(*AssignStmt)
		assert.Equal(t, data.expectedNames, stmt.Target.Names)
		assert.Equal(t, data.expectedOp, stmt.Op)
	}
}

func TestParser_CallStatements(t *testing.T) {
	program := mustParse(t, "reportar(total, 2)")
	stmt := program.Decls[0].(*CallStmt)
	assert.Equal(t, "reportar", stmt.Call.Callee)
	assert.Equal(t, 2, len(stmt.Call.Args))

	// Qualified calls are expressions only, never statements.
	tokens, err := NewTokenizer().Tokenize("tropa.avanza(1)")
	assert.Nil(t, err)
	_, err = new(Parser).Parse(tokens)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "tropa")

	program = mustParse(t, "var x = tropa.avanza(1)")
	method := program.Decls[0].(*VarDecl).Init.(*MethodCallExpr)
	assert.Equal(t, "avanza", method.Callee)
	assert.Equal(t, "tropa", method.Object.(*Identifier).Name)
}

func TestParser_ArmyDecl(t *testing.T) {
	src := `ejercito Legion {
	global var tamano = 100
	mision tamanoActual() {
		ejecutar:
			retirada con tamano
	}
}`
	program := mustParse(t, src)
	army := program.Decls[0].(*ArmyDecl)
	assert.Equal(t, "Legion", army.Name)
	assert.Equal(t, 2, len(army.Body))
	global := army.Body[0].(*GlobalDecl)
	assert.Equal(t, "tamano", global.Name)
	mission := army.Body[1].(*MissionDecl)
	assert.Equal(t, "tamanoActual", mission.Name)
}

func TestParser_TopLevelStatements(t *testing.T) {
	program := mustParse(t, "x = 1\n\nreportar(x)\n")
	assert.Equal(t, 2, len(program.Decls))
	_, isAssign := program.Decls[0].(*AssignStmt)
	assert.True(t, isAssign)
	_, isCall := program.Decls[1].(*CallStmt)
	assert.True(t, isCall)
}

func TestParser_EndOfInput(t *testing.T) {
	testData := []string{
		"atacar mientras (x",
		"var x =",
		"x = 1 +",
		"var x = (1 + 2",
		"suma(1,",
		"estrategia si (x",
		"mision f() {",
		"mision f() {\nejecutar:",
	}
	for _, src := range testData {
		tokens, err := NewTokenizer().Tokenize(src)
		assert.Nil(t, err)
		_, err = new(Parser).Parse(tokens)
		assert.NotNil(t, err, "source %q", src)
		assert.Contains(t, err.Error(), "end of input", "source %q", src)
	}
}

func TestParser_SyntaxErrorPosition(t *testing.T) {
	tokens, err := NewTokenizer().Tokenize("var = 5")
	assert.Nil(t, err)
	_, err = new(Parser).Parse(tokens)
	syntax, ok := err.(*SyntaxError)
	assert.True(t, ok)
	assert.Equal(t, 1, syntax.Line)
	assert.Equal(t, 5, syntax.Column)
	assert.Contains(t, syntax.Message, "a variable name")
}

func TestParser_IntegerLiteralRange(t *testing.T) {
	// A literal past int64 is a syntax error, not a wrapped value.
	tokens, err := NewTokenizer().Tokenize("var x = 9223372036854775808")
	assert.Nil(t, err)
	_, err = new(Parser).Parse(tokens)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "invalid integer literal")

	program := mustParse(t, "var x = 9223372036854775807")
	lit := program.Decls[0].(*VarDecl).Init.(*IntegerLit)
	assert.Equal(t, int64(9223372036854775807), lit.Value)
}
