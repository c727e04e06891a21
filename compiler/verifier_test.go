package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func verifySource(t *testing.T, src string) []string {
	return Verify(mustParse(t, src))
}

func TestVerifier_SingleDiagnostic(t *testing.T) {
	testData := []struct {
		src      string
		expected string
	}{
		{
			src:      "var x = 1\nvar x = 2",
			expected: "variable x already declared in this scope",
		},
		{
			src:      "var x = \"hola\"\nx = 5",
			expected: "cannot assign Integer to variable of type String",
		},
		{
			src:      "var s = \"a\"\ns += \"b\"",
			expected: "compound assignment requires a numeric variable, found String",
		},
		{
			src:      "z += 1",
			expected: "variable z not declared",
		},
		{
			src:      "x = y + 1",
			expected: "variable y not declared",
		},
		{
			src:      "abortar",
			expected: "abortar outside a loop",
		},
		{
			src:      "var n = 1\nestrategia si (n == 1) avanzar",
			expected: "avanzar outside a loop",
		},
		{
			src:      "retirada con 5",
			expected: "retirada outside a mission",
		},
		{
			src:      "atacar mientras (1 + 2) {\n}",
			expected: "loop condition must be Boolean, found Integer",
		},
		{
			src:      "estrategia si (\"x\") reportar(1)",
			expected: "condition of si must be Boolean, found String",
		},
		{
			src:      "desfilar()",
			expected: "mission desfilar not declared",
		},
		{
			src:      "var x = 1 - \"dos\"\nreportar(x)",
			expected: "operator - cannot be applied",
		},
		{
			src:      "var x = afirmativo\nvar y = -x",
			expected: "operator - cannot be applied to Boolean",
		},
		{
			src:      "var s = \"abc\"\nvar c = s.largo",
			expected: "member access on non-army type String",
		},
		{
			src:      "var n = 5\nvar c = n[0]",
			expected: "indexing requires a String, found Integer",
		},
		{
			src:      "var s = \"abc\"\nvar c = s[1.5]",
			expected: "index must be Integer, found Float",
		},
		{
			src:      "mision f() {\n\tejecutar:\n\t\tretirada\n}\nmision f() {\n\tejecutar:\n\t\tretirada\n}",
			expected: "mission f already declared",
		},
		{
			src:      "mision f(a, a) {\n\tejecutar:\n\t\tretirada\n}",
			expected: "parameter a is duplicated",
		},
		{
			src:      "mision f() {\n\tejecutar:\n\t\tretirada\n}\nf = 1",
			expected: "cannot assign to mission f",
		},
		{
			src:      "ejercito Legion {\n\tglobal var tamano = 1\n}\nLegion = 5",
			expected: "cannot assign to army Legion",
		},
		{
			// A dotted target never declares implicitly.
			src:      "a.b = 1",
			expected: "variable a not declared",
		},
		{
			src:      "mision parar() {\n\tejecutar:\n\t\tretirada con 5\n\t\tretirada\n}",
			expected: "inconsistent return type: expected Integer, found Null",
		},
	}
	for _, data := range testData {
		diags := verifySource(t, data.src)
		assert.Equal(t, 1, len(diags), "source %q got %v", data.src, diags)
		if len(diags) == 1 {
			assert.Contains(t, diags[0], data.expected, "source %q", data.src)
		}
	}
}

func TestVerifier_CleanPrograms(t *testing.T) {
	testData := []string{
		"reportar(\"hola\")",
		"var x = 1\nx += 2\nreportar(x)",
		// Shadowing a global inside a mission is not a redeclaration.
		"global var x = 1\nmision f() {\n\tejecutar:\n\t\tvar x = \"local\"\n\t\tretirada con x\n}",
		// Missions resolve forward, in call and in declaration order.
		"saluda()\nmision saluda() {\n\tejecutar:\n\t\treportar(\"hola\")\n}",
		"var n = 3\natacar mientras (n > 0) {\n\testrategia si (n == 1) abortar por defecto avanzar\n\tn -= 1\n}",
		// Builtins take part in inference like declared missions.
		"var semilla = azar()\nvar texto = clasificarMensaje(semilla)\nvar largo = calibre(texto)\nreportar(largo + 1)",
		"var s = \"abc\"\nvar c = s[0]\nreportar(c)",
	}
	for _, src := range testData {
		diags := verifySource(t, src)
		assert.Equal(t, 0, len(diags), "source %q got %v", src, diags)
	}
}

func TestVerifier_ReturnTypeInference(t *testing.T) {
	src := `global var total = 0
mision incrementar() {
	ejecutar:
		total += 5
		retirada con total
}`
	program := mustParse(t, src)
	verifier := NewVerifier()
	diags := verifier.Verify(program)
	assert.Equal(t, 0, len(diags), "got %v", diags)
	sym := verifier.table.Lookup("incrementar")
	assert.NotNil(t, sym)
	assert.True(t, TypeInteger.Equal(sym.ReturnType))
}

func TestVerifier_ReturnTypeFromConfirm(t *testing.T) {
	src := `mision contar(limite) {
	ejecutar:
		var n = 0
	confirmar:
		n >= 0
		limite >= n
}`
	program := mustParse(t, src)
	verifier := NewVerifier()
	diags := verifier.Verify(program)
	assert.Equal(t, 0, len(diags), "got %v", diags)
	// No retirada con: the first non-parameter local named by confirmar wins.
	assert.True(t, TypeInteger.Equal(verifier.table.Lookup("contar").ReturnType))

	program = mustParse(t, "mision nada() {\n\tejecutar:\n\t\treportar(1)\n}")
	verifier = NewVerifier()
	verifier.Verify(program)
	assert.True(t, TypeNull.Equal(verifier.table.Lookup("nada").ReturnType))
}

func TestVerifier_ReturnTypeResolvesThroughUnknown(t *testing.T) {
	// An Unknown retirada value is not a conflict: it adopts a later
	// concrete type, and defers to an earlier one, whichever order the
	// statements come in.
	testData := []struct {
		mission string
		src     string
	}{
		{
			mission: "primera",
			src:     "mision primera(a) {\n\tejecutar:\n\t\tretirada con a\n\t\tretirada con 5\n}",
		},
		{
			mission: "segunda",
			src:     "mision segunda(a) {\n\tejecutar:\n\t\tretirada con 5\n\t\tretirada con a\n}",
		},
	}
	for _, data := range testData {
		program := mustParse(t, data.src)
		verifier := NewVerifier()
		diags := verifier.Verify(program)
		assert.Equal(t, 0, len(diags), "source %q got %v", data.src, diags)
		assert.True(t, TypeInteger.Equal(verifier.table.Lookup(data.mission).ReturnType), "source %q", data.src)
	}
}

func TestVerifier_AssignNarrowsUnknownVariable(t *testing.T) {
	src := "var u\nu = 5\nu += 1\nreportar(u)"
	program := mustParse(t, src)
	verifier := NewVerifier()
	diags := verifier.Verify(program)
	assert.Equal(t, 0, len(diags), "got %v", diags)
	assert.True(t, TypeInteger.Equal(verifier.table.Lookup("u").Type))
}

func TestVerifier_InconsistentReturnReportedOnce(t *testing.T) {
	src := `mision confusa(x) {
	ejecutar:
		estrategia si (x > 0) retirada con 1
		retirada con "texto"
}`
	diags := verifySource(t, src)
	assert.Equal(t, 1, len(diags), "got %v", diags)
	assert.Contains(t, diags[0], "inconsistent return type: expected Integer, found String")
}

func TestVerifier_CallArity(t *testing.T) {
	src := `mision suma(a, b) {
	ejecutar:
		retirada con a + b
}
suma(1)
var x = suma(1, 2)
var y = suma(1, "dos")`
	diags := verifySource(t, src)
	// Parameter types stay Unknown, so only the count is checked.
	assert.Equal(t, 1, len(diags), "got %v", diags)
	assert.Contains(t, diags[0], "mission suma expects 2 arguments, got 1")
}

func TestVerifier_ArmyMembers(t *testing.T) {
	src := `ejercito Legion {
	global var tamano = 100
	mision doble() {
		ejecutar:
			retirada con tamano * 2
	}
}
var t = Legion.tamano
var d = Legion.doble()
Legion.tamano = 50`
	program := mustParse(t, src)
	verifier := NewVerifier()
	diags := verifier.Verify(program)
	assert.Equal(t, 0, len(diags), "got %v", diags)
	assert.True(t, TypeInteger.Equal(verifier.table.Lookup("t").Type))
	assert.True(t, TypeInteger.Equal(verifier.table.Lookup("d").Type))

	diags = verifySource(t, src+"\nvar malo = Legion.desconocido")
	assert.Equal(t, 1, len(diags), "got %v", diags)
	assert.Contains(t, diags[0], "army Legion has no member desconocido")
}

func TestVerifier_ConditionSections(t *testing.T) {
	src := `mision dividir(a, b) {
	revisar:
		b != 0
		a + b
	ejecutar:
		retirada con a / b
}`
	diags := verifySource(t, src)
	assert.Equal(t, 1, len(diags), "got %v", diags)
	assert.Contains(t, diags[0], "condition of revisar must be Boolean")
}

func TestVerifier_ReportsEveryProblem(t *testing.T) {
	src := "var x = 1 - \"a\"\nabortar\ny += 2"
	diags := verifySource(t, src)
	assert.Equal(t, 3, len(diags), "got %v", diags)
	for _, diag := range diags {
		assert.True(t, strings.HasPrefix(diag, "semantic error at line "), "diag %q", diag)
	}
}
