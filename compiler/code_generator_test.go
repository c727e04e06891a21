package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func generateSource(t *testing.T, src string) string {
	program := mustParse(t, src)
	out, err := NewCodeGenerator().WithoutRuntime().Generate(program)
	assert.Nil(t, err)
	return out
}

func TestCodeGenerator_TopLevel(t *testing.T) {
	out := generateSource(t, "var x = 1 + 2 * 3\nreportar(x)")
	assert.Equal(t, "x = (1 + (2 * 3))\nreportar(x)\n", out)
}

func TestCodeGenerator_Literals(t *testing.T) {
	testData := []struct {
		src      string
		expected string
	}{
		{src: "var a = 42", expected: "a = 42\n"},
		{src: "var b = 3.14", expected: "b = 3.14\n"},
		// A whole float keeps its float-ness in the output.
		{src: "var c = 2.0", expected: "c = 2.0\n"},
		{src: `var d = "hola"`, expected: "d = \"hola\"\n"},
		{src: "var e = afirmativo", expected: "e = True\n"},
		{src: "var f = negativo", expected: "f = False\n"},
		{src: "var g = nulo", expected: "g = None\n"},
		{src: "var h", expected: "h = None\n"},
		{src: "var i = !listo", expected: "i = (not listo)\n"},
		{src: "var j = a && b || !c", expected: "j = ((a and b) or (not c))\n"},
		{src: `var k = nombre[2]`, expected: "k = nombre[2]\n"},
	}
	for _, data := range testData {
		assert.Equal(t, data.expected, generateSource(t, data.src))
	}
}

func TestCodeGenerator_ControlFlow(t *testing.T) {
	src := `var n = 3
atacar mientras (n > 0) {
	estrategia si (n == 1) abortar por defecto avanzar
	n -= 1
}`
	expected := `n = 3
while (n > 0):
    if (n == 1):
        break
    else:
        continue
    n -= 1
`
	assert.Equal(t, expected, generateSource(t, src))

	// An empty loop body still forms a suite.
	assert.Equal(t, "while False:\n    pass\n", generateSource(t, "atacar mientras (negativo) {\n}"))
}

func TestCodeGenerator_StrategyWithoutBranches(t *testing.T) {
	// No si arms: only the default remains, unconditionally.
	assert.Equal(t, "reportar(1)\n", generateSource(t, "estrategia por defecto reportar(1)"))
	assert.Equal(t, "", generateSource(t, "estrategia"))
}

func TestCodeGenerator_Mission(t *testing.T) {
	src := `mision dividir(a, b) severidad = estricto {
	revisar:
		b != 0
	ejecutar:
		retirada con a / b
	confirmar:
		b != 0
}`
	out := generateSource(t, src)
	assert.Contains(t, out, "def dividir(a, b):\n")
	assert.Contains(t, out, "    # revisar: preconditions\n")
	assert.Contains(t, out, "    assert (b != 0), 'precondition failed in dividir'\n")
	assert.Contains(t, out, "    return (a / b)\n")
	assert.Contains(t, out, "    # confirmar: postconditions\n")
	assert.Contains(t, out, "    assert (b != 0), 'postcondition failed in dividir'\n")
}

func TestCodeGenerator_WarningSeverity(t *testing.T) {
	src := `mision avanza(x) severidad = advertencia {
	revisar:
		x > 0
	ejecutar:
		retirada con x
}`
	out := generateSource(t, src)
	assert.Contains(t, out, "    if not ((x > 0)):\n")
	assert.Contains(t, out, "        print('warning: precondition failed in avanza', file=sys.stderr)\n")
	assert.False(t, strings.Contains(out, "assert"))
}

func TestCodeGenerator_Army(t *testing.T) {
	src := `ejercito Legion {
	global var tamano = 100
	mision doble() {
		ejecutar:
			retirada con tamano * 2
	}
}
var x = Legion.doble() + Legion.tamano
Legion.tamano = 50`
	out := generateSource(t, src)
	assert.Contains(t, out, "class Legion:\n")
	assert.Contains(t, out, "    tamano = 100\n")
	assert.Contains(t, out, "    def doble():\n")
	assert.Contains(t, out, "        return (tamano * 2)\n")
	assert.Contains(t, out, "x = (Legion.doble() + Legion.tamano)\n")
	assert.Contains(t, out, "Legion.tamano = 50\n")
}

func TestCodeGenerator_EmptyMissionBody(t *testing.T) {
	out := generateSource(t, "mision nada() {\n\tejecutar:\n\t\tretirada\n}")
	assert.Contains(t, out, "def nada():\n    return\n")
}

func TestCodeGenerator_Runtime(t *testing.T) {
	program := mustParse(t, "reportar(azar())")
	out, err := NewCodeGenerator().Generate(program)
	assert.Nil(t, err)
	assert.True(t, strings.HasPrefix(out, "#!/usr/bin/env python3\n"))
	assert.Contains(t, out, "def reportar(mensaje):")
	assert.Contains(t, out, "def azar():")
	assert.Contains(t, out, "random.randint(0, 2147483647)")
	assert.Contains(t, out, "def truncar(num):")
	assert.Contains(t, out, "math.trunc(num)")
	assert.Contains(t, out, "# ===== program =====")
	assert.True(t, strings.HasSuffix(out, "reportar(azar())\n"))
}
