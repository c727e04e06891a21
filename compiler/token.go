package compiler

import "fmt"

// The C-rvicio Militar language has those elements:
// * KeyWord: ejercito, global, var, mision, severidad, estricto, advertencia,
//   revisar, ejecutar, confirmar, si, por, defecto, estrategia, atacar,
//   mientras, retirada, con, abortar, avanzar.
// * Literal: integer, float, string ("xxx"), afirmativo/negativo booleans
//   and the nulo null literal (keyword-shaped words reclassified by the
//   tokenizer).
// * Operator: || && == != <= >= += -= *= /= %= = + - * / % < > !
// * Symbol: (, ), {, }, [, ], ., ,, :.
// * Identifier: ASCII letters, digits, underscore, not starting with a digit.
// * Comment: /* */ and //.

type TokenType int

const (
	// Structural tokens.
	IdentifierTP TokenType = iota // soldado
	IntegerTP                     // 42
	FloatTP                       // 3.14
	StringTP                      // "xxx"
	BooleanTP                     // afirmativo, negativo
	NullTP                        // nulo
	NewlineTP                     // \n run
	ErrorTP                       // unrecognized text, tolerant mode only

	// Keywords.
	EjercitoTP    // ejercito
	GlobalTP      // global
	VarTP         // var
	MisionTP      // mision
	SeveridadTP   // severidad
	EstrictoTP    // estricto
	AdvertenciaTP // advertencia
	RevisarTP     // revisar
	EjecutarTP    // ejecutar
	ConfirmarTP   // confirmar
	SiTP          // si
	PorTP         // por
	DefectoTP     // defecto
	EstrategiaTP  // estrategia
	AtacarTP      // atacar
	MientrasTP    // mientras
	RetiradaTP    // retirada
	ConTP         // con
	AbortarTP     // abortar
	AvanzarTP     // avanzar

	// Operators. Multi-character ones are matched before their prefixes.
	OrTP           // ||
	AndTP          // &&
	EqualTP        // ==
	NotEqualTP     // !=
	LessEqualTP    // <=
	GreaterEqualTP // >=
	AddAssignTP    // +=
	SubAssignTP    // -=
	MulAssignTP    // *=
	DivAssignTP    // /=
	ModAssignTP    // %=
	AssignTP       // =
	AddTP          // +
	MinusTP        // -
	MultiplyTP     // *
	DivideTP       // /
	ModTP          // %
	LessTP         // <
	GreaterTP      // >
	NotTP          // !

	// Symbols.
	LeftParenTP    // (
	RightParenTP   // )
	LeftBraceTP    // {
	RightBraceTP   // }
	LeftBracketTP  // [
	RightBracketTP // ]
	DotTP          // .
	CommaTP        // ,
	ColonTP        // :
)

var tokenNames = [...]string{
	IdentifierTP: "IDENT",
	IntegerTP:    "INTEGER",
	FloatTP:      "FLOAT",
	StringTP:     "STRING",
	BooleanTP:    "BOOLEAN",
	NullTP:       "NULL",
	NewlineTP:    "NEWLINE",
	ErrorTP:      "ERROR",

	EjercitoTP:    "ejercito",
	GlobalTP:      "global",
	VarTP:         "var",
	MisionTP:      "mision",
	SeveridadTP:   "severidad",
	EstrictoTP:    "estricto",
	AdvertenciaTP: "advertencia",
	RevisarTP:     "revisar",
	EjecutarTP:    "ejecutar",
	ConfirmarTP:   "confirmar",
	SiTP:          "si",
	PorTP:         "por",
	DefectoTP:     "defecto",
	EstrategiaTP:  "estrategia",
	AtacarTP:      "atacar",
	MientrasTP:    "mientras",
	RetiradaTP:    "retirada",
	ConTP:         "con",
	AbortarTP:     "abortar",
	AvanzarTP:     "avanzar",

	OrTP:           "||",
	AndTP:          "&&",
	EqualTP:        "==",
	NotEqualTP:     "!=",
	LessEqualTP:    "<=",
	GreaterEqualTP: ">=",
	AddAssignTP:    "+=",
	SubAssignTP:    "-=",
	MulAssignTP:    "*=",
	DivAssignTP:    "/=",
	ModAssignTP:    "%=",
	AssignTP:       "=",
	AddTP:          "+",
	MinusTP:        "-",
	MultiplyTP:     "*",
	DivideTP:       "/",
	ModTP:          "%",
	LessTP:         "<",
	GreaterTP:      ">",
	NotTP:          "!",

	LeftParenTP:    "(",
	RightParenTP:   ")",
	LeftBraceTP:    "{",
	RightBraceTP:   "}",
	LeftBracketTP:  "[",
	RightBracketTP: "]",
	DotTP:          ".",
	CommaTP:        ",",
	ColonTP:        ":",
}

func (tp TokenType) String() string {
	if tp < 0 || int(tp) >= len(tokenNames) {
		return fmt.Sprintf("TokenType(%d)", int(tp))
	}
	return tokenNames[tp]
}

// Category returns the lexical class of the token type, used by the token
// table dump and the JSON token output.
func (tp TokenType) Category() string {
	switch {
	case tp >= EjercitoTP && tp <= AvanzarTP:
		return "KEYWORD"
	case tp >= OrTP && tp <= NotTP:
		return "OPERATOR"
	case tp >= LeftParenTP && tp <= ColonTP:
		return "SYMBOL"
	case tp == IdentifierTP:
		return "IDENT"
	case tp == IntegerTP:
		return "INTEGER"
	case tp == FloatTP:
		return "FLOAT"
	case tp == StringTP:
		return "STRING"
	case tp == BooleanTP:
		return "BOOLEAN"
	case tp == NullTP:
		return "NULL"
	case tp == NewlineTP:
		return "NEWLINE"
	case tp == ErrorTP:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// keyWordTokenTPMap is the mapping from keyword to the corresponding TokenTP.
// The boolean and null words live here too; classify checks them first so
// they come out as literals, not keywords.
var keyWordTokenTPMap = map[string]TokenType{
	"ejercito":    EjercitoTP,
	"global":      GlobalTP,
	"var":         VarTP,
	"mision":      MisionTP,
	"severidad":   SeveridadTP,
	"estricto":    EstrictoTP,
	"advertencia": AdvertenciaTP,
	"revisar":     RevisarTP,
	"ejecutar":    EjecutarTP,
	"confirmar":   ConfirmarTP,
	"si":          SiTP,
	"por":         PorTP,
	"defecto":     DefectoTP,
	"estrategia":  EstrategiaTP,
	"atacar":      AtacarTP,
	"mientras":    MientrasTP,
	"retirada":    RetiradaTP,
	"con":         ConTP,
	"abortar":     AbortarTP,
	"avanzar":     AvanzarTP,
}

// simpleSymbolTokenTPMap is the mapping from single-character symbol to the
// corresponding TokenTP.
var simpleSymbolTokenTPMap = map[rune]TokenType{
	'(': LeftParenTP,
	')': RightParenTP,
	'{': LeftBraceTP,
	'}': RightBraceTP,
	'[': LeftBracketTP,
	']': RightBracketTP,
	'.': DotTP,
	',': CommaTP,
	':': ColonTP,
}

// Token is one lexical unit. Line and Column are 1-based; Column counts runes
// from the start of the line. Value carries the unquoted body for string
// literals and is empty for every other token type.
type Token struct {
	Type   TokenType
	Lexeme string
	Value  string
	Line   int
	Column int
}

func (token *Token) String() string {
	return fmt.Sprintf("%s %q at line %d, column %d", token.Type.Category(), token.Lexeme, token.Line, token.Column)
}
