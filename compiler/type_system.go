package compiler

import "fmt"

// TypeBase enumerates the value kinds of the language.
type TypeBase int

const (
	BaseInteger TypeBase = iota
	BaseFloat
	BaseString
	BaseBoolean
	BaseNull
	BaseArmy
	BaseMission
	BaseUnknown
)

var typeBaseNames = [...]string{
	BaseInteger: "Integer",
	BaseFloat:   "Float",
	BaseString:  "String",
	BaseBoolean: "Boolean",
	BaseNull:    "Null",
	BaseArmy:    "Army",
	BaseMission: "Mission",
	BaseUnknown: "Unknown",
}

func (base TypeBase) String() string {
	if base < 0 || int(base) >= len(typeBaseNames) {
		return fmt.Sprintf("TypeBase(%d)", base)
	}
	return typeBaseNames[base]
}

// Type is an immutable value. Name is only meaningful for Army and Mission
// types, where it holds the declared identifier. Unknown is the placeholder
// the verifier hands out before inference resolves a type; it is compatible
// with everything.
type Type struct {
	Base TypeBase
	Name string
}

var (
	TypeInteger = &Type{Base: BaseInteger}
	TypeFloat   = &Type{Base: BaseFloat}
	TypeString  = &Type{Base: BaseString}
	TypeBoolean = &Type{Base: BaseBoolean}
	TypeNull    = &Type{Base: BaseNull}
	TypeUnknown = &Type{Base: BaseUnknown}
)

func NewType(base TypeBase) *Type {
	return &Type{Base: base}
}

func NewNamedType(base TypeBase, name string) *Type {
	return &Type{Base: base, Name: name}
}

func (tp *Type) String() string {
	if tp.Name != "" {
		return fmt.Sprintf("%s(%s)", tp.Base, tp.Name)
	}
	return tp.Base.String()
}

func (tp *Type) Equal(other *Type) bool {
	return tp.Base == other.Base && tp.Name == other.Name
}

func (tp *Type) IsNumeric() bool {
	return tp.Base == BaseInteger || tp.Base == BaseFloat
}

func (tp *Type) IsComparable() bool {
	return tp.IsNumeric() || tp.Base == BaseString
}

func (tp *Type) IsUnknown() bool {
	return tp.Base == BaseUnknown
}

// Compatible reports whether two types can meet in an assignment or a
// comparison. Null and Unknown match anything, Integer and Float match each
// other, named types must agree on the name.
func Compatible(a, b *Type) bool {
	if a.IsUnknown() || b.IsUnknown() {
		return true
	}
	if a.Base == BaseNull || b.Base == BaseNull {
		return true
	}
	if a.IsNumeric() && b.IsNumeric() {
		return true
	}
	return a.Equal(b)
}

// Assignable reports whether a value of type value may be stored into a
// variable of type target.
func Assignable(target, value *Type) bool {
	return Compatible(target, value)
}

// InferBinary resolves the result type of a binary operator application.
// The second result is false when the operand combination is invalid. An
// Unknown operand never makes an application invalid: arithmetic adopts the
// known side, the boolean-valued operators answer Boolean.
func InferBinary(op string, left, right *Type) (*Type, bool) {
	switch op {
	case "+", "-", "*", "/", "%":
		if left.IsUnknown() {
			if right.IsUnknown() {
				return TypeUnknown, true
			}
			return right, true
		}
		if right.IsUnknown() {
			return left, true
		}
		if op == "+" && (left.Base == BaseString || right.Base == BaseString) {
			return TypeString, true
		}
		if left.IsNumeric() && right.IsNumeric() {
			if left.Base == BaseFloat || right.Base == BaseFloat {
				return TypeFloat, true
			}
			return TypeInteger, true
		}
		return nil, false
	case "==", "!=":
		return TypeBoolean, true
	case "<", "<=", ">", ">=":
		if left.IsUnknown() || right.IsUnknown() {
			return TypeBoolean, true
		}
		if left.IsComparable() && right.IsComparable() && Compatible(left, right) {
			return TypeBoolean, true
		}
		return nil, false
	case "&&", "||":
		if left.IsUnknown() || right.IsUnknown() {
			return TypeBoolean, true
		}
		if left.Base == BaseBoolean && right.Base == BaseBoolean {
			return TypeBoolean, true
		}
		return nil, false
	}
	return nil, false
}

// InferUnary resolves the result type of a prefix operator application.
func InferUnary(op string, operand *Type) (*Type, bool) {
	if operand.IsUnknown() {
		return TypeUnknown, true
	}
	switch op {
	case "-":
		if operand.IsNumeric() {
			return operand, true
		}
	case "!":
		if operand.Base == BaseBoolean {
			return TypeBoolean, true
		}
	}
	return nil, false
}
