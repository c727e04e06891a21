package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeCompatibility(t *testing.T) {
	legion := NewNamedType(BaseArmy, "Legion")
	armada := NewNamedType(BaseArmy, "Armada")
	testData := []struct {
		a        *Type
		b        *Type
		expected bool
	}{
		{a: TypeInteger, b: TypeInteger, expected: true},
		{a: TypeInteger, b: TypeFloat, expected: true},
		{a: TypeFloat, b: TypeInteger, expected: true},
		{a: TypeString, b: TypeInteger, expected: false},
		{a: TypeBoolean, b: TypeBoolean, expected: true},
		{a: TypeBoolean, b: TypeInteger, expected: false},
		{a: TypeUnknown, b: TypeString, expected: true},
		{a: TypeBoolean, b: TypeUnknown, expected: true},
		{a: TypeNull, b: TypeString, expected: true},
		{a: legion, b: legion, expected: true},
		{a: legion, b: armada, expected: false},
	}
	for _, data := range testData {
		assert.Equal(t, data.expected, Compatible(data.a, data.b), "%s vs %s", data.a, data.b)
		assert.Equal(t, data.expected, Assignable(data.a, data.b), "%s vs %s", data.a, data.b)
	}
}

func TestInferBinary(t *testing.T) {
	testData := []struct {
		op       string
		left     *Type
		right    *Type
		expected *Type
		valid    bool
	}{
		{op: "+", left: TypeInteger, right: TypeInteger, expected: TypeInteger, valid: true},
		{op: "+", left: TypeInteger, right: TypeFloat, expected: TypeFloat, valid: true},
		{op: "+", left: TypeString, right: TypeString, expected: TypeString, valid: true},
		{op: "+", left: TypeString, right: TypeInteger, expected: TypeString, valid: true},
		{op: "-", left: TypeString, right: TypeString, valid: false},
		{op: "%", left: TypeInteger, right: TypeInteger, expected: TypeInteger, valid: true},
		{op: "/", left: TypeInteger, right: TypeInteger, expected: TypeInteger, valid: true},
		{op: "/", left: TypeFloat, right: TypeInteger, expected: TypeFloat, valid: true},
		{op: "*", left: TypeBoolean, right: TypeInteger, valid: false},
		{op: "<", left: TypeInteger, right: TypeFloat, expected: TypeBoolean, valid: true},
		{op: "<", left: TypeString, right: TypeString, expected: TypeBoolean, valid: true},
		{op: "<", left: TypeInteger, right: TypeString, valid: false},
		{op: "<=", left: TypeBoolean, right: TypeBoolean, valid: false},
		{op: "==", left: TypeString, right: TypeInteger, expected: TypeBoolean, valid: true},
		{op: "!=", left: TypeNull, right: TypeNull, expected: TypeBoolean, valid: true},
		{op: "&&", left: TypeBoolean, right: TypeBoolean, expected: TypeBoolean, valid: true},
		{op: "&&", left: TypeInteger, right: TypeBoolean, valid: false},
		{op: "||", left: TypeBoolean, right: TypeBoolean, expected: TypeBoolean, valid: true},
		// Unknowns never make an application invalid.
		{op: "+", left: TypeUnknown, right: TypeInteger, expected: TypeInteger, valid: true},
		{op: "*", left: TypeFloat, right: TypeUnknown, expected: TypeFloat, valid: true},
		{op: "+", left: TypeUnknown, right: TypeUnknown, expected: TypeUnknown, valid: true},
		{op: "<", left: TypeUnknown, right: TypeString, expected: TypeBoolean, valid: true},
		{op: "&&", left: TypeUnknown, right: TypeBoolean, expected: TypeBoolean, valid: true},
	}
	for _, data := range testData {
		result, ok := InferBinary(data.op, data.left, data.right)
		assert.Equal(t, data.valid, ok, "%s %s %s", data.left, data.op, data.right)
		if data.valid {
			assert.True(t, data.expected.Equal(result), "%s %s %s", data.left, data.op, data.right)
		}
	}
}

func TestInferUnary(t *testing.T) {
	testData := []struct {
		op       string
		operand  *Type
		expected *Type
		valid    bool
	}{
		{op: "-", operand: TypeInteger, expected: TypeInteger, valid: true},
		{op: "-", operand: TypeFloat, expected: TypeFloat, valid: true},
		{op: "-", operand: TypeString, valid: false},
		{op: "!", operand: TypeBoolean, expected: TypeBoolean, valid: true},
		{op: "!", operand: TypeInteger, valid: false},
		{op: "-", operand: TypeUnknown, expected: TypeUnknown, valid: true},
	}
	for _, data := range testData {
		result, ok := InferUnary(data.op, data.operand)
		assert.Equal(t, data.valid, ok, "%s%s", data.op, data.operand)
		if data.valid {
			assert.True(t, data.expected.Equal(result))
		}
	}
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "Integer", TypeInteger.String())
	assert.Equal(t, "Unknown", TypeUnknown.String())
	assert.Equal(t, "Army(Legion)", NewNamedType(BaseArmy, "Legion").String())
	assert.Equal(t, "Mission(suma)", NewNamedType(BaseMission, "suma").String())
}
