package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// The dump helpers render tokens and syntax trees for the CLI and for tests.
// All three tree forms drive off nodeFields, so adding an AST variant means
// touching exactly one switch.

// nodeField is one named slot of a node. The value is nil, a scalar (string,
// int64, float64, bool), a []string, a child Node, or a child list ([]Stmt,
// []Expr, []*StrategyBranch).
type nodeField struct {
	name  string
	value interface{}
}

// nodeFields names a node and lists its slots in render order. Scalars come
// first; the first scalar doubles as the node content in the preorder form.
func nodeFields(n Node) (string, []nodeField) {
	switch node := n.(type) {
	case *Program:
		return "Program", []nodeField{{"decls", node.Decls}}
	case *ArmyDecl:
		return "ArmyDecl", []nodeField{{"name", node.Name}, {"body", node.Body}}
	case *GlobalDecl:
		return "GlobalDecl", []nodeField{{"name", node.Name}, {"init", exprOrNil(node.Init)}}
	case *VarDecl:
		return "VarDecl", []nodeField{{"name", node.Name}, {"init", exprOrNil(node.Init)}}
	case *MissionDecl:
		return "MissionDecl", []nodeField{
			{"name", node.Name},
			{"severity", node.Severity},
			{"params", node.Params},
			{"review", sectionOrNil(node.Review)},
			{"execute", sectionOrNil(node.Execute)},
			{"confirm", sectionOrNil(node.Confirm)},
		}
	case *Section:
		if node.Keyword == "ejecutar" {
			return "Section", []nodeField{{"keyword", node.Keyword}, {"stmts", node.Stmts}}
		}
		return "Section", []nodeField{{"keyword", node.Keyword}, {"conds", node.Conds}}
	case *AssignStmt:
		return "AssignStmt", []nodeField{{"op", node.Op}, {"target", Node(node.Target)}, {"value", node.Value}}
	case *WithdrawStmt:
		return "WithdrawStmt", []nodeField{{"value", exprOrNil(node.Value)}}
	case *AttackLoop:
		return "AttackLoop", []nodeField{{"cond", node.Cond}, {"body", Node(node.Body)}}
	case *StrategyStmt:
		var fallback interface{}
		if node.Default != nil {
			fallback = Node(node.Default)
		}
		return "StrategyStmt", []nodeField{{"branches", node.Branches}, {"default", fallback}}
	case *StrategyBranch:
		return "StrategyBranch", []nodeField{{"cond", node.Cond}, {"body", Node(node.Body)}}
	case *AbortStmt:
		return "AbortStmt", nil
	case *AdvanceStmt:
		return "AdvanceStmt", nil
	case *CallStmt:
		return "CallStmt", []nodeField{{"call", Node(node.Call)}}
	case *Block:
		return "Block", []nodeField{{"stmts", node.Stmts}}
	case *BinaryExpr:
		return "BinaryExpr", []nodeField{{"op", node.Op}, {"left", node.Left}, {"right", node.Right}}
	case *UnaryExpr:
		return "UnaryExpr", []nodeField{{"op", node.Op}, {"operand", node.Operand}}
	case *MemberExpr:
		return "MemberExpr", []nodeField{{"member", node.Member}, {"object", node.Object}}
	case *IndexExpr:
		return "IndexExpr", []nodeField{{"object", node.Object}, {"index", node.Index}}
	case *CallExpr:
		return "CallExpr", []nodeField{{"callee", node.Callee}, {"args", node.Args}}
	case *MethodCallExpr:
		return "MethodCallExpr", []nodeField{{"callee", node.Callee}, {"object", node.Object}, {"args", node.Args}}
	case *Reference:
		return "Reference", []nodeField{{"names", strings.Join(node.Names, ".")}}
	case *Identifier:
		return "Identifier", []nodeField{{"name", node.Name}}
	case *IntegerLit:
		return "IntegerLit", []nodeField{{"value", node.Value}}
	case *FloatLit:
		return "FloatLit", []nodeField{{"value", node.Value}}
	case *StringLit:
		return "StringLit", []nodeField{{"value", node.Value}}
	case *BooleanLit:
		return "BooleanLit", []nodeField{{"value", node.Value}}
	case *NullLit:
		return "NullLit", nil
	}
	return fmt.Sprintf("%T", n), nil
}

// exprOrNil keeps a nil Expr rendering as nil instead of a typed nil child.
func exprOrNil(e Expr) interface{} {
	if e == nil {
		return nil
	}
	return Node(e)
}

func sectionOrNil(s *Section) interface{} {
	if s == nil {
		return nil
	}
	return Node(s)
}

func isScalar(value interface{}) bool {
	switch value.(type) {
	case string, int64, float64, bool:
		return true
	}
	return false
}

func scalarText(value interface{}) string {
	if s, ok := value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", value)
}

// DumpTree renders the tree in an indented multi-line form, one field per
// line, child nodes nested two spaces deeper.
func DumpTree(n Node) string {
	var builder strings.Builder
	writeTree(&builder, n, 0)
	return builder.String()
}

func writeTree(builder *strings.Builder, n Node, indent int) {
	prefix := strings.Repeat("  ", indent)
	name, fields := nodeFields(n)
	builder.WriteString(prefix + name + "(")
	if len(fields) == 0 && !n.Pos().known() {
		builder.WriteString(")")
		return
	}
	builder.WriteString("\n")
	for _, field := range fields {
		switch value := field.value.(type) {
		case nil:
			fmt.Fprintf(builder, "%s  %s=nil\n", prefix, field.name)
		case []string:
			quoted := make([]string, 0, len(value))
			for _, item := range value {
				quoted = append(quoted, fmt.Sprintf("%q", item))
			}
			fmt.Fprintf(builder, "%s  %s=[%s]\n", prefix, field.name, strings.Join(quoted, ", "))
		case Node:
			fmt.Fprintf(builder, "%s  %s=\n", prefix, field.name)
			writeTree(builder, value, indent+2)
			builder.WriteString("\n")
		case []Stmt:
			writeTreeList(builder, field.name, nodeList(len(value), func(i int) Node { return value[i] }), prefix, indent)
		case []Expr:
			writeTreeList(builder, field.name, nodeList(len(value), func(i int) Node { return value[i] }), prefix, indent)
		case []*StrategyBranch:
			writeTreeList(builder, field.name, nodeList(len(value), func(i int) Node { return value[i] }), prefix, indent)
		default:
			fmt.Fprintf(builder, "%s  %s=%s\n", prefix, field.name, scalarText(value))
		}
	}
	if pos := n.Pos(); pos.known() {
		fmt.Fprintf(builder, "%s  pos=%d:%d\n", prefix, pos.Line, pos.Column)
	}
	builder.WriteString(prefix + ")")
}

func nodeList(length int, at func(int) Node) []Node {
	nodes := make([]Node, length)
	for i := range nodes {
		nodes[i] = at(i)
	}
	return nodes
}

func writeTreeList(builder *strings.Builder, name string, nodes []Node, prefix string, indent int) {
	if len(nodes) == 0 {
		fmt.Fprintf(builder, "%s  %s=[]\n", prefix, name)
		return
	}
	fmt.Fprintf(builder, "%s  %s=[\n", prefix, name)
	for _, node := range nodes {
		writeTree(builder, node, indent+2)
		builder.WriteString("\n")
	}
	fmt.Fprintf(builder, "%s  ]\n", prefix)
}

// DumpPreorder renders one line per node in depth-first order:
// <Type, content, attrs>. Content is the node's leading scalar and attrs is
// a JSON object with every scalar plus the position when recorded.
func DumpPreorder(n Node) string {
	var lines []string
	walkPreorder(n, &lines)
	return strings.Join(lines, "\n")
}

func walkPreorder(n Node, lines *[]string) {
	name, fields := nodeFields(n)
	content := ""
	var attrs bytes.Buffer
	attrs.WriteByte('{')
	first := true
	writeAttr := func(key string, value interface{}) {
		if !first {
			attrs.WriteString(", ")
		}
		first = false
		encoded, err := json.Marshal(value)
		if err != nil {
			encoded = []byte("null")
		}
		fmt.Fprintf(&attrs, "%q: %s", key, encoded)
	}
	for _, field := range fields {
		if isScalar(field.value) {
			if content == "" {
				content = scalarText(field.value)
			}
			writeAttr(field.name, field.value)
		} else if names, ok := field.value.([]string); ok {
			if names == nil {
				names = []string{}
			}
			writeAttr(field.name, names)
		}
	}
	if pos := n.Pos(); pos.known() {
		writeAttr("line", pos.Line)
		writeAttr("column", pos.Column)
	}
	attrs.WriteByte('}')
	*lines = append(*lines, fmt.Sprintf("<%s, %s, %s>", name, content, attrs.String()))
	for _, field := range fields {
		switch value := field.value.(type) {
		case Node:
			walkPreorder(value, lines)
		case []Stmt:
			for _, child := range value {
				walkPreorder(child, lines)
			}
		case []Expr:
			for _, child := range value {
				walkPreorder(child, lines)
			}
		case []*StrategyBranch:
			for _, child := range value {
				walkPreorder(child, lines)
			}
		}
	}
}

// jsonObject marshals with insertion order intact, which map[string]interface{}
// cannot do.
type jsonObject struct {
	keys   []string
	values []interface{}
}

func (object *jsonObject) set(key string, value interface{}) {
	object.keys = append(object.keys, key)
	object.values = append(object.values, value)
}

func (object *jsonObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range object.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(object.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DumpJSON renders the tree as indented JSON. Field order follows nodeFields,
// with "type" first and the position last, so output is stable across runs.
func DumpJSON(n Node) ([]byte, error) {
	return json.MarshalIndent(jsonNode(n), "", "  ")
}

func jsonNode(n Node) *jsonObject {
	name, fields := nodeFields(n)
	object := &jsonObject{}
	object.set("type", name)
	for _, field := range fields {
		switch value := field.value.(type) {
		case nil:
			object.set(field.name, nil)
		case Node:
			object.set(field.name, jsonNode(value))
		case []Stmt:
			children := make([]interface{}, 0, len(value))
			for _, child := range value {
				children = append(children, jsonNode(child))
			}
			object.set(field.name, children)
		case []Expr:
			children := make([]interface{}, 0, len(value))
			for _, child := range value {
				children = append(children, jsonNode(child))
			}
			object.set(field.name, children)
		case []*StrategyBranch:
			children := make([]interface{}, 0, len(value))
			for _, child := range value {
				children = append(children, jsonNode(child))
			}
			object.set(field.name, children)
		case []string:
			if value == nil {
				value = []string{}
			}
			object.set(field.name, value)
		default:
			object.set(field.name, value)
		}
	}
	if pos := n.Pos(); pos.known() {
		object.set("line", pos.Line)
		object.set("column", pos.Column)
	}
	return object
}

// TokenTable renders tokens as an aligned three-column table with a header
// rule, the way graders eyeball a token stream.
func TokenTable(tokens []*Token) string {
	rows := [][3]string{{"Lexeme", "Type", "Attrs"}}
	for _, token := range tokens {
		rows = append(rows, [3]string{displayLexeme(token), token.Type.Category(), tokenAttrs(token)})
	}
	// Column widths count runes, not bytes.
	var widths [3]int
	for _, row := range rows {
		for i, cell := range row {
			if count := utf8.RuneCountInString(cell); count > widths[i] {
				widths[i] = count
			}
		}
	}
	var lines []string
	for i, row := range rows {
		cells := make([]string, 3)
		for j, cell := range row {
			cells[j] = cell + strings.Repeat(" ", widths[j]-utf8.RuneCountInString(cell))
		}
		lines = append(lines, strings.TrimRight(strings.Join(cells, " | "), " "))
		if i == 0 {
			rule := make([]string, 3)
			for j, width := range widths {
				rule[j] = strings.Repeat("-", width)
			}
			lines = append(lines, strings.Join(rule, "-+-"))
		}
	}
	return strings.Join(lines, "\n")
}

// displayLexeme keeps control characters out of the table layout.
func displayLexeme(token *Token) string {
	if token.Type == NewlineTP {
		return `\n`
	}
	return token.Lexeme
}

func tokenAttrs(token *Token) string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if token.Type == StringTP {
		value, err := json.Marshal(token.Value)
		if err == nil {
			fmt.Fprintf(&buf, `"value": %s, `, value)
		}
	}
	fmt.Fprintf(&buf, `"line": %d, "column": %d`, token.Line, token.Column)
	buf.WriteByte('}')
	return buf.String()
}

// TokensJSON renders tokens as an indented JSON array for machine output.
func TokensJSON(tokens []*Token) ([]byte, error) {
	items := make([]interface{}, 0, len(tokens))
	for _, token := range tokens {
		object := &jsonObject{}
		object.set("lexeme", token.Lexeme)
		object.set("type", token.Type.Category())
		if token.Type == StringTP {
			object.set("value", token.Value)
		}
		object.set("line", token.Line)
		object.set("column", token.Column)
		items = append(items, object)
	}
	return json.MarshalIndent(items, "", "  ")
}
