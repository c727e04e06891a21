package compiler

import "fmt"

// Verifier walks a parsed Program and collects semantic diagnostics. Rule
// violations never abort the walk: the verifier substitutes Unknown or Null
// and keeps going, so one run reports every independent problem it can find.
type Verifier struct {
	table *SymbolTable
}

func NewVerifier() *Verifier {
	return &Verifier{table: NewSymbolTable()}
}

// Verify runs a fresh verifier over program. An empty result means the
// program is semantically valid.
func Verify(program *Program) []string {
	return NewVerifier().Verify(program)
}

func (verifier *Verifier) Verify(program *Program) []string {
	diags := &diagnostics{}
	verifier.collectSignatures(diags, program)
	verifier.verifyProgram(diags, program)
	return diags.messages()
}

// diagnostics accumulates the semantic findings of one run in visit order.
type diagnostics struct {
	items []string
}

// addf appends a diagnostic, prefixing the position when the node has one.
func (diags *diagnostics) addf(pos Position, format string, a ...interface{}) {
	detail := fmt.Sprintf(format, a...)
	if pos.known() {
		diags.items = append(diags.items, fmt.Sprintf("semantic error at line %d, column %d: %s", pos.Line, pos.Column, detail))
		return
	}
	diags.items = append(diags.items, "semantic error: "+detail)
}

// internalf records a defect in the verifier itself, not in the program
// under verification.
func (diags *diagnostics) internalf(format string, a ...interface{}) {
	diags.items = append(diags.items, "internal error: "+fmt.Sprintf(format, a...))
}

func (diags *diagnostics) messages() []string {
	return diags.items
}

// visitContext is the state threaded through statement visits. It is passed
// by value: a visitor returns the updated context, and callers decide which
// fields propagate. Loop bodies hand back their return-type accumulation but
// never leak inLoop.
type visitContext struct {
	mission    *Symbol
	inLoop     bool
	returnType *Type
	returnSeen bool
}

// Signature collection. The first pass declares every army with its member
// scope and every mission signature, top level and nested, before any body
// is visited. Forward references then resolve anywhere.

func (verifier *Verifier) collectSignatures(diags *diagnostics, program *Program) {
	for _, decl := range program.Decls {
		switch node := decl.(type) {
		case *ArmyDecl:
			verifier.collectArmy(diags, node)
		case *MissionDecl:
			verifier.collectMission(diags, node)
		}
	}
}

func (verifier *Verifier) collectArmy(diags *diagnostics, decl *ArmyDecl) {
	sym := &Symbol{Name: decl.Name, Type: NewNamedType(BaseArmy, decl.Name), Category: CategoryArmy}
	if !verifier.table.Declare(sym) {
		diags.addf(decl.Position, "army %s already declared", decl.Name)
		return
	}
	sym.ScopeIndex = verifier.table.EnterScope()
	for _, member := range decl.Body {
		if mission, ok := member.(*MissionDecl); ok {
			verifier.collectMission(diags, mission)
		}
	}
	verifier.table.ExitScope()
}

func (verifier *Verifier) collectMission(diags *diagnostics, decl *MissionDecl) {
	sym := &Symbol{
		Name:       decl.Name,
		Type:       NewNamedType(BaseMission, decl.Name),
		Category:   CategoryMission,
		Params:     decl.Params,
		ParamTypes: make([]*Type, len(decl.Params)),
		Severity:   decl.Severity,
		ReturnType: TypeUnknown,
	}
	for i := range sym.ParamTypes {
		sym.ParamTypes[i] = TypeUnknown
	}
	if !verifier.table.Declare(sym) {
		diags.addf(decl.Position, "mission %s already declared", decl.Name)
	}
}

// Body verification, second pass.

func (verifier *Verifier) verifyProgram(diags *diagnostics, program *Program) {
	ctx := visitContext{}
	for _, decl := range program.Decls {
		switch node := decl.(type) {
		case *ArmyDecl:
			verifier.verifyArmy(diags, node)
		case *MissionDecl:
			verifier.verifyMission(diags, node)
		default:
			ctx = verifier.verifyStmt(diags, ctx, node)
		}
	}
}

func (verifier *Verifier) verifyArmy(diags *diagnostics, decl *ArmyDecl) {
	sym := verifier.table.Lookup(decl.Name)
	if sym == nil || sym.Category != CategoryArmy {
		diags.internalf("army %s missing from the symbol table", decl.Name)
		return
	}
	verifier.table.EnterAt(sym.ScopeIndex)
	ctx := visitContext{}
	for _, member := range decl.Body {
		switch node := member.(type) {
		case *MissionDecl:
			verifier.verifyMission(diags, node)
		default:
			ctx = verifier.verifyStmt(diags, ctx, node)
		}
	}
	verifier.table.ExitScope()
}

func (verifier *Verifier) verifyMission(diags *diagnostics, decl *MissionDecl) {
	sym := verifier.table.Lookup(decl.Name)
	if sym == nil || sym.Category != CategoryMission {
		// Recovery symbol so the body still verifies in a mission context.
		sym = &Symbol{
			Name:       decl.Name,
			Type:       NewNamedType(BaseMission, decl.Name),
			Category:   CategoryMission,
			Params:     decl.Params,
			ParamTypes: make([]*Type, len(decl.Params)),
			Severity:   decl.Severity,
			ReturnType: TypeUnknown,
		}
	}
	verifier.table.EnterScope()
	for _, param := range decl.Params {
		if !verifier.table.Declare(&Symbol{Name: param, Type: TypeUnknown, Category: CategoryVariable}) {
			diags.addf(decl.Position, "parameter %s is duplicated", param)
		}
	}
	ctx := visitContext{mission: sym}
	if decl.Review != nil {
		verifier.verifyConditions(diags, decl.Review)
	}
	if decl.Execute != nil {
		for _, stmt := range decl.Execute.Stmts {
			ctx = verifier.verifyStmt(diags, ctx, stmt)
		}
	}
	if decl.Confirm != nil {
		verifier.verifyConditions(diags, decl.Confirm)
	}
	switch {
	case ctx.returnSeen:
		sym.ReturnType = ctx.returnType
	case decl.Confirm != nil:
		sym.ReturnType = verifier.inferReturnFromConfirm(decl)
	default:
		sym.ReturnType = TypeNull
	}
	verifier.table.ExitScope()
}

func (verifier *Verifier) verifyConditions(diags *diagnostics, section *Section) {
	for _, cond := range section.Conds {
		condType := verifier.inferExpr(diags, cond)
		if condType.Base != BaseBoolean && !condType.IsUnknown() {
			diags.addf(cond.Pos(), "condition of %s must be Boolean, found %s", section.Keyword, condType)
		}
	}
}

// inferReturnFromConfirm guesses a mission's return type from its confirm
// section when no retirada carried a value: the first identifier, in source
// order, naming a mission-scope variable that is not a parameter gives its
// type. Null when nothing matches. Runs while the mission scope is still
// active.
func (verifier *Verifier) inferReturnFromConfirm(decl *MissionDecl) *Type {
	var names []string
	for _, cond := range decl.Confirm.Conds {
		names = collectIdentifiers(cond, names)
	}
	for _, name := range names {
		sym := verifier.table.LookupLocal(name)
		if sym == nil || sym.Category != CategoryVariable {
			continue
		}
		if isParam(decl.Params, name) {
			continue
		}
		return sym.Type
	}
	return TypeNull
}

func isParam(params []string, name string) bool {
	for _, param := range params {
		if param == name {
			return true
		}
	}
	return false
}

// collectIdentifiers walks an expression depth first, left to right,
// gathering the identifier names it mentions. A dotted reference contributes
// its head, a call its callee then its arguments, a member access only its
// object. Literals contribute nothing.
func collectIdentifiers(e Expr, names []string) []string {
	switch node := e.(type) {
	case *Identifier:
		names = append(names, node.Name)
	case *Reference:
		if len(node.Names) > 0 {
			names = append(names, node.Names[0])
		}
	case *CallExpr:
		names = append(names, node.Callee)
		for _, arg := range node.Args {
			names = collectIdentifiers(arg, names)
		}
	case *MethodCallExpr:
		names = collectIdentifiers(node.Object, names)
		names = append(names, node.Callee)
		for _, arg := range node.Args {
			names = collectIdentifiers(arg, names)
		}
	case *BinaryExpr:
		names = collectIdentifiers(node.Left, names)
		names = collectIdentifiers(node.Right, names)
	case *UnaryExpr:
		names = collectIdentifiers(node.Operand, names)
	case *MemberExpr:
		names = collectIdentifiers(node.Object, names)
	case *IndexExpr:
		names = collectIdentifiers(node.Object, names)
		names = collectIdentifiers(node.Index, names)
	}
	return names
}

// Statements.

func (verifier *Verifier) verifyStmt(diags *diagnostics, ctx visitContext, stmt Stmt) visitContext {
	switch node := stmt.(type) {
	case *GlobalDecl:
		verifier.declareVariable(diags, node.Position, node.Name, node.Init, "variable %s already declared")
	case *VarDecl:
		verifier.declareVariable(diags, node.Position, node.Name, node.Init, "variable %s already declared in this scope")
	case *AssignStmt:
		verifier.verifyAssign(diags, node)
	case *CallStmt:
		verifier.inferCall(diags, node.Call.Callee, node.Call.Args, node.Call.Position, nil)
	case *WithdrawStmt:
		ctx = verifier.verifyWithdraw(diags, ctx, node)
	case *AttackLoop:
		ctx = verifier.verifyLoop(diags, ctx, node)
	case *StrategyStmt:
		ctx = verifier.verifyStrategy(diags, ctx, node)
	case *AbortStmt:
		if !ctx.inLoop {
			diags.addf(node.Position, "abortar outside a loop")
		}
	case *AdvanceStmt:
		if !ctx.inLoop {
			diags.addf(node.Position, "avanzar outside a loop")
		}
	default:
		diags.internalf("unrecognized statement node %T", stmt)
	}
	return ctx
}

func (verifier *Verifier) verifyBlock(diags *diagnostics, ctx visitContext, block *Block) visitContext {
	if block == nil {
		return ctx
	}
	for _, stmt := range block.Stmts {
		ctx = verifier.verifyStmt(diags, ctx, stmt)
	}
	return ctx
}

func (verifier *Verifier) declareVariable(diags *diagnostics, pos Position, name string, init Expr, dupFormat string) {
	varType := TypeUnknown
	if init != nil {
		varType = verifier.inferExpr(diags, init)
	}
	if !verifier.table.Declare(&Symbol{Name: name, Type: varType, Category: CategoryVariable}) {
		diags.addf(pos, dupFormat, name)
	}
}

// verifyAssign resolves the assignment target. A plain "=" to an undeclared
// single name declares it implicitly with the value's type; a compound
// operator requires a declared target. A dotted target resolves one member
// level through the head army's scope. An Unknown target narrows to the
// value's type before any further checks.
func (verifier *Verifier) verifyAssign(diags *diagnostics, node *AssignStmt) {
	if len(node.Target.Names) == 0 {
		diags.internalf("assignment target has no name")
		return
	}
	name := node.Target.Names[0]
	sym := verifier.table.Lookup(name)
	if sym == nil {
		if node.Op == "=" && len(node.Target.Names) == 1 {
			valueType := verifier.inferExpr(diags, node.Value)
			verifier.table.Declare(&Symbol{Name: name, Type: valueType, Category: CategoryVariable})
			return
		}
		diags.addf(node.Position, "variable %s not declared", name)
		return
	}
	if len(node.Target.Names) > 1 {
		if sym.Category != CategoryArmy {
			diags.addf(node.Position, "%s is not an army", name)
			return
		}
		member := node.Target.Names[1]
		memberSym := verifier.table.LookupLocalAt(sym.ScopeIndex, member)
		if memberSym == nil {
			diags.addf(node.Position, "army %s has no member %s", name, member)
			return
		}
		sym = memberSym
	}
	if sym.Category != CategoryVariable {
		diags.addf(node.Position, "cannot assign to %s %s", sym.Category, sym.Name)
		return
	}
	valueType := verifier.inferExpr(diags, node.Value)
	switch {
	case sym.Type.IsUnknown():
		sym.Type = valueType
	case valueType.IsUnknown():
		// Deferred inference, allowed.
	case !Assignable(sym.Type, valueType):
		diags.addf(node.Position, "cannot assign %s to variable of type %s", valueType, sym.Type)
	}
	if node.Op != "=" && !sym.Type.IsNumeric() {
		diags.addf(node.Position, "compound assignment requires a numeric variable, found %s", sym.Type)
	}
}

func (verifier *Verifier) verifyWithdraw(diags *diagnostics, ctx visitContext, node *WithdrawStmt) visitContext {
	if ctx.mission == nil {
		diags.addf(node.Position, "retirada outside a mission")
		return ctx
	}
	if node.Value == nil {
		if !ctx.returnSeen {
			ctx.returnType, ctx.returnSeen = TypeNull, true
		} else if ctx.returnType.Base != BaseNull && !ctx.returnType.IsUnknown() {
			diags.addf(node.Position, "inconsistent return type: expected %s, found Null", ctx.returnType)
		}
		return ctx
	}
	valueType := verifier.inferExpr(diags, node.Value)
	if !ctx.returnSeen {
		ctx.returnType, ctx.returnSeen = valueType, true
		return ctx
	}
	if valueType.IsUnknown() || ctx.returnType.IsUnknown() {
		if !valueType.IsUnknown() {
			ctx.returnType = valueType
		}
		return ctx
	}
	if !Compatible(ctx.returnType, valueType) {
		diags.addf(node.Position, "inconsistent return type: expected %s, found %s", ctx.returnType, valueType)
	}
	return ctx
}

func (verifier *Verifier) verifyLoop(diags *diagnostics, ctx visitContext, node *AttackLoop) visitContext {
	condType := verifier.inferExpr(diags, node.Cond)
	if condType.Base != BaseBoolean && !condType.IsUnknown() {
		diags.addf(node.Cond.Pos(), "loop condition must be Boolean, found %s", condType)
	}
	bodyCtx := ctx
	bodyCtx.inLoop = true
	bodyCtx = verifier.verifyBlock(diags, bodyCtx, node.Body)
	ctx.returnType, ctx.returnSeen = bodyCtx.returnType, bodyCtx.returnSeen
	return ctx
}

func (verifier *Verifier) verifyStrategy(diags *diagnostics, ctx visitContext, node *StrategyStmt) visitContext {
	for _, branch := range node.Branches {
		condType := verifier.inferExpr(diags, branch.Cond)
		if condType.Base != BaseBoolean && !condType.IsUnknown() {
			diags.addf(branch.Cond.Pos(), "condition of si must be Boolean, found %s", condType)
		}
		ctx = verifier.verifyBlock(diags, ctx, branch.Body)
	}
	if node.Default != nil {
		ctx = verifier.verifyBlock(diags, ctx, node.Default)
	}
	return ctx
}

// Expressions.

// inferExpr types an expression, reporting violations along the way. It
// always returns a usable type; Unknown stands in after an error.
func (verifier *Verifier) inferExpr(diags *diagnostics, e Expr) *Type {
	switch node := e.(type) {
	case *IntegerLit:
		return TypeInteger
	case *FloatLit:
		return TypeFloat
	case *StringLit:
		return TypeString
	case *BooleanLit:
		return TypeBoolean
	case *NullLit:
		return TypeNull
	case *Identifier:
		return verifier.inferName(diags, node.Name, node.Position)
	case *Reference:
		return verifier.inferReference(diags, node)
	case *BinaryExpr:
		leftType := verifier.inferExpr(diags, node.Left)
		rightType := verifier.inferExpr(diags, node.Right)
		result, ok := InferBinary(node.Op, leftType, rightType)
		if !ok {
			diags.addf(node.Position, "operator %s cannot be applied to %s and %s", node.Op, leftType, rightType)
			return TypeUnknown
		}
		return result
	case *UnaryExpr:
		operandType := verifier.inferExpr(diags, node.Operand)
		result, ok := InferUnary(node.Op, operandType)
		if !ok {
			diags.addf(node.Position, "operator %s cannot be applied to %s", node.Op, operandType)
			return TypeUnknown
		}
		return result
	case *CallExpr:
		return verifier.inferCall(diags, node.Callee, node.Args, node.Position, nil)
	case *MethodCallExpr:
		objectType := verifier.inferExpr(diags, node.Object)
		return verifier.inferCall(diags, node.Callee, node.Args, node.Position, objectType)
	case *MemberExpr:
		return verifier.inferMember(diags, node)
	case *IndexExpr:
		return verifier.inferIndex(diags, node)
	}
	diags.internalf("unrecognized expression node %T", e)
	return TypeUnknown
}

func (verifier *Verifier) inferName(diags *diagnostics, name string, pos Position) *Type {
	sym := verifier.table.Lookup(name)
	if sym == nil {
		diags.addf(pos, "variable %s not declared", name)
		return TypeUnknown
	}
	return sym.Type
}

// inferReference types a dotted read. One member level is supported: the
// head must be a declared army and the second name resolves locally in its
// member scope.
func (verifier *Verifier) inferReference(diags *diagnostics, node *Reference) *Type {
	if len(node.Names) == 0 {
		diags.internalf("reference with no names")
		return TypeUnknown
	}
	if len(node.Names) == 1 {
		return verifier.inferName(diags, node.Names[0], node.Position)
	}
	armyName := node.Names[0]
	sym := verifier.table.Lookup(armyName)
	if sym == nil {
		diags.addf(node.Position, "%s not declared", armyName)
		return TypeUnknown
	}
	if sym.Category != CategoryArmy {
		diags.addf(node.Position, "%s is not an army", armyName)
		return TypeUnknown
	}
	member := node.Names[1]
	memberSym := verifier.table.LookupLocalAt(sym.ScopeIndex, member)
	if memberSym == nil {
		diags.addf(node.Position, "army %s has no member %s", armyName, member)
		return TypeUnknown
	}
	return memberSym.Type
}

// inferCall checks a mission invocation and yields its return type. A
// non-nil army objectType routes the callee lookup through that army's
// member scope; any other object type falls back to the plain scope chain.
func (verifier *Verifier) inferCall(diags *diagnostics, callee string, args []Expr, pos Position, objectType *Type) *Type {
	var sym *Symbol
	if objectType != nil && objectType.Base == BaseArmy {
		armySym := verifier.table.Lookup(objectType.Name)
		if armySym == nil {
			diags.addf(pos, "army %s not found", objectType.Name)
			return TypeUnknown
		}
		if armySym.Category != CategoryArmy {
			diags.addf(pos, "%s is not an army", objectType.Name)
			return TypeUnknown
		}
		sym = verifier.table.LookupLocalAt(armySym.ScopeIndex, callee)
	} else {
		sym = verifier.table.Lookup(callee)
	}
	if sym == nil {
		diags.addf(pos, "mission %s not declared", callee)
		return TypeUnknown
	}
	if sym.Category != CategoryMission {
		diags.addf(pos, "%s is not a mission", callee)
		return TypeUnknown
	}
	if len(args) != len(sym.Params) {
		diags.addf(pos, "mission %s expects %d arguments, got %d", callee, len(sym.Params), len(args))
	}
	for i, arg := range args {
		argType := verifier.inferExpr(diags, arg)
		if i >= len(sym.ParamTypes) {
			continue
		}
		paramType := sym.ParamTypes[i]
		if paramType == nil || paramType.IsUnknown() {
			continue
		}
		if !Compatible(paramType, argType) {
			diags.addf(arg.Pos(), "argument %d of %s: expected %s, found %s", i+1, callee, paramType, argType)
		}
	}
	if sym.ReturnType == nil {
		return TypeUnknown
	}
	return sym.ReturnType
}

func (verifier *Verifier) inferMember(diags *diagnostics, node *MemberExpr) *Type {
	objectType := verifier.inferExpr(diags, node.Object)
	if objectType.Base != BaseArmy {
		diags.addf(node.Position, "member access on non-army type %s", objectType)
		return TypeUnknown
	}
	armySym := verifier.lookupArmyOnStack(objectType.Name)
	if armySym == nil {
		diags.addf(node.Position, "army %s not found", objectType.Name)
		return TypeUnknown
	}
	memberSym := verifier.table.LookupLocalAt(armySym.ScopeIndex, node.Member)
	if memberSym == nil {
		diags.addf(node.Position, "army %s has no member %s", objectType.Name, node.Member)
		return TypeUnknown
	}
	return memberSym.Type
}

// lookupArmyOnStack resolves an army symbol by walking the active scope
// stack from the innermost frame outward with local lookups. Bindings of
// other categories are skipped so a shadowing variable does not hide the
// army.
func (verifier *Verifier) lookupArmyOnStack(name string) *Symbol {
	for i := len(verifier.table.stack) - 1; i >= 0; i-- {
		sym := verifier.table.LookupLocalAt(verifier.table.stack[i], name)
		if sym != nil && sym.Category == CategoryArmy {
			return sym
		}
	}
	return nil
}

// inferIndex types expr[index]. Only strings are indexable and indexing one
// yields a one-character String. A concrete non-String base reports and
// skips the index entirely.
func (verifier *Verifier) inferIndex(diags *diagnostics, node *IndexExpr) *Type {
	objectType := verifier.inferExpr(diags, node.Object)
	if objectType.IsUnknown() {
		verifier.inferExpr(diags, node.Index)
		return TypeString
	}
	if objectType.Base != BaseString {
		diags.addf(node.Position, "indexing requires a String, found %s", objectType)
		return TypeUnknown
	}
	indexType := verifier.inferExpr(diags, node.Index)
	if indexType.Base != BaseInteger && !indexType.IsUnknown() {
		diags.addf(node.Index.Pos(), "index must be Integer, found %s", indexType)
	}
	return TypeString
}
