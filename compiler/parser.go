package compiler

import "fmt"

// Parser builds a Program from a token stream by recursive descent with one
// token of lookahead. The first grammar violation aborts the parse; there is
// no recovery. Newline tokens are statement separators: the grammar consumes
// them wherever they appear and never requires them.
type Parser struct {
	currentTokenPos int
	currentTokens   []*Token
}

// Parse runs a fresh parse over tokens.
func (parser *Parser) Parse(tokens []*Token) (*Program, error) {
	parser.currentTokens, parser.currentTokenPos = tokens, 0
	return parser.parseProgram()
}

func (parser *Parser) hasRemainTokens() bool {
	return parser.currentTokenPos < len(parser.currentTokens)
}

// getCurrentToken returns nil once the stream is exhausted.
func (parser *Parser) getCurrentToken() *Token {
	if !parser.hasRemainTokens() {
		return nil
	}
	return parser.currentTokens[parser.currentTokenPos]
}

func (parser *Parser) lookAhead(n int) *Token {
	pos := parser.currentTokenPos + n
	if pos >= len(parser.currentTokens) {
		return nil
	}
	return parser.currentTokens[pos]
}

func (parser *Parser) stepForward() {
	parser.currentTokenPos++
}

func (parser *Parser) currentIs(tp TokenType) bool {
	token := parser.getCurrentToken()
	return token != nil && token.Type == tp
}

func (parser *Parser) currentIsOneOf(tps ...TokenType) bool {
	token := parser.getCurrentToken()
	if token == nil {
		return false
	}
	for _, tp := range tps {
		if token.Type == tp {
			return true
		}
	}
	return false
}

// expectToken returns the current token when it has the wanted type, walking
// past it when walk is set. On a mismatch the position is left alone.
func (parser *Parser) expectToken(tp TokenType, walk bool) (*Token, bool) {
	token := parser.getCurrentToken()
	if token == nil || token.Type != tp {
		return nil, false
	}
	if walk {
		parser.stepForward()
	}
	return token, true
}

func (parser *Parser) skipNewlines() {
	for parser.currentIs(NewlineTP) {
		parser.stepForward()
	}
}

// consumeOptionalNewline eats the separator after a statement when the
// tokenizer retained one. A statement at the end of input or directly before
// a closing brace has none.
func (parser *Parser) consumeOptionalNewline() {
	if parser.currentIs(NewlineTP) {
		parser.stepForward()
	}
}

// makeError builds a SyntaxError positioned at the current token, or at the
// last token once the stream is exhausted.
func (parser *Parser) makeError(format string, a ...interface{}) *SyntaxError {
	msg := fmt.Sprintf(format, a...)
	if token := parser.getCurrentToken(); token != nil {
		return &SyntaxError{Message: msg, Line: token.Line, Column: token.Column}
	}
	if n := len(parser.currentTokens); n > 0 {
		last := parser.currentTokens[n-1]
		return &SyntaxError{Message: msg, Line: last.Line, Column: last.Column}
	}
	return &SyntaxError{Message: msg}
}

func (parser *Parser) expectError(want string) *SyntaxError {
	if token := parser.getCurrentToken(); token != nil {
		return parser.makeError("expected %s, found %q", want, token.Lexeme)
	}
	return parser.makeError("expected %s, found end of input", want)
}

func tokenPos(token *Token) Position {
	return Position{Line: token.Line, Column: token.Column}
}

func isAssignOp(tp TokenType) bool {
	switch tp {
	case AssignTP, AddAssignTP, SubAssignTP, MulAssignTP, DivAssignTP, ModAssignTP:
		return true
	}
	return false
}

// Programa ::= ( EjercitoDecl | DefMision | DeclaracionGlobal | Sentencia | NL )*
// Bare statements are legal at the top level.
func (parser *Parser) parseProgram() (*Program, error) {
	program := &Program{}
	for parser.hasRemainTokens() {
		token := parser.getCurrentToken()
		var decl Stmt
		var err error
		switch token.Type {
		case NewlineTP:
			parser.stepForward()
			continue
		case EjercitoTP:
			decl, err = parser.parseArmyDecl()
		case MisionTP:
			decl, err = parser.parseMissionDecl()
		case GlobalTP:
			decl, err = parser.parseGlobalDecl()
		default:
			decl, err = parser.parseStatement()
		}
		if err != nil {
			return nil, err
		}
		program.Decls = append(program.Decls, decl)
	}
	return program, nil
}

// EjercitoDecl ::= "ejercito" IDENT "{" ( DefMision | DeclaracionGlobal | Sentencia | NL )* "}"
func (parser *Parser) parseArmyDecl() (Stmt, error) {
	if _, match := parser.expectToken(EjercitoTP, true); !match {
		return nil, parser.expectError("ejercito")
	}
	nameToken, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.expectError("an army name")
	}
	decl := &ArmyDecl{Position: tokenPos(nameToken), Name: nameToken.Lexeme}
	if _, match := parser.expectToken(LeftBraceTP, true); !match {
		return nil, parser.expectError(`"{"`)
	}
	for !parser.currentIs(RightBraceTP) {
		if !parser.hasRemainTokens() {
			return nil, parser.expectError(`"}"`)
		}
		token := parser.getCurrentToken()
		var member Stmt
		var err error
		switch token.Type {
		case NewlineTP:
			parser.stepForward()
			continue
		case MisionTP:
			member, err = parser.parseMissionDecl()
		case GlobalTP:
			member, err = parser.parseGlobalDecl()
		default:
			member, err = parser.parseStatement()
		}
		if err != nil {
			return nil, err
		}
		decl.Body = append(decl.Body, member)
	}
	parser.stepForward()
	return decl, nil
}

// DeclaracionGlobal ::= "global" "var" IDENT ( "=" Expresion )? NL?
func (parser *Parser) parseGlobalDecl() (Stmt, error) {
	if _, match := parser.expectToken(GlobalTP, true); !match {
		return nil, parser.expectError("global")
	}
	if _, match := parser.expectToken(VarTP, true); !match {
		return nil, parser.expectError("var")
	}
	nameToken, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.expectError("a variable name")
	}
	decl := &GlobalDecl{Position: tokenPos(nameToken), Name: nameToken.Lexeme}
	if parser.currentIs(AssignTP) {
		parser.stepForward()
		init, err := parser.parseExpression()
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}
	parser.consumeOptionalNewline()
	return decl, nil
}

// DeclaracionLocal ::= "var" IDENT ( "=" Expresion )? NL?
func (parser *Parser) parseVarDecl() (Stmt, error) {
	if _, match := parser.expectToken(VarTP, true); !match {
		return nil, parser.expectError("var")
	}
	nameToken, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.expectError("a variable name")
	}
	decl := &VarDecl{Position: tokenPos(nameToken), Name: nameToken.Lexeme}
	if parser.currentIs(AssignTP) {
		parser.stepForward()
		init, err := parser.parseExpression()
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}
	parser.consumeOptionalNewline()
	return decl, nil
}

// DefMision ::= "mision" IDENT "(" Parametros? ")"
//               ( "severidad" "=" ( "estricto" | "advertencia" ) )?
//               "{" SeccionRevisar? SeccionEjecutar SeccionConfirmar? "}"
func (parser *Parser) parseMissionDecl() (Stmt, error) {
	if _, match := parser.expectToken(MisionTP, true); !match {
		return nil, parser.expectError("mision")
	}
	nameToken, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.expectError("a mission name")
	}
	decl := &MissionDecl{Position: tokenPos(nameToken), Name: nameToken.Lexeme}
	if _, match := parser.expectToken(LeftParenTP, true); !match {
		return nil, parser.expectError(`"("`)
	}
	if !parser.currentIs(RightParenTP) {
		params, err := parser.parseParams()
		if err != nil {
			return nil, err
		}
		decl.Params = params
	}
	if _, match := parser.expectToken(RightParenTP, true); !match {
		return nil, parser.expectError(`")"`)
	}
	if parser.currentIs(SeveridadTP) {
		parser.stepForward()
		if _, match := parser.expectToken(AssignTP, true); !match {
			return nil, parser.expectError(`"="`)
		}
		switch {
		case parser.currentIs(EstrictoTP):
			decl.Severity = "estricto"
			parser.stepForward()
		case parser.currentIs(AdvertenciaTP):
			decl.Severity = "advertencia"
			parser.stepForward()
		default:
			return nil, parser.makeError("expected estricto or advertencia after severidad =")
		}
	}
	review, execute, confirm, err := parser.parseMissionBody(decl.Name)
	if err != nil {
		return nil, err
	}
	decl.Review, decl.Execute, decl.Confirm = review, execute, confirm
	return decl, nil
}

// Parametros ::= IDENT ( "," IDENT )*
func (parser *Parser) parseParams() ([]string, error) {
	nameToken, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.expectError("a parameter name")
	}
	params := []string{nameToken.Lexeme}
	for parser.currentIs(CommaTP) {
		parser.stepForward()
		nameToken, match := parser.expectToken(IdentifierTP, true)
		if !match {
			return nil, parser.expectError("a parameter name")
		}
		params = append(params, nameToken.Lexeme)
	}
	return params, nil
}

// The three sections come in a fixed order. Only ejecutar is required.
func (parser *Parser) parseMissionBody(missionName string) (review, execute, confirm *Section, err error) {
	if _, match := parser.expectToken(LeftBraceTP, true); !match {
		return nil, nil, nil, parser.expectError(`"{"`)
	}
	parser.skipNewlines()
	if parser.currentIs(RevisarTP) {
		review, err = parser.parseConditionSection(RevisarTP, EjecutarTP)
		if err != nil {
			return
		}
	}
	parser.skipNewlines()
	if !parser.hasRemainTokens() {
		err = parser.expectError("ejecutar")
		return
	}
	if !parser.currentIs(EjecutarTP) {
		err = parser.makeError("mission %s has no ejecutar section", missionName)
		return
	}
	execute, err = parser.parseExecuteSection()
	if err != nil {
		return
	}
	parser.skipNewlines()
	if parser.currentIs(ConfirmarTP) {
		confirm, err = parser.parseConditionSection(ConfirmarTP)
		if err != nil {
			return
		}
	}
	parser.skipNewlines()
	if _, match := parser.expectToken(RightBraceTP, true); !match {
		err = parser.expectError(`"}"`)
	}
	return
}

// SeccionRevisar / SeccionConfirmar ::= KEYWORD ":" NL? ( Expresion NL? | NL )*
// The section runs until one of the terminator keywords or the closing brace
// of the mission body.
func (parser *Parser) parseConditionSection(kw TokenType, terminators ...TokenType) (*Section, error) {
	kwToken, match := parser.expectToken(kw, true)
	if !match {
		return nil, parser.expectError(kw.String())
	}
	if _, match := parser.expectToken(ColonTP, true); !match {
		return nil, parser.expectError(`":"`)
	}
	parser.consumeOptionalNewline()
	section := &Section{Position: tokenPos(kwToken), Keyword: kwToken.Lexeme}
	for {
		if !parser.hasRemainTokens() {
			return nil, parser.expectError(fmt.Sprintf("a condition in the %s section", section.Keyword))
		}
		if parser.currentIs(NewlineTP) {
			parser.stepForward()
			continue
		}
		if parser.currentIs(RightBraceTP) || parser.currentIsOneOf(terminators...) {
			break
		}
		cond, err := parser.parseExpression()
		if err != nil {
			return nil, err
		}
		section.Conds = append(section.Conds, cond)
		parser.consumeOptionalNewline()
	}
	return section, nil
}

// SeccionEjecutar ::= "ejecutar" ":" NL? ( Sentencia | NL )*
func (parser *Parser) parseExecuteSection() (*Section, error) {
	kwToken, match := parser.expectToken(EjecutarTP, true)
	if !match {
		return nil, parser.expectError("ejecutar")
	}
	if _, match := parser.expectToken(ColonTP, true); !match {
		return nil, parser.expectError(`":"`)
	}
	parser.consumeOptionalNewline()
	section := &Section{Position: tokenPos(kwToken), Keyword: kwToken.Lexeme}
	for {
		if !parser.hasRemainTokens() {
			return nil, parser.expectError("a statement in the ejecutar section")
		}
		if parser.currentIs(NewlineTP) {
			parser.stepForward()
			continue
		}
		if parser.currentIs(ConfirmarTP) || parser.currentIs(RightBraceTP) {
			break
		}
		stmt, err := parser.parseStatement()
		if err != nil {
			return nil, err
		}
		section.Stmts = append(section.Stmts, stmt)
	}
	return section, nil
}

// Sentencia ::= DeclaracionLocal | BucleAtacar | Retirada | SentEstrategia
//             | "abortar" NL? | "avanzar" NL? | Asignacion NL? | Llamada NL?
func (parser *Parser) parseStatement() (Stmt, error) {
	token := parser.getCurrentToken()
	if token == nil {
		return nil, parser.makeError("expected a statement, found end of input")
	}
	switch token.Type {
	case VarTP:
		return parser.parseVarDecl()
	case AtacarTP:
		return parser.parseAttackLoop()
	case RetiradaTP:
		return parser.parseWithdraw()
	case EstrategiaTP:
		return parser.parseStrategy()
	case AbortarTP:
		parser.stepForward()
		parser.consumeOptionalNewline()
		return &AbortStmt{Position: tokenPos(token)}, nil
	case AvanzarTP:
		parser.stepForward()
		parser.consumeOptionalNewline()
		return &AdvanceStmt{Position: tokenPos(token)}, nil
	case IdentifierTP:
		return parser.parseAssignOrCall()
	}
	return nil, parser.makeError("unrecognized statement starting at %q", token.Lexeme)
}

// Retirada ::= "retirada" ( "con" Expresion )? NL?
func (parser *Parser) parseWithdraw() (Stmt, error) {
	kwToken, match := parser.expectToken(RetiradaTP, true)
	if !match {
		return nil, parser.expectError("retirada")
	}
	stmt := &WithdrawStmt{Position: tokenPos(kwToken)}
	if parser.currentIs(ConTP) {
		parser.stepForward()
		value, err := parser.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Value = value
	}
	parser.consumeOptionalNewline()
	return stmt, nil
}

// BucleAtacar ::= "atacar" "mientras" "(" Expresion ")" ComandoSimple
func (parser *Parser) parseAttackLoop() (Stmt, error) {
	kwToken, match := parser.expectToken(AtacarTP, true)
	if !match {
		return nil, parser.expectError("atacar")
	}
	if _, match := parser.expectToken(MientrasTP, true); !match {
		return nil, parser.expectError("mientras")
	}
	if _, match := parser.expectToken(LeftParenTP, true); !match {
		return nil, parser.expectError(`"("`)
	}
	cond, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, match := parser.expectToken(RightParenTP, true); !match {
		return nil, parser.expectError(`")"`)
	}
	body, err := parser.parseCommand()
	if err != nil {
		return nil, err
	}
	return &AttackLoop{Position: tokenPos(kwToken), Cond: cond, Body: body}, nil
}

// SentEstrategia ::= "estrategia" ( "si" "(" Expresion ")" ComandoSimple )*
//                    ( "por" "defecto" ComandoSimple )?
// The arms must follow each other directly; a retained newline between them
// ends the statement.
func (parser *Parser) parseStrategy() (Stmt, error) {
	kwToken, match := parser.expectToken(EstrategiaTP, true)
	if !match {
		return nil, parser.expectError("estrategia")
	}
	stmt := &StrategyStmt{Position: tokenPos(kwToken)}
	for parser.currentIs(SiTP) {
		branchToken := parser.getCurrentToken()
		parser.stepForward()
		if _, match := parser.expectToken(LeftParenTP, true); !match {
			return nil, parser.expectError(`"("`)
		}
		cond, err := parser.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, match := parser.expectToken(RightParenTP, true); !match {
			return nil, parser.expectError(`")"`)
		}
		body, err := parser.parseCommand()
		if err != nil {
			return nil, err
		}
		stmt.Branches = append(stmt.Branches, &StrategyBranch{Position: tokenPos(branchToken), Cond: cond, Body: body})
	}
	if parser.currentIs(PorTP) {
		parser.stepForward()
		if _, match := parser.expectToken(DefectoTP, true); !match {
			return nil, parser.expectError("defecto")
		}
		body, err := parser.parseCommand()
		if err != nil {
			return nil, err
		}
		stmt.Default = body
	}
	return stmt, nil
}

// ComandoSimple ::= Bloque | Sentencia
// A single statement is normalized into a one-statement block.
func (parser *Parser) parseCommand() (*Block, error) {
	if parser.currentIs(LeftBraceTP) {
		return parser.parseBlock()
	}
	stmt, err := parser.parseStatement()
	if err != nil {
		return nil, err
	}
	return &Block{Position: stmt.Pos(), Stmts: []Stmt{stmt}}, nil
}

// Bloque ::= "{" ( Sentencia | NL )* "}"
func (parser *Parser) parseBlock() (*Block, error) {
	braceToken, match := parser.expectToken(LeftBraceTP, true)
	if !match {
		return nil, parser.expectError(`"{"`)
	}
	block := &Block{Position: tokenPos(braceToken)}
	for !parser.currentIs(RightBraceTP) {
		if !parser.hasRemainTokens() {
			return nil, parser.expectError(`"}"`)
		}
		if parser.currentIs(NewlineTP) {
			parser.stepForward()
			continue
		}
		stmt, err := parser.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	parser.stepForward()
	return block, nil
}

// A statement beginning with an identifier is an assignment or a call. The
// reference is parsed first; an assignment operator decides. For a call the
// position is rewound so the whole thing reparses as one call expression.
// A qualified name followed by "(" lands on neither branch and is an error,
// so army missions cannot be called in statement position.
func (parser *Parser) parseAssignOrCall() (Stmt, error) {
	savedPos := parser.currentTokenPos
	ref, err := parser.parseReference()
	if err != nil {
		return nil, err
	}
	if token := parser.getCurrentToken(); token != nil && isAssignOp(token.Type) {
		parser.stepForward()
		value, err := parser.parseExpression()
		if err != nil {
			return nil, err
		}
		parser.consumeOptionalNewline()
		return &AssignStmt{Position: tokenPos(token), Target: ref, Op: token.Lexeme, Value: value}, nil
	}
	if parser.currentIs(LeftParenTP) {
		parser.currentTokenPos = savedPos
		call, err := parser.parseCall()
		if err != nil {
			return nil, err
		}
		parser.consumeOptionalNewline()
		return &CallStmt{Position: call.Position, Call: call}, nil
	}
	return nil, parser.makeError("invalid statement beginning with %q", ref.String())
}

// Referencia ::= IDENT ( "." IDENT )*
// The walk stops before a member that is immediately called, leaving the
// member name for the call parser.
func (parser *Parser) parseReference() (*Reference, error) {
	nameToken, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.expectError("an identifier")
	}
	ref := &Reference{Position: tokenPos(nameToken), Names: []string{nameToken.Lexeme}}
	for parser.currentIs(DotTP) {
		parser.stepForward()
		if !parser.currentIs(IdentifierTP) {
			return nil, parser.makeError("expected an identifier after '.'")
		}
		if next := parser.lookAhead(1); next != nil && next.Type == LeftParenTP {
			break
		}
		memberToken, _ := parser.expectToken(IdentifierTP, true)
		ref.Names = append(ref.Names, memberToken.Lexeme)
	}
	return ref, nil
}
