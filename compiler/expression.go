package compiler

import "strconv"

// Expression grammar, lowest precedence first. Every binary level is
// left-associative and the operator token gives the node its position.
//
//   ExpOr    ::= ExpAnd ( "||" ExpAnd )*
//   ExpAnd   ::= ExpIgualdad ( "&&" ExpIgualdad )*
//   ExpIgualdad ::= ExpRelacional ( ( "==" | "!=" ) ExpRelacional )*
//   ExpRelacional ::= ExpAditiva ( ( "<" | "<=" | ">" | ">=" ) ExpAditiva )*
//   ExpAditiva ::= ExpMultiplicativa ( ( "+" | "-" ) ExpMultiplicativa )*
//   ExpMultiplicativa ::= ExpUnaria ( ( "*" | "/" | "%" ) ExpUnaria )*
//   ExpUnaria ::= ( "-" | "!" ) ExpPostfijo | ExpPostfijo
//   ExpPostfijo ::= Primario ( "." IDENT "(" Argumentos? ")" | "." IDENT | "[" Expresion "]" )*
func (parser *Parser) parseExpression() (Expr, error) {
	return parser.parseOr()
}

func (parser *Parser) parseOr() (Expr, error) {
	left, err := parser.parseAnd()
	if err != nil {
		return nil, err
	}
	for parser.currentIs(OrTP) {
		opToken := parser.getCurrentToken()
		parser.stepForward()
		right, err := parser.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Position: tokenPos(opToken), Op: opToken.Lexeme, Left: left, Right: right}
	}
	return left, nil
}

func (parser *Parser) parseAnd() (Expr, error) {
	left, err := parser.parseEquality()
	if err != nil {
		return nil, err
	}
	for parser.currentIs(AndTP) {
		opToken := parser.getCurrentToken()
		parser.stepForward()
		right, err := parser.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Position: tokenPos(opToken), Op: opToken.Lexeme, Left: left, Right: right}
	}
	return left, nil
}

func (parser *Parser) parseEquality() (Expr, error) {
	left, err := parser.parseRelational()
	if err != nil {
		return nil, err
	}
	for parser.currentIsOneOf(EqualTP, NotEqualTP) {
		opToken := parser.getCurrentToken()
		parser.stepForward()
		right, err := parser.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Position: tokenPos(opToken), Op: opToken.Lexeme, Left: left, Right: right}
	}
	return left, nil
}

func (parser *Parser) parseRelational() (Expr, error) {
	left, err := parser.parseAdditive()
	if err != nil {
		return nil, err
	}
	for parser.currentIsOneOf(LessTP, LessEqualTP, GreaterTP, GreaterEqualTP) {
		opToken := parser.getCurrentToken()
		parser.stepForward()
		right, err := parser.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Position: tokenPos(opToken), Op: opToken.Lexeme, Left: left, Right: right}
	}
	return left, nil
}

func (parser *Parser) parseAdditive() (Expr, error) {
	left, err := parser.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for parser.currentIsOneOf(AddTP, MinusTP) {
		opToken := parser.getCurrentToken()
		parser.stepForward()
		right, err := parser.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Position: tokenPos(opToken), Op: opToken.Lexeme, Left: left, Right: right}
	}
	return left, nil
}

func (parser *Parser) parseMultiplicative() (Expr, error) {
	left, err := parser.parseUnary()
	if err != nil {
		return nil, err
	}
	for parser.currentIsOneOf(MultiplyTP, DivideTP, ModTP) {
		opToken := parser.getCurrentToken()
		parser.stepForward()
		right, err := parser.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Position: tokenPos(opToken), Op: opToken.Lexeme, Left: left, Right: right}
	}
	return left, nil
}

// A single prefix operator at most. "--x" does not parse.
func (parser *Parser) parseUnary() (Expr, error) {
	if parser.currentIsOneOf(MinusTP, NotTP) {
		opToken := parser.getCurrentToken()
		parser.stepForward()
		operand, err := parser.parsePostfix()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Position: tokenPos(opToken), Op: opToken.Lexeme, Operand: operand}, nil
	}
	return parser.parsePostfix()
}

// Postfix member access, member calls and indexing chain left to right on
// top of a primary expression.
func (parser *Parser) parsePostfix() (Expr, error) {
	expr, err := parser.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case parser.currentIs(DotTP):
			parser.stepForward()
			if !parser.currentIs(IdentifierTP) {
				return nil, parser.makeError("expected an identifier after '.'")
			}
			if next := parser.lookAhead(1); next != nil && next.Type == LeftParenTP {
				call, err := parser.parseCall()
				if err != nil {
					return nil, err
				}
				expr = &MethodCallExpr{Position: call.Position, Object: expr, Callee: call.Callee, Args: call.Args}
				continue
			}
			memberToken, _ := parser.expectToken(IdentifierTP, true)
			expr = &MemberExpr{Position: tokenPos(memberToken), Object: expr, Member: memberToken.Lexeme}
		case parser.currentIs(LeftBracketTP):
			bracketToken := parser.getCurrentToken()
			parser.stepForward()
			index, err := parser.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, match := parser.expectToken(RightBracketTP, true); !match {
				return nil, parser.expectError(`"]"`)
			}
			expr = &IndexExpr{Position: tokenPos(bracketToken), Object: expr, Index: index}
		default:
			return expr, nil
		}
	}
}

// Primario ::= FLOAT | INTEGER | STRING | BOOLEAN | "nulo"
//            | "(" Expresion ")" | Llamada | IDENT
// A parenthesized expression returns the inner node unchanged.
func (parser *Parser) parsePrimary() (Expr, error) {
	token := parser.getCurrentToken()
	if token == nil {
		return nil, parser.makeError("expected an expression, found end of input")
	}
	switch token.Type {
	case FloatTP:
		value, err := strconv.ParseFloat(token.Lexeme, 64)
		if err != nil {
			return nil, parser.makeError("invalid float literal %q", token.Lexeme)
		}
		parser.stepForward()
		return &FloatLit{Position: tokenPos(token), Value: value, Text: token.Lexeme}, nil
	case IntegerTP:
		value, err := strconv.ParseInt(token.Lexeme, 10, 64)
		if err != nil {
			return nil, parser.makeError("invalid integer literal %q", token.Lexeme)
		}
		parser.stepForward()
		return &IntegerLit{Position: tokenPos(token), Value: value, Text: token.Lexeme}, nil
	case StringTP:
		parser.stepForward()
		return &StringLit{Position: tokenPos(token), Value: token.Value}, nil
	case BooleanTP:
		parser.stepForward()
		return &BooleanLit{Position: tokenPos(token), Value: token.Lexeme == "afirmativo"}, nil
	case NullTP:
		parser.stepForward()
		return &NullLit{Position: tokenPos(token)}, nil
	case LeftParenTP:
		parser.stepForward()
		expr, err := parser.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, match := parser.expectToken(RightParenTP, true); !match {
			return nil, parser.expectError(`")"`)
		}
		return expr, nil
	case IdentifierTP:
		if next := parser.lookAhead(1); next != nil && next.Type == LeftParenTP {
			return parser.parseCall()
		}
		parser.stepForward()
		return &Identifier{Position: tokenPos(token), Name: token.Lexeme}, nil
	}
	return nil, parser.makeError("unrecognized primary expression %q", token.Lexeme)
}

// Llamada ::= IDENT "(" Argumentos? ")"
func (parser *Parser) parseCall() (*CallExpr, error) {
	nameToken, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.expectError("a mission name")
	}
	call := &CallExpr{Position: tokenPos(nameToken), Callee: nameToken.Lexeme}
	if _, match := parser.expectToken(LeftParenTP, true); !match {
		return nil, parser.expectError(`"("`)
	}
	if !parser.currentIs(RightParenTP) {
		args, err := parser.parseArguments()
		if err != nil {
			return nil, err
		}
		call.Args = args
	}
	if _, match := parser.expectToken(RightParenTP, true); !match {
		return nil, parser.expectError(`")"`)
	}
	return call, nil
}

// Argumentos ::= Expresion ( "," Expresion )*
func (parser *Parser) parseArguments() ([]Expr, error) {
	first, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	args := []Expr{first}
	for parser.currentIs(CommaTP) {
		parser.stepForward()
		next, err := parser.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, next)
	}
	return args, nil
}
