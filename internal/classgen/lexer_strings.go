package classgen

// readString reads a double-quoted string with escape sequences.
// The token literal is the decoded value; Token.Source keeps the quoted text.
func (l *Lexer) readString() Token {
	l.readChar() // consume opening "

	var result []rune
	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\n' {
			l.errors.AddError(l.position(), "unterminated string literal")
			return l.makeToken(TokenError, string(result))
		}
		if l.ch == '\\' {
			l.readChar() // consume backslash
			switch l.ch {
			case 'n':
				result = append(result, '\n')
			case 't':
				result = append(result, '\t')
			case 'r':
				result = append(result, '\r')
			case '\\':
				result = append(result, '\\')
			case '"':
				result = append(result, '"')
			case '0':
				result = append(result, '\000')
			default:
				// Keep the backslash and character as-is
				result = append(result, '\\', l.ch)
			}
		} else {
			result = append(result, l.ch)
		}
		l.readChar()
	}

	if l.ch == 0 {
		l.errors.AddError(l.position(), "unterminated string literal")
		return l.makeToken(TokenError, string(result))
	}

	l.readChar() // consume closing "
	return l.makeToken(TokenString, string(result))
}

// readRune reads a single-quoted rune literal. Runes only appear inside
// conditions, so the literal is the source text and go/parser decodes it.
func (l *Lexer) readRune() Token {
	start := l.pos
	l.readChar() // consume opening '

	for l.ch != '\'' {
		if l.ch == 0 || l.ch == '\n' {
			l.errors.AddError(l.position(), "unterminated rune literal")
			return l.makeToken(TokenError, l.source[start:l.pos])
		}
		if l.ch == '\\' {
			l.readChar()
		}
		l.readChar()
	}

	l.readChar() // consume closing '
	return l.makeToken(TokenRune, l.source[start:l.pos])
}

// readRawString reads a backtick-quoted raw string.
func (l *Lexer) readRawString() Token {
	l.readChar() // consume opening `

	startPos := l.pos
	for l.ch != '`' && l.ch != 0 {
		l.readChar()
	}

	if l.ch == 0 {
		l.errors.AddError(l.position(), "unterminated raw string literal")
		return l.makeToken(TokenError, l.source[startPos:l.pos])
	}

	literal := l.source[startPos:l.pos]
	l.readChar() // consume closing `
	return l.makeToken(TokenRawString, literal)
}

// readNumber reads an integer or float literal.
func (l *Lexer) readNumber() Token {
	startPos := l.pos
	isFloat := false

	if l.ch == '.' {
		isFloat = true
		l.readChar()
	}

	// Hex, octal and binary prefixes and digit separators are consumed as
	// part of the literal; go/parser validates the result.
	for isDigit(l.ch) || isLetter(l.ch) {
		if (l.ch == 'e' || l.ch == 'E') && !isHexLiteral(l.source[startPos:l.pos]) {
			break
		}
		l.readChar()
	}

	if l.ch == '.' && !isFloat && l.peekChar() != '.' {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		isFloat = true
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	literal := l.source[startPos:l.pos]
	if isFloat {
		return l.makeToken(TokenFloat, literal)
	}
	return l.makeToken(TokenInt, literal)
}

func isHexLiteral(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
