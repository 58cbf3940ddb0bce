package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/statewire/statewire/internal/token"
)

// Lexer scans a JavaScript/JSX source string. The parser drives it lazily so
// it can switch into JSX text mode mid-stream and rewind one token of
// lookahead when entering element children.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number

	jsxText bool // one-shot: the next token is raw JSX text
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// SetJSXTextMode arms raw-text scanning for the next NextToken call. The
// mode clears itself: the parser re-arms it per child.
func (l *Lexer) SetJSXTextMode() {
	l.jsxText = true
}

// RewindAfter moves the scan position to just past tok, discarding anything
// lexed beyond it. The parser uses this when it switches into JSX text mode
// and one token of lookahead was already scanned in normal mode.
func (l *Lexer) RewindAfter(tok token.Token) {
	pos := tok.Offset + len(tok.Lexeme)
	line, col := tok.Line, tok.Column
	for _, r := range tok.Lexeme {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	l.position = pos
	l.readPosition = pos
	l.ch = 0
	l.line = line
	l.column = col - 1
	l.readChar()
}

func (l *Lexer) NextToken() token.Token {
	if l.jsxText {
		l.jsxText = false
		if tok, ok := l.readJSXText(); ok {
			return tok
		}
	}

	l.skipWhitespaceAndComments()

	startLine, startCol, start := l.line, l.column, l.position

	mk := func(t token.TokenType, lexeme string) token.Token {
		return token.Token{Type: t, Lexeme: lexeme, Literal: lexeme, Line: startLine, Column: startCol, Offset: start}
	}

	var tok token.Token
	switch l.ch {
	case 0:
		tok = token.Token{Type: token.EOF, Lexeme: "", Line: startLine, Column: startCol, Offset: start}
		return tok
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			if l.peekChar() == '=' {
				l.readChar()
				tok = mk(token.STRICT_EQ, "===")
			} else {
				tok = mk(token.EQ, "==")
			}
		} else if l.peekChar() == '>' {
			l.readChar()
			tok = mk(token.ARROW, "=>")
		} else {
			tok = mk(token.ASSIGN, "=")
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			if l.peekChar() == '=' {
				l.readChar()
				tok = mk(token.STRICT_NOT_EQ, "!==")
			} else {
				tok = mk(token.NOT_EQ, "!=")
			}
		} else {
			tok = mk(token.BANG, "!")
		}
	case '+':
		if l.peekChar() == '+' {
			l.readChar()
			tok = mk(token.INC, "++")
		} else if l.peekChar() == '=' {
			l.readChar()
			tok = mk(token.PLUS_ASSIGN, "+=")
		} else {
			tok = mk(token.PLUS, "+")
		}
	case '-':
		if l.peekChar() == '-' {
			l.readChar()
			tok = mk(token.DEC, "--")
		} else if l.peekChar() == '=' {
			l.readChar()
			tok = mk(token.MINUS_ASSIGN, "-=")
		} else {
			tok = mk(token.MINUS, "-")
		}
	case '*':
		if l.peekChar() == '=' {
			l.readChar()
			tok = mk(token.STAR_ASSIGN, "*=")
		} else {
			tok = mk(token.STAR, "*")
		}
	case '/':
		if l.peekChar() == '=' {
			l.readChar()
			tok = mk(token.SLASH_ASSIGN, "/=")
		} else {
			tok = mk(token.SLASH, "/")
		}
	case '%':
		tok = mk(token.PERCENT, "%")
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = mk(token.LT_EQ, "<=")
		} else {
			tok = mk(token.LT, "<")
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = mk(token.GT_EQ, ">=")
		} else {
			tok = mk(token.GT, ">")
		}
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			tok = mk(token.AND, "&&")
		} else {
			tok = mk(token.ILLEGAL, "&")
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = mk(token.OR, "||")
		} else {
			tok = mk(token.ILLEGAL, "|")
		}
	case '?':
		if l.peekChar() == '?' {
			l.readChar()
			tok = mk(token.NULLISH, "??")
		} else if l.peekChar() == '.' {
			l.readChar()
			tok = mk(token.OPTIONAL_CHAIN, "?.")
		} else {
			tok = mk(token.QUESTION, "?")
		}
	case '.':
		if l.peekChar() == '.' {
			l.readChar()
			if l.peekChar() == '.' {
				l.readChar()
				tok = mk(token.ELLIPSIS, "...")
			} else {
				tok = mk(token.ILLEGAL, "..")
			}
		} else {
			tok = mk(token.DOT, ".")
		}
	case ',':
		tok = mk(token.COMMA, ",")
	case ';':
		tok = mk(token.SEMICOLON, ";")
	case ':':
		tok = mk(token.COLON, ":")
	case '(':
		tok = mk(token.LPAREN, "(")
	case ')':
		tok = mk(token.RPAREN, ")")
	case '{':
		tok = mk(token.LBRACE, "{")
	case '}':
		tok = mk(token.RBRACE, "}")
	case '[':
		tok = mk(token.LBRACKET, "[")
	case ']':
		tok = mk(token.RBRACKET, "]")
	case '"', '\'':
		return l.readString(l.ch, startLine, startCol, start)
	case '`':
		return l.readTemplate(startLine, startCol, start)
	default:
		if isIdentStart(l.ch) {
			return l.readIdentifier(startLine, startCol, start)
		}
		if unicode.IsDigit(l.ch) {
			return l.readNumber(startLine, startCol, start)
		}
		tok = mk(token.ILLEGAL, string(l.ch))
	}

	l.readChar()
	return tok
}

// readJSXText scans raw text up to the next '<', '{' or EOF. Whitespace-only
// runs are skipped so normal lexing resumes on the delimiter.
func (l *Lexer) readJSXText() (token.Token, bool) {
	startLine, startCol, start := l.line, l.column, l.position
	for l.ch != '<' && l.ch != '{' && l.ch != 0 {
		l.readChar()
	}
	text := l.input[start:l.position]
	if strings.TrimSpace(text) == "" {
		return token.Token{}, false
	}
	return token.Token{
		Type:    token.JSX_TEXT,
		Lexeme:  text,
		Literal: text,
		Line:    startLine,
		Column:  startCol,
		Offset:  start,
	}, true
}

func (l *Lexer) readIdentifier(line, col, start int) token.Token {
	for isIdentPart(l.ch) {
		l.readChar()
	}
	lexeme := l.input[start:l.position]
	return token.Token{
		Type:    token.LookupIdent(lexeme),
		Lexeme:  lexeme,
		Literal: lexeme,
		Line:    line,
		Column:  col,
		Offset:  start,
	}
}

func (l *Lexer) readNumber(line, col, start int) token.Token {
	for unicode.IsDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && unicode.IsDigit(l.peekChar()) {
		l.readChar()
		for unicode.IsDigit(l.ch) {
			l.readChar()
		}
	}
	lexeme := l.input[start:l.position]
	value, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Line: line, Column: col, Offset: start}
	}
	return token.Token{
		Type:    token.NUMBER,
		Lexeme:  lexeme,
		Literal: value,
		Line:    line,
		Column:  col,
		Offset:  start,
	}
}

func (l *Lexer) readString(quote rune, line, col, start int) token.Token {
	var sb strings.Builder
	l.readChar() // consume opening quote
	for l.ch != quote {
		if l.ch == 0 || l.ch == '\n' {
			return token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:l.position], Line: line, Column: col, Offset: start}
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			default:
				sb.WriteRune(l.ch)
			}
			l.readChar()
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	l.readChar() // consume closing quote
	return token.Token{
		Type:    token.STRING,
		Lexeme:  l.input[start:l.position],
		Literal: sb.String(),
		Line:    line,
		Column:  col,
		Offset:  start,
	}
}

// readTemplate scans a template literal as one opaque token. Interpolations
// are not tokenized; the transform treats templates as non-literal values.
func (l *Lexer) readTemplate(line, col, start int) token.Token {
	l.readChar() // consume opening backtick
	for l.ch != '`' {
		if l.ch == 0 {
			return token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:l.position], Line: line, Column: col, Offset: start}
		}
		if l.ch == '\\' {
			l.readChar()
		}
		l.readChar()
	}
	l.readChar() // consume closing backtick
	lexeme := l.input[start:l.position]
	return token.Token{
		Type:    token.TEMPLATE,
		Lexeme:  lexeme,
		Literal: lexeme,
		Line:    line,
		Column:  col,
		Offset:  start,
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		if l.ch == '/' && l.peekChar() == '*' {
			l.readChar()
			l.readChar()
			for !(l.ch == '*' && l.peekChar() == '/') && l.ch != 0 {
				l.readChar()
			}
			if l.ch != 0 {
				l.readChar()
				l.readChar()
			}
			continue
		}
		return
	}
}

func isIdentStart(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_' || ch == '$'
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || unicode.IsDigit(ch)
}
