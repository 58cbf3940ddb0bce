package token

type TokenType string

// Token is a single lexical token. Lexeme is always the exact source slice
// (including quotes for strings), so Offset+len(Lexeme) is the scan position
// right after the token.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int
	Offset  int
}

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	IDENT    TokenType = "IDENT"
	NUMBER   TokenType = "NUMBER"
	STRING   TokenType = "STRING"
	TEMPLATE TokenType = "TEMPLATE"
	JSX_TEXT TokenType = "JSX_TEXT"

	// Keywords
	VAR      TokenType = "VAR"
	LET      TokenType = "LET"
	CONST    TokenType = "CONST"
	FUNCTION TokenType = "FUNCTION"
	RETURN   TokenType = "RETURN"
	IF       TokenType = "IF"
	ELSE     TokenType = "ELSE"
	CLASS    TokenType = "CLASS"
	NEW      TokenType = "NEW"
	IMPORT   TokenType = "IMPORT"
	EXPORT   TokenType = "EXPORT"
	FROM     TokenType = "FROM"
	AS       TokenType = "AS"
	DEFAULT  TokenType = "DEFAULT"
	TRUE     TokenType = "TRUE"
	FALSE    TokenType = "FALSE"
	NULL     TokenType = "NULL"
	TYPEOF   TokenType = "TYPEOF"

	// Operators
	ASSIGN         TokenType = "="
	PLUS_ASSIGN    TokenType = "+="
	MINUS_ASSIGN   TokenType = "-="
	STAR_ASSIGN    TokenType = "*="
	SLASH_ASSIGN   TokenType = "/="
	EQ             TokenType = "=="
	STRICT_EQ      TokenType = "==="
	NOT_EQ         TokenType = "!="
	STRICT_NOT_EQ  TokenType = "!=="
	PLUS           TokenType = "+"
	MINUS          TokenType = "-"
	STAR           TokenType = "*"
	SLASH          TokenType = "/"
	PERCENT        TokenType = "%"
	BANG           TokenType = "!"
	LT             TokenType = "<"
	GT             TokenType = ">"
	LT_EQ          TokenType = "<="
	GT_EQ          TokenType = ">="
	AND            TokenType = "&&"
	OR             TokenType = "||"
	NULLISH        TokenType = "??"
	ARROW          TokenType = "=>"
	INC            TokenType = "++"
	DEC            TokenType = "--"
	QUESTION       TokenType = "?"
	OPTIONAL_CHAIN TokenType = "?."

	// Delimiters
	DOT       TokenType = "."
	ELLIPSIS  TokenType = "..."
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"
)

var keywords = map[string]TokenType{
	"var":      VAR,
	"let":      LET,
	"const":    CONST,
	"function": FUNCTION,
	"return":   RETURN,
	"if":       IF,
	"else":     ELSE,
	"class":    CLASS,
	"new":      NEW,
	"import":   IMPORT,
	"export":   EXPORT,
	"from":     FROM,
	"as":       AS,
	"default":  DEFAULT,
	"true":     TRUE,
	"false":    FALSE,
	"null":     NULL,
	"typeof":   TYPEOF,
}

// LookupIdent returns the keyword type for an identifier lexeme, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
