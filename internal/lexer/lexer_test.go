package lexer

import (
	"testing"

	"github.com/statewire/statewire/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `const _$_count = 0;
let name = "hi";
x === y !== z;
a => a + 1;
obj?.prop;
[...rest];
count++;
n += 2;`

	expected := []struct {
		tokType token.TokenType
		lexeme  string
	}{
		{token.CONST, "const"},
		{token.IDENT, "_$_count"},
		{token.ASSIGN, "="},
		{token.NUMBER, "0"},
		{token.SEMICOLON, ";"},
		{token.LET, "let"},
		{token.IDENT, "name"},
		{token.ASSIGN, "="},
		{token.STRING, `"hi"`},
		{token.SEMICOLON, ";"},
		{token.IDENT, "x"},
		{token.STRICT_EQ, "==="},
		{token.IDENT, "y"},
		{token.STRICT_NOT_EQ, "!=="},
		{token.IDENT, "z"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "a"},
		{token.ARROW, "=>"},
		{token.IDENT, "a"},
		{token.PLUS, "+"},
		{token.NUMBER, "1"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "obj"},
		{token.OPTIONAL_CHAIN, "?."},
		{token.IDENT, "prop"},
		{token.SEMICOLON, ";"},
		{token.LBRACKET, "["},
		{token.ELLIPSIS, "..."},
		{token.IDENT, "rest"},
		{token.RBRACKET, "]"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "count"},
		{token.INC, "++"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "n"},
		{token.PLUS_ASSIGN, "+="},
		{token.NUMBER, "2"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want.tokType {
			t.Fatalf("token %d: type = %s, want %s (lexeme %q)", i, tok.Type, want.tokType, tok.Lexeme)
		}
		if tok.Lexeme != want.lexeme {
			t.Fatalf("token %d: lexeme = %q, want %q", i, tok.Lexeme, want.lexeme)
		}
	}
}

func TestKeywords(t *testing.T) {
	input := `function return if else class new import export from as true false null typeof`
	expected := []token.TokenType{
		token.FUNCTION, token.RETURN, token.IF, token.ELSE, token.CLASS,
		token.NEW, token.IMPORT, token.EXPORT, token.FROM, token.AS,
		token.TRUE, token.FALSE, token.NULL, token.TYPEOF, token.EOF,
	}

	l := New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("token %d: type = %s, want %s", i, tok.Type, want)
		}
	}
}

func TestStringLiterals(t *testing.T) {
	tests := []struct {
		input   string
		literal string
		lexeme  string
	}{
		{`"hello"`, "hello", `"hello"`},
		{`'single'`, "single", `'single'`},
		{`"tab\there"`, "tab\there", `"tab\there"`},
		{`"line\nbreak"`, "line\nbreak", `"line\nbreak"`},
		{`"esc\"quote"`, `esc"quote`, `"esc\"quote"`},
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != token.STRING {
			t.Errorf("%s: type = %s, want STRING", tt.input, tok.Type)
			continue
		}
		if got, _ := tok.Literal.(string); got != tt.literal {
			t.Errorf("%s: literal = %q, want %q", tt.input, got, tt.literal)
		}
		if tok.Lexeme != tt.lexeme {
			t.Errorf("%s: lexeme = %q, want %q", tt.input, tok.Lexeme, tt.lexeme)
		}
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"no end`)
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("type = %s, want ILLEGAL", tok.Type)
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		value float64
	}{
		{"0", 0},
		{"42", 42},
		{"3.14", 3.14},
	}
	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != token.NUMBER {
			t.Fatalf("%s: type = %s, want NUMBER", tt.input, tok.Type)
		}
		if got, _ := tok.Literal.(float64); got != tt.value {
			t.Errorf("%s: literal = %v, want %v", tt.input, got, tt.value)
		}
	}
}

func TestTemplateLiteralIsOpaque(t *testing.T) {
	input := "`hello ${name}`"
	l := New(input)
	tok := l.NextToken()
	if tok.Type != token.TEMPLATE {
		t.Fatalf("type = %s, want TEMPLATE", tok.Type)
	}
	if tok.Lexeme != input {
		t.Errorf("lexeme = %q, want %q", tok.Lexeme, input)
	}
}

func TestComments(t *testing.T) {
	input := `a // line comment
/* block
   comment */ b`
	l := New(input)
	if tok := l.NextToken(); tok.Lexeme != "a" {
		t.Fatalf("first token = %q, want a", tok.Lexeme)
	}
	if tok := l.NextToken(); tok.Lexeme != "b" {
		t.Fatalf("second token = %q, want b", tok.Lexeme)
	}
}

func TestJSXTextMode(t *testing.T) {
	l := New("Click me!{expr}")
	l.SetJSXTextMode()
	tok := l.NextToken()
	if tok.Type != token.JSX_TEXT {
		t.Fatalf("type = %s, want JSX_TEXT", tok.Type)
	}
	if got, _ := tok.Literal.(string); got != "Click me!" {
		t.Errorf("literal = %q, want %q", got, "Click me!")
	}
	// The mode is one-shot: normal lexing resumes on the delimiter.
	if tok := l.NextToken(); tok.Type != token.LBRACE {
		t.Fatalf("after text: type = %s, want LBRACE", tok.Type)
	}
}

func TestJSXTextModeSkipsWhitespaceOnly(t *testing.T) {
	l := New("   \n  <span>")
	l.SetJSXTextMode()
	tok := l.NextToken()
	if tok.Type != token.LT {
		t.Fatalf("type = %s, want LT", tok.Type)
	}
}

func TestRewindAfter(t *testing.T) {
	l := New("foo bar baz")
	first := l.NextToken()
	l.NextToken() // bar, lexed ahead
	l.RewindAfter(first)
	tok := l.NextToken()
	if tok.Lexeme != "bar" {
		t.Fatalf("after rewind: lexeme = %q, want bar", tok.Lexeme)
	}
	if tok.Line != 1 || tok.Column != 5 {
		t.Errorf("after rewind: position = %d:%d, want 1:5", tok.Line, tok.Column)
	}
}

func TestLineAndColumn(t *testing.T) {
	l := New("a\n  b")
	a := l.NextToken()
	b := l.NextToken()
	if a.Line != 1 || a.Column != 1 {
		t.Errorf("a at %d:%d, want 1:1", a.Line, a.Column)
	}
	if b.Line != 2 || b.Column != 3 {
		t.Errorf("b at %d:%d, want 2:3", b.Line, b.Column)
	}
}
