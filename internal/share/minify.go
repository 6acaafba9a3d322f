package share

import (
	"go/format"
	"go/scanner"
	"go/token"
	"strings"
)

// Format returns src in canonical gofmt style.
func Format(src string) (string, error) {
	out, err := format.Source([]byte(src))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Minify rewrites a Go program into a single line with comments removed
// and only the separators needed to keep the token stream intact.
func Minify(src string) (string, error) {
	fset := token.NewFileSet()
	file := fset.AddFile("program.go", -1, len(src))

	var firstErr error
	var s scanner.Scanner
	s.Init(file, []byte(src), func(pos token.Position, msg string) {
		if firstErr == nil {
			firstErr = scanner.Error{Pos: pos, Msg: msg}
		}
	}, 0)

	var b strings.Builder
	prev := token.ILLEGAL
	for {
		_, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		if tok == token.SEMICOLON {
			// Automatic semicolons are implied again by a closing brace
			// or the end of input.
			prev = tok
			b.WriteByte(';')
			continue
		}
		if needsSpace(prev, tok) {
			b.WriteByte(' ')
		}
		if lit != "" {
			b.WriteString(lit)
		} else {
			b.WriteString(tok.String())
		}
		prev = tok
	}
	if firstErr != nil {
		return "", firstErr
	}
	return strings.TrimSuffix(b.String(), ";"), nil
}

func wordLike(tok token.Token) bool {
	return tok.IsKeyword() || tok.IsLiteral()
}

func operatorLike(tok token.Token) bool {
	if !tok.IsOperator() {
		return false
	}
	switch tok {
	case token.LPAREN, token.RPAREN, token.LBRACK, token.RBRACK,
		token.LBRACE, token.RBRACE, token.COMMA, token.SEMICOLON,
		token.COLON, token.PERIOD:
		return false
	}
	return true
}

// needsSpace reports whether writing next directly after prev could scan
// as a different token sequence.
func needsSpace(prev, next token.Token) bool {
	switch {
	case wordLike(prev) && wordLike(next):
		return true
	case operatorLike(prev) && operatorLike(next):
		return true
	case (prev == token.INT || prev == token.FLOAT) && next == token.PERIOD:
		// 1 .String would otherwise read as a float.
		return true
	}
	return false
}
