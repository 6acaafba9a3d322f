package share

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"math/rand"
	"strings"
	"testing"
)

const sampleProgram = `package tactic

import "github.com/tatianab/tactics-game/game"

// ChooseCard picks the next card.
func ChooseCard(s *game.State) game.CardType {
	if s.Avatar.HP < 10 { // low health
		return game.CardRetreat
	}
	x := -1
	y := 2 - -x
	_ = y &^ 1
	msg := "a // not a comment"
	_ = msg
	raw := ` + "`line one\nline two`" + `
	_ = raw
	_ = 1.5
	if s.Creep.Type == game.CreepCheepy {
		return game.CardAttack
	}
	return game.CardRetreat
}
`

// shape renders the AST without positions so formatting differences
// do not matter.
func shape(t *testing.T, src string) string {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "p.go", src, 0)
	if err != nil {
		t.Fatalf("parse: %v\n%s", err, src)
	}
	var b strings.Builder
	ast.Inspect(f, func(n ast.Node) bool {
		switch n := n.(type) {
		case nil:
			b.WriteString(")")
		case *ast.Ident:
			b.WriteString(" " + n.Name)
		case *ast.BasicLit:
			b.WriteString(" " + n.Value)
		case *ast.BinaryExpr:
			b.WriteString(" " + n.Op.String())
		case *ast.UnaryExpr:
			b.WriteString(" u" + n.Op.String())
		}
		if n != nil {
			b.WriteString(fmt.Sprintf("(%T", n))
		}
		return true
	})
	return b.String()
}

func TestMinifyPreservesProgram(t *testing.T) {
	min, err := Minify(sampleProgram)
	if err != nil {
		t.Fatalf("Minify: %v", err)
	}
	if strings.Contains(min, "\n\t") || strings.Contains(min, "low health") {
		t.Errorf("Minify left layout or comments:\n%s", min)
	}
	if len(min) >= len(sampleProgram) {
		t.Errorf("Minify did not shrink the program: %d >= %d", len(min), len(sampleProgram))
	}
	if shape(t, min) != shape(t, sampleProgram) {
		t.Errorf("Minify changed the program:\n%s", min)
	}
}

func TestRoundTrip(t *testing.T) {
	tok, err := Encode(sampleProgram)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(tok) > MaxTokenLen {
		t.Fatalf("token length %d exceeds %d", len(tok), MaxTokenLen)
	}
	again, err := Encode(sampleProgram)
	if err != nil || again != tok {
		t.Fatalf("Encode is not deterministic: %q vs %q (%v)", tok, again, err)
	}

	got, err := Decode(tok)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if shape(t, got) != shape(t, sampleProgram) {
		t.Errorf("decoded program differs:\n%s", got)
	}
	want, err := Format(got)
	if err != nil || want != got {
		t.Errorf("decoded program is not canonical:\n%s", got)
	}
}

func TestFormatIdempotent(t *testing.T) {
	inputs := []string{
		sampleProgram,
		"package p;func F(){if true{return}}",
		"package p\nvar   x=[]int{1,\n2,\n}",
	}
	for _, in := range inputs {
		once, err := Format(in)
		if err != nil {
			t.Fatalf("Format(%q): %v", in, err)
		}
		twice, err := Format(once)
		if err != nil || twice != once {
			t.Errorf("Format not idempotent for %q:\nonce:  %q\ntwice: %q", in, once, twice)
		}
	}
}

func TestEncodeInvalidProgramVerbatim(t *testing.T) {
	src := "this is not go \"unterminated"
	tok, err := Encode(src)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(tok)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != src {
		t.Errorf("have %q, want %q", got, src)
	}
}

func TestEncodeTooLarge(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	var b strings.Builder
	b.WriteString("package p\n")
	for i := 0; i < 400; i++ {
		fmt.Fprintf(&b, "var v%d = %d\n", r.Int63(), r.Int63())
	}

	tok, err := Encode(b.String())
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("have %v (token length %d), want ErrTooLarge", err, len(tok))
	}
	if tok != "" {
		t.Errorf("TooLarge must not return a token, got %d chars", len(tok))
	}
}

// Grows a program one random line at a time until it no longer fits, then
// checks the last program that fit and the first one that did not.
func TestEncodeTokenLengthBoundary(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	var b strings.Builder
	b.WriteString("package p\n")

	var fit, fitSrc string
	for i := 0; i < 1000; i++ {
		fmt.Fprintf(&b, "var v%d = %d\n", r.Int63(), r.Int63())
		tok, err := Encode(b.String())
		if errors.Is(err, ErrTooLarge) {
			if tok != "" {
				t.Errorf("TooLarge must not return a token, got %d chars", len(tok))
			}
			break
		}
		if err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		fit, fitSrc = tok, b.String()
	}

	if fit == "" {
		t.Fatal("no program fit under the limit")
	}
	if len(fit) > MaxTokenLen {
		t.Fatalf("accepted token has %d chars, limit is %d", len(fit), MaxTokenLen)
	}
	if len(fit) < MaxTokenLen-100 {
		t.Fatalf("last accepted token has %d chars, want one close to %d", len(fit), MaxTokenLen)
	}
	if _, err := Encode(b.String()); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("program one line past the limit: have %v, want ErrTooLarge", err)
	}

	got, err := Decode(fit)
	if err != nil {
		t.Fatalf("decode boundary token: %v", err)
	}
	want, err := Minify(fitSrc)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("boundary token did not round trip:\nhave %q\nwant %q", got, want)
	}
}

func TestDecodeMalformed(t *testing.T) {
	valid, err := Encode(sampleProgram)
	if err != nil {
		t.Fatal(err)
	}
	tests := []string{
		"%%%",
		"AAAA",
		"",
		valid[:len(valid)/2&^3],
	}
	for _, tok := range tests {
		got, err := Decode(tok)
		if !errors.Is(err, ErrDecode) {
			t.Errorf("Decode(%q) = %q, %v; want ErrDecode", tok, got, err)
		}
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Errorf("Decode(%q): error %T is not *DecodeError", tok, err)
		}
	}
}

func TestLink(t *testing.T) {
	tok, err := Encode(sampleProgram)
	if err != nil {
		t.Fatal(err)
	}
	link, err := Link("https://example.com/play/", tok, 3)
	if err != nil {
		t.Fatal(err)
	}

	gotTok, avatar, err := ParseLink(link)
	if err != nil {
		t.Fatalf("ParseLink: %v", err)
	}
	if gotTok != tok || avatar != 3 {
		t.Errorf("have (%q, %d), want (%q, 3)", gotTok, avatar, tok)
	}

	gotTok, avatar, err = ParseLink(tok)
	if err != nil || gotTok != tok || avatar != -1 {
		t.Errorf("bare token: have (%q, %d, %v)", gotTok, avatar, err)
	}

	if _, _, err := ParseLink("https://example.com/?avatar=1"); !errors.Is(err, ErrDecode) {
		t.Errorf("link without code: have %v, want ErrDecode", err)
	}
}
