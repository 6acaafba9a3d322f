package cli

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/tatianab/tactics-game/internal/engine"
	"github.com/tatianab/tactics-game/internal/share"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := GetRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
}

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TACTICS_SAVE_DIR", t.TempDir())
	t.Setenv("TACTICS_SHARE_URL", "https://example.com/play")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("LOG_LEVEL", "error")
}

func TestShareEncodeDecode(t *testing.T) {
	setupEnv(t)

	token, err := execute(t, engine.DefaultProgram, "share", "encode", "-")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	token = strings.TrimSpace(token)
	if len(token) == 0 || len(token) > share.MaxTokenLen {
		t.Fatalf("token length %d", len(token))
	}

	program, err := execute(t, "", "share", "decode", token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(program, "func ChooseCard(s *game.State) game.CardType") {
		t.Errorf("decoded program:\n%s", program)
	}

	link, err := execute(t, engine.DefaultProgram, "share", "encode", "--link", "--avatar", "4", "-")
	if err != nil {
		t.Fatalf("encode --link: %v", err)
	}
	if !strings.HasPrefix(link, "https://example.com/play?") || !strings.Contains(link, "avatar=4") {
		t.Errorf("link = %q", link)
	}
	fromLink, err := execute(t, "", "share", "decode", strings.TrimSpace(link))
	if err != nil || fromLink != program {
		t.Errorf("decode link: %v\n%s", err, fromLink)
	}
}

func TestShareDecodeMalformed(t *testing.T) {
	setupEnv(t)
	_, err := execute(t, "", "share", "decode", "%%%")
	if !errors.Is(err, share.ErrDecode) {
		t.Errorf("have %v, want ErrDecode", err)
	}
}

func TestRunSaveAndReplay(t *testing.T) {
	setupEnv(t)

	ran, err := execute(t, "", "run", "--instant", "--seed", "5", "--save", "first")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(ran, "--- Turn 1 ---") || !strings.Contains(ran, "RESULT") {
		t.Errorf("run output:\n%s", ran)
	}

	list, err := execute(t, "", "sessions")
	if err != nil || strings.TrimSpace(list) != "first" {
		t.Errorf("sessions = %q, %v", list, err)
	}

	replayed, err := execute(t, "", "replay", "--instant", "first")
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if replayed != ran {
		t.Errorf("replay differs from run:\nrun:\n%s\nreplay:\n%s", ran, replayed)
	}
}

func TestRunPaced(t *testing.T) {
	setupEnv(t)
	program := `package p
import "github.com/tatianab/tactics-game/game"
func ChooseCard(s *game.State) game.CardType { panic("no") }
`
	out, err := execute(t, program, "run", "--speed", "1ms", "--seed", "1", "-")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "Error: ChooseCard panicked: no") {
		t.Errorf("output:\n%s", out)
	}
}

func TestRunRejectsCompileErrors(t *testing.T) {
	setupEnv(t)
	out, err := execute(t, "package p\nfunc {", "run", "--instant", "-")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "Error: ") || !strings.Contains(out, "Turns 0") {
		t.Errorf("output:\n%s", out)
	}
}

func TestSuggestWithoutKey(t *testing.T) {
	setupEnv(t)
	_, err := execute(t, "", "suggest", "aggressive")
	if !errors.Is(err, engine.ErrNoAssistant) {
		t.Errorf("have %v, want ErrNoAssistant", err)
	}
}
