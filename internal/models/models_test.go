package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRecordingSaveLoad(t *testing.T) {
	SaveDir = t.TempDir()

	seed := int64(42)
	rec := &Recording{
		Program: "package tactic\n",
		Config:  RunConfig{AvatarHP: 40, AvatarMP: 20, Rounds: 10, Seed: &seed},
		Avatar:  3,
		Actions: ActionLog{
			Log("start"),
			UpdateHP(-5),
			ChangeCardCount("Stun", 1),
			Wait(),
			SetCreep("Imp", 5),
		},
	}
	if err := rec.Save("first"); err != nil {
		t.Fatalf("Failed to save recording: %v", err)
	}

	got, err := LoadRecording("first")
	if err != nil {
		t.Fatalf("Failed to load recording: %v", err)
	}
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Errorf("recording mismatch (-want +got):\n%s", diff)
	}

	names, err := ListRecordings()
	if err != nil {
		t.Fatalf("Failed to list recordings: %v", err)
	}
	if len(names) != 1 || names[0] != "first" {
		t.Errorf("Expected [first], got %v", names)
	}
}

func TestActionArgs(t *testing.T) {
	tests := []struct {
		action  Action
		wantInt int
		wantErr bool
	}{
		{action: UpdateHP(-5), wantInt: -5},
		{action: Action{Name: ActUpdateHP, Args: []any{float64(3)}}, wantInt: 3},
		{action: Action{Name: ActUpdateHP, Args: []any{1.5}}, wantErr: true},
		{action: Action{Name: ActUpdateHP, Args: []any{"x"}}, wantErr: true},
		{action: Action{Name: ActUpdateHP}, wantErr: true},
	}

	for _, test := range tests {
		have, err := test.action.Int(0)
		if (err != nil) != test.wantErr {
			t.Errorf("%v: err=%v, wantErr=%v", test.action, err, test.wantErr)
			continue
		}
		if !test.wantErr && have != test.wantInt {
			t.Errorf("%v: have %d, want %d", test.action, have, test.wantInt)
		}
	}
}

func TestActionLogCounts(t *testing.T) {
	log := ActionLog{Log("start"), UpdateHP(-5), Wait(), UpdateScore(10), Wait()}
	effects, waits := log.Counts()
	if effects != 3 || waits != 2 {
		t.Errorf("Expected 3 effects and 2 waits, got %d and %d", effects, waits)
	}
}
