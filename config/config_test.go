package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOverridesApplyDoesNotMutateBase(t *testing.T) {
	base := Default()
	wantSpeed := base.Player.MoveSpeed
	wantGravity := base.Gravity

	speed := 9.5
	gravity := -30.0
	o := Overrides{MoveSpeed: &speed, Gravity: &gravity}
	cfg := o.Apply(base)

	if cfg.Player.MoveSpeed != 9.5 || cfg.Gravity != -30.0 {
		t.Fatalf("overrides not applied: speed=%v gravity=%v", cfg.Player.MoveSpeed, cfg.Gravity)
	}
	if base.Player.MoveSpeed != wantSpeed || base.Gravity != wantGravity {
		t.Fatalf("base config mutated by Apply")
	}
}

func TestOverridesNilFieldsKeepBase(t *testing.T) {
	base := Default()
	cfg := Overrides{}.Apply(base)
	if *cfg != *base {
		t.Fatalf("empty overrides should produce an identical config")
	}
}

func TestModeValid(t *testing.T) {
	cases := []struct {
		mode Mode
		ok   bool
	}{
		{ModeDefault, true},
		{ModeChaotic, true},
		{ModeModerateTilt, true},
		{ModeNoTilt, true},
		{ModeTranslate, true},
		{Mode("bogus"), false},
		{Mode(""), false},
	}
	for _, c := range cases {
		if got := c.mode.Valid(); got != c.ok {
			t.Fatalf("Mode(%q).Valid() = %v, want %v", c.mode, got, c.ok)
		}
	}
}

func TestModeParamsDistinct(t *testing.T) {
	translate := ModeTranslate.Params()
	if !translate.Kinematic {
		t.Fatalf("translate mode must produce kinematic platforms")
	}
	if translate.SpacingOverride <= 0 {
		t.Fatalf("translate mode needs a spacing override")
	}

	moderate := ModeModerateTilt.Params()
	if moderate.SpikesOnTilting {
		t.Fatalf("moderate tilt mode must keep spikes off tilting platforms")
	}

	if ModeChaotic.Params().TiltChance <= ModeNoTilt.Params().TiltChance {
		t.Fatalf("chaotic mode should tilt more than no_tilt")
	}
}

func TestLoadLevelSpec(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lvl.yaml")
	body := []byte("name: test\nmode: chaotic\noverrides:\n  move_speed: 8\n  lava_rising: true\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}

	spec, err := LoadLevelSpec(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.Name != "test" || spec.Mode != ModeChaotic {
		t.Fatalf("unexpected spec: %+v", spec)
	}
	cfg := spec.Overrides.Apply(Default())
	if cfg.Player.MoveSpeed != 8 || !cfg.Lava.Rising {
		t.Fatalf("overrides lost in round trip: %+v", cfg)
	}
}

func TestLoadLevelSpecRejectsBadMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lvl.yaml")
	if err := os.WriteFile(path, []byte("name: x\nmode: warp\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadLevelSpec(path); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
