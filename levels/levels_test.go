package levels

import (
	"testing"

	"github.com/milk9111/lavarunner/config"
)

func TestAllEmbeddedLevelsLoad(t *testing.T) {
	names := Names()
	if len(names) == 0 {
		t.Fatalf("no embedded levels")
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			spec, err := Load(name)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if spec.Name == "" || !spec.Mode.Valid() {
				t.Fatalf("invalid spec: %+v", spec)
			}
			// overrides must apply cleanly to the base config
			cfg := spec.Overrides.Apply(config.Default())
			if cfg.FixedDt <= 0 || cfg.Player.MaxEnergy <= 0 {
				t.Fatalf("override application corrupted config")
			}
		})
	}
}

func TestLoadUnknownLevel(t *testing.T) {
	if _, err := Load("does-not-exist"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLoadAcceptsExtension(t *testing.T) {
	withExt, err := Load("classic.yaml")
	if err != nil {
		t.Fatalf("load with extension: %v", err)
	}
	bare, err := Load("classic")
	if err != nil {
		t.Fatalf("load bare: %v", err)
	}
	if withExt.Name != bare.Name {
		t.Fatalf("extension handling diverged: %q vs %q", withExt.Name, bare.Name)
	}
}
