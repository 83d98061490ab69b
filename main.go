package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/milk9111/lavarunner/config"
	"github.com/milk9111/lavarunner/event"
	"github.com/milk9111/lavarunner/game"
	"github.com/milk9111/lavarunner/input"
	"github.com/milk9111/lavarunner/levels"
	"github.com/milk9111/lavarunner/save"
	"github.com/milk9111/lavarunner/telemetry"
)

func main() {
	levelName := flag.String("level", "classic", "built-in level name in levels/ (.yaml optional)")
	levelFile := flag.String("levelfile", "", "external level spec path, overrides -level")
	seed := flag.Int64("seed", 0, "generation seed, 0 picks one")
	seconds := flag.Float64("seconds", 30, "simulated seconds to run")
	memSave := flag.Bool("mem", false, "keep scores in memory instead of the save file")
	verbose := flag.Bool("v", false, "log every simulation event")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	tele := telemetry.New(logger)

	spec, err := loadSpec(*levelName, *levelFile)
	if err != nil {
		log.Fatal(err)
	}

	var store save.Store = save.NewMemStore()
	if !*memSave {
		gd, err := save.Open("lavarunner", logger)
		if err != nil {
			logger.Warn("save file unavailable, using memory store", "err", err)
		} else {
			store = gd
		}
	}

	g := game.New(game.Options{
		Base:  config.Default(),
		Level: spec,
		Seed:  *seed,
		Store: store,
		Tele:  tele,
	})

	runSoak(g, *seconds, *verbose, logger)

	counters, _ := json.Marshal(tele.Counters())
	fmt.Printf("level=%s score=%d best=%d unlocked=%v counters=%s\n",
		g.Level(), g.Track().Score(), store.BestScore(g.Level()),
		store.IsUnlocked(g.Level()), counters)
}

func loadSpec(name, file string) (*config.LevelSpec, error) {
	if file != "" {
		return config.LoadLevelSpec(file)
	}
	return levels.Load(name)
}

// runSoak drives the game with a scripted pilot: run forward, charge-jump on
// a cadence, dash now and then, steer gently. It exists to exercise the full
// simulation without a renderer.
func runSoak(g *game.Game, seconds float64, verbose bool, logger *slog.Logger) {
	const frameDt = 1.0 / 60.0
	frames := int(seconds / frameDt)

	yaw := 0.0
	for i := 0; i < frames; i++ {
		t := float64(i) * frameDt
		yaw += 0.002 * math.Sin(t*0.31)

		frame := input.Frame{
			Forward: true,
			Sprint:  math.Mod(t, 7) < 2.5,
			Charge:  math.Mod(t, 2.4) < 0.45,
			Dash:    math.Mod(t, 9) >= 9-frameDt,
			Yaw:     yaw,
		}
		g.Advance(frameDt, frame)

		for _, ev := range g.Events().Drain() {
			if d, ok := ev.Data.(event.Death); ok {
				logger.Info("run over", "reason", d.Reason, "score", d.Score, "t", t)
				g.Respawn()
			} else if verbose {
				logger.Info("event", "data", ev.Data)
			}
		}
	}
}
