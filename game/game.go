// Package game is the composition root: it wires the physics space, track,
// locomotion core, scheduler, and persistence together and owns the
// fixed-timestep frame loop.
package game

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/lavarunner/config"
	"github.com/milk9111/lavarunner/event"
	"github.com/milk9111/lavarunner/input"
	"github.com/milk9111/lavarunner/phys"
	"github.com/milk9111/lavarunner/player"
	"github.com/milk9111/lavarunner/save"
	"github.com/milk9111/lavarunner/sched"
	"github.com/milk9111/lavarunner/telemetry"
	"github.com/milk9111/lavarunner/track"
)

// Options configures one game instance. Level overrides are applied onto the
// base config before anything is built; the base itself is never mutated.
type Options struct {
	Base  *config.Config
	Level *config.LevelSpec
	Seed  int64

	Store save.Store
	Tele  *telemetry.Telemetry
}

// Game holds one run's full simulation state.
type Game struct {
	cfg   *config.Config
	level string
	mode  config.Mode

	space  *phys.Space
	sch    *sched.Scheduler
	bus    *event.Bus
	tele   *telemetry.Telemetry
	saves  save.Store
	track  *track.Track
	player *player.Player
	input  *input.Snapshot

	accumulator float64
	paused      bool
	errStreak   int

	dead         bool
	respawning   bool
	respawnToken *sched.Token
}

// New builds a fully wired game. The level spec picks the mode and override
// set; a nil level runs the default mode on the base config.
func New(opts Options) *Game {
	base := opts.Base
	if base == nil {
		base = config.Default()
	}
	cfg := base
	mode := config.ModeDefault
	levelName := "default"
	if opts.Level != nil {
		cfg = opts.Level.Overrides.Apply(base)
		mode = opts.Level.Mode
		levelName = opts.Level.Name
	}

	tele := opts.Tele
	if tele == nil {
		tele = telemetry.New(nil)
	}
	store := opts.Store
	if store == nil {
		store = save.NewMemStore()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	g := &Game{
		cfg:   cfg,
		level: levelName,
		mode:  mode,
		sch:   sched.New(),
		bus:   &event.Bus{},
		tele:  tele,
		saves: store,
		input: input.NewSnapshot(),
	}

	g.space = phys.NewSpace(mgl64.Vec3{0, cfg.Gravity, 0})
	g.track = track.New(cfg, mode, g.space, g.sch, g.bus, tele, seed)
	g.player = player.New(cfg, g.space, g.bus, tele, g.groundResolver(), g.spawnPosition())

	return g
}

// groundResolver maps a ground-cast hit body onto the owning segment's
// locomotion-facing view.
func (g *Game) groundResolver() player.Resolver {
	return func(body *phys.Body) (player.GroundInfo, bool) {
		seg, ok := g.track.ResolveByBody(body)
		if !ok {
			return player.GroundInfo{}, false
		}
		lin, ang, axis := seg.CarrySample()
		return player.GroundInfo{
			Segment:   seg.Index,
			Tint:      seg.Tint,
			Body:      seg.Body,
			Crumble:   seg.IsCrumble,
			Falling:   seg.IsCrumble && seg.Crumble == track.CrumbleFalling,
			Kinematic: seg.Kinematic(),
			Spinning:  seg.Spinning(),
			LinVel:    lin,
			AngVel:    ang,
			AngAxis:   axis,
		}, true
	}
}

// spawnPosition is the capsule center resting on the spawn platform.
func (g *Game) spawnPosition() mgl64.Vec3 {
	y := g.cfg.Track.SegmentHalfThickness +
		g.cfg.Player.CapsuleHalfHeight + g.cfg.Player.CapsuleRadius + 0.05
	return mgl64.Vec3{0, y, 0}
}

// Player exposes the locomotion core.
func (g *Game) Player() *player.Player { return g.player }

// Track exposes the segment engine.
func (g *Game) Track() *track.Track { return g.track }

// Events returns the event queue for the host to drain each frame.
func (g *Game) Events() *event.Bus { return g.bus }

// Level returns the active level name.
func (g *Game) Level() string { return g.level }

// Paused reports whether the accumulator is halted.
func (g *Game) Paused() bool { return g.paused }

// Pause halts simulation; rendering of the last frame continues host-side.
func (g *Game) Pause() { g.paused = true }

// Resume restarts simulation and clears the defensive error streak.
func (g *Game) Resume() {
	g.paused = false
	g.errStreak = 0
}

// PerformDash is the UI-facing dash trigger.
func (g *Game) PerformDash() bool {
	if g.dead {
		return false
	}
	return g.player.PerformDash()
}

// TeleportTo moves the player and re-anchors the sliding window at the
// nearest segment so generation follows.
func (g *Game) TeleportTo(pos mgl64.Vec3) {
	g.player.TeleportTo(pos)
	if seg, ok := g.nearestSegment(pos); ok {
		g.track.SetPlayerIndex(seg.Index)
	}
}

func (g *Game) nearestSegment(pos mgl64.Vec3) (*track.Segment, bool) {
	var best *track.Segment
	bestDist := 0.0
	for _, h := range g.track.Active() {
		seg := g.track.Get(h)
		if seg == nil {
			continue
		}
		dx := pos.X() - seg.Pos.X()
		dz := pos.Z() - seg.Pos.Z()
		d := dx*dx + dz*dz
		if best == nil || d < bestDist {
			best = seg
			bestDist = d
		}
	}
	return best, best != nil
}

// Respawn schedules a debounced respawn at the current segment. Overlapping
// calls while one is pending are ignored.
func (g *Game) Respawn() {
	if g.respawning {
		return
	}
	g.respawning = true
	g.respawnToken = g.sch.After(g.cfg.RespawnDelayTicks, func() {
		g.respawning = false
		g.respawnToken = nil
		g.doRespawn()
	})
}

func (g *Game) doRespawn() {
	pos := g.spawnPosition()
	if seg, ok := g.currentSegment(); ok {
		pos = seg.Pos.Add(mgl64.Vec3{0, 2, 0})
	}
	g.track.ResetCrumbles()
	g.player.Reset(pos)
	g.dead = false
}

func (g *Game) currentSegment() (*track.Segment, bool) {
	idx := g.track.PlayerIndex()
	for _, h := range g.track.Active() {
		seg := g.track.Get(h)
		if seg != nil && seg.Index == idx {
			return seg, true
		}
	}
	return nil, false
}

// Restart tears down the run and starts over: fresh track, full player
// reset at the new spawn platform, pending timers canceled.
func (g *Game) Restart() {
	if g.respawnToken != nil {
		g.respawnToken.Cancel()
		g.respawnToken = nil
	}
	g.respawning = false
	g.sch.Reset()
	g.track.Reset()
	g.player.Reset(g.spawnPosition())
	g.dead = false
	g.accumulator = 0
	g.errStreak = 0
}

// onDeath persists the run score and emits the death event exactly once.
func (g *Game) onDeath(reason string) {
	if g.dead {
		return
	}
	g.dead = true
	g.player.Kill(reason)

	score := g.track.Score()
	if score > 0 {
		if err := g.saves.SaveScore(g.level, score); err != nil {
			g.tele.Logger().Warn("score save failed", "level", g.level, "err", err)
		}
		if !g.saves.IsUnlocked(g.level) {
			if err := g.saves.Unlock(g.level); err != nil {
				g.tele.Logger().Warn("level unlock failed", "level", g.level, "err", err)
			}
		}
	}
	g.tele.Death(reason, score)
	g.bus.Push(event.Death{Reason: reason, Score: score})
}
