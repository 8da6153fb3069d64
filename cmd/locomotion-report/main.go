package main

import (
	"flag"
	"fmt"
	"sort"

	"github.com/groundcore/locomotion/internal/mover"
)

type runStats struct {
	runIndex int
	seed     int64

	arrivedTick  int64
	failedTick   int64
	failReason   mover.FailureReason
	collisions   int
	crushes      int
	finalPos     mover.Vec3
	finalSpeed   float64
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenario string

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 1200, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "head-on-meet", "scenario name (head-on-meet, corridor-block, u-turn)")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}

	fmt.Printf("=== Locomotion Scenario Report ===\n")
	fmt.Printf("scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", scenario, runs, ticks, seedBase, seedStep)

	runFn, ok := scenarios[scenario]
	if !ok {
		fmt.Printf("error: unsupported scenario %q (supported: %s)\n", scenario, supportedScenarioNames())
		return
	}

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runFn(i+1, seed, ticks)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

var scenarios = map[string]func(runIndex int, seed int64, ticks int) runStats{
	"head-on-meet":   runHeadOnMeet,
	"corridor-block": runCorridorBlock,
	"u-turn":         runUTurn,
}

func supportedScenarioNames() string {
	names := make([]string, 0, len(scenarios))
	for k := range scenarios {
		names = append(names, k)
	}
	sort.Strings(names)
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

// runHeadOnMeet mirrors scenario S3: two identical units approaching head-on
// must pass each other via the §4.2 deadlock-break rule.
func runHeadOnMeet(runIndex int, seed int64, ticks int) runStats {
	params := mover.DefaultUnitParams()
	h := mover.NewHarness(
		mover.WithMapSize(128, 128, 8),
		mover.WithSeed(seed),
		mover.WithMovingUnit(1, mover.Vec3{X: 500, Z: 512}, mover.Vec3{Z: -1}, 0, 0, params, mover.Vec3{X: 500, Z: 20}, 4),
		mover.WithMovingUnit(2, mover.Vec3{X: 500, Z: 20}, mover.Vec3{Z: 1}, 1, 1, params, mover.Vec3{X: 500, Z: 1000}, 4),
	)
	return collectStats(h, runIndex, seed, ticks)
}

// runCorridorBlock places a wall across the direct path, so the planned
// path has to detour around the wall's end.
func runCorridorBlock(runIndex int, seed int64, ticks int) runStats {
	params := mover.DefaultUnitParams()
	opts := []mover.HarnessOption{
		mover.WithMapSize(128, 128, 8),
		mover.WithSeed(seed),
	}
	for row := 0; row < 40; row++ {
		opts = append(opts, mover.WithWall(32, row))
	}
	opts = append(opts, mover.WithMovingUnit(1, mover.Vec3{X: 50, Z: 50}, mover.Vec3{Z: 1}, 0, 0, params, mover.Vec3{X: 900, Z: 50}, 4))
	h := mover.NewHarness(opts...)
	return collectStats(h, runIndex, seed, ticks)
}

// runUTurn mirrors scenario S2: a unit with a slow turn rate must sweep a
// full U-turn to reach a goal behind it. The unit keeps the default
// CanReverse=true; nothing in the mover package reads that flag.
func runUTurn(runIndex int, seed int64, ticks int) runStats {
	params := mover.DefaultUnitParams()
	params.TurnRate = 400
	h := mover.NewHarness(
		mover.WithMapSize(128, 128, 8),
		mover.WithSeed(seed),
		mover.WithMovingUnit(1, mover.Vec3{X: 500, Z: 500}, mover.Vec3{Z: 1}, 0, 0, params, mover.Vec3{X: 500, Z: 400}, 4),
	)
	return collectStats(h, runIndex, seed, ticks)
}

func collectStats(h *mover.Harness, runIndex int, seed int64, ticks int) runStats {
	rs := runStats{runIndex: runIndex, seed: seed, arrivedTick: -1, failedTick: -1}
	for i := 0; i < ticks; i++ {
		h.Tick()
		for _, e := range h.Drain() {
			switch e.Kind {
			case mover.EventUnitMoved:
				if rs.arrivedTick < 0 {
					rs.arrivedTick = h.CurrentTick()
				}
			case mover.EventUnitMoveFailed:
				if rs.failedTick < 0 {
					rs.failedTick = h.CurrentTick()
					rs.failReason = e.Reason
				}
			case mover.EventUnitUnitCollision:
				rs.collisions++
				if e.Crushed {
					rs.crushes++
				}
			}
		}
	}
	if len(h.Movers) > 0 {
		rs.finalPos = h.Movers[0].Unit.Pos
		rs.finalSpeed = h.Movers[0].CurrentSpeed
	}
	return rs
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("arrived_tick=%d failed_tick=%d fail_reason=%v\n", rs.arrivedTick, rs.failedTick, rs.failReason)
	fmt.Printf("collisions=%d crushes=%d\n", rs.collisions, rs.crushes)
	fmt.Printf("final_pos=(%.1f,%.1f,%.1f) final_speed=%.3f\n", rs.finalPos.X, rs.finalPos.Y, rs.finalPos.Z, rs.finalSpeed)
	fmt.Println()
}

func printAggregate(all []runStats) {
	arrived := 0
	failed := 0
	totalCollisions := 0
	for _, rs := range all {
		if rs.arrivedTick >= 0 {
			arrived++
		}
		if rs.failedTick >= 0 {
			failed++
		}
		totalCollisions += rs.collisions
	}
	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d arrived=%d failed=%d avg_collisions=%.2f\n",
		len(all), arrived, failed, float64(totalCollisions)/float64(len(all)))
}
