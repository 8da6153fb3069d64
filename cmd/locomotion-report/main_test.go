package main

import "testing"

func TestRunHeadOnMeet_ResolvesWithinTickBudget(t *testing.T) {
	rs := runHeadOnMeet(1, 7, 1500)
	if rs.arrivedTick < 0 && rs.failedTick < 0 {
		t.Fatalf("expected run 1 of head-on-meet to either arrive or fail within 1500 ticks")
	}
}

func TestRunCorridorBlock_ResolvesWithinTickBudget(t *testing.T) {
	rs := runCorridorBlock(1, 3, 2000)
	if rs.arrivedTick < 0 && rs.failedTick < 0 {
		t.Fatalf("expected corridor-block run to resolve (arrive or fail) within 2000 ticks")
	}
}

func TestRunUTurn_EventuallyArrives(t *testing.T) {
	rs := runUTurn(1, 11, 2000)
	if rs.arrivedTick < 0 {
		t.Fatalf("expected u-turn scenario to arrive within 2000 ticks, got arrivedTick=%d failedTick=%d reason=%v",
			rs.arrivedTick, rs.failedTick, rs.failReason)
	}
}

func TestSupportedScenarioNames_SortedAndComplete(t *testing.T) {
	got := supportedScenarioNames()
	want := "corridor-block, head-on-meet, u-turn"
	if got != want {
		t.Fatalf("supportedScenarioNames() = %q, want %q", got, want)
	}
}

func TestPrintAggregate_DoesNotPanicOnEmptyIsh(t *testing.T) {
	all := []runStats{
		{runIndex: 1, seed: 1, arrivedTick: 10, failedTick: -1},
		{runIndex: 2, seed: 2, arrivedTick: -1, failedTick: 20},
	}
	printAggregate(all)
}
