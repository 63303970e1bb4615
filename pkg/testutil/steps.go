package testutil

import "testing"

// Given, When and Then label ordered subtests of a multi-step scenario.
// Each step runs against state left by the previous one.
func Given(t *testing.T, step string, fn func(t *testing.T)) {
	t.Helper()
	runStep(t, "Given", step, fn)
}

func When(t *testing.T, step string, fn func(t *testing.T)) {
	t.Helper()
	runStep(t, "When", step, fn)
}

func Then(t *testing.T, step string, fn func(t *testing.T)) {
	t.Helper()
	runStep(t, "Then", step, fn)
}

// runStep stops the scenario at the first failed step.
func runStep(t *testing.T, keyword, step string, fn func(t *testing.T)) {
	t.Helper()
	if !t.Run(keyword+" "+step, fn) {
		t.FailNow()
	}
}
