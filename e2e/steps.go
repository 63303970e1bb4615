package e2e

import (
	"github.com/cucumber/godog"

	"veriflow/e2e/steps/common"
	"veriflow/e2e/steps/lifecycle"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Generic requests and assertions
	common.RegisterSteps(ctx, tc)

	// Verification request lifecycle
	lifecycle.RegisterSteps(ctx, tc)
}
