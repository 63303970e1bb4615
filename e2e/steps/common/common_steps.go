package common

import (
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext is the subset of the suite context generic steps need.
type TestContext interface {
	SignInAs(email string) error
	SignOut()
	Do(method, path string, body []byte) error
	LastStatus() int
	LastBody() []byte
	ResponseField(field string) (any, error)
	Remember(name, value string)
	Expand(s string) string
}

// RegisterSteps registers request and assertion steps shared by features.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^I am signed in as "([^"]*)"$`, tc.SignInAs)
	ctx.Step(`^I am not signed in$`, steps.notSignedIn)
	ctx.Step(`^I send a (GET|POST|PUT) request to "([^"]*)"$`, steps.sendRequest)
	ctx.Step(`^I send a (POST|PUT) request to "([^"]*)" with body:$`, steps.sendRequestWithBody)
	ctx.Step(`^the response status should be (\d+)$`, steps.responseStatusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.responseFieldShouldBe)
	ctx.Step(`^I remember the response field "([^"]*)" as "([^"]*)"$`, steps.rememberField)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) notSignedIn() error {
	s.tc.SignOut()
	return nil
}

func (s *commonSteps) sendRequest(method, path string) error {
	return s.tc.Do(method, path, nil)
}

func (s *commonSteps) sendRequestWithBody(method, path string, body *godog.DocString) error {
	return s.tc.Do(method, path, []byte(s.tc.Expand(body.Content)))
}

func (s *commonSteps) responseStatusShouldBe(expected int) error {
	if got := s.tc.LastStatus(); got != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, got, string(s.tc.LastBody()))
	}
	return nil
}

func (s *commonSteps) responseFieldShouldBe(field, expected string) error {
	v, err := s.tc.ResponseField(field)
	if err != nil {
		return err
	}
	if got := stringify(v); got != s.tc.Expand(expected) {
		return fmt.Errorf("expected %s=%q, got %q", field, expected, got)
	}
	return nil
}

func (s *commonSteps) rememberField(field, name string) error {
	v, err := s.tc.ResponseField(field)
	if err != nil {
		return err
	}
	s.tc.Remember(name, stringify(v))
	return nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
