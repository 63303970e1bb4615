package lifecycle

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

// TestContext is the subset of the suite context lifecycle steps need.
type TestContext interface {
	UserID(email string) string
	SignInAs(email string) error
	DoJSON(method, path string, v any) error
	Do(method, path string, body []byte) error
	LastStatus() int
	LastBody() []byte
	Remember(name, value string)
	Recall(name string) (string, bool)
}

// RegisterSteps registers verification request lifecycle steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &lifecycleSteps{tc: tc}

	ctx.Step(`^"([^"]*)" creates a verification request for "([^"]*)"$`, steps.createRequest)
	ctx.Step(`^"([^"]*)" records a document upload$`, steps.recordUpload)
	ctx.Step(`^"([^"]*)" sets the request status to "([^"]*)"$`, steps.setStatus)
	ctx.Step(`^the request status should be "([^"]*)"$`, steps.requestStatusShouldBe)
	ctx.Step(`^the request should be assigned to "([^"]*)"$`, steps.requestAssignedTo)
	ctx.Step(`^the history should have (\d+) entries ending in "([^"]*)"$`, steps.historyShouldEndIn)
}

type lifecycleSteps struct {
	tc TestContext
}

type summary struct {
	ID                string  `json:"id"`
	Status            string  `json:"status"`
	AssignedOfficerID *string `json:"assigned_officer_id"`
}

func (s *lifecycleSteps) createRequest(requestor, customer string) error {
	if err := s.tc.SignInAs(requestor); err != nil {
		return err
	}
	err := s.tc.DoJSON(http.MethodPost, "/verification-requests", map[string]string{
		"customer_id": s.tc.UserID(customer),
		"reason":      "onboarding check",
	})
	if err != nil {
		return err
	}
	if s.tc.LastStatus() != http.StatusCreated {
		return fmt.Errorf("create returned %d: %s", s.tc.LastStatus(), string(s.tc.LastBody()))
	}
	got, err := s.lastSummary()
	if err != nil {
		return err
	}
	s.tc.Remember("request", got.ID)
	return nil
}

func (s *lifecycleSteps) recordUpload(customer string) error {
	if err := s.tc.SignInAs(customer); err != nil {
		return err
	}
	return s.tc.Do(http.MethodPost, "/verification-requests/{request}/documents/uploaded", nil)
}

func (s *lifecycleSteps) setStatus(officer, status string) error {
	if err := s.tc.SignInAs(officer); err != nil {
		return err
	}
	return s.tc.DoJSON(http.MethodPut, "/verification-requests/{request}/status", map[string]string{
		"status": status,
		"reason": "checked in e2e",
	})
}

func (s *lifecycleSteps) requestStatusShouldBe(expected string) error {
	if err := s.tc.Do(http.MethodGet, "/verification-requests/{request}/status", nil); err != nil {
		return err
	}
	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(s.tc.LastBody(), &resp); err != nil {
		return fmt.Errorf("decode status: %w", err)
	}
	if resp.Status != expected {
		return fmt.Errorf("expected status %s, got %s", expected, resp.Status)
	}
	return nil
}

func (s *lifecycleSteps) requestAssignedTo(officer string) error {
	got, err := s.lastSummary()
	if err != nil {
		return err
	}
	want := s.tc.UserID(officer)
	if got.AssignedOfficerID == nil || *got.AssignedOfficerID != want {
		return fmt.Errorf("expected request assigned to %s, got %v", want, got.AssignedOfficerID)
	}
	return nil
}

func (s *lifecycleSteps) historyShouldEndIn(count int, status string) error {
	if err := s.tc.Do(http.MethodGet, "/verification-requests/{request}/history", nil); err != nil {
		return err
	}
	var resp struct {
		Entries []struct {
			ToStatus string `json:"to_status"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(s.tc.LastBody(), &resp); err != nil {
		return fmt.Errorf("decode history: %w", err)
	}
	if len(resp.Entries) != count {
		return fmt.Errorf("expected %d history entries, got %d", count, len(resp.Entries))
	}
	// History is returned most recent first.
	if resp.Entries[0].ToStatus != status {
		return fmt.Errorf("expected latest entry %s, got %s", status, resp.Entries[0].ToStatus)
	}
	return nil
}

func (s *lifecycleSteps) lastSummary() (*summary, error) {
	var got summary
	if err := json.Unmarshal(s.tc.LastBody(), &got); err != nil {
		return nil, fmt.Errorf("decode request summary %q: %w", string(s.tc.LastBody()), err)
	}
	return &got, nil
}
