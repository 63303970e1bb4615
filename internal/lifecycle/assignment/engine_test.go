package assignment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"veriflow/internal/lifecycle/adapters"
	"veriflow/internal/lifecycle/events"
	"veriflow/internal/lifecycle/mocks"
	"veriflow/internal/lifecycle/models"
	"veriflow/internal/lifecycle/ports"
	"veriflow/internal/lifecycle/store"
	id "veriflow/pkg/domain"
	dErrors "veriflow/pkg/domain-errors"
	"veriflow/pkg/platform/audit"
	"veriflow/pkg/platform/notification"
	"veriflow/pkg/requestcontext"
)

const mib = 1024 * 1024

var fixedNow = time.Date(2024, 9, 2, 8, 0, 0, 0, time.UTC)

// =============================================================================
// Test Suite Setup
// =============================================================================

type EngineSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	store     *store.InMemoryStore
	users     *adapters.InMemoryUserDirectory
	documents *adapters.InMemoryDocumentInventory
	audit     *mocks.MockAuditPublisher
	notifier  *mocks.MockNotificationPublisher
	engine    *Engine

	customerID  id.UserID
	requestorID id.UserID
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = store.NewInMemory()
	s.users = adapters.NewInMemoryUserDirectory()
	s.documents = adapters.NewInMemoryDocumentInventory()
	s.audit = mocks.NewMockAuditPublisher(s.ctrl)
	s.notifier = mocks.NewMockNotificationPublisher(s.ctrl)
	s.engine = s.newEngine(s.documents)

	s.customerID = s.users.Seed("jane.customer@example.com", models.RoleCustomer).ID
	s.requestorID = s.users.Seed("acme.bank@example.com", models.RoleRequestor).ID
}

func (s *EngineSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *EngineSuite) newEngine(documents ports.DocumentInventory) *Engine {
	engine, err := New(s.store, store.NewShardedTx(s.store), s.users, documents,
		WithEmitter(events.NewEmitter(
			events.WithAuditPublisher(s.audit),
			events.WithNotificationPublisher(s.notifier),
		)),
		WithDocumentConcurrency(2),
	)
	s.Require().NoError(err)
	return engine
}

func (s *EngineSuite) ctx() context.Context {
	return requestcontext.WithTime(context.Background(), fixedNow)
}

// seedRequest stores a request in status, assigned to officer when given,
// with one document per size.
func (s *EngineSuite) seedRequest(status models.Status, officer *id.UserID, sizes ...int64) *models.VerificationRequest {
	req := models.NewVerificationRequest(s.customerID, s.requestorID, "kyc refresh", fixedNow.Add(-time.Hour))
	req.Status = status
	if officer != nil {
		req.AssignOfficer(*officer, fixedNow.Add(-time.Hour))
	}
	s.Require().NoError(s.store.CreateRequest(context.Background(), req))
	for _, size := range sizes {
		s.documents.Add(req.ID, models.DocumentSummary{SizeBytes: size, Status: "UPLOADED"})
	}
	return req
}

func (s *EngineSuite) seedOfficer(email string) id.UserID {
	return s.users.Seed(email, models.RoleVerificationOfficer).ID
}

// =============================================================================
// Workload scoring
// =============================================================================

func (s *EngineSuite) TestSelectOfficer_NoOfficers() {
	_, err := s.engine.SelectOfficer(s.ctx())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNoOfficersAvailable))
}

// TestSelectOfficer_LowestScoreWins covers an officer with one awaiting
// request holding a 1 MiB document (10 + 2 + 1 = 13) against an idle officer.
func (s *EngineSuite) TestSelectOfficer_LowestScoreWins() {
	busy := s.seedOfficer("olga.one@example.com")
	idle := s.seedOfficer("oscar.two@example.com")
	s.seedRequest(models.StatusDocumentUploaded, &busy, mib)

	workloads, err := s.engine.Workloads(s.ctx())
	s.Require().NoError(err)
	s.Require().Len(workloads, 2)
	s.Equal(int64(13), workloads[0].Score())
	s.Equal(int64(0), workloads[1].Score())

	chosen, err := s.engine.SelectOfficer(s.ctx())
	s.Require().NoError(err)
	s.Equal(idle, chosen.OfficerID)
}

func (s *EngineSuite) TestSelectOfficer_TiesGoToFirstListed() {
	first := s.seedOfficer("first.officer@example.com")
	second := s.seedOfficer("second.officer@example.com")
	s.seedRequest(models.StatusDocumentUploaded, &first)
	s.seedRequest(models.StatusDocumentUploaded, &second)

	chosen, err := s.engine.SelectOfficer(s.ctx())
	s.Require().NoError(err)
	s.Equal(first, chosen.OfficerID)
}

// TestWorkloads_OnlyAwaitingReviewCounts verifies requests in any status
// other than DOCUMENT_UPLOADED do not add to an officer's score.
func (s *EngineSuite) TestWorkloads_OnlyAwaitingReviewCounts() {
	officer := s.seedOfficer("olga.one@example.com")
	s.seedRequest(models.StatusInReview, &officer, 5*mib)
	s.seedRequest(models.StatusApproved, &officer, 5*mib)
	s.seedRequest(models.StatusDocumentUploaded, &officer, mib/2, mib/2, 3*mib)

	workloads, err := s.engine.Workloads(s.ctx())
	s.Require().NoError(err)
	s.Require().Len(workloads, 1)
	s.Equal(1, workloads[0].ActiveRequests)
	s.Equal(3, workloads[0].TotalDocuments)
	s.Equal(int64(4*mib), workloads[0].TotalBytes)
	s.Equal(int64(10+6+4), workloads[0].Score())
}

// TestWorkloads_PerRequestInventory verifies the fan-out path used when the
// inventory has no batch summary produces the same scores.
func (s *EngineSuite) TestWorkloads_PerRequestInventory() {
	officer := s.seedOfficer("olga.one@example.com")
	reqA := s.seedRequest(models.StatusDocumentUploaded, &officer)
	reqB := s.seedRequest(models.StatusDocumentUploaded, &officer)

	inventory := mocks.NewMockDocumentInventory(s.ctrl)
	inventory.EXPECT().FindByVerificationRequestID(gomock.Any(), reqA.ID).
		Return([]models.DocumentSummary{{SizeBytes: 2 * mib}}, nil)
	inventory.EXPECT().FindByVerificationRequestID(gomock.Any(), reqB.ID).
		Return([]models.DocumentSummary{{SizeBytes: mib}, {SizeBytes: mib}}, nil)

	workloads, err := s.newEngine(inventory).Workloads(s.ctx())
	s.Require().NoError(err)
	s.Require().Len(workloads, 1)
	s.Equal(int64(20+6+4), workloads[0].Score())
}

func (s *EngineSuite) TestWorkloads_InventoryFailureIsInternal() {
	officer := s.seedOfficer("olga.one@example.com")
	s.seedRequest(models.StatusDocumentUploaded, &officer)

	inventory := mocks.NewMockDocumentInventory(s.ctrl)
	inventory.EXPECT().FindByVerificationRequestID(gomock.Any(), gomock.Any()).Return(nil, assert.AnError)

	_, err := s.newEngine(inventory).Workloads(s.ctx())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

// =============================================================================
// AssignAutomatically
// =============================================================================

func (s *EngineSuite) TestAssignAutomatically() {
	busy := s.seedOfficer("olga.one@example.com")
	idle := s.seedOfficer("oscar.two@example.com")
	s.seedRequest(models.StatusDocumentUploaded, &busy, mib)
	req := s.seedRequest(models.StatusDocumentUploaded, nil, mib)

	var emitted audit.Event
	s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Event) error {
		emitted = e
		return nil
	})
	s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n notification.Notification) error {
		s.Equal(idle.String(), n.RecipientID)
		s.Equal(notification.MessageAssignedToOfficer, n.Message)
		return nil
	})

	assigned, err := s.engine.AssignAutomatically(s.ctx(), req.ID, s.customerID)
	s.Require().NoError(err)
	s.True(assigned.IsAssignedTo(idle))
	s.Equal(models.StatusInReview, assigned.Status)

	entries, err := s.store.ListHistory(context.Background(), req.ID)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(models.StatusDocumentUploaded, *entries[0].FromStatus)
	s.Equal(models.StatusInReview, entries[0].ToStatus)
	s.Equal(s.customerID, entries[0].ChangedBy)

	s.Equal(audit.EventVerificationRequestAssigned, emitted.Action)
	s.Equal(NoOfficer, emitted.OldValue)
	s.Equal(idle.String(), emitted.NewValue)
}

func (s *EngineSuite) TestAssignAutomatically_NoOfficersWritesNothing() {
	req := s.seedRequest(models.StatusDocumentUploaded, nil)

	_, err := s.engine.AssignAutomatically(s.ctx(), req.ID, s.customerID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNoOfficersAvailable))

	stored, err := s.store.FindRequest(context.Background(), req.ID)
	s.Require().NoError(err)
	s.False(stored.HasOfficer())
	s.Equal(models.StatusDocumentUploaded, stored.Status)
}

func (s *EngineSuite) TestAssignAutomatically_AlreadyAssignedIsUnchanged() {
	current := s.seedOfficer("olga.one@example.com")
	s.seedOfficer("oscar.two@example.com")
	req := s.seedRequest(models.StatusInReview, &current)

	got, err := s.engine.AssignAutomatically(s.ctx(), req.ID, s.customerID)
	s.Require().NoError(err)
	s.True(got.IsAssignedTo(current))
	s.Equal(models.StatusInReview, got.Status)
}

func (s *EngineSuite) TestAssignAutomatically_MissingRequest() {
	s.seedOfficer("olga.one@example.com")

	_, err := s.engine.AssignAutomatically(s.ctx(), id.VerificationRequestID(uuid.New()), s.customerID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
