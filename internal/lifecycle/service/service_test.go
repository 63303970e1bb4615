package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"veriflow/internal/lifecycle/adapters"
	"veriflow/internal/lifecycle/mocks"
	"veriflow/internal/lifecycle/models"
	"veriflow/internal/lifecycle/store"
	quotaconfig "veriflow/internal/quota/config"
	quotamodels "veriflow/internal/quota/models"
	quotaservice "veriflow/internal/quota/service"
	quotastore "veriflow/internal/quota/store"
	id "veriflow/pkg/domain"
	dErrors "veriflow/pkg/domain-errors"
	"veriflow/pkg/platform/audit"
	"veriflow/pkg/platform/notification"
	"veriflow/pkg/platform/sentinel"
	"veriflow/pkg/requestcontext"
)

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

// =============================================================================
// Test Suite Setup
// =============================================================================

// ServiceSuite exercises the orchestrator against the in-memory store with
// mocked collaborators.
//
// Justification: the orchestrator's contract is the ordering of primary
// mutation and best-effort side effects; mocks make each side effect and its
// failure observable.
type ServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	store     *store.InMemoryStore
	documents *adapters.InMemoryDocumentInventory
	users     *mocks.MockUserDirectory
	quota     *mocks.MockQuotaLimiter
	audit     *mocks.MockAuditPublisher
	notifier  *mocks.MockNotificationPublisher
	service   *Service

	customer  *models.User
	requestor *models.User
	officer   *models.User
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = store.NewInMemory()
	s.documents = adapters.NewInMemoryDocumentInventory()
	s.users = mocks.NewMockUserDirectory(s.ctrl)
	s.quota = mocks.NewMockQuotaLimiter(s.ctrl)
	s.audit = mocks.NewMockAuditPublisher(s.ctrl)
	s.notifier = mocks.NewMockNotificationPublisher(s.ctrl)

	svc, err := New(s.store, store.NewShardedTx(s.store), s.users, s.documents, s.quota,
		WithAuditPublisher(s.audit),
		WithNotificationPublisher(s.notifier),
	)
	s.Require().NoError(err)
	s.service = svc

	s.customer = &models.User{ID: id.UserID(uuid.New()), Name: "Jane Customer", Role: models.RoleCustomer}
	s.requestor = &models.User{ID: id.UserID(uuid.New()), Name: "Acme Bank", Role: models.RoleRequestor}
	s.officer = &models.User{ID: id.UserID(uuid.New()), Name: "Olga Officer", Role: models.RoleVerificationOfficer}
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) ctx() context.Context {
	return requestcontext.WithTime(context.Background(), fixedNow)
}

func (s *ServiceSuite) expectUsers(users ...*models.User) {
	for _, u := range users {
		s.users.EXPECT().GetByID(gomock.Any(), u.ID).Return(u, nil).AnyTimes()
	}
}

// seedRequest stores a request directly, bypassing creation side effects.
func (s *ServiceSuite) seedRequest(status models.Status, officer *id.UserID) *models.VerificationRequest {
	req := models.NewVerificationRequest(s.customer.ID, s.requestor.ID, "onboarding", fixedNow.Add(-time.Hour))
	req.Status = status
	if officer != nil {
		req.AssignOfficer(*officer, fixedNow.Add(-time.Hour))
	}
	s.Require().NoError(s.store.CreateRequest(context.Background(), req))
	return req
}

// =============================================================================
// CreateVerificationRequest
// =============================================================================

func (s *ServiceSuite) TestCreateVerificationRequest_Success() {
	s.expectUsers(s.customer, s.requestor)
	s.quota.EXPECT().CanCreate(gomock.Any(), s.customer.ID, s.requestor.ID).Return(true, nil)
	s.quota.EXPECT().IncrementRequestCount(gomock.Any(), s.customer.ID, s.requestor.ID).
		Return(&quotamodels.QuotaRecord{RequestCount: 1, TotalRequests: 1}, nil)

	var emitted audit.Event
	s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Event) error {
		emitted = e
		return nil
	})
	var sent notification.Notification
	s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n notification.Notification) error {
		sent = n
		return nil
	})

	summary, err := s.service.CreateVerificationRequest(s.ctx(), s.customer.ID, s.requestor.ID, "account opening")
	s.Require().NoError(err)
	s.Equal(models.StatusPending, summary.Status)
	s.Equal(s.customer.ID, summary.CustomerID)
	s.Equal(s.requestor.ID, summary.RequestorID)
	s.Nil(summary.AssignedOfficerID)
	s.Equal(fixedNow, summary.CreatedAt)

	entries, err := s.store.ListHistory(context.Background(), summary.ID)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Nil(entries[0].FromStatus)
	s.Equal(models.StatusPending, entries[0].ToStatus)
	s.Equal(s.requestor.ID, entries[0].ChangedBy)

	s.Equal(audit.EventVerificationRequestCreated, emitted.Action)
	s.Equal(summary.ID.String(), emitted.EntityID)
	s.Equal(s.customer.ID.String(), sent.RecipientID)
	s.Equal(notification.MessageVerificationRequested, sent.Message)
}

func (s *ServiceSuite) TestCreateVerificationRequest_Failures() {
	s.Run("unknown customer returns not found", func() {
		s.users.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.CreateVerificationRequest(s.ctx(), id.UserID(uuid.New()), s.requestor.ID, "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("quota exhausted returns limit exceeded and writes nothing", func() {
		s.expectUsers(s.customer, s.requestor)
		s.quota.EXPECT().CanCreate(gomock.Any(), s.customer.ID, s.requestor.ID).Return(false, nil)

		_, err := s.service.CreateVerificationRequest(s.ctx(), s.customer.ID, s.requestor.ID, "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeLimitExceeded))

		active, err := s.store.ListActiveByOfficers(context.Background(), nil, models.StatusPending)
		s.Require().NoError(err)
		s.Empty(active)
	})

	s.Run("quota check failure is internal", func() {
		s.expectUsers(s.customer, s.requestor)
		s.quota.EXPECT().CanCreate(gomock.Any(), s.customer.ID, s.requestor.ID).Return(false, assert.AnError)

		_, err := s.service.CreateVerificationRequest(s.ctx(), s.customer.ID, s.requestor.ID, "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

// TestCreateVerificationRequest_SideEffectsAreBestEffort verifies the request
// survives a failed quota increment and failed event emission.
func (s *ServiceSuite) TestCreateVerificationRequest_SideEffectsAreBestEffort() {
	s.expectUsers(s.customer, s.requestor)
	s.quota.EXPECT().CanCreate(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
	s.quota.EXPECT().IncrementRequestCount(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, assert.AnError)
	s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(assert.AnError)
	s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(assert.AnError)

	summary, err := s.service.CreateVerificationRequest(s.ctx(), s.customer.ID, s.requestor.ID, "")
	s.Require().NoError(err)

	status, err := s.service.GetLatestStatus(s.ctx(), summary.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, status)
}

// =============================================================================
// AssignToOfficer
// =============================================================================

func (s *ServiceSuite) TestAssignToOfficer() {
	s.Run("missing request returns not found", func() {
		_, err := s.service.AssignToOfficer(s.ctx(), id.NewVerificationRequestID(), s.officer.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("unknown officer returns not found", func() {
		req := s.seedRequest(models.StatusDocumentUploaded, nil)
		s.users.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.AssignToOfficer(s.ctx(), req.ID, id.UserID(uuid.New()))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("user without officer role is rejected", func() {
		req := s.seedRequest(models.StatusDocumentUploaded, nil)
		s.users.EXPECT().GetByID(gomock.Any(), s.customer.ID).Return(s.customer, nil)

		_, err := s.service.AssignToOfficer(s.ctx(), req.ID, s.customer.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("reassignment keeps status and notifies the new officer", func() {
		previousOfficer := id.UserID(uuid.New())
		req := s.seedRequest(models.StatusInReview, &previousOfficer)
		s.users.EXPECT().GetByID(gomock.Any(), s.officer.ID).Return(s.officer, nil)

		var emitted audit.Event
		s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Event) error {
			emitted = e
			return nil
		})
		s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n notification.Notification) error {
			s.Equal(s.officer.ID.String(), n.RecipientID)
			s.Equal(notification.MessageAssignedToOfficer, n.Message)
			return nil
		})

		summary, err := s.service.AssignToOfficer(s.ctx(), req.ID, s.officer.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusInReview, summary.Status)
		s.Require().NotNil(summary.AssignedOfficerID)
		s.Equal(s.officer.ID, *summary.AssignedOfficerID)

		s.Equal(audit.EventVerificationRequestReassigned, emitted.Action)
		s.Equal(previousOfficer.String(), emitted.OldValue)
		s.Equal(s.officer.ID.String(), emitted.NewValue)
	})
}

// =============================================================================
// UpdateStatus and RecordDocumentUpload
// =============================================================================

func (s *ServiceSuite) TestUpdateStatus_DelegatesToTransitionEngine() {
	req := s.seedRequest(models.StatusInReview, &s.officer.ID)
	s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
	s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)

	summary, err := s.service.UpdateStatus(s.ctx(), req.ID, s.officer.ID, models.StatusApproved, "ok")
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, summary.Status)
	s.NotNil(summary.ApprovedAt)

	_, err = s.service.UpdateStatus(s.ctx(), req.ID, s.customer.ID, models.StatusRejected, "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidOperation))
}

func (s *ServiceSuite) TestRecordDocumentUpload_AssignsAutomatically() {
	req := s.seedRequest(models.StatusPending, nil)
	s.users.EXPECT().FindByRole(gomock.Any(), models.RoleVerificationOfficer).Return([]*models.User{s.officer}, nil)
	s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n notification.Notification) error {
		s.Equal(s.officer.ID.String(), n.RecipientID)
		s.Equal(notification.MessageAssignedToOfficer, n.Message)
		return nil
	})

	summary, err := s.service.RecordDocumentUpload(s.ctx(), req.ID, s.customer.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusInReview, summary.Status)
	s.Require().NotNil(summary.AssignedOfficerID)
	s.Equal(s.officer.ID, *summary.AssignedOfficerID)

	history, err := s.service.GetStatusHistory(s.ctx(), req.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.Equal(models.StatusInReview, history[0].ToStatus)
	s.Equal(models.StatusDocumentUploaded, history[1].ToStatus)
}

func (s *ServiceSuite) TestRecordDocumentUpload_NoOfficersKeepsUpload() {
	req := s.seedRequest(models.StatusPending, nil)
	s.users.EXPECT().FindByRole(gomock.Any(), models.RoleVerificationOfficer).Return(nil, nil)
	s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

	summary, err := s.service.RecordDocumentUpload(s.ctx(), req.ID, s.customer.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusDocumentUploaded, summary.Status)
	s.Nil(summary.AssignedOfficerID)
}

func (s *ServiceSuite) TestRecordDocumentUpload_AssignedRequestSkipsAssignment() {
	req := s.seedRequest(models.StatusSentBack, &s.officer.ID)
	s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
	s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	summary, err := s.service.RecordDocumentUpload(s.ctx(), req.ID, s.customer.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusDocumentUpdated, summary.Status)
}

// =============================================================================
// Queries
// =============================================================================

func (s *ServiceSuite) TestQueries() {
	s.Run("latest status of missing request is not found", func() {
		_, err := s.service.GetLatestStatus(s.ctx(), id.NewVerificationRequestID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("empty history is not found", func() {
		_, err := s.service.GetStatusHistory(s.ctx(), id.NewVerificationRequestID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("quota queries delegate to the limiter", func() {
		count := &quotamodels.RequestorCount{TotalRequests: 4}
		s.quota.EXPECT().GetRequestorCount(gomock.Any(), s.requestor.ID, s.customer.ID, 2024).Return(count, nil)
		got, err := s.service.GetRequestorCountForCustomer(s.ctx(), s.requestor.ID, s.customer.ID, 2024)
		s.Require().NoError(err)
		s.Same(count, got)

		total := &quotamodels.CustomerTotal{TotalRequests: 9}
		s.quota.EXPECT().GetCustomerTotal(gomock.Any(), s.customer.ID).Return(total, nil)
		gotTotal, err := s.service.GetTotalRequestsForCustomer(s.ctx(), s.customer.ID)
		s.Require().NoError(err)
		s.Same(total, gotTotal)
	})
}

// =============================================================================
// Quota limiter integration
// =============================================================================

// TestCreateStopsAtCustomerCap wires the real limiter: with the default
// per-pair cap of 50, the 51st request for the pair is refused.
func TestCreateStopsAtCustomerCap(t *testing.T) {
	ctx := requestcontext.WithTime(context.Background(), fixedNow)

	users := adapters.NewInMemoryUserDirectory()
	customer := users.Seed("jane.doe@example.com", models.RoleCustomer)
	requestor := users.Seed("acme.bank@example.com", models.RoleRequestor)

	limiter, err := quotaservice.New(quotastore.NewInMemory(), quotaconfig.DefaultConfig())
	require.NoError(t, err)

	lifecycleStore := store.NewInMemory()
	svc, err := New(lifecycleStore, store.NewShardedTx(lifecycleStore), users, adapters.NewInMemoryDocumentInventory(), limiter)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		_, err := svc.CreateVerificationRequest(ctx, customer.ID, requestor.ID, "periodic review")
		require.NoError(t, err, "request %d", i+1)
	}

	_, err = svc.CreateVerificationRequest(ctx, customer.ID, requestor.ID, "one too many")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeLimitExceeded))

	count, err := svc.GetRequestorCountForCustomer(ctx, requestor.ID, customer.ID, fixedNow.Year())
	require.NoError(t, err)
	assert.Equal(t, 50, count.TotalRequests)
	assert.Equal(t, 50, count.MaxAllowed)
}
