package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"kudos/internal/award"
	"kudos/internal/award/handler/mocks"
	"kudos/internal/events"
	"kudos/internal/platform/logger"
	id "kudos/pkg/domain"
	"kudos/pkg/platform/sentinel"
)

//go:generate mockgen -source=handler.go -destination=mocks/handler-mocks.go -package=mocks Service,Dispatcher
type AwardHandlerSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *AwardHandlerSuite) SetupSuite() {
	s.ctx = context.Background()
}

func TestAwardHandlerSuite(t *testing.T) {
	suite.Run(t, new(AwardHandlerSuite))
}

func newTestHandler(t *testing.T) (http.Handler, *mocks.MockService, *mocks.MockDispatcher) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	mockDispatcher := mocks.NewMockDispatcher(ctrl)

	r := chi.NewRouter()
	New(mockService, mockDispatcher, logger.Discard()).Register(r)
	return r, mockService, mockDispatcher
}

func postJSON(t *testing.T, router http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func (s *AwardHandlerSuite) TestHandleAward() {
	router, mockService, _ := newTestHandler(s.T())
	submissionID := id.NewSubmissionID()
	userID := id.NewUserID()
	mockService.EXPECT().
		Award(gomock.Any(), submissionID, userID, int64(50)).
		Return(award.OutcomeApplied, nil)

	w := postJSON(s.T(), router, "/admin/submissions/"+submissionID.String()+"/award",
		map[string]any{"user_id": userID.String(), "points": 50})

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "applied", resp["outcome"])
}

func (s *AwardHandlerSuite) TestHandleAwardBadSubmissionID() {
	router, _, _ := newTestHandler(s.T())

	w := postJSON(s.T(), router, "/admin/submissions/not-a-uuid/award",
		map[string]any{"user_id": id.NewUserID().String(), "points": 50})

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *AwardHandlerSuite) TestHandleAwardUnknownField() {
	router, _, _ := newTestHandler(s.T())

	w := postJSON(s.T(), router, "/admin/submissions/"+id.NewSubmissionID().String()+"/award",
		map[string]any{"user_id": id.NewUserID().String(), "points": 50, "bonus": true})

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *AwardHandlerSuite) TestHandleAwardUnknownSubmission() {
	router, mockService, _ := newTestHandler(s.T())
	submissionID := id.NewSubmissionID()
	userID := id.NewUserID()
	mockService.EXPECT().
		Award(gomock.Any(), submissionID, userID, int64(50)).
		Return(award.Outcome(""), fmt.Errorf("find submission: %w", sentinel.ErrNotFound))

	w := postJSON(s.T(), router, "/admin/submissions/"+submissionID.String()+"/award",
		map[string]any{"user_id": userID.String(), "points": 50})

	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *AwardHandlerSuite) TestHandleAwardStorageFaultIsOpaque() {
	router, mockService, _ := newTestHandler(s.T())
	submissionID := id.NewSubmissionID()
	userID := id.NewUserID()
	mockService.EXPECT().
		Award(gomock.Any(), submissionID, userID, int64(50)).
		Return(award.Outcome(""), errors.New("pq: connection refused"))

	w := postJSON(s.T(), router, "/admin/submissions/"+submissionID.String()+"/award",
		map[string]any{"user_id": userID.String(), "points": 50})

	assert.Equal(s.T(), http.StatusInternalServerError, w.Code)
	assert.NotContains(s.T(), w.Body.String(), "connection refused")
}

func (s *AwardHandlerSuite) TestHandleRevoke() {
	router, mockService, _ := newTestHandler(s.T())
	submissionID := id.NewSubmissionID()
	userID := id.NewUserID()
	mockService.EXPECT().
		Revoke(gomock.Any(), submissionID, userID, "plagiarized").
		Return(award.OutcomeApplied, nil)

	w := postJSON(s.T(), router, "/admin/submissions/"+submissionID.String()+"/revoke",
		map[string]any{"user_id": userID.String(), "reason": "plagiarized"})

	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *AwardHandlerSuite) TestHandleReconcile() {
	router, mockService, _ := newTestHandler(s.T())
	submissionID := id.NewSubmissionID()
	userID := id.NewUserID()
	mockService.EXPECT().
		ReconcileValuationChange(gomock.Any(), submissionID, userID, int64(200)).
		Return(award.OutcomeAdjusted, nil)

	w := postJSON(s.T(), router, "/admin/submissions/"+submissionID.String()+"/reconcile",
		map[string]any{"user_id": userID.String(), "points": 200})

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "adjusted", resp["outcome"])
}

func (s *AwardHandlerSuite) TestHandleTrigger() {
	router, _, mockDispatcher := newTestHandler(s.T())
	trigger := events.Trigger{
		Kind:         award.TriggerFinalized,
		SubmissionID: id.NewSubmissionID().String(),
		Domain:       id.DomainProject.String(),
	}
	mockDispatcher.EXPECT().
		Dispatch(gomock.Any(), trigger).
		Return(award.OutcomeApplied, nil)

	w := postJSON(s.T(), router, "/events/trigger", trigger)

	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *AwardHandlerSuite) TestHandleTriggerUnknownKind() {
	router, _, _ := newTestHandler(s.T())

	w := postJSON(s.T(), router, "/events/trigger", map[string]any{
		"kind":          "archived",
		"submission_id": id.NewSubmissionID().String(),
		"domain":        id.DomainProject.String(),
	})

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}
