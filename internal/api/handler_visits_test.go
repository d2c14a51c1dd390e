package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahamdan1990/vms-frontend-sub004/internal/model"
)

func TestVisitLifecycle(t *testing.T) {
	router, gdb := newTestRouter(t)

	slot := seedSlot(t, gdb, model.TimeSlot{Name: "Morning Visit", StartTime: "09:00", EndTime: "12:00", MaxVisitors: 10, ActiveDays: "1,2,3,4,5", IsActive: true})
	inv := model.Invitation{Code: "test-code", VisitorName: "Ada Lovelace", VisitorEmail: "ada@example.com", SlotID: slot.ID, VisitDate: "2025-06-17", Status: model.InviteStatusPending}
	require.NoError(t, gdb.Create(&inv).Error)

	w := doRequest(router, "GET", "/api/visits/test-code", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slotName":"Morning Visit"`)

	// A pending visitor cannot check in.
	w = doRequest(router, "POST", "/api/visits/test-code/checkin", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	// Prime the booking count cache, then confirm. The second availability
	// read must see the booking despite the cache TTL.
	w = doRequest(router, "GET", "/api/availability?date=2025-06-17", "")
	require.Equal(t, http.StatusOK, w.Code)

	var rows []availabilityRow
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	require.Equal(t, 10, rows[0].RemainingCapacity)

	w = doRequest(router, "POST", "/api/visits/test-code/confirm", "")
	require.Equal(t, http.StatusOK, w.Code)

	var confirmed VisitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &confirmed))
	assert.Equal(t, model.InviteStatusConfirmed, confirmed.Status)

	// Confirming again is a no-op.
	w = doRequest(router, "POST", "/api/visits/test-code/confirm", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "GET", "/api/availability?date=2025-06-17", "")
	require.Equal(t, http.StatusOK, w.Code)

	rows = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, 9, rows[0].RemainingCapacity)

	w = doRequest(router, "POST", "/api/visits/test-code/checkin", "")
	require.Equal(t, http.StatusOK, w.Code)

	var checkedIn VisitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &checkedIn))
	require.NotNil(t, checkedIn.CheckedInAt)

	// Cancelling while the visitor is on site is refused.
	w = doRequest(router, "POST", "/api/visits/test-code/cancel", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(router, "POST", "/api/visits/test-code/checkout", "")
	require.Equal(t, http.StatusOK, w.Code)

	var checkedOut VisitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &checkedOut))
	require.NotNil(t, checkedOut.CheckedOutAt)

	// A finished visit cannot be reopened.
	w = doRequest(router, "POST", "/api/visits/test-code/checkin", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestConfirmVisit_Cancelled(t *testing.T) {
	router, gdb := newTestRouter(t)

	slot := seedSlot(t, gdb, model.TimeSlot{Name: "Morning Visit", StartTime: "09:00", EndTime: "12:00", MaxVisitors: 10, ActiveDays: "1,2,3,4,5", IsActive: true})
	inv := model.Invitation{Code: "cancelled-code", VisitorName: "Grace Hopper", VisitorEmail: "grace@example.com", SlotID: slot.ID, VisitDate: "2025-06-17", Status: model.InviteStatusCancelled}
	require.NoError(t, gdb.Create(&inv).Error)

	w := doRequest(router, "POST", "/api/visits/cancelled-code/confirm", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	// Cancelling again stays a no-op.
	w = doRequest(router, "POST", "/api/visits/cancelled-code/cancel", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetVisit_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, "GET", "/api/visits/no-such-code", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
