package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func alertRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "rule_id", "severity", "message", "slot_id", "location_id", "subject_key", "triggered_at", "acknowledged"})
}

func TestWorkerPool_Dispatch(t *testing.T) {
	db, _ := newTestDB(t)
	wp := NewWorkerPool(1, db, &webpush.Options{})

	// Dispatch a job
	wp.Dispatch(123)

	// Check if the job is in the channel
	select {
	case job := <-wp.jobs:
		assert.Equal(t, int64(123), job)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	gormDB, mock := newTestDB(t)
	wp := NewWorkerPool(1, gormDB, &webpush.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	// --- Test Case: Location alert reaches that location's subscribers ---
	t.Run("sends notification to location subscribers", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)

		alertID := int64(101)
		locationID := int64(5)

		// Set up the mock sender
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				assert.Equal(t, "https://example.com/push", sub.Endpoint)

				var body alertPayload
				require.NoError(t, json.Unmarshal(payload, &body))
				assert.Equal(t, "Visitor alert at Main Gate", body.Title)
				assert.Equal(t, "capacity threshold reached", body.Body)
				assert.Equal(t, "warning", body.Severity)
				assert.Equal(t, alertID, body.AlertID)

				wg.Done()
				return &http.Response{
					StatusCode: http.StatusCreated,
					Body:       ioutil.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		mock.ExpectQuery(`SELECT \* FROM "escalation_alerts" WHERE "escalation_alerts"\."id" = \$1`).
			WithArgs(alertID, 1).
			WillReturnRows(alertRows().
				AddRow(alertID, 1, "warning", "capacity threshold reached", nil, locationID, "1_5_2025-06-17", time.Now(), false))

		mock.ExpectQuery(`SELECT .* FROM "push_subscriptions".*JOIN .*subscription_location_mapping.*WHERE .*slm\.location_id = \$1`).
			WithArgs(locationID).
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
				AddRow("https://example.com/push", "test_p256dh", "test_auth", time.Now()))

		mock.ExpectQuery(`SELECT "name" FROM "locations" WHERE "locations"\."id" = \$1 ORDER BY "locations"\."id" LIMIT \$[0-9]+`).
			WithArgs(locationID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Main Gate"))

		wp.Dispatch(alertID)
		wg.Wait()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	// --- Test Case: Global alert goes to every subscriber, expired one is deleted ---
	t.Run("deletes expired subscription", func(t *testing.T) {
		alertID := int64(102)

		// Set up the mock sender to return a 410 Gone status
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				var body alertPayload
				if err := json.Unmarshal(payload, &body); err == nil {
					assert.Equal(t, "Visitor alert", body.Title)
				}
				return &http.Response{
					StatusCode: http.StatusGone,
					Body:       ioutil.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		mock.ExpectQuery(`SELECT \* FROM "escalation_alerts" WHERE "escalation_alerts"\."id" = \$1`).
			WithArgs(alertID, 1).
			WillReturnRows(alertRows().
				AddRow(alertID, 1, "info", "daily summary", nil, nil, "1_0_2025-06-17", time.Now(), false))

		// No location filter on a global alert.
		mock.ExpectQuery(`SELECT \* FROM "push_subscriptions"`).
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
				AddRow("https://example.com/expired", "test_p256dh_expired", "test_auth_expired", time.Now()))

		// Expect the delete operation
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "push_subscriptions" WHERE "push_subscriptions"\."endpoint" = \$1`).
			WithArgs("https://example.com/expired").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		wp.Dispatch(alertID)

		// A short sleep to allow the worker to process the job
		time.Sleep(100 * time.Millisecond)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	// --- Test Case: Location lookup fails, fallback to ID ---
	t.Run("falls back to location ID when lookup fails", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)

		alertID := int64(103)
		locationID := int64(7)

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				var body alertPayload
				require.NoError(t, json.Unmarshal(payload, &body))
				assert.Equal(t, "Visitor alert at location 7", body.Title)

				wg.Done()
				return &http.Response{
					StatusCode: http.StatusCreated,
					Body:       ioutil.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		mock.ExpectQuery(`SELECT \* FROM "escalation_alerts" WHERE "escalation_alerts"\."id" = \$1`).
			WithArgs(alertID, 1).
			WillReturnRows(alertRows().
				AddRow(alertID, 2, "critical", "visitor overstay", nil, locationID, "2_9_2025-06-17", time.Now(), false))

		mock.ExpectQuery(`SELECT .* FROM "push_subscriptions".*JOIN .*subscription_location_mapping.*WHERE .*slm\.location_id = \$1`).
			WithArgs(locationID).
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
				AddRow("https://example.com/fallback", "test_p256dh_fallback", "test_auth_fallback", time.Now()))

		mock.ExpectQuery(`SELECT "name" FROM "locations" WHERE "locations"\."id" = \$1 ORDER BY "locations"\."id" LIMIT \$[0-9]+`).
			WithArgs(locationID, 1).
			WillReturnError(fmt.Errorf("location not found"))

		wp.Dispatch(alertID)
		wg.Wait()
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
