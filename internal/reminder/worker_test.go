package reminder

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"maintplan-backend/internal/model"
)

type mockSender struct {
	mu       sync.Mutex
	payloads []string
	status   int
	done     chan struct{}
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	m.mu.Lock()
	m.payloads = append(m.payloads, string(payload))
	m.mu.Unlock()
	if m.done != nil {
		m.done <- struct{}{}
	}
	status := m.status
	if status == 0 {
		status = http.StatusCreated
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader("")),
	}, nil
}

func (m *mockSender) sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.payloads...)
}

func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:reminder_%s?mode=memory&cache=shared&_foreign_keys=on", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(
		&model.Facility{},
		&model.Equipment{},
		&model.MaintenanceOccurrence{},
		&model.PushSubscription{},
	))
	return db
}

func seedSubscription(t *testing.T, db *gorm.DB, endpoint string, facilityID int64) {
	t.Helper()

	facility := model.Facility{ID: facilityID, Name: fmt.Sprintf("Plant %d", facilityID)}
	require.NoError(t, db.FirstOrCreate(&facility).Error)
	require.NoError(t, db.Create(&model.PushSubscription{
		Endpoint:   endpoint,
		P256DH:     "p256dh-key",
		Auth:       "auth-secret",
		Facilities: []*model.Facility{&facility},
	}).Error)
}

func TestRemindFacility_SendsToEachSubscriber(t *testing.T) {
	db := newTestDB(t, "send_each")
	seedSubscription(t, db, "https://push.example/sub-1", 1)
	seedSubscription(t, db, "https://push.example/sub-2", 1)
	seedSubscription(t, db, "https://push.example/other", 2)

	sender := &mockSender{}
	wp := NewWorkerPool(1, db, &webpush.Options{})
	wp.sender = sender

	wp.remindFacility(context.Background(), Job{
		FacilityID:   1,
		FacilityName: "Plant 1",
		OverdueCount: 3,
	})

	payloads := sender.sent()
	require.Len(t, payloads, 2, "only facility 1 subscribers are notified")
	for _, payload := range payloads {
		assert.Equal(t, "3 maintenance task(s) overdue at Plant 1", payload)
	}
}

func TestRemindFacility_NoSubscribersIsANoOp(t *testing.T) {
	db := newTestDB(t, "no_subscribers")
	seedSubscription(t, db, "https://push.example/other", 2)

	sender := &mockSender{}
	wp := NewWorkerPool(1, db, &webpush.Options{})
	wp.sender = sender

	wp.remindFacility(context.Background(), Job{FacilityID: 1, OverdueCount: 1})
	assert.Empty(t, sender.sent())
}

func TestRemindFacility_FallsBackToFacilityID(t *testing.T) {
	db := newTestDB(t, "label_fallback")
	seedSubscription(t, db, "https://push.example/sub-1", 1)

	sender := &mockSender{}
	wp := NewWorkerPool(1, db, &webpush.Options{})
	wp.sender = sender

	wp.remindFacility(context.Background(), Job{FacilityID: 1, OverdueCount: 1})

	payloads := sender.sent()
	require.Len(t, payloads, 1)
	assert.Equal(t, "1 maintenance task(s) overdue at facility 1", payloads[0])
}

func TestSendReminder_DeletesGoneSubscription(t *testing.T) {
	db := newTestDB(t, "gone_deleted")
	seedSubscription(t, db, "https://push.example/expired", 1)

	sender := &mockSender{status: http.StatusGone}
	wp := NewWorkerPool(1, db, &webpush.Options{})
	wp.sender = sender

	wp.remindFacility(context.Background(), Job{FacilityID: 1, OverdueCount: 1})
	require.Len(t, sender.sent(), 1)

	var count int64
	db.Model(&model.PushSubscription{}).Count(&count)
	assert.Zero(t, count, "a 410 from the push service retires the subscription")
}

func TestWorkerPool_DispatchDeliversJobs(t *testing.T) {
	db := newTestDB(t, "dispatch")
	seedSubscription(t, db, "https://push.example/sub-1", 1)

	sender := &mockSender{done: make(chan struct{}, 1)}
	wp := NewWorkerPool(2, db, &webpush.Options{})
	wp.sender = sender

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(Job{FacilityID: 1, FacilityName: "Plant 1", OverdueCount: 2})

	select {
	case <-sender.done:
	case <-time.After(5 * time.Second):
		t.Fatal("reminder was not sent")
	}
	assert.Equal(t, []string{"2 maintenance task(s) overdue at Plant 1"}, sender.sent())
}
