package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/mmml-co/mmml-backend/internal/config"
	contactdomain "github.com/mmml-co/mmml-backend/internal/contact/domain"
	contactrepo "github.com/mmml-co/mmml-backend/internal/contact/repository"
	coupondomain "github.com/mmml-co/mmml-backend/internal/coupon/domain"
	couponrepo "github.com/mmml-co/mmml-backend/internal/coupon/repository"
	paymentdomain "github.com/mmml-co/mmml-backend/internal/payment/domain"
	paymentrepo "github.com/mmml-co/mmml-backend/internal/payment/repository"
	registrationdomain "github.com/mmml-co/mmml-backend/internal/registration/domain"
	registrationrepo "github.com/mmml-co/mmml-backend/internal/registration/repository"
	"github.com/mmml-co/mmml-backend/internal/webhook/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecret = "test-webhook-secret"

var dbSeq int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:webhooksvc%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&registrationdomain.EventRegistration{},
		&contactdomain.Contact{},
		&coupondomain.Coupon{},
		&paymentdomain.ProcessedPayment{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	svc := NewService(Params{
		DB:            db,
		Log:           zap.NewNop(),
		GenID:         node,
		Cfg:           config.Config{WebhookSecret: testSecret},
		Registrations: registrationrepo.Provide(),
		Contacts:      contactrepo.Provide(),
		Coupons:       couponrepo.Provide(),
		Payments:      paymentrepo.Provide(),
	})
	return svc.(*Service), db
}

func sign(payload []byte) http.Header {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(payload)
	headers := http.Header{}
	headers.Set(domain.SignatureHeader, hex.EncodeToString(mac.Sum(nil)))
	return headers
}

func capturedPayload(t *testing.T, paymentID string, notes map[string]any) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"event": "payment.captured",
		"payload": map[string]any{
			"payment": map[string]any{
				"entity": map[string]any{
					"id":    paymentID,
					"notes": notes,
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return body
}

func defaultNotes() map[string]any {
	return map[string]any{
		"email":        "jane@example.com",
		"first_name":   "Jane",
		"last_name":    "Doe",
		"phone_number": "+911234567890",
		"company":      "Example Co",
		"job_title":    "ML Engineer",
		"venue":        "Mumbai",
		"event_name":   "MMML Mumbai",
		"coupon_code":  "EARLY50",
	}
}

// Shared across seeds: fresh nodes would hand out colliding IDs within the
// same millisecond.
var seedNode, _ = snowflake.NewNode(2)

func seedCoupon(t *testing.T, db *gorm.DB, code string, maxUsage, usedCount int) {
	t.Helper()
	err := db.Create(&coupondomain.Coupon{
		ID:            seedNode.Generate(),
		Code:          code,
		DiscountType:  coupondomain.DiscountTypePercent,
		DiscountValue: 50,
		MaxUsage:      maxUsage,
		UsedCount:     usedCount,
		IsActive:      true,
		CreatedAt:     time.Now().UTC(),
	}).Error
	if err != nil {
		t.Fatalf("seed coupon: %v", err)
	}
}

func TestProcessRegistersCapturedPayment(t *testing.T) {
	svc, db := newTestService(t)
	seedCoupon(t, db, "EARLY50", 10, 0)

	payload := capturedPayload(t, "pay_001", defaultNotes())
	result, err := svc.Process(context.Background(), payload, sign(payload))
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeApplied, result.Outcome)

	var reg registrationdomain.EventRegistration
	require.NoError(t, db.Where("email = ? AND venue = ?", "jane@example.com", "mumbai").First(&reg).Error)
	assert.Equal(t, "Jane", reg.FirstName)
	assert.Equal(t, "Example Co", reg.Company)

	var contact contactdomain.Contact
	require.NoError(t, db.Where("email = ?", "jane@example.com").First(&contact).Error)
	assert.Equal(t, "Attendee", contact.Status)
	assert.Equal(t, "Yes", contact.MMML)
	assert.True(t, contact.Mumbai)
	assert.NotNil(t, contact.LastRegisteredAt)

	var coupon coupondomain.Coupon
	require.NoError(t, db.Where("code = ?", "EARLY50").First(&coupon).Error)
	assert.Equal(t, 1, coupon.UsedCount)

	var processed int64
	db.Model(&paymentdomain.ProcessedPayment{}).Where("payment_id = ?", "pay_001").Count(&processed)
	assert.Equal(t, int64(1), processed)
}

func TestProcessIsIdempotent(t *testing.T) {
	svc, db := newTestService(t)
	seedCoupon(t, db, "EARLY50", 10, 0)

	payload := capturedPayload(t, "pay_002", defaultNotes())
	first, err := svc.Process(context.Background(), payload, sign(payload))
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeApplied, first.Outcome)

	second, err := svc.Process(context.Background(), payload, sign(payload))
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeIgnored, second.Outcome)
	assert.Equal(t, "payment already processed", second.Detail)

	var coupon coupondomain.Coupon
	require.NoError(t, db.Where("code = ?", "EARLY50").First(&coupon).Error)
	assert.Equal(t, 1, coupon.UsedCount, "replay must not consume extra coupon usage")

	var regs int64
	db.Model(&registrationdomain.EventRegistration{}).Count(&regs)
	assert.Equal(t, int64(1), regs)
}

func TestProcessRejectsInvalidSignature(t *testing.T) {
	svc, db := newTestService(t)

	payload := capturedPayload(t, "pay_003", defaultNotes())

	headers := http.Header{}
	headers.Set(domain.SignatureHeader, "deadbeef")
	_, err := svc.Process(context.Background(), payload, headers)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)

	_, err = svc.Process(context.Background(), payload, http.Header{})
	assert.ErrorIs(t, err, domain.ErrMissingSignature)

	var regs int64
	db.Model(&registrationdomain.EventRegistration{}).Count(&regs)
	assert.Equal(t, int64(0), regs, "rejected delivery must not write anything")
}

func TestProcessIgnoresNonCapturedEvents(t *testing.T) {
	svc, db := newTestService(t)

	payload, err := json.Marshal(map[string]any{
		"event": "payment.authorized",
		"payload": map[string]any{
			"payment": map[string]any{
				"entity": map[string]any{"id": "pay_004", "notes": defaultNotes()},
			},
		},
	})
	require.NoError(t, err)

	result, err := svc.Process(context.Background(), payload, sign(payload))
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeIgnored, result.Outcome)

	var processed int64
	db.Model(&paymentdomain.ProcessedPayment{}).Count(&processed)
	assert.Equal(t, int64(0), processed)
}

func TestProcessCouponCapNeverExceeded(t *testing.T) {
	svc, db := newTestService(t)
	seedCoupon(t, db, "EARLY50", 1, 0)

	notes := defaultNotes()
	payload := capturedPayload(t, "pay_005", notes)
	first, err := svc.Process(context.Background(), payload, sign(payload))
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeApplied, first.Outcome)

	notes["email"] = "other@example.com"
	payload = capturedPayload(t, "pay_006", notes)
	second, err := svc.Process(context.Background(), payload, sign(payload))
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeApplied, second.Outcome, "exhausted coupon must not block a captured payment")

	var coupon coupondomain.Coupon
	require.NoError(t, db.Where("code = ?", "EARLY50").First(&coupon).Error)
	assert.Equal(t, 1, coupon.UsedCount)

	var regs int64
	db.Model(&registrationdomain.EventRegistration{}).Count(&regs)
	assert.Equal(t, int64(2), regs)
}

func TestProcessSkipsDuplicateVenueRegistration(t *testing.T) {
	svc, db := newTestService(t)

	payload := capturedPayload(t, "pay_007", defaultNotes())
	first, err := svc.Process(context.Background(), payload, sign(payload))
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeApplied, first.Outcome)

	// Same attendee pays again for the same venue with a new payment id.
	payload = capturedPayload(t, "pay_008", defaultNotes())
	second, err := svc.Process(context.Background(), payload, sign(payload))
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeApplied, second.Outcome)

	var regs int64
	db.Model(&registrationdomain.EventRegistration{}).Count(&regs)
	assert.Equal(t, int64(1), regs, "one seat per email and venue")

	var processed int64
	db.Model(&paymentdomain.ProcessedPayment{}).Count(&processed)
	assert.Equal(t, int64(2), processed, "both payments must still be marked processed")
}

func TestProcessMergesContactWithoutOverwriting(t *testing.T) {
	svc, db := newTestService(t)

	node, _ := snowflake.NewNode(3)
	require.NoError(t, db.Create(&contactdomain.Contact{
		ID:        node.Generate(),
		Email:     "jane@example.com",
		FirstName: "Jane",
		Company:   "Original Org",
		Status:    "Waitlisted",
		CreatedAt: time.Now().UTC(),
	}).Error)

	notes := defaultNotes()
	notes["linkedin"] = "https://linkedin.com/in/janedoe"
	payload := capturedPayload(t, "pay_009", notes)
	result, err := svc.Process(context.Background(), payload, sign(payload))
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeApplied, result.Outcome)

	var contact contactdomain.Contact
	require.NoError(t, db.Where("email = ?", "jane@example.com").First(&contact).Error)
	assert.Equal(t, "Original Org", contact.Company, "existing fields are preserved")
	assert.Equal(t, "https://linkedin.com/in/janedoe", contact.LinkedIn, "empty fields are filled")
	assert.Equal(t, "Attendee", contact.Status, "status always advances on registration")
	assert.True(t, contact.Mumbai)

	var contacts int64
	db.Model(&contactdomain.Contact{}).Count(&contacts)
	assert.Equal(t, int64(1), contacts)
}

func TestProcessRecoversSingleQuotedExtra(t *testing.T) {
	svc, db := newTestService(t)

	notes := map[string]any{
		"email": "jane@example.com",
		"extra": "{'first_name': 'Jane', 'last_name': 'Doe', 'venue': 'Bengaluru', 'linkedin': 'https://linkedin.com/in/janedoe'}",
	}
	payload := capturedPayload(t, "pay_010", notes)
	result, err := svc.Process(context.Background(), payload, sign(payload))
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeApplied, result.Outcome)

	var reg registrationdomain.EventRegistration
	require.NoError(t, db.Where("email = ?", "jane@example.com").First(&reg).Error)
	assert.Equal(t, "Jane", reg.FirstName)
	assert.Equal(t, "bengaluru", reg.Venue)
	assert.Equal(t, "https://linkedin.com/in/janedoe", reg.LinkedIn)
}
