//go:build e2e

package booking_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"reservation-engine/internal/handler/dto/request"
	"reservation-engine/internal/handler/dto/response"
	"reservation-engine/tests/common/builder"
	"reservation-engine/tests/common/dbtest"
	"reservation-engine/tests/common/httptest"
	"reservation-engine/tests/common/sessiontest"
	"reservation-engine/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL = "/api/bookings"
	bookingURL  = "/api/bookings/%s"
	cancelURL   = "/api/bookings/%s/cancel"
	statusURL   = "/api/bookings/%s/status"
	slotURL     = "/api/slots/%s"
	locksURL    = "/api/slots/%s/locks"
	coverageURL = "/api/packages/%s/services/%s/coverage"
)

type BookingSuite struct {
	e2e.SharedSuite
}

func (s *BookingSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

// =============================================================================
// TestBookingLifecycle - lock, book, read, cancel
// =============================================================================

func (s *BookingSuite) TestBookingLifecycle() {
	s.Run("Normal case: package-covered booking consumes and restores counters", func() {
		t := s.T()

		slot := dbtest.SeedSlot(t, s.DB, builder.NewSlotBuilder().With(func(b *builder.SlotBuilder) {
			b.Capacity = 5
		}))
		usage := dbtest.SeedUsage(t, s.DB, builder.NewUsageBuilder(slot.ServiceID()).With(func(b *builder.UsageBuilder) {
			b.Original = 5
			b.Used = 3
		}))

		token := sessiontest.StartCheckout(t, s.Router, slot.TenantID())
		lock := sessiontest.AcquireLock(t, s.Router, token, slot.ID(), 3)
		require.Equal(t, 3, lock.ReservedCapacity)

		// quote before committing
		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(coverageURL, usage.SubscriptionID(), slot.ServiceID())+"?quantity=3", nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var quote response.CoverageResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &quote))
		require.Equal(t, 2, quote.Covered)
		require.Equal(t, 1, quote.Uncovered)

		// while held, the slot shows the lock
		view := s.getSlot(t, slot.ID())
		require.Equal(t, 3, view.LockedCapacity)
		require.Equal(t, 2, view.BookableCapacity)

		reqBody := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.SlotID = slot.ID()
			b.LockID = lock.ID
			b.Visitors = 3
		}).WithPackage(usage.SubscriptionID(), 2).BuildCreateRequestDTO()

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		want := response.BookingResponse{
			TenantID:               slot.TenantID(),
			SlotID:                 slot.ID(),
			VisitorCount:           3,
			PackageSubscriptionID:  ptr(usage.SubscriptionID()),
			PackageCoveredQuantity: 2,
			PaidQuantity:           1,
			Status:                 "pending",
			PaymentStatus:          "pending",
			CustomerName:           "Alex Doe",
			CustomerEmail:          "alex@example.com",
			Allocations:            []response.AllocationResponse{{SlotID: slot.ID(), Quantity: 3}},
		}
		if diff := cmp.Diff(want, created, cmpopts.IgnoreFields(response.BookingResponse{}, "ID", "CreatedAt", "UpdatedAt")); diff != "" {
			t.Errorf("created booking mismatch (-want +got):\n%s", diff)
		}

		stored := dbtest.LoadSlot(t, s.DB, slot.ID())
		require.Equal(t, 2, stored.AvailableCapacity())
		require.Equal(t, 3, stored.BookedCount())
		require.Equal(t, 0, s.getSlot(t, slot.ID()).LockedCapacity, "lock is consumed by the booking")

		consumed := dbtest.LoadUsage(t, s.DB, usage.SubscriptionID(), usage.ServiceID())
		require.Equal(t, 0, consumed.Remaining())
		require.Equal(t, 5, consumed.Used())

		// read back
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(bookingURL, created.ID), nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var fetched response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &fetched))
		if diff := cmp.Diff(created, fetched, cmpopts.EquateApproxTime(time.Millisecond)); diff != "" {
			t.Errorf("fetched booking mismatch (-created +fetched):\n%s", diff)
		}

		// first cancel restores
		cancelled := s.cancel(t, created.ID)
		require.False(t, cancelled.AlreadyCancelled)
		require.Equal(t, "cancelled", cancelled.Status)

		restored := dbtest.LoadSlot(t, s.DB, slot.ID())
		require.Equal(t, 5, restored.AvailableCapacity())
		require.Equal(t, 0, restored.BookedCount())
		back := dbtest.LoadUsage(t, s.DB, usage.SubscriptionID(), usage.ServiceID())
		require.Equal(t, 2, back.Remaining())
		require.Equal(t, 3, back.Used())

		// second cancel is a no-op
		again := s.cancel(t, created.ID)
		require.True(t, again.AlreadyCancelled)
		require.Equal(t, 5, dbtest.LoadSlot(t, s.DB, slot.ID()).AvailableCapacity())
		require.Equal(t, 2, dbtest.LoadUsage(t, s.DB, usage.SubscriptionID(), usage.ServiceID()).Remaining())
	})

	s.Run("Normal case: confirmed booking is cancelled exactly once", func() {
		t := s.T()

		slot := dbtest.SeedSlot(t, s.DB, builder.NewSlotBuilder().With(func(b *builder.SlotBuilder) {
			b.Capacity = 2
		}))
		token := sessiontest.StartCheckout(t, s.Router, slot.TenantID())
		lock := sessiontest.AcquireLock(t, s.Router, token, slot.ID(), 2)

		reqBody := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.SlotID = slot.ID()
			b.LockID = lock.ID
		}).BuildCreateRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var created response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, fmt.Sprintf(statusURL, created.ID),
			request.TransitionStatusRequest{Status: "confirmed"}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		// cancellation only goes through the cancel endpoint
		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, fmt.Sprintf(statusURL, created.ID),
			request.TransitionStatusRequest{Status: "cancelled"}, "")
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
		require.Equal(t, 0, dbtest.LoadSlot(t, s.DB, slot.ID()).AvailableCapacity())

		cancelled := s.cancel(t, created.ID)
		require.False(t, cancelled.AlreadyCancelled)
		require.Equal(t, 2, dbtest.LoadSlot(t, s.DB, slot.ID()).AvailableCapacity())

		require.True(t, s.cancel(t, created.ID).AlreadyCancelled)
		require.Equal(t, 2, dbtest.LoadSlot(t, s.DB, slot.ID()).AvailableCapacity())

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, fmt.Sprintf(statusURL, created.ID),
			request.TransitionStatusRequest{Status: "confirmed"}, "")
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	s.Run("Normal case: employee slots are allocated in parallel", func() {
		t := s.T()

		first := dbtest.SeedSlot(t, s.DB, builder.NewSlotBuilder().ForEmployee(uuid.New()))
		second := dbtest.SeedSlot(t, s.DB, builder.NewSlotBuilder().ForEmployee(uuid.New()).With(func(b *builder.SlotBuilder) {
			b.TenantID = first.TenantID()
			b.ServiceID = first.ServiceID()
		}))

		token := sessiontest.StartCheckout(t, s.Router, first.TenantID())
		lock := sessiontest.AcquireLock(t, s.Router, token, first.ID(), 1)

		policy := "parallel"
		reqBody := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.SlotID = first.ID()
			b.LockID = lock.ID
		}).BuildCreateRequestDTO()
		reqBody.AllocationPolicy = &policy

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var created response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		want := []response.AllocationResponse{
			{SlotID: first.ID(), Quantity: 1},
			{SlotID: second.ID(), Quantity: 1},
		}
		less := func(a, b response.AllocationResponse) bool { return a.SlotID.String() < b.SlotID.String() }
		if diff := cmp.Diff(want, created.Allocations, cmpopts.SortSlices(less)); diff != "" {
			t.Errorf("allocations mismatch (-want +got):\n%s", diff)
		}
		require.Equal(t, 0, dbtest.LoadSlot(t, s.DB, first.ID()).AvailableCapacity())
		require.Equal(t, 0, dbtest.LoadSlot(t, s.DB, second.ID()).AvailableCapacity())

		s.cancel(t, created.ID)
		require.Equal(t, 1, dbtest.LoadSlot(t, s.DB, first.ID()).AvailableCapacity())
		require.Equal(t, 1, dbtest.LoadSlot(t, s.DB, second.ID()).AvailableCapacity())
	})

	s.Run("Error case: booking on another session's lock is rejected", func() {
		t := s.T()

		slot := dbtest.SeedSlot(t, s.DB, builder.NewSlotBuilder().With(func(b *builder.SlotBuilder) {
			b.Capacity = 2
		}))
		owner := sessiontest.StartCheckout(t, s.Router, slot.TenantID())
		intruder := sessiontest.StartCheckout(t, s.Router, slot.TenantID())
		lock := sessiontest.AcquireLock(t, s.Router, owner, slot.ID(), 2)

		reqBody := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.SlotID = slot.ID()
			b.LockID = lock.ID
		}).BuildCreateRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reqBody, intruder)
		httptest.AssertErrorCode(t, w, http.StatusConflict, "lock_invalid")
		require.Equal(t, 0, dbtest.CountRows(t, s.DB, "bookings"))
		require.Equal(t, 2, dbtest.LoadSlot(t, s.DB, slot.ID()).AvailableCapacity())
	})

	s.Run("Error case: slot of another tenant is not found", func() {
		t := s.T()

		slot := dbtest.SeedSlot(t, s.DB, builder.NewSlotBuilder())
		token := sessiontest.StartCheckout(t, s.Router, uuid.New())

		reqBody := builder.NewBookingBuilder().WithoutLock().With(func(b *builder.BookingBuilder) {
			b.SlotID = slot.ID()
			b.Visitors = 1
		}).BuildCreateRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reqBody, token)

		httptest.AssertErrorCode(t, w, http.StatusNotFound, "not_found")
		require.Equal(t, 0, dbtest.CountRows(t, s.DB, "bookings"))
		require.Equal(t, 1, dbtest.LoadSlot(t, s.DB, slot.ID()).AvailableCapacity())
	})

	s.Run("Error case: released lock cannot be booked", func() {
		t := s.T()

		slot := dbtest.SeedSlot(t, s.DB, builder.NewSlotBuilder())
		token := sessiontest.StartCheckout(t, s.Router, slot.TenantID())
		lock := sessiontest.AcquireLock(t, s.Router, token, slot.ID(), 1)

		w := httptest.PerformRequest(t, s.Router, http.MethodDelete, "/api/locks/"+lock.ID.String(), nil, token)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		reqBody := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.SlotID = slot.ID()
			b.LockID = lock.ID
			b.Visitors = 1
		}).BuildCreateRequestDTO()
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reqBody, token)
		httptest.AssertErrorCode(t, w, http.StatusGone, "lock_gone")
	})
}

// =============================================================================
// TestConcurrentCheckout - no oversell under contention
// =============================================================================

func (s *BookingSuite) TestConcurrentCheckout() {
	s.Run("Normal case: racing lock requests never exceed capacity", func() {
		t := s.T()

		const (
			capacity = 3
			racers   = 12
		)
		slot := dbtest.SeedSlot(t, s.DB, builder.NewSlotBuilder().With(func(b *builder.SlotBuilder) {
			b.Capacity = capacity
		}))

		tokens := make([]string, racers)
		for i := range tokens {
			tokens[i] = sessiontest.StartCheckout(t, s.Router, slot.TenantID())
		}

		codes := make([]int, racers)
		var wg sync.WaitGroup
		for i := range racers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(locksURL, slot.ID()),
					request.AcquireLockRequest{Quantity: 1}, tokens[i])
				codes[i] = w.Code
			}(i)
		}
		wg.Wait()

		created, conflicts := 0, 0
		for _, code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				conflicts++
			default:
				t.Errorf("unexpected status %d", code)
			}
		}
		require.Equal(t, capacity, created)
		require.Equal(t, racers-capacity, conflicts)
		require.Equal(t, capacity, s.getSlot(t, slot.ID()).LockedCapacity)
	})

	s.Run("Normal case: walk-in bookings race for the last unit", func() {
		t := s.T()

		slot := dbtest.SeedSlot(t, s.DB, builder.NewSlotBuilder())
		reqBody := builder.NewBookingBuilder().WithoutLock().With(func(b *builder.BookingBuilder) {
			b.SlotID = slot.ID()
			b.Visitors = 1
		}).BuildCreateRequestDTO()
		tokens := []string{
			sessiontest.StartCheckout(t, s.Router, slot.TenantID()),
			sessiontest.StartCheckout(t, s.Router, slot.TenantID()),
		}

		codes := make([]int, len(tokens))
		bodies := make([]string, len(tokens))
		var wg sync.WaitGroup
		for i := range tokens {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reqBody, tokens[i])
				codes[i] = w.Code
				bodies[i] = w.Body.String()
			}(i)
		}
		wg.Wait()

		require.ElementsMatch(t, []int{http.StatusCreated, http.StatusConflict}, codes, bodies)
		for i, code := range codes {
			if code == http.StatusConflict {
				require.Contains(t, bodies[i], `"code":"insufficient_capacity"`)
			}
		}
		stored := dbtest.LoadSlot(t, s.DB, slot.ID())
		require.Equal(t, 0, stored.AvailableCapacity())
		require.Equal(t, 1, stored.BookedCount())
		require.Equal(t, 1, dbtest.CountRows(t, s.DB, "bookings"))
	})

	s.Run("Normal case: concurrent bookings share one package balance", func() {
		t := s.T()

		const bookers = 4
		slot := dbtest.SeedSlot(t, s.DB, builder.NewSlotBuilder().With(func(b *builder.SlotBuilder) {
			b.Capacity = bookers
		}))
		usage := dbtest.SeedUsage(t, s.DB, builder.NewUsageBuilder(slot.ServiceID()).With(func(b *builder.UsageBuilder) {
			b.Original = 2
		}))

		bodies := make([]request.CreateBookingRequest, bookers)
		tokens := make([]string, bookers)
		for i := range bookers {
			tokens[i] = sessiontest.StartCheckout(t, s.Router, slot.TenantID())
			lock := sessiontest.AcquireLock(t, s.Router, tokens[i], slot.ID(), 1)
			subscriptionID := usage.SubscriptionID()
			bodies[i] = builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
				b.SlotID = slot.ID()
				b.LockID = lock.ID
				b.Visitors = 1
				b.SubscriptionID = &subscriptionID
			}).BuildCreateRequestDTO()
			// accept whatever coverage is left
			bodies[i].ExpectedCoveredQuantity = nil
		}

		results := make([]response.BookingResponse, bookers)
		codes := make([]int, bookers)
		var wg sync.WaitGroup
		for i := range bookers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, bodies[i], tokens[i])
				codes[i] = w.Code
				if w.Code == http.StatusCreated {
					_ = httptest.DecodeResponseBody(t, w.Body, &results[i])
				}
			}(i)
		}
		wg.Wait()

		covered := 0
		for i, code := range codes {
			require.Equal(t, http.StatusCreated, code, "booking %d", i)
			covered += results[i].PackageCoveredQuantity
		}
		require.Equal(t, 2, covered, "package coverage never exceeds the balance")

		stored := dbtest.LoadUsage(t, s.DB, usage.SubscriptionID(), usage.ServiceID())
		require.Equal(t, 0, stored.Remaining())
		require.Equal(t, 2, stored.Used())
		require.Equal(t, 0, dbtest.LoadSlot(t, s.DB, slot.ID()).AvailableCapacity())
	})
}

// =============================================================================
// helpers
// =============================================================================

func (s *BookingSuite) getSlot(t *testing.T, id uuid.UUID) response.SlotResponse {
	t.Helper()

	w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(slotURL, id), nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var view response.SlotResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &view))
	return view
}

func (s *BookingSuite) cancel(t *testing.T, id uuid.UUID) response.CancelBookingResponse {
	t.Helper()

	w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, id), nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res response.CancelBookingResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	return res
}

func ptr[T any](v T) *T { return &v }
