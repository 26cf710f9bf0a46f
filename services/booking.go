package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/juju/errors"

	"github.com/meinhoongagan/senior-care-app/calendar"
	"github.com/meinhoongagan/senior-care-app/logging"
	"github.com/meinhoongagan/senior-care-app/metrics"
	"github.com/meinhoongagan/senior-care-app/models"
	"github.com/meinhoongagan/senior-care-app/repository"
	"github.com/meinhoongagan/senior-care-app/validation"
)

const (
	// syncGrace keeps the reconciler away from bookings an inline sync may still be writing.
	syncGrace      = 5 * time.Minute
	reminderLead   = 60 * time.Minute
	reminderWindow = 5 * time.Minute
)

type CreateBookingInput struct {
	ProviderID  uint      `json:"providerId" validate:"required"`
	CategoryID  uint      `json:"categoryId" validate:"required"`
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=2000"`
	StartTime   time.Time `json:"startTime" validate:"required"`
	EndTime     time.Time `json:"endTime" validate:"required,gtfield=StartTime"`
	Location    string    `json:"location" validate:"max=255"`
	Budget      *float64  `json:"budget" validate:"omitempty,gte=0"`
	Notes       string    `json:"notes" validate:"max=2000"`
}

// UpdateBookingInput carries a partial update; nil fields are left unchanged.
type UpdateBookingInput struct {
	Title              *string               `json:"title" validate:"omitempty,min=1,max=200"`
	Description        *string               `json:"description" validate:"omitempty,max=2000"`
	StartTime          *time.Time            `json:"startTime"`
	EndTime            *time.Time            `json:"endTime"`
	Location           *string               `json:"location" validate:"omitempty,max=255"`
	Budget             *float64              `json:"budget" validate:"omitempty,gte=0"`
	Notes              *string               `json:"notes" validate:"omitempty,max=2000"`
	Status             *models.BookingStatus `json:"status"`
	CancellationReason *string               `json:"cancellationReason" validate:"omitempty,max=500"`
}

func (in UpdateBookingInput) touchesCalendar() bool {
	return in.Title != nil || in.Description != nil || in.Location != nil || in.StartTime != nil || in.EndTime != nil
}

type BookingResult struct {
	Booking       *models.Booking `json:"booking"`
	CalendarAdded bool            `json:"calendarAdded"`
}

type ReconcileResult struct {
	Processed int `json:"processed"`
	Synced    int `json:"synced"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

type DashboardStats struct {
	Total    int64                `json:"total"`
	ByStatus []models.StatusCount `json:"byStatus"`
}

type BookingService struct {
	users      repository.UserRepository
	bookings   repository.BookingRepository
	categories repository.CategoryRepository
	calendar   CalendarSync
	mailer     Mailer
	now        clock
}

func NewBookingService(
	users repository.UserRepository,
	bookings repository.BookingRepository,
	categories repository.CategoryRepository,
	cal CalendarSync,
	mailer Mailer,
) *BookingService {
	return &BookingService{
		users:      users,
		bookings:   bookings,
		categories: categories,
		calendar:   cal,
		mailer:     mailer,
		now:        time.Now,
	}
}

func eventFor(b *models.Booking) calendar.Event {
	ev := calendar.Event{
		Summary:     b.Title,
		Description: b.Description,
		Location:    b.Location,
		Start:       b.StartTime,
		End:         b.EndTime,
	}
	if b.Provider != nil {
		ev.Description = strings.TrimSpace(fmt.Sprintf("%s\n\nProvider: %s", b.Description, providerLabel(b.Provider)))
	}
	return ev
}

func providerLabel(p *models.User) string {
	if p.BusinessName != "" {
		return p.BusinessName
	}
	return p.FullName()
}

// connected reports whether the customer has linked a calendar. Lookup
// failures count as not connected.
func (s *BookingService) connected(ctx context.Context, customerID uint) bool {
	ok, err := s.calendar.HasConnection(ctx, customerID)
	if err != nil {
		logging.Warn().Err(err).Uint("user_id", customerID).Msg("Calendar connection check failed")
		return false
	}
	return ok
}

func (s *BookingService) markSynced(b *models.Booking) {
	now := s.now()
	b.SyncStatus = models.SyncStatusSynced
	b.SyncError = ""
	b.SyncedAt = &now
}

func markFailed(b *models.Booking, err error) {
	b.SyncStatus = models.SyncStatusSyncFailed
	b.SyncError = err.Error()
}

// Create books a provider for the calling customer. A calendar failure never
// fails the booking; it is left in SYNC_FAILED for the reconciler.
func (s *BookingService) Create(ctx context.Context, callerID uint, in CreateBookingInput) (*BookingResult, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	customer, err := findUser(ctx, s.users, callerID, "Customer")
	if err != nil {
		return nil, err
	}
	if customer.Role != models.RoleCustomer {
		return nil, forbidden("Only customers can create bookings")
	}

	provider, err := s.users.FindByID(ctx, in.ProviderID)
	if errors.Is(err, errors.NotFound) || (err == nil && provider.Role != models.RoleProvider) {
		return nil, notFound("Provider not found")
	}
	if err != nil {
		return nil, errors.Trace(err)
	}
	category, err := s.categories.FindCategoryByID(ctx, in.CategoryID)
	if errors.Is(err, errors.NotFound) {
		return nil, notFound("Category not found")
	}
	if err != nil {
		return nil, errors.Trace(err)
	}

	booking := &models.Booking{
		CustomerID:  customer.ID,
		ProviderID:  provider.ID,
		CategoryID:  category.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		StartTime:   in.StartTime.UTC(),
		EndTime:     in.EndTime.UTC(),
		Duration:    models.DurationMinutes(in.StartTime, in.EndTime),
		Location:    in.Location,
		Budget:      in.Budget,
		Notes:       in.Notes,
		Status:      models.BookingStatusPending,
		SyncStatus:  models.SyncStatusNotSynced,
	}
	connected := s.connected(ctx, customer.ID)
	if connected {
		booking.SyncStatus = models.SyncStatusPendingSync
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, errors.Trace(err)
	}
	booking.Customer, booking.Provider, booking.Category = customer, provider, category

	logger := logging.With().Uint("booking_id", booking.ID).Logger()
	logger.Info().Uint("customer_id", customer.ID).Uint("provider_id", provider.ID).Msg("Booking created")

	result := &BookingResult{Booking: booking}
	if !connected {
		return result, nil
	}

	eventID, err := s.calendar.CreateEvent(ctx, customer.ID, eventFor(booking))
	if err != nil {
		logger.Warn().Err(err).Msg("Calendar event creation failed")
		markFailed(booking, err)
	} else {
		booking.GoogleEventID = &eventID
		s.markSynced(booking)
		result.CalendarAdded = true
	}
	if err := s.bookings.Update(ctx, booking); err != nil {
		logger.Error().Err(err).Msg("Failed to record calendar sync state")
	}
	return result, nil
}

// List returns the caller's bookings: as provider for providers, as customer otherwise.
func (s *BookingService) List(ctx context.Context, callerID uint) ([]models.Booking, error) {
	caller, err := findUser(ctx, s.users, callerID, "User")
	if err != nil {
		return nil, err
	}
	var bookings []models.Booking
	if caller.Role == models.RoleProvider {
		bookings, err = s.bookings.ListByProvider(ctx, caller.ID)
	} else {
		bookings, err = s.bookings.ListByCustomer(ctx, caller.ID)
	}
	return bookings, errors.Trace(err)
}

// Get returns a booking to its customer or provider. Anyone else sees NotFound.
func (s *BookingService) Get(ctx context.Context, callerID, id uint) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if errors.Is(err, errors.NotFound) {
		return nil, notFound("Booking not found")
	}
	if err != nil {
		return nil, errors.Trace(err)
	}
	if !booking.IsParty(callerID) {
		return nil, notFound("Booking not found")
	}
	return booking, nil
}

func (s *BookingService) Update(ctx context.Context, callerID, id uint, in UpdateBookingInput) (*models.Booking, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, validation.NewFieldError("status", "status must be one of: PENDING CONFIRMED IN_PROGRESS COMPLETED CANCELLED NO_SHOW")
	}
	booking, err := s.Get(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		booking.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		booking.Description = *in.Description
	}
	if in.Location != nil {
		booking.Location = *in.Location
	}
	if in.Budget != nil {
		booking.Budget = in.Budget
	}
	if in.Notes != nil {
		booking.Notes = *in.Notes
	}
	if in.Status != nil {
		booking.Status = *in.Status
	}
	if in.CancellationReason != nil {
		booking.CancellationReason = *in.CancellationReason
	}
	if in.StartTime != nil {
		booking.StartTime = in.StartTime.UTC()
	}
	if in.EndTime != nil {
		booking.EndTime = in.EndTime.UTC()
	}
	if (in.StartTime != nil || in.EndTime != nil) && !booking.EndTime.After(booking.StartTime) {
		return nil, validation.NewFieldError("endTime", "endTime must be after startTime")
	}
	if in.StartTime != nil && in.EndTime != nil {
		booking.Duration = models.DurationMinutes(booking.StartTime, booking.EndTime)
	}

	mirror := in.touchesCalendar() && booking.GoogleEventID != nil
	byCustomer := callerID == booking.CustomerID
	if mirror && !byCustomer {
		booking.SyncStatus = models.SyncStatusPendingSync
	}
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, errors.Trace(err)
	}

	if mirror && byCustomer {
		if err := s.calendar.UpdateEvent(ctx, booking.CustomerID, *booking.GoogleEventID, eventFor(booking)); err != nil {
			logging.Warn().Err(err).Uint("booking_id", booking.ID).Msg("Calendar event update failed")
			markFailed(booking, err)
		} else {
			s.markSynced(booking)
		}
		if err := s.bookings.Update(ctx, booking); err != nil {
			logging.Error().Err(err).Uint("booking_id", booking.ID).Msg("Failed to record calendar sync state")
		}
	}
	return booking, nil
}

func (s *BookingService) Delete(ctx context.Context, callerID, id uint) error {
	booking, err := s.Get(ctx, callerID, id)
	if err != nil {
		return err
	}
	if booking.GoogleEventID != nil && callerID == booking.CustomerID {
		if err := s.calendar.DeleteEvent(ctx, booking.CustomerID, *booking.GoogleEventID); err != nil {
			logging.Warn().Err(err).Uint("booking_id", booking.ID).Msg("Calendar event deletion failed")
		}
	}
	if err := s.bookings.Delete(ctx, booking.ID); err != nil {
		return errors.Trace(err)
	}
	logging.Info().Uint("booking_id", booking.ID).Uint("user_id", callerID).Msg("Booking deleted")
	return nil
}

// ReconcileCalendar pushes bookings whose calendar copy is pending or failed.
// Synced bookings are never selected, so repeated runs are idempotent.
func (s *BookingService) ReconcileCalendar(ctx context.Context, limit int) (*ReconcileResult, error) {
	pending, err := s.bookings.ListForSync(ctx,
		[]models.SyncStatus{models.SyncStatusPendingSync, models.SyncStatusSyncFailed},
		s.now().Add(-syncGrace), limit)
	if err != nil {
		return nil, errors.Trace(err)
	}

	result := &ReconcileResult{}
	for i := range pending {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		booking := &pending[i]
		result.Processed++

		switch {
		case !s.connected(ctx, booking.CustomerID):
			booking.SyncStatus = models.SyncStatusNotSynced
			booking.SyncError = ""
			result.Skipped++
		case booking.GoogleEventID == nil:
			eventID, err := s.calendar.CreateEvent(ctx, booking.CustomerID, eventFor(booking))
			if err != nil {
				markFailed(booking, err)
				result.Failed++
				break
			}
			booking.GoogleEventID = &eventID
			s.markSynced(booking)
			result.Synced++
		default:
			if err := s.calendar.UpdateEvent(ctx, booking.CustomerID, *booking.GoogleEventID, eventFor(booking)); err != nil {
				markFailed(booking, err)
				result.Failed++
				break
			}
			s.markSynced(booking)
			result.Synced++
		}

		if err := s.bookings.Update(ctx, booking); err != nil {
			logging.Error().Err(err).Uint("booking_id", booking.ID).Msg("Failed to record calendar sync state")
		}
	}

	if result.Processed > 0 {
		logging.Info().
			Int("processed", result.Processed).
			Int("synced", result.Synced).
			Int("failed", result.Failed).
			Int("skipped", result.Skipped).
			Msg("Calendar reconciliation finished")
	}
	return result, nil
}

// SendReminders mails customers whose confirmed booking starts in about an hour.
func (s *BookingService) SendReminders(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.bookings.ListDueReminders(ctx, now.Add(reminderLead-reminderWindow), now.Add(reminderLead+reminderWindow))
	if err != nil {
		return 0, errors.Trace(err)
	}

	sent := 0
	for i := range due {
		booking := &due[i]
		customer := booking.Customer
		if customer == nil {
			if customer, err = findUser(ctx, s.users, booking.CustomerID, "Customer"); err != nil {
				logging.Warn().Err(err).Uint("booking_id", booking.ID).Msg("Skipping reminder")
				continue
			}
		}

		err := s.mailer.SendEmail(customer.Email, "Upcoming appointment reminder", reminderBody(customer, booking))
		metrics.RecordEmail("reminder", err)
		if err != nil {
			logging.Warn().Err(err).Uint("booking_id", booking.ID).Msg("Failed to send reminder")
			continue
		}

		stamp := s.now()
		booking.ReminderSentAt = &stamp
		if err := s.bookings.Update(ctx, booking); err != nil {
			logging.Error().Err(err).Uint("booking_id", booking.ID).Msg("Failed to record reminder")
			continue
		}
		sent++
	}
	return sent, nil
}

func reminderBody(customer *models.User, b *models.Booking) string {
	with := ""
	if b.Provider != nil {
		with = " with " + providerLabel(b.Provider)
	}
	return fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>This is a reminder that <strong>%s</strong>%s starts at %s.</p>
		<p>Location: %s</p>
	`, customer.FullName(), b.Title, with, b.StartTime.UTC().Format("Mon, 02 Jan 2006 15:04 MST"), b.Location)
}

// Stats counts bookings per status. Every status is present, zero-filled.
func (s *BookingService) Stats(ctx context.Context, callerID uint) (*DashboardStats, error) {
	caller, err := findUser(ctx, s.users, callerID, "User")
	if err != nil {
		return nil, err
	}

	var counts []models.StatusCount
	switch caller.Role {
	case models.RoleAdmin:
		counts, err = s.bookings.CountByStatus(ctx, 0, false)
	case models.RoleProvider:
		counts, err = s.bookings.CountByStatus(ctx, caller.ID, true)
	default:
		counts, err = s.bookings.CountByStatus(ctx, caller.ID, false)
	}
	if err != nil {
		return nil, errors.Trace(err)
	}

	byStatus := make(map[models.BookingStatus]int64, len(counts))
	for _, c := range counts {
		byStatus[c.Status] += c.Count
	}
	stats := &DashboardStats{ByStatus: make([]models.StatusCount, 0, len(models.BookingStatuses))}
	for _, status := range models.BookingStatuses {
		stats.ByStatus = append(stats.ByStatus, models.StatusCount{Status: status, Count: byStatus[status]})
		stats.Total += byStatus[status]
	}
	return stats, nil
}
