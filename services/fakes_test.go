package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/juju/errors"

	"github.com/meinhoongagan/senior-care-app/ai"
	"github.com/meinhoongagan/senior-care-app/calendar"
	"github.com/meinhoongagan/senior-care-app/models"
	"github.com/meinhoongagan/senior-care-app/repository"
	"github.com/meinhoongagan/senior-care-app/storage"
)

func missing(entity string) error {
	return errors.WithType(errors.New(entity+" not found"), errors.NotFound)
}

func duplicate(entity string) error {
	return errors.WithType(errors.New(entity+" already exists"), errors.AlreadyExists)
}

// fakeUsers is an in-memory UserRepository. Rows are copied in and out so
// services cannot mutate stored state without calling Update.
type fakeUsers struct {
	mu     sync.Mutex
	rows   map[uint]*models.User
	nextID uint

	UpdateCalls int
	DeleteCalls []uint

	FindByIDError error
	CreateError   error
	UpdateError   error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func newFakeUsers() *fakeUsers {
	return &fakeUsers{rows: make(map[uint]*models.User), nextID: 1}
}

// seed stores u as-is, assigning an id when it has none.
func (f *fakeUsers) seed(u *models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == 0 {
		u.ID = f.nextID
	}
	if u.ID >= f.nextID {
		f.nextID = u.ID + 1
	}
	if u.VettedStatus == "" {
		u.VettedStatus = models.VettedStatusNotVetted
	}
	c := *u
	f.rows[u.ID] = &c
	return u
}

func (f *fakeUsers) get(id uint) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.rows[id]; ok {
		c := *u
		return &c
	}
	return nil
}

func (f *fakeUsers) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateError != nil {
		return f.CreateError
	}
	for _, u := range f.rows {
		if u.Username == user.Username || u.Email == user.Email {
			return duplicate("user")
		}
	}
	_ = user.BeforeCreate(nil)
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now().Add(time.Duration(user.ID) * time.Millisecond)
	user.UpdatedAt = user.CreatedAt
	c := *user
	f.rows[user.ID] = &c
	return nil
}

func (f *fakeUsers) FindByID(ctx context.Context, id uint) (*models.User, error) {
	if f.FindByIDError != nil {
		return nil, f.FindByIDError
	}
	if u := f.get(id); u != nil {
		return u, nil
	}
	return nil, missing("user")
}

func (f *fakeUsers) find(match func(*models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, missing("user")
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Email == email })
}

func (f *fakeUsers) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return f.find(func(u *models.User) bool {
		return u.Username == identifier || u.Email == strings.ToLower(identifier)
	})
}

func (f *fakeUsers) IsTaken(ctx context.Context, username, email string, excludeID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.ID == excludeID {
			continue
		}
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) Update(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	if f.UpdateError != nil {
		return f.UpdateError
	}
	if _, ok := f.rows[user.ID]; !ok {
		return missing("user")
	}
	c := *user
	f.rows[user.ID] = &c
	return nil
}

func (f *fakeUsers) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls = append(f.DeleteCalls, id)
	if _, ok := f.rows[id]; !ok {
		return missing("user")
	}
	for uid, u := range f.rows {
		if u.ParentUserID != nil && *u.ParentUserID == id {
			delete(f.rows, uid)
		}
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeUsers) ListDelegates(ctx context.Context, parentID uint) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.rows {
		if u.ParentUserID != nil && *u.ParentUserID == parentID {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeUsers) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.rows {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.VettedStatus != "" && u.VettedStatus != filter.VettedStatus {
			continue
		}
		if filter.ServiceType != "" && !strings.EqualFold(u.ServiceType, filter.ServiceType) {
			continue
		}
		if filter.Search != "" {
			haystack := strings.ToLower(u.FirstName + " " + u.LastName + " " + u.BusinessName + " " + u.Username)
			if !strings.Contains(haystack, strings.ToLower(filter.Search)) {
				continue
			}
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) SaveCalendarToken(ctx context.Context, id uint, accessToken, refreshToken string, expiry time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok {
		return missing("user")
	}
	u.GoogleAccessToken, u.GoogleRefreshToken, u.GoogleTokenExpiry = &accessToken, &refreshToken, &expiry
	return nil
}

func (f *fakeUsers) ClearCalendarToken(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok {
		return missing("user")
	}
	u.GoogleAccessToken, u.GoogleRefreshToken, u.GoogleTokenExpiry = nil, nil, nil
	return nil
}

// fakeBookings joins customer and provider from the user fake on reads.
type fakeBookings struct {
	mu     sync.Mutex
	rows   map[uint]*models.Booking
	nextID uint
	users  *fakeUsers
	now    func() time.Time

	UpdateCalls int
	UpdateError error
}

var _ repository.BookingRepository = (*fakeBookings)(nil)

func newFakeBookings(users *fakeUsers) *fakeBookings {
	return &fakeBookings{rows: make(map[uint]*models.Booking), nextID: 1, users: users, now: time.Now}
}

// seed stores b without touching its timestamps.
func (f *fakeBookings) seed(b *models.Booking) *models.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.ID == 0 {
		b.ID = f.nextID
		f.nextID++
	}
	_ = b.BeforeCreate(nil)
	c := *b
	f.rows[b.ID] = &c
	return b
}

func (f *fakeBookings) get(id uint) *models.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.rows[id]; ok {
		c := *b
		return &c
	}
	return nil
}

func (f *fakeBookings) join(b models.Booking) models.Booking {
	b.Customer = f.users.get(b.CustomerID)
	b.Provider = f.users.get(b.ProviderID)
	return b
}

func (f *fakeBookings) Create(ctx context.Context, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_ = booking.BeforeCreate(nil)
	booking.ID = f.nextID
	f.nextID++
	booking.CreatedAt, booking.UpdatedAt = f.now(), f.now()
	c := *booking
	c.Customer, c.Provider, c.Category = nil, nil, nil
	f.rows[booking.ID] = &c
	return nil
}

func (f *fakeBookings) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	b := f.get(id)
	if b == nil {
		return nil, missing("booking")
	}
	joined := f.join(*b)
	return &joined, nil
}

func (f *fakeBookings) list(match func(*models.Booking) bool) []models.Booking {
	f.mu.Lock()
	var out []models.Booking
	for _, b := range f.rows {
		if match(b) {
			out = append(out, *b)
		}
	}
	f.mu.Unlock()
	for i := range out {
		out[i] = f.join(out[i])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out
}

func (f *fakeBookings) ListByCustomer(ctx context.Context, customerID uint) ([]models.Booking, error) {
	return f.list(func(b *models.Booking) bool { return b.CustomerID == customerID }), nil
}

func (f *fakeBookings) ListByProvider(ctx context.Context, providerID uint) ([]models.Booking, error) {
	return f.list(func(b *models.Booking) bool { return b.ProviderID == providerID }), nil
}

func (f *fakeBookings) Update(ctx context.Context, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	if f.UpdateError != nil {
		return f.UpdateError
	}
	if _, ok := f.rows[booking.ID]; !ok {
		return missing("booking")
	}
	booking.UpdatedAt = f.now()
	c := *booking
	c.Customer, c.Provider, c.Category = nil, nil, nil
	f.rows[booking.ID] = &c
	return nil
}

func (f *fakeBookings) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return missing("booking")
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeBookings) CountActiveForUser(ctx context.Context, userID uint) (int64, error) {
	active := f.list(func(b *models.Booking) bool {
		return (b.CustomerID == userID || b.ProviderID == userID) &&
			(b.Status == models.BookingStatusPending || b.Status == models.BookingStatusConfirmed)
	})
	return int64(len(active)), nil
}

func (f *fakeBookings) ListForSync(ctx context.Context, statuses []models.SyncStatus, updatedBefore time.Time, limit int) ([]models.Booking, error) {
	out := f.list(func(b *models.Booking) bool {
		if !b.UpdatedAt.Before(updatedBefore) {
			return false
		}
		for _, s := range statuses {
			if b.SyncStatus == s {
				return true
			}
		}
		return false
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeBookings) ListDueReminders(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	return f.list(func(b *models.Booking) bool {
		return b.Status == models.BookingStatusConfirmed && b.ReminderSentAt == nil &&
			!b.StartTime.Before(from) && !b.StartTime.After(to)
	}), nil
}

func (f *fakeBookings) CountByStatus(ctx context.Context, userID uint, asProvider bool) ([]models.StatusCount, error) {
	counts := map[models.BookingStatus]int64{}
	for _, b := range f.list(func(*models.Booking) bool { return true }) {
		switch {
		case userID == 0:
		case asProvider && b.ProviderID != userID:
			continue
		case !asProvider && b.CustomerID != userID:
			continue
		}
		counts[b.Status]++
	}
	var out []models.StatusCount
	for status, n := range counts {
		out = append(out, models.StatusCount{Status: status, Count: n})
	}
	return out, nil
}

type fakeCategories struct {
	mu     sync.Mutex
	cats   map[uint]*models.Category
	subs   map[uint]*models.Subcategory
	nextID uint

	DeleteError error
}

var _ repository.CategoryRepository = (*fakeCategories)(nil)

func newFakeCategories() *fakeCategories {
	return &fakeCategories{cats: map[uint]*models.Category{}, subs: map[uint]*models.Subcategory{}, nextID: 1}
}

func (f *fakeCategories) CreateCategory(ctx context.Context, c *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.cats {
		if existing.Slug == c.Slug {
			return duplicate("category")
		}
	}
	c.ID = f.nextID
	f.nextID++
	cp := *c
	f.cats[c.ID] = &cp
	return nil
}

func (f *fakeCategories) UpdateCategory(ctx context.Context, c *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.cats {
		if existing.Slug == c.Slug && existing.ID != c.ID {
			return duplicate("category")
		}
	}
	cp := *c
	cp.Subcategories = nil
	f.cats[c.ID] = &cp
	return nil
}

func (f *fakeCategories) DeleteCategory(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteError != nil {
		return f.DeleteError
	}
	if _, ok := f.cats[id]; !ok {
		return missing("category")
	}
	for sid, s := range f.subs {
		if s.CategoryID == id {
			delete(f.subs, sid)
		}
	}
	delete(f.cats, id)
	return nil
}

func (f *fakeCategories) FindCategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.cats[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, missing("category")
}

func (f *fakeCategories) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.cats {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, missing("category")
}

func (f *fakeCategories) ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Category
	for _, c := range f.cats {
		if includeInactive || c.IsActive {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (f *fakeCategories) CreateSubcategory(ctx context.Context, s *models.Subcategory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.subs {
		if existing.Slug == s.Slug {
			return duplicate("subcategory")
		}
	}
	s.ID = f.nextID
	f.nextID++
	cp := *s
	f.subs[s.ID] = &cp
	return nil
}

func (f *fakeCategories) UpdateSubcategory(ctx context.Context, s *models.Subcategory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.subs[s.ID] = &cp
	return nil
}

func (f *fakeCategories) DeleteSubcategory(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteError != nil {
		return f.DeleteError
	}
	if _, ok := f.subs[id]; !ok {
		return missing("subcategory")
	}
	delete(f.subs, id)
	return nil
}

func (f *fakeCategories) FindSubcategoryByID(ctx context.Context, id uint) (*models.Subcategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.subs[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, missing("subcategory")
}

func (f *fakeCategories) FindSubcategoryBySlug(ctx context.Context, slug string) (*models.Subcategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subs {
		if s.Slug == slug {
			cp := *s
			return &cp, nil
		}
	}
	return nil, missing("subcategory")
}

func (f *fakeCategories) ListSubcategories(ctx context.Context, categoryID uint, includeInactive bool) ([]models.Subcategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Subcategory
	for _, s := range f.subs {
		if s.CategoryID == categoryID && (includeInactive || s.IsActive) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

type fakeServiceRequests struct {
	mu     sync.Mutex
	rows   map[uint]*models.ServiceRequest
	nextID uint
}

var _ repository.ServiceRequestRepository = (*fakeServiceRequests)(nil)

func newFakeServiceRequests() *fakeServiceRequests {
	return &fakeServiceRequests{rows: map[uint]*models.ServiceRequest{}, nextID: 1}
}

func (f *fakeServiceRequests) Create(ctx context.Context, req *models.ServiceRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_ = req.BeforeCreate(nil)
	req.ID = f.nextID
	f.nextID++
	cp := *req
	f.rows[req.ID] = &cp
	return nil
}

func (f *fakeServiceRequests) FindByID(ctx context.Context, id uint) (*models.ServiceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.rows[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, missing("service request")
}

func (f *fakeServiceRequests) filter(match func(*models.ServiceRequest) bool) []models.ServiceRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ServiceRequest
	for _, r := range f.rows {
		if match(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f *fakeServiceRequests) ListByUser(ctx context.Context, userID uint) ([]models.ServiceRequest, error) {
	return f.filter(func(r *models.ServiceRequest) bool { return r.UserID == userID }), nil
}

func (f *fakeServiceRequests) ListOpen(ctx context.Context, categoryID *uint) ([]models.ServiceRequest, error) {
	return f.filter(func(r *models.ServiceRequest) bool {
		return r.Status == models.ServiceRequestStatusPending && (categoryID == nil || r.CategoryID == *categoryID)
	}), nil
}

func (f *fakeServiceRequests) Update(ctx context.Context, req *models.ServiceRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *req
	f.rows[req.ID] = &cp
	return nil
}

func (f *fakeServiceRequests) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return missing("service request")
	}
	delete(f.rows, id)
	return nil
}

type fakeInquiries struct {
	mu     sync.Mutex
	rows   map[uint]*models.Inquiry
	nextID uint
}

var _ repository.InquiryRepository = (*fakeInquiries)(nil)

func newFakeInquiries() *fakeInquiries {
	return &fakeInquiries{rows: map[uint]*models.Inquiry{}, nextID: 1}
}

func (f *fakeInquiries) Create(ctx context.Context, inquiry *models.Inquiry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_ = inquiry.BeforeCreate(nil)
	inquiry.ID = f.nextID
	f.nextID++
	cp := *inquiry
	f.rows[inquiry.ID] = &cp
	return nil
}

func (f *fakeInquiries) FindByID(ctx context.Context, id uint) (*models.Inquiry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i, ok := f.rows[id]; ok {
		cp := *i
		return &cp, nil
	}
	return nil, missing("inquiry")
}

func (f *fakeInquiries) List(ctx context.Context, filter models.InquiryFilter) ([]models.Inquiry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Inquiry
	for _, i := range f.rows {
		if filter.Status != "" && i.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && i.Priority != filter.Priority {
			continue
		}
		out = append(out, *i)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID > out[b].ID })
	return out, nil
}

func (f *fakeInquiries) Update(ctx context.Context, inquiry *models.Inquiry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *inquiry
	f.rows[inquiry.ID] = &cp
	return nil
}

func (f *fakeInquiries) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return missing("inquiry")
	}
	delete(f.rows, id)
	return nil
}

// fakeNewsletter enforces the unique email index the way the database does.
type fakeNewsletter struct {
	mu     sync.Mutex
	rows   map[string]*models.NewsletterSubscription
	nextID uint
}

var _ repository.NewsletterRepository = (*fakeNewsletter)(nil)

func newFakeNewsletter() *fakeNewsletter {
	return &fakeNewsletter{rows: map[string]*models.NewsletterSubscription{}, nextID: 1}
}

func (f *fakeNewsletter) FindByEmail(ctx context.Context, email string) (*models.NewsletterSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.rows[email]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, missing("newsletter subscription")
}

func (f *fakeNewsletter) Create(ctx context.Context, sub *models.NewsletterSubscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[sub.Email]; ok {
		return duplicate("newsletter subscription")
	}
	sub.ID = f.nextID
	f.nextID++
	cp := *sub
	f.rows[sub.Email] = &cp
	return nil
}

func (f *fakeNewsletter) Update(ctx context.Context, sub *models.NewsletterSubscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *sub
	f.rows[sub.Email] = &cp
	return nil
}

func (f *fakeNewsletter) List(ctx context.Context) ([]models.NewsletterSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.NewsletterSubscription
	for _, s := range f.rows {
		out = append(out, *s)
	}
	return out, nil
}

type fakeCalendar struct {
	mu        sync.Mutex
	connected map[uint]bool
	events    map[string]calendar.Event
	nextID    int

	CreateCalls int
	UpdateCalls int
	DeleteCalls []string

	CreateError error
	UpdateError error
	DeleteError error
}

var _ CalendarSync = (*fakeCalendar)(nil)

func newFakeCalendar() *fakeCalendar {
	return &fakeCalendar{connected: map[uint]bool{}, events: map[string]calendar.Event{}}
}

func (f *fakeCalendar) HasConnection(ctx context.Context, userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected[userID], nil
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, userID uint, ev calendar.Event) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	if f.CreateError != nil {
		return "", f.CreateError
	}
	f.nextID++
	id := fmt.Sprintf("evt-%d", f.nextID)
	f.events[id] = ev
	return id, nil
}

func (f *fakeCalendar) UpdateEvent(ctx context.Context, userID uint, eventID string, ev calendar.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	if f.UpdateError != nil {
		return f.UpdateError
	}
	f.events[eventID] = ev
	return nil
}

func (f *fakeCalendar) DeleteEvent(ctx context.Context, userID uint, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls = append(f.DeleteCalls, eventID)
	if f.DeleteError != nil {
		return f.DeleteError
	}
	delete(f.events, eventID)
	return nil
}

type sentMail struct {
	To, Subject, Body string
}

type fakeMailer struct {
	mu   sync.Mutex
	Sent []sentMail
	Err  error
}

func (f *fakeMailer) SendEmail(to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Sent = append(f.Sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type fakeCompleter struct {
	Reply    string
	Err      error
	Messages []ai.Message
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []ai.Message) (string, error) {
	f.Messages = messages
	return f.Reply, f.Err
}

type fakeStore struct {
	mu      sync.Mutex
	Saved   []string
	Deleted []string
	n       int
}

var _ storage.Store = (*fakeStore)(nil)

func (f *fakeStore) Save(ctx context.Context, folder string, up storage.Upload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if up.Reader != nil {
		_, _ = io.Copy(io.Discard, up.Reader)
	}
	f.n++
	location := fmt.Sprintf("/uploads/%s/file-%d%s", folder, f.n, strings.ToLower(extOf(up.Filename)))
	f.Saved = append(f.Saved, location)
	return location, nil
}

func (f *fakeStore) Delete(ctx context.Context, location string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, location)
	return nil
}

func extOf(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

// Fixtures shared by the service tests.

func seedAdmin(users *fakeUsers) *models.User {
	return users.seed(&models.User{Username: "admin", Email: "admin@example.com", Role: models.RoleAdmin, EmailVerified: true})
}

func seedCustomer(users *fakeUsers, name string) *models.User {
	return users.seed(&models.User{Username: name, Email: name + "@example.com", Role: models.RoleCustomer, FirstName: name, EmailVerified: true})
}

func seedProvider(users *fakeUsers, name string) *models.User {
	return users.seed(&models.User{
		Username:      name,
		Email:         name + "@example.com",
		Role:          models.RoleProvider,
		BusinessName:  name + " Care",
		ServiceType:   "home-care",
		EmailVerified: true,
	})
}

func ptr[T any](v T) *T {
	return &v
}
