package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/stpnv0/AdventureBooker/internal/domain"
)

// Store keeps users, offerings and bookings in process memory. A single
// mutex serialises every write, so check-and-insert is atomic.
type Store struct {
	mu        sync.RWMutex
	users     map[string]*domain.User
	offerings map[string]*domain.Offering
	bookings  map[string]*domain.Booking
	now       func() time.Time
}

func New() *Store {
	return &Store{
		users:     make(map[string]*domain.User),
		offerings: make(map[string]*domain.Offering),
		bookings:  make(map[string]*domain.Booking),
		now:       time.Now,
	}
}

func (s *Store) AddUser(u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *u
	s.users[u.ID] = &cp
}

func (s *Store) AddOffering(o *domain.Offering) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *o
	s.offerings[o.ID] = &cp
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{s: s}
}

func (s *Store) Offerings() *OfferingRepository {
	return &OfferingRepository{s: s}
}

func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{s: s}
}

type UserRepository struct{ s *Store }

func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

type OfferingRepository struct{ s *Store }

func (r *OfferingRepository) GetByID(_ context.Context, id string) (*domain.Offering, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.offerings[id]
	if !ok {
		return nil, domain.ErrOfferingNotFound
	}
	cp := *o
	return &cp, nil
}

type BookingRepository struct{ s *Store }

func clone(b *domain.Booking) *domain.Booking {
	cp := *b
	return &cp
}

func (r *BookingRepository) pair(userID, offeringID string) []*domain.Booking {
	var res []*domain.Booking
	for _, b := range r.s.bookings {
		if b.UserID == userID && b.OfferingID == offeringID && !b.Cancelled {
			res = append(res, b)
		}
	}
	return res
}

func (r *BookingRepository) Create(_ context.Context, b *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[b.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	if _, ok := r.s.offerings[b.OfferingID]; !ok {
		return domain.ErrOfferingNotFound
	}

	if hit := domain.CheckConflict(r.pair(b.UserID, b.OfferingID), domain.Candidate{
		UserID:     b.UserID,
		OfferingID: b.OfferingID,
		StartDate:  b.StartDate,
		EndDate:    b.EndDate,
	}); hit != nil {
		return domain.NewConflictError(hit)
	}

	r.s.bookings[b.ID] = clone(b)
	return nil
}

func (r *BookingRepository) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return clone(b), nil
}

func (r *BookingRepository) details(b *domain.Booking) *domain.BookingDetails {
	d := &domain.BookingDetails{Booking: *b}
	if u, ok := r.s.users[b.UserID]; ok {
		d.User = u.Ref()
	}
	if o, ok := r.s.offerings[b.OfferingID]; ok {
		d.Offering = o.Ref()
	}
	d.TotalPrice = domain.ComputeTotal(d.Offering.UnitPrice, b.ParticipantCount, b.StartDate, b.EndDate)
	return d
}

func (r *BookingRepository) GetDetails(_ context.Context, id string) (*domain.BookingDetails, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return r.details(b), nil
}

func (r *BookingRepository) ListByUser(_ context.Context, userID string) ([]*domain.BookingDetails, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var res []*domain.BookingDetails
	for _, b := range r.s.bookings {
		if b.UserID == userID {
			res = append(res, r.details(b))
		}
	}
	sort.Slice(res, func(i, j int) bool {
		a, b := res[i].Booking, res[j].Booking
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return res, nil
}

func (r *BookingRepository) ListActiveForPair(_ context.Context, userID, offeringID string) ([]*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	pair := r.pair(userID, offeringID)
	res := make([]*domain.Booking, 0, len(pair))
	for _, b := range pair {
		res = append(res, clone(b))
	}
	return res, nil
}

func (r *BookingRepository) Update(_ context.Context, b *domain.Booking, prevUpdatedAt time.Time, recheck bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.bookings[b.ID]
	if !ok {
		return domain.ErrBookingNotFound
	}
	if !stored.UpdatedAt.Equal(prevUpdatedAt) {
		return domain.ErrStaleBooking
	}

	if recheck && !b.Cancelled {
		if hit := domain.CheckConflict(r.pair(b.UserID, b.OfferingID), domain.Candidate{
			UserID:           b.UserID,
			OfferingID:       b.OfferingID,
			StartDate:        b.StartDate,
			EndDate:          b.EndDate,
			ExcludeBookingID: b.ID,
		}); hit != nil {
			return domain.NewConflictError(hit)
		}
	}

	// напоминание не меняет updated_at, поэтому сохраняем его отметку
	next := clone(b)
	next.ReviewRemindedAt = stored.ReviewRemindedAt
	r.s.bookings[b.ID] = next
	return nil
}

func (r *BookingRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.bookings[id]; !ok {
		return domain.ErrBookingNotFound
	}
	delete(r.s.bookings, id)
	return nil
}

func (r *BookingRepository) matches(d *domain.BookingDetails, term string) bool {
	if term == "" {
		return true
	}
	for _, field := range []string{d.User.Name, d.User.Email, d.Offering.Name, d.Offering.Description} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func less(key domain.SortKey, a, b *domain.BookingDetails) bool {
	switch key {
	case domain.SortDateAsc, domain.SortDateDesc:
		if !a.Booking.StartDate.Equal(b.Booking.StartDate) {
			return a.Booking.StartDate.Before(b.Booking.StartDate) == (key == domain.SortDateAsc)
		}
	case domain.SortPriceAsc, domain.SortPriceDesc:
		if a.TotalPrice != b.TotalPrice {
			return (a.TotalPrice < b.TotalPrice) == (key == domain.SortPriceAsc)
		}
	default:
		if !a.Booking.CreatedAt.Equal(b.Booking.CreatedAt) {
			return a.Booking.CreatedAt.After(b.Booking.CreatedAt)
		}
		return a.Booking.ID > b.Booking.ID
	}
	return a.Booking.ID < b.Booking.ID
}

func (r *BookingRepository) Search(_ context.Context, q domain.ListQuery) ([]*domain.BookingDetails, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	term := strings.ToLower(q.Search)
	var all []*domain.BookingDetails
	for _, b := range r.s.bookings {
		d := r.details(b)
		if r.matches(d, term) {
			all = append(all, d)
		}
	}
	sort.Slice(all, func(i, j int) bool { return less(q.Sort, all[i], all[j]) })

	total := len(all)
	from := q.Offset()
	if from >= total {
		return []*domain.BookingDetails{}, total, nil
	}
	to := from + q.PageSize
	if to > total {
		to = total
	}
	return all[from:to], total, nil
}

func (r *BookingRepository) MarkReviewReminders(_ context.Context, today time.Time) ([]*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now().UTC()
	var res []*domain.Booking
	for _, b := range r.s.bookings {
		if b.Cancelled || b.Rating != nil || b.ReviewRemindedAt != nil || !b.EndDate.Before(today) {
			continue
		}
		reminded := now
		b.ReviewRemindedAt = &reminded
		res = append(res, clone(b))
	}
	return res, nil
}
