package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stpnv0/AdventureBooker/internal/domain"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
)

const bookingColumns = `b.id, b.user_id, b.offering_id, b.start_date, b.end_date, b.participant_count,
		b.rating, b.comment, b.cancelled, b.review_reminded_at, b.created_at, b.updated_at`

const detailsSelect = `SELECT ` + bookingColumns + `,
		u.name, u.email, o.name, o.description, o.unit_price_cents,
		o.unit_price_cents * b.participant_count * GREATEST(1, b.end_date - b.start_date) AS total_price
	FROM bookings b
	JOIN users u ON u.id = b.user_id
	JOIN offerings o ON o.id = b.offering_id`

var orderClauses = map[domain.SortKey]string{
	domain.SortDefault:   "b.created_at DESC, b.id DESC",
	domain.SortDateAsc:   "b.start_date ASC, b.id ASC",
	domain.SortDateDesc:  "b.start_date DESC, b.id ASC",
	domain.SortPriceAsc:  "total_price ASC, b.id ASC",
	domain.SortPriceDesc: "total_price DESC, b.id ASC",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type BookingRepository struct {
	db       *dbpg.DB
	strategy retry.Strategy
}

func NewBookingRepo(db *dbpg.DB) *BookingRepository {
	return &BookingRepository{
		db: db,
		strategy: retry.Strategy{
			Attempts: 3,
			Delay:    500 * time.Millisecond,
			Backoff:  2,
		},
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(s scanner, extra ...any) (*domain.Booking, error) {
	var (
		b        domain.Booking
		rating   sql.NullInt32
		comment  sql.NullString
		reminded sql.NullTime
	)
	dest := []any{
		&b.ID, &b.UserID, &b.OfferingID, &b.StartDate, &b.EndDate, &b.ParticipantCount,
		&rating, &comment, &b.Cancelled, &reminded, &b.CreatedAt, &b.UpdatedAt,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if rating.Valid {
		v := int(rating.Int32)
		b.Rating = &v
	}
	if comment.Valid {
		b.Comment = &comment.String
	}
	if reminded.Valid {
		b.ReviewRemindedAt = &reminded.Time
	}
	b.StartDate = domain.Date(b.StartDate)
	b.EndDate = domain.Date(b.EndDate)

	return &b, nil
}

func scanDetails(s scanner) (*domain.BookingDetails, error) {
	var d domain.BookingDetails
	b, err := scanBooking(s,
		&d.User.Name, &d.User.Email,
		&d.Offering.Name, &d.Offering.Description, &d.Offering.UnitPrice,
		&d.TotalPrice,
	)
	if err != nil {
		return nil, err
	}

	d.Booking = *b
	d.User.ID = b.UserID
	d.Offering.ID = b.OfferingID

	return &d, nil
}

func nullableRating(r *int) any {
	if r == nil {
		return nil
	}
	return *r
}

func nullableComment(c *string) any {
	if c == nil {
		return nil
	}
	return *c
}

// lockPair serialises writers of one (user, offering) pair for the rest of tx.
func lockPair(ctx context.Context, tx *sql.Tx, userID, offeringID string) error {
	_, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1), hashtext($2))`, userID, offeringID)
	return err
}

func activePair(ctx context.Context, q interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}, userID, offeringID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + `
			  FROM bookings b
			  WHERE b.user_id = $1 AND b.offering_id = $2 AND NOT b.cancelled
			  ORDER BY b.start_date`

	rows, err := q.QueryContext(ctx, query, userID, offeringID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		res = append(res, b)
	}

	return res, rows.Err()
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", mapError(err))
	}
	defer tx.Rollback()

	if err = lockPair(ctx, tx, b.UserID, b.OfferingID); err != nil {
		return fmt.Errorf("lock pair: %w", mapError(err))
	}

	existing, err := activePair(ctx, tx, b.UserID, b.OfferingID)
	if err != nil {
		return fmt.Errorf("load pair bookings: %w", mapError(err))
	}

	for _, e := range existing {
		// строка уже записана прошлой попыткой, ответ на COMMIT потерялся
		if e.ID == b.ID {
			return nil
		}
	}

	if hit := domain.CheckConflict(existing, domain.Candidate{
		UserID:           b.UserID,
		OfferingID:       b.OfferingID,
		StartDate:        b.StartDate,
		EndDate:          b.EndDate,
		ExcludeBookingID: b.ID,
	}); hit != nil {
		return domain.NewConflictError(hit)
	}

	query := `INSERT INTO bookings (id, user_id, offering_id, start_date, end_date, participant_count,
			  		cancelled, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7, $8)`
	_, err = tx.ExecContext(
		ctx, query, b.ID, b.UserID, b.OfferingID,
		b.StartDate, b.EndDate, b.ParticipantCount,
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		_ = tx.Rollback()
		return r.writeError(ctx, "insert booking", b, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", mapError(err))
	}

	return nil
}

// writeError turns an exclusion violation into the conflict the guard would
// have reported, filling in the colliding booking when it can be found.
// The failed transaction must already be rolled back.
func (r *BookingRepository) writeError(ctx context.Context, op string, b *domain.Booking, err error) error {
	mapped := mapError(err)
	if !errors.Is(mapped, domain.ErrBookingConflict) {
		return fmt.Errorf("%s: %w", op, mapped)
	}

	existing, lerr := r.ListActiveForPair(ctx, b.UserID, b.OfferingID)
	if lerr == nil {
		if hit := domain.CheckConflict(existing, domain.Candidate{
			UserID:           b.UserID,
			OfferingID:       b.OfferingID,
			StartDate:        b.StartDate,
			EndDate:          b.EndDate,
			ExcludeBookingID: b.ID,
		}); hit != nil {
			return domain.NewConflictError(hit)
		}
	}

	return mapped
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + `
			  FROM bookings b
			  WHERE b.id = $1`

	row, err := r.db.QueryRowWithRetry(ctx, r.strategy, query, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", mapError(err))
	}

	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("scan booking: %w", mapError(err))
	}

	return b, nil
}

func (r *BookingRepository) GetDetails(ctx context.Context, id string) (*domain.BookingDetails, error) {
	query := detailsSelect + ` WHERE b.id = $1`

	row, err := r.db.QueryRowWithRetry(ctx, r.strategy, query, id)
	if err != nil {
		return nil, fmt.Errorf("get booking details: %w", mapError(err))
	}

	d, err := scanDetails(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("scan booking details: %w", mapError(err))
	}

	return d, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]*domain.BookingDetails, error) {
	query := detailsSelect + `
			  WHERE b.user_id = $1
			  ORDER BY b.created_at DESC, b.id DESC`

	rows, err := r.db.QueryWithRetry(ctx, r.strategy, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by user: %w", mapError(err))
	}
	defer rows.Close()

	var res []*domain.BookingDetails
	for rows.Next() {
		d, err := scanDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		res = append(res, d)
	}

	return res, rows.Err()
}

func (r *BookingRepository) ListActiveForPair(ctx context.Context, userID, offeringID string) ([]*domain.Booking, error) {
	res, err := activePair(ctx, r.db.Master, userID, offeringID)
	if err != nil {
		return nil, fmt.Errorf("list pair bookings: %w", mapError(err))
	}
	return res, nil
}

func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking, prevUpdatedAt time.Time, recheck bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", mapError(err))
	}
	defer tx.Rollback()

	if recheck && !b.Cancelled {
		if err = lockPair(ctx, tx, b.UserID, b.OfferingID); err != nil {
			return fmt.Errorf("lock pair: %w", mapError(err))
		}

		existing, err := activePair(ctx, tx, b.UserID, b.OfferingID)
		if err != nil {
			return fmt.Errorf("load pair bookings: %w", mapError(err))
		}

		if hit := domain.CheckConflict(existing, domain.Candidate{
			UserID:           b.UserID,
			OfferingID:       b.OfferingID,
			StartDate:        b.StartDate,
			EndDate:          b.EndDate,
			ExcludeBookingID: b.ID,
		}); hit != nil {
			return domain.NewConflictError(hit)
		}
	}

	query := `UPDATE bookings
			  SET start_date = $2, end_date = $3, participant_count = $4,
			      rating = $5, comment = $6, cancelled = $7, updated_at = $8
			  WHERE id = $1 AND updated_at = $9`
	res, err := tx.ExecContext(
		ctx, query, b.ID,
		b.StartDate, b.EndDate, b.ParticipantCount,
		nullableRating(b.Rating), nullableComment(b.Comment), b.Cancelled,
		b.UpdatedAt, prevUpdatedAt,
	)
	if err != nil {
		_ = tx.Rollback()
		return r.writeError(ctx, "update booking", b, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("booking rows affected: %w", err)
	}
	if affected == 0 {
		// Определяем причину: бронь удалена или изменена параллельно
		var exists bool
		if err = tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = $1)`, b.ID).
			Scan(&exists); err != nil {
			return fmt.Errorf("check booking: %w", mapError(err))
		}
		if !exists {
			return domain.ErrBookingNotFound
		}
		return domain.ErrStaleBooking
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", mapError(err))
	}

	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecWithRetry(ctx, r.strategy, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", mapError(err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("booking rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrBookingNotFound
	}

	return nil
}

func searchFilter(term string) (string, []any) {
	if term == "" {
		return "", nil
	}
	pattern := "%" + likeEscaper.Replace(term) + "%"
	where := ` WHERE (u.name ILIKE $1 OR u.email ILIKE $1 OR o.name ILIKE $1 OR o.description ILIKE $1)`
	return where, []any{pattern}
}

func (r *BookingRepository) Search(ctx context.Context, q domain.ListQuery) ([]*domain.BookingDetails, int, error) {
	order, ok := orderClauses[q.Sort]
	if !ok {
		return nil, 0, fmt.Errorf("%w: unknown sort key %q", domain.ErrValidation, q.Sort)
	}

	where, args := searchFilter(q.Search)

	countQuery := `SELECT COUNT(*)
				   FROM bookings b
				   JOIN users u ON u.id = b.user_id
				   JOIN offerings o ON o.id = b.offering_id` + where

	row, err := r.db.QueryRowWithRetry(ctx, r.strategy, countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", mapError(err))
	}
	var total int
	if err = row.Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("scan count: %w", mapError(err))
	}

	n := len(args)
	pageQuery := detailsSelect + where +
		fmt.Sprintf(` ORDER BY %s LIMIT $%d OFFSET $%d`, order, n+1, n+2)
	pageArgs := append(args, q.PageSize, q.Offset())

	rows, err := r.db.QueryWithRetry(ctx, r.strategy, pageQuery, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("search bookings: %w", mapError(err))
	}
	defer rows.Close()

	res := make([]*domain.BookingDetails, 0, q.PageSize)
	for rows.Next() {
		d, err := scanDetails(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking: %w", err)
		}
		res = append(res, d)
	}

	return res, total, rows.Err()
}

func (r *BookingRepository) MarkReviewReminders(ctx context.Context, today time.Time) ([]*domain.Booking, error) {
	query := `
        UPDATE bookings b
        SET review_reminded_at = NOW()
        WHERE NOT b.cancelled
          AND b.rating IS NULL
          AND b.review_reminded_at IS NULL
          AND b.end_date < $1
        RETURNING ` + bookingColumns

	rows, err := r.db.QueryWithRetry(ctx, r.strategy, query, today)
	if err != nil {
		return nil, fmt.Errorf("mark review reminders: %w", mapError(err))
	}
	defer rows.Close()

	var res []*domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		res = append(res, b)
	}

	return res, rows.Err()
}
