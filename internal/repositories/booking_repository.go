package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"stayBack/internal/models"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
)

type BookingRepository struct {
	DB *sql.DB
}

const bookingColumns = `b.id, b.tenant_id, b.property_id, p.owner_id, b.check_in, b.check_out, b.status, b.created_at, b.updated_at`

func scanBooking(row *sql.Row) (models.Booking, error) {
	var b models.Booking
	var updatedAt sql.NullTime
	err := row.Scan(&b.ID, &b.TenantID, &b.PropertyID, &b.OwnerID, &b.CheckIn, &b.CheckOut, &b.Status, &b.CreatedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, ErrBookingNotFound
		}
		return models.Booking{}, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		b.UpdatedAt = &t
	}
	return b, nil
}

func (r *BookingRepository) GetBookingByID(ctx context.Context, id int) (models.Booking, error) {
	query := `
    SELECT ` + bookingColumns + `
    FROM bookings b JOIN properties p ON b.property_id = p.id
    WHERE b.id = ?
    `
	return scanBooking(r.DB.QueryRowContext(ctx, query, id))
}

// GetBookingForTenant scopes the lookup by tenant so unauthorized callers
// cannot tell an existing booking from a missing one.
func (r *BookingRepository) GetBookingForTenant(ctx context.Context, id, tenantID int) (models.Booking, error) {
	query := `
    SELECT ` + bookingColumns + `
    FROM bookings b JOIN properties p ON b.property_id = p.id
    WHERE b.id = ? AND b.tenant_id = ?
    `
	return scanBooking(r.DB.QueryRowContext(ctx, query, id, tenantID))
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int, status models.BookingStatus, now time.Time) error {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`
	res, err := r.DB.ExecContext(ctx, query, status, now, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}
