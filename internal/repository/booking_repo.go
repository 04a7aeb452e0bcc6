package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingRepository answers availability questions. There is no separate
// "reserve" write here: the slot claim is the order INSERT itself, guarded
// by the partial unique index on (service_date, service_time) — see
// OrderRepository.CreateOrder. Availability is always derived live from
// current order statuses, so a cancellation releases its slot implicitly.
type BookingRepository struct {
	DB *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{DB: db}
}

// BookedTimes returns the slot labels taken on a date by non-cancelled paid
// bookings. Consultations never occupy a slot exclusively and are excluded.
func (r *BookingRepository) BookedTimes(ctx context.Context, date time.Time) ([]string, error) {
	query := `SELECT DISTINCT service_time FROM orders
	          WHERE service_date=$1 AND status <> 'cancelled' AND NOT is_consultation`
	rows, err := r.DB.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
