package repositories

import (
	"context"
	"database/sql"
	"errors"

	"stayBack/internal/models"
)

var (
	ErrPropertyNotFound = errors.New("property not found")
)

type PropertyRepository struct {
	DB *sql.DB
}

func (r *PropertyRepository) GetPropertyByID(ctx context.Context, id int) (models.Property, error) {
	query := `SELECT id, owner_id, name, address, nightly_price, created_at FROM properties WHERE id = ?`
	var p models.Property
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Address, &p.NightlyPrice, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Property{}, ErrPropertyNotFound
		}
		return models.Property{}, err
	}
	return p, nil
}
