package resources

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Talts01/SocialPizza/internal/models"
)

// Repository reads the lookup tables backing filters and event forms.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a resources repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Cities returns all cities ordered by name.
func (r *Repository) Cities(ctx context.Context) ([]models.City, error) {
	const q = `SELECT id, name FROM cities ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.City
	for rows.Next() {
		var c models.City
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Categories returns all categories. Ordering is applied by the caller
// so the catch-all entry can be pinned last.
func (r *Repository) Categories(ctx context.Context) ([]models.Category, error) {
	const q = `SELECT id, name FROM categories`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Restaurants returns all venues with their city and owner.
func (r *Repository) Restaurants(ctx context.Context) ([]models.Restaurant, error) {
	const q = `SELECT r.id, r.name, COALESCE(r.address, ''), r.max_capacity,
		c.id, c.name, u.id, u.email, u.name, u.surname, u.role
		FROM restaurants r
		LEFT JOIN cities c ON c.id = r.city_id
		LEFT JOIN users u ON u.id = r.owner_id
		ORDER BY r.name ASC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Restaurant
	for rows.Next() {
		var rest models.Restaurant
		var cityID *int64
		var cityName *string
		var ownerID *int64
		var ownerEmail, ownerName, ownerSurname *string
		var ownerRole *models.Role
		err := rows.Scan(&rest.ID, &rest.Name, &rest.Address, &rest.MaxCapacity,
			&cityID, &cityName, &ownerID, &ownerEmail, &ownerName, &ownerSurname, &ownerRole)
		if err != nil {
			return nil, err
		}
		if cityID != nil {
			rest.City = &models.City{ID: *cityID, Name: *cityName}
		}
		if ownerID != nil {
			rest.Owner = &models.UserPublic{
				ID: *ownerID, Email: *ownerEmail, Name: *ownerName, Surname: *ownerSurname, Role: *ownerRole,
			}
		}
		list = append(list, rest)
	}
	return list, rows.Err()
}
