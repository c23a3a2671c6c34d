package admin

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Talts01/SocialPizza/internal/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrDuplicateName      = errors.New("name already in use")
	// ErrOwnerHasRestaurant enforces the one-restaurant-per-owner rule.
	ErrOwnerHasRestaurant = errors.New("owner already has a restaurant")
	// ErrInUse guards lookup rows that events still reference.
	ErrInUse = errors.New("resource has associated events")
)

// Repository handles administrative persistence: user management and the
// restaurant/category lookup tables.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an admin repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ListUsers returns every account ordered by creation.
func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	const q = `SELECT id, email, name, surname, role, is_verified, is_banned,
		COALESCE(bio, ''), created_at, updated_at
		FROM users ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.User
	for rows.Next() {
		var u models.User
		err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Surname, &u.Role,
			&u.IsVerified, &u.IsBanned, &u.Bio, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// SetBanned flips the ban flag on an account.
func (r *Repository) SetBanned(ctx context.Context, userID int64, banned bool) error {
	const q = `UPDATE users SET is_banned = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, userID, banned)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetRole changes an account's role.
func (r *Repository) SetRole(ctx context.Context, userID int64, role models.Role) error {
	const q = `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, userID, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CreateCategory inserts a new category.
func (r *Repository) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	const q = `INSERT INTO categories (name) VALUES ($1) RETURNING id, name`
	var c models.Category
	if err := r.pool.QueryRow(ctx, q, name).Scan(&c.ID, &c.Name); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return &c, nil
}

// DeleteCategory removes a category unless events still use it.
func (r *Repository) DeleteCategory(ctx context.Context, id int64) error {
	var inUse bool
	const check = `SELECT EXISTS(SELECT 1 FROM events WHERE category_id = $1)`
	if err := r.pool.QueryRow(ctx, check, id).Scan(&inUse); err != nil {
		return err
	}
	if inUse {
		return ErrInUse
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// CreateRestaurant inserts a new venue. ownerID of zero leaves the venue
// unassigned.
func (r *Repository) CreateRestaurant(ctx context.Context, name, address string, maxCapacity int, cityID, ownerID int64) (*models.Restaurant, error) {
	const q = `INSERT INTO restaurants (name, address, max_capacity, city_id, owner_id)
		VALUES ($1, NULLIF($2, ''), $3, $4, NULLIF($5, 0))
		RETURNING id`
	var id int64
	if err := r.pool.QueryRow(ctx, q, name, address, maxCapacity, cityID, ownerID).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrOwnerHasRestaurant
		}
		return nil, err
	}
	return r.GetRestaurant(ctx, id)
}

// GetRestaurant loads a venue with its city and owner.
func (r *Repository) GetRestaurant(ctx context.Context, id int64) (*models.Restaurant, error) {
	const q = `SELECT r.id, r.name, COALESCE(r.address, ''), r.max_capacity,
		c.id, c.name, u.id, u.email, u.name, u.surname, u.role
		FROM restaurants r
		LEFT JOIN cities c ON c.id = r.city_id
		LEFT JOIN users u ON u.id = r.owner_id
		WHERE r.id = $1`
	var rest models.Restaurant
	var cityID *int64
	var cityName *string
	var ownerID *int64
	var ownerEmail, ownerName, ownerSurname *string
	var ownerRole *models.Role
	err := r.pool.QueryRow(ctx, q, id).Scan(&rest.ID, &rest.Name, &rest.Address, &rest.MaxCapacity,
		&cityID, &cityName, &ownerID, &ownerEmail, &ownerName, &ownerSurname, &ownerRole)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
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
	return &rest, nil
}

// DeleteRestaurant removes a venue unless events still use it.
func (r *Repository) DeleteRestaurant(ctx context.Context, id int64) error {
	var inUse bool
	const check = `SELECT EXISTS(SELECT 1 FROM events WHERE restaurant_id = $1)`
	if err := r.pool.QueryRow(ctx, check, id).Scan(&inUse); err != nil {
		return err
	}
	if inUse {
		return ErrInUse
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}
