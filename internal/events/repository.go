package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Talts01/SocialPizza/internal/models"
	"github.com/Talts01/SocialPizza/internal/policy"
)

// Repository errors mapped to viewer-facing conditions by the handler.
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrNotJoined     = errors.New("not registered for this event")
	ErrNotPending    = errors.New("event already decided")
)

// Repository handles event and participation persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an events repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const eventSelect = `SELECT e.id, e.title, COALESCE(e.description, ''), e.event_date, e.max_participants, e.status,
	COALESCE(e.rejection_reason, ''), COALESCE(e.moderator_comment, ''), e.decision_at,
	c.id, c.name, COALESCE(c.description, ''),
	r.id, r.name, COALESCE(r.address, ''), r.max_capacity, r.city_id, ci.name, r.owner_id, ow.email, ow.name, ow.surname, ow.role,
	org.id, org.email, org.name, org.surname, org.role,
	(SELECT COUNT(*) FROM participations p WHERE p.event_id = e.id),
	e.created_at, e.updated_at
	FROM events e
	JOIN categories c ON c.id = e.category_id
	JOIN restaurants r ON r.id = e.restaurant_id
	LEFT JOIN cities ci ON ci.id = r.city_id
	LEFT JOIN users ow ON ow.id = r.owner_id
	JOIN users org ON org.id = e.organizer_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var (
		e         models.Event
		cityID    *int64
		cityName  *string
		ownerID   *int64
		ownerMail *string
		ownerName *string
		ownerSur  *string
		ownerRole *string
	)
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.EventDate, &e.MaxParticipants, &e.Status,
		&e.RejectionReason, &e.ModeratorComment, &e.DecisionAt,
		&e.Category.ID, &e.Category.Name, &e.Category.Description,
		&e.Restaurant.ID, &e.Restaurant.Name, &e.Restaurant.Address, &e.Restaurant.MaxCapacity,
		&cityID, &cityName, &ownerID, &ownerMail, &ownerName, &ownerSur, &ownerRole,
		&e.Organizer.ID, &e.Organizer.Email, &e.Organizer.Name, &e.Organizer.Surname, &e.Organizer.Role,
		&e.ParticipantCount,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if cityID != nil {
		e.Restaurant.City = &models.City{ID: *cityID}
		if cityName != nil {
			e.Restaurant.City.Name = *cityName
		}
	}
	if ownerID != nil {
		owner := models.UserPublic{ID: *ownerID}
		if ownerMail != nil {
			owner.Email = *ownerMail
		}
		if ownerName != nil {
			owner.Name = *ownerName
		}
		if ownerSur != nil {
			owner.Surname = *ownerSur
		}
		if ownerRole != nil {
			owner.Role = models.Role(*ownerRole)
		}
		e.Restaurant.Owner = &owner
	}
	return &e, nil
}

func (r *Repository) list(ctx context.Context, where string, args ...any) ([]models.Event, error) {
	rows, err := r.pool.Query(ctx, eventSelect+" "+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// GetByID returns an event with its category, restaurant and organizer.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	e, err := scanEvent(r.pool.QueryRow(ctx, eventSelect+" WHERE e.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	return e, err
}

// Create inserts an event and returns it fully loaded.
func (r *Repository) Create(ctx context.Context, title, description string, eventDate time.Time, maxParticipants int, status models.EventStatus, categoryID, restaurantID, organizerID int64) (*models.Event, error) {
	const q = `INSERT INTO events (title, description, event_date, max_participants, status, category_id, restaurant_id, organizer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	var id int64
	err := r.pool.QueryRow(ctx, q, title, description, eventDate, maxParticipants, status, categoryID, restaurantID, organizerID).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return r.GetByID(ctx, id)
}

// ListByStatuses returns events in any of the given statuses, soonest first.
func (r *Repository) ListByStatuses(ctx context.Context, statuses ...models.EventStatus) ([]models.Event, error) {
	return r.list(ctx, "WHERE e.status = ANY($1) ORDER BY e.event_date ASC", statuses)
}

// ListJoinedByUser returns events the user participates in.
func (r *Repository) ListJoinedByUser(ctx context.Context, userID int64) ([]models.Event, error) {
	return r.list(ctx, `WHERE e.id IN (SELECT event_id FROM participations WHERE user_id = $1) ORDER BY e.event_date ASC`, userID)
}

// ListCreatedByUser returns events the user organized, newest first.
func (r *Repository) ListCreatedByUser(ctx context.Context, userID int64) ([]models.Event, error) {
	return r.list(ctx, "WHERE e.organizer_id = $1 ORDER BY e.created_at DESC", userID)
}

// ListByOwnerAndStatus returns events at restaurants owned by ownerID in
// the given status.
func (r *Repository) ListByOwnerAndStatus(ctx context.Context, ownerID int64, status models.EventStatus) ([]models.Event, error) {
	return r.list(ctx, "WHERE r.owner_id = $1 AND e.status = $2 ORDER BY e.event_date ASC", ownerID, status)
}

// IsParticipating reports whether the user joined the event.
func (r *Repository) IsParticipating(ctx context.Context, userID, eventID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM participations WHERE user_id = $1 AND event_id = $2)`, userID, eventID).Scan(&exists)
	return exists, err
}

// Join registers the user for an event. The event row is locked so the
// status, duplicate and capacity checks hold under concurrent joins.
func (r *Repository) Join(ctx context.Context, userID, eventID int64) (*models.Participation, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status string
	var maxParticipants int
	err = tx.QueryRow(ctx, `SELECT status, max_participants FROM events WHERE id = $1 FOR UPDATE`, eventID).
		Scan(&status, &maxParticipants)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if models.EventStatus(status) != models.StatusApproved {
		return nil, policy.ErrNotApproved
	}

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM participations WHERE event_id = $1`, eventID).Scan(&count); err != nil {
		return nil, err
	}
	if count >= maxParticipants {
		return nil, policy.ErrEventFull
	}

	var p models.Participation
	err = tx.QueryRow(ctx, `INSERT INTO participations (event_id, user_id) VALUES ($1, $2)
		RETURNING id, event_id, user_id, registered_at`, eventID, userID).
		Scan(&p.ID, &p.EventID, &p.UserID, &p.RegisteredAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, policy.ErrAlreadyJoined
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &p, nil
}

// Leave removes the user's participation.
func (r *Repository) Leave(ctx context.Context, userID, eventID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM participations WHERE user_id = $1 AND event_id = $2`, userID, eventID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotJoined
	}
	return nil
}

// Participants returns the users registered for an event.
func (r *Repository) Participants(ctx context.Context, eventID int64) ([]models.Participation, error) {
	const q = `SELECT p.id, p.event_id, p.user_id, p.registered_at, u.id, u.email, u.name, u.surname, u.role
		FROM participations p JOIN users u ON u.id = p.user_id
		WHERE p.event_id = $1 ORDER BY p.registered_at ASC`
	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Participation
	for rows.Next() {
		var p models.Participation
		if err := rows.Scan(&p.ID, &p.EventID, &p.UserID, &p.RegisteredAt,
			&p.User.ID, &p.User.Email, &p.User.Name, &p.User.Surname, &p.User.Role); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Decide applies a moderation decision to a PENDING event. The update is
// guarded on status so a decided event is never re-decided.
func (r *Repository) Decide(ctx context.Context, d *policy.Decision) (*models.Event, error) {
	rejection := ""
	comment := ""
	if d.Verdict == models.StatusRejected {
		rejection = d.Comment
	} else {
		comment = d.Comment
	}
	const q = `UPDATE events SET status = $2,
		rejection_reason = NULLIF($3, ''),
		moderator_comment = NULLIF($4, ''),
		decision_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'`
	tag, err := r.pool.Exec(ctx, q, d.EventID, d.Verdict, rejection, comment)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotPending
	}
	return r.GetByID(ctx, d.EventID)
}

// AutoJoinOrganizer registers the organizer of a freshly approved event,
// unless they are a restaurateur or already registered.
func (r *Repository) AutoJoinOrganizer(ctx context.Context, e *models.Event) error {
	if e.Organizer.Role == models.RoleRestaurateur {
		return nil
	}
	const q = `INSERT INTO participations (event_id, user_id) VALUES ($1, $2)
		ON CONFLICT (event_id, user_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, q, e.ID, e.Organizer.ID)
	return err
}

// GetRestaurant loads a restaurant with its owner, for proposal checks.
func (r *Repository) GetRestaurant(ctx context.Context, id int64) (*models.Restaurant, error) {
	const q = `SELECT r.id, r.name, COALESCE(r.address, ''), r.max_capacity,
		u.id, u.email, u.name, u.surname, u.role
		FROM restaurants r LEFT JOIN users u ON u.id = r.owner_id
		WHERE r.id = $1`
	var rest models.Restaurant
	var ownerID *int64
	var ownerEmail, ownerName, ownerSurname *string
	var ownerRole *models.Role
	err := r.pool.QueryRow(ctx, q, id).Scan(&rest.ID, &rest.Name, &rest.Address, &rest.MaxCapacity,
		&ownerID, &ownerEmail, &ownerName, &ownerSurname, &ownerRole)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	if ownerID != nil {
		rest.Owner = &models.UserPublic{
			ID: *ownerID, Email: *ownerEmail, Name: *ownerName, Surname: *ownerSurname, Role: *ownerRole,
		}
	}
	return &rest, nil
}

// Delete removes an event; participations cascade.
func (r *Repository) Delete(ctx context.Context, eventID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, eventID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}
