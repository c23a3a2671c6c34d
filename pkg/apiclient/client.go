// Package apiclient is a Go client for the SocialPizza API. It keeps a
// cookie-backed session and a local event board that it reconciles with
// confirmed server responses: an action mutates the board only after the
// server accepts it, and list fetches install through sequence tokens so
// a stale response never overwrites a newer one.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/Talts01/SocialPizza/internal/board"
	"github.com/Talts01/SocialPizza/internal/models"
	"github.com/Talts01/SocialPizza/internal/policy"
)

// APIError is a non-2xx response. Message carries the server's error
// text verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api error: status %d", e.Status)
}

// envelope matches the server's response body shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Client talks to a SocialPizza server on behalf of one viewer.
type Client struct {
	base  string
	http  *http.Client
	board *board.Board
}

// New creates a client for the given base URL, e.g. "http://localhost:8081".
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return &Client{
		base:  baseURL,
		http:  &http.Client{Jar: jar, Timeout: 15 * time.Second},
		board: board.New(),
	}, nil
}

// Board exposes the client's local event board.
func (c *Client) Board() *board.Board {
	return c.board
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{Status: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: env.Error}
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Login opens a session. The session cookie lands in the client's jar.
func (c *Client) Login(ctx context.Context, email, password string) (*models.UserPublic, error) {
	var user models.UserPublic
	err := c.do(ctx, http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": password}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates an account and opens a session.
func (c *Client) Register(ctx context.Context, email, password, name, surname string) (*models.UserPublic, error) {
	var user models.UserPublic
	err := c.do(ctx, http.MethodPost, "/api/auth/register",
		map[string]string{"email": email, "password": password, "name": name, "surname": surname}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout revokes the session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// Session returns the current viewer, restoring it from the cookie.
func (c *Client) Session(ctx context.Context) (*models.UserPublic, error) {
	var user models.UserPublic
	if err := c.do(ctx, http.MethodGet, "/api/auth/session", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

var listPaths = map[board.List]string{
	board.ListPublic:       "/api/events/approved",
	board.ListJoined:       "/api/events/joined",
	board.ListMine:         "/api/events/created",
	board.ListPending:      "/api/events/pending/for-restaurateur",
	board.ListApprovedMine: "/api/events/approved/for-restaurateur",
}

// Refresh fetches one board list and installs it. A token is issued
// before the request goes out; if a newer fetch of the same list has
// installed meanwhile, this response is discarded.
func (c *Client) Refresh(ctx context.Context, list board.List) ([]models.Event, error) {
	path, ok := listPaths[list]
	if !ok {
		return nil, fmt.Errorf("unknown list: %s", list)
	}
	token := c.board.NextFetch()
	var events []models.Event
	if err := c.do(ctx, http.MethodGet, path, nil, &events); err != nil {
		return nil, err
	}
	c.board.Install(list, token, events)
	return events, nil
}

// CreateEventRequest is the body for proposing an event.
type CreateEventRequest struct {
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	EventDate       time.Time `json:"-"`
	MaxParticipants int       `json:"max_participants"`
	CategoryID      int64     `json:"category_id"`
	RestaurantID    int64     `json:"restaurant_id"`
}

func (r CreateEventRequest) MarshalJSON() ([]byte, error) {
	type alias CreateEventRequest
	return json.Marshal(struct {
		alias
		EventDate string `json:"event_date"`
	}{alias(r), r.EventDate.Format(time.RFC3339)})
}

// CreateEvent proposes an event and adds it to the viewer's own list.
func (c *Client) CreateEvent(ctx context.Context, req CreateEventRequest) (*models.Event, error) {
	var e models.Event
	if err := c.do(ctx, http.MethodPost, "/api/events", req, &e); err != nil {
		return nil, err
	}
	c.board.Mine = append(c.board.Mine, e)
	if c.isParticipant(e) {
		c.board.ApplyJoin(e)
	}
	return &e, nil
}

// isParticipant detects the organizer auto-join on a freshly approved
// own event.
func (c *Client) isParticipant(e models.Event) bool {
	return e.Status == models.StatusApproved && e.ParticipantCount > 0 &&
		e.Organizer.Role != models.RoleRestaurateur
}

// Join registers the viewer for an event. The board changes only after
// the server confirms.
func (c *Client) Join(ctx context.Context, e models.Event) error {
	path := fmt.Sprintf("/api/events/%d/join", e.ID)
	if err := c.do(ctx, http.MethodPost, path, nil, nil); err != nil {
		return err
	}
	e.ParticipantCount++
	c.board.ApplyJoin(e)
	return nil
}

// Leave drops the viewer's registration.
func (c *Client) Leave(ctx context.Context, eventID int64) error {
	path := fmt.Sprintf("/api/events/%d/leave", eventID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return err
	}
	c.board.ApplyLeave(eventID)
	return nil
}

// Withdraw pulls the viewer's own pending proposal.
func (c *Client) Withdraw(ctx context.Context, eventID int64) error {
	path := fmt.Sprintf("/api/events/%d/withdraw", eventID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return err
	}
	c.board.ApplyWithdraw(eventID)
	return nil
}

// SubmitDecision approves or rejects a pending proposal at the viewer's
// venue. Validation runs before any request: an invalid decision (such
// as a rejection without a comment) produces no network traffic.
func (c *Client) SubmitDecision(ctx context.Context, eventID int64, verdict models.EventStatus, comment string) (*models.Event, error) {
	d, err := policy.NewDecision(eventID, verdict, comment)
	if err != nil {
		return nil, err
	}
	var e models.Event
	path := fmt.Sprintf("/api/events/%d/decision", eventID)
	if err := c.do(ctx, http.MethodPatch, path, d, &e); err != nil {
		return nil, err
	}
	c.board.ApplyDecision(eventID)
	return &e, nil
}

// Cancel removes an approved event at the viewer's venue.
func (c *Client) Cancel(ctx context.Context, eventID int64) error {
	path := fmt.Sprintf("/api/events/%d/cancel", eventID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return err
	}
	c.board.ApplyDelete(eventID)
	return nil
}

// DeleteEvent removes any event (admin only).
func (c *Client) DeleteEvent(ctx context.Context, eventID int64) error {
	path := fmt.Sprintf("/api/events/%d", eventID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return err
	}
	c.board.ApplyDelete(eventID)
	return nil
}

// Participants lists an event's registered users.
func (c *Client) Participants(ctx context.Context, eventID int64) ([]models.Participation, error) {
	var list []models.Participation
	path := fmt.Sprintf("/api/events/%d/participants", eventID)
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// IsParticipating asks the server whether the viewer joined the event.
func (c *Client) IsParticipating(ctx context.Context, eventID int64) (bool, error) {
	var joined bool
	path := fmt.Sprintf("/api/events/%d/is-participating", eventID)
	if err := c.do(ctx, http.MethodGet, path, nil, &joined); err != nil {
		return false, err
	}
	return joined, nil
}

// Cities lists the selectable cities.
func (c *Client) Cities(ctx context.Context) ([]models.City, error) {
	var list []models.City
	if err := c.do(ctx, http.MethodGet, "/api/resources/cities", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Categories lists the event categories, catch-all last.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	if err := c.do(ctx, http.MethodGet, "/api/resources/categories", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Restaurants lists the partner venues.
func (c *Client) Restaurants(ctx context.Context) ([]models.Restaurant, error) {
	var list []models.Restaurant
	if err := c.do(ctx, http.MethodGet, "/api/resources/restaurants", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}
