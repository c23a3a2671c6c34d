package events

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Talts01/SocialPizza/internal/middleware"
	"github.com/Talts01/SocialPizza/internal/models"
	"github.com/Talts01/SocialPizza/internal/policy"
	"github.com/Talts01/SocialPizza/pkg/queue"
	"github.com/Talts01/SocialPizza/pkg/response"
)

// CreateRequest is the body for POST /api/events.
type CreateRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	EventDate       string `json:"event_date" binding:"required"` // RFC3339
	MaxParticipants int    `json:"max_participants" binding:"required,gt=0"`
	CategoryID      int64  `json:"category_id" binding:"required"`
	RestaurantID    int64  `json:"restaurant_id" binding:"required"`
}

// DecisionRequest is the body for PATCH /api/events/:id/decision.
type DecisionRequest struct {
	Decision models.EventStatus `json:"decision" binding:"required"`
	Comment  string             `json:"comment"`
}

// Handler handles event HTTP endpoints.
type Handler struct {
	repo        *Repository
	jobs        *queue.Queue
	autoApprove bool
	logger      *zap.Logger
}

// NewHandler creates an events handler. autoApprove controls whether an
// event proposed by the owner of its own restaurant skips moderation.
func NewHandler(repo *Repository, jobs *queue.Queue, autoApprove bool, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, jobs: jobs, autoApprove: autoApprove, logger: logger}
}

func eventID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid event id")
		return 0, false
	}
	return id, true
}

// Create handles POST /api/events: a new proposal, PENDING unless the
// organizer owns the hosting restaurant and auto-approval is enabled.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	eventDate, err := time.Parse(time.RFC3339, req.EventDate)
	if err != nil {
		response.BadRequest(c, "invalid event_date")
		return
	}

	user := middleware.CurrentUser(c)
	restaurant, err := h.repo.GetRestaurant(c.Request.Context(), req.RestaurantID)
	switch {
	case err == nil:
	case errors.Is(err, ErrRestaurantNotFound):
		response.NotFound(c, err.Error())
		return
	default:
		response.Internal(c, "failed to load restaurant")
		return
	}

	status := models.StatusPending
	if h.autoApprove && user.Role == models.RoleRestaurateur && restaurant.OwnedBy(user.ID) {
		status = models.StatusApproved
	}

	e, err := h.repo.Create(c.Request.Context(), req.Title, req.Description, eventDate,
		req.MaxParticipants, status, req.CategoryID, req.RestaurantID, user.ID)
	if err != nil {
		h.logger.Error("create event", zap.Error(err))
		response.Internal(c, "failed to create event")
		return
	}
	if e.Status == models.StatusApproved {
		if err := h.repo.AutoJoinOrganizer(c.Request.Context(), e); err == nil {
			if reloaded, err := h.repo.GetByID(c.Request.Context(), e.ID); err == nil {
				e = reloaded
			}
		}
	}
	response.Created(c, e)
}

// Approved handles GET /api/events/approved: the public board.
func (h *Handler) Approved(c *gin.Context) {
	h.respondList(c, models.StatusApproved)
}

// Public handles GET /api/events/public: approved and pending events.
func (h *Handler) Public(c *gin.Context) {
	h.respondList(c, models.StatusApproved, models.StatusPending)
}

func (h *Handler) respondList(c *gin.Context, statuses ...models.EventStatus) {
	list, err := h.repo.ListByStatuses(c.Request.Context(), statuses...)
	if err != nil {
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, list)
}

// Joined handles GET /api/events/joined: events the viewer joined.
func (h *Handler) Joined(c *gin.Context) {
	user := middleware.CurrentUser(c)
	list, err := h.repo.ListJoinedByUser(c.Request.Context(), user.ID)
	if err != nil {
		response.Internal(c, "failed to list joined events")
		return
	}
	response.OK(c, list)
}

// Mine handles GET /api/events/created: events the viewer organized.
func (h *Handler) Mine(c *gin.Context) {
	user := middleware.CurrentUser(c)
	list, err := h.repo.ListCreatedByUser(c.Request.Context(), user.ID)
	if err != nil {
		response.Internal(c, "failed to list created events")
		return
	}
	response.OK(c, list)
}

// PendingForOwner handles GET /api/events/pending/for-restaurateur.
func (h *Handler) PendingForOwner(c *gin.Context) {
	h.respondOwnerList(c, models.StatusPending)
}

// ApprovedForOwner handles GET /api/events/approved/for-restaurateur.
func (h *Handler) ApprovedForOwner(c *gin.Context) {
	h.respondOwnerList(c, models.StatusApproved)
}

func (h *Handler) respondOwnerList(c *gin.Context, status models.EventStatus) {
	user := middleware.CurrentUser(c)
	list, err := h.repo.ListByOwnerAndStatus(c.Request.Context(), user.ID, status)
	if err != nil {
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, list)
}

// Join handles POST /api/events/:id/join. Eligibility is decided inside
// a transaction: approved status, no duplicate, free seat.
func (h *Handler) Join(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	p, err := h.repo.Join(c.Request.Context(), user.ID, id)
	switch {
	case err == nil:
		response.OK(c, p)
	case errors.Is(err, ErrEventNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, policy.ErrNotApproved),
		errors.Is(err, policy.ErrAlreadyJoined),
		errors.Is(err, policy.ErrEventFull):
		response.BadRequest(c, err.Error())
	default:
		h.logger.Error("join event", zap.Error(err), zap.Int64("event_id", id))
		response.Internal(c, "failed to join event")
	}
}

// Leave handles DELETE /api/events/:id/leave.
func (h *Handler) Leave(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	err := h.repo.Leave(c.Request.Context(), user.ID, id)
	switch {
	case err == nil:
		response.NoContent(c)
	case errors.Is(err, ErrNotJoined):
		response.BadRequest(c, err.Error())
	default:
		response.Internal(c, "failed to leave event")
	}
}

// Withdraw handles DELETE /api/events/:id/withdraw: the organizer pulls
// a proposal that is still PENDING.
func (h *Handler) Withdraw(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	if err := policy.CheckWithdraw(user.ID, e); err != nil {
		if errors.Is(err, policy.ErrNotOrganizer) {
			response.Forbidden(c, err.Error())
		} else {
			response.BadRequest(c, err.Error())
		}
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to withdraw event")
		return
	}
	response.NoContent(c)
}

// Participants handles GET /api/events/:id/participants.
func (h *Handler) Participants(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	list, err := h.repo.Participants(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to list participants")
		return
	}
	response.OK(c, list)
}

// IsParticipating handles GET /api/events/:id/is-participating.
func (h *Handler) IsParticipating(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	joined, err := h.repo.IsParticipating(c.Request.Context(), user.ID, id)
	if err != nil {
		response.Internal(c, "failed to check participation")
		return
	}
	response.OK(c, joined)
}

// Decision handles PATCH /api/events/:id/decision: the venue owner
// approves or rejects a PENDING proposal. A rejection needs a comment.
func (h *Handler) Decision(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	decision, err := policy.NewDecision(id, req.Decision, req.Comment)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user := middleware.CurrentUser(c)
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	if !e.Restaurant.OwnedBy(user.ID) {
		response.Forbidden(c, policy.ErrNotOwner.Error())
		return
	}

	updated, err := h.repo.Decide(c.Request.Context(), decision)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotPending):
		response.BadRequest(c, err.Error())
		return
	default:
		h.logger.Error("decide event", zap.Error(err), zap.Int64("event_id", id))
		response.Internal(c, "failed to record decision")
		return
	}

	if updated.Status == models.StatusApproved {
		if err := h.repo.AutoJoinOrganizer(c.Request.Context(), updated); err == nil {
			if reloaded, err := h.repo.GetByID(c.Request.Context(), updated.ID); err == nil {
				updated = reloaded
			}
		}
	}

	h.notifyDecision(c, updated, decision)
	response.OK(c, updated)
}

func (h *Handler) notifyDecision(c *gin.Context, e *models.Event, d *policy.Decision) {
	err := h.jobs.EnqueueDecisionMail(c.Request.Context(), queue.DecisionMailPayload{
		EventID:        e.ID,
		EventTitle:     e.Title,
		RestaurantName: e.Restaurant.Name,
		Decision:       string(d.Verdict),
		Comment:        d.Comment,
		RecipientEmail: e.Organizer.Email,
		RecipientName:  e.Organizer.Name,
	})
	if err != nil {
		h.logger.Warn("enqueue decision mail", zap.Error(err), zap.Int64("event_id", e.ID))
	}
}

// Cancel handles DELETE /api/events/:id/cancel: the venue owner removes
// an APPROVED event, dropping all participants with it.
func (h *Handler) Cancel(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	if !e.Restaurant.OwnedBy(user.ID) {
		response.Forbidden(c, policy.ErrNotOwner.Error())
		return
	}
	if e.Status != models.StatusApproved {
		response.BadRequest(c, "only approved events can be cancelled")
		return
	}

	participants, perr := h.repo.Participants(c.Request.Context(), id)
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to cancel event")
		return
	}

	if perr == nil && len(participants) > 0 {
		emails := make([]string, 0, len(participants))
		for _, p := range participants {
			emails = append(emails, p.User.Email)
		}
		err := h.jobs.EnqueueCancelledMail(c.Request.Context(), queue.CancelledMailPayload{
			EventID:         e.ID,
			EventTitle:      e.Title,
			RestaurantName:  e.Restaurant.Name,
			RecipientEmails: emails,
		})
		if err != nil {
			h.logger.Warn("enqueue cancelled mail", zap.Error(err), zap.Int64("event_id", e.ID))
		}
	}
	response.NoContent(c)
}

// Delete handles DELETE /api/events/:id (admin): removes any event.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	err := h.repo.Delete(c.Request.Context(), id)
	switch {
	case err == nil:
		response.NoContent(c)
	case errors.Is(err, ErrEventNotFound):
		response.NotFound(c, err.Error())
	default:
		response.Internal(c, "failed to delete event")
	}
}
