package polls

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pollbox/backend/internal/middleware"
	"github.com/pollbox/backend/internal/models"
	"github.com/pollbox/backend/pkg/response"
)

// CreateQuestionRequest is the body for POST /questions.
type CreateQuestionRequest struct {
	Text        string     `json:"question_text" binding:"required"`
	PublishedAt *time.Time `json:"published_at"`
}

// AddChoiceRequest is the body for POST /questions/:id/choices.
type AddChoiceRequest struct {
	Text  string `json:"choice_text" binding:"required"`
	Votes int    `json:"votes"`
}

// VoteRequest is the body for POST /questions/:id/vote.
type VoteRequest struct {
	ChoiceID int64 `json:"choice_id" binding:"required"`
}

// Handler handles poll HTTP endpoints. All time-dependent behavior reads
// the handler clock so tests can pin it.
type Handler struct {
	store  Store
	logger *zap.Logger
	clock  func() time.Time
}

// NewHandler creates a polls handler on the real clock.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger, clock: time.Now}
}

// List handles GET /questions. Admin viewers also see questions without
// choices; nobody sees questions whose publish date has not arrived.
func (h *Handler) List(c *gin.Context) {
	now := h.clock()
	snapshot, err := h.store.ListQuestions(c.Request.Context())
	if err != nil {
		h.logger.Error("list questions", zap.Error(err))
		response.Internal(c, "failed to list questions")
		return
	}

	visible := ListVisible(snapshot, now, isAdmin(c))
	body := gin.H{"questions": Views(visible, now)}
	if len(visible) == 0 {
		body["message"] = "No polls are available."
	}
	response.OK(c, body)
}

// Get handles GET /questions/:id.
func (h *Handler) Get(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}

	q, err := GetVisible(c.Request.Context(), h.store, id, h.clock())
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "question not found")
		return
	}
	if err != nil {
		h.logger.Error("get question", zap.Int64("question_id", id), zap.Error(err))
		response.Internal(c, "failed to get question")
		return
	}

	choices, err := h.store.ListChoices(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("list choices", zap.Int64("question_id", id), zap.Error(err))
		response.Internal(c, "failed to list choices")
		return
	}
	response.OK(c, gin.H{"question": q, "choices": choices})
}

// Results handles GET /questions/:id/results.
func (h *Handler) Results(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}

	q, err := GetVisible(c.Request.Context(), h.store, id, h.clock())
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "question not found")
		return
	}
	if err != nil {
		h.logger.Error("get question", zap.Int64("question_id", id), zap.Error(err))
		response.Internal(c, "failed to get question")
		return
	}

	choices, err := h.store.ListChoices(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("list choices", zap.Int64("question_id", id), zap.Error(err))
		response.Internal(c, "failed to list choices")
		return
	}
	total := 0
	for _, ch := range choices {
		total += ch.Votes
	}
	response.OK(c, gin.H{"question": q, "choices": choices, "total_votes": total})
}

// Vote handles POST /questions/:id/vote. The question must be visible;
// naming a choice that does not belong to it is a caller error, not a
// missing resource.
func (h *Handler) Vote(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "You didn't select a choice.")
		return
	}

	q, err := GetVisible(c.Request.Context(), h.store, id, h.clock())
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "question not found")
		return
	}
	if err != nil {
		h.logger.Error("get question", zap.Int64("question_id", id), zap.Error(err))
		response.Internal(c, "failed to get question")
		return
	}

	choice, err := h.store.CastVote(c.Request.Context(), q.ID, req.ChoiceID)
	if errors.Is(err, ErrChoiceNotFound) {
		response.BadRequest(c, "You didn't select a choice.")
		return
	}
	if err != nil {
		h.logger.Error("cast vote", zap.Int64("question_id", id), zap.Int64("choice_id", req.ChoiceID), zap.Error(err))
		response.Internal(c, "failed to cast vote")
		return
	}
	response.OK(c, choice)
}

// Create handles POST /questions (admin). The publish date defaults to now
// and may be set in the future to stage a question.
func (h *Handler) Create(c *gin.Context) {
	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	publishedAt := h.clock()
	if req.PublishedAt != nil {
		publishedAt = *req.PublishedAt
	}

	q, err := h.store.CreateQuestion(c.Request.Context(), req.Text, publishedAt)
	if err != nil {
		h.logger.Error("create question", zap.Error(err))
		response.Internal(c, "failed to create question")
		return
	}
	response.Created(c, q)
}

// AddChoice handles POST /questions/:id/choices (admin). Unpublished
// questions accept choices so they can be staged before going live.
func (h *Handler) AddChoice(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}

	var req AddChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Votes < 0 {
		response.BadRequest(c, "votes must not be negative")
		return
	}

	choice, err := h.store.AddChoice(c.Request.Context(), id, req.Text, req.Votes)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "question not found")
		return
	}
	if err != nil {
		h.logger.Error("add choice", zap.Int64("question_id", id), zap.Error(err))
		response.Internal(c, "failed to add choice")
		return
	}
	response.Created(c, choice)
}

func questionID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid question id")
		return 0, false
	}
	return id, true
}

func isAdmin(c *gin.Context) bool {
	roleVal, ok := c.Get(middleware.ContextUserRole)
	if !ok {
		return false
	}
	role, _ := roleVal.(string)
	return role == string(models.RoleAdmin)
}
