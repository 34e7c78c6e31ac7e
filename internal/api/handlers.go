package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"listingchat/internal/models"
	"listingchat/internal/planner"
	"listingchat/internal/query"
	"listingchat/internal/session"
	"listingchat/internal/store"
)

const (
	// SessionHeader carries the conversation key. Clients that never send it
	// share the default session.
	SessionHeader = "X-Session-ID"

	defaultListLimit  = 100
	fullDataListLimit = 10
)

// Planner converts a conversation into a structured query plan.
type Planner interface {
	Plan(ctx context.Context, history []models.ChatMessage) (*planner.Plan, error)
}

type Handler struct {
	store    *store.Store
	sessions *session.Manager
	planner  Planner
	logger   *zap.Logger
}

func NewHandler(st *store.Store, sessions *session.Manager, p Planner, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: st, sessions: sessions, planner: p, logger: logger}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.POST("/chat", h.Chat)
	api.GET("/stats", h.Stats)
	e.GET("/healthz", h.Health)
}

// Chat handles one turn of the conversation.
func (h *Handler) Chat(c echo.Context) error {
	var req models.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ChatError{Error: "invalid request body"})
	}
	if len(req.Messages) == 0 {
		return c.JSON(http.StatusBadRequest, models.ChatError{Error: "messages is required"})
	}

	sessionID := c.Request().Header.Get(SessionHeader)
	if sessionID == "" {
		// First contact: mint the key, use it for this request's state, and
		// echo it back so follow-ups land in the same session.
		sessionID = uuid.NewString()
		c.Response().Header().Set(SessionHeader, sessionID)
	}

	userText := lastUserMessage(req.Messages)

	// Trivial salutations skip the planner round trip and touch no state.
	if reply, ok := planner.Greeting(userText); ok {
		return c.JSON(http.StatusOK, models.ChatReply{Reply: reply})
	}

	plan, err := h.planner.Plan(c.Request().Context(), req.Messages)
	if err != nil {
		if errors.Is(err, planner.ErrMissingAPIKey) {
			return c.JSON(http.StatusInternalServerError, models.ChatError{Error: err.Error()})
		}
		h.logger.Warn("planner call failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, models.ChatError{Error: err.Error()})
	}

	h.logger.Debug("plan",
		zap.String("session", sessionID),
		zap.String("intent", plan.Intent),
		zap.Int("filters", len(plan.Filters)))

	return c.JSON(http.StatusOK, models.ChatReply{Reply: h.execute(sessionID, userText, plan)})
}

// execute runs a normalized plan against the store and session state and
// produces the reply text. Data-not-found outcomes are normal replies, not
// HTTP errors; the conversation continues.
func (h *Handler) execute(sessionID, userText string, plan *planner.Plan) string {
	switch plan.Intent {
	case planner.IntentCount:
		matches := query.FilterRows(h.store, plan.Filters)
		return matchCountSentence(len(matches))

	case planner.IntentList:
		return h.executeList(sessionID, plan)

	case planner.IntentDetail, planner.IntentField:
		entry, failure := h.resolveTarget(sessionID, userText, plan)
		if failure != "" {
			return failure
		}
		h.sessions.SetLastListing(sessionID, entry)
		row := h.store.Row(entry.RowIndex)
		switch {
		case plan.Intent == planner.IntentField:
			return query.FormatFields(row, h.store.Columns(), plan.Fields)
		case plan.FullData:
			return query.FormatProfile(row, h.store.Columns())
		default:
			return query.FormatSummary(row)
		}

	default:
		if strings.TrimSpace(plan.Reply) != "" {
			return plan.Reply
		}
		return "I can help you search the loaded listings. Ask for homes by beds, price, city, and more."
	}
}

func (h *Handler) executeList(sessionID string, plan *planner.Plan) string {
	matches := query.FilterRows(h.store, plan.Filters)

	limit := defaultListLimit
	if plan.FullData {
		limit = fullDataListLimit
	}
	if plan.Limit > 0 && plan.Limit < limit {
		limit = plan.Limit
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}

	entries := make([]session.Entry, 0, len(matches))
	for _, idx := range matches {
		entries = append(entries, session.Entry{
			RowIndex: idx,
			Address:  query.FormatAddress(h.store.Row(idx)),
		})
	}
	h.sessions.SetResultList(sessionID, entries)

	var b strings.Builder
	b.WriteString(matchCountSentence(len(matches)))
	for i, e := range entries {
		if plan.FullData {
			b.WriteString("\n\n")
			fmt.Fprintf(&b, "%d. %s\n", i+1, e.Address)
			b.WriteString(query.FormatProfile(h.store.Row(e.RowIndex), h.store.Columns()))
		} else {
			fmt.Fprintf(&b, "\n%d. %s", i+1, e.Address)
		}
	}
	return b.String()
}

// resolveTarget picks the listing a detail/field plan refers to. The second
// return value is a user-facing failure sentence when resolution misses.
func (h *Handler) resolveTarget(sessionID, userText string, plan *planner.Plan) (session.Entry, string) {
	switch plan.Target {
	case planner.TargetIndex:
		entry, err := h.sessions.ResolveIndex(sessionID, plan.Index)
		if err != nil {
			return session.Entry{}, err.Error()
		}
		return entry, ""

	case planner.TargetAddress:
		text := strings.TrimSpace(plan.Address)
		if text == "" {
			text = userText
		}
		idx, ok := query.BestAddressMatch(h.store, text)
		if !ok {
			return session.Entry{}, fmt.Sprintf("I couldn't find a listing matching %q.", text)
		}
		return session.Entry{RowIndex: idx, Address: query.FormatAddress(h.store.Row(idx))}, ""

	default:
		entry, err := h.sessions.LastListing(sessionID)
		if err != nil {
			return session.Entry{}, err.Error()
		}
		return entry, ""
	}
}

// Stats serves the startup table's aggregation.
func (h *Handler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Aggregate())
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, models.Health{Status: "ok", Rows: h.store.Len()})
}

func matchCountSentence(n int) string {
	return fmt.Sprintf("There are %d listings that match your criteria.", n)
}

func lastUserMessage(msgs []models.ChatMessage) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == "user" {
			return msgs[i].Content
		}
	}
	return msgs[len(msgs)-1].Content
}
