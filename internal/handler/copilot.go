package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/nsoftlabs/whitespace-server/internal/ai"
	"github.com/nsoftlabs/whitespace-server/internal/model"
	"github.com/nsoftlabs/whitespace-server/internal/repository"
	"github.com/nsoftlabs/whitespace-server/internal/session"
)

// chatErrorReply is shown in place of a model turn when the backend is
// unreachable. The conversation itself stays usable.
const chatErrorReply = "I'm having trouble connecting to the strategy engine. Please try again."

// Briefer is the slice of the AI client the copilot needs.
type Briefer interface {
	GenerateBrief(ctx context.Context, opp model.Opportunity) (string, error)
	Chat(ctx context.Context, sess model.ChatSession, message string) (string, error)
}

// CopilotHandler serves executive briefs and the strategy chat. Chat state
// lives in the session store and is replayed to the model on each turn.
type CopilotHandler struct {
	Repo     *repository.WorkspaceRepo
	Sessions session.Store
	AI       Briefer
	Log      *logrus.Logger

	now func() time.Time
}

func NewCopilotHandler(repo *repository.WorkspaceRepo, sessions session.Store, briefer Briefer, log *logrus.Logger) *CopilotHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CopilotHandler{
		Repo:     repo,
		Sessions: sessions,
		AI:       briefer,
		Log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ----- DTOs -----

type startChatReq struct {
	OppID string `json:"oppId"`
}
type chatMessageReq struct {
	Message string `json:"message"`
}

// Brief generates an executive briefing for one opportunity. Backend
// failures degrade to a canned notice rather than an error status; the
// client renders whatever markdown it gets.
func (h *CopilotHandler) Brief(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	opp, err := h.Repo.GetOpportunity(ctx, c.Param("oppId"))
	if err != nil {
		if errors.Is(err, repository.ErrOpportunityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "opportunity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load opportunity failed"})
	}

	brief, err := h.AI.GenerateBrief(ctx, opp)
	if err != nil {
		if !errors.Is(err, ai.ErrUpstream) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "brief generation failed"})
		}
		h.Log.WithField("opportunity", opp.ID).Warn("brief fell back to canned notice")
		brief = ai.FallbackBrief
	}
	return c.JSON(http.StatusOK, echo.Map{"brief": brief})
}

// StartChat opens a conversation. Without an oppId the session is the
// global strategy assistant, seeded with the caller's name, role and
// tenant; with one it is scoped to that opportunity's data.
func (h *CopilotHandler) StartChat(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	var req startChatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	me, err := h.Repo.GetUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown user"})
	}

	var instruction, greeting string
	if req.OppID != "" {
		opp, err := h.Repo.GetOpportunity(ctx, req.OppID)
		if err != nil {
			if errors.Is(err, repository.ErrOpportunityNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "opportunity not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load opportunity failed"})
		}
		instruction = opportunityInstruction(me, opp)
		greeting = fmt.Sprintf("I've reviewed %q. Ask me about its risks, market sizing, or how to position against it.", opp.Title)
	} else {
		instruction = globalInstruction(me)
		greeting = fmt.Sprintf("Hello %s. I'm ready to discuss market trends or help refine your search strategy. What are you looking for today?", firstName(me.Name))
	}

	now := h.now()
	sess := model.ChatSession{
		ID:                "chat_" + uuid.NewString(),
		SystemInstruction: instruction,
		Messages: []model.ChatMessage{{
			ID:        "init",
			Role:      model.ChatRoleModel,
			Text:      greeting,
			Timestamp: now.UnixMilli(),
		}},
		CreatedAt: now.UnixMilli(),
	}
	if err := h.Sessions.PutChat(ctx, sess); err != nil {
		h.Log.WithError(err).Error("start chat: persist session")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "start chat failed"})
	}
	return c.JSON(http.StatusCreated, sess)
}

// Message sends one user turn and returns the updated session. An
// unreachable backend yields a canned model turn instead of an error so
// the conversation survives transient outages.
func (h *CopilotHandler) Message(c echo.Context) error {
	var req chatMessageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	sess, err := h.Sessions.GetChat(ctx, c.Param("sessionId"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "chat session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load chat failed"})
	}

	reply, err := h.AI.Chat(ctx, sess, req.Message)
	if err != nil {
		if !errors.Is(err, ai.ErrUpstream) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "chat failed"})
		}
		h.Log.WithField("session", sess.ID).Warn("chat turn fell back to canned reply")
		reply = chatErrorReply
	}

	now := h.now().UnixMilli()
	sess.Messages = append(sess.Messages,
		model.ChatMessage{ID: fmt.Sprintf("user_%d", now), Role: model.ChatRoleUser, Text: req.Message, Timestamp: now},
		model.ChatMessage{ID: fmt.Sprintf("model_%d", now), Role: model.ChatRoleModel, Text: reply, Timestamp: now},
	)
	if err := h.Sessions.PutChat(ctx, sess); err != nil {
		h.Log.WithError(err).Error("chat: persist session")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "chat failed"})
	}
	return c.JSON(http.StatusOK, sess)
}

func globalInstruction(u model.User) string {
	return fmt.Sprintf(`You are a Global Strategy Assistant for a user named %s.
Their role is: %s.
Their Tenant is: %s.

You have access to general market data in FinTech, MedTech, and GovTech.
You are helpful, concise, and professional.

If they ask about specific opportunities, guide them to use the "Opportunity Co-pilot" inside the Deep Dive modal.
Focus on high-level trends, market definitions, and general strategy advice.`, u.Name, u.Role, u.TenantSlug)
}

func opportunityInstruction(u model.User, o model.Opportunity) string {
	return fmt.Sprintf(`You are an Opportunity Co-pilot advising %s (%s).
You are discussing one specific business opportunity:

**Title:** %s
**Vertical:** %s
**Impact Score:** %d/100
**Trend:** %s
**Evidence:** %s
**Description:** %s

Answer questions about this opportunity only. Be concise, professional, and candid about risks.`,
		u.Name, u.Role, o.Title, o.Vertical, o.ImpactScore, o.Trend, o.EvidenceSnippet, o.Description)
}

func firstName(name string) string {
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}
