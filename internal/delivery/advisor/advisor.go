package advisor

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"gobot/internal/bootstrap"
	"gobot/internal/domain/game"
	errs "gobot/internal/errors"
	"gobot/internal/httpresponse"
	"gobot/internal/usecase/selector"
	"gobot/internal/utils"
)

type Advisor interface {
	FindMove(ctx context.Context, setup string) (*selector.Decision, error)
	Advise(ctx context.Context, setup string, ratio float64, mask selector.ViewMask) (*selector.Advice, error)
}

// History lists journaled decisions of one game, newest first.
type History interface {
	Recent(ctx context.Context, uid int64, limit int64) ([]game.JournalEntry, error)
}

const (
	defaultJournalLimit = 20
	maxJournalLimit     = 200
)

type FindMoveRequest struct {
	Setup string `json:"setup"`
}

type FindMoveResponse struct {
	Move       string  `json:"move"`
	Pos        int     `json:"pos"`
	Setup      string  `json:"setup"`
	Confidence float64 `json:"confidence"`
	Forced     bool    `json:"forced"`
	ElapsedMs  int64   `json:"elapsed_ms"`
}

// AdviseRequest asks for ranked suggestions. Views is a bitmask of
// orientations, zero meaning all of them; Ratio zero takes the default.
type AdviseRequest struct {
	SID   string  `json:"sid,omitempty"`
	Setup string  `json:"setup"`
	Ratio float64 `json:"ratio,omitempty"`
	Views uint8   `json:"views,omitempty"`
}

type AdviseResponse struct {
	SID         string                `json:"sid,omitempty"`
	Suggestions []selector.Suggestion `json:"suggestions"`
	Hints       []string              `json:"hints"`
	ElapsedMs   int64                 `json:"elapsed_ms"`
}

type wsError struct {
	SID   string `json:"sid,omitempty"`
	Error string `json:"error"`
}

type AdvisorHandler struct {
	cfg     bootstrap.Config
	log     *zap.SugaredLogger
	advisor Advisor
	history History
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewAdvisorHandler(cfg bootstrap.Config, log *zap.SugaredLogger, advisor Advisor) *AdvisorHandler {
	return &AdvisorHandler{
		cfg:     cfg,
		log:     log,
		advisor: advisor,
	}
}

// WithHistory enables GET /journal/{uid}.
func (a *AdvisorHandler) WithHistory(h History) *AdvisorHandler {
	a.history = h
	return a
}

func (a *AdvisorHandler) Routes(r chi.Router) {
	r.Get("/health", a.HandleHealth)
	r.Post("/findMove", a.HandleFindMove)
	r.Post("/advise", a.HandleAdvise)
	r.Get("/advise/ws", a.HandleAdviseWS)
	if a.history != nil {
		r.Get("/journal/{uid}", a.HandleJournal)
	}
}

func (a *AdvisorHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *AdvisorHandler) HandleFindMove(w http.ResponseWriter, r *http.Request) {
	var req FindMoveRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		a.log.Errorw("findMove: malformed request", "error", err)
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, httpresponse.MALFORMEDJSON_errorDesc)
		return
	}

	d, err := a.advisor.FindMove(r.Context(), req.Setup)
	if err != nil {
		a.writeError(w, "findMove", err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, FindMoveResponse{
		Move:       d.Move,
		Pos:        d.Pos,
		Setup:      d.Setup,
		Confidence: d.Confidence,
		Forced:     d.Forced,
		ElapsedMs:  d.Elapsed.Milliseconds(),
	})
}

func (a *AdvisorHandler) HandleAdvise(w http.ResponseWriter, r *http.Request) {
	var req AdviseRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		a.log.Errorw("advise: malformed request", "error", err)
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, httpresponse.MALFORMEDJSON_errorDesc)
		return
	}

	resp, err := a.advise(r.Context(), req)
	if err != nil {
		a.writeError(w, "advise", err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

// HandleAdviseWS answers one AdviseRequest per text message until the
// client goes away.
func (a *AdvisorHandler) HandleAdviseWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.log.Errorw("advise ws: upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for {
		var req AdviseRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				a.log.Warnw("advise ws: read failed", "error", err)
			}
			return
		}

		var reply any
		resp, err := a.advise(r.Context(), req)
		if err != nil {
			a.log.Errorw("advise ws: request failed", "sid", req.SID, "error", err)
			reply = wsError{SID: req.SID, Error: err.Error()}
		} else {
			reply = resp
		}
		if err := conn.WriteJSON(reply); err != nil {
			a.log.Warnw("advise ws: write failed", "error", err)
			return
		}
	}
}

func (a *AdvisorHandler) HandleJournal(w http.ResponseWriter, r *http.Request) {
	uid, err := strconv.ParseInt(chi.URLParam(r, "uid"), 10, 64)
	if err != nil {
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, "uid must be an integer")
		return
	}
	limit := int64(defaultJournalLimit)
	if q := r.URL.Query().Get("limit"); q != "" {
		limit, err = strconv.ParseInt(q, 10, 64)
		if err != nil || limit < 1 {
			httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(limit, maxJournalLimit)
	}

	entries, err := a.history.Recent(r.Context(), uid, limit)
	if err != nil {
		a.writeError(w, "journal", err)
		return
	}
	if entries == nil {
		entries = []game.JournalEntry{}
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, entries)
}

func (a *AdvisorHandler) advise(ctx context.Context, req AdviseRequest) (*AdviseResponse, error) {
	ratio := req.Ratio
	if ratio <= 0 {
		ratio = a.cfg.AdviceRatio
	}
	advice, err := a.advisor.Advise(ctx, req.Setup, ratio, selector.ViewMask(req.Views))
	if err != nil {
		return nil, err
	}
	return &AdviseResponse{
		SID:         req.SID,
		Suggestions: advice.Suggestions,
		Hints:       advice.Hints,
		ElapsedMs:   advice.Elapsed.Milliseconds(),
	}, nil
}

func (a *AdvisorHandler) writeError(w http.ResponseWriter, op string, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		a.log.Errorw(op+" failed", "error", err)
	} else {
		a.log.Infow(op+" rejected", "error", err)
	}
	httpresponse.WriteErrorWithStatus(w, status, err.Error())
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrMalformedSetup), errors.Is(err, errs.ErrBoardOverflow):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrNoCandidate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrEvaluator), errors.Is(err, errs.ErrBadTensor):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
