// Package httpapi exposes the engine's read snapshots and actions over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"devpet/internal/achievement"
	"devpet/internal/effect"
	"devpet/internal/game"
	"devpet/internal/pet"
	"devpet/internal/upgrade"
)

// Handler serves one engine.
type Handler struct {
	engine *game.Engine
}

// NewHandler creates a handler for e.
func NewHandler(e *game.Engine) *Handler {
	return &Handler{engine: e}
}

// Router returns a chi router with the API mounted at the root.
func (h *Handler) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLog)
	r.Use(chimw.Recoverer)
	h.Routes(r)
	return r
}

// Routes mounts the API on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/stats", h.GetStats)
	r.Get("/upgrades", h.ListUpgrades)
	r.Get("/achievements", h.ListAchievements)
	r.Get("/items", h.ListItems)
	r.Get("/events/pending", h.GetPendingEvent)

	r.Post("/actions/{action}", h.DoAction)
	r.Post("/experience", h.GainExperience)
	r.Post("/money", h.EarnMoney)
	r.Post("/upgrades/{id}/purchase", h.PurchaseUpgrade)
	r.Post("/events/{id}/choices/{n}", h.ResolveEvent)
	r.Post("/minigames/{kind}", h.PlayMiniGame)
	r.Post("/items/{id}/buy", h.BuyItem)
	r.Post("/items/{id}/use", h.UseItem)
}

func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		began := time.Now()
		next.ServeHTTP(ww, r)
		logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(began),
			"request":  chimw.GetReqID(r.Context()),
		}).Debug("HTTP request")
	})
}

// JSON writes v with status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, kind, message string) {
	JSON(w, status, map[string]any{
		"error": map[string]any{
			"message": message,
			"kind":    kind,
			"code":    status,
		},
	})
}

var notFound = []error{
	upgrade.ErrNotFound,
	game.ErrUnknownItem,
	game.ErrUnknownGame,
	game.ErrNoEvent,
}

// respond writes the stats after an action, or maps its rejection to a
// status code.
func respond(w http.ResponseWriter, s pet.Stats, err error) {
	if err == nil {
		JSON(w, http.StatusOK, statsResponse{Stats: s, Status: pet.GetStatusWithLabel(s)})
		return
	}
	rej, ok := game.AsRejection(err)
	if !ok {
		logrus.WithError(err).Error("Action failed")
		Error(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	status := http.StatusUnprocessableEntity
	if rej.Kind == game.RejectInsufficient {
		status = http.StatusConflict
	}
	for _, target := range notFound {
		if errors.Is(err, target) {
			status = http.StatusNotFound
		}
	}
	Error(w, status, rej.Kind.String(), rej.Message)
}

type statsResponse struct {
	Stats    pet.Stats `json:"stats"`
	Status   string    `json:"status"`
	Mode     string    `json:"mode,omitempty"`
	Degraded bool      `json:"degraded,omitempty"`
}

// GetStats handles GET /stats.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	s := h.engine.Stats()
	JSON(w, http.StatusOK, statsResponse{
		Stats:    s,
		Status:   pet.GetStatusWithLabel(s),
		Mode:     h.engine.Mode().String(),
		Degraded: h.engine.Degraded(),
	})
}

type upgradeView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    effect.Category `json:"category"`
	Level       int             `json:"level"`
	MaxLevel    int             `json:"max_level"`
	Cost        int             `json:"cost"`
	Bonus       float64         `json:"bonus"`
	IsUnlocked  bool            `json:"is_unlocked"`
	Requirement string          `json:"requirement,omitempty"`
}

// ListUpgrades handles GET /upgrades.
func (h *Handler) ListUpgrades(w http.ResponseWriter, r *http.Request) {
	ups := h.engine.Snapshot().Upgrades
	out := make([]upgradeView, 0, len(ups))
	for _, u := range ups {
		v := upgradeView{
			ID:         u.ID,
			Name:       u.Name,
			Category:   u.Category,
			Level:      u.Level,
			MaxLevel:   u.MaxLevel,
			Cost:       upgrade.CostOf(u),
			Bonus:      u.EffectiveBonus(),
			IsUnlocked: u.IsUnlocked,
		}
		if u.Requirement != nil && !u.IsUnlocked {
			v.Requirement = u.Requirement.Describe()
		}
		out = append(out, v)
	}
	JSON(w, http.StatusOK, out)
}

type achievementView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsUnlocked  bool   `json:"is_unlocked"`
}

// ListAchievements handles GET /achievements.
func (h *Handler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	unlocked := make(map[string]bool)
	for _, id := range achievement.UnlockedIDs(h.engine.Snapshot().Achievements) {
		unlocked[id] = true
	}
	defs := achievement.Definitions()
	out := make([]achievementView, 0, len(defs))
	for _, d := range defs {
		out = append(out, achievementView{ID: d.ID, Title: d.Title, Description: d.Description, IsUnlocked: unlocked[d.ID]})
	}
	JSON(w, http.StatusOK, out)
}

type itemView struct {
	game.Item
	Owned int `json:"owned"`
}

// ListItems handles GET /items.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	inv := h.engine.Snapshot().Inventory
	items := game.Items()
	out := make([]itemView, 0, len(items))
	for _, it := range items {
		out = append(out, itemView{Item: it, Owned: inv[it.ID]})
	}
	JSON(w, http.StatusOK, out)
}

type eventView struct {
	pet.PendingEvent
	Emoji   string   `json:"emoji"`
	Message string   `json:"message"`
	Choices []string `json:"choices"`
}

// GetPendingEvent handles GET /events/pending.
func (h *Handler) GetPendingEvent(w http.ResponseWriter, r *http.Request) {
	p, def, ok := h.engine.PendingEvent()
	if !ok {
		Error(w, http.StatusNotFound, "validation", "no pending event")
		return
	}
	choices := make([]string, len(def.Choices))
	for i, c := range def.Choices {
		choices[i] = c.Label
	}
	JSON(w, http.StatusOK, eventView{PendingEvent: p, Emoji: def.Emoji, Message: def.Message, Choices: choices})
}

// DoAction handles POST /actions/{action}.
func (h *Handler) DoAction(w http.ResponseWriter, r *http.Request) {
	actions := map[string]func() (pet.Stats, error){
		"feed":         h.engine.Feed,
		"play":         h.engine.Play,
		"work":         h.engine.Work,
		"sleep":        h.engine.ToggleSleep,
		"fast-forward": h.engine.ToggleFastForward,
		"revive":       h.engine.Revive,
		"daily-bonus":  h.engine.ClaimDailyBonus,
		"reset":        h.engine.Reset,
	}
	name := chi.URLParam(r, "action")
	fn, ok := actions[name]
	if !ok {
		Error(w, http.StatusNotFound, "validation", "unknown action "+strconv.Quote(name))
		return
	}
	s, err := fn()
	respond(w, s, err)
}

type amountRequest struct {
	Amount int `json:"amount"`
}

func decodeAmount(w http.ResponseWriter, r *http.Request) (int, bool) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "validation", "invalid JSON body")
		return 0, false
	}
	return req.Amount, true
}

// GainExperience handles POST /experience.
func (h *Handler) GainExperience(w http.ResponseWriter, r *http.Request) {
	n, ok := decodeAmount(w, r)
	if !ok {
		return
	}
	s, err := h.engine.GainExperience(n)
	respond(w, s, err)
}

// EarnMoney handles POST /money.
func (h *Handler) EarnMoney(w http.ResponseWriter, r *http.Request) {
	n, ok := decodeAmount(w, r)
	if !ok {
		return
	}
	s, err := h.engine.EarnMoney(n)
	respond(w, s, err)
}

// PurchaseUpgrade handles POST /upgrades/{id}/purchase.
func (h *Handler) PurchaseUpgrade(w http.ResponseWriter, r *http.Request) {
	s, err := h.engine.PurchaseUpgrade(chi.URLParam(r, "id"))
	respond(w, s, err)
}

// ResolveEvent handles POST /events/{id}/choices/{n}.
func (h *Handler) ResolveEvent(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		Error(w, http.StatusBadRequest, "validation", "choice must be a number")
		return
	}
	s, err := h.engine.ResolveEvent(chi.URLParam(r, "id"), n)
	respond(w, s, err)
}

// PlayMiniGame handles POST /minigames/{kind} with {"score": n}.
func (h *Handler) PlayMiniGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Score int `json:"score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "validation", "invalid JSON body")
		return
	}
	s, err := h.engine.PlayMiniGame(chi.URLParam(r, "kind"), req.Score)
	respond(w, s, err)
}

// BuyItem handles POST /items/{id}/buy.
func (h *Handler) BuyItem(w http.ResponseWriter, r *http.Request) {
	s, err := h.engine.BuyItem(chi.URLParam(r, "id"))
	respond(w, s, err)
}

// UseItem handles POST /items/{id}/use.
func (h *Handler) UseItem(w http.ResponseWriter, r *http.Request) {
	s, err := h.engine.UseItem(chi.URLParam(r, "id"))
	respond(w, s, err)
}
