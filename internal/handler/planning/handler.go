package planning

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	planningService "github.com/zhouzirui/jashn-planner/backend/internal/service/planning"
	"github.com/zhouzirui/jashn-planner/backend/pkg/utils"
)

// Handler 群组、活动与投票的HTTP处理器
type Handler struct {
	svc *planningService.Service
}

// New 创建规划处理器
func New(svc *planningService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册规划相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/users", h.handleListUsers)
	r.Get("/groups", h.handleListGroups)
	r.Post("/groups/{groupID}/select", h.handleSelectGroup)
	r.Get("/groups/{groupID}/events", h.handleListEvents)
	r.Get("/groups/{groupID}/polls", h.handleListPolls)
	r.Post("/polls/{pollID}/votes", h.handleVote)
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"users": h.svc.Users(r.Context()),
	})
}

func (h *Handler) handleListGroups(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"groups": h.svc.ListGroups(r.Context()),
	}
	if selected, ok := h.svc.Selected(r.Context()); ok {
		resp["selectedGroupId"] = selected.ID
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSelectGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.svc.SelectGroup(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, group)
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	if !h.groupExists(r, groupID) {
		utils.RespondError(w, http.StatusNotFound, planningService.ErrGroupNotFound.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"events": h.svc.FilteredEvents(r.Context(), groupID),
	})
}

func (h *Handler) handleListPolls(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	if !h.groupExists(r, groupID) {
		utils.RespondError(w, http.StatusNotFound, planningService.ErrGroupNotFound.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"polls": h.svc.FilteredPolls(r.Context(), groupID),
	})
}

func (h *Handler) handleVote(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		OptionID string `json:"optionId"`
		UserID   string `json:"userId"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.OptionID == "" {
		utils.RespondError(w, http.StatusBadRequest, "optionId is required")
		return
	}
	if _, ok := h.svc.FindUser(r.Context(), payload.UserID); payload.UserID != "" && !ok {
		utils.RespondError(w, http.StatusBadRequest, "user not found")
		return
	}

	poll, err := h.svc.Vote(r.Context(), chi.URLParam(r, "pollID"), payload.OptionID, payload.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, poll)
}

func (h *Handler) groupExists(r *http.Request, groupID string) bool {
	for _, g := range h.svc.ListGroups(r.Context()) {
		if g.ID == groupID {
			return true
		}
	}
	return false
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, planningService.ErrGroupNotFound),
		errors.Is(err, planningService.ErrPollNotFound),
		errors.Is(err, planningService.ErrOptionNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, planningService.ErrUserRequired):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}
