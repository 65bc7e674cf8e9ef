package assistant

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	assistantService "github.com/zhouzirui/jashn-planner/backend/internal/service/assistant"
	"github.com/zhouzirui/jashn-planner/backend/pkg/utils"
)

// Profile describes the assistant to clients.
type Profile struct {
	Name             string   `json:"name"`
	Provider         string   `json:"provider,omitempty"`
	Available        bool     `json:"available"`
	WelcomeMessage   string   `json:"welcomeMessage"`
	PersonalityHints []string `json:"personalityHints"`
	SuggestionTypes  []string `json:"suggestionTypes"`
}

// Handler serves the assistant profile.
type Handler struct {
	profile Profile
}

// New builds the handler from the persona template. provider is empty when no model is configured.
func New(persona assistantService.PromptTemplate, provider string) *Handler {
	types := make([]string, 0)
	if schema := assistantService.SuggestionSchema(); schema.Items != nil {
		if prop, ok := schema.Items.Properties["type"]; ok {
			types = append(types, prop.Enum...)
		}
	}

	return &Handler{
		profile: Profile{
			Name:             "PlanPal",
			Provider:         provider,
			Available:        provider != "",
			WelcomeMessage:   persona.WelcomeMessage,
			PersonalityHints: append([]string(nil), persona.PersonalityHints...),
			SuggestionTypes:  types,
		},
	}
}

// RegisterRoutes 注册助手信息路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/assistant", h.handleProfile)
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.profile)
}
