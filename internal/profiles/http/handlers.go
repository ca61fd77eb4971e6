package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/metrically/metrically-backend/internal/auth"
	"github.com/metrically/metrically-backend/internal/profiles/domain"
)

// get returns the caller's profile. "No profile yet" is a normal empty
// state, not an error to surface.
func (h *Handler) get(c *gin.Context) {
	userID := auth.UserID(c)

	p, err := h.profiles.FindByUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusOK, gin.H{"ok": true, "profile": nil})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to load your profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "profile": p})
}

// submitBody mirrors the profile form.
type submitBody struct {
	CompanyName     string   `json:"company_name"`
	IndustrySector  string   `json:"industry_sector"`
	BusinessModel   string   `json:"business_model"`
	CustomerSegment []string `json:"customer_segment"`
	GeographicFocus string   `json:"geographic_focus"`
	CurrencyType    string   `json:"currency_type"`
	Stage           string   `json:"stage"`
	StrategicFocus  []string `json:"strategic_focus"`
	CustomPrompt    string   `json:"custom_prompt"`
}

func (b submitBody) attrs() domain.ProfileAttrs {
	return domain.ProfileAttrs{
		CompanyName:     b.CompanyName,
		IndustrySector:  b.IndustrySector,
		BusinessModel:   b.BusinessModel,
		CustomerSegment: b.CustomerSegment,
		GeographicFocus: b.GeographicFocus,
		CurrencyType:    b.CurrencyType,
		Stage:           b.Stage,
		StrategicFocus:  b.StrategicFocus,
		CustomPrompt:    b.CustomPrompt,
	}
}

// submit handles the explicit Save action.
func (h *Handler) submit(c *gin.Context) {
	var body submitBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	userID := auth.UserID(c)
	token := c.GetString("session_token")

	result, err := h.submitter.Submit(c.Request.Context(), userID, token, body.attrs())
	if err != nil {
		var missing domain.ErrMissingField
		if errors.As(err, &missing) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": missing.Error(), "field": string(missing)})
			return
		}
		if errors.Is(err, domain.ErrNoSession) {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "not signed in"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to save your profile"})
		return
	}

	status := http.StatusOK
	resp := gin.H{"ok": true, "result": result}
	if result.Created {
		status = http.StatusCreated
		// Clients hold the results view back briefly so the
		// generation-in-progress notice stays visible.
		resp["redirect"] = "/app/dashboard"
		resp["redirect_after_ms"] = 1500
	}
	c.JSON(status, resp)
}

// draft feeds the autosave coordinator with in-progress edits. It
// acknowledges immediately; the save happens in the background after
// the debounce quiet period. Drafts for users without a profile are
// dropped (autosave never creates).
func (h *Handler) draft(c *gin.Context) {
	var body struct {
		StartupID string `json:"startup_id"`
		submitBody
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	userID := auth.UserID(c)

	// Resolve the caller's own profile; the body's startup_id is never
	// trusted as a write target.
	profile, err := h.profiles.FindByUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusAccepted, gin.H{"ok": true, "scheduled": false})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to load your profile"})
		return
	}
	if body.StartupID != "" && body.StartupID != profile.StartupID {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "profile does not belong to you"})
		return
	}

	h.autosave.MarkDirty(userID, profile.StartupID, body.attrs())
	c.JSON(http.StatusAccepted, gin.H{"ok": true, "scheduled": true})
}
