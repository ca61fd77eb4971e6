package http

import (
	"github.com/metrically/metrically-backend/internal/profiles/service"
)

// Handler bundles the dependencies for profile HTTP endpoints.
type Handler struct {
	profiles  service.ProfileStore
	submitter *service.SubmitService
	autosave  *service.AutosaveCoordinator
}

func New(profiles service.ProfileStore, submitter *service.SubmitService, autosave *service.AutosaveCoordinator) *Handler {
	return &Handler{profiles: profiles, submitter: submitter, autosave: autosave}
}
