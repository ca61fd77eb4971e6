package service

import (
	"context"
	"errors"
	"fmt"

	gendomain "github.com/metrically/metrically-backend/internal/generation/domain"
	kpidomain "github.com/metrically/metrically-backend/internal/kpis/domain"
	"github.com/metrically/metrically-backend/internal/profiles/domain"
)

// ProfileStore is the persistence surface the orchestrator needs.
// Update is scoped to the owning user; a profile id the user does not
// own behaves as not-found.
type ProfileStore interface {
	FindByUser(ctx context.Context, userID string) (*domain.StartupProfile, error)
	Create(ctx context.Context, userID string, attrs domain.ProfileAttrs) (*domain.StartupProfile, error)
	Update(ctx context.Context, userID, profileID string, attrs domain.ProfileAttrs) error
}

// KPIStore persists generation results.
type KPIStore interface {
	Insert(ctx context.Context, userID, startupID string, content gendomain.KPIContent) (*kpidomain.GeneratedKPISet, error)
}

// Generator is the generation gateway surface. Status is advisory;
// generation is a best-effort enhancement of a profile save.
type Generator interface {
	Status(ctx context.Context) gendomain.AIServiceStatus
	GenerateKPISystem(ctx context.Context, token string, info gendomain.CompanyInfo, format string) (*gendomain.KPISystemResponse, error)
}

// LatestCache mirrors the newest set for fast reads. Optional.
type LatestCache interface {
	PutLatest(ctx context.Context, set *kpidomain.GeneratedKPISet) error
}

// SubmitResult reports what one explicit save did. GenerationError is a
// user-facing notification, never a failure of the save itself.
type SubmitResult struct {
	ProfileID       string `json:"profile_id"`
	Created         bool   `json:"created"`
	Generated       bool   `json:"generated"`
	GenerationError string `json:"generation_error,omitempty"`
}

// SubmitService orchestrates the explicit profile save: decide
// create-vs-update, persist, and only on success attempt KPI
// generation. A profile write is never rolled back because generation
// failed downstream.
type SubmitService struct {
	profiles ProfileStore
	kpis     KPIStore
	gen      Generator
	cache    LatestCache
}

func NewSubmitService(profiles ProfileStore, kpis KPIStore, gen Generator, cache LatestCache) *SubmitService {
	return &SubmitService{
		profiles: profiles,
		kpis:     kpis,
		gen:      gen,
		cache:    cache,
	}
}

// Submit persists the form for the user and attempts generation.
// token is the caller's session token, forwarded to the generation
// backend.
func (s *SubmitService) Submit(ctx context.Context, userID, token string, attrs domain.ProfileAttrs) (*SubmitResult, error) {
	if userID == "" {
		return nil, domain.ErrNoSession
	}
	if err := attrs.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.profiles.FindByUser(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	result := &SubmitResult{}

	if existing != nil {
		if err := s.profiles.Update(ctx, userID, existing.StartupID, attrs); err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
		result.ProfileID = existing.StartupID
	} else {
		created, err := s.profiles.Create(ctx, userID, attrs)
		if err != nil {
			return nil, fmt.Errorf("create profile: %w", err)
		}
		result.ProfileID = created.StartupID
		result.Created = true
	}

	// The profile write is committed; everything past this point is
	// strictly additive and must not fail the submit.
	s.generateKPIs(ctx, userID, token, result, attrs)

	return result, nil
}

// generateKPIs runs the best-effort generation leg of a submit: probe
// availability, generate, persist the result. Unavailability is skipped
// silently; any other failure is recorded as a notification on the
// result.
func (s *SubmitService) generateKPIs(ctx context.Context, userID, token string, result *SubmitResult, attrs domain.ProfileAttrs) {
	status := s.gen.Status(ctx)
	if !status.Available {
		return
	}

	resp, err := s.gen.GenerateKPISystem(ctx, token, CompanyInfoFromProfile(attrs), gendomain.FormatStructured)
	if err != nil {
		result.GenerationError = "KPI generation is temporarily unavailable, your profile was saved"
		return
	}
	if !resp.Success || resp.Content == nil {
		msg := resp.Error
		if msg == "" {
			msg = "KPI generation failed, your profile was saved"
		}
		result.GenerationError = msg
		return
	}

	set, err := s.kpis.Insert(ctx, userID, result.ProfileID, *resp.Content)
	if err != nil {
		result.GenerationError = "generated KPIs could not be stored, your profile was saved"
		return
	}

	result.Generated = true

	if s.cache != nil {
		// Cache refresh is best-effort on top of best-effort.
		_ = s.cache.PutLatest(ctx, set)
	}
}

// CompanyInfoFromProfile derives the generation request from profile
// attributes.
func CompanyInfoFromProfile(attrs domain.ProfileAttrs) gendomain.CompanyInfo {
	return gendomain.CompanyInfo{
		ProductType:    attrs.IndustrySector,
		CompanyStage:   attrs.Stage,
		Industry:       attrs.IndustrySector,
		BusinessModel:  attrs.BusinessModel,
		StrategicFocus: attrs.StrategicFocus,
		CustomPrompt:   attrs.CustomPrompt,
	}
}
