package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gendomain "github.com/metrically/metrically-backend/internal/generation/domain"
	kpidomain "github.com/metrically/metrically-backend/internal/kpis/domain"
	"github.com/metrically/metrically-backend/internal/profiles/domain"
)

type fakeProfileStore struct {
	existing *domain.StartupProfile

	findErr   error
	createErr error
	updateErr error

	created *domain.StartupProfile
	updates []domain.ProfileAttrs
}

func (f *fakeProfileStore) FindByUser(ctx context.Context, userID string) (*domain.StartupProfile, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.existing == nil {
		return nil, domain.ErrProfileNotFound
	}
	return f.existing, nil
}

func (f *fakeProfileStore) Create(ctx context.Context, userID string, attrs domain.ProfileAttrs) (*domain.StartupProfile, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	p := &domain.StartupProfile{
		StartupID:      "startup-1",
		UserID:         userID,
		CompanyName:    attrs.CompanyName,
		IndustrySector: attrs.IndustrySector,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	f.created = p
	return p, nil
}

func (f *fakeProfileStore) Update(ctx context.Context, userID, profileID string, attrs domain.ProfileAttrs) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, attrs)
	return nil
}

type fakeKPIStore struct {
	insertErr error
	inserted  *kpidomain.GeneratedKPISet
}

func (f *fakeKPIStore) Insert(ctx context.Context, userID, startupID string, content gendomain.KPIContent) (*kpidomain.GeneratedKPISet, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	set := &kpidomain.GeneratedKPISet{
		ID:        "set-1",
		UserID:    userID,
		StartupID: startupID,
		Metrics:   content.Metrics,
		Summary:   content.Summary,
		CreatedAt: time.Now(),
	}
	f.inserted = set
	return set, nil
}

type fakeGenerator struct {
	available bool

	genResp *gendomain.KPISystemResponse
	genErr  error

	statusCalls   int
	generateCalls int
	lastInfo      gendomain.CompanyInfo
}

func (f *fakeGenerator) Status(ctx context.Context) gendomain.AIServiceStatus {
	f.statusCalls++
	return gendomain.AIServiceStatus{Service: "generation", Available: f.available}
}

func (f *fakeGenerator) GenerateKPISystem(ctx context.Context, token string, info gendomain.CompanyInfo, format string) (*gendomain.KPISystemResponse, error) {
	f.generateCalls++
	f.lastInfo = info
	return f.genResp, f.genErr
}

type fakeLatestCache struct {
	puts []*kpidomain.GeneratedKPISet
}

func (f *fakeLatestCache) PutLatest(ctx context.Context, set *kpidomain.GeneratedKPISet) error {
	f.puts = append(f.puts, set)
	return nil
}

func validAttrs() domain.ProfileAttrs {
	return domain.ProfileAttrs{
		CompanyName:     "Acme Analytics",
		IndustrySector:  "SaaS",
		BusinessModel:   "subscription",
		CustomerSegment: []string{"SMB"},
		GeographicFocus: "north_america",
		CurrencyType:    "USD",
		Stage:           "seed",
		StrategicFocus:  []string{"growth", "retention"},
		CustomPrompt:    "Focus on recurring revenue metrics",
	}
}

func successResponse() *gendomain.KPISystemResponse {
	return &gendomain.KPISystemResponse{
		Success: true,
		Content: &gendomain.KPIContent{
			Metrics: []gendomain.Metric{{Name: "MRR", Description: "monthly recurring revenue"}},
			Summary: "revenue focused",
		},
	}
}

func TestSubmit_CreatesProfileAndGenerates(t *testing.T) {
	profiles := &fakeProfileStore{}
	kpis := &fakeKPIStore{}
	gen := &fakeGenerator{available: true, genResp: successResponse()}
	cache := &fakeLatestCache{}

	svc := NewSubmitService(profiles, kpis, gen, cache)

	result, err := svc.Submit(context.Background(), "user-1", "tok", validAttrs())
	require.NoError(t, err)

	assert.True(t, result.Created)
	assert.Equal(t, "startup-1", result.ProfileID)
	assert.True(t, result.Generated)
	assert.Empty(t, result.GenerationError)

	require.NotNil(t, profiles.created)
	require.NotNil(t, kpis.inserted)
	assert.Equal(t, "user-1", kpis.inserted.UserID)
	assert.Len(t, cache.puts, 1)

	// Generation request fields come from the profile form.
	assert.Equal(t, "SaaS", gen.lastInfo.ProductType)
	assert.Equal(t, "seed", gen.lastInfo.CompanyStage)
	assert.Equal(t, []string{"growth", "retention"}, gen.lastInfo.StrategicFocus)
}

func TestSubmit_UpdatesExistingProfile(t *testing.T) {
	profiles := &fakeProfileStore{
		existing: &domain.StartupProfile{StartupID: "startup-9", UserID: "user-1"},
	}
	gen := &fakeGenerator{available: true, genResp: successResponse()}

	svc := NewSubmitService(profiles, &fakeKPIStore{}, gen, nil)

	result, err := svc.Submit(context.Background(), "user-1", "tok", validAttrs())
	require.NoError(t, err)

	assert.False(t, result.Created)
	assert.Equal(t, "startup-9", result.ProfileID)
	require.Len(t, profiles.updates, 1)
	assert.Nil(t, profiles.created)
}

func TestSubmit_NoSession(t *testing.T) {
	svc := NewSubmitService(&fakeProfileStore{}, &fakeKPIStore{}, &fakeGenerator{}, nil)

	_, err := svc.Submit(context.Background(), "", "tok", validAttrs())
	assert.ErrorIs(t, err, domain.ErrNoSession)
}

func TestSubmit_ValidationFailure(t *testing.T) {
	svc := NewSubmitService(&fakeProfileStore{}, &fakeKPIStore{}, &fakeGenerator{}, nil)

	attrs := validAttrs()
	attrs.CompanyName = ""

	_, err := svc.Submit(context.Background(), "user-1", "tok", attrs)
	var missing domain.ErrMissingField
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "company_name", string(missing))
}

func TestSubmit_GenerationFailureKeepsProfile(t *testing.T) {
	profiles := &fakeProfileStore{}
	gen := &fakeGenerator{available: true, genErr: errors.New("backend exploded")}

	svc := NewSubmitService(profiles, &fakeKPIStore{}, gen, nil)

	result, err := svc.Submit(context.Background(), "user-1", "tok", validAttrs())
	require.NoError(t, err)

	assert.True(t, result.Created)
	assert.False(t, result.Generated)
	assert.NotEmpty(t, result.GenerationError)
	assert.NotNil(t, profiles.created)
}

func TestSubmit_UnsuccessfulResponseIsNotified(t *testing.T) {
	gen := &fakeGenerator{
		available: true,
		genResp:   &gendomain.KPISystemResponse{Success: false, Error: "quota exhausted"},
	}

	svc := NewSubmitService(&fakeProfileStore{}, &fakeKPIStore{}, gen, nil)

	result, err := svc.Submit(context.Background(), "user-1", "tok", validAttrs())
	require.NoError(t, err)

	assert.False(t, result.Generated)
	assert.Equal(t, "quota exhausted", result.GenerationError)
}

func TestSubmit_UnavailableBackendSkipsGeneration(t *testing.T) {
	gen := &fakeGenerator{available: false}

	svc := NewSubmitService(&fakeProfileStore{}, &fakeKPIStore{}, gen, nil)

	result, err := svc.Submit(context.Background(), "user-1", "tok", validAttrs())
	require.NoError(t, err)

	assert.False(t, result.Generated)
	assert.Empty(t, result.GenerationError)
	assert.Equal(t, 1, gen.statusCalls)
	assert.Zero(t, gen.generateCalls)
}

func TestSubmit_InsertFailureKeepsProfile(t *testing.T) {
	profiles := &fakeProfileStore{}
	kpis := &fakeKPIStore{insertErr: errors.New("db down")}
	gen := &fakeGenerator{available: true, genResp: successResponse()}

	svc := NewSubmitService(profiles, kpis, gen, nil)

	result, err := svc.Submit(context.Background(), "user-1", "tok", validAttrs())
	require.NoError(t, err)

	assert.False(t, result.Generated)
	assert.NotEmpty(t, result.GenerationError)
	assert.NotNil(t, profiles.created)
}

func TestSubmit_FindErrorFailsBeforeWrite(t *testing.T) {
	profiles := &fakeProfileStore{findErr: errors.New("connection refused")}
	gen := &fakeGenerator{available: true}

	svc := NewSubmitService(profiles, &fakeKPIStore{}, gen, nil)

	_, err := svc.Submit(context.Background(), "user-1", "tok", validAttrs())
	require.Error(t, err)
	assert.Zero(t, gen.statusCalls)
}

// countingStore mimics the query-then-insert gap: it keeps reporting
// "no profile" so back-to-back first submits both take the create path.
type countingStore struct {
	fakeProfileStore
	creates int
}

func (s *countingStore) FindByUser(ctx context.Context, userID string) (*domain.StartupProfile, error) {
	return nil, domain.ErrProfileNotFound
}

func (s *countingStore) Create(ctx context.Context, userID string, attrs domain.ProfileAttrs) (*domain.StartupProfile, error) {
	s.creates++
	return &domain.StartupProfile{StartupID: fmt.Sprintf("startup-%d", s.creates), UserID: userID}, nil
}

// Two rapid first submits can both observe "no profile" and insert
// twice. This documents the known duplicate-row gap; it is not a
// guarantee to preserve.
func TestSubmit_RapidFirstSubmitsCanDuplicate(t *testing.T) {
	store := &countingStore{}
	gen := &fakeGenerator{available: false}

	svc := NewSubmitService(store, &fakeKPIStore{}, gen, nil)

	first, err := svc.Submit(context.Background(), "user-1", "tok", validAttrs())
	require.NoError(t, err)
	second, err := svc.Submit(context.Background(), "user-1", "tok", validAttrs())
	require.NoError(t, err)

	assert.True(t, first.Created)
	assert.True(t, second.Created)
	assert.Equal(t, 2, store.creates)
	assert.NotEqual(t, first.ProfileID, second.ProfileID)
}

func TestCompanyInfoFromProfile(t *testing.T) {
	info := CompanyInfoFromProfile(validAttrs())

	assert.Equal(t, "SaaS", info.ProductType)
	assert.Equal(t, "SaaS", info.Industry)
	assert.Equal(t, "seed", info.CompanyStage)
	assert.Equal(t, "subscription", info.BusinessModel)
	assert.Equal(t, "Focus on recurring revenue metrics", info.CustomPrompt)
}
