package child

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matricare/api/internal/platform/apperr"
)

// =========== Mocks ===========

type mockChildRepo struct {
	store map[uuid.UUID]*Child
}

func newMockChildRepo() *mockChildRepo {
	return &mockChildRepo{store: make(map[uuid.UUID]*Child)}
}

func (m *mockChildRepo) Create(_ context.Context, ch *Child) error {
	ch.ID = uuid.New()
	if ch.Screenings == nil {
		ch.Screenings = map[string]ScreeningResult{}
	}
	m.store[ch.ID] = ch
	return nil
}

func (m *mockChildRepo) GetByID(_ context.Context, id uuid.UUID) (*Child, error) {
	ch, ok := m.store[id]
	if !ok {
		return nil, apperr.NotFoundf("child not found")
	}
	return ch, nil
}

func (m *mockChildRepo) ListByMother(_ context.Context, motherUserID uuid.UUID) ([]*Child, error) {
	var result []*Child
	for _, ch := range m.store {
		if ch.MotherUserID == motherUserID {
			result = append(result, ch)
		}
	}
	return result, nil
}

func (m *mockChildRepo) Update(_ context.Context, ch *Child) error {
	if _, ok := m.store[ch.ID]; !ok {
		return apperr.NotFoundf("child not found")
	}
	m.store[ch.ID] = ch
	return nil
}

func (m *mockChildRepo) ReplaceScreenings(_ context.Context, id uuid.UUID, screenings map[string]ScreeningResult) error {
	ch, ok := m.store[id]
	if !ok {
		return apperr.NotFoundf("child not found")
	}
	ch.Screenings = screenings
	return nil
}

func (m *mockChildRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.store[id]; !ok {
		return apperr.NotFoundf("child not found")
	}
	delete(m.store, id)
	return nil
}

type mockMotherRegistry struct {
	children map[uuid.UUID][]uuid.UUID
}

func newMockMotherRegistry() *mockMotherRegistry {
	return &mockMotherRegistry{children: make(map[uuid.UUID][]uuid.UUID)}
}

func (m *mockMotherRegistry) AttachChild(_ context.Context, motherUserID, childID uuid.UUID) error {
	for _, id := range m.children[motherUserID] {
		if id == childID {
			return nil
		}
	}
	m.children[motherUserID] = append(m.children[motherUserID], childID)
	return nil
}

func (m *mockMotherRegistry) DetachChild(_ context.Context, motherUserID, childID uuid.UUID) error {
	kept := m.children[motherUserID][:0]
	for _, id := range m.children[motherUserID] {
		if id != childID {
			kept = append(kept, id)
		}
	}
	m.children[motherUserID] = kept
	return nil
}

type noopTx struct{}

func (noopTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*Service, *mockMotherRegistry) {
	mothers := newMockMotherRegistry()
	return NewService(newMockChildRepo(), mothers, noopTx{}), mothers
}

func validChild() *Child {
	return &Child{
		FullName:    "Lina",
		DateOfBirth: time.Now().AddDate(-2, 0, 0),
		Gender:      GenderFemale,
	}
}

// =========== Tests ===========

func TestRegister_AttachesToMother(t *testing.T) {
	svc, mothers := newTestService()
	mID := uuid.New()

	ch, err := svc.Register(context.Background(), mID, validChild())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mothers.children[mID]) != 1 || mothers.children[mID][0] != ch.ID {
		t.Errorf("child not recorded on mother: %v", mothers.children[mID])
	}
}

func TestRegister_TodayDOBAllowed(t *testing.T) {
	svc, _ := newTestService()
	ch := validChild()
	ch.DateOfBirth = time.Now()
	if _, err := svc.Register(context.Background(), uuid.New(), ch); err != nil {
		t.Fatalf("expected today's date to pass, got %v", err)
	}
}

func TestRegister_FutureDOBRejected(t *testing.T) {
	svc, _ := newTestService()
	ch := validChild()
	ch.DateOfBirth = time.Now().AddDate(0, 0, 2)
	if _, err := svc.Register(context.Background(), uuid.New(), ch); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestRegister_BadGender(t *testing.T) {
	svc, _ := newTestService()
	ch := validChild()
	ch.Gender = "unknown"
	if _, err := svc.Register(context.Background(), uuid.New(), ch); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestGet_MotherOwnershipEnforced(t *testing.T) {
	svc, _ := newTestService()
	mID := uuid.New()
	ch, _ := svc.Register(context.Background(), mID, validChild())

	if _, err := svc.Get(context.Background(), mID, "mother", ch.ID); err != nil {
		t.Errorf("owner read failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), uuid.New(), "mother", ch.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("expected forbidden for other mother, got %v", err)
	}
	if _, err := svc.Get(context.Background(), uuid.New(), "doctor", ch.ID); err != nil {
		t.Errorf("doctor read failed: %v", err)
	}
}

func TestUpdate_PreservesScreenings(t *testing.T) {
	svc, _ := newTestService()
	mID := uuid.New()
	ch, _ := svc.Register(context.Background(), mID, validChild())
	svc.UpdateScreenings(context.Background(), mID, ch.ID, map[string]ScreeningResult{
		"memoryMatch": {Score: 80},
	})

	updated, err := svc.Update(context.Background(), mID, ch.ID, validChild())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := updated.Screenings["memoryMatch"]; !ok {
		t.Error("screenings lost on profile update")
	}
}

func TestUpdateScreenings_WholesaleReplace(t *testing.T) {
	svc, _ := newTestService()
	mID := uuid.New()
	ch, _ := svc.Register(context.Background(), mID, validChild())

	svc.UpdateScreenings(context.Background(), mID, ch.ID, map[string]ScreeningResult{
		"memoryMatch":   {Score: 80},
		"wordAdventure": {Score: 60},
	})
	updated, err := svc.UpdateScreenings(context.Background(), mID, ch.ID, map[string]ScreeningResult{
		"colorPattern": {Score: 90},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Screenings) != 1 {
		t.Errorf("expected wholesale replace, got %v", updated.Screenings)
	}
}

func TestUpdateScreenings_UnknownSlot(t *testing.T) {
	svc, _ := newTestService()
	mID := uuid.New()
	ch, _ := svc.Register(context.Background(), mID, validChild())

	_, err := svc.UpdateScreenings(context.Background(), mID, ch.ID, map[string]ScreeningResult{
		"puzzleQuest": {Score: 50},
	})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestDelete_DetachesFromMother(t *testing.T) {
	svc, mothers := newTestService()
	mID := uuid.New()
	ch, _ := svc.Register(context.Background(), mID, validChild())

	if err := svc.Delete(context.Background(), mID, ch.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mothers.children[mID]) != 0 {
		t.Errorf("child still on mother after delete: %v", mothers.children[mID])
	}
	if _, err := svc.Get(context.Background(), mID, "mother", ch.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestDelete_OnlyOwner(t *testing.T) {
	svc, _ := newTestService()
	ch, _ := svc.Register(context.Background(), uuid.New(), validChild())
	if err := svc.Delete(context.Background(), uuid.New(), ch.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
}
