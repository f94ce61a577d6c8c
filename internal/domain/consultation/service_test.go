package consultation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matricare/api/internal/platform/apperr"
)

// =========== Mocks ===========

type mockConsultationRepo struct {
	store map[uuid.UUID]*Consultation
}

func newMockConsultationRepo() *mockConsultationRepo {
	return &mockConsultationRepo{store: make(map[uuid.UUID]*Consultation)}
}

func (m *mockConsultationRepo) Create(_ context.Context, c *Consultation) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	m.store[c.ID] = &cp
	return nil
}

func (m *mockConsultationRepo) GetByID(_ context.Context, id uuid.UUID) (*Consultation, error) {
	c, ok := m.store[id]
	if !ok {
		return nil, apperr.NotFoundf("consultation not found")
	}
	cp := *c
	return &cp, nil
}

func (m *mockConsultationRepo) HasPending(_ context.Context, motherUserID, doctorUserID uuid.UUID) (bool, error) {
	for _, c := range m.store {
		if c.MotherUserID == motherUserID && c.DoctorUserID == doctorUserID && c.Status == StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockConsultationRepo) Update(_ context.Context, c *Consultation) error {
	if _, ok := m.store[c.ID]; !ok {
		return apperr.NotFoundf("consultation not found")
	}
	cp := *c
	cp.UpdatedAt = time.Now()
	m.store[c.ID] = &cp
	return nil
}

func (m *mockConsultationRepo) ListByMother(_ context.Context, motherUserID uuid.UUID, status string, limit, offset int) ([]*Consultation, int, error) {
	var result []*Consultation
	for _, c := range m.store {
		if c.MotherUserID == motherUserID && (status == "" || c.Status == status) {
			result = append(result, c)
		}
	}
	return result, len(result), nil
}

func (m *mockConsultationRepo) ListByDoctor(_ context.Context, doctorUserID uuid.UUID, status string, limit, offset int) ([]*Consultation, int, error) {
	var result []*Consultation
	for _, c := range m.store {
		if c.DoctorUserID == doctorUserID && (status == "" || c.Status == status) {
			result = append(result, c)
		}
	}
	return result, len(result), nil
}

type mockDoctorRegistry struct {
	active  map[uuid.UUID]bool
	roster  map[uuid.UUID][]uuid.UUID
	ratings map[uuid.UUID][]int
}

func newMockDoctorRegistry() *mockDoctorRegistry {
	return &mockDoctorRegistry{
		active:  make(map[uuid.UUID]bool),
		roster:  make(map[uuid.UUID][]uuid.UUID),
		ratings: make(map[uuid.UUID][]int),
	}
}

func (m *mockDoctorRegistry) IsActive(_ context.Context, doctorUserID uuid.UUID) (bool, error) {
	return m.active[doctorUserID], nil
}

func (m *mockDoctorRegistry) AddPatient(_ context.Context, doctorUserID, patientUserID uuid.UUID) error {
	for _, id := range m.roster[doctorUserID] {
		if id == patientUserID {
			return nil
		}
	}
	m.roster[doctorUserID] = append(m.roster[doctorUserID], patientUserID)
	return nil
}

func (m *mockDoctorRegistry) RateDoctor(_ context.Context, doctorUserID uuid.UUID, rating int) error {
	m.ratings[doctorUserID] = append(m.ratings[doctorUserID], rating)
	return nil
}

type noopTx struct{}

func (noopTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*Service, *mockDoctorRegistry) {
	doctors := newMockDoctorRegistry()
	return NewService(newMockConsultationRepo(), doctors, noopTx{}), doctors
}

func activeDoctor(doctors *mockDoctorRegistry) uuid.UUID {
	id := uuid.New()
	doctors.active[id] = true
	return id
}

const validMessage = "I have been feeling dizzy every morning this week."

// =========== Create ===========

func TestCreate(t *testing.T) {
	svc, doctors := newTestService()
	docID := activeDoctor(doctors)

	c, err := svc.Create(context.Background(), uuid.New(), docID, validMessage, UrgencyHigh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Status != StatusPending {
		t.Errorf("expected pending, got %s", c.Status)
	}
	if c.IsApproved != nil {
		t.Error("expected approval undecided on create")
	}
}

func TestCreate_MessageLength(t *testing.T) {
	svc, doctors := newTestService()
	docID := activeDoctor(doctors)

	if _, err := svc.Create(context.Background(), uuid.New(), docID, "too short", UrgencyLow); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error for short message, got %v", err)
	}
	long := strings.Repeat("x", 2001)
	if _, err := svc.Create(context.Background(), uuid.New(), docID, long, UrgencyLow); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error for long message, got %v", err)
	}
}

func TestCreate_InactiveDoctor(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), validMessage, UrgencyLow)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreate_DuplicatePending(t *testing.T) {
	svc, doctors := newTestService()
	docID := activeDoctor(doctors)
	motherID := uuid.New()

	if _, err := svc.Create(context.Background(), motherID, docID, validMessage, UrgencyLow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Create(context.Background(), motherID, docID, validMessage, UrgencyLow)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestCreate_NewRequestAllowedAfterCancel(t *testing.T) {
	svc, doctors := newTestService()
	docID := activeDoctor(doctors)
	motherID := uuid.New()

	c, _ := svc.Create(context.Background(), motherID, docID, validMessage, UrgencyLow)
	svc.Cancel(context.Background(), motherID, c.ID)

	if _, err := svc.Create(context.Background(), motherID, docID, validMessage, UrgencyLow); err != nil {
		t.Errorf("expected new request after cancel, got %v", err)
	}
}

// =========== Approval ===========

func TestDecide_ApproveAddsToRoster(t *testing.T) {
	svc, doctors := newTestService()
	docID := activeDoctor(doctors)
	motherID := uuid.New()
	c, _ := svc.Create(context.Background(), motherID, docID, validMessage, UrgencyLow)

	updated, err := svc.Decide(context.Background(), docID, c.ID, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.IsApproved == nil || !*updated.IsApproved {
		t.Error("expected is_approved true")
	}
	if len(doctors.roster[docID]) != 1 || doctors.roster[docID][0] != motherID {
		t.Errorf("mother not on roster: %v", doctors.roster[docID])
	}
}

func TestDecide_ApproveIsRosterIdempotent(t *testing.T) {
	svc, doctors := newTestService()
	docID := activeDoctor(doctors)
	motherID := uuid.New()

	c1, _ := svc.Create(context.Background(), motherID, docID, validMessage, UrgencyLow)
	svc.Decide(context.Background(), docID, c1.ID, true)
	svc.Respond(context.Background(), docID, c1.ID, "Please rest and drink plenty of water.")

	c2, _ := svc.Create(context.Background(), motherID, docID, validMessage, UrgencyLow)
	svc.Decide(context.Background(), docID, c2.ID, true)

	if len(doctors.roster[docID]) != 1 {
		t.Errorf("roster must stay a set, got %v", doctors.roster[docID])
	}
}

func TestDecide_RejectLeavesRosterAlone(t *testing.T) {
	svc, doctors := newTestService()
	docID := activeDoctor(doctors)
	motherID := uuid.New()

	// The mother is already on the roster from earlier care.
	doctors.AddPatient(context.Background(), docID, motherID)
	c, _ := svc.Create(context.Background(), motherID, docID, validMessage, UrgencyLow)

	updated, err := svc.Decide(context.Background(), docID, c.ID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.IsApproved == nil || *updated.IsApproved {
		t.Error("expected is_approved false")
	}
	if len(doctors.roster[docID]) != 1 {
		t.Errorf("rejection must not retract roster membership: %v", doctors.roster[docID])
	}
}

func TestDecide_OnlyOwningDoctor(t *testing.T) {
	svc, doctors := newTestService()
	docID := activeDoctor(doctors)
	c, _ := svc.Create(context.Background(), uuid.New(), docID, validMessage, UrgencyLow)

	if _, err := svc.Decide(context.Background(), uuid.New(), c.ID, true); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
}

// =========== Schedule / Respond ===========

func TestSchedule(t *testing.T) {
	svc, doctors := newTestService()
	docID := activeDoctor(doctors)
	motherID := uuid.New()
	c, _ := svc.Create(context.Background(), motherID, docID, validMessage, UrgencyLow)

	when := time.Now().Add(48 * time.Hour)
	updated, err := svc.Schedule(context.Background(), motherID, c.ID, when)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != StatusScheduled {
		t.Errorf("expected scheduled, got %s", updated.Status)
	}
	if updated.PreferredTime == nil || !updated.PreferredTime.Equal(when) {
		t.Error("preferred time not recorded")
	}
}

func TestSchedule_OnlyFromPending(t *testing.T) {
	svc, doctors := newTestService()
	docID := activeDoctor(doctors)
	motherID := uuid.New()
	c, _ := svc.Create(context.Background(), motherID, docID, validMessage, UrgencyLow)
	svc.Cancel(context.Background(), motherID, c.ID)

	_, err := svc.Schedule(context.Background(), motherID, c.ID, time.Now().Add(time.Hour))
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestRespond_FixesResponseTimeOnce(t *testing.T) {
	svc, doctors := newTestService()
	docID := activeDoctor(doctors)
	c, _ := svc.Create(context.Background(), uuid.New(), docID, validMessage, UrgencyLow)

	first, err := svc.Respond(context.Background(), docID, c.ID, "Please rest and drink plenty of water.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Status != StatusResponded {
		t.Errorf("expected responded, got %s", first.Status)
	}
	if first.RespondedAt == nil || first.ResponseTimeMinutes == nil {
		t.Fatal("expected responded_at and response_time_minutes set")
	}
	firstAt := *first.RespondedAt

	second, err := svc.Respond(context.Background(), docID, c.ID, "Correction: rest for two full days.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.RespondedAt.Equal(firstAt) {
		t.Error("responded_at must be write-once")
	}
	if second.Response == first.Response {
		t.Error("expected response text updated")
	}
}

func TestRespond_TooShort(t *testing.T) {
	svc, doctors := newTestService()
	docID := activeDoctor(doctors)
	c, _ := svc.Create(context.Background(), uuid.New(), docID, validMessage, UrgencyLow)

	if _, err := svc.Respond(context.Background(), docID, c.ID, "ok"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestRespond_NotOnCancelled(t *testing.T) {
	svc, doctors := newTestService()
	docID := activeDoctor(doctors)
	motherID := uuid.New()
	c, _ := svc.Create(context.Background(), motherID, docID, validMessage, UrgencyLow)
	svc.Cancel(context.Background(), motherID, c.ID)

	_, err := svc.Respond(context.Background(), docID, c.ID, "Please rest and drink plenty of water.")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
}

// =========== Cancel / Complete / Feedback ===========

func TestCancel_OnlyPending(t *testing.T) {
	svc, doctors := newTestService()
	docID := activeDoctor(doctors)
	motherID := uuid.New()
	c, _ := svc.Create(context.Background(), motherID, docID, validMessage, UrgencyLow)
	svc.Respond(context.Background(), docID, c.ID, "Please rest and drink plenty of water.")

	_, err := svc.Cancel(context.Background(), motherID, c.ID)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestComplete_OnlyResponded(t *testing.T) {
	svc, doctors := newTestService()
	docID := activeDoctor(doctors)
	c, _ := svc.Create(context.Background(), uuid.New(), docID, validMessage, UrgencyLow)

	if _, err := svc.Complete(context.Background(), docID, c.ID); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("expected conflict for pending, got %v", err)
	}

	svc.Respond(context.Background(), docID, c.ID, "Please rest and drink plenty of water.")
	updated, err := svc.Complete(context.Background(), docID, c.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", updated.Status)
	}
}

func TestFeedback_FeedsDoctorRating(t *testing.T) {
	svc, doctors := newTestService()
	docID := activeDoctor(doctors)
	motherID := uuid.New()
	c, _ := svc.Create(context.Background(), motherID, docID, validMessage, UrgencyLow)
	svc.Respond(context.Background(), docID, c.ID, "Please rest and drink plenty of water.")

	updated, err := svc.Feedback(context.Background(), motherID, c.ID, 5, "very helpful")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Rating == nil || *updated.Rating != 5 {
		t.Error("rating not recorded")
	}
	if len(doctors.ratings[docID]) != 1 || doctors.ratings[docID][0] != 5 {
		t.Errorf("doctor rating not fed: %v", doctors.ratings[docID])
	}
}

func TestFeedback_OncePerConsultation(t *testing.T) {
	svc, doctors := newTestService()
	docID := activeDoctor(doctors)
	motherID := uuid.New()
	c, _ := svc.Create(context.Background(), motherID, docID, validMessage, UrgencyLow)
	svc.Respond(context.Background(), docID, c.ID, "Please rest and drink plenty of water.")
	svc.Feedback(context.Background(), motherID, c.ID, 5, "")

	_, err := svc.Feedback(context.Background(), motherID, c.ID, 1, "changed my mind")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestFeedback_RequiresResponded(t *testing.T) {
	svc, doctors := newTestService()
	docID := activeDoctor(doctors)
	motherID := uuid.New()
	c, _ := svc.Create(context.Background(), motherID, docID, validMessage, UrgencyLow)

	_, err := svc.Feedback(context.Background(), motherID, c.ID, 4, "")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
}

// =========== Lists ===========

func TestListByMother_StatusFilter(t *testing.T) {
	svc, doctors := newTestService()
	motherID := uuid.New()
	docA := activeDoctor(doctors)
	docB := activeDoctor(doctors)
	c, _ := svc.Create(context.Background(), motherID, docA, validMessage, UrgencyLow)
	svc.Create(context.Background(), motherID, docB, validMessage, UrgencyLow)
	svc.Cancel(context.Background(), motherID, c.ID)

	items, total, err := svc.ListByMother(context.Background(), motherID, StatusPending, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Errorf("expected 1 pending, got %d", total)
	}
}

func TestList_UnknownStatus(t *testing.T) {
	svc, _ := newTestService()
	if _, _, err := svc.ListByMother(context.Background(), uuid.New(), "archived", 20, 0); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, _, err := svc.ListByDoctor(context.Background(), uuid.New(), "archived", 20, 0); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}
