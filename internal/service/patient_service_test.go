package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/dietcare-service/internal/auth"
	"github.com/spec-kit/dietcare-service/internal/domain"
	"github.com/spec-kit/dietcare-service/internal/service"
)

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*domain.PatientProfile // keyed by user id
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*domain.PatientProfile)}
}

func (r *fakeProfileRepo) Create(_ context.Context, profile *domain.PatientProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile.ID = uuid.NewString()
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt
	copied := *profile
	r.profiles[profile.UserID] = &copied
	return nil
}

func (r *fakeProfileRepo) Update(_ context.Context, profile *domain.PatientProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profile.UserID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *profile
	r.profiles[profile.UserID] = &copied
	return nil
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID string) (*domain.PatientProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *profile
	return &copied, nil
}

type fakeComplianceRepo struct {
	mu      sync.Mutex
	records map[string][]domain.ComplianceRecord
}

func newFakeComplianceRepo() *fakeComplianceRepo {
	return &fakeComplianceRepo{records: make(map[string][]domain.ComplianceRecord)}
}

func (r *fakeComplianceRepo) Create(_ context.Context, record *domain.ComplianceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record.ID = uuid.NewString()
	record.CreatedAt = time.Now()
	r.records[record.UserID] = append(r.records[record.UserID], *record)
	return nil
}

func (r *fakeComplianceRepo) ListByUserID(_ context.Context, userID string, limit int) ([]domain.ComplianceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	records := r.records[userID]
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	out := make([]domain.ComplianceRecord, len(records))
	copy(out, records)
	return out, nil
}

func patientCaller(id string) *auth.Identity {
	return &auth.Identity{ID: id, Email: id + "@example.com", Role: domain.RolePatient}
}

func adminCaller() *auth.Identity {
	return &auth.Identity{ID: "admin-1", Email: "admin@example.com", Role: domain.RoleAdmin}
}

func practitionerCaller() *auth.Identity {
	return &auth.Identity{ID: "prac-1", Email: "prac@example.com", Role: domain.RolePractitioner}
}

func newPatientService() *service.PatientService {
	return service.NewPatientService(newFakeProfileRepo(), newFakeComplianceRepo())
}

func TestPatientOwnsOwnProfile(t *testing.T) {
	svc := newPatientService()
	caller := patientCaller("user-1")

	created, err := svc.CreateProfile(context.Background(), caller, service.CreateProfileInput{
		Age: 34, HeightCm: 170, WeightKg: 72, DietGoal: "maintain",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", created.UserID)

	fetched, err := svc.GetProfile(context.Background(), caller, "user-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)

	updated, err := svc.UpdateProfile(context.Background(), caller, "user-1", service.UpdateProfileInput{
		Age: 35, HeightCm: 170, WeightKg: 70, DietGoal: "cut",
	})
	require.NoError(t, err)
	assert.Equal(t, 35, updated.Age)
}

func TestPatientDeniedOtherUsersRecords(t *testing.T) {
	svc := newPatientService()
	owner := patientCaller("user-1")
	intruder := patientCaller("user-2")

	_, err := svc.CreateProfile(context.Background(), owner, service.CreateProfileInput{Age: 34})
	require.NoError(t, err)

	_, err = svc.GetProfile(context.Background(), intruder, "user-1")
	assert.Equal(t, "ACCESS_DENIED", errCode(t, err))

	_, err = svc.UpdateProfile(context.Background(), intruder, "user-1", service.UpdateProfileInput{Age: 1})
	assert.Equal(t, "ACCESS_DENIED", errCode(t, err))

	_, err = svc.ListCompliance(context.Background(), intruder, "user-1", 0)
	assert.Equal(t, "ACCESS_DENIED", errCode(t, err))

	// A patient also cannot create a profile on behalf of someone else.
	_, err = svc.CreateProfile(context.Background(), intruder, service.CreateProfileInput{UserID: "user-3"})
	assert.Equal(t, "ACCESS_DENIED", errCode(t, err))
}

func TestElevatedRolesAccessAnyRecord(t *testing.T) {
	svc := newPatientService()
	owner := patientCaller("user-1")

	_, err := svc.CreateProfile(context.Background(), owner, service.CreateProfileInput{Age: 34})
	require.NoError(t, err)

	for _, caller := range []*auth.Identity{adminCaller(), practitionerCaller()} {
		fetched, err := svc.GetProfile(context.Background(), caller, "user-1")
		require.NoError(t, err, "role %s", caller.Role)
		assert.Equal(t, "user-1", fetched.UserID)

		_, err = svc.RecordCompliance(context.Background(), caller, "user-1", service.RecordComplianceInput{
			Date: time.Now(), MealsFollowed: 3, MealsTotal: 3,
		})
		require.NoError(t, err, "role %s", caller.Role)
	}
}

func TestElevatedRoleCreatesProfileOnBehalf(t *testing.T) {
	svc := newPatientService()

	profile, err := svc.CreateProfile(context.Background(), practitionerCaller(), service.CreateProfileInput{
		UserID: "user-9", Age: 52, DietGoal: "low sodium",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-9", profile.UserID)
}

func TestDuplicateProfileConflict(t *testing.T) {
	svc := newPatientService()
	caller := patientCaller("user-1")

	_, err := svc.CreateProfile(context.Background(), caller, service.CreateProfileInput{Age: 34})
	require.NoError(t, err)

	_, err = svc.CreateProfile(context.Background(), caller, service.CreateProfileInput{Age: 35})
	assert.Equal(t, "CONFLICT", errCode(t, err))
}

func TestComplianceRoundTrip(t *testing.T) {
	svc := newPatientService()
	caller := patientCaller("user-1")

	_, err := svc.RecordCompliance(context.Background(), caller, "user-1", service.RecordComplianceInput{
		Date: time.Now(), MealsFollowed: 2, MealsTotal: 3, Notes: "skipped dinner",
	})
	require.NoError(t, err)

	records, err := svc.ListCompliance(context.Background(), caller, "user-1", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].MealsFollowed)
}

func TestProfileNotFound(t *testing.T) {
	svc := newPatientService()

	_, err := svc.GetProfile(context.Background(), adminCaller(), "missing-user")
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}
