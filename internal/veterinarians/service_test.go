package veterinarians

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petcareclinic/petcare-backend/pkg/db/dbtest"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
)

func newTestService(t *testing.T) (*Service, *Repository) {
	t.Helper()
	repo := NewRepository(dbtest.Open(t))
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func intPtr(v int) *int { return &v }

func sampleVet(name, email, license, specialization string) VeterinarianInput {
	return VeterinarianInput{
		FullName:        name,
		Email:           email,
		LicenseNumber:   license,
		Specialization:  specialization,
		ConsultationFee: decimal.RequireFromString("2500.00"),
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	vet, err := svc.Create(context.Background(), sampleVet("Dr. Amara Silva", "Amara@Clinic.lk", "SLVC-100", "Surgery"))
	require.NoError(t, err)
	assert.Equal(t, "amara@clinic.lk", vet.Email)
	assert.Equal(t, "09:00", vet.AvailableFrom)
	assert.Equal(t, "17:00", vet.AvailableTo)
	assert.Equal(t, "MON,TUE,WED,THU,FRI", vet.WorkingDays)
	assert.True(t, vet.IsAvailable)
	assert.Zero(t, vet.TotalReviews)
	assert.Zero(t, vet.YearsOfExperience)
	assert.True(t, vet.Rating.IsZero())
}

func TestCreateRejectsDuplicatesAndBadHours(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, sampleVet("Dr. A", "a@clinic.lk", "LIC-1", "Dermatology"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, sampleVet("Dr. B", "a@clinic.lk", "LIC-2", "Dermatology"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	_, err = svc.Create(ctx, sampleVet("Dr. C", "c@clinic.lk", "LIC-1", "Dermatology"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	bad := sampleVet("Dr. D", "d@clinic.lk", "LIC-4", "Dermatology")
	bad.AvailableFrom = "18:00"
	_, err = svc.Create(ctx, bad)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	bad.AvailableFrom = "9am"
	_, err = svc.Create(ctx, bad)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestLookupsAndUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, sampleVet("Dr. Nuwan Perera", "nuwan@clinic.lk", "LIC-9", "Cardiology"))
	require.NoError(t, err)

	byEmail, err := svc.GetByEmail(ctx, "NUWAN@clinic.lk")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	byLicense, err := svc.GetByLicense(ctx, "LIC-9")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byLicense.ID)

	in := sampleVet("Dr. Nuwan Perera", "nuwan@clinic.lk", "LIC-9", "Internal Medicine")
	in.YearsOfExperience = intPtr(12)
	in.AvailableFrom = "10:00"
	updated, err := svc.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Internal Medicine", updated.Specialization)
	assert.Equal(t, 12, updated.YearsOfExperience)
	assert.Equal(t, "10:00", updated.AvailableFrom)
	assert.Equal(t, "17:00", updated.AvailableTo)

	_, err = svc.Get(ctx, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	_, err = svc.Update(ctx, uuid.New(), in)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.True(t, pkgerrors.IsCode(svc.Delete(ctx, created.ID), pkgerrors.CodeNotFound))
}

func TestDirectoryViews(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	surgeon := sampleVet("Dr. Surgeon", "s@clinic.lk", "L-1", "Surgery")
	surgeon.YearsOfExperience = intPtr(15)
	surgeon.Bio = strPtr("Orthopedic work on large dogs")
	s, err := svc.Create(ctx, surgeon)
	require.NoError(t, err)

	derm := sampleVet("Dr. Derm", "d@clinic.lk", "L-2", "Dermatology")
	derm.YearsOfExperience = intPtr(4)
	off := false
	derm.IsAvailable = &off
	d, err := svc.Create(ctx, derm)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateRating(ctx, s.ID, decimal.RequireFromString("4.50"), 2))
	require.NoError(t, repo.UpdateRating(ctx, d.ID, decimal.RequireFromString("3.00"), 1))

	search, err := svc.List(ctx, ListFilters{Query: "orthopedic"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, s.ID, search[0].ID)

	bySpec, err := svc.List(ctx, ListFilters{Specialization: "dermatology"})
	require.NoError(t, err)
	require.Len(t, bySpec, 1)
	assert.Equal(t, d.ID, bySpec[0].ID)

	available, err := svc.List(ctx, ListFilters{AvailableOnly: true})
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, s.ID, available[0].ID)

	experienced, err := svc.List(ctx, ListFilters{MinExperience: intPtr(10)})
	require.NoError(t, err)
	require.Len(t, experienced, 1)

	floor := decimal.RequireFromString("3.0")
	rated, err := svc.List(ctx, ListFilters{MinRating: &floor})
	require.NoError(t, err)
	require.Len(t, rated, 2)
	assert.Equal(t, s.ID, rated[0].ID)

	specs, err := svc.Specializations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dermatology", "Surgery"}, specs)

	all, err := svc.List(ctx, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func strPtr(v string) *string { return &v }
