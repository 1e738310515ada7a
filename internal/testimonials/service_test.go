package testimonials

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/internal/appointments"
	"github.com/petcareclinic/petcare-backend/internal/veterinarians"
	"github.com/petcareclinic/petcare-backend/pkg/db"
	"github.com/petcareclinic/petcare-backend/pkg/db/dbtest"
	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/outbox"
)

var fixedNow = time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	svc, err := NewService(ServiceParams{
		Repo:         NewRepository(conn),
		Appointments: appointments.NewRepository(conn),
		Tx:           db.NewFromGorm(conn),
		Outbox:       outbox.NewService(outbox.NewRepository(conn), nil),
		Clock:        func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return svc, conn
}

func seedVet(t *testing.T, conn *gorm.DB) *models.Veterinarian {
	t.Helper()
	vet := &models.Veterinarian{
		FullName:        "Dr. Ruwan Jayasinghe",
		Email:           uuid.NewString() + "@clinic.lk",
		LicenseNumber:   uuid.NewString(),
		Specialization:  "Dentistry",
		ConsultationFee: decimal.RequireFromString("1800"),
		AvailableFrom:   "09:00",
		AvailableTo:     "17:00",
		WorkingDays:     "MON,TUE,WED,THU,FRI",
		IsAvailable:     true,
	}
	require.NoError(t, veterinarians.NewRepository(conn).Create(context.Background(), vet))
	return vet
}

func seedAppointment(t *testing.T, conn *gorm.DB, vetID uuid.UUID, clock string) *models.Appointment {
	t.Helper()
	day, err := appointments.ParseDate("2025-04-01")
	require.NoError(t, err)
	appt := &models.Appointment{
		VeterinarianID:  vetID,
		ClientName:      "Dilani Wickramasinghe",
		ClientEmail:     "dilani@example.com",
		PetName:         "Misty",
		PetType:         "Cat",
		AppointmentDate: day,
		AppointmentTime: clock,
		ReasonForVisit:  "Dental cleaning",
		Status:          enums.AppointmentStatusCompleted,
	}
	require.NoError(t, appointments.NewRepository(conn).Create(context.Background(), appt))
	return appt
}

func sampleInput() TestimonialInput {
	return TestimonialInput{CustomerName: "Sahan", Rating: 5, Content: "Great care for our dog."}
}

func TestCreateForcesModerationFlags(t *testing.T) {
	svc, conn := newTestService(t)
	userID := uuid.New()

	created, err := svc.Create(context.Background(), &userID, sampleInput())
	require.NoError(t, err)
	assert.False(t, created.IsApproved)
	assert.False(t, created.IsFeatured)
	assert.Equal(t, &userID, created.UserID)

	var events int64
	require.NoError(t, conn.Model(&models.OutboxEvent{}).Where("event_type = ?", enums.EventTestimonialSubmitted).Count(&events).Error)
	assert.EqualValues(t, 1, events)
}

func TestCreateValidates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	bad := sampleInput()
	bad.Rating = 6
	_, err := svc.Create(ctx, nil, bad)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	bad = sampleInput()
	bad.Content = "  "
	_, err = svc.Create(ctx, nil, bad)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestModerationViews(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	admin := uuid.New()

	a, err := svc.Create(ctx, nil, sampleInput())
	require.NoError(t, err)
	_, err = svc.Create(ctx, nil, sampleInput())
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, a.ID, admin)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
	assert.Equal(t, &admin, approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)
	assert.True(t, fixedNow.Equal(*approved.ApprovedAt))

	_, err = svc.SetFeatured(ctx, a.ID, true)
	require.NoError(t, err)

	yes := true
	onlyApproved, err := svc.List(ctx, ListFilters{Approved: &yes})
	require.NoError(t, err)
	assert.Len(t, onlyApproved, 1)
	featured, err := svc.List(ctx, ListFilters{Featured: &yes})
	require.NoError(t, err)
	assert.Len(t, featured, 1)
	all, err := svc.List(ctx, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	unfeatured, err := svc.SetFeatured(ctx, a.ID, false)
	require.NoError(t, err)
	assert.False(t, unfeatured.IsFeatured)

	_, err = svc.Approve(ctx, uuid.New(), admin)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestUpdateCopiesFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, nil, sampleInput())
	require.NoError(t, err)

	title := "Friendly staff"
	in := sampleInput()
	in.Title = &title
	in.Rating = 4
	updated, err := svc.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)
	assert.Equal(t, &title, updated.Title)
	assert.False(t, updated.IsApproved)
}

func TestAddReviewCreatesPendingTestimonial(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	vet := seedVet(t, conn)
	appt := seedAppointment(t, conn, vet.ID, "10:00")

	reviewed, err := svc.AddReview(ctx, appt.ID, ReviewInput{AppointmentRating: 5, DoctorRating: 4, Comment: "Gentle with Misty"})
	require.NoError(t, err)
	require.NotNil(t, reviewed.DoctorRating)
	assert.Equal(t, 4, *reviewed.DoctorRating)

	pending, err := svc.List(ctx, ListFilters{})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 4, pending[0].Rating)
	assert.Equal(t, "Dilani Wickramasinghe", pending[0].CustomerName)
	require.NotNil(t, pending[0].ServiceType)
	assert.Equal(t, "Dental cleaning", *pending[0].ServiceType)
	assert.False(t, pending[0].IsApproved)

	_, err = svc.AddReview(ctx, appt.ID, ReviewInput{AppointmentRating: 5, DoctorRating: 5, Comment: "again"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	_, err = svc.AddReview(ctx, appt.ID, ReviewInput{AppointmentRating: 0, DoctorRating: 5, Comment: "x"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	_, err = svc.AddReview(ctx, uuid.New(), ReviewInput{AppointmentRating: 3, DoctorRating: 3, Comment: "x"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	listed, err := svc.ListReviewedByVeterinarian(ctx, vet.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestApprovalRecomputesVeterinarianRating(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	vet := seedVet(t, conn)
	first := seedAppointment(t, conn, vet.ID, "10:00")
	second := seedAppointment(t, conn, vet.ID, "11:00")

	_, err := svc.AddReview(ctx, first.ID, ReviewInput{AppointmentRating: 5, DoctorRating: 5, Comment: "Excellent"})
	require.NoError(t, err)
	_, err = svc.AddReview(ctx, second.ID, ReviewInput{AppointmentRating: 4, DoctorRating: 4, Comment: "Good"})
	require.NoError(t, err)

	pending, err := svc.List(ctx, ListFilters{})
	require.NoError(t, err)
	require.Len(t, pending, 2)

	vets := veterinarians.NewRepository(conn)
	stored, err := vets.FindByID(ctx, vet.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.TotalReviews)

	for _, p := range pending {
		_, err := svc.Approve(ctx, p.ID, uuid.New())
		require.NoError(t, err)
	}
	stored, err = vets.FindByID(ctx, vet.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.TotalReviews)
	assert.True(t, decimal.RequireFromString("4.5").Equal(stored.Rating), stored.Rating.String())

	require.NoError(t, svc.Delete(ctx, pending[0].ID))
	stored, err = vets.FindByID(ctx, vet.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.TotalReviews)
}

func TestCancelledAppointmentCannotBeReviewed(t *testing.T) {
	svc, conn := newTestService(t)
	vet := seedVet(t, conn)
	appt := seedAppointment(t, conn, vet.ID, "12:00")
	appt.Status = enums.AppointmentStatusCancelled
	require.NoError(t, conn.Save(appt).Error)

	_, err := svc.AddReview(context.Background(), appt.ID, ReviewInput{AppointmentRating: 3, DoctorRating: 3, Comment: "n/a"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
}
