package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/petcareclinic/petcare-backend/internal/testimonials"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
)

type fakeTestimonialService struct {
	TestimonialService
	filters  testimonials.ListFilters
	approver uuid.UUID
	featured *bool
	author   *uuid.UUID
}

func (f *fakeTestimonialService) List(_ context.Context, filters testimonials.ListFilters) ([]*testimonials.TestimonialDTO, error) {
	f.filters = filters
	return []*testimonials.TestimonialDTO{}, nil
}

func (f *fakeTestimonialService) Create(_ context.Context, userID *uuid.UUID, in testimonials.TestimonialInput) (*testimonials.TestimonialDTO, error) {
	f.author = userID
	return &testimonials.TestimonialDTO{ID: uuid.New(), UserID: userID, Rating: in.Rating}, nil
}

func (f *fakeTestimonialService) Approve(_ context.Context, id, approver uuid.UUID) (*testimonials.TestimonialDTO, error) {
	f.approver = approver
	return &testimonials.TestimonialDTO{ID: id, IsApproved: true}, nil
}

func (f *fakeTestimonialService) SetFeatured(_ context.Context, id uuid.UUID, featured bool) (*testimonials.TestimonialDTO, error) {
	f.featured = &featured
	return &testimonials.TestimonialDTO{ID: id, IsFeatured: featured}, nil
}

func TestTestimonialListForcesApprovedForPublic(t *testing.T) {
	svc := &fakeTestimonialService{}

	rec := serve(t, nil, http.MethodGet, "/testimonials", "/testimonials?approved=false", "", TestimonialList(svc, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.filters.Approved == nil || !*svc.filters.Approved {
		t.Fatal("public listing must only show approved entries")
	}

	admin := &identity{id: uuid.New(), role: enums.UserRoleAdmin}
	rec = serve(t, admin, http.MethodGet, "/testimonials", "/testimonials?approved=false&featured=true", "", TestimonialList(svc, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.filters.Approved == nil || *svc.filters.Approved || svc.filters.Featured == nil || !*svc.filters.Featured {
		t.Fatalf("admin filters not honored: %+v", svc.filters)
	}
}

func TestTestimonialCreateRecordsAuthor(t *testing.T) {
	svc := &fakeTestimonialService{}
	user := &identity{id: uuid.New(), role: enums.UserRoleUser}

	rec := serve(t, user, http.MethodPost, "/testimonials", "/testimonials", `{"customer_name":"Ann","rating":5,"content":"Lovely staff"}`, TestimonialCreate(svc, nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.author == nil || *svc.author != user.id {
		t.Fatal("author not recorded")
	}
}

func TestAdminApproveAndFeature(t *testing.T) {
	svc := &fakeTestimonialService{}
	admin := &identity{id: uuid.New(), role: enums.UserRoleAdmin}
	id := uuid.NewString()

	rec := serve(t, admin, http.MethodPatch, "/testimonials/{id}/approve", "/testimonials/"+id+"/approve", "", AdminApproveTestimonial(svc, nil))
	if rec.Code != http.StatusOK || svc.approver != admin.id {
		t.Fatalf("approve: %d approver=%s", rec.Code, svc.approver)
	}

	rec = serve(t, admin, http.MethodPatch, "/testimonials/{id}/feature", "/testimonials/"+id+"/feature", `{}`, AdminFeatureTestimonial(svc, nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without featured flag, got %d", rec.Code)
	}

	rec = serve(t, admin, http.MethodPatch, "/testimonials/{id}/feature", "/testimonials/"+id+"/feature", `{"featured":false}`, AdminFeatureTestimonial(svc, nil))
	if rec.Code != http.StatusOK || svc.featured == nil || *svc.featured {
		t.Fatalf("feature: %d %v", rec.Code, svc.featured)
	}
}
