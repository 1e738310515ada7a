package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petcareclinic/petcare-backend/pkg/config"
	"github.com/petcareclinic/petcare-backend/pkg/db/dbtest"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/pagination"
	"github.com/petcareclinic/petcare-backend/pkg/security"
)

var testPasswordCfg = config.PasswordConfig{ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}

func buildTestService(t *testing.T) (*Service, *Repository) {
	t.Helper()
	repo := NewRepository(dbtest.Open(t))
	svc, err := NewService(repo, testPasswordCfg)
	require.NoError(t, err)
	return svc, repo
}

func seedUser(t *testing.T, repo *Repository, username, email, password string) uuid.UUID {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordCfg)
	require.NoError(t, err)
	user, err := repo.Create(context.Background(), CreateUserDTO{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Nimal",
		LastName:     "Perera",
	})
	require.NoError(t, err)
	return user.ID
}

func strPtr(v string) *string { return &v }

func TestCreateAppliesDefaults(t *testing.T) {
	svc, repo := buildTestService(t)
	id := seedUser(t, repo, "nimal", "Nimal@Example.com", "password123")

	got, err := svc.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "nimal@example.com", got.Email)
	assert.Equal(t, defaultCountry, got.Country)
	assert.Equal(t, enums.UserRoleUser, got.Role)
	assert.True(t, got.IsActive)
	assert.False(t, got.EmailVerified)
}

func TestLookupsAndExistence(t *testing.T) {
	svc, repo := buildTestService(t)
	ctx := context.Background()
	seedUser(t, repo, "kamala", "kamala@example.com", "password123")

	byName, err := svc.GetByUsername(ctx, "kamala")
	require.NoError(t, err)
	byEmail, err := svc.GetByEmail(ctx, "KAMALA@example.com")
	require.NoError(t, err)
	assert.Equal(t, byName.ID, byEmail.ID)

	login, err := repo.FindByLogin(ctx, "kamala@example.com")
	require.NoError(t, err)
	assert.Equal(t, byName.ID, login.ID)

	exists, err := svc.UsernameExists(ctx, "kamala")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = svc.EmailExists(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = svc.GetByID(ctx, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.UsernameExists(ctx, " ")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateProfileLeavesCredentialsAlone(t *testing.T) {
	svc, repo := buildTestService(t)
	ctx := context.Background()
	id := seedUser(t, repo, "sunil", "sunil@example.com", "password123")

	updated, err := svc.UpdateProfile(ctx, id, ProfileUpdate{
		FirstName: "Sunil",
		LastName:  "Silva",
		City:      strPtr("Kandy"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Silva", updated.LastName)
	assert.Equal(t, "Kandy", *updated.City)
	assert.Equal(t, "sunil", updated.Username)
	assert.Equal(t, "sunil@example.com", updated.Email)
	assert.Equal(t, defaultCountry, updated.Country)

	_, err = svc.UpdateProfile(ctx, uuid.New(), ProfileUpdate{FirstName: "x", LastName: "y"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestChangePassword(t *testing.T) {
	svc, repo := buildTestService(t)
	ctx := context.Background()
	id := seedUser(t, repo, "ruwan", "ruwan@example.com", "password123")

	err := svc.ChangePassword(ctx, id, ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "newpassword1"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	err = svc.ChangePassword(ctx, id, ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "short"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	require.NoError(t, svc.ChangePassword(ctx, id, ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "newpassword1"}))

	user, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	ok, err := security.VerifyPassword("newpassword1", user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAdminCreateGeneratesTemporaryPassword(t *testing.T) {
	svc, repo := buildTestService(t)
	ctx := context.Background()
	vetRole := enums.UserRoleVeterinarian

	res, err := svc.AdminCreate(ctx, AdminCreateRequest{
		Username:  "drsilva",
		Email:     "dr.silva@example.com",
		FirstName: "Amara",
		LastName:  "Silva",
		Role:      &vetRole,
	})
	require.NoError(t, err)
	assert.Len(t, res.TemporaryPassword, tempPasswordLength)
	assert.Equal(t, enums.UserRoleVeterinarian, res.User.Role)

	user, err := repo.FindByID(ctx, res.User.ID)
	require.NoError(t, err)
	ok, err := security.VerifyPassword(res.TemporaryPassword, user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.AdminCreate(ctx, AdminCreateRequest{Username: "drsilva", Email: "other@example.com", FirstName: "a", LastName: "b"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	_, err = svc.AdminCreate(ctx, AdminCreateRequest{Username: "other", Email: "DR.SILVA@example.com", FirstName: "a", LastName: "b"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	withPassword, err := svc.AdminCreate(ctx, AdminCreateRequest{Username: "front", Email: "front@example.com", Password: "password123", FirstName: "a", LastName: "b"})
	require.NoError(t, err)
	assert.Empty(t, withPassword.TemporaryPassword)
}

func TestAdminUpdateOnlyTouchesSuppliedFields(t *testing.T) {
	svc, repo := buildTestService(t)
	ctx := context.Background()
	id := seedUser(t, repo, "chamari", "chamari@example.com", "password123")
	inactive := false
	admin := enums.UserRoleAdmin

	updated, err := svc.AdminUpdate(ctx, id, AdminUpdateRequest{IsActive: &inactive, Role: &admin})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, enums.UserRoleAdmin, updated.Role)
	assert.Equal(t, "Nimal", updated.FirstName)

	bad := enums.UserRole("OWNER")
	_, err = svc.AdminUpdate(ctx, id, AdminUpdateRequest{Role: &bad})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	unchanged, err := svc.AdminUpdate(ctx, id, AdminUpdateRequest{})
	require.NoError(t, err)
	assert.Equal(t, id, unchanged.ID)
}

func TestListAndDelete(t *testing.T) {
	svc, repo := buildTestService(t)
	ctx := context.Background()
	first := seedUser(t, repo, "a_user", "a@example.com", "password123")
	seedUser(t, repo, "b_user", "b@example.com", "password123")
	seedUser(t, repo, "c_user", "c@example.com", "password123")

	page, err := svc.List(ctx, pagination.Params{Page: 0, Size: 2, SortBy: "username", SortDir: pagination.SortAsc})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "a_user", page.Content[0].Username)

	require.NoError(t, svc.Delete(ctx, first))
	err = svc.Delete(ctx, first)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
