package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-connect-server/models"
	"service-connect-server/types"
)

func TestWorkerRegister(t *testing.T) {
	f := newFixture(t)
	cat := f.category("Plumbing")

	w, err := f.workers.Register(f.ctx, models.WorkerSignUp{
		Username:       "bob",
		Email:          "Bob@Example.com",
		EmployeeNumber: "E1",
		Mobile:         "555",
		Password:       "password123",
		Pincode:        ptr(" 560001 "),
		CategoryIDs:    []uint{cat.ID, cat.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, models.WorkerStatusPending, w.Status)
	assert.Equal(t, "bob@example.com", w.Email)
	assert.Equal(t, "560001", *w.Pincode)
	assert.Equal(t, []uint{cat.ID}, w.CategoryIDs())
	assert.NotEqual(t, "password123", w.PasswordHash)

	_, err = f.workers.Register(f.ctx, models.WorkerSignUp{Username: "bob", Email: "x@example.com", EmployeeNumber: "E2", Password: "password123"})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = f.workers.Register(f.ctx, models.WorkerSignUp{Username: "bob2", Email: "x@example.com", EmployeeNumber: "E1", Password: "password123"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.workers.Register(f.ctx, models.WorkerSignUp{Username: "eve", Email: "eve@example.com", EmployeeNumber: "E3", Password: "password123", CategoryIDs: []uint{999}})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.workers.Register(f.ctx, models.WorkerSignUp{Username: "eve", Email: "eve@example.com", EmployeeNumber: "E3", Password: "password123", Pincode: ptr("12AB")})
	assert.ErrorIs(t, err, ErrValidation)

	var count int64
	require.NoError(t, f.db.Model(&models.Worker{}).Where("username = ?", "eve").Count(&count).Error)
	assert.Zero(t, count)
}

func TestWorkerAuthenticate_OnlyApproved(t *testing.T) {
	f := newFixture(t)
	w := f.pendingWorker("bob")
	creds := models.Credentials{Username: "bob", Password: "password123"}

	_, err := f.workers.Authenticate(f.ctx, creds)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.workers.SetStatus(f.ctx, w.ID, models.WorkerStatusApproved)
	require.NoError(t, err)
	got, err := f.workers.Authenticate(f.ctx, creds)
	require.NoError(t, err)
	assert.Equal(t, w.ID, got.ID)

	_, err = f.workers.Authenticate(f.ctx, models.Credentials{Username: "bob", Password: "nope"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = f.workers.Authenticate(f.ctx, models.Credentials{Username: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.workers.SetStatus(f.ctx, w.ID, models.WorkerStatusRejected)
	require.NoError(t, err)
	_, err = f.workers.Authenticate(f.ctx, creds)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestWorkerSetStatus(t *testing.T) {
	f := newFixture(t)
	w := f.pendingWorker("bob")

	_, err := f.workers.SetStatus(f.ctx, w.ID, models.WorkerStatusPending)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.workers.SetStatus(f.ctx, w.ID, "banned")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.workers.SetStatus(f.ctx, 999, models.WorkerStatusApproved)
	assert.ErrorIs(t, err, ErrNotFound)

	f.pendingWorker("carol")
	_, err = f.workers.SetStatus(f.ctx, w.ID, models.WorkerStatusApproved)
	require.NoError(t, err)

	pending := models.WorkerStatusPending
	list, err := f.workers.ListWorkers(f.ctx, &pending)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "carol", list[0].Username)

	all, err := f.workers.ListWorkers(f.ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestWorkerUpdateProfile_ReplacesCategoriesAtomically(t *testing.T) {
	f := newFixture(t)
	a := f.category("Plumbing")
	b := f.category("Painting")
	c := f.category("Carpentry")
	w := f.worker("bob", "560000", 5, a.ID, b.ID)

	updated, err := f.workers.UpdateProfile(f.ctx, w, models.WorkerProfileUpdate{CategoryIDs: []uint{c.ID}})
	require.NoError(t, err)
	assert.Equal(t, []uint{c.ID}, updated.CategoryIDs())

	// One bad id rejects the whole update, including the scalar fields.
	_, err = f.workers.UpdateProfile(f.ctx, w, models.WorkerProfileUpdate{
		Mobile:      ptr("999"),
		CategoryIDs: []uint{a.ID, 12345},
	})
	assert.ErrorIs(t, err, ErrValidation)

	got, err := f.workers.Get(f.ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{c.ID}, got.CategoryIDs())
	assert.Equal(t, "5550199", got.Mobile)

	// Nil leaves the set alone, empty clears it.
	got, err = f.workers.UpdateProfile(f.ctx, w, models.WorkerProfileUpdate{Mobile: ptr("777")})
	require.NoError(t, err)
	assert.Equal(t, []uint{c.ID}, got.CategoryIDs())
	assert.Equal(t, "777", got.Mobile)

	got, err = f.workers.UpdateProfile(f.ctx, w, models.WorkerProfileUpdate{CategoryIDs: []uint{}})
	require.NoError(t, err)
	assert.Empty(t, got.CategoryIDs())
}

func TestWorkerUpdateProfile_Validation(t *testing.T) {
	f := newFixture(t)
	w := f.worker("bob", "560000", 5)
	f.pendingWorker("carol")

	_, err := f.workers.UpdateProfile(f.ctx, w, models.WorkerProfileUpdate{Radius: ptr(-1)})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.workers.UpdateProfile(f.ctx, w, models.WorkerProfileUpdate{Pincode: ptr("56-000")})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.workers.UpdateProfile(f.ctx, w, models.WorkerProfileUpdate{Email: ptr("carol@workers.example.com")})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = f.workers.UpdateProfile(f.ctx, types.Actor{ID: w.ID, Role: types.RoleUser}, models.WorkerProfileUpdate{})
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := f.workers.UpdateProfile(f.ctx, w, models.WorkerProfileUpdate{Pincode: ptr(""), Radius: ptr(0)})
	require.NoError(t, err)
	assert.Nil(t, got.Pincode)
	assert.Equal(t, 0, *got.Radius)
}

func TestWorkerSetProfilePhoto(t *testing.T) {
	f := newFixture(t)
	w := f.pendingWorker("bob")

	got, err := f.workers.SetProfilePhoto(f.ctx, w, "https://img.example.com/bob.png")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/bob.png", *got.ProfilePhotoURL)

	_, err = f.workers.SetProfilePhoto(f.ctx, types.Actor{ID: 999, Role: types.RoleWorker}, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}
