package service

import (
	"testing"

	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/chodocu/chodocu-backend/internal/repository"
	"github.com/chodocu/chodocu-backend/pkg/bcrypt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserService(db *gorm.DB, store *fakeStore) *UserService {
	return NewUserService(repository.NewUserRepository(db), store, testLogger())
}

func TestUpdateProfile_PasswordChangeNeedsCurrentPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db, newFakeStore())

	hashed, err := bcrypt.HashPassword("matkhau123")
	require.NoError(t, err)
	user := createTestUser(t, db, 0)
	require.NoError(t, db.Model(user).Update("password", hashed).Error)

	newPassword := "matkhaumoi1"

	_, err = svc.UpdateProfile(user.ID, models.UpdateProfileRequest{Password: &newPassword})
	require.ErrorIs(t, err, ErrPermissionDenied)

	wrong := "saimatkhau9"
	_, err = svc.UpdateProfile(user.ID, models.UpdateProfileRequest{
		Password:        &newPassword,
		CurrentPassword: &wrong,
	})
	require.ErrorIs(t, err, ErrPermissionDenied)

	current := "matkhau123"
	updated, err := svc.UpdateProfile(user.ID, models.UpdateProfileRequest{
		Password:        &newPassword,
		CurrentPassword: &current,
	})
	require.NoError(t, err)
	require.NoError(t, bcrypt.ComparePassword(updated.Password, newPassword))
}

func TestUpdateProfile_EmailTakenByAnotherUser(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db, newFakeStore())

	first := createTestUser(t, db, 0)
	second := createTestUser(t, db, 0)

	_, err := svc.UpdateProfile(second.ID, models.UpdateProfileRequest{Email: &first.Email})
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestUpdateAvatar_DeletesPreviousObject(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStore()
	svc := newUserService(db, store)

	user := createTestUser(t, db, 0)
	require.NoError(t, db.Model(user).
		Update("avatar_url", testImageURL("old-avatar.jpg")).Error)

	updated, err := svc.UpdateAvatar(user.ID, testImageURL("new-avatar.jpg"))
	require.NoError(t, err)

	assert.Equal(t, testImageURL("new-avatar.jpg"), updated.AvatarURL)
	assert.Contains(t, store.deleted, "uploads/1/old-avatar.jpg")
}

func TestUpdateAvatar_RejectsForeignURL(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db, newFakeStore())

	user := createTestUser(t, db, 0)

	_, err := svc.UpdateAvatar(user.ID, "http://evil.example.com/a.jpg")
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestUpdateUserStatusRole(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db, newFakeStore())

	user := createTestUser(t, db, 0)

	status := models.AccountInactive
	role := models.RoleModerator
	updated, err := svc.UpdateUserStatusRole(user.ID, models.UpdateUserStatusRoleRequest{
		Status: &status,
		Role:   &role,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AccountInactive, updated.Status)
	assert.Equal(t, models.RoleModerator, updated.Role)
}
