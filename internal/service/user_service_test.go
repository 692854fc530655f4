package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"uttianguis/internal/auth"
	apperrors "uttianguis/internal/errors"
	"uttianguis/internal/model"
	"uttianguis/internal/repository"
)

type userFixture struct {
	users    *MockUserRepository
	products *MockProductRepository
	ratings  *MockRatingRepository
	store    *MockStore
	svc      UserService
}

func newUserFixture() *userFixture {
	f := &userFixture{
		users:    new(MockUserRepository),
		products: new(MockProductRepository),
		ratings:  new(MockRatingRepository),
		store:    new(MockStore),
	}
	f.svc = NewUserService(f.users, f.products, f.ratings, f.store, nil, NewListingValidator("uttn.mx"))
	return f
}

func (f *userFixture) expectProfile(user *model.User) {
	f.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	f.ratings.On("Summary", mock.Anything, user.ID).Return(repository.RatingSummary{Average: 4.5, Count: 2}, nil)
	f.products.On("CountBySeller", mock.Anything, user.ID, false).Return(int64(3), nil)
	f.products.On("CountBySeller", mock.Anything, user.ID, true).Return(int64(1), nil)
}

func TestUserService_Profile(t *testing.T) {
	f := newUserFixture()
	user := &model.User{ID: uuid.New(), Name: "Ana", Email: "ana@uttn.mx", Role: model.RoleUser, IsActive: true}
	f.expectProfile(user)

	profile, err := f.svc.Profile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", profile.Name)
	assert.Equal(t, model.DefaultProfileImage, profile.ProfileImageURL)
	assert.Equal(t, 4.5, profile.AverageRating)
	assert.Equal(t, int64(2), profile.RatingCount)
	assert.Equal(t, int64(3), profile.ActiveListings)
	assert.Equal(t, int64(1), profile.Sales)
}

func TestUserService_ProfileNotFound(t *testing.T) {
	f := newUserFixture()
	id := uuid.New()
	f.users.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.Profile(context.Background(), id)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestUserService_UpdateProfile(t *testing.T) {
	f := newUserFixture()
	user := &model.User{ID: uuid.New(), Name: "Ana", Email: "ana@uttn.mx", PhoneNumber: "5512345678"}
	f.expectProfile(user)
	f.users.On("Update", mock.Anything, user).Return(nil)

	name := "  Ana Sofía "
	phone := "55-1234 9999"
	blank := "   "
	profile, err := f.svc.UpdateProfile(context.Background(), auth.Identity{UserID: user.ID}, ProfilePatch{
		Name:        &name,
		PhoneNumber: &phone,
		Bio:         &blank,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Sofía", profile.Name)
	assert.Equal(t, "5512349999", profile.PhoneNumber)
	assert.Empty(t, profile.Bio)
}

func TestUserService_UpdateProfileRejectsBadPhone(t *testing.T) {
	f := newUserFixture()
	user := &model.User{ID: uuid.New()}
	f.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	phone := "123"
	_, err := f.svc.UpdateProfile(context.Background(), auth.Identity{UserID: user.ID}, ProfilePatch{PhoneNumber: &phone})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserService_ChangePassword(t *testing.T) {
	hash, err := auth.HashPassword("secreto1")
	require.NoError(t, err)

	tests := []struct {
		name          string
		current       string
		next          string
		expectUpdate  bool
		expectedError error
	}{
		{name: "success", current: "secreto1", next: "nuevo123", expectUpdate: true},
		{name: "wrong current password", current: "otro", next: "nuevo123", expectedError: apperrors.ErrValidation},
		{name: "new password too short", current: "secreto1", next: "abc", expectedError: apperrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUserFixture()
			user := &model.User{ID: uuid.New(), PasswordHash: hash}
			f.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
			if tt.expectUpdate {
				f.users.On("Update", mock.Anything, user).Return(nil)
			}

			err := f.svc.ChangePassword(context.Background(), auth.Identity{UserID: user.ID}, tt.current, tt.next)
			if tt.expectedError != nil {
				assert.True(t, errors.Is(err, tt.expectedError))
				f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.True(t, auth.CheckPassword(user.PasswordHash, tt.next))
		})
	}
}

func TestUserService_UploadProfileImage(t *testing.T) {
	f := newUserFixture()
	user := &model.User{ID: uuid.New(), ProfileImage: "/uploads/profiles/old.png"}
	f.expectProfile(user)
	f.store.On("Save", mock.Anything, mock.Anything).Return("/uploads/profiles/new.png", nil)
	f.store.On("Delete", mock.Anything, "/uploads/profiles/old.png").Return(nil)
	f.users.On("Update", mock.Anything, user).Return(nil)

	profile, err := f.svc.UploadProfileImage(context.Background(), auth.Identity{UserID: user.ID}, pngImage)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/profiles/new.png", profile.ProfileImageURL)
	f.store.AssertExpectations(t)
}

func TestUserService_UploadProfileImageRejectsNonImage(t *testing.T) {
	f := newUserFixture()

	_, err := f.svc.UploadProfileImage(context.Background(), auth.Identity{UserID: uuid.New()}, []byte("not an image"))
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	f.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
