package impl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"userhub/internal/domain/entity"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/domain/repository"
	"userhub/internal/usecase"
)

func validRegisterInput() *usecase.RegisterAccountInput {
	return &usecase.RegisterAccountInput{
		FirstName:       "Alice",
		LastName:        "Smith",
		Username:        "alice",
		Email:           "Alice@Example.com",
		Password:        "Sup3r-Secret",
		ConfirmPassword: "Sup3r-Secret",
	}
}

func TestAccountService_Register_Success(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	input := validRegisterInput()

	fx.hasher.On("Hash", input.Password).Return("hashed_password", nil)
	fx.repo.On("UsernameExists", ctx, "alice", uint64(0)).Return(false, nil)
	fx.repo.On("EmailExists", ctx, "alice@example.com", uint64(0)).Return(false, nil)
	fx.repo.On("Create", ctx, mock.AnythingOfType("*entity.Account")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Account).ID = 42
		}).
		Return(nil)

	account, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, uint64(42), account.ID)
	assert.Equal(t, "alice@example.com", account.Email)
	assert.Equal(t, entity.RoleUser, account.Role)
	assert.True(t, account.Active)
	assert.Equal(t, "hashed_password", account.PasswordHash)
}

func TestAccountService_Register_KeepsBio(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	input := validRegisterInput()
	input.Bio = "Gopher since 2015."

	fx.hasher.On("Hash", input.Password).Return("hashed_password", nil)
	fx.repo.On("UsernameExists", ctx, "alice", uint64(0)).Return(false, nil)
	fx.repo.On("EmailExists", ctx, "alice@example.com", uint64(0)).Return(false, nil)
	fx.repo.On("Create", ctx, mock.AnythingOfType("*entity.Account")).Return(nil)

	account, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "Gopher since 2015.", account.Bio)
}

func TestAccountService_Register_UsernameTaken(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	input := validRegisterInput()

	fx.hasher.On("Hash", input.Password).Return("hashed_password", nil)
	fx.repo.On("UsernameExists", ctx, "alice", uint64(0)).Return(true, nil)

	_, err := fx.service.Register(ctx, input)

	assert.ErrorIs(t, err, domainerrors.ErrUsernameTaken)
}

func TestAccountService_Register_PasswordMismatch(t *testing.T) {
	fx := createTestAccountService(t)
	input := validRegisterInput()
	input.ConfirmPassword = "Different-123"

	_, err := fx.service.Register(context.Background(), input)

	assert.ErrorIs(t, err, domainerrors.ErrPasswordMismatch)
}

func TestAccountService_Register_WeakPassword(t *testing.T) {
	fx := createTestAccountService(t)
	input := validRegisterInput()
	input.Password = "weak"
	input.ConfirmPassword = "weak"

	_, err := fx.service.Register(context.Background(), input)

	assert.ErrorIs(t, err, domainerrors.ErrWeakPassword)
}

func TestAccountService_Register_InvalidEmail(t *testing.T) {
	fx := createTestAccountService(t)
	input := validRegisterInput()
	input.Email = "not-an-email"

	_, err := fx.service.Register(context.Background(), input)

	require.Error(t, err)

	var validationErr *domainerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.FieldErrors(), "email")
}

func TestAccountService_GetByID_CachesAccount(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.repo.On("FindByID", ctx, uint64(1)).
		Return(&entity.Account{ID: 1, Username: "alice"}, nil).
		Once()

	first, err := fx.service.GetByID(ctx, 1)
	require.NoError(t, err)

	second, err := fx.service.GetByID(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, first.Username, second.Username)
	fx.repo.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestAccountService_GetByID_NotFound(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.repo.On("FindByID", ctx, uint64(99)).Return(nil, repository.ErrAccountNotFound)

	_, err := fx.service.GetByID(ctx, 99)

	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
}

func TestAccountService_UpdateProfile_ChangesEmail(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	email := "New@Example.com"

	fx.repo.On("FindByID", ctx, uint64(1)).
		Return(&entity.Account{ID: 1, Email: "old@example.com", EmailVerified: true}, nil)
	fx.repo.On("EmailExists", ctx, "new@example.com", uint64(1)).Return(false, nil)
	fx.repo.On("Update", ctx, mock.AnythingOfType("*entity.Account")).Return(nil)

	updated, err := fx.service.UpdateProfile(ctx, &usecase.UpdateProfileInput{ID: 1, Email: &email})

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.False(t, updated.EmailVerified)
}

func TestAccountService_UpdateProfile_EmailTaken(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	email := "taken@example.com"

	fx.repo.On("FindByID", ctx, uint64(1)).
		Return(&entity.Account{ID: 1, Email: "old@example.com"}, nil)
	fx.repo.On("EmailExists", ctx, "taken@example.com", uint64(1)).Return(true, nil)

	_, err := fx.service.UpdateProfile(ctx, &usecase.UpdateProfileInput{ID: 1, Email: &email})

	assert.ErrorIs(t, err, domainerrors.ErrEmailTaken)
}

func TestAccountService_UpdateProfile_ChangesUsername(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	username := "alicia"

	fx.repo.On("FindByID", ctx, uint64(1)).
		Return(&entity.Account{ID: 1, Username: "alice"}, nil)
	fx.repo.On("UsernameExists", ctx, "alicia", uint64(1)).Return(false, nil)
	fx.repo.On("Update", ctx, mock.AnythingOfType("*entity.Account")).Return(nil)

	updated, err := fx.service.UpdateProfile(ctx, &usecase.UpdateProfileInput{ID: 1, Username: &username})

	require.NoError(t, err)
	assert.Equal(t, "alicia", updated.Username)
}

func TestAccountService_UpdateProfile_UsernameTaken(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	username := "bob"

	fx.repo.On("FindByID", ctx, uint64(1)).
		Return(&entity.Account{ID: 1, Username: "alice"}, nil)
	fx.repo.On("UsernameExists", ctx, "bob", uint64(1)).Return(true, nil)

	_, err := fx.service.UpdateProfile(ctx, &usecase.UpdateProfileInput{ID: 1, Username: &username})

	assert.ErrorIs(t, err, domainerrors.ErrUsernameTaken)
	fx.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAccountService_UpdateProfile_StaleVersion(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	name := "Alicia"

	fx.repo.On("FindByID", ctx, uint64(1)).Return(&entity.Account{ID: 1}, nil)
	fx.repo.On("Update", ctx, mock.AnythingOfType("*entity.Account")).
		Return(repository.ErrStaleVersion)

	_, err := fx.service.UpdateProfile(ctx, &usecase.UpdateProfileInput{ID: 1, FirstName: &name})

	assert.ErrorIs(t, err, domainerrors.ErrVersionConflict)
}

func TestAccountService_ChangePassword_Success(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.repo.On("FindByID", ctx, uint64(1)).
		Return(&entity.Account{ID: 1, PasswordHash: "old_hash"}, nil)
	fx.hasher.On("Check", "Curr3nt-Pass", "old_hash").Return(true)
	fx.hasher.On("Hash", "N3w-Password!").Return("new_hash", nil)
	fx.repo.On("Update", ctx, mock.MatchedBy(func(a *entity.Account) bool {
		return a.PasswordHash == "new_hash"
	})).Return(nil)

	err := fx.service.ChangePassword(ctx, &usecase.ChangePasswordInput{
		ID:              1,
		CurrentPassword: "Curr3nt-Pass",
		NewPassword:     "N3w-Password!",
		ConfirmPassword: "N3w-Password!",
	})

	assert.NoError(t, err)
}

func TestAccountService_ChangePassword_WrongCurrent(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.repo.On("FindByID", ctx, uint64(1)).
		Return(&entity.Account{ID: 1, PasswordHash: "old_hash"}, nil)
	fx.hasher.On("Check", "Wr0ng-Pass!", "old_hash").Return(false)

	err := fx.service.ChangePassword(ctx, &usecase.ChangePasswordInput{
		ID:              1,
		CurrentPassword: "Wr0ng-Pass!",
		NewPassword:     "N3w-Password!",
		ConfirmPassword: "N3w-Password!",
	})

	assert.ErrorIs(t, err, domainerrors.ErrWrongPassword)
}

func TestAccountService_Activate_ClearsLock(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	lockedUntil := time.Now().Add(10 * time.Minute)

	fx.repo.On("FindByID", ctx, uint64(1)).Return(&entity.Account{
		ID:           1,
		Active:       false,
		FailedLogins: 5,
		LockedUntil:  &lockedUntil,
	}, nil)
	fx.repo.On("Update", ctx, mock.MatchedBy(func(a *entity.Account) bool {
		return a.Active && a.FailedLogins == 0 && a.LockedUntil == nil
	})).Return(nil)

	err := fx.service.Activate(ctx, 1)

	assert.NoError(t, err)
}

func TestAccountService_Deactivate(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.repo.On("FindByID", ctx, uint64(1)).Return(&entity.Account{ID: 1, Active: true}, nil)
	fx.repo.On("Update", ctx, mock.MatchedBy(func(a *entity.Account) bool {
		return !a.Active
	})).Return(nil)

	err := fx.service.Deactivate(ctx, 1)

	assert.NoError(t, err)
}

func TestAccountService_VerifyEmail(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.repo.On("FindByID", ctx, uint64(1)).Return(&entity.Account{ID: 1}, nil)
	fx.repo.On("Update", ctx, mock.MatchedBy(func(a *entity.Account) bool {
		return a.EmailVerified
	})).Return(nil)

	err := fx.service.VerifyEmail(ctx, 1)

	assert.NoError(t, err)
}

func TestAccountService_ChangeRole(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.repo.On("FindByID", ctx, uint64(1)).
		Return(&entity.Account{ID: 1, Role: entity.RoleUser}, nil)
	fx.repo.On("Update", ctx, mock.MatchedBy(func(a *entity.Account) bool {
		return a.Role == entity.RoleModerator
	})).Return(nil)

	account, err := fx.service.ChangeRole(ctx, &usecase.ChangeRoleInput{ID: 1, Role: "moderator"})

	require.NoError(t, err)
	assert.Equal(t, entity.RoleModerator, account.Role)
}

func TestAccountService_ChangeRole_InvalidRole(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	_, err := fx.service.ChangeRole(ctx, &usecase.ChangeRoleInput{ID: 1, Role: "SUPERUSER"})

	var validationErr *domainerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.FieldErrors(), "role")
	fx.repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAccountService_Delete_InvalidatesCache(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.cache.Set(&entity.Account{ID: 1, Username: "alice"})
	fx.repo.On("Delete", ctx, uint64(1)).Return(nil)

	err := fx.service.Delete(ctx, 1)

	require.NoError(t, err)
	_, cached := fx.cache.Get(1)
	assert.False(t, cached)
}

func TestAccountService_BulkDelete_SkipsMissing(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.repo.On("Delete", ctx, uint64(1)).Return(nil)
	fx.repo.On("Delete", ctx, uint64(2)).Return(repository.ErrAccountNotFound)
	fx.repo.On("Delete", ctx, uint64(3)).Return(nil)

	output, err := fx.service.BulkDelete(ctx, []uint64{1, 2, 3})

	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 3}, output.Deleted)
	assert.Equal(t, []uint64{2}, output.Skipped)
}

func TestAccountService_List_PassesFilters(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	active := true
	role := entity.RoleUser

	fx.repo.On("List", ctx, repository.ListFilter{
		Active: &active, Role: &role, Term: "smith", Page: 2, PerPage: 10,
	}).Return(&repository.Page{Total: 3, Page: 2, PerPage: 10}, nil)

	page, err := fx.service.List(ctx, &usecase.ListAccountsInput{
		Active: &active, Role: &role, Term: "smith", Page: 2, PerPage: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
}

func TestAccountService_Stats(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.repo.On("Stats", ctx, mock.AnythingOfType("time.Time")).
		Return(&entity.AccountStats{Total: 10, Active: 8}, nil)

	stats, err := fx.service.Stats(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.Total)
}

func TestAccountService_UploadAvatar_ReplacesPrevious(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	content := []byte{0x89, 0x50, 0x4E, 0x47}

	fx.repo.On("FindByID", ctx, uint64(1)).
		Return(&entity.Account{ID: 1, AvatarURL: "avatars/old.png"}, nil)
	fx.fileStore.On("Store", ctx, content, "image/png", "photo.png", "avatars").
		Return(&entity.StoredFile{Name: "new.png", Path: "avatars/new.png"}, nil)
	fx.repo.On("Update", ctx, mock.MatchedBy(func(a *entity.Account) bool {
		return a.AvatarURL == "avatars/new.png"
	})).Return(nil)
	fx.fileStore.On("Delete", ctx, "avatars/old.png").Return(nil)

	account, err := fx.service.UploadAvatar(ctx, &usecase.UploadAvatarInput{
		AccountID:   1,
		Filename:    "photo.png",
		ContentType: "image/png",
		Content:     content,
	})

	require.NoError(t, err)
	assert.Equal(t, "avatars/new.png", account.AvatarURL)
}

func TestAccountService_UploadAvatar_RemovesOrphanOnFailedUpdate(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	content := []byte{0x89, 0x50, 0x4E, 0x47}

	fx.repo.On("FindByID", ctx, uint64(1)).Return(&entity.Account{ID: 1}, nil)
	fx.fileStore.On("Store", ctx, content, "image/png", "photo.png", "avatars").
		Return(&entity.StoredFile{Name: "new.png", Path: "avatars/new.png"}, nil)
	fx.repo.On("Update", ctx, mock.AnythingOfType("*entity.Account")).
		Return(repository.ErrStaleVersion)
	fx.fileStore.On("Delete", ctx, "avatars/new.png").Return(nil)

	_, err := fx.service.UploadAvatar(ctx, &usecase.UploadAvatarInput{
		AccountID:   1,
		Filename:    "photo.png",
		ContentType: "image/png",
		Content:     content,
	})

	assert.ErrorIs(t, err, domainerrors.ErrVersionConflict)
}

func TestAccountService_UploadAvatar_RejectedFile(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	content := []byte("not an image")

	fx.repo.On("FindByID", ctx, uint64(1)).Return(&entity.Account{ID: 1}, nil)
	fx.fileStore.On("Store", ctx, content, "image/png", "photo.png", "avatars").
		Return(nil, domainerrors.ErrInvalidFile)

	_, err := fx.service.UploadAvatar(ctx, &usecase.UploadAvatarInput{
		AccountID:   1,
		Filename:    "photo.png",
		ContentType: "image/png",
		Content:     content,
	})

	assert.ErrorIs(t, err, domainerrors.ErrInvalidFile)
}
