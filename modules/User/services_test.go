package User

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kigongo-vincent/invai-backend/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T) *UserService {
	t.Helper()
	db := testdb.Open(t, &UserModel{})
	InitializeService(db, Options{
		JWTSecret: "test-secret",
		MediaRoot: t.TempDir(),
		MediaURL:  "/media",
	})
	return GetUserService()
}

func createUser(t *testing.T, s *UserService, username string, role UserRole) *UserModel {
	t.Helper()
	u, err := s.CreateUser(CreateUserRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
		Role:     role,
	})
	require.NoError(t, err)
	return u
}

func TestCreateUserDefaultsToEmployee(t *testing.T) {
	s := setupService(t)

	u, err := s.CreateUser(CreateUserRequest{Username: "amy", Email: "amy@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, Employee, u.Role)
	assert.NotEqual(t, "password123", u.Password)
}

func TestCreateUserRejectsDuplicatesAndBadRoles(t *testing.T) {
	s := setupService(t)
	createUser(t, s, "amy", Employee)

	_, err := s.CreateUser(CreateUserRequest{Username: "amy", Email: "other@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = s.CreateUser(CreateUserRequest{Username: "amy2", Email: "AMY@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = s.CreateUser(CreateUserRequest{Username: "bob", Email: "bob@example.com", Password: "password123", Role: "Owner"})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestLoginByEmail(t *testing.T) {
	s := setupService(t)
	created := createUser(t, s, "amy", Manager)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"success", "amy@example.com", "password123", nil},
		{"case insensitive email", "Amy@Example.com", "password123", nil},
		{"unknown email", "nobody@example.com", "password123", ErrUserNotFound},
		{"wrong password", "amy@example.com", "nope", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := s.Login(tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, created.ID, u.ID)
		})
	}
}

func TestUserIDsByRoles(t *testing.T) {
	s := setupService(t)
	admin := createUser(t, s, "admin", Admin)
	manager := createUser(t, s, "manager", Manager)
	createUser(t, s, "employee", Employee)

	ids, err := s.UserIDsByRoles(Admin, Manager)
	require.NoError(t, err)
	assert.Equal(t, []uint{admin.ID, manager.ID}, ids)

	ids, err = s.UserIDsByRoles(Admin)
	require.NoError(t, err)
	assert.Equal(t, []uint{admin.ID}, ids)

	ids, err = s.UserIDsByRoles()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestUpdateProfileStoresDataURI(t *testing.T) {
	s := setupService(t)
	u := createUser(t, s, "amy", Employee)

	pixel := base64.StdEncoding.EncodeToString([]byte("\x89PNG fake image bytes"))
	uri := "data:image/png;base64," + pixel
	first := "Amy"

	updated, err := s.UpdateProfile(u.ID, UpdateProfileRequest{FirstName: &first, ProfilePic: &uri})
	require.NoError(t, err)
	assert.Equal(t, "Amy", updated.FirstName)
	require.NotNil(t, updated.ProfilePic)
	assert.True(t, strings.HasPrefix(*updated.ProfilePic, "/media/profile_pics/"))
	assert.True(t, strings.HasSuffix(*updated.ProfilePic, ".png"))

	onDisk := filepath.Join(settings.MediaRoot, "profile_pics", filepath.Base(*updated.ProfilePic))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG fake image bytes", string(data))
}

func TestUpdateProfileImageValidation(t *testing.T) {
	s := setupService(t)
	u := createUser(t, s, "amy", Employee)

	url := "https://cdn.example.com/amy.jpg"
	updated, err := s.UpdateProfile(u.ID, UpdateProfileRequest{ProfilePic: &url})
	require.NoError(t, err)
	assert.Equal(t, url, *updated.ProfilePic)

	for _, bad := range []string{"ftp://example.com/a.png", "data:text/plain;base64,aGk=", "data:image/png;base64,@@@"} {
		bad := bad
		_, err := s.UpdateProfile(u.ID, UpdateProfileRequest{ProfilePic: &bad})
		assert.ErrorIs(t, err, ErrInvalidImage, bad)
	}
}

func TestDeleteUser(t *testing.T) {
	s := setupService(t)
	u := createUser(t, s, "amy", Employee)

	require.NoError(t, s.DeleteUser(u.ID))
	_, err := s.GetUserByID(u.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, s.DeleteUser(u.ID), ErrUserNotFound)
}
