package User

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidRole        = errors.New("role must be one of: Admin, Manager, Employee")
)

// Options carries the auth and media settings the package needs at runtime.
type Options struct {
	JWTSecret    string
	TokenTTL     time.Duration
	CookieName   string
	CookieSecure bool
	MediaRoot    string
	MediaURL     string
	Sessions     SessionStore
}

var (
	userService *UserService
	settings    = Options{
		JWTSecret:  "insecure-development-secret",
		TokenTTL:   24 * time.Hour,
		CookieName: "sessionid",
		MediaRoot:  "media",
		MediaURL:   "/media",
	}
)

type UserService struct {
	db       *gorm.DB
	sessions SessionStore
}

// InitializeService initializes the user service with a database connection
func InitializeService(db *gorm.DB, opts Options) {
	if opts.JWTSecret != "" {
		settings.JWTSecret = opts.JWTSecret
	}
	if opts.TokenTTL > 0 {
		settings.TokenTTL = opts.TokenTTL
	}
	if opts.CookieName != "" {
		settings.CookieName = opts.CookieName
	}
	if opts.MediaRoot != "" {
		settings.MediaRoot = opts.MediaRoot
	}
	if opts.MediaURL != "" {
		settings.MediaURL = strings.TrimRight(opts.MediaURL, "/")
	}
	settings.CookieSecure = opts.CookieSecure
	settings.Sessions = opts.Sessions

	userService = &UserService{db: db, sessions: opts.Sessions}
}

// GetUserService returns the initialized user service
func GetUserService() *UserService {
	return userService
}

// Login authenticates by email. Unknown emails and wrong passwords are reported separately.
func (s *UserService) Login(email, password string) (*UserModel, error) {
	var user UserModel
	if err := s.db.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *UserService) GetUserByID(id uint) (*UserModel, error) {
	var user UserModel
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetAllUsers() ([]*UserModel, error) {
	var users []*UserModel
	if err := s.db.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UserIDsByRoles returns the ids of every user holding one of the given roles.
func (s *UserService) UserIDsByRoles(roles ...UserRole) ([]uint, error) {
	var ids []uint
	if len(roles) == 0 {
		return ids, nil
	}
	if err := s.db.Model(&UserModel{}).Where("role IN ?", roles).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("resolve recipients: %w", err)
	}
	return ids, nil
}

func (s *UserService) CreateUser(req CreateUserRequest) (*UserModel, error) {
	if req.Role == "" {
		req.Role = Employee
	}
	if !req.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if err := s.ensureUnique(0, &req.Username, &req.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &UserModel{
		Username:   req.Username,
		Email:      strings.TrimSpace(req.Email),
		Password:   hashedPassword,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Role:       req.Role,
		Phone:      req.Phone,
		ProfilePic: req.ProfilePic,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateUser(id uint, req UpdateUserRequest) (*UserModel, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(id, req.Username, req.Email); err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = strings.TrimSpace(*req.Email)
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, ErrInvalidRole
		}
		user.Role = *req.Role
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.ProfilePic != nil {
		user.ProfilePic = req.ProfilePic
	}
	if req.Password != nil {
		hashedPassword, err := hashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = hashedPassword
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a self-service edit. Data URI images are written to
// the media directory and the stored value becomes their public path.
func (s *UserService) UpdateProfile(id uint, req UpdateProfileRequest) (*UserModel, error) {
	update := UpdateUserRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}

	if req.ProfilePic != nil {
		pic := strings.TrimSpace(*req.ProfilePic)
		switch {
		case pic == "":
			update.ProfilePic = &pic
		case strings.HasPrefix(pic, "data:"):
			path, err := saveDataURI(settings.MediaRoot, settings.MediaURL, "profile_pics", pic)
			if err != nil {
				return nil, err
			}
			update.ProfilePic = &path
		case strings.HasPrefix(pic, "http://"), strings.HasPrefix(pic, "https://"), strings.HasPrefix(pic, settings.MediaURL+"/"):
			update.ProfilePic = &pic
		default:
			return nil, ErrInvalidImage
		}
	}

	return s.UpdateUser(id, update)
}

func (s *UserService) DeleteUser(id uint) error {
	result := s.db.Delete(&UserModel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserService) ensureUnique(id uint, username, email *string) error {
	var count int64
	if username != nil {
		if err := s.db.Model(&UserModel{}).Where("username = ? AND id <> ?", *username, id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUsernameTaken
		}
	}
	if email != nil {
		if err := s.db.Model(&UserModel{}).Where("LOWER(email) = ? AND id <> ?", strings.ToLower(strings.TrimSpace(*email)), id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}
