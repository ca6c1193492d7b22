package services

import (
	"context"
	stderrors "errors"
	"strings"

	"locationsguard/constants"
	"locationsguard/dto"
	"locationsguard/errors"
	"locationsguard/models"
	"locationsguard/services/logger"

	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

// GoogleVerifier validates a Google ID token for audience.
type GoogleVerifier func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

type AuthService struct {
	db             *gorm.DB
	tokens         *TokenService
	googleClientID string
	verify         GoogleVerifier
	logger         logger.Logger
}

type AuthServiceOptions struct {
	DB             *gorm.DB
	Tokens         *TokenService
	GoogleClientID string
	Verifier       GoogleVerifier
	Logger         logger.Logger
}

func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Logger == nil {
		opts.Logger = logger.NopLogger{}
	}
	if opts.Verifier == nil {
		opts.Verifier = idtoken.Validate
	}
	return &AuthService{
		db:             opts.DB,
		tokens:         opts.Tokens,
		googleClientID: opts.GoogleClientID,
		verify:         opts.Verifier,
		logger:         opts.Logger,
	}
}

func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

func invalidCredentials() error {
	return errors.NewAppError(errors.ErrCodeInvalidPassword, "Invalid email or password", errors.ErrInvalidPassword)
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NewAppError(errors.ErrCodeUserNotFound, "User not found", errors.ErrUserNotFound)
	}
	if err != nil {
		return nil, dbError(err)
	}
	return &user, nil
}

func (s *AuthService) issue(user *models.User) (*dto.UserLoginResponse, error) {
	if user.Status == 0 {
		return nil, errors.NewAppError(errors.ErrCodeForbidden, "Account is disabled", nil)
	}
	token, err := s.tokens.GenerateToken(UserInfo{UserId: user.ID, Role: user.Role})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "Could not issue token", err)
	}
	return &dto.UserLoginResponse{
		AccessToken: token,
		UserID:      user.ID,
		UserName:    user.Name,
		UserEmail:   user.Email,
		UserRole:    user.Role,
		UserAvatar:  user.Avatar,
		CreatedAt:   user.CreatedAt,
	}, nil
}

// Login checks an email/password pair.
func (s *AuthService) Login(ctx context.Context, input dto.LoginInput) (*dto.UserLoginResponse, error) {
	user, err := s.findByEmail(ctx, input.Email)
	if err != nil {
		if appErr := errors.GetAppError(err); appErr != nil && appErr.Code == errors.ErrCodeUserNotFound {
			return nil, invalidCredentials()
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, invalidCredentials()
	}
	s.logger.Info("user %d logged in", user.ID)
	return s.issue(user)
}

// LoginGoogle signs in an existing staff account with a Google ID token.
// Google sign-in never creates accounts.
func (s *AuthService) LoginGoogle(ctx context.Context, input dto.GoogleLoginInput) (*dto.UserLoginResponse, error) {
	payload, err := s.verify(ctx, input.IDToken, s.googleClientID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "Invalid Google token", err)
	}
	email, _ := payload.Claims["email"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)
	if email == "" || !verified {
		return nil, errors.NewAppError(errors.ErrCodeUnauthorized, "Email has not been verified", errors.ErrUnauthorized)
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		if appErr := errors.GetAppError(err); appErr != nil && appErr.Code == errors.ErrCodeUserNotFound {
			return nil, errors.NewAppError(errors.ErrCodeUnauthorized, "No staff account for this email", errors.ErrUnauthorized)
		}
		return nil, err
	}
	if picture, _ := payload.Claims["picture"].(string); picture != "" && user.Avatar == "" {
		user.Avatar = picture
		if err := s.db.WithContext(ctx).Model(user).Update("avatar", picture).Error; err != nil {
			s.logger.Warn("saving avatar of user %d: %v", user.ID, err)
		}
	}
	return s.issue(user)
}

func (s *AuthService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NewAppError(errors.ErrCodeUserNotFound, "User not found", errors.ErrUserNotFound)
	}
	if err != nil {
		return nil, dbError(err)
	}
	return &user, nil
}

// CreateUser adds a staff account with a hashed password.
func (s *AuthService) CreateUser(ctx context.Context, name, email, password string, role int) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, errors.NewAppError(errors.ErrCodeRequiredField, "Email and password are required", nil)
	}
	if len(password) < 6 {
		return nil, errors.NewAppError(errors.ErrCodeValidation, "Password must be at least 6 characters", nil)
	}
	if role != constants.RoleAgent && role != constants.RoleAdmin {
		return nil, errors.NewAppError(errors.ErrCodeValidation, "Unknown role", nil)
	}
	if _, err := s.findByEmail(ctx, email); err == nil {
		return nil, errors.NewAppError(errors.ErrCodeDBDuplicate, "Email already in use", nil)
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := models.User{Name: name, Email: email, Password: hashed, Role: role, Status: 1}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, dbError(err)
	}
	return &user, nil
}

// EnsureAdmin creates the admin account when it does not exist yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.findByEmail(ctx, email); err == nil {
		return nil
	}
	if _, err := s.CreateUser(ctx, "Administrator", email, password, constants.RoleAdmin); err != nil {
		return err
	}
	s.logger.Info("admin account %s created", email)
	return nil
}
