package services

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"locationsguard/constants"
	"locationsguard/dto"
	"locationsguard/errors"
	"locationsguard/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

const testClientID = "client-id.apps.googleusercontent.com"

func fakeGoogle(claims map[string]interface{}) GoogleVerifier {
	return func(_ context.Context, idToken, audience string) (*idtoken.Payload, error) {
		if idToken != "good-token" || audience != testClientID {
			return nil, stderrors.New("idtoken: invalid token")
		}
		return &idtoken.Payload{Audience: audience, Claims: claims}, nil
	}
}

func newAuth(t *testing.T, claims map[string]interface{}) (*AuthService, *TokenService) {
	t.Helper()
	tokens := NewTokenService("test-secret", time.Hour)
	auth := NewAuthService(AuthServiceOptions{
		DB:             newTestDB(t),
		Tokens:         tokens,
		GoogleClientID: testClientID,
		Verifier:       fakeGoogle(claims),
	})
	return auth, tokens
}

func TestAuthService_Login(t *testing.T) {
	auth, tokens := newAuth(t, nil)
	ctx := context.Background()
	email := gofakeit.Email()
	user, err := auth.CreateUser(ctx, gofakeit.Name(), email, "s3cret!", constants.RoleAgent)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", user.Password)

	resp, err := auth.Login(ctx, dto.LoginInput{Email: email, Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.UserID)

	info, err := tokens.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, info.UserId)
	assert.Equal(t, constants.RoleAgent, info.Role)

	_, err = auth.Login(ctx, dto.LoginInput{Email: email, Password: "wrong"})
	requireCode(t, err, errors.ErrCodeInvalidPassword)

	_, err = auth.Login(ctx, dto.LoginInput{Email: "nobody@example.com", Password: "s3cret!"})
	requireCode(t, err, errors.ErrCodeInvalidPassword)
}

func TestAuthService_DisabledAccount(t *testing.T) {
	auth, _ := newAuth(t, nil)
	ctx := context.Background()
	user, err := auth.CreateUser(ctx, "Agent", "agent@example.com", "s3cret!", constants.RoleAgent)
	require.NoError(t, err)
	require.NoError(t, auth.db.Model(&models.User{}).Where("id = ?", user.ID).Update("status", 0).Error)

	_, err = auth.Login(ctx, dto.LoginInput{Email: "agent@example.com", Password: "s3cret!"})
	requireCode(t, err, errors.ErrCodeForbidden)
}

func TestAuthService_CreateUserRefusals(t *testing.T) {
	auth, _ := newAuth(t, nil)
	ctx := context.Background()

	_, err := auth.CreateUser(ctx, "A", "", "s3cret!", constants.RoleAgent)
	requireCode(t, err, errors.ErrCodeRequiredField)

	_, err = auth.CreateUser(ctx, "A", "a@example.com", "123", constants.RoleAgent)
	requireCode(t, err, errors.ErrCodeValidation)

	_, err = auth.CreateUser(ctx, "A", "a@example.com", "s3cret!", 7)
	requireCode(t, err, errors.ErrCodeValidation)

	_, err = auth.CreateUser(ctx, "A", "a@example.com", "s3cret!", constants.RoleAgent)
	require.NoError(t, err)
	_, err = auth.CreateUser(ctx, "B", "A@Example.com", "s3cret!", constants.RoleAgent)
	requireCode(t, err, errors.ErrCodeDBDuplicate)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	auth, _ := newAuth(t, nil)
	ctx := context.Background()

	require.NoError(t, auth.EnsureAdmin(ctx, "admin@example.com", "adminpass"))
	require.NoError(t, auth.EnsureAdmin(ctx, "admin@example.com", "other"))

	var users []models.User
	require.NoError(t, auth.db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, constants.RoleAdmin, users[0].Role)

	resp, err := auth.Login(ctx, dto.LoginInput{Email: "admin@example.com", Password: "adminpass"})
	require.NoError(t, err)
	assert.Equal(t, constants.RoleAdmin, resp.UserRole)
}

func TestAuthService_LoginGoogle(t *testing.T) {
	auth, _ := newAuth(t, map[string]interface{}{
		"email":          "staff@example.com",
		"email_verified": true,
		"picture":        "https://example.com/me.png",
	})
	ctx := context.Background()

	// sign-in never creates accounts
	_, err := auth.LoginGoogle(ctx, dto.GoogleLoginInput{IDToken: "good-token"})
	requireCode(t, err, errors.ErrCodeUnauthorized)

	user, err := auth.CreateUser(ctx, "Staff", "staff@example.com", "s3cret!", constants.RoleAgent)
	require.NoError(t, err)

	resp, err := auth.LoginGoogle(ctx, dto.GoogleLoginInput{IDToken: "good-token"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.UserID)
	assert.Equal(t, "https://example.com/me.png", resp.UserAvatar)

	profile, err := auth.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/me.png", profile.Avatar)

	_, err = auth.LoginGoogle(ctx, dto.GoogleLoginInput{IDToken: "forged"})
	requireCode(t, err, errors.ErrCodeInvalidToken)
}

func TestAuthService_LoginGoogleUnverifiedEmail(t *testing.T) {
	auth, _ := newAuth(t, map[string]interface{}{
		"email":          "staff@example.com",
		"email_verified": false,
	})
	ctx := context.Background()
	_, err := auth.CreateUser(ctx, "Staff", "staff@example.com", "s3cret!", constants.RoleAgent)
	require.NoError(t, err)

	_, err = auth.LoginGoogle(ctx, dto.GoogleLoginInput{IDToken: "good-token"})
	requireCode(t, err, errors.ErrCodeUnauthorized)
}

func TestAuthService_GetProfileMissing(t *testing.T) {
	auth, _ := newAuth(t, nil)
	_, err := auth.GetProfile(context.Background(), 42)
	requireCode(t, err, errors.ErrCodeUserNotFound)
}

func TestTokenService(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)
	token, err := tokens.GenerateToken(UserInfo{UserId: 3, Role: constants.RoleAdmin})
	require.NoError(t, err)

	info, err := tokens.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, UserInfo{UserId: 3, Role: constants.RoleAdmin}, info)

	_, err = NewTokenService("other", time.Hour).ParseToken(token)
	requireCode(t, err, errors.ErrCodeInvalidToken)

	_, err = tokens.ParseToken("not-a-token")
	requireCode(t, err, errors.ErrCodeInvalidToken)

	expired := NewTokenService("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.GenerateToken(UserInfo{UserId: 3})
	require.NoError(t, err)
	_, err = tokens.ParseToken(old)
	requireCode(t, err, errors.ErrCodeInvalidToken)

	anonymous, err := tokens.GenerateToken(UserInfo{})
	require.NoError(t, err)
	_, err = tokens.ParseToken(anonymous)
	requireCode(t, err, errors.ErrCodeInvalidToken)
}
