package dto

import "time"

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginInput struct {
	IDToken string `json:"idToken" binding:"required"`
}

type UserLoginResponse struct {
	AccessToken string    `json:"accessToken"`
	UserID      uint      `json:"id"`
	UserName    string    `json:"name"`
	UserEmail   string    `json:"email"`
	UserRole    int       `json:"role"`
	UserAvatar  string    `json:"avatar"`
	CreatedAt   time.Time `json:"createdAt"`
}
