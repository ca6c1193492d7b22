package controllers

import (
	"locationsguard/dto"
	"locationsguard/response"
	"locationsguard/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) AuthController {
	return AuthController{Auth: auth}
}

// Login godoc
// @Summary  Staff login with email and password
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body dto.LoginInput true "credentials"
// @Success  200 {object} response.Response{data=dto.UserLoginResponse}
// @Failure  401 {object} response.Response
// @Router   /auth/login [post]
func (a AuthController) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := a.Auth.Login(c.Request.Context(), input)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, resp)
}

// LoginGoogle godoc
// @Summary  Staff login with a Google ID token
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body dto.GoogleLoginInput true "Google ID token"
// @Success  200 {object} response.Response{data=dto.UserLoginResponse}
// @Failure  401 {object} response.Response
// @Router   /auth/google [post]
func (a AuthController) LoginGoogle(c *gin.Context) {
	var input dto.GoogleLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := a.Auth.LoginGoogle(c.Request.Context(), input)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, resp)
}

func (a AuthController) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	user, err := a.Auth.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, user)
}
