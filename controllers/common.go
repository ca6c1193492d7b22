package controllers

import (
	"strconv"

	"locationsguard/response"
	"locationsguard/validator"

	"github.com/gin-gonic/gin"
)

// parseID reads the uint path parameter name, answering 400 when it is not one.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the body into req and runs its validate tags.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	if err := validator.Struct(req); err != nil {
		response.FromError(c, err)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.BadRequest(c, "Invalid query: "+err.Error())
		return false
	}
	if err := validator.Struct(req); err != nil {
		response.FromError(c, err)
		return false
	}
	return true
}

func currentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
