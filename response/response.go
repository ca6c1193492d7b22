package response

import (
	stderrors "errors"
	"net/http"

	"locationsguard/errors"

	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope of every API answer.
type Response struct {
	Code       int         `json:"code"`
	Mess       string      `json:"mess"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: "Success",
		Data: data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code: 1,
		Mess: "Created",
		Data: data,
	})
}

func SuccessWithPagination(c *gin.Context, data interface{}, page, limit, total int) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: "Success",
		Data: data,
		Pagination: &Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	})
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Code: 0,
		Mess: message,
	})
}

func ServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthenticated")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Access denied")
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Not found")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Data conflict"
	}
	Error(c, http.StatusConflict, message)
}

// ServiceUnavailable is used when the data needed to answer is not loaded.
func ServiceUnavailable(c *gin.Context, message string) {
	Error(c, http.StatusServiceUnavailable, message)
}

var statusByCode = map[errors.ErrorCode]int{
	errors.ErrCodeUnauthorized:        http.StatusUnauthorized,
	errors.ErrCodeInvalidToken:        http.StatusUnauthorized,
	errors.ErrCodeMissingToken:        http.StatusUnauthorized,
	errors.ErrCodeInvalidPassword:     http.StatusUnauthorized,
	errors.ErrCodeForbidden:           http.StatusForbidden,
	errors.ErrCodeUserNotFound:        http.StatusNotFound,
	errors.ErrCodeDBNotFound:          http.StatusNotFound,
	errors.ErrCodeDBDuplicate:         http.StatusConflict,
	errors.ErrCodeReservationConflict: http.StatusConflict,
	errors.ErrCodeInvalidTransition:   http.StatusConflict,
	errors.ErrCodeVehicleUnavailable:  http.StatusConflict,
	errors.ErrCodeInUse:               http.StatusConflict,
	errors.ErrCodeSnapshotNotReady:    http.StatusServiceUnavailable,
	errors.ErrCodeDBError:             http.StatusInternalServerError,
}

// FromError writes err using the HTTP status matching its AppError code.
// Errors that are not AppErrors are answered with a 500.
func FromError(c *gin.Context, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		ServerError(c)
		return
	}
	status, ok := statusByCode[appErr.Code]
	if !ok {
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		ServerError(c)
		return
	}
	Error(c, status, appErr.Message)
}
