package response

import (
	"errors"
	"net/http"

	"coupon_day/pkg/apperr"

	"github.com/gin-gonic/gin"
)

// Response 통일 응답 구조
type Response struct {
	Code    int         `json:"code"`    // 비즈니스 코드
	Message string      `json:"message"` // 메시지
	Data    interface{} `json:"data"`    // 데이터
}

// Success 성공 응답
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Error 에러 응답
func Error(c *gin.Context, httpCode int, errCode int, msg string) {
	c.JSON(httpCode, Response{
		Code:    errCode,
		Message: msg,
		Data:    nil,
	})
}

// Fail 비즈니스 실패 응답 (HTTP 200, 비즈니스 코드 != 0)
func Fail(c *gin.Context, errCode int, msg string) {
	c.JSON(http.StatusOK, Response{
		Code:    errCode,
		Message: msg,
		Data:    nil,
	})
}

// FromError 도메인 에러를 HTTP 상태 + 비즈니스 코드로 변환
func FromError(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		Error(c, http.StatusNotFound, ErrNotFound, messageOf(err))
	case apperr.KindInvalidOperation:
		Error(c, http.StatusUnprocessableEntity, ErrInvalidOperation, messageOf(err))
	case apperr.KindInvalidState:
		Error(c, http.StatusConflict, ErrInvalidState, messageOf(err))
	case apperr.KindConflict:
		Error(c, http.StatusConflict, ErrConflict, messageOf(err))
	case apperr.KindForbidden:
		Error(c, http.StatusForbidden, ErrForbidden, messageOf(err))
	case apperr.KindValidation:
		Error(c, http.StatusBadRequest, ErrInvalidParam, messageOf(err))
	default:
		Error(c, http.StatusInternalServerError, ErrServerInternal, err.Error())
	}
}

// messageOf 래핑된 에러에서도 도메인 메시지만 꺼낸다 (KIND 접두어 노출 방지)
func messageOf(err error) string {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}
