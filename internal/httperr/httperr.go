package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const SlotTakenMessage = "That time was just taken, please choose another."

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// Respond maps an engine error onto its HTTP shape. Anything that is not a
// BusinessError is an infrastructure fault.
func Respond(c *gin.Context, err error) {
	be, ok := AsBusiness(err)
	if !ok {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		Internal(c, "internal_error", "Something went wrong, please try again.")
		return
	}

	switch be.Code {
	case CodeSlotNoLongerAvailable:
		c.JSON(http.StatusConflict, HTTPError{Code: be.Code, Message: SlotTakenMessage, Detail: be.Detail})
	case CodeReservationTimeout:
		c.Header("Retry-After", "1")
		Write(c, http.StatusServiceUnavailable, be.Code, "The schedule is busy right now, please try again.")
	case CodeIllegalTransition:
		c.JSON(http.StatusUnprocessableEntity, HTTPError{Code: be.Code, Message: "This change is not allowed.", Detail: be.Detail})
	case CodeForbidden:
		Write(c, http.StatusForbidden, be.Code, "You are not allowed to perform this action.")
	case CodeUpstreamPayment:
		Write(c, http.StatusBadGateway, be.Code, "The payment could not be processed.")
	case CodeValidation:
		c.JSON(http.StatusBadRequest, HTTPError{Code: be.Code, Message: "Invalid request.", Detail: be.Detail})
	case CodeNotFound:
		c.JSON(http.StatusNotFound, HTTPError{Code: be.Code, Message: "Not found.", Detail: be.Detail})
	default:
		BadRequest(c, be.Code, be.Error())
	}
}
