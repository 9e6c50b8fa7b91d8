package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lunatwin-backend/internal/platform/apierr"
)

// RespondAPIError maps service errors onto the envelope. Errors that are not
// *apierr.Error become a 500 with a generic message so internals do not leak.
func RespondAPIError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	if ae, ok := apierr.As(err); ok {
		status := ae.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		msg := err
		if ae.Err != nil {
			msg = ae.Err
		}
		RespondError(c, status, ae.Code, msg)
		return
	}
	RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("internal server error"))
}

func AbortError(c *gin.Context, status int, code string, err error) {
	RespondError(c, status, code, err)
	c.Abort()
}
