package response

import "github.com/gin-gonic/gin"

const internalErrorMessage = "Internal server error"

type MessageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func JSON(c *gin.Context, httpStatus int, body interface{}) {
	c.JSON(httpStatus, body)
}

func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, MessageResponse{Message: message})
}

// AbortError writes the error body and stops the handler chain.
func AbortError(c *gin.Context, httpStatus int, message string) {
	c.AbortWithStatusJSON(httpStatus, MessageResponse{Message: message})
}

// Internal writes a 500. The error text is included only when expose is set.
func Internal(c *gin.Context, err error, expose bool) {
	body := MessageResponse{Message: internalErrorMessage}
	if expose && err != nil {
		body.Error = err.Error()
	}
	c.JSON(500, body)
}
