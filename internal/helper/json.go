package helper

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
)

// ReadJSON reads and decodes JSON from the request body.
func ReadJSON(c *gin.Context, out any) error {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return err
	}
	defer c.Request.Body.Close()

	return json.Unmarshal(body, out)
}

// WriteJSON writes a JSON response to the client.
func WriteJSON(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}
