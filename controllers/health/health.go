package healthController

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *database.DB.
type Pinger interface {
	Ping(ctx context.Context) error
}

// GET /health
//
// "mongo" keeps the field name existing clients read: 1 when the database
// answers, 0 when it does not.
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		state := 1
		if err := db.Ping(ctx); err != nil {
			state = 0
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "mongo": state})
	}
}
