package middleware

import (
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
)

// CORS allows a single origin and lets it send cookies.
func CORS(origin string) drift.HandlerFunc {
	cors := driftmw.CORSWithConfig(driftmw.CORSConfig{
		AllowOrigins: []string{origin},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	})

	return func(c *drift.Context) {
		if c.GetHeader("Origin") == origin {
			c.Response.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		cors(c)
	}
}
