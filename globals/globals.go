package globals

import (
	"context"
	"os"
)

var JwtSecret = []byte(getenv("JWT_SECRET", "change_me_in_production"))

// PublicBaseURL is what payment callbacks and tracking links point at.
var PublicBaseURL = getenv("PUBLIC_BASE_URL", "http://localhost:8080")

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const RoleKey ContextKey = "role"

var Ctx = context.Background()

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
