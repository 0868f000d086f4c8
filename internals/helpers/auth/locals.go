package helper

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"internlink_backend/internals/helpers/fault"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

/* ===============================
   Locals Keys (diisi middleware JWT)
=================================*/

const (
	LocUserID    = "user_id"    // string
	LocRole      = "userRole"   // COMPANY | INTERN
	LocUserName  = "user_name"  // string
	LocUserEmail = "user_email" // string
	LocRawToken  = "raw_token"  // access token mentah, untuk logout/blacklist
)

func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	switch v := c.Locals(LocUserID).(type) {
	case string:
		id, err := uuid.Parse(strings.TrimSpace(v))
		if err != nil {
			return uuid.Nil, fault.Unauthorized("invalid user id in token")
		}
		return id, nil
	case uuid.UUID:
		if v == uuid.Nil {
			break
		}
		return v, nil
	}
	return uuid.Nil, fault.Unauthorized("authentication required")
}

// GetUserIDOptional: untuk route publik yang perilakunya berubah kalau user login.
func GetUserIDOptional(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := GetUserID(c)
	return id, err == nil
}

func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocRole).(string)
	return strings.ToUpper(strings.TrimSpace(s))
}

// RequireRole: user_id dari token + cek role (403 kalau beda).
func RequireRole(c *fiber.Ctx, role string) (uuid.UUID, error) {
	id, err := GetUserID(c)
	if err != nil {
		return uuid.Nil, err
	}
	if GetRole(c) != role {
		return uuid.Nil, fault.Forbidden("only " + strings.ToLower(role) + " accounts can do this")
	}
	return id, nil
}

// HashToken: token tidak pernah disimpan plaintext.
func HashToken(tok string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(tok)))
	return hex.EncodeToString(sum[:])
}

func ExtractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if auth == "" {
		if cookieTok := c.Cookies("access_token"); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", fault.Unauthorized("no token provided")
	}

	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", fault.Unauthorized("invalid token format")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", fault.Unauthorized("empty token")
	}
	return tok, nil
}
