package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const defaultHashSalt = "quickrate-default-salt"

var hashSalt = defaultHashSalt

// InitHashSalt sets the salt used by HashChatID. Blank keeps the default.
func InitHashSalt(salt string) {
	if salt == "" {
		hashSalt = defaultHashSalt
		return
	}
	hashSalt = salt
}

// HashChatID creates a privacy-preserving hash of a chat ID.
func HashChatID(chatID int64) string {
	data := fmt.Sprintf("%d:%s", chatID, hashSalt)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])[:8]
}

// SanitizeText is a general-purpose sanitizer for any user-provided text.
func SanitizeText(text string) string {
	if text == "" {
		return "<empty>"
	}

	if len(text) <= 10 {
		return fmt.Sprintf("<%d chars>", len(text))
	}

	return fmt.Sprintf("%s...<%d chars>", text[:3], len(text))
}
