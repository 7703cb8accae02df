package common

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/bwmarrin/snowflake"
	"golang.org/x/crypto/pbkdf2"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var snowflakeNode *snowflake.Node

func init() {
	var err error
	snowflakeNode, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a new snowflake int64 id.
func UUIDint64() int64 {
	return snowflakeNode.Generate().Int64()
}

// UUID returns a new snowflake id in base36 string form.
func UUID() string {
	return strings.ToLower(snowflakeNode.Generate().Base36())
}

// GetSecretSalt reads the password salt from the environment, falling back
// to a fixed application salt.
func GetSecretSalt() string {
	salt := os.Getenv("VETSTORE_SECRET_SALT")
	if salt == "" {
		salt = "vetstore-e1c3-4f7a-9d2b"
	}
	return salt
}

// Sha256HashWithSalt derives a hex digest from src with the given salt.
// PBKDF2-SHA256 with a fixed iteration count keeps hashes stable across runs.
func Sha256HashWithSalt(src string, salt string) string {
	dk := pbkdf2.Key([]byte(src), []byte(salt), 4096, 32, sha256.New)
	return hex.EncodeToString(dk)
}

// RandomHex returns n random bytes hex encoded.
func RandomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%x", UUIDint64())
	}
	return hex.EncodeToString(buf)
}

// InSlice reports whether v is present in list.
func InSlice(v string, list []string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
