package util

import (
	"strings"

	"github.com/google/uuid"
)

// RandomUsername generates a unique username, e.g., HappyOtter-1b4e28ba
func RandomUsername() string {
	name := strings.ReplaceAll(GetRandomName(), " ", "")
	return name + "-" + uuid.New().String()[0:8]
}
