package utils

import (
	rndm "math/rand"
	"mime/multipart"
	"net/http"
	"os"
	"regexp"
	"strings"
)

// --- Random String and ID Generators ---

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789")

// GenerateID creates a random lowercase alphanumeric string of length n.
func GenerateID(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

// --- Slug ---

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the name and collapses everything non-alphanumeric
// into single dashes.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugCleaner.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// --- Phone ---

var digitsOnly = regexp.MustCompile(`^[0-9]{11}$`)

// ValidPhone reports whether the value is exactly 11 digits, the format
// both courier providers require.
func ValidPhone(phone string) bool {
	return digitsOnly.MatchString(phone)
}

// --- Image Validation ---

var SupportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

func ValidateImageFileType(w http.ResponseWriter, header *multipart.FileHeader) bool {
	mimeType := header.Header.Get("Content-Type")
	if !SupportedImageTypes[mimeType] {
		http.Error(w, "Invalid file type. Supported formats: JPEG, PNG, WebP, GIF.", http.StatusBadRequest)
		return false
	}
	return true
}

// --- Directory Helper ---

func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
