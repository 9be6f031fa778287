package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

type FileConstraints struct {
	AllowedMimeTypes  map[string]string // detected type -> canonical extension
	AllowedExtensions map[string]bool
	MaxSize           int64
}

// AvatarConstraints accepts common web image formats up to 5MB.
var AvatarConstraints = FileConstraints{
	AllowedMimeTypes: map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/gif":  ".gif",
		"image/webp": ".webp",
	},
	AllowedExtensions: map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
	},
	MaxSize: 5 << 20,
}

// ValidateUpload sniffs the first 512 bytes of an upload and returns the
// detected content type. The file is rewound before returning.
func ValidateUpload(file multipart.File, header *multipart.FileHeader, c FileConstraints) (string, error) {
	if header.Size > c.MaxSize {
		return "", fmt.Errorf("File too large: maximum size is %d MB", c.MaxSize/(1<<20))
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !c.AllowedExtensions[ext] {
		return "", fmt.Errorf("Invalid file extension: %s", ext)
	}

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to reset file pointer: %w", err)
	}

	// Magic-number detection, independent of the client's Content-Type
	detected := http.DetectContentType(buffer[:n])
	if _, ok := c.AllowedMimeTypes[detected]; !ok {
		return "", fmt.Errorf("Invalid file type (detected: %s)", detected)
	}

	return detected, nil
}
