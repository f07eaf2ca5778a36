// utils/file_utils.go
package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	// Base directory for storing uploaded files
	uploadBaseDir = "uploads"
	// Base URL for serving files
	baseURL = "/uploads"
	// Maximum file size (5MB)
	maxFileSize = 5 * 1024 * 1024
	// Uploaded images wider than this are downscaled before saving
	maxImageWidth = 1280
)

// Allowed image extensions
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".svg":  true,
}

var filenameReg = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// cleanFilename removes any potentially dangerous characters from the filename
func cleanFilename(filename string) string {
	filename = filepath.Base(filename)
	return filenameReg.ReplaceAllString(filename, "")
}

// ValidateImageFile checks extension and size of an uploaded image.
func ValidateImageFile(file *multipart.FileHeader) error {
	if file.Size > maxFileSize {
		return fmt.Errorf("file too large. Maximum size is %d bytes", maxFileSize)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return fmt.Errorf("unsupported image format. Allowed formats: jpg, jpeg, png, gif, svg")
	}
	return nil
}

// InitializeStorage creates necessary directories for file storage
func InitializeStorage() error {
	dirs := []string{
		uploadBaseDir,
		filepath.Join(uploadBaseDir, "promotions"),
		filepath.Join(uploadBaseDir, "testimonials"),
		filepath.Join(uploadBaseDir, "profiles"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}

	return nil
}

// SaveImage stores an uploaded image under uploads/<subDir> and returns its
// serving URL. JPEG and PNG uploads are downscaled to maxImageWidth; other
// formats are written as received.
func SaveImage(file *multipart.FileHeader, subDir string) (string, error) {
	if err := ValidateImageFile(file); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %v", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(cleanFilename(file.Filename)))
	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	fullPath := filepath.Join(uploadBaseDir, subDir, filename)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %v", filepath.Dir(fullPath), err)
	}

	switch ext {
	case ".jpg", ".jpeg", ".png":
		img, err := imaging.Decode(src)
		if err != nil {
			return "", fmt.Errorf("failed to decode image: %v", err)
		}
		if img.Bounds().Dx() > maxImageWidth {
			img = imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
		}
		if err := imaging.Save(img, fullPath); err != nil {
			return "", fmt.Errorf("failed to save image: %v", err)
		}
	default:
		// gif/svg pass through untouched
		dst, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return "", fmt.Errorf("failed to write file: %v", err)
		}
		defer dst.Close()
		if _, err := io.Copy(dst, src); err != nil {
			return "", fmt.Errorf("failed to write file: %v", err)
		}
	}

	return fmt.Sprintf("%s/%s/%s", baseURL, subDir, filename), nil
}

// RemoveUpload deletes a previously saved upload by its serving URL. Missing
// files are ignored.
func RemoveUpload(url string) {
	if !strings.HasPrefix(url, baseURL+"/") {
		return
	}
	rel := strings.TrimPrefix(url, baseURL+"/")
	os.Remove(filepath.Join(uploadBaseDir, rel))
}
