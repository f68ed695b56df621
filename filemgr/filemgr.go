package filemgr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"verdura/utils"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

type EntityType string
type FileKind string

const (
	EntityCategory EntityType = "category"
	EntityProduct  EntityType = "product"
	EntityContent  EntityType = "content"
	EntityRecipe   EntityType = "recipe"

	KindImage    FileKind = "image"
	KindLogo     FileKind = "logo"
	KindThumb    FileKind = "thumb"
	KindDocument FileKind = "document"
)

var (
	allowedExtensions = map[FileKind][]string{
		KindImage:    {".jpg", ".jpeg", ".png", ".gif", ".webp"},
		KindLogo:     {".jpg", ".jpeg", ".png"},
		KindThumb:    {".jpg"},
		KindDocument: {".pdf"},
	}

	allowedMIMEs = map[FileKind][]string{
		KindImage:    {"image/jpeg", "image/png", "image/gif", "image/webp"},
		KindLogo:     {"image/jpeg", "image/png"},
		KindThumb:    {"image/jpeg"},
		KindDocument: {"application/pdf"},
	}

	subfolders = map[FileKind]string{
		KindImage:    "images",
		KindLogo:     "logos",
		KindThumb:    "thumbs",
		KindDocument: "docs",
	}

	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidMIME      = errors.New("invalid MIME type")
	ErrFileTooLarge     = errors.New("file size exceeds limit")
)

const maxUploadSize = 10 << 20 // 10 MB

// Store writes uploads below a base directory (static/uploads by default) and
// returns paths relative to it, which is what gets persisted on documents.
type Store struct {
	BaseDir string
}

func NewStore(baseDir string) *Store {
	if baseDir == "" {
		baseDir = filepath.Join("static", "uploads")
	}
	return &Store{BaseDir: baseDir}
}

func (s *Store) dir(entity EntityType, kind FileKind) string {
	sub, ok := subfolders[kind]
	if !ok {
		sub = "misc"
	}
	return filepath.Join(s.BaseDir, string(entity), sub)
}

// SaveUpload validates and stores one multipart file for an entity. Image
// kinds additionally get a 200px-wide thumbnail. The returned path is
// relative to the base dir.
func (s *Store) SaveUpload(file multipart.File, header *multipart.FileHeader, entity EntityType, kind FileKind) (string, error) {
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !extAllowed(ext, kind) {
		return "", fmt.Errorf("%w: %s for %s", ErrInvalidExtension, ext, kind)
	}

	buf, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(buf) > maxUploadSize {
		return "", ErrFileTooLarge
	}

	mimeType := http.DetectContentType(buf[:min(len(buf), 512)])
	if mimeType == "application/octet-stream" {
		if formMime := header.Header.Get("Content-Type"); formMime != "" {
			mimeType = formMime
		}
	}
	if !mimeAllowed(mimeType, kind) {
		return "", fmt.Errorf("%w: %s for %s", ErrInvalidMIME, mimeType, kind)
	}

	destDir := s.dir(entity, kind)
	if err := utils.EnsureDir(destDir); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", destDir, err)
	}

	// Prefix with a uuid so repeated uploads of the same file never collide.
	filename := uuid.New().String() + "_" + utils.SanitizeFilename(header.Filename)
	fullPath := filepath.Join(destDir, filename)
	if err := os.WriteFile(fullPath, buf, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", fullPath, err)
	}

	if kind == KindImage || kind == KindLogo {
		if img, _, err := image.Decode(bytes.NewReader(buf)); err == nil {
			_ = s.writeThumbnail(img, entity, filename)
		}
	}

	rel, err := filepath.Rel(s.BaseDir, fullPath)
	if err != nil {
		return filename, nil
	}
	return filepath.ToSlash(rel), nil
}

func (s *Store) writeThumbnail(img image.Image, entity EntityType, baseFilename string) error {
	resized := imaging.Resize(img, 200, 0, imaging.Lanczos) // keep aspect ratio
	name := strings.TrimSuffix(baseFilename, filepath.Ext(baseFilename)) + ".jpg"
	dir := s.dir(entity, KindThumb)

	if err := utils.EnsureDir(dir); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	out, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("create thumbnail: %w", err)
	}
	defer out.Close()

	return jpeg.Encode(out, resized, &jpeg.Options{Quality: 85})
}

func extAllowed(ext string, kind FileKind) bool {
	for _, a := range allowedExtensions[kind] {
		if ext == a {
			return true
		}
	}
	return false
}

func mimeAllowed(mimeType string, kind FileKind) bool {
	for _, a := range allowedMIMEs[kind] {
		if mimeType == a {
			return true
		}
	}
	return false
}
