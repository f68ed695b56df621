package filemgr

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFile(t *testing.T, filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	file, header, err := req.FormFile("file")
	require.NoError(t, err)
	return file, header
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSaveUploadImage(t *testing.T) {
	store := NewStore(t.TempDir())

	file, header := multipartFile(t, "photo.png", pngBytes(t))
	rel, err := store.SaveUpload(file, header, EntityProduct, KindImage)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rel, "product/images/"), "got %q", rel)
	// uuid prefix plus the sanitized original name
	assert.True(t, strings.HasSuffix(rel, "_photo.png"), "got %q", rel)

	_, err = os.Stat(filepath.Join(store.BaseDir, filepath.FromSlash(rel)))
	assert.NoError(t, err, "stored file must exist")

	// A decodable image also produces a thumbnail.
	thumbs, err := os.ReadDir(filepath.Join(store.BaseDir, "product", "thumbs"))
	require.NoError(t, err)
	assert.Len(t, thumbs, 1)
	assert.True(t, strings.HasSuffix(thumbs[0].Name(), ".jpg"))
}

func TestSaveUploadRejectsExtension(t *testing.T) {
	store := NewStore(t.TempDir())

	file, header := multipartFile(t, "malware.exe", []byte("MZ..."))
	_, err := store.SaveUpload(file, header, EntityProduct, KindImage)
	assert.ErrorIs(t, err, ErrInvalidExtension)

	// Nothing should have been written.
	entries, readErr := os.ReadDir(store.BaseDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestSaveUploadRejectsMismatchedContent(t *testing.T) {
	store := NewStore(t.TempDir())

	// .png name but HTML content
	file, header := multipartFile(t, "sneaky.png", []byte("<html><body>hi</body></html>"))
	_, err := store.SaveUpload(file, header, EntityCategory, KindImage)
	assert.ErrorIs(t, err, ErrInvalidMIME)
}

func TestSaveUploadDocument(t *testing.T) {
	store := NewStore(t.TempDir())

	file, header := multipartFile(t, "recipe.pdf", []byte("%PDF-1.4\n%fake"))
	rel, err := store.SaveUpload(file, header, EntityRecipe, KindDocument)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "recipe/docs/"), "got %q", rel)
	assert.True(t, strings.HasSuffix(rel, ".pdf"))
}
