package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"verdura/filemgr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeCollection struct {
	count      int64
	lastUpdate interface{}
	updates    int
}

func (f *fakeCollection) CountDocuments(_ context.Context, _ interface{}, _ ...*options.CountOptions) (int64, error) {
	return f.count, nil
}

func (f *fakeCollection) UpdateOne(_ context.Context, _ interface{}, update interface{}, _ ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	f.lastUpdate = update
	f.updates++
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/products/p1/image", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func productTarget(coll *fakeCollection) target {
	return target{
		collection: coll,
		idField:    "productid",
		urlField:   "image_url",
		entity:     filemgr.EntityProduct,
		kind:       filemgr.KindImage,
		notFound:   "Product not found",
	}
}

func TestAttachUnknownIDWritesNothing(t *testing.T) {
	store := filemgr.NewStore(t.TempDir())
	h := &Handler{Store: store}
	coll := &fakeCollection{count: 0}

	rec := httptest.NewRecorder()
	h.attach(rec, uploadRequest(t, "photo.png", pngBytes(t)), "missing", productTarget(coll))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, coll.updates)

	// No file, no directory, nothing.
	entries, err := os.ReadDir(store.BaseDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAttachStoresFileAndWritesURL(t *testing.T) {
	store := filemgr.NewStore(t.TempDir())
	h := &Handler{Store: store}
	coll := &fakeCollection{count: 1}

	rec := httptest.NewRecorder()
	h.attach(rec, uploadRequest(t, "photo.png", pngBytes(t)), "p1", productTarget(coll))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, 1, coll.updates)

	update, ok := coll.lastUpdate.(bson.M)
	require.True(t, ok)
	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	url, ok := set["image_url"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(url, "/static/uploads/product/images/"), "got %q", url)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, url, resp["url"])

	entries, err := os.ReadDir(store.BaseDir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestAttachRejectsBadFileWithoutUpdate(t *testing.T) {
	store := filemgr.NewStore(t.TempDir())
	h := &Handler{Store: store}
	coll := &fakeCollection{count: 1}

	rec := httptest.NewRecorder()
	h.attach(rec, uploadRequest(t, "malware.exe", []byte("MZ...")), "p1", productTarget(coll))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, coll.updates)
}
