package uploads

import (
	"context"
	"errors"
	"net/http"

	"verdura/db"
	"verdura/filemgr"
	"verdura/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const maxMultipartMemory = 12 << 20

type Handler struct {
	DB    *db.Mongo
	Store *filemgr.Store
}

func NewHandler(m *db.Mongo, store *filemgr.Store) *Handler {
	return &Handler{DB: m, Store: store}
}

// docCollection is the slice of *mongo.Collection the attach flow needs.
type docCollection interface {
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

// target describes which document an upload attaches to and which field
// receives the stored URL.
type target struct {
	collection docCollection
	idField    string
	urlField   string
	entity     filemgr.EntityType
	kind       filemgr.FileKind
	notFound   string
}

// attach is the shared upload flow: confirm the document exists, store the
// file, then write the URL onto the document. Nothing touches disk for an
// unknown ID.
func (h *Handler) attach(w http.ResponseWriter, r *http.Request, id string, t target) {
	count, err := t.collection.CountDocuments(r.Context(), bson.M{t.idField: id})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to verify document")
		return
	}
	if count == 0 {
		utils.RespondWithError(w, http.StatusNotFound, t.notFound)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing file field")
		return
	}

	path, err := h.Store.SaveUpload(file, header, t.entity, t.kind)
	if err != nil {
		switch {
		case errors.Is(err, filemgr.ErrInvalidExtension), errors.Is(err, filemgr.ErrInvalidMIME):
			utils.RespondWithError(w, http.StatusBadRequest, "Unsupported file type")
		case errors.Is(err, filemgr.ErrFileTooLarge):
			utils.RespondWithError(w, http.StatusBadRequest, "File is too large")
		default:
			logrus.WithError(err).Error("failed to store upload")
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store file")
		}
		return
	}

	url := "/static/uploads/" + path
	if _, err := t.collection.UpdateOne(r.Context(),
		bson.M{t.idField: id},
		bson.M{"$set": bson.M{t.urlField: url}},
	); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to attach file")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "File uploaded successfully",
		"url":     url,
	})
}

func (h *Handler) CategoryImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.attach(w, r, ps.ByName("id"), target{
		collection: h.DB.Categories,
		idField:    "categoryid",
		urlField:   "image_url",
		entity:     filemgr.EntityCategory,
		kind:       filemgr.KindImage,
		notFound:   "Category not found",
	})
}

func (h *Handler) ProductImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.attach(w, r, ps.ByName("id"), target{
		collection: h.DB.Products,
		idField:    "productid",
		urlField:   "image_url",
		entity:     filemgr.EntityProduct,
		kind:       filemgr.KindImage,
		notFound:   "Product not found",
	})
}

func (h *Handler) ContentLogo(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.attach(w, r, ps.ByName("id"), target{
		collection: h.DB.Content,
		idField:    "contentid",
		urlField:   "logo_url",
		entity:     filemgr.EntityContent,
		kind:       filemgr.KindLogo,
		notFound:   "Content not found",
	})
}

func (h *Handler) RecipeImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.attach(w, r, ps.ByName("id"), target{
		collection: h.DB.Recipes,
		idField:    "recipeid",
		urlField:   "image_url",
		entity:     filemgr.EntityRecipe,
		kind:       filemgr.KindImage,
		notFound:   "Recipe not found",
	})
}

func (h *Handler) RecipePDF(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.attach(w, r, ps.ByName("id"), target{
		collection: h.DB.Recipes,
		idField:    "recipeid",
		urlField:   "pdf_url",
		entity:     filemgr.EntityRecipe,
		kind:       filemgr.KindDocument,
		notFound:   "Recipe not found",
	})
}
