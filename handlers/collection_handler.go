package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"minicms/services"

	"github.com/gin-gonic/gin"
)

type CollectionHandler struct {
	collectionService *services.CollectionService
}

func NewCollectionHandler(collectionService *services.CollectionService) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
	}
}

type collectionForm struct {
	Title       string
	Description string
}

func (h *CollectionHandler) ListCollections(c *gin.Context) {
	collections, err := h.collectionService.ListCollections(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "collections.html", page(c, gin.H{
		"title":       "Collections",
		"collections": collections,
	}))
}

func (h *CollectionHandler) NewCollectionForm(c *gin.Context) {
	renderCollectionForm(c, http.StatusOK, collectionForm{}, "")
}

func renderCollectionForm(c *gin.Context, status int, form collectionForm, message string) {
	c.HTML(status, "create_collection.html", page(c, gin.H{
		"title": "New collection",
		"form":  form,
		"error": message,
	}))
}

func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	form := collectionForm{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
	}

	collection, err := h.collectionService.CreateCollection(c.Request.Context(), &services.CreateCollectionRequest{
		Title:       form.Title,
		Description: form.Description,
	})
	if errors.Is(err, services.ErrInvalidInput) {
		renderCollectionForm(c, http.StatusBadRequest, form, clientMessage(err, http.StatusBadRequest))
		return
	}
	if err != nil {
		renderError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/collections/"+strconv.FormatUint(uint64(collection.ID), 10))
}

func (h *CollectionHandler) GetCollection(c *gin.Context) {
	collectionID, ok := parseID(c, "id")
	if !ok {
		renderStatus(c, http.StatusBadRequest, "Invalid collection ID")
		return
	}

	collection, err := h.collectionService.GetCollection(c.Request.Context(), collectionID)
	if err != nil {
		renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "collection_detail.html", page(c, gin.H{
		"title":      collection.Title,
		"collection": collection,
	}))
}
