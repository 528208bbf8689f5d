package v1

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/pkg/httputil"
	"github.com/d1s-utils/hole/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Multipart fields of object uploads.
const (
	contentField       = "content"
	groupField         = "group"
	encryptionKeyField = "encryptionKey"
)

// ObjectHandler defines the interface for handling storage object operations
type ObjectHandler interface {
	List(ctx *gin.Context)
	GetByID(ctx *gin.Context)
	Create(ctx *gin.Context)
	Update(ctx *gin.Context)
	ReadRaw(ctx *gin.Context)
	Overwrite(ctx *gin.Context)
	DeleteByID(ctx *gin.Context)
}

type objectHandler struct {
	objectService   objects.ObjectService
	fallBackToHTTPS bool
	logger          logger.Logger
}

// NewObjectHandler creates a new ObjectHandler
func NewObjectHandler(objectService objects.ObjectService, fallBackToHTTPS bool, logger logger.Logger) ObjectHandler {
	return &objectHandler{
		objectService:   objectService,
		fallBackToHTTPS: fallBackToHTTPS,
		logger:          logger,
	}
}

// List handles GET /objects, optionally restricted to ?group=<id or name>
func (h *objectHandler) List(ctx *gin.Context) {
	list, err := h.objectService.List(ctx, ctx.Query("group"))
	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, objects.NewObjectViews(list))
}

// GetByID handles GET /objects/:id
func (h *objectHandler) GetByID(ctx *gin.Context) {
	object, err := h.objectService.GetByID(ctx, ctx.Param("id"))
	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, objects.NewObjectView(object))
}

// Create handles the multipart POST /objects
func (h *objectHandler) Create(ctx *gin.Context) {
	group := ctx.PostForm(groupField)
	if group == "" {
		badRequest(ctx, "group must be present within the request")
		return
	}

	upload, closeUpload, ok := h.readUpload(ctx)
	if !ok {
		return
	}
	defer closeUpload()

	object, err := h.objectService.Create(ctx, upload, group, ctx.PostForm(encryptionKeyField))
	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	ctx.Header("Location", httputil.Location(ctx.Request, h.fallBackToHTTPS, BasePath+"/objects/"+object.ID))
	ctx.JSON(http.StatusCreated, objects.NewObjectView(object))
}

// Update handles PUT /objects/:id
func (h *objectHandler) Update(ctx *gin.Context) {
	var request ObjectUpdateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, fmt.Sprintf("invalid storage object data: %v", err))
		return
	}

	object, err := h.objectService.Update(ctx, ctx.Param("id"), request.ToDomain())
	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, objects.NewObjectView(object))
}

// ReadRaw handles GET /objects/:id/raw and streams the plaintext content
func (h *objectHandler) ReadRaw(ctx *gin.Context) {
	disposition := ctx.DefaultQuery("contentDisposition", httputil.DispositionAttachment)
	if !httputil.ValidDisposition(disposition) {
		badRequest(ctx, fmt.Sprintf("unsupported content disposition %q", disposition))
		return
	}

	err := h.objectService.ReadRaw(ctx, ctx.Param("id"), ctx.Query(encryptionKeyField),
		func(object *objects.StorageObject, content io.Reader) error {
			if object.ContentLength == 0 {
				ctx.Status(http.StatusNoContent)
				ctx.Writer.WriteHeaderNow()
				return nil
			}

			header := ctx.Writer.Header()
			header.Set("Content-Type", object.ContentType)
			header.Set("Content-Length", strconv.FormatInt(object.ContentLength, 10))
			header.Set("Content-Disposition", httputil.ContentDisposition(disposition, object.Name))
			ctx.Status(http.StatusOK)

			_, err := io.Copy(ctx.Writer, content)
			return err
		})
	if err == nil {
		return
	}

	if ctx.Writer.Written() {
		h.logger.Warn("raw read ended early", "id", ctx.Param("id"), "error", err)
		ctx.Abort()
		return
	}
	respondError(ctx, h.logger, err)
}

// Overwrite handles the multipart PUT /objects/:id/raw
func (h *objectHandler) Overwrite(ctx *gin.Context) {
	upload, closeUpload, ok := h.readUpload(ctx)
	if !ok {
		return
	}
	defer closeUpload()

	if _, err := h.objectService.Overwrite(ctx, ctx.Param("id"), upload, ctx.PostForm(encryptionKeyField)); err != nil {
		respondError(ctx, h.logger, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// DeleteByID handles DELETE /objects/:id
func (h *objectHandler) DeleteByID(ctx *gin.Context) {
	if err := h.objectService.DeleteByID(ctx, ctx.Param("id")); err != nil {
		respondError(ctx, h.logger, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (h *objectHandler) readUpload(ctx *gin.Context) (*objects.Upload, func(), bool) {
	fileHeader, err := ctx.FormFile(contentField)
	if err != nil {
		badRequest(ctx, "content must be present within the request")
		return nil, nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(ctx, h.logger, fmt.Errorf("failed to open uploaded content: %w", err))
		return nil, nil, false
	}

	closeFile := func() {
		if err := file.Close(); err != nil {
			h.logger.Warn("failed to close uploaded content", "error", err)
		}
	}

	return &objects.Upload{
		FileName: fileHeader.Filename,
		Size:     fileHeader.Size,
		Content:  file,
	}, closeFile, true
}
