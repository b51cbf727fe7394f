package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"fastcart-api/internal/app"
	"fastcart-api/internal/model"
	"fastcart-api/internal/transport/http/middleware"
	"fastcart-api/internal/transport/http/response"
)

const sniffLen = 512

// multipartOverhead leaves room for the text fields next to the image.
const multipartOverhead = 1 << 20

type CategoryService interface {
	List(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, input app.CreateCategoryInput) (*model.Category, error)
	Update(ctx context.Context, id string, input app.UpdateCategoryInput) (*model.Category, error)
	Delete(ctx context.Context, id string) error
}

type CategoryHandler struct {
	categoryService CategoryService
	maxBodyBytes    int64
	exposeError     bool
}

// CategoryRequest binds from JSON, urlencoded or multipart bodies. Image is
// only populated for multipart requests. item_count arrives as a form string
// or as a JSON number or string, so it is parsed after binding.
type CategoryRequest struct {
	CategoryName *string               `json:"category_name" form:"category_name"`
	ItemCount    *string               `json:"-" form:"item_count"`
	RawItemCount json.RawMessage       `json:"item_count" form:"-"`
	ImageURL     *string               `json:"image_url" form:"image_url"`
	Image        *multipart.FileHeader `json:"-" form:"image"`
}

// itemCount returns nil when the count is absent or blank.
func (r CategoryRequest) itemCount() (*int, error) {
	raw := r.ItemCount
	if len(r.RawItemCount) > 0 {
		var err error
		if raw, err = jsonCount(r.RawItemCount); err != nil {
			return nil, err
		}
	}
	if raw == nil {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil, nil
	}
	count, err := strconv.Atoi(value)
	if err != nil {
		return nil, app.ErrInvalidItemCount
	}
	return &count, nil
}

func jsonCount(raw json.RawMessage) (*string, error) {
	var value interface{}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&value); err != nil {
		return nil, app.ErrInvalidItemCount
	}
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return &v, nil
	case json.Number:
		s := v.String()
		return &s, nil
	default:
		return nil, app.ErrInvalidItemCount
	}
}

type CreateCategoryResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Category *model.Category `json:"category"`
}

type UpdateCategoryResponse struct {
	Message  string          `json:"message"`
	Category *model.Category `json:"category"`
}

var validationMessages = map[error]string{
	app.ErrImageRequired:        "Either an image file or image URL is required",
	app.ErrInvalidImageURL:      "Invalid image URL format",
	app.ErrCategoryNameRequired: "Category name is required",
	app.ErrInvalidItemCount:     "Item count must be a non-negative integer",
	app.ErrImageTooLarge:        "Image exceeds the upload size limit",
	app.ErrUnsupportedImage:     "Only image uploads are allowed",
}

func NewCategoryHandler(categoryService CategoryService, maxUploadBytes int64, exposeError bool) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		maxBodyBytes:    maxUploadBytes + multipartOverhead,
		exposeError:     exposeError,
	}
}

func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	itemCount, err := req.itemCount()
	if err != nil {
		h.writeError(c, err)
		return
	}
	file, closeFile, err := openMediaFile(req.Image)
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer closeFile()

	userID, _ := middleware.UserID(c)
	category, err := h.categoryService.Create(c.Request.Context(), app.CreateCategoryInput{
		UserID:       userID,
		CategoryName: req.CategoryName,
		ItemCount:    itemCount,
		ImageURL:     req.ImageURL,
		Image:        file,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, CreateCategoryResponse{
		Success:  true,
		Message:  "Category created successfully",
		Category: category,
	})
}

func (h *CategoryHandler) Update(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	itemCount, err := req.itemCount()
	if err != nil {
		h.writeError(c, err)
		return
	}
	file, closeFile, err := openMediaFile(req.Image)
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer closeFile()

	category, err := h.categoryService.Update(c.Request.Context(), c.Param("id"), app.UpdateCategoryInput{
		CategoryName: req.CategoryName,
		ItemCount:    itemCount,
		ImageURL:     req.ImageURL,
		Image:        file,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, UpdateCategoryResponse{
		Message:  "Category updated successfully",
		Category: category,
	})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categoryService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, response.MessageResponse{Message: "Category and image deleted successfully"})
}

func (h *CategoryHandler) bind(c *gin.Context) (CategoryRequest, bool) {
	var req CategoryRequest
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	if err := c.ShouldBind(&req); err != nil {
		if isBodyTooLarge(err) {
			response.Error(c, http.StatusBadRequest, validationMessages[app.ErrImageTooLarge])
			return req, false
		}
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return req, false
	}
	return req, true
}

func (h *CategoryHandler) writeError(c *gin.Context, err error) {
	for sentinel, message := range validationMessages {
		if errors.Is(err, sentinel) {
			response.Error(c, http.StatusBadRequest, message)
			return
		}
	}
	if errors.Is(err, app.ErrCategoryNotFound) {
		response.Error(c, http.StatusNotFound, "Category not found")
		return
	}
	_ = c.Error(err)
	response.Internal(c, err, h.exposeError)
}

// openMediaFile opens an uploaded part and sniffs its content type. The
// returned closer is always safe to call.
func openMediaFile(header *multipart.FileHeader) (*app.MediaFile, func(), error) {
	noop := func() {}
	if header == nil {
		return nil, noop, nil
	}

	f, err := header.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("open uploaded file failed: %w", err)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		_ = f.Close()
		return nil, noop, fmt.Errorf("read uploaded file failed: %w", err)
	}
	head = head[:n]

	return &app.MediaFile{
		Filename:    header.Filename,
		ContentType: http.DetectContentType(head),
		Size:        header.Size,
		Body:        io.MultiReader(bytes.NewReader(head), f),
	}, func() { _ = f.Close() }, nil
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
