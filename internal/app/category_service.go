package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"fastcart-api/internal/model"
)

// CategoryStore is implemented by the gorm and firestore category
// repositories. GetByID and Update return (nil, nil) for unknown ids.
type CategoryStore interface {
	List(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id string) (*model.Category, error)
	Update(ctx context.Context, id string, patch model.CategoryPatch) (*model.Category, error)
	Delete(ctx context.Context, id string) error
}

// MediaFile is an uploaded image on its way to the media host.
type MediaFile struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// MediaStore is a remote image host.
type MediaStore interface {
	Upload(ctx context.Context, file MediaFile) (string, error)
	// PublicID derives the host identifier from a stored URL. ok is false
	// for URLs the host does not own.
	PublicID(imageURL string) (id string, ok bool)
	Delete(ctx context.Context, publicID string) error
}

type CategoryCache interface {
	GetList(ctx context.Context) ([]model.Category, bool, error)
	SetList(ctx context.Context, categories []model.Category) error
	Invalidate(ctx context.Context) error
}

type MediaCleanupPublisher interface {
	Publish(ctx context.Context, job model.MediaCleanupJob) error
}

type CategoryServiceConfig struct {
	MaxUploadBytes int64
	MediaTimeout   time.Duration
}

type CategoryService struct {
	categoryRepo CategoryStore
	media        MediaStore
	cache        CategoryCache
	cleanup      MediaCleanupPublisher
	logger       *slog.Logger

	maxUploadBytes int64
	mediaTimeout   time.Duration
}

type CreateCategoryInput struct {
	UserID       string
	CategoryName *string
	ItemCount    *int
	ImageURL     *string
	Image        *MediaFile
}

type UpdateCategoryInput struct {
	CategoryName *string
	ItemCount    *int
	ImageURL     *string
	Image        *MediaFile
}

// NewCategoryService wires the category use cases. cache and cleanup are
// optional and may be nil.
func NewCategoryService(
	categoryRepo CategoryStore,
	media MediaStore,
	cache CategoryCache,
	cleanup MediaCleanupPublisher,
	logger *slog.Logger,
	cfg CategoryServiceConfig,
) *CategoryService {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 5 << 20
	}
	if cfg.MediaTimeout <= 0 {
		cfg.MediaTimeout = 30 * time.Second
	}
	return &CategoryService{
		categoryRepo:   categoryRepo,
		media:          media,
		cache:          cache,
		cleanup:        cleanup,
		logger:         logger,
		maxUploadBytes: cfg.MaxUploadBytes,
		mediaTimeout:   cfg.MediaTimeout,
	}
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	if s.cache != nil {
		cached, hit, err := s.cache.GetList(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "category cache read failed", "error", err)
		} else if hit {
			return cached, nil
		}
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []model.Category{}
	}

	if s.cache != nil {
		if err := s.cache.SetList(ctx, categories); err != nil {
			s.logger.WarnContext(ctx, "category cache write failed", "error", err)
		}
	}
	return categories, nil
}

func (s *CategoryService) Create(ctx context.Context, input CreateCategoryInput) (*model.Category, error) {
	imageURL := trimmed(input.ImageURL)
	if input.Image == nil && imageURL == "" {
		return nil, ErrImageRequired
	}
	if input.Image == nil && !validImageURL(imageURL) {
		return nil, ErrInvalidImageURL
	}

	name := trimmed(input.CategoryName)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}
	itemCount := 0
	if input.ItemCount != nil {
		if *input.ItemCount < 0 {
			return nil, ErrInvalidItemCount
		}
		itemCount = *input.ItemCount
	}

	if input.Image != nil {
		hosted, err := s.upload(ctx, *input.Image)
		if err != nil {
			return nil, err
		}
		imageURL = hosted
	}

	now := time.Now().UTC()
	category := &model.Category{
		ID:           uuid.NewString(),
		ImageURL:     imageURL,
		CategoryName: name,
		ItemCount:    itemCount,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if userID := strings.TrimSpace(input.UserID); userID != "" {
		category.UserID = &userID
	}

	// The upload above is not rolled back if this write fails.
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, input UpdateCategoryInput) (*model.Category, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrCategoryNotFound
	}

	var patch model.CategoryPatch
	if name := trimmed(input.CategoryName); name != "" {
		patch.CategoryName = &name
	}
	if input.ItemCount != nil {
		if *input.ItemCount < 0 {
			return nil, ErrInvalidItemCount
		}
		count := *input.ItemCount
		patch.ItemCount = &count
	}
	if input.Image == nil {
		if imageURL := trimmed(input.ImageURL); imageURL != "" {
			if !validImageURL(imageURL) {
				return nil, ErrInvalidImageURL
			}
			patch.ImageURL = &imageURL
		}
	}

	existing, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrCategoryNotFound
	}

	if input.Image != nil {
		hosted, err := s.upload(ctx, *input.Image)
		if err != nil {
			return nil, err
		}
		patch.ImageURL = &hosted
	}

	if patch.IsEmpty() {
		return existing, nil
	}

	updated, err := s.categoryRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrCategoryNotFound
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrCategoryNotFound
	}

	existing, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCategoryNotFound
	}

	if publicID, ok := s.media.PublicID(existing.ImageURL); ok {
		s.removeMedia(ctx, id, publicID)
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CategoryService) upload(ctx context.Context, file MediaFile) (string, error) {
	if file.Size > s.maxUploadBytes {
		return "", ErrImageTooLarge
	}
	if !strings.HasPrefix(file.ContentType, "image/") {
		return "", ErrUnsupportedImage
	}

	uploadCtx, cancel := context.WithTimeout(ctx, s.mediaTimeout)
	defer cancel()

	hosted, err := s.media.Upload(uploadCtx, file)
	if err != nil {
		return "", fmt.Errorf("upload image failed: %w", err)
	}
	return hosted, nil
}

// removeMedia deletes a hosted image best-effort. Failures are logged and
// never block the record deletion.
func (s *CategoryService) removeMedia(ctx context.Context, categoryID, publicID string) {
	if s.cleanup != nil {
		err := s.cleanup.Publish(ctx, model.MediaCleanupJob{PublicID: publicID, CategoryID: categoryID})
		if err == nil {
			return
		}
		s.logger.WarnContext(ctx, "enqueue media cleanup failed, deleting inline",
			"category_id", categoryID, "public_id", publicID, "error", err)
	}

	deleteCtx, cancel := context.WithTimeout(ctx, s.mediaTimeout)
	defer cancel()
	if err := s.media.Delete(deleteCtx, publicID); err != nil {
		s.logger.ErrorContext(ctx, "media deletion failed",
			"category_id", categoryID, "public_id", publicID, "error", err)
		return
	}
	s.logger.InfoContext(ctx, "deleted media", "category_id", categoryID, "public_id", publicID)
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "category cache invalidation failed", "error", err)
	}
}

func trimmed(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

func validImageURL(raw string) bool {
	return strings.HasPrefix(raw, "http")
}
