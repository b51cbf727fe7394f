package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"fastcart-api/internal/model"
)

const categoriesCollection = "categories"

type FirestoreCategoryRepository struct {
	client *firestore.Client
	now    func() time.Time
}

func NewFirestoreCategoryRepository(client *firestore.Client) *FirestoreCategoryRepository {
	return &FirestoreCategoryRepository{
		client: client,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *FirestoreCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	docs, err := r.client.Collection(categoriesCollection).OrderBy("createdAt", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list categories failed: %w", err)
	}

	categories := make([]model.Category, 0, len(docs))
	for _, doc := range docs {
		category, err := decodeCategory(doc)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *category)
	}
	return categories, nil
}

func (r *FirestoreCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	if _, err := r.client.Collection(categoriesCollection).Doc(category.ID).Create(ctx, category); err != nil {
		return fmt.Errorf("create category failed: %w", err)
	}
	return nil
}

func (r *FirestoreCategoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	doc, err := r.client.Collection(categoriesCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get category failed: %w", err)
	}
	return decodeCategory(doc)
}

func (r *FirestoreCategoryRepository) Update(ctx context.Context, id string, patch model.CategoryPatch) (*model.Category, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}
	_, err := r.client.Collection(categoriesCollection).Doc(id).Update(ctx, categoryUpdates(patch, r.now()))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("update category failed: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *FirestoreCategoryRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Collection(categoriesCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete category failed: %w", err)
	}
	return nil
}

// categoryUpdates turns a patch into field updates, stamping updatedAt.
func categoryUpdates(patch model.CategoryPatch, now time.Time) []firestore.Update {
	updates := make([]firestore.Update, 0, 4)
	for field, value := range patch.Columns() {
		updates = append(updates, firestore.Update{Path: field, Value: value})
	}
	return append(updates, firestore.Update{Path: "updatedAt", Value: now})
}

func decodeCategory(doc *firestore.DocumentSnapshot) (*model.Category, error) {
	var category model.Category
	if err := doc.DataTo(&category); err != nil {
		return nil, fmt.Errorf("decode category %s failed: %w", doc.Ref.ID, err)
	}
	category.ID = doc.Ref.ID
	return &category, nil
}
