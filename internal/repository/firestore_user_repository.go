package repository

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"fastcart-api/internal/model"
)

const usersCollection = "users"

type FirestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) *FirestoreUserRepository {
	return &FirestoreUserRepository{client: client}
}

// Create checks username uniqueness and writes the document in one
// transaction; Firestore has no unique indexes.
func (r *FirestoreUserRepository) Create(ctx context.Context, user *model.User) error {
	users := r.client.Collection(usersCollection)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs, err := tx.Documents(users.Where("username", "==", user.Username).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(docs) > 0 {
			return ErrDuplicateKey
		}
		return tx.Create(users.Doc(user.ID), user)
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateKey) || status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("create user failed: %w", ErrDuplicateKey)
		}
		return fmt.Errorf("create user failed: %w", err)
	}
	return nil
}

func (r *FirestoreUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	iter := r.client.Collection(usersCollection).Where("username", "==", username).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user by username failed: %w", err)
	}
	return decodeUser(doc)
}

func decodeUser(doc *firestore.DocumentSnapshot) (*model.User, error) {
	var user model.User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("decode user %s failed: %w", doc.Ref.ID, err)
	}
	user.ID = doc.Ref.ID
	return &user, nil
}
