package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"fastcart-api/internal/config"
)

// New creates a Firestore client. Without a credentials file the client
// falls back to application default credentials (or FIRESTORE_EMULATOR_HOST).
func New(ctx context.Context, cfg config.FirestoreConfig) (*firestore.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client failed: %w", err)
	}
	return client, nil
}

// Ping lists the first root collection; an empty database is still healthy.
func Ping(ctx context.Context, client *firestore.Client) error {
	iter := client.Collections(ctx)
	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return err
	}
	return nil
}
