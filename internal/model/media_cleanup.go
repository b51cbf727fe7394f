package model

// MediaCleanupJob asks the cleanup worker to remove a hosted image that no
// category references any more.
type MediaCleanupJob struct {
	PublicID   string `json:"public_id"`
	CategoryID string `json:"category_id"`
}
