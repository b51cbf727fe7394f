package app

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUsernameExists    = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidCredential = errors.New("invalid password")

	ErrCategoryNotFound     = errors.New("category not found")
	ErrImageRequired        = errors.New("either an image file or image URL is required")
	ErrInvalidImageURL      = errors.New("invalid image URL format")
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrInvalidItemCount     = errors.New("item count must be a non-negative integer")
	ErrImageTooLarge        = errors.New("image exceeds the upload size limit")
	ErrUnsupportedImage     = errors.New("uploaded file is not an image")
)
