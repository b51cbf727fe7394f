package model

import "time"

type User struct {
	ID           string    `gorm:"primaryKey;size:36" firestore:"-" json:"id"`
	Name         string    `gorm:"size:128;not null" firestore:"name" json:"name"`
	Username     string    `gorm:"size:64;not null;uniqueIndex" firestore:"username" json:"username"`
	PasswordHash string    `gorm:"column:password;size:255;not null" firestore:"password" json:"-"`
	CreatedAt    time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt" json:"updatedAt"`
}
