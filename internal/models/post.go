package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Author is the user info joined into a post at read time.
type Author struct {
	Name           string `json:"name"`
	ProfilePicture string `json:"profilePicture"`
}

// Post is a single post stored in MongoDB. Username is a denormalized copy of
// the author's name at creation time and does not track later renames. Likes
// and Saves hold user IDs; membership is toggled, never duplicated.
type Post struct {
	ID        primitive.ObjectID `json:"id"        bson:"_id,omitempty"`
	UserID    string             `json:"userId"    bson:"user_id"`
	Username  string             `json:"username"  bson:"username"`
	Text      string             `json:"text"      bson:"text"`
	Image     string             `json:"image"     bson:"image"`
	Likes     []string           `json:"likes"     bson:"likes"`
	Saves     []string           `json:"saves"     bson:"saves"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`

	Author *Author `json:"author,omitempty" bson:"-"`
}

// ToggleRequest is the JSON body for the like and save endpoints.
type ToggleRequest struct {
	UserID string `json:"userId"`
}
