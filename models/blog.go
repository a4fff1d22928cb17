package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Blog is a public announcement article, managed by master admins
type Blog struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Excerpt    string             `bson:"excerpt" json:"excerpt"`
	Content    string             `bson:"content" json:"content"`
	ImageURL   string             `bson:"image_url" json:"image_url"`
	Category   string             `bson:"category" json:"category"`
	AuthorName string             `bson:"author_name" json:"author_name"`
	ReadTime   string             `bson:"read_time" json:"read_time"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// BlogUpdate carries the fields a blog PUT may change. Nil members are
// left untouched.
type BlogUpdate struct {
	Title      *string
	Excerpt    *string
	Content    *string
	ImageURL   *string
	Category   *string
	AuthorName *string
	ReadTime   *string
}
