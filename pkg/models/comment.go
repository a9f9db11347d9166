package models

import "time"

// Comment is stored in its own collection and referenced from Film.Comments.
type Comment struct {
	ID          string    `json:"_id" bson:"_id"`
	UserName    string    `json:"userName" bson:"userName"`
	Description string    `json:"description" bson:"description"`
	Rating      int       `json:"rating" bson:"rating"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	MovieID     string    `json:"movieId,omitempty" bson:"movieId,omitempty"`
}
