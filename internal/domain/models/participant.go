// internal/domain/models/participant.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Participant is one vendor's committed allocation inside a group order.
// Quantity is fixed when the vendor joins; there are no partial edits.
type Participant struct {
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	Quantity int                `bson:"quantity" json:"quantity"`
	JoinedAt time.Time          `bson:"joined_at" json:"joined_at"`
}
