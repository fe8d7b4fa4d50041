package models

import "time"

// Follow is a directed follower → following edge. The composite unique index
// rejects duplicate edges for the same ordered pair; self-follow is rejected
// by the service, not by storage.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"uniqueIndex:idx_follower_following;not null" json:"followerId"`
	FollowingID uint      `gorm:"uniqueIndex:idx_follower_following;not null" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}
