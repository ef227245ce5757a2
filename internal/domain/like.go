package domain

// LikeStatus is the server's authoritative like state for one activity,
// scoped to the current user.
type LikeStatus struct {
	ActivityID int  `json:"activityId"`
	LikeCount  int  `json:"likeCount"`
	IsLiked    bool `json:"isLiked"`
}

// LikeUpdate is the broadcast payload published on the
// "activity-like-update" event when any user toggles a like.
type LikeUpdate struct {
	ActivityID int  `json:"activityId"`
	LikeCount  int  `json:"likeCount"`
	IsLiked    bool `json:"isLiked"`
	UserID     int  `json:"userId"`
}
