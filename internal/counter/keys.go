package counter

import (
	"fmt"

	"github.com/mnuddindev/pulsefeed/internal/models"
)

// Counter keys, one namespace per counter family.

func LikesKey(t models.Ref) string    { return "likes:" + t.Key() }
func DislikesKey(t models.Ref) string { return "dislikes:" + t.Key() }
func CommentsKey(t models.Ref) string { return "comments:" + t.Key() }

func RepliesKey(commentID uint) string {
	return fmt.Sprintf("replies:comment:%d", commentID)
}

func FollowersKey(t models.Ref) string { return "followers:" + t.Key() }

func FollowingsKey(followerID uint) string {
	return fmt.Sprintf("followings:user:%d", followerID)
}

// Per-user boolean flags, stored as 0/1 counters.

func LikedKey(userID uint, t models.Ref) string {
	return fmt.Sprintf("liked:%d:%s", userID, t.Key())
}

func DislikedKey(userID uint, t models.Ref) string {
	return fmt.Sprintf("disliked:%d:%s", userID, t.Key())
}

func SavedKey(userID uint, t models.Ref) string {
	return fmt.Sprintf("saved:%d:%s", userID, t.Key())
}

func FollowedKey(userID uint, t models.Ref) string {
	return fmt.Sprintf("followed:%d:%s", userID, t.Key())
}

func CommentedKey(userID uint, t models.Ref) string {
	return fmt.Sprintf("commented:%d:%s", userID, t.Key())
}

// TargetKeys lists the aggregate counter keys scoped to a target, for
// Forget on a material edit. Entity deletion goes through ForgetScope
// instead, which also takes the per-user flags.
func TargetKeys(t models.Ref) []string {
	return []string{
		LikesKey(t),
		DislikesKey(t),
		CommentsKey(t),
		FollowersKey(t),
	}
}
