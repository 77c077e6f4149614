package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pulse/internal/cache"
	"pulse/internal/models"

	"gorm.io/gorm"
)

// EngagementRepository owns the like/save/share membership sets and their
// denormalized counters on posts.
//
// Every mutation is a single data-modifying CTE statement: the membership row
// insert/delete and the counter delta commit together or not at all. The
// counter delta is derived from the rows the CTE actually touched, so two
// concurrent toggles from different users can never double-apply or lose a
// delta, and ON CONFLICT / no-op deletes contribute a delta of zero. Reading
// the set and writing a recomputed counter as a second operation is exactly
// the drift bug this layout exists to rule out.
type EngagementRepository interface {
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	IsSaved(ctx context.Context, userID, postID uint) (bool, error)
	AddLike(ctx context.Context, userID, postID uint) (count int, applied bool, err error)
	RemoveLike(ctx context.Context, userID, postID uint) (count int, applied bool, err error)
	AddSave(ctx context.Context, userID, postID uint) (count int, applied bool, err error)
	RemoveSave(ctx context.Context, userID, postID uint) (count int, applied bool, err error)
	AddShare(ctx context.Context, userID, postID uint) (count int, applied bool, err error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return r.isMember(ctx, &models.Like{}, userID, postID)
}

func (r *engagementRepository) IsSaved(ctx context.Context, userID, postID uint) (bool, error) {
	return r.isMember(ctx, &models.Save{}, userID, postID)
}

func (r *engagementRepository) isMember(ctx context.Context, model any, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(model).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *engagementRepository) AddLike(ctx context.Context, userID, postID uint) (int, bool, error) {
	return r.addMembership(ctx, "likes", "like_count", userID, postID)
}

func (r *engagementRepository) RemoveLike(ctx context.Context, userID, postID uint) (int, bool, error) {
	return r.removeMembership(ctx, "likes", "like_count", userID, postID)
}

func (r *engagementRepository) AddSave(ctx context.Context, userID, postID uint) (int, bool, error) {
	return r.addMembership(ctx, "saves", "save_count", userID, postID)
}

func (r *engagementRepository) RemoveSave(ctx context.Context, userID, postID uint) (int, bool, error) {
	return r.removeMembership(ctx, "saves", "save_count", userID, postID)
}

func (r *engagementRepository) AddShare(ctx context.Context, userID, postID uint) (int, bool, error) {
	// Shares reuse the add path; there is no remove, which makes RecordShare
	// idempotent by construction.
	return r.addMembership(ctx, "shares", "share_count", userID, postID)
}

// addMembership inserts the membership row and bumps the counter in one
// statement. ON CONFLICT DO NOTHING makes the insert race-safe; the counter
// moves by the number of rows actually inserted (0 or 1).
func (r *engagementRepository) addMembership(ctx context.Context, table, counter string, userID, postID uint) (int, bool, error) {
	stmt := fmt.Sprintf(`
		WITH added AS (
			INSERT INTO %[1]s (user_id, post_id, created_at)
			VALUES (?, ?, NOW())
			ON CONFLICT (user_id, post_id) DO NOTHING
			RETURNING 1
		)
		UPDATE posts
		SET %[2]s = %[2]s + (SELECT COUNT(*) FROM added)
		WHERE id = ?
		RETURNING %[2]s, (SELECT COUNT(*) FROM added) > 0`, table, counter)

	return r.execMembership(ctx, stmt, userID, postID)
}

// removeMembership deletes the membership row and drops the counter in one
// statement; a delete that matched no row moves the counter by zero.
func (r *engagementRepository) removeMembership(ctx context.Context, table, counter string, userID, postID uint) (int, bool, error) {
	stmt := fmt.Sprintf(`
		WITH removed AS (
			DELETE FROM %[1]s
			WHERE user_id = ? AND post_id = ?
			RETURNING 1
		)
		UPDATE posts
		SET %[2]s = %[2]s - (SELECT COUNT(*) FROM removed)
		WHERE id = ?
		RETURNING %[2]s, (SELECT COUNT(*) FROM removed) > 0`, table, counter)

	return r.execMembership(ctx, stmt, userID, postID)
}

func (r *engagementRepository) execMembership(ctx context.Context, stmt string, userID, postID uint) (int, bool, error) {
	var count int
	var applied bool

	row := r.db.WithContext(ctx).Raw(stmt, userID, postID, postID).Row()
	if err := row.Scan(&count, &applied); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The UPDATE matched no post row.
			return 0, false, gorm.ErrRecordNotFound
		}
		return 0, false, err
	}

	cache.InvalidatePost(ctx, postID)
	cache.InvalidatePostsList(ctx)
	return count, applied, nil
}
