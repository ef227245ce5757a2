package like

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/community-feed-engine/internal/domain"
	"github.com/orgball2608/community-feed-engine/internal/repositories"
	"github.com/orgball2608/community-feed-engine/pkg/logger"

	sq "github.com/Masterminds/squirrel"
)

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("LikeRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

// Status returns the stored like count for an activity and whether the
// given user has liked it.
func (p *Pgx) Status(ctx context.Context, activityID, userID int) (domain.LikeStatus, error) {
	query, args, err := repositories.SqBuilder.
		Select("COUNT(*)").
		Column(sq.Expr("COUNT(*) FILTER (WHERE user_id = ?) > 0", userID)).
		From("activity_likes").
		Where(sq.Eq{"activity_id": activityID}).
		ToSql()
	if err != nil {
		return domain.LikeStatus{}, repositories.ErrBadQuery
	}

	status := domain.LikeStatus{ActivityID: activityID}
	if err := p.pg.QueryRow(ctx, query, args...).Scan(&status.LikeCount, &status.IsLiked); err != nil {
		return domain.LikeStatus{}, err
	}
	return status, nil
}

// Toggle flips the user's like for an activity and returns the resulting
// authoritative status.
func (p *Pgx) Toggle(ctx context.Context, activityID, userID int) (domain.LikeStatus, error) {
	inserted, err := p.insertLike(ctx, activityID, userID)
	if err != nil {
		return domain.LikeStatus{}, err
	}
	if !inserted {
		if err := p.deleteLike(ctx, activityID, userID); err != nil {
			return domain.LikeStatus{}, err
		}
	}
	return p.Status(ctx, activityID, userID)
}

// insertLike reports false when the like already existed.
func (p *Pgx) insertLike(ctx context.Context, activityID, userID int) (bool, error) {
	query, args, err := repositories.SqBuilder.
		Insert("activity_likes").
		Columns("activity_id", "user_id", "created_at").
		Values(activityID, userID, time.Now().UTC()).
		ToSql()
	if err != nil {
		return false, repositories.ErrBadQuery
	}

	_, err = p.pg.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (p *Pgx) deleteLike(ctx context.Context, activityID, userID int) error {
	query, args, err := repositories.SqBuilder.
		Delete("activity_likes").
		Where(sq.Eq{"activity_id": activityID, "user_id": userID}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = p.pg.Exec(ctx, query, args...)
	return err
}
