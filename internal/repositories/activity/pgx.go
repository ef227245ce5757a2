package activity

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
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
		logger: logger.WithComponent("ActivityRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

// recordColumns are the columns every ActivityRecord scan expects, in
// scanRecord order.
var recordColumns = []string{
	"a.id", "a.title", "a.subtitle", "a.category", "a.created_at",
	"a.youtube_url", "a.single_media_url", "a.multi_media_urls",
	"u.id", "u.first_name", "u.last_name", "u.avatar_url", "u.role", "u.status",
	"o.id", "o.name",
	"COALESCE(a.subcategory_id, 0)", "COALESCE(s.name, '')",
	"(SELECT COUNT(*) FROM activity_likes l WHERE l.activity_id = a.id)",
}

func recordQuery() sq.SelectBuilder {
	return repositories.SqBuilder.
		Select(recordColumns...).
		From("activities a").
		Join("users u ON u.id = a.author_id").
		Join("organizations o ON o.id = a.org_id").
		LeftJoin("subcategories s ON s.id = a.subcategory_id")
}

func scanRecord(row pgx.Row) (domain.ActivityRecord, error) {
	var rec domain.ActivityRecord
	var createdAt time.Time
	err := row.Scan(
		&rec.ID, &rec.Title, &rec.Subtitle, &rec.Category, &createdAt,
		&rec.YouTubeURL, &rec.SingleMediaURL, &rec.MultiMediaURLs,
		&rec.Author.ID, &rec.Author.FirstName, &rec.Author.LastName,
		&rec.Author.AvatarURL, &rec.Author.Role, &rec.Author.Status,
		&rec.OrgID, &rec.OrgName,
		&rec.SubcategoryID, &rec.SubcategoryName,
		&rec.Likes,
	)
	if err != nil {
		return domain.ActivityRecord{}, err
	}
	rec.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	return rec, nil
}

// ListByFilter returns one newest-first page for an organization,
// optionally narrowed to a subcategory (0 means no filter).
func (p *Pgx) ListByFilter(ctx context.Context, orgID, subcategoryID, page, pageSize int) (Page, error) {
	filter := sq.And{sq.Eq{"a.org_id": orgID}}
	if subcategoryID != 0 {
		filter = append(filter, sq.Eq{"a.subcategory_id": subcategoryID})
	}

	countQuery, countArgs, err := repositories.SqBuilder.
		Select("COUNT(*)").
		From("activities a").
		Where(filter).
		ToSql()
	if err != nil {
		return Page{}, repositories.ErrBadQuery
	}

	var total int
	if err := p.pg.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return Page{}, err
	}

	query, args, err := recordQuery().
		Where(filter).
		OrderBy("a.created_at DESC", "a.id DESC").
		Limit(uint64(pageSize)).
		Offset(uint64((page - 1) * pageSize)).
		ToSql()
	if err != nil {
		return Page{}, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return Page{}, err
	}
	defer rows.Close()

	var records []domain.ActivityRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return Page{}, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return Page{}, err
	}

	return Page{
		Records:   records,
		PageCount: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// GetByID returns a single activity with its author and directory names.
func (p *Pgx) GetByID(ctx context.Context, id int) (domain.ActivityRecord, error) {
	query, args, err := recordQuery().
		Where(sq.Eq{"a.id": id}).
		ToSql()
	if err != nil {
		return domain.ActivityRecord{}, repositories.ErrBadQuery
	}

	rec, err := scanRecord(p.pg.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ActivityRecord{}, ErrNotFound
		}
		return domain.ActivityRecord{}, err
	}
	return rec, nil
}

// Create inserts a composed activity and returns the stored record.
func (p *Pgx) Create(ctx context.Context, authorID int, draft domain.ActivityDraft) (domain.ActivityRecord, error) {
	var subcategoryID any
	if draft.SubcategoryID != 0 {
		subcategoryID = draft.SubcategoryID
	}

	query, args, err := repositories.SqBuilder.
		Insert("activities").
		Columns(
			"title", "subtitle", "category", "author_id", "org_id",
			"subcategory_id", "youtube_url", "single_media_url",
			"multi_media_urls", "created_at",
		).
		Values(
			draft.Title, draft.Subtitle, draft.Category, authorID, draft.OrgID,
			subcategoryID, draft.YouTubeURL, draft.SingleMediaURL,
			draft.MultiMediaURLs, time.Now().UTC(),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return domain.ActivityRecord{}, repositories.ErrBadQuery
	}

	var id int
	if err := p.pg.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return domain.ActivityRecord{}, err
	}

	return p.GetByID(ctx, id)
}
