package directory

import (
	"context"

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
		logger: logger.WithComponent("DirectoryRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

// ListOrganizations returns every organization, name-ordered.
func (p *Pgx) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "name").
		From("organizations").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []domain.Organization
	for rows.Next() {
		var org domain.Organization
		if err := rows.Scan(&org.ID, &org.Name); err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orgs, nil
}

// ListSubcategories returns an organization's subcategories, name-ordered.
func (p *Pgx) ListSubcategories(ctx context.Context, orgID int) ([]domain.Subcategory, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "name", "icon").
		From("subcategories").
		Where(sq.Eq{"org_id": orgID}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.Subcategory
	for rows.Next() {
		var sub domain.Subcategory
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Icon); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subs, nil
}
