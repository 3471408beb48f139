package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"campus-lostfound/internal/model"
)

type ItemRepository struct {
	pool *pgxpool.Pool
}

func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{pool: pool}
}

const itemColumns = `id, campus, category, description, found_time, found_location,
	storage_location, status, image_url, intake_id, created_by, created_at, updated_at`

func scanItem(row pgx.Row) (model.FoundItem, error) {
	var it model.FoundItem
	err := row.Scan(&it.ID, &it.Campus, &it.Category, &it.Description, &it.FoundTime,
		&it.FoundLocation, &it.StorageLocation, &it.Status, &it.ImageURL,
		&it.IntakeID, &it.CreatedBy, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

// CreateFromIntake inserts the item and marks its source intake transferred
// in one transaction. A concurrently transferred intake aborts the insert.
func (r *ItemRepository) CreateFromIntake(ctx context.Context, item model.FoundItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin receive transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE security_intakes SET status = $1 WHERE id = $2 AND status = $3`,
		model.IntakeTransferred, *item.IntakeID, model.IntakeRecorded)
	if err != nil {
		return fmt.Errorf("mark intake transferred: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrIntakeNotFound
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO found_items (`+itemColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		item.ID, item.Campus, item.Category, item.Description, item.FoundTime,
		item.FoundLocation, item.StorageLocation, item.Status, item.ImageURL,
		item.IntakeID, item.CreatedBy, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create found item: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *ItemRepository) FindByID(ctx context.Context, id string) (model.FoundItem, error) {
	item, err := scanItem(r.pool.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM found_items WHERE id = $1`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.FoundItem{}, model.ErrItemNotFound
	}
	if err != nil {
		return model.FoundItem{}, fmt.Errorf("find found item: %w", err)
	}
	return item, nil
}

func (r *ItemRepository) List(ctx context.Context, filter model.FoundItemFilter) ([]model.FoundItem, model.Meta, error) {
	where := make([]string, 0)
	args := make([]any, 0)
	argIdx := 1

	if campus := strings.TrimSpace(filter.Campus); campus != "" {
		where = append(where, fmt.Sprintf("campus = $%d", argIdx))
		args = append(args, campus)
		argIdx++
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		where = append(where, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, category)
		argIdx++
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, status)
		argIdx++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	page, limit := normalizePage(filter.Page, filter.Limit)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM found_items %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, model.Meta{}, fmt.Errorf("count found items: %w", err)
	}

	dataQuery := fmt.Sprintf(
		`SELECT `+itemColumns+` FROM found_items %s
		 ORDER BY created_at DESC
		 LIMIT $%d OFFSET $%d`, whereClause, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("list found items: %w", err)
	}
	defer rows.Close()

	items := make([]model.FoundItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, model.Meta{}, fmt.Errorf("scan found item: %w", err)
		}
		items = append(items, item)
	}

	return items, paginationMeta(page, limit, total), rows.Err()
}

func (r *ItemRepository) Update(ctx context.Context, item model.FoundItem) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE found_items
		 SET category = $2, description = $3, storage_location = $4, status = $5, updated_at = $6
		 WHERE id = $1`,
		item.ID, item.Category, item.Description, item.StorageLocation, item.Status, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update found item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrItemNotFound
	}
	return nil
}

func (r *ItemRepository) SetImageURL(ctx context.Context, id string, imageURL string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE found_items SET image_url = $2, updated_at = now() WHERE id = $1`,
		id, imageURL)
	if err != nil {
		return fmt.Errorf("set item image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrItemNotFound
	}
	return nil
}
