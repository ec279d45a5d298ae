package repository

import (
	"context"
	"database/sql"
	"errors"
)

// PlatformRepo handles platforms.
type PlatformRepo struct {
	db DBTX
}

func NewPlatformRepo(db DBTX) *PlatformRepo { return &PlatformRepo{db: db} }

// Ensure returns the id of the platform called name, inserting it when absent.
// A nil name always inserts a new row.
func (r *PlatformRepo) Ensure(ctx context.Context, name *string) (int64, bool, error) {
	if name == nil {
		id, err := insertID(ctx, r.db, `INSERT INTO platforms(platform_name) VALUES(NULL)`)
		return id, err == nil, err
	}
	return lookupOrInsert(ctx, r.db,
		`SELECT id_platform FROM platforms WHERE platform_name = ?`, *name,
		`INSERT INTO platforms(platform_name) VALUES(?) ON CONFLICT(platform_name) DO NOTHING`,
		*name)
}

func (r *PlatformRepo) FindByName(ctx context.Context, name string) (*Platform, error) {
	var p Platform
	var n sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT id_platform, platform_name FROM platforms WHERE platform_name = ?`, name).Scan(&p.ID, &n)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	p.Name = nullString(n)
	return &p, nil
}

func (r *PlatformRepo) Update(ctx context.Context, p Platform) (int64, error) {
	return execAffected(ctx, r.db, `UPDATE platforms SET platform_name = ? WHERE id_platform = ?`, p.Name, p.ID)
}

func (r *PlatformRepo) Count(ctx context.Context) (int, error) { return count(ctx, r.db, "platforms") }
