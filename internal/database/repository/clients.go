package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ClientRepo handles clients.
type ClientRepo struct {
	db DBTX
}

func NewClientRepo(db DBTX) *ClientRepo { return &ClientRepo{db: db} }

// Ensure returns the id of the client with c.Identification, inserting c when
// no such client exists. An existing row is never modified.
func (r *ClientRepo) Ensure(ctx context.Context, c Client) (int64, bool, error) {
	return lookupOrInsert(ctx, r.db,
		`SELECT id_client FROM clients WHERE identification = ?`, c.Identification,
		`INSERT INTO clients(name_user, identification, address_user, phone_number, email)
		 VALUES(?, ?, ?, ?, ?)
		 ON CONFLICT(identification) DO NOTHING`,
		c.Name, c.Identification, c.Address, c.Phone, c.Email)
}

func (r *ClientRepo) FindByIdentification(ctx context.Context, identification string) (*Client, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id_client, name_user, identification, address_user, phone_number, email
	FROM clients WHERE identification = ?`, identification)
	c, err := scanClient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Update overwrites every attribute of the client with c.ID.
func (r *ClientRepo) Update(ctx context.Context, c Client) (int64, error) {
	return execAffected(ctx, r.db, `
	UPDATE clients SET name_user = ?, identification = ?, address_user = ?, phone_number = ?, email = ?
	WHERE id_client = ?`,
		c.Name, c.Identification, c.Address, c.Phone, c.Email, c.ID)
}

func (r *ClientRepo) Count(ctx context.Context) (int, error) { return count(ctx, r.db, "clients") }

func scanClient(row scanner) (Client, error) {
	var c Client
	var name, address, phone, email sql.NullString
	if err := row.Scan(&c.ID, &name, &c.Identification, &address, &phone, &email); err != nil {
		return Client{}, err
	}
	c.Name = nullString(name)
	c.Address = nullString(address)
	c.Phone = nullString(phone)
	c.Email = nullString(email)
	return c, nil
}
