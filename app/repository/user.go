package repository

import (
	"context"

	"github.com/vibast-solutions/ms-go-donations/app/entity"
)

type UserRepository struct {
	*CRUDRepository[entity.User]
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{CRUDRepository: newCRUDRepository(db, table[entity.User]{
		name:    "users",
		columns: []string{"name", "email", "phone", "password_hash", "role", "created_at", "updated_at"},
		orderBy: "id DESC",
		beforeDelete: []string{
			"UPDATE donations SET user_id = NULL WHERE user_id = ?",
		},
		id:    func(u *entity.User) uint64 { return u.ID },
		setID: func(u *entity.User, id uint64) { u.ID = id },
		values: func(u *entity.User) ([]interface{}, error) {
			return []interface{}{u.Name, u.Email, u.Phone, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt}, nil
		},
		scan: func(scan rowScanner, u *entity.User) error {
			return scan.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
		},
	})}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := "SELECT " + r.table.selectColumns() + " FROM users WHERE email = ? LIMIT 1"
	return r.findOne(ctx, query, email)
}
