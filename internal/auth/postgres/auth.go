package postgres

import (
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"github.com/nxthub/influencer-ops/internal/auth"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentials(email string) (string, string, error) {
	var passwordHash string
	var userID string
	query := `SELECT id, password_hash FROM users WHERE LOWER(email) = LOWER(?)`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&userID, &passwordHash); err != nil {
		if err == sql.ErrNoRows {
			return "", "", fmt.Errorf("user not found")
		}
		return "", "", err
	}
	return passwordHash, userID, nil
}

// GetActorByID loads the session actor, resolving the department display
// name from the departments table.
func (r *Repository) GetActorByID(userID string) (*auth.Actor, error) {
	query := `SELECT u.id, u.name, u.email, u.role, u.avatar,
	                 COALESCE(u.department_id, ''), COALESCE(d.name, '')
	          FROM users u
	          LEFT JOIN departments d ON d.id = u.department_id
	          WHERE u.id = ?`

	var actor auth.Actor
	var role string
	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&actor.ID, &actor.Name, &actor.Email, &role, &actor.Avatar, &actor.DepartmentID, &actor.Department); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}

	parsed, ok := auth.ParseRole(role)
	if !ok {
		return nil, fmt.Errorf("user %s has unknown role %q", userID, role)
	}
	actor.Role = parsed

	return &actor, nil
}
