package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.AdminUserRepository = (*AdminUserRepository)(nil)

// AdminUserRepository is an in-memory operator account store
type AdminUserRepository struct {
	emailMu sync.Mutex
	rows    *table[models.AdminUser]
}

// NewAdminUserRepository creates an empty AdminUserRepository
func NewAdminUserRepository() *AdminUserRepository {
	return &AdminUserRepository{rows: newTable(shallow[models.AdminUser],
		func(u *models.AdminUser) (time.Time, primitive.ObjectID) { return u.CreatedAt, u.ID })}
}

func (r *AdminUserRepository) byEmail(email string) (*models.AdminUser, error) {
	return r.rows.first(func(u *models.AdminUser) bool { return u.Email == email })
}

// Create inserts a new admin user
func (r *AdminUserRepository) Create(ctx context.Context, user *models.AdminUser) error {
	r.emailMu.Lock()
	defer r.emailMu.Unlock()

	if _, err := r.byEmail(user.Email); err == nil {
		return repositories.ErrDuplicateKey
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.rows.insert(user.ID, user)
	return nil
}

// EnsureByEmail inserts user unless an account with its email exists
func (r *AdminUserRepository) EnsureByEmail(ctx context.Context, user *models.AdminUser) (bool, error) {
	err := r.Create(ctx, user)
	if err == repositories.ErrDuplicateKey {
		return false, nil
	}
	return err == nil, err
}

// FindByEmail finds an admin user by email
func (r *AdminUserRepository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	return r.byEmail(email)
}

// FindByID finds an admin user by ID
func (r *AdminUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error) {
	return r.rows.get(id)
}

// SetLastLogin records a successful login
func (r *AdminUserRepository) SetLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	return r.rows.update(id, func(u *models.AdminUser) { u.LastLogin = &at })
}
