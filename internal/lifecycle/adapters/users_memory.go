package adapters

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"veriflow/internal/lifecycle/models"
	id "veriflow/pkg/domain"
	"veriflow/pkg/email"
	"veriflow/pkg/platform/sentinel"
)

// InMemoryUserDirectory is a directory for development and tests. Users are
// returned from FindByRole in the order they were added.
type InMemoryUserDirectory struct {
	mu    sync.RWMutex
	users map[id.UserID]*models.User
	order []id.UserID
}

func NewInMemoryUserDirectory() *InMemoryUserDirectory {
	return &InMemoryUserDirectory{users: make(map[id.UserID]*models.User)}
}

// Add inserts or replaces a user.
func (d *InMemoryUserDirectory) Add(user *models.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.users[user.ID]; !exists {
		d.order = append(d.order, user.ID)
	}
	copied := *user
	d.users[user.ID] = &copied
}

// SeedUserID derives a stable user ID from an email address so seeded users
// keep their IDs, and the tokens minted for them, across restarts.
func SeedUserID(emailAddr string) id.UserID {
	return id.UserID(uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email.Normalize(emailAddr))))
}

// NewSeedUser builds a user from an email address, deriving a display name
// from its local part.
func NewSeedUser(emailAddr string, role models.Role) *models.User {
	return &models.User{
		ID:    SeedUserID(emailAddr),
		Name:  email.DisplayName(emailAddr),
		Email: emailAddr,
		Role:  role,
	}
}

// Seed adds a user built by NewSeedUser.
func (d *InMemoryUserDirectory) Seed(emailAddr string, role models.Role) *models.User {
	user := NewSeedUser(emailAddr, role)
	d.Add(user)
	return user
}

func (d *InMemoryUserDirectory) SeedUser(_ context.Context, emailAddr string, role models.Role) (*models.User, error) {
	return d.Seed(emailAddr, role), nil
}

func (d *InMemoryUserDirectory) GetByID(_ context.Context, userID id.UserID) (*models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	user, ok := d.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (d *InMemoryUserDirectory) FindByRole(_ context.Context, role models.Role) ([]*models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []*models.User
	for _, userID := range d.order {
		if u := d.users[userID]; u.Role == role {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}
