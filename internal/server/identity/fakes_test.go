package identity

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/server/models"
)

// memRepo is an in-memory users.Repository with the same uniqueness rules as
// the SQL stores: unique id and unique email.
type memRepo struct {
	mu     sync.Mutex
	byID   map[int64]models.User
	nextID int64

	creates atomic.Int32

	// when set, the first barrierLeft lookups block until all of them have
	// arrived, so every racer looks up before anyone creates
	barrier     *sync.WaitGroup
	barrierLeft atomic.Int32

	findErr   error
	createErr error
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[int64]models.User{}, nextID: 1}
}

func (m *memRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.gate()
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.gate()
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (m *memRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	m.creates.Add(1)
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if user.ID != 0 {
		if _, ok := m.byID[user.ID]; ok {
			return nil, &common.UniqueConstraintViolation{Field: "id", Err: errors.New("duplicate id")}
		}
	}
	for _, u := range m.byID {
		if u.Email == user.Email {
			return nil, &common.UniqueConstraintViolation{Field: "email", Err: errors.New("duplicate email")}
		}
	}

	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	}
	m.byID[user.ID] = *user
	out := *user
	return &out, nil
}

func (m *memRepo) lineUp(n int) {
	m.barrier = &sync.WaitGroup{}
	m.barrier.Add(n)
	m.barrierLeft.Store(int32(n))
}

func (m *memRepo) gate() {
	if m.barrier == nil || m.barrierLeft.Add(-1) < 0 {
		return
	}
	m.barrier.Done()
	m.barrier.Wait()
}

func (m *memRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

// countingHasher records Verify calls and treats "h(x)" as the digest of x.
type countingHasher struct {
	verifies  atomic.Int32
	verifyErr error
}

func (h *countingHasher) Hash(p string) (string, error) { return "h(" + p + ")", nil }

func (h *countingHasher) Verify(p, digest string) (bool, error) {
	h.verifies.Add(1)
	if h.verifyErr != nil {
		return false, h.verifyErr
	}
	return digest == "h("+p+")", nil
}

type fixedHandles struct{ n atomic.Int32 }

func (f *fixedHandles) Generate(prefix string) string {
	f.n.Add(1)
	return prefix + "42@example.com"
}

// seqHandles hands out emails in order and repeats the last one.
type seqHandles struct {
	mu     sync.Mutex
	emails []string
	calls  int
}

func (s *seqHandles) Generate(string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := min(s.calls, len(s.emails)-1)
	s.calls++
	return s.emails[i]
}
