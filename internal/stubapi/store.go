package stubapi

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"socialfi/internal/domain"
)

// defaultMaxScore is the score ceiling reported for unknown users.
const defaultMaxScore = 1000

type memoryStore struct {
	mu       sync.RWMutex
	users    map[domain.Address]domain.UserProfile
	scores   map[domain.Address]domain.UserScore
	stats    map[domain.Address]domain.TwitterStats
	balances map[domain.Address]string
	loans    map[string]domain.Loan
	pools    map[string]domain.Pool
	requests []domain.LoanRequest
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:    make(map[domain.Address]domain.UserProfile),
		scores:   make(map[domain.Address]domain.UserScore),
		stats:    make(map[domain.Address]domain.TwitterStats),
		balances: make(map[domain.Address]string),
		loans:    make(map[string]domain.Loan),
		pools:    make(map[string]domain.Pool),
	}
}

// user returns the stored profile or a fresh one for unknown addresses.
func (m *memoryStore) user(addr domain.Address) domain.UserProfile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[addr]; ok {
		return u
	}
	return domain.UserProfile{
		Address:      addr,
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func (m *memoryStore) score(addr domain.Address) domain.UserScore {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.scores[addr]; ok {
		return s
	}
	return domain.UserScore{Max: defaultMaxScore, MaxLoanAmount: "0"}
}

func (m *memoryStore) linkTwitter(addr domain.Address, handle string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[addr]
	if !ok {
		u = domain.UserProfile{Address: addr, RegisteredAt: time.Now().UTC().Format(time.RFC3339)}
	}
	id := "tw-" + handle
	u.TwitterID, u.TwitterHandle = &id, &handle
	m.users[addr] = u
	if _, ok := m.stats[addr]; !ok {
		m.stats[addr] = domain.TwitterStats{LastUpdated: time.Now().UTC().Format(time.RFC3339)}
	}
}

func (m *memoryStore) twitterStats(addr domain.Address) (domain.TwitterStats, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.stats[addr]
	return s, ok
}

func (m *memoryStore) balance(addr domain.Address) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.balances[addr]; ok {
		return b
	}
	return "0"
}

func (m *memoryStore) putLoan(l domain.Loan) domain.Loan {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt == "" {
		l.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if l.Status == "" {
		l.Status = domain.LoanActive
	}
	m.loans[l.ID] = l
	return l
}

func (m *memoryStore) loan(id string) (domain.Loan, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.loans[id]
	return l, ok
}

// listLoans filters by borrower and status, oldest first, then pages.
func (m *memoryStore) listLoans(addr domain.Address, status domain.LoanStatus, skip, limit int) []domain.Loan {
	m.mu.RLock()
	out := make([]domain.Loan, 0, len(m.loans))
	for _, l := range m.loans {
		if addr != "" && l.Borrower != addr {
			continue
		}
		if status != "" && l.Status != status {
			continue
		}
		out = append(out, l)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	if skip >= len(out) {
		return []domain.Loan{}
	}
	out = out[skip:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

func (m *memoryStore) recordRequest(req domain.LoanRequest) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
}

func (m *memoryStore) loanRequests() []domain.LoanRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.LoanRequest(nil), m.requests...)
}

func (m *memoryStore) listPools() []domain.Pool {
	m.mu.RLock()
	out := make([]domain.Pool, 0, len(m.pools))
	for _, p := range m.pools {
		out = append(out, p)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memoryStore) pool(id string) (domain.Pool, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.pools[id]
	return p, ok
}
