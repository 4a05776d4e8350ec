package identity

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Credential errors surfaced to callers as form-level validation.
var (
	ErrEmailInUse         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password too weak")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Provider mints and verifies authentication credentials. It is the
// identity half of the identity & document store collaborator.
type Provider interface {
	// CreateIdentity registers email+password and returns the new
	// identity id. ErrEmailInUse / ErrWeakPassword on rejection.
	CreateIdentity(ctx context.Context, email, password string) (string, error)
	// Verify checks credentials and returns the identity id.
	Verify(ctx context.Context, email, password string) (string, error)
}

type postgresProvider struct {
	pool        *pgxpool.Pool
	bcryptCost  int
	minPassword int
}

// NewPostgresProvider returns a Provider backed by the identities table.
func NewPostgresProvider(pool *pgxpool.Pool, bcryptCost, minPasswordLen int) Provider {
	return &postgresProvider{pool: pool, bcryptCost: bcryptCost, minPassword: minPasswordLen}
}

func (p *postgresProvider) CreateIdentity(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < p.minPassword {
		return "", ErrWeakPassword
	}

	hash, err := HashPassword(password, p.bcryptCost)
	if err != nil {
		return "", err
	}

	const query = `
        INSERT INTO identities (id, email, password_hash)
        VALUES ($1, $2, $3)`

	id := uuid.NewString()
	if _, err := p.pool.Exec(ctx, query, id, email, hash); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", ErrEmailInUse
		}
		return "", err
	}
	return id, nil
}

func (p *postgresProvider) Verify(ctx context.Context, email, password string) (string, error) {
	const query = `SELECT id, password_hash FROM identities WHERE email=$1`

	var (
		id   string
		hash string
	)
	if err := p.pool.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))).Scan(&id, &hash); err != nil {
		if err == pgx.ErrNoRows {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := ComparePassword(hash, password); err != nil {
		return "", ErrInvalidCredentials
	}
	return id, nil
}

type memoryProvider struct {
	mu          sync.RWMutex
	byEmail     map[string]memoryCredential
	bcryptCost  int
	minPassword int
}

type memoryCredential struct {
	id   string
	hash string
}

// NewMemoryProvider returns an in-process Provider for development and
// tests.
func NewMemoryProvider(bcryptCost, minPasswordLen int) Provider {
	return &memoryProvider{
		byEmail:     make(map[string]memoryCredential),
		bcryptCost:  bcryptCost,
		minPassword: minPasswordLen,
	}
}

func (p *memoryProvider) CreateIdentity(_ context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < p.minPassword {
		return "", ErrWeakPassword
	}

	hash, err := HashPassword(password, p.bcryptCost)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.byEmail[email]; exists {
		return "", ErrEmailInUse
	}
	id := uuid.NewString()
	p.byEmail[email] = memoryCredential{id: id, hash: hash}
	return id, nil
}

func (p *memoryProvider) Verify(_ context.Context, email, password string) (string, error) {
	p.mu.RLock()
	cred, ok := p.byEmail[strings.ToLower(strings.TrimSpace(email))]
	p.mu.RUnlock()
	if !ok {
		return "", ErrInvalidCredentials
	}
	if err := ComparePassword(cred.hash, password); err != nil {
		return "", ErrInvalidCredentials
	}
	return cred.id, nil
}
