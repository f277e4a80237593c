package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"tutorboard/pkg/database"
	"tutorboard/pkg/interfaces"
	"tutorboard/pkg/types"
)

// Store implements interfaces.UserDirectory on SQLite.
//
// Reads go straight to the pooled connection; all writes are funneled through
// a single goroutine. SQLite allows one writer at a time, and serializing
// writes in-process also makes point increments from overlapping messages
// trivially safe: each increment is one UPDATE executed in the store, never a
// read-modify-write in Go.
type Store struct {
	db       *sql.DB
	writeCh  chan writeOp
	shutdown chan struct{}
	wg       sync.WaitGroup
	closed   bool
	mu       sync.RWMutex
}

type writeOp struct {
	operation func(*sql.DB) error
	result    chan error
}

// NewStore opens the directory database, bootstraps the schema and starts the
// writer goroutine.
func NewStore(cfg *database.Config) (*Store, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory database: %w", err)
	}

	if err := database.EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{
		db:       db,
		writeCh:  make(chan writeOp, 100),
		shutdown: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.writeLoop()

	return s, nil
}

// writeLoop executes all write operations in order. Failures are returned to
// the caller, not retried: a point increment retried after an ambiguous
// failure could double-count.
func (s *Store) writeLoop() {
	defer s.wg.Done()

	for {
		select {
		case op := <-s.writeCh:
			op.result <- op.operation(s.db)
		case <-s.shutdown:
			log.Println("Directory write loop shutting down")
			return
		}
	}
}

func (s *Store) executeWrite(operation func(*sql.DB) error) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrStoreClosed
	}
	s.mu.RUnlock()

	result := make(chan error, 1)

	select {
	case s.writeCh <- writeOp{operation: operation, result: result}:
		return <-result
	case <-time.After(30 * time.Second):
		return ErrWriteTimeout
	case <-s.shutdown:
		return ErrStoreClosed
	}
}

// GetUser retrieves a user record by identifier.
func (s *Store) GetUser(ctx context.Context, userID string) (*types.User, error) {
	query := `
		SELECT id, full_name, role, prompt, points
		FROM users
		WHERE id = ?
	`

	row := s.db.QueryRowContext(ctx, query, userID)

	var user types.User
	var prompt sql.NullString

	err := row.Scan(&user.ID, &user.FullName, &user.Role, &prompt, &user.Points)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, interfaces.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if prompt.Valid {
		user.Prompt = &prompt.String
	}

	return &user, nil
}

// FindTeacherPrompt returns the active topic from the single teacher record.
// No teacher row, a NULL prompt and an empty prompt all mean "no topic yet";
// none of them is an error.
func (s *Store) FindTeacherPrompt(ctx context.Context) (string, bool, error) {
	query := `
		SELECT prompt
		FROM users
		WHERE role = ?
		LIMIT 1
	`

	var prompt sql.NullString
	err := s.db.QueryRowContext(ctx, query, types.RoleTeacher).Scan(&prompt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to query teacher prompt: %w", err)
	}

	if !prompt.Valid || prompt.String == "" {
		return "", false, nil
	}

	return prompt.String, true, nil
}

// IncrementPoints atomically adds by to a user's point total. The arithmetic
// happens inside the UPDATE so overlapping awards cannot lose updates.
func (s *Store) IncrementPoints(ctx context.Context, userID string, by int) error {
	return s.executeWrite(func(db *sql.DB) error {
		query := `
			UPDATE users
			SET points = points + ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`

		res, err := db.ExecContext(ctx, query, by, userID)
		if err != nil {
			return fmt.Errorf("failed to increment points: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check increment result: %w", err)
		}
		if affected == 0 {
			return interfaces.ErrUserNotFound
		}

		return nil
	})
}

// UpsertUser creates or updates a user record. Points are preserved on
// update; only the ledger mutates them.
func (s *Store) UpsertUser(ctx context.Context, user *types.User) error {
	if !types.IsValidUserID(user.ID) {
		return types.ErrInvalidUserID
	}

	return s.executeWrite(func(db *sql.DB) error {
		query := `
			INSERT INTO users (id, full_name, role, prompt, points)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				full_name  = excluded.full_name,
				role       = excluded.role,
				updated_at = CURRENT_TIMESTAMP
		`

		var prompt interface{}
		if user.Prompt != nil {
			prompt = *user.Prompt
		}

		if _, err := db.ExecContext(ctx, query, user.ID, user.FullName, user.Role, prompt, user.Points); err != nil {
			return fmt.Errorf("failed to upsert user: %w", err)
		}

		return nil
	})
}

// SetPrompt sets or clears (nil) the topic on a user record.
func (s *Store) SetPrompt(ctx context.Context, userID string, prompt *string) error {
	return s.executeWrite(func(db *sql.DB) error {
		query := `
			UPDATE users
			SET prompt = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`

		var value interface{}
		if prompt != nil {
			value = *prompt
		}

		res, err := db.ExecContext(ctx, query, value, userID)
		if err != nil {
			return fmt.Errorf("failed to set prompt: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check prompt update: %w", err)
		}
		if affected == 0 {
			return interfaces.ErrUserNotFound
		}

		return nil
	})
}

// HealthCheck verifies database connectivity.
func (s *Store) HealthCheck(ctx context.Context) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrStoreClosed
	}
	s.mu.RUnlock()

	return s.db.PingContext(ctx)
}

// Close stops the writer goroutine and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.shutdown)
	s.wg.Wait()

	return s.db.Close()
}
