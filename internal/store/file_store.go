package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"penny_count/internal/models"
)

// storageFile is the fixed storage identifier of the local fallback mode:
// a single JSON document holding one array per entity collection.
const storageFile = "penny-count-data.json"

// fileData is the in-memory state of the snapshot. It serializes through the
// stored* wrappers in file_codec.go, not through the models' API JSON tags;
// timestamps round-trip as RFC 3339 strings through the typed time.Time
// fields.
type fileData struct {
	Users         []models.User
	Lines         []models.Line
	Borrowers     []models.Borrower
	Loans         []models.Loan
	Payments      []models.Payment
	Commissions   []models.Commission
	Notifications []models.Notification
}

// FileStore persists every collection in one local JSON snapshot. Each
// mutation is a full read-modify-write of the snapshot under a process-wide
// mutex, which also gives Transact its atomicity: the lock is held for the
// whole callback and the snapshot is written once at the end.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates (if needed) dir and stores the snapshot inside it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return &FileStore{path: filepath.Join(dir, storageFile)}, nil
}

func (s *FileStore) load() (*fileData, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &fileData{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return decodeSnapshot(&snap), nil
}

func (s *FileStore) save(data *fileData) error {
	raw, err := json.MarshalIndent(encodeSnapshot(data), "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	// Write-then-rename so a crash mid-write never corrupts the snapshot.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

// mutate is the shared read-modify-write cycle for single-op calls.
func (s *FileStore) mutate(fn func(*fileData) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(data); err != nil {
		return err
	}
	return s.save(data)
}

func (s *FileStore) view(fn func(*fileData) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return err
	}
	return fn(data)
}

func (s *FileStore) Transact(ctx context.Context, fn func(Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.mutate(func(data *fileData) error {
		return fn(&fileTx{data: data})
	})
}

func stamp(createdAt, updatedAt *time.Time, id *string) {
	now := time.Now()
	if *id == "" {
		*id = uuid.NewString()
	}
	*createdAt = now
	*updatedAt = now
}

// --- users ---

func (s *FileStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := s.view(func(d *fileData) error { out = append(out, d.Users...); return nil })
	return out, err
}

func (s *FileStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var out *models.User
	err := s.view(func(d *fileData) error {
		var e error
		out, e = d.getUser(id)
		return e
	})
	return out, err
}

func (s *FileStore) CreateUser(ctx context.Context, u *models.User) error {
	return s.mutate(func(d *fileData) error { return d.createUser(u) })
}

func (s *FileStore) UpdateUser(ctx context.Context, u *models.User) error {
	return s.mutate(func(d *fileData) error { return d.updateUser(u) })
}

func (s *FileStore) DeleteUser(ctx context.Context, id string) error {
	return s.mutate(func(d *fileData) error { return d.deleteUser(id) })
}

// --- lines ---

func (s *FileStore) ListLines(ctx context.Context) ([]models.Line, error) {
	var out []models.Line
	err := s.view(func(d *fileData) error { out = append(out, d.Lines...); return nil })
	return out, err
}

func (s *FileStore) GetLine(ctx context.Context, id string) (*models.Line, error) {
	var out *models.Line
	err := s.view(func(d *fileData) error {
		var e error
		out, e = d.getLine(id)
		return e
	})
	return out, err
}

func (s *FileStore) CreateLine(ctx context.Context, l *models.Line) error {
	return s.mutate(func(d *fileData) error { return d.createLine(l) })
}

func (s *FileStore) UpdateLine(ctx context.Context, l *models.Line) error {
	return s.mutate(func(d *fileData) error { return d.updateLine(l) })
}

func (s *FileStore) DeleteLine(ctx context.Context, id string) error {
	return s.mutate(func(d *fileData) error { return d.deleteLine(id) })
}

// --- borrowers ---

func (s *FileStore) ListBorrowers(ctx context.Context) ([]models.Borrower, error) {
	var out []models.Borrower
	err := s.view(func(d *fileData) error { out = append(out, d.Borrowers...); return nil })
	return out, err
}

func (s *FileStore) GetBorrower(ctx context.Context, id string) (*models.Borrower, error) {
	var out *models.Borrower
	err := s.view(func(d *fileData) error {
		var e error
		out, e = d.getBorrower(id)
		return e
	})
	return out, err
}

func (s *FileStore) CreateBorrower(ctx context.Context, b *models.Borrower) error {
	return s.mutate(func(d *fileData) error { return d.createBorrower(b) })
}

func (s *FileStore) UpdateBorrower(ctx context.Context, b *models.Borrower) error {
	return s.mutate(func(d *fileData) error { return d.updateBorrower(b) })
}

// --- loans ---

func (s *FileStore) ListLoans(ctx context.Context) ([]models.Loan, error) {
	var out []models.Loan
	err := s.view(func(d *fileData) error { out = append(out, d.Loans...); return nil })
	return out, err
}

func (s *FileStore) GetLoan(ctx context.Context, id string) (*models.Loan, error) {
	var out *models.Loan
	err := s.view(func(d *fileData) error {
		var e error
		out, e = d.getLoan(id)
		return e
	})
	return out, err
}

func (s *FileStore) CreateLoan(ctx context.Context, l *models.Loan) error {
	return s.mutate(func(d *fileData) error { return d.createLoan(l) })
}

func (s *FileStore) UpdateLoan(ctx context.Context, l *models.Loan) error {
	return s.mutate(func(d *fileData) error { return d.updateLoan(l) })
}

// --- payments ---

func (s *FileStore) ListPayments(ctx context.Context) ([]models.Payment, error) {
	var out []models.Payment
	err := s.view(func(d *fileData) error { out = append(out, d.Payments...); return nil })
	return out, err
}

func (s *FileStore) CreatePayment(ctx context.Context, p *models.Payment) error {
	return s.mutate(func(d *fileData) error { return d.createPayment(p) })
}

// --- commissions ---

func (s *FileStore) ListCommissions(ctx context.Context) ([]models.Commission, error) {
	var out []models.Commission
	err := s.view(func(d *fileData) error { out = append(out, d.Commissions...); return nil })
	return out, err
}

func (s *FileStore) GetCommission(ctx context.Context, id string) (*models.Commission, error) {
	var out *models.Commission
	err := s.view(func(d *fileData) error {
		var e error
		out, e = d.getCommission(id)
		return e
	})
	return out, err
}

func (s *FileStore) CreateCommission(ctx context.Context, c *models.Commission) error {
	return s.mutate(func(d *fileData) error { return d.createCommission(c) })
}

func (s *FileStore) UpdateCommission(ctx context.Context, c *models.Commission) error {
	return s.mutate(func(d *fileData) error { return d.updateCommission(c) })
}

// --- notifications ---

func (s *FileStore) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	var out []models.Notification
	err := s.view(func(d *fileData) error { out = append(out, d.Notifications...); return nil })
	return out, err
}

func (s *FileStore) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	var out *models.Notification
	err := s.view(func(d *fileData) error {
		var e error
		out, e = d.getNotification(id)
		return e
	})
	return out, err
}

func (s *FileStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	return s.mutate(func(d *fileData) error { return d.createNotification(n) })
}

func (s *FileStore) UpdateNotification(ctx context.Context, n *models.Notification) error {
	return s.mutate(func(d *fileData) error { return d.updateNotification(n) })
}
