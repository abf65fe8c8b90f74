package store

import (
	"context"
	"errors"

	"penny_count/internal/models"
)

var (
	// ErrNotFound is returned when an update or delete targets a missing record.
	ErrNotFound = errors.New("record not found")
	// ErrReferenceNotFound is returned when a foreign key points at nothing.
	ErrReferenceNotFound = errors.New("referenced record not found")
	// ErrBackendUnavailable wraps transport-level failures of the backing store.
	ErrBackendUnavailable = errors.New("store backend unavailable")
	// ErrConflict is returned when a create collides with an existing record,
	// e.g. a duplicate phone number. Both backends map their native duplicate
	// errors to it.
	ErrConflict = errors.New("record already exists")
)

// Store is the uniform persistence surface of the ledger. Callers never learn
// whether a postgres database or the local snapshot file sits behind it; the
// implementation is picked once at startup.
//
// Create methods assign the id and creation timestamp; Update methods replace
// the whole record and fail with ErrNotFound when the id is absent.
type Store interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id string) error

	ListLines(ctx context.Context) ([]models.Line, error)
	GetLine(ctx context.Context, id string) (*models.Line, error)
	CreateLine(ctx context.Context, l *models.Line) error
	UpdateLine(ctx context.Context, l *models.Line) error
	DeleteLine(ctx context.Context, id string) error

	ListBorrowers(ctx context.Context) ([]models.Borrower, error)
	GetBorrower(ctx context.Context, id string) (*models.Borrower, error)
	CreateBorrower(ctx context.Context, b *models.Borrower) error
	UpdateBorrower(ctx context.Context, b *models.Borrower) error

	ListLoans(ctx context.Context) ([]models.Loan, error)
	GetLoan(ctx context.Context, id string) (*models.Loan, error)
	CreateLoan(ctx context.Context, l *models.Loan) error
	UpdateLoan(ctx context.Context, l *models.Loan) error

	ListPayments(ctx context.Context) ([]models.Payment, error)
	CreatePayment(ctx context.Context, p *models.Payment) error

	ListCommissions(ctx context.Context) ([]models.Commission, error)
	GetCommission(ctx context.Context, id string) (*models.Commission, error)
	CreateCommission(ctx context.Context, c *models.Commission) error
	UpdateCommission(ctx context.Context, c *models.Commission) error

	ListNotifications(ctx context.Context) ([]models.Notification, error)
	GetNotification(ctx context.Context, id string) (*models.Notification, error)
	CreateNotification(ctx context.Context, n *models.Notification) error
	UpdateNotification(ctx context.Context, n *models.Notification) error

	// Transact runs fn against a view of the store where every read locks the
	// record it returns and every write lands atomically with the rest, or not
	// at all. The ledger engine routes its multi-entity updates through here.
	Transact(ctx context.Context, fn func(Store) error) error
}
