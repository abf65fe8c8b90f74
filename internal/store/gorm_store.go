package store

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"penny_count/internal/models"
)

// gormStore backs the ledger with a relational database through GORM.
// Inside Transact every read takes a row lock, so the four-collection
// updates of the ledger engine cannot lose writes to a concurrent caller.
type gormStore struct {
	db   *gorm.DB
	inTx bool
}

// NewGormStore wraps an initialized GORM handle.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Transact(ctx context.Context, fn func(Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx, inTx: true})
	})
	return wrapStoreErr(err)
}

// reader scopes a query to the request context and, within a transaction,
// locks the rows it touches.
func (s *gormStore) reader(ctx context.Context) *gorm.DB {
	db := s.db.WithContext(ctx)
	if s.inTx {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

func (s *gormStore) create(ctx context.Context, rec any, id *string) error {
	if *id == "" {
		*id = uuid.NewString()
	}
	return wrapStoreErr(s.db.WithContext(ctx).Create(rec).Error)
}

// update replaces the whole record. Zero RowsAffected means the id no longer
// exists (or was soft-deleted), which callers see as ErrNotFound.
func (s *gormStore) update(ctx context.Context, rec any, id string) error {
	res := s.db.WithContext(ctx).Model(rec).Where("id = ?", id).
		Select("*").Omit("id", "created_at", "deleted_at").Updates(rec)
	if res.Error != nil {
		return wrapStoreErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- users ---

func (s *gormStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return users, nil
}

func (s *gormStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.reader(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return &u, nil
}

func (s *gormStore) CreateUser(ctx context.Context, u *models.User) error {
	return s.create(ctx, u, &u.ID)
}

func (s *gormStore) UpdateUser(ctx context.Context, u *models.User) error {
	return s.update(ctx, u, u.ID)
}

func (s *gormStore) DeleteUser(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return wrapStoreErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- lines ---

func (s *gormStore) ListLines(ctx context.Context) ([]models.Line, error) {
	var lines []models.Line
	if err := s.db.WithContext(ctx).Find(&lines).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return lines, nil
}

func (s *gormStore) GetLine(ctx context.Context, id string) (*models.Line, error) {
	var l models.Line
	if err := s.reader(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return &l, nil
}

func (s *gormStore) CreateLine(ctx context.Context, l *models.Line) error {
	return s.create(ctx, l, &l.ID)
}

func (s *gormStore) UpdateLine(ctx context.Context, l *models.Line) error {
	return s.update(ctx, l, l.ID)
}

func (s *gormStore) DeleteLine(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Line{}, "id = ?", id)
	if res.Error != nil {
		return wrapStoreErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- borrowers ---

func (s *gormStore) ListBorrowers(ctx context.Context) ([]models.Borrower, error) {
	var borrowers []models.Borrower
	if err := s.db.WithContext(ctx).Find(&borrowers).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return borrowers, nil
}

func (s *gormStore) GetBorrower(ctx context.Context, id string) (*models.Borrower, error) {
	var b models.Borrower
	if err := s.reader(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return &b, nil
}

func (s *gormStore) CreateBorrower(ctx context.Context, b *models.Borrower) error {
	return s.create(ctx, b, &b.ID)
}

func (s *gormStore) UpdateBorrower(ctx context.Context, b *models.Borrower) error {
	return s.update(ctx, b, b.ID)
}

// --- loans ---

func (s *gormStore) ListLoans(ctx context.Context) ([]models.Loan, error) {
	var loans []models.Loan
	if err := s.db.WithContext(ctx).Find(&loans).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return loans, nil
}

func (s *gormStore) GetLoan(ctx context.Context, id string) (*models.Loan, error) {
	var l models.Loan
	if err := s.reader(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return &l, nil
}

func (s *gormStore) CreateLoan(ctx context.Context, l *models.Loan) error {
	return s.create(ctx, l, &l.ID)
}

func (s *gormStore) UpdateLoan(ctx context.Context, l *models.Loan) error {
	return s.update(ctx, l, l.ID)
}

// --- payments (append-only) ---

func (s *gormStore) ListPayments(ctx context.Context) ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.db.WithContext(ctx).Find(&payments).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return payments, nil
}

func (s *gormStore) CreatePayment(ctx context.Context, p *models.Payment) error {
	return s.create(ctx, p, &p.ID)
}

// --- commissions ---

func (s *gormStore) ListCommissions(ctx context.Context) ([]models.Commission, error) {
	var commissions []models.Commission
	if err := s.db.WithContext(ctx).Find(&commissions).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return commissions, nil
}

func (s *gormStore) GetCommission(ctx context.Context, id string) (*models.Commission, error) {
	var c models.Commission
	if err := s.reader(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return &c, nil
}

func (s *gormStore) CreateCommission(ctx context.Context, c *models.Commission) error {
	return s.create(ctx, c, &c.ID)
}

func (s *gormStore) UpdateCommission(ctx context.Context, c *models.Commission) error {
	return s.update(ctx, c, c.ID)
}

// --- notifications ---

func (s *gormStore) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := s.db.WithContext(ctx).Find(&notifications).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return notifications, nil
}

func (s *gormStore) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	if err := s.reader(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return &n, nil
}

func (s *gormStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	return s.create(ctx, n, &n.ID)
}

func (s *gormStore) UpdateNotification(ctx context.Context, n *models.Notification) error {
	return s.update(ctx, n, n.ID)
}

// wrapStoreErr normalizes driver errors into the store's taxonomy.
func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "23505":
			return fmt.Errorf("%w: %v", ErrConflict, err)
		case pqErr.Code.Class() == "08":
			return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return err
}

// IsSerializationFailure reports whether err is a transient transaction
// conflict worth retrying (serialization failure or deadlock).
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}
