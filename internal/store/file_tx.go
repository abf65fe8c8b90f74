package store

import (
	"context"
	"fmt"
	"time"

	"penny_count/internal/models"
)

// fileTx is the transactional view of a FileStore snapshot. The FileStore
// mutex is already held, so every method works on the in-memory snapshot and
// the whole thing is persisted once when the callback returns.
type fileTx struct {
	data *fileData
}

func (t *fileTx) Transact(ctx context.Context, fn func(Store) error) error {
	// Already inside the snapshot lock; just run against the same view.
	return fn(t)
}

func (t *fileTx) ListUsers(ctx context.Context) ([]models.User, error) {
	return append([]models.User(nil), t.data.Users...), nil
}
func (t *fileTx) GetUser(ctx context.Context, id string) (*models.User, error) {
	return t.data.getUser(id)
}
func (t *fileTx) CreateUser(ctx context.Context, u *models.User) error {
	return t.data.createUser(u)
}
func (t *fileTx) UpdateUser(ctx context.Context, u *models.User) error {
	return t.data.updateUser(u)
}
func (t *fileTx) DeleteUser(ctx context.Context, id string) error {
	return t.data.deleteUser(id)
}

func (t *fileTx) ListLines(ctx context.Context) ([]models.Line, error) {
	return append([]models.Line(nil), t.data.Lines...), nil
}
func (t *fileTx) GetLine(ctx context.Context, id string) (*models.Line, error) {
	return t.data.getLine(id)
}
func (t *fileTx) CreateLine(ctx context.Context, l *models.Line) error {
	return t.data.createLine(l)
}
func (t *fileTx) UpdateLine(ctx context.Context, l *models.Line) error {
	return t.data.updateLine(l)
}
func (t *fileTx) DeleteLine(ctx context.Context, id string) error {
	return t.data.deleteLine(id)
}

func (t *fileTx) ListBorrowers(ctx context.Context) ([]models.Borrower, error) {
	return append([]models.Borrower(nil), t.data.Borrowers...), nil
}
func (t *fileTx) GetBorrower(ctx context.Context, id string) (*models.Borrower, error) {
	return t.data.getBorrower(id)
}
func (t *fileTx) CreateBorrower(ctx context.Context, b *models.Borrower) error {
	return t.data.createBorrower(b)
}
func (t *fileTx) UpdateBorrower(ctx context.Context, b *models.Borrower) error {
	return t.data.updateBorrower(b)
}

func (t *fileTx) ListLoans(ctx context.Context) ([]models.Loan, error) {
	return append([]models.Loan(nil), t.data.Loans...), nil
}
func (t *fileTx) GetLoan(ctx context.Context, id string) (*models.Loan, error) {
	return t.data.getLoan(id)
}
func (t *fileTx) CreateLoan(ctx context.Context, l *models.Loan) error {
	return t.data.createLoan(l)
}
func (t *fileTx) UpdateLoan(ctx context.Context, l *models.Loan) error {
	return t.data.updateLoan(l)
}

func (t *fileTx) ListPayments(ctx context.Context) ([]models.Payment, error) {
	return append([]models.Payment(nil), t.data.Payments...), nil
}
func (t *fileTx) CreatePayment(ctx context.Context, p *models.Payment) error {
	return t.data.createPayment(p)
}

func (t *fileTx) ListCommissions(ctx context.Context) ([]models.Commission, error) {
	return append([]models.Commission(nil), t.data.Commissions...), nil
}
func (t *fileTx) GetCommission(ctx context.Context, id string) (*models.Commission, error) {
	return t.data.getCommission(id)
}
func (t *fileTx) CreateCommission(ctx context.Context, c *models.Commission) error {
	return t.data.createCommission(c)
}
func (t *fileTx) UpdateCommission(ctx context.Context, c *models.Commission) error {
	return t.data.updateCommission(c)
}

func (t *fileTx) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	return append([]models.Notification(nil), t.data.Notifications...), nil
}
func (t *fileTx) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	return t.data.getNotification(id)
}
func (t *fileTx) CreateNotification(ctx context.Context, n *models.Notification) error {
	return t.data.createNotification(n)
}
func (t *fileTx) UpdateNotification(ctx context.Context, n *models.Notification) error {
	return t.data.updateNotification(n)
}

// --- snapshot mutations ---

func (d *fileData) getUser(id string) (*models.User, error) {
	for i := range d.Users {
		if d.Users[i].ID == id {
			u := d.Users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (d *fileData) createUser(u *models.User) error {
	for i := range d.Users {
		if d.Users[i].Phone == u.Phone {
			return fmt.Errorf("phone %s already registered: %w", u.Phone, ErrConflict)
		}
	}
	stamp(&u.CreatedAt, &u.UpdatedAt, &u.ID)
	d.Users = append(d.Users, *u)
	return nil
}

func (d *fileData) updateUser(u *models.User) error {
	for i := range d.Users {
		if d.Users[i].ID == u.ID {
			u.CreatedAt = d.Users[i].CreatedAt
			u.UpdatedAt = time.Now()
			d.Users[i] = *u
			return nil
		}
	}
	return ErrNotFound
}

func (d *fileData) deleteUser(id string) error {
	for i := range d.Users {
		if d.Users[i].ID == id {
			d.Users = append(d.Users[:i], d.Users[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (d *fileData) getLine(id string) (*models.Line, error) {
	for i := range d.Lines {
		if d.Lines[i].ID == id {
			l := d.Lines[i]
			return &l, nil
		}
	}
	return nil, ErrNotFound
}

func (d *fileData) createLine(l *models.Line) error {
	stamp(&l.CreatedAt, &l.UpdatedAt, &l.ID)
	d.Lines = append(d.Lines, *l)
	return nil
}

func (d *fileData) updateLine(l *models.Line) error {
	for i := range d.Lines {
		if d.Lines[i].ID == l.ID {
			l.CreatedAt = d.Lines[i].CreatedAt
			l.UpdatedAt = time.Now()
			d.Lines[i] = *l
			return nil
		}
	}
	return ErrNotFound
}

func (d *fileData) deleteLine(id string) error {
	for i := range d.Lines {
		if d.Lines[i].ID == id {
			d.Lines = append(d.Lines[:i], d.Lines[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (d *fileData) getBorrower(id string) (*models.Borrower, error) {
	for i := range d.Borrowers {
		if d.Borrowers[i].ID == id {
			b := d.Borrowers[i]
			return &b, nil
		}
	}
	return nil, ErrNotFound
}

func (d *fileData) createBorrower(b *models.Borrower) error {
	stamp(&b.CreatedAt, &b.UpdatedAt, &b.ID)
	d.Borrowers = append(d.Borrowers, *b)
	return nil
}

func (d *fileData) updateBorrower(b *models.Borrower) error {
	for i := range d.Borrowers {
		if d.Borrowers[i].ID == b.ID {
			b.CreatedAt = d.Borrowers[i].CreatedAt
			b.UpdatedAt = time.Now()
			d.Borrowers[i] = *b
			return nil
		}
	}
	return ErrNotFound
}

func (d *fileData) getLoan(id string) (*models.Loan, error) {
	for i := range d.Loans {
		if d.Loans[i].ID == id {
			l := d.Loans[i]
			return &l, nil
		}
	}
	return nil, ErrNotFound
}

func (d *fileData) createLoan(l *models.Loan) error {
	stamp(&l.CreatedAt, &l.UpdatedAt, &l.ID)
	d.Loans = append(d.Loans, *l)
	return nil
}

func (d *fileData) updateLoan(l *models.Loan) error {
	for i := range d.Loans {
		if d.Loans[i].ID == l.ID {
			l.CreatedAt = d.Loans[i].CreatedAt
			l.UpdatedAt = time.Now()
			d.Loans[i] = *l
			return nil
		}
	}
	return ErrNotFound
}

func (d *fileData) createPayment(p *models.Payment) error {
	stamp(&p.CreatedAt, &p.UpdatedAt, &p.ID)
	d.Payments = append(d.Payments, *p)
	return nil
}

func (d *fileData) getCommission(id string) (*models.Commission, error) {
	for i := range d.Commissions {
		if d.Commissions[i].ID == id {
			c := d.Commissions[i]
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (d *fileData) createCommission(c *models.Commission) error {
	stamp(&c.CreatedAt, &c.UpdatedAt, &c.ID)
	d.Commissions = append(d.Commissions, *c)
	return nil
}

func (d *fileData) updateCommission(c *models.Commission) error {
	for i := range d.Commissions {
		if d.Commissions[i].ID == c.ID {
			c.CreatedAt = d.Commissions[i].CreatedAt
			c.UpdatedAt = time.Now()
			d.Commissions[i] = *c
			return nil
		}
	}
	return ErrNotFound
}

func (d *fileData) getNotification(id string) (*models.Notification, error) {
	for i := range d.Notifications {
		if d.Notifications[i].ID == id {
			n := d.Notifications[i]
			return &n, nil
		}
	}
	return nil, ErrNotFound
}

func (d *fileData) createNotification(n *models.Notification) error {
	stamp(&n.CreatedAt, &n.UpdatedAt, &n.ID)
	d.Notifications = append(d.Notifications, *n)
	return nil
}

func (d *fileData) updateNotification(n *models.Notification) error {
	for i := range d.Notifications {
		if d.Notifications[i].ID == n.ID {
			n.CreatedAt = d.Notifications[i].CreatedAt
			n.UpdatedAt = time.Now()
			d.Notifications[i] = *n
			return nil
		}
	}
	return ErrNotFound
}
