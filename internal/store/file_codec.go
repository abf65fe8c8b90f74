package store

import (
	"gorm.io/gorm"

	"penny_count/internal/models"
)

// The API models hide credentials, geodata and soft-delete markers from their
// JSON (`json:"-"`), so the snapshot cannot reuse those tags: a password hash
// dropped on save would lock every user out on the next load. The stored*
// wrappers shadow the hidden fields with storage tags of their own; everything
// else keeps the model's shape.

type storedUser struct {
	models.User
	Password  string         `json:"password"`
	DeletedAt gorm.DeletedAt `json:"deleted_at"`
}

type storedLine struct {
	models.Line
	DeletedAt gorm.DeletedAt `json:"deleted_at"`
}

type storedBorrower struct {
	models.Borrower
	Location  []byte         `json:"location"`
	DeletedAt gorm.DeletedAt `json:"deleted_at"`
}

type storedLoan struct {
	models.Loan
	DeletedAt gorm.DeletedAt `json:"deleted_at"`
}

type storedPayment struct {
	models.Payment
	DeletedAt gorm.DeletedAt `json:"deleted_at"`
}

type storedCommission struct {
	models.Commission
	DeletedAt gorm.DeletedAt `json:"deleted_at"`
}

type storedNotification struct {
	models.Notification
	DeletedAt gorm.DeletedAt `json:"deleted_at"`
}

// snapshot is the on-disk document: one array per collection, in storage form.
type snapshot struct {
	Users         []storedUser         `json:"users"`
	Lines         []storedLine         `json:"lines"`
	Borrowers     []storedBorrower     `json:"borrowers"`
	Loans         []storedLoan         `json:"loans"`
	Payments      []storedPayment      `json:"payments"`
	Commissions   []storedCommission   `json:"commissions"`
	Notifications []storedNotification `json:"notifications"`
}

func encodeSnapshot(d *fileData) *snapshot {
	s := &snapshot{}
	for _, u := range d.Users {
		s.Users = append(s.Users, storedUser{User: u, Password: u.Password, DeletedAt: u.DeletedAt})
	}
	for _, l := range d.Lines {
		s.Lines = append(s.Lines, storedLine{Line: l, DeletedAt: l.DeletedAt})
	}
	for _, b := range d.Borrowers {
		s.Borrowers = append(s.Borrowers, storedBorrower{Borrower: b, Location: b.Location, DeletedAt: b.DeletedAt})
	}
	for _, l := range d.Loans {
		s.Loans = append(s.Loans, storedLoan{Loan: l, DeletedAt: l.DeletedAt})
	}
	for _, p := range d.Payments {
		s.Payments = append(s.Payments, storedPayment{Payment: p, DeletedAt: p.DeletedAt})
	}
	for _, c := range d.Commissions {
		s.Commissions = append(s.Commissions, storedCommission{Commission: c, DeletedAt: c.DeletedAt})
	}
	for _, n := range d.Notifications {
		s.Notifications = append(s.Notifications, storedNotification{Notification: n, DeletedAt: n.DeletedAt})
	}
	return s
}

func decodeSnapshot(s *snapshot) *fileData {
	d := &fileData{}
	for _, su := range s.Users {
		u := su.User
		u.Password = su.Password
		u.DeletedAt = su.DeletedAt
		d.Users = append(d.Users, u)
	}
	for _, sl := range s.Lines {
		l := sl.Line
		l.DeletedAt = sl.DeletedAt
		d.Lines = append(d.Lines, l)
	}
	for _, sb := range s.Borrowers {
		b := sb.Borrower
		b.Location = sb.Location
		b.DeletedAt = sb.DeletedAt
		d.Borrowers = append(d.Borrowers, b)
	}
	for _, sl := range s.Loans {
		l := sl.Loan
		l.DeletedAt = sl.DeletedAt
		d.Loans = append(d.Loans, l)
	}
	for _, sp := range s.Payments {
		p := sp.Payment
		p.DeletedAt = sp.DeletedAt
		d.Payments = append(d.Payments, p)
	}
	for _, sc := range s.Commissions {
		c := sc.Commission
		c.DeletedAt = sc.DeletedAt
		d.Commissions = append(d.Commissions, c)
	}
	for _, sn := range s.Notifications {
		n := sn.Notification
		n.DeletedAt = sn.DeletedAt
		d.Notifications = append(d.Notifications, n)
	}
	return d
}
