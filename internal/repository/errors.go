// Package repository holds the MySQL data access of venues, courts,
// pricing rules, matches, profiles and refresh tokens.  The sentinel
// errors below let handlers tell failure scenarios apart.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a looked-up row does not exist.  Handlers
// translate it into 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate it into 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot proceed because of existing
// state, such as a second venue for the same admin or a duplicate contact
// number.  Handlers translate it into 409.
var ErrConflict = errors.New("conflict")

// ErrSlotTaken is returned when a booking hits a court slot that a live
// match already holds.  Handlers translate it into 409.
var ErrSlotTaken = errors.New("time slot already booked")

const erDupEntry = 1062

// isDuplicate reports whether err is MySQL's duplicate key error.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == erDupEntry
	}
	return strings.Contains(err.Error(), "1062")
}
