package db

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"gorm wrapped", fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), true},
		{"postgres", errors.New(`ERROR: duplicate key value violates unique constraint "idx_registration_email_venue" (SQLSTATE 23505)`), true},
		{"mysql", errors.New("Error 1062 (23000): Duplicate entry 'a@b.c-mumbai' for key 'registrations.idx_registration_email_venue'"), true},
		{"sqlite", errors.New("UNIQUE constraint failed: registrations.email, registrations.venue"), true},
		{"unrelated", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		if got := IsDuplicateKeyErr(tc.err); got != tc.want {
			t.Errorf("%s: IsDuplicateKeyErr = %v, want %v", tc.name, got, tc.want)
		}
	}
}
