package service

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/apperror"
)

func TestMapDatabaseError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperror.Code
	}{
		{
			name: "unique violation becomes conflict",
			err:  &pgconn.PgError{Code: "23505"},
			want: apperror.CodeConflict,
		},
		{
			name: "foreign key violation becomes validation",
			err:  &pgconn.PgError{Code: "23503"},
			want: apperror.CodeValidation,
		},
		{
			name: "wrapped unique violation is still detected",
			err:  errors.Join(errors.New("create presence"), &pgconn.PgError{Code: "23505"}),
			want: apperror.CodeConflict,
		},
		{
			name: "other errors pass through as internal",
			err:  errors.New("connection reset"),
			want: apperror.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperror.GetCode(mapDatabaseError(tt.err)))
		})
	}
}

func TestNormalizeRequiredString(t *testing.T) {
	value, err := normalizeRequiredString("  Backend  ", "name")
	assert.NoError(t, err)
	assert.Equal(t, "Backend", value)

	_, err = normalizeRequiredString("   ", "name")
	assert.Equal(t, apperror.CodeValidation, apperror.GetCode(err))

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	_, err = normalizeRequiredString(string(long), "name")
	assert.Equal(t, apperror.CodeValidation, apperror.GetCode(err))
}
