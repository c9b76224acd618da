package migrator

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyFor(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want fkPolicy
	}{
		{"Disable strategy", Options{ForeignKeys: "disable"}, disablePolicy{}},
		{"Preserve strategy", Options{ForeignKeys: "preserve"}, preservePolicy{}},
		{"Dry run forces preserve", Options{ForeignKeys: "disable", DryRun: true}, preservePolicy{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policyFor(tt.opts))
		})
	}
}

func TestDisablePolicy_TogglesSessionChecks(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("SET FOREIGN_KEY_CHECKS = 0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SET FOREIGN_KEY_CHECKS = 1").WillReturnResult(sqlmock.NewResult(0, 0))

	p := disablePolicy{}
	log := testLogger()

	require.NoError(t, p.beforeTable(context.Background(), db, log))
	p.afterTable(context.Background(), db, log)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisablePolicy_RestoreFailureIsSwallowed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("SET FOREIGN_KEY_CHECKS = 1").
		WillReturnError(fmt.Errorf("connection gone"))

	// afterTable has no error return; a failed restore must not panic.
	disablePolicy{}.afterTable(context.Background(), db, testLogger())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreservePolicy_NeverTouchesSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	p := preservePolicy{}
	log := testLogger()

	require.NoError(t, p.beforeTable(context.Background(), db, log))
	p.afterTable(context.Background(), db, log)

	assert.NoError(t, mock.ExpectationsWereMet())
}
