package roles

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type recordingExec struct {
	statements []string
	failOn     string
}

func (e *recordingExec) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	verb := strings.Fields(sql)[0]
	e.statements = append(e.statements, verb)
	if verb == e.failOn {
		return pgconn.CommandTag{}, errors.New("connection reset")
	}
	return pgconn.CommandTag{}, nil
}

func TestApplyChangesWritesDiffAndTouchesRole(t *testing.T) {
	tx := &recordingExec{}
	require.NoError(t, applyChanges(context.Background(), tx, 1, []string{"a.view"}, []string{"b.view"}))
	require.Equal(t, []string{"INSERT", "DELETE", "UPDATE"}, tx.statements)
}

func TestApplyChangesEmptyDiffStillTouchesRole(t *testing.T) {
	tx := &recordingExec{}
	require.NoError(t, applyChanges(context.Background(), tx, 1, nil, nil))
	require.Equal(t, []string{"UPDATE"}, tx.statements)
}

func TestApplyChangesStopsOnError(t *testing.T) {
	tx := &recordingExec{failOn: "INSERT"}
	require.Error(t, applyChanges(context.Background(), tx, 1, []string{"a.view"}, []string{"b.view"}))
	require.Equal(t, []string{"INSERT"}, tx.statements)
}
