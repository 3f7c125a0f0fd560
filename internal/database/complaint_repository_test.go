package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/cityvoice/internal/database"
	"github.com/jonesrussell/cityvoice/internal/domain"
)

var complaintRowColumns = []string{
	"id", "citizen_name", "area", "address", "complaint_text", "clean_text",
	"category", "priority", "status", "zone", "created_at", "photo_after", "ai_summary",
	"priority_reasoning", "is_ai_processed", "model_used", "processing_time", "upvotes",
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	return sqlx.NewDb(mockDB, "postgres"), mock
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepository_Create(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := database.NewComplaintRepository(db)

	c := &domain.Complaint{
		CitizenName:   "Asha",
		Area:          "Hebbal",
		Text:          "Garbage not collected",
		Category:      domain.CategoryWaste,
		Priority:      domain.PriorityP2,
		Zone:          domain.ZoneNorth,
		IsAIProcessed: true,
		ModelUsed:     "gemini-2.0-flash",
	}

	mock.ExpectQuery(`INSERT INTO complaints .+ VALUES \(\$1, \$2`).
		WithArgs("Asha", "Hebbal", "", "Garbage not collected", "", domain.CategoryWaste,
			domain.PriorityP2, domain.StatusNew, domain.ZoneNorth, sqlmock.AnyArg(), "", "", true,
			"gemini-2.0-flash", float64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(12)))

	require.NoError(t, repo.Create(context.Background(), c))
	assert.Equal(t, int64(12), c.ID)
	assert.Equal(t, domain.StatusNew, c.Status)
	assert.False(t, c.CreatedAt.IsZero())
	expectationsMet(t, mock)
}

func TestComplaintRepository_GetByID_NotFound(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := database.NewComplaintRepository(db)

	mock.ExpectQuery("SELECT .+ FROM complaints c WHERE c.id").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(complaintRowColumns))

	_, err := repo.GetByID(context.Background(), 99)
	require.ErrorIs(t, err, database.ErrNotFound)
	expectationsMet(t, mock)
}

func TestComplaintRepository_List_Filters(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := database.NewComplaintRepository(db)
	now := time.Now()

	mock.ExpectQuery(`FROM complaints c WHERE c.status = \$1 AND c.zone = \$2 ORDER BY upvotes DESC, c.created_at DESC LIMIT \$3`).
		WithArgs(domain.StatusNew, domain.ZoneSouth, 10).
		WillReturnRows(sqlmock.NewRows(complaintRowColumns).AddRow(
			int64(1), "Ravi", "Jayanagar", "", "No water", "water", "Water", "P1", "New", "South",
			now, nil, "No water", "Outage", true, "gemini-2.0-flash", 1.2, int64(4),
		))

	got, err := repo.List(context.Background(), domain.ComplaintFilter{
		Status: domain.StatusNew,
		Zone:   domain.ZoneSouth,
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].Upvotes)
	assert.Equal(t, domain.PriorityP1, got[0].Priority)
	assert.Nil(t, got[0].PhotoAfter)
	expectationsMet(t, mock)
}

func TestComplaintRepository_List_DefaultLimit(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := database.NewComplaintRepository(db)

	mock.ExpectQuery(`FROM complaints c ORDER BY upvotes DESC`).
		WithArgs(database.DefaultListLimit).
		WillReturnRows(sqlmock.NewRows(complaintRowColumns))

	got, err := repo.List(context.Background(), domain.ComplaintFilter{Limit: 5000})
	require.NoError(t, err)
	assert.Empty(t, got)
	expectationsMet(t, mock)
}

func TestComplaintRepository_UpdateStatus(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := database.NewComplaintRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE complaints SET status").
		WithArgs(domain.StatusResolved, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO actions").
		WithArgs(int64(3), 2, "Status changed to Resolved", nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE complaints SET status").
		WithArgs(domain.StatusResolved, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE complaints SET status").
		WithArgs(domain.StatusResolved, int64(5)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	ctx := context.Background()
	audit := &domain.Action{ComplaintID: 3, OfficerID: 2, Action: "Status changed to Resolved"}
	require.NoError(t, repo.UpdateStatus(ctx, 3, domain.StatusResolved, audit))
	assert.Equal(t, int64(11), audit.ID)
	assert.False(t, audit.ActionTime.IsZero())

	require.ErrorIs(t, repo.UpdateStatus(ctx, 4, domain.StatusResolved, &domain.Action{ComplaintID: 4}), database.ErrNotFound)

	err := repo.UpdateStatus(ctx, 5, domain.StatusResolved, &domain.Action{ComplaintID: 5})
	require.Error(t, err)
	assert.NotErrorIs(t, err, database.ErrNotFound)
	expectationsMet(t, mock)
}

func TestComplaintRepository_UpdateStatus_RollsBackWhenAuditFails(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := database.NewComplaintRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE complaints SET status").
		WithArgs(domain.StatusInProgress, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO actions").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.UpdateStatus(context.Background(), 7, domain.StatusInProgress,
		&domain.Action{ComplaintID: 7, OfficerID: 2, Action: "Status changed to In Progress"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create action")
	expectationsMet(t, mock)
}

func TestComplaintRepository_SetPhotoAfter(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := database.NewComplaintRepository(db)
	path := "uploads/7_after.jpg"

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE complaints SET photo_after").
		WithArgs(path, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO actions").
		WithArgs(int64(7), 3, "Resolution photo uploaded", &path, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectCommit()

	require.NoError(t, repo.SetPhotoAfter(context.Background(), 7, path, &domain.Action{
		ComplaintID: 7, OfficerID: 3, Action: "Resolution photo uploaded", ImagePath: &path,
	}))
	expectationsMet(t, mock)
}

func TestComplaintRepository_CountByStatus(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := database.NewComplaintRepository(db)

	mock.ExpectQuery(`SELECT c.status AS bucket, COUNT\(\*\) AS total FROM complaints c WHERE c.zone = \$1 GROUP BY c.status`).
		WithArgs(domain.ZoneEast).
		WillReturnRows(sqlmock.NewRows([]string{"bucket", "total"}).
			AddRow("New", 3).
			AddRow("Resolved", 1))

	got, err := repo.CountByStatus(context.Background(), domain.ZoneEast)
	require.NoError(t, err)
	assert.Equal(t, []database.GroupCount{{Key: "New", Count: 3}, {Key: "Resolved", Count: 1}}, got)
	expectationsMet(t, mock)
}
