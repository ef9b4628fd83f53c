package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"communitycalendar/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var teamColumnNames = []string{"id", "team_number", "responsible_person_id", "chaplain_name", "created_at", "updated_at"}

func TestTeamRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO teams \(team_number, responsible_person_id, chaplain_name, created_at, updated_at\)`).
					WithArgs(7, "user-1", nil, ts, ts).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("team-7"))
			},
			wantID: "team-7",
		},
		{
			name: "duplicate number",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO teams`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: teamNumberConstraint})
			},
			wantErr: domain.ErrDuplicateTeamNumber,
		},
		{
			name: "responsible already assigned",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO teams`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: responsibleConstraint})
			},
			wantErr: domain.ErrResponsibleAlreadyAssigned,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			team := &domain.Team{TeamNumber: 7, ResponsiblePersonID: strPtr("user-1"), CreatedAt: ts, UpdatedAt: ts}
			err = NewTeamRepository(db).Create(ctx, team)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, team.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTeamRepository_GetAndList(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM teams\s+WHERE id = \$1`).
		WithArgs("team-7").
		WillReturnRows(sqlmock.NewRows(teamColumnNames).AddRow("team-7", 7, "user-1", "Fr. Luis", ts, ts))
	mock.ExpectQuery(`FROM teams\s+WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`FROM teams\s+ORDER BY team_number`).
		WillReturnRows(sqlmock.NewRows(teamColumnNames).
			AddRow("team-7", 7, nil, nil, ts, ts).
			AddRow("team-8", 8, "user-2", nil, ts, ts))

	repo := NewTeamRepository(db)
	team, err := repo.GetByID(ctx, "team-7")
	require.NoError(t, err)
	require.Equal(t, 7, team.TeamNumber)
	require.Equal(t, "Fr. Luis", *team.ChaplainName)

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)

	teams, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	require.Nil(t, teams[0].ResponsiblePersonID)
	require.Equal(t, "user-2", *teams[1].ResponsiblePersonID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "detaches events and couples",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE calendar_events SET team_id = NULL`).WithArgs("team-7").WillReturnResult(sqlmock.NewResult(0, 3))
				mock.ExpectExec(`UPDATE couples SET team_id = NULL`).WithArgs("team-7").WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectExec(`DELETE FROM teams WHERE id = \$1`).WithArgs("team-7").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "not found rolls back",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE calendar_events SET team_id = NULL`).WithArgs("team-7").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(`UPDATE couples SET team_id = NULL`).WithArgs("team-7").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(`DELETE FROM teams WHERE id = \$1`).WithArgs("team-7").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "event update fails",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE calendar_events SET team_id = NULL`).WithArgs("team-7").WillReturnError(errors.New("deadlock"))
				mock.ExpectRollback()
			},
			wantErr: errors.New("detach events: deadlock"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewTeamRepository(db).Delete(ctx, "team-7")
			switch {
			case tt.wantErr == nil:
				require.NoError(t, err)
			case errors.Is(tt.wantErr, domain.ErrNotFound):
				require.ErrorIs(t, err, domain.ErrNotFound)
			default:
				require.EqualError(t, err, tt.wantErr.Error())
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCoupleRepository(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO couples \(team_id, primary_user_id, secondary_user_id, created_at, updated_at\)`).
		WithArgs("team-7", "u1", "u2", ts, ts).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("couple-1"))
	mock.ExpectQuery(`INSERT INTO couples`).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectQuery(`FROM couples\s+WHERE team_id = \$1`).
		WithArgs("team-7").
		WillReturnRows(sqlmock.NewRows([]string{"id", "team_id", "primary_user_id", "secondary_user_id", "created_at", "updated_at"}).
			AddRow("couple-1", "team-7", "u1", "u2", ts, ts))

	repo := NewCoupleRepository(db)
	couple := &domain.Couple{TeamID: strPtr("team-7"), PrimaryUserID: "u1", SecondaryUserID: "u2", CreatedAt: ts, UpdatedAt: ts}
	require.NoError(t, repo.Create(ctx, couple))
	require.Equal(t, "couple-1", couple.ID)

	require.ErrorIs(t, repo.Create(ctx, &domain.Couple{PrimaryUserID: "u1", SecondaryUserID: "u3"}), domain.ErrDuplicateCouple)

	couples, err := repo.ListByTeam(ctx, "team-7")
	require.NoError(t, err)
	require.Len(t, couples, 1)
	require.Equal(t, "team-7", *couples[0].TeamID)
	require.NoError(t, mock.ExpectationsWereMet())
}
