package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/whoniverse/archive/internal/database"
	apierrors "github.com/whoniverse/archive/internal/errors"
	"github.com/whoniverse/archive/internal/modules/databasemodule"
)

func TestSummariesRequireProvisionedViews(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	// Without provisioning, the error names the missing view
	_, err := svc.DoctorEpisodeSummary(ctx)
	var ae *apierrors.ArchiveError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apierrors.CodeNotProvisioned, ae.Code)
	assert.Contains(t, ae.Message, "doctor_episode_summary")

	_, err = svc.EnemyAppearanceSummary(ctx)
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apierrors.CodeNotProvisioned, ae.Code)
	assert.Contains(t, ae.Message, "enemy_appearance_summary")
}

func TestDoctorEpisodeSummaryAggregates(t *testing.T) {
	db := setupTestDB(t)
	seedTenthDoctor(t, db)
	require.NoError(t, databasemodule.Provision(db))
	svc := NewService(db)

	rows, err := svc.DoctorEpisodeSummary(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 10, row.IncarnationNumber)
	assert.Equal(t, "David Tennant", row.ActorName)
	assert.Equal(t, 1, row.CompanionCount)
	assert.Equal(t, 2, row.EpisodeCount)
	assert.Equal(t, 1, row.EnemyCount)
	require.NotNil(t, row.FirstAirDate)
	require.NotNil(t, row.LastAirDate)
	assert.True(t, row.FirstAirDate.Before(*row.LastAirDate))
}

func TestEnemyAppearanceSummaryAggregates(t *testing.T) {
	db := setupTestDB(t)
	fx := seedTenthDoctor(t, db)
	// A second appearance for the Auton, in the finale
	create(t, db, &database.EnemyEpisode{EnemyID: fx.auton.ID, EpisodeID: fx.parting.ID})
	require.NoError(t, databasemodule.Provision(db))
	svc := NewService(db)

	rows, err := svc.EnemyAppearanceSummary(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "Auton", row.EnemyName)
	assert.Equal(t, 6, row.ThreatLevel)
	assert.Equal(t, 2, row.EpisodeCount)
	require.NotNil(t, row.EpisodeTitles)
	assert.Equal(t, "Rose, The Parting of the Ways", *row.EpisodeTitles)
	// No species or home planet recorded for the Auton
	assert.Nil(t, row.SpeciesName)
	assert.Nil(t, row.HomePlanetName)
}

func TestEnemyAppearanceSummaryTitlesFollowAirDates(t *testing.T) {
	db := setupTestDB(t)
	fx := seedTenthDoctor(t, db)
	create(t, db, &database.EnemyEpisode{EnemyID: fx.auton.ID, EpisodeID: fx.parting.ID})

	// Inserted after the others but aired between them; its title must land
	// in the middle of the concatenation, not at the end.
	var season database.Season
	require.NoError(t, db.First(&season).Error)
	airDalek := time.Date(2005, 4, 30, 0, 0, 0, 0, time.UTC)
	dalekEp := create(t, db, &database.Episode{
		Title: "Dalek", SeasonID: season.ID, AirDate: &airDalek, RuntimeMinutes: 45,
	})
	create(t, db, &database.EnemyEpisode{EnemyID: fx.auton.ID, EpisodeID: dalekEp.ID})

	require.NoError(t, databasemodule.Provision(db))
	rows, err := NewService(db).EnemyAppearanceSummary(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NotNil(t, rows[0].EpisodeTitles)
	assert.Equal(t, "Rose, Dalek, The Parting of the Ways", *rows[0].EpisodeTitles)
}

func TestProvisionIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	seedTenthDoctor(t, db)
	require.NoError(t, databasemodule.Provision(db))
	require.NoError(t, databasemodule.Provision(db))

	_, err := NewService(db).DoctorEpisodeSummary(context.Background())
	require.NoError(t, err)
}

func TestEnemiesByThreatLevel(t *testing.T) {
	db := setupTestDB(t)
	fx := seedTenthDoctor(t, db)
	skaro := create(t, db, &database.Planet{Name: "Skaro"})
	dalekSpecies := create(t, db, &database.Species{Name: "Dalek"})
	dalek := create(t, db, &database.Enemy{
		Name: "Dalek Emperor", ThreatLevel: 10,
		SpeciesID: &dalekSpecies.ID, HomePlanetID: &skaro.ID,
	})
	create(t, db, &database.EnemyEpisode{EnemyID: dalek.ID, EpisodeID: fx.parting.ID})
	svc := NewService(db)

	rows, err := svc.EnemiesByThreatLevel(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Ordered by threat level descending
	assert.Equal(t, "Dalek Emperor", rows[0].Name)
	assert.Equal(t, 10, rows[0].ThreatLevel)
	require.NotNil(t, rows[0].SpeciesName)
	assert.Equal(t, "Dalek", *rows[0].SpeciesName)
	require.NotNil(t, rows[0].HomePlanetName)
	assert.Equal(t, "Skaro", *rows[0].HomePlanetName)
	assert.Equal(t, 1, rows[0].AppearanceCount)

	// Raising the floor filters the weaker enemy out
	rows, err = svc.EnemiesByThreatLevel(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Dalek Emperor", rows[0].Name)
}

func TestEpisodesForDoctor(t *testing.T) {
	db := setupTestDB(t)
	seedTenthDoctor(t, db)
	svc := NewService(db)

	rows, err := svc.EpisodesForDoctor(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Ordered by air date ascending
	assert.Equal(t, "Rose", rows[0].Title)
	assert.Equal(t, "The Parting of the Ways", rows[1].Title)
	assert.Equal(t, 1, rows[0].SeasonNumber)
	require.NotNil(t, rows[0].CompanionNames)
	assert.Contains(t, *rows[0].CompanionNames, "Rose Tyler")
	require.NotNil(t, rows[0].EnemyNames)
	assert.Contains(t, *rows[0].EnemyNames, "Auton")

	// Unknown incarnation yields an empty report, not an error
	rows, err = svc.EpisodesForDoctor(context.Background(), 14)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUpdateEnemyThreatLevel(t *testing.T) {
	db := setupTestDB(t)
	fx := seedTenthDoctor(t, db)
	svc := NewService(db)
	ctx := context.Background()

	updated, err := svc.UpdateEnemyThreatLevel(ctx, fx.auton.ID, 8)
	require.NoError(t, err)
	assert.Equal(t, "Auton", updated.Name)
	assert.Equal(t, 8, updated.ThreatLevel)

	// Out-of-range levels are rejected before touching the row
	for _, level := range []int{0, 11} {
		_, err = svc.UpdateEnemyThreatLevel(ctx, fx.auton.ID, level)
		var ae *apierrors.ArchiveError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, apierrors.CodeBadParameter, ae.Code)
	}

	var stored database.Enemy
	require.NoError(t, db.First(&stored, fx.auton.ID).Error)
	assert.Equal(t, 8, stored.ThreatLevel)

	// Missing enemy
	_, err = svc.UpdateEnemyThreatLevel(ctx, 999, 5)
	var ae *apierrors.ArchiveError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apierrors.CodeNotFound, ae.Code)
}

func TestIsMissingRelation(t *testing.T) {
	cases := []struct {
		msg  string
		want bool
	}{
		{"no such table: doctor_episode_summary", true},
		{"no such view: enemy_appearance_summary", true},
		{`ERROR: relation "doctor_episode_summary" does not exist (SQLSTATE 42P01)`, true},
		// Column drift is a schema bug, not missing provisioning
		{`ERROR: column "episode_titles" does not exist (SQLSTATE 42703)`, false},
		{"connection refused", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, isMissingRelation(errors.New(tc.msg)), tc.msg)
	}
}

// TestSummaryDatabaseFailureIsNotProvisioningError exercises the failure
// taxonomy against a mocked connection: a generic database error must not
// masquerade as a provisioning problem.
func TestSummaryDatabaseFailureIsNotProvisioningError(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 mockDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT \\* FROM doctor_episode_summary").
		WillReturnError(assert.AnError)

	_, err = NewService(db).DoctorEpisodeSummary(context.Background())
	var ae *apierrors.ArchiveError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apierrors.CodeDatabase, ae.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
