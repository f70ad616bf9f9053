package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/whoniverse/archive/internal/database"
	apierrors "github.com/whoniverse/archive/internal/errors"
)

// DoctorEpisodeSummary reads the per-doctor aggregate view. A missing view
// is reported as a provisioning problem, not a generic database failure.
func (s *Service) DoctorEpisodeSummary(ctx context.Context) ([]DoctorEpisodeSummaryRow, error) {
	var rows []DoctorEpisodeSummaryRow
	err := s.db.WithContext(ctx).
		Raw("SELECT * FROM doctor_episode_summary ORDER BY incarnation_number").
		Scan(&rows).Error
	if err != nil {
		if isMissingRelation(err) {
			return nil, apierrors.NewNotProvisionedError("doctor_episode_summary", err)
		}
		return nil, apierrors.NewDatabaseError("query doctor_episode_summary", err)
	}
	return rows, nil
}

// EnemyAppearanceSummary reads the per-enemy aggregate view
func (s *Service) EnemyAppearanceSummary(ctx context.Context) ([]EnemyAppearanceSummaryRow, error) {
	var rows []EnemyAppearanceSummaryRow
	err := s.db.WithContext(ctx).
		Raw("SELECT * FROM enemy_appearance_summary ORDER BY threat_level DESC, enemy_name").
		Scan(&rows).Error
	if err != nil {
		if isMissingRelation(err) {
			return nil, apierrors.NewNotProvisionedError("enemy_appearance_summary", err)
		}
		return nil, apierrors.NewDatabaseError("query enemy_appearance_summary", err)
	}
	return rows, nil
}

// EnemiesByThreatLevel reports enemies at or above a threat level, each
// annotated with species and planet names and an appearance count.
func (s *Service) EnemiesByThreatLevel(ctx context.Context, minLevel int) ([]ThreatReportRow, error) {
	var rows []ThreatReportRow
	err := s.db.WithContext(ctx).Raw(`
SELECT en.id,
       en.name,
       en.threat_level,
       s.name AS species_name,
       p.name AS home_planet_name,
       COUNT(ee.id) AS appearance_count
FROM enemies en
LEFT JOIN species s ON s.id = en.species_id
LEFT JOIN planets p ON p.id = en.home_planet_id
LEFT JOIN enemy_episodes ee ON ee.enemy_id = en.id
WHERE en.threat_level >= ?
GROUP BY en.id, en.name, en.threat_level, s.name, p.name
ORDER BY en.threat_level DESC, en.name`, minLevel).
		Scan(&rows).Error
	if err != nil {
		return nil, apierrors.NewDatabaseError("query enemies by threat level", err)
	}
	return rows, nil
}

// EpisodesForDoctor reports every episode reachable from an incarnation's
// companion pairings, with production credits and comma-joined companion
// and enemy names, in air-date order.
func (s *Service) EpisodesForDoctor(ctx context.Context, incarnationNumber int) ([]DoctorEpisodeRow, error) {
	companionAgg := "GROUP_CONCAT(DISTINCT c.name)"
	enemyAgg := "GROUP_CONCAT(DISTINCT en.name)"
	if s.db.Dialector.Name() == "postgres" {
		companionAgg = "STRING_AGG(DISTINCT c.name, ',')"
		enemyAgg = "STRING_AGG(DISTINCT en.name, ',')"
	}

	var rows []DoctorEpisodeRow
	err := s.db.WithContext(ctx).Raw(`
SELECT e.id,
       e.title,
       e.air_date,
       e.runtime_minutes,
       se.season_number,
       w.name AS writer_name,
       dr.name AS director_name,
       `+companionAgg+` AS companion_names,
       `+enemyAgg+` AS enemy_names
FROM doctors d
INNER JOIN doctor_companions dc ON dc.doctor_id = d.id
INNER JOIN episodes e ON e.id = dc.start_episode_id OR e.id = dc.end_episode_id
INNER JOIN seasons se ON se.id = e.season_id
LEFT JOIN writers w ON w.id = e.writer_id
LEFT JOIN directors dr ON dr.id = e.director_id
LEFT JOIN companions c ON c.id = dc.companion_id
LEFT JOIN enemy_episodes ee ON ee.episode_id = e.id
LEFT JOIN enemies en ON en.id = ee.enemy_id
WHERE d.incarnation_number = ?
GROUP BY e.id, e.title, e.air_date, e.runtime_minutes, se.season_number, w.name, dr.name
ORDER BY e.air_date ASC`, incarnationNumber).
		Scan(&rows).Error
	if err != nil {
		return nil, apierrors.NewDatabaseError("query episodes for doctor", err)
	}
	return rows, nil
}

// UpdateEnemyThreatLevel sets an enemy's threat level and returns the enemy
// annotated with species and planet names. The read-then-write sequence is
// not atomic; concurrent updates are last-writer-wins.
func (s *Service) UpdateEnemyThreatLevel(ctx context.Context, enemyID uint, newLevel int) (*EnemyWithNames, error) {
	if newLevel < 1 || newLevel > 10 {
		return nil, apierrors.NewBadParameterError("threat_level",
			"threat_level must be an integer between 1 and 10")
	}

	var enemy database.Enemy
	if err := s.db.WithContext(ctx).First(&enemy, enemyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NewNotFoundError("enemy", enemyID)
		}
		return nil, apierrors.NewDatabaseError("get enemy", err)
	}

	err := s.db.WithContext(ctx).
		Model(&enemy).
		Update("threat_level", newLevel).Error
	if err != nil {
		return nil, apierrors.NewDatabaseError("update enemy threat level", err)
	}

	var row EnemyWithNames
	err = s.db.WithContext(ctx).Raw(`
SELECT en.id,
       en.name,
       en.threat_level,
       s.name AS species_name,
       p.name AS home_planet_name
FROM enemies en
LEFT JOIN species s ON s.id = en.species_id
LEFT JOIN planets p ON p.id = en.home_planet_id
WHERE en.id = ?`, enemyID).
		Scan(&row).Error
	if err != nil {
		return nil, apierrors.NewDatabaseError("reload enemy", err)
	}
	return &row, nil
}

// isMissingRelation detects "object not provisioned" errors across the
// supported dialects: sqlite "no such table/view", postgres undefined_table
// ("relation ... does not exist", SQLSTATE 42P01). A missing column is a
// different failure and must stay a generic database error.
func isMissingRelation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such table") ||
		strings.Contains(msg, "no such view") ||
		strings.Contains(msg, "sqlstate 42p01") ||
		(strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist"))
}
