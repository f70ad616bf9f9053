package databasemodule

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/whoniverse/archive/internal/logger"
)

// Names of the reporting views this module provisions
const (
	ViewDoctorEpisodeSummary   = "doctor_episode_summary"
	ViewEnemyAppearanceSummary = "enemy_appearance_summary"
)

// Provision creates the reporting views, replacing any stale definitions.
// The DDL differs per dialect only in the string-aggregation function.
func Provision(db *gorm.DB) error {
	dialect := db.Dialector.Name()
	logger.Info("Provisioning reporting views", "dialect", dialect)

	statements := []string{
		"DROP VIEW IF EXISTS " + ViewDoctorEpisodeSummary,
		doctorEpisodeSummaryDDL(),
		"DROP VIEW IF EXISTS " + ViewEnemyAppearanceSummary,
		enemyAppearanceSummaryDDL(dialect),
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range statements {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("provisioning failed: %w", err)
			}
		}
		return nil
	})
}

// doctorEpisodeSummaryDDL builds the per-doctor aggregate view. Episodes are
// reachable only through doctor_companions start/end references, matching the
// query module's join semantics.
func doctorEpisodeSummaryDDL() string {
	return `CREATE VIEW ` + ViewDoctorEpisodeSummary + ` AS
SELECT d.id AS doctor_id,
       d.incarnation_number,
       a.name AS actor_name,
       COUNT(DISTINCT dc.companion_id) AS companion_count,
       COUNT(DISTINCT e.id) AS episode_count,
       COUNT(DISTINCT ee.enemy_id) AS enemy_count,
       MIN(e.air_date) AS first_air_date,
       MAX(e.air_date) AS last_air_date
FROM doctors d
INNER JOIN actors a ON a.id = d.actor_id
LEFT JOIN doctor_companions dc ON dc.doctor_id = d.id
LEFT JOIN episodes e ON e.id = dc.start_episode_id OR e.id = dc.end_episode_id
LEFT JOIN enemy_episodes ee ON ee.episode_id = e.id
GROUP BY d.id, d.incarnation_number, a.name`
}

// enemyAppearanceSummaryDDL builds the per-enemy aggregate view with episode
// titles concatenated in air-date order. Both dialects order inside the
// aggregate itself (sqlite 3.44+ accepts ORDER BY in group_concat).
func enemyAppearanceSummaryDDL(dialect string) string {
	titleAgg := "GROUP_CONCAT(e.title, ', ' ORDER BY e.air_date)"
	if dialect == "postgres" {
		titleAgg = "STRING_AGG(e.title, ', ' ORDER BY e.air_date)"
	}

	return `CREATE VIEW ` + ViewEnemyAppearanceSummary + ` AS
SELECT en.id AS enemy_id,
       en.name AS enemy_name,
       en.threat_level,
       s.name AS species_name,
       p.name AS home_planet_name,
       COUNT(DISTINCT ee.episode_id) AS episode_count,
       ` + titleAgg + ` AS episode_titles
FROM enemies en
LEFT JOIN species s ON s.id = en.species_id
LEFT JOIN planets p ON p.id = en.home_planet_id
LEFT JOIN enemy_episodes ee ON ee.enemy_id = en.id
LEFT JOIN episodes e ON e.id = ee.episode_id
GROUP BY en.id, en.name, en.threat_level, s.name, p.name`
}
