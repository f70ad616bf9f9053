package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/whoniverse/archive/internal/database"
	apierrors "github.com/whoniverse/archive/internal/errors"
)

// DoctorFullDetails assembles the full contextual view of one doctor: the
// doctor with its actor and first/last episodes, every companion ever
// linked to it, and every episode referenced as a start or end episode of
// those pairings.
//
// Episodes enter the result only through the doctor-companion rows. The
// doctor's own first/last episode fields are not merged into the episode
// list; they appear solely on the doctor itself.
func (s *Service) DoctorFullDetails(ctx context.Context, doctorID uint) (*DoctorFullDetails, error) {
	var doctor database.Doctor
	err := s.db.WithContext(ctx).
		Preload("Actor").
		Preload("FirstEpisode").
		Preload("LastEpisode").
		First(&doctor, doctorID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NewNotFoundError("doctor", doctorID)
		}
		return nil, apierrors.NewDatabaseError("get doctor", err)
	}

	var links []database.DoctorCompanion
	err = s.db.WithContext(ctx).
		Preload("Companion.Species").
		Preload("Companion.HomePlanet").
		Where("doctor_id = ?", doctorID).
		Find(&links).Error
	if err != nil {
		return nil, apierrors.NewDatabaseError("get doctor companions", err)
	}

	result := &DoctorFullDetails{
		Doctor:     doctor,
		Companions: make([]CompanionDetail, 0, len(links)),
		Episodes:   []EpisodeDetail{},
	}

	// Companions deduplicated by companion identity; episode ids collected
	// from the start/end references of every pairing row.
	seenCompanions := make(map[uint]bool)
	seenEpisodes := make(map[uint]bool)
	var episodeIDs []uint
	for _, link := range links {
		if link.Companion != nil && !seenCompanions[link.CompanionID] {
			seenCompanions[link.CompanionID] = true
			result.Companions = append(result.Companions, CompanionDetail{
				ID:             link.Companion.ID,
				Name:           link.Companion.Name,
				StartEpisodeID: link.StartEpisodeID,
				EndEpisodeID:   link.EndEpisodeID,
				Species:        link.Companion.Species,
				HomePlanet:     link.Companion.HomePlanet,
			})
		}
		if !seenEpisodes[link.StartEpisodeID] {
			seenEpisodes[link.StartEpisodeID] = true
			episodeIDs = append(episodeIDs, link.StartEpisodeID)
		}
		if link.EndEpisodeID != nil && !seenEpisodes[*link.EndEpisodeID] {
			seenEpisodes[*link.EndEpisodeID] = true
			episodeIDs = append(episodeIDs, *link.EndEpisodeID)
		}
	}

	if len(episodeIDs) == 0 {
		return result, nil
	}

	var episodes []database.Episode
	err = s.db.WithContext(ctx).
		Where("id IN ?", episodeIDs).
		Order("id").
		Find(&episodes).Error
	if err != nil {
		return nil, apierrors.NewDatabaseError("get companion episodes", err)
	}

	enemies, planets, err := s.episodeContext(ctx, episodeIDs)
	if err != nil {
		return nil, err
	}

	// Per-episode lists are a linear filter over the flat per-set results;
	// fine at this data scale.
	for _, ep := range episodes {
		detail := EpisodeDetail{
			ID:             ep.ID,
			Title:          ep.Title,
			AirDate:        ep.AirDate,
			RuntimeMinutes: ep.RuntimeMinutes,
			Enemies:        []EpisodeEnemy{},
			Planets:        []EpisodePlanet{},
		}
		for _, en := range enemies {
			if en.EpisodeID == ep.ID {
				detail.Enemies = append(detail.Enemies, EpisodeEnemy{
					ID: en.EnemyID, Name: en.Name, ThreatLevel: en.ThreatLevel, Role: en.Role,
				})
			}
		}
		for _, pl := range planets {
			if pl.EpisodeID == ep.ID {
				detail.Planets = append(detail.Planets, EpisodePlanet{
					ID: pl.PlanetID, Name: pl.Name, VisitOrder: pl.VisitOrder,
				})
			}
		}
		result.Episodes = append(result.Episodes, detail)
	}

	return result, nil
}

type episodeEnemyRow struct {
	EpisodeID   uint
	EnemyID     uint
	Name        string
	ThreatLevel int
	Role        string
}

type episodePlanetRow struct {
	EpisodeID  uint
	PlanetID   uint
	Name       string
	VisitOrder int
}

// episodeContext fetches the enemies and planets recorded for a set of
// episodes in two flat queries.
func (s *Service) episodeContext(ctx context.Context, episodeIDs []uint) ([]episodeEnemyRow, []episodePlanetRow, error) {
	var enemies []episodeEnemyRow
	err := s.db.WithContext(ctx).
		Table("enemy_episodes").
		Select("enemy_episodes.episode_id, enemies.id AS enemy_id, enemies.name, enemies.threat_level, enemy_episodes.role").
		Joins("INNER JOIN enemies ON enemies.id = enemy_episodes.enemy_id").
		Where("enemy_episodes.episode_id IN ?", episodeIDs).
		Scan(&enemies).Error
	if err != nil {
		return nil, nil, apierrors.NewDatabaseError("get episode enemies", err)
	}

	var planets []episodePlanetRow
	err = s.db.WithContext(ctx).
		Table("episode_locations").
		Select("episode_locations.episode_id, planets.id AS planet_id, planets.name, episode_locations.visit_order").
		Joins("INNER JOIN planets ON planets.id = episode_locations.planet_id").
		Where("episode_locations.episode_id IN ?", episodeIDs).
		Order("episode_locations.visit_order").
		Scan(&planets).Error
	if err != nil {
		return nil, nil, apierrors.NewDatabaseError("get episode planets", err)
	}

	return enemies, planets, nil
}
