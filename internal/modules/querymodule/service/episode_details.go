package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/whoniverse/archive/internal/database"
	apierrors "github.com/whoniverse/archive/internal/errors"
)

// EpisodeFullDetails assembles the full contextual view of one episode:
// the episode with its season, writer and director, its enemies and
// planets, and every doctor whose companion pairing starts or ends at it.
func (s *Service) EpisodeFullDetails(ctx context.Context, episodeID uint) (*EpisodeFullDetails, error) {
	var episode database.Episode
	err := s.db.WithContext(ctx).
		Preload("Season").
		Preload("Writer").
		Preload("Director").
		First(&episode, episodeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NewNotFoundError("episode", episodeID)
		}
		return nil, apierrors.NewDatabaseError("get episode", err)
	}

	result := &EpisodeFullDetails{
		Episode: episode,
		Enemies: []EnemyWithRole{},
		Planets: []EpisodePlanet{},
		Doctors: []DoctorWithCrew{},
	}

	var appearances []database.EnemyEpisode
	err = s.db.WithContext(ctx).
		Preload("Enemy.Species").
		Preload("Enemy.HomePlanet").
		Where("episode_id = ?", episodeID).
		Find(&appearances).Error
	if err != nil {
		return nil, apierrors.NewDatabaseError("get episode enemies", err)
	}
	for _, app := range appearances {
		if app.Enemy == nil {
			continue
		}
		result.Enemies = append(result.Enemies, EnemyWithRole{Enemy: *app.Enemy, Role: app.Role})
	}

	var locations []database.EpisodeLocation
	err = s.db.WithContext(ctx).
		Preload("Planet").
		Where("episode_id = ?", episodeID).
		Order("visit_order").
		Find(&locations).Error
	if err != nil {
		return nil, apierrors.NewDatabaseError("get episode planets", err)
	}
	for _, loc := range locations {
		if loc.Planet == nil {
			continue
		}
		result.Planets = append(result.Planets, EpisodePlanet{
			ID: loc.Planet.ID, Name: loc.Planet.Name, VisitOrder: loc.VisitOrder,
		})
	}

	doctors, err := s.doctorsForEpisode(ctx, episodeID)
	if err != nil {
		return nil, err
	}
	result.Doctors = doctors

	return result, nil
}

// doctorsForEpisode finds every doctor with a companion pairing starting or
// ending at the episode, attaching each doctor's actor and companions.
func (s *Service) doctorsForEpisode(ctx context.Context, episodeID uint) ([]DoctorWithCrew, error) {
	var links []database.DoctorCompanion
	err := s.db.WithContext(ctx).
		Where("start_episode_id = ? OR end_episode_id = ?", episodeID, episodeID).
		Find(&links).Error
	if err != nil {
		return nil, apierrors.NewDatabaseError("get episode doctors", err)
	}

	seen := make(map[uint]bool)
	var doctorIDs []uint
	for _, link := range links {
		if !seen[link.DoctorID] {
			seen[link.DoctorID] = true
			doctorIDs = append(doctorIDs, link.DoctorID)
		}
	}

	result := []DoctorWithCrew{}
	if len(doctorIDs) == 0 {
		return result, nil
	}

	var doctors []database.Doctor
	err = s.db.WithContext(ctx).
		Preload("Actor").
		Where("id IN ?", doctorIDs).
		Order("incarnation_number").
		Find(&doctors).Error
	if err != nil {
		return nil, apierrors.NewDatabaseError("get episode doctors", err)
	}

	for _, doctor := range doctors {
		var crew []database.Companion
		err = s.db.WithContext(ctx).
			Joins("INNER JOIN doctor_companions ON doctor_companions.companion_id = companions.id").
			Where("doctor_companions.doctor_id = ?", doctor.ID).
			Distinct("companions.*").
			Find(&crew).Error
		if err != nil {
			return nil, apierrors.NewDatabaseError("get doctor companions", err)
		}
		result = append(result, DoctorWithCrew{Doctor: doctor, Companions: crew})
	}

	return result, nil
}
