package service

import (
	"time"

	"github.com/whoniverse/archive/internal/database"
)

// DoctorFullDetails is the denormalized "doctor with full context" view:
// the doctor's own fields plus companions and companion-linked episodes.
type DoctorFullDetails struct {
	database.Doctor
	Companions []CompanionDetail `json:"companions"`
	Episodes   []EpisodeDetail   `json:"episodes"`
}

// CompanionDetail is one companion with its optional species and home
// planet. Both render as null when absent.
type CompanionDetail struct {
	ID             uint              `json:"id"`
	Name           string            `json:"name"`
	StartEpisodeID uint              `json:"start_episode_id"`
	EndEpisodeID   *uint             `json:"end_episode_id"`
	Species        *database.Species `json:"species"`
	HomePlanet     *database.Planet  `json:"home_planet"`
}

// EpisodeDetail is one episode with the enemies and planets recorded for it.
// The nested lists are empty, never omitted, when nothing is recorded.
type EpisodeDetail struct {
	ID             uint            `json:"id"`
	Title          string          `json:"title"`
	AirDate        *time.Time      `json:"air_date"`
	RuntimeMinutes int             `json:"runtime_minutes"`
	Enemies        []EpisodeEnemy  `json:"enemies"`
	Planets        []EpisodePlanet `json:"planets"`
}

// EpisodeEnemy annotates an enemy appearance within one episode
type EpisodeEnemy struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	ThreatLevel int    `json:"threat_level"`
	Role        string `json:"role"`
}

// EpisodePlanet annotates a planet visit within one episode
type EpisodePlanet struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	VisitOrder int    `json:"visit_order"`
}

// EpisodeFullDetails is the symmetric counterpart: one episode with its
// production credits, enemies, planets and every doctor whose companion
// span starts or ends at it.
type EpisodeFullDetails struct {
	database.Episode
	Enemies []EnemyWithRole  `json:"enemies"`
	Planets []EpisodePlanet  `json:"planets"`
	Doctors []DoctorWithCrew `json:"doctors"`
}

// EnemyWithRole is an enemy, with nested species and home planet, plus the
// role it played in the episode.
type EnemyWithRole struct {
	database.Enemy
	Role string `json:"role"`
}

// DoctorWithCrew is a doctor with its actor and companions attached
type DoctorWithCrew struct {
	database.Doctor
	Companions []database.Companion `json:"companions"`
}

// DoctorEpisodeSummaryRow mirrors one row of the doctor_episode_summary view
type DoctorEpisodeSummaryRow struct {
	DoctorID          uint       `json:"doctor_id"`
	IncarnationNumber int        `json:"incarnation_number"`
	ActorName         string     `json:"actor_name"`
	CompanionCount    int        `json:"companion_count"`
	EpisodeCount      int        `json:"episode_count"`
	EnemyCount        int        `json:"enemy_count"`
	FirstAirDate      *time.Time `json:"first_air_date"`
	LastAirDate       *time.Time `json:"last_air_date"`
}

// EnemyAppearanceSummaryRow mirrors one row of the enemy_appearance_summary view
type EnemyAppearanceSummaryRow struct {
	EnemyID        uint    `json:"enemy_id"`
	EnemyName      string  `json:"enemy_name"`
	ThreatLevel    int     `json:"threat_level"`
	SpeciesName    *string `json:"species_name"`
	HomePlanetName *string `json:"home_planet_name"`
	EpisodeCount   int     `json:"episode_count"`
	EpisodeTitles  *string `json:"episode_titles"`
}

// ThreatReportRow is one enemy in the threat-level report
type ThreatReportRow struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	ThreatLevel     int     `json:"threat_level"`
	SpeciesName     *string `json:"species_name"`
	HomePlanetName  *string `json:"home_planet_name"`
	AppearanceCount int     `json:"appearance_count"`
}

// DoctorEpisodeRow is one episode in the per-incarnation episode report
type DoctorEpisodeRow struct {
	ID             uint       `json:"id"`
	Title          string     `json:"title"`
	AirDate        *time.Time `json:"air_date"`
	RuntimeMinutes int        `json:"runtime_minutes"`
	SeasonNumber   int        `json:"season_number"`
	WriterName     *string    `json:"writer_name"`
	DirectorName   *string    `json:"director_name"`
	CompanionNames *string    `json:"companion_names"`
	EnemyNames     *string    `json:"enemy_names"`
}

// EnemyWithNames is an enemy row annotated with species and planet names,
// returned after a threat-level update.
type EnemyWithNames struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	ThreatLevel    int     `json:"threat_level"`
	SpeciesName    *string `json:"species_name"`
	HomePlanetName *string `json:"home_planet_name"`
}
