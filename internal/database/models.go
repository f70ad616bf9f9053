// Package database holds the shared relational schema: sixteen tables
// modeling the franchise's doctors, episodes, companions, enemies and
// supporting entities.
package database

import (
	"time"
)

// Actor represents a performer who portrayed a doctor, companion or character
type Actor struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"not null;index" json:"name"`
	BirthDate   *time.Time `json:"birth_date"`
	Nationality string     `json:"nationality"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Doctor represents one incarnation of the Doctor
type Doctor struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	IncarnationNumber int       `gorm:"not null;uniqueIndex" json:"incarnation_number"`
	ActorID           uint      `gorm:"not null" json:"actor_id"`
	Actor             *Actor    `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	FirstEpisodeID    *uint     `json:"first_episode_id"`
	FirstEpisode      *Episode  `gorm:"foreignKey:FirstEpisodeID" json:"first_episode,omitempty"`
	LastEpisodeID     *uint     `json:"last_episode_id"`
	LastEpisode       *Episode  `gorm:"foreignKey:LastEpisodeID" json:"last_episode,omitempty"`
	Catchphrase       string    `json:"catchphrase"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Season represents a broadcast season
type Season struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SeasonNumber int       `gorm:"not null;index" json:"season_number"`
	StartYear    int       `json:"start_year"`
	EndYear      int       `json:"end_year"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Writer represents an episode writer
type Writer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;index" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Director represents an episode director
type Director struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;index" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Episode represents a single broadcast episode
type Episode struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Title          string     `gorm:"not null;index" json:"title"`
	SeasonID       uint       `gorm:"not null;index" json:"season_id"`
	Season         *Season    `gorm:"foreignKey:SeasonID" json:"season,omitempty"`
	WriterID       *uint      `json:"writer_id"`
	Writer         *Writer    `gorm:"foreignKey:WriterID" json:"writer,omitempty"`
	DirectorID     *uint      `json:"director_id"`
	Director       *Director  `gorm:"foreignKey:DirectorID" json:"director,omitempty"`
	AirDate        *time.Time `json:"air_date"`
	RuntimeMinutes int        `json:"runtime_minutes"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Species represents a species appearing in the franchise
type Species struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"not null;index" json:"name"`
	Classification string    `json:"classification"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Planet represents a planet visited or referenced in episodes
type Planet struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	Galaxy    string    `json:"galaxy"`
	Climate   string    `json:"climate"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Companion represents a companion who traveled with a doctor
type Companion struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null;index" json:"name"`
	SpeciesID    *uint     `json:"species_id"`
	Species      *Species  `gorm:"foreignKey:SpeciesID" json:"species,omitempty"`
	HomePlanetID *uint     `json:"home_planet_id"`
	HomePlanet   *Planet   `gorm:"foreignKey:HomePlanetID" json:"home_planet,omitempty"`
	ActorID      *uint     `json:"actor_id"`
	Actor        *Actor    `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DoctorCompanion links a doctor to a companion with the episode span of
// their travels. A null end episode means the pairing is still open-ended.
type DoctorCompanion struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	DoctorID       uint       `gorm:"not null;index" json:"doctor_id"`
	Doctor         *Doctor    `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	CompanionID    uint       `gorm:"not null;index" json:"companion_id"`
	Companion      *Companion `gorm:"foreignKey:CompanionID" json:"companion,omitempty"`
	StartEpisodeID uint       `gorm:"not null" json:"start_episode_id"`
	StartEpisode   *Episode   `gorm:"foreignKey:StartEpisodeID" json:"start_episode,omitempty"`
	EndEpisodeID   *uint      `json:"end_episode_id"`
	EndEpisode     *Episode   `gorm:"foreignKey:EndEpisodeID" json:"end_episode,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Enemy represents a recurring adversary with a 1-10 threat rating
type Enemy struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null;index" json:"name"`
	SpeciesID    *uint     `json:"species_id"`
	Species      *Species  `gorm:"foreignKey:SpeciesID" json:"species,omitempty"`
	HomePlanetID *uint     `json:"home_planet_id"`
	HomePlanet   *Planet   `gorm:"foreignKey:HomePlanetID" json:"home_planet,omitempty"`
	ThreatLevel  int       `gorm:"not null;check:threat_level >= 1 AND threat_level <= 10" json:"threat_level"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EnemyEpisode links an enemy to an episode it appeared in
type EnemyEpisode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EnemyID   uint      `gorm:"not null;index" json:"enemy_id"`
	Enemy     *Enemy    `gorm:"foreignKey:EnemyID" json:"enemy,omitempty"`
	EpisodeID uint      `gorm:"not null;index" json:"episode_id"`
	Episode   *Episode  `gorm:"foreignKey:EpisodeID" json:"episode,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EpisodeLocation links an episode to a planet it visits
type EpisodeLocation struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EpisodeID  uint      `gorm:"not null;index" json:"episode_id"`
	Episode    *Episode  `gorm:"foreignKey:EpisodeID" json:"episode,omitempty"`
	PlanetID   uint      `gorm:"not null;index" json:"planet_id"`
	Planet     *Planet   `gorm:"foreignKey:PlanetID" json:"planet,omitempty"`
	VisitOrder int       `json:"visit_order"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Character represents a recurring non-companion character
type Character struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;index" json:"name"`
	SpeciesID   *uint     `json:"species_id"`
	Species     *Species  `gorm:"foreignKey:SpeciesID" json:"species,omitempty"`
	ActorID     *uint     `json:"actor_id"`
	Actor       *Actor    `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Affiliation string    `json:"affiliation"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EpisodeAppearance links a character to an episode it appeared in
type EpisodeAppearance struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CharacterID uint       `gorm:"not null;index" json:"character_id"`
	Character   *Character `gorm:"foreignKey:CharacterID" json:"character,omitempty"`
	EpisodeID   uint       `gorm:"not null;index" json:"episode_id"`
	Episode     *Episode   `gorm:"foreignKey:EpisodeID" json:"episode,omitempty"`
	Role        string     `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Tardis represents a TARDIS and its current pilot
type Tardis struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Model            string    `gorm:"not null" json:"model"`
	DoctorID         *uint     `json:"doctor_id"`
	Doctor           *Doctor   `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	ConsoleRoomStyle string    `json:"console_room_style"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AllModels returns every schema model in migration order (parents first)
func AllModels() []interface{} {
	return []interface{}{
		&Actor{},
		&Season{},
		&Writer{},
		&Director{},
		&Species{},
		&Planet{},
		&Episode{},
		&Doctor{},
		&Companion{},
		&DoctorCompanion{},
		&Enemy{},
		&EnemyEpisode{},
		&EpisodeLocation{},
		&Character{},
		&EpisodeAppearance{},
		&Tardis{},
	}
}
