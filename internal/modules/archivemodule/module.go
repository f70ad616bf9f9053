// Package archivemodule exposes the entity access layer: uniform CRUD over
// every table in the archive schema.
package archivemodule

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/whoniverse/archive/internal/database"
	apierrors "github.com/whoniverse/archive/internal/errors"
	"github.com/whoniverse/archive/internal/logger"
	"github.com/whoniverse/archive/internal/modules/archivemodule/api"
	"github.com/whoniverse/archive/internal/modules/archivemodule/repository"
	"github.com/whoniverse/archive/internal/modules/modulemanager"
)

func init() {
	Register()
}

const (
	ModuleID   = "system.archive"
	ModuleName = "Archive Entities"
)

// Module implements the entity access layer as a module
type Module struct {
	actors             *repository.Repository[database.Actor]
	doctors            *repository.Repository[database.Doctor]
	seasons            *repository.Repository[database.Season]
	writers            *repository.Repository[database.Writer]
	directors          *repository.Repository[database.Director]
	episodes           *repository.Repository[database.Episode]
	species            *repository.Repository[database.Species]
	planets            *repository.Repository[database.Planet]
	companions         *repository.Repository[database.Companion]
	doctorCompanions   *repository.Repository[database.DoctorCompanion]
	enemies            *repository.Repository[database.Enemy]
	enemyEpisodes      *repository.Repository[database.EnemyEpisode]
	episodeLocations   *repository.Repository[database.EpisodeLocation]
	characters         *repository.Repository[database.Character]
	episodeAppearances *repository.Repository[database.EpisodeAppearance]
	tardises           *repository.Repository[database.Tardis]
}

// Register registers the archive module with the module system
func Register() {
	modulemanager.Register(&Module{})
}

func (m *Module) ID() string   { return ModuleID }
func (m *Module) Name() string { return ModuleName }
func (m *Module) Core() bool   { return true }

// Dependencies requires the schema to exist before repositories are built
func (m *Module) Dependencies() []string {
	return []string{"system.database"}
}

// Migrate is a no-op; the database module owns the shared schema
func (m *Module) Migrate(db *gorm.DB) error {
	return nil
}

// Init constructs one repository per entity
func (m *Module) Init(db *gorm.DB) error {
	logger.Info("Initializing archive repositories")

	m.actors = repository.New(db, repository.Config[database.Actor]{
		Resource: "actor",
		Validate: func(a *database.Actor) []apierrors.FieldError {
			return requireName("name")(a.Name)
		},
	})
	m.doctors = repository.New(db, repository.Config[database.Doctor]{
		Resource:        "doctor",
		Preloads:        []string{"Actor", "FirstEpisode", "LastEpisode"},
		Validate:        validateDoctor,
		ValidatePartial: validateDoctorPartial,
	})
	m.seasons = repository.New(db, repository.Config[database.Season]{
		Resource: "season",
		Validate: func(s *database.Season) []apierrors.FieldError {
			if s.SeasonNumber <= 0 {
				return []apierrors.FieldError{{Field: "season_number", Message: "must be a positive integer"}}
			}
			return nil
		},
	})
	m.writers = repository.New(db, repository.Config[database.Writer]{
		Resource: "writer",
		Validate: func(w *database.Writer) []apierrors.FieldError {
			return requireName("name")(w.Name)
		},
	})
	m.directors = repository.New(db, repository.Config[database.Director]{
		Resource: "director",
		Validate: func(d *database.Director) []apierrors.FieldError {
			return requireName("name")(d.Name)
		},
	})
	m.episodes = repository.New(db, repository.Config[database.Episode]{
		Resource:        "episode",
		Preloads:        []string{"Season", "Writer", "Director"},
		Validate:        validateEpisode,
		ValidatePartial: validateEpisodePartial,
	})
	m.species = repository.New(db, repository.Config[database.Species]{
		Resource: "species",
		Validate: func(s *database.Species) []apierrors.FieldError {
			return requireName("name")(s.Name)
		},
	})
	m.planets = repository.New(db, repository.Config[database.Planet]{
		Resource: "planet",
		Validate: func(p *database.Planet) []apierrors.FieldError {
			return requireName("name")(p.Name)
		},
	})
	m.companions = repository.New(db, repository.Config[database.Companion]{
		Resource: "companion",
		Preloads: []string{"Species", "HomePlanet", "Actor"},
		Validate: func(c *database.Companion) []apierrors.FieldError {
			return requireName("name")(c.Name)
		},
	})
	m.doctorCompanions = repository.New(db, repository.Config[database.DoctorCompanion]{
		Resource: "doctor-companion link",
		Preloads: []string{"Doctor", "Companion", "StartEpisode", "EndEpisode"},
		Validate: func(dc *database.DoctorCompanion) []apierrors.FieldError {
			var errs []apierrors.FieldError
			errs = append(errs, requirePositive("doctor_id", dc.DoctorID)...)
			errs = append(errs, requirePositive("companion_id", dc.CompanionID)...)
			errs = append(errs, requirePositive("start_episode_id", dc.StartEpisodeID)...)
			return errs
		},
	})
	m.enemies = repository.New(db, repository.Config[database.Enemy]{
		Resource:        "enemy",
		Preloads:        []string{"Species", "HomePlanet"},
		Validate:        validateEnemy,
		ValidatePartial: validateEnemyPartial,
	})
	m.enemyEpisodes = repository.New(db, repository.Config[database.EnemyEpisode]{
		Resource: "enemy-episode link",
		Preloads: []string{"Enemy", "Episode"},
		Validate: func(ee *database.EnemyEpisode) []apierrors.FieldError {
			var errs []apierrors.FieldError
			errs = append(errs, requirePositive("enemy_id", ee.EnemyID)...)
			errs = append(errs, requirePositive("episode_id", ee.EpisodeID)...)
			return errs
		},
	})
	m.episodeLocations = repository.New(db, repository.Config[database.EpisodeLocation]{
		Resource: "episode location",
		Preloads: []string{"Episode", "Planet"},
		Validate: func(el *database.EpisodeLocation) []apierrors.FieldError {
			var errs []apierrors.FieldError
			errs = append(errs, requirePositive("episode_id", el.EpisodeID)...)
			errs = append(errs, requirePositive("planet_id", el.PlanetID)...)
			return errs
		},
	})
	m.characters = repository.New(db, repository.Config[database.Character]{
		Resource: "character",
		Preloads: []string{"Species", "Actor"},
		Validate: func(ch *database.Character) []apierrors.FieldError {
			return requireName("name")(ch.Name)
		},
	})
	m.episodeAppearances = repository.New(db, repository.Config[database.EpisodeAppearance]{
		Resource: "episode appearance",
		Preloads: []string{"Character", "Episode"},
		Validate: func(ea *database.EpisodeAppearance) []apierrors.FieldError {
			var errs []apierrors.FieldError
			errs = append(errs, requirePositive("character_id", ea.CharacterID)...)
			errs = append(errs, requirePositive("episode_id", ea.EpisodeID)...)
			return errs
		},
	})
	m.tardises = repository.New(db, repository.Config[database.Tardis]{
		Resource: "tardis",
		Validate: func(t *database.Tardis) []apierrors.FieldError {
			return requireName("model")(t.Model)
		},
	})

	return nil
}

// RegisterRoutes registers the CRUD surface for all sixteen entities
func (m *Module) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api")

	api.RegisterCRUD(group, "actors", m.actors)
	api.RegisterCRUD(group, "doctors", m.doctors)
	api.RegisterCRUD(group, "seasons", m.seasons)
	api.RegisterCRUD(group, "writers", m.writers)
	api.RegisterCRUD(group, "directors", m.directors)
	api.RegisterCRUD(group, "episodes", m.episodes)
	api.RegisterCRUD(group, "species", m.species)
	api.RegisterCRUD(group, "planets", m.planets)
	api.RegisterCRUD(group, "companions", m.companions)
	api.RegisterCRUD(group, "doctor-companions", m.doctorCompanions)
	api.RegisterCRUD(group, "enemies", m.enemies)
	api.RegisterCRUD(group, "enemy-episodes", m.enemyEpisodes)
	api.RegisterCRUD(group, "episode-locations", m.episodeLocations)
	api.RegisterCRUD(group, "characters", m.characters)
	api.RegisterCRUD(group, "episode-appearances", m.episodeAppearances)
	api.RegisterCRUD(group, "tardises", m.tardises)
}
