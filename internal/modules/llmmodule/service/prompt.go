package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/whoniverse/archive/internal/database"
)

// tableNames lists every table in the archive schema, used verbatim in the
// prompt so the model knows what it can reference.
var tableNames = []string{
	"actors", "doctors", "seasons", "writers", "directors", "episodes",
	"species", "planets", "companions", "doctor_companions", "enemies",
	"enemy_episodes", "episode_locations", "characters",
	"episode_appearances", "tardises",
}

// relationships describes the schema's foreign-key structure in prose
var relationships = []string{
	"each doctor is played by one actor and may reference a first and last episode",
	"each episode belongs to a season and may have a writer and a director",
	"doctor_companions links doctors to companions with a start episode and an optional end episode (null means still traveling)",
	"companions and enemies may have a species and a home planet",
	"enemy_episodes links enemies to the episodes they appear in with a role label",
	"episode_locations links episodes to the planets they visit in visit order",
	"episode_appearances links recurring characters to episodes",
	"a tardis may be piloted by a doctor",
}

// buildPrompt assembles the fixed schema summary with three sample rows
// each from doctors, episodes and enemies, serialized compactly.
func buildPrompt(ctx context.Context, db *gorm.DB) (string, error) {
	var b strings.Builder

	b.WriteString("You are an assistant answering questions about a television franchise database.\n\n")
	b.WriteString("Tables: ")
	b.WriteString(strings.Join(tableNames, ", "))
	b.WriteString("\n\nRelationships:\n")
	for _, r := range relationships {
		b.WriteString("- ")
		b.WriteString(r)
		b.WriteString("\n")
	}

	samples := []struct {
		label string
		rows  interface{}
	}{
		{"doctors", &[]database.Doctor{}},
		{"episodes", &[]database.Episode{}},
		{"enemies", &[]database.Enemy{}},
	}
	b.WriteString("\nSample data:\n")
	for _, s := range samples {
		if err := db.WithContext(ctx).Limit(3).Find(s.rows).Error; err != nil {
			return "", fmt.Errorf("failed to load %s samples: %w", s.label, err)
		}
		compact, err := json.Marshal(s.rows)
		if err != nil {
			return "", fmt.Errorf("failed to serialize %s samples: %w", s.label, err)
		}
		b.WriteString(s.label)
		b.WriteString(": ")
		b.Write(compact)
		b.WriteString("\n")
	}

	b.WriteString("\nAnswer the user's question using this schema and data.")
	return b.String(), nil
}
