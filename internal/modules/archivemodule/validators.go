package archivemodule

import (
	"strings"

	"github.com/whoniverse/archive/internal/database"
	apierrors "github.com/whoniverse/archive/internal/errors"
)

// Minimum field requirements checked before any row reaches the database.

func validateDoctor(d *database.Doctor) []apierrors.FieldError {
	var errs []apierrors.FieldError
	if d.IncarnationNumber <= 0 {
		errs = append(errs, apierrors.FieldError{
			Field: "incarnation_number", Message: "must be a positive integer"})
	}
	if d.ActorID == 0 {
		errs = append(errs, apierrors.FieldError{
			Field: "actor_id", Message: "must be a positive integer"})
	}
	return errs
}

func validateEpisode(e *database.Episode) []apierrors.FieldError {
	var errs []apierrors.FieldError
	if strings.TrimSpace(e.Title) == "" {
		errs = append(errs, apierrors.FieldError{Field: "title", Message: "must not be empty"})
	}
	if e.SeasonID == 0 {
		errs = append(errs, apierrors.FieldError{
			Field: "season_id", Message: "must be a positive integer"})
	}
	return errs
}

func validateEnemy(e *database.Enemy) []apierrors.FieldError {
	var errs []apierrors.FieldError
	if strings.TrimSpace(e.Name) == "" {
		errs = append(errs, apierrors.FieldError{Field: "name", Message: "must not be empty"})
	}
	if e.ThreatLevel < 1 || e.ThreatLevel > 10 {
		errs = append(errs, apierrors.FieldError{
			Field: "threat_level", Message: "must be between 1 and 10"})
	}
	return errs
}

func requireName(field string) func(name string) []apierrors.FieldError {
	return func(name string) []apierrors.FieldError {
		if strings.TrimSpace(name) == "" {
			return []apierrors.FieldError{{Field: field, Message: "must not be empty"}}
		}
		return nil
	}
}

func requirePositive(field string, value uint) []apierrors.FieldError {
	if value == 0 {
		return []apierrors.FieldError{{Field: field, Message: "must be a positive integer"}}
	}
	return nil
}

// Partial-update checks for the same constraints, applied only to supplied
// fields. JSON numbers arrive as float64.

func validateDoctorPartial(fields map[string]interface{}) []apierrors.FieldError {
	var errs []apierrors.FieldError
	if v, present := numericField(fields, "incarnation_number"); present && v <= 0 {
		errs = append(errs, apierrors.FieldError{
			Field: "incarnation_number", Message: "must be a positive integer"})
	}
	if v, present := numericField(fields, "actor_id"); present && v <= 0 {
		errs = append(errs, apierrors.FieldError{
			Field: "actor_id", Message: "must be a positive integer"})
	}
	return errs
}

func validateEpisodePartial(fields map[string]interface{}) []apierrors.FieldError {
	var errs []apierrors.FieldError
	if raw, present := fields["title"]; present {
		if s, ok := raw.(string); !ok || strings.TrimSpace(s) == "" {
			errs = append(errs, apierrors.FieldError{Field: "title", Message: "must not be empty"})
		}
	}
	if v, present := numericField(fields, "season_id"); present && v <= 0 {
		errs = append(errs, apierrors.FieldError{
			Field: "season_id", Message: "must be a positive integer"})
	}
	return errs
}

func validateEnemyPartial(fields map[string]interface{}) []apierrors.FieldError {
	var errs []apierrors.FieldError
	if raw, present := fields["threat_level"]; present {
		v, numeric := asNumber(raw)
		if !numeric || v != float64(int(v)) || v < 1 || v > 10 {
			errs = append(errs, apierrors.FieldError{
				Field: "threat_level", Message: "must be an integer between 1 and 10"})
		}
	}
	return errs
}

func numericField(fields map[string]interface{}, key string) (float64, bool) {
	raw, present := fields[key]
	if !present {
		return 0, false
	}
	v, ok := asNumber(raw)
	if !ok {
		// Present but non-numeric still counts as a supplied, invalid value
		return -1, true
	}
	return v, true
}

func asNumber(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	}
	return 0, false
}
