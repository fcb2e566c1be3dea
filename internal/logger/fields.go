package logger

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/model"
)

const (
	FieldTalentID = "talent_id"
	FieldTrack    = "sap_track"
	FieldStatus   = "placement_status"
	FieldJobID    = "job_id"
	FieldCompany  = "company_id"
	FieldProvider = "ai_provider"
	FieldModel    = "ai_model"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields, trimming whitespace and
// omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to the logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

func TalentFields(t *model.TalentProfile) []zap.Field {
	if t == nil {
		return nil
	}
	return StringFields(
		StringField{Key: FieldTalentID, Value: t.ID},
		StringField{Key: FieldTrack, Value: t.SAPTrack},
		StringField{Key: FieldStatus, Value: string(t.PlacementStatus)},
	)
}

func JobFields(j *model.Job) []zap.Field {
	if j == nil {
		return nil
	}
	return StringFields(
		StringField{Key: FieldJobID, Value: j.ID},
		StringField{Key: FieldCompany, Value: j.CompanyID},
	)
}

// AIFields describe the narrative provider and model.
func AIFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}
