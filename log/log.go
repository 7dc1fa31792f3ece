package log

import (
	"github.com/rs/zerolog"

	"github.com/pdcamargo/voidscript-storage/component"
	"github.com/pdcamargo/voidscript-storage/types/archetype"
	"github.com/pdcamargo/voidscript-storage/types/entity"
)

func loadComponentIntoArrayLogger(comp component.ComponentMetadata, arrayLogger *zerolog.Array) *zerolog.Array {
	dictLogger := zerolog.Dict()
	dictLogger = dictLogger.Int("component_id", int(comp.ID()))
	dictLogger = dictLogger.Str("component_name", comp.Name())
	return arrayLogger.Dict(dictLogger)
}

func loadComponentsToEvent(zeroLoggerEvent *zerolog.Event, comps []component.ComponentMetadata) *zerolog.Event {
	zeroLoggerEvent.Int("total_components", len(comps))
	arrayLogger := zerolog.Arr()
	for _, comp := range comps {
		arrayLogger = loadComponentIntoArrayLogger(comp, arrayLogger)
	}
	return zeroLoggerEvent.Array("components", arrayLogger)
}

// Components logs the given component metadata set.
func Components(logger *zerolog.Logger, level zerolog.Level, comps []component.ComponentMetadata) {
	zeroLoggerEvent := logger.WithLevel(level)
	zeroLoggerEvent = loadComponentsToEvent(zeroLoggerEvent, comps)
	zeroLoggerEvent.Send()
}

// Archetype logs an archetype's id and component signature.
func Archetype(logger *zerolog.Logger, level zerolog.Level, archID archetype.ID, comps []component.ComponentMetadata) {
	zeroLoggerEvent := logger.WithLevel(level)
	zeroLoggerEvent.Int("archetype_id", int(archID))
	zeroLoggerEvent = loadComponentsToEvent(zeroLoggerEvent, comps)
	zeroLoggerEvent.Send()
}

// Entity logs an entity's id, the archetype it lives in, and the archetype's
// components.
func Entity(
	logger *zerolog.Logger, level zerolog.Level, id entity.ID, archID archetype.ID,
	comps []component.ComponentMetadata,
) {
	zeroLoggerEvent := logger.WithLevel(level)
	zeroLoggerEvent.Uint64("entity_id", uint64(id))
	zeroLoggerEvent.Int("archetype_id", int(archID))
	zeroLoggerEvent = loadComponentsToEvent(zeroLoggerEvent, comps)
	zeroLoggerEvent.Send()
}

// CreateTraceLogger creates a trace logger. Using a single id you can use
// this logger to follow and log a data path.
func CreateTraceLogger(logger *zerolog.Logger, traceID string) zerolog.Logger {
	return logger.With().
		Str("trace_id", traceID).
		Logger()
}
