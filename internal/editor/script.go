package editor

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/prefab/internal/core/input"
	"github.com/zeusync/prefab/internal/core/models"
	"github.com/zeusync/prefab/internal/core/observability/log"
)

// Step is one scripted cycle. Spawn and Select are applied before the frame
// is fed to Update; Select ids refer to entities that are already live.
type Step struct {
	Spawn  string            `yaml:"spawn"`
	Select []models.EntityID `yaml:"select"`
	Frame  input.Frame       `yaml:"frame"`
}

// DecodeScript reads a YAML list of steps.
func DecodeScript(r io.Reader) ([]Step, error) {
	var steps []Step
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&steps); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("script: %w", err)
	}
	return steps, nil
}

// Run drives one Update per step. A failing step is logged and the script
// continues; the failures are returned joined.
func (e *Editor) Run(ctx context.Context, steps []Step) error {
	var errs []error
	for i, s := range steps {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}
		if err := e.step(ctx, s); err != nil {
			e.logger.Warn("script step failed", log.Int("step", i), log.Error(err))
			errs = append(errs, fmt.Errorf("step %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (e *Editor) step(ctx context.Context, s Step) error {
	var errs []error
	if s.Spawn != "" {
		id, err := e.Spawn(s.Spawn)
		if err != nil {
			errs = append(errs, err)
		} else {
			e.logger.Info("spawn queued", log.Uint32("id", uint32(id)), log.String("bundle", s.Spawn))
		}
	}
	for _, id := range s.Select {
		if err := e.Select(id); err != nil {
			errs = append(errs, err)
		}
	}
	if err := e.Update(ctx, s.Frame); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
