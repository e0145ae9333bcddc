package vitals

import (
	"context"
	"time"

	"github.com/petprotect/hub/internal/errors"
	"github.com/petprotect/hub/internal/models"
	"github.com/petprotect/hub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// Sampler periodically pulls the latest collar snapshot for every
// collar-linked pet and feeds it to the edge detector. Samples older than
// the staleness window are dropped before they can touch alert state.
type Sampler struct {
	links    repository.DeviceLinkRepository
	pets     repository.PetRepository
	vitals   repository.VitalsRepository
	detector *Detector

	interval  time.Duration
	staleness time.Duration
	now       func() time.Time
}

func NewSampler(
	links repository.DeviceLinkRepository,
	pets repository.PetRepository,
	vitals repository.VitalsRepository,
	detector *Detector,
	interval, staleness time.Duration,
) *Sampler {
	return &Sampler{
		links:     links,
		pets:      pets,
		vitals:    vitals,
		detector:  detector,
		interval:  interval,
		staleness: staleness,
		now:       time.Now,
	}
}

// Run polls until the context is cancelled.
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	nuts.L.Infof("[Vitals] Sampler running every %s, staleness window %s", s.interval, s.staleness)

	for {
		select {
		case <-ctx.Done():
			nuts.L.Infof("[Vitals] Sampler stopped")
			return
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

// poll evaluates one round of samples for all collar-linked pets.
func (s *Sampler) poll(ctx context.Context) {
	links, err := s.links.ListByKind(ctx, models.DeviceCollar)
	if err != nil {
		nuts.L.Errorf("[Vitals] Failed to list collar links: %v", err)
		return
	}

	for _, link := range links {
		s.evaluatePet(ctx, link.PetID)
	}
}

func (s *Sampler) evaluatePet(ctx context.Context, petID string) {
	sample, err := s.vitals.Latest(ctx, petID)
	if err != nil {
		if !errors.IsNotFound(err) {
			nuts.L.Warnf("[Vitals] Failed to fetch sample for pet %s: %v", petID, err)
		}
		return
	}

	if IsStale(sample, s.now(), s.staleness) {
		nuts.L.Debugf("[Vitals] Dropping stale sample for pet %s (age %s)",
			petID, s.now().Sub(sample.Timestamp))
		return
	}

	pet, err := s.pets.Get(ctx, petID)
	if err != nil {
		nuts.L.Warnf("[Vitals] Failed to load pet %s for range lookup: %v", petID, err)
		return
	}

	s.detector.Evaluate(ctx, petID, sample, pet.Species, pet.AgeYears)
}
