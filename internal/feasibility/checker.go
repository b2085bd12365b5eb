package feasibility

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jgoulah/feasibility/pkg/models"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds each external call made by a check
const DefaultTimeout = 30 * time.Second

// Geocoder resolves a postcode to coordinates
type Geocoder interface {
	Resolve(ctx context.Context, postcode string) (models.Location, error)
}

// GenerationSource downloads a year of generation data for one technology
type GenerationSource interface {
	Fetch(ctx context.Context, loc models.Location, tech models.Technology, year int) (models.RawSeries, error)
}

// Checker runs feasibility checks against the external collaborators
type Checker struct {
	geocoder Geocoder
	source   GenerationSource
	timeout  time.Duration
	logger   *log.Logger
	now      func() time.Time
}

// NewChecker creates a new Checker. A non-positive timeout uses DefaultTimeout.
func NewChecker(geocoder Geocoder, source GenerationSource, timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checker{
		geocoder: geocoder,
		source:   source,
		timeout:  timeout,
		logger:   log.New(io.Discard, "", 0),
		now:      time.Now,
	}
}

// SetLogger sets where diagnostic output is written
func (c *Checker) SetLogger(l *log.Logger) {
	if l != nil {
		c.logger = l
	}
}

type fetchResult struct {
	raw models.RawSeries
	err error
}

// Run performs one feasibility check. Only a location that cannot be
// resolved fails the whole check; every per-technology problem is reported
// in the returned report.
func (c *Checker) Run(ctx context.Context, req Request) (*models.Report, error) {
	id := uuid.NewString()
	logger := log.New(c.logger.Writer(), fmt.Sprintf("[%s] ", id[:8]), c.logger.Flags())

	logger.Printf("Resolving postcode %s", req.Postcode)
	loc, err := c.resolve(ctx, req.Postcode)
	if err != nil {
		return nil, err
	}
	logger.Printf("Resolved %s to %.5f, %.5f", loc.Postcode, loc.Latitude, loc.Longitude)

	fetched := make([]fetchResult, len(models.Technologies))
	var g errgroup.Group
	for i, tech := range models.Technologies {
		g.Go(func() error {
			raw, err := c.fetch(ctx, loc, tech, req.Year)
			fetched[i] = fetchResult{raw: raw, err: err}
			return nil
		})
	}
	_ = g.Wait()

	report := &models.Report{
		RequestID:   id,
		GeneratedAt: c.now(),
		Location:    loc,
		Site:        req.Site,
		Tariff:      req.Tariff,
		Battery:     req.Battery,
		Year:        req.Year,
		Warnings:    []models.Warning{},
	}

	for i, tech := range models.Technologies {
		var outcome models.Outcome
		if fetched[i].err != nil {
			logger.Printf("Fetching %s data failed: %v", tech, fetched[i].err)
			outcome = models.FetchFailed{Tech: tech, Err: fetched[i].err}
		} else {
			logger.Printf("Fetched %d %s records", len(fetched[i].raw), tech)
			var warnings []models.Warning
			outcome, warnings = EvaluateTechnology(tech, fetched[i].raw, req)
			report.Warnings = append(report.Warnings, warnings...)
		}

		switch tech {
		case models.Solar:
			report.Solar = outcome
		case models.Wind:
			report.Wind = outcome
		}
		logger.Printf("%s outcome: %s", tech, outcome.Status())
	}

	return report, nil
}

func (c *Checker) resolve(ctx context.Context, postcode string) (models.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	loc, err := c.geocoder.Resolve(ctx, postcode)
	if err == nil {
		return loc, nil
	}

	var notFound *models.LocationNotFoundError
	if errors.As(err, &notFound) {
		return models.Location{}, err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return models.Location{}, &models.LocationNotFoundError{
			Postcode: postcode,
			Reason:   fmt.Sprintf("geocoding timed out after %s", c.timeout),
		}
	}
	return models.Location{}, &models.LocationNotFoundError{Postcode: postcode, Reason: err.Error()}
}

func (c *Checker) fetch(ctx context.Context, loc models.Location, tech models.Technology, year int) (models.RawSeries, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.source.Fetch(ctx, loc, tech, year)
	if err == nil {
		return raw, nil
	}

	var dse *models.DataServiceError
	if errors.As(err, &dse) {
		return nil, err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, &models.DataServiceError{
			Technology: tech,
			Detail:     fmt.Sprintf("request timed out after %s", c.timeout),
		}
	}
	return nil, &models.DataServiceError{Technology: tech, Detail: err.Error()}
}
