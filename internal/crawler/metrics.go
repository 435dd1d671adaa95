package crawler

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/thep200/github-code-crawler/crawler"

	metricReposTotal     = "crawler.repositories.total"
	metricFilesTotal     = "crawler.files.total"
	metricContentBytes   = "crawler.content.bytes"
	metricRepoDuration   = "crawler.repository.duration.seconds"
	metricSearchRequests = "crawler.search.pages.total"

	attrOutcome = "outcome"
)

// Metrics holds the OTel instruments of one crawl. All methods are no-ops on a nil receiver.
type Metrics struct {
	repos        metric.Int64Counter
	files        metric.Int64Counter
	contentBytes metric.Int64Counter
	repoDuration metric.Float64Histogram
	searchPages  metric.Int64Counter
}

// NewMetrics tạo instrument từ meter; nil thì dùng meter toàn cục của otel.
func NewMetrics(mt metric.Meter) (*Metrics, error) {
	if mt == nil {
		mt = otel.Meter(meterName)
	}

	var errs []error
	counter := func(name, desc, unit string) metric.Int64Counter {
		c, err := mt.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		errs = append(errs, err)
		return c
	}

	m := &Metrics{
		repos:        counter(metricReposTotal, "Repositories seen by the crawl, by outcome", "{repository}"),
		files:        counter(metricFilesTotal, "Source files collected", "{file}"),
		contentBytes: counter(metricContentBytes, "Bytes of decoded source collected", "By"),
		searchPages:  counter(metricSearchRequests, "Search result pages requested", "{page}"),
	}
	h, err := mt.Float64Histogram(metricRepoDuration,
		metric.WithDescription("Time spent collecting one repository"), metric.WithUnit("s"))
	errs = append(errs, err)
	m.repoDuration = h

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) RecordRepository(ctx context.Context, files int, bytes int, took time.Duration) {
	if m == nil {
		return
	}
	m.repos.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOutcome, "processed")))
	m.files.Add(ctx, int64(files))
	m.contentBytes.Add(ctx, int64(bytes))
	m.repoDuration.Record(ctx, took.Seconds())
}

func (m *Metrics) RecordSkip(ctx context.Context) {
	if m == nil {
		return
	}
	m.repos.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOutcome, "skipped")))
}

func (m *Metrics) RecordSearchPage(ctx context.Context) {
	if m == nil {
		return
	}
	m.searchPages.Add(ctx, 1)
}
