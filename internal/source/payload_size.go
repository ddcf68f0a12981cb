package source

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/goodnatureofminers/blockinsight7000-sampler/internal/source"

// payloadSize records the size of every payload a source returns.
type payloadSize struct {
	histogram metric.Int64Histogram
	attrs     metric.MeasurementOption
}

func newPayloadSize(source string) (payloadSize, error) {
	histogram, err := otel.Meter(meterName).Int64Histogram(
		"sampler.source.payload.size",
		metric.WithUnit("By"),
		metric.WithDescription("Size of payloads returned by a source."),
	)
	if err != nil {
		return payloadSize{}, err
	}
	return payloadSize{
		histogram: histogram,
		attrs:     metric.WithAttributeSet(attribute.NewSet(attribute.String("source", source))),
	}, nil
}

func (p payloadSize) record(ctx context.Context, method string, payload []byte) {
	p.histogram.Record(ctx, int64(len(payload)), p.attrs, metric.WithAttributes(attribute.String("method", method)))
}
