// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"time"
)

// Resource
type Resource struct {
	ServiceName    string `yaml:"service_name"`
	ServiceVersion string `yaml:"service_version"`
}

// Batch
type Batch struct {
	ExportInterval time.Duration `yaml:"export_interval"`
	MaxSize        int           `yaml:"max_size"`
}

// OTLPConnType
type OTLPConnType string

const (
	OTLPHTTP OTLPConnType = "http"
	OTLPGRPC OTLPConnType = "grpc"
)

// OTLP describes an OpenTelemetry collector endpoint.
type OTLP struct {
	Type     OTLPConnType `yaml:"type"`
	Target   string       `yaml:"target"`
	Insecure bool         `yaml:"insecure"`
}

// SpanProcessorType
type SpanProcessorType string

const (
	BatchSpanProcessorType SpanProcessorType = "batch"
)

// SpanProcessor
type SpanProcessor struct {
	Type  SpanProcessorType `yaml:"type"`
	Batch Batch             `yaml:"batch"`
}

// SpanSampling
type SpanSampling struct {
	Ratio float64 `yaml:"ratio"`
}

// SpanExporterType
type SpanExporterType string

const (
	OTLPSpanExporterType SpanExporterType = "otlp"
)

// SpanExporter
type SpanExporter struct {
	Type SpanExporterType `yaml:"type"`
	OTLP OTLP             `yaml:"otlp"`
}

// Trace
type Trace struct {
	Processor SpanProcessor `yaml:"processor"`
	Sampling  SpanSampling  `yaml:"sampling"`
	Exporter  SpanExporter  `yaml:"exporter"`
}

// MetricReaderType
type MetricReaderType string

const (
	PeriodicReaderType MetricReaderType = "periodic"
)

type PeriodicReader struct {
	ExportInterval time.Duration `yaml:"export_interval"`
}

// MetricReader
type MetricReader struct {
	Type     MetricReaderType `yaml:"type"`
	Periodic PeriodicReader   `yaml:"periodic"`
}

// MetricExporterType
type MetricExporterType string

const (
	OTLPMetricExporterType MetricExporterType = "otlp"
)

// MetricExporter
type MetricExporter struct {
	Type MetricExporterType `yaml:"type"`
	OTLP OTLP               `yaml:"otlp"`
}

// Metric
type Metric struct {
	Reader   MetricReader   `yaml:"reader"`
	Exporter MetricExporter `yaml:"exporter"`
	Runtime  bool           `yaml:"runtime"`
}

// LogProcessorType
type LogProcessorType string

const (
	SimpleLogProcessorType LogProcessorType = "simple"
	BatchLogProcessorType  LogProcessorType = "batch"
)

// LogProcessor
type LogProcessor struct {
	Type  LogProcessorType `yaml:"type"`
	Batch Batch            `yaml:"batch"`
}

// LogExporterType
type LogExporterType string

const (
	OTLPLogExporterType LogExporterType = "otlp"
)

// LogExporter
type LogExporter struct {
	Type LogExporterType `yaml:"type"`
	OTLP OTLP            `yaml:"otlp"`
}

// Log
//
// Levels maps logger names, or prefixes of them, to the minimum level
// ("debug", "info", "warn", "error") of records which are exported.
type Log struct {
	Processor LogProcessor      `yaml:"processor"`
	Exporter  LogExporter       `yaml:"exporter"`
	Levels    map[string]string `yaml:"levels"`
}

// OTel
type OTel struct {
	Resource Resource `yaml:"resource"`
	Trace    Trace    `yaml:"trace"`
	Metric   Metric   `yaml:"metric"`
	Log      Log      `yaml:"log"`
}

// DefaultOTel returns telemetry settings which export nothing but logs,
// written to stderr, at info level and above.
func DefaultOTel() OTel {
	return OTel{
		Resource: Resource{
			ServiceName: "armada",
		},
		Trace: Trace{
			Processor: SpanProcessor{
				Type: BatchSpanProcessorType,
				Batch: Batch{
					ExportInterval: 5 * time.Second,
					MaxSize:        512,
				},
			},
			Sampling: SpanSampling{
				Ratio: 1,
			},
		},
		Metric: Metric{
			Reader: MetricReader{
				Type: PeriodicReaderType,
				Periodic: PeriodicReader{
					ExportInterval: time.Minute,
				},
			},
		},
		Log: Log{
			Processor: LogProcessor{
				Type: SimpleLogProcessorType,
			},
			Levels: map[string]string{
				"github.com/z5labs/armada": "info",
			},
		},
	}
}
