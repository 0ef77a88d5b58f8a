// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package detector provides the OpenTelemetry resource detectors used
// to describe an armada process.
package detector

import (
	"context"
	"os"
	"path/filepath"
	"runtime/debug"

	"go.opentelemetry.io/otel/sdk"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
)

type telemetrySDK struct{}

func TelemetrySDK() resource.Detector {
	return telemetrySDK{}
}

func (telemetrySDK) Detect(context.Context) (*resource.Resource, error) {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.TelemetrySDKName("opentelemetry"),
		semconv.TelemetrySDKLanguageGo,
		semconv.TelemetrySDKVersion(sdk.Version()),
	), nil
}

type process struct{}

// Process describes the running process by its pid and executable name.
func Process() resource.Detector {
	return process{}
}

func (process) Detect(context.Context) (*resource.Resource, error) {
	executable, err := os.Executable()
	if err != nil {
		return resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ProcessPID(os.Getpid()),
		), nil
	}
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ProcessPID(os.Getpid()),
		semconv.ProcessExecutableName(filepath.Base(executable)),
	), nil
}

func Host() resource.Detector {
	return resource.StringDetector(semconv.SchemaURL, semconv.HostNameKey, os.Hostname)
}

func ServiceName(name string) resource.Detector {
	return resource.StringDetector(semconv.SchemaURL, semconv.ServiceNameKey, func() (string, error) {
		if len(name) > 0 {
			return name, nil
		}
		executable, err := os.Executable()
		if err != nil {
			return "unknown_service:go", nil
		}
		return "unknown_service:" + filepath.Base(executable), nil
	})
}

// ServiceVersion falls back to the main module version recorded
// in the build info when version is empty.
func ServiceVersion(version string) resource.Detector {
	return resource.StringDetector(semconv.SchemaURL, semconv.ServiceVersionKey, func() (string, error) {
		if len(version) > 0 {
			return version, nil
		}
		info, ok := debug.ReadBuildInfo()
		if !ok || info.Main.Version == "" {
			return "(devel)", nil
		}
		return info.Main.Version, nil
	})
}
