package observability

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc/credentials"
)

// ExportConfig describes the OTLP collector a run sends traces and logs to.
type ExportConfig struct {
	Endpoint string
	// Protocol is "grpc" or "http/protobuf".
	Protocol string
	Insecure bool
	// CAFile is a PEM bundle used instead of the system roots.
	CAFile      string
	Headers     map[string]string
	Timeout     time.Duration
	Compression string
}

type otlpProtocol string

const (
	otlpProtocolGRPC otlpProtocol = "grpc"
	otlpProtocolHTTP otlpProtocol = "http/protobuf"
)

func parseOTLPProtocol(value string) (otlpProtocol, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(otlpProtocolGRPC):
		return otlpProtocolGRPC, nil
	case "http", string(otlpProtocolHTTP):
		return otlpProtocolHTTP, nil
	default:
		return "", fmt.Errorf("unsupported OTLP protocol %q (use grpc or http/protobuf)", value)
	}
}

// collector is an ExportConfig checked once and shared by every exporter of
// a run. A generation run is short, so exporters never retry: a missing
// collector costs one timeout at shutdown, not a backoff loop.
type collector struct {
	protocol otlpProtocol
	endpoint string
	// url is set when endpoint carries a scheme and path.
	url     bool
	tls     *tls.Config
	headers map[string]string
	timeout time.Duration
	gzip    bool
}

func newCollector(cfg ExportConfig) (collector, error) {
	protocol, err := parseOTLPProtocol(cfg.Protocol)
	if err != nil {
		return collector{}, err
	}
	c := collector{
		protocol: protocol,
		endpoint: cfg.Endpoint,
		url:      strings.HasPrefix(cfg.Endpoint, "http://") || strings.HasPrefix(cfg.Endpoint, "https://"),
		headers:  cfg.Headers,
		timeout:  cfg.Timeout,
		gzip:     cfg.Compression == "gzip",
	}
	if !cfg.Insecure {
		c.tls, err = loadTLS(cfg.CAFile)
		if err != nil {
			return collector{}, err
		}
	}
	return c, nil
}

func loadTLS(caFile string) (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if caFile == "" {
		return cfg, nil
	}
	pem, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("read OTLP CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("parse OTLP CA file %s: no certificates found", caFile)
	}
	cfg.RootCAs = pool
	return cfg, nil
}

func (c collector) spanExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	if c.protocol == otlpProtocolHTTP {
		opts := []otlptracehttp.Option{
			otlptracehttp.WithHeaders(c.headers),
			otlptracehttp.WithRetry(otlptracehttp.RetryConfig{Enabled: false}),
		}
		if c.url {
			opts = append(opts, otlptracehttp.WithEndpointURL(c.endpoint))
		} else {
			opts = append(opts, otlptracehttp.WithEndpoint(c.endpoint))
		}
		if c.tls == nil {
			opts = append(opts, otlptracehttp.WithInsecure())
		} else {
			opts = append(opts, otlptracehttp.WithTLSClientConfig(c.tls))
		}
		if c.timeout > 0 {
			opts = append(opts, otlptracehttp.WithTimeout(c.timeout))
		}
		if c.gzip {
			opts = append(opts, otlptracehttp.WithCompression(otlptracehttp.GzipCompression))
		}
		return otlptracehttp.New(ctx, opts...)
	}

	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(c.endpoint),
		otlptracegrpc.WithHeaders(c.headers),
		otlptracegrpc.WithRetry(otlptracegrpc.RetryConfig{Enabled: false}),
	}
	if c.tls == nil {
		opts = append(opts, otlptracegrpc.WithInsecure())
	} else {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewTLS(c.tls)))
	}
	if c.timeout > 0 {
		opts = append(opts, otlptracegrpc.WithTimeout(c.timeout))
	}
	if c.gzip {
		opts = append(opts, otlptracegrpc.WithCompressor("gzip"))
	}
	return otlptracegrpc.New(ctx, opts...)
}

func (c collector) logExporter(ctx context.Context) (sdklog.Exporter, error) {
	if c.protocol == otlpProtocolHTTP {
		opts := []otlploghttp.Option{
			otlploghttp.WithHeaders(c.headers),
			otlploghttp.WithRetry(otlploghttp.RetryConfig{Enabled: false}),
		}
		if c.url {
			opts = append(opts, otlploghttp.WithEndpointURL(c.endpoint))
		} else {
			opts = append(opts, otlploghttp.WithEndpoint(c.endpoint))
		}
		if c.tls == nil {
			opts = append(opts, otlploghttp.WithInsecure())
		} else {
			opts = append(opts, otlploghttp.WithTLSClientConfig(c.tls))
		}
		if c.timeout > 0 {
			opts = append(opts, otlploghttp.WithTimeout(c.timeout))
		}
		if c.gzip {
			opts = append(opts, otlploghttp.WithCompression(otlploghttp.GzipCompression))
		}
		return otlploghttp.New(ctx, opts...)
	}

	opts := []otlploggrpc.Option{
		otlploggrpc.WithEndpoint(c.endpoint),
		otlploggrpc.WithHeaders(c.headers),
		otlploggrpc.WithRetry(otlploggrpc.RetryConfig{Enabled: false}),
	}
	if c.tls == nil {
		opts = append(opts, otlploggrpc.WithInsecure())
	} else {
		opts = append(opts, otlploggrpc.WithTLSCredentials(credentials.NewTLS(c.tls)))
	}
	if c.timeout > 0 {
		opts = append(opts, otlploggrpc.WithTimeout(c.timeout))
	}
	if c.gzip {
		opts = append(opts, otlploggrpc.WithCompressor("gzip"))
	}
	return otlploggrpc.New(ctx, opts...)
}
