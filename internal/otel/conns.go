// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otel

import (
	"context"
	"crypto/tls"
	"errors"
	"sync"

	"github.com/z5labs/armada/config"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// conns shares one gRPC client connection per collector target between
// the trace, metric and log exporters.
type conns struct {
	mu       sync.Mutex
	byTarget map[string]*grpc.ClientConn
}

func newConns() *conns {
	return &conns{
		byTarget: make(map[string]*grpc.ClientConn),
	}
}

func (c *conns) get(cfg config.OTLP) (*grpc.ClientConn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cc, ok := c.byTarget[cfg.Target]
	if ok {
		return cc, nil
	}

	creds := credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	if cfg.Insecure {
		creds = insecure.NewCredentials()
	}

	cc, err := grpc.NewClient(cfg.Target, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, err
	}
	c.byTarget[cfg.Target] = cc
	return cc, nil
}

// Close closes every connection opened by get.
func (c *conns) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for target, cc := range c.byTarget {
		errs = append(errs, cc.Close())
		delete(c.byTarget, target)
	}
	return errors.Join(errs...)
}
