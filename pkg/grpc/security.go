/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package grpc

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/carverauto/linkwatch/pkg/logger"
	"github.com/carverauto/linkwatch/pkg/models"
)

var (
	errUnsupportedSecurityMode    = errors.New("unsupported security mode")
	errFailedToLoadServerCert     = errors.New("failed to load server certificate")
	errFailedToReadClientCACert   = errors.New("failed to read client CA certificate")
	errFailedToAppendClientCACert = errors.New("failed to append client CA certificate")
)

// WithSecurity configures transport credentials from config. A nil config
// or mode "none" leaves the server in plaintext.
func WithSecurity(config *models.SecurityConfig, log logger.Logger) (ServerOption, error) {
	opt, err := ServerCredentials(config, log)
	if err != nil {
		return nil, err
	}

	if opt == nil {
		return func(*Server) {}, nil
	}

	return WithServerOptions(opt), nil
}

// ServerCredentials returns the grpc.Creds option for config, or nil when
// no transport security is configured.
func ServerCredentials(config *models.SecurityConfig, log logger.Logger) (grpc.ServerOption, error) {
	if config == nil {
		return nil, nil
	}

	switch config.Mode {
	case "", models.SecurityModeNone:
		log.Warn().Msg("gRPC health server running without transport security")

		return nil, nil
	case models.SecurityModeMTLS:
		creds, err := loadServerCredentials(config, log)
		if err != nil {
			return nil, err
		}

		return grpc.Creds(creds), nil
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedSecurityMode, config.Mode)
	}
}

func loadServerCredentials(config *models.SecurityConfig, log logger.Logger) (credentials.TransportCredentials, error) {
	certPath, keyPath, clientCaPath := normalizePaths(config, log)

	cert, err := loadServerCert(certPath, keyPath, log)
	if err != nil {
		return nil, err
	}

	clientCaPool, err := loadClientCAPool(clientCaPath, log)
	if err != nil {
		return nil, err
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		ClientCAs:    clientCaPool,
		ClientAuth:   tls.RequireAndVerifyClientCert,
		MinVersion:   tls.VersionTLS13,
	}

	return credentials.NewTLS(tlsConfig), nil
}

// normalizePaths resolves certificate paths against CertDir unless they
// are absolute or already under it.
func normalizePaths(config *models.SecurityConfig, log logger.Logger) (certPath, keyPath, clientCaPath string) {
	dirPrefix := filepath.Clean(config.CertDir) + string(filepath.Separator)

	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) || config.CertDir == "" || strings.HasPrefix(p, dirPrefix) {
			return p
		}

		return filepath.Join(config.CertDir, p)
	}

	certPath = resolve(config.TLS.CertFile)
	keyPath = resolve(config.TLS.KeyFile)
	clientCaPath = resolve(config.TLS.ClientCAFile)

	if clientCaPath == "" {
		log.Info().Str("caFile", config.TLS.CAFile).Msg("ClientCAFile not specified, using CAFile for client verification")

		clientCaPath = resolve(config.TLS.CAFile)
	}

	return certPath, keyPath, clientCaPath
}

func loadServerCert(certPath, keyPath string, log logger.Logger) (tls.Certificate, error) {
	log.Info().Str("certPath", certPath).Str("keyPath", keyPath).Msg("Loading server certificate")

	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("%w: %w", errFailedToLoadServerCert, err)
	}

	return cert, nil
}

func loadClientCAPool(clientCaPath string, log logger.Logger) (*x509.CertPool, error) {
	log.Info().Str("clientCaPath", clientCaPath).Msg("Loading server Client CA certificate")

	clientCaCert, err := os.ReadFile(clientCaPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedToReadClientCACert, err)
	}

	clientCaPool := x509.NewCertPool()
	if !clientCaPool.AppendCertsFromPEM(clientCaCert) {
		return nil, fmt.Errorf("%w: %s", errFailedToAppendClientCACert, clientCaPath)
	}

	return clientCaPool, nil
}
