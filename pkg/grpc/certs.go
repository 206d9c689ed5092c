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
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/carverauto/linkwatch/pkg/models"
)

const (
	certValidity  = 24 * time.Hour
	certFilePerms = 0600
)

type certRole struct {
	name   string
	serial int64
	org    string
	usage  []x509.ExtKeyUsage
	dns    []string
}

// GenerateTestCertificates writes a CA plus server and client leaf
// certificates into dir and returns an mTLS SecurityConfig that uses the
// server pair. Files: root.pem, server.pem, server-key.pem, client.pem,
// client-key.pem.
func GenerateTestCertificates(dir string) (*models.SecurityConfig, error) {
	caKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}

	caTemplate := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{Organization: []string{"linkwatch test CA"}},
		NotBefore:             time.Now().Add(-time.Minute),
		NotAfter:              time.Now().Add(certValidity),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}

	caDER, err := x509.CreateCertificate(rand.Reader, caTemplate, caTemplate, &caKey.PublicKey, caKey)
	if err != nil {
		return nil, err
	}

	if err := saveCertAndKey(dir, "root", caDER, caKey); err != nil {
		return nil, err
	}

	caCert, err := x509.ParseCertificate(caDER)
	if err != nil {
		return nil, err
	}

	roles := []certRole{
		{name: "server", serial: 2, org: "linkwatch", usage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth}, dns: []string{"localhost"}},
		{name: "client", serial: 3, org: "linkwatch client", usage: []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth}},
	}

	for _, role := range roles {
		if err := issueLeaf(dir, role, caCert, caKey); err != nil {
			return nil, err
		}
	}

	return &models.SecurityConfig{
		Mode:       models.SecurityModeMTLS,
		CertDir:    dir,
		ServerName: "localhost",
		TLS: models.TLSConfig{
			CertFile: "server.pem",
			KeyFile:  "server-key.pem",
			CAFile:   "root.pem",
		},
	}, nil
}

func issueLeaf(dir string, role certRole, caCert *x509.Certificate, caKey *ecdsa.PrivateKey) error {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return err
	}

	template := &x509.Certificate{
		SerialNumber: big.NewInt(role.serial),
		Subject:      pkix.Name{Organization: []string{role.org}},
		NotBefore:    time.Now().Add(-time.Minute),
		NotAfter:     time.Now().Add(certValidity),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  role.usage,
		DNSNames:     role.dns,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, caCert, &key.PublicKey, caKey)
	if err != nil {
		return err
	}

	return saveCertAndKey(dir, role.name, der, key)
}

func saveCertAndKey(dir, name string, certDER []byte, key *ecdsa.PrivateKey) error {
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	if err := os.WriteFile(filepath.Join(dir, name+".pem"), certPEM, certFilePerms); err != nil {
		return err
	}

	keyBytes, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return err
	}

	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyBytes})

	return os.WriteFile(filepath.Join(dir, name+"-key.pem"), keyPEM, certFilePerms)
}
