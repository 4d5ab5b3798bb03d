package certificates_test

import (
	"crypto/tls"
	"crypto/x509"
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/evidentia/evidence-store/pkg/certificates"
)

var _ = Describe("Certificate provider", func() {
	Context("self signed certificate", func() {
		It("generates successfully", func() {
			cert, key, err := certificates.GenerateSelfSignedCertificate(time.Now().Add(10 * time.Second))
			Expect(err).To(BeNil())
			Expect(key).ToNot(BeNil())
			Expect(key.N.BitLen()).To(Equal(2048))

			Expect(cert.Issuer.Organization).Should(ContainElement("Evidentia"))
			Expect(cert.Subject.OrganizationalUnit).Should(ContainElement("Evidence Store"))
		})

		// Given a certificate with a future expiry
		// When we check the certificate validity
		// Then NotBefore should be before NotAfter
		It("has correct validity period", func() {
			expiry := time.Now().Add(24 * time.Hour)
			cert, _, err := certificates.GenerateSelfSignedCertificate(expiry)
			Expect(err).To(BeNil())

			Expect(cert.NotBefore).To(BeTemporally("<", cert.NotAfter))
			Expect(cert.NotAfter).To(BeTemporally("~", expiry, time.Second))
		})

		// Given no hosts
		// When a certificate is generated
		// Then it covers the loopback names
		It("covers localhost by default", func() {
			cert, _, err := certificates.GenerateSelfSignedCertificate(time.Now().Add(time.Hour))
			Expect(err).To(BeNil())

			Expect(cert.DNSNames).To(Equal([]string{"localhost"}))
			Expect(cert.IPAddresses).To(HaveLen(2))
			Expect(cert.VerifyHostname("localhost")).To(Succeed())
			Expect(cert.ExtKeyUsage).To(ContainElement(x509.ExtKeyUsageServerAuth))
		})

		It("splits hosts into names and addresses", func() {
			cert, _, err := certificates.GenerateSelfSignedCertificate(time.Now().Add(time.Hour), "evidence.example.org", "10.0.0.7")
			Expect(err).To(BeNil())

			Expect(cert.DNSNames).To(Equal([]string{"evidence.example.org"}))
			Expect(cert.IPAddresses[0].Equal(net.ParseIP("10.0.0.7"))).To(BeTrue())
		})
	})

	Context("TLS config", func() {
		It("carries the key pair", func() {
			cert, key, err := certificates.GenerateSelfSignedCertificate(time.Now().Add(time.Hour))
			Expect(err).To(BeNil())

			cfg, err := certificates.TLSConfig(cert, key)
			Expect(err).To(BeNil())
			Expect(cfg.Certificates).To(HaveLen(1))
			Expect(cfg.MinVersion).To(Equal(uint16(tls.VersionTLS12)))
		})
	})
})
