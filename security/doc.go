// Package security resolves how the connector authenticates the engine
// daemon over TLS and how it presents a client certificate.
//
// Resolution never fails: certificate files that are configured but missing
// are logged and skipped, so a misconfigured path degrades to the verify_ssl
// setting instead of aborting the call.
//
//	ctx := security.ResolveTLS(security.TLSConfig{
//	    VerifySSL: util.Ptr(true),
//	    CAFile:    "/certs/ca.pem",
//	    CertFile:  "/certs/cert.pem",
//	    KeyFile:   "/certs/key.pem",
//	}, log)
//	tlsConfig, err := ctx.Build()
package security
