// Package licensesdk provides the wire types, error codes and a Go client for
// the keygate licensing service.
//
// The package is shared between the service's HTTP handlers and loader-side
// tooling so both agree on the request/response shapes and error codes.
//
// Basic usage:
//
//	client := licensesdk.NewClient("https://license.example.com")
//	resp, err := client.Login(ctx, licensesdk.LoginRequest{
//		Username: "alice",
//		Password: "secret1",
//		HWID:     machineFingerprint(),
//	})
//	if err != nil {
//		// *licensesdk.APIError carries the typed outcome (bad_password,
//		// device_mismatch, subscription_expired, ...)
//	}
//	artifact, err := client.Download(ctx)
package licensesdk
