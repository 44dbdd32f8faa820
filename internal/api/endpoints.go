package api

import "fmt"

// Gateway routes. The bearer credential is attached to every request except
// the login and registration endpoints.
const (
	endpointLogin    = "/auth/login"
	endpointRegister = "/auth/register"
	endpointBalance  = "/users/balance"
	endpointTopUp    = "/users/top-up"
	endpointConfirm  = "/users/check-payment"
)

func endpointPurchases(document string) string {
	return fmt.Sprintf("/purchases/%s", document)
}

func endpointStartPayment(document string) string {
	return fmt.Sprintf("/users/%s/start-payment", document)
}

// isAuthEndpoint reports whether a path belongs to the unauthenticated
// login/registration surface.
func isAuthEndpoint(path string) bool {
	return path == endpointLogin || path == endpointRegister
}
