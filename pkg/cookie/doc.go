// Package cookie builds outgoing cookies and reads raw Cookie header values.
//
// The Manager holds the attributes applied to every cookie it builds. Names and
// values are URL-encoded on the way out and URL-decoded on the way in, so any
// string round-trips through a cookie unchanged.
//
// # Basic Usage
//
//	m := cookie.New(
//		cookie.WithPath("/"),
//		cookie.WithSecure(true),
//	)
//	c := m.Build("id", "12345", 0)
//	http.SetCookie(w, c)
//
// Reading works on the raw header values, as delivered by the transport:
//
//	value, err := cookie.Lookup(headers["cookie"], "id")
//	if errors.Is(err, cookie.ErrNotFound) {
//		// no such cookie
//	}
//
// # Configuration
//
// Use options to configure cookie attributes:
//   - [WithDomain]: Set the cookie domain
//   - [WithPath]: Set the cookie path (default: "/")
//   - [WithSecure]: Set the Secure flag (HTTPS only)
//   - [WithHTTPOnly]: Set the HttpOnly flag (default: true)
//   - [WithSameSite]: Set the SameSite attribute (default: Lax)
package cookie
