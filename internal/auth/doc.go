// Package auth provides authentication functionality for the application.
//
// This package implements the authentication half of access control with
// support for multiple authentication sources:
//   - Local database authentication with Argon2id password hashing
//   - LDAP/Active Directory authentication for enterprise deployments
//   - OpenID Connect (OIDC) authentication with external identity providers
//     such as Auth0, Okta and Keycloak
//
// # Authentication Providers
//
// LocalProvider handles traditional username/password authentication against
// the local database with secure Argon2id password hashing. It also carries
// the administrative user lifecycle: create, update, activate, deactivate,
// password reset and role assignment.
//
// LDAPProvider connects to LDAP or Active Directory servers and provisions
// directory users on first login, recording the user's DN as the external id.
//
// OIDCProvider implements OAuth2/OIDC flows for authentication with external
// identity providers. The token's "sub" claim is persisted as the user's
// external id, which the authorization engine's identity resolver matches
// when requests arrive carrying a provider subject instead of a primary key.
//
// Authorization itself (who may do what) is the concern of the authz package;
// this package only establishes who the caller is.
package auth
