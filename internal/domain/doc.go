// Package domain contains shared domain types used across entity sub-packages.
// Entity-specific types live in sub-packages (domain/activity, domain/invitation,
// domain/workspace). This root package holds sentinel errors, validation types,
// and the weak entity reference model (Kind, Ref, Entity) that lets actions,
// follows, notifications and invitations point at any stored entity.
package domain
