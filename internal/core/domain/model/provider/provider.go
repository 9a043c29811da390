package provider

import (
	"errors"
	"strings"

	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/pkg/errs"
	"roadside/internal/pkg/guard"
)

// Domain errors for provider operations.
var (
	// ErrProviderIsNotConstructed is returned when using an improperly
	// initialized Provider.
	ErrProviderIsNotConstructed = errors.New(
		"Provider must be created via NewProvider or RestoreProvider constructor")
	// ErrNameIsRequired is returned when the provider name is blank.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
)

// Capabilities carries a provider's service-capability tags. Dispatch
// matches job requirement tags against these sets. Tow-truck types and
// categories match strictly: the set must contain the requested tag. The
// vehicle-type set is permissive: an empty set means "tows everything", so
// freshly registered tow operators are matchable before they fill out
// their profile.
type Capabilities struct {
	// TowTruckTypes are the tow-truck body types the provider operates
	// (e.g. "flatbed", "wheel-lift"). Tow-truck providers only.
	TowTruckTypes []string

	// VehicleTypes are the customer vehicle classes the provider can carry
	// (e.g. "sedan", "suv", "truck"). Tow-truck providers only.
	VehicleTypes []string

	// Categories are the repair categories a mechanic covers
	// (e.g. "electrical", "tires"). Mechanic providers only.
	Categories []string
}

// Provider is the aggregate root for a roadside service worker. It owns the
// account state dispatch reads at selection time: role, approval, online
// flag, last reported location, capability tags and the push token
// notifications go to.
//
// Location updates arrive at high frequency from the mobile app, so MoveTo
// tolerates the (0,0) origin sentinel the app sends before it has a GPS fix.
// Consumers that need a trustworthy position must check HasValidLocation.
type Provider struct {
	id           kernel.UUID
	name         string
	role         kernel.Role
	verification VerificationStatus
	online       bool
	location     *kernel.GeoPoint
	capabilities Capabilities
	pushToken    *string

	guard guard.ConstructorGuard
}

// NewProvider registers a provider. New accounts start offline, unverified
// and without a location.
func NewProvider(
	id kernel.UUID,
	name string,
	role kernel.Role,
	capabilities Capabilities,
) (*Provider, error) {
	p := &Provider{
		verification: VerificationPending,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setRole(role),
	); err != nil {
		return nil, err
	}

	p.capabilities = capabilities
	return p, nil
}

// RestoreProvider reconstructs a Provider aggregate from persistent storage.
func RestoreProvider(
	id kernel.UUID,
	name string,
	role kernel.Role,
	verification VerificationStatus,
	online bool,
	location *kernel.GeoPoint,
	capabilities Capabilities,
	pushToken *string,
) (*Provider, error) {
	p := &Provider{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setRole(role),
		p.setVerification(verification),
		p.setLocation(location),
	); err != nil {
		return nil, err
	}

	p.online = online
	p.capabilities = capabilities
	p.pushToken = pushToken
	return p, nil
}

// Validate checks the Provider was created via a constructor.
func (p *Provider) Validate() error {
	if p == nil {
		return ErrProviderIsNotConstructed
	}
	return p.guard.Validate(ErrProviderIsNotConstructed)
}

// IsEqual compares two providers by identity.
func (p *Provider) IsEqual(other *Provider) bool {
	return other != nil && p.id.IsEqual(other.id)
}

// ID returns the provider's unique identifier.
func (p *Provider) ID() kernel.UUID { return p.id }

// Name returns the provider's display name.
func (p *Provider) Name() string { return p.name }

// Role returns the provider's service role.
func (p *Provider) Role() kernel.Role { return p.role }

// Verification returns the account's document-verification state.
func (p *Provider) Verification() VerificationStatus { return p.verification }

// IsOnline reports whether the provider is accepting work right now.
func (p *Provider) IsOnline() bool { return p.online }

// Location returns the last reported position, or nil when never reported.
func (p *Provider) Location() *kernel.GeoPoint { return p.location }

// Capabilities returns the provider's service-capability tags.
func (p *Provider) Capabilities() Capabilities { return p.capabilities }

// PushToken returns the registered push token, or nil.
func (p *Provider) PushToken() *string { return p.pushToken }

// HasValidLocation reports whether the provider has a trustworthy position:
// a reported point that is not the (0,0) origin sentinel.
func (p *Provider) HasValidLocation() bool {
	return p.location != nil && p.location.Validate() == nil && !p.location.IsOrigin()
}

// IsSelectable reports whether the account state allows dispatch to consider
// this provider at all: approved and currently online.
func (p *Provider) IsSelectable() bool {
	return p.verification == VerificationApproved && p.online
}

// GoOnline marks the provider as accepting work.
func (p *Provider) GoOnline() {
	p.online = true
}

// GoOffline marks the provider as unavailable.
func (p *Provider) GoOffline() {
	p.online = false
}

// MoveTo records a location update. The origin sentinel is stored as-is;
// HasValidLocation filters it out where a real position is required.
func (p *Provider) MoveTo(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	p.location = &location
	return nil
}

// SetPushToken registers the device push token notifications go to.
func (p *Provider) SetPushToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return errs.NewValueIsRequiredError("push token")
	}
	p.pushToken = &token
	return nil
}

// ClearPushToken removes the push token, e.g. after the push service reports
// it dead.
func (p *Provider) ClearPushToken() {
	p.pushToken = nil
}

// Approve marks the provider's documents as verified.
func (p *Provider) Approve() {
	p.verification = VerificationApproved
}

// Reject declines the provider's documents. A rejected provider is also
// forced offline so they cannot appear available.
func (p *Provider) Reject() {
	p.verification = VerificationRejected
	p.online = false
}

// UpdateCapabilities replaces the provider's capability tags.
func (p *Provider) UpdateCapabilities(capabilities Capabilities) {
	p.capabilities = capabilities
}

func (p *Provider) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Provider) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}
	p.name = name
	return nil
}

func (p *Provider) setRole(role kernel.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	p.role = role
	return nil
}

func (p *Provider) setVerification(s VerificationStatus) error {
	if err := s.Validate(); err != nil {
		return err
	}
	p.verification = s
	return nil
}

func (p *Provider) setLocation(location *kernel.GeoPoint) error {
	if location != nil {
		if err := location.Validate(); err != nil {
			return err
		}
	}
	p.location = location
	return nil
}
