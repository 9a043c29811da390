package commands

import (
	"errors"
	"strings"

	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/core/domain/model/provider"
	"roadside/internal/pkg/errs"
	"roadside/internal/pkg/guard"
)

// ErrRegisterProviderCommandIsNotConstructed is returned when using an
// improperly initialized RegisterProviderCommand.
var ErrRegisterProviderCommandIsNotConstructed = errors.New(
	"RegisterProviderCommand must be created via NewRegisterProviderCommand constructor")

// RegisterProviderCommand represents a request to register a new provider
// account.
type RegisterProviderCommand struct { //nolint:recvcheck //using for validation
	providerID   kernel.UUID
	name         string
	role         kernel.Role
	capabilities provider.Capabilities

	guard guard.ConstructorGuard
}

// NewRegisterProviderCommand creates a provider registration command.
func NewRegisterProviderCommand(
	providerID kernel.UUID,
	name string,
	role kernel.Role,
	capabilities provider.Capabilities,
) (RegisterProviderCommand, error) {
	cmd := RegisterProviderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setProviderID(providerID),
		cmd.setName(name),
		cmd.setRole(role),
	); err != nil {
		return RegisterProviderCommand{}, err
	}

	cmd.capabilities = capabilities
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterProviderCommand) Validate() error {
	return c.guard.Validate(ErrRegisterProviderCommandIsNotConstructed)
}

// ProviderID returns the identifier for the new provider.
func (c RegisterProviderCommand) ProviderID() kernel.UUID { return c.providerID }

// Name returns the provider's display name.
func (c RegisterProviderCommand) Name() string { return c.name }

// Role returns the provider's service role.
func (c RegisterProviderCommand) Role() kernel.Role { return c.role }

// Capabilities returns the provider's capability tags.
func (c RegisterProviderCommand) Capabilities() provider.Capabilities { return c.capabilities }

func (c *RegisterProviderCommand) setProviderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.providerID = id
	return nil
}

func (c *RegisterProviderCommand) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}

func (c *RegisterProviderCommand) setRole(role kernel.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	c.role = role
	return nil
}
